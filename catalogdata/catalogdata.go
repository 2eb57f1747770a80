// Package catalogdata embeds the built-in Monada API reference catalog.
package catalogdata

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/monada-ai/apidocs/domain/catalog"
)

//go:embed monada.yaml
var monadaYAML []byte

var (
	once    sync.Once
	builtin *catalog.Catalog
	loadErr error
)

// Default returns the embedded catalog. It is decoded and validated once;
// later calls share the same immutable value.
func Default() (*catalog.Catalog, error) {
	once.Do(func() {
		builtin, loadErr = catalog.Parse(monadaYAML)
		if loadErr != nil {
			loadErr = fmt.Errorf("embedded catalog: %w", loadErr)
		}
	})
	return builtin, loadErr
}

// Raw returns the embedded YAML document.
func Raw() []byte {
	return monadaYAML
}

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) (*catalog.Catalog, error) {
	if path == "" {
		return Default()
	}
	return catalog.LoadFile(path)
}
