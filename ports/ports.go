// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/monada-ai/apidocs/domain/catalog"
	"github.com/monada-ai/apidocs/domain/tryit"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock provides the current time. Latency and uptime are measured with it.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Domain Ports
// -----------------------------------------------------------------------------

// Executor performs a try-it request against the documented API.
type Executor interface {
	Execute(ctx context.Context, req tryit.Request) (tryit.Response, error)
}

// Catalog is the read side of the schema catalog used by the web shell.
type Catalog interface {
	Lookup(name string) (catalog.Schema, error)
	Resolve(ref string) (catalog.Schema, error)
	IndexOf(name string) (int, error)
	All() []catalog.Schema
	Categories() []catalog.Category
	CategoryNames() []string
	Endpoint(category string, index int) (catalog.Endpoint, error)
	FilterSchemas(p catalog.Predicate) []catalog.Match[catalog.Schema]
	FilterCategories(p catalog.Predicate) []catalog.CategoryMatch
}

// Ensure the catalog satisfies the port.
var _ Catalog = (*catalog.Catalog)(nil)
