package idgen_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/monada-ai/apidocs/adapters/idgen"
)

func TestUUID_New(t *testing.T) {
	uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	tests := []struct {
		name   string
		prefix string
	}{
		{"no prefix", ""},
		{"with prefix", "tryit-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := idgen.UUID{Prefix: tt.prefix}.New()
			if len(id) < len(tt.prefix) || id[:len(tt.prefix)] != tt.prefix {
				t.Fatalf("ID %s does not start with %q", id, tt.prefix)
			}
			if !uuidRegex.MatchString(id[len(tt.prefix):]) {
				t.Errorf("ID %s doesn't match UUID v4 format", id)
			}
		})
	}
}

func TestUUID_New_Unique(t *testing.T) {
	g := idgen.UUID{}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.New()
		if seen[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestSequential_New(t *testing.T) {
	g := idgen.NewSequential("req-")

	for _, want := range []string{"req-1", "req-2", "req-3"} {
		if got := g.New(); got != want {
			t.Errorf("New() = %s, want %s", got, want)
		}
	}
}

func TestSequential_Concurrent(t *testing.T) {
	g := idgen.NewSequential("")

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.New()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != 100 {
		t.Errorf("got %d unique IDs, want 100", len(seen))
	}
}
