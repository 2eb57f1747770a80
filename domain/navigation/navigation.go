// Package navigation maps a (kind, index) selection to the location the page
// shell scrolls to and highlights. It owns no scroll mechanism or URL itself;
// the shell subscribes to selection changes and reads the query and anchor
// forms of the current selection.
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/monada-ai/apidocs/domain/catalog"
)

// Kind tags which namespace a selection index refers to.
type Kind string

const (
	KindCategory Kind = "category"
	KindSchema   Kind = "schema"
)

// SchemasCategory is the pseudo-category that lists the object schemas.
const SchemasCategory = catalog.SchemasCategory

// NoEndpoint marks a category selection without a specific endpoint.
const NoEndpoint = -1

// ErrOutOfRange is returned when a selection index has no target.
var ErrOutOfRange = errors.New("selection out of range")

// Selection is the current navigation target.
type Selection struct {
	Kind     Kind
	Index    int    // category position for KindCategory, schema position for KindSchema
	Category string // category name, SchemasCategory for KindSchema
	Endpoint int    // endpoint position within the category or NoEndpoint
}

// Query returns the URL query form of the selection (?category=&endpoint=).
func (s Selection) Query() url.Values {
	v := url.Values{}
	v.Set("category", s.Category)
	switch {
	case s.Kind == KindSchema:
		v.Set("endpoint", strconv.Itoa(s.Index))
	case s.Endpoint != NoEndpoint:
		v.Set("endpoint", strconv.Itoa(s.Endpoint))
	}
	return v
}

// Anchor returns the element id the shell scrolls to.
func (s Selection) Anchor() string {
	if s.Kind == KindSchema {
		return fmt.Sprintf("%s-%d", SchemasCategory, s.Index)
	}
	if s.Endpoint == NoEndpoint {
		return s.Category
	}
	return fmt.Sprintf("%s-%d", s.Category, s.Endpoint)
}

// Surface holds the current selection over a fixed set of categories and schemas.
// It starts Unselected; once selected it is only ever replaced, never cleared.
type Surface struct {
	categories []string
	schemas    int

	mu          sync.RWMutex
	current     *Selection
	subscribers map[int]func(Selection)
	nextID      int
}

// New creates an unselected surface for the given category names and schema count.
func New(categories []string, schemas int) *Surface {
	return &Surface{
		categories:  slices.Clone(categories),
		schemas:     schemas,
		subscribers: make(map[int]func(Selection)),
	}
}

// Select replaces the current selection. For KindCategory the index is the
// category position and no endpoint is selected.
func (s *Surface) Select(kind Kind, index int) error {
	switch kind {
	case KindSchema:
		if index < 0 || index >= s.schemas {
			return fmt.Errorf("%w: schema %d", ErrOutOfRange, index)
		}
		s.set(Selection{Kind: KindSchema, Index: index, Category: SchemasCategory, Endpoint: NoEndpoint})
		return nil
	case KindCategory:
		return s.SelectEndpoint(index, NoEndpoint)
	default:
		return fmt.Errorf("unknown selection kind %q", kind)
	}
}

// SelectEndpoint selects one endpoint of a category.
// Endpoint bounds are not known to the surface and are checked by the shell.
func (s *Surface) SelectEndpoint(category, endpoint int) error {
	if category < 0 || category >= len(s.categories) {
		return fmt.Errorf("%w: category %d", ErrOutOfRange, category)
	}
	if endpoint < NoEndpoint {
		return fmt.Errorf("%w: endpoint %d", ErrOutOfRange, endpoint)
	}
	s.set(Selection{Kind: KindCategory, Index: category, Category: s.categories[category], Endpoint: endpoint})
	return nil
}

// Current returns the selection, or false while the surface is Unselected.
func (s *Surface) Current() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Selection{}, false
	}
	return *s.current, true
}

// Subscribe registers fn to be called after every selection change.
// The returned function removes the subscription.
func (s *Surface) Subscribe(fn func(Selection)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// FromQuery selects the target named by ?category=&endpoint=.
// Unknown categories and malformed indices leave the surface unchanged.
func (s *Surface) FromQuery(v url.Values) error {
	category := v.Get("category")
	if category == "" {
		return nil
	}

	endpoint := NoEndpoint
	if raw := v.Get("endpoint"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse endpoint %q: %w", raw, err)
		}
		endpoint = n
	}

	if category == SchemasCategory {
		if endpoint == NoEndpoint {
			return fmt.Errorf("%w: schema selection needs an index", ErrOutOfRange)
		}
		return s.Select(KindSchema, endpoint)
	}

	idx := slices.Index(s.categories, category)
	if idx < 0 {
		return fmt.Errorf("%w: unknown category %q", ErrOutOfRange, category)
	}
	return s.SelectEndpoint(idx, endpoint)
}

func (s *Surface) set(sel Selection) {
	s.mu.Lock()
	s.current = &sel
	subs := make([]func(Selection), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sel)
	}
}
