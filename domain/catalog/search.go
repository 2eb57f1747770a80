package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Predicate decides whether a piece of display text matches a search.
type Predicate func(text string) bool

// Contains returns a case-insensitive substring predicate.
// An empty term matches everything.
func Contains(term string) Predicate {
	if strings.TrimSpace(term) == "" {
		return func(string) bool { return true }
	}
	needle := cases.Fold().String(term)
	return func(text string) bool {
		// A cases.Caser keeps state and must not be shared across goroutines.
		return strings.Contains(cases.Fold().String(text), needle)
	}
}

// Match pairs a filtered item with its position in the unfiltered list.
// Navigation indices always refer to the unfiltered position.
type Match[T any] struct {
	Index int
	Item  T
}

// FilterSchemas returns the schemas whose name satisfies p, in declaration order.
func (c *Catalog) FilterSchemas(p Predicate) []Match[Schema] {
	out := make([]Match[Schema], 0, len(c.schemas))
	for i, s := range c.schemas {
		if p(s.Name) {
			out = append(out, Match[Schema]{Index: i, Item: s})
		}
	}
	return out
}

// CategoryMatch is a category narrowed to the endpoints that satisfy a search.
type CategoryMatch struct {
	Index     int
	Name      string
	Endpoints []Match[Endpoint]
}

// FilterCategories keeps the endpoints whose path or description satisfies p.
// Categories left without endpoints are dropped.
func (c *Catalog) FilterCategories(p Predicate) []CategoryMatch {
	var out []CategoryMatch
	for ci, cat := range c.categories {
		m := CategoryMatch{Index: ci, Name: cat.Name}
		for ei, ep := range cat.Endpoints {
			if p(ep.Path) || p(ep.Description) {
				m.Endpoints = append(m.Endpoints, Match[Endpoint]{Index: ei, Item: ep})
			}
		}
		if len(m.Endpoints) > 0 {
			out = append(out, m)
		}
	}
	return out
}
