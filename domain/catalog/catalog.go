// Package catalog provides the immutable schema and endpoint value types of the API reference.
// Schemas reference each other by name only, so cyclic schema graphs are built without
// eager recursion and every reference is resolved on demand through the Catalog.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Kind is the type tag of a property or endpoint body/response descriptor.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"   // Enum holds the values in display order
	KindArray   Kind = "array"  // Items holds the element type (one level)
	KindObject  Kind = "object" // Properties holds the inline fields; none means opaque
	KindSchema  Kind = "schema" // Schema names a catalog schema
)

// IsPrimitive reports whether the kind renders as a bare label.
func (k Kind) IsPrimitive() bool {
	return k == KindString || k == KindNumber || k == KindBoolean
}

// SchemaKind distinguishes structured schemas from opaque JSON blobs.
type SchemaKind string

const (
	SchemaObject SchemaKind = "object"
	SchemaOpaque SchemaKind = "opaque"
)

// TypeDesc describes the shape of a value.
// It is used for properties, array items and endpoint body/response roots.
type TypeDesc struct {
	Kind        Kind       `yaml:"type" json:"type"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Enum        []string   `yaml:"enum,omitempty" json:"enum,omitempty"`
	Items       *TypeDesc  `yaml:"items,omitempty" json:"items,omitempty"`
	Properties  []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
	Schema      string     `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Property is a named field of a schema or inline object.
type Property struct {
	Name     string `yaml:"name" json:"name"`
	TypeDesc `yaml:",inline"`
}

// Schema is a named object definition. Name is the identity key.
type Schema struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Properties  []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Kind returns SchemaOpaque when the schema declares no properties.
func (s Schema) Kind() SchemaKind {
	if len(s.Properties) == 0 {
		return SchemaOpaque
	}
	return SchemaObject
}

// Param describes a URL or query parameter of an endpoint.
type Param struct {
	Name        string  `yaml:"name" json:"name"`
	Type        string  `yaml:"type" json:"type"` // display label only
	Description string  `yaml:"description" json:"description"`
	Optional    bool    `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default     *string `yaml:"default,omitempty" json:"default,omitempty"`
}

// DefaultValue returns the example value or "" when none is declared.
func (p Param) DefaultValue() string {
	if p.Default == nil {
		return ""
	}
	return *p.Default
}

// Endpoint documents one remote API operation.
type Endpoint struct {
	Method      string    `yaml:"method" json:"method"`
	Path        string    `yaml:"path" json:"path"` // may contain :name placeholders
	Description string    `yaml:"description" json:"description"`
	URLParams   []Param   `yaml:"urlParams,omitempty" json:"urlParams,omitempty"`
	Query       []Param   `yaml:"query,omitempty" json:"query,omitempty"`
	Body        *TypeDesc `yaml:"body,omitempty" json:"body,omitempty"`
	Response    *TypeDesc `yaml:"response,omitempty" json:"response,omitempty"`
	Note        string    `yaml:"note,omitempty" json:"note,omitempty"`
}

// Category groups endpoints under a heading.
type Category struct {
	Name         string     `yaml:"category" json:"category"`
	Introduction []string   `yaml:"introduction,omitempty" json:"introduction,omitempty"`
	Endpoints    []Endpoint `yaml:"endpoints" json:"endpoints"`
}

// SchemasCategory is the drawer heading that lists the object schemas.
// No endpoint category may use it.
const SchemasCategory = "Object Schemas"

// Catalog is the immutable arena of schemas and endpoint categories.
// It is safe for concurrent use.
type Catalog struct {
	schemas     []Schema
	schemaIndex map[string]int
	categories  []Category
	catIndex    map[string]int
}

// New builds a catalog and validates the whole descriptor graph.
// Duplicate names, dangling schema references and malformed descriptors are
// reported together as ConfigurationErrors.
func New(schemas []Schema, categories []Category) (*Catalog, error) {
	c := &Catalog{
		schemas:     slices.Clone(schemas),
		schemaIndex: make(map[string]int, len(schemas)),
		categories:  slices.Clone(categories),
		catIndex:    make(map[string]int, len(categories)),
	}

	var errs []error
	for i, s := range c.schemas {
		if s.Name == "" {
			errs = append(errs, configErr(fmt.Sprintf("schemas[%d]", i), "schema name is required"))
			continue
		}
		if _, dup := c.schemaIndex[s.Name]; dup {
			errs = append(errs, configErr("schemas."+s.Name, "duplicate schema name"))
			continue
		}
		c.schemaIndex[s.Name] = i
	}
	for i, cat := range c.categories {
		if cat.Name == "" {
			errs = append(errs, configErr(fmt.Sprintf("categories[%d]", i), "category name is required"))
			continue
		}
		if cat.Name == SchemasCategory {
			errs = append(errs, configErr("categories."+cat.Name, "category name is reserved for the schema list"))
			continue
		}
		if _, dup := c.catIndex[cat.Name]; dup {
			errs = append(errs, configErr("categories."+cat.Name, "duplicate category name"))
			continue
		}
		c.catIndex[cat.Name] = i
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the schema with the given name.
func (c *Catalog) Lookup(name string) (Schema, error) {
	i, ok := c.schemaIndex[name]
	if !ok {
		return Schema{}, &NotFoundError{Namespace: NamespaceSchema, Name: name}
	}
	return c.schemas[i], nil
}

// Resolve dereferences a schema reference. It is the deferred half of a
// KindSchema descriptor and is only called when the reference is rendered.
func (c *Catalog) Resolve(ref string) (Schema, error) {
	s, err := c.Lookup(ref)
	if err != nil {
		return Schema{}, fmt.Errorf("resolve %q: %w", ref, err)
	}
	return s, nil
}

// IndexOf returns the position of the named schema in All.
func (c *Catalog) IndexOf(name string) (int, error) {
	i, ok := c.schemaIndex[name]
	if !ok {
		return -1, &NotFoundError{Namespace: NamespaceSchema, Name: name}
	}
	return i, nil
}

// All returns the schemas in declaration order.
func (c *Catalog) All() []Schema {
	return slices.Clone(c.schemas)
}

// Categories returns the endpoint categories in declaration order.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Category returns the named endpoint category.
func (c *Catalog) Category(name string) (Category, error) {
	i, ok := c.catIndex[name]
	if !ok {
		return Category{}, &NotFoundError{Namespace: NamespaceCategory, Name: name}
	}
	return c.categories[i], nil
}

// CategoryIndex returns the position of the named category in Categories.
func (c *Catalog) CategoryIndex(name string) (int, error) {
	i, ok := c.catIndex[name]
	if !ok {
		return -1, &NotFoundError{Namespace: NamespaceCategory, Name: name}
	}
	return i, nil
}

// Endpoint returns the endpoint at index within the named category.
func (c *Catalog) Endpoint(category string, index int) (Endpoint, error) {
	cat, err := c.Category(category)
	if err != nil {
		return Endpoint{}, err
	}
	if index < 0 || index >= len(cat.Endpoints) {
		return Endpoint{}, &NotFoundError{
			Namespace: NamespaceEndpoint,
			Name:      fmt.Sprintf("%s[%d]", category, index),
		}
	}
	return cat.Endpoints[index], nil
}

// CategoryNames returns the category names in declaration order.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}
