// Package resolver turns catalog type descriptors into display trees.
//
// Rendering is lazy and one level deep at schema boundaries: a schema
// reference becomes a SchemaRefNode pointing at the target and is never
// expanded inline, so cyclic schema graphs always terminate. Inline objects
// and array items are rendered recursively because they are finite trees.
package resolver

import (
	"slices"

	"github.com/monada-ai/apidocs/domain/catalog"
	"github.com/monada-ai/apidocs/domain/navigation"
)

// SchemaSource resolves schema references by name.
type SchemaSource interface {
	Resolve(ref string) (catalog.Schema, error)
	IndexOf(name string) (int, error)
}

// NavigateFunc receives the selection requested by an activated reference.
type NavigateFunc func(kind navigation.Kind, index int)

// Resolver renders descriptors against a schema source.
type Resolver struct {
	src SchemaSource
}

// New creates a resolver backed by src.
func New(src SchemaSource) *Resolver {
	return &Resolver{src: src}
}

// Render resolves one descriptor into a display node.
func (r *Resolver) Render(d catalog.TypeDesc, onNavigate NavigateFunc) Node {
	if err := catalog.CheckDesc(d); err != nil {
		return ErrorNode{Err: &catalog.ConfigurationError{Message: err.Error()}}
	}

	switch d.Kind {
	case catalog.KindString, catalog.KindNumber, catalog.KindBoolean:
		return PrimitiveNode{Label: string(d.Kind)}
	case catalog.KindEnum:
		return EnumNode{Values: slices.Clone(d.Enum)}
	case catalog.KindArray:
		return ArrayNode{Item: r.Render(*d.Items, onNavigate)}
	case catalog.KindObject:
		return r.object(d.Properties, onNavigate)
	default: // catalog.KindSchema
		return r.ref(d.Schema, onNavigate)
	}
}

// RenderProperty renders a single property row.
func (r *Resolver) RenderProperty(p catalog.Property, onNavigate NavigateFunc) Row {
	row := Row{
		Name:        p.Name,
		TypeLabel:   string(p.Kind),
		Description: p.Description,
	}
	if !p.Kind.IsPrimitive() {
		row.Detail = r.Render(p.TypeDesc, onNavigate)
	}
	return row
}

// SchemaCard is the rendering of a whole catalog schema.
type SchemaCard struct {
	Name        string
	Description string
	// Body is an ObjectNode, or an OpaqueNode for schemas without properties.
	Body Node
}

// RenderSchema renders a schema's own properties. References inside it stay pointers.
func (r *Resolver) RenderSchema(s catalog.Schema, onNavigate NavigateFunc) SchemaCard {
	return SchemaCard{
		Name:        s.Name,
		Description: s.Description,
		Body:        r.object(s.Properties, onNavigate),
	}
}

func (r *Resolver) object(props []catalog.Property, onNavigate NavigateFunc) Node {
	if len(props) == 0 {
		return OpaqueNode{}
	}
	rows := make([]Row, len(props))
	for i, p := range props {
		rows[i] = r.RenderProperty(p, onNavigate)
	}
	return ObjectNode{Rows: rows}
}

func (r *Resolver) ref(name string, onNavigate NavigateFunc) Node {
	s, err := r.src.Resolve(name)
	if err != nil {
		return ErrorNode{Err: err}
	}
	idx, err := r.src.IndexOf(s.Name)
	if err != nil {
		return ErrorNode{Err: err}
	}
	return SchemaRefNode{
		Label: s.Name,
		Index: idx,
		Activate: func() {
			if onNavigate != nil {
				onNavigate(navigation.KindSchema, idx)
			}
		},
	}
}
