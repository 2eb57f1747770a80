package resolver

import "fmt"

// Node is one level of a rendered type tree. The set of node types is closed.
type Node interface {
	node()
}

// PrimitiveNode is a bare type label: string, number or boolean.
type PrimitiveNode struct {
	Label string
}

// EnumNode lists the permitted values in declaration order.
type EnumNode struct {
	Values []string
}

// ArrayNode wraps the rendering of the element type. Arrays are one level deep.
type ArrayNode struct {
	Item Node
}

// ObjectNode is an inline object with one row per property.
type ObjectNode struct {
	Rows []Row
}

// OpaqueNode is an object without declared properties.
type OpaqueNode struct{}

// SchemaRefNode points at a named catalog schema without expanding it.
// Activate moves the navigation selection to the schema.
type SchemaRefNode struct {
	Label    string
	Index    int
	Activate func()
}

// ErrorNode is a visible placeholder for a descriptor that could not be rendered.
type ErrorNode struct {
	Err error
}

func (PrimitiveNode) node() {}
func (EnumNode) node()      {}
func (ArrayNode) node()     {}
func (ObjectNode) node()    {}
func (OpaqueNode) node()    {}
func (SchemaRefNode) node() {}
func (ErrorNode) node()     {}

// Row is one property of an object or schema.
type Row struct {
	Name        string
	TypeLabel   string
	Description string
	// Detail is nil for primitive properties.
	Detail Node
}

// Text returns the caption shown above the property table.
func (ObjectNode) Text() string {
	return "JSON object with the following properties:"
}

// Text returns the caption of an object without properties.
func (OpaqueNode) Text() string {
	return "JSON object."
}

// Text returns the caption shown before the enum values.
func (EnumNode) Text() string {
	return "Possible values:"
}

// Text returns the link text of the reference.
func (n SchemaRefNode) Text() string {
	return n.Label + " (Schema)"
}

// Text returns the placeholder message.
func (n ErrorNode) Text() string {
	return "Unable to render type: " + n.Err.Error()
}

// Text returns the caption that introduces the element type.
func (n ArrayNode) Text() string {
	switch item := n.Item.(type) {
	case ObjectNode:
		return "Array of JSON objects with the following properties:"
	case OpaqueNode:
		return "Array of JSON objects."
	case SchemaRefNode:
		return "Array of"
	case EnumNode:
		return "Array of values."
	case PrimitiveNode:
		return fmt.Sprintf("Array of %ss.", item.Label)
	default:
		return "Array of"
	}
}
