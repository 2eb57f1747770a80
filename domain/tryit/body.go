package tryit

import (
	"bytes"
	"encoding/json"

	"github.com/monada-ai/apidocs/domain/catalog"
)

// SchemaSource resolves schema references while generating a body.
type SchemaSource interface {
	Resolve(ref string) (catalog.Schema, error)
}

// Field is one member of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps the declaration order of its members.
type Object []Field

// MarshalJSON encodes the members in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// DefaultBody returns the placeholder value of a request body: "" for strings
// and opaque objects, 0 for numbers, null for booleans and enums, a
// one-element list for arrays and the members of objects and schemas.
// Schema references are expanded in place rather than left null.
// A schema that is already being expanded on the current path becomes null.
func DefaultBody(src SchemaSource, d *catalog.TypeDesc) any {
	if d == nil {
		return nil
	}
	return defaultValue(src, *d, map[string]bool{})
}

// DefaultBodyJSON is DefaultBody encoded with two-space indentation.
func DefaultBodyJSON(src SchemaSource, d *catalog.TypeDesc) []byte {
	if d == nil {
		return nil
	}
	out, err := json.MarshalIndent(DefaultBody(src, d), "", "  ")
	if err != nil {
		return nil
	}
	return out
}

func defaultValue(src SchemaSource, d catalog.TypeDesc, expanding map[string]bool) any {
	switch d.Kind {
	case catalog.KindString:
		return ""
	case catalog.KindNumber:
		return 0
	case catalog.KindObject:
		return defaultObject(src, d.Properties, expanding)
	case catalog.KindArray:
		if d.Items == nil {
			return []any{}
		}
		return []any{defaultValue(src, *d.Items, expanding)}
	case catalog.KindSchema:
		if expanding[d.Schema] {
			return nil
		}
		s, err := src.Resolve(d.Schema)
		if err != nil {
			return nil
		}
		expanding[d.Schema] = true
		defer delete(expanding, d.Schema)
		return defaultObject(src, s.Properties, expanding)
	default:
		return nil
	}
}

func defaultObject(src SchemaSource, props []catalog.Property, expanding map[string]bool) any {
	if len(props) == 0 {
		return ""
	}
	obj := make(Object, len(props))
	for i, p := range props {
		obj[i] = Field{Key: p.Name, Value: defaultValue(src, p.TypeDesc, expanding)}
	}
	return obj
}
