package openapi

import (
	"strings"
	"unicode"

	"github.com/monada-ai/apidocs/domain/catalog"
)

// Source is the catalog read by the generator.
type Source interface {
	All() []catalog.Schema
	Categories() []catalog.Category
}

// Generator generates OpenAPI specs from the catalog.
type Generator struct {
	src     Source
	info    Info
	prefix  string
	servers []Server
}

// NewGenerator creates a new OpenAPI generator.
func NewGenerator(src Source) *Generator {
	return &Generator{
		src: src,
		info: Info{
			Title:   "Monada API",
			Version: "1.0.0",
		},
	}
}

// SetInfo sets the API info.
func (g *Generator) SetInfo(info Info) {
	g.info = info
}

// SetPathPrefix prepends prefix (e.g. "/api") to every documented path.
func (g *Generator) SetPathPrefix(prefix string) {
	g.prefix = strings.TrimRight(prefix, "/")
}

// AddServer adds a server URL.
func (g *Generator) AddServer(url, description string) {
	g.servers = append(g.servers, Server{
		URL:         url,
		Description: description,
	})
}

// Generate creates the OpenAPI specification. Schema references become
// $ref pointers into components, so cyclic schemas need no expansion.
func (g *Generator) Generate() *Spec {
	spec := &Spec{
		OpenAPI: "3.0.3",
		Info:    g.info,
		Servers: g.servers,
		Paths:   make(map[string]PathItem),
		Components: Components{
			Schemas: make(map[string]*Schema),
		},
		Tags: make([]Tag, 0),
	}

	for _, s := range g.src.All() {
		spec.Components.Schemas[s.Name] = objectSchema(s.Description, s.Properties)
	}

	for _, cat := range g.src.Categories() {
		spec.Tags = append(spec.Tags, Tag{
			Name:        cat.Name,
			Description: strings.Join(cat.Introduction, "\n\n"),
		})
		for _, ep := range cat.Endpoints {
			g.addEndpoint(spec, cat.Name, ep)
		}
	}

	return spec
}

func (g *Generator) addEndpoint(spec *Spec, tag string, ep catalog.Endpoint) {
	path := g.prefix + ConvertPath(ep.Path)

	op := &Operation{
		Tags:        []string{tag},
		Summary:     ep.Description,
		Description: ep.Note,
		OperationID: OperationID(ep.Method, ep.Path),
		Responses:   make(map[string]Response),
	}

	for _, p := range ep.URLParams {
		op.Parameters = append(op.Parameters, parameter(p, "path", true))
	}
	for _, p := range ep.Query {
		op.Parameters = append(op.Parameters, parameter(p, "query", !p.Optional))
	}

	if ep.Body != nil {
		op.RequestBody = &RequestBody{
			Description: ep.Body.Description,
			Required:    true,
			Content: map[string]MediaType{
				"application/json": {Schema: descSchema(*ep.Body)},
			},
		}
	}

	ok := Response{Description: "Successful response"}
	if ep.Response != nil {
		if ep.Response.Description != "" {
			ok.Description = ep.Response.Description
		}
		ok.Content = map[string]MediaType{
			"application/json": {Schema: descSchema(*ep.Response)},
		}
	}
	op.Responses["200"] = ok

	item := spec.Paths[path]
	switch strings.ToUpper(ep.Method) {
	case "GET":
		item.Get = op
	case "POST":
		item.Post = op
	case "PUT":
		item.Put = op
	case "PATCH":
		item.Patch = op
	case "DELETE":
		item.Delete = op
	}
	spec.Paths[path] = item
}

func parameter(p catalog.Param, in string, required bool) Parameter {
	s := &Schema{Type: paramType(p.Type)}
	if p.Default != nil && *p.Default != "" {
		s.Example = *p.Default
	}
	return Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Required:    required,
		Schema:      s,
	}
}

func paramType(label string) string {
	switch label {
	case "number", "boolean", "integer":
		return label
	default:
		return "string"
	}
}

func objectSchema(description string, props []catalog.Property) *Schema {
	s := &Schema{Type: "object", Description: description}
	if len(props) == 0 {
		return s
	}
	s.Properties = make(map[string]*Schema, len(props))
	for _, p := range props {
		s.Properties[p.Name] = descSchema(p.TypeDesc)
	}
	return s
}

func descSchema(d catalog.TypeDesc) *Schema {
	switch d.Kind {
	case catalog.KindString, catalog.KindNumber, catalog.KindBoolean:
		return &Schema{Type: string(d.Kind), Description: d.Description}
	case catalog.KindEnum:
		return &Schema{Type: "string", Description: d.Description, Enum: d.Enum}
	case catalog.KindArray:
		s := &Schema{Type: "array", Description: d.Description}
		if d.Items != nil {
			s.Items = descSchema(*d.Items)
		}
		return s
	case catalog.KindObject:
		return objectSchema(d.Description, d.Properties)
	case catalog.KindSchema:
		ref := &Schema{Ref: "#/components/schemas/" + d.Schema}
		if d.Description == "" {
			return ref
		}
		// Siblings of $ref are ignored in 3.0, so the description wraps it.
		return &Schema{Description: d.Description, AllOf: []*Schema{ref}}
	default:
		return &Schema{Description: d.Description}
	}
}

// ConvertPath rewrites :name placeholders to OpenAPI {name} templates.
func ConvertPath(path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if name, ok := strings.CutPrefix(seg, ":"); ok && name != "" {
			segs[i] = "{" + name + "}"
		}
	}
	return strings.Join(segs, "/")
}

// OperationID derives a camelCase operation id, e.g. GET /accounts/:accountId -> getAccountsByAccountId.
func OperationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			b.WriteString("By")
			seg = name
		}
		for _, word := range strings.FieldsFunc(seg, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			r := []rune(word)
			r[0] = unicode.ToUpper(r[0])
			b.WriteString(string(r))
		}
	}
	return b.String()
}
