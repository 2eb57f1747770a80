// Package web serves the API reference pages.
// All templates and static files are embedded in the binary.
// Every request builds its own navigation surface; no state lives between requests.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/monada-ai/apidocs/adapters/metrics"
	"github.com/monada-ai/apidocs/core/openapi"
	"github.com/monada-ai/apidocs/domain/resolver"
	"github.com/monada-ai/apidocs/ports"
)

//go:embed templates/* static/*
var assets embed.FS

// Settings are the reloadable parts of the configuration the pages read.
type Settings struct {
	Title        string
	LogoURL      string
	DefaultTheme Theme
	// UpstreamURL and APIPrefix locate the documented API, e.g.
	// "https://app.monada.ai" and "/api".
	UpstreamURL string
	APIPrefix   string
}

// BaseURL returns the URL the documented paths are relative to.
func (s Settings) BaseURL() string {
	return strings.TrimRight(s.UpstreamURL, "/") + s.APIPrefix
}

// Handler provides the reference page endpoints.
type Handler struct {
	templates map[string]*template.Template
	catalog   ports.Catalog
	resolver  *resolver.Resolver
	executor  ports.Executor
	openapi   *openapi.Service
	metrics   *metrics.Collector
	logger    zerolog.Logger
	settings  atomic.Pointer[Settings]
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Catalog  ports.Catalog
	Executor ports.Executor
	OpenAPI  *openapi.Service // nil disables /openapi.json and Swagger UI
	Metrics  *metrics.Collector
	Logger   zerolog.Logger
	Settings Settings
}

// NewHandler creates a new web handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("web: catalog is required")
	}
	if deps.Executor == nil {
		return nil, fmt.Errorf("web: executor is required")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		templates: tmpl,
		catalog:   deps.Catalog,
		resolver:  resolver.New(deps.Catalog),
		executor:  deps.Executor,
		openapi:   deps.OpenAPI,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
	h.SetSettings(deps.Settings)
	return h, nil
}

// SetSettings replaces the page settings. Safe to call while serving.
func (h *Handler) SetSettings(s Settings) {
	if s.Title == "" {
		s.Title = "API Documentation"
	}
	s.DefaultTheme = ParseTheme(string(s.DefaultTheme), ThemeDark)
	h.settings.Store(&s)
}

// Settings returns the current page settings.
func (h *Handler) Settings() Settings {
	return *h.settings.Load()
}

// Router returns the docs router, to be mounted at /docs.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	staticFS, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/docs/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", h.ReferencePage)
	r.Get("/schemas/{name}", h.SchemaLink)
	r.Post("/theme", h.ToggleTheme)
	r.Post("/execute/{category}/{index}", h.Execute)

	if h.openapi != nil {
		r.Get("/openapi.json", h.OpenAPISpec)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/openapi.json"),
		))
	}

	return r
}

// render executes a page into a buffer so a template failure never leaves a
// half-written response.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("template render error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) renderPartial(w http.ResponseWriter, name string, data any) {
	tmpl, ok := h.templates["reference"]
	if !ok {
		h.logger.Error().Str("template", name).Msg("partial render error: no base template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("partial render error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// parseTemplates parses each page together with the layout and components.
func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"nodeKind": nodeKind,
		"upper":    strings.ToUpper,
	}

	templates := make(map[string]*template.Template)

	layoutContent, err := fs.ReadFile(assets, "templates/layouts/base.html")
	if err != nil {
		return nil, err
	}

	var componentContent []byte
	components, err := fs.Glob(assets, "templates/components/*.html")
	if err != nil {
		return nil, err
	}
	for _, comp := range components {
		content, err := fs.ReadFile(assets, comp)
		if err != nil {
			return nil, err
		}
		componentContent = append(componentContent, content...)
	}

	pages, err := fs.Glob(assets, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/pages/"), ".html")

		pageContent, err := fs.ReadFile(assets, page)
		if err != nil {
			return nil, err
		}

		tmpl := template.New(name).Funcs(funcs)
		if _, err := tmpl.Parse(string(layoutContent)); err != nil {
			return nil, fmt.Errorf("parse layout for %s: %w", name, err)
		}
		if len(componentContent) > 0 {
			if _, err := tmpl.Parse(string(componentContent)); err != nil {
				return nil, fmt.Errorf("parse components for %s: %w", name, err)
			}
		}
		if _, err := tmpl.Parse(string(pageContent)); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}

		templates[name] = tmpl
	}

	return templates, nil
}

// nodeKind names the concrete node type for template dispatch.
func nodeKind(n resolver.Node) string {
	switch n.(type) {
	case resolver.PrimitiveNode:
		return "primitive"
	case resolver.EnumNode:
		return "enum"
	case resolver.ArrayNode:
		return "array"
	case resolver.ObjectNode:
		return "object"
	case resolver.OpaqueNode:
		return "opaque"
	case resolver.SchemaRefNode:
		return "ref"
	case resolver.ErrorNode:
		return "error"
	default:
		return ""
	}
}
