package openapi

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// Service serves the generated specification. The catalog is immutable, so
// the spec is generated once; only the server URL varies per request.
type Service struct {
	gen    *Generator
	logger zerolog.Logger

	once sync.Once
	spec *Spec
	doc  atomic.Value // string, JSON served to swag
}

// ServiceConfig contains configuration for the OpenAPI service.
type ServiceConfig struct {
	Generator *Generator
	Logger    zerolog.Logger
}

// NewService creates a new OpenAPI service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		gen:    cfg.Generator,
		logger: cfg.Logger,
	}
}

// Spec returns the specification with baseURL as its only server.
// An empty baseURL keeps the generator's servers.
func (s *Service) Spec(baseURL string) *Spec {
	s.once.Do(func() {
		s.spec = s.gen.Generate()
		if data, err := s.spec.ToJSON(); err == nil {
			s.doc.Store(string(data))
		}
	})
	if baseURL == "" {
		return s.spec
	}
	return s.cloneSpecWithServer(s.spec, baseURL)
}

// cloneSpecWithServer creates a copy of the spec with the given server URL.
func (s *Service) cloneSpecWithServer(spec *Spec, baseURL string) *Spec {
	data, err := json.Marshal(spec)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clone OpenAPI spec")
		return spec
	}

	var cloned Spec
	if err := json.Unmarshal(data, &cloned); err != nil {
		s.logger.Error().Err(err).Msg("failed to unmarshal cloned OpenAPI spec")
		return spec
	}
	cloned.Servers = []Server{{URL: baseURL, Description: "Try-it target"}}
	return &cloned
}

// ReadDoc implements swag.Swagger so the Swagger UI can load the document.
func (s *Service) ReadDoc() string {
	s.Spec("")
	if doc, ok := s.doc.Load().(string); ok {
		return doc
	}
	return "{}"
}

var (
	registerOnce sync.Once
	current      atomic.Pointer[Service]
)

type registered struct{}

func (registered) ReadDoc() string {
	if s := current.Load(); s != nil {
		return s.ReadDoc()
	}
	return "{}"
}

// Register makes s the document served under swag.Name. A later call
// replaces the served document; swag itself only sees one registration.
func Register(s *Service) {
	current.Store(s)
	registerOnce.Do(func() {
		swag.Register(swag.Name, registered{})
	})
}
