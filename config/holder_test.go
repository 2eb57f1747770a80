package config_test

import (
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/monada-ai/apidocs/config"
)

const holderConfig = `
upstream:
  url: "http://localhost:3000"
docs:
  default_theme: dark
`

func TestHolder_Get(t *testing.T) {
	h, err := config.NewHolder(writeConfig(t, holderConfig), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Upstream.URL != "http://localhost:3000" {
		t.Errorf("Upstream.URL = %s, want http://localhost:3000", got.Upstream.URL)
	}
}

func TestHolder_ReloadNotifies(t *testing.T) {
	path := writeConfig(t, holderConfig)

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var (
		changed  *config.Config
		outcomes []error
	)
	h.OnChange(func(cfg *config.Config) { changed = cfg })
	h.OnReload(func(err error) { outcomes = append(outcomes, err) })

	writeFile(t, path, `
upstream:
  url: "http://localhost:4000"
docs:
  default_theme: light
`)
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	if changed == nil || changed.Docs.DefaultTheme != "light" {
		t.Fatalf("OnChange got %+v", changed)
	}
	if h.Get().Upstream.URL != "http://localhost:4000" {
		t.Errorf("Upstream.URL = %s", h.Get().Upstream.URL)
	}
	if len(outcomes) != 1 || outcomes[0] != nil {
		t.Errorf("OnReload outcomes = %v, want [nil]", outcomes)
	}
}

func TestHolder_ReloadInvalidConfig(t *testing.T) {
	path := writeConfig(t, holderConfig)

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var outcome error
	called := false
	h.OnChange(func(*config.Config) { called = true })
	h.OnReload(func(err error) { outcome = err })

	writeFile(t, path, "docs:\n  default_theme: neon\n")
	if err := h.Reload(); err == nil {
		t.Fatal("expected reload error")
	}

	if called {
		t.Error("OnChange should not run for a rejected config")
	}
	if outcome == nil {
		t.Error("OnReload should receive the error")
	}
	if h.Get().Docs.DefaultTheme != "dark" {
		t.Error("old config should be kept")
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := writeConfig(t, holderConfig)

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	writeFile(t, path, `
upstream:
  url: "http://localhost:5000"
`)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Get().Upstream.URL == "http://localhost:5000" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("after file watch, Upstream.URL = %s, want http://localhost:5000", h.Get().Upstream.URL)
}

func TestHolder_Static(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	h := config.Static(cfg, zerolog.Nop())
	defer h.Stop()
	h.Stop()

	if h.Get() != cfg {
		t.Error("Get should return the wrapped config")
	}
	if h.Path() != "" {
		t.Errorf("Path = %q, want empty", h.Path())
	}
	if err := h.Reload(); err == nil {
		t.Error("Reload on a static holder should fail")
	}
	if err := h.WatchFile(); err == nil {
		t.Error("WatchFile on a static holder should fail")
	}
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h, err := config.NewHolder(writeConfig(t, holderConfig), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if h.Get() == nil {
					t.Error("concurrent Get returned nil")
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Reload()
		}()
	}
	wg.Wait()
}

func TestReloadableFields(t *testing.T) {
	reloadable := config.ReloadableFields()
	for _, f := range config.NonReloadableFields() {
		if slices.Contains(reloadable, f) {
			t.Errorf("%s listed as both reloadable and non-reloadable", f)
		}
	}
	if !slices.Contains(reloadable, "docs.default_theme") {
		t.Error("docs.default_theme should be reloadable")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
