// Package clock provides the time sources behind ports.Clock.
package clock

import (
	"sync"
	"time"

	"github.com/monada-ai/apidocs/ports"
)

// System reads the wall clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Fake is a manually driven clock for latency and uptime tests.
type Fake struct {
	mu      sync.RWMutex
	current time.Time
}

// NewFake creates a fake clock set to t.
func NewFake(t time.Time) *Fake {
	return &Fake{current: t}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Advance moves the fake time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

var (
	_ ports.Clock = System{}
	_ ports.Clock = (*Fake)(nil)
)
