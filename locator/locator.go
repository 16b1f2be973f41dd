// Package locator provides the per-context default-georeference service:
// an explicit find-or-create registry keyed by an opaque scene/context
// handle, with init-on-first-use and explicit teardown at context
// destruction. It replaces locating the default instance by scanning a
// scene for a name prefix.
package locator

import (
	"context"
	"sync"

	"github.com/terrasignal/georef-engine/core"
	"github.com/terrasignal/georef-engine/internal/logging"
)

// Service is a process-wide registry of georeference engines, one per
// context handle. The handle is any comparable value identifying a scene
// or world; the service never inspects it.
type Service struct {
	mu      sync.RWMutex
	engines map[any]*core.Engine

	log logging.Logger

	// newEngine lets tests substitute a factory.
	newEngine func() *core.Engine
}

// NewService constructs an empty locator service.
func NewService(log logging.Logger) *Service {
	if log == nil {
		log = logging.Noop()
	}
	s := &Service{
		engines: make(map[any]*core.Engine),
		log:     log,
	}
	s.newEngine = func() *core.Engine { return core.NewEngine(log) }
	return s
}

// ForContext returns the engine for the given context handle, creating a
// default one on first use.
func (s *Service) ForContext(handle any) *core.Engine {
	s.mu.RLock()
	e, ok := s.engines[handle]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[handle]; ok {
		return e
	}
	e = s.newEngine()
	s.engines[handle] = e
	s.log.Info(context.Background(), "created default georeference for context")
	return e
}

// Lookup returns the engine for the handle without creating one.
func (s *Service) Lookup(handle any) (*core.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[handle]
	return e, ok
}

// Release tears down the engine associated with the handle. Contexts must
// release on destruction; otherwise the engine outlives its scene.
func (s *Service) Release(handle any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, handle)
}

// Len returns the number of registered contexts.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.engines)
}
