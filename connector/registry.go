package connector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-hookgate/core"
)

// Factory builds a connector variant.
type Factory func() (core.Connector, error)

// Registry maps connector kinds to factories. Selection happens by
// configuration, not inheritance: real CRM or document-store backends
// register additional kinds next to the mock.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry ships the mock variant.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(KindMock, func() (core.Connector, error) {
		return NewMockConnector(), nil
	})
	return registry
}

func (r *Registry) Register(kind string, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		return
	}
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[kind] = factory
}

func (r *Registry) Resolve(kind string) (core.Connector, error) {
	if r == nil || len(r.factories) == 0 {
		return nil, core.InternalError("connector: registry is not configured")
	}
	kind = strings.TrimSpace(strings.ToLower(kind))
	factory, ok := r.factories[kind]
	if !ok {
		return nil, core.BadInputError(
			fmt.Sprintf("connector: unknown kind %q", kind),
			map[string]any{"kind": kind, "known": r.Kinds()},
		)
	}
	return factory()
}

func (r *Registry) Kinds() []string {
	if r == nil {
		return nil
	}
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
