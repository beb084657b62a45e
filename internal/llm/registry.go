package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ProviderFactory construye un Responder concreto para un modelo dado.
type ProviderFactory func(ctx context.Context, model string) (Responder, error)

// Registry mapea nombres de proveedor a factories, para elegir el backend
// de IA por configuracion sin acoplar el resto del codigo a un vendor.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(ctx context.Context, name, model string) (Responder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(ctx, model)
}
