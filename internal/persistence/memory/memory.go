package memory

import (
	"context"
	"sync"

	"expenses/internal/persistence"
)

// Gateway keeps blobs in process memory. It is the default backend for
// tests and throwaway sessions.
type Gateway struct {
	mu       sync.Mutex
	data     map[string][]byte
	writeErr error
	writes   int
}

var _ persistence.Gateway = (*Gateway)(nil)

func New() *Gateway {
	return &Gateway{data: make(map[string][]byte)}
}

// Read returns a copy of the stored value.
func (g *Gateway) Read(_ context.Context, key string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.data[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write stores a copy of value.
func (g *Gateway) Write(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	g.data[key] = append([]byte(nil), value...)
	g.writes++
	return nil
}

func (g *Gateway) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	delete(g.data, key)
	return nil
}

// Seed stores value directly, bypassing any injected failure.
func (g *Gateway) Seed(key string, value []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data[key] = append([]byte(nil), value...)
}

// FailWrites makes every following Write and Delete return err. Passing
// nil restores normal behavior.
func (g *Gateway) FailWrites(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writeErr = err
}

// Writes reports how many writes succeeded.
func (g *Gateway) Writes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writes
}
