// Package ai declares the model-facing collaborators used by extraction and similarity.
package ai

import (
	"context"
	"errors"
	"sync"
)

// ErrNotConfigured is returned by a nil or empty Lazy handle.
var ErrNotConfigured = errors.New("model is not configured")

// Generator answers a free-text prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Embedder returns one sentence embedding per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float32, error)
}

// Lazy is a shared handle to an expensive value that is built on first use.
// The constructor runs at most once per handle even under concurrent callers;
// a construction error is remembered and returned to every later caller.
type Lazy[T any] struct {
	load func() (T, error)
}

// NewLazy wraps build in a once-only handle.
func NewLazy[T any](build func() (T, error)) *Lazy[T] {
	return &Lazy[T]{load: sync.OnceValues(build)}
}

// Ready returns a handle that already holds v.
func Ready[T any](v T) *Lazy[T] {
	return &Lazy[T]{load: func() (T, error) { return v, nil }}
}

// Get returns the value, constructing it on the first call.
func (l *Lazy[T]) Get() (T, error) {
	if l == nil || l.load == nil {
		var zero T
		return zero, ErrNotConfigured
	}
	return l.load()
}
