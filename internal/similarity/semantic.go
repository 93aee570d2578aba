// Package similarity measures how close two short texts are, either by meaning
// (embedding cosine) or lexically (containment and edit ratio).
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/logger"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when no embedding model can be used.
var ErrUnavailable = errors.New("semantic similarity is unavailable")

// DefaultInferenceTimeout bounds a single embedding request.
const DefaultInferenceTimeout = 10 * time.Second

// Semantic computes cosine similarity between sentence embeddings. The embedder
// handle is shared and built at most once; vectors are cached per text.
type Semantic struct {
	embedder *ai.Lazy[ai.Embedder]
	timeout  time.Duration
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewSemantic returns a Semantic backed by the given embedder handle.
// A non-positive timeout selects DefaultInferenceTimeout.
func NewSemantic(embedder *ai.Lazy[ai.Embedder], timeout time.Duration, log *zap.Logger) *Semantic {
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}
	return &Semantic{
		embedder: embedder,
		timeout:  timeout,
		logger:   logger.OrNop(log),
		cache:    make(map[string][]float32),
	}
}

// Similarity returns the cosine similarity of a and b clamped to [0, 1].
func (s *Semantic) Similarity(ctx context.Context, a, b string) (float64, error) {
	vectors, err := s.vectors(ctx, a, b)
	if err != nil {
		return 0, err
	}
	return Cosine(vectors[0], vectors[1]), nil
}

// Best returns the highest similarity between text and any candidate, and its index.
// The index is -1 when there are no candidates.
func (s *Semantic) Best(ctx context.Context, text string, candidates []string) (float64, int, error) {
	if len(candidates) == 0 {
		return 0, -1, nil
	}

	vectors, err := s.vectors(ctx, append([]string{text}, candidates...)...)
	if err != nil {
		return 0, -1, err
	}

	best, idx := 0.0, -1
	for i, v := range vectors[1:] {
		if score := Cosine(vectors[0], v); idx == -1 || score > best {
			best, idx = score, i
		}
	}
	return best, idx, nil
}

// vectors embeds texts not yet cached in a single request bounded by the timeout.
func (s *Semantic) vectors(ctx context.Context, texts ...string) ([][]float32, error) {
	if s == nil {
		return nil, ErrUnavailable
	}

	keys := make([]string, len(texts))
	out := make([][]float32, len(texts))
	var missing []string
	pending := make(map[string]struct{})

	s.mu.RLock()
	for i, text := range texts {
		keys[i] = strings.TrimSpace(text)
		if v, ok := s.cache[keys[i]]; ok {
			out[i] = v
			continue
		}
		if _, ok := pending[keys[i]]; !ok {
			pending[keys[i]] = struct{}{}
			missing = append(missing, keys[i])
		}
	}
	s.mu.RUnlock()

	if len(missing) > 0 {
		embedder, err := s.embedder.Get()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		ictx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		embedded, err := embedder.Embed(ictx, missing...)
		if err != nil {
			return nil, fmt.Errorf("embed %d texts: %w", len(missing), err)
		}
		if len(embedded) != len(missing) {
			return nil, fmt.Errorf("embed %d texts: got %d vectors", len(missing), len(embedded))
		}

		s.mu.Lock()
		for i, key := range missing {
			s.cache[key] = embedded[i]
		}
		s.mu.Unlock()

		s.logger.Debug("embeddings cached", zap.Int("count", len(missing)))
	}

	s.mu.RLock()
	for i, key := range keys {
		if out[i] == nil {
			out[i] = s.cache[key]
		}
	}
	s.mu.RUnlock()

	return out, nil
}

// Cosine returns the cosine of the angle between a and b clamped to [0, 1].
// Mismatched or zero vectors yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return math.Max(0, math.Min(1, dot/(math.Sqrt(na)*math.Sqrt(nb))))
}
