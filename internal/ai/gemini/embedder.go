package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-scorer/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Embedder produces sentence embeddings with a Gemini embedding model.
type Embedder struct {
	models     modelsAPI
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Embedder, error) {
	models, err := newModels(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}

	return &Embedder{
		models:     models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, "gemini", model),
	}, nil
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	var resp *genai.EmbedContentResponse
	err := withRetries(ctx, e.logger, e.maxRetries, func() error {
		var cerr error
		resp, cerr = e.models.EmbedContent(ctx, e.model, contents, nil)
		return cerr
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("embed content: expected %d embeddings, got %d", len(texts), got)
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("embed content: empty embedding at position %d", i)
		}
		vectors[i] = emb.Values
	}

	e.logger.Debug("gemini embeddings computed", zap.Int("count", len(vectors)))

	return vectors, nil
}
