package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/ai/gemini"
	"github.com/spigell/resume-scorer/internal/extraction"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/secrets"
	"github.com/spigell/resume-scorer/internal/similarity"

	"go.uber.org/zap"
)

// modelHandles holds the lazily built model handles. Both are nil when ai is disabled.
type modelHandles struct {
	generator *ai.Lazy[ai.Generator]
	embedder  *ai.Lazy[ai.Embedder]
}

// newModelHandles prepares the Gemini handles. Nothing is dialed and no key is read
// until a component asks for a model for the first time.
func newModelHandles(ctx context.Context, cfg *AIConfig, logger *zap.Logger) modelHandles {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ai is disabled, using heuristics and fuzzy matching only")
		return modelHandles{}
	}

	g := cfg.Gemini
	if g == nil {
		g = &GeminiConfig{}
	}

	apiKey := func() (string, error) {
		key, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: g.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return "", fmt.Errorf("%w (or set ai.gemini.api-key-file)", err)
		}
		return key, nil
	}

	return modelHandles{
		generator: ai.NewLazy(func() (ai.Generator, error) {
			key, err := apiKey()
			if err != nil {
				return nil, err
			}
			return gemini.NewGenerator(ctx, key, g.Model, g.MaxRetries, g.MaxLogLength, logger)
		}),
		embedder: ai.NewLazy(func() (ai.Embedder, error) {
			key, err := apiKey()
			if err != nil {
				return nil, err
			}
			return gemini.NewEmbedder(ctx, key, g.EmbeddingModel, g.MaxRetries, logger)
		}),
	}
}

func newExtractor(config *Config, m modelHandles, logger *zap.Logger) *extraction.Extractor {
	opts := []extraction.Option{extraction.WithLogger(logger)}
	if config.Extraction != nil && len(config.Extraction.ProjectKeywords) > 0 {
		opts = append(opts, extraction.WithProjectKeywords(config.Extraction.ProjectKeywords...))
	}
	return extraction.New(m.generator, opts...)
}

func newScorer(config *Config, m modelHandles, logger *zap.Logger) (*scoring.Scorer, error) {
	opts := []scoring.Option{scoring.WithLogger(logger)}
	if m.embedder != nil {
		opts = append(opts, scoring.WithSemantic(similarity.NewSemantic(m.embedder, config.Scoring.InferenceTimeout, logger)))
	}

	scorer, err := scoring.New(config.Scoring, opts...)
	if err != nil {
		return nil, fmt.Errorf("building scorer: %w", err)
	}

	w := scorer.Weights()
	logger.Debug("scorer ready",
		zap.Float64("weight_skills", w.Skills),
		zap.Float64("weight_experience", w.Experience),
		zap.Float64("weight_education", w.Education),
	)

	return scorer, nil
}
