package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
	baseBackoff           = 2 * time.Second
	// Quota errors announcing a longer pause are not worth waiting for.
	maxQuotaDelay = 30 * time.Second
)

var retryAfterRe = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// wait is replaced in tests.
var wait = utils.WaitFor

// modelsAPI is the subset of *genai.Models used here.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

func newModels(ctx context.Context, apiKey string) (modelsAPI, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return client.Models, nil
}

// withRetries runs call up to attempts times while the error is temporary.
func withRetries(ctx context.Context, logger *zap.Logger, attempts int, call func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = call()
		if err == nil {
			return nil
		}

		retry, delay := retryable(err, attempt)
		if !retry || attempt == attempts-1 {
			break
		}

		logger.Debug("retrying gemini request",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if werr := wait(ctx, delay); werr != nil {
			return werr
		}
	}

	return err
}

func retryable(err error, attempt int) (bool, time.Duration) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false, 0
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
		return false, 0
	}

	delay := baseBackoff << attempt
	if m := retryAfterRe.FindStringSubmatch(apiErr.Message); m != nil {
		secs, perr := strconv.ParseFloat(m[1], 64)
		if perr == nil {
			announced := time.Duration(secs * float64(time.Second))
			if announced > maxQuotaDelay {
				return false, 0
			}
			delay = max(delay, announced)
		}
	}

	return true, delay
}
