// Package extraction turns raw OCR resume text into structured insights.
//
// A text model answers three fixed questions (skills, education, experience);
// the answers are passed through heuristic cleaners with regex fallbacks over
// the raw text. Work history found directly in the raw text takes precedence
// over the model-derived entries.
package extraction

import (
	"context"
	"fmt"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/duration"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/textseg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxPromptText is the number of runes of resume text sent to the model.
const MaxPromptText = 3000

// Extractor produces models.Insights from raw resume text.
type Extractor struct {
	generator       *ai.Lazy[ai.Generator]
	resolver        *duration.Resolver
	work            *WorkCleaner
	projectKeywords []string
	logger          *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithResolver sets the duration resolver used for work entry tags.
func WithResolver(r *duration.Resolver) Option {
	return func(e *Extractor) {
		e.resolver = r
	}
}

// WithProjectKeywords replaces the words that introduce a project phrase.
func WithProjectKeywords(keywords ...string) Option {
	return func(e *Extractor) {
		e.projectKeywords = keywords
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// New returns an Extractor. A nil generator handle is allowed: every answer is
// then empty and the insights come from the raw-text heuristics only.
func New(generator *ai.Lazy[ai.Generator], opts ...Option) *Extractor {
	e := &Extractor{
		generator:       generator,
		projectKeywords: DefaultProjectKeywords,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = duration.New()
	}
	e.logger = logger.OrNop(e.logger)
	e.work = NewWorkCleaner(e.resolver)
	return e
}

// Extract never fails. Model errors are recorded in Insights.Errors and mark
// the result as partial.
func (e *Extractor) Extract(ctx context.Context, rawText string) models.Insights {
	text := textseg.Normalize(rawText)
	answers, errs := e.ask(ctx, textseg.Flatten(text, MaxPromptText))

	direct := ParseWork(text, e.resolver)
	derived := e.work.Clean(answers[PromptExperience], text)
	work := MergeWork(direct, derived)

	insights := models.Insights{
		Contact:        ExtractContact(text),
		Skills:         CleanSkills(answers[PromptSkills]),
		Education:      CleanEducation(answers[PromptEducation], text),
		WorkExperience: work,
		Projects:       ExtractProjects(text, e.projectKeywords),
	}

	if len(errs) > 0 {
		insights.Partial = true
		for _, err := range errs {
			insights.Errors = append(insights.Errors, err.Error())
		}
		e.logger.Warn("extraction is partial", zap.Strings("errors", insights.Errors))
	}

	e.logger.Debug("insights extracted",
		zap.Int("skills", len(insights.Skills)),
		zap.Int("education", len(insights.Education)),
		zap.Int("work_direct", len(direct)),
		zap.Int("work_derived", len(derived)),
		zap.Int("projects", len(insights.Projects)),
	)

	return insights
}

// ask runs the three prompts concurrently. A failed prompt leaves an empty answer.
func (e *Extractor) ask(ctx context.Context, text string) (map[Prompt]string, []error) {
	answers := make(map[Prompt]string, len(Prompts))

	generator, err := e.generator.Get()
	if err != nil {
		return answers, []error{fmt.Errorf("text model: %w", err)}
	}

	results := make([]string, len(Prompts))
	failures := make([]error, len(Prompts))

	var g errgroup.Group
	for i, p := range Prompts {
		g.Go(func() error {
			prompt, err := p.Render(text)
			if err == nil {
				results[i], err = generator.GenerateContent(ctx, prompt)
			}
			if err != nil {
				failures[i] = fmt.Errorf("%s prompt: %w", p, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for i, p := range Prompts {
		if failures[i] != nil {
			errs = append(errs, failures[i])
			continue
		}
		answers[p] = results[i]
	}

	return answers, errs
}
