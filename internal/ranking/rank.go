// Package ranking scores many applications for one job and orders them.
package ranking

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/spigell/resume-scorer/internal/applicants"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

// Scorer scores one candidate against one job.
type Scorer interface {
	Score(ctx context.Context, job models.JobRequirement, candidate models.CandidateProfile, secondary *models.SecondaryProfile) models.ScoreBreakdown
}

// Extractor builds insights from raw resume text.
type Extractor interface {
	Extract(ctx context.Context, rawText string) models.Insights
}

// scopedScorer is implemented by scorers that can tag their logs per application.
type scopedScorer interface {
	With(fields ...zap.Field) *scoring.Scorer
}

// Result is one ranked application.
type Result struct {
	Position      int                   `json:"position"`
	ApplicationID string                `json:"application_id"`
	Applicant     string                `json:"applicant,omitempty"`
	Breakdown     models.ScoreBreakdown `json:"breakdown"`
	// Insights is set when the profile was extracted from raw text during ranking.
	Insights *models.Insights `json:"insights,omitempty"`
}

type Ranker struct {
	scorer    Scorer
	extractor Extractor
	workers   int
	logger    *zap.Logger
}

type Option func(*Ranker)

// WithExtractor enables extraction for applications that only carry raw text.
func WithExtractor(e Extractor) Option {
	return func(r *Ranker) {
		r.extractor = e
	}
}

// WithWorkers sets how many applications are scored concurrently.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		r.workers = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Ranker) {
		r.logger = l
	}
}

func New(scorer Scorer, opts ...Option) *Ranker {
	r := &Ranker{scorer: scorer, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	r.logger = logger.OrNop(r.logger)
	return r
}

// Rank scores the applications in parallel and sorts them by total score,
// descending. Equal scores keep the order of apps. Only a cancelled context
// stops ranking.
func (r *Ranker) Rank(ctx context.Context, job models.JobRequirement, apps []*applicants.Application) ([]Result, error) {
	results := make([]Result, len(apps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, app := range apps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.score(gctx, job, app)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking applications: %w", err)
	}

	Sort(results)

	return results, nil
}

func (r *Ranker) score(ctx context.Context, job models.JobRequirement, app *applicants.Application) Result {
	fields := logger.ScoringFields(job.Title, app.ID)
	log := r.logger.With(fields...)

	scorer := r.scorer
	if scoped, ok := scorer.(scopedScorer); ok {
		scorer = scoped.With(fields...)
	}

	res := Result{ApplicationID: app.ID, Applicant: app.Applicant}

	raw := app.RawText
	if raw == "" && app.Profile != nil {
		raw = app.Profile.RawText
	}

	var profile models.CandidateProfile
	switch {
	case app.Profile != nil && hasEntries(app.Profile):
		profile = *app.Profile
		profile.RawText = raw
	case r.extractor != nil && raw != "":
		insights := r.extractor.Extract(ctx, raw)
		if insights.Partial {
			log.Warn("scoring with partial insights", zap.Strings("errors", insights.Errors))
		}
		res.Insights = &insights
		profile = insights.Profile(raw)
	default:
		log.Warn("no usable profile, scoring an empty one")
		profile = models.CandidateProfile{RawText: raw}
	}

	res.Breakdown = scorer.Score(ctx, job, profile, app.SecondaryProfile)

	log.Debug("application scored",
		zap.Float64("total_score", res.Breakdown.TotalScore),
		zap.String("rating", res.Breakdown.Rating),
	)

	return res
}

func hasEntries(p *models.CandidateProfile) bool {
	return len(p.Skills) > 0 || len(p.Education) > 0 || len(p.WorkExperience) > 0 || len(p.Projects) > 0
}

// Sort orders results by total score, descending, keeping the relative order
// of equal scores, and assigns 1-based positions.
func Sort(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Breakdown.TotalScore, a.Breakdown.TotalScore)
	})
	for i := range results {
		results[i].Position = i + 1
	}
}
