// Package scoring computes the weighted compatibility of a candidate with a job.
//
// The total is a weighted sum of three sub-scores (skills, experience,
// education). Course matching is reported alongside but carries no weight.
// Semantic similarity is optional: when it fails or is not configured the
// scorer falls back to fuzzy matching and carries on.
package scoring

import (
	"context"
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/courses"
	"github.com/spigell/resume-scorer/internal/duration"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/similarity"
	"github.com/spigell/resume-scorer/internal/textseg"
	"go.uber.org/zap"
)

// Semantic is the embedding-based similarity used for titles and skills.
type Semantic interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
	Best(ctx context.Context, text string, candidates []string) (float64, int, error)
}

// Scorer is safe for concurrent use.
type Scorer struct {
	cfg      Config
	weights  Weights
	semantic Semantic
	fuzzy    similarity.Fuzzy
	courses  courses.Matcher
	resolver *duration.Resolver
	logger   *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithSemantic enables semantic matching.
func WithSemantic(s Semantic) Option {
	return func(sc *Scorer) {
		sc.semantic = s
	}
}

// WithResolver sets the duration resolver.
func WithResolver(r *duration.Resolver) Option {
	return func(sc *Scorer) {
		sc.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(sc *Scorer) {
		sc.logger = l
	}
}

// New validates cfg and returns a Scorer.
func New(cfg Config, opts ...Option) (*Scorer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weights, _ := cfg.EffectiveWeights()

	s := &Scorer{
		cfg:     cfg,
		weights: weights,
		fuzzy:   similarity.NewFuzzy(cfg.FuzzyThreshold),
		courses: courses.New(cfg.CourseThreshold),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = duration.New()
	}
	s.logger = logger.OrNop(s.logger)

	return s, nil
}

// Weights returns the active weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// With returns a copy of the scorer logging with the extra fields.
func (s *Scorer) With(fields ...zap.Field) *Scorer {
	c := *s
	c.logger = s.logger.With(fields...)
	return &c
}

// Score never fails. Model errors degrade to fuzzy matching.
func (s *Scorer) Score(ctx context.Context, job models.JobRequirement, candidate models.CandidateProfile, secondary *models.SecondaryProfile) models.ScoreBreakdown {
	profile := candidate.Merge(secondary)
	pass := &pass{Scorer: s, ctx: ctx}

	b := models.ScoreBreakdown{}

	b.MatchedSkills, b.MissingSkills, b.SkillsScore = pass.skills(job.RequiredSkills, profile.Skills)

	b.CandidateYears = pass.years(job.Title, profile.WorkExperience)
	if secondary != nil {
		b.CandidateYears += max(0, secondary.YearsExperience)
	}
	b.RequiredYears = max(0, job.MinExperienceYears)
	b.ExperienceScore = experienceScore(b.CandidateYears, b.RequiredYears)

	b.RequiredEducationLevel = RequiredEducationLevel(job.RequiredEducation)
	b.CandidateEducationLevel = CandidateEducationLevel(profile.Education)
	b.EducationScore = educationScore(b.CandidateEducationLevel, b.RequiredEducationLevel, s.cfg.EducationPolicy)

	course := s.courses.Match(job.AcceptedCourses, profile.Education)
	b.MatchedCourses = course.Matched
	b.CourseMatchScore = course.Percentage

	total := s.weights.Skills*b.SkillsScore +
		s.weights.Experience*b.ExperienceScore +
		s.weights.Education*b.EducationScore
	b.TotalScore = math.Max(0, math.Min(100, round1(total)))
	b.Rating = Rating(b.TotalScore)

	if pass.degraded != nil {
		s.logger.Warn("semantic similarity unavailable, used fuzzy matching", zap.Error(pass.degraded))
	}

	return b
}

// pass carries per-call state so a degradation is logged once per Score.
type pass struct {
	*Scorer
	ctx      context.Context
	degraded error
}

func (p *pass) skills(required, candidate []string) ([]string, []string, float64) {
	required = textseg.Dedup(trimmed(required))
	if len(required) == 0 {
		return []string{}, []string{}, 100
	}

	lowered := make([]string, len(candidate))
	for i, c := range candidate {
		lowered[i] = strings.ToLower(c)
	}

	matched, missing := []string{}, []string{}
	for _, req := range required {
		if p.skillMatches(strings.ToLower(req), lowered) {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}

	return matched, missing, round1(float64(len(matched)) / float64(len(required)) * 100)
}

func (p *pass) skillMatches(req string, candidate []string) bool {
	for _, c := range candidate {
		if strings.Contains(c, req) {
			return true
		}
	}
	if len(candidate) == 0 {
		return false
	}

	best, _, err := p.best(req, candidate)
	if err == nil {
		return best >= p.cfg.SkillThreshold
	}
	p.degrade(err)

	for _, c := range candidate {
		if p.fuzzy.Similar(req, c) {
			return true
		}
	}
	return false
}

func (p *pass) years(jobTitle string, entries []string) int {
	target := CleanTitle(jobTitle)

	total := 0
	for _, entry := range entries {
		years := p.resolver.Years(entry)
		if years == 0 {
			continue
		}
		if p.cfg.ExperienceMode == ExperienceExplicit || p.relevant(target, CleanTitle(entry)) {
			total += years
		}
	}
	return total
}

func (p *pass) relevant(target, title string) bool {
	if target == "" {
		return true
	}
	if title == "" {
		return false
	}

	score, err := p.similarity(target, title)
	if err == nil {
		return score >= p.cfg.TitleThreshold
	}
	p.degrade(err)

	return p.fuzzy.Similar(target, title)
}

// similarity and best stop calling the model after its first failure in a pass.
func (p *pass) similarity(a, b string) (float64, error) {
	if p.semantic == nil {
		return 0, similarity.ErrUnavailable
	}
	if p.degraded != nil {
		return 0, p.degraded
	}
	return p.semantic.Similarity(p.ctx, a, b)
}

func (p *pass) best(text string, candidates []string) (float64, int, error) {
	if p.semantic == nil {
		return 0, -1, similarity.ErrUnavailable
	}
	if p.degraded != nil {
		return 0, -1, p.degraded
	}
	return p.semantic.Best(p.ctx, text, candidates)
}

// degrade remembers the first semantic failure. Running without a semantic
// provider is a configuration choice and is not reported.
func (p *pass) degrade(err error) {
	if p.semantic != nil && p.degraded == nil {
		p.degraded = err
	}
}

func experienceScore(candidate, required int) float64 {
	if required <= 0 || candidate >= required {
		return 100
	}
	return math.Min(100, round1(float64(candidate)/float64(required)*100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func trimmed(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
