package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ProfileSemantic = "semantic"
	ProfileBalanced = "balanced"

	DefaultTitleThreshold  = 0.45
	DefaultSkillThreshold  = 0.6
	DefaultFuzzyThreshold  = 0.8
	DefaultCourseThreshold = 0.75

	weightsEpsilon = 1e-6
)

// EducationPolicy decides the education score when the candidate is below the required level.
type EducationPolicy string

const (
	// EducationStrict gives 0 to any candidate below the required level.
	EducationStrict EducationPolicy = "strict"
	// EducationPartial gives 50 to a candidate exactly one level short.
	EducationPartial EducationPolicy = "partial"
)

// ExperienceMode decides which work entries count towards candidate years.
type ExperienceMode string

const (
	// ExperienceRelevant counts entries whose title is close to the job title.
	ExperienceRelevant ExperienceMode = "relevant"
	// ExperienceExplicit counts every entry with a recognisable duration.
	ExperienceExplicit ExperienceMode = "explicit"
)

// Weights is the share of each sub-score in the total. They must sum to 1.
type Weights struct {
	Skills     float64 `mapstructure:"skills" json:"skills" validate:"gte=0,lte=1"`
	Experience float64 `mapstructure:"experience" json:"experience" validate:"gte=0,lte=1"`
	Education  float64 `mapstructure:"education" json:"education" validate:"gte=0,lte=1"`
}

var profiles = map[string]Weights{
	ProfileSemantic: {Skills: 0.8, Experience: 0.1, Education: 0.1},
	ProfileBalanced: {Skills: 0.4, Experience: 0.3, Education: 0.3},
}

// Profile returns the named weight set.
func Profile(name string) (Weights, error) {
	w, ok := profiles[name]
	if !ok {
		return Weights{}, fmt.Errorf("unknown weights profile %q", name)
	}
	return w, nil
}

// Validate checks that the weights sum to 1.
func (w Weights) Validate() error {
	if w.Skills < 0 || w.Experience < 0 || w.Education < 0 {
		return errors.New("weights must not be negative")
	}
	sum := w.Skills + w.Experience + w.Education
	if math.Abs(sum-1) > weightsEpsilon {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// Config is the scoring section of the configuration file.
// A zero threshold selects its default; use a small positive value to accept almost anything.
type Config struct {
	WeightsProfile   string          `mapstructure:"weights-profile" validate:"omitempty,oneof=semantic balanced"`
	Weights          *Weights        `mapstructure:"weights"`
	EducationPolicy  EducationPolicy `mapstructure:"education-policy" validate:"omitempty,oneof=strict partial"`
	ExperienceMode   ExperienceMode  `mapstructure:"experience-mode" validate:"omitempty,oneof=relevant explicit"`
	TitleThreshold   float64         `mapstructure:"title-threshold" validate:"gte=0,lte=1"`
	SkillThreshold   float64         `mapstructure:"skill-threshold" validate:"gte=0,lte=1"`
	FuzzyThreshold   float64         `mapstructure:"fuzzy-threshold" validate:"gte=0,lte=1"`
	CourseThreshold  float64         `mapstructure:"course-threshold" validate:"gte=0,lte=1"`
	InferenceTimeout time.Duration   `mapstructure:"inference-timeout" validate:"gte=0"`
}

// DefaultConfig returns the semantic profile with the strict education policy.
func DefaultConfig() Config {
	return Config{
		WeightsProfile:  ProfileSemantic,
		EducationPolicy: EducationStrict,
		ExperienceMode:  ExperienceRelevant,
		TitleThreshold:  DefaultTitleThreshold,
		SkillThreshold:  DefaultSkillThreshold,
		FuzzyThreshold:  DefaultFuzzyThreshold,
		CourseThreshold: DefaultCourseThreshold,
	}
}

// Validate checks field ranges and the effective weights.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	if _, err := c.EffectiveWeights(); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	return nil
}

// EffectiveWeights returns the explicit weights when set, otherwise the named profile.
func (c Config) EffectiveWeights() (Weights, error) {
	if c.Weights != nil {
		return *c.Weights, c.Weights.Validate()
	}
	name := c.WeightsProfile
	if name == "" {
		name = ProfileSemantic
	}
	return Profile(name)
}

// withDefaults fills zero values with the defaults. Zero thresholds are treated as unset.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WeightsProfile == "" {
		c.WeightsProfile = d.WeightsProfile
	}
	if c.EducationPolicy == "" {
		c.EducationPolicy = d.EducationPolicy
	}
	if c.ExperienceMode == "" {
		c.ExperienceMode = d.ExperienceMode
	}
	if c.TitleThreshold == 0 {
		c.TitleThreshold = d.TitleThreshold
	}
	if c.SkillThreshold == 0 {
		c.SkillThreshold = d.SkillThreshold
	}
	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = d.FuzzyThreshold
	}
	if c.CourseThreshold == 0 {
		c.CourseThreshold = d.CourseThreshold
	}
	return c
}
