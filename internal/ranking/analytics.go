package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/spigell/resume-scorer/internal/scoring"
)

// Bucket counts results whose total score falls in [Min, Max].
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// SkillCount is how many ranked candidates matched a required skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// LevelCount is how many candidates reached an education level.
type LevelCount struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary aggregates a ranking for display.
type Summary struct {
	Count         int            `json:"count"`
	AverageScore  float64        `json:"average_score"`
	AverageYears  float64        `json:"average_years"`
	TopScore      float64        `json:"top_score"`
	Distribution  []Bucket       `json:"distribution"`
	TopSkills     []SkillCount   `json:"top_skills"`
	MissingSkills []SkillCount   `json:"missing_skills"`
	Education     []LevelCount   `json:"education"`
	Ratings       map[string]int `json:"ratings"`
}

// DefaultTopSkills is how many skills Summarize lists.
const DefaultTopSkills = 5

func newBuckets() []Bucket {
	return []Bucket{
		{Label: "80-100", Min: 80, Max: 100},
		{Label: "60-79", Min: 60, Max: 80},
		{Label: "40-59", Min: 40, Max: 60},
		{Label: "0-39", Min: 0, Max: 40},
	}
}

// Summarize computes score distribution, skill frequencies and education breakdown.
func Summarize(results []Result, topSkills int) Summary {
	if topSkills <= 0 {
		topSkills = DefaultTopSkills
	}

	s := Summary{
		Count:        len(results),
		Distribution: newBuckets(),
		Ratings:      map[string]int{},
	}

	matched := newCounter()
	missing := newCounter()
	levels := make([]int, 6)

	var scoreSum, yearsSum float64
	for _, r := range results {
		b := r.Breakdown
		scoreSum += b.TotalScore
		yearsSum += float64(b.CandidateYears)
		s.TopScore = math.Max(s.TopScore, b.TotalScore)
		s.Ratings[b.Rating]++

		for i := range s.Distribution {
			if b.TotalScore >= s.Distribution[i].Min {
				s.Distribution[i].Count++
				break
			}
		}

		for _, skill := range b.MatchedSkills {
			matched.add(skill)
		}
		for _, skill := range b.MissingSkills {
			missing.add(skill)
		}

		if lvl := b.CandidateEducationLevel; lvl >= 0 && lvl < len(levels) {
			levels[lvl]++
		}
	}

	if len(results) > 0 {
		s.AverageScore = round1(scoreSum / float64(len(results)))
		s.AverageYears = round1(yearsSum / float64(len(results)))
	}

	s.TopSkills = matched.top(topSkills)
	s.MissingSkills = missing.top(topSkills)

	for lvl, count := range levels {
		if count > 0 {
			s.Education = append(s.Education, LevelCount{Level: lvl, Name: scoring.EducationLevelName(lvl), Count: count})
		}
	}

	return s
}

// counter counts case-insensitively and remembers the first spelling and position.
type counter struct {
	order  []string
	labels map[string]string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{labels: map[string]string{}, counts: map[string]int{}}
}

func (c *counter) add(s string) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
		c.labels[key] = strings.TrimSpace(s)
	}
	c.counts[key]++
}

func (c *counter) top(n int) []SkillCount {
	out := make([]SkillCount, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, SkillCount{Skill: c.labels[key], Count: c.counts[key]})
	}
	slices.SortStableFunc(out, func(a, b SkillCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
