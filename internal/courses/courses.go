// Package courses matches a job's accepted academic courses against a
// candidate's education entries.
package courses

import (
	"math"
	"strings"

	"github.com/spigell/resume-scorer/internal/similarity"
	"github.com/spigell/resume-scorer/internal/textseg"
)

// DefaultThreshold is the edit ratio at which a course matches an education entry.
const DefaultThreshold = 0.75

// Result is the outcome of matching courses.
type Result struct {
	Matched    []string
	Percentage float64
}

// Matcher compares course names by substring or edit ratio.
type Matcher struct {
	Threshold float64
}

// New returns a Matcher, using DefaultThreshold when threshold is not in (0, 1].
func New(threshold float64) Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return Matcher{Threshold: threshold}
}

// Match returns the accepted courses found in the education entries and
// matched/total*100. No accepted courses is a vacuous 100.
func (m Matcher) Match(accepted, education []string) Result {
	courses := textseg.Dedup(accepted)
	if len(courses) == 0 {
		return Result{Matched: []string{}, Percentage: 100}
	}

	matched := []string{}
	if len(education) > 0 {
		joined := strings.ToLower(strings.Join(education, " "))
		for _, course := range courses {
			if m.matches(course, joined, education) {
				matched = append(matched, course)
			}
		}
	}

	pct := float64(len(matched)) / float64(len(courses)) * 100
	return Result{Matched: matched, Percentage: math.Round(pct*10) / 10}
}

func (m Matcher) matches(course, joined string, education []string) bool {
	c := strings.ToLower(strings.TrimSpace(course))
	if strings.Contains(joined, c) {
		return true
	}

	threshold := m.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	for _, entry := range education {
		if similarity.Ratio(c, strings.TrimSpace(entry)) >= threshold {
			return true
		}
	}
	return false
}
