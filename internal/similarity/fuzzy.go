package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultFuzzyThreshold is the ratio at which two tokens are considered similar.
const DefaultFuzzyThreshold = 0.8

// Fuzzy is lexical closeness: case-insensitive equality, containment or edit ratio.
type Fuzzy struct {
	Threshold float64
}

// NewFuzzy returns a Fuzzy with the given threshold, or the default when it is not in (0, 1].
func NewFuzzy(threshold float64) Fuzzy {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return Fuzzy{Threshold: threshold}
}

// Similar reports whether two tokens are lexically close.
func (f Fuzzy) Similar(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	threshold := f.Threshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return Ratio(a, b) >= threshold
}

// Ratio is the sequence similarity of the lower-cased inputs in [0, 1],
// computed over runes as 2*M/T.
func Ratio(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
