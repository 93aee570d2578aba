package scoring

import (
	"regexp"
	"strings"

	"github.com/spigell/resume-scorer/internal/textseg"
)

var (
	parenRe    = regexp.MustCompile(`\(.*?\)`)
	titleYear  = regexp.MustCompile(`\b20\d{2}\b`)
	titleStops = []string{" at ", " with ", " for ", " in ", " on "}
)

// CleanTitle isolates the job title of a work entry,
// e.g. "Senior Developer at Google (2020-2022)" -> "Senior Developer".
func CleanTitle(entry string) string {
	t := strings.ToLower(entry)
	t = parenRe.ReplaceAllString(t, "")
	t = titleYear.ReplaceAllString(t, "")
	for _, stop := range titleStops {
		if i := strings.Index(t, stop); i >= 0 {
			t = t[:i]
		}
	}
	return textseg.Title(strings.Join(strings.Fields(t), " "))
}

// Rating labels a total score.
func Rating(score float64) string {
	switch {
	case score >= 80:
		return "Excellent Match"
	case score >= 60:
		return "Good Match"
	case score >= 40:
		return "Fair Match"
	default:
		return "Poor Match"
	}
}
