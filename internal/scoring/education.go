package scoring

import "strings"

type educationKeyword struct {
	keyword string
	level   int
}

// educationLevels is the ordered hierarchy; keywords are matched as substrings.
var educationLevels = []educationKeyword{
	{"certificate", 1},
	{"diploma", 2}, {"associate", 2}, {"hnd", 2},
	{"bachelor", 3}, {"degree", 3}, {"bsc", 3}, {"b.sc", 3}, {"undergraduate", 3},
	{"master", 4}, {"msc", 4}, {"mba", 4}, {"postgraduate", 4},
	{"phd", 5}, {"doctorate", 5},
}

// EducationLevel returns the highest level named in text, or floor.
func EducationLevel(text string, floor int) int {
	text = strings.ToLower(text)
	level := floor
	for _, k := range educationLevels {
		if strings.Contains(text, k.keyword) {
			level = max(level, k.level)
		}
	}
	return level
}

// RequiredEducationLevel resolves a job requirement; it is never below 1.
func RequiredEducationLevel(text string) int {
	return EducationLevel(text, 1)
}

// CandidateEducationLevel is the highest level across entries, 0 when none is recognised.
func CandidateEducationLevel(entries []string) int {
	level := 0
	for _, entry := range entries {
		level = max(level, EducationLevel(entry, 0))
	}
	return level
}

func educationScore(candidate, required int, policy EducationPolicy) float64 {
	switch {
	case candidate >= required:
		return 100
	case policy == EducationPartial && candidate == required-1:
		return 50
	default:
		return 0
	}
}

var levelNames = []string{"None", "Certificate", "Diploma", "Bachelor", "Master", "Doctorate"}

// EducationLevelName returns a display name for a level of the hierarchy.
func EducationLevelName(level int) string {
	if level < 0 || level >= len(levelNames) {
		return "Unknown"
	}
	return levelNames[level]
}
