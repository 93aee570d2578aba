package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/resume-scorer/internal/duration"
	"github.com/spigell/resume-scorer/internal/textseg"
)

const (
	MaxSkills    = 12
	MaxEducation = 5
	MaxWork      = 8

	maxEducationFallback = 2
	maxWorkFallback      = 5
	maxTitleWords        = 6
)

var (
	skillBlacklist = []string{
		"responsible", "experience", "collaborating", "team", "strong", "working",
		"bachelor", "bsc", "degree", "university", "summary", "profile", "oversee",
		"progress", "project", "developer", "academy", "present", "started", "years",
		"digital", "information", "delivery", "communication", "thinking", "management",
		"designer", "effective", "critical", "founder", "phone", "currently", "lead",
		"designing", "wireframes", "references", "mitigation", "associate", "compiling",
		"sorting", "data", "july", "processing", "planning", "distribution", "enumerator",
		"enumeration", "leadership", "entry", "reference", "skills", "software", "development",
	}
	techKeywords = []string{
		"python", "java", "javascript", "react", "node", "sql", "aws", "docker",
		"kubernetes", "git", "api", "html", "css", "typescript", "mongodb", "postgres",
		"excel", "powerpoint", "tableau", "figma", "sketch", "adobe", "photoshop",
	}
	skillRejects = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}$`),
		regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`),
	}

	educationKeywords = []string{
		"university", "college", "degree", "bsc", "bachelor", "master",
		"diploma", "certificate", "academy", "b.sc", "m.sc", "phd", "msc",
	}
	educationBlacklist = []string{
		"oversee", "progress", "team", "lead", "project", "mitigation", "data",
		"experience", "currently", "designer", "developer", "user", "wireframes",
	}
	bareYearRe       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	degreeFallbackRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(B\.?Sc\.?\s+[\w\s]+?)(?:,|\.|$)`),
		regexp.MustCompile(`(?i)(Bachelor[\w\s]+?)(?:,|\.|from|$)`),
		regexp.MustCompile(`(?i)(Master[\w\s]+?)(?:,|\.|from|$)`),
		regexp.MustCompile(`(?i)(Diploma[\w\s]+?)(?:,|\.|from|$)`),
	}

	workBlacklist = []string{
		"bsc", "bachelor", "degree", "university", "academy", "college",
		"oversee", "designing", "wireframes", "progress",
	}
	stopPhrases = []string{
		" with ", " at ", " for ", " responsible ", " adept ", " working ",
		" using ", " expertise ", " overseeing ", " designing ", " known ", " committed ",
	}
	descriptionWords = []string{"oversee", "design", "data", "currently", "bsc", "known", "focus"}
	fourDigitsRe     = regexp.MustCompile(`\d{4}`)
	titlePunctRe     = regexp.MustCompile(`[(),]`)
	workFallbackRe   = regexp.MustCompile(`([A-Z \t]{4,30})\s*(20\d{2})(?:\s*-\s*(PRESENT|20\d{2}))?`)
	institutionWords = []string{"education", "university", "academy", "degree"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// CleanSkills keeps short technical-looking segments of a model answer.
func CleanSkills(answer string) []string {
	var out []string
	for _, item := range textseg.Segment(answer) {
		words := strings.Fields(item)
		if len(words) < 1 || len(words) > 3 {
			continue
		}
		if rejected(item) {
			continue
		}

		lower := strings.ToLower(item)
		isTech := containsAny(lower, techKeywords)
		if !isTech && (containsAny(lower, skillBlacklist) || utf8.RuneCountInString(item) < 3) {
			continue
		}

		out = append(out, textseg.Title(item))
	}

	return textseg.Cap(textseg.Dedup(out), MaxSkills)
}

func rejected(item string) bool {
	for _, re := range skillRejects {
		if re.MatchString(item) {
			return true
		}
	}
	return false
}

// CleanEducation keeps education-looking segments of a model answer and falls
// back to degree patterns in the resume text when none survive.
func CleanEducation(answer, rawText string) []string {
	_, out := firstOf(
		strategy{name: "answer", run: func() []string { return educationFromAnswer(answer) }},
		strategy{name: "degree-patterns", run: func() []string { return degreesFromText(rawText) }},
	)
	return out
}

func educationFromAnswer(answer string) []string {
	var out []string
	for _, item := range textseg.Segment(answer) {
		lower := strings.ToLower(item)
		if !containsAny(lower, educationKeywords) || containsAny(lower, educationBlacklist) {
			continue
		}

		clean := strings.Join(strings.Fields(bareYearRe.ReplaceAllString(item, "")), " ")
		clean = strings.Trim(clean, " -–—/")
		if utf8.RuneCountInString(clean) <= 4 {
			continue
		}

		clean = strings.ReplaceAll(clean, "bsc", "BSc")
		clean = strings.ReplaceAll(clean, "msc", "MSc")
		out = append(out, clean)
	}

	return textseg.Cap(dedupExact(out), MaxEducation)
}

func degreesFromText(text string) []string {
	var out []string
	for _, re := range degreeFallbackRe {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(out) == maxEducationFallback {
				return out
			}
			match := strings.Join(strings.Fields(m[1]), " ")
			if utf8.RuneCountInString(match) > 8 {
				out = append(out, match)
			}
		}
	}
	return out
}

// WorkCleaner turns model-written job descriptions into "Title (duration)" entries.
type WorkCleaner struct {
	resolver *duration.Resolver
}

// NewWorkCleaner returns a WorkCleaner tagging entries with r, or the default resolver.
func NewWorkCleaner(r *duration.Resolver) *WorkCleaner {
	if r == nil {
		r = duration.New()
	}
	return &WorkCleaner{resolver: r}
}

// Clean chops the answer into titled entries. When none survive it scans the
// raw resume text for capitalised names followed by a year or range.
func (w *WorkCleaner) Clean(answer, rawText string) []string {
	_, out := firstOf(
		strategy{name: "answer", run: func() []string { return w.fromAnswer(answer) }},
		strategy{name: "caps-year", run: func() []string { return w.fromText(rawText) }},
	)
	return textseg.Cap(out, MaxWork)
}

func (w *WorkCleaner) fromAnswer(answer string) []string {
	var out []string
	for _, item := range textseg.Segment(answer) {
		if utf8.RuneCountInString(item) < 5 || containsAny(strings.ToLower(item), workBlacklist) {
			continue
		}

		title := jobTitle(item)
		if title == "" {
			continue
		}

		out = append(out, withTag(textseg.Title(title), w.resolver.Tag(item)))
	}
	return dedupExact(out)
}

// jobTitle isolates the title portion of a work entry, or returns "".
func jobTitle(item string) string {
	title := strings.TrimSpace(fourDigitsRe.Split(item, 2)[0])

	lower := strings.ToLower(title)
	for _, phrase := range stopPhrases {
		if i := strings.Index(lower, phrase); i >= 0 {
			title = strings.TrimSpace(lower[:i])
			break
		}
	}

	title = strings.TrimSpace(titlePunctRe.ReplaceAllString(title, ""))

	var words []string
	for _, word := range strings.Fields(title) {
		if containsAny(strings.ToLower(word), descriptionWords) {
			break
		}
		words = append(words, word)
	}

	if len(words) < 2 {
		return ""
	}
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}

	title = strings.Join(words, " ")
	if utf8.RuneCountInString(title) <= 3 || strings.ContainsFunc(title, unicode.IsDigit) {
		return ""
	}
	return title
}

func (w *WorkCleaner) fromText(text string) []string {
	matches := workFallbackRe.FindAllStringSubmatch(text, maxWorkFallback)

	var out []string
	for _, m := range matches {
		name := strings.Join(strings.Fields(m[1]), " ")
		if name == "" || containsAny(strings.ToLower(name), institutionWords) {
			continue
		}
		out = append(out, withTag(textseg.Title(name), w.resolver.Tag(span(m[2], m[3]))))
	}
	return out
}

func span(start, end string) string {
	if end == "" {
		return start
	}
	return start + "-" + end
}

func withTag(title, tag string) string {
	if tag == "" {
		return title
	}
	return title + " " + tag
}

func dedupExact(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
