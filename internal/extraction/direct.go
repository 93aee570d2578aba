package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-scorer/internal/duration"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/textseg"
)

const (
	MaxDirectWork  = 6
	MaxProjects    = 5
	maxSectionWork = 5
	// presentWindow is how far after a lone start year an open "PRESENT" end is looked for.
	presentWindow = 50
)

var (
	companyYearRe = regexp.MustCompile(`([A-Z][A-Za-z \t&]{3,30})\s*\n?\s*(20\d{2})\s*-?\s*(PRESENT|20\d{2})?`)
	workSectionRe = regexp.MustCompile(`(?is)WORK.*?EXPERIENCE(.*?)(?:EDUCATION|SKILLS|$)`)
	sectionPairRe = regexp.MustCompile(`([A-Z][A-Za-z \t&]{3,25})\s*(20\d{2})\s*-?\s*(PRESENT|20\d{2})?`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\+?\d{1,4}[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{3,4}`)

	schoolWords = []string{"university", "academy", "college", "education"}

	DefaultProjectKeywords = []string{"project", "initiative"}
)

// ParseWork reads "COMPANY 2019-2022" style pairs straight from OCR text,
// first across the whole text and then inside a WORK EXPERIENCE section.
// A company name is a single line; the years may follow on the next one.
func ParseWork(text string, r *duration.Resolver) []string {
	if r == nil {
		r = duration.New()
	}

	var out []string
	for _, m := range companyYearRe.FindAllStringSubmatchIndex(text, -1) {
		company := text[m[2]:m[3]]
		start := text[m[4]:m[5]]
		end := ""
		if m[6] >= 0 {
			end = text[m[6]:m[7]]
		}

		name := companyName(company)
		if containsAny(strings.ToLower(name), schoolWords) {
			continue
		}
		if end == "" && openEnded(text[m[4]:]) {
			end = "PRESENT"
		}

		out = append(out, withTag(name, r.Tag(span(start, end))))
	}

	if section := workSectionRe.FindStringSubmatch(text); section != nil {
		for _, m := range sectionPairRe.FindAllStringSubmatch(section[1], maxSectionWork) {
			out = append(out, withTag(companyName(m[1]), r.Tag(span(m[2], m[3]))))
		}
	}

	return textseg.Cap(dedupExact(out), MaxDirectWork)
}

func companyName(s string) string {
	return textseg.Title(strings.Join(strings.Fields(s), " "))
}

// openEnded reports whether PRESENT follows the start year on the same line.
func openEnded(rest string) bool {
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) > presentWindow {
		rest = rest[:presentWindow]
	}
	return strings.Contains(rest, "PRESENT")
}

// MergeWork keeps direct entries first and appends new model-derived entries
// until MaxWork is reached.
func MergeWork(direct, derived []string) []string {
	out := make([]string, 0, MaxWork)
	out = append(out, textseg.Cap(direct, MaxWork)...)
	for _, entry := range derived {
		if len(out) >= MaxWork {
			break
		}
		if !contains(out, entry) {
			out = append(out, entry)
		}
	}
	return out
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

// ExtractContact returns the first email address and phone number in text.
func ExtractContact(text string) models.Contact {
	return models.Contact{
		Email: emailRe.FindString(text),
		Phone: strings.TrimSpace(phoneRe.FindString(text)),
	}
}

// ExtractProjects returns keyword-led phrases such as "Project Atlas Migration".
func ExtractProjects(text string, keywords []string) []string {
	if len(keywords) == 0 {
		keywords = DefaultProjectKeywords
	}

	var out []string
	for _, kw := range keywords {
		re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(kw) + `[\w ]+?)(?:[.,;\n]|$)`)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n := utf8.RuneCountInString(m[1])
			if n <= 5 || n >= 100 {
				continue
			}
			out = append(out, textseg.Title(strings.TrimSpace(m[1])))
		}
	}

	return textseg.Cap(textseg.Dedup(out), MaxProjects)
}
