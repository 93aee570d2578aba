// Package textseg splits noisy OCR and model output into trimmed candidate segments.
package textseg

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators are the runes a segment boundary is placed on.
const separators = ",\n•;|"

// Segment splits text on commas, newlines, bullets, semicolons and pipes.
// Segments are trimmed and empty ones are dropped.
func Segment(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})

	segments := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		segments = append(segments, field)
	}

	return segments
}

// Join is the inverse of Segment for already clean segments.
func Join(segments []string) string {
	return strings.Join(segments, ", ")
}

// stripControls folds compatibility forms (ligatures, full-width digits) that OCR
// engines emit and removes non-printing control runes other than newlines and tabs.
var stripControls = transform.Chain(
	norm.NFKC,
	runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.IsControl(r) && r != '\n' && r != '\t'
	})),
)

// Normalize prepares raw OCR text for parsing. Line structure is preserved.
func Normalize(text string) string {
	out, _, err := transform.String(stripControls, text)
	if err != nil {
		return strings.ToValidUTF8(text, "")
	}
	return out
}

// Flatten turns text into a single comma separated line and keeps at most limit runes.
// A non-positive limit disables truncation.
func Flatten(text string, limit int) string {
	flat := strings.TrimSpace(strings.ReplaceAll(text, "\n", ", "))
	if limit <= 0 {
		return flat
	}
	r := []rune(flat)
	if len(r) <= limit {
		return flat
	}
	return string(r[:limit])
}

// Title upper-cases the first letter of every word and lower-cases the rest.
func Title(s string) string {
	// Casers keep state and must not be shared between goroutines.
	out := cases.Title(language.English).String(s)
	return strings.ReplaceAll(out, "'S", "'s")
}

// Key is the case-insensitive identity of a segment.
func Key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Dedup keeps the first occurrence of every segment by Key, preserving order.
func Dedup(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		k := Key(item)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Cap returns at most n leading items.
func Cap(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
