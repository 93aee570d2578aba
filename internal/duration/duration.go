// Package duration turns free-text work entries into a count of years.
//
// Entries are resolved by an ordered list of strategies; the first strategy that
// produces a value wins:
//
//  1. explicit count      "Engineer (2 yrs)"          -> 2 (only 0 < N <= 40)
//  2. year range          "DevOps (2019-2022)"        -> 3 (last range in the text)
//  3. open-ended range    "Manager (2020-Present)"    -> now - 2020
//
// Anything else resolves to 0.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxExplicitYears bounds explicit counts; larger values are treated as noise.
	MaxExplicitYears = 40

	StrategyExplicit = "explicit"
	StrategyRange    = "range"
	StrategyPresent  = "present"
)

var (
	explicitRe = regexp.MustCompile(`\b(\d+)\s*(?:yr|yrs|year|years)\b`)
	rangeRe    = regexp.MustCompile(`\b((?:19|20)\d{2})\s*[-–—/]\s*((?:19|20)\d{2})\b`)
	yearRe     = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	presentRe  = regexp.MustCompile(`\b(?:present|current|currently|now|date)\b`)
)

// Match is the outcome of a successful strategy.
type Match struct {
	Strategy string
	Years    int
	// Start and End are set when the strategy read calendar years.
	Start int
	End   int
}

// Strategy is a single named extraction rule. Resolve receives lower-cased text.
type Strategy struct {
	Name    string
	Resolve func(text string, now time.Time) (Match, bool)
}

// Resolver applies strategies in order.
type Resolver struct {
	strategies []Strategy
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNow overrides the clock used by present-relative strategies.
func WithNow(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New returns a Resolver with the default strategy chain.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		strategies: DefaultStrategies(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultStrategies returns the canonical precedence: explicit, range, present.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyExplicit, Resolve: resolveExplicit},
		{Name: StrategyRange, Resolve: resolveRange},
		{Name: StrategyPresent, Resolve: resolvePresent},
	}
}

// Match returns the result of the first strategy that succeeds.
func (r *Resolver) Match(entry string) (Match, bool) {
	text := strings.ToLower(entry)
	now := r.now()
	for _, s := range r.strategies {
		if m, ok := s.Resolve(text, now); ok {
			m.Strategy = s.Name
			return m, true
		}
	}
	return Match{}, false
}

// Years returns the number of years described by entry, or 0.
func (r *Resolver) Years(entry string) int {
	m, ok := r.Match(entry)
	if !ok {
		return 0
	}
	return m.Years
}

// Tag renders a short duration suffix for a work entry, e.g. "(2019-2022, 3 yrs)".
// It follows the same precedence as Years and falls back to "(Since YYYY)" for a
// lone plausible year. An empty string means no duration was found.
func (r *Resolver) Tag(entry string) string {
	if m, ok := r.Match(entry); ok {
		switch m.Strategy {
		case StrategyExplicit:
			return fmt.Sprintf("(%d yrs)", m.Years)
		case StrategyRange:
			if m.End-m.Start > 0 {
				return fmt.Sprintf("(%d-%d, %d yrs)", m.Start, m.End, m.End-m.Start)
			}
			return fmt.Sprintf("(%d)", m.Start)
		case StrategyPresent:
			if m.End-m.Start > 0 {
				return fmt.Sprintf("(%d yrs)", m.End-m.Start)
			}
			return "(Current)"
		}
	}

	current := r.now().Year()
	for _, y := range yearRe.FindAllString(entry, -1) {
		year, _ := strconv.Atoi(y)
		if year >= 2000 && year <= current+5 {
			return fmt.Sprintf("(Since %d)", year)
		}
	}
	return ""
}

func resolveExplicit(text string, _ time.Time) (Match, bool) {
	sub := explicitRe.FindStringSubmatch(text)
	if sub == nil {
		return Match{}, false
	}
	n, err := strconv.Atoi(sub[1])
	if err != nil || n <= 0 || n > MaxExplicitYears {
		return Match{}, false
	}
	return Match{Years: n}, true
}

func resolveRange(text string, _ time.Time) (Match, bool) {
	all := rangeRe.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return Match{}, false
	}
	last := all[len(all)-1]
	start, _ := strconv.Atoi(last[1])
	end, _ := strconv.Atoi(last[2])
	return Match{Years: max(1, end-start), Start: start, End: end}, true
}

func resolvePresent(text string, now time.Time) (Match, bool) {
	if !presentRe.MatchString(text) {
		return Match{}, false
	}
	y := yearRe.FindString(text)
	if y == "" {
		return Match{}, false
	}
	start, _ := strconv.Atoi(y)
	current := now.Year()
	return Match{Years: max(1, current-start), Start: start, End: current}, true
}
