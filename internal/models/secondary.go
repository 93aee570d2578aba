package models

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-scorer/internal/textseg"
)

// SecondaryProfile is optional data about a candidate from another source,
// for example an imported professional network profile.
type SecondaryProfile struct {
	Skills          []string `json:"skills"`
	Education       []string `json:"education"`
	WorkExperience  []string `json:"work_experience"`
	Projects        []string `json:"projects"`
	YearsExperience int      `json:"years_experience"`
}

// DecodeSecondary decodes a loosely typed map. Lists may be given as comma
// separated strings and numbers as strings.
func DecodeSecondary(raw map[string]any) (*SecondaryProfile, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var out SecondaryProfile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &out,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode secondary profile: %w", err)
	}

	for _, list := range []*[]string{&out.Skills, &out.Education, &out.WorkExperience, &out.Projects} {
		*list = trimAll(*list)
	}
	if out.YearsExperience < 0 {
		out.YearsExperience = 0
	}

	return &out, nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Merge returns the union of the profile and the secondary lists. Skills are
// compared case-insensitively, other entries exactly. A nil secondary is a no-op.
func (p CandidateProfile) Merge(s *SecondaryProfile) CandidateProfile {
	if s == nil {
		return p
	}

	return CandidateProfile{
		Skills:         textseg.Dedup(concat(p.Skills, s.Skills)),
		Education:      union(p.Education, s.Education),
		WorkExperience: union(p.WorkExperience, s.WorkExperience),
		Projects:       union(p.Projects, s.Projects),
		RawText:        p.RawText,
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, item := range concat(a, b) {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
