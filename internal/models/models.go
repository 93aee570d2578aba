// Package models holds the records exchanged between extraction, scoring and ranking.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spigell/resume-scorer/internal/textseg"
)

// List is a list of strings that also accepts a single comma separated string in JSON.
type List []string

func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = textseg.Segment(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, textseg.Segment(item)...)
	}
	*l = out

	return nil
}

// JobRequirement is the read-only view of a job posting used by the scorer.
type JobRequirement struct {
	Title              string `json:"title" mapstructure:"title" validate:"required"`
	RequiredSkills     List   `json:"required_skills" mapstructure:"required_skills"`
	MinExperienceYears int    `json:"min_experience_years" mapstructure:"min_experience_years" validate:"gte=0,lte=60"`
	RequiredEducation  string `json:"required_education,omitempty" mapstructure:"required_education"`
	AcceptedCourses    List   `json:"accepted_courses,omitempty" mapstructure:"accepted_courses"`
}

// CandidateProfile is the structured result of parsing a resume.
type CandidateProfile struct {
	Skills         []string `json:"skills"`
	Education      []string `json:"education"`
	WorkExperience []string `json:"work_experience"`
	Projects       []string `json:"projects"`
	RawText        string   `json:"raw_text,omitempty"`
}

// Empty reports whether the profile carries nothing to score.
func (p *CandidateProfile) Empty() bool {
	return p == nil ||
		len(p.Skills) == 0 && len(p.Education) == 0 && len(p.WorkExperience) == 0 &&
			len(p.Projects) == 0 && p.RawText == ""
}

// ScoreBreakdown is the result of scoring one candidate against one job.
// All fields are always present; absent data resolves to neutral defaults.
type ScoreBreakdown struct {
	TotalScore              float64  `json:"total_score"`
	SkillsScore             float64  `json:"skills_score"`
	ExperienceScore         float64  `json:"experience_score"`
	EducationScore          float64  `json:"education_score"`
	CourseMatchScore        float64  `json:"course_match_score"`
	MatchedSkills           []string `json:"matched_skills"`
	MissingSkills           []string `json:"missing_skills"`
	MatchedCourses          []string `json:"matched_courses"`
	CandidateYears          int      `json:"candidate_years"`
	RequiredYears           int      `json:"required_years"`
	CandidateEducationLevel int      `json:"candidate_education_level"`
	RequiredEducationLevel  int      `json:"required_education_level"`
	Rating                  string   `json:"rating"`
}

// Contact holds the contact details found in raw resume text.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Insights is the structured extraction output handed to downstream consumers.
type Insights struct {
	Contact        Contact  `json:"contact"`
	Skills         []string `json:"skills"`
	Education      []string `json:"education"`
	WorkExperience []string `json:"work_experience"`
	Projects       []string `json:"projects"`
	// Partial is set when a model call failed and some lists come from heuristics only.
	Partial bool     `json:"partial,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Profile converts insights into a candidate profile for scoring.
func (i Insights) Profile(rawText string) CandidateProfile {
	return CandidateProfile{
		Skills:         i.Skills,
		Education:      i.Education,
		WorkExperience: i.WorkExperience,
		Projects:       i.Projects,
		RawText:        rawText,
	}
}
