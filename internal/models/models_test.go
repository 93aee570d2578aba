package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRequirementAcceptsStringAndListSkills(t *testing.T) {
	var job JobRequirement
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Data Analyst",
		"required_skills": "python, SQL\nExcel",
		"min_experience_years": 2,
		"accepted_courses": ["Statistics", " Databases "]
	}`), &job))

	assert.Equal(t, List{"python", "SQL", "Excel"}, job.RequiredSkills)
	assert.Equal(t, List{"Statistics", "Databases"}, job.AcceptedCourses)
	assert.Equal(t, 2, job.MinExperienceYears)

	var bad JobRequirement
	assert.Error(t, json.Unmarshal([]byte(`{"required_skills": 42}`), &bad))
}

func TestDecodeSecondaryIsLenient(t *testing.T) {
	s, err := DecodeSecondary(map[string]any{
		"skills":           "Go, Kubernetes ,",
		"education":        []any{"MSc Computer Science"},
		"years_experience": "4",
		"unknown":          true,
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, []string{"Go", "Kubernetes"}, s.Skills)
	assert.Equal(t, []string{"MSc Computer Science"}, s.Education)
	assert.Equal(t, 4, s.YearsExperience)

	none, err := DecodeSecondary(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = DecodeSecondary(map[string]any{"years_experience": "many"})
	assert.Error(t, err)
}

func TestMergeIsListUnion(t *testing.T) {
	p := CandidateProfile{
		Skills:         []string{"Python", "SQL"},
		WorkExperience: []string{"Data Analyst (2019-2022, 3 yrs)"},
		RawText:        "raw",
	}

	merged := p.Merge(&SecondaryProfile{
		Skills:          []string{"sql", "Tableau"},
		WorkExperience:  []string{"Data Analyst (2019-2022, 3 yrs)", "Intern (2018)"},
		YearsExperience: 2,
	})

	want := CandidateProfile{
		Skills:         []string{"Python", "SQL", "Tableau"},
		Education:      []string{},
		WorkExperience: []string{"Data Analyst (2019-2022, 3 yrs)", "Intern (2018)"},
		Projects:       []string{},
		RawText:        "raw",
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, p, p.Merge(nil))
}

func TestProfileEmpty(t *testing.T) {
	var nilProfile *CandidateProfile
	assert.True(t, nilProfile.Empty())
	assert.True(t, (&CandidateProfile{}).Empty())
	assert.False(t, (&CandidateProfile{RawText: "text"}).Empty())
}
