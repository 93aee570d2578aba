package ranking

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResults() []Result {
	results := []Result{
		{ApplicationID: "A", Applicant: "Ann", Breakdown: models.ScoreBreakdown{
			TotalScore: 85, CandidateYears: 4, CandidateEducationLevel: 3, Rating: scoring.Rating(85),
			MatchedSkills: []string{"SQL", "Python"}, MissingSkills: []string{"Tableau"},
		}},
		{ApplicationID: "B", Applicant: "Bob", Breakdown: models.ScoreBreakdown{
			TotalScore: 62.5, CandidateYears: 2, CandidateEducationLevel: 3, Rating: scoring.Rating(62.5),
			MatchedSkills: []string{"sql"}, MissingSkills: []string{"Python", "tableau"},
		}},
		{ApplicationID: "C", Breakdown: models.ScoreBreakdown{
			TotalScore: 20, CandidateEducationLevel: 0, Rating: scoring.Rating(20),
			MissingSkills: []string{"SQL", "Python", "Tableau"},
		}},
	}
	Sort(results)
	return results
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults(), 0)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 55.8, s.AverageScore)
	assert.Equal(t, 2.0, s.AverageYears)
	assert.Equal(t, 85.0, s.TopScore)

	counts := map[string]int{}
	for _, b := range s.Distribution {
		counts[b.Label] = b.Count
	}
	assert.Equal(t, map[string]int{"80-100": 1, "60-79": 1, "40-59": 0, "0-39": 1}, counts)

	assert.Equal(t, []SkillCount{{Skill: "SQL", Count: 2}, {Skill: "Python", Count: 1}}, s.TopSkills)
	assert.Equal(t, []SkillCount{{Skill: "Tableau", Count: 3}, {Skill: "Python", Count: 2}, {Skill: "SQL", Count: 1}}, s.MissingSkills)

	assert.Equal(t, []LevelCount{
		{Level: 0, Name: "None", Count: 1},
		{Level: 3, Name: "Bachelor", Count: 2},
	}, s.Education)

	total := 0
	for _, n := range s.Ratings {
		total += n
	}
	assert.Equal(t, 3, total)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 3)
	assert.Zero(t, s.Count)
	assert.Zero(t, s.AverageScore)
	assert.Empty(t, s.TopSkills)
	assert.Len(t, s.Distribution, 4)
}

func TestSummarizeLimitsSkills(t *testing.T) {
	s := Summarize(sampleResults(), 1)
	assert.Equal(t, []SkillCount{{Skill: "SQL", Count: 2}}, s.TopSkills)
	assert.Len(t, s.MissingSkills, 1)
}

func TestReportJSON(t *testing.T) {
	weights := scoring.Weights{Skills: 0.8, Experience: 0.1, Education: 0.1}
	report := NewReport(models.JobRequirement{Title: "Analyst"}, &weights, sampleResults())

	require.NotEmpty(t, report.ID)
	assert.Equal(t, []string{"A", "B", "C"}, report.ApplicationIDs())
	assert.Len(t, report.Top(2), 2)
	assert.Len(t, report.Top(0), 3)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, 3, decoded.Summary.Count)
	assert.Equal(t, 1, decoded.Results[0].Position)

	path, err := report.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestExportXLSX(t *testing.T) {
	report := NewReport(models.JobRequirement{Title: "Analyst", RequiredSkills: models.List{"SQL", "Python"}}, nil, sampleResults())

	path, err := report.ExportXLSX(filepath.Join(t.TempDir(), "ranking"))
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RankingSheet, SummarySheet}, f.GetSheetList())

	header, err := f.GetCellValue(RankingSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Application", header)

	first, err := f.GetCellValue(RankingSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "A", first)

	matched, err := f.GetCellValue(RankingSheet, "K2")
	require.NoError(t, err)
	assert.Equal(t, "SQL, Python", matched)

	title, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Analyst", title)
}
