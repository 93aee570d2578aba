package ranking

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	RankingSheet = "Ranking"
	SummarySheet = "Summary"
)

var rankingColumns = []struct {
	title string
	width float64
}{
	{"Rank", 8},
	{"Application", 38},
	{"Applicant", 25},
	{"Total", 10},
	{"Skills", 10},
	{"Experience", 12},
	{"Education", 12},
	{"Courses", 10},
	{"Years", 8},
	{"Rating", 16},
	{"Matched Skills", 40},
	{"Missing Skills", 40},
}

// ExportXLSX writes the report to an Excel workbook with a ranking sheet and a
// summary sheet. The .xlsx extension is appended when missing. It returns the
// path that was written.
func (r *Report) ExportXLSX(path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return "", err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("creating header style: %w", err)
	}

	if err := r.writeRanking(f, header); err != nil {
		return "", fmt.Errorf("writing ranking sheet: %w", err)
	}
	if err := r.writeSummary(f, header); err != nil {
		return "", fmt.Errorf("writing summary sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

func (r *Report) writeRanking(f *excelize.File, header int) error {
	for i, col := range rankingColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(RankingSheet, name, name, col.width); err != nil {
			return err
		}
		if err := f.SetCellValue(RankingSheet, name+"1", col.title); err != nil {
			return err
		}
	}

	last, _ := excelize.ColumnNumberToName(len(rankingColumns))
	if err := f.SetCellStyle(RankingSheet, "A1", last+"1", header); err != nil {
		return err
	}

	for i, res := range r.Results {
		b := res.Breakdown
		row := []any{
			res.Position,
			res.ApplicationID,
			res.Applicant,
			b.TotalScore,
			b.SkillsScore,
			b.ExperienceScore,
			b.EducationScore,
			b.CourseMatchScore,
			b.CandidateYears,
			b.Rating,
			strings.Join(b.MatchedSkills, ", "),
			strings.Join(b.MissingSkills, ", "),
		}
		if err := f.SetSheetRow(RankingSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	return nil
}

func (r *Report) writeSummary(f *excelize.File, header int) error {
	s := r.Summary
	sheet := SummarySheet

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 40)

	row := 1
	section := func(title string) {
		if row > 1 {
			row++
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), header)
		row++
	}
	pair := func(label string, value any) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	section("Job")
	pair("Title", r.Job.Title)
	pair("Required Skills", strings.Join(r.Job.RequiredSkills, ", "))
	pair("Minimum Experience", r.Job.MinExperienceYears)
	if r.Job.RequiredEducation != "" {
		pair("Required Education", r.Job.RequiredEducation)
	}
	if r.Weights != nil {
		pair("Weights", fmt.Sprintf("skills %.2f, experience %.2f, education %.2f",
			r.Weights.Skills, r.Weights.Experience, r.Weights.Education))
	}

	section("Statistics")
	pair("Candidates", s.Count)
	pair("Average Score", s.AverageScore)
	pair("Top Score", s.TopScore)
	pair("Average Years", s.AverageYears)

	section("Score Distribution")
	for _, b := range s.Distribution {
		pair(b.Label, b.Count)
	}

	if len(s.TopSkills) > 0 {
		section("Most Matched Skills")
		for _, sc := range s.TopSkills {
			pair(sc.Skill, sc.Count)
		}
	}
	if len(s.MissingSkills) > 0 {
		section("Most Missing Skills")
		for _, sc := range s.MissingSkills {
			pair(sc.Skill, sc.Count)
		}
	}
	if len(s.Education) > 0 {
		section("Education")
		for _, lc := range s.Education {
			pair(lc.Name, lc.Count)
		}
	}

	return nil
}
