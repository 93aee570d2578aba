package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/resume-scorer/internal/filtering"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadApplicationFromText(t *testing.T) {
	path := writeFile(t, "jane.txt", "Python, SQL")

	app, err := readApplication(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.ID != "jane" || app.RawText != "Python, SQL" {
		t.Fatalf("unexpected application: %+v", app)
	}
}

func TestReadApplicationFromJSON(t *testing.T) {
	path := writeFile(t, "cand.json", `{
		"applicant": "Jane",
		"profile": {"skills": ["Go"]},
		"secondary": {"skills": "Docker, Kubernetes", "years_experience": "3"}
	}`)

	app, err := readApplication(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.ID != "cand" {
		t.Fatalf("expected id from file name, got %q", app.ID)
	}
	if app.SecondaryProfile == nil || len(app.SecondaryProfile.Skills) != 2 {
		t.Fatalf("expected decoded secondary profile, got %+v", app.SecondaryProfile)
	}
	if app.SecondaryProfile.YearsExperience != 3 {
		t.Fatalf("expected 3 years, got %d", app.SecondaryProfile.YearsExperience)
	}
}

func TestReadJSONReportsFile(t *testing.T) {
	path := writeFile(t, "broken.json", "{")

	var v map[string]any
	if err := readJSON(path, &v); err == nil {
		t.Fatal("expected decoding error")
	}
}

func TestPrepareFilters(t *testing.T) {
	if err := rankCmd.Flags().Set("keep-duplicates", "true"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	t.Cleanup(func() { rankCmd.Flags().Set("keep-duplicates", "false") })

	steps := prepareFilters(rankCmd, &Config{Filters: &FiltersConfig{Applicants: []string{"Bob"}}})

	enabled := map[string]bool{}
	for _, s := range filtering.Describe(steps) {
		enabled[s.Name] = s.Enabled
	}

	want := map[string]bool{
		filtering.NameUnprocessed: true,
		filtering.NameExcludeFile: false,
		filtering.NameApplicants:  true,
		filtering.NameDuplicates:  false,
	}
	for name, on := range want {
		if enabled[name] != on {
			t.Fatalf("filter %s: expected enabled=%v, got %v", name, on, enabled[name])
		}
	}
}
