package applicants

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spigell/resume-scorer/internal/models"
)

var ErrNotFound = errors.New("application not found")

// Input is one job together with the applications received for it.
type Input struct {
	Job          models.JobRequirement `json:"job"`
	Applications *Applications         `json:"applications"`
}

type Applications struct {
	Items []*Application
}

type Application struct {
	ID        string                   `json:"id"`
	Applicant string                   `json:"applicant,omitempty"`
	RawText   string                   `json:"raw_text,omitempty"`
	Profile   *models.CandidateProfile `json:"profile,omitempty"`
	// Secondary is loosely typed data from another source, decoded into SecondaryProfile on load.
	Secondary        map[string]any           `json:"secondary,omitempty"`
	SecondaryProfile *models.SecondaryProfile `json:"-"`
}

func (a *Applications) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &a.Items)
}

func (a *Applications) MarshalJSON() ([]byte, error) {
	if a.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Items)
}

// Load reads and validates an input file. Applications without an id get a
// generated one.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if in.Applications == nil {
		in.Applications = &Applications{}
	}

	if err := ValidateJob(in.Job); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, in.Applications.Len())
	for idx, app := range in.Applications.Items {
		if app == nil {
			return nil, fmt.Errorf("application #%d is empty", idx+1)
		}
		if app.ID = strings.TrimSpace(app.ID); app.ID == "" {
			app.ID = uuid.NewString()
		}
		if _, ok := seen[app.ID]; ok {
			return nil, fmt.Errorf("duplicate application id %q", app.ID)
		}
		seen[app.ID] = struct{}{}

		if app.SecondaryProfile, err = models.DecodeSecondary(app.Secondary); err != nil {
			return nil, fmt.Errorf("application %q: %w", app.ID, err)
		}
	}

	return &in, nil
}

// ValidateJob checks the job requirement fields.
func ValidateJob(job models.JobRequirement) error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(job); err != nil {
		return fmt.Errorf("invalid job requirement: %w", err)
	}
	return nil
}

// Processed reports whether there is anything to score.
func (a *Application) Processed() bool {
	return strings.TrimSpace(a.RawText) != "" || !a.Profile.Empty()
}

func (a *Applications) Len() int {
	return len(a.Items)
}

func (a *Applications) IDs() []string {
	ids := make([]string, 0, len(a.Items))
	for _, app := range a.Items {
		ids = append(ids, app.ID)
	}
	return ids
}

func (a *Applications) FindByID(id string) *Application {
	for _, app := range a.Items {
		if app.ID == id {
			return app
		}
	}
	return nil
}

func (a *Applications) Get(id string) (*Application, error) {
	if app := a.FindByID(id); app != nil {
		return app, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Exclude removes applications by id and returns the removed ids.
// The relative order of the remaining applications is kept.
func (a *Applications) Exclude(targets []string) []string {
	var excluded []string
	for _, target := range targets {
		if idx := slices.IndexFunc(a.Items, func(app *Application) bool { return app.ID == target }); idx >= 0 {
			a.RemoveByIndex(idx)
			excluded = append(excluded, target)
		}
	}
	return excluded
}

// ExcludeFunc removes every application for which drop returns true.
func (a *Applications) ExcludeFunc(drop func(*Application) bool) []string {
	var excluded []string
	a.Items = slices.DeleteFunc(a.Items, func(app *Application) bool {
		if drop(app) {
			excluded = append(excluded, app.ID)
			return true
		}
		return false
	})
	return excluded
}

// RemoveByIndex removes an application from the list. Order is preserved.
func (a *Applications) RemoveByIndex(idx int) {
	a.Items = slices.Delete(a.Items, idx, idx+1)
}

func (a *Applications) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "applications_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return "", err
	}
	return file.Name(), nil
}
