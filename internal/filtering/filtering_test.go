package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/resume-scorer/internal/applicants"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleApplications() *applicants.Applications {
	return &applicants.Applications{Items: []*applicants.Application{
		{ID: "a", Applicant: "Jane Doe", RawText: "resume"},
		{ID: "b", Applicant: "John Roe"},
		{ID: "c", Applicant: "jane  doe", Profile: &models.CandidateProfile{Skills: []string{"Go"}}},
		{ID: "d", Applicant: "Spam Bot", RawText: "resume"},
		{ID: "e", RawText: "resume"},
		{ID: "f", RawText: "resume"},
	}}
}

func TestRunDefaultChain(t *testing.T) {
	excludeFile := filepath.Join(t.TempDir(), "excluded.json")
	excluded := (&applicants.Applications{Items: []*applicants.Application{{ID: "f"}}}).ToExcluded("seen")
	require.NoError(t, excluded.ToFile(excludeFile))

	core, logs := observer.New(zapcore.InfoLevel)
	got, err := Run(context.Background(), Deps{Logger: zap.New(core)},
		Default(excludeFile, []string{" spam bot "}), sampleApplications())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "e"}, got.IDs())
	assert.Equal(t, 4, logs.FilterMessage("filter step").Len())
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	steps := Default("", nil)
	DisableByName(steps, NameDuplicates, "keep-duplicates flag is set")

	got, err := Run(context.Background(), Deps{}, steps, sampleApplications())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d", "e", "f"}, got.IDs())

	statuses := Describe(steps)
	require.Len(t, statuses, 4)
	assert.Equal(t, Status{Name: NameDuplicates, Reason: "keep-duplicates flag is set"}, statuses[3])
	assert.True(t, statuses[0].Enabled)
}

func TestExcludeFileErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	_, err := Run(context.Background(), Deps{}, []Filter{NewExcludeFile(bad)}, sampleApplications())
	assert.ErrorContains(t, err, "exclude_file")
}

type failingFilter struct{ toggle }

func (f *failingFilter) Name() string    { return "failing" }
func (f *failingFilter) Validate() error { return errors.New("not configured") }
func (f *failingFilter) Apply(context.Context, Deps, *applicants.Applications) (*applicants.Applications, Step, error) {
	return nil, Step{}, errors.New("unreachable")
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	apps := sampleApplications()
	_, err := Run(context.Background(), Deps{}, []Filter{NewUnprocessed(), &failingFilter{}}, apps)
	assert.ErrorContains(t, err, "failing: not configured")
	assert.Equal(t, 6, apps.Len())

	assert.Equal(t, []Status{{Name: "failing", Enabled: true}}, Describe([]Filter{&failingFilter{}}))
}
