package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/applicants"
	"github.com/spigell/resume-scorer/internal/logger"
)

const (
	NameUnprocessed = "unprocessed"
	NameExcludeFile = "exclude_file"
	NameApplicants  = "applicants"
	NameDuplicates  = "duplicates"
)

type unprocessedFilter struct {
	toggle
}

// NewUnprocessed creates a filter that removes applications with neither raw text nor a profile.
func NewUnprocessed() Filter {
	return &unprocessedFilter{}
}

func (f *unprocessedFilter) Name() string { return NameUnprocessed }

func (f *unprocessedFilter) Validate() error { return nil }

func (f *unprocessedFilter) Apply(_ context.Context, deps Deps, apps *applicants.Applications) (*applicants.Applications, Step, error) {
	initial := apps.Len()
	excluded := apps.ExcludeFunc(func(a *applicants.Application) bool { return !a.Processed() })
	if len(excluded) > 0 {
		logger.OrNop(deps.Logger).Info("excluding applications without resume data",
			zap.Strings("excluded_applications", excluded),
			zap.Int("applications_left", apps.Len()),
		)
	}

	return apps, Step{Initial: initial, Dropped: len(excluded), Left: apps.Len()}, nil
}

func (f *unprocessedFilter) Status() Status { return f.status(f.Name(), nil) }

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes applications listed in an exclude file.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path)}
}

func (f *excludeFileFilter) Name() string { return NameExcludeFile }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, apps *applicants.Applications) (*applicants.Applications, Step, error) {
	initial := apps.Len()
	if f.path == "" {
		return apps, Step{Initial: initial, Dropped: 0, Left: apps.Len()}, nil
	}

	excluded, err := applicants.ReadExcluded(f.path)
	if err != nil {
		return apps, Step{}, fmt.Errorf("getting excluded applications from file: %w", err)
	}

	removed := apps.Exclude(excluded.IDs())
	if len(removed) > 0 {
		logger.OrNop(deps.Logger).Info("excluding applications based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_applications", removed),
			zap.Int("applications_left", apps.Len()),
		)
	}

	return apps, Step{Initial: initial, Dropped: len(removed), Left: apps.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return f.status(f.Name(), details)
}

type applicantsFilter struct {
	toggle
	names map[string]struct{}
}

// NewExcludedApplicants creates a filter that removes applications by applicant name.
func NewExcludedApplicants(names []string) Filter {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			set[name] = struct{}{}
		}
	}
	return &applicantsFilter{names: set}
}

func (f *applicantsFilter) Name() string { return NameApplicants }

func (f *applicantsFilter) Validate() error { return nil }

func (f *applicantsFilter) Apply(_ context.Context, _ Deps, apps *applicants.Applications) (*applicants.Applications, Step, error) {
	initial := apps.Len()
	if len(f.names) == 0 {
		return apps, Step{Initial: initial, Dropped: 0, Left: apps.Len()}, nil
	}

	excluded := apps.ExcludeFunc(func(a *applicants.Application) bool {
		_, ok := f.names[strings.ToLower(strings.TrimSpace(a.Applicant))]
		return ok
	})

	return apps, Step{Initial: initial, Dropped: len(excluded), Left: apps.Len()}, nil
}

func (f *applicantsFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"names": fmt.Sprint(len(f.names))})
}

type duplicatesFilter struct {
	toggle
}

// NewDuplicates creates a filter that keeps only the first application of each named applicant.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return NameDuplicates }

func (f *duplicatesFilter) Validate() error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, apps *applicants.Applications) (*applicants.Applications, Step, error) {
	initial := apps.Len()
	seen := make(map[string]struct{}, apps.Len())

	excluded := apps.ExcludeFunc(func(a *applicants.Application) bool {
		key := strings.ToLower(strings.Join(strings.Fields(a.Applicant), " "))
		if key == "" {
			return false
		}
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		return false
	})
	if len(excluded) > 0 {
		logger.OrNop(deps.Logger).Info("excluding repeated applications",
			zap.Strings("excluded_applications", excluded),
			zap.Int("applications_left", apps.Len()),
		)
	}

	return apps, Step{Initial: initial, Dropped: len(excluded), Left: apps.Len()}, nil
}

func (f *duplicatesFilter) Status() Status { return f.status(f.Name(), nil) }

// Default returns the standard chain: unprocessed, exclude file, applicants, duplicates.
func Default(excludeFile string, applicantNames []string) []Filter {
	return []Filter{
		NewUnprocessed(),
		NewExcludeFile(excludeFile),
		NewExcludedApplicants(applicantNames),
		NewDuplicates(),
	}
}
