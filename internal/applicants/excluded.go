package applicants

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

type Excluded struct {
	Items []*ExcludedApplication
}

type ExcludedApplication struct {
	ID         string
	Applicant  string
	Reason     string
	ExcludedAt time.Time
}

// ToExcluded records every application as excluded for the given reason.
func (a *Applications) ToExcluded(reason string) *Excluded {
	excluded := &Excluded{}
	for _, app := range a.Items {
		excluded.Items = append(excluded.Items, &ExcludedApplication{
			ID:         app.ID,
			Applicant:  app.Applicant,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// ReadExcluded reads an exclude file. A missing or empty file is an empty list.
func ReadExcluded(path string) (*Excluded, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Excluded{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Excluded{}, nil
	}

	var excluded Excluded
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *Excluded) Append(s *Excluded) {
	e.Items = append(e.Items, s.Items...)
}

func (e *Excluded) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (e *Excluded) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
