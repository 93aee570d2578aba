package ranking

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/scoring"
)

// Report is the persisted outcome of one ranking run.
type Report struct {
	ID          string                `json:"id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Job         models.JobRequirement `json:"job"`
	Weights     *scoring.Weights      `json:"weights,omitempty"`
	Results     []Result              `json:"results"`
	Summary     Summary               `json:"summary"`
}

// NewReport wraps ranked results together with their summary.
func NewReport(job models.JobRequirement, weights *scoring.Weights, results []Result) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Job:         job,
		Weights:     weights,
		Results:     results,
		Summary:     Summarize(results, DefaultTopSkills),
	}
}

// Top returns at most n leading results. A non-positive n returns all of them.
func (r *Report) Top(n int) []Result {
	if n <= 0 || n >= len(r.Results) {
		return r.Results
	}
	return r.Results[:n]
}

// ApplicationIDs lists the ranked application ids in ranking order.
func (r *Report) ApplicationIDs() []string {
	ids := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		ids = append(ids, res.ApplicationID)
	}
	return ids
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := r.WriteJSON(file); err != nil {
		return "", err
	}
	return file.Name(), nil
}
