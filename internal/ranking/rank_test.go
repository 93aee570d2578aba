package ranking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spigell/resume-scorer/internal/applicants"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubScorer returns the total registered for the candidate raw text.
type stubScorer struct {
	totals map[string]float64
	delay  time.Duration

	mu       sync.Mutex
	profiles map[string]models.CandidateProfile

	running atomic.Int32
	peak    atomic.Int32
}

func (s *stubScorer) Score(_ context.Context, _ models.JobRequirement, candidate models.CandidateProfile, _ *models.SecondaryProfile) models.ScoreBreakdown {
	n := s.running.Add(1)
	defer s.running.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	if s.profiles == nil {
		s.profiles = map[string]models.CandidateProfile{}
	}
	s.profiles[candidate.RawText] = candidate
	s.mu.Unlock()

	return models.ScoreBreakdown{TotalScore: s.totals[candidate.RawText], MatchedSkills: candidate.Skills}
}

type stubExtractor struct {
	insights models.Insights
	calls    atomic.Int32
}

func (e *stubExtractor) Extract(_ context.Context, _ string) models.Insights {
	e.calls.Add(1)
	return e.insights
}

var job = models.JobRequirement{Title: "Data Analyst", RequiredSkills: models.List{"sql"}}

func withProfile(id, raw string) *applicants.Application {
	return &applicants.Application{
		ID:      id,
		RawText: raw,
		Profile: &models.CandidateProfile{Skills: []string{"sql"}},
	}
}

func TestRankOrdersByTotalAndKeepsTies(t *testing.T) {
	scorer := &stubScorer{totals: map[string]float64{"a": 72.5, "b": 91, "c": 91}}
	r := New(scorer)

	results, err := r.Rank(context.Background(), job, []*applicants.Application{
		withProfile("A", "a"),
		withProfile("B", "b"),
		withProfile("C", "c"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	ids := []string{results[0].ApplicationID, results[1].ApplicationID, results[2].ApplicationID}
	assert.Equal(t, []string{"B", "C", "A"}, ids)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Position, results[1].Position, results[2].Position})
	assert.Equal(t, 91.0, results[0].Breakdown.TotalScore)
	assert.Equal(t, 72.5, results[2].Breakdown.TotalScore)
}

func TestRankEmpty(t *testing.T) {
	results, err := New(&stubScorer{}).Rank(context.Background(), job, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRankExtractsProfileFromRawText(t *testing.T) {
	scorer := &stubScorer{totals: map[string]float64{"raw resume": 40}}
	extractor := &stubExtractor{insights: models.Insights{
		Skills:  []string{"SQL", "Excel"},
		Partial: true,
		Errors:  []string{"skills: quota"},
	}}

	core, logs := observer.New(zapcore.WarnLevel)
	r := New(scorer, WithExtractor(extractor), WithLogger(zap.New(core)))

	results, err := r.Rank(context.Background(), job, []*applicants.Application{
		{ID: "X", RawText: "raw resume"},
		withProfile("Y", "with profile"),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, extractor.calls.Load())
	assert.Equal(t, []string{"SQL", "Excel"}, scorer.profiles["raw resume"].Skills)
	assert.Equal(t, []string{"sql"}, scorer.profiles["with profile"].Skills)

	require.NotNil(t, results[0].Insights)
	assert.Equal(t, "X", results[0].ApplicationID)
	assert.True(t, results[0].Insights.Partial)
	assert.Nil(t, results[1].Insights)

	entries := logs.FilterMessage("scoring with partial insights").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "X", entries[0].ContextMap()["application_id"])
}

func TestRankScoresEmptyProfileWithoutExtractor(t *testing.T) {
	scorer := &stubScorer{}
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(scorer, WithLogger(zap.New(core)))

	results, err := r.Rank(context.Background(), job, []*applicants.Application{{ID: "Z", RawText: "text only"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Empty(t, scorer.profiles["text only"].Skills)
	assert.Equal(t, 1, logs.FilterMessage("no usable profile, scoring an empty one").Len())
}

func TestRankRespectsWorkerLimit(t *testing.T) {
	scorer := &stubScorer{delay: 20 * time.Millisecond}
	r := New(scorer, WithWorkers(2))

	apps := make([]*applicants.Application, 0, 6)
	for i := range 6 {
		apps = append(apps, withProfile(string(rune('A'+i)), string(rune('a'+i))))
	}

	_, err := r.Rank(context.Background(), job, apps)
	require.NoError(t, err)
	assert.LessOrEqual(t, scorer.peak.Load(), int32(2))
	assert.GreaterOrEqual(t, scorer.peak.Load(), int32(1))
}

func TestRankStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&stubScorer{}).Rank(ctx, job, []*applicants.Application{withProfile("A", "a")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFallsBackToDefaultWorkers(t *testing.T) {
	r := New(&stubScorer{}, WithWorkers(0))
	assert.Equal(t, DefaultWorkers, r.workers)
}
