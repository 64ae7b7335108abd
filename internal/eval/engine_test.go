package eval

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippay/reimburse/internal/calculation"
	"github.com/trippay/reimburse/internal/domain"
)

func testTrips(t *testing.T) []domain.TripInput {
	t.Helper()
	rows := []struct {
		days     int
		miles    int
		receipts string
	}{
		{1, 47, "17.97"},
		{3, 150, "250.00"},
		{5, 831, "591.65"},
		{10, 600, "500.00"},
	}

	trips := make([]domain.TripInput, 0, len(rows))
	for _, s := range rows {
		trip, err := domain.NewTripInput(s.days, s.miles, decimal.RequireFromString(s.receipts))
		require.NoError(t, err)
		trips = append(trips, trip)
	}
	return trips
}

// casesWithDeltas labels each trip with the engine's own output shifted by a
// known delta, so every error metric has a closed-form expected value.
func casesWithDeltas(t *testing.T, engine *calculation.Engine, deltas []string) []domain.LabeledCase {
	t.Helper()
	trips := testTrips(t)
	require.LessOrEqual(t, len(deltas), len(trips))

	cases := make([]domain.LabeledCase, 0, len(deltas))
	for i, d := range deltas {
		cases = append(cases, domain.LabeledCase{
			Input:          trips[i],
			ExpectedOutput: engine.Calculate(trips[i]).Add(decimal.RequireFromString(d)),
		})
	}
	return cases
}

func TestEvaluator_PerfectRun(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"0", "0", "0", "0"})

	summary := NewEvaluator(engine).Run(cases)

	assert.Equal(t, 4, summary.TotalCases)
	assert.Equal(t, 4, summary.ExactMatches)
	assert.Equal(t, 4, summary.CloseMatches)
	assert.Equal(t, 0, summary.NegativeOutputs)
	assert.True(t, summary.MeanAbsoluteError.IsZero())
	assert.True(t, summary.MaxAbsoluteError.IsZero())
	assert.True(t, summary.Score.IsZero(), "A perfect run scores zero, got %s", summary.Score)
	assert.True(t, summary.ExactMatchRate().Equal(decimal.NewFromInt(100)))
}

func TestEvaluator_KnownErrors(t *testing.T) {
	engine := calculation.NewEngine(nil)
	// One exact, one close but not exact, one outright miss.
	cases := casesWithDeltas(t, engine, []string{"0", "0.50", "10.00"})

	summary := NewEvaluator(engine).Run(cases)

	assert.Equal(t, 3, summary.TotalCases)
	assert.Equal(t, 1, summary.ExactMatches)
	assert.Equal(t, 2, summary.CloseMatches)
	assert.True(t, summary.MeanAbsoluteError.Equal(decimal.RequireFromString("3.5")),
		"MAE = 10.50/3, got %s", summary.MeanAbsoluteError)
	assert.True(t, summary.MaxAbsoluteError.Equal(decimal.NewFromInt(10)))

	// 3.5*100 for the error term plus 2 misses at 0.1 each.
	assert.True(t, summary.Score.Equal(decimal.RequireFromString("350.2")),
		"got score %s", summary.Score)
}

func TestEvaluator_EmptyCases(t *testing.T) {
	engine := calculation.NewEngine(nil)
	summary := NewEvaluator(engine).Run(nil)

	assert.Equal(t, 0, summary.TotalCases)
	assert.True(t, summary.Score.IsZero())
	assert.True(t, summary.ExactMatchRate().IsZero())
	assert.Empty(t, summary.RuleBreakdown)
	assert.Empty(t, summary.WorstCases)
}

func TestEvaluator_RuleBreakdown(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"0", "0", "0", "0"})

	summary := NewEvaluator(engine).Run(cases)

	require.NotEmpty(t, summary.RuleBreakdown)

	total := 0
	for _, rs := range summary.RuleBreakdown {
		assert.NotEmpty(t, rs.Rule)
		assert.Positive(t, rs.Count)
		total += rs.Count
	}
	assert.Equal(t, len(cases), total, "Breakdown counts must partition the cases")

	for i := 1; i < len(summary.RuleBreakdown); i++ {
		assert.GreaterOrEqual(t, summary.RuleBreakdown[i-1].Count, summary.RuleBreakdown[i].Count,
			"Breakdown must be sorted by count descending")
	}
}

func TestEvaluator_WorstCases(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"1.00", "25.00", "5.00", "0"})

	ev := NewEvaluator(engine)
	ev.WorstCount = 2
	summary := ev.Run(cases)

	require.Len(t, summary.WorstCases, 2)
	assert.Equal(t, 1, summary.WorstCases[0].Index, "The $25 miss ranks first")
	assert.Equal(t, 2, summary.WorstCases[1].Index, "The $5 miss ranks second")
	assert.True(t, summary.WorstCases[0].AbsoluteError.Equal(decimal.NewFromInt(25)))
}

func TestEvaluator_WorstCountZero(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"1.00", "2.00"})

	ev := NewEvaluator(engine)
	ev.WorstCount = 0
	summary := ev.Run(cases)

	assert.Empty(t, summary.WorstCases)
}

func TestSummary_MatchRates(t *testing.T) {
	s := &Summary{TotalCases: 8, ExactMatches: 2, CloseMatches: 6}

	assert.Equal(t, "25.0", s.ExactMatchRate().StringFixed(1))
	assert.Equal(t, "75.0", s.CloseMatchRate().StringFixed(1))
}
