package eval

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/calculation"
	"github.com/trippay/reimburse/internal/domain"
)

// Match tolerances. An exact match is the engine reproducing the legacy
// figure to the cent; a close match is within a dollar.
var (
	exactTolerance = decimal.RequireFromString("0.01")
	closeTolerance = decimal.RequireFromString("1.00")
	hundredPct     = decimal.NewFromInt(100)
)

// Score weights: errors dominate, unmatched cases add a small constant cost,
// and any negative output is punished hard enough to sink the calibration.
var (
	scoreErrorWeight    = decimal.NewFromInt(100)
	scoreMissWeight     = decimal.RequireFromString("0.1")
	scoreNegativeWeight = decimal.NewFromInt(1000)
)

// Evaluator replays labeled cases through the engine and scores the result.
// It is the acceptance test and the calibration feedback loop: disagreement
// with an expected value is data to fit against, never a runtime failure.
type Evaluator struct {
	engine *calculation.Engine
	Logger calculation.Logger

	// WorstCount is how many of the highest-error cases the summary keeps
	// for inspection.
	WorstCount int
}

// NewEvaluator creates an evaluator around an engine.
func NewEvaluator(engine *calculation.Engine) *Evaluator {
	return &Evaluator{
		engine:     engine,
		Logger:     calculation.NopLogger{},
		WorstCount: 5,
	}
}

// Run evaluates every case and aggregates the error metrics. The engine call
// is pure CPU, so replaying even large datasets is cheap enough to sit in a
// recalibration inner loop.
func (ev *Evaluator) Run(cases []domain.LabeledCase) *Summary {
	summary := &Summary{
		TotalCases:        len(cases),
		MeanAbsoluteError: decimal.Zero,
		MeanPercentError:  decimal.Zero,
		MaxAbsoluteError:  decimal.Zero,
		Score:             decimal.Zero,
	}
	if len(cases) == 0 {
		return summary
	}

	results := make([]CaseResult, 0, len(cases))
	sumAbs := decimal.Zero
	sumPct := decimal.Zero
	ruleCounts := make(map[string]int)
	ruleErrors := make(map[string]decimal.Decimal)

	for i, c := range cases {
		calculated, rule := ev.engine.Explain(c.Input)

		absErr := calculated.Sub(c.ExpectedOutput).Abs()
		pctErr := decimal.Zero
		if c.ExpectedOutput.IsPositive() {
			pctErr = absErr.Div(c.ExpectedOutput).Mul(hundredPct)
		}

		result := CaseResult{
			Index:         i,
			Input:         c.Input,
			Expected:      c.ExpectedOutput,
			Calculated:    calculated,
			Rule:          rule,
			AbsoluteError: absErr,
			PercentError:  pctErr,
			ExactMatch:    absErr.LessThanOrEqual(exactTolerance),
			CloseMatch:    absErr.LessThanOrEqual(closeTolerance),
		}
		results = append(results, result)

		if result.ExactMatch {
			summary.ExactMatches++
		}
		if result.CloseMatch {
			summary.CloseMatches++
		}
		if calculated.IsNegative() {
			summary.NegativeOutputs++
			ev.Logger.Errorf("case %d produced negative output %s for %s", i, calculated, c.Input)
		}

		sumAbs = sumAbs.Add(absErr)
		sumPct = sumPct.Add(pctErr)
		if absErr.GreaterThan(summary.MaxAbsoluteError) {
			summary.MaxAbsoluteError = absErr
		}
		ruleCounts[rule]++
		ruleErrors[rule] = ruleErrors[rule].Add(absErr)
	}

	n := decimal.NewFromInt(int64(len(cases)))
	summary.MeanAbsoluteError = sumAbs.Div(n)
	summary.MeanPercentError = sumPct.Div(n)
	summary.Score = ev.score(summary)
	summary.RuleBreakdown = ruleBreakdown(ruleCounts, ruleErrors)
	summary.WorstCases = worstCases(results, ev.WorstCount)

	ev.Logger.Infof("evaluated %d cases: %d exact, %d close, MAE %s, score %s",
		summary.TotalCases, summary.ExactMatches, summary.CloseMatches,
		summary.MeanAbsoluteError.StringFixed(2), summary.Score.StringFixed(2))

	return summary
}

// score computes the aggregate calibration score; lower is better.
func (ev *Evaluator) score(s *Summary) decimal.Decimal {
	misses := decimal.NewFromInt(int64(s.TotalCases - s.ExactMatches))
	negatives := decimal.NewFromInt(int64(s.NegativeOutputs))
	return s.MeanAbsoluteError.Mul(scoreErrorWeight).
		Add(misses.Mul(scoreMissWeight)).
		Add(negatives.Mul(scoreNegativeWeight))
}

func ruleBreakdown(counts map[string]int, errors map[string]decimal.Decimal) []RuleStats {
	stats := make([]RuleStats, 0, len(counts))
	for rule, count := range counts {
		stats = append(stats, RuleStats{
			Rule:              rule,
			Count:             count,
			MeanAbsoluteError: errors[rule].Div(decimal.NewFromInt(int64(count))),
		})
	}
	// Largest groups first; ties broken by name for stable output.
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Rule < stats[j].Rule
	})
	return stats
}

func worstCases(results []CaseResult, n int) []CaseResult {
	if n <= 0 {
		return nil
	}
	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].AbsoluteError.Equal(sorted[j].AbsoluteError) {
			return sorted[i].AbsoluteError.GreaterThan(sorted[j].AbsoluteError)
		}
		return sorted[i].Index < sorted[j].Index
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
