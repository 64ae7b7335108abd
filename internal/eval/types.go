package eval

import (
	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/domain"
)

// CaseResult is the scored outcome of replaying one labeled case through the
// engine.
type CaseResult struct {
	Index      int              `json:"index"`
	Input      domain.TripInput `json:"input"`
	Expected   decimal.Decimal  `json:"expected"`
	Calculated decimal.Decimal  `json:"calculated"`
	Rule       string           `json:"rule"`

	AbsoluteError decimal.Decimal `json:"absoluteError"`
	PercentError  decimal.Decimal `json:"percentError"`
	ExactMatch    bool            `json:"exactMatch"`
	CloseMatch    bool            `json:"closeMatch"`
}

// RuleStats aggregates error by the rule that produced each result, so a bad
// calibration points at the formula responsible rather than at the dataset.
type RuleStats struct {
	Rule              string          `json:"rule"`
	Count             int             `json:"count"`
	MeanAbsoluteError decimal.Decimal `json:"meanAbsoluteError"`
}

// Summary is one full evaluation run: accuracy counts, error statistics, and
// the aggregate score used to compare calibrations (lower is better).
type Summary struct {
	CasesPath  string `json:"casesPath,omitempty"`
	TotalCases int    `json:"totalCases"`

	ExactMatches int `json:"exactMatches"` // within $0.01
	CloseMatches int `json:"closeMatches"` // within $1.00

	MeanAbsoluteError decimal.Decimal `json:"meanAbsoluteError"`
	MeanPercentError  decimal.Decimal `json:"meanPercentError"`
	MaxAbsoluteError  decimal.Decimal `json:"maxAbsoluteError"`

	// NegativeOutputs counts results below zero. The finalizer makes this
	// structurally impossible; a non-zero count is a defect, and the score
	// weights it accordingly.
	NegativeOutputs int `json:"negativeOutputs"`

	Score decimal.Decimal `json:"score"`

	RuleBreakdown []RuleStats  `json:"ruleBreakdown"`
	WorstCases    []CaseResult `json:"worstCases"`
}

// ExactMatchRate returns exact matches as a percentage of total cases.
func (s *Summary) ExactMatchRate() decimal.Decimal {
	return matchRate(s.ExactMatches, s.TotalCases)
}

// CloseMatchRate returns close matches as a percentage of total cases.
func (s *Summary) CloseMatchRate() decimal.Decimal {
	return matchRate(s.CloseMatches, s.TotalCases)
}

func matchRate(matches, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(matches)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100))
}
