package eval

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/calculation"
	"github.com/trippay/reimburse/internal/domain"
)

// CSVFormatter emits per-case results as CSV, one row per labeled case.
// The per-case grain is what spreadsheet-side error analysis wants; the
// summary numbers are all derivable from it.
type CSVFormatter struct{}

// Format replays the cases and renders every scored result.
func (cf *CSVFormatter) Format(engine *calculation.Engine, cases []domain.LabeledCase) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"case",
		"trip_duration_days",
		"miles_traveled",
		"total_receipts_amount",
		"expected_output",
		"calculated_output",
		"rule",
		"absolute_error",
		"percent_error",
		"exact_match",
		"close_match",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, c := range cases {
		calculated, rule := engine.Explain(c.Input)
		absErr := calculated.Sub(c.ExpectedOutput).Abs()
		pctErr := decimal.Zero
		if c.ExpectedOutput.IsPositive() {
			pctErr = absErr.Div(c.ExpectedOutput).Mul(hundredPct)
		}

		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(c.Input.DurationDays),
			strconv.Itoa(c.Input.MilesTraveled),
			c.Input.ReceiptsAmount.StringFixed(2),
			c.ExpectedOutput.StringFixed(2),
			calculated.StringFixed(2),
			rule,
			absErr.StringFixed(2),
			pctErr.StringFixed(2),
			strconv.FormatBool(absErr.LessThanOrEqual(exactTolerance)),
			strconv.FormatBool(absErr.LessThanOrEqual(closeTolerance)),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}
