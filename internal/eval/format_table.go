package eval

import (
	"fmt"
	"strings"
)

// TableFormatter renders an evaluation summary as a console report.
type TableFormatter struct{}

// Format generates the report text.
func (tf *TableFormatter) Format(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("REIMBURSEMENT ENGINE EVALUATION\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")
	if summary.CasesPath != "" {
		sb.WriteString(fmt.Sprintf("Cases: %s\n", summary.CasesPath))
	}
	sb.WriteString(fmt.Sprintf("Total cases: %d\n", summary.TotalCases))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-28s %d (%s%%)\n", "Exact matches (±$0.01):",
		summary.ExactMatches, summary.ExactMatchRate().StringFixed(1)))
	sb.WriteString(fmt.Sprintf("%-28s %d (%s%%)\n", "Close matches (±$1.00):",
		summary.CloseMatches, summary.CloseMatchRate().StringFixed(1)))
	sb.WriteString(fmt.Sprintf("%-28s $%s\n", "Mean absolute error:",
		summary.MeanAbsoluteError.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-28s %s%%\n", "Mean percentage error:",
		summary.MeanPercentError.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-28s $%s\n", "Max absolute error:",
		summary.MaxAbsoluteError.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-28s %d\n", "Negative outputs:",
		summary.NegativeOutputs))
	sb.WriteString(fmt.Sprintf("%-28s %s\n", "Score (lower is better):",
		summary.Score.StringFixed(2)))

	if len(summary.RuleBreakdown) > 0 {
		sb.WriteString("\nRULE BREAKDOWN\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		sb.WriteString(fmt.Sprintf("%-26s %8s %16s\n", "Rule", "Cases", "Mean Abs Error"))
		for _, rs := range summary.RuleBreakdown {
			sb.WriteString(fmt.Sprintf("%-26s %8d %15s\n",
				rs.Rule, rs.Count, "$"+rs.MeanAbsoluteError.StringFixed(2)))
		}
	}

	if len(summary.WorstCases) > 0 {
		sb.WriteString("\nWORST CASES\n")
		sb.WriteString(strings.Repeat("-", 72) + "\n")
		sb.WriteString(fmt.Sprintf("%6s %-20s %12s %12s %12s\n",
			"Case", "Input", "Expected", "Calculated", "Error"))
		for _, cr := range summary.WorstCases {
			sb.WriteString(fmt.Sprintf("%6d %-20s %12s %12s %12s  (%s)\n",
				cr.Index,
				cr.Input.String(),
				"$"+cr.Expected.StringFixed(2),
				"$"+cr.Calculated.StringFixed(2),
				"$"+cr.AbsoluteError.StringFixed(2),
				cr.Rule))
		}
	}

	return sb.String()
}
