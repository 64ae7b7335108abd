package eval

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippay/reimburse/internal/calculation"
)

func TestTableFormatter(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"0", "0.50", "10.00"})

	summary := NewEvaluator(engine).Run(cases)
	summary.CasesPath = "testdata/cases.json"

	report := (&TableFormatter{}).Format(summary)

	assert.Contains(t, report, "REIMBURSEMENT ENGINE EVALUATION")
	assert.Contains(t, report, "Cases: testdata/cases.json")
	assert.Contains(t, report, "Total cases: 3")
	assert.Contains(t, report, "Exact matches")
	assert.Contains(t, report, "Close matches")
	assert.Contains(t, report, "Mean absolute error:")
	assert.Contains(t, report, "$3.50")
	assert.Contains(t, report, "Score (lower is better):")
	assert.Contains(t, report, "RULE BREAKDOWN")
	assert.Contains(t, report, "WORST CASES")
	assert.Contains(t, report, calculation.RuleSingleDay)
}

func TestTableFormatter_OmitsEmptySections(t *testing.T) {
	report := (&TableFormatter{}).Format(&Summary{})

	assert.NotContains(t, report, "Cases:")
	assert.NotContains(t, report, "RULE BREAKDOWN")
	assert.NotContains(t, report, "WORST CASES")
}

func TestCSVFormatter(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"0", "0.50", "10.00"})

	out, err := (&CSVFormatter{}).Format(engine, cases)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(cases)+1, "Expected one header row plus one row per case")

	header := records[0]
	assert.Equal(t, "case", header[0])
	assert.Contains(t, header, "rule")
	assert.Contains(t, header, "absolute_error")
	assert.Contains(t, header, "exact_match")

	// First case was labeled with the engine's own output.
	first := records[1]
	assert.Equal(t, "0", first[0])
	assert.Equal(t, "0.00", first[7])
	assert.Equal(t, "true", first[9])
	assert.Equal(t, "true", first[10])

	// Third case is a $10 miss: neither exact nor close.
	third := records[3]
	assert.Equal(t, "10.00", third[7])
	assert.Equal(t, "false", third[9])
	assert.Equal(t, "false", third[10])
}

func TestJSONFormatter(t *testing.T) {
	engine := calculation.NewEngine(nil)
	cases := casesWithDeltas(t, engine, []string{"0", "0.50", "10.00"})

	summary := NewEvaluator(engine).Run(cases)

	out, err := (&JSONFormatter{}).Format(summary)
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, summary.TotalCases, decoded.TotalCases)
	assert.Equal(t, summary.ExactMatches, decoded.ExactMatches)
	assert.True(t, decoded.MeanAbsoluteError.Equal(summary.MeanAbsoluteError))
	assert.Len(t, decoded.RuleBreakdown, len(summary.RuleBreakdown))
	assert.Len(t, decoded.WorstCases, len(summary.WorstCases))
}

func TestJSONFormatter_Pretty(t *testing.T) {
	summary := &Summary{TotalCases: 1}

	compact, err := (&JSONFormatter{}).Format(summary)
	require.NoError(t, err)
	pretty, err := (&JSONFormatter{Pretty: true}).Format(summary)
	require.NoError(t, err)

	assert.NotContains(t, compact, "\n")
	assert.Contains(t, pretty, "\n  ")
}
