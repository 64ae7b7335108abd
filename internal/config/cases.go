package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/domain"
)

// wireCase matches the plain-text labeled-case format: an array of objects
// with three numeric input fields and one numeric expected output. Numbers
// are kept as json.Number so receipt amounts survive as exact decimals.
type wireCase struct {
	Input struct {
		TripDurationDays json.Number `json:"trip_duration_days"`
		MilesTraveled    json.Number `json:"miles_traveled"`
		TotalReceipts    json.Number `json:"total_receipts_amount"`
	} `json:"input"`
	ExpectedOutput json.Number `json:"expected_output"`
}

// CaseParser handles loading of labeled reference cases.
type CaseParser struct{}

// NewCaseParser creates a new case parser.
func NewCaseParser() *CaseParser {
	return &CaseParser{}
}

// LoadFromFile loads and validates a labeled-case file.
func (cp *CaseParser) LoadFromFile(filename string) ([]domain.LabeledCase, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	cases, err := cp.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load cases from %s: %w", filename, err)
	}
	return cases, nil
}

// Parse decodes a JSON array of labeled cases and validates each record.
func (cp *CaseParser) Parse(data []byte) ([]domain.LabeledCase, error) {
	var wire []wireCase
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if len(wire) == 0 {
		return nil, fmt.Errorf("case file contains no cases")
	}

	cases := make([]domain.LabeledCase, 0, len(wire))
	for i, w := range wire {
		c, err := cp.convertCase(w)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		cases = append(cases, c)
	}

	return cases, nil
}

func (cp *CaseParser) convertCase(w wireCase) (domain.LabeledCase, error) {
	days, err := parseWholeNumber("trip_duration_days", w.Input.TripDurationDays)
	if err != nil {
		return domain.LabeledCase{}, err
	}

	miles, err := parseMiles(w.Input.MilesTraveled)
	if err != nil {
		return domain.LabeledCase{}, err
	}

	receipts, err := parseDecimal("total_receipts_amount", w.Input.TotalReceipts)
	if err != nil {
		return domain.LabeledCase{}, err
	}

	expected, err := parseDecimal("expected_output", w.ExpectedOutput)
	if err != nil {
		return domain.LabeledCase{}, err
	}
	if !expected.IsPositive() {
		return domain.LabeledCase{}, fmt.Errorf("expected_output must be positive, got %s", expected)
	}

	trip, err := domain.NewTripInput(days, miles, receipts)
	if err != nil {
		return domain.LabeledCase{}, err
	}

	return domain.LabeledCase{Input: trip, ExpectedOutput: expected}, nil
}

func parseDecimal(field string, n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Decimal{}, fmt.Errorf("missing required field %s", field)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("field %s is not numeric: %w", field, err)
	}
	return d, nil
}

func parseWholeNumber(field string, n json.Number) (int, error) {
	d, err := parseDecimal(field, n)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("field %s must be a whole number, got %s", field, d)
	}
	return int(d.IntPart()), nil
}

// parseMiles tolerates the handful of fractional odometer readings in the
// reference dataset by rounding to the nearest mile.
func parseMiles(n json.Number) (int, error) {
	d, err := parseDecimal("miles_traveled", n)
	if err != nil {
		return 0, err
	}
	return int(d.Round(0).IntPart()), nil
}
