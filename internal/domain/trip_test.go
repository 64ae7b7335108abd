package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTripInput(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		miles    int
		receipts string
		wantErr  string
	}{
		{"valid trip", 3, 93, "1.42", ""},
		{"one day zero everything", 1, 0, "0", ""},
		{"zero days", 0, 100, "50", "at least 1 day"},
		{"negative days", -2, 100, "50", "at least 1 day"},
		{"negative miles", 3, -10, "50", "cannot be negative"},
		{"negative receipts", 3, 100, "-0.01", "cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip, err := NewTripInput(tt.days, tt.miles, decimal.RequireFromString(tt.receipts))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.days, trip.DurationDays)
			assert.Equal(t, tt.miles, trip.MilesTraveled)
		})
	}
}

func TestTripInput_DerivedMetrics(t *testing.T) {
	trip, err := NewTripInput(4, 300, decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	assert.True(t, trip.MilesPerDay().Equal(decimal.NewFromInt(75)))
	assert.True(t, trip.ReceiptsPerDay().Equal(decimal.RequireFromString("37.5")))
}

func TestTripInput_String(t *testing.T) {
	trip, err := NewTripInput(5, 831, decimal.RequireFromString("591.65"))
	require.NoError(t, err)

	assert.Equal(t, "5d/831mi/$591.65", trip.String())
}

func TestLabeledCase_JSONRoundTrip(t *testing.T) {
	data := `{
  "input": {"trip_duration_days": 3, "miles_traveled": 93, "total_receipts_amount": 1.42},
  "expected_output": 364.51
}`

	var c LabeledCase
	require.NoError(t, json.Unmarshal([]byte(data), &c))

	assert.Equal(t, 3, c.Input.DurationDays)
	assert.Equal(t, 93, c.Input.MilesTraveled)
	assert.Equal(t, "364.51", c.ExpectedOutput.StringFixed(2))
}
