package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TripInput describes a single reimbursement request: how long the trip was,
// how far the employee traveled, and what they submitted in receipts. It is a
// transient value; nothing about it survives the call that consumes it.
type TripInput struct {
	DurationDays   int             `json:"trip_duration_days"`
	MilesTraveled  int             `json:"miles_traveled"`
	ReceiptsAmount decimal.Decimal `json:"total_receipts_amount"`
}

// NewTripInput builds a validated TripInput.
func NewTripInput(durationDays, milesTraveled int, receipts decimal.Decimal) (TripInput, error) {
	trip := TripInput{
		DurationDays:   durationDays,
		MilesTraveled:  milesTraveled,
		ReceiptsAmount: receipts,
	}
	if err := trip.Validate(); err != nil {
		return TripInput{}, err
	}
	return trip, nil
}

// Validate enforces the input contract. The calculation engine assumes a
// validated trip and never re-checks; callers (CLI, harness) reject bad
// input before the engine sees it.
func (t TripInput) Validate() error {
	if t.DurationDays < 1 {
		return fmt.Errorf("trip duration must be at least 1 day, got %d", t.DurationDays)
	}
	if t.MilesTraveled < 0 {
		return fmt.Errorf("miles traveled cannot be negative, got %d", t.MilesTraveled)
	}
	if t.ReceiptsAmount.IsNegative() {
		return fmt.Errorf("receipts amount cannot be negative, got %s", t.ReceiptsAmount.String())
	}
	return nil
}

// Days returns the trip duration as a decimal for rate math.
func (t TripInput) Days() decimal.Decimal {
	return decimal.NewFromInt(int64(t.DurationDays))
}

// Miles returns the distance traveled as a decimal for rate math.
func (t TripInput) Miles() decimal.Decimal {
	return decimal.NewFromInt(int64(t.MilesTraveled))
}

// MilesPerDay is the efficiency metric: miles traveled per trip day.
// DurationDays >= 1 after validation, so this never divides by zero.
func (t TripInput) MilesPerDay() decimal.Decimal {
	return t.Miles().Div(t.Days())
}

// ReceiptsPerDay is the daily spend metric used by the receipt tiers.
func (t TripInput) ReceiptsPerDay() decimal.Decimal {
	return t.ReceiptsAmount.Div(t.Days())
}

func (t TripInput) String() string {
	return fmt.Sprintf("%dd/%dmi/$%s", t.DurationDays, t.MilesTraveled, t.ReceiptsAmount.StringFixed(2))
}
