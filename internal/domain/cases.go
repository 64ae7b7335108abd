package domain

import (
	"github.com/shopspring/decimal"
)

// LabeledCase pairs a trip input with the reimbursement the legacy system
// produced for it. The evaluation harness scores the replica engine against
// collections of these.
type LabeledCase struct {
	Input          TripInput       `json:"input"`
	ExpectedOutput decimal.Decimal `json:"expected_output"`
}
