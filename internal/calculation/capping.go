package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/config"
)

var one = decimal.NewFromInt(1)

// ramp is the smoothing primitive shared by every threshold in the engine:
// 0 at or below start, rising linearly to 1 over width. Replacing hard
// switches with ramps is what keeps outputs continuous when inputs sit just
// either side of a boundary; the hard-switch formulation showed error spikes
// exactly at the boundaries.
func ramp(value, start, width decimal.Decimal) decimal.Decimal {
	if value.LessThanOrEqual(start) || !width.IsPositive() {
		return decimal.Zero
	}
	t := value.Sub(start).Div(width)
	if t.GreaterThan(one) {
		return one
	}
	return t
}

// capReceipts applies the piecewise-linear concave receipt cap: each tier
// band contributes its own marginal rate on the slice of the amount that
// falls inside it, and the contributions are summed. Tier limits are
// expressed per day and scaled by days here, so the whole computation stays
// in total-dollar space with no division.
//
// The decreasing marginal rates encode the legacy system's apparent distrust
// of large claims: the more is claimed per day, the smaller the share of the
// excess that gets reimbursed.
func capReceipts(amount, days decimal.Decimal, tiers []config.ReceiptTier) decimal.Decimal {
	total := decimal.Zero
	remaining := amount
	prevLimit := decimal.Zero

	for _, tier := range tiers {
		if !remaining.IsPositive() {
			break
		}
		if tier.Limit.IsZero() {
			// Open-ended final band absorbs everything left.
			total = total.Add(remaining.Mul(tier.Rate))
			break
		}
		bandWidth := tier.Limit.Sub(prevLimit).Mul(days)
		slice := decimal.Min(remaining, bandWidth)
		total = total.Add(slice.Mul(tier.Rate))
		remaining = remaining.Sub(slice)
		prevLimit = tier.Limit
	}

	return total
}

// boundedPenalty computes the efficiency penalty for the default formula:
// linear in the excess over the threshold, but clamped to capFraction of the
// pre-penalty subtotal. The unbounded formulation drove roughly 3% of
// results negative, so the clamp is correctness-critical, not a tuning
// choice.
func boundedPenalty(milesPerDay, subtotal decimal.Decimal, p config.DefaultParams) decimal.Decimal {
	excess := milesPerDay.Sub(p.PenaltyThreshold)
	if !excess.IsPositive() {
		return decimal.Zero
	}
	raw := excess.Mul(p.PenaltyRate)
	maxPenalty := subtotal.Mul(p.PenaltyCapFraction)
	return decimal.Min(raw, maxPenalty)
}
