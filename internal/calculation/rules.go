package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/config"
	"github.com/trippay/reimburse/internal/domain"
)

// Rule names, in dispatch priority order. The names are part of the
// calibration workflow: the harness and the explorer report which rule
// produced each figure.
const (
	RuleSingleDay    = "single_day"
	RuleLowReceipts  = "low_receipts"
	RuleLongHaul     = "long_haul"
	RuleTravelDay    = "travel_day"
	RuleExtendedTrip = "extended_low_efficiency"
	RuleFiveDay      = "five_day"
	RuleDefault      = "default"
)

// tripContext carries a trip's inputs and derived metrics as decimals so the
// rule formulas never repeat the conversions.
type tripContext struct {
	days           decimal.Decimal
	miles          decimal.Decimal
	receipts       decimal.Decimal
	milesPerDay    decimal.Decimal
	receiptsPerDay decimal.Decimal
	p              *config.Parameters
}

func newTripContext(trip domain.TripInput, p *config.Parameters) tripContext {
	return tripContext{
		days:           trip.Days(),
		miles:          trip.Miles(),
		receipts:       trip.ReceiptsAmount,
		milesPerDay:    trip.MilesPerDay(),
		receiptsPerDay: trip.ReceiptsPerDay(),
		p:              p,
	}
}

// rule is one entry of the edge-case dispatcher: a named predicate and the
// formula it selects.
type rule struct {
	name    string
	when    func(tc tripContext) bool
	compute func(tc tripContext) decimal.Decimal
}

// dispatchRules is the ordered decision list. Evaluation is sequential
// short-circuit: the first matching predicate wins and later entries are
// never consulted, so the order here is load-bearing. Reordering entries or
// narrowing a threshold changes which formula boundary inputs receive;
// recalibration must re-verify inputs near every threshold.
func dispatchRules() []rule {
	return []rule{
		{
			name: RuleSingleDay,
			when: func(tc tripContext) bool {
				return tc.days.LessThanOrEqual(tc.p.SingleDay.MaxDays)
			},
			compute: singleDayFormula,
		},
		{
			// Kept after single_day so the two floors never stack; they
			// conflicted when both applied to one-day low-receipt trips.
			name: RuleLowReceipts,
			when: func(tc tripContext) bool {
				return tc.receipts.LessThan(tc.p.LowReceipts.MaxReceipts)
			},
			compute: lowReceiptsFormula,
		},
		{
			name: RuleLongHaul,
			when: func(tc tripContext) bool {
				return tc.days.GreaterThanOrEqual(tc.p.LongHaul.MinDays) &&
					tc.miles.GreaterThanOrEqual(tc.p.LongHaul.MinMiles)
			},
			compute: longHaulFormula,
		},
		{
			name: RuleTravelDay,
			when: func(tc tripContext) bool {
				return tc.milesPerDay.GreaterThan(tc.p.TravelDay.MinMilesPerDay)
			},
			compute: travelDayFormula,
		},
		{
			name: RuleExtendedTrip,
			when: func(tc tripContext) bool {
				return tc.days.GreaterThanOrEqual(tc.p.ExtendedTrip.MinDays) &&
					tc.milesPerDay.GreaterThanOrEqual(tc.p.ExtendedTrip.MinMilesPerDay) &&
					tc.milesPerDay.LessThanOrEqual(tc.p.ExtendedTrip.MaxMilesPerDay)
			},
			compute: extendedTripFormula,
		},
		{
			name: RuleFiveDay,
			when: func(tc tripContext) bool {
				return tc.days.GreaterThanOrEqual(tc.p.FiveDay.MinDays) &&
					tc.days.LessThanOrEqual(tc.p.FiveDay.MaxDays)
			},
			compute: fiveDayFormula,
		},
	}
}

// singleDayFormula handles one-day trips: a small base, the tier-capped
// receipts, and ramped bonuses for genuinely heavy travel days.
func singleDayFormula(tc tripContext) decimal.Decimal {
	p := tc.p.SingleDay
	total := p.Base.Add(capReceipts(tc.receipts, one, p.ReceiptTiers))
	for _, bonus := range p.EfficiencyBonuses {
		total = total.Add(bonus.Amount.Mul(ramp(tc.milesPerDay, bonus.Threshold, bonus.Ramp)))
	}
	return total
}

// lowReceiptsFormula guarantees a duration-scaled minimum payout when
// receipts are too small to drive any other formula.
func lowReceiptsFormula(tc tripContext) decimal.Decimal {
	p := tc.p.LowReceipts
	return p.Base.
		Add(p.PerDay.Mul(tc.days)).
		Add(tc.receipts.Mul(p.ReceiptRate))
}

// longHaulFormula handles long trips with heavy mileage: duration base plus
// linear mileage and receipt components.
func longHaulFormula(tc tripContext) decimal.Decimal {
	p := tc.p.LongHaul
	return p.Base.
		Add(p.PerDay.Mul(tc.days)).
		Add(tc.miles.Mul(p.MileRate)).
		Add(tc.receipts.Mul(p.ReceiptRate))
}

// travelDayFormula handles high-efficiency trips. Intensity scales the rates
// over the first IntensityRamp miles/day past the threshold, and the receipt
// blend moves continuously from the boosted low-receipt formula (with its
// own floor) to the near-linear high-receipt rate.
func travelDayFormula(tc tripContext) decimal.Decimal {
	p := tc.p.TravelDay
	intensity := ramp(tc.milesPerDay, p.MinMilesPerDay, p.IntensityRamp)
	blend := ramp(tc.receipts, p.HighReceipts, p.ReceiptBlendRamp)

	lowRate := p.LowReceiptRate.Add(p.LowReceiptRateSpan.Mul(intensity))
	highRate := p.HighReceiptRate.Add(p.HighReceiptRateSpan.Mul(intensity))
	rate := lowRate.Add(highRate.Sub(lowRate).Mul(blend))

	floor := p.FloorBase.Add(p.FloorSpan.Mul(intensity)).Mul(one.Sub(blend))

	return decimal.Max(tc.receipts.Mul(rate), floor)
}

// extendedTripFormula handles long low-efficiency trips: a per-day allowance
// plus receipts at a rate that eases down once daily spend gets high.
func extendedTripFormula(tc tripContext) decimal.Decimal {
	p := tc.p.ExtendedTrip
	drop := p.ReceiptRate.Sub(p.HighReceiptRate).
		Mul(ramp(tc.receiptsPerDay, p.HighReceiptsPerDay, p.RateRamp))
	rate := p.ReceiptRate.Sub(drop)
	return tc.receipts.Mul(rate).Add(p.PerDayAllowance.Mul(tc.days))
}

// fiveDayFormula handles the five-day band, phasing in the full receipt rate
// and the mileage component as efficiency climbs past the low threshold.
func fiveDayFormula(tc tripContext) decimal.Decimal {
	p := tc.p.FiveDay
	u := ramp(tc.milesPerDay, p.LowEfficiency, p.EfficiencyRamp)
	rate := p.LowReceiptRate.Add(p.ReceiptRate.Sub(p.LowReceiptRate).Mul(u))
	return tc.receipts.Mul(rate).Add(tc.miles.Mul(p.MileRate).Mul(u))
}

// defaultFormula is the fallback when no edge case matches: a daily base
// that diminishes with trip length, the tier-capped receipt component, and
// the bounded efficiency penalty.
func defaultFormula(tc tripContext) decimal.Decimal {
	p := tc.p.Default
	base := decimal.Max(
		p.FirstDayBase.Sub(p.BaseDecayPerDay.Mul(tc.days.Sub(one))),
		p.MinBase,
	)
	receiptComponent := capReceipts(tc.receipts, tc.days, p.ReceiptTiers)
	subtotal := base.Add(receiptComponent)
	return subtotal.Sub(boundedPenalty(tc.milesPerDay, subtotal, p))
}
