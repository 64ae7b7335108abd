package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Parameters is the complete constant table for the reimbursement engine:
// every threshold, rate, and floor the rules consume, as named configuration.
// A Parameters value is immutable once handed to an engine; recalibration
// produces a fresh snapshot rather than mutating fields in place.
type Parameters struct {
	// FloorAmount is the unconditional minimum payout applied by the
	// finalizer to every result regardless of which rule produced it.
	FloorAmount decimal.Decimal `yaml:"floor_amount"`

	SingleDay    SingleDayParams    `yaml:"single_day"`
	LowReceipts  LowReceiptsParams  `yaml:"low_receipts"`
	LongHaul     LongHaulParams     `yaml:"long_haul"`
	TravelDay    TravelDayParams    `yaml:"travel_day"`
	ExtendedTrip ExtendedTripParams `yaml:"extended_trip"`
	FiveDay      FiveDayParams      `yaml:"five_day"`
	Default      DefaultParams      `yaml:"default"`
}

// ReceiptTier is one band of the piecewise-linear receipt cap. Bands are
// ordered by Limit; the final band leaves Limit zero and absorbs everything
// above the previous boundary. Rates must decrease as bands rise, which is
// what makes the cap concave.
type ReceiptTier struct {
	Limit decimal.Decimal `yaml:"limit,omitempty"`
	Rate  decimal.Decimal `yaml:"rate"`
}

// BonusStep is a smoothed step bonus: Amount is phased in linearly over Ramp
// units once the metric passes Threshold.
type BonusStep struct {
	Threshold decimal.Decimal `yaml:"threshold"`
	Amount    decimal.Decimal `yaml:"amount"`
	Ramp      decimal.Decimal `yaml:"ramp"`
}

// SingleDayParams governs the single-day rule, kept disjoint from the
// low-receipts floor to avoid the rule conflicts seen when both applied.
type SingleDayParams struct {
	MaxDays           decimal.Decimal `yaml:"max_days"`
	Base              decimal.Decimal `yaml:"base"`
	ReceiptTiers      []ReceiptTier   `yaml:"receipt_tiers"`
	EfficiencyBonuses []BonusStep     `yaml:"efficiency_bonuses"`
}

// LowReceiptsParams guarantees a minimum payout for multi-day trips whose
// receipts are too small for any receipt-driven formula to estimate.
type LowReceiptsParams struct {
	MaxReceipts decimal.Decimal `yaml:"max_receipts"`
	Base        decimal.Decimal `yaml:"base"`
	PerDay      decimal.Decimal `yaml:"per_day"`
	ReceiptRate decimal.Decimal `yaml:"receipt_rate"`
}

// LongHaulParams covers long trips with heavy mileage.
type LongHaulParams struct {
	MinDays     decimal.Decimal `yaml:"min_days"`
	MinMiles    decimal.Decimal `yaml:"min_miles"`
	Base        decimal.Decimal `yaml:"base"`
	PerDay      decimal.Decimal `yaml:"per_day"`
	MileRate    decimal.Decimal `yaml:"mile_rate"`
	ReceiptRate decimal.Decimal `yaml:"receipt_rate"`
}

// TravelDayParams covers high-efficiency "travel day" trips. The rule scales
// its rates by an intensity factor ramped over IntensityRamp miles/day past
// MinMilesPerDay, and blends between the boosted low-receipt formula and the
// near-linear high-receipt formula over ReceiptBlendRamp dollars starting at
// HighReceipts.
type TravelDayParams struct {
	MinMilesPerDay      decimal.Decimal `yaml:"min_miles_per_day"`
	IntensityRamp       decimal.Decimal `yaml:"intensity_ramp"`
	LowReceiptRate      decimal.Decimal `yaml:"low_receipt_rate"`
	LowReceiptRateSpan  decimal.Decimal `yaml:"low_receipt_rate_span"`
	HighReceiptRate     decimal.Decimal `yaml:"high_receipt_rate"`
	HighReceiptRateSpan decimal.Decimal `yaml:"high_receipt_rate_span"`
	FloorBase           decimal.Decimal `yaml:"floor_base"`
	FloorSpan           decimal.Decimal `yaml:"floor_span"`
	HighReceipts        decimal.Decimal `yaml:"high_receipts"`
	ReceiptBlendRamp    decimal.Decimal `yaml:"receipt_blend_ramp"`
}

// ExtendedTripParams covers long, low-efficiency trips whose receipts are
// small relative to trip length; the default path systematically
// underestimated these.
type ExtendedTripParams struct {
	MinDays            decimal.Decimal `yaml:"min_days"`
	MinMilesPerDay     decimal.Decimal `yaml:"min_miles_per_day"`
	MaxMilesPerDay     decimal.Decimal `yaml:"max_miles_per_day"`
	ReceiptRate        decimal.Decimal `yaml:"receipt_rate"`
	HighReceiptRate    decimal.Decimal `yaml:"high_receipt_rate"`
	HighReceiptsPerDay decimal.Decimal `yaml:"high_receipts_per_day"`
	RateRamp           decimal.Decimal `yaml:"rate_ramp"`
	PerDayAllowance    decimal.Decimal `yaml:"per_day_allowance"`
}

// FiveDayParams covers the five-day band, which the labeled data treats
// differently from neighboring durations.
type FiveDayParams struct {
	MinDays        decimal.Decimal `yaml:"min_days"`
	MaxDays        decimal.Decimal `yaml:"max_days"`
	LowEfficiency  decimal.Decimal `yaml:"low_efficiency"`
	EfficiencyRamp decimal.Decimal `yaml:"efficiency_ramp"`
	LowReceiptRate decimal.Decimal `yaml:"low_receipt_rate"`
	ReceiptRate    decimal.Decimal `yaml:"receipt_rate"`
	MileRate       decimal.Decimal `yaml:"mile_rate"`
}

// DefaultParams is the fallback formula: diminishing daily base, tier-capped
// receipt component, and a bounded efficiency penalty.
type DefaultParams struct {
	FirstDayBase       decimal.Decimal `yaml:"first_day_base"`
	BaseDecayPerDay    decimal.Decimal `yaml:"base_decay_per_day"`
	MinBase            decimal.Decimal `yaml:"min_base"`
	ReceiptTiers       []ReceiptTier   `yaml:"receipt_tiers"`
	PenaltyThreshold   decimal.Decimal `yaml:"penalty_threshold"`
	PenaltyRate        decimal.Decimal `yaml:"penalty_rate"`
	PenaltyCapFraction decimal.Decimal `yaml:"penalty_cap_fraction"`
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultParameters returns the current best calibration, fitted against the
// labeled reference dataset. Treat the values as a starting point for
// recalibration, not ground truth; the legacy formula itself is unknown.
func DefaultParameters() *Parameters {
	return &Parameters{
		FloorAmount: dec("20"),
		SingleDay: SingleDayParams{
			MaxDays: dec("1.5"),
			Base:    dec("80"),
			ReceiptTiers: []ReceiptTier{
				{Limit: dec("200"), Rate: dec("1.0")},
				{Limit: dec("500"), Rate: dec("0.7")},
				{Limit: dec("1000"), Rate: dec("0.4")},
				{Rate: dec("0.1")},
			},
			EfficiencyBonuses: []BonusStep{
				{Threshold: dec("300"), Amount: dec("20"), Ramp: dec("100")},
				{Threshold: dec("600"), Amount: dec("20"), Ramp: dec("100")},
			},
		},
		LowReceipts: LowReceiptsParams{
			MaxReceipts: dec("40"),
			Base:        dec("100"),
			PerDay:      dec("20"),
			ReceiptRate: dec("0.4"),
		},
		LongHaul: LongHaulParams{
			MinDays:     dec("5"),
			MinMiles:    dec("800"),
			Base:        dec("150"),
			PerDay:      dec("35"),
			MileRate:    dec("0.45"),
			ReceiptRate: dec("0.4"),
		},
		TravelDay: TravelDayParams{
			MinMilesPerDay:      dec("250"),
			IntensityRamp:       dec("100"),
			LowReceiptRate:      dec("1.1"),
			LowReceiptRateSpan:  dec("0.2"),
			HighReceiptRate:     dec("0.7"),
			HighReceiptRateSpan: dec("0.1"),
			FloorBase:           dec("250"),
			FloorSpan:           dec("100"),
			HighReceipts:        dec("800"),
			ReceiptBlendRamp:    dec("200"),
		},
		ExtendedTrip: ExtendedTripParams{
			MinDays:            dec("8"),
			MinMilesPerDay:     dec("50"),
			MaxMilesPerDay:     dec("200"),
			ReceiptRate:        dec("0.6"),
			HighReceiptRate:    dec("0.25"),
			HighReceiptsPerDay: dec("300"),
			RateRamp:           dec("100"),
			PerDayAllowance:    dec("40"),
		},
		FiveDay: FiveDayParams{
			MinDays:        dec("4.5"),
			MaxDays:        dec("5.5"),
			LowEfficiency:  dec("60"),
			EfficiencyRamp: dec("20"),
			LowReceiptRate: dec("0.8"),
			ReceiptRate:    dec("1.0"),
			MileRate:       dec("0.3"),
		},
		Default: DefaultParams{
			FirstDayBase:    dec("80"),
			BaseDecayPerDay: dec("8"),
			MinBase:         dec("40"),
			ReceiptTiers: []ReceiptTier{
				{Limit: dec("100"), Rate: dec("0.95")},
				{Limit: dec("200"), Rate: dec("0.70")},
				{Limit: dec("400"), Rate: dec("0.40")},
				{Rate: dec("0.15")},
			},
			PenaltyThreshold:   dec("50"),
			PenaltyRate:        dec("1.5"),
			PenaltyCapFraction: dec("0.3"),
		},
	}
}

// ParamsParser handles loading of parameter snapshot files.
type ParamsParser struct{}

// NewParamsParser creates a new parameter parser.
func NewParamsParser() *ParamsParser {
	return &ParamsParser{}
}

// LoadFromFile loads a parameter snapshot from a YAML file. Fields absent
// from the file keep their default calibration, so a snapshot only needs to
// name what it retunes.
func (pp *ParamsParser) LoadFromFile(filename string) (*Parameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	params := DefaultParameters()
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := pp.ValidateParameters(params); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	return params, nil
}

// ValidateParameters checks a snapshot for values the engine cannot safely
// run with. Thresholds are tunable; shapes are not.
func (pp *ParamsParser) ValidateParameters(p *Parameters) error {
	if !p.FloorAmount.IsPositive() {
		return fmt.Errorf("floor_amount must be positive, got %s", p.FloorAmount)
	}

	if err := validateTiers("single_day.receipt_tiers", p.SingleDay.ReceiptTiers); err != nil {
		return err
	}
	if err := validateTiers("default.receipt_tiers", p.Default.ReceiptTiers); err != nil {
		return err
	}

	for i, b := range p.SingleDay.EfficiencyBonuses {
		if !b.Ramp.IsPositive() {
			return fmt.Errorf("single_day.efficiency_bonuses[%d]: ramp must be positive", i)
		}
	}

	if !p.TravelDay.IntensityRamp.IsPositive() {
		return fmt.Errorf("travel_day.intensity_ramp must be positive")
	}
	if !p.TravelDay.ReceiptBlendRamp.IsPositive() {
		return fmt.Errorf("travel_day.receipt_blend_ramp must be positive")
	}
	if !p.ExtendedTrip.RateRamp.IsPositive() {
		return fmt.Errorf("extended_trip.rate_ramp must be positive")
	}
	if p.ExtendedTrip.MinMilesPerDay.GreaterThan(p.ExtendedTrip.MaxMilesPerDay) {
		return fmt.Errorf("extended_trip: min_miles_per_day %s exceeds max_miles_per_day %s",
			p.ExtendedTrip.MinMilesPerDay, p.ExtendedTrip.MaxMilesPerDay)
	}
	if !p.FiveDay.EfficiencyRamp.IsPositive() {
		return fmt.Errorf("five_day.efficiency_ramp must be positive")
	}
	if p.FiveDay.MinDays.GreaterThan(p.FiveDay.MaxDays) {
		return fmt.Errorf("five_day: min_days %s exceeds max_days %s", p.FiveDay.MinDays, p.FiveDay.MaxDays)
	}

	capFrac := p.Default.PenaltyCapFraction
	if capFrac.IsNegative() || capFrac.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("default.penalty_cap_fraction must be in [0, 1), got %s", capFrac)
	}
	if p.Default.PenaltyRate.IsNegative() {
		return fmt.Errorf("default.penalty_rate cannot be negative, got %s", p.Default.PenaltyRate)
	}
	if p.Default.MinBase.GreaterThan(p.Default.FirstDayBase) {
		return fmt.Errorf("default: min_base %s exceeds first_day_base %s", p.Default.MinBase, p.Default.FirstDayBase)
	}

	return nil
}

// validateTiers enforces the concave shape of a receipt cap: strictly
// increasing band limits, strictly decreasing band rates, and a final
// open-ended band.
func validateTiers(name string, tiers []ReceiptTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%s: at least one tier is required", name)
	}

	last := len(tiers) - 1
	if !tiers[last].Limit.IsZero() {
		return fmt.Errorf("%s: final tier must be open-ended (no limit)", name)
	}

	prev := decimal.Zero
	for i, t := range tiers {
		if t.Rate.IsNegative() {
			return fmt.Errorf("%s[%d]: rate cannot be negative", name, i)
		}
		if i < last {
			if !t.Limit.GreaterThan(prev) {
				return fmt.Errorf("%s[%d]: limit %s must exceed previous limit %s", name, i, t.Limit, prev)
			}
			prev = t.Limit
		}
		if i > 0 && !t.Rate.LessThan(tiers[i-1].Rate) {
			return fmt.Errorf("%s[%d]: rate %s must be below previous rate %s", name, i, t.Rate, tiers[i-1].Rate)
		}
	}

	return nil
}
