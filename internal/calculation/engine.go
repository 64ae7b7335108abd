package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/trippay/reimburse/internal/config"
	"github.com/trippay/reimburse/internal/domain"
)

// Engine is the reimbursement calculation engine: an ordered edge-case
// dispatcher, a default formula, and a finalizer, all driven by an immutable
// parameter snapshot.
//
// Calculate is a pure function of its input (no I/O, no clock, no state
// between calls), so one Engine may be shared by any number of goroutines
// without locking. To change constants, build a new Engine from a new
// snapshot; never mutate the one an Engine holds.
type Engine struct {
	params *config.Parameters
	rules  []rule
	Logger Logger
}

// NewEngine creates an engine from a parameter snapshot. A nil snapshot gets
// the default calibration.
func NewEngine(params *config.Parameters) *Engine {
	if params == nil {
		params = config.DefaultParameters()
	}
	return &Engine{
		params: params,
		rules:  dispatchRules(),
		Logger: NopLogger{},
	}
}

// SetLogger replaces the engine's logger. Passing nil restores the no-op
// logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
}

// Params returns the snapshot the engine was built from. Read-only.
func (e *Engine) Params() *config.Parameters {
	return e.params
}

// Calculate produces the reimbursement for a validated trip. Identical
// inputs always produce identical outputs.
func (e *Engine) Calculate(trip domain.TripInput) decimal.Decimal {
	amount, _ := e.Explain(trip)
	return amount
}

// Explain calculates the reimbursement and reports which rule produced it.
// The harness and the explorer use the rule name to attribute errors to the
// formula responsible.
func (e *Engine) Explain(trip domain.TripInput) (decimal.Decimal, string) {
	tc := newTripContext(trip, e.params)

	for _, r := range e.rules {
		if r.when(tc) {
			raw := r.compute(tc)
			e.Logger.Debugf("trip %s matched %s: raw %s", trip, r.name, raw)
			return e.finalize(raw), r.name
		}
	}

	raw := defaultFormula(tc)
	e.Logger.Debugf("trip %s fell through to %s: raw %s", trip, RuleDefault, raw)
	return e.finalize(raw), RuleDefault
}

// finalize is the last stage for every path: clamp to the configured floor
// so no upstream formula can leak a negative result, then round to cents.
// Rounding is half away from zero
// (decimal.Round), so an already-rounded value passes through unchanged.
func (e *Engine) finalize(raw decimal.Decimal) decimal.Decimal {
	if raw.LessThan(e.params.FloorAmount) {
		raw = e.params.FloorAmount
	}
	return raw.Round(2)
}
