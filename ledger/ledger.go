/*
Package ledger is the domain-agnostic core of the consumption engine.

PURPOSE:
  This package reconstructs, for ONE depletable resource (fuel liters or
  battery kWh), how it was consumed and how much remained after every trip.
  Whether the resource is liters or kilowatt-hours, the same two algorithms
  apply: period aggregation and the remaining fold. Domain packages (fuel,
  energy, hybrid) translate trips into Entry values and interpret the
  results in their own units.

KEY CONCEPTS IN THIS FILE (ledger.go):
  - Entry: One chronological step - distance covered, resource added,
    whether the addition filled the resource to capacity.
  - Rate: Resource consumed per 100 distance units, the universal figure
    this system reasons in (l/100km, kWh/100km).

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, no float drift in ledgers.
  2. Purity: every function is a fold over its inputs; no state survives
     between calls, so computations are trivially reentrant.
  3. Degrade, don't fail: data anomalies produce estimates and warning
     sets, never errors. Historical data is expected to be messy.

SEE ALSO:
  - period.go: Period segmentation and per-period rates
  - remaining.go: The clamped remaining-level simulation
*/
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit identifies what the resource quantities in a pipeline mean.
type Unit string

const (
	UnitLiters Unit = "l"
	UnitKWh    Unit = "kWh"
)

var hundred = decimal.NewFromInt(100)

// Entry is one chronological step of a single-resource walk.
type Entry struct {
	ID       uuid.UUID
	Distance decimal.Decimal // distance covered on this resource
	Added    decimal.Decimal // resource added on this step, zero if none
	Full     bool            // the addition filled the resource to capacity

	// LevelOverride resets the running level BEFORE the step is simulated
	// (manual SoC correction). Nil means no override.
	LevelOverride *decimal.Decimal
}

// Rate computes resource-per-100-distance. Returns zero when distance is
// not positive; callers decide what estimate to substitute.
func Rate(resource, distance decimal.Decimal) decimal.Decimal {
	if !distance.IsPositive() {
		return decimal.Zero
	}
	return resource.Div(distance).Mul(hundred)
}

// Consumed computes the resource consumed by covering distance at rate.
func Consumed(distance, rate decimal.Decimal) decimal.Decimal {
	return distance.Mul(rate).Div(hundred)
}

// Clamp bounds a level into [0, capacity]. Negative levels floor to zero
// (the simulation ran dry); overflows from data-entry errors ceiling to
// capacity.
func Clamp(level, capacity decimal.Decimal) decimal.Decimal {
	if level.IsNegative() {
		return decimal.Zero
	}
	if level.GreaterThan(capacity) {
		return capacity
	}
	return level
}
