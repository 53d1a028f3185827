/*
Package fuel is the liters pipeline for fuel-burning vehicles.

PURPOSE:
  Translates trips into ledger entries for the fuel system and runs the
  period aggregation and remaining simulation over them. Also home to the
  margin evaluator (margin.go): fuel is the only resource with a legal
  consumption ceiling, so margin logic lives here rather than in the
  domain-agnostic ledger.

SEE ALSO:
  - margin.go: Margin percentage and the 20% legal ceiling
  - hybrid package: Feeds this pipeline with fuel-covered distances only
*/
package fuel

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/ledger"
	"github.com/warp/trip-engine/trip"
)

// Pipeline computes fuel rates and remaining liters for one vehicle-year.
type Pipeline struct {
	TankLiters decimal.Decimal // capacity
	Rated      decimal.Decimal // l/100km, the open-period estimate
}

// Computation is the fuel half of the result bundle.
type Computation struct {
	Rates     map[uuid.UUID]decimal.Decimal // l/100km per trip
	Estimated map[uuid.UUID]bool            // trips carrying the rated estimate
	Remaining map[uuid.UUID]decimal.Decimal // liters after each trip
	Consumed  map[uuid.UUID]decimal.Decimal // liters consumed by each trip
}

// Entries maps trips onto fuel ledger entries. A fill-up is only a period
// close when it is flagged as a full tank.
func Entries(chronological []trip.Trip) []ledger.Entry {
	entries := make([]ledger.Entry, 0, len(chronological))
	for _, t := range chronological {
		entries = append(entries, ledger.Entry{
			ID:       t.ID,
			Distance: t.DistanceKm,
			Added:    t.FuelLiters,
			Full:     t.FullTank && t.IsFillup(),
		})
	}
	return entries
}

// Compute runs the full fuel reconstruction. startLiters is the level
// before the first trip (year carryover, or capacity for a fresh tank).
func (p Pipeline) Compute(chronological []trip.Trip, startLiters decimal.Decimal) Computation {
	entries := Entries(chronological)
	table := ledger.AggregatePeriods(entries, p.Rated)
	return Computation{
		Rates:     table.Rates,
		Estimated: table.Estimated,
		Remaining: ledger.Simulate(entries, table.Rates, startLiters, p.TankLiters),
		Consumed:  ledger.ConsumedByEntry(entries, table.Rates),
	}
}

// ClosedPeriodTotals sums fuel and distance over closed periods only.
// The trailing open period is excluded: its fuel has not been measured
// against a full tank yet, so including it would skew averages.
func ClosedPeriodTotals(chronological []trip.Trip) (fuelLiters, distanceKm decimal.Decimal) {
	var periodFuel, periodKm decimal.Decimal
	for _, t := range chronological {
		periodKm = periodKm.Add(t.DistanceKm)
		if !t.IsFillup() {
			continue
		}
		periodFuel = periodFuel.Add(t.FuelLiters)
		if t.FullTank {
			// Zero-distance closes are excluded: their fuel has no
			// measured distance to amortize over.
			if periodKm.IsPositive() {
				fuelLiters = fuelLiters.Add(periodFuel)
				distanceKm = distanceKm.Add(periodKm)
			}
			periodFuel = decimal.Zero
			periodKm = decimal.Zero
		}
	}
	return fuelLiters, distanceKm
}
