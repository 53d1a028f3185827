/*
Package energy is the kWh pipeline for battery-driven vehicles.

PURPOSE:
  Mirrors the fuel package for electric energy: charge periods close on a
  full charge, the trailing open period borrows the vehicle's baseline
  consumption, and the battery level is simulated trip by trip. Two things
  are specific to batteries:

  - SoC overrides: a trip may carry a manual state-of-charge correction
    (battery meters drift); the override resets the level before the trip
    is simulated.
  - Percent view: remaining energy is also reported as a percentage of
    capacity, which is how drivers think about batteries.

  There is no margin evaluation here - electricity has no legal
  consumption ceiling.
*/
package energy

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/ledger"
	"github.com/warp/trip-engine/trip"
)

var hundred = decimal.NewFromInt(100)

// Pipeline computes energy rates and battery levels for one vehicle-year.
type Pipeline struct {
	BatteryKWh decimal.Decimal // capacity
	Baseline   decimal.Decimal // kWh/100km, the open-period estimate
}

// Computation is the energy half of the result bundle.
type Computation struct {
	Rates            map[uuid.UUID]decimal.Decimal // kWh/100km per trip
	Estimated        map[uuid.UUID]bool
	RemainingKWh     map[uuid.UUID]decimal.Decimal
	RemainingPercent map[uuid.UUID]decimal.Decimal
	Overrides        map[uuid.UUID]bool // trips with a manual SoC correction
}

// Entries maps trips onto energy ledger entries, translating SoC overrides
// into level resets.
func (p Pipeline) Entries(chronological []trip.Trip) []ledger.Entry {
	entries := make([]ledger.Entry, 0, len(chronological))
	for _, t := range chronological {
		e := ledger.Entry{
			ID:       t.ID,
			Distance: t.DistanceKm,
			Added:    t.EnergyKWh,
			Full:     t.FullCharge && t.IsCharge(),
		}
		if t.SocOverridePercent != nil {
			level := PercentToKWh(*t.SocOverridePercent, p.BatteryKWh)
			e.LevelOverride = &level
		}
		entries = append(entries, e)
	}
	return entries
}

// Compute runs the full energy reconstruction. startKWh is the battery
// level before the first trip.
func (p Pipeline) Compute(chronological []trip.Trip, startKWh decimal.Decimal) Computation {
	entries := p.Entries(chronological)
	table := ledger.AggregatePeriods(entries, p.Baseline)
	kwh := ledger.Simulate(entries, table.Rates, startKWh, p.BatteryKWh)

	percent := make(map[uuid.UUID]decimal.Decimal, len(kwh))
	for id, level := range kwh {
		percent[id] = KWhToPercent(level, p.BatteryKWh)
	}

	overrides := make(map[uuid.UUID]bool)
	for _, t := range chronological {
		if t.HasSocOverride() {
			overrides[t.ID] = true
		}
	}

	return Computation{
		Rates:            table.Rates,
		Estimated:        table.Estimated,
		RemainingKWh:     kwh,
		RemainingPercent: percent,
		Overrides:        overrides,
	}
}

// KWhToPercent converts an energy amount to a percentage of capacity.
// Returns zero for a non-positive capacity.
func KWhToPercent(kwh, capacity decimal.Decimal) decimal.Decimal {
	if !capacity.IsPositive() {
		return decimal.Zero
	}
	return kwh.Div(capacity).Mul(hundred)
}

// PercentToKWh converts a capacity percentage to an energy amount.
func PercentToKWh(percent, capacity decimal.Decimal) decimal.Decimal {
	if !capacity.IsPositive() {
		return decimal.Zero
	}
	return percent.Mul(capacity).Div(hundred)
}
