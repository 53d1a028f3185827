/*
result.go - The computed result bundle

PURPOSE:
  Result is the complete contract between this engine and the calling
  layer: every per-trip derived value the presentation layer needs, plus
  the resolved year-start state and the year's headline stats. Consumers
  bind to these fields directly and must never re-derive any of them.

  A Result is built fresh on every Compute invocation from the supplied
  snapshot, holds no identity beyond that invocation, and is never
  persisted here.
*/
package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/advisor"
	"github.com/warp/trip-engine/trip"
)

// Result is the engine's output bundle for one vehicle-year.
type Result struct {
	// Trips in chronological order, the order every map below was
	// computed in.
	Trips []trip.Trip

	// Resolved start-of-year state (carryover or vehicle defaults).
	YearStartOdometer decimal.Decimal
	YearStartFuel     decimal.Decimal // liters; zero for BEV
	YearStartBattery  decimal.Decimal // kWh; zero for ICE

	// Fuel system (ICE + PHEV). Keyed by trip ID.
	Rates          map[uuid.UUID]decimal.Decimal // l/100km for the trip's period
	EstimatedRates map[uuid.UUID]bool            // trips on the rated estimate
	FuelConsumed   map[uuid.UUID]decimal.Decimal // liters used by the trip
	FuelRemaining  map[uuid.UUID]decimal.Decimal // liters after the trip

	// Energy system (BEV + PHEV). Keyed by trip ID.
	EnergyRates             map[uuid.UUID]decimal.Decimal // kWh/100km
	EstimatedEnergyRates    map[uuid.UUID]bool
	BatteryRemainingKWh     map[uuid.UUID]decimal.Decimal
	BatteryRemainingPercent map[uuid.UUID]decimal.Decimal
	SocOverrides            map[uuid.UUID]bool

	// Warning sets. Membership, never errors.
	ConsumptionWarnings map[uuid.UUID]bool // period rate over the legal ceiling
	DateWarnings        map[uuid.UUID]bool // display order conflicts with chronology

	// Year headline figures.
	Stats Stats

	// Compensation proposal; nil while consumption is within the ceiling.
	Suggestion *advisor.Suggestion

	// Suggested fill-ups for the trailing open period (fuel users only),
	// and the newest row's suggestion for the grid legend.
	SuggestedFillups map[uuid.UUID]advisor.Fillup
	LegendFillup     *advisor.Fillup
}

// Stats aggregates the year the way the header of a trip ledger shows it.
type Stats struct {
	TotalKm          decimal.Decimal
	TotalFuelLiters  decimal.Decimal
	TotalFuelCostEUR decimal.Decimal

	// AvgConsumptionRate amortizes closed periods only; the open period's
	// fuel has not been measured against a full tank yet.
	AvgConsumptionRate decimal.Decimal
	// LastConsumptionRate tracks the most recent fill-up window.
	LastConsumptionRate decimal.Decimal

	// Worst closed period's margin over rated. Nil until a period closes.
	MarginPercent *decimal.Decimal
	OverLimit     bool

	// Distance needed to compensate the over-limit state; zero when
	// compliant. Mirrors Suggestion.DistanceKm.
	BufferKm decimal.Decimal

	// Year-end fuel level (liters), i.e. the last trip's remaining.
	FuelRemaining decimal.Decimal
}
