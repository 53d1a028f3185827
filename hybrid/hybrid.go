/*
Package hybrid splits dual-resource (PHEV) trips between battery and fuel.

PURPOSE:
  Plug-in hybrids consume stored electricity BEFORE fuel: short trips run
  entirely on charge and only the overflow distance burns fuel. For every
  trip this package decides the electric-covered and fuel-covered
  distances, then feeds the two sub-series into independent fuel and
  energy pipelines - full tanks close fuel periods, full charges close
  energy periods.

  The critical rule: a fuel period's rate divides by the FUEL-COVERED
  distance only, never the trip's total distance. Dividing by total
  distance would make a hybrid look dramatically more frugal than it is
  on its combustion-only portion.

SPLIT, PER TRIP:
  1. Apply any charge to the battery first (capped at capacity).
  2. energyNeeded = distance * energyRate / 100 for the whole trip.
  3. electricKm = min(energyNeeded, battery) / energyRate * 100.
  4. fuelKm = distance - electricKm, consumed at the rated figure.

  Invariant: electricKm + fuelKm == distance, always.

SEE ALSO:
  - fuel, energy packages: The two single-resource pipelines composed here
*/
package hybrid

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/energy"
	"github.com/warp/trip-engine/ledger"
	"github.com/warp/trip-engine/trip"
)

var hundred = decimal.NewFromInt(100)

// Pipeline composes a fuel and an energy pipeline under the
// electricity-first policy.
type Pipeline struct {
	TankLiters decimal.Decimal // fuel capacity
	Rated      decimal.Decimal // l/100km
	BatteryKWh decimal.Decimal // battery capacity
	Baseline   decimal.Decimal // kWh/100km
}

// Split is the outcome of dividing one trip between the two resources.
type Split struct {
	ElectricKm      decimal.Decimal
	FuelKm          decimal.Decimal
	EnergyUsedKWh   decimal.Decimal
	FuelUsedLiters  decimal.Decimal
	BatteryAfterKWh decimal.Decimal // after charge and electric driving
}

// Computation is the dual-resource result bundle.
type Computation struct {
	FuelRates     map[uuid.UUID]decimal.Decimal
	EstimatedFuel map[uuid.UUID]bool
	FuelRemaining map[uuid.UUID]decimal.Decimal
	FuelConsumed  map[uuid.UUID]decimal.Decimal

	EnergyRates      map[uuid.UUID]decimal.Decimal
	EstimatedEnergy  map[uuid.UUID]bool
	RemainingKWh     map[uuid.UUID]decimal.Decimal
	RemainingPercent map[uuid.UUID]decimal.Decimal
	Overrides        map[uuid.UUID]bool

	Splits map[uuid.UUID]Split
}

// SplitTrip divides one trip's distance under the electricity-first
// policy. batteryKWh is the level before the trip; chargeKWh is applied
// to it first.
func (p Pipeline) SplitTrip(distanceKm, batteryKWh, chargeKWh decimal.Decimal) Split {
	battery := batteryKWh.Add(chargeKWh)
	if battery.GreaterThan(p.BatteryKWh) {
		battery = p.BatteryKWh
	}

	energyNeeded := ledger.Consumed(distanceKm, p.Baseline)
	energyUsed := energyNeeded
	if energyUsed.GreaterThan(battery) {
		energyUsed = battery
	}

	electricKm := decimal.Zero
	if p.Baseline.IsPositive() {
		electricKm = energyUsed.Div(p.Baseline).Mul(hundred)
	}
	fuelKm := distanceKm.Sub(electricKm)
	if fuelKm.IsNegative() {
		fuelKm = decimal.Zero
	}

	return Split{
		ElectricKm:      electricKm,
		FuelKm:          fuelKm,
		EnergyUsedKWh:   energyUsed,
		FuelUsedLiters:  ledger.Consumed(fuelKm, p.Rated),
		BatteryAfterKWh: ledger.Clamp(battery.Sub(energyUsed), p.BatteryKWh),
	}
}

// Compute runs the dual reconstruction. startFuel and startBattery are the
// levels before the first trip.
func (p Pipeline) Compute(chronological []trip.Trip, startFuel, startBattery decimal.Decimal) Computation {
	c := Computation{
		RemainingKWh:     make(map[uuid.UUID]decimal.Decimal, len(chronological)),
		RemainingPercent: make(map[uuid.UUID]decimal.Decimal, len(chronological)),
		Overrides:        make(map[uuid.UUID]bool),
		Splits:           make(map[uuid.UUID]Split, len(chronological)),
	}

	// First pass: walk the battery forward and split every trip. The split
	// depends on the running battery level, so this cannot be a per-trip
	// pure map.
	battery := startBattery
	fuelEntries := make([]ledger.Entry, 0, len(chronological))
	energyEntries := make([]ledger.Entry, 0, len(chronological))

	for _, t := range chronological {
		if t.SocOverridePercent != nil {
			battery = energy.PercentToKWh(*t.SocOverridePercent, p.BatteryKWh)
			c.Overrides[t.ID] = true
		}

		split := p.SplitTrip(t.DistanceKm, battery, t.EnergyKWh)
		battery = split.BatteryAfterKWh

		c.Splits[t.ID] = split
		c.RemainingKWh[t.ID] = battery
		c.RemainingPercent[t.ID] = energy.KWhToPercent(battery, p.BatteryKWh)

		// Fuel sub-series: the fuel-covered distance only.
		fuelEntries = append(fuelEntries, ledger.Entry{
			ID:       t.ID,
			Distance: split.FuelKm,
			Added:    t.FuelLiters,
			Full:     t.FullTank && t.IsFillup(),
		})
		// Energy sub-series: the electric-covered distance only.
		energyEntries = append(energyEntries, ledger.Entry{
			ID:       t.ID,
			Distance: split.ElectricKm,
			Added:    t.EnergyKWh,
			Full:     t.FullCharge && t.IsCharge(),
		})
	}

	// Second pass: independent period aggregation per resource. Only trips
	// that touched a resource participate in its rate periods; trips that
	// ran fully electric get no fuel rate at all (and vice versa).
	fuelTable := ledger.AggregatePeriods(participating(fuelEntries), p.Rated)
	energyTable := ledger.AggregatePeriods(participating(energyEntries), p.Baseline)

	c.FuelRates = fuelTable.Rates
	c.EstimatedFuel = fuelTable.Estimated
	c.EnergyRates = energyTable.Rates
	c.EstimatedEnergy = energyTable.Estimated

	// Fuel level simulation runs over ALL trips so every row reports a
	// remaining value, even rows that burned no fuel.
	c.FuelRemaining = ledger.Simulate(fuelEntries, fuelTable.Rates, startFuel, p.TankLiters)
	c.FuelConsumed = ledger.ConsumedByEntry(fuelEntries, fuelTable.Rates)

	return c
}

// participating filters entries down to the ones that covered distance on
// the resource or replenished it; everything else is invisible to period
// segmentation.
func participating(entries []ledger.Entry) []ledger.Entry {
	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Distance.IsPositive() || e.Added.IsPositive() {
			out = append(out, e)
		}
	}
	return out
}
