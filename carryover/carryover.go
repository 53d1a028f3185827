/*
Package carryover resolves a year's starting odometer, fuel, and battery.

PURPOSE:
  A vehicle-year does not start from factory defaults: it starts where the
  previous year ended. This package computes the three seed values the
  engine needs, from prior years' trips supplied on demand by the History
  collaborator.

LOOKBACK POLICY (deliberately asymmetric):
  - Odometer: search backward up to MaxLookback years for the most recent
    year with trips; use its last chronological odometer. The loop is
    iterative with a hard cap, so worst-case cost stays explicit.
  - Fuel / battery: examine EXACTLY the immediately preceding year. If it
    has trips, simulate it (seeded with the vehicle's defaults - the
    "fresh tank on a data gap" rule) and take the last trip's remaining;
    otherwise fall back to full tank / initial SoC.

  Missing history is a valid state with defined fallbacks, never an error.

SEE ALSO:
  - memory.go: In-memory History for tests and pre-loaded callers
  - engine package: Runs the resolver before the current year's pipeline
*/
package carryover

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/energy"
	"github.com/warp/trip-engine/fuel"
	"github.com/warp/trip-engine/hybrid"
	"github.com/warp/trip-engine/trip"
)

// DefaultMaxLookback bounds the odometer search.
const DefaultMaxLookback = 10

// History supplies prior years' trips on demand. Implementations belong to
// the persistence collaborator; the engine only reads.
type History interface {
	// TripsForYear returns the vehicle's trips dated in the given year, in
	// any order. An empty slice means no data, which is not an error.
	TripsForYear(ctx context.Context, vehicleID uuid.UUID, year int) ([]trip.Trip, error)
}

// State is the resolved start-of-year seed.
type State struct {
	Odometer   decimal.Decimal
	FuelLiters decimal.Decimal
	BatteryKWh decimal.Decimal
}

// Resolver computes year-start state from history.
type Resolver struct {
	History     History // nil = no history, fallbacks only
	MaxLookback int     // odometer search depth; 0 = DefaultMaxLookback
}

// Resolve computes the full seed state for a vehicle-year.
func (r Resolver) Resolve(ctx context.Context, v trip.Vehicle, year int) (State, error) {
	odo, err := r.odometer(ctx, v, year)
	if err != nil {
		return State{}, err
	}

	st := State{Odometer: odo}

	// Fuel and battery share the single prior-year simulation.
	prior, err := r.tripsForYear(ctx, v.ID, year-1)
	if err != nil {
		return State{}, err
	}

	if v.Type.UsesFuel() {
		st.FuelLiters = v.TankLiters
	}
	if v.Type.UsesElectricity() {
		st.BatteryKWh = v.InitialBatteryKWh()
	}
	if len(prior) == 0 {
		return st, nil
	}

	chronological := trip.Chronological(prior)
	last := chronological[len(chronological)-1].ID

	switch v.Type {
	case trip.ICE:
		p := fuel.Pipeline{TankLiters: v.TankLiters, Rated: v.RatedConsumption}
		st.FuelLiters = p.Compute(chronological, v.TankLiters).Remaining[last]
	case trip.BEV:
		p := energy.Pipeline{BatteryKWh: v.BatteryKWh, Baseline: v.BaselineKWh}
		st.BatteryKWh = p.Compute(chronological, v.InitialBatteryKWh()).RemainingKWh[last]
	case trip.PHEV:
		p := hybrid.Pipeline{
			TankLiters: v.TankLiters,
			Rated:      v.RatedConsumption,
			BatteryKWh: v.BatteryKWh,
			Baseline:   v.BaselineKWh,
		}
		c := p.Compute(chronological, v.TankLiters, v.InitialBatteryKWh())
		st.FuelLiters = c.FuelRemaining[last]
		st.BatteryKWh = c.RemainingKWh[last]
	}
	return st, nil
}

// odometer searches backward, bounded, for the most recent year with trips.
func (r Resolver) odometer(ctx context.Context, v trip.Vehicle, year int) (decimal.Decimal, error) {
	depth := r.MaxLookback
	if depth <= 0 {
		depth = DefaultMaxLookback
	}

	for back := 1; back <= depth; back++ {
		trips, err := r.tripsForYear(ctx, v.ID, year-back)
		if err != nil {
			return decimal.Zero, err
		}
		if len(trips) == 0 {
			continue
		}
		chronological := trip.Chronological(trips)
		return chronological[len(chronological)-1].Odometer, nil
	}
	return v.InitialOdometer, nil
}

func (r Resolver) tripsForYear(ctx context.Context, vehicleID uuid.UUID, year int) ([]trip.Trip, error) {
	if r.History == nil {
		return nil, nil
	}
	return r.History.TripsForYear(ctx, vehicleID, year)
}
