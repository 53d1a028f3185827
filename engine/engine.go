/*
Package engine is the facade over the trip consumption pipelines.

PURPOSE:
  One call - Compute - takes an immutable snapshot (vehicle, one year of
  trips, optional saved routes) and reconstructs the whole ledger: period
  rates, remaining fuel/battery after every trip, margin compliance,
  carryover seeds, warnings, and a compensation proposal when the year is
  over the legal ceiling.

VARIANT DISPATCH:
  The powertrain variant picks the pipeline: ICE runs the fuel pipeline,
  BEV the energy pipeline, PHEV the hybrid composition of both. Dispatch
  happens exactly once, here; the pipelines themselves never branch on
  vehicle type.

CONCURRENCY:
  Compute is pure and synchronous. It holds no state between invocations
  and never mutates its inputs, so concurrent calls for different
  vehicle-years are safe by construction. Within one call everything is a
  single chronological fold, O(n) in trips, plus a bounded number of
  prior-year passes for carryover.

SEE ALSO:
  - result.go: The output bundle contract
  - errors.go: The (single) fatal error class
  - preview.go: Recomputation with a draft trip spliced in
*/
package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/warp/trip-engine/advisor"
	"github.com/warp/trip-engine/carryover"
	"github.com/warp/trip-engine/energy"
	"github.com/warp/trip-engine/fuel"
	"github.com/warp/trip-engine/hybrid"
	"github.com/warp/trip-engine/trip"
)

// Config tunes the advisory parts of the engine. The computation core has
// nothing to configure.
type Config struct {
	TargetBand    advisor.Band // compensation target margin window
	FillupBand    advisor.Band // suggested fill-up multiplier window
	BufferPurpose string       // purpose label for generic buffer trips
}

// DefaultConfig returns the stock tuning: compensate into 16-19% over
// rated, suggest fill-ups at 105-120% of rated.
func DefaultConfig() Config {
	return Config{
		TargetBand:    advisor.DefaultTargetBand(),
		FillupBand:    advisor.DefaultFillupBand(),
		BufferPurpose: "business trip",
	}
}

// Engine computes result bundles. Safe for concurrent use.
type Engine struct {
	history carryover.History
	cfg     Config
	log     Logger
}

// New builds an Engine. history may be nil (no carryover data); log may be
// nil (silent). Zero-value config fields fall back to DefaultConfig.
func New(history carryover.History, cfg Config, log Logger) *Engine {
	def := DefaultConfig()
	if cfg.TargetBand.Min.IsZero() && cfg.TargetBand.Max.IsZero() {
		cfg.TargetBand = def.TargetBand
	}
	if cfg.FillupBand.Min.IsZero() && cfg.FillupBand.Max.IsZero() {
		cfg.FillupBand = def.FillupBand
	}
	if cfg.BufferPurpose == "" {
		cfg.BufferPurpose = def.BufferPurpose
	}
	if log == nil {
		log = NopLogger{}
	}
	return &Engine{history: history, cfg: cfg, log: log}
}

// Input is the snapshot Compute operates on. The engine never mutates it.
type Input struct {
	Vehicle trip.Vehicle
	Year    int
	Trips   []trip.Trip  // the vehicle's trips for Year, any order
	Routes  []trip.Route // saved routes for compensation proposals
}

// Compute reconstructs the vehicle-year. The only error is a fatal
// vehicle configuration problem; every data anomaly degrades into the
// bundle's warning sets instead.
func (e *Engine) Compute(ctx context.Context, in Input) (*Result, error) {
	if err := validateVehicle(in.Vehicle); err != nil {
		e.log.Errorf("vehicle %s rejected: %v", in.Vehicle.ID, err)
		return nil, err
	}

	v := in.Vehicle
	resolver := carryover.Resolver{History: e.history}
	seed, err := resolver.Resolve(ctx, v, in.Year)
	if err != nil {
		return nil, err
	}

	chronological := trip.Chronological(in.Trips)
	fuelTrips := chronological // PHEV swaps in the fuel-covered distances
	res := &Result{
		Trips:             chronological,
		YearStartOdometer: seed.Odometer,
		YearStartFuel:     seed.FuelLiters,
		YearStartBattery:  seed.BatteryKWh,
		DateWarnings:      trip.DateWarnings(in.Trips),
	}

	switch v.Type {
	case trip.ICE:
		p := fuel.Pipeline{TankLiters: v.TankLiters, Rated: v.RatedConsumption}
		c := p.Compute(chronological, seed.FuelLiters)
		res.Rates = c.Rates
		res.EstimatedRates = c.Estimated
		res.FuelConsumed = c.Consumed
		res.FuelRemaining = c.Remaining
		res.SocOverrides = map[uuid.UUID]bool{}

	case trip.BEV:
		p := energy.Pipeline{BatteryKWh: v.BatteryKWh, Baseline: v.BaselineKWh}
		c := p.Compute(chronological, seed.BatteryKWh)
		res.EnergyRates = c.Rates
		res.EstimatedEnergyRates = c.Estimated
		res.BatteryRemainingKWh = c.RemainingKWh
		res.BatteryRemainingPercent = c.RemainingPercent
		res.SocOverrides = c.Overrides

	case trip.PHEV:
		p := hybrid.Pipeline{
			TankLiters: v.TankLiters,
			Rated:      v.RatedConsumption,
			BatteryKWh: v.BatteryKWh,
			Baseline:   v.BaselineKWh,
		}
		c := p.Compute(chronological, seed.FuelLiters, seed.BatteryKWh)
		res.Rates = c.FuelRates
		res.EstimatedRates = c.EstimatedFuel
		res.FuelConsumed = c.FuelConsumed
		res.FuelRemaining = c.FuelRemaining
		res.EnergyRates = c.EnergyRates
		res.EstimatedEnergyRates = c.EstimatedEnergy
		res.BatteryRemainingKWh = c.RemainingKWh
		res.BatteryRemainingPercent = c.RemainingPercent
		res.SocOverrides = c.Overrides
		fuelTrips = fuelView(chronological, c.Splits)
	}

	if v.Type.UsesFuel() {
		res.ConsumptionWarnings = fuel.Warnings(res.Rates, v.RatedConsumption)
		res.Stats = e.fuelStats(chronological, fuelTrips, v, res)
		res.SuggestedFillups, res.LegendFillup = advisor.SuggestedFillups(
			fuelTrips, v.RatedConsumption, e.cfg.FillupBand)

		if res.Stats.OverLimit {
			closedFuel, closedKm := fuel.ClosedPeriodTotals(fuelTrips)
			adv := advisor.Advisor{TargetBand: e.cfg.TargetBand, BufferPurpose: e.cfg.BufferPurpose}
			res.Suggestion = adv.Suggest(closedFuel, closedKm, v.RatedConsumption, in.Routes)
			if res.Suggestion != nil {
				res.Stats.BufferKm = res.Suggestion.DistanceKm
			}
		}
	} else {
		res.ConsumptionWarnings = map[uuid.UUID]bool{}
		res.Stats = Stats{TotalKm: totalDistance(chronological)}
	}

	if n := len(res.DateWarnings) + len(res.ConsumptionWarnings); n > 0 {
		e.log.Warnf("vehicle %s year %d: %d data warnings", v.ID, in.Year, n)
	}
	e.log.Debugf("vehicle %s year %d: %d trips computed", v.ID, in.Year, len(chronological))

	return res, nil
}

// fuelView rewrites each trip's distance to its fuel-covered share so the
// fuel-period helpers see the combustion sub-series, not total distance.
func fuelView(chronological []trip.Trip, splits map[uuid.UUID]hybrid.Split) []trip.Trip {
	out := make([]trip.Trip, len(chronological))
	copy(out, chronological)
	for i := range out {
		out[i].DistanceKm = splits[out[i].ID].FuelKm
	}
	return out
}
