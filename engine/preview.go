/*
preview.go - Live recomputation with a draft trip

PURPOSE:
  While a trip is being entered or edited the caller wants instant
  feedback - what rate, remaining level, and margin would result - without
  persisting anything. Preview splices the draft into a copy of the
  snapshot (replacing an existing trip with the same ID, else appending),
  recomputes, and reports the draft's values. The input slice is never
  touched.
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/fuel"
	"github.com/warp/trip-engine/trip"
)

// Preview is the draft trip's computed values.
type Preview struct {
	// Fuel system (ICE + PHEV)
	Rate          decimal.Decimal // l/100km for the draft's period
	Estimated     bool
	FuelRemaining decimal.Decimal
	MarginPercent decimal.Decimal
	OverLimit     bool

	// Energy system (BEV + PHEV)
	EnergyRate decimal.Decimal // kWh/100km
	BatteryKWh decimal.Decimal
	BatteryPct decimal.Decimal
}

// Preview recomputes the vehicle-year with draft spliced in and returns
// the draft's row values.
func (e *Engine) Preview(ctx context.Context, in Input, draft trip.Trip) (Preview, error) {
	spliced := make([]trip.Trip, 0, len(in.Trips)+1)
	replaced := false
	for _, t := range in.Trips {
		if t.ID == draft.ID {
			spliced = append(spliced, draft)
			replaced = true
			continue
		}
		spliced = append(spliced, t)
	}
	if !replaced {
		spliced = append(spliced, draft)
	}
	in.Trips = spliced

	res, err := e.Compute(ctx, in)
	if err != nil {
		return Preview{}, err
	}

	p := Preview{}
	if in.Vehicle.Type.UsesFuel() {
		p.Rate = res.Rates[draft.ID]
		p.Estimated = res.EstimatedRates[draft.ID]
		p.FuelRemaining = res.FuelRemaining[draft.ID]
		p.MarginPercent = fuel.MarginPercent(p.Rate, in.Vehicle.RatedConsumption)
		p.OverLimit = fuel.OverLimit(p.Rate, in.Vehicle.RatedConsumption)
	}
	if in.Vehicle.Type.UsesElectricity() {
		p.EnergyRate = res.EnergyRates[draft.ID]
		p.BatteryKWh = res.BatteryRemainingKWh[draft.ID]
		p.BatteryPct = res.BatteryRemainingPercent[draft.ID]
	}
	return p, nil
}
