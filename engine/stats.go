/*
stats.go - Year headline figures

PURPOSE:
  Aggregates the year the way a ledger header presents it: totals, the
  closed-period average rate, the most recent fill-up window's rate, and
  the worst period's margin. The worst period drives the over-limit flag,
  not the average - for compliance every fill-up window is separately
  auditable, and one bad window is enough to warrant compensation.
*/
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/fuel"
	"github.com/warp/trip-engine/ledger"
	"github.com/warp/trip-engine/trip"
)

// fuelStats aggregates the year's fuel figures. fuelTrips carries the
// fuel-covered distances (identical to chronological except for hybrids);
// totals always report the real distance traveled.
func (e *Engine) fuelStats(chronological, fuelTrips []trip.Trip, v trip.Vehicle, res *Result) Stats {
	st := Stats{
		TotalKm:       totalDistance(chronological),
		FuelRemaining: res.YearStartFuel,
	}
	for _, t := range chronological {
		st.TotalFuelLiters = st.TotalFuelLiters.Add(t.FuelLiters)
		st.TotalFuelCostEUR = st.TotalFuelCostEUR.Add(t.FuelCostEUR)
	}

	closedFuel, closedKm := fuel.ClosedPeriodTotals(fuelTrips)
	st.AvgConsumptionRate = ledger.Rate(closedFuel, closedKm)
	st.LastConsumptionRate = lastPeriodRate(fuelTrips, v.RatedConsumption)

	if len(chronological) > 0 {
		last := chronological[len(chronological)-1].ID
		if remaining, ok := res.FuelRemaining[last]; ok {
			st.FuelRemaining = remaining
		}
	}

	worst, margin, over := fuel.WorstPeriod(fuelTrips, v.RatedConsumption)
	st.OverLimit = over
	if closedKm.IsPositive() && worst.IsPositive() {
		st.MarginPercent = &margin
	}
	return st
}

// lastPeriodRate computes the rate of the most recent fill-up window: the
// closing fill's liters over the distance since the previous fill-up.
// Falls back to the rated figure while no fill-up exists.
func lastPeriodRate(chronological []trip.Trip, rated decimal.Decimal) decimal.Decimal {
	last := -1
	for i := len(chronological) - 1; i >= 0; i-- {
		if chronological[i].IsFillup() {
			last = i
			break
		}
	}
	if last < 0 {
		return rated
	}

	start := 0
	for i := last - 1; i >= 0; i-- {
		if chronological[i].IsFillup() {
			start = i + 1
			break
		}
	}

	km := decimal.Zero
	for _, t := range chronological[start : last+1] {
		km = km.Add(t.DistanceKm)
	}
	return ledger.Rate(chronological[last].FuelLiters, km)
}

func totalDistance(trips []trip.Trip) decimal.Decimal {
	total := decimal.Zero
	for _, t := range trips {
		total = total.Add(t.DistanceKm)
	}
	return total
}
