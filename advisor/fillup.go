/*
fillup.go - Suggested fill-up amounts for the open period

PURPOSE:
  The inverse of the buffer solve: given the distance accumulated in the
  trailing open period, how many liters would a fill-up need to record to
  land the period at a plausible 105-120% of the rated figure? One
  multiplier is sampled per batch so all suggestions in a single
  computation are mutually consistent.
*/
package advisor

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/trip"
)

// DefaultFillupBand is the multiplier range for suggested fill-ups:
// 105-120% of rated consumption.
func DefaultFillupBand() Band {
	return Band{
		Min: decimal.RequireFromString("1.05"),
		Max: decimal.RequireFromString("1.20"),
	}
}

// Fillup is a suggested fill-up for one trip: the liters to enter and the
// period rate that would result.
type Fillup struct {
	Liters decimal.Decimal
	Rate   decimal.Decimal // l/100km
}

// SuggestedFillups computes, for every trip in the trailing open period,
// the liters a full-tank fill-up on that trip would need to close the
// period at the sampled target rate. The second return is the legend
// value: the suggestion of the newest row (lowest display rank), nil when
// the open period is empty.
func SuggestedFillups(chronological []trip.Trip, rated decimal.Decimal, band Band) (map[uuid.UUID]Fillup, *Fillup) {
	targetRate := rated.Mul(band.Sample())
	suggestions := make(map[uuid.UUID]Fillup)

	// The open period starts after the last full tank.
	start := 0
	for i, t := range chronological {
		if t.IsFillup() && t.FullTank {
			start = i + 1
		}
	}

	cumulativeKm := decimal.Zero
	for _, t := range chronological[start:] {
		cumulativeKm = cumulativeKm.Add(t.DistanceKm)
		if !cumulativeKm.IsPositive() {
			continue
		}
		liters := cumulativeKm.Mul(targetRate).Div(hundred).Round(2)
		suggestions[t.ID] = Fillup{
			Liters: liters,
			Rate:   liters.Div(cumulativeKm).Mul(hundred).Round(2),
		}
	}

	return suggestions, newestSuggestion(chronological[start:], suggestions)
}

// newestSuggestion picks the suggestion belonging to the row with the
// lowest display rank.
func newestSuggestion(trips []trip.Trip, suggestions map[uuid.UUID]Fillup) *Fillup {
	var best *trip.Trip
	for i := range trips {
		t := &trips[i]
		if _, ok := suggestions[t.ID]; !ok {
			continue
		}
		if best == nil || t.SortOrder < best.SortOrder {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	f := suggestions[best.ID]
	return &f
}

// FillLiters suggests liters for a fill-up being entered right now: the
// open period's accumulated distance plus the draft trip's distance, at a
// sampled target rate. Rounded to two decimals like a pump display.
func FillLiters(openPeriodKm, draftKm, rated decimal.Decimal, band Band) decimal.Decimal {
	total := openPeriodKm.Add(draftKm)
	if !total.IsPositive() {
		return decimal.Zero
	}
	targetRate := rated.Mul(band.Sample())
	return total.Mul(targetRate).Div(hundred).Round(2)
}

// OpenPeriodKm accumulates the distance in the trailing open period, for
// callers preparing a FillLiters suggestion. If stopAt is non-nil the
// accumulation stops after that trip (editing a row mid-period).
func OpenPeriodKm(chronological []trip.Trip, stopAt *uuid.UUID) decimal.Decimal {
	km := decimal.Zero
	for _, t := range chronological {
		km = km.Add(t.DistanceKm)
		if stopAt != nil && t.ID == *stopAt {
			break
		}
		if t.IsFillup() && t.FullTank {
			km = decimal.Zero
		}
	}
	return km
}
