/*
margin.go - Margin evaluation against the rated consumption

PURPOSE:
  The legal ceiling allows actual consumption up to 20% over the rated
  (technical passport) figure. The check always uses a PERIOD rate - the
  amortized consumption between full tanks - never a single trip's
  instantaneous figure: one heavy fill-up is still compliant if the
  period average stays inside the band.

  Electric consumption has no legal ceiling; the evaluator is never
  invoked for energy periods.
*/
package fuel

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/trip"
)

// LegalMarginPercent is the statutory ceiling: consumption may exceed the
// rated figure by at most this many percent.
var LegalMarginPercent = decimal.NewFromInt(20)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// legalMultiplier = 1 + 20/100
func legalMultiplier() decimal.Decimal {
	return one.Add(LegalMarginPercent.Div(hundred))
}

// MarginPercent computes (rate / rated - 1) * 100. Returns zero when the
// rated figure is not positive; a vehicle without one has no margin
// concept.
func MarginPercent(rate, rated decimal.Decimal) decimal.Decimal {
	if !rated.IsPositive() {
		return decimal.Zero
	}
	return rate.Div(rated).Sub(one).Mul(hundred)
}

// OverLimit reports whether a rate exceeds rated * 1.20, i.e. margin > 20%.
func OverLimit(rate, rated decimal.Decimal) bool {
	if !rated.IsPositive() {
		return false
	}
	return rate.GreaterThan(rated.Mul(legalMultiplier()))
}

// Warnings returns the trips whose assigned period rate exceeds the legal
// ceiling. Estimated rates are included: an estimate equal to the rated
// figure can never trip the check, but a carried-over high rate should.
func Warnings(rates map[uuid.UUID]decimal.Decimal, rated decimal.Decimal) map[uuid.UUID]bool {
	warnings := make(map[uuid.UUID]bool)
	for id, rate := range rates {
		if OverLimit(rate, rated) {
			warnings[id] = true
		}
	}
	return warnings
}

// WorstPeriod finds the closed period with the highest rate and returns
// (rate, margin, overLimit). For legal compliance every fill-up window
// must individually stay inside the ceiling, so the worst one drives the
// headline warning, not the average.
func WorstPeriod(chronological []trip.Trip, rated decimal.Decimal) (decimal.Decimal, decimal.Decimal, bool) {
	if !rated.IsPositive() {
		return decimal.Zero, decimal.Zero, false
	}

	worst := decimal.Zero
	var periodFuel, periodKm decimal.Decimal

	for _, t := range chronological {
		periodKm = periodKm.Add(t.DistanceKm)
		if !t.IsFillup() {
			continue
		}
		periodFuel = periodFuel.Add(t.FuelLiters)
		if t.FullTank {
			if periodKm.IsPositive() {
				rate := periodFuel.Div(periodKm).Mul(hundred)
				if rate.GreaterThan(worst) {
					worst = rate
				}
			}
			// Zero-distance closes have no measured rate to compare.
			periodFuel = decimal.Zero
			periodKm = decimal.Zero
		}
	}

	return worst, MarginPercent(worst, rated), OverLimit(worst, rated)
}
