/*
Package advisor proposes compensating trips for over-limit consumption.

PURPOSE:
  When a period's consumption exceeds the legal ceiling, the fix is more
  distance: extra kilometers dilute the same liters back under the limit.
  This package solves for that distance and proposes a concrete trip -
  preferably a previously recorded route of about the right length, else a
  generic buffer trip with a configured purpose.

  The target is a BAND below the ceiling (16-19% over rated by default),
  sampled randomly so compensated ledgers do not all land on one
  suspiciously identical margin. Sampling happens once per suggestion;
  tests pin the band to a single value.

  The advisor only proposes. It never consumes resources or mutates the
  trip set - creating the trip is the caller's decision.

SEE ALSO:
  - fillup.go: The inverse helper - liters to enter for a plausible
    fill-up in the open period
*/
package advisor

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/trip"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Band is an inclusive numeric interval sampled uniformly.
type Band struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Sample draws a uniform value from the band. A degenerate band (Min ==
// Max) returns that value, which is how tests pin randomness.
func (b Band) Sample() decimal.Decimal {
	if b.Max.LessThanOrEqual(b.Min) {
		return b.Min
	}
	span, _ := b.Max.Sub(b.Min).Float64()
	return b.Min.Add(decimal.NewFromFloat(rand.Float64() * span))
}

// DefaultTargetBand is the safety window for compensated margins:
// 16-19% over rated, strictly below the 20% ceiling.
func DefaultTargetBand() Band {
	return Band{
		Min: decimal.RequireFromString("0.16"),
		Max: decimal.RequireFromString("0.19"),
	}
}

// RouteTolerance is how far a saved route's distance may deviate from the
// solved buffer distance and still be proposed: ±10%.
var RouteTolerance = decimal.RequireFromString("0.10")

// BufferDistance solves for the additional distance that brings
// resource / (distance + d) * 100 down to rated * (1 + targetMargin).
// Returns zero when already at or under the target, or when rated is not
// positive.
func BufferDistance(resource, distance, rated, targetMargin decimal.Decimal) decimal.Decimal {
	if !rated.IsPositive() {
		return decimal.Zero
	}
	targetRate := rated.Mul(one.Add(targetMargin))
	required := resource.Mul(hundred).Div(targetRate)
	buffer := required.Sub(distance)
	if buffer.IsNegative() {
		return decimal.Zero
	}
	return buffer
}

// MatchRoute finds the saved route whose distance is within RouteTolerance
// of targetKm, preferring the closest. Returns nil when nothing fits.
func MatchRoute(routes []trip.Route, targetKm decimal.Decimal) *trip.Route {
	lo := targetKm.Mul(one.Sub(RouteTolerance))
	hi := targetKm.Mul(one.Add(RouteTolerance))

	var best *trip.Route
	var bestDiff decimal.Decimal
	for i := range routes {
		r := &routes[i]
		if r.DistanceKm.LessThan(lo) || r.DistanceKm.GreaterThan(hi) {
			continue
		}
		diff := r.DistanceKm.Sub(targetKm).Abs()
		if best == nil || diff.LessThan(bestDiff) {
			best = r
			bestDiff = diff
		}
	}
	return best
}

// Suggestion is a proposed compensating trip.
type Suggestion struct {
	DistanceKm   decimal.Decimal
	TargetMargin decimal.Decimal // the sampled fractional margin, e.g. 0.18
	Route        *trip.Route     // nil = no saved route matched
	Purpose      string          // purpose label for a generic buffer trip
}

// Advisor holds the configuration for producing suggestions.
type Advisor struct {
	TargetBand    Band
	BufferPurpose string // purpose label when no route matches
}

// Suggest proposes a compensating trip for a period that consumed
// `resource` over `distance` against the rated figure. Returns nil when
// no additional distance is needed.
func (a Advisor) Suggest(resource, distance, rated decimal.Decimal, routes []trip.Route) *Suggestion {
	margin := a.TargetBand.Sample()
	d := BufferDistance(resource, distance, rated, margin)
	if !d.IsPositive() {
		return nil
	}
	return &Suggestion{
		DistanceKm:   d,
		TargetMargin: margin,
		Route:        MatchRoute(routes, d),
		Purpose:      a.BufferPurpose,
	}
}
