package advisor_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/trip-engine/advisor"
	"github.com/warp/trip-engine/trip"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// pinned collapses a band to one value so sampling is deterministic.
func pinned(s string) advisor.Band {
	return advisor.Band{Min: d(s), Max: d(s)}
}

func route(km string) trip.Route {
	return trip.Route{ID: uuid.New(), DistanceKm: d(km)}
}

// =============================================================================
// BAND SAMPLING
// =============================================================================

func TestBand_Sample_WithinBounds(t *testing.T) {
	b := advisor.DefaultTargetBand()
	for i := 0; i < 100; i++ {
		got := b.Sample()
		assert.True(t, got.GreaterThanOrEqual(b.Min), "sample below band")
		assert.True(t, got.LessThanOrEqual(b.Max), "sample above band")
	}
}

func TestBand_Sample_DegenerateReturnsMin(t *testing.T) {
	assert.True(t, pinned("0.18").Sample().Equal(d("0.18")))
}

// =============================================================================
// BUFFER DISTANCE
// =============================================================================

func TestBufferDistance_SolvesForTargetRate(t *testing.T) {
	// GIVEN: 42l over 400km (10.5 l/100km) against rated 7, target 20%
	// THEN: 42l at 8.4 l/100km needs 500km, so 100km more

	got := advisor.BufferDistance(d("42"), d("400"), d("7"), d("0.20"))
	assert.True(t, got.Equal(d("100")))
}

func TestBufferDistance_AlreadyUnderTarget_Zero(t *testing.T) {
	// 28l over 400km is 7 l/100km, no margin at all.
	got := advisor.BufferDistance(d("28"), d("400"), d("7"), d("0.20"))
	assert.True(t, got.IsZero())
}

func TestBufferDistance_NoRatedFigure_Zero(t *testing.T) {
	got := advisor.BufferDistance(d("42"), d("400"), decimal.Zero, d("0.20"))
	assert.True(t, got.IsZero())
}

// =============================================================================
// ROUTE MATCHING
// =============================================================================

func TestMatchRoute_ClosestWithinTolerance(t *testing.T) {
	// GIVEN: Target 100km and routes at 95, 108, and 120km
	// THEN: 95 wins - 120 is outside the 10% window, 108 is further off

	routes := []trip.Route{route("120"), route("108"), route("95")}

	got := advisor.MatchRoute(routes, d("100"))

	require.NotNil(t, got)
	assert.True(t, got.DistanceKm.Equal(d("95")))
}

func TestMatchRoute_NothingFits_Nil(t *testing.T) {
	routes := []trip.Route{route("150"), route("60")}
	assert.Nil(t, advisor.MatchRoute(routes, d("100")))
}

func TestMatchRoute_ExactMatch(t *testing.T) {
	exact := route("100")
	got := advisor.MatchRoute([]trip.Route{route("95"), exact}, d("100"))
	require.NotNil(t, got)
	assert.Equal(t, exact.ID, got.ID)
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggest_OverLimit_ProposesBufferTrip(t *testing.T) {
	a := advisor.Advisor{TargetBand: pinned("0.20"), BufferPurpose: "business trip"}

	got := a.Suggest(d("42"), d("400"), d("7"), nil)

	require.NotNil(t, got)
	assert.True(t, got.DistanceKm.Equal(d("100")))
	assert.True(t, got.TargetMargin.Equal(d("0.20")))
	assert.Nil(t, got.Route)
	assert.Equal(t, "business trip", got.Purpose)
}

func TestSuggest_MatchesSavedRoute(t *testing.T) {
	a := advisor.Advisor{TargetBand: pinned("0.20"), BufferPurpose: "business trip"}
	saved := route("95")

	got := a.Suggest(d("42"), d("400"), d("7"), []trip.Route{saved})

	require.NotNil(t, got)
	require.NotNil(t, got.Route)
	assert.Equal(t, saved.ID, got.Route.ID)
}

func TestSuggest_Compliant_Nil(t *testing.T) {
	a := advisor.Advisor{TargetBand: pinned("0.20")}
	assert.Nil(t, a.Suggest(d("28"), d("400"), d("7"), nil))
}

// =============================================================================
// SUGGESTED FILL-UPS
// =============================================================================

func tripRow(day int, km string, sortOrder int) trip.Trip {
	return trip.Trip{
		ID:         uuid.New(),
		Date:       trip.Date(2025, time.August, day),
		DistanceKm: d(km),
		SortOrder:  sortOrder,
	}
}

func TestSuggestedFillups_CumulativeOverOpenPeriod(t *testing.T) {
	// GIVEN: A 1.10 multiplier pinned over rated 7 (target 7.7 l/100km)
	// and two open-period trips of 100km and 150km
	// THEN: Suggestions accumulate: 7.7l at 100km, 19.25l at 250km

	t1 := tripRow(1, "100", 1)
	t2 := tripRow(5, "150", 0)

	fills, legend := advisor.SuggestedFillups([]trip.Trip{t1, t2}, d("7"), pinned("1.10"))

	require.Contains(t, fills, t1.ID)
	require.Contains(t, fills, t2.ID)
	assert.True(t, fills[t1.ID].Liters.Equal(d("7.7")))
	assert.True(t, fills[t2.ID].Liters.Equal(d("19.25")))
	assert.True(t, fills[t2.ID].Rate.Equal(d("7.7")))

	// The legend shows the newest row's suggestion.
	require.NotNil(t, legend)
	assert.True(t, legend.Liters.Equal(d("19.25")))
}

func TestSuggestedFillups_StartAfterLastFullTank(t *testing.T) {
	closed := tripRow(1, "300", 2)
	closed.FuelLiters = d("40")
	closed.FullTank = true
	open := tripRow(5, "100", 0)

	fills, _ := advisor.SuggestedFillups([]trip.Trip{closed, open}, d("7"), pinned("1.10"))

	assert.NotContains(t, fills, closed.ID, "closed period needs no suggestion")
	assert.True(t, fills[open.ID].Liters.Equal(d("7.7")))
}

func TestSuggestedFillups_EmptyOpenPeriod_NilLegend(t *testing.T) {
	closed := tripRow(1, "300", 0)
	closed.FuelLiters = d("40")
	closed.FullTank = true

	fills, legend := advisor.SuggestedFillups([]trip.Trip{closed}, d("7"), pinned("1.10"))

	assert.Empty(t, fills)
	assert.Nil(t, legend)
}

// =============================================================================
// FILL LITERS
// =============================================================================

func TestFillLiters(t *testing.T) {
	// (200 + 50)km at 7 * 1.10 = 7.7 l/100km -> 19.25l.
	got := advisor.FillLiters(d("200"), d("50"), d("7"), pinned("1.10"))
	assert.True(t, got.Equal(d("19.25")))

	assert.True(t, advisor.FillLiters(decimal.Zero, decimal.Zero, d("7"), pinned("1.10")).IsZero())
}

func TestOpenPeriodKm_ResetsOnFullTank(t *testing.T) {
	t1 := tripRow(1, "300", 2)
	t1.FuelLiters = d("40")
	t1.FullTank = true
	t2 := tripRow(3, "120", 1)
	t3 := tripRow(5, "80", 0)

	got := advisor.OpenPeriodKm([]trip.Trip{t1, t2, t3}, nil)
	assert.True(t, got.Equal(d("200")))
}

func TestOpenPeriodKm_StopsAtTrip(t *testing.T) {
	t1 := tripRow(1, "120", 1)
	t2 := tripRow(3, "80", 0)

	got := advisor.OpenPeriodKm([]trip.Trip{t1, t2}, &t1.ID)
	assert.True(t, got.Equal(d("120")))
}
