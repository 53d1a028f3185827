package carryover_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/trip-engine/carryover"
	"github.com/warp/trip-engine/trip"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func iceVehicle() trip.Vehicle {
	return trip.Vehicle{
		ID:               uuid.New(),
		Type:             trip.ICE,
		TankLiters:       d("50"),
		RatedConsumption: d("7"),
		InitialOdometer:  d("1000"),
	}
}

func bevVehicle() trip.Vehicle {
	return trip.Vehicle{
		ID:          uuid.New(),
		Type:        trip.BEV,
		BatteryKWh:  d("60"),
		BaselineKWh: d("18"),
	}
}

func yearTrip(v trip.Vehicle, year int, month time.Month, day int, km, odo string) trip.Trip {
	return trip.Trip{
		ID:         uuid.New(),
		VehicleID:  v.ID,
		Date:       trip.Date(year, month, day),
		DistanceKm: d(km),
		Odometer:   d(odo),
	}
}

// =============================================================================
// FALLBACKS
// =============================================================================

func TestResolve_NoHistory_VehicleDefaults(t *testing.T) {
	// GIVEN: No History collaborator at all
	// THEN: Initial odometer, full tank

	v := iceVehicle()
	st, err := carryover.Resolver{}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.Odometer.Equal(d("1000")))
	assert.True(t, st.FuelLiters.Equal(d("50")))
	assert.True(t, st.BatteryKWh.IsZero(), "no battery on an ICE vehicle")
}

func TestResolve_EmptyHistory_BatteryDefaultsToInitialSoc(t *testing.T) {
	v := bevVehicle()
	v.InitialBatteryPercent = d("80")

	st, err := carryover.Resolver{History: carryover.NewMemory()}.
		Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.BatteryKWh.Equal(d("48")), "80% of 60kWh")
}

// =============================================================================
// ODOMETER LOOKBACK
// =============================================================================

func TestResolve_Odometer_MostRecentYearWithTrips(t *testing.T) {
	// GIVEN: Trips in 2021 and 2023, none in 2024
	// WHEN: Resolving 2025
	// THEN: The odometer comes from 2023's chronologically last trip

	v := iceVehicle()
	mem := carryover.NewMemory()
	mem.Add(
		yearTrip(v, 2021, time.June, 1, "100", "5000"),
		yearTrip(v, 2023, time.February, 1, "200", "8000"),
		yearTrip(v, 2023, time.November, 20, "150", "9500"),
	)

	st, err := carryover.Resolver{History: mem}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.Odometer.Equal(d("9500")))
}

func TestResolve_Odometer_LookbackBounded(t *testing.T) {
	// GIVEN: The only trips are beyond the lookback horizon
	// THEN: The initial odometer is used

	v := iceVehicle()
	mem := carryover.NewMemory()
	mem.Add(yearTrip(v, 2010, time.June, 1, "100", "5000"))

	st, err := carryover.Resolver{History: mem}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.Odometer.Equal(d("1000")), "2010 is more than 10 years back")
}

func TestResolve_Odometer_CustomLookbackDepth(t *testing.T) {
	v := iceVehicle()
	mem := carryover.NewMemory()
	mem.Add(yearTrip(v, 2022, time.June, 1, "100", "5000"))

	r := carryover.Resolver{History: mem, MaxLookback: 2}
	st, err := r.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.Odometer.Equal(d("1000")), "2022 is outside a 2-year horizon")
}

// =============================================================================
// FUEL / BATTERY CARRYOVER
// =============================================================================

func TestResolve_Fuel_PriorYearRemainingCarries(t *testing.T) {
	// GIVEN: 2024 ends with 300km + a closing 40l fill, then 100km more
	// WHEN: Resolving 2025
	// THEN: Fuel seeds at the simulated year-end level, not a full tank

	v := iceVehicle()
	mem := carryover.NewMemory()
	t1 := yearTrip(v, 2024, time.March, 1, "300", "1300")
	t2 := yearTrip(v, 2024, time.June, 1, "200", "1500")
	t2.FuelLiters = d("40")
	t2.FullTank = true
	t3 := yearTrip(v, 2024, time.September, 1, "100", "1600")
	mem.Add(t1, t2, t3)

	st, err := carryover.Resolver{History: mem}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	// Prior-year walk: full tank after t2, then 100km on the rated 7.
	assert.True(t, st.FuelLiters.Equal(d("43")))
	assert.True(t, st.Odometer.Equal(d("1600")))
}

func TestResolve_Fuel_OnlyImmediatePriorYearCounts(t *testing.T) {
	// GIVEN: Trips in 2023 but none in 2024
	// THEN: The odometer still carries from 2023, but fuel resets to a
	// full tank - the data gap makes the old level unreliable

	v := iceVehicle()
	mem := carryover.NewMemory()
	old := yearTrip(v, 2023, time.March, 1, "300", "1300")
	mem.Add(old)

	st, err := carryover.Resolver{History: mem}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.Odometer.Equal(d("1300")))
	assert.True(t, st.FuelLiters.Equal(d("50")))
}

func TestResolve_Battery_PriorYearRemainingCarries(t *testing.T) {
	v := bevVehicle()
	mem := carryover.NewMemory()
	prior := yearTrip(v, 2024, time.December, 20, "100", "2100")
	mem.Add(prior)

	st, err := carryover.Resolver{History: mem}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	// Full battery minus 100km at the baseline 18.
	assert.True(t, st.BatteryKWh.Equal(d("42")))
}

func TestResolve_Phev_CarriesBothResources(t *testing.T) {
	v := trip.Vehicle{
		ID:               uuid.New(),
		Type:             trip.PHEV,
		TankLiters:       d("45"),
		RatedConsumption: d("6"),
		BatteryKWh:       d("40"),
		BaselineKWh:      d("20"),
	}
	mem := carryover.NewMemory()
	// 100km fully electric: fuel untouched, battery 40 -> 20.
	mem.Add(yearTrip(v, 2024, time.July, 1, "100", "3100"))

	st, err := carryover.Resolver{History: mem}.Resolve(context.Background(), v, 2025)

	require.NoError(t, err)
	assert.True(t, st.FuelLiters.Equal(d("45")))
	assert.True(t, st.BatteryKWh.Equal(d("20")))
}

// =============================================================================
// MEMORY HISTORY
// =============================================================================

func TestMemory_PartitionsByVehicleAndYear(t *testing.T) {
	v1 := iceVehicle()
	v2 := iceVehicle()
	mem := carryover.NewMemory()
	mem.Add(
		yearTrip(v1, 2024, time.March, 1, "100", "1100"),
		yearTrip(v1, 2023, time.March, 1, "100", "900"),
		yearTrip(v2, 2024, time.March, 1, "100", "500"),
	)

	got, err := mem.TripsForYear(context.Background(), v1.ID, 2024)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, got[0].Odometer.Equal(d("1100")))

	none, err := mem.TripsForYear(context.Background(), v1.ID, 2020)
	require.NoError(t, err)
	assert.Empty(t, none)
}
