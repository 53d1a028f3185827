/*
Package trip defines the input data model for the consumption engine.

PURPOSE:
  This package contains the Vehicle, Trip, and Route types that the
  persistence collaborator loads and hands to the engine. The engine never
  mutates these values; every computation works on an immutable snapshot.

KEY CONCEPTS IN THIS FILE (trip.go):
  - VehicleType: The powertrain variant (ICE, BEV, PHEV). Immutable once
    trips exist - fuel and energy arithmetic are not interchangeable.
  - Vehicle: Capacities and rated consumption figures per variant.
  - Trip: One ledger row - distance, odometer, and optional replenishment
    (fuel fill-up and/or battery charge).
  - Route: A previously recorded origin->destination with known distance,
    used by the compensation advisor.

DESIGN PRINCIPLES:
  1. Precision: All quantities are decimal.Decimal, never float64.
  2. Zero means absent: A zero FuelLiters/EnergyKWh is "no replenishment".
     The SoC override is a pointer because an explicit 0% is meaningful.
  3. The engine owns no identity: IDs are supplied by the caller.

SEE ALSO:
  - order.go: Chronological and display orderings over trips
  - engine package: Validation of variant-required fields
*/
package trip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// VEHICLE TYPE - Powertrain variant
// =============================================================================

type VehicleType string

const (
	ICE  VehicleType = "ice"  // Internal combustion engine
	BEV  VehicleType = "bev"  // Battery electric vehicle
	PHEV VehicleType = "phev" // Plug-in hybrid
)

// UsesFuel reports whether the variant carries a fuel system.
func (vt VehicleType) UsesFuel() bool { return vt == ICE || vt == PHEV }

// UsesElectricity reports whether the variant carries a battery system.
func (vt VehicleType) UsesElectricity() bool { return vt == BEV || vt == PHEV }

// =============================================================================
// VEHICLE
// =============================================================================

type Vehicle struct {
	ID           uuid.UUID
	Name         string
	LicensePlate string
	Type         VehicleType

	// Fuel system (ICE + PHEV). Zero = not configured.
	TankLiters       decimal.Decimal // tank capacity (l)
	RatedConsumption decimal.Decimal // l/100km from the technical passport

	// Energy system (BEV + PHEV). Zero = not configured.
	BatteryKWh            decimal.Decimal // battery capacity (kWh)
	BaselineKWh           decimal.Decimal // kWh/100km baseline consumption
	InitialBatteryPercent decimal.Decimal // starting SoC %; zero means 100%

	// Common
	InitialOdometer decimal.Decimal
}

// InitialBatteryKWh returns the battery level the vehicle starts with before
// any recorded history: InitialBatteryPercent of capacity, defaulting to a
// full battery when the percentage is unset.
func (v Vehicle) InitialBatteryKWh() decimal.Decimal {
	pct := v.InitialBatteryPercent
	if pct.IsZero() {
		pct = decimal.NewFromInt(100)
	}
	return v.BatteryKWh.Mul(pct).Div(decimal.NewFromInt(100))
}

// =============================================================================
// TRIP
// =============================================================================

type Trip struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	Date        time.Time // day granularity, UTC
	Origin      string
	Destination string
	Purpose     string

	DistanceKm decimal.Decimal
	Odometer   decimal.Decimal // cumulative reading after the trip

	// Fuel replenishment (ICE + PHEV)
	FuelLiters  decimal.Decimal // zero = no fill-up
	FuelCostEUR decimal.Decimal
	FullTank    bool // fill-up brought the tank to capacity

	// Energy replenishment (BEV + PHEV)
	EnergyKWh     decimal.Decimal // zero = no charge
	EnergyCostEUR decimal.Decimal
	FullCharge    bool // charged to capacity

	// Manual SoC correction, applied before the trip is simulated.
	// Pointer because an explicit 0% differs from "no override".
	SocOverridePercent *decimal.Decimal

	// Display rank: 0 = most recently entered / top row.
	SortOrder int
}

// IsFillup reports whether the trip includes a fuel fill-up.
func (t Trip) IsFillup() bool { return t.FuelLiters.IsPositive() }

// IsCharge reports whether the trip includes a battery charge.
func (t Trip) IsCharge() bool { return t.EnergyKWh.IsPositive() }

// HasSocOverride reports whether the trip carries a manual SoC correction.
func (t Trip) HasSocOverride() bool { return t.SocOverridePercent != nil }

// =============================================================================
// ROUTE
// =============================================================================

// Route is a previously recorded origin->destination pair with a known
// distance. The compensation advisor proposes these before inventing a
// generic buffer trip.
type Route struct {
	ID          uuid.UUID
	VehicleID   uuid.UUID
	Origin      string
	Destination string
	DistanceKm  decimal.Decimal
	UsageCount  int
	LastUsed    time.Time
}

// Date builds a day-granularity UTC date, the only time resolution trips use.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
