/*
errors.go - Error taxonomy for the engine

PURPOSE:
  Only one class of input aborts a computation: a vehicle record missing
  fields its own powertrain variant requires. That means the variant
  immutability invariant was bypassed upstream, and no arithmetic over the
  trips can be trusted - so it surfaces as a fatal error.

  Everything else degrades: data-quality anomalies become warning-set
  membership in the result bundle, and missing data (empty years, no
  history) falls back to vehicle defaults. Neither is ever an error.
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/warp/trip-engine/trip"
)

// ErrVehicleConfig is the sentinel for fatal configuration errors.
// Match with errors.Is.
var ErrVehicleConfig = errors.New("invalid vehicle configuration")

// ConfigError reports which variant-required field is missing or invalid.
type ConfigError struct {
	VehicleID uuid.UUID
	Type      trip.VehicleType
	Field     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("vehicle %s (%s): missing or invalid %s", e.VehicleID, e.Type, e.Field)
}

func (e *ConfigError) Unwrap() error { return ErrVehicleConfig }

// validateVehicle checks the variant-required fields. nil means the
// vehicle is computable.
func validateVehicle(v trip.Vehicle) error {
	bad := func(field string) error {
		return &ConfigError{VehicleID: v.ID, Type: v.Type, Field: field}
	}

	switch v.Type {
	case trip.ICE, trip.BEV, trip.PHEV:
	default:
		return bad("vehicle type")
	}

	if v.Type.UsesFuel() {
		if !v.TankLiters.IsPositive() {
			return bad("tank capacity")
		}
		if !v.RatedConsumption.IsPositive() {
			return bad("rated consumption")
		}
	}
	if v.Type.UsesElectricity() {
		if !v.BatteryKWh.IsPositive() {
			return bad("battery capacity")
		}
		if !v.BaselineKWh.IsPositive() {
			return bad("baseline energy consumption")
		}
	}
	return nil
}
