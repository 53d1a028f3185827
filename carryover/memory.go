package carryover

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/trip-engine/trip"
)

// =============================================================================
// MEMORY HISTORY - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a History backed by a map. Callers that already hold all prior
// years in memory (tests, import tools) load it once and hand it to the
// engine.
type Memory struct {
	mu    sync.RWMutex
	trips map[memoryKey][]trip.Trip
}

type memoryKey struct {
	VehicleID uuid.UUID
	Year      int
}

func NewMemory() *Memory {
	return &Memory{trips: make(map[memoryKey][]trip.Trip)}
}

// Add files trips under their vehicle and date year.
func (m *Memory) Add(trips ...trip.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range trips {
		k := memoryKey{VehicleID: t.VehicleID, Year: t.Date.Year()}
		m.trips[k] = append(m.trips[k], t)
	}
}

// TripsForYear returns a copy of the stored trips; callers may reorder it.
func (m *Memory) TripsForYear(_ context.Context, vehicleID uuid.UUID, year int) ([]trip.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.trips[memoryKey{VehicleID: vehicleID, Year: year}]
	out := make([]trip.Trip, len(stored))
	copy(out, stored)
	return out, nil
}
