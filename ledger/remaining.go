/*
remaining.go - Forward simulation of the remaining resource level

PURPOSE:
  Threads a running level through the chronological entry sequence and
  records the post-trip level for every entry. The walk is an explicit
  left-fold: the accumulator is local, so repeated invocations over the
  same snapshot always produce the same map.

STEP ORDER (per entry):
  1. Apply the level override, if any (manual SoC correction).
  2. Subtract distance * rate / 100.
  3. Apply replenishment: a FULL refill sets the level to capacity exactly
     (not subtract-then-add, which would accumulate drift); a partial one
     adds the stated amount.
  4. Clamp into [0, capacity] and record.

SEE ALSO:
  - period.go: Produces the per-entry rates consumed here
*/
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Simulate runs the remaining-level fold. start is the level before the
// first entry (a carried-over year-end value, or capacity for a fresh
// tank). Entries missing from rates consume nothing.
func Simulate(entries []Entry, rates map[uuid.UUID]decimal.Decimal, start, capacity decimal.Decimal) map[uuid.UUID]decimal.Decimal {
	remaining := make(map[uuid.UUID]decimal.Decimal, len(entries))
	level := start

	for _, e := range entries {
		if e.LevelOverride != nil {
			level = *e.LevelOverride
		}

		if rate, ok := rates[e.ID]; ok {
			level = level.Sub(Consumed(e.Distance, rate))
		}

		if e.Added.IsPositive() {
			if e.Full {
				level = capacity
			} else {
				level = level.Add(e.Added)
			}
		}

		level = Clamp(level, capacity)
		remaining[e.ID] = level
	}
	return remaining
}

// ConsumedByEntry computes the per-entry consumed amount at the assigned
// rates. Entries without a rate consume zero.
func ConsumedByEntry(entries []Entry, rates map[uuid.UUID]decimal.Decimal) map[uuid.UUID]decimal.Decimal {
	consumed := make(map[uuid.UUID]decimal.Decimal, len(entries))
	for _, e := range entries {
		rate := rates[e.ID]
		consumed[e.ID] = Consumed(e.Distance, rate)
	}
	return consumed
}
