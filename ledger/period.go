/*
period.go - Consumption period segmentation

PURPOSE:
  Partitions a chronological entry sequence into consumption periods. A
  period is a maximal run of entries closed by a FULL replenishment; the
  trailing run without one stays open. A closed period has one rate:

      rate = (all resource added in the period) / (total distance) * 100

  Every addition in the period counts toward the numerator, including
  partial top-ups before the closing full refill.

  Entries in the open period cannot have a measured rate yet, so they
  borrow the caller-supplied estimate (the vehicle's rated consumption)
  and are reported in the Estimated set.

EDGE CASE:
  A full refill with zero accumulated distance still closes its period,
  but the division is skipped: those entries keep the estimate and stay
  in the Estimated set. This is a data-quality anomaly (a fill-up with no
  preceding travel), reported softly rather than rejected.

SEE ALSO:
  - remaining.go: Consumes the rates this file produces
*/
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateTable maps every entry to its period rate. All input IDs are present
// as keys; Estimated marks the ones carrying the estimate instead of a
// measured rate.
type RateTable struct {
	Rates     map[uuid.UUID]decimal.Decimal
	Estimated map[uuid.UUID]bool
}

// AggregatePeriods walks entries chronologically and assigns each one the
// rate of the period it belongs to. estimate is the fallback rate for the
// open period and for zero-distance closes.
func AggregatePeriods(entries []Entry, estimate decimal.Decimal) RateTable {
	table := RateTable{
		Rates:     make(map[uuid.UUID]decimal.Decimal, len(entries)),
		Estimated: make(map[uuid.UUID]bool),
	}

	var (
		ids      []uuid.UUID
		distance = decimal.Zero
		added    = decimal.Zero
	)

	close := func(rate decimal.Decimal, estimated bool) {
		for _, id := range ids {
			table.Rates[id] = rate
			if estimated {
				table.Estimated[id] = true
			}
		}
		ids = nil
		distance = decimal.Zero
		added = decimal.Zero
	}

	for _, e := range entries {
		ids = append(ids, e.ID)
		distance = distance.Add(e.Distance)

		if !e.Added.IsPositive() {
			continue
		}
		added = added.Add(e.Added)

		if !e.Full {
			continue // partial top-up, period stays open
		}
		if distance.IsPositive() {
			close(Rate(added, distance), false)
		} else {
			// Full refill with no travel: close without a defined rate.
			close(estimate, true)
		}
	}

	// Trailing open period borrows the estimate.
	close(estimate, true)

	return table
}
