/*
order.go - The two total orderings over a trip set

PURPOSE:
  All simulation runs over the CHRONOLOGICAL order: date ascending, then
  odometer ascending. The tiebreak is the odometer, not insertion time, so
  imported or backfilled same-day trips still order correctly.

  The DISPLAY order is an explicit user-controlled rank (SortOrder,
  0 = newest at the top). It is never used for simulation; its only
  computational role is detecting rows whose manual position conflicts
  with chronology, which are surfaced as date warnings.

SEE ALSO:
  - ledger package: consumes the chronological order
  - engine package: reports the date-warning set in the result bundle
*/
package trip

import (
	"sort"

	"github.com/google/uuid"
)

// Chronological returns a sorted copy: date ascending, odometer tiebreak.
// The input slice is never mutated.
func Chronological(trips []Trip) []Trip {
	out := make([]Trip, len(trips))
	copy(out, trips)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Date, out[j].Date
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Odometer.LessThan(out[j].Odometer)
	})
	return out
}

// ByDisplayOrder returns a sorted copy by the user-controlled rank,
// 0 (newest) first. The input slice is never mutated.
func ByDisplayOrder(trips []Trip) []Trip {
	out := make([]Trip, len(trips))
	copy(out, trips)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// DateWarnings flags trips whose display position conflicts with their
// chronological position. In display order dates must be non-increasing
// (row 0 is the newest); a trip dated after its upper neighbor or before
// its lower neighbor is flagged. Warnings are advisory - legacy data is
// expected to contain them and the caller must still render every row.
func DateWarnings(trips []Trip) map[uuid.UUID]bool {
	byDisplay := ByDisplayOrder(trips)
	warnings := make(map[uuid.UUID]bool)

	for i, t := range byDisplay {
		if i > 0 {
			prev := byDisplay[i-1] // newer row
			if t.Date.After(prev.Date) {
				warnings[t.ID] = true
			}
		}
		if i < len(byDisplay)-1 {
			next := byDisplay[i+1] // older row
			if t.Date.Before(next.Date) {
				warnings[t.ID] = true
			}
		}
	}
	return warnings
}
