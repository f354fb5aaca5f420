package domain

import "sort"

// DateCheck is the outcome of a single-date availability query. Conflict is
// set only when the date is occupied, and carries the first matching
// reservation in normalized order.
type DateCheck struct {
	Available bool
	Conflict  *Reservation
}

// RangeCheck is the outcome of a range availability query. Conflicts holds
// every reservation intersecting the window, in normalized order. FreePeriods
// holds the maximal free sub-ranges; when there are no conflicts it is the
// full requested window.
type RangeCheck struct {
	Available   bool
	Conflicts   []Reservation
	FreePeriods []Period
}

// Normalize drops reservations with start_date > end_date and sorts the rest
// by start_date, then end_date, then id. Overlapping reservations are kept
// separate so each can be reported as an individual conflict.
func Normalize(reservations []Reservation) []Reservation {
	out := make([]Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.StartDate.After(r.EndDate) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].StartDate.Compare(out[j].StartDate); c != 0 {
			return c < 0
		}
		if c := out[i].EndDate.Compare(out[j].EndDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// CheckDate reports whether day is free given a normalized reservation list.
func CheckDate(reservations []Reservation, day Date) DateCheck {
	for i, r := range reservations {
		if r.StartDate.After(day) {
			break
		}
		if !r.EndDate.Before(day) {
			return DateCheck{Conflict: &reservations[i]}
		}
	}
	return DateCheck{Available: true}
}

// CheckRange reports availability over the closed window given a normalized
// reservation list.
func CheckRange(reservations []Reservation, window Period) RangeCheck {
	var conflicts []Reservation
	for _, r := range reservations {
		if r.StartDate.After(window.End) {
			break
		}
		if !r.EndDate.Before(window.Start) {
			conflicts = append(conflicts, r)
		}
	}

	if len(conflicts) == 0 {
		return RangeCheck{Available: true, FreePeriods: []Period{window}}
	}

	occupied := mergeOccupied(conflicts, window)

	return RangeCheck{
		Conflicts:   conflicts,
		FreePeriods: freePeriods(occupied, window),
	}
}

// mergeOccupied clips each conflicting reservation to the window and merges
// overlapping or touching spans into disjoint occupied regions. Touching
// means the next span starts no later than the day after the current span
// ends, so merged regions are always separated by at least one free day.
func mergeOccupied(conflicts []Reservation, window Period) []Period {
	merged := make([]Period, 0, len(conflicts))
	for _, r := range conflicts {
		span := Period{Start: r.StartDate, End: r.EndDate}
		if span.Start.Before(window.Start) {
			span.Start = window.Start
		}
		if span.End.After(window.End) {
			span.End = window.End
		}

		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if !span.Start.After(last.End.AddDays(1)) {
				if span.End.After(last.End) {
					last.End = span.End
				}
				continue
			}
		}
		merged = append(merged, span)
	}
	return merged
}

// freePeriods walks the merged occupied spans and emits the gaps. A free
// period shares its boundary day with the adjacent reservation: it ends on
// the day the blocking reservation starts, and the next one begins on the day
// that reservation ends.
func freePeriods(occupied []Period, window Period) []Period {
	var out []Period

	if occupied[0].Start.After(window.Start) {
		out = append(out, Period{Start: window.Start, End: occupied[0].Start})
	}
	for i := 1; i < len(occupied); i++ {
		out = append(out, Period{Start: occupied[i-1].End, End: occupied[i].Start})
	}
	if last := occupied[len(occupied)-1]; last.End.Before(window.End) {
		out = append(out, Period{Start: last.End, End: window.End})
	}

	return out
}
