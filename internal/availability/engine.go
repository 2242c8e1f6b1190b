// Package availability decides whether a requested rental date range may be
// booked and computes the set of calendar days a tool is unavailable.
//
// Every function is pure. Callers fetch existing bookings from the store,
// pass their dates as Periods and act on the result; nothing here performs
// I/O or holds state.
package availability

import (
	"sort"
	"time"
)

type Decision string

const (
	Accepted     Decision = "accepted"
	Rejected     Decision = "rejected"
	InvalidRange Decision = "invalid_range"
)

type Admission struct {
	Decision Decision `json:"decision"`
	Conflict *Period  `json:"conflict,omitempty"`
}

func (a Admission) Accepted() bool {
	return a.Decision == Accepted
}

// Overlaps reports whether two inclusive day ranges share at least one day.
func Overlaps(a, b Range) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

func IsOverlapping(candidate Range, existing []Period) bool {
	_, found := firstConflict(candidate, existing)
	return found
}

// Admit is the admission check run before a booking is persisted. It is
// advisory: the answer only holds for the snapshot of existing bookings it
// was given.
func Admit(candidate Range, existing []Period) Admission {
	if !candidate.Valid() {
		return Admission{Decision: InvalidRange}
	}
	if p, found := firstConflict(candidate, existing); found {
		return Admission{Decision: Rejected, Conflict: &p}
	}
	return Admission{Decision: Accepted}
}

func firstConflict(candidate Range, existing []Period) (Period, bool) {
	for _, p := range existing {
		r, err := p.Range()
		if err != nil {
			continue
		}
		if Overlaps(candidate, r) {
			return p, true
		}
	}
	return Period{}, false
}

// ExpandToBlockedDates returns every day covered by any well-formed period,
// deduplicated and sorted ascending.
func ExpandToBlockedDates(existing []Period) []time.Time {
	return expand(existing, nil)
}

// ExpandWithin is ExpandToBlockedDates restricted to the days of window.
func ExpandWithin(existing []Period, window Range) []time.Time {
	if !window.Valid() {
		return []time.Time{}
	}
	return expand(existing, &window)
}

func expand(existing []Period, window *Range) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, p := range existing {
		r, err := p.Range()
		if err != nil {
			continue
		}
		if window != nil {
			if !Overlaps(r, *window) {
				continue
			}
			r = clip(r, *window)
		}
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			seen[d] = struct{}{}
		}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func clip(r, window Range) Range {
	if r.Start.Before(window.Start) {
		r.Start = window.Start
	}
	if r.End.After(window.End) {
		r.End = window.End
	}
	return r
}
