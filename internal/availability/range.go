package availability

import (
	"fmt"
	"time"
)

// Range is an inclusive span of whole calendar days. A single-day range has
// Start equal to End.
type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if !r.Valid() {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(r.Start), FormatDate(r.End))
	}
	return r, nil
}

func ParseRange(startText, endText string) (Range, error) {
	start, err := ParseDate(startText)
	if err != nil {
		return Range{}, err
	}
	end, err := ParseDate(endText)
	if err != nil {
		return Range{}, err
	}
	return NewRange(start, end)
}

func (r Range) Valid() bool {
	return !r.Start.After(r.End)
}

func (r Range) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days is the number of calendar days covered, both bounds included.
func (r Range) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r Range) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}

// Period is the stored form of an existing booking's dates. Its text is not
// trusted: unparseable or inverted periods are skipped by every operation.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (p Period) Range() (Range, error) {
	return ParseRange(p.StartDate, p.EndDate)
}
