package grid

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether a and b share at least one instant. Intervals that
// merely touch (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) DurationMinutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

func (i Interval) Validate() error {
	if !i.Start.Before(i.End) {
		return &DataError{Err: ErrInvalidInterval}
	}
	return nil
}

// In returns i with both bounds expressed in loc.
func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// Clamp returns the part of i that falls inside bound. The second result is
// false when they do not overlap.
func Clamp(i, bound Interval) (Interval, bool) {
	if !Overlaps(i, bound) {
		return Interval{}, false
	}
	out := i
	if out.Start.Before(bound.Start) {
		out.Start = bound.Start
	}
	if out.End.After(bound.End) {
		out.End = bound.End
	}
	return out, true
}

// dayBounds returns [00:00, next 00:00) of the calendar day containing t in loc.
func dayBounds(t time.Time, loc *time.Location) Interval {
	start := truncateToDate(t, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// truncateToDate returns midnight of t's calendar day in loc.
func truncateToDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// wallHour returns the hour t reads on a wall clock in date's location, if
// t falls on date's calendar day.
func wallHour(date, t time.Time) (int, bool) {
	t = t.In(date.Location())
	if t.Year() != date.Year() || t.YearDay() != date.YearDay() {
		return 0, false
	}
	return t.Hour(), true
}

// hourSlot returns [hh:00, hh+1:00) on the given date. The slot is empty for
// an hour skipped by a DST jump and two hours long for a repeated one.
func hourSlot(date time.Time, hour int) Interval {
	loc := date.Location()
	return Interval{
		Start: time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc),
		End:   time.Date(date.Year(), date.Month(), date.Day(), hour+1, 0, 0, 0, loc),
	}
}
