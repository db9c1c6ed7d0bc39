package grid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a wall-clock time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "15:04" and "15:04:05" (seconds are ignored), plus the
// end-of-day form "24:00" that postgres TIME columns may hold.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" || s == "24:00:00" {
		return Clock{Hour: HoursPerDay}, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return Clock{}, fmt.Errorf("invalid clock %q", s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is one row of the coach's recurring weekly template.
type Window struct {
	DayOfWeek time.Weekday
	Start     Clock
	End       Clock
	Active    bool
}

// Availability is the open hour range [StartHour, EndHour) of one date.
type Availability struct {
	Open      bool
	StartHour int
	EndHour   int
}

// Covers reports whether the hour slot lies inside the open window.
func (a Availability) Covers(hour int) bool {
	return a.Open && hour >= a.StartHour && hour < a.EndHour
}

// Resolve picks the window configured for date's weekday. Inactive rows and
// missing rows both mean closed. If the store holds more than one active row
// for the same day the first one in input order wins.
func Resolve(date time.Time, windows []Window) Availability {
	wd := date.Weekday()
	for _, w := range windows {
		if !w.Active || w.DayOfWeek != wd {
			continue
		}
		endHour := min(w.End.Hour, HoursPerDay)
		// 00:00 as an end means the window runs until midnight
		if endHour == 0 && w.End.Minute == 0 && (w.Start.Hour > 0 || w.Start.Minute > 0) {
			endHour = HoursPerDay
		}
		return Availability{Open: true, StartHour: w.Start.Hour, EndHour: endHour}
	}
	return Availability{}
}

// ParseWeekday supports the forms commonly found in stored templates:
// "mon", "monday", "Mon", "1", "0" (0 = Sunday, 7 = Sunday as well).
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n >= 0 && n <= 6:
			return time.Weekday(n), true
		case n == 7:
			return time.Sunday, true
		default:
			return 0, false
		}
	}

	switch s {
	case "sun", "sunday":
		return time.Sunday, true
	case "mon", "monday":
		return time.Monday, true
	case "tue", "tues", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday":
		return time.Wednesday, true
	case "thu", "thur", "thursday":
		return time.Thursday, true
	case "fri", "friday":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	default:
		return 0, false
	}
}
