package grid

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekInput() Input {
	return Input{
		Start:   at(19, 0, 0),
		End:     at(26, 0, 0),
		Windows: weekdayWindows,
		Sessions: []Session{
			{ID: "s1", ScheduledAt: at(19, 10, 0), DurationMinutes: 90, ClientName: "Anna"},
			{ID: "s2", ScheduledAt: at(21, 9, 0), DurationMinutes: 60, ClientName: "Boris", IsOnline: true},
			{ID: "s3", ScheduledAt: at(22, 15, 20), DurationMinutes: 200, ClientName: "Vera"},
		},
		Events: []Event{
			{ID: "e1", Start: at(20, 14, 0), End: at(20, 16, 30), Title: "Dentist", Source: "google"},
			{ID: "e2", Start: at(21, 9, 0), End: at(21, 11, 0), Title: "Gym", Source: "outlook"},
			{ID: "e3", Start: at(22, 14, 0), End: at(22, 17, 0), Title: "School run", Source: "google"},
			{ID: "a1", Start: at(23, 0, 0), End: at(24, 0, 0), IsAllDay: true, Title: "Holiday"},
			{ID: "a2", Start: at(19, 0, 0), End: at(22, 0, 0), IsAllDay: true, Title: "Conference"},
		},
	}
}

func TestBuild_Shape(t *testing.T) {
	week := NewBuilder(nil).Build(weekInput())

	require.Len(t, week.Days, 7)
	for i, day := range week.Days {
		assert.Equal(t, at(19+i, 0, 0), day.Date)
		require.Len(t, day.Slots, HoursPerDay)
		for h, slot := range day.Slots {
			assert.Equal(t, h, slot.Hour)
			assert.Equal(t, day.Date, slot.Date)
		}
	}
	assert.Empty(t, week.Rejected)
}

func TestBuild_TypicalWeek(t *testing.T) {
	week := NewBuilder(nil).Build(weekInput())
	mon, tue, wed := week.Days[0], week.Days[1], week.Days[2]

	// availability Mon 09:00-18:00 and a 90 minute session at 10:00
	assert.True(t, mon.Slots[9].Bookable())
	assert.Equal(t, SessionStart, kindOf(mon.Slots[10]))
	assert.Equal(t, SessionContinuation, kindOf(mon.Slots[11]))
	assert.True(t, mon.Slots[12].Bookable())
	assert.False(t, mon.Slots[18].Bookable())

	// event Tue 14:00-16:30
	assert.Equal(t, EventStart, kindOf(tue.Slots[14]))
	assert.Equal(t, EventContinuation, kindOf(tue.Slots[15]))
	assert.Equal(t, EventContinuation, kindOf(tue.Slots[16]))
	assert.True(t, tue.Slots[17].Empty())

	// session and event both at Wed 09:00
	assert.Equal(t, SessionStart, kindOf(wed.Slots[9]))
	assert.Equal(t, EventStart, kindOf(wed.Slots[10]))
	assert.True(t, wed.Slots[11].Empty())
}

func TestBuild_SessionPriority(t *testing.T) {
	in := weekInput()
	week := NewBuilder(nil).Build(in)

	var sessions, events []Interval
	for _, s := range in.Sessions {
		sessions = append(sessions, s.Interval())
	}
	for _, e := range in.Events {
		if !e.IsAllDay {
			events = append(events, e.Interval())
		}
	}

	for _, day := range week.Days {
		for _, slot := range day.Slots {
			iv := hourSlot(day.Date, slot.Hour)
			if !overlapsAny(iv, sessions) || !overlapsAny(iv, events) {
				continue
			}
			require.NotNil(t, slot.Occupant, "%s %d", DateKey(day.Date), slot.Hour)
			assert.NotNil(t, slot.Occupant.Session, "%s %d", DateKey(day.Date), slot.Hour)
			assert.Nil(t, slot.Occupant.Event, "%s %d", DateKey(day.Date), slot.Hour)
		}
	}
}

func TestBuild_SingleStartAndContinuationCoverage(t *testing.T) {
	in := weekInput()
	week := NewBuilder(nil).Build(in)

	for _, s := range in.Sessions {
		starts := 0
		for _, day := range week.Days {
			for _, slot := range day.Slots {
				occ := slot.Occupant
				if occ == nil || occ.Session == nil || occ.Session.ID != s.ID {
					continue
				}
				iv := hourSlot(day.Date, slot.Hour)
				switch occ.Kind {
				case SessionStart:
					starts++
					assert.True(t, iv.Contains(s.ScheduledAt), s.ID)
				case SessionContinuation:
					assert.True(t, iv.Start.After(s.ScheduledAt), s.ID)
					assert.True(t, iv.Start.Before(s.Interval().End), s.ID)
				}
			}
		}
		assert.Equal(t, 1, starts, s.ID)
	}

	// s3 runs 15:20 to 18:40 on Thursday
	thu := week.Days[3]
	assert.Equal(t, SessionStart, kindOf(thu.Slots[15]))
	assert.Equal(t, SessionContinuation, kindOf(thu.Slots[16]))
	assert.Equal(t, SessionContinuation, kindOf(thu.Slots[17]))
	assert.Equal(t, SessionContinuation, kindOf(thu.Slots[18]))
	assert.True(t, thu.Slots[19].Empty())

	// e3 on Thursday starts at 14:00 and is cut by s3 at 15:00
	require.Equal(t, EventStart, kindOf(thu.Slots[14]))
	assert.Equal(t, Interval{Start: at(22, 14, 0), End: at(22, 15, 0)}, thu.Slots[14].Occupant.Segment)
}

func TestBuild_Idempotent(t *testing.T) {
	in := weekInput()
	b := NewBuilder(nil)

	first := b.Build(in)
	second := b.Build(in)

	assert.Equal(t, first, second)
	assert.Equal(t, weekInput(), in)
}

func TestBuild_AllDaySeparation(t *testing.T) {
	week := NewBuilder(nil).Build(weekInput())

	for _, day := range week.Days {
		for _, slot := range day.Slots {
			if slot.Occupant != nil && slot.Occupant.Event != nil {
				assert.False(t, slot.Occupant.Event.IsAllDay)
			}
		}
	}

	ids := func(key string) []string {
		var out []string
		for _, e := range week.AllDay[key] {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a2"}, ids("2026-10-19"))
	assert.Equal(t, []string{"a2"}, ids("2026-10-20"))
	assert.Equal(t, []string{"a2"}, ids("2026-10-21"))
	assert.Equal(t, []string{"a1"}, ids("2026-10-23"))
	assert.Empty(t, ids("2026-10-22"))
	assert.Empty(t, ids("2026-10-24"))

	// Fri 2026-10-23 00:00 to Sat 00:00: hourly grid untouched
	for _, slot := range week.Days[4].Slots {
		assert.True(t, slot.Empty())
	}
}

func TestBuild_EmptyRange(t *testing.T) {
	b := NewBuilder(nil)

	for _, in := range []Input{
		{Start: at(19, 0, 0), End: at(19, 0, 0)},
		{Start: at(26, 0, 0), End: at(19, 0, 0), Sessions: weekInput().Sessions, Events: weekInput().Events},
	} {
		week := b.Build(in)
		require.NotNil(t, week)
		assert.Empty(t, week.Days)
		assert.Empty(t, week.AllDay)
		assert.Empty(t, week.Rejected)
	}
}

func TestBuild_PartialDayRange(t *testing.T) {
	week := NewBuilder(nil).Build(Input{Start: at(19, 12, 0), End: at(20, 6, 0)})

	require.Len(t, week.Days, 2)
	assert.Equal(t, at(19, 0, 0), week.Days[0].Date)
	assert.Equal(t, at(20, 0, 0), week.Days[1].Date)
}

func TestBuild_RejectsMalformedRecords(t *testing.T) {
	in := weekInput()
	in.Sessions = append(in.Sessions, Session{ID: "bad-session", ScheduledAt: at(19, 13, 0), DurationMinutes: 0})
	in.Events = append(in.Events,
		Event{ID: "bad-event", Start: at(19, 15, 0), End: at(19, 14, 0)},
		Event{ID: "bad-allday", Start: at(20, 0, 0), End: at(20, 0, 0), IsAllDay: true},
	)

	week := NewBuilder(nil).Build(in)

	require.Len(t, week.Rejected, 3)
	assert.Equal(t, RecordSession, week.Rejected[0].Kind)
	assert.Equal(t, "bad-session", week.Rejected[0].ID)
	assert.True(t, errors.Is(week.Rejected[0], ErrNonPositiveDuration))
	assert.Equal(t, "bad-event", week.Rejected[1].ID)
	assert.True(t, errors.Is(week.Rejected[1], ErrInvalidInterval))
	assert.Equal(t, RecordEvent, week.Rejected[2].Kind)

	mon := week.Days[0]
	assert.True(t, mon.Slots[13].Empty())
	assert.True(t, mon.Slots[14].Empty())
	assert.Equal(t, SessionStart, kindOf(mon.Slots[10]))
}

func TestBuild_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)

	week := NewBuilder(nil).Build(Input{
		Start: start,
		End:   start.AddDate(0, 0, 1),
		// 07:00 UTC is 10:00 local
		Sessions: []Session{{ID: "s1", ScheduledAt: at(19, 7, 0), DurationMinutes: 30}},
	})

	require.Len(t, week.Days, 1)
	assert.Equal(t, SessionStart, kindOf(week.Days[0].Slots[10]))
	assert.True(t, week.Days[0].Slots[7].Empty())
}

func TestBuild_LocationDST(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	t.Run("clocks go back", func(t *testing.T) {
		start := time.Date(2024, 10, 27, 0, 0, 0, 0, london)

		week := NewBuilder(nil).Build(Input{
			Start: start,
			End:   start.AddDate(0, 0, 1),
			// 00:30 UTC is the first 01:30 of the day, still BST
			Sessions: []Session{{ID: "s1", ScheduledAt: time.Date(2024, 10, 27, 0, 30, 0, 0, time.UTC), DurationMinutes: 30}},
		})

		require.Len(t, week.Days, 1)
		slots := week.Days[0].Slots
		require.Len(t, slots, HoursPerDay)
		assert.True(t, slots[0].Empty())
		assert.Equal(t, SessionStart, kindOf(slots[1]))
		assert.True(t, slots[2].Empty())

		geo, ok := Span(slots[1].Occupant, DefaultUnitsPerHour)
		require.True(t, ok)
		assert.Equal(t, Geometry{Offset: 30, Extent: 30}, geo)
	})

	t.Run("clocks go forward", func(t *testing.T) {
		start := time.Date(2024, 3, 31, 0, 0, 0, 0, london)

		week := NewBuilder(nil).Build(Input{
			Start: start,
			End:   start.AddDate(0, 0, 1),
			Windows: []Window{
				{DayOfWeek: time.Sunday, Start: Clock{}, End: Clock{Hour: 6}, Active: true},
			},
			// 01:30 UTC is 02:30 BST
			Sessions: []Session{{ID: "s1", ScheduledAt: time.Date(2024, 3, 31, 1, 30, 0, 0, time.UTC), DurationMinutes: 30}},
		})

		require.Len(t, week.Days, 1)
		slots := week.Days[0].Slots
		require.Len(t, slots, HoursPerDay)
		assert.True(t, slots[0].Bookable())
		// 01:00 to 02:00 does not exist that day
		assert.False(t, slots[1].WithinAvailability)
		assert.False(t, slots[1].Bookable())
		assert.True(t, slots[1].Empty())
		assert.Equal(t, SessionStart, kindOf(slots[2]))
		assert.True(t, slots[3].Bookable())
	})
}

func overlapsAny(iv Interval, in []Interval) bool {
	for _, other := range in {
		if Overlaps(iv, other) {
			return true
		}
	}
	return false
}
