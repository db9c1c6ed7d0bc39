package grid

import "time"

// dayClassifier classifies the hour slots of one calendar day. Session
// occupancy is resolved for the whole day up front because event starts
// and event segments depend on where sessions sit.
type dayClassifier struct {
	date     time.Time
	day      Interval
	sessions []Session
	events   []Event
	avail    Availability
	occupied [HoursPerDay]*Occupant
}

func newDayClassifier(date time.Time, sessions []Session, events []Event, avail Availability) *dayClassifier {
	day := dayBounds(date, date.Location())
	c := &dayClassifier{
		date:     day.Start,
		day:      day,
		sessions: sessions,
		events:   events,
		avail:    avail,
	}

	for h := 0; h < HoursPerDay; h++ {
		c.occupied[h] = c.sessionOccupant(h)
	}

	return c
}

// ClassifySlot classifies a single (date, hour) pair. All-day events and
// malformed records are ignored; use Builder to get them reported.
func ClassifySlot(date time.Time, hour int, sessions []Session, events []Event, avail Availability) ClassifiedSlot {
	return newDayClassifier(date, validSessions(sessions), timedEvents(events), avail).classify(hour)
}

func (c *dayClassifier) classify(hour int) ClassifiedSlot {
	bounds := hourSlot(c.date, hour)
	slot := ClassifiedSlot{
		Date: c.date,
		Hour: hour,
		// an hour skipped by a DST jump never opens
		WithinAvailability: c.avail.Covers(hour) && bounds.Start.Before(bounds.End),
	}

	if occ := c.occupied[hour]; occ != nil {
		slot.Occupant = occ
		return slot
	}

	slot.Occupant = c.eventOccupant(hour)
	return slot
}

func (c *dayClassifier) sessionOccupant(hour int) *Occupant {
	slot := hourSlot(c.date, hour)

	// starts follow the wall clock so a session in a repeated DST hour
	// still lands on the row its start time reads
	for i := range c.sessions {
		s := &c.sessions[i]
		if h, ok := wallHour(c.date, s.ScheduledAt); ok && h == hour {
			return &Occupant{Kind: SessionStart, Session: s, Segment: s.Interval().In(c.date.Location())}
		}
	}

	for i := range c.sessions {
		s := &c.sessions[i]
		iv := s.Interval()
		if iv.Start.Before(slot.Start) && iv.End.After(slot.Start) {
			return &Occupant{Kind: SessionContinuation, Session: s}
		}
	}

	return nil
}

func (c *dayClassifier) eventOccupant(hour int) *Occupant {
	slot := hourSlot(c.date, hour)

	// the previous slot either does not belong to the event, belongs to another
	// day, or was taken by a session: in all three cases the event (re)starts here
	var prev Interval
	resumes := hour == 0
	if !resumes {
		prev = hourSlot(c.date, hour-1)
		resumes = c.occupied[hour-1] != nil
	}

	for i := range c.events {
		e := &c.events[i]
		iv := e.Interval()
		if !Overlaps(iv, slot) {
			continue
		}
		if resumes || !Overlaps(iv, prev) {
			return &Occupant{Kind: EventStart, Event: e, Segment: c.segment(iv, hour)}
		}
	}

	for i := range c.events {
		e := &c.events[i]
		iv := e.Interval()
		if iv.Start.Before(slot.Start) && iv.End.After(slot.Start) {
			return &Occupant{Kind: EventContinuation, Event: e}
		}
	}

	return nil
}

// segment is the visible part of an event starting at hour: it stops at the
// end of the day or at the next slot a session occupies.
func (c *dayClassifier) segment(iv Interval, hour int) Interval {
	slot := hourSlot(c.date, hour)
	seg, _ := Clamp(iv, Interval{Start: slot.Start, End: c.day.End})

	for h := hour + 1; h < HoursPerDay; h++ {
		next := hourSlot(c.date, h)
		if !next.Start.Before(seg.End) {
			break
		}
		if c.occupied[h] != nil {
			seg.End = next.Start
			break
		}
	}

	return seg.In(c.date.Location())
}

func validSessions(in []Session) []Session {
	out := make([]Session, 0, len(in))
	for _, s := range in {
		if s.Validate() == nil {
			out = append(out, s)
		}
	}
	return out
}

func timedEvents(in []Event) []Event {
	out := make([]Event, 0, len(in))
	for _, e := range in {
		if !e.IsAllDay && e.Validate() == nil {
			out = append(out, e)
		}
	}
	return out
}
