package grid

import "time"

// HoursPerDay is the number of hour slots in every grid day.
const HoursPerDay = 24

// Session is a confirmed booking with a client.
type Session struct {
	ID              string
	ScheduledAt     time.Time
	DurationMinutes int
	ClientName      string
	IsOnline        bool
	Status          string
}

func (s Session) Interval() Interval {
	return Interval{
		Start: s.ScheduledAt,
		End:   s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute),
	}
}

func (s Session) Validate() error {
	if s.DurationMinutes <= 0 {
		return &DataError{Kind: RecordSession, ID: s.ID, Err: ErrNonPositiveDuration}
	}
	return nil
}

// Event is a busy block imported from an external calendar. Source is a
// display label only.
type Event struct {
	ID       string
	Start    time.Time
	End      time.Time
	IsAllDay bool
	Title    string
	Source   string
}

func (e Event) Interval() Interval {
	return Interval{Start: e.Start, End: e.End}
}

func (e Event) Validate() error {
	if err := e.Interval().Validate(); err != nil {
		return &DataError{Kind: RecordEvent, ID: e.ID, Err: ErrInvalidInterval}
	}
	return nil
}

type OccupantKind int

const (
	SessionStart OccupantKind = iota + 1
	SessionContinuation
	EventStart
	EventContinuation
)

func (k OccupantKind) String() string {
	switch k {
	case SessionStart:
		return "session_start"
	case SessionContinuation:
		return "session_continuation"
	case EventStart:
		return "event_start"
	case EventContinuation:
		return "event_continuation"
	default:
		return "empty"
	}
}

func (k OccupantKind) IsContinuation() bool {
	return k == SessionContinuation || k == EventContinuation
}

// Occupant is what fills a slot. Exactly one of Session and Event is set.
// Segment is the part of the item drawn from this slot; it is only
// meaningful for start kinds.
type Occupant struct {
	Kind    OccupantKind
	Session *Session
	Event   *Event
	Segment Interval
}

type ClassifiedSlot struct {
	Date               time.Time
	Hour               int
	WithinAvailability bool
	Occupant           *Occupant
}

func (s ClassifiedSlot) Empty() bool {
	return s.Occupant == nil
}

// Bookable reports whether a new session may be offered in this slot.
func (s ClassifiedSlot) Bookable() bool {
	return s.Occupant == nil && s.WithinAvailability
}

// Interactive is false for continuation placeholders; a click there does
// nothing because the spanning block above owns the interaction.
func (s ClassifiedSlot) Interactive() bool {
	return s.Occupant == nil || !s.Occupant.Kind.IsContinuation()
}
