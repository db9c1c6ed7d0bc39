package grid

import (
	"coach-calendar/pkg/sl"
	"errors"
	"io"
	"log/slog"
	"time"
)

const dateKeyLayout = "2006-01-02"

// Input is everything Build needs for one coach and range.
type Input struct {
	Start    time.Time
	End      time.Time
	Windows  []Window
	Sessions []Session
	Events   []Event
}

// Day holds the resolved availability and the classified slots of one date.
type Day struct {
	Date         time.Time
	Availability Availability
	Slots        []ClassifiedSlot
}

// Week is the classified grid for [Start, End). AllDay is keyed by DateKey
// and is never mixed into Slots.
type Week struct {
	Start    time.Time
	End      time.Time
	Days     []Day
	AllDay   map[string][]Event
	Rejected []*DataError
}

// DateKey formats a date as YYYY-MM-DD for the AllDay map.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// Builder turns an Input into a Week, logging records it has to drop.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a Builder; a nil log discards output.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{log: log}
}

// Build classifies every hour slot of every day in [in.Start, in.End).
// Days are cut in in.Start's location. An empty or inverted range is a
// normal transient state and produces an empty week.
func (b *Builder) Build(in Input) *Week {
	const op = "grid.Builder.Build"

	log := b.log.With(slog.String("op", op))

	week := &Week{
		Start:  in.Start,
		End:    in.End,
		Days:   []Day{},
		AllDay: map[string][]Event{},
	}

	if !in.Start.Before(in.End) {
		log.Debug("Empty range, nothing to build",
			slog.Time("start", in.Start),
			slog.Time("end", in.End),
		)
		return week
	}

	sessions := make([]Session, 0, len(in.Sessions))
	for _, s := range in.Sessions {
		if err := s.Validate(); err != nil {
			week.reject(log, err)
			continue
		}
		sessions = append(sessions, s)
	}

	var timed, allDay []Event
	for _, e := range in.Events {
		if err := e.Validate(); err != nil {
			week.reject(log, err)
			continue
		}
		if e.IsAllDay {
			allDay = append(allDay, e)
		} else {
			timed = append(timed, e)
		}
	}

	loc := in.Start.Location()
	for d := truncateToDate(in.Start, loc); d.Before(in.End); d = d.AddDate(0, 0, 1) {
		bounds := dayBounds(d, loc)

		c := newDayClassifier(d, sessionsWithin(sessions, bounds), eventsWithin(timed, bounds), Resolve(d, in.Windows))

		day := Day{
			Date:         d,
			Availability: c.avail,
			Slots:        make([]ClassifiedSlot, HoursPerDay),
		}
		for h := 0; h < HoursPerDay; h++ {
			day.Slots[h] = c.classify(h)
		}
		week.Days = append(week.Days, day)

		for _, e := range allDay {
			if Overlaps(e.Interval(), bounds) {
				key := DateKey(d)
				week.AllDay[key] = append(week.AllDay[key], e)
			}
		}
	}

	return week
}

func (w *Week) reject(log *slog.Logger, err error) {
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		dataErr = &DataError{Err: err}
	}
	log.Warn("Record dropped",
		slog.String("kind", string(dataErr.Kind)),
		slog.String("id", dataErr.ID),
		sl.Err(dataErr.Err),
	)
	w.Rejected = append(w.Rejected, dataErr)
}

func sessionsWithin(in []Session, bounds Interval) []Session {
	var out []Session
	for _, s := range in {
		if Overlaps(s.Interval(), bounds) {
			out = append(out, s)
		}
	}
	return out
}

func eventsWithin(in []Event, bounds Interval) []Event {
	var out []Event
	for _, e := range in {
		if Overlaps(e.Interval(), bounds) {
			out = append(out, e)
		}
	}
	return out
}
