package service

import (
	"coach-calendar/api"
	"coach-calendar/internal/cache"
	"coach-calendar/internal/grid"
	"coach-calendar/internal/metrics"
	"coach-calendar/internal/models"
	"coach-calendar/pkg/sl"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// WeekView returns the classified grid for [start, end). An empty or inverted
// range is answered with an empty week rather than an error.
func (s *Service) WeekView(ctx context.Context, coachID string, start, end time.Time) (*api.WeekViewResponse, error) {
	const op = "service.WeekView"

	log := s.log.With(
		slog.String("op", op),
		slog.String("coach_id", coachID),
	)

	start = start.In(s.opts.Location)
	end = end.In(s.opts.Location)

	if !start.Before(end) {
		return s.weekView(coachID, s.builder.Build(grid.Input{Start: start, End: end})), nil
	}

	key := ""
	if s.cache != nil {
		k, err := s.cache.Key(ctx, coachID, start, end)
		if err != nil {
			s.logCacheError(op, err)
		} else {
			key = k
		}
	}

	if key != "" {
		view, err := s.cachedWeek(ctx, key)
		switch {
		case err == nil:
			metrics.IncCacheHit()
			log.Debug("Week view served from cache")
			return view, nil
		case errors.Is(err, cache.ErrMiss):
			metrics.IncCacheMiss()
		default:
			s.logCacheError(op, err)
		}
	}

	began := time.Now()

	snapshot, err := s.store.LoadWeek(ctx, coachID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	week := s.builder.Build(s.gridInput(log, snapshot, start, end))
	for _, rejected := range week.Rejected {
		metrics.IncRejected(string(rejected.Kind))
	}

	view := s.weekView(coachID, week)
	metrics.ObserveWeekBuild(time.Since(began).Seconds())

	log.Info("Week view built",
		slog.Int("sessions", len(snapshot.Sessions)),
		slog.Int("events", len(snapshot.Events)),
		slog.Int("rejected", len(week.Rejected)),
	)

	if key != "" {
		s.storeWeek(ctx, log, key, view)
	}

	return view, nil
}

func (s *Service) cachedWeek(ctx context.Context, key string) (*api.WeekViewResponse, error) {
	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var view api.WeekViewResponse
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, fmt.Errorf("decode cached week: %w", err)
	}

	return &view, nil
}

// storeWeek writes the view only when this request holds the rebuild lock;
// concurrent rebuilds of the same key still answer but skip the write.
func (s *Service) storeWeek(ctx context.Context, log *slog.Logger, key string, view *api.WeekViewResponse) {
	if s.locker != nil {
		locked, err := s.locker.Lock(ctx, key, s.opts.RebuildLockTTL)
		if err != nil {
			log.Warn("Failed to take rebuild lock", sl.Err(err))
			return
		}
		if !locked {
			log.Debug("Rebuild lock held elsewhere, skipping cache write")
			return
		}
		defer func() {
			if err := s.locker.Unlock(ctx, key); err != nil {
				log.Warn("Failed to release rebuild lock", sl.Err(err))
			}
		}()
	}

	payload, err := json.Marshal(view)
	if err != nil {
		log.Error("Failed to encode week view", sl.Err(err))
		return
	}

	if err := s.cache.Set(ctx, key, payload); err != nil {
		log.Warn("Failed to cache week view", sl.Err(err))
	}
}

func (s *Service) gridInput(log *slog.Logger, snapshot *models.WeekSnapshot, start, end time.Time) grid.Input {
	in := grid.Input{
		Start:    start,
		End:      end,
		Windows:  make([]grid.Window, 0, len(snapshot.Windows)),
		Sessions: make([]grid.Session, 0, len(snapshot.Sessions)),
		Events:   make([]grid.Event, 0, len(snapshot.Events)),
	}

	for _, w := range snapshot.Windows {
		window, err := toGridWindow(w)
		if err != nil {
			// a row we cannot read leaves its day closed
			log.Warn("Availability window skipped", slog.String("id", w.ID), sl.Err(err))
			continue
		}
		in.Windows = append(in.Windows, window)
	}

	for _, session := range snapshot.Sessions {
		in.Sessions = append(in.Sessions, grid.Session{
			ID:              session.ID,
			ScheduledAt:     session.ScheduledAt,
			DurationMinutes: session.DurationMinutes,
			ClientName:      session.ClientName,
			IsOnline:        session.IsOnline,
			Status:          string(session.Status),
		})
	}

	for _, e := range snapshot.Events {
		in.Events = append(in.Events, toGridEvent(e))
	}

	return in
}

func toGridWindow(w models.AvailabilityWindow) (grid.Window, error) {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return grid.Window{}, fmt.Errorf("invalid day_of_week %d", w.DayOfWeek)
	}

	start, err := grid.ParseClock(w.StartTime)
	if err != nil {
		return grid.Window{}, err
	}

	end, err := grid.ParseClock(w.EndTime)
	if err != nil {
		return grid.Window{}, err
	}

	return grid.Window{
		DayOfWeek: time.Weekday(w.DayOfWeek),
		Start:     start,
		End:       end,
		Active:    w.IsActive,
	}, nil
}

func toGridEvent(e models.ExternalEvent) grid.Event {
	return grid.Event{
		ID:       e.ID,
		Start:    e.StartTime,
		End:      e.EndTime,
		IsAllDay: e.IsAllDay,
		Title:    e.Title,
		Source:   e.Source,
	}
}

func (s *Service) weekView(coachID string, week *grid.Week) *api.WeekViewResponse {
	view := &api.WeekViewResponse{
		CoachID:      coachID,
		Start:        week.Start,
		End:          week.End,
		Timezone:     s.opts.Location.String(),
		UnitsPerHour: s.opts.UnitsPerHour,
		Days:         make([]api.DayView, 0, len(week.Days)),
		AllDay:       make(map[string][]api.EventView, len(week.AllDay)),
	}

	for _, day := range week.Days {
		dv := api.DayView{
			Date:    grid.DateKey(day.Date),
			Weekday: day.Date.Weekday().String(),
			Open:    day.Availability.Open,
			Slots:   make([]api.SlotView, 0, len(day.Slots)),
		}
		if day.Availability.Open {
			dv.OpenFrom = day.Availability.StartHour
			dv.OpenTo = day.Availability.EndHour
		}

		for _, slot := range day.Slots {
			dv.Slots = append(dv.Slots, api.SlotView{
				Hour:               slot.Hour,
				WithinAvailability: slot.WithinAvailability,
				Bookable:           slot.Bookable(),
				Interactive:        slot.Interactive(),
				Occupant:           s.occupantView(slot.Occupant),
			})
		}

		view.Days = append(view.Days, dv)
	}

	for key, events := range week.AllDay {
		for _, e := range events {
			view.AllDay[key] = append(view.AllDay[key], s.eventView(e))
		}
	}

	for _, rejected := range week.Rejected {
		view.Rejected = append(view.Rejected, api.RejectedRecord{
			Kind:   string(rejected.Kind),
			ID:     rejected.ID,
			Reason: rejected.Err.Error(),
		})
	}

	return view
}

func (s *Service) occupantView(occ *grid.Occupant) *api.OccupantView {
	if occ == nil {
		return nil
	}

	view := &api.OccupantView{Kind: occ.Kind.String()}

	if occ.Session != nil {
		view.Session = &api.SessionView{
			ID:              occ.Session.ID,
			ClientName:      occ.Session.ClientName,
			ScheduledAt:     occ.Session.ScheduledAt.In(s.opts.Location),
			DurationMinutes: occ.Session.DurationMinutes,
			IsOnline:        occ.Session.IsOnline,
			Status:          occ.Session.Status,
		}
	}

	if occ.Event != nil {
		e := s.eventView(*occ.Event)
		view.Event = &e
	}

	if g, ok := grid.Span(occ, s.opts.UnitsPerHour); ok {
		view.Geometry = &api.GeometryView{Offset: g.Offset, Extent: g.Extent}
	}

	return view
}

func (s *Service) eventView(e grid.Event) api.EventView {
	return api.EventView{
		ID:       e.ID,
		Title:    e.Title,
		Start:    e.Start.In(s.opts.Location),
		End:      e.End.In(s.opts.Location),
		IsAllDay: e.IsAllDay,
		Source:   e.Source,
	}
}
