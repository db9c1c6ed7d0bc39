package service

import (
	"coach-calendar/api"
	"coach-calendar/internal/grid"
	"coach-calendar/internal/lock"
	"coach-calendar/internal/metrics"
	"coach-calendar/internal/models"
	"coach-calendar/pkg/response"
	"coach-calendar/pkg/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type Store interface {
	LoadWeek(ctx context.Context, coachID string, from, to time.Time) (*models.WeekSnapshot, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListAvailabilityWindows(ctx context.Context, coachID string) ([]models.AvailabilityWindow, error)
	ListExternalEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ExternalEvent, error)
}

type WeekCache interface {
	Key(ctx context.Context, coachID string, start, end time.Time) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	Invalidate(ctx context.Context, coachID string) error
}

type Options struct {
	Location       *time.Location
	UnitsPerHour   int
	RebuildLockTTL time.Duration
}

type Service struct {
	log     *slog.Logger
	store   Store
	cache   WeekCache
	locker  lock.Locker
	builder *grid.Builder
	opts    Options
}

// NewService wires the week view pipeline. cache and locker may be nil, in
// which case every request rebuilds the grid.
func NewService(log *slog.Logger, store Store, cache WeekCache, locker lock.Locker, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.UnitsPerHour <= 0 {
		opts.UnitsPerHour = grid.DefaultUnitsPerHour
	}
	if opts.RebuildLockTTL <= 0 {
		opts.RebuildLockTTL = 5 * time.Second
	}

	return &Service{
		log:     log,
		store:   store,
		cache:   cache,
		locker:  locker,
		builder: grid.NewBuilder(log),
		opts:    opts,
	}
}

func (s *Service) Location() *time.Location {
	return s.opts.Location
}

// Availability

func (s *Service) Availability(ctx context.Context, coachID string) ([]*api.AvailabilityWindowResponse, error) {
	const op = "service.Availability"

	windows, err := s.store.ListAvailabilityWindows(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.AvailabilityWindowResponse, 0, len(windows))
	for _, w := range windows {
		result = append(result, &api.AvailabilityWindowResponse{
			ID:        w.ID,
			DayOfWeek: w.DayOfWeek,
			Weekday:   time.Weekday(w.DayOfWeek).String(),
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			Active:    w.IsActive,
		})
	}

	return result, nil
}

// Sessions

func (s *Service) Session(ctx context.Context, id string) (*api.SessionResponse, error) {
	const op = "service.Session"

	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.SessionResponse{
		ID:              session.ID,
		CoachID:         session.CoachID,
		ClientName:      session.ClientName,
		ScheduledAt:     session.ScheduledAt.In(s.opts.Location),
		EndsAt:          session.ScheduledAt.Add(time.Duration(session.DurationMinutes) * time.Minute).In(s.opts.Location),
		DurationMinutes: session.DurationMinutes,
		IsOnline:        session.IsOnline,
		Status:          string(session.Status),
	}, nil
}

// External events

func (s *Service) ExternalEvents(ctx context.Context, coachID string, from, to time.Time) ([]*api.EventView, error) {
	const op = "service.ExternalEvents"

	if to.Before(from) {
		return nil, fmt.Errorf("%s: to is before from: %w", op, response.ErrBadRequest)
	}

	events, err := s.store.ListExternalEvents(ctx, coachID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.EventView, 0, len(events))
	for _, e := range events {
		view := s.eventView(toGridEvent(e))
		result = append(result, &view)
	}

	return result, nil
}

// InvalidateCoach drops every cached week view of the coach. It is called for
// each change notification coming from the database.
func (s *Service) InvalidateCoach(ctx context.Context, coachID string) error {
	const op = "service.InvalidateCoach"

	if s.cache == nil {
		return nil
	}

	if err := s.cache.Invalidate(ctx, coachID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.IncInvalidation()
	s.log.Debug("Week views invalidated", slog.String("op", op), slog.String("coach_id", coachID))

	return nil
}

func (s *Service) logCacheError(op string, err error) {
	s.log.Warn("Week cache unavailable, serving uncached", slog.String("op", op), sl.Err(err))
}
