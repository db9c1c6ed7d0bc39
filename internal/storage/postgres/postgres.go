package postgres

import (
	"coach-calendar/internal/models"
	"coach-calendar/pkg/response"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// invalid_text_representation: a malformed uuid literal
const pqInvalidText = "22P02"

type Storage struct {
	db *sql.DB
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### week snapshot ####

// LoadWeek reads the three collections a week grid is built from inside one
// read-only repeatable read transaction, so they describe the same moment.
func (s *Storage) LoadWeek(ctx context.Context, coachID string, from, to time.Time) (*models.WeekSnapshot, error) {
	const op = "storage.postgres.LoadWeek"

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	windows, err := listAvailabilityWindows(ctx, tx, coachID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sessions, err := listSessions(ctx, tx, coachID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events, err := listExternalEvents(ctx, tx, coachID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return &models.WeekSnapshot{
		Windows:  windows,
		Sessions: sessions,
		Events:   events,
	}, nil
}

// #### sessions ####

func (s *Storage) ListSessions(ctx context.Context, coachID string, from, to time.Time) ([]models.Session, error) {
	return listSessions(ctx, s.db, coachID, from, to)
}

func listSessions(ctx context.Context, q queryer, coachID string, from, to time.Time) ([]models.Session, error) {
	const op = "storage.postgres.ListSessions"

	rows, err := q.QueryContext(ctx, `
		SELECT id, coach_id, client_name, scheduled_at, duration_minutes, is_online, status
		FROM sessions
		WHERE coach_id=$1
		AND status <> $2
		AND scheduled_at < $4
		AND scheduled_at + make_interval(mins => duration_minutes) > $3
		ORDER BY scheduled_at, id`,
		coachID,
		string(models.SessionCancelled),
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		err := rows.Scan(
			&session.ID,
			&session.CoachID,
			&session.ClientName,
			&session.ScheduledAt,
			&session.DurationMinutes,
			&session.IsOnline,
			&session.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}

func (s *Storage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.postgres.GetSession"

	var session models.Session

	err := s.db.QueryRowContext(ctx, `
		SELECT id, coach_id, client_name, scheduled_at, duration_minutes, is_online, status
		FROM sessions WHERE id=$1`, id).
		Scan(
			&session.ID,
			&session.CoachID,
			&session.ClientName,
			&session.ScheduledAt,
			&session.DurationMinutes,
			&session.IsOnline,
			&session.Status,
		)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return &session, nil
}

// #### availability ####

// ListAvailabilityWindows keeps insertion order within a weekday so that
// duplicate rows resolve the same way on every call.
func (s *Storage) ListAvailabilityWindows(ctx context.Context, coachID string) ([]models.AvailabilityWindow, error) {
	return listAvailabilityWindows(ctx, s.db, coachID)
}

func listAvailabilityWindows(ctx context.Context, q queryer, coachID string) ([]models.AvailabilityWindow, error) {
	const op = "storage.postgres.ListAvailabilityWindows"

	rows, err := q.QueryContext(ctx, `
		SELECT id, coach_id, day_of_week,
			to_char(start_time, 'HH24:MI'),
			to_char(end_time, 'HH24:MI'),
			is_active
		FROM availability_windows
		WHERE coach_id=$1
		ORDER BY day_of_week, created_at, id`, coachID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	defer rows.Close()

	var windows []models.AvailabilityWindow
	for rows.Next() {
		var w models.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.CoachID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return windows, nil
}

// #### external events ####

// ListExternalEvents uses inclusive bounds so all-day events touching the
// edges of the range are returned; the grid decides which days they cover.
func (s *Storage) ListExternalEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ExternalEvent, error) {
	return listExternalEvents(ctx, s.db, userID, from, to)
}

func listExternalEvents(ctx context.Context, q queryer, userID string, from, to time.Time) ([]models.ExternalEvent, error) {
	const op = "storage.postgres.ListExternalEvents"

	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, title, start_time, end_time, is_all_day, source
		FROM external_events
		WHERE user_id=$1
		AND start_time <= $3
		AND end_time >= $2
		ORDER BY start_time, id`,
		userID,
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	defer rows.Close()

	var events []models.ExternalEvent
	for rows.Next() {
		var e models.ExternalEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.StartTime, &e.EndTime, &e.IsAllDay, &e.Source); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

func mapError(err error) error {
	var sqlErr *pq.Error
	if errors.As(err, &sqlErr) && sqlErr.Code == pqInvalidText {
		return response.ErrInvalidId
	}

	return err
}
