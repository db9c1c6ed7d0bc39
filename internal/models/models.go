package models

import "time"

type SessionStatus string

const (
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type Session struct {
	ID              string        `db:"id"`
	CoachID         string        `db:"coach_id"`
	ClientName      string        `db:"client_name"`
	ScheduledAt     time.Time     `db:"scheduled_at"`
	DurationMinutes int           `db:"duration_minutes"`
	IsOnline        bool          `db:"is_online"`
	Status          SessionStatus `db:"status"`
}

// AvailabilityWindow is one row of the weekly template. StartTime and EndTime
// are "HH:MM" wall-clock strings.
type AvailabilityWindow struct {
	ID        string `db:"id"`
	CoachID   string `db:"coach_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	IsActive  bool   `db:"is_active"`
}

type ExternalEvent struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	IsAllDay  bool      `db:"is_all_day"`
	Source    string    `db:"source"`
}

// WeekSnapshot holds the three collections read at one point in time.
type WeekSnapshot struct {
	Windows  []AvailabilityWindow
	Sessions []Session
	Events   []ExternalEvent
}
