package api

import "time"

type WeekViewResponse struct {
	CoachID      string                 `json:"coach_id"`
	Start        time.Time              `json:"start"`
	End          time.Time              `json:"end"`
	Timezone     string                 `json:"timezone"`
	UnitsPerHour int                    `json:"units_per_hour"`
	Days         []DayView              `json:"days"`
	AllDay       map[string][]EventView `json:"all_day"`
	Rejected     []RejectedRecord       `json:"rejected,omitempty"`
}

type DayView struct {
	Date     string     `json:"date"`
	Weekday  string     `json:"weekday"`
	Open     bool       `json:"open"`
	OpenFrom int        `json:"open_from,omitempty"`
	OpenTo   int        `json:"open_to,omitempty"`
	Slots    []SlotView `json:"slots"`
}

type SlotView struct {
	Hour               int           `json:"hour"`
	WithinAvailability bool          `json:"within_availability"`
	Bookable           bool          `json:"bookable"`
	Interactive        bool          `json:"interactive"`
	Occupant           *OccupantView `json:"occupant,omitempty"`
}

type OccupantView struct {
	Kind     string        `json:"kind"`
	Session  *SessionView  `json:"session,omitempty"`
	Event    *EventView    `json:"event,omitempty"`
	Geometry *GeometryView `json:"geometry,omitempty"`
}

type GeometryView struct {
	Offset int `json:"offset"`
	Extent int `json:"extent"`
}

type SessionView struct {
	ID              string    `json:"id"`
	ClientName      string    `json:"client_name"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	IsOnline        bool      `json:"is_online"`
	Status          string    `json:"status"`
}

type EventView struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	IsAllDay bool      `json:"is_all_day"`
	Source   string    `json:"source"`
}

type RejectedRecord struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type AvailabilityWindowResponse struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"active"`
}

type SessionResponse struct {
	ID              string    `json:"id"`
	CoachID         string    `json:"coach_id"`
	ClientName      string    `json:"client_name"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
	IsOnline        bool      `json:"is_online"`
	Status          string    `json:"status"`
}
