package params

import (
	"coach-calendar/pkg/response"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// UUID reads a path parameter and normalizes it to the canonical form.
func UUID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return "", fmt.Errorf("%s is required: %w", name, response.ErrBadRequest)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, response.ErrInvalidId)
	}

	return id.String(), nil
}

// Time accepts either a calendar date, taken as midnight in loc, or an
// RFC 3339 instant.
func Time(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", raw, response.ErrBadRequest)
	}

	return t.In(loc), nil
}
