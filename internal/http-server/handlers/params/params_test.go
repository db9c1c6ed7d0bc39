package params

import (
	"coach-calendar/pkg/response"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routed(t *testing.T, target string) (id string, err error) {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/coaches/{coach_id}", func(w http.ResponseWriter, r *http.Request) {
		id, err = UUID(r, "coach_id")
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	return id, err
}

func TestUUID(t *testing.T) {
	id, err := routed(t, "/coaches/5A2D7C1E-0B7F-4E53-9D1C-7C1A3A7B9F10")
	require.NoError(t, err)
	assert.Equal(t, "5a2d7c1e-0b7f-4e53-9d1c-7c1a3a7b9f10", id)

	_, err = routed(t, "/coaches/not-a-uuid")
	assert.ErrorIs(t, err, response.ErrInvalidId)
}

func TestTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	got, err := Time("2026-10-12", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 10, 12, 0, 0, 0, 0, loc)))

	got, err = Time("2026-10-12T06:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, loc, got.Location())

	_, err = Time("", loc)
	assert.ErrorIs(t, err, response.ErrBadRequest)

	_, err = Time("12.10.2026", loc)
	assert.ErrorIs(t, err, response.ErrBadRequest)
}
