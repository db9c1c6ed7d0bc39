package get

import (
	"coach-calendar/api"
	"coach-calendar/pkg/response"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const coachID = "5a2d7c1e-0b7f-4e53-9d1c-7c1a3a7b9f10"

type mockViewer struct {
	mock.Mock
}

func (m *mockViewer) WeekView(ctx context.Context, coachID string, start, end time.Time) (*api.WeekViewResponse, error) {
	args := m.Called(ctx, coachID, start, end)
	if v := args.Get(0); v != nil {
		return v.(*api.WeekViewResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(viewer WeekViewer, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/coaches/{coach_id}/week", New(slog.New(slog.NewTextHandler(io.Discard, nil)), viewer, time.UTC))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestWeek_DefaultsToSevenDays(t *testing.T) {
	viewer := new(mockViewer)
	start := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	viewer.On("WeekView", mock.Anything, coachID, start, end).
		Return(&api.WeekViewResponse{CoachID: coachID, Days: make([]api.DayView, 7)}, nil)

	rec := serve(viewer, "/coaches/"+coachID+"/week?start=2026-10-12")

	require.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Week)
	assert.Len(t, body.Week.Days, 7)
	viewer.AssertExpectations(t)
}

func TestWeek_ExplicitEnd(t *testing.T) {
	viewer := new(mockViewer)
	start := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	viewer.On("WeekView", mock.Anything, coachID, start, end).
		Return(&api.WeekViewResponse{CoachID: coachID}, nil)

	rec := serve(viewer, "/coaches/"+coachID+"/week?start=2026-10-12&end=2026-10-14")

	assert.Equal(t, http.StatusOK, rec.Code)
	viewer.AssertExpectations(t)
}

func TestWeek_BadRequests(t *testing.T) {
	cases := map[string]string{
		"bad coach": "/coaches/nope/week?start=2026-10-12",
		"no start":  "/coaches/" + coachID + "/week",
		"bad start": "/coaches/" + coachID + "/week?start=tomorrow",
		"bad end":   "/coaches/" + coachID + "/week?start=2026-10-12&end=later",
	}

	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			viewer := new(mockViewer)
			rec := serve(viewer, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			viewer.AssertNotCalled(t, "WeekView", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestWeek_ServiceError(t *testing.T) {
	viewer := new(mockViewer)
	viewer.On("WeekView", mock.Anything, coachID, mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	rec := serve(viewer, "/coaches/"+coachID+"/week?start=2026-10-12")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(response.FAILED_REQUEST), body.Code)
}
