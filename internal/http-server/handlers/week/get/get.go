package get

import (
	"coach-calendar/api"
	"coach-calendar/internal/http-server/handlers/params"
	"coach-calendar/pkg/response"
	"coach-calendar/pkg/sl"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const defaultDays = 7

type WeekViewer interface {
	WeekView(ctx context.Context, coachID string, start, end time.Time) (*api.WeekViewResponse, error)
}

type Response struct {
	response.Response
	Week *api.WeekViewResponse `json:"week,omitempty"`
}

func New(log *slog.Logger, viewer WeekViewer, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.week.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		coachID, err := params.UUID(r, "coach_id")
		if err != nil {
			log.Error("Invalid coach_id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "coach_id must be a uuid"))
			return
		}

		startStr := r.URL.Query().Get("start")
		if startStr == "" {
			log.Error("start is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "start is required"))
			return
		}

		start, err := params.Time(startStr, loc)
		if err != nil {
			log.Error("Invalid start", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_RANGE), "start must be YYYY-MM-DD or RFC3339"))
			return
		}

		end := start.AddDate(0, 0, defaultDays)
		if endStr := r.URL.Query().Get("end"); endStr != "" {
			end, err = params.Time(endStr, loc)
			if err != nil {
				log.Error("Invalid end", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.INVALID_RANGE), "end must be YYYY-MM-DD or RFC3339"))
				return
			}
		}

		week, err := viewer.WeekView(r.Context(), coachID, start, end)
		if err != nil {
			log.Error("Failed to build week view", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build week view"))
			return
		}

		log.Info("Week view retrieved",
			slog.String("coach_id", coachID),
			slog.Int("days", len(week.Days)),
		)

		render.JSON(w, r, Response{
			Week: week,
		})
	}
}
