package get

import (
	"coach-calendar/api"
	"coach-calendar/internal/grid"
	"coach-calendar/internal/http-server/handlers/params"
	"coach-calendar/pkg/response"
	"coach-calendar/pkg/sl"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AvailabilityGetter interface {
	Availability(ctx context.Context, coachID string) ([]*api.AvailabilityWindowResponse, error)
}

type Response struct {
	response.Response
	Windows []api.AvailabilityWindowResponse `json:"windows"`
}

func New(log *slog.Logger, getter AvailabilityGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

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

		dayFilter := -1
		if day := r.URL.Query().Get("day"); day != "" {
			wd, ok := grid.ParseWeekday(day)
			if !ok {
				log.Error("Invalid day", slog.String("day", day))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "day must be a weekday name or 0-6"))
				return
			}
			dayFilter = int(wd)
		}

		windows, err := getter.Availability(r.Context(), coachID)
		if err != nil {
			log.Error("Failed to get availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get availability"))
			return
		}

		result := make([]api.AvailabilityWindowResponse, 0, len(windows))
		for _, window := range windows {
			if dayFilter >= 0 && window.DayOfWeek != dayFilter {
				continue
			}
			result = append(result, *window)
		}

		log.Info("Availability retrieved", slog.Int("count", len(result)))
		render.JSON(w, r, Response{
			Windows: result,
		})
	}
}
