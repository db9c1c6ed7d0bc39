package get

import (
	"coach-calendar/api"
	"coach-calendar/internal/http-server/handlers/params"
	"coach-calendar/pkg/response"
	"coach-calendar/pkg/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type EventLister interface {
	ExternalEvents(ctx context.Context, coachID string, from, to time.Time) ([]*api.EventView, error)
}

type Response struct {
	response.Response
	Events []api.EventView `json:"events"`
}

func New(log *slog.Logger, lister EventLister, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.get.New"

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

		from, err := params.Time(r.URL.Query().Get("from"), loc)
		if err != nil {
			log.Error("Invalid from", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_RANGE), "from is required"))
			return
		}

		to, err := params.Time(r.URL.Query().Get("to"), loc)
		if err != nil {
			log.Error("Invalid to", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_RANGE), "to is required"))
			return
		}

		events, err := lister.ExternalEvents(r.Context(), coachID, from, to)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("Invalid range", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_RANGE), "to is before from"))
			return
		}

		if err != nil {
			log.Error("Failed to list external events", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list external events"))
			return
		}

		log.Info("External events retrieved", slog.Int("count", len(events)))
		eventsResponse := make([]api.EventView, len(events))
		for i, e := range events {
			eventsResponse[i] = *e
		}
		render.JSON(w, r, Response{
			Events: eventsResponse,
		})
	}
}
