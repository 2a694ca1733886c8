package bookedTimes

import (
	"context"
	"log/slog"
	"net/http"

	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/lib/api/response"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	BookedTimes []string `json:"booked_times"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookedTimesProvider
type BookedTimesProvider interface {
	BookedTimes(ctx context.Context, date string) ([]string, error)
}

func New(log *slog.Logger, provider BookedTimesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.bookedTimes.New"

		log := log.With(slog.String("op", op))

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Info("date is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("date is required"))
			return
		}

		times, err := provider.BookedTimes(r.Context(), date)
		if err != nil {
			bookingerr.Render(w, r, log, err, "failed to get booked times")
			return
		}

		if times == nil {
			times = []string{}
		}

		render.JSON(w, r, Response{
			Response:    response.OK(),
			BookedTimes: times,
		})
	}
}
