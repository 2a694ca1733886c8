package getBooking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Booking *models.Booking `json:"booking,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingGetter
type BookingGetter interface {
	Get(ctx context.Context, id int64) (*models.Booking, error)
}

func New(log *slog.Logger, getter BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.getBooking.New"

		log := log.With(slog.String("op", op))

		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			log.Info("booking id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("booking id is required"))
			return
		}

		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			log.Info("invalid booking id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid booking id format"))
			return
		}

		log = log.With(slog.Int64("booking_id", id))

		b, err := getter.Get(r.Context(), id)
		if err != nil {
			bookingerr.Render(w, r, log, err, "failed to get booking")
			return
		}

		log.Debug("booking received")

		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking:  b,
		})
	}
}
