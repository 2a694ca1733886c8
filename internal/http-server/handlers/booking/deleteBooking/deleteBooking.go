package deleteBooking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/http-server/middleware/adminauth"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingDeleter
type BookingDeleter interface {
	Delete(ctx context.Context, id int64) error
}

func New(log *slog.Logger, deleter BookingDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.deleteBooking.New"

		log := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			log.Info("invalid booking id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid booking id format"))
			return
		}

		log = log.With(slog.Int64("booking_id", id))

		if claims, ok := adminauth.ClaimsFromContext(r.Context()); ok {
			log = log.With(slog.String("admin", claims.Subject))
		}

		if err = deleter.Delete(r.Context(), id); err != nil {
			bookingerr.Render(w, r, log, err, "failed to delete booking")
			return
		}

		log.Info("booking deleted")

		render.JSON(w, r, response.OK())
	}
}
