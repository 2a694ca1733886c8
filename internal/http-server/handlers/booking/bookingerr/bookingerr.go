package bookingerr

import (
	"errors"
	"log/slog"
	"net/http"

	"hbBooking/internal/booking"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/lib/logger/sl"

	"github.com/go-chi/render"
)

// Render maps a service error to a status code and error envelope.
// Unknown errors are logged and answered with internalMsg only.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, internalMsg string) {
	var verr *booking.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Info("invalid request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(verr.Error()))
	case errors.Is(err, booking.ErrSlotUnavailable):
		log.Info("slot not available")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(booking.ErrSlotUnavailable.Error()))
	case errors.Is(err, booking.ErrNotFound):
		log.Info("booking not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(booking.ErrNotFound.Error()))
	default:
		log.Error(internalMsg, sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(internalMsg))
	}
}
