package checkAvailability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/lib/logger/sl"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Request is read from the query string; Date is in the active calendar.
type Request struct {
	Date string `validate:"required"`
	Time string `validate:"required"`
}

type Response struct {
	response.Response
	Available bool `json:"available"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AvailabilityChecker
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, date, tm string) (bool, error)
}

func New(log *slog.Logger, checker AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.checkAvailability.New"

		log := log.With(slog.String("op", op))

		req := Request{
			Date: r.URL.Query().Get("date"),
			Time: r.URL.Query().Get("time"),
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Info("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		available, err := checker.CheckAvailability(r.Context(), req.Date, req.Time)
		if err != nil {
			bookingerr.Render(w, r, log, err, "failed to check availability")
			return
		}

		log.Debug("availability checked",
			slog.String("date", req.Date),
			slog.String("time", req.Time),
			slog.Bool("available", available),
		)

		render.JSON(w, r, Response{
			Response:  response.OK(),
			Available: available,
		})
	}
}
