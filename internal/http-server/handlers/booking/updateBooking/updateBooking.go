package updateBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/http-server/middleware/adminauth"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Request carries only the fields to change; absent fields stay as they are.
type Request struct {
	CustomerName       *string              `json:"customer_name"`
	CustomerEmail      *string              `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone      *string              `json:"customer_phone"`
	BookingDate        *string              `json:"booking_date"`
	BookingTime        *string              `json:"booking_time"`
	BusinessStatus     *string              `json:"business_status"`
	TargetCountry      *string              `json:"target_country"`
	TeamSize           *int                 `json:"team_size" validate:"omitempty,min=0"`
	TeamDescription    *string              `json:"team_description"`
	IdeaDescription    *string              `json:"idea_description"`
	ServiceDescription *string              `json:"service_description"`
	Services           *booking.ServiceList `json:"services"`
	Notes              *string              `json:"notes"`
	Status             *string              `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

type Response struct {
	response.Response
	Booking *models.Booking `json:"booking,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingUpdater
type BookingUpdater interface {
	Update(ctx context.Context, id int64, in booking.UpdateInput) (*models.Booking, error)
}

func New(log *slog.Logger, updater BookingUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.updateBooking.New"

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

		var req Request

		if err = render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Info("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		updated, err := updater.Update(r.Context(), id, booking.UpdateInput{
			CustomerName:       req.CustomerName,
			CustomerEmail:      req.CustomerEmail,
			CustomerPhone:      req.CustomerPhone,
			BookingDate:        req.BookingDate,
			BookingTime:        req.BookingTime,
			BusinessStatus:     req.BusinessStatus,
			TargetCountry:      req.TargetCountry,
			TeamSize:           req.TeamSize,
			TeamDescription:    req.TeamDescription,
			IdeaDescription:    req.IdeaDescription,
			ServiceDescription: req.ServiceDescription,
			Services:           req.Services,
			Notes:              req.Notes,
			Status:             req.Status,
		})
		if err != nil {
			bookingerr.Render(w, r, log, err, "failed to update booking")
			return
		}

		log.Info("booking updated", slog.String("status", string(updated.Status)))

		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking:  updated,
		})
	}
}
