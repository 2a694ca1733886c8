package createBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	CustomerName       string              `json:"customer_name" validate:"required"`
	CustomerEmail      string              `json:"customer_email" validate:"required,email"`
	CustomerPhone      string              `json:"customer_phone" validate:"required"`
	BookingDate        string              `json:"booking_date" validate:"required"`
	BookingTime        string              `json:"booking_time" validate:"required"`
	BusinessStatus     string              `json:"business_status" validate:"required"`
	TargetCountry      string              `json:"target_country" validate:"required"`
	TeamSize           int                 `json:"team_size" validate:"min=0"`
	TeamDescription    string              `json:"team_description" validate:"required"`
	IdeaDescription    string              `json:"idea_description" validate:"required"`
	ServiceDescription string              `json:"service_description" validate:"required"`
	Services           booking.ServiceList `json:"services"`
	Notes              string              `json:"notes"`
}

type Response struct {
	response.Response
	Booking *models.Booking `json:"booking,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	Create(ctx context.Context, in booking.CreateInput) (*models.Booking, error)
}

func New(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Debug("request body decoded", slog.String("customer_email", req.CustomerEmail))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Info("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		created, err := creator.Create(r.Context(), booking.CreateInput{
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
		})
		if err != nil {
			bookingerr.Render(w, r, log, err, "failed to create booking")
			return
		}

		log.Info("booking created", slog.Int64("id", created.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking:  created,
		})
	}
}
