package listBookings

import (
	"context"
	"log/slog"
	"net/http"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/bookingerr"
	"hbBooking/internal/lib/api/response"
	"hbBooking/internal/models"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Bookings []models.Booking `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingLister
type BookingLister interface {
	List(ctx context.Context, f booking.ListFilter) ([]models.Booking, error)
}

func New(log *slog.Logger, lister BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.listBookings.New"

		log := log.With(slog.String("op", op))

		q := r.URL.Query()
		filter := booking.ListFilter{
			Status:        q.Get("status"),
			DateFrom:      q.Get("date_from"),
			DateTo:        q.Get("date_to"),
			CustomerEmail: q.Get("customer_email"),
		}

		bookings, err := lister.List(r.Context(), filter)
		if err != nil {
			bookingerr.Render(w, r, log, err, "failed to list bookings")
			return
		}

		if bookings == nil {
			bookings = []models.Booking{}
		}

		log.Debug("bookings listed", slog.Int("count", len(bookings)))

		render.JSON(w, r, Response{
			Response: response.OK(),
			Bookings: bookings,
		})
	}
}
