package datepickerConfig

import (
	"log/slog"
	"net/http"

	"hbBooking/internal/dateconv"
	"hbBooking/internal/lib/api/response"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Config dateconv.DatepickerConfig `json:"config"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ConfigProvider
type ConfigProvider interface {
	DatepickerConfig() dateconv.DatepickerConfig
}

func New(log *slog.Logger, provider ConfigProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.datepickerConfig.New"

		cfg := provider.DatepickerConfig()

		log.Debug("datepicker config served",
			slog.String("op", op),
			slog.String("calendar_type", string(cfg.CalendarType)),
		)

		render.JSON(w, r, Response{
			Response: response.OK(),
			Config:   cfg,
		})
	}
}
