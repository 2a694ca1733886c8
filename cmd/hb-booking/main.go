package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hbBooking/internal/booking"
	"hbBooking/internal/calendarsync"
	"hbBooking/internal/config"
	"hbBooking/internal/dateconv"
	"hbBooking/internal/http-server/handlers/booking/bookedTimes"
	"hbBooking/internal/http-server/handlers/booking/checkAvailability"
	"hbBooking/internal/http-server/handlers/booking/createBooking"
	"hbBooking/internal/http-server/handlers/booking/datepickerConfig"
	"hbBooking/internal/http-server/handlers/booking/deleteBooking"
	"hbBooking/internal/http-server/handlers/booking/getBooking"
	"hbBooking/internal/http-server/handlers/booking/listBookings"
	"hbBooking/internal/http-server/handlers/booking/updateBooking"
	"hbBooking/internal/http-server/middleware/adminauth"
	"hbBooking/internal/http-server/middleware/mwlogger"
	"hbBooking/internal/lib/clock"
	"hbBooking/internal/lib/lease"
	"hbBooking/internal/lib/logger/handlers/slogpretty"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/metrics"
	"hbBooking/internal/notify"
	"hbBooking/internal/reminder"
	"hbBooking/internal/storage/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting hb booking",
		slog.String("env", cfg.Env),
		slog.String("calendar_type", cfg.CalendarType),
	)
	log.Debug("debug messages are enabled")

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone", slog.String("timezone", cfg.Timezone), sl.Err(err))
		os.Exit(1)
	}

	calendarType, err := dateconv.ParseCalendar(cfg.CalendarType)
	if err != nil {
		log.Error("invalid calendar type", sl.Err(err))
		os.Exit(1)
	}

	conv := dateconv.New(calendarType, clock.Real{}, loc)

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender, err := notify.NewEmailSender(ctx, cfg.Notify, log)
	if err != nil {
		log.Error("failed to init email sender", sl.Err(err))
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(log, sender, conv, cfg.Notify.SiteName, cfg.Notify.AdminEmail)

	calendar, err := calendarsync.New(ctx, log, cfg.Calendar, calendarsync.Site{
		Name:       cfg.Notify.SiteName,
		AdminEmail: cfg.Notify.AdminEmail,
	}, loc)
	if err != nil {
		log.Error("failed to init calendar integration", sl.Err(err))
		os.Exit(1)
	}

	service := booking.New(
		log,
		storage,
		conv,
		dispatcher,
		calendar,
		metrics.NewBookingMetrics(prometheus.DefaultRegisterer),
	)

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if cfg.Reminders.Enabled {
		var locker reminder.Locker
		if rdb != nil {
			locker = lease.NewRedis(rdb, "hbbooking:lease:")
		}

		scheduler := reminder.New(
			log,
			storage,
			dispatcher,
			clock.Real{},
			locker,
			metrics.NewReminderMetrics(prometheus.DefaultRegisterer),
			reminder.Options{
				Interval:    cfg.Reminders.Interval,
				TierTimeout: cfg.Reminders.TierTimeout,
				LeaseTTL:    cfg.Reminders.LeaseTTL,
				Location:    loc,
			},
		)

		go scheduler.Run(ctx)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/bookings", createBooking.New(log, service))
	router.Get("/check-availability", checkAvailability.New(log, service))
	router.Get("/booked-times", bookedTimes.New(log, service))
	router.Get("/datepicker-config", datepickerConfig.New(log, conv))

	router.Group(func(r chi.Router) {
		r.Use(adminauth.New(log, cfg.Auth.AdminJWTSecret))

		r.Get("/bookings", listBookings.New(log, service))
		r.Get("/bookings/{id}", getBooking.New(log, service))
		r.Put("/bookings/{id}", updateBooking.New(log, service))
		r.Delete("/bookings/{id}", deleteBooking.New(log, service))
	})

	if strings.EqualFold(cfg.Calendar.Integration, "ical") {
		fs := http.FileServer(http.Dir(cfg.Calendar.ICalDir))
		router.Handle("/icals/*", http.StripPrefix("/icals/", fs))
	}

	router.Handle("/metrics", promhttp.Handler())

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if rdb != nil {
		if err = rdb.Close(); err != nil {
			log.Error("failed to close redis connection", sl.Err(err))
		}
	}

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
