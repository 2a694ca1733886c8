package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hbBooking/internal/dateconv"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/metrics"
	"hbBooking/internal/models"
	"hbBooking/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hbbooking.internal.booking")

type Store interface {
	IsSlotAvailable(ctx context.Context, date, tm string, excludeID int64) (bool, error)
	CreateBooking(ctx context.Context, b models.Booking) (int64, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, f models.Filter) ([]models.Booking, error)
	BookedTimesForDate(ctx context.Context, date string) ([]string, error)
	UpdateBooking(ctx context.Context, id int64, p models.Patch) error
	DeleteBooking(ctx context.Context, id int64) error
}

type Notifier interface {
	SendConfirmation(ctx context.Context, b models.Booking) error
	SendAdminAlert(ctx context.Context, b models.Booking) error
	SendStatusUpdate(ctx context.Context, b models.Booking, previous models.Status) error
}

// CalendarSync mirrors bookings into an external calendar. UpsertEvent
// returns the remote event id, which may be empty when nothing was created.
type CalendarSync interface {
	UpsertEvent(ctx context.Context, b models.Booking) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type Service struct {
	log      *slog.Logger
	store    Store
	conv     *dateconv.Converter
	notifier Notifier
	calendar CalendarSync
	metrics  *metrics.BookingMetrics
}

// New wires the service. notifier, calendar and m may be nil.
func New(
	log *slog.Logger,
	store Store,
	conv *dateconv.Converter,
	notifier Notifier,
	calendar CalendarSync,
	m *metrics.BookingMetrics,
) *Service {
	return &Service{
		log:      log,
		store:    store,
		conv:     conv,
		notifier: notifier,
		calendar: calendar,
		metrics:  m,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	const op = "booking.Create"

	log := s.log.With(slog.String("op", op))

	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	b, err := s.buildBooking(in)
	if err != nil {
		s.fail(span, "create", err)
		return nil, err
	}

	available, err := s.store.IsSlotAvailable(ctx, b.BookingDate, b.BookingTime, 0)
	if err != nil {
		s.fail(span, "create", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !available {
		s.fail(span, "create", ErrSlotUnavailable)
		return nil, ErrSlotUnavailable
	}

	id, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		err = mapStoreErr(err)
		s.fail(span, "create", err)
		if errors.Is(err, ErrSlotUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b.ID = id

	span.SetAttributes(attribute.Int64("hb.booking_id", id))
	log.Info("booking created", slog.Int64("id", id), slog.String("date", b.BookingDate), slog.String("time", b.BookingTime))

	b = s.syncCalendar(ctx, log, b)

	if s.notifier != nil {
		err := s.notifier.SendConfirmation(ctx, b)
		if err != nil {
			log.Warn("failed to send confirmation email", slog.Int64("id", id), sl.Err(err))
		}
		s.metrics.ObserveSideEffect("confirmation_email", err)

		err = s.notifier.SendAdminAlert(ctx, b)
		if err != nil {
			log.Warn("failed to send admin alert", slog.Int64("id", id), sl.Err(err))
		}
		s.metrics.ObserveSideEffect("admin_email", err)
	}

	s.metrics.ObserveOperation("create", "ok")

	created, err := s.store.GetBooking(ctx, id)
	if err != nil {
		log.Warn("failed to reload created booking", slog.Int64("id", id), sl.Err(err))
		return &b, nil
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Booking, error) {
	const op = "booking.Get"

	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		err = mapStoreErr(err)
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListFilter holds list query parameters; dates are in the active calendar.
type ListFilter struct {
	Status        string
	DateFrom      string
	DateTo        string
	CustomerEmail string
}

func (s *Service) List(ctx context.Context, lf ListFilter) ([]models.Booking, error) {
	const op = "booking.List"

	var (
		f   models.Filter
		err error
	)

	if lf.Status != "" {
		f.Status = models.Status(strings.TrimSpace(lf.Status))
		if !f.Status.Valid() {
			return nil, invalid("status", "must be one of pending, confirmed, cancelled, completed")
		}
	}
	if lf.DateFrom != "" {
		if f.DateFrom, err = s.normalizeDate("date_from", lf.DateFrom); err != nil {
			return nil, err
		}
	}
	if lf.DateTo != "" {
		if f.DateTo, err = s.normalizeDate("date_to", lf.DateTo); err != nil {
			return nil, err
		}
	}
	f.CustomerEmail = strings.TrimSpace(lf.CustomerEmail)

	bookings, err := s.store.ListBookings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

// CheckAvailability reports whether the slot is free. date is in the active
// calendar.
func (s *Service) CheckAvailability(ctx context.Context, date, tm string) (bool, error) {
	const op = "booking.CheckAvailability"

	stored, err := s.normalizeDate("date", date)
	if err != nil {
		return false, err
	}
	slot, err := normalizeTime("time", tm)
	if err != nil {
		return false, err
	}

	available, err := s.store.IsSlotAvailable(ctx, stored, slot, 0)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return available, nil
}

func (s *Service) BookedTimes(ctx context.Context, date string) ([]string, error) {
	const op = "booking.BookedTimes"

	stored, err := s.normalizeDate("date", date)
	if err != nil {
		return nil, err
	}

	times, err := s.store.BookedTimesForDate(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return times, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*models.Booking, error) {
	const op = "booking.Update"

	log := s.log.With(slog.String("op", op), slog.Int64("id", id))

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("hb.booking_id", id)))
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		s.fail(span, "update", err)
		return nil, err
	}

	patch, err := s.buildPatch(in)
	if err != nil {
		s.fail(span, "update", err)
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	next := patch.Apply(*current)
	slotChanged := next.BookingDate != current.BookingDate || next.BookingTime != current.BookingTime
	statusChanged := next.Status != current.Status

	if next.Status != models.StatusCancelled && (slotChanged || statusChanged) {
		available, err := s.store.IsSlotAvailable(ctx, next.BookingDate, next.BookingTime, id)
		if err != nil {
			s.fail(span, "update", err)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !available {
			s.fail(span, "update", ErrSlotUnavailable)
			return nil, ErrSlotUnavailable
		}
	}

	if err := s.store.UpdateBooking(ctx, id, patch); err != nil {
		err = mapStoreErr(err)
		s.fail(span, "update", err)
		if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking updated", slog.Bool("slot_changed", slotChanged), slog.Bool("status_changed", statusChanged))

	if slotChanged || statusChanged {
		next = s.syncCalendar(ctx, log, next)
	}

	if statusChanged && s.notifier != nil {
		err := s.notifier.SendStatusUpdate(ctx, next, current.Status)
		if err != nil {
			log.Warn("failed to send status update email", sl.Err(err))
		}
		s.metrics.ObserveSideEffect("status_email", err)
	}

	s.metrics.ObserveOperation("update", "ok")

	updated, err := s.store.GetBooking(ctx, id)
	if err != nil {
		log.Warn("failed to reload updated booking", sl.Err(err))
		return &next, nil
	}
	return updated, nil
}

// Delete removes the remote calendar event before the local row. When the
// remote removal fails the row is kept so the deletion can be retried.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "booking.Delete"

	log := s.log.With(slog.String("op", op), slog.Int64("id", id))

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("hb.booking_id", id)))
	defer span.End()

	b, err := s.Get(ctx, id)
	if err != nil {
		s.fail(span, "delete", err)
		return err
	}

	if b.GoogleEventID != "" && s.calendar != nil {
		err := s.calendar.DeleteEvent(ctx, b.GoogleEventID)
		s.metrics.ObserveSideEffect("calendar_delete", err)
		if err != nil {
			log.Error("failed to delete calendar event, booking kept", slog.String("event_id", b.GoogleEventID), sl.Err(err))
			s.fail(span, "delete", err)
			return fmt.Errorf("%s: delete calendar event: %w", op, err)
		}
	}

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		err = mapStoreErr(err)
		s.fail(span, "delete", err)
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking deleted")
	s.metrics.ObserveOperation("delete", "ok")

	return nil
}

// syncCalendar upserts the remote event and stores a newly issued id.
// Failures are logged and the booking is returned unchanged.
func (s *Service) syncCalendar(ctx context.Context, log *slog.Logger, b models.Booking) models.Booking {
	if s.calendar == nil {
		return b
	}

	eventID, err := s.calendar.UpsertEvent(ctx, b)
	s.metrics.ObserveSideEffect("calendar_upsert", err)
	if err != nil {
		log.Warn("failed to sync calendar event", slog.Int64("id", b.ID), sl.Err(err))
		return b
	}
	if eventID == "" || eventID == b.GoogleEventID {
		return b
	}

	if err := s.store.UpdateBooking(ctx, b.ID, models.Patch{GoogleEventID: &eventID}); err != nil {
		log.Warn("failed to store calendar event id", slog.Int64("id", b.ID), sl.Err(err))
		return b
	}
	b.GoogleEventID = eventID
	return b
}

func (s *Service) fail(span trace.Span, operation string, err error) {
	span.RecordError(err)

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.ObserveOperation(operation, "invalid")
	case errors.Is(err, ErrSlotUnavailable):
		s.metrics.ObserveOperation(operation, "conflict")
	case errors.Is(err, ErrNotFound):
		s.metrics.ObserveOperation(operation, "not_found")
	default:
		s.metrics.ObserveOperation(operation, "error")
	}
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrSlotTaken):
		return ErrSlotUnavailable
	case errors.Is(err, storage.ErrBookingNotFound):
		return ErrNotFound
	}
	return err
}
