package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hbBooking/internal/lib/clock"
	"hbBooking/internal/lib/lease"
	"hbBooking/internal/lib/logger/sl"
	"hbBooking/internal/metrics"
	"hbBooking/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("hbbooking.internal.reminder")

// ErrSkipped is returned by RunOnce when another replica holds the sweep lease.
var ErrSkipped = errors.New("reminder sweep skipped: lease held elsewhere")

const leaseKey = "reminders"

type Store interface {
	FindBookingsInWindow(
		ctx context.Context,
		start, end time.Time,
		statuses []models.Status,
		tier models.ReminderTier,
	) ([]models.Booking, error)
	MarkReminderSent(ctx context.Context, id int64, tier models.ReminderTier) error
}

type Sender interface {
	SendReminder(ctx context.Context, b models.Booking, tier models.ReminderTier) error
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// Tier is a look-ahead window relative to the sweep time: [now+From, now+To).
type Tier struct {
	Name models.ReminderTier
	From time.Duration
	To   time.Duration
}

var Tiers = []Tier{
	{Name: models.Tier24h, From: 23 * time.Hour, To: 25 * time.Hour},
	{Name: models.Tier30min, From: 25 * time.Minute, To: 35 * time.Minute},
}

func (t Tier) Window(now time.Time) (start, end time.Time) {
	return now.Add(t.From), now.Add(t.To)
}

var dueStatuses = []models.Status{models.StatusPending, models.StatusConfirmed}

type Report struct {
	Tier       models.ReminderTier
	Found      int
	Sent       int
	Failed     int
	FlagErrors int
	Err        error
}

type Options struct {
	Interval    time.Duration
	TierTimeout time.Duration
	LeaseTTL    time.Duration
	Location    *time.Location
}

type Scheduler struct {
	log     *slog.Logger
	store   Store
	sender  Sender
	clock   clock.Clock
	locker  Locker
	metrics *metrics.ReminderMetrics
	opts    Options
}

// New builds a scheduler. locker and m may be nil; without a locker every
// replica sweeps.
func New(
	log *slog.Logger,
	store Store,
	sender Sender,
	clk clock.Clock,
	locker Locker,
	m *metrics.ReminderMetrics,
	opts Options,
) *Scheduler {
	if clk == nil {
		clk = clock.Real{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Minute
	}
	if opts.TierTimeout <= 0 {
		opts.TierTimeout = 5 * time.Minute
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = opts.Interval
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Scheduler{
		log:     log,
		store:   store,
		sender:  sender,
		clock:   clk,
		locker:  locker,
		metrics: m,
		opts:    opts,
	}
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	const op = "reminder.Run"

	log := s.log.With(slog.String("op", op))
	log.Info("reminder scheduler started", slog.Duration("interval", s.opts.Interval))

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSkipped) {
			log.Error("reminder sweep failed", sl.Err(err))
		}

		select {
		case <-ctx.Done():
			log.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce sweeps both tiers concurrently. A failing or slow tier never
// stops the other one.
func (s *Scheduler) RunOnce(ctx context.Context) ([]Report, error) {
	const op = "reminder.RunOnce"

	log := s.log.With(slog.String("op", op))

	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, leaseKey, s.opts.LeaseTTL)
		switch {
		case errors.Is(err, lease.ErrNotHeld):
			log.Debug("sweep lease held by another replica")
			return nil, ErrSkipped
		case err != nil:
			log.Warn("failed to acquire sweep lease, running unguarded", sl.Err(err))
		default:
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					log.Warn("failed to release sweep lease", sl.Err(err))
				}
			}()
		}
	}

	now := s.clock.Now().In(s.opts.Location)
	reports := make([]Report, len(Tiers))

	var g errgroup.Group
	for i, tier := range Tiers {
		i, tier := i, tier
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, s.opts.TierTimeout)
			defer cancel()

			started := time.Now()
			reports[i] = s.sweep(tctx, tier, now)
			s.metrics.ObserveSweep(string(tier.Name), reports[i].Err, time.Since(started).Seconds())
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range reports {
		span.SetAttributes(
			attribute.Int("hb.reminders."+string(r.Tier)+".found", r.Found),
			attribute.Int("hb.reminders."+string(r.Tier)+".sent", r.Sent),
		)
		if r.Err != nil {
			span.RecordError(r.Err)
		}
	}

	return reports, nil
}

func (s *Scheduler) sweep(ctx context.Context, tier Tier, now time.Time) Report {
	const op = "reminder.sweep"

	log := s.log.With(slog.String("op", op), slog.String("tier", string(tier.Name)))
	report := Report{Tier: tier.Name}

	start, end := tier.Window(now)

	bookings, err := s.store.FindBookingsInWindow(ctx, start, end, dueStatuses, tier.Name)
	if err != nil {
		log.Error("failed to find due bookings", sl.Err(err))
		report.Err = fmt.Errorf("%s: %w", op, err)
		return report
	}

	report.Found = len(bookings)
	if report.Found == 0 {
		return report
	}

	log.Info("sending reminders", slog.Int("count", report.Found))

	for _, b := range bookings {
		if err := s.sender.SendReminder(ctx, b, tier.Name); err != nil {
			report.Failed++
			s.metrics.ObserveReminder(string(tier.Name), "failed")
			log.Warn("failed to send reminder, will retry next sweep", slog.Int64("id", b.ID), sl.Err(err))
			continue
		}

		if err := s.store.MarkReminderSent(ctx, b.ID, tier.Name); err != nil {
			report.FlagErrors++
			s.metrics.ObserveReminder(string(tier.Name), "flag_error")
			log.Error("reminder sent but flag not stored, duplicate possible", slog.Int64("id", b.ID), sl.Err(err))
			continue
		}

		report.Sent++
		s.metrics.ObserveReminder(string(tier.Name), "sent")
	}

	log.Info("reminder sweep done",
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Int("flag_errors", report.FlagErrors),
	)

	return report
}
