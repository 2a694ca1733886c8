package notify

import (
	"context"
	"fmt"
	"log/slog"

	"hbBooking/internal/dateconv"
	"hbBooking/internal/models"
)

// Dispatcher renders booking emails and hands them to an EmailSender.
// Dates are shown in the site's active calendar.
type Dispatcher struct {
	log        *slog.Logger
	sender     EmailSender
	conv       *dateconv.Converter
	siteName   string
	adminEmail string
}

func NewDispatcher(log *slog.Logger, sender EmailSender, conv *dateconv.Converter, siteName, adminEmail string) *Dispatcher {
	return &Dispatcher{
		log:        log,
		sender:     sender,
		conv:       conv,
		siteName:   siteName,
		adminEmail: adminEmail,
	}
}

func (d *Dispatcher) details(b models.Booking) details {
	return details{
		date: d.conv.Display(b.BookingDate),
		time: displayTime(b.BookingTime),
	}
}

func (d *Dispatcher) SendConfirmation(ctx context.Context, b models.Booking) error {
	const op = "notify.SendConfirmation"

	err := d.sender.Send(ctx, EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("[%s] Booking Confirmation", d.siteName),
		Body:    confirmationBody(b, d.details(b), d.siteName),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendAdminAlert is a no-op when no admin address is configured.
func (d *Dispatcher) SendAdminAlert(ctx context.Context, b models.Booking) error {
	const op = "notify.SendAdminAlert"

	if d.adminEmail == "" {
		d.log.Debug("admin email not configured, skipping alert", slog.String("op", op))
		return nil
	}

	err := d.sender.Send(ctx, EmailMessage{
		To:      d.adminEmail,
		Subject: fmt.Sprintf("[%s] New Booking Received", d.siteName),
		Body:    adminAlertBody(b, d.details(b)),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (d *Dispatcher) SendStatusUpdate(ctx context.Context, b models.Booking, previous models.Status) error {
	const op = "notify.SendStatusUpdate"

	err := d.sender.Send(ctx, EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("[%s] Booking Status Updated", d.siteName),
		Body:    statusUpdateBody(b, previous, d.details(b), d.siteName),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (d *Dispatcher) SendReminder(ctx context.Context, b models.Booking, tier models.ReminderTier) error {
	const op = "notify.SendReminder"

	err := d.sender.Send(ctx, EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: reminderSubject(tier, d.siteName),
		Body:    reminderBody(b, tier, d.details(b), d.siteName),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
