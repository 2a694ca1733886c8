package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"hbBooking/internal/config"
	"hbBooking/internal/dateconv"
	"hbBooking/internal/lib/clock"
	"hbBooking/internal/lib/logger/handlers/slogdiscard"
	"hbBooking/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	msgs []EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func sampleBooking() models.Booking {
	return models.Booking{
		ID:                 12,
		CustomerName:       "Sara",
		CustomerEmail:      "sara@example.com",
		CustomerPhone:      "+98912000000",
		BookingDate:        "2024-06-10",
		BookingTime:        "14:30:00",
		BusinessStatus:     "startup",
		TargetCountry:      "Germany",
		TeamSize:           1,
		TeamDescription:    "solo founder",
		IdeaDescription:    "marketplace",
		ServiceDescription: "visa advice",
		Notes:              "prefers Farsi",
		Status:             models.StatusPending,
	}
}

func newDispatcher(sender EmailSender, cal dateconv.Calendar, admin string) *Dispatcher {
	conv := dateconv.New(cal, clock.Fixed{At: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}, time.UTC)
	return NewDispatcher(slogdiscard.NewDiscardLogger(), sender, conv, "HB Booking", admin)
}

func TestSendConfirmationUsesActiveCalendar(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	d := newDispatcher(sender, dateconv.Jalali, "")

	require.NoError(t, d.SendConfirmation(context.Background(), sampleBooking()))
	require.Len(t, sender.msgs, 1)

	msg := sender.msgs[0]
	assert.Equal(t, "sara@example.com", msg.To)
	assert.Equal(t, "[HB Booking] Booking Confirmation", msg.Subject)
	assert.Contains(t, msg.Body, "Date: 1403/03/21")
	assert.Contains(t, msg.Body, "Time: 14:30")
	assert.Contains(t, msg.Body, "Status: Pending")
	assert.Contains(t, msg.Body, "Notes: prefers Farsi")
}

func TestSendAdminAlert(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	d := newDispatcher(sender, dateconv.Gregorian, "admin@example.com")

	require.NoError(t, d.SendAdminAlert(context.Background(), sampleBooking()))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, "admin@example.com", sender.msgs[0].To)
	assert.Contains(t, sender.msgs[0].Body, "#12")
	assert.Contains(t, sender.msgs[0].Body, "Date: 2024-06-10")
	assert.Contains(t, sender.msgs[0].Body, "Team size: 1 person")

	quiet := &captureSender{}
	require.NoError(t, newDispatcher(quiet, dateconv.Gregorian, "").SendAdminAlert(context.Background(), sampleBooking()))
	assert.Empty(t, quiet.msgs)
}

func TestSendStatusUpdate(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	d := newDispatcher(sender, dateconv.Gregorian, "")

	b := sampleBooking()
	b.Status = models.StatusConfirmed

	require.NoError(t, d.SendStatusUpdate(context.Background(), b, models.StatusPending))
	assert.Equal(t, "[HB Booking] Booking Status Updated", sender.msgs[0].Subject)
	assert.Contains(t, sender.msgs[0].Body, "from Pending to Confirmed")
	assert.Contains(t, sender.msgs[0].Body, "has been confirmed")
}

func TestSendReminderSubjects(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	d := newDispatcher(sender, dateconv.Gregorian, "")

	require.NoError(t, d.SendReminder(context.Background(), sampleBooking(), models.Tier24h))
	require.NoError(t, d.SendReminder(context.Background(), sampleBooking(), models.Tier30min))

	require.Len(t, sender.msgs, 2)
	assert.Equal(t, "[HB Booking] Reminder: Your Appointment Tomorrow", sender.msgs[0].Subject)
	assert.Equal(t, "[HB Booking] Reminder: Your Appointment in 30 Minutes", sender.msgs[1].Subject)
	assert.Contains(t, sender.msgs[1].Body, "starting in 30 minutes")
}

func TestDispatcherPropagatesSendError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("quota exceeded")
	d := newDispatcher(&captureSender{err: sentinel}, dateconv.Gregorian, "")

	err := d.SendReminder(context.Background(), sampleBooking(), models.Tier24h)
	assert.True(t, errors.Is(err, sentinel))
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender(t *testing.T) {
	t.Parallel()

	client := &fakeSES{}
	s := NewSESSender(client, SESConfig{FromEmail: "no-reply@example.com", FromName: "HB Booking"}, slogdiscard.NewDiscardLogger())

	err := s.Send(context.Background(), EmailMessage{To: "sara@example.com", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)

	assert.Equal(t, "HB Booking <no-reply@example.com>", aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{"sara@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Content.Simple.Subject.Data))
	assert.Equal(t, "Body", aws.ToString(client.input.Content.Simple.Body.Text.Data))

	client.err = errors.New("throttled")
	assert.Error(t, s.Send(context.Background(), EmailMessage{To: "sara@example.com"}))
}

func TestNewEmailSender(t *testing.T) {
	t.Parallel()

	log := slogdiscard.NewDiscardLogger()
	ctx := context.Background()

	s, err := NewEmailSender(ctx, config.Notifications{Enabled: false, Provider: "sendgrid"}, log)
	require.NoError(t, err)
	assert.IsType(t, &StubEmailSender{}, s)

	s, err = NewEmailSender(ctx, config.Notifications{Enabled: true, Provider: "stub"}, log)
	require.NoError(t, err)
	assert.IsType(t, &StubEmailSender{}, s)

	_, err = NewEmailSender(ctx, config.Notifications{Enabled: true, Provider: "sendgrid"}, log)
	assert.Error(t, err)

	s, err = NewEmailSender(ctx, config.Notifications{Enabled: true, Provider: "SendGrid", SendGridAPIKey: "SG.key"}, log)
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	_, err = NewEmailSender(ctx, config.Notifications{Enabled: true, Provider: "pigeon"}, log)
	assert.Error(t, err)
}

func TestDisplayTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "09:05", displayTime("09:05:00"))
	assert.Equal(t, "9am", displayTime("9am"))
}
