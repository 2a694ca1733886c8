package notify

import (
	"context"
	"fmt"
	"log/slog"

	"hbBooking/internal/lib/logger/sl"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers a single message. Implementations are swappable.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *slog.Logger
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig, log *slog.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	const op = "notify.SendGridSender.Send"

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	message.Subject = msg.Subject
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", msg.Body))

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.log.Error("sendgrid send failed", slog.String("op", op), slog.String("to", msg.To), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode >= 400 {
		s.log.Error("sendgrid returned error status",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("to", msg.To),
		)
		return fmt.Errorf("%s: sendgrid returned status %d", op, resp.StatusCode)
	}

	s.log.Info("email sent via sendgrid", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}

// StubEmailSender logs messages instead of sending them.
type StubEmailSender struct {
	log *slog.Logger
}

func NewStubEmailSender(log *slog.Logger) *StubEmailSender {
	return &StubEmailSender{log: log}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.log.Info("stub email sender: would send email", slog.String("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
