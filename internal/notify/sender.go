package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hbBooking/internal/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

// NewEmailSender picks the delivery backend named in cfg.Provider. Disabled
// notifications fall back to the stub sender.
func NewEmailSender(ctx context.Context, cfg config.Notifications, log *slog.Logger) (EmailSender, error) {
	const op = "notify.NewEmailSender"

	if !cfg.Enabled {
		return NewStubEmailSender(log), nil
	}

	switch strings.ToLower(cfg.Provider) {
	case "sendgrid":
		s := NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.SiteName,
		}, log)
		if s == nil {
			return nil, fmt.Errorf("%s: sendgrid api key is not set", op)
		}
		return s, nil
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: load aws config: %w", op, err)
		}
		return NewSESSender(sesv2.NewFromConfig(awsCfg), SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.SiteName,
		}, log), nil
	case "stub", "":
		return NewStubEmailSender(log), nil
	}

	return nil, fmt.Errorf("%s: unknown email provider %q", op, cfg.Provider)
}
