package calendarsync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hbBooking/internal/config"
	"hbBooking/internal/lib/clock"
	"hbBooking/internal/models"
)

// Client mirrors bookings into an external calendar.
type Client interface {
	UpsertEvent(ctx context.Context, b models.Booking) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

const eventDuration = time.Hour

// Noop is used when no calendar integration is configured.
type Noop struct{}

func (Noop) UpsertEvent(context.Context, models.Booking) (string, error) { return "", nil }

func (Noop) DeleteEvent(context.Context, string) error { return nil }

// New builds the client selected by cfg.Integration.
func New(
	ctx context.Context,
	log *slog.Logger,
	cfg config.Calendar,
	site Site,
	loc *time.Location,
) (Client, error) {
	const op = "calendarsync.New"

	switch strings.ToLower(cfg.Integration) {
	case "google":
		g, err := NewGoogle(ctx, log, cfg.Google, site, loc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return g, nil
	case "ical":
		ic, err := NewICal(cfg.ICalDir, site, loc, clock.Real{})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return ic, nil
	case "none", "":
		return Noop{}, nil
	}

	return nil, fmt.Errorf("%s: unknown calendar integration %q", op, cfg.Integration)
}

// Site carries the organiser details written into events.
type Site struct {
	Name       string
	AdminEmail string
}

var statusLabels = map[models.Status]string{
	models.StatusPending:   "⏳ در انتظار تایید",
	models.StatusConfirmed: "✅ تایید شده",
	models.StatusCancelled: "❌ لغو شده",
	models.StatusCompleted: "✔️ انجام شده",
}

func summary(b models.Booking) string {
	country := b.TargetCountry
	if country == "" {
		country = "کشور نامشخص"
	}
	return fmt.Sprintf("جلسه مشاوره: %s - %s", b.CustomerName, country)
}

func description(b models.Booking) string {
	var sb strings.Builder

	sb.WriteString("📋 جزئیات جلسه مشاوره\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString("👤 اطلاعات شما:\n")
	fmt.Fprintf(&sb, "نام: %s\nایمیل: %s\nتلفن: %s\n\n", b.CustomerName, b.CustomerEmail, b.CustomerPhone)

	sections := []struct{ title, body string }{
		{"💼 وضعیت کسب و کار:", b.BusinessStatus},
		{"🌍 کشور مقصد:", b.TargetCountry},
		{"👥 اطلاعات تیم:", b.TeamDescription},
		{"💡 توضیح ایده:", b.IdeaDescription},
		{"🎯 خدمات مورد نیاز:", b.ServiceDescription},
		{"📝 یادداشت‌های اضافی:", b.Notes},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s\n%s\n\n", s.title, s.body)
	}

	status := b.Status
	if status == "" {
		status = models.StatusPending
	}
	label, ok := statusLabels[status]
	if !ok {
		label = string(status)
	}

	sb.WriteString(strings.Repeat("-", 50) + "\n")
	fmt.Fprintf(&sb, "وضعیت رزرو: %s\n", label)
	fmt.Fprintf(&sb, "شماره رزرو: #%d\n", b.ID)

	return sb.String()
}
