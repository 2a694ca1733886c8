package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hbBooking/internal/config"
	"hbBooking/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const eventColorBlue = "9"

// Google syncs bookings to a Google Calendar using a stored refresh token.
type Google struct {
	log        *slog.Logger
	svc        *calendar.Service
	calendarID string
	site       Site
	loc        *time.Location
}

// NewGoogle builds the client. Extra options replace the refresh-token
// credentials, which tests use to point the client at a fake server.
func NewGoogle(
	ctx context.Context,
	log *slog.Logger,
	cfg config.Google,
	site Site,
	loc *time.Location,
	opts ...option.ClientOption,
) (*Google, error) {
	const op = "calendarsync.NewGoogle"

	if len(opts) == 0 {
		if cfg.RefreshToken == "" {
			return nil, fmt.Errorf("%s: google refresh token is not set", op)
		}
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope},
		}
		ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		opts = []option.ClientOption{option.WithTokenSource(ts)}
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	return &Google{
		log:        log,
		svc:        svc,
		calendarID: calendarID,
		site:       site,
		loc:        loc,
	}, nil
}

func (g *Google) event(b models.Booking) (*calendar.Event, error) {
	start, err := b.StartsAt(g.loc)
	if err != nil {
		return nil, err
	}
	end := start.Add(eventDuration)

	attendees := []*calendar.EventAttendee{
		{Email: b.CustomerEmail, DisplayName: b.CustomerName},
	}
	if g.site.AdminEmail != "" {
		attendees = append(attendees, &calendar.EventAttendee{Email: g.site.AdminEmail})
	}

	return &calendar.Event{
		Summary:     summary(b),
		Description: description(b),
		Location:    b.TargetCountry,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		Attendees: attendees,
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ColorId: eventColorBlue,
	}, nil
}

// UpsertEvent inserts a new event, or updates the existing one when the
// booking already carries an event id.
func (g *Google) UpsertEvent(ctx context.Context, b models.Booking) (string, error) {
	const op = "calendarsync.Google.UpsertEvent"

	ev, err := g.event(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if b.GoogleEventID != "" {
		updated, err := g.svc.Events.Update(g.calendarID, b.GoogleEventID, ev).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("%s: update: %w", op, err)
		}
		return updated.Id, nil
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%s: insert: %w", op, err)
	}

	g.log.Info("calendar event created", slog.Int64("booking_id", b.ID), slog.String("event_id", created.Id))
	return created.Id, nil
}

// DeleteEvent treats an event that is already gone as deleted.
func (g *Google) DeleteEvent(ctx context.Context, eventID string) error {
	const op = "calendarsync.Google.DeleteEvent"

	err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do()
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		g.log.Warn("calendar event already removed", slog.String("event_id", eventID))
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}

var _ Client = (*Google)(nil)
