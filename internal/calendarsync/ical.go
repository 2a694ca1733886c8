package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hbBooking/internal/lib/clock"
	"hbBooking/internal/models"

	"github.com/google/uuid"
)

// ICal writes one .ics file per booking into dir. The event id is the
// file's UID, so the file can be rewritten or removed later.
type ICal struct {
	dir   string
	site  Site
	loc   *time.Location
	clock clock.Clock
}

func NewICal(dir string, site Site, loc *time.Location, clk clock.Clock) (*ICal, error) {
	const op = "calendarsync.NewICal"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ICal{dir: dir, site: site, loc: loc, clock: clk}, nil
}

func (c *ICal) path(eventID string) (string, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return "", fmt.Errorf("invalid ical event id %q", eventID)
	}
	return filepath.Join(c.dir, eventID+".ics"), nil
}

func (c *ICal) UpsertEvent(_ context.Context, b models.Booking) (string, error) {
	const op = "calendarsync.ICal.UpsertEvent"

	eventID := b.GoogleEventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	p, err := c.path(eventID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	body, err := c.render(eventID, b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return eventID, nil
}

func (c *ICal) DeleteEvent(_ context.Context, eventID string) error {
	const op = "calendarsync.ICal.DeleteEvent"

	p, err := c.path(eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const icsStamp = "20060102T150405Z"

func (c *ICal) render(eventID string, b models.Booking) (string, error) {
	start, err := b.StartsAt(c.loc)
	if err != nil {
		return "", err
	}
	end := start.Add(eventDuration)

	status := "TENTATIVE"
	switch b.Status {
	case models.StatusConfirmed, models.StatusCompleted:
		status = "CONFIRMED"
	case models.StatusCancelled:
		status = "CANCELLED"
	}

	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//HB Booking//Booking Service//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("BEGIN:VEVENT")
	line("UID:" + eventID + "@hb-booking")
	line("DTSTAMP:" + c.clock.Now().UTC().Format(icsStamp))
	line("DTSTART:" + start.UTC().Format(icsStamp))
	line("DTEND:" + end.UTC().Format(icsStamp))
	line("SUMMARY:" + escapeText(summary(b)))
	line("DESCRIPTION:" + escapeText(description(b)))
	if b.TargetCountry != "" {
		line("LOCATION:" + escapeText(b.TargetCountry))
	}
	if c.site.AdminEmail != "" {
		line("ORGANIZER;CN=" + escapeParam(c.site.Name) + ":mailto:" + c.site.AdminEmail)
	}
	line("ATTENDEE;CN=" + escapeParam(b.CustomerName) + ";RSVP=TRUE:mailto:" + b.CustomerEmail)
	line("STATUS:" + status)
	line("SEQUENCE:0")
	line("CLASS:PUBLIC")
	line("END:VEVENT")
	line("END:VCALENDAR")

	return sb.String(), nil
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r", "",
	"\n", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeParam(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}

var _ Client = (*ICal)(nil)
