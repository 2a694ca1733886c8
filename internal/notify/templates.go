package notify

import (
	"fmt"
	"strings"
	"time"

	"hbBooking/internal/models"
)

type details struct {
	date string
	time string
}

// displayTime drops the seconds from a stored HH:MM:SS value.
func displayTime(stored string) string {
	t, err := time.Parse("15:04:05", stored)
	if err != nil {
		return stored
	}
	return t.Format("15:04")
}

func statusLabel(s models.Status) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func writeDetails(b *strings.Builder, bk models.Booking, d details, withNotes bool) {
	fmt.Fprintf(b, "Date: %s\n", d.date)
	fmt.Fprintf(b, "Time: %s\n", d.time)
	if bk.BusinessStatus != "" {
		fmt.Fprintf(b, "Business status: %s\n", bk.BusinessStatus)
	}
	if bk.TargetCountry != "" {
		fmt.Fprintf(b, "Target country: %s\n", bk.TargetCountry)
	}
	if withNotes && bk.Notes != "" {
		fmt.Fprintf(b, "Notes: %s\n", bk.Notes)
	}
}

func footer(b *strings.Builder, site string) {
	fmt.Fprintf(b, "\n-- \n%s\nThis is an automated message, please do not reply directly to this email.\n", site)
}

func confirmationBody(bk models.Booking, d details, site string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", bk.CustomerName)
	b.WriteString("Thank you for your booking! Here are the details:\n\n")
	writeDetails(&b, bk, d, true)
	fmt.Fprintf(&b, "Status: %s\n\n", statusLabel(bk.Status))
	b.WriteString("We will confirm your booking shortly. If you have any questions, please don't hesitate to contact us.\n")
	footer(&b, site)

	return b.String()
}

func adminAlertBody(bk models.Booking, d details) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A new booking was received (#%d).\n\n", bk.ID)
	fmt.Fprintf(&b, "Name: %s\n", bk.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", bk.CustomerEmail)
	fmt.Fprintf(&b, "Phone: %s\n", bk.CustomerPhone)
	writeDetails(&b, bk, d, true)

	if bk.TeamSize > 0 {
		unit := "people"
		if bk.TeamSize == 1 {
			unit = "person"
		}
		fmt.Fprintf(&b, "Team size: %d %s\n", bk.TeamSize, unit)
	}
	if bk.TeamDescription != "" {
		fmt.Fprintf(&b, "\nTeam:\n%s\n", bk.TeamDescription)
	}
	if bk.IdeaDescription != "" {
		fmt.Fprintf(&b, "\nIdea:\n%s\n", bk.IdeaDescription)
	}
	if bk.ServiceDescription != "" {
		fmt.Fprintf(&b, "\nRequested service:\n%s\n", bk.ServiceDescription)
	}
	if bk.Services != "" {
		fmt.Fprintf(&b, "Services: %s\n", bk.Services)
	}

	return b.String()
}

func statusUpdateBody(bk models.Booking, previous models.Status, d details, site string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", bk.CustomerName)
	fmt.Fprintf(&b, "The status of your booking changed from %s to %s.\n\n", statusLabel(previous), statusLabel(bk.Status))
	writeDetails(&b, bk, d, false)
	b.WriteString("\n")

	switch bk.Status {
	case models.StatusConfirmed:
		b.WriteString("Great news! Your booking has been confirmed. We look forward to seeing you!\n")
	case models.StatusCancelled:
		b.WriteString("Your booking has been cancelled. If you have any questions, please contact us.\n")
	}
	footer(&b, site)

	return b.String()
}

func reminderBody(bk models.Booking, tier models.ReminderTier, d details, site string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", bk.CustomerName)
	if tier == models.Tier30min {
		b.WriteString("Your appointment is starting in 30 minutes!\n\n")
	} else {
		b.WriteString("This is a reminder that your appointment is tomorrow.\n\n")
	}
	writeDetails(&b, bk, d, true)
	b.WriteString("\nPlease make sure you are ready for your appointment. If you need to reschedule or cancel, please contact us as soon as possible.\n")
	footer(&b, site)

	return b.String()
}

func reminderSubject(tier models.ReminderTier, site string) string {
	if tier == models.Tier30min {
		return fmt.Sprintf("[%s] Reminder: Your Appointment in 30 Minutes", site)
	}
	return fmt.Sprintf("[%s] Reminder: Your Appointment Tomorrow", site)
}
