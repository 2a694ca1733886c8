package models

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ReminderTier names one of the two independent reminder schedules.
type ReminderTier string

const (
	Tier24h   ReminderTier = "24h"
	Tier30min ReminderTier = "30min"
)

type Booking struct {
	ID                 int64     `json:"id"`
	CustomerName       string    `json:"customer_name"`
	CustomerEmail      string    `json:"customer_email"`
	CustomerPhone      string    `json:"customer_phone"`
	BookingDate        string    `json:"booking_date"`
	BookingTime        string    `json:"booking_time"`
	BusinessStatus     string    `json:"business_status,omitempty"`
	TargetCountry      string    `json:"target_country,omitempty"`
	TeamSize           int       `json:"team_size"`
	TeamDescription    string    `json:"team_description,omitempty"`
	IdeaDescription    string    `json:"idea_description,omitempty"`
	ServiceDescription string    `json:"service_description,omitempty"`
	Services           string    `json:"services,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Status             Status    `json:"status"`
	GoogleEventID      string    `json:"google_event_id,omitempty"`
	ReminderSent24h    bool      `json:"reminder_sent_24h"`
	ReminderSent30min  bool      `json:"reminder_sent_30min"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StartsAt combines the stored Gregorian date and time in loc.
func (b Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04:05", b.BookingDate+" "+b.BookingTime, loc)
}

// Filter narrows ListBookings. Empty fields are ignored; set fields are ANDed.
type Filter struct {
	Status        Status
	DateFrom      string
	DateTo        string
	CustomerEmail string
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	CustomerName       *string
	CustomerEmail      *string
	CustomerPhone      *string
	BookingDate        *string
	BookingTime        *string
	BusinessStatus     *string
	TargetCountry      *string
	TeamSize           *int
	TeamDescription    *string
	IdeaDescription    *string
	ServiceDescription *string
	Services           *string
	Notes              *string
	Status             *Status
	GoogleEventID      *string
}

func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns a copy of b with the patch fields written over it.
func (p Patch) Apply(b Booking) Booking {
	if p.CustomerName != nil {
		b.CustomerName = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		b.CustomerEmail = *p.CustomerEmail
	}
	if p.CustomerPhone != nil {
		b.CustomerPhone = *p.CustomerPhone
	}
	if p.BookingDate != nil {
		b.BookingDate = *p.BookingDate
	}
	if p.BookingTime != nil {
		b.BookingTime = *p.BookingTime
	}
	if p.BusinessStatus != nil {
		b.BusinessStatus = *p.BusinessStatus
	}
	if p.TargetCountry != nil {
		b.TargetCountry = *p.TargetCountry
	}
	if p.TeamSize != nil {
		b.TeamSize = *p.TeamSize
	}
	if p.TeamDescription != nil {
		b.TeamDescription = *p.TeamDescription
	}
	if p.IdeaDescription != nil {
		b.IdeaDescription = *p.IdeaDescription
	}
	if p.ServiceDescription != nil {
		b.ServiceDescription = *p.ServiceDescription
	}
	if p.Services != nil {
		b.Services = *p.Services
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.GoogleEventID != nil {
		b.GoogleEventID = *p.GoogleEventID
	}
	return b
}
