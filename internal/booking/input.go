package booking

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"hbBooking/internal/dateconv"
	"hbBooking/internal/models"

	"github.com/go-playground/validator/v10"
)

// ServiceList accepts either a JSON string or an array of strings.
type ServiceList []string

func (s *ServiceList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = ServiceList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("services must be a string or a list of strings")
	}
	*s = many
	return nil
}

// Join trims every entry, drops empty ones and joins the rest with ", ".
func (s ServiceList) Join() string {
	parts := make([]string, 0, len(s))
	for _, p := range s {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CreateInput is a booking request as submitted by a customer. BookingDate
// is expressed in the active calendar.
type CreateInput struct {
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	BookingDate        string
	BookingTime        string
	BusinessStatus     string
	TargetCountry      string
	TeamSize           int
	TeamDescription    string
	IdeaDescription    string
	ServiceDescription string
	Services           ServiceList
	Notes              string
}

// UpdateInput is a partial update. Nil fields are left untouched.
type UpdateInput struct {
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
	Services           *ServiceList
	Notes              *string
	Status             *string
}

var validate = validator.New()

func requiredText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "field is required")
	}
	return value, nil
}

func checkEmail(value string) (string, error) {
	value = strings.TrimSpace(value)
	if err := validate.Var(value, "required,email"); err != nil {
		return "", &ValidationError{Field: "customer_email", Message: "valid email address is required", Err: err}
	}
	return value, nil
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeTime(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "field is required")
	}

	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", invalid(field, "invalid time format, expected HH:MM")
}

func (s *Service) normalizeDate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "field is required")
	}

	if !s.conv.IsValidDate(value, s.conv.Active()) {
		return "", &ValidationError{Field: field, Message: "invalid date format", Err: dateconv.ErrInvalidDate}
	}

	stored, err := s.conv.PrepareForStorage(value)
	if err != nil {
		return "", &ValidationError{Field: field, Message: "invalid date format", Err: err}
	}
	return stored, nil
}

func (s *Service) buildBooking(in CreateInput) (models.Booking, error) {
	var (
		b   models.Booking
		err error
	)

	if b.CustomerName, err = requiredText("customer_name", in.CustomerName); err != nil {
		return b, err
	}
	if b.CustomerEmail, err = checkEmail(in.CustomerEmail); err != nil {
		return b, err
	}
	if b.CustomerPhone, err = requiredText("customer_phone", in.CustomerPhone); err != nil {
		return b, err
	}
	if b.BookingDate, err = s.normalizeDate("booking_date", in.BookingDate); err != nil {
		return b, err
	}
	if b.BookingTime, err = normalizeTime("booking_time", in.BookingTime); err != nil {
		return b, err
	}
	if b.BusinessStatus, err = requiredText("business_status", in.BusinessStatus); err != nil {
		return b, err
	}
	if b.TargetCountry, err = requiredText("target_country", in.TargetCountry); err != nil {
		return b, err
	}
	if b.TeamDescription, err = requiredText("team_description", in.TeamDescription); err != nil {
		return b, err
	}
	if b.IdeaDescription, err = requiredText("idea_description", in.IdeaDescription); err != nil {
		return b, err
	}
	if b.ServiceDescription, err = requiredText("service_description", in.ServiceDescription); err != nil {
		return b, err
	}
	if in.TeamSize < 0 {
		return b, invalid("team_size", "must not be negative")
	}

	b.TeamSize = in.TeamSize
	b.Services = in.Services.Join()
	b.Notes = strings.TrimSpace(in.Notes)
	b.Status = models.StatusPending

	return b, nil
}

func (s *Service) buildPatch(in UpdateInput) (models.Patch, error) {
	var p models.Patch

	required := []struct {
		field string
		in    *string
		out   **string
	}{
		{"customer_name", in.CustomerName, &p.CustomerName},
		{"customer_phone", in.CustomerPhone, &p.CustomerPhone},
		{"business_status", in.BusinessStatus, &p.BusinessStatus},
		{"target_country", in.TargetCountry, &p.TargetCountry},
		{"team_description", in.TeamDescription, &p.TeamDescription},
		{"idea_description", in.IdeaDescription, &p.IdeaDescription},
		{"service_description", in.ServiceDescription, &p.ServiceDescription},
	}
	for _, r := range required {
		if r.in == nil {
			continue
		}
		v, err := requiredText(r.field, *r.in)
		if err != nil {
			return p, err
		}
		*r.out = &v
	}

	if in.CustomerEmail != nil {
		v, err := checkEmail(*in.CustomerEmail)
		if err != nil {
			return p, err
		}
		p.CustomerEmail = &v
	}
	if in.BookingDate != nil {
		v, err := s.normalizeDate("booking_date", *in.BookingDate)
		if err != nil {
			return p, err
		}
		p.BookingDate = &v
	}
	if in.BookingTime != nil {
		v, err := normalizeTime("booking_time", *in.BookingTime)
		if err != nil {
			return p, err
		}
		p.BookingTime = &v
	}
	if in.TeamSize != nil {
		if *in.TeamSize < 0 {
			return p, invalid("team_size", "must not be negative")
		}
		p.TeamSize = in.TeamSize
	}
	if in.Services != nil {
		v := in.Services.Join()
		p.Services = &v
	}
	if in.Notes != nil {
		v := strings.TrimSpace(*in.Notes)
		p.Notes = &v
	}
	if in.Status != nil {
		st := models.Status(strings.TrimSpace(*in.Status))
		if !st.Valid() {
			return p, invalid("status", "must be one of pending, confirmed, cancelled, completed")
		}
		p.Status = &st
	}

	return p, nil
}
