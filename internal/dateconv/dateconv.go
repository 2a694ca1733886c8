package dateconv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hbBooking/internal/lib/clock"
)

type Calendar string

const (
	Gregorian Calendar = "gregorian"
	Jalali    Calendar = "jalali"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	// ErrOutOfRange marks a real date that the Jalali arithmetic cannot
	// represent (Jalali years -61..3177, roughly Gregorian 560..3798).
	ErrOutOfRange = errors.New("date outside supported Jalali range")
)

func ParseCalendar(s string) (Calendar, error) {
	switch Calendar(strings.ToLower(strings.TrimSpace(s))) {
	case Gregorian, "":
		return Gregorian, nil
	case Jalali:
		return Jalali, nil
	}
	return "", fmt.Errorf("unknown calendar type %q", s)
}

type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

var jalaliMonths = [12]string{
	"فروردین", "اردیبهشت", "خرداد",
	"تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر",
	"دی", "بهمن", "اسفند",
}

// Converter translates dates between the storage calendar (Gregorian) and
// the calendar the site is configured to show.
type Converter struct {
	active Calendar
	clock  clock.Clock
	loc    *time.Location
}

func New(active Calendar, clk clock.Clock, loc *time.Location) *Converter {
	if clk == nil {
		clk = clock.Real{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Converter{active: active, clock: clk, loc: loc}
}

func (c *Converter) Active() Calendar {
	return c.active
}

// ToGregorian parses dateStr as a date in source and returns the matching
// Gregorian date.
func (c *Converter) ToGregorian(dateStr string, source Calendar) (Date, error) {
	y, m, d, err := splitDate(dateStr)
	if err != nil {
		return Date{}, err
	}

	if source == Jalali {
		g, ok := JalaliToGregorian(y, m, d)
		if !ok {
			return Date{}, fmt.Errorf("%w: %q is not a Jalali date", ErrInvalidDate, dateStr)
		}
		return g, nil
	}

	if !IsValidGregorian(y, m, d) {
		return Date{}, fmt.Errorf("%w: %q is not a Gregorian date", ErrInvalidDate, dateStr)
	}
	return Date{Year: y, Month: m, Day: d}, nil
}

// ToJalali converts a Gregorian date string and renders it with pattern.
// Valid Gregorian dates between roughly 560 and 3798 always convert; dates
// outside that span fail with ErrOutOfRange.
func (c *Converter) ToJalali(gregorian, pattern string) (string, error) {
	y, m, d, err := splitDate(gregorian)
	if err != nil {
		return "", err
	}

	if !IsValidGregorian(y, m, d) {
		return "", fmt.Errorf("%w: %q is not a Gregorian date", ErrInvalidDate, gregorian)
	}

	j, ok := GregorianToJalali(y, m, d)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrOutOfRange, gregorian)
	}

	return render(j, pattern, jalaliMonthName), nil
}

// IsValidDate checks dateStr against cal. Jalali years are limited to
// 1300..1500 as a sanity bound for a booking form.
func (c *Converter) IsValidDate(dateStr string, cal Calendar) bool {
	y, m, d, err := splitDate(dateStr)
	if err != nil {
		return false
	}

	if cal == Jalali {
		if y < 1300 || y > 1500 || m < 1 || m > 12 || d < 1 || d > 31 {
			return false
		}
		_, ok := JalaliToGregorian(y, m, d)
		return ok
	}

	return IsValidGregorian(y, m, d)
}

// Format renders a stored Gregorian date in cal using PHP-style tokens.
func (c *Converter) Format(gregorian string, cal Calendar, pattern string) (string, error) {
	if cal == Jalali {
		return c.ToJalali(gregorian, pattern)
	}

	g, err := c.ToGregorian(gregorian, Gregorian)
	if err != nil {
		return "", err
	}
	return render(g, pattern, gregorianMonthName), nil
}

// Display formats a stored date for humans in the active calendar and
// falls back to the raw value when it cannot be parsed.
func (c *Converter) Display(gregorian string) string {
	pattern := "Y-m-d"
	if c.active == Jalali {
		pattern = "Y/m/d"
	}

	out, err := c.Format(gregorian, c.active, pattern)
	if err != nil {
		return gregorian
	}
	return out
}

// PrepareForStorage turns user input in the active calendar into the
// canonical Gregorian YYYY-MM-DD string.
func (c *Converter) PrepareForStorage(input string) (string, error) {
	g, err := c.ToGregorian(input, c.active)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

// Today returns the current date in the active calendar.
func (c *Converter) Today(pattern string) string {
	if pattern == "" {
		pattern = "Y-m-d"
	}

	now := c.clock.Now().In(c.loc)
	g := Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}

	if c.active == Jalali {
		j, ok := GregorianToJalali(g.Year, g.Month, g.Day)
		if ok {
			return render(j, pattern, jalaliMonthName)
		}
	}
	return render(g, pattern, gregorianMonthName)
}

func (c *Converter) MonthName(month int) string {
	if c.active == Jalali {
		return jalaliMonthName(month)
	}
	return gregorianMonthName(month)
}

type DatepickerConfig struct {
	CalendarType Calendar `json:"calendar_type"`
	Format       string   `json:"format"`
	Separator    string   `json:"separator,omitempty"`
	Locale       string   `json:"locale,omitempty"`
	Today        string   `json:"today"`
	MonthNames   []string `json:"month_names,omitempty"`
}

func (c *Converter) DatepickerConfig() DatepickerConfig {
	if c.active == Jalali {
		return DatepickerConfig{
			CalendarType: Jalali,
			Format:       "YYYY-MM-DD",
			Separator:    "-",
			Locale:       "fa",
			Today:        c.Today("Y-m-d"),
			MonthNames:   c.monthNames(),
		}
	}

	return DatepickerConfig{
		CalendarType: Gregorian,
		Format:       "yy-mm-dd",
		Today:        c.Today("Y-m-d"),
		MonthNames:   c.monthNames(),
	}
}

func (c *Converter) monthNames() []string {
	names := make([]string, 12)
	for i := range names {
		names[i] = c.MonthName(i + 1)
	}
	return names
}

func jalaliMonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return jalaliMonths[m-1]
}

func gregorianMonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()
}

// splitDate accepts YYYY-MM-DD or YYYY/MM/DD, with Persian or Arabic-Indic
// digits allowed.
func splitDate(s string) (y, m, d int, err error) {
	s = strings.ReplaceAll(normalizeDigits(strings.TrimSpace(s)), "/", "-")

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q must have three parts", ErrInvalidDate, s)
	}

	var nums [3]int
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n < 0 || strings.HasPrefix(p, "+") {
			return 0, 0, 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidDate, p)
		}
		nums[i] = n
	}

	return nums[0], nums[1], nums[2], nil
}

func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// render substitutes Y y m n d j F; a backslash emits the next rune as is.
func render(d Date, pattern string, monthName func(int) string) string {
	var b strings.Builder

	escaped := false
	for _, r := range pattern {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			escaped = true
		case 'Y':
			fmt.Fprintf(&b, "%04d", d.Year)
		case 'y':
			fmt.Fprintf(&b, "%02d", d.Year%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", d.Month)
		case 'n':
			b.WriteString(strconv.Itoa(d.Month))
		case 'd':
			fmt.Fprintf(&b, "%02d", d.Day)
		case 'j':
			b.WriteString(strconv.Itoa(d.Day))
		case 'F':
			b.WriteString(monthName(d.Month))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
