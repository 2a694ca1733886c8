package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hbBooking/internal/config"
	"hbBooking/internal/models"
	"hbBooking/internal/storage"

	"github.com/lib/pq"
)

const (
	uniqueViolation = "23505"
	slotConstraint  = "bookings_active_slot_key"

	// windowLayout matches the text form of a Postgres timestamp.
	windowLayout = "2006-01-02 15:04:05"
)

const bookingColumns = `id, customer_name, customer_email, customer_phone,
	to_char(booking_date, 'YYYY-MM-DD'), to_char(booking_time, 'HH24:MI:SS'),
	COALESCE(business_status, ''), COALESCE(target_country, ''), COALESCE(team_size, 0),
	COALESCE(team_description, ''), COALESCE(idea_description, ''), COALESCE(service_description, ''),
	COALESCE(services, ''), COALESCE(notes, ''), status, COALESCE(google_event_id, ''),
	reminder_sent_24h, reminder_sent_30min, created_at, updated_at`

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return New(db), nil
}

func New(db *sql.DB) *Storage {
	return &Storage{DB: db}
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b      models.Booking
		status string
	)

	err := row.Scan(
		&b.ID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.BookingDate,
		&b.BookingTime,
		&b.BusinessStatus,
		&b.TargetCountry,
		&b.TeamSize,
		&b.TeamDescription,
		&b.IdeaDescription,
		&b.ServiceDescription,
		&b.Services,
		&b.Notes,
		&status,
		&b.GoogleEventID,
		&b.ReminderSent24h,
		&b.ReminderSent30min,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	b.Status = models.Status(status)

	return b, err
}

func scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && pqErr.Constraint == slotConstraint
}

func tierColumn(tier models.ReminderTier) (string, error) {
	switch tier {
	case models.Tier24h:
		return "reminder_sent_24h", nil
	case models.Tier30min:
		return "reminder_sent_30min", nil
	}
	return "", fmt.Errorf("unknown reminder tier %q", tier)
}

// IsSlotAvailable reports whether no live booking holds (date, tm).
// excludeID skips one booking, used when a booking is moved in place.
func (s *Storage) IsSlotAvailable(ctx context.Context, date, tm string, excludeID int64) (bool, error) {
	const op = "storage.postgres.IsSlotAvailable"

	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE booking_date = $1
		AND booking_time = $2
		AND status <> 'cancelled'
		AND id <> $3`

	var count int
	if err := s.DB.QueryRowContext(ctx, query, date, tm, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return count == 0, nil
}

func (s *Storage) CreateBooking(ctx context.Context, b models.Booking) (int64, error) {
	const op = "storage.postgres.CreateBooking"

	if b.Status == "" {
		b.Status = models.StatusPending
	}

	query := `
		INSERT INTO bookings (
			customer_name, customer_email, customer_phone, booking_date, booking_time,
			business_status, target_country, team_size, team_description, idea_description,
			service_description, services, notes, status, google_event_id
		)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, ''), NULLIF($10, ''),
			NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), $14, NULLIF($15, ''))
		RETURNING id`

	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.BookingDate,
		b.BookingTime,
		b.BusinessStatus,
		b.TargetCountry,
		b.TeamSize,
		b.TeamDescription,
		b.IdeaDescription,
		b.ServiceDescription,
		b.Services,
		b.Notes,
		string(b.Status),
		b.GoogleEventID,
	).Scan(&id)
	if err != nil {
		if isSlotConflict(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrSlotTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	const op = "storage.postgres.GetBooking"

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &b, nil
}

// ListBookings returns bookings matching every set filter field, newest slot first.
func (s *Storage) ListBookings(ctx context.Context, f models.Filter) ([]models.Booking, error) {
	const op = "storage.postgres.ListBookings"

	var (
		where []string
		args  []any
	)

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.DateFrom != "" {
		add("booking_date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		add("booking_date <= $%d", f.DateTo)
	}
	if f.CustomerEmail != "" {
		add("customer_email = $%d", f.CustomerEmail)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY booking_date DESC, booking_time DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// BookedTimesForDate lists the distinct times held by live bookings on date.
func (s *Storage) BookedTimesForDate(ctx context.Context, date string) ([]string, error) {
	const op = "storage.postgres.BookedTimesForDate"

	query := `
		SELECT DISTINCT to_char(booking_time, 'HH24:MI:SS') AS slot
		FROM bookings
		WHERE booking_date = $1 AND status <> 'cancelled'
		ORDER BY slot ASC`

	rows, err := s.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	times := make([]string, 0)
	for rows.Next() {
		var tm string
		if err = rows.Scan(&tm); err != nil {
			return nil, fmt.Errorf("%s: failed to scan time: %w", op, err)
		}
		times = append(times, tm)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return times, nil
}

// FindBookingsInWindow returns bookings whose start lies in [start, end),
// whose status is one of statuses and whose tier flag is still unset.
// The bounds are compared as wall-clock times in their own location, so
// callers pass them in the business time zone.
func (s *Storage) FindBookingsInWindow(
	ctx context.Context,
	start, end time.Time,
	statuses []models.Status,
	tier models.ReminderTier,
) ([]models.Booking, error) {
	const op = "storage.postgres.FindBookingsInWindow"

	column, err := tierColumn(tier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (booking_date + booking_time) >= $1::timestamp
		AND (booking_date + booking_time) < $2::timestamp
		AND status = ANY($3)
		AND ` + column + ` = FALSE
		ORDER BY booking_date ASC, booking_time ASC`

	rows, err := s.DB.QueryContext(ctx, query,
		start.Format(windowLayout),
		end.Format(windowLayout),
		pq.Array(names),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (s *Storage) UpdateBooking(ctx context.Context, id int64, p models.Patch) error {
	const op = "storage.postgres.UpdateBooking"

	var (
		sets []string
		args []any
	)

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setNullable := func(column string, v string) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = NULLIF($%d, '')", column, len(args)))
	}

	if p.CustomerName != nil {
		set("customer_name", *p.CustomerName)
	}
	if p.CustomerEmail != nil {
		set("customer_email", *p.CustomerEmail)
	}
	if p.CustomerPhone != nil {
		set("customer_phone", *p.CustomerPhone)
	}
	if p.BookingDate != nil {
		set("booking_date", *p.BookingDate)
	}
	if p.BookingTime != nil {
		set("booking_time", *p.BookingTime)
	}
	if p.BusinessStatus != nil {
		setNullable("business_status", *p.BusinessStatus)
	}
	if p.TargetCountry != nil {
		setNullable("target_country", *p.TargetCountry)
	}
	if p.TeamSize != nil {
		set("team_size", *p.TeamSize)
	}
	if p.TeamDescription != nil {
		setNullable("team_description", *p.TeamDescription)
	}
	if p.IdeaDescription != nil {
		setNullable("idea_description", *p.IdeaDescription)
	}
	if p.ServiceDescription != nil {
		setNullable("service_description", *p.ServiceDescription)
	}
	if p.Services != nil {
		setNullable("services", *p.Services)
	}
	if p.Notes != nil {
		setNullable("notes", *p.Notes)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.GoogleEventID != nil {
		setNullable("google_event_id", *p.GoogleEventID)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE bookings SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrSlotTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectOneRow(op, res)
}

func (s *Storage) DeleteBooking(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteBooking"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectOneRow(op, res)
}

// MarkReminderSent latches the tier flag. Re-marking an already sent tier succeeds.
func (s *Storage) MarkReminderSent(ctx context.Context, id int64, tier models.ReminderTier) error {
	const op = "storage.postgres.MarkReminderSent"

	column, err := tierColumn(tier)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE bookings SET ` + column + ` = TRUE, updated_at = NOW() WHERE id = $1`

	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectOneRow(op, res)
}

func expectOneRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}
	return nil
}
