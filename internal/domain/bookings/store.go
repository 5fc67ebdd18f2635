package bookings

import (
	"context"
	"errors"
	"strconv"

	"pitchbook/internal/database"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, bookingID int64) (*Booking, error)
	GetOpenByVenue(ctx context.Context, venueID int64) ([]Booking, error)
	GetForVenueDate(ctx context.Context, venueID int64, date string, status *string) ([]VenueBooking, error)
	GetByUser(ctx context.Context, userID int64, filter BookingFilter) ([]UserBooking, int, error)
	UpdateStatus(ctx context.Context, venueID, bookingID int64, status string) error
	GetBookingOwner(ctx context.Context, venueID, bookingID int64) (int64, error)
}

type Repository struct {
	db database.Querier
}

// NewRepository accepts either the pool or a transaction, so confirmation
// can run inside the payment unit of work.
func NewRepository(db database.Querier) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, b *Booking) error {
	const q = `
	  INSERT INTO bookings (venue_id, user_id, reference, date, time_slot, status)
	  VALUES ($1, $2, $3, $4, $5, $6)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, q,
		b.VenueID,
		b.UserID,
		b.Reference,
		b.Date,
		b.TimeSlot,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, bookingID int64) (*Booking, error) {
	const q = `
	  SELECT id, venue_id, user_id, reference, date, time_slot, status, created_at, updated_at
	  FROM bookings
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var b Booking
	err := r.db.QueryRow(ctx, q, bookingID).Scan(
		&b.ID,
		&b.VenueID,
		&b.UserID,
		&b.Reference,
		&b.Date,
		&b.TimeSlot,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetOpenByVenue loads every booking that could still block a slot. The
// availability resolver applies the date and status rules itself; this query
// only pre-filters the statuses that can never block.
func (r *Repository) GetOpenByVenue(ctx context.Context, venueID int64) ([]Booking, error) {
	const q = `
	  SELECT id, venue_id, user_id, reference, date, time_slot, status, created_at, updated_at
	  FROM bookings
	  WHERE venue_id = $1 AND status IN ('pending', 'confirmed')
	  ORDER BY date, time_slot
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID,
			&b.VenueID,
			&b.UserID,
			&b.Reference,
			&b.Date,
			&b.TimeSlot,
			&b.Status,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) GetForVenueDate(ctx context.Context, venueID int64, date string, status *string) ([]VenueBooking, error) {
	q := `
	  SELECT
	    b.id,
	    b.reference,
	    b.user_id,
	    u.first_name || ' ' || u.last_name AS user_name,
	    u.profile_picture_url,
	    u.phone,
	    b.date,
	    b.time_slot,
	    b.status,
	    b.created_at
	  FROM bookings b
	  JOIN users u ON u.id = b.user_id
	  WHERE b.venue_id = $1 AND b.date = $2
	`
	args := []any{venueID, date}
	if status != nil {
		q += ` AND b.status = $3`
		args = append(args, *status)
	}
	q += ` ORDER BY b.time_slot, b.created_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VenueBooking
	for rows.Next() {
		var vb VenueBooking
		if err := rows.Scan(
			&vb.BookingID,
			&vb.Reference,
			&vb.UserID,
			&vb.UserName,
			&vb.UserImageURL,
			&vb.UserPhone,
			&vb.Date,
			&vb.TimeSlot,
			&vb.Status,
			&vb.RequestedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, vb)
	}
	return out, rows.Err()
}

func (r *Repository) GetByUser(ctx context.Context, userID int64, filter BookingFilter) ([]UserBooking, int, error) {
	q := `
	  SELECT
	    b.id,
	    b.reference,
	    b.venue_id,
	    v.name,
	    v.address,
	    b.date,
	    b.time_slot,
	    b.status,
	    b.created_at,
	    COUNT(*) OVER() AS total
	  FROM bookings b
	  JOIN venues v ON v.id = b.venue_id
	  WHERE b.user_id = $1
	`
	args := []any{userID}
	if filter.Status != nil {
		q += ` AND b.status = $2`
		args = append(args, *filter.Status)
	}
	q += ` ORDER BY b.created_at DESC
	  LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.offset())

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []UserBooking
	total := 0
	for rows.Next() {
		var ub UserBooking
		if err := rows.Scan(
			&ub.BookingID,
			&ub.Reference,
			&ub.VenueID,
			&ub.VenueName,
			&ub.VenueAddress,
			&ub.Date,
			&ub.TimeSlot,
			&ub.Status,
			&ub.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, ub)
	}
	return out, total, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, venueID, bookingID int64, status string) error {
	const q = `
	  UPDATE bookings
	  SET status = $1, updated_at = NOW()
	  WHERE id = $2 AND venue_id = $3
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, q, status, bookingID, venueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *Repository) GetBookingOwner(ctx context.Context, venueID, bookingID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var userID int64
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM bookings WHERE id = $1 AND venue_id = $2`,
		bookingID, venueID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrBookingNotFound
		}
		return 0, err
	}
	return userID, nil
}
