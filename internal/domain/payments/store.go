package payments

import (
	"context"
	"errors"
	"strconv"
	"time"

	"pitchbook/internal/database"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, paymentID int64) (*Payment, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]Payment, error)
	ListByOwner(ctx context.Context, ownerID int64, filter PaymentFilter) ([]Payment, int, error)
	MarkPaid(ctx context.Context, ownerID, paymentID int64) error
}

type Repository struct {
	db database.Querier
}

// NewRepository accepts either the pool or a transaction, so record creation
// can run inside the booking-confirmation unit of work.
func NewRepository(db database.Querier) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Payment) error {
	const q = `
	  INSERT INTO payments (owner_id, venue_id, booking_id, amount, status, payment_method, slot_date, slot_time)
	  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, q,
		p.OwnerID,
		p.VenueID,
		p.BookingID,
		p.Amount,
		p.Status,
		p.Method,
		p.SlotDate,
		p.SlotTime,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, paymentID int64) (*Payment, error) {
	const q = `
	  SELECT id, owner_id, venue_id, booking_id, amount, status, payment_method,
	         slot_date, slot_time, created_at, updated_at
	  FROM payments
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := r.db.QueryRow(ctx, q, paymentID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByOwner loads the owner's full payment set for the earnings dashboard.
// The aggregation itself happens in the earnings package; this is just the
// snapshot it folds over.
func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) ([]Payment, error) {
	const q = `
	  SELECT id, owner_id, venue_id, booking_id, amount, status, payment_method,
	         slot_date, slot_time, created_at, updated_at
	  FROM payments
	  WHERE owner_id = $1
	  ORDER BY created_at DESC NULLS LAST
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, filter PaymentFilter) ([]Payment, int, error) {
	q := `
	  SELECT id, owner_id, venue_id, booking_id, amount, status, payment_method,
	         slot_date, slot_time, created_at, updated_at,
	         COUNT(*) OVER() AS total
	  FROM payments
	  WHERE owner_id = $1
	`
	args := []any{ownerID}
	if filter.Status != nil {
		q += ` AND status = $2`
		args = append(args, *filter.Status)
	}
	q += ` ORDER BY created_at DESC NULLS LAST
	  LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.offset())

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payment
	total := 0
	for rows.Next() {
		var p Payment
		var createdAt, updatedAt *time.Time
		if err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.VenueID,
			&p.BookingID,
			&p.Amount,
			&p.Status,
			&p.Method,
			&p.SlotDate,
			&p.SlotTime,
			&createdAt,
			&updatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		p.CreatedAt = deref(createdAt)
		p.UpdatedAt = deref(updatedAt)
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repository) MarkPaid(ctx context.Context, ownerID, paymentID int64) error {
	const q = `
	  UPDATE payments
	  SET status = 'paid', updated_at = NOW()
	  WHERE id = $1 AND owner_id = $2 AND status = 'pending'
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, q, paymentID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var createdAt, updatedAt *time.Time
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.VenueID,
		&p.BookingID,
		&p.Amount,
		&p.Status,
		&p.Method,
		&p.SlotDate,
		&p.SlotTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	// NULL timestamps stay the zero time: out of every window, in the totals.
	p.CreatedAt = deref(createdAt)
	p.UpdatedAt = deref(updatedAt)
	return &p, nil
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
