package complaints

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, complaintID int64) (*Complaint, error)
	ListByVenue(ctx context.Context, venueID int64, filter ComplaintFilter) ([]Complaint, int, error)
	ListByUser(ctx context.Context, userID int64) ([]Complaint, error)
	UpdateStatus(ctx context.Context, venueID, complaintID int64, status string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *Complaint) error {
	const q = `
	  INSERT INTO complaints (venue_id, user_id, subject, body, status)
	  VALUES ($1, $2, $3, $4, $5)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	c.Status = StatusOpen
	return r.db.QueryRow(ctx, q,
		c.VenueID,
		c.UserID,
		c.Subject,
		c.Body,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, complaintID int64) (*Complaint, error) {
	const q = `
	  SELECT id, venue_id, user_id, subject, body, status, created_at, updated_at
	  FROM complaints
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var c Complaint
	err := r.db.QueryRow(ctx, q, complaintID).Scan(
		&c.ID,
		&c.VenueID,
		&c.UserID,
		&c.Subject,
		&c.Body,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListByVenue(ctx context.Context, venueID int64, filter ComplaintFilter) ([]Complaint, int, error) {
	q := `
	  SELECT
	    c.id, c.venue_id, c.user_id, c.subject, c.body, c.status,
	    c.created_at, c.updated_at,
	    u.first_name || ' ' || u.last_name AS user_name,
	    u.profile_picture_url,
	    COUNT(*) OVER() AS total
	  FROM complaints c
	  JOIN users u ON u.id = c.user_id
	  WHERE c.venue_id = $1
	`
	args := []any{venueID}
	if filter.Status != nil {
		q += ` AND c.status = $2`
		args = append(args, *filter.Status)
	}
	q += ` ORDER BY c.created_at DESC
	  LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.offset())

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Complaint
	total := 0
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(
			&c.ID,
			&c.VenueID,
			&c.UserID,
			&c.Subject,
			&c.Body,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.UserName,
			&c.AvatarURL,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Complaint, error) {
	const q = `
	  SELECT
	    c.id, c.venue_id, c.user_id, c.subject, c.body, c.status,
	    c.created_at, c.updated_at,
	    v.name AS venue_name
	  FROM complaints c
	  JOIN venues v ON v.id = c.venue_id
	  WHERE c.user_id = $1
	  ORDER BY c.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(
			&c.ID,
			&c.VenueID,
			&c.UserID,
			&c.Subject,
			&c.Body,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.VenueName,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus enforces the forward-only state machine in SQL: the current
// status must be one the target is reachable from.
func (r *Repository) UpdateStatus(ctx context.Context, venueID, complaintID int64, status string) error {
	current, err := r.GetByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if current.VenueID != venueID {
		return ErrComplaintNotFound
	}
	if !CanTransition(current.Status, status) {
		return ErrInvalidTransition
	}

	const q = `
	  UPDATE complaints
	  SET status = $1, updated_at = NOW()
	  WHERE id = $2 AND venue_id = $3 AND status = $4
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, q, status, complaintID, venueID, current.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Raced with another transition; the guard above already vetted it.
		return ErrInvalidTransition
	}
	return nil
}
