package venuerequest

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, in *CreateInput) (*VenueRequest, error) {
	const q = `
	  INSERT INTO venue_requests (
	    requester_user_id, name, address, description, amenities, sport, phone_number
	  ) VALUES ($1, $2, $3, $4, $5, $6, $7)
	  RETURNING id, status, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	vr := &VenueRequest{
		RequesterUserID: in.RequesterUserID,
		Name:            in.Name,
		Address:         in.Address,
		Description:     in.Description,
		Amenities:       in.Amenities,
		Sport:           in.Sport,
		PhoneNumber:     in.PhoneNumber,
	}

	err := r.db.QueryRow(ctx, q,
		in.RequesterUserID,
		in.Name,
		in.Address,
		in.Description,
		in.Amenities,
		in.Sport,
		in.PhoneNumber,
	).Scan(&vr.ID, &vr.Status, &vr.CreatedAt, &vr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return vr, nil
}

func (r *Repository) GetByID(ctx context.Context, requestID int64) (*VenueRequest, error) {
	const q = `
	  SELECT id, requester_user_id, name, address, description, amenities,
	         sport, phone_number, status, admin_note,
	         created_at, updated_at, decided_at, decided_by
	  FROM venue_requests
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var vr VenueRequest
	err := r.db.QueryRow(ctx, q, requestID).Scan(
		&vr.ID,
		&vr.RequesterUserID,
		&vr.Name,
		&vr.Address,
		&vr.Description,
		&vr.Amenities,
		&vr.Sport,
		&vr.PhoneNumber,
		&vr.Status,
		&vr.AdminNote,
		&vr.CreatedAt,
		&vr.UpdatedAt,
		&vr.DecidedAt,
		&vr.DecidedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueRequestNotFound
		}
		return nil, err
	}
	return &vr, nil
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]VenueRequest, int, error) {
	q := `
	  SELECT id, requester_user_id, name, address, description, amenities,
	         sport, phone_number, status, admin_note,
	         created_at, updated_at, decided_at, decided_by,
	         COUNT(*) OVER() AS total
	  FROM venue_requests
	  WHERE 1 = 1
	`
	var args []any
	if filter.Status != nil {
		q += ` AND status = $1`
		args = append(args, *filter.Status)
	}
	q += ` ORDER BY created_at DESC
	  LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.offset())

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []VenueRequest
	total := 0
	for rows.Next() {
		var vr VenueRequest
		if err := rows.Scan(
			&vr.ID,
			&vr.RequesterUserID,
			&vr.Name,
			&vr.Address,
			&vr.Description,
			&vr.Amenities,
			&vr.Sport,
			&vr.PhoneNumber,
			&vr.Status,
			&vr.AdminNote,
			&vr.CreatedAt,
			&vr.UpdatedAt,
			&vr.DecidedAt,
			&vr.DecidedBy,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, vr)
	}
	return out, total, rows.Err()
}

func (r *Repository) ListByRequester(ctx context.Context, userID int64) ([]VenueRequest, error) {
	const q = `
	  SELECT id, requester_user_id, name, address, description, amenities,
	         sport, phone_number, status, admin_note,
	         created_at, updated_at, decided_at, decided_by
	  FROM venue_requests
	  WHERE requester_user_id = $1
	  ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VenueRequest
	for rows.Next() {
		var vr VenueRequest
		if err := rows.Scan(
			&vr.ID,
			&vr.RequesterUserID,
			&vr.Name,
			&vr.Address,
			&vr.Description,
			&vr.Amenities,
			&vr.Sport,
			&vr.PhoneNumber,
			&vr.Status,
			&vr.AdminNote,
			&vr.CreatedAt,
			&vr.UpdatedAt,
			&vr.DecidedAt,
			&vr.DecidedBy,
		); err != nil {
			return nil, err
		}
		out = append(out, vr)
	}
	return out, rows.Err()
}

func (r *Repository) MarkApproved(ctx context.Context, requestID, decidedBy int64, adminNote *string) error {
	return r.decide(ctx, requestID, decidedBy, StatusApproved, adminNote)
}

func (r *Repository) MarkRejected(ctx context.Context, requestID, decidedBy int64, adminNote *string) error {
	return r.decide(ctx, requestID, decidedBy, StatusRejected, adminNote)
}

// decide flips a still-pending request. Requests that have already been
// approved or rejected stay as they are.
func (r *Repository) decide(ctx context.Context, requestID, decidedBy int64, status Status, adminNote *string) error {
	const q = `
	  UPDATE venue_requests
	  SET status = $1, admin_note = $2, decided_at = NOW(), decided_by = $3, updated_at = NOW()
	  WHERE id = $4 AND status = 'requested'
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, q, status, adminNote, decidedBy, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, requestID); getErr != nil {
			return getErr
		}
		return ErrAlreadyDecided
	}
	return nil
}
