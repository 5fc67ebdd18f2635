package venues

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, venueID int64) (*Venue, error)
	GetOwnerID(ctx context.Context, venueID int64) (int64, error)
	List(ctx context.Context, filter VenueFilter) ([]VenueListing, int, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Venue, error)
	UpdateInfo(ctx context.Context, venueID int64, updates map[string]any) error
	SetOpenSlots(ctx context.Context, venueID int64, openSlots map[string][]string) error
	AddPhotoURL(ctx context.Context, venueID int64, photoURL string) error
	RemovePhotoURL(ctx context.Context, venueID int64, photoURL string) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Store {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var existing int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM venues WHERE name = $1 AND owner_id = $2`,
		venue.Name, venue.OwnerID,
	).Scan(&existing)
	if err == nil {
		return ErrDuplicateVenue
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const q = `
	  INSERT INTO venues
	    (owner_id, name, address, description, phone_number, sport,
	     amenities, image_urls, open_slots, slot_price, payment_method)
	  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	  RETURNING id, created_at, updated_at
	`

	if venue.OpenSlots == nil {
		venue.OpenSlots = map[string][]string{}
	}

	return r.pool.QueryRow(ctx, q,
		venue.OwnerID,
		venue.Name,
		venue.Address,
		venue.Description,
		venue.PhoneNumber,
		venue.Sport,
		venue.Amenities,
		venue.ImageURLs,
		venue.OpenSlots,
		venue.SlotPrice,
		venue.PaymentMethod,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, venueID int64) (*Venue, error) {
	const q = `
	  SELECT id, owner_id, name, address, description, phone_number, sport,
	         amenities, image_urls, open_slots, slot_price, payment_method,
	         created_at, updated_at
	  FROM venues
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var v Venue
	err := r.pool.QueryRow(ctx, q, venueID).Scan(
		&v.ID,
		&v.OwnerID,
		&v.Name,
		&v.Address,
		&v.Description,
		&v.PhoneNumber,
		&v.Sport,
		&v.Amenities,
		&v.ImageURLs,
		&v.OpenSlots,
		&v.SlotPrice,
		&v.PaymentMethod,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) GetOwnerID(ctx context.Context, venueID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var ownerID int64
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM venues WHERE id = $1`, venueID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrVenueNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

func (r *Repository) List(ctx context.Context, filter VenueFilter) ([]VenueListing, int, error) {
	where := ""
	args := []any{}
	if filter.Sport != nil {
		where = `WHERE v.sport = $1`
		args = append(args, *filter.Sport)
	}

	limitPos := strconv.Itoa(len(args) + 1)
	offsetPos := strconv.Itoa(len(args) + 2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	q := `
	  SELECT v.id, v.name, v.address, v.sport, v.phone_number, v.image_urls, v.slot_price,
	         COUNT(rv.id) AS total_reviews,
	         COALESCE(AVG(rv.rating), 0) AS average_rating,
	         COUNT(*) OVER() AS total
	  FROM venues v
	  LEFT JOIN venue_reviews rv ON rv.venue_id = v.id
	  ` + where + `
	  GROUP BY v.id
	  ORDER BY v.created_at DESC
	  LIMIT $` + limitPos + ` OFFSET $` + offsetPos

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []VenueListing
	total := 0
	for rows.Next() {
		var l VenueListing
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Address,
			&l.Sport,
			&l.PhoneNumber,
			&l.ImageURLs,
			&l.SlotPrice,
			&l.TotalReviews,
			&l.AverageRating,
			&total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]Venue, error) {
	const q = `
	  SELECT id, owner_id, name, address, description, phone_number, sport,
	         amenities, image_urls, open_slots, slot_price, payment_method,
	         created_at, updated_at
	  FROM venues
	  WHERE owner_id = $1
	  ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Venue
	for rows.Next() {
		var v Venue
		if err := rows.Scan(
			&v.ID,
			&v.OwnerID,
			&v.Name,
			&v.Address,
			&v.Description,
			&v.PhoneNumber,
			&v.Sport,
			&v.Amenities,
			&v.ImageURLs,
			&v.OpenSlots,
			&v.SlotPrice,
			&v.PaymentMethod,
			&v.CreatedAt,
			&v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateInfo applies a whitelisted set of column updates.
func (r *Repository) UpdateInfo(ctx context.Context, venueID int64, updates map[string]any) error {
	allowed := map[string]bool{
		"name":           true,
		"address":        true,
		"description":    true,
		"phone_number":   true,
		"sport":          true,
		"amenities":      true,
		"slot_price":     true,
		"payment_method": true,
	}

	setClauses := make([]string, 0, len(updates))
	args := make([]any, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		if !allowed[col] {
			continue
		}
		setClauses = append(setClauses, col+" = $"+strconv.Itoa(i))
		args = append(args, val)
		i++
	}
	if len(setClauses) == 0 {
		return nil
	}
	args = append(args, venueID)

	q := `UPDATE venues SET ` + strings.Join(setClauses, ", ") +
		`, updated_at = NOW() WHERE id = $` + strconv.Itoa(i)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// SetOpenSlots replaces the weekly availability template wholesale. The
// editor always submits the full week, so there is no per-day merge.
func (r *Repository) SetOpenSlots(ctx context.Context, venueID int64, openSlots map[string][]string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE venues SET open_slots = $1, updated_at = NOW() WHERE id = $2`,
		openSlots, venueID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *Repository) AddPhotoURL(ctx context.Context, venueID int64, photoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`UPDATE venues SET image_urls = array_append(image_urls, $1) WHERE id = $2`,
		photoURL, venueID,
	)
	return err
}

func (r *Repository) RemovePhotoURL(ctx context.Context, venueID int64, photoURL string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`UPDATE venues SET image_urls = array_remove(image_urls, $1) WHERE id = $2`,
		photoURL, venueID,
	)
	return err
}
