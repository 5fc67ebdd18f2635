package venuereviews

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	GetByVenue(ctx context.Context, venueID int64) ([]Review, error)
	Delete(ctx context.Context, reviewID, userID int64) error
	Stats(ctx context.Context, venueID int64) (total int, average float64, err error)
	HasReview(ctx context.Context, venueID, userID int64) (bool, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	const q = `
	  INSERT INTO venue_reviews (venue_id, user_id, rating, comment)
	  VALUES ($1, $2, $3, $4)
	  RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, q,
		review.VenueID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "venue_reviews_venue_id_user_id_key") {
			return ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *Repository) GetByVenue(ctx context.Context, venueID int64) ([]Review, error) {
	const q = `
	  SELECT vr.id, vr.venue_id, vr.user_id, vr.rating, vr.comment,
	         vr.created_at, vr.updated_at,
	         u.first_name || ' ' || u.last_name AS user_name,
	         u.profile_picture_url
	  FROM venue_reviews vr
	  JOIN users u ON u.id = vr.user_id
	  WHERE vr.venue_id = $1
	  ORDER BY vr.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		if err := rows.Scan(
			&review.ID,
			&review.VenueID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.UserName,
			&review.AvatarURL,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, reviewID, userID int64) error {
	const q = `DELETE FROM venue_reviews WHERE id = $1 AND user_id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, q, reviewID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context, venueID int64) (int, float64, error) {
	const q = `
	  SELECT COUNT(id), COALESCE(AVG(rating), 0)
	  FROM venue_reviews
	  WHERE venue_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	var average float64
	err := r.db.QueryRow(ctx, q, venueID).Scan(&total, &average)
	return total, average, err
}

func (r *Repository) HasReview(ctx context.Context, venueID, userID int64) (bool, error) {
	const q = `
	  SELECT EXISTS (
	    SELECT 1 FROM venue_reviews WHERE venue_id = $1 AND user_id = $2
	  )
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, q, venueID, userID).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	return exists, nil
}
