package pushtokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error
	Remove(ctx context.Context, userID int64, token string) error
	RemoveByTokenList(ctx context.Context, tokens []string) error
	GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error)
	PruneStale(ctx context.Context, olderThan time.Duration) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// AddOrUpdate upserts the token with its device info and refreshes
// last_updated, so one device switching users moves the token over.
func (r *Repository) AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error {
	const q = `
	  INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	  VALUES ($1, $2, $3, NOW())
	  ON CONFLICT (user_id, expo_push_token)
	  DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW()
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, q, userID, token, deviceInfo)
	return err
}

func (r *Repository) Remove(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`,
		userID, token)
	return err
}

// RemoveByTokenList drops tokens Expo reported as dead devices.
func (r *Repository) RemoveByTokenList(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`DELETE FROM user_push_tokens WHERE expo_push_token = ANY($1)`,
		tokens)
	return err
}

// GetByUserIDs returns each user's registered push tokens, keyed by user id.
// Users with no tokens are simply absent from the map.
func (r *Repository) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(userIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT user_id, expo_push_token FROM user_push_tokens WHERE user_id = ANY($1)`,
		userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var uid int64
		var token string
		if err := rows.Scan(&uid, &token); err != nil {
			return nil, err
		}
		result[uid] = append(result[uid], token)
	}
	return result, rows.Err()
}

func (r *Repository) PruneStale(ctx context.Context, olderThan time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	interval := fmt.Sprintf("%d seconds", int64(olderThan.Seconds()))
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_push_tokens WHERE last_updated < NOW() - $1::interval`,
		interval)
	return err
}
