package users

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"pitchbook/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	CreateAndInvite(ctx context.Context, user *User, token string, exp time.Duration) error
	Activate(ctx context.Context, token string) error
	Delete(ctx context.Context, userID int64) error
	SetRole(ctx context.Context, userID int64, role string) error
	SetProfilePicture(ctx context.Context, url string, userID int64) error
	GetProfilePictureURL(ctx context.Context, userID int64) (*string, error)
	UpdateUser(ctx context.Context, userID int64, updates map[string]any) error
	SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error
	DeleteRefreshToken(ctx context.Context, userID int64) error
	GetRefreshToken(ctx context.Context, userID int64) (string, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Store {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	const q = `
	  SELECT id, first_name, last_name, email, phone, role, profile_picture_url,
	         is_active, created_at, updated_at
	  FROM users
	  WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var u User
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.ProfilePictureURL,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
	  SELECT id, first_name, last_name, email, phone, role, password,
	         is_active, created_at, updated_at
	  FROM users
	  WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var u User
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.Password.hash,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) create(ctx context.Context, tx pgx.Tx, user *User) error {
	const q = `
	  INSERT INTO users (first_name, last_name, password, email, phone)
	  VALUES ($1, $2, $3, $4, $5)
	  RETURNING id, role, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, q, user.FirstName, user.LastName, user.Password.hash, user.Email, user.Phone,
	).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		switch {
		case strings.Contains(err.Error(), `users_email_key`):
			return ErrDuplicateEmail
		case strings.Contains(err.Error(), `users_phone_key`):
			return ErrDuplicatePhoneNumber
		default:
			return err
		}
	}
	return nil
}

// CreateAndInvite inserts the user and its hashed activation invitation in
// one transaction, so a failed invite never leaves an orphaned account.
func (r *Repository) CreateAndInvite(ctx context.Context, user *User, token string, exp time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return database.WithTx(r.pool, ctx, func(tx pgx.Tx) error {
		if err := r.create(ctx, tx, user); err != nil {
			return err
		}

		const q = `
		  INSERT INTO user_invitations (token, user_id, expiry)
		  VALUES ($1, $2, $3)
		`
		_, err := tx.Exec(ctx, q, token, user.ID, time.Now().Add(exp))
		return err
	})
}

// Activate flips is_active for the user behind the (plain) activation token
// and burns the invitation.
func (r *Repository) Activate(ctx context.Context, plainToken string) error {
	hash := sha256.Sum256([]byte(plainToken))
	hashToken := hex.EncodeToString(hash[:])

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return database.WithTx(r.pool, ctx, func(tx pgx.Tx) error {
		var userID int64
		err := tx.QueryRow(ctx, `
		  SELECT user_id FROM user_invitations
		  WHERE token = $1 AND expiry > NOW()
		`, hashToken).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE users SET is_active = true WHERE id = $1`, userID); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `DELETE FROM user_invitations WHERE user_id = $1`, userID)
		return err
	})
}

func (r *Repository) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

func (r *Repository) SetRole(ctx context.Context, userID int64, role string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetProfilePicture(ctx context.Context, url string, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.pool.Exec(ctx, `UPDATE users SET profile_picture_url = $1 WHERE id = $2`, url, userID)
	return err
}

func (r *Repository) GetProfilePictureURL(ctx context.Context, userID int64) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var url *string
	err := r.pool.QueryRow(ctx, `SELECT profile_picture_url FROM users WHERE id = $1`, userID).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return url, nil
}

// UpdateUser applies a whitelisted set of column updates.
func (r *Repository) UpdateUser(ctx context.Context, userID int64, updates map[string]any) error {
	allowed := map[string]bool{
		"first_name": true,
		"last_name":  true,
		"phone":      true,
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
	args = append(args, userID)

	q := `UPDATE users SET ` + strings.Join(setClauses, ", ") +
		`, updated_at = NOW() WHERE id = $` + strconv.Itoa(i)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.pool.Exec(ctx, `UPDATE users SET refresh_token = $1 WHERE id = $2`, refreshToken, userID)
	return err
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.pool.Exec(ctx, `UPDATE users SET refresh_token = '' WHERE id = $1`, userID)
	return err
}

func (r *Repository) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var token string
	err := r.pool.QueryRow(ctx, `SELECT refresh_token FROM users WHERE id = $1`, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return token, nil
}
