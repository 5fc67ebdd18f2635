package users

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrDuplicateEmail       = errors.New("a user with that email already exists")
	ErrDuplicatePhoneNumber = errors.New("a user with that phone number already exists")
	QueryTimeoutDuration    = time.Second * 5
)

// Roles. Owners manage venues and see the earnings dashboard; admins work
// venue requests and complaint tickets.
const (
	RolePlayer = "player"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

type User struct {
	ID                int64          `json:"id"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	Role              string         `json:"role"`
	Password          password       `json:"-"`
	ProfilePictureURL sql.NullString `json:"profile_picture_url" swaggertype:"string"`
	RefreshToken      string         `json:"-"`
	IsActive          bool           `json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// password keeps the plaintext (when freshly set) and the bcrypt hash
// together, and out of any JSON output.
type password struct {
	text *string `json:"-"`
	hash []byte  `json:"-"`
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}
