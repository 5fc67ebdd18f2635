package venuerequest

import (
	"context"
	"errors"
	"time"
)

var (
	ErrVenueRequestNotFound = errors.New("venue request not found")
	ErrAlreadyDecided       = errors.New("venue request already decided")
	QueryTimeoutDuration    = time.Second * 5
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// VenueRequest is a signed-in user's application to list their venue. It is
// not a venue yet; approval creates the venue and promotes the requester to
// owner.
type VenueRequest struct {
	ID              int64    `json:"id"`
	RequesterUserID int64    `json:"requester_user_id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Description     *string  `json:"description,omitempty"`
	Amenities       []string `json:"amenities,omitempty"`
	Sport           string   `json:"sport"`
	PhoneNumber     string   `json:"phone_number"`
	Status          Status   `json:"status"`

	AdminNote *string `json:"admin_note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DecidedAt *time.Time `json:"decided_at,omitempty"`
	DecidedBy *int64     `json:"decided_by,omitempty"`
}

type CreateInput struct {
	RequesterUserID int64
	Name            string
	Address         string
	Description     *string
	Amenities       []string
	Sport           string
	PhoneNumber     string
}

type Filter struct {
	Status *Status
	Page   int
	Limit  int
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.Limit
}

type Store interface {
	Create(ctx context.Context, in *CreateInput) (*VenueRequest, error)
	GetByID(ctx context.Context, requestID int64) (*VenueRequest, error)
	List(ctx context.Context, filter Filter) ([]VenueRequest, int, error)
	ListByRequester(ctx context.Context, userID int64) ([]VenueRequest, error)

	MarkApproved(ctx context.Context, requestID, decidedBy int64, adminNote *string) error
	MarkRejected(ctx context.Context, requestID, decidedBy int64, adminNote *string) error
}
