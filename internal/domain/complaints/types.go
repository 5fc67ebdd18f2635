package complaints

import (
	"errors"
	"time"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidTransition = errors.New("invalid complaint status transition")
	QueryTimeoutDuration = time.Second * 5
)

// Complaint statuses move forward only: open -> in_progress -> resolved.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// CanTransition reports whether a complaint may move from one status to
// another. Same-status updates are rejected so callers notice no-op requests.
func CanTransition(from, to string) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || to == StatusResolved
	case StatusInProgress:
		return to == StatusResolved
	default:
		return false
	}
}

// Complaint is a player-filed issue against a venue, worked by the owner.
type Complaint struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields
	UserName  string  `json:"user_name,omitempty"`
	VenueName string  `json:"venue_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type ComplaintFilter struct {
	Status *string
	Page   int
	Limit  int
}

func (f ComplaintFilter) offset() int {
	return (f.Page - 1) * f.Limit
}
