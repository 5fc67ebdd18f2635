package venues

import (
	"errors"
	"time"
)

var (
	ErrVenueNotFound     = errors.New("venue not found")
	ErrDuplicateVenue    = errors.New("a venue with this name already exists for this owner")
	QueryTimeoutDuration = time.Second * 5
)

// Venue represents a venue in the database. OpenSlots is the recurring
// weekly availability template, stored as JSONB: weekday name to ordered
// slot strings ("14:00-15:00"). Only the owner's slot editor writes it.
type Venue struct {
	ID            int64               `json:"id"`
	OwnerID       int64               `json:"owner_id"`
	Name          string              `json:"name"`
	Address       string              `json:"address"`
	Description   *string             `json:"description,omitempty"`
	PhoneNumber   string              `json:"phone_number"`
	Sport         string              `json:"sport"`
	Amenities     []string            `json:"amenities,omitempty"`
	ImageURLs     []string            `json:"image_urls,omitempty"`
	OpenSlots     map[string][]string `json:"open_slots"`
	SlotPrice     int64               `json:"slot_price"` // paisa per slot
	PaymentMethod string              `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// VenueListing is the card shape for the browse screen.
type VenueListing struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Sport         string   `json:"sport"`
	PhoneNumber   string   `json:"phone_number"`
	ImageURLs     []string `json:"image_urls,omitempty"`
	SlotPrice     int64    `json:"slot_price"`
	TotalReviews  int      `json:"total_reviews"`
	AverageRating float64  `json:"average_rating"`
}

type VenueFilter struct {
	Sport *string
	Page  int
	Limit int
}
