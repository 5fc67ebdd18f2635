package bookings

import (
	"errors"
	"time"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	QueryTimeoutDuration = time.Second * 5
)

// Booking statuses. pending and confirmed consume a template slot; rejected
// and cancelled free it again.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Booking represents a booking record. Date is the calendar date of the
// booked slot kept as a plain "2006-01-02" string, the format the mobile
// client has always written; TimeSlot matches a venue template slot string.
type Booking struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Reference string    `json:"reference"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VenueBooking is the owner's day-view shape, joined with the player.
type VenueBooking struct {
	BookingID    int64     `json:"booking_id"`
	Reference    string    `json:"reference"`
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserImageURL *string   `json:"user_image"`
	UserPhone    string    `json:"user_number"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Status       string    `json:"status"`
	RequestedAt  time.Time `json:"requested_at"`
}

// UserBooking is the player's list shape, joined with the venue.
type UserBooking struct {
	BookingID    int64     `json:"booking_id"`
	Reference    string    `json:"reference"`
	VenueID      int64     `json:"venue_id"`
	VenueName    string    `json:"venue_name"`
	VenueAddress string    `json:"venue_address"`
	Date         string    `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookingFilter struct {
	Status *string // nil = no filtering
	Page   int     // 1-based
	Limit  int
}

func (f BookingFilter) offset() int {
	return (f.Page - 1) * f.Limit
}
