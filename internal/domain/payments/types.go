package payments

import (
	"errors"
	"time"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	QueryTimeoutDuration = time.Second * 5
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Payment is one earnings transaction for a venue owner. Amount is in paisa.
// CreatedAt is when the record was written and drives all windowed
// aggregation; SlotDate/SlotTime describe the booked slot and are display
// only. A NULL created_at surfaces as the zero time, which keeps the record
// out of the time windows but never out of the totals.
type Payment struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	VenueID   int64     `json:"venue_id"`
	BookingID *int64    `json:"booking_id,omitempty"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"payment_method"`
	SlotDate  string    `json:"date"`
	SlotTime  string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentFilter struct {
	Status *string
	Page   int
	Limit  int
}

func (f PaymentFilter) offset() int {
	return (f.Page - 1) * f.Limit
}
