package storage

import (
	"context"
	"fmt"

	"pitchbook/internal/domain/bookings"
	"pitchbook/internal/domain/complaints"
	"pitchbook/internal/domain/payments"
	"pitchbook/internal/domain/pushtokens"
	"pitchbook/internal/domain/users"
	"pitchbook/internal/domain/venuerequest"
	"pitchbook/internal/domain/venuereviews"
	"pitchbook/internal/domain/venues"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool          *pgxpool.Pool // set so WithPaymentTx can open transactions
	Users         users.Store
	Venues        venues.Store
	VenueRequests venuerequest.Store
	VenueReviews  venuereviews.Store
	Bookings      bookings.Store
	Payments      payments.Store
	Complaints    complaints.Store
	PushTokens    pushtokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:          db,
		Users:         users.NewRepository(db),
		Venues:        venues.NewRepository(db),
		VenueRequests: venuerequest.NewRepository(db),
		VenueReviews:  venuereviews.NewRepository(db),
		Bookings:      bookings.NewRepository(db),
		Payments:      payments.NewRepository(db),
		Complaints:    complaints.NewRepository(db),
		PushTokens:    pushtokens.NewRepository(db),
	}
}

// PaymentTx is a tx-scoped pair of repos for confirming a booking and writing
// its earnings record as one unit.
type PaymentTx struct {
	Bookings bookings.Store
	Payments payments.Store
}

// WithPaymentTx runs a booking-confirmation unit of work atomically: either
// the booking flips to confirmed AND the payment record exists, or neither.
func (c *Container) WithPaymentTx(ctx context.Context, fn func(tx *PaymentTx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	p := &PaymentTx{
		Bookings: bookings.NewRepository(tx),
		Payments: payments.NewRepository(tx),
	}

	if err := fn(p); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
