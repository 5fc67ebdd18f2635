package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pitchbook/internal/availability"
	"pitchbook/internal/dateutil"
	"pitchbook/internal/domain/bookings"
	"pitchbook/internal/domain/payments"
	"pitchbook/internal/domain/storage"
	"pitchbook/internal/domain/venues"
	"pitchbook/internal/mailer"
	"pitchbook/internal/notifications"
	"pitchbook/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreateBookingPayload struct {
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required,timeslot"`
}

// createBookingHandler godoc
//
//	@Summary		Request a booking
//	@Description	Creates a pending booking for a template slot. The slot must still be free: any pending or confirmed booking on the same weekday+slot, dated today or later, makes it unavailable.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			payload	body		CreateBookingPayload	true	"Requested slot"
//	@Success		201		{object}	bookings.Booking
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error	"Slot no longer available"
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/bookings [post]
func (app *application) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	var payload CreateBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	now := app.now()
	requested, err := time.ParseInLocation(availability.DateLayout, payload.Date, now.Location())
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid date, want YYYY-MM-DD: %w", err))
		return
	}
	if requested.Before(dateutil.StartOfDay(now)) {
		app.badRequestResponse(w, r, fmt.Errorf("cannot book a past date"))
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), venueID)
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	open, err := app.store.Bookings.GetOpenByVenue(r.Context(), venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resolved, _ := availability.Resolve(
		availability.Template(venue.OpenSlots),
		toResolverBookings(open),
		now,
	)
	weekday := requested.Weekday().String()
	if !slotOffered(resolved[weekday], payload.TimeSlot) {
		app.conflictResponse(w, r, fmt.Errorf("slot %s on %s is no longer available", payload.TimeSlot, weekday))
		return
	}

	booking := &bookings.Booking{
		VenueID:   venueID,
		UserID:    user.ID,
		Reference: app.refs.NewReference(user.ID, now),
		Date:      payload.Date,
		TimeSlot:  payload.TimeSlot,
		Status:    bookings.StatusPending,
	}

	if err := app.store.Bookings.Create(r.Context(), booking); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifications.SendBookingNotification(
			ctx, app.push, app.store, venue.OwnerID,
			notifications.BookingRequested, booking.Reference,
		); err != nil {
			app.logger.Warnw("booking request push failed", "error", err)
		}
	})

	if err := app.jsonResponse(w, http.StatusCreated, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

func slotOffered(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

// getVenueBookingsHandler godoc
//
//	@Summary		Owner day view of bookings
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Param			date	query		string	true	"Date YYYY-MM-DD"
//	@Param			status	query		string	false	"Filter by status"
//	@Success		200		{array}		bookings.VenueBooking
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/bookings [get]
func (app *application) getVenueBookingsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing date"))
		return
	}
	if _, err := time.Parse(availability.DateLayout, date); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid date, want YYYY-MM-DD"))
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	records, err := app.store.Bookings.GetForVenueDate(r.Context(), venueID, date, status)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, records); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMyBookingsHandler godoc
//
//	@Summary		List the signed-in user's bookings
//	@Tags			bookings
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{array}		bookings.UserBooking
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings [get]
func (app *application) getMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	p := params.ParsePagination(r.URL.Query())
	filter := bookings.BookingFilter{
		Page:  p.Page,
		Limit: p.Limit,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = &s
	}

	records, total, err := app.store.Bookings.GetByUser(r.Context(), user.ID, filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"bookings":   records,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// acceptBookingHandler godoc
//
//	@Summary		Confirm a pending booking
//	@Description	Flips the booking to confirmed and writes its earnings record in one transaction, then notifies the player by push and email.
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID		path		int	true	"Venue ID"
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		200			{object}	bookings.Booking
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error	"Booking is not pending"
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/bookings/{bookingID}/accept [patch]
func (app *application) acceptBookingHandler(w http.ResponseWriter, r *http.Request) {
	venueID, bookingID, ok := app.venueBookingIDs(w, r)
	if !ok {
		return
	}

	booking, err := app.store.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if booking.VenueID != venueID {
		app.notFoundResponse(w, r, bookings.ErrBookingNotFound)
		return
	}
	if booking.Status != bookings.StatusPending {
		app.conflictResponse(w, r, fmt.Errorf("booking is %s, only pending bookings can be accepted", booking.Status))
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	err = app.store.WithPaymentTx(r.Context(), func(tx *storage.PaymentTx) error {
		if err := tx.Bookings.UpdateStatus(r.Context(), venueID, bookingID, bookings.StatusConfirmed); err != nil {
			return err
		}
		return tx.Payments.Create(r.Context(), &payments.Payment{
			OwnerID:   venue.OwnerID,
			VenueID:   venueID,
			BookingID: &booking.ID,
			Amount:    venue.SlotPrice,
			Status:    payments.StatusPending,
			Method:    venue.PaymentMethod,
			SlotDate:  booking.Date,
			SlotTime:  booking.TimeSlot,
		})
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	booking.Status = bookings.StatusConfirmed

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := notifications.SendBookingNotification(
			ctx, app.push, app.store, booking.UserID,
			notifications.BookingConfirmed, booking.Reference,
		); err != nil {
			app.logger.Warnw("booking confirmed push failed", "error", err)
		}

		player, err := app.store.Users.GetByID(ctx, booking.UserID)
		if err != nil {
			app.logger.Warnw("could not load player for confirmation email", "error", err)
			return
		}
		vars := struct {
			Username  string
			Reference string
			VenueName string
			Date      string
			TimeSlot  string
		}{
			Username:  player.FirstName,
			Reference: booking.Reference,
			VenueName: venue.Name,
			Date:      booking.Date,
			TimeSlot:  booking.TimeSlot,
		}
		if _, err := app.mailer.Send(mailer.BookingConfirmedTemplate, player.FirstName, player.Email, vars); err != nil {
			app.logger.Warnw("booking confirmation email failed", "error", err)
		}
	})

	if err := app.jsonResponse(w, http.StatusOK, booking); err != nil {
		app.internalServerError(w, r, err)
	}
}

// rejectBookingHandler godoc
//
//	@Summary		Reject a pending booking
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID		path		int	true	"Venue ID"
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		204			{string}	string
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/bookings/{bookingID}/reject [patch]
func (app *application) rejectBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.ownerUpdateBookingStatus(w, r, bookings.StatusRejected, notifications.BookingRejected)
}

// ownerCancelBookingHandler godoc
//
//	@Summary		Cancel a booking as the owner
//	@Tags			bookings
//	@Produce		json
//	@Param			venueID		path		int	true	"Venue ID"
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		204			{string}	string
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/bookings/{bookingID}/cancel [patch]
func (app *application) ownerCancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	app.ownerUpdateBookingStatus(w, r, bookings.StatusCancelled, notifications.BookingCancelled)
}

func (app *application) ownerUpdateBookingStatus(w http.ResponseWriter, r *http.Request, status string, event notifications.BookingEvent) {
	venueID, bookingID, ok := app.venueBookingIDs(w, r)
	if !ok {
		return
	}

	booking, err := app.store.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if booking.VenueID != venueID {
		app.notFoundResponse(w, r, bookings.ErrBookingNotFound)
		return
	}
	if !availability.Blocks(booking.Status) {
		app.conflictResponse(w, r, fmt.Errorf("booking is already %s", booking.Status))
		return
	}

	if err := app.store.Bookings.UpdateStatus(r.Context(), venueID, bookingID, status); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifications.SendBookingNotification(
			ctx, app.push, app.store, booking.UserID, event, booking.Reference,
		); err != nil {
			app.logger.Warnw("booking status push failed", "error", err)
		}
	})

	w.WriteHeader(http.StatusNoContent)
}

// cancelMyBookingHandler godoc
//
//	@Summary		Cancel one of your own bookings
//	@Tags			bookings
//	@Produce		json
//	@Param			bookingID	path		int	true	"Booking ID"
//	@Success		204			{string}	string
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/bookings/{bookingID}/cancel [patch]
func (app *application) cancelMyBookingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid booking ID"))
		return
	}

	booking, err := app.store.Bookings.GetByID(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if booking.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}
	if !availability.Blocks(booking.Status) {
		app.conflictResponse(w, r, fmt.Errorf("booking is already %s", booking.Status))
		return
	}

	if err := app.store.Bookings.UpdateStatus(r.Context(), booking.VenueID, bookingID, bookings.StatusCancelled); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) venueBookingIDs(w http.ResponseWriter, r *http.Request) (venueID, bookingID int64, ok bool) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return 0, 0, false
	}
	bookingID, err = strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid booking ID"))
		return 0, 0, false
	}
	return venueID, bookingID, true
}
