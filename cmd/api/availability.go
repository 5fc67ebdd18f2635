package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pitchbook/internal/availability"
	"pitchbook/internal/domain/bookings"
	"pitchbook/internal/domain/venues"

	"github.com/go-chi/chi/v5"
)

func toResolverBookings(records []bookings.Booking) []availability.Booking {
	out := make([]availability.Booking, 0, len(records))
	for _, b := range records {
		out = append(out, availability.Booking{
			VenueID:  b.VenueID,
			Date:     b.Date,
			TimeSlot: b.TimeSlot,
			Status:   b.Status,
			BookedBy: b.UserID,
		})
	}
	return out
}

// getVenueAvailabilityHandler godoc
//
//	@Summary		Still-bookable slots per weekday
//	@Description	Resolves the venue's weekly template against its open bookings. A pending or confirmed booking dated today or later removes its weekday+slot pair across the whole template; weekdays with nothing left are omitted.
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	map[string][]string	"Weekday to free slots"
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/venues/{venueID}/availability [get]
func (app *application) getVenueAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
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

	resolved, skipped := availability.Resolve(
		availability.Template(venue.OpenSlots),
		toResolverBookings(open),
		app.now(),
	)
	if skipped > 0 {
		app.logger.Warnw("bookings with malformed dates skipped",
			"venue_id", venueID, "count", skipped)
	}

	if err := app.jsonResponse(w, http.StatusOK, resolved); err != nil {
		app.internalServerError(w, r, err)
	}
}
