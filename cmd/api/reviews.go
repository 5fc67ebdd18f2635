package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pitchbook/internal/domain/venuereviews"

	"github.com/go-chi/chi/v5"
)

type CreateReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// createVenueReviewHandler godoc
//
//	@Summary		Review a venue
//	@Description	Creates a 1-5 star review. One review per user per venue.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	venuereviews.Review
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error	"Already reviewed"
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/reviews [post]
func (app *application) createVenueReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review := &venuereviews.Review{
		VenueID: venueID,
		UserID:  user.ID,
		Rating:  payload.Rating,
		Comment: payload.Comment,
	}

	if err := app.store.VenueReviews.Create(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, venuereviews.ErrAlreadyReviewed):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueReviewsHandler godoc
//
//	@Summary		List venue reviews with stats
//	@Tags			reviews
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{array}		venuereviews.Review
//	@Failure		500		{object}	error
//	@Router			/venues/{venueID}/reviews [get]
func (app *application) getVenueReviewsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	reviews, err := app.store.VenueReviews.GetByVenue(r.Context(), venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	total, average, err := app.store.VenueReviews.Stats(r.Context(), venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]any{
		"reviews":        reviews,
		"total_reviews":  total,
		"average_rating": average,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVenueReviewHandler godoc
//
//	@Summary		Delete your review
//	@Tags			reviews
//	@Produce		json
//	@Param			venueID		path		int	true	"Venue ID"
//	@Param			reviewID	path		int	true	"Review ID"
//	@Success		204			{string}	string
//	@Failure		404			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/reviews/{reviewID} [delete]
func (app *application) deleteVenueReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	if err := app.store.VenueReviews.Delete(r.Context(), reviewID, user.ID); err != nil {
		switch {
		case errors.Is(err, venuereviews.ErrReviewNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
