package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pitchbook/internal/dateutil"
	"pitchbook/internal/domain/venues"
	"pitchbook/internal/params"

	"github.com/go-chi/chi/v5"
)

// listVenuesHandler godoc
//
//	@Summary		Browse venues
//	@Description	Lists venues with review aggregates, filterable by sport
//	@Tags			venues
//	@Produce		json
//	@Param			sport	query		string	false	"Filter by sport"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{array}		venues.VenueListing
//	@Failure		500		{object}	error
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	filter := venues.VenueFilter{
		Page:  p.Page,
		Limit: p.Limit,
	}
	if sport := r.URL.Query().Get("sport"); sport != "" {
		filter.Sport = &sport
	}

	listings, total, err := app.store.Venues.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"venues":     listings,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueHandler godoc
//
//	@Summary		Get a venue
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	venues.Venue
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/venues/{venueID} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateVenuePayload struct {
	Name          *string `json:"name" validate:"omitempty,max=100"`
	Address       *string `json:"address" validate:"omitempty,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=1000"`
	PhoneNumber   *string `json:"phone_number" validate:"omitempty,nepaliphone"`
	SlotPrice     *int64  `json:"slot_price" validate:"omitempty,gt=0"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash online"`
}

// updateVenueInfoHandler godoc
//
//	@Summary		Update venue information
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		UpdateVenuePayload	true	"Fields to update"
//	@Success		204		{string}	string				"Updated"
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID} [patch]
func (app *application) updateVenueInfoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	var payload UpdateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]any{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Address != nil {
		updates["address"] = *payload.Address
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.PhoneNumber != nil {
		updates["phone_number"] = *payload.PhoneNumber
	}
	if payload.SlotPrice != nil {
		updates["slot_price"] = *payload.SlotPrice
	}
	if payload.PaymentMethod != nil {
		updates["payment_method"] = *payload.PaymentMethod
	}
	if len(updates) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	if err := app.store.Venues.UpdateInfo(r.Context(), venueID, updates); err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type SetOpenSlotsPayload struct {
	OpenSlots map[string][]string `json:"open_slots" validate:"required"`
}

// setOpenSlotsHandler godoc
//
//	@Summary		Replace the weekly slot template
//	@Description	Replaces the venue's recurring weekly availability template wholesale
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		SetOpenSlotsPayload	true	"Weekday name to slot strings"
//	@Success		204		{string}	string				"Updated"
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/open-slots [put]
func (app *application) setOpenSlotsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	var payload SetOpenSlotsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	for day, slots := range payload.OpenSlots {
		if _, ok := dateutil.ParseWeekday(day); !ok {
			app.badRequestResponse(w, r, fmt.Errorf("unknown weekday %q", day))
			return
		}
		for _, slot := range slots {
			if err := Validate.Var(slot, "timeslot"); err != nil {
				app.badRequestResponse(w, r, fmt.Errorf("malformed slot %q on %s", slot, day))
				return
			}
		}
	}

	if err := app.store.Venues.SetOpenSlots(r.Context(), venueID, payload.OpenSlots); err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadVenuePhotoHandler godoc
//
//	@Summary		Upload venue photos
//	@Tags			venues
//	@Accept			mpfd
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Param			images	formData	file	true	"Image files"
//	@Success		200		{object}	map[string][]string
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [post]
func (app *application) uploadVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no images provided"))
		return
	}

	urls, err := app.uploadImagesWithVenueID(files, venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	for _, url := range urls {
		if err := app.store.Venues.AddPhotoURL(r.Context(), venueID, url); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string][]string{"urls": urls}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVenuePhotoHandler godoc
//
//	@Summary		Delete a venue photo
//	@Description	Removes the photo named by ?photo_url= from storage and the venue record
//	@Tags			venues
//	@Produce		json
//	@Param			venueID		path		int		true	"Venue ID"
//	@Param			photo_url	query		string	true	"Photo URL to remove"
//	@Success		204			{string}	string	"Deleted"
//	@Failure		400			{object}	error
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/photos [delete]
func (app *application) deleteVenuePhotoHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing photo_url"))
		return
	}

	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.logger.Warnw("could not delete photo from cloudinary", "error", err)
	}

	if err := app.store.Venues.RemovePhotoURL(r.Context(), venueID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getOwnerVenuesHandler godoc
//
//	@Summary		List the owner's venues
//	@Tags			owner
//	@Produce		json
//	@Success		200	{array}		venues.Venue
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/owner/venues [get]
func (app *application) getOwnerVenuesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	owned, err := app.store.Venues.ListByOwner(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, owned); err != nil {
		app.internalServerError(w, r, err)
	}
}
