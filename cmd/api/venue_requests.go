package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pitchbook/internal/domain/users"
	"pitchbook/internal/domain/venuerequest"
	"pitchbook/internal/domain/venues"
	"pitchbook/internal/notifications"
	"pitchbook/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreateVenueRequestPayload struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Address     string   `json:"address" validate:"required,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,max=50"`
	Sport       string   `json:"sport" validate:"required,max=50"`
	PhoneNumber string   `json:"phone_number" validate:"required,nepaliphone"`
}

// createVenueRequestHandler godoc
//
//	@Summary		Apply to list a venue
//	@Description	Files a venue listing request. An admin approves or rejects it; approval creates the venue and promotes the requester to owner.
//	@Tags			venue-requests
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateVenueRequestPayload	true	"Venue details"
//	@Success		201		{object}	venuerequest.VenueRequest
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venue-requests [post]
func (app *application) createVenueRequestHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateVenueRequestPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	request, err := app.store.VenueRequests.Create(r.Context(), &venuerequest.CreateInput{
		RequesterUserID: user.ID,
		Name:            payload.Name,
		Address:         payload.Address,
		Description:     payload.Description,
		Amenities:       payload.Amenities,
		Sport:           payload.Sport,
		PhoneNumber:     payload.PhoneNumber,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, request); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMyVenueRequestsHandler godoc
//
//	@Summary		List your own venue requests
//	@Tags			venue-requests
//	@Produce		json
//	@Success		200	{array}		venuerequest.VenueRequest
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venue-requests/mine [get]
func (app *application) getMyVenueRequestsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	records, err := app.store.VenueRequests.ListByRequester(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, records); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listVenueRequestsHandler godoc
//
//	@Summary		List venue requests (admin)
//	@Tags			venue-requests
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{array}		venuerequest.VenueRequest
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venue-requests [get]
func (app *application) listVenueRequestsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())
	filter := venuerequest.Filter{
		Page:  p.Page,
		Limit: p.Limit,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := venuerequest.Status(s)
		filter.Status = &status
	}

	records, total, err := app.store.VenueRequests.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"requests":   records,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type DecideVenueRequestPayload struct {
	AdminNote *string `json:"admin_note" validate:"omitempty,max=500"`
}

// approveVenueRequestHandler godoc
//
//	@Summary		Approve a venue request (admin)
//	@Description	Creates the venue from the request, promotes the requester to owner and notifies them.
//	@Tags			venue-requests
//	@Accept			json
//	@Produce		json
//	@Param			requestID	path		int							true	"Request ID"
//	@Param			payload		body		DecideVenueRequestPayload	false	"Optional admin note"
//	@Success		201			{object}	venues.Venue
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error	"Already decided"
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venue-requests/{requestID}/approve [patch]
func (app *application) approveVenueRequestHandler(w http.ResponseWriter, r *http.Request) {
	admin := getUserFromContext(r)

	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid request ID"))
		return
	}

	var payload DecideVenueRequestPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	request, err := app.store.VenueRequests.GetByID(r.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, venuerequest.ErrVenueRequestNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.store.VenueRequests.MarkApproved(r.Context(), requestID, admin.ID, payload.AdminNote); err != nil {
		switch {
		case errors.Is(err, venuerequest.ErrAlreadyDecided):
			app.conflictResponse(w, r, err)
		case errors.Is(err, venuerequest.ErrVenueRequestNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	venue := &venues.Venue{
		OwnerID:     request.RequesterUserID,
		Name:        request.Name,
		Address:     request.Address,
		Description: request.Description,
		PhoneNumber: request.PhoneNumber,
		Sport:       request.Sport,
		Amenities:   request.Amenities,
		OpenSlots:   map[string][]string{},
	}
	if err := app.store.Venues.Create(r.Context(), venue); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// players become owners on their first approved venue; admins stay admins
	if err := app.store.Users.SetRole(r.Context(), request.RequesterUserID, users.RoleOwner); err != nil {
		if user, getErr := app.store.Users.GetByID(r.Context(), request.RequesterUserID); getErr != nil || user.Role != users.RoleAdmin {
			app.logger.Errorw("could not promote requester to owner",
				"user_id", request.RequesterUserID, "error", err)
		}
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifications.SendVenueRequestDecision(
			ctx, app.push, app.store, request.RequesterUserID, request.Name, true,
		); err != nil {
			app.logger.Warnw("venue request approval push failed", "error", err)
		}
	})

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// rejectVenueRequestHandler godoc
//
//	@Summary		Reject a venue request (admin)
//	@Tags			venue-requests
//	@Accept			json
//	@Produce		json
//	@Param			requestID	path		int							true	"Request ID"
//	@Param			payload		body		DecideVenueRequestPayload	false	"Optional admin note"
//	@Success		204			{string}	string
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error	"Already decided"
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venue-requests/{requestID}/reject [patch]
func (app *application) rejectVenueRequestHandler(w http.ResponseWriter, r *http.Request) {
	admin := getUserFromContext(r)

	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid request ID"))
		return
	}

	var payload DecideVenueRequestPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	request, err := app.store.VenueRequests.GetByID(r.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, venuerequest.ErrVenueRequestNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.store.VenueRequests.MarkRejected(r.Context(), requestID, admin.ID, payload.AdminNote); err != nil {
		switch {
		case errors.Is(err, venuerequest.ErrAlreadyDecided):
			app.conflictResponse(w, r, err)
		case errors.Is(err, venuerequest.ErrVenueRequestNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifications.SendVenueRequestDecision(
			ctx, app.push, app.store, request.RequesterUserID, request.Name, false,
		); err != nil {
			app.logger.Warnw("venue request rejection push failed", "error", err)
		}
	})

	w.WriteHeader(http.StatusNoContent)
}
