package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pitchbook/internal/domain/complaints"
	"pitchbook/internal/notifications"
	"pitchbook/internal/params"

	"github.com/go-chi/chi/v5"
)

type CreateComplaintPayload struct {
	Subject string `json:"subject" validate:"required,max=120"`
	Body    string `json:"body" validate:"required,max=2000"`
}

// createComplaintHandler godoc
//
//	@Summary		File a complaint against a venue
//	@Tags			complaints
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			payload	body		CreateComplaintPayload	true	"Complaint"
//	@Success		201		{object}	complaints.Complaint
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/complaints [post]
func (app *application) createComplaintHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	var payload CreateComplaintPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	complaint := &complaints.Complaint{
		VenueID: venueID,
		UserID:  user.ID,
		Subject: payload.Subject,
		Body:    payload.Body,
	}

	if err := app.store.Complaints.Create(r.Context(), complaint); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, complaint); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueComplaintsHandler godoc
//
//	@Summary		List complaints for a venue
//	@Tags			complaints
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Param			status	query		string	false	"Filter by status"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{array}		complaints.Complaint
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/complaints [get]
func (app *application) getVenueComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}

	p := params.ParsePagination(r.URL.Query())
	filter := complaints.ComplaintFilter{
		Page:  p.Page,
		Limit: p.Limit,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = &s
	}

	records, total, err := app.store.Complaints.ListByVenue(r.Context(), venueID, filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"complaints": records,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMyComplaintsHandler godoc
//
//	@Summary		List the signed-in user's complaints
//	@Tags			complaints
//	@Produce		json
//	@Success		200	{array}		complaints.Complaint
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/complaints [get]
func (app *application) getMyComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	records, err := app.store.Complaints.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, records); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateComplaintPayload struct {
	Status string `json:"status" validate:"required,oneof=in_progress resolved"`
}

// updateComplaintStatusHandler godoc
//
//	@Summary		Move a complaint forward
//	@Description	Transitions a complaint along open -> in_progress -> resolved. Backward or repeated transitions are rejected.
//	@Tags			complaints
//	@Accept			json
//	@Produce		json
//	@Param			venueID		path		int						true	"Venue ID"
//	@Param			complaintID	path		int						true	"Complaint ID"
//	@Param			payload		body		UpdateComplaintPayload	true	"Target status"
//	@Success		204			{string}	string
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error	"Invalid transition"
//	@Failure		500			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/complaints/{complaintID} [patch]
func (app *application) updateComplaintStatusHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid venue ID"))
		return
	}
	complaintID, err := strconv.ParseInt(chi.URLParam(r, "complaintID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid complaint ID"))
		return
	}

	var payload UpdateComplaintPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.store.Complaints.UpdateStatus(r.Context(), venueID, complaintID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, complaints.ErrComplaintNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, complaints.ErrInvalidTransition):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	complaint, err := app.store.Complaints.GetByID(r.Context(), complaintID)
	if err == nil {
		app.background(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := notifications.SendComplaintUpdate(
				ctx, app.push, app.store, complaint.UserID, complaintID, payload.Status,
			); err != nil {
				app.logger.Warnw("complaint update push failed", "error", err)
			}
		})
	}

	w.WriteHeader(http.StatusNoContent)
}
