package main

import (
	"encoding/json"
	"net/http"
)

type PushTokenPayload struct {
	Token      string          `json:"token" validate:"required"`
	DeviceInfo json.RawMessage `json:"device_info"`
}

// registerPushTokenHandler godoc
//
//	@Summary		Register an Expo push token
//	@Description	Upserts the device's Expo push token for the signed-in user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		PushTokenPayload	true	"Token and device info"
//	@Success		204		{string}	string
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/push-token [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload PushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.AddOrUpdate(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// removePushTokenHandler godoc
//
//	@Summary		Remove an Expo push token
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		PushTokenPayload	true	"Token to remove"
//	@Success		204		{string}	string
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/push-token [delete]
func (app *application) removePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload PushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.PushTokens.Remove(r.Context(), user.ID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
