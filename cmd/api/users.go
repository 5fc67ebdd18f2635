package main

import (
	"errors"
	"fmt"
	"net/http"

	"pitchbook/internal/domain/users"

	"github.com/go-chi/chi/v5"
)

// activateUserHandler godoc
//
//	@Summary		Activates a user account
//	@Description	Activates the account behind the emailed activation token
//	@Tags			users
//	@Produce		json
//	@Param			token	path		string	true	"Activation token"
//	@Success		204		{string}	string	"User activated"
//	@Failure		404		{object}	error
//	@Failure		500		{object}	error
//	@Router			/users/activate/{token} [put]
func (app *application) activateUserHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	err := app.store.Users.Activate(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusNoContent, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCurrentUserHandler godoc
//
//	@Summary		Get the signed-in user
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	users.User
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateUserPayload struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,nepaliphone"`
}

// updateUserHandler godoc
//
//	@Summary		Update profile fields
//	@Description	Updates first name, last name or phone on the signed-in user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateUserPayload	true	"Fields to update"
//	@Success		204		{string}	string				"Updated"
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users [put]
func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload UpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updates := map[string]any{}
	if payload.FirstName != nil {
		updates["first_name"] = *payload.FirstName
	}
	if payload.LastName != nil {
		updates["last_name"] = *payload.LastName
	}
	if payload.Phone != nil {
		updates["phone"] = *payload.Phone
	}
	if len(updates) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	if err := app.store.Users.UpdateUser(r.Context(), user.ID, updates); err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadProfilePictureHandler godoc
//
//	@Summary		Upload a profile picture
//	@Description	Accepts a multipart image, stores it on Cloudinary and saves the URL
//	@Tags			users
//	@Accept			mpfd
//	@Produce		json
//	@Param			image	formData	file				true	"Profile image"
//	@Success		200		{object}	map[string]string	"Image URL"
//	@Failure		400		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/profile-picture [post]
func (app *application) uploadProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("missing image file: %w", err))
		return
	}
	defer file.Close()

	// replacing an old picture should not leave the previous asset behind
	if oldURL, err := app.store.Users.GetProfilePictureURL(r.Context(), user.ID); err == nil && oldURL != nil {
		if err := app.deletePhotoFromCloudinary(*oldURL); err != nil {
			app.logger.Warnw("could not delete old profile picture", "error", err)
		}
	}

	publicID := fmt.Sprintf("user_%d_profile", user.ID)
	url, err := app.uploadToCloudinaryWithID(file, "profiles", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.SetProfilePicture(r.Context(), url, user.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}
