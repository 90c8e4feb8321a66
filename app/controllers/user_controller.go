package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"commentbox/app/avatars"
)

// UserController handles the current author identity
type UserController struct {
	widget  *Widget
	avatars *avatars.Encoder
}

// NewUserController creates a new UserController
func NewUserController(widget *Widget, encoder *avatars.Encoder) *UserController {
	return &UserController{
		widget:  widget,
		avatars: encoder,
	}
}

type userRequest struct {
	Name   *string `json:"name"`
	Avatar string  `json:"avatar"`
}

// Show returns the current identity
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	uc.widget.mu.Lock()
	user := uc.widget.Identity.Current()
	uc.widget.mu.Unlock()

	sendJSON(w, http.StatusOK, user)
}

// Update changes the name and, when given, the avatar reference
func (uc *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	uc.widget.mu.Lock()
	defer uc.widget.mu.Unlock()

	if req.Name != nil {
		if err := uc.widget.Identity.SetName(*req.Name); err != nil {
			sendError(w, "Failed to save user: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if err := uc.widget.Identity.SetAvatar(req.Avatar); err != nil {
		sendError(w, "Failed to save user: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, uc.widget.Identity.Current())
}

// UploadAvatar stores an uploaded image as the user's avatar data-URI
func (uc *UserController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uc.avatars.MaxSize+1<<20)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		sendError(w, "Missing avatar file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	uri, err := uc.avatars.FromReader(file)
	switch {
	case errors.Is(err, avatars.ErrTooLarge):
		sendError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	case errors.Is(err, avatars.ErrNotImage), errors.Is(err, avatars.ErrEmpty):
		sendError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	case err != nil:
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	uc.widget.mu.Lock()
	defer uc.widget.mu.Unlock()

	if err := uc.widget.Identity.SetAvatar(uri); err != nil {
		sendError(w, "Failed to save avatar: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, uc.widget.Identity.Current())
}
