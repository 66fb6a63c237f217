package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/crucial707/job-board/internal/middleware"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/go-chi/chi/v5"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo      *repo.UserRepo
	AuditRepo *repo.AuditRepo
}

// ==========================
// Get User
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Update User (self only)
// ==========================
// The path id must match the token subject; a caller cannot edit someone
// else's profile through a different id.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if id != callerID {
		JSONError(w, "no permission to modify this user", http.StatusForbidden)
		return
	}

	var input struct {
		Nickname *string `json:"nickname" validate:"omitempty,min=1,max=20"`
		Phone    *string `json:"phone" validate:"omitempty,min=9,max=20"`
		Email    *string `json:"email" validate:"omitempty,email,max=40"`
		ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	upd := repo.UserUpdate{
		Nickname: input.Nickname,
		Phone:    input.Phone,
		Email:    input.Email,
		ImageURL: input.ImageURL,
	}
	if upd == (repo.UserUpdate{}) {
		JSONError(w, "no fields to update", http.StatusBadRequest)
		return
	}

	affected, err := h.Repo.UpdateProfile(r.Context(), id, upd)
	if err != nil {
		log.Printf("UpdateUser: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), callerID, "update", "user", id, "")
	}

	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}
