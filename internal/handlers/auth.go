package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/crucial707/job-board/internal/middleware"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Secret   []byte
	// ExpireHours is the token lifetime in hours.
	ExpireHours int
}

func (h *AuthHandler) issueToken(userID int, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(time.Duration(h.ExpireHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Secret)
}

// ==========================
// Login
// ==========================
// An unknown username is a 404, a wrong password a 401. The original clients
// rely on telling these two apart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "no such user", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Login: get user failed: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	signed, err := h.issueToken(user.ID, user.Username)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": signed})
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string  `json:"username" validate:"required,min=8,max=20"`
		Password string  `json:"password" validate:"required,min=8,max=20"`
		Nickname string  `json:"nickname" validate:"required,max=20"`
		Phone    string  `json:"phone" validate:"required,max=20"`
		Email    string  `json:"email" validate:"required,email,max=40"`
		ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.Username, string(hash), input.Nickname, input.Phone, input.Email, input.ImageURL)
	if errors.Is(err, repo.ErrConflict) {
		JSONError(w, "username already exists", http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("Register: create user failed: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	signed, err := h.issueToken(user.ID, user.Username)
	if err != nil {
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"access_token": signed})
}

// ==========================
// Profile
// ==========================
// Profile returns the authenticated user. The password hash never serializes.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), username)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "no such user", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
