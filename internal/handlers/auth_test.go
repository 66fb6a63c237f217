package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/job-board/internal/middleware"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandler(db *sql.DB) *AuthHandler {
	return &AuthHandler{
		UserRepo:    repo.NewUserRepo(db),
		Secret:      []byte("test-secret"),
		ExpireHours: 12,
	}
}

func userMockRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return sqlmock.NewRows([]string{
		"id", "username", "nickname", "phone", "email", "password_hash", "image_url", "created_at",
	}).AddRow(1, "seoulnight", "nightowl", "010-9423-1284", "seoulnight@example.com", string(hash), nil, time.Now())
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("seoulnight").
		WillReturnRows(userMockRows(t, "password123"))

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"username": "seoulnight", "password": "password123"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.AccessToken == "" {
		t.Error("expected a token")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("seoulnight").
		WillReturnRows(userMockRows(t, "password123"))

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"username": "seoulnight", "password": "wrongpass"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	// Wrong password is a 401, distinguishable from an unknown username (404).
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Login status: got %d, want 401", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("nobody99").
		WillReturnError(sql.ErrNoRows)

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{"username": "nobody99", "password": "password123"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Login status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newAuthHandler(db)

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Login status: got %d, want 400", rr.Code)
	}
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(userMockRows(t, "password123"))

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{
		"username": "seoulnight",
		"password": "password123",
		"nickname": "nightowl",
		"phone":    "010-9423-1284",
		"email":    "seoulnight@example.com",
	})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil || out.AccessToken == "" {
		t.Errorf("expected a token, got %q (err %v)", out.AccessToken, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	h := newAuthHandler(db)

	body, _ := json.Marshal(map[string]string{
		"username": "seoulnight",
		"password": "password123",
		"nickname": "nightowl",
		"phone":    "010-9423-1284",
		"email":    "seoulnight@example.com",
	})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Register status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newAuthHandler(db)

	// Username too short, email malformed.
	body, _ := json.Marshal(map[string]string{
		"username": "short",
		"password": "password123",
		"nickname": "nightowl",
		"phone":    "010-9423-1284",
		"email":    "not-an-email",
	})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Register status: got %d, want 400", rr.Code)
	}
	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := out.Fields["username"]; !ok {
		t.Errorf("expected username field error, got %v", out.Fields)
	}
	if _, ok := out.Fields["email"]; !ok {
		t.Errorf("expected email field error, got %v", out.Fields)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("seoulnight").
		WillReturnRows(userMockRows(t, "password123"))

	h := newAuthHandler(db)

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	ctx := context.WithValue(req.Context(), middleware.UsernameKey, "seoulnight")
	ctx = context.WithValue(ctx, middleware.UserIDKey, 1)
	rr := httptest.NewRecorder()
	h.Profile(rr, req.WithContext(ctx))

	if rr.Code != http.StatusOK {
		t.Fatalf("Profile status: got %d, want 200", rr.Code)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["username"] != "seoulnight" {
		t.Errorf("unexpected username: %v", out["username"])
	}
	// The hash must never serialize.
	if _, leaked := out["password"]; leaked {
		t.Error("password leaked in profile response")
	}
	if _, leaked := out["passwordHash"]; leaked {
		t.Error("password hash leaked in profile response")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
