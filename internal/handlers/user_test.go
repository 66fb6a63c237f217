package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/go-chi/chi/v5"
)

func newUserRouter(db *sql.DB) http.Handler {
	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	r := chi.NewRouter()
	r.Get("/users/{id}", h.GetUser)
	r.Patch("/users/{id}", h.UpdateUser)
	return r
}

func TestUserHandler_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "nickname", "phone", "email", "password_hash", "image_url", "created_at",
		}).AddRow(1, "seoulnight", "Night Owl", "010-2345-6789", "seoulnight@example.com", "hash", nil, time.Now()))

	r := newUserRouter(db)
	req := httptest.NewRequest("GET", "/users/1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Get status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["username"] != "seoulnight" {
		t.Errorf("username: got %v, want seoulnight", out["username"])
	}
	if _, leaked := out["passwordHash"]; leaked {
		t.Error("response leaked passwordHash")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	r := newUserRouter(db)
	req := httptest.NewRequest("GET", "/users/999", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Get status: got %d, want 404", rr.Code)
	}
}

func TestUserHandler_Update_Self(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET nickname = \$1 WHERE id = \$2`).
		WithArgs("New Nick", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := newUserRouter(db)
	body, _ := json.Marshal(map[string]string{"nickname": "New Nick"})
	req := asUser(httptest.NewRequest("PATCH", "/users/7", bytes.NewReader(body)), 7, "seoulnight")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Update status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out map[string]int64
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["affected"] != 1 {
		t.Errorf("affected: got %d, want 1", out["affected"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_Update_OtherUser(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newUserRouter(db)
	body, _ := json.Marshal(map[string]string{"nickname": "New Nick"})
	req := asUser(httptest.NewRequest("PATCH", "/users/7", bytes.NewReader(body)), 99, "intruder99")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Update status: got %d, want 403", rr.Code)
	}
}

func TestUserHandler_Update_NoFields(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newUserRouter(db)
	req := asUser(httptest.NewRequest("PATCH", "/users/7", bytes.NewReader([]byte(`{}`))), 7, "seoulnight")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Update status: got %d, want 400", rr.Code)
	}
}
