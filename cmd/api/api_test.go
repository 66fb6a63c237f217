package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/job-board/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "integration-test-secret",
		JWTExpireHours: 12,
	}
}

func TestRouter_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status: got %d, want 200", resp.StatusCode)
	}
}

func TestRouter_ProtectedRequiresToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	for _, tc := range []struct {
		method, path string
	}{
		{"GET", "/auth/profile"},
		{"POST", "/job-posts"},
		{"PATCH", "/job-posts/1"},
		{"DELETE", "/job-posts/1"},
		{"PATCH", "/users/1"},
	} {
		req, _ := http.NewRequest(tc.method, srv.URL+tc.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

// Login then use the returned token against a protected route.
func TestRouter_LoginProfileFlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	userCols := []string{"id", "username", "nickname", "phone", "email", "password_hash", "image_url", "created_at"}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("seoulnight").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "seoulnight", "Night Owl", "010-2345-6789", "seoulnight@example.com", string(hash), nil, now))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("seoulnight").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "seoulnight", "Night Owl", "010-2345-6789", "seoulnight@example.com", string(hash), nil, now))

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"username": "seoulnight", "password": "password1"})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", resp.StatusCode)
	}
	var loginOut struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginOut); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginOut.AccessToken == "" {
		t.Fatal("login returned an empty access_token")
	}

	req, _ := http.NewRequest("GET", srv.URL+"/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+loginOut.AccessToken)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /auth/profile: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("profile status: got %d, want 200", resp2.StatusCode)
	}
	var profile map[string]interface{}
	if err := json.NewDecoder(resp2.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile["username"] != "seoulnight" {
		t.Errorf("profile username: got %v, want seoulnight", profile["username"])
	}
	if _, leaked := profile["passwordHash"]; leaked {
		t.Error("profile leaked passwordHash")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRouter_LoginUnknownUserVsWrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	userCols := []string{"id", "username", "nickname", "phone", "email", "password_hash", "image_url", "created_at"}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("seoulnight").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "seoulnight", "Night Owl", "010-2345-6789", "seoulnight@example.com", string(hash), nil, time.Now()))

	srv := httptest.NewServer(newRouter(db, testConfig()))
	defer srv.Close()

	post := func(username, password string) int {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST /auth/login: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := post("ghost", "whatever1"); got != http.StatusNotFound {
		t.Errorf("unknown user: got %d, want 404", got)
	}
	if got := post("seoulnight", "wrong-password"); got != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want 401", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
