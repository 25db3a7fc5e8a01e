package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "pat@hospital.test" || req["password"] != "secretpass" {
			t.Fatalf("unexpected payload: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  domain.User{ID: "u1", Email: req["email"], Role: domain.RolePatient},
		})
	}))
	defer srv.Close()

	token, user, err := Login(context.Background(), srv.URL, "pat@hospital.test", "secretpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-1" || user.ID != "u1" {
		t.Fatalf("unexpected result: %q %+v", token, user)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer srv.Close()

	_, _, err := Login(context.Background(), srv.URL, "pat@hospital.test", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
