package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

type staticTokens string

func (t staticTokens) Token(context.Context) (string, error) { return string(t), nil }

func TestPortalClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]domain.EmergencyAlert{{ID: "a1", IncidentType: "fall"}})
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok123"))
	alerts, err := c.GetEmergencyAlerts(context.Background())
	if err != nil {
		t.Fatalf("GetEmergencyAlerts: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if len(alerts) != 1 || alerts[0].ID != "a1" {
		t.Fatalf("alerts = %+v", alerts)
	}
}

func TestPortalClient_MapsForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	err := c.DeleteBoardMeeting(context.Background(), "m1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPortalClient_MapsNotFoundToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	if err := c.DeleteEmergencyAlert(context.Background(), "a1"); !errors.Is(err, domain.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
	if err := c.UpdateInpatientStatus(context.Background(), "p1", domain.InpatientStable); !errors.Is(err, domain.ErrInpatientNotFound) {
		t.Fatalf("expected ErrInpatientNotFound, got %v", err)
	}
}

func TestPortalClient_CreateSchedulePayload(t *testing.T) {
	var got createScheduleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/schedules" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(domain.ScheduleItem{ID: "s1", DoctorID: got.DoctorID})
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens("tok"))
	item, err := c.CreateSchedule(context.Background(), ports.CreateScheduleInput{PatientID: "u1", Reason: "checkup"}, "d7")
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	if got.DoctorID != "d7" || got.PatientID != "u1" {
		t.Fatalf("payload = %+v", got)
	}
	if item.ID != "s1" {
		t.Fatalf("item = %+v", item)
	}
}
