package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

// stubPortal embeds the interface so each test only wires the methods it uses.
type stubPortal struct {
	ports.PortalService

	listAlertsFn  func(ctx context.Context) ([]domain.EmergencyAlert, error)
	createAlertFn func(ctx context.Context, actor ports.Actor, in ports.CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error)
	deleteAlertFn func(ctx context.Context, actor ports.Actor, id string) error
}

func (s *stubPortal) ListAlerts(ctx context.Context) ([]domain.EmergencyAlert, error) {
	return s.listAlertsFn(ctx)
}

func (s *stubPortal) CreateAlert(ctx context.Context, actor ports.Actor, in ports.CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error) {
	return s.createAlertFn(ctx, actor, in, summary)
}

func (s *stubPortal) DeleteAlert(ctx context.Context, actor ports.Actor, id string) error {
	return s.deleteAlertFn(ctx, actor, id)
}

func TestAlertHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubPortal{
		listAlertsFn: func(ctx context.Context) ([]domain.EmergencyAlert, error) {
			return nil, nil
		},
	}
	h := NewAlertHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/alerts", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestAlertHandler_Create_PassesActorAndSummary(t *testing.T) {
	stub := &stubPortal{
		createAlertFn: func(ctx context.Context, actor ports.Actor, in ports.CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error) {
			if actor.UserID != "u1" {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if in.IncidentType != "cardiac" || summary.BloodType != "O-" {
				t.Fatalf("unexpected input: %+v %+v", in, summary)
			}
			return &domain.EmergencyAlert{ID: "a1", IncidentType: in.IncidentType}, nil
		},
	}
	h := NewAlertHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/alerts",
		`{"incident_type":"cardiac","location":"ER bay 3","medical_summary":{"blood_type":"O-"}}`)
	c.Set("user_id", "u1")
	c.Set("email", "p@hospital.test")
	c.Set("role", "patient")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var alert domain.EmergencyAlert
	if err := json.Unmarshal(rec.Body.Bytes(), &alert); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if alert.ID != "a1" {
		t.Fatalf("unexpected alert: %+v", alert)
	}
}

func TestAlertHandler_Create_RequiresIncidentType(t *testing.T) {
	stub := &stubPortal{
		createAlertFn: func(ctx context.Context, actor ports.Actor, in ports.CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAlertHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/v1/alerts", `{"location":"ER"}`)
	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAlertHandler_Delete_ForbiddenBubbles(t *testing.T) {
	stub := &stubPortal{
		deleteAlertFn: func(ctx context.Context, actor ports.Actor, id string) error {
			return domain.ErrForbidden
		},
	}
	h := NewAlertHandler(stub)

	c, _ := newTestContext(t, http.MethodDelete, "/v1/alerts/a1", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")
	c.Set("role", "doctor")

	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
