package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAlertRepo struct {
	alerts map[string]domain.EmergencyAlert
}

func (r *stubAlertRepo) List(context.Context) ([]domain.EmergencyAlert, error) {
	out := make([]domain.EmergencyAlert, 0, len(r.alerts))
	for _, a := range r.alerts {
		out = append(out, a)
	}
	return out, nil
}

func (r *stubAlertRepo) FindByID(_ context.Context, id string) (*domain.EmergencyAlert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, domain.ErrAlertNotFound
	}
	return &a, nil
}

func (r *stubAlertRepo) Create(_ context.Context, a *domain.EmergencyAlert) error {
	r.alerts[a.ID] = *a
	return nil
}

func (r *stubAlertRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.alerts[id]; !ok {
		return domain.ErrAlertNotFound
	}
	delete(r.alerts, id)
	return nil
}

type stubInpatientRepo struct {
	inpatients map[string]domain.Inpatient
}

func (r *stubInpatientRepo) List(context.Context) ([]domain.Inpatient, error) {
	out := make([]domain.Inpatient, 0, len(r.inpatients))
	for _, p := range r.inpatients {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubInpatientRepo) FindByID(_ context.Context, id string) (*domain.Inpatient, error) {
	p, ok := r.inpatients[id]
	if !ok {
		return nil, domain.ErrInpatientNotFound
	}
	return &p, nil
}

func (r *stubInpatientRepo) Create(_ context.Context, p *domain.Inpatient) error {
	r.inpatients[p.ID] = *p
	return nil
}

func (r *stubInpatientRepo) Delete(_ context.Context, id string) error {
	delete(r.inpatients, id)
	return nil
}

func (r *stubInpatientRepo) UpdateStatus(_ context.Context, id string, status domain.InpatientStatus) error {
	p, ok := r.inpatients[id]
	if !ok {
		return domain.ErrInpatientNotFound
	}
	p.Status = status
	r.inpatients[id] = p
	return nil
}

func (r *stubInpatientRepo) UpdateMedicalRecord(_ context.Context, id string, record domain.MedicalRecord) error {
	p, ok := r.inpatients[id]
	if !ok {
		return domain.ErrInpatientNotFound
	}
	p.MedicalRecord = record
	r.inpatients[id] = p
	return nil
}

type stubPharmacyRepo struct {
	stock         map[string]domain.PharmacyItem
	prescriptions map[string]domain.Prescription
}

func (r *stubPharmacyRepo) ListStock(context.Context) ([]domain.PharmacyItem, error) {
	out := make([]domain.PharmacyItem, 0, len(r.stock))
	for _, i := range r.stock {
		out = append(out, i)
	}
	return out, nil
}

func (r *stubPharmacyRepo) UpdateStock(_ context.Context, updates []ports.StockUpdate) error {
	for _, u := range updates {
		item, ok := r.stock[u.ItemID]
		if !ok {
			continue
		}
		item.Quantity = u.Quantity
		r.stock[u.ItemID] = item
	}
	return nil
}

func (r *stubPharmacyRepo) ListPrescriptions(context.Context) ([]domain.Prescription, error) {
	out := make([]domain.Prescription, 0, len(r.prescriptions))
	for _, p := range r.prescriptions {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubPharmacyRepo) FindPrescription(_ context.Context, id string) (*domain.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, domain.ErrPrescriptionNotFound
	}
	return &p, nil
}

func (r *stubPharmacyRepo) UpdatePrescriptionStatus(_ context.Context, id string, status domain.PrescriptionStatus) error {
	p, ok := r.prescriptions[id]
	if !ok {
		return domain.ErrPrescriptionNotFound
	}
	p.Status = status
	r.prescriptions[id] = p
	return nil
}

type stubMeetingRepo struct {
	meetings  map[string]domain.BoardMeeting
	schedules map[string]domain.ScheduleItem
}

func (r *stubMeetingRepo) ListMeetings(context.Context) ([]domain.BoardMeeting, error) {
	out := make([]domain.BoardMeeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		out = append(out, m)
	}
	return out, nil
}

func (r *stubMeetingRepo) CreateMeeting(_ context.Context, m *domain.BoardMeeting) error {
	r.meetings[m.ID] = *m
	return nil
}

func (r *stubMeetingRepo) DeleteMeeting(_ context.Context, id string) error {
	if _, ok := r.meetings[id]; !ok {
		return domain.ErrMeetingNotFound
	}
	delete(r.meetings, id)
	return nil
}

func (r *stubMeetingRepo) ListSchedules(context.Context) ([]domain.ScheduleItem, error) {
	out := make([]domain.ScheduleItem, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubMeetingRepo) CreateSchedule(_ context.Context, s *domain.ScheduleItem) error {
	r.schedules[s.ID] = *s
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestPortal() (ports.PortalService, *stubUserRepo, *stubAlertRepo, *stubInpatientRepo, *stubPharmacyRepo, *stubMeetingRepo) {
	users := newStubUserRepo()
	alerts := &stubAlertRepo{alerts: map[string]domain.EmergencyAlert{}}
	inpatients := &stubInpatientRepo{inpatients: map[string]domain.Inpatient{}}
	pharmacy := &stubPharmacyRepo{stock: map[string]domain.PharmacyItem{}, prescriptions: map[string]domain.Prescription{}}
	meetings := &stubMeetingRepo{meetings: map[string]domain.BoardMeeting{}, schedules: map[string]domain.ScheduleItem{}}
	svc := NewPortalService(users, alerts, inpatients, pharmacy, meetings, zerolog.Nop())
	return svc, users, alerts, inpatients, pharmacy, meetings
}

var adminActor = ports.Actor{UserID: "adm", Email: "admin@x.com", Role: domain.RoleAdmin}
var doctorActor = ports.Actor{UserID: "doc", Email: "doc@x.com", Role: domain.RoleDoctor}

// ---------------------------------------------------------------------------
// Authoritative RBAC
// ---------------------------------------------------------------------------

func TestPortalService_Deletes_RequireAdmin(t *testing.T) {
	svc, _, alerts, inpatients, _, meetings := newTestPortal()
	alerts.alerts["a1"] = domain.EmergencyAlert{ID: "a1"}
	inpatients.inpatients["p1"] = domain.Inpatient{ID: "p1"}
	meetings.meetings["m1"] = domain.BoardMeeting{ID: "m1"}

	ctx := context.Background()
	if err := svc.DeleteAlert(ctx, doctorActor, "a1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete alert as doctor: %v", err)
	}
	if err := svc.DeleteInpatient(ctx, doctorActor, "p1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete inpatient as doctor: %v", err)
	}
	if err := svc.DeleteMeeting(ctx, doctorActor, "m1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete meeting as doctor: %v", err)
	}

	if err := svc.DeleteAlert(ctx, adminActor, "a1"); err != nil {
		t.Fatalf("delete alert as admin: %v", err)
	}
	if err := svc.DeleteMeeting(ctx, adminActor, "m1"); err != nil {
		t.Fatalf("delete meeting as admin: %v", err)
	}
}

func TestPortalService_UpdateUserRole_SelfOrAdmin(t *testing.T) {
	svc, users, _, _, _, _ := newTestPortal()
	users.users["pat@x.com"] = &domain.User{ID: "u1", Email: "pat@x.com", Role: domain.RolePatient}

	ctx := context.Background()
	self := ports.Actor{UserID: "u1", Email: "pat@x.com", Role: domain.RolePatient}

	// Self-elevation (allowlist flow) is permitted.
	if err := svc.UpdateUserRole(ctx, self, "u1", domain.RoleAdmin); err != nil {
		t.Fatalf("self role update: %v", err)
	}
	if users.users["pat@x.com"].Role != domain.RoleAdmin {
		t.Fatalf("role not persisted")
	}

	// A non-admin changing someone else's role is rejected.
	if err := svc.UpdateUserRole(ctx, doctorActor, "u1", domain.RolePatient); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Domain invariants
// ---------------------------------------------------------------------------

func TestPortalService_InpatientStatus_InvalidTransition(t *testing.T) {
	svc, _, _, inpatients, _, _ := newTestPortal()
	inpatients.inpatients["p1"] = domain.Inpatient{ID: "p1", Status: domain.InpatientAdmitted}

	ctx := context.Background()
	err := svc.UpdateInpatientStatus(ctx, "p1", domain.InpatientDischarged)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := svc.UpdateInpatientStatus(ctx, "p1", domain.InpatientStable); err != nil {
		t.Fatalf("valid transition rejected: %v", err)
	}
	if inpatients.inpatients["p1"].Status != domain.InpatientStable {
		t.Fatalf("status not persisted")
	}
}

func TestPortalService_PrescriptionStatus_TerminalStates(t *testing.T) {
	svc, _, _, _, pharmacy, _ := newTestPortal()
	pharmacy.prescriptions["rx1"] = domain.Prescription{ID: "rx1", Status: domain.PrescriptionFilled}
	pharmacy.prescriptions["rx2"] = domain.Prescription{ID: "rx2", Status: domain.PrescriptionActive}

	ctx := context.Background()
	if err := svc.UpdatePrescriptionStatus(ctx, "rx1", domain.PrescriptionCancelled); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("filled prescription must be terminal, got %v", err)
	}
	if err := svc.UpdatePrescriptionStatus(ctx, "rx2", domain.PrescriptionFilled); err != nil {
		t.Fatalf("active -> filled rejected: %v", err)
	}
}

func TestPortalService_CreateAlert_CopiesCallerIdentity(t *testing.T) {
	svc, users, alerts, _, _, _ := newTestPortal()
	users.users["pat@x.com"] = &domain.User{ID: "u1", Email: "pat@x.com", Name: "Pat", Role: domain.RolePatient}

	actor := ports.Actor{UserID: "u1", Email: "pat@x.com", Role: domain.RolePatient}
	summary := domain.MedicalRecord{BloodType: "Pending"}
	a, err := svc.CreateAlert(context.Background(), actor, ports.CreateAlertInput{IncidentType: "fall"}, summary)
	if err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}
	if a.PatientID != "u1" || a.PatientName != "Pat" {
		t.Fatalf("caller identity not copied: %+v", a)
	}
	if a.Status != domain.AlertActive {
		t.Fatalf("status = %s", a.Status)
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("alert not persisted")
	}
}

func TestPortalService_CreateSchedule_RequiresDoctor(t *testing.T) {
	svc, _, _, _, _, meetings := newTestPortal()

	if _, err := svc.CreateSchedule(context.Background(), ports.CreateScheduleInput{PatientID: "u1"}, ""); err == nil {
		t.Fatalf("expected error for missing doctor id")
	}
	if len(meetings.schedules) != 0 {
		t.Fatalf("schedule persisted without a doctor")
	}

	item, err := svc.CreateSchedule(context.Background(), ports.CreateScheduleInput{PatientID: "u1"}, "doc")
	if err != nil {
		t.Fatalf("CreateSchedule: %v", err)
	}
	if item.DoctorID != "doc" {
		t.Fatalf("doctor id = %q", item.DoctorID)
	}
}

func TestPortalService_CreateInpatient_VerifiesSourceAlert(t *testing.T) {
	svc, _, alerts, inpatients, _, _ := newTestPortal()
	ctx := context.Background()

	in := ports.CreateInpatientInput{Name: "Pat", Ward: "ICU", SourceAlertID: "ghost"}
	if _, err := svc.CreateInpatient(ctx, adminActor, in); !errors.Is(err, domain.ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound for unknown source alert, got %v", err)
	}
	if len(inpatients.inpatients) != 0 {
		t.Fatalf("inpatient persisted despite missing source alert")
	}

	alerts.alerts["a1"] = domain.EmergencyAlert{ID: "a1", PatientID: "u1"}
	in.SourceAlertID = "a1"
	p, err := svc.CreateInpatient(ctx, adminActor, in)
	if err != nil {
		t.Fatalf("CreateInpatient: %v", err)
	}
	if p.SourceAlertID != "a1" {
		t.Fatalf("source alert id = %q", p.SourceAlertID)
	}
}
