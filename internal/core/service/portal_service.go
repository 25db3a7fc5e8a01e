package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

// portalService is the server-side implementation of the portal operations.
// All authorization decisions here are authoritative: the client-side gate is
// only an early exit, this layer is the one that counts.
type portalService struct {
	users      ports.UserRepository
	alerts     ports.AlertRepository
	inpatients ports.InpatientRepository
	pharmacy   ports.PharmacyRepository
	meetings   ports.MeetingRepository
	log        zerolog.Logger
}

func NewPortalService(
	users ports.UserRepository,
	alerts ports.AlertRepository,
	inpatients ports.InpatientRepository,
	pharmacy ports.PharmacyRepository,
	meetings ports.MeetingRepository,
	log zerolog.Logger,
) ports.PortalService {
	return &portalService{
		users:      users,
		alerts:     alerts,
		inpatients: inpatients,
		pharmacy:   pharmacy,
		meetings:   meetings,
		log:        log,
	}
}

func requireAdmin(actor ports.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// --- Users ---

func (s *portalService) CurrentUser(ctx context.Context, actor ports.Actor) (*domain.User, error) {
	return s.users.FindByID(ctx, actor.UserID)
}

// UpdateUserRole writes the persisted role. Self-elevation driven by the
// allowlist is permitted; everything else requires an administrator.
func (s *portalService) UpdateUserRole(ctx context.Context, actor ports.Actor, id string, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	if actor.UserID != id && actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("role", string(role)).Str("actor", actor.UserID).Msg("role updated")
	return nil
}

func (s *portalService) UpdateUserProfile(ctx context.Context, actor ports.Actor, id string, patch ports.ProfilePatch) (*domain.User, error) {
	if actor.UserID != id && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.MedicalRecord != nil {
		rec := *patch.MedicalRecord
		rec.LastUpdated = time.Now().UTC()
		user.MedicalRecord = &rec
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// --- Emergency alerts ---

func (s *portalService) ListAlerts(ctx context.Context) ([]domain.EmergencyAlert, error) {
	return s.alerts.List(ctx)
}

func (s *portalService) CreateAlert(ctx context.Context, actor ports.Actor, in ports.CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error) {
	if in.IncidentType == "" {
		return nil, fmt.Errorf("create alert: incident type is required")
	}
	caller, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	alert := &domain.EmergencyAlert{
		ID:             uuid.NewString(),
		PatientID:      caller.ID,
		PatientName:    caller.Name,
		IncidentType:   in.IncidentType,
		Location:       in.Location,
		Description:    in.Description,
		Status:         domain.AlertActive,
		MedicalSummary: summary,
		ReportedAt:     time.Now().UTC(),
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	s.log.Info().Str("alert_id", alert.ID).Str("incident", alert.IncidentType).Msg("emergency alert created")
	return alert, nil
}

func (s *portalService) DeleteAlert(ctx context.Context, actor ports.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.alerts.Delete(ctx, id)
}

// --- Inpatients ---

func (s *portalService) ListInpatients(ctx context.Context) ([]domain.Inpatient, error) {
	return s.inpatients.List(ctx)
}

func (s *portalService) CreateInpatient(ctx context.Context, actor ports.Actor, in ports.CreateInpatientInput) (*domain.Inpatient, error) {
	if in.Name == "" || in.Ward == "" {
		return nil, fmt.Errorf("create inpatient: name and ward are required")
	}
	if in.SourceAlertID != "" {
		if _, err := s.alerts.FindByID(ctx, in.SourceAlertID); err != nil {
			return nil, fmt.Errorf("create inpatient: %w", err)
		}
	}
	p := &domain.Inpatient{
		ID:            uuid.NewString(),
		PatientID:     in.PatientID,
		Name:          in.Name,
		Ward:          in.Ward,
		Bed:           in.Bed,
		Status:        domain.InpatientAdmitted,
		MedicalRecord: in.MedicalRecord,
		SourceAlertID: in.SourceAlertID,
		AdmittedAt:    time.Now().UTC(),
	}
	if err := s.inpatients.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("inpatient_id", p.ID).Str("ward", p.Ward).Str("actor", actor.UserID).Msg("patient admitted")
	return p, nil
}

func (s *portalService) DeleteInpatient(ctx context.Context, actor ports.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.inpatients.Delete(ctx, id)
}

func (s *portalService) UpdateInpatientStatus(ctx context.Context, id string, status domain.InpatientStatus) error {
	current, err := s.inpatients.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, status)
	}
	return s.inpatients.UpdateStatus(ctx, id, status)
}

func (s *portalService) UpdateInpatientMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error {
	record.LastUpdated = time.Now().UTC()
	return s.inpatients.UpdateMedicalRecord(ctx, id, record)
}

// --- Pharmacy & prescriptions ---

func (s *portalService) ListPharmacyStock(ctx context.Context) ([]domain.PharmacyItem, error) {
	return s.pharmacy.ListStock(ctx)
}

func (s *portalService) UpdatePharmacyStock(ctx context.Context, updates []ports.StockUpdate) error {
	for _, u := range updates {
		if u.Quantity < 0 {
			return fmt.Errorf("update stock: negative quantity for %s", u.ItemID)
		}
	}
	return s.pharmacy.UpdateStock(ctx, updates)
}

func (s *portalService) ListPrescriptions(ctx context.Context) ([]domain.Prescription, error) {
	return s.pharmacy.ListPrescriptions(ctx)
}

func (s *portalService) UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error {
	current, err := s.pharmacy.FindPrescription(ctx, id)
	if err != nil {
		return err
	}
	// Filled and cancelled prescriptions are terminal.
	if current.Status != domain.PrescriptionActive {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, status)
	}
	return s.pharmacy.UpdatePrescriptionStatus(ctx, id, status)
}

// --- Board meetings & schedules ---

func (s *portalService) ListMeetings(ctx context.Context) ([]domain.BoardMeeting, error) {
	return s.meetings.ListMeetings(ctx)
}

// CreateMeeting convenes a board meeting. Any authenticated role may convene;
// only deletion is admin-gated.
func (s *portalService) CreateMeeting(ctx context.Context, actor ports.Actor, in ports.CreateMeetingInput) (*domain.BoardMeeting, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("create meeting: title is required")
	}
	m := &domain.BoardMeeting{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Agenda:      in.Agenda,
		ScheduledAt: in.ScheduledAt,
		ConvenedBy:  actor.UserID,
	}
	if err := s.meetings.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *portalService) DeleteMeeting(ctx context.Context, actor ports.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.meetings.DeleteMeeting(ctx, id)
}

func (s *portalService) ListSchedules(ctx context.Context) ([]domain.ScheduleItem, error) {
	return s.meetings.ListSchedules(ctx)
}

func (s *portalService) CreateSchedule(ctx context.Context, in ports.CreateScheduleInput, doctorID string) (*domain.ScheduleItem, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("create schedule: doctor id is required")
	}
	item := &domain.ScheduleItem{
		ID:        uuid.NewString(),
		PatientID: in.PatientID,
		DoctorID:  doctorID,
		Reason:    in.Reason,
		StartsAt:  in.StartsAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.meetings.CreateSchedule(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
