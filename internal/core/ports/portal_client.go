package ports

import (
	"context"
	"time"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

// CreateAlertInput carries the caller-supplied fields of a new emergency
// alert. The medical summary is attached separately by the orchestrator.
type CreateAlertInput struct {
	IncidentType string
	Location     string
	Description  string
}

// CreateInpatientInput admits a patient to a ward, either manually or from an
// emergency alert.
type CreateInpatientInput struct {
	PatientID     string
	Name          string
	Ward          string
	Bed           string
	MedicalRecord domain.MedicalRecord
	SourceAlertID string
}

// StockUpdate adjusts the quantity of one pharmacy line.
type StockUpdate struct {
	ItemID   string
	Quantity int
}

// CreateMeetingInput schedules a medical board meeting.
type CreateMeetingInput struct {
	Title       string
	Agenda      string
	ScheduledAt time.Time
}

// CreateScheduleInput books an appointment. The acting doctor is resolved by
// the orchestrator and passed alongside.
type CreateScheduleInput struct {
	PatientID string
	Reason    string
	StartsAt  time.Time
}

// ProfilePatch is a partial update of the caller's own profile. Nil fields
// are left untouched.
type ProfilePatch struct {
	Name          *string
	MedicalRecord *domain.MedicalRecord
}

// PortalClient is the remote persistence collaborator. All state lives behind
// it; the orchestrator never persists anything locally. Access control is
// authoritative on the remote side; any client-side check is an early exit
// only.
type PortalClient interface {
	GetCurrentUser(ctx context.Context) (*domain.User, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) error
	UpdateUserProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error)

	GetEmergencyAlerts(ctx context.Context) ([]domain.EmergencyAlert, error)
	CreateEmergencyAlert(ctx context.Context, in CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error)
	DeleteEmergencyAlert(ctx context.Context, id string) error

	GetInpatients(ctx context.Context) ([]domain.Inpatient, error)
	CreateInpatient(ctx context.Context, in CreateInpatientInput) (*domain.Inpatient, error)
	DeleteInpatient(ctx context.Context, id string) error
	UpdateInpatientStatus(ctx context.Context, id string, status domain.InpatientStatus) error
	UpdateInpatientMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error

	GetPharmacyStock(ctx context.Context) ([]domain.PharmacyItem, error)
	UpdatePharmacyStock(ctx context.Context, updates []StockUpdate) error

	GetPrescriptions(ctx context.Context) ([]domain.Prescription, error)
	UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error

	GetBoardMeetings(ctx context.Context) ([]domain.BoardMeeting, error)
	CreateBoardMeeting(ctx context.Context, in CreateMeetingInput) (*domain.BoardMeeting, error)
	DeleteBoardMeeting(ctx context.Context, id string) error

	GetSchedules(ctx context.Context) ([]domain.ScheduleItem, error)
	CreateSchedule(ctx context.Context, in CreateScheduleInput, doctorID string) (*domain.ScheduleItem, error)
}
