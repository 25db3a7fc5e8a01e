package ports

import (
	"context"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// Actor identifies the authenticated caller of a portal operation, extracted
// from the verified token. The server-side role here is the authoritative
// authorization input.
type Actor struct {
	UserID string
	Email  string
	Role   domain.Role
}

// PortalService is the server-side counterpart of PortalClient: the same
// operations, with authoritative access control applied per actor.
type PortalService interface {
	CurrentUser(ctx context.Context, actor Actor) (*domain.User, error)
	UpdateUserRole(ctx context.Context, actor Actor, id string, role domain.Role) error
	UpdateUserProfile(ctx context.Context, actor Actor, id string, patch ProfilePatch) (*domain.User, error)

	ListAlerts(ctx context.Context) ([]domain.EmergencyAlert, error)
	CreateAlert(ctx context.Context, actor Actor, in CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error)
	DeleteAlert(ctx context.Context, actor Actor, id string) error

	ListInpatients(ctx context.Context) ([]domain.Inpatient, error)
	CreateInpatient(ctx context.Context, actor Actor, in CreateInpatientInput) (*domain.Inpatient, error)
	DeleteInpatient(ctx context.Context, actor Actor, id string) error
	UpdateInpatientStatus(ctx context.Context, id string, status domain.InpatientStatus) error
	UpdateInpatientMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error

	ListPharmacyStock(ctx context.Context) ([]domain.PharmacyItem, error)
	UpdatePharmacyStock(ctx context.Context, updates []StockUpdate) error

	ListPrescriptions(ctx context.Context) ([]domain.Prescription, error)
	UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error

	ListMeetings(ctx context.Context) ([]domain.BoardMeeting, error)
	CreateMeeting(ctx context.Context, actor Actor, in CreateMeetingInput) (*domain.BoardMeeting, error)
	DeleteMeeting(ctx context.Context, actor Actor, id string) error

	ListSchedules(ctx context.Context) ([]domain.ScheduleItem, error)
	CreateSchedule(ctx context.Context, in CreateScheduleInput, doctorID string) (*domain.ScheduleItem, error)
}
