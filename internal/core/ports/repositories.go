package ports

import (
	"context"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	UpdateProfile(ctx context.Context, u *domain.User) error
}

type AlertRepository interface {
	List(ctx context.Context) ([]domain.EmergencyAlert, error)
	FindByID(ctx context.Context, id string) (*domain.EmergencyAlert, error)
	Create(ctx context.Context, a *domain.EmergencyAlert) error
	Delete(ctx context.Context, id string) error
}

type InpatientRepository interface {
	List(ctx context.Context) ([]domain.Inpatient, error)
	FindByID(ctx context.Context, id string) (*domain.Inpatient, error)
	Create(ctx context.Context, p *domain.Inpatient) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.InpatientStatus) error
	UpdateMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error
}

type PharmacyRepository interface {
	ListStock(ctx context.Context) ([]domain.PharmacyItem, error)
	UpdateStock(ctx context.Context, updates []StockUpdate) error
	ListPrescriptions(ctx context.Context) ([]domain.Prescription, error)
	FindPrescription(ctx context.Context, id string) (*domain.Prescription, error)
	UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error
}

type MeetingRepository interface {
	ListMeetings(ctx context.Context) ([]domain.BoardMeeting, error)
	CreateMeeting(ctx context.Context, m *domain.BoardMeeting) error
	DeleteMeeting(ctx context.Context, id string) error
	ListSchedules(ctx context.Context) ([]domain.ScheduleItem, error)
	CreateSchedule(ctx context.Context, s *domain.ScheduleItem) error
}
