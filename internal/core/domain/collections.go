package domain

import (
	"errors"
	"time"
)

var ErrAlertNotFound = errors.New("emergency alert not found")
var ErrInpatientNotFound = errors.New("inpatient not found")
var ErrPrescriptionNotFound = errors.New("prescription not found")
var ErrMeetingNotFound = errors.New("board meeting not found")
var ErrInvalidTransition = errors.New("invalid status transition")

// AlertStatus tracks an emergency alert's lifecycle.
type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertAdmitted AlertStatus = "admitted"
)

// EmergencyAlert is an incoming incident report, possibly raised by the
// affected patient themselves. The embedded summary is a copy, not a
// reference to the patient's record.
type EmergencyAlert struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	PatientID      string        `json:"patient_id" bson:"patient_id"`
	PatientName    string        `json:"patient_name" bson:"patient_name"`
	IncidentType   string        `json:"incident_type" bson:"incident_type"`
	Location       string        `json:"location" bson:"location"`
	Description    string        `json:"description" bson:"description"`
	Status         AlertStatus   `json:"status" bson:"status"`
	MedicalSummary MedicalRecord `json:"medical_summary" bson:"medical_summary"`
	ReportedAt     time.Time     `json:"reported_at" bson:"reported_at"`
}

// InpatientStatus is the ward state of an admitted patient.
type InpatientStatus string

const (
	InpatientAdmitted   InpatientStatus = "admitted"
	InpatientCritical   InpatientStatus = "critical"
	InpatientStable     InpatientStatus = "stable"
	InpatientRecovering InpatientStatus = "recovering"
	InpatientDischarged InpatientStatus = "discharged"
)

// validTransitions defines the allowed ward state machine.
var validTransitions = map[InpatientStatus][]InpatientStatus{
	InpatientAdmitted:   {InpatientStable, InpatientCritical},
	InpatientCritical:   {InpatientStable},
	InpatientStable:     {InpatientCritical, InpatientRecovering},
	InpatientRecovering: {InpatientStable, InpatientDischarged},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s InpatientStatus) CanTransitionTo(next InpatientStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Inpatient is an admitted patient occupying a bed. MedicalRecord is a
// point-in-time copy taken at admission and updated independently of the
// patient's own profile record.
type Inpatient struct {
	ID            string          `json:"id" bson:"_id,omitempty"`
	PatientID     string          `json:"patient_id" bson:"patient_id"`
	Name          string          `json:"name" bson:"name"`
	Ward          string          `json:"ward" bson:"ward"`
	Bed           string          `json:"bed" bson:"bed"`
	Status        InpatientStatus `json:"status" bson:"status"`
	MedicalRecord MedicalRecord   `json:"medical_record" bson:"medical_record"`
	SourceAlertID string          `json:"source_alert_id,omitempty" bson:"source_alert_id,omitempty"`
	AdmittedAt    time.Time       `json:"admitted_at" bson:"admitted_at"`
}

// PharmacyItem is one stocked medication line.
type PharmacyItem struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Unit      string    `json:"unit" bson:"unit"`
	Reorder   int       `json:"reorder_level" bson:"reorder_level"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PrescriptionStatus is the dispensing state of a prescription.
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionFilled    PrescriptionStatus = "filled"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

// Prescription links a patient, a prescriber, and a medication order.
type Prescription struct {
	ID         string             `json:"id" bson:"_id,omitempty"`
	PatientID  string             `json:"patient_id" bson:"patient_id"`
	DoctorID   string             `json:"doctor_id" bson:"doctor_id"`
	Medication string             `json:"medication" bson:"medication"`
	Dosage     string             `json:"dosage" bson:"dosage"`
	Status     PrescriptionStatus `json:"status" bson:"status"`
	IssuedAt   time.Time          `json:"issued_at" bson:"issued_at"`
}

// BoardMeeting is a scheduled medical board session.
type BoardMeeting struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Agenda      string    `json:"agenda" bson:"agenda"`
	ScheduledAt time.Time `json:"scheduled_at" bson:"scheduled_at"`
	ConvenedBy  string    `json:"convened_by" bson:"convened_by"`
}

// ScheduleItem is a booked appointment between a patient and a doctor.
type ScheduleItem struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PatientID string    `json:"patient_id" bson:"patient_id"`
	DoctorID  string    `json:"doctor_id" bson:"doctor_id"`
	Reason    string    `json:"reason" bson:"reason"`
	StartsAt  time.Time `json:"starts_at" bson:"starts_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
