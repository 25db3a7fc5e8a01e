package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
	"github.com/hospitalops/portal-system/internal/metrics"
)

var ErrNoSession = errors.New("no active session")

// ErrDoctorRequired is returned when a non-doctor books an appointment
// without naming a doctor. Bookings are rejected rather than written with a
// placeholder doctor id.
var ErrDoctorRequired = errors.New("appointment requires a doctor")

// ErrAlertRetained signals a partially completed admission: the inpatient
// record was created but the source alert could not be deleted, so both
// records coexist until the alert is removed by hand.
var ErrAlertRetained = errors.New("inpatient admitted but source alert could not be removed")

// finish records the command outcome and triggers the post-command refresh.
// Refresh failures are logged, not returned: the command itself succeeded
// and the previous snapshot simply stays in place.
func (o *Orchestrator) finish(ctx context.Context, command string, err error) error {
	switch {
	case err == nil:
		metrics.CommandsTotal.WithLabelValues(command, "ok").Inc()
	case errors.Is(err, domain.ErrForbidden):
		metrics.CommandsTotal.WithLabelValues(command, "forbidden").Inc()
		return err
	default:
		metrics.CommandsTotal.WithLabelValues(command, "error").Inc()
		return err
	}
	if rerr := o.Refresh(ctx); rerr != nil {
		o.log.Error().Err(rerr).Str("command", command).Msg("post-command refresh failed")
	}
	return nil
}

// requireAdmin is the local authorization gate for destructive admin-only
// operations. It is an early exit only; the remote collaborator re-checks
// authoritatively.
func (o *Orchestrator) requireAdmin() error {
	user := o.currentUser()
	if user == nil {
		return ErrNoSession
	}
	if user.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// CreateEmergencyAlert raises a new alert on behalf of the caller. When the
// caller has no medical record attached, a placeholder summary is
// synthesized so intake staff still see a triage block.
func (o *Orchestrator) CreateEmergencyAlert(ctx context.Context, in ports.CreateAlertInput) error {
	user := o.currentUser()
	if user == nil {
		return ErrNoSession
	}
	if in.IncidentType == "" {
		return o.finish(ctx, "create_alert", fmt.Errorf("create alert: incident type is required"))
	}

	var summary domain.MedicalRecord
	if user.MedicalRecord != nil {
		summary = *user.MedicalRecord
	} else {
		summary = domain.MedicalRecord{
			BloodType:   "Pending",
			Allergies:   []string{"Unknown"},
			Conditions:  []string{in.IncidentType},
			Medications: []string{"None reported"},
			LastUpdated: time.Now().UTC(),
		}
	}

	_, err := o.client.CreateEmergencyAlert(ctx, in, summary)
	return o.finish(ctx, "create_alert", err)
}

// BookAppointment books a schedule entry. A doctor books in their own name;
// any other caller must name the doctor explicitly.
func (o *Orchestrator) BookAppointment(ctx context.Context, in ports.CreateScheduleInput, doctorID string) error {
	user := o.currentUser()
	if user == nil {
		return ErrNoSession
	}
	if user.Role == domain.RoleDoctor {
		doctorID = user.ID
	}
	if doctorID == "" {
		return ErrDoctorRequired
	}
	if in.PatientID == "" {
		in.PatientID = user.ID
	}

	_, err := o.client.CreateSchedule(ctx, in, doctorID)
	return o.finish(ctx, "book_appointment", err)
}

// AdmitPatient admits a patient directly, without a source alert.
func (o *Orchestrator) AdmitPatient(ctx context.Context, in ports.CreateInpatientInput) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}
	if in.Name == "" || in.Ward == "" {
		return o.finish(ctx, "admit_patient", fmt.Errorf("admit patient: name and ward are required"))
	}
	_, err := o.client.CreateInpatient(ctx, in)
	return o.finish(ctx, "admit_patient", err)
}

// AdmitFromAlert converts an emergency alert into an inpatient. The two
// remote writes are not transactional: the inpatient is created first, then
// the alert deleted, with one compensating retry of the deletion. If the
// retry also fails the admission stands, the alert remains, and
// ErrAlertRetained reports the partial completion.
func (o *Orchestrator) AdmitFromAlert(ctx context.Context, alertID, ward, bed string) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}

	o.mu.RLock()
	alert, ok := o.st.alerts[alertID]
	o.mu.RUnlock()
	if !ok {
		return domain.ErrAlertNotFound
	}

	_, err := o.client.CreateInpatient(ctx, ports.CreateInpatientInput{
		PatientID:     alert.PatientID,
		Name:          alert.PatientName,
		Ward:          ward,
		Bed:           bed,
		MedicalRecord: alert.MedicalSummary,
		SourceAlertID: alert.ID,
	})
	if err != nil {
		return o.finish(ctx, "admit_from_alert", fmt.Errorf("admit from alert: %w", err))
	}

	if derr := o.client.DeleteEmergencyAlert(ctx, alert.ID); derr != nil {
		o.log.Warn().Err(derr).Str("alert_id", alert.ID).Msg("alert delete failed after admission, retrying once")
		if derr = o.client.DeleteEmergencyAlert(ctx, alert.ID); derr != nil {
			o.log.Error().Err(derr).Str("alert_id", alert.ID).Msg("alert retained after admission")
			// Surface the duplicate records, then report them.
			if rerr := o.Refresh(ctx); rerr != nil {
				o.log.Error().Err(rerr).Msg("refresh after partial admission failed")
			}
			metrics.CommandsTotal.WithLabelValues("admit_from_alert", "error").Inc()
			return fmt.Errorf("%w: %w", ErrAlertRetained, derr)
		}
	}
	return o.finish(ctx, "admit_from_alert", nil)
}

// UpdateInpatientStatus moves an inpatient through the ward state machine.
func (o *Orchestrator) UpdateInpatientStatus(ctx context.Context, id string, status domain.InpatientStatus) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}
	return o.finish(ctx, "update_inpatient_status", o.client.UpdateInpatientStatus(ctx, id, status))
}

// UpdateInpatientMedicalRecord replaces an inpatient's record snapshot.
func (o *Orchestrator) UpdateInpatientMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}
	record.LastUpdated = time.Now().UTC()
	return o.finish(ctx, "update_inpatient_record", o.client.UpdateInpatientMedicalRecord(ctx, id, record))
}

// UpdatePharmacyStock applies a batch of stock adjustments.
func (o *Orchestrator) UpdatePharmacyStock(ctx context.Context, updates []ports.StockUpdate) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}
	if len(updates) == 0 {
		return nil
	}
	return o.finish(ctx, "update_pharmacy_stock", o.client.UpdatePharmacyStock(ctx, updates))
}

// UpdatePrescriptionStatus marks a prescription filled or cancelled.
func (o *Orchestrator) UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}
	return o.finish(ctx, "update_prescription_status", o.client.UpdatePrescriptionStatus(ctx, id, status))
}

// ScheduleBoardMeeting convenes a medical board meeting.
func (o *Orchestrator) ScheduleBoardMeeting(ctx context.Context, in ports.CreateMeetingInput) error {
	if o.currentUser() == nil {
		return ErrNoSession
	}
	if in.Title == "" {
		return o.finish(ctx, "schedule_meeting", fmt.Errorf("schedule meeting: title is required"))
	}
	_, err := o.client.CreateBoardMeeting(ctx, in)
	return o.finish(ctx, "schedule_meeting", err)
}

// DeleteAlert removes an emergency alert. Admin only: the gate rejects other
// callers before any remote call is issued.
func (o *Orchestrator) DeleteAlert(ctx context.Context, id string) error {
	if err := o.requireAdmin(); err != nil {
		return o.finish(ctx, "delete_alert", err)
	}
	return o.finish(ctx, "delete_alert", o.client.DeleteEmergencyAlert(ctx, id))
}

// DeleteInpatient removes an inpatient record. Admin only.
func (o *Orchestrator) DeleteInpatient(ctx context.Context, id string) error {
	if err := o.requireAdmin(); err != nil {
		return o.finish(ctx, "delete_inpatient", err)
	}
	return o.finish(ctx, "delete_inpatient", o.client.DeleteInpatient(ctx, id))
}

// DeleteBoardMeeting removes a board meeting. Admin only.
func (o *Orchestrator) DeleteBoardMeeting(ctx context.Context, id string) error {
	if err := o.requireAdmin(); err != nil {
		return o.finish(ctx, "delete_meeting", err)
	}
	return o.finish(ctx, "delete_meeting", o.client.DeleteBoardMeeting(ctx, id))
}

// UpdateProfile applies a two-phase update of the caller's own profile: the
// patch is applied tentatively so the UI reflects it immediately, confirmed
// against the remote response, and rolled back to the prior identity if the
// remote write fails.
func (o *Orchestrator) UpdateProfile(ctx context.Context, patch ports.ProfilePatch) error {
	o.mu.Lock()
	if o.st.user == nil {
		o.mu.Unlock()
		return ErrNoSession
	}
	prior := o.st.user
	tentative := applyPatch(prior, patch)
	o.st.user = tentative
	o.mu.Unlock()

	confirmed, err := o.client.UpdateUserProfile(ctx, prior.ID, patch)
	o.mu.Lock()
	if err != nil {
		// Only roll back if nothing else replaced the identity meanwhile.
		if o.st.user == tentative {
			o.st.user = prior
		}
		o.mu.Unlock()
		metrics.CommandsTotal.WithLabelValues("update_profile", "error").Inc()
		return fmt.Errorf("update profile: %w", err)
	}
	o.st.user = confirmed
	o.mu.Unlock()
	return o.finish(ctx, "update_profile", nil)
}

func applyPatch(u *domain.User, patch ports.ProfilePatch) *domain.User {
	patched := *u
	if patch.Name != nil {
		patched.Name = *patch.Name
	}
	if patch.MedicalRecord != nil {
		rec := *patch.MedicalRecord
		rec.LastUpdated = time.Now().UTC()
		patched.MedicalRecord = &rec
	}
	return &patched
}
