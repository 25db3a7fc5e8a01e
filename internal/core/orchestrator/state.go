package orchestrator

import "github.com/hospitalops/portal-system/internal/core/domain"

// View is the top-level screen selected from session and role state.
type View string

const (
	ViewLanding View = "landing"
	ViewPatient View = "patient"
	ViewDoctor  View = "doctor"
	ViewAdmin   View = "admin"
)

// ViewFor is the pure routing function from (session present, active role)
// to a view. Anything that is not a patient or doctor role routes to the
// admin dashboard; non-admin users can never hold a diverging active role,
// so that default only ever applies to administrators.
func ViewFor(sessionPresent bool, activeRole domain.Role) View {
	if !sessionPresent {
		return ViewLanding
	}
	switch activeRole {
	case domain.RolePatient:
		return ViewPatient
	case domain.RoleDoctor:
		return ViewDoctor
	default:
		return ViewAdmin
	}
}

// Snapshot is a read-only copy of orchestrator state handed to views. Views
// never mutate shared state directly; they issue commands.
type Snapshot struct {
	Loading    bool
	User       *domain.User
	ActiveRole domain.Role

	Alerts        map[string]domain.EmergencyAlert
	Inpatients    map[string]domain.Inpatient
	Pharmacy      map[string]domain.PharmacyItem
	Prescriptions map[string]domain.Prescription
	Meetings      map[string]domain.BoardMeeting
	Schedules     map[string]domain.ScheduleItem
}

// SessionPresent reports whether a resolved identity is attached.
func (s Snapshot) SessionPresent() bool { return s.User != nil }

// View returns the view this snapshot routes to.
func (s Snapshot) View() View { return ViewFor(s.SessionPresent(), s.ActiveRole) }

// state is the single mutable container, owned exclusively by the
// orchestrator and guarded by its mutex.
type state struct {
	loading    bool
	user       *domain.User
	activeRole domain.Role

	alerts        map[string]domain.EmergencyAlert
	inpatients    map[string]domain.Inpatient
	pharmacy      map[string]domain.PharmacyItem
	prescriptions map[string]domain.Prescription
	meetings      map[string]domain.BoardMeeting
	schedules     map[string]domain.ScheduleItem
}

func newState() state {
	return state{
		loading:       true,
		alerts:        map[string]domain.EmergencyAlert{},
		inpatients:    map[string]domain.Inpatient{},
		pharmacy:      map[string]domain.PharmacyItem{},
		prescriptions: map[string]domain.Prescription{},
		meetings:      map[string]domain.BoardMeeting{},
		schedules:     map[string]domain.ScheduleItem{},
	}
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// snapshot copies the state for hand-off. The caller must hold at least a
// read lock.
func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Loading:       st.loading,
		ActiveRole:    st.activeRole,
		Alerts:        copyMap(st.alerts),
		Inpatients:    copyMap(st.inpatients),
		Pharmacy:      copyMap(st.pharmacy),
		Prescriptions: copyMap(st.prescriptions),
		Meetings:      copyMap(st.meetings),
		Schedules:     copyMap(st.schedules),
	}
	if st.user != nil {
		u := *st.user
		if st.user.MedicalRecord != nil {
			rec := *st.user.MedicalRecord
			u.MedicalRecord = &rec
		}
		snap.User = &u
	}
	return snap
}
