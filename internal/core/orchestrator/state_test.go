package orchestrator

import (
	"testing"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

func TestViewFor(t *testing.T) {
	cases := []struct {
		name    string
		present bool
		role    domain.Role
		want    View
	}{
		{"no session", false, domain.RoleAdmin, ViewLanding},
		{"patient", true, domain.RolePatient, ViewPatient},
		{"doctor", true, domain.RoleDoctor, ViewDoctor},
		{"admin", true, domain.RoleAdmin, ViewAdmin},
		{"unknown role defaults to admin", true, domain.Role("other"), ViewAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ViewFor(tc.present, tc.role); got != tc.want {
				t.Fatalf("ViewFor(%v, %s) = %s, want %s", tc.present, tc.role, got, tc.want)
			}
		})
	}
}
