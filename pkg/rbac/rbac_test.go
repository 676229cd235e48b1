package rbac

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role model.Role
		perm model.Permission
		want bool
	}{
		{"trainer manages clients", model.RoleTrainer, model.PermManageClients, true},
		{"trainer edits plans", model.RoleTrainer, model.PermManageWorkoutPlans, true},
		{"trainer cannot log weight", model.RoleTrainer, model.PermLogWeight, false},
		{"client logs weight", model.RoleClient, model.PermLogWeight, true},
		{"client cannot edit diet plans", model.RoleClient, model.PermManageDietPlans, false},
		{"unknown role", model.RoleUnknown, model.PermViewOwnPlans, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestRolesAreDisjoint(t *testing.T) {
	for _, p := range Permissions(model.RoleTrainer) {
		if HasPermission(model.RoleClient, p) {
			t.Errorf("permission %s granted to both roles", p)
		}
	}
}

func TestRequire(t *testing.T) {
	if err := Require(model.RoleClient, model.PermEditWeeklyGoal); err != nil {
		t.Fatalf("Require allowed: %v", err)
	}
	err := Require(model.RoleClient, model.PermManageClients)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Require denied: err = %v, want ErrPermissionDenied", err)
	}
}

func TestPermissions(t *testing.T) {
	want := []model.Permission{
		model.PermLogWeight,
		model.PermEditWeeklyGoal,
		model.PermViewOwnPlans,
		model.PermChooseTrainer,
	}
	if diff := cmp.Diff(want, Permissions(model.RoleClient)); diff != "" {
		t.Errorf("Permissions(client) mismatch (-want +got):\n%s", diff)
	}
	if got := Permissions(model.RoleUnknown); len(got) != 0 {
		t.Errorf("Permissions(unknown) = %v, want none", got)
	}
}
