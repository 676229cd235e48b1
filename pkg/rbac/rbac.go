// Package rbac decides which actions each account role may perform.
package rbac

import (
	"errors"
	"fmt"

	"github.com/NicolasHaas/fitcoach/pkg/model"
)

// ErrPermissionDenied is wrapped by Require.
var ErrPermissionDenied = errors.New("permission denied")

// permissionMatrix maps roles to their allowed permissions.
var permissionMatrix = map[model.Role]map[model.Permission]bool{
	model.RoleTrainer: {
		model.PermManageClients:      true,
		model.PermManageWorkoutPlans: true,
		model.PermManageDietPlans:    true,
		model.PermViewClientProgress: true,
	},
	model.RoleClient: {
		model.PermLogWeight:      true,
		model.PermEditWeeklyGoal: true,
		model.PermViewOwnPlans:   true,
		model.PermChooseTrainer:  true,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role model.Role, perm model.Permission) bool {
	perms, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	return perms[perm]
}

// Require returns nil when allowed, or an error wrapping ErrPermissionDenied.
func Require(role model.Role, perm model.Permission) error {
	if HasPermission(role, perm) {
		return nil
	}
	return fmt.Errorf("%w: %s is not allowed for role %s", ErrPermissionDenied, perm, role)
}

// Permissions lists what role may do, in declaration order.
func Permissions(role model.Role) []model.Permission {
	var out []model.Permission
	for p := model.PermManageClients; p <= model.PermChooseTrainer; p++ {
		if HasPermission(role, p) {
			out = append(out, p)
		}
	}
	return out
}
