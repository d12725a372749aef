package services

import (
	"github.com/alinbpe/motel-management-system/models"
)

// Role policy. Pure predicates, no storage access; the workflow service
// consults these before every mutation and the frontend mirrors them to hide
// actions it knows will be rejected.

// Allowed reports whether role is one of the permitted roles. ADMIN passes
// every check.
func Allowed(role models.Role, permitted ...models.Role) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, p := range permitted {
		if role == p {
			return true
		}
	}
	return false
}

// PermittedRoles maps an audit action to the non-admin roles that may perform
// it. Unknown actions are admin-only.
func PermittedRoles(action string) []models.Role {
	switch action {
	case models.ActionCheckIn:
		return []models.Role{models.RoleReception}
	case models.ActionReportIssue:
		return []models.Role{models.RoleReception, models.RoleHousekeeping, models.RoleTechnical}
	case models.ActionResolveIssue:
		return []models.Role{models.RoleTechnical}
	case models.ActionSubmitCleaning:
		return []models.Role{models.RoleHousekeeping}
	case models.ActionApproveCleaning:
		return []models.Role{models.RoleReception}
	}
	return nil
}

// CanChangeStatus reports whether role may drive the from->to cabin
// transition. ADMIN may force any transition (operational escape hatch).
// RECEPTION records checkouts; TECHNICAL confirms a fix by moving a blocked
// cabin back to the cleaning queue.
func CanChangeStatus(role models.Role, from, to models.CabinStatus) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleReception:
		return from == models.StatusOccupied && to == models.StatusEmptyDirty
	case models.RoleTechnical:
		return from.IsIssue() && to == models.StatusEmptyDirty
	}
	return false
}
