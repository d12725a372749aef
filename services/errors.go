package services

import "errors"

// Tagged outcomes for workflow operations. Callers distinguish these with
// errors.Is; anything else is a store error.
var (
	ErrNotFound             = errors.New("entity not found")
	ErrForbidden            = errors.New("operation not permitted for role")
	ErrConflict             = errors.New("stale write rejected")
	ErrAlreadyApproved      = errors.New("checklist already approved")
	ErrAlreadyResolved      = errors.New("issue already resolved")
	ErrChecklistIncomplete  = errors.New("checklist has unchecked items")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSchemaNotProvisioned = errors.New("database schema not provisioned")
)
