package controllers

import (
	"errors"
	"net/http"

	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
)

// respondWorkflowError maps tagged workflow outcomes onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrAlreadyApproved),
		errors.Is(err, services.ErrAlreadyResolved):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrChecklistIncomplete):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSchemaNotProvisioned):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "database schema not provisioned",
			"hint":    "run the migrations (the server does this on startup when it can reach the database)",
		})
	default:
		utils.ErrorLogger.Errorf("workflow error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

// usernameOr resolves a user id against the index, falling back when the user
// was deleted or renamed away.
func usernameOr(index map[uint]string, id uint, fallback string) string {
	if name, ok := index[id]; ok {
		return name
	}
	return fallback
}
