package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	Workflow *services.WorkflowService
}

func NewAuthController(workflow *services.WorkflowService) *AuthController {
	return &AuthController{Workflow: workflow}
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := ac.Workflow.Store().GetUserByUsername(strings.TrimSpace(payload.Username))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondWorkflowError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		utils.ErrorLogger.Errorf("failed to sign token: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
		return
	}

	ac.Workflow.RecordLogin(user.ID)

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
