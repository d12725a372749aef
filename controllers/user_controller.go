package controllers

import (
	"net/http"

	"github.com/alinbpe/motel-management-system/middleware"
	"github.com/alinbpe/motel-management-system/models"
	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Workflow *services.WorkflowService
}

func NewUserController(workflow *services.WorkflowService) *UserController {
	return &UserController{Workflow: workflow}
}

func (uc *UserController) GetUsers(c *gin.Context) {
	store := uc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	users, err := store.GetUsers()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

type createUserPayload struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

func (uc *UserController) CreateUser(c *gin.Context) {
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	var payload createUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username, password and role required")
		return
	}

	user, err := uc.Workflow.AddUser(payload.Username, payload.Password, payload.Role, operator)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

type updateUserPayload struct {
	Username *string      `json:"username"`
	Password *string      `json:"password"`
	Role     *models.Role `json:"role"`
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	var payload updateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	update := services.UserUpdate{
		Username: payload.Username,
		Password: payload.Password,
		Role:     payload.Role,
	}
	if err := uc.Workflow.UpdateUser(id, update, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "user updated")
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	if err := uc.Workflow.DeleteUser(id, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "user deleted")
}
