package controllers

import (
	"net/http"

	"github.com/alinbpe/motel-management-system/middleware"
	"github.com/alinbpe/motel-management-system/models"
	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
)

type CleaningController struct {
	Workflow *services.WorkflowService
}

func NewCleaningController(workflow *services.WorkflowService) *CleaningController {
	return &CleaningController{Workflow: workflow}
}

// GetItems serves the fixed housekeeping catalog the checklist form renders.
func (clc *CleaningController) GetItems(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, models.CleaningItems)
}

type submitChecklistPayload struct {
	Items map[string]bool `json:"items" binding:"required"`
}

func (clc *CleaningController) Submit(c *gin.Context) {
	cabinID, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	var payload submitChecklistPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "items required")
		return
	}

	if err := clc.Workflow.SubmitCleaningChecklist(cabinID, payload.Items, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "checklist submitted")
}

type checklistView struct {
	models.CleaningChecklist
	FilledBy   string `json:"filledBy"`
	ApprovedBy string `json:"approvedBy,omitempty"`
}

func (clc *CleaningController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store := clc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}

	checklist, err := store.GetChecklist(id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	index, err := store.UsernameIndex()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	view := checklistView{
		CleaningChecklist: checklist,
		FilledBy:          usernameOr(index, checklist.FilledBy, "Unknown"),
	}
	if checklist.ApprovedBy != nil {
		view.ApprovedBy = usernameOr(index, *checklist.ApprovedBy, "Unknown")
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

func (clc *CleaningController) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	if err := clc.Workflow.ApproveCleaningChecklist(id, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "checklist approved")
}
