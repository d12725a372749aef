package controllers

import (
	"net/http"
	"strconv"

	"github.com/alinbpe/motel-management-system/middleware"
	"github.com/alinbpe/motel-management-system/models"
	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
)

type CabinController struct {
	Workflow *services.WorkflowService
}

func NewCabinController(workflow *services.WorkflowService) *CabinController {
	return &CabinController{Workflow: workflow}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// GetCabins returns all cabins with their derived references.
func (cc *CabinController) GetCabins(c *gin.Context) {
	store := cc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	cabins, err := store.GetCabins()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cabins)
}

func (cc *CabinController) GetCabin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store := cc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	cabin, err := store.GetCabin(id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cabin)
}

// GetOverview reloads every collection in one response. Screens re-render
// from this after mutations instead of patching local state.
func (cc *CabinController) GetOverview(c *gin.Context) {
	snapshot, err := cc.Workflow.Store().LoadSnapshot()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, snapshot)
}

type changeStatusPayload struct {
	Status  models.CabinStatus `json:"status" binding:"required"`
	Details string             `json:"details"`
}

func (cc *CabinController) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	var payload changeStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status required")
		return
	}

	if err := cc.Workflow.ChangeCabinStatus(id, payload.Status, operator, payload.Details); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "status changed")
}

type checkInPayload struct {
	GuestCount int `json:"guestCount" binding:"required,min=1"`
	Nights     int `json:"nights" binding:"required,min=1"`
}

func (cc *CabinController) CheckIn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	var payload checkInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "guestCount and nights required")
		return
	}

	if err := cc.Workflow.CheckIn(id, payload.GuestCount, payload.Nights, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "checked in")
}

type reportIssuePayload struct {
	Type        models.IssueType `json:"type" binding:"required"`
	Description string           `json:"description" binding:"required"`
}

func (cc *CabinController) ReportIssue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	var payload reportIssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "type and description required")
		return
	}

	if err := cc.Workflow.ReportIssue(id, payload.Type, payload.Description, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "issue reported")
}

func (cc *CabinController) ResolveIssue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	operator, ok := middleware.Operator(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "operator missing")
		return
	}

	if err := cc.Workflow.ResolveIssue(id, operator); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "issue resolved")
}

type stayView struct {
	models.Stay
	CreatedBy string `json:"createdBy"`
}

func (cc *CabinController) GetStays(c *gin.Context) {
	store := cc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	stays, err := store.GetStays()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	index, err := store.UsernameIndex()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	views := make([]stayView, 0, len(stays))
	for _, stay := range stays {
		views = append(views, stayView{
			Stay:      stay,
			CreatedBy: usernameOr(index, stay.CreatedBy, "Unknown"),
		})
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

type issueView struct {
	models.Issue
	ReportedBy string `json:"reportedBy"`
}

func (cc *CabinController) GetIssues(c *gin.Context) {
	store := cc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	issues, err := store.GetIssues()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	index, err := store.UsernameIndex()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	views := make([]issueView, 0, len(issues))
	for _, issue := range issues {
		views = append(views, issueView{
			Issue:      issue,
			ReportedBy: usernameOr(index, issue.CreatedBy, "Unknown"),
		})
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}
