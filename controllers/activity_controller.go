package controllers

import (
	"net/http"

	"github.com/alinbpe/motel-management-system/models"
	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"

	"github.com/gin-gonic/gin"
)

// ActivityController serves the audit log and notification feed.
type ActivityController struct {
	Workflow *services.WorkflowService
}

func NewActivityController(workflow *services.WorkflowService) *ActivityController {
	return &ActivityController{Workflow: workflow}
}

type logView struct {
	models.LogEntry
	Username string `json:"username"`
}

func (alc *ActivityController) GetLogs(c *gin.Context) {
	store := alc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	logs, err := store.GetLogs()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	index, err := store.UsernameIndex()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	views := make([]logView, 0, len(logs))
	for _, entry := range logs {
		views = append(views, logView{
			LogEntry: entry,
			Username: usernameOr(index, entry.UserID, "System"),
		})
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

func (alc *ActivityController) GetNotifications(c *gin.Context) {
	store := alc.Workflow.Store()
	if err := store.CheckSchema(); err != nil {
		respondWorkflowError(c, err)
		return
	}
	notifications, err := store.GetNotifications()
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, notifications)
}

func (alc *ActivityController) MarkNotificationRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := alc.Workflow.Store().MarkNotificationRead(id); err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "notification read")
}
