package models

import (
	"time"
)

// Audit log actions recorded by the workflow engine.
const (
	ActionChangeStatus    = "CHANGE_STATUS"
	ActionCheckIn         = "CHECK_IN"
	ActionReportIssue     = "REPORT_ISSUE"
	ActionResolveIssue    = "RESOLVE_ISSUE"
	ActionSubmitCleaning  = "SUBMIT_CLEANING"
	ActionApproveCleaning = "APPROVE_CLEANING"
	ActionAddUser         = "ADD_USER"
	ActionUpdateUser      = "UPDATE_USER"
	ActionDeleteUser      = "DELETE_USER"
)

// LogEntry is append-only; nothing updates or deletes rows in the logs table.
type LogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"timestamp"`
}

func (LogEntry) TableName() string {
	return "logs"
}
