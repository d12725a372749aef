package models

import (
	"time"
)

type IssueType string

const (
	IssueTechnical IssueType = "TECHNICAL"
	IssueCleaning  IssueType = "CLEANING"
)

type IssueStatus string

const (
	IssueOpen       IssueStatus = "OPEN"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueResolved   IssueStatus = "RESOLVED"
)

type Issue struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CabinID     uint        `gorm:"index;not null" json:"cabinId"`
	Cabin       Cabin       `gorm:"foreignKey:CabinID;references:ID" json:"-"`
	Type        IssueType   `gorm:"size:20;not null" json:"type"`
	Description string      `gorm:"type:text" json:"description"`
	Status      IssueStatus `gorm:"size:20;not null;check:status IN ('OPEN','IN_PROGRESS','RESOLVED')" json:"status"`
	CreatedBy   uint        `gorm:"column:created_by;index" json:"-"`
	Reporter    User        `gorm:"foreignKey:CreatedBy;references:ID" json:"-"`
	ResolvedAt  *time.Time  `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt   time.Time   `json:"reportedAt"`
	UpdatedAt   time.Time   `json:"-"`
}
