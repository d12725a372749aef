package models

import (
	"time"
)

type CabinStatus string

const (
	StatusOccupied         CabinStatus = "OCCUPIED"
	StatusEmptyDirty       CabinStatus = "EMPTY_DIRTY"
	StatusEmptyClean       CabinStatus = "EMPTY_CLEAN"
	StatusIssueTech        CabinStatus = "ISSUE_TECH"
	StatusIssueClean       CabinStatus = "ISSUE_CLEAN"
	StatusUnderMaintenance CabinStatus = "UNDER_MAINTENANCE"
)

func (s CabinStatus) Valid() bool {
	switch s {
	case StatusOccupied, StatusEmptyDirty, StatusEmptyClean,
		StatusIssueTech, StatusIssueClean, StatusUnderMaintenance:
		return true
	}
	return false
}

// IsIssue reports whether the status marks the cabin as blocked by a problem.
func (s CabinStatus) IsIssue() bool {
	return s == StatusIssueTech || s == StatusIssueClean || s == StatusUnderMaintenance
}

type Cabin struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Status    CabinStatus `gorm:"size:32;not null;check:status IN ('OCCUPIED','EMPTY_DIRTY','EMPTY_CLEAN','ISSUE_TECH','ISSUE_CLEAN','UNDER_MAINTENANCE')" json:"status"`
	Icon      string      `gorm:"size:50" json:"icon"`
	Version   uint        `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	// Derived on read from the stays/issues/cleaning_checklists tables,
	// never stored (see EntityStore.GetCabins).
	CurrentStayID     *uint `gorm:"-" json:"currentStayId,omitempty"`
	ActiveIssueID     *uint `gorm:"-" json:"activeIssueId,omitempty"`
	PendingCleaningID *uint `gorm:"-" json:"pendingCleaningId,omitempty"`
}
