package models

import (
	"time"

	"gorm.io/datatypes"
)

type ChecklistStatus string

const (
	ChecklistSubmitted ChecklistStatus = "SUBMITTED"
	ChecklistApproved  ChecklistStatus = "APPROVED"
)

// CleaningItems is the fixed housekeeping catalog every checklist is filled
// against. The resort tracks the same sixteen points for each cabin.
var CleaningItems = []string{
	"Wash dishes and clean the sink",
	"Dish soap and hand soap stocked",
	"Bathroom and fixtures scrubbed",
	"All waste bins emptied",
	"Bedding, pillowcases and linens checked",
	"No cobwebs (ceiling and bathroom)",
	"Cabin smells fresh",
	"Tableware and fridge restocked",
	"Supplies: matches, tea, sheets, salt, pepper",
	"Sofa, rugs and floors cleaned",
	"Curtains and windows cleaned",
	"Fridge cleaned and defrosted",
	"Full dusting (TV, table, mirror)",
	"Slippers and shoe rack cleaned",
	"Firewood, charcoal and lamp oil topped up",
	"Yard, kettle, teapot and barbecue cleaned",
}

type CleaningChecklist struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	CabinID    uint              `gorm:"index;not null" json:"cabinId"`
	Cabin      Cabin             `gorm:"foreignKey:CabinID;references:ID" json:"-"`
	Items      datatypes.JSONMap `gorm:"not null" json:"items"`
	FilledBy   uint              `gorm:"column:filled_by" json:"-"`
	Filler     User              `gorm:"foreignKey:FilledBy;references:ID" json:"-"`
	ApprovedBy *uint             `gorm:"column:approved_by" json:"-"`
	Status     ChecklistStatus   `gorm:"size:20;not null;check:status IN ('SUBMITTED','APPROVED')" json:"status"`
	ApprovedAt *time.Time        `gorm:"column:approved_at" json:"approvedAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"-"`
}
