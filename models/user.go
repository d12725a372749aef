package models

import (
	"time"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleReception    Role = "RECEPTION"
	RoleHousekeeping Role = "HOUSEKEEPING"
	RoleTechnical    Role = "TECHNICAL"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReception, RoleHousekeeping, RoleTechnical:
		return true
	}
	return false
}

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Password  string     `gorm:"size:255;not null" json:"-"` // bcrypt hash, never returned in JSON
	Role      Role       `gorm:"size:20;not null;check:role IN ('ADMIN','RECEPTION','HOUSEKEEPING','TECHNICAL')" json:"role"`
	LastLogin *time.Time `gorm:"column:last_login" json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
