package models

import (
	"time"
)

type Stay struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CabinID      uint      `gorm:"index;not null" json:"cabinId"`
	Cabin        Cabin     `gorm:"foreignKey:CabinID;references:ID" json:"-"`
	GuestCount   int       `gorm:"column:guest_count;not null" json:"guestCount"`
	Nights       int       `gorm:"not null" json:"nights"`
	CheckinDate  time.Time `gorm:"column:checkin_date;not null" json:"checkInDate"`
	CheckoutDate time.Time `gorm:"column:checkout_date;not null" json:"checkOutDate"`
	CreatedBy    uint      `gorm:"column:created_by;index" json:"-"`
	Creator      User      `gorm:"foreignKey:CreatedBy;references:ID" json:"-"`
	Active       bool      `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
