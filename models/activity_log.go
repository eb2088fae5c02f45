package models

import "time"

// ActivityLog records one admin mutation.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminID    *uint     `gorm:"index" json:"admin_id,omitempty"`
	ActorEmail string    `gorm:"type:varchar(255)" json:"actor_email"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Detail     string    `gorm:"type:text" json:"detail"`
	IP         string    `gorm:"type:varchar(45)" json:"ip"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
