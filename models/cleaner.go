package models

import "time"

type Cleaner struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone      string    `gorm:"type:varchar(30)" json:"phone"`
	HourlyRate float64   `gorm:"type:decimal(10,2);not null;default:0" json:"hourly_rate"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CleanerAssignment links an instant booking to a cleaner.
type CleanerAssignment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BookingID   uint            `gorm:"index;not null" json:"booking_id"`
	Booking     *InstantBooking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"booking,omitempty"`
	CleanerID   uint            `gorm:"index;not null" json:"cleaner_id"`
	Cleaner     *Cleaner        `gorm:"foreignKey:CleanerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cleaner,omitempty"`
	Status      string          `gorm:"type:varchar(15);not null;default:'assigned'" json:"status"`
	Earnings    float64         `gorm:"type:decimal(10,2);not null;default:0" json:"earnings"`
	Notes       string          `gorm:"type:text" json:"notes"`
	AssignedAt  time.Time       `gorm:"not null" json:"assigned_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
