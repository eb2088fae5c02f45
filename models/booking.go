package models

import "time"

// Booking is the older free-form booking request shape, kept alongside
// instant bookings.
type Booking struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone          string    `gorm:"type:varchar(30);not null" json:"phone"`
	Address        string    `gorm:"type:varchar(255)" json:"address"`
	Postcode       string    `gorm:"type:varchar(20)" json:"postcode"`
	ServiceType    string    `gorm:"type:varchar(50);not null" json:"service_type"`
	PropertySize   string    `gorm:"type:varchar(30)" json:"property_size"`
	PreferredDate  time.Time `json:"preferred_date"`
	PreferredTime  string    `gorm:"type:varchar(20)" json:"preferred_time"`
	Message        string    `gorm:"type:text" json:"message"`
	EstimatedPrice float64   `gorm:"type:decimal(10,2);default:0" json:"estimated_price"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes     string    `gorm:"type:text" json:"admin_notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
