package models

import "time"

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"reference"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Subject   string    `gorm:"type:varchar(150)" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"type:varchar(15);not null;default:'unread';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
