package models

import "time"

// InstantBooking is a service request captured by the quote funnel with a
// server-computed price.
type InstantBooking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"type:varchar(20);uniqueIndex;not null" json:"reference"`

	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Email string `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone string `gorm:"type:varchar(30);not null" json:"phone"`

	AddressLine1 string `gorm:"type:varchar(255);not null" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(255)" json:"address_line2"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`
	Postcode     string `gorm:"type:varchar(20);index;not null" json:"postcode"`
	PlaceID      string `gorm:"type:varchar(255)" json:"place_id,omitempty"`

	PropertyTier string     `gorm:"type:varchar(20);not null" json:"property_tier"`
	ServiceType  string     `gorm:"type:varchar(30);not null;default:'standard'" json:"service_type"`
	Frequency    string     `gorm:"type:varchar(20);not null;default:'one-off'" json:"frequency"`
	Extras       StringList `gorm:"type:text" json:"extras"`
	Bundle       string     `gorm:"type:varchar(30)" json:"bundle,omitempty"`

	Subtotal   float64 `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	Discount   float64 `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	TotalPrice float64 `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	Currency   string  `gorm:"type:varchar(3);not null;default:'GBP'" json:"currency"`
	Hours      float64 `gorm:"type:decimal(5,2)" json:"estimated_hours"`

	ServiceDate time.Time `gorm:"index;not null" json:"service_date"`
	TimeSlot    string    `gorm:"type:varchar(20)" json:"time_slot"`

	CustomerNotes string `gorm:"type:text" json:"customer_notes"`
	AdminNotes    string `gorm:"type:text" json:"admin_notes"`

	Status         string   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RecaptchaScore *float64 `json:"recaptcha_score,omitempty"`

	CleanerID *uint    `gorm:"index" json:"cleaner_id,omitempty"`
	Cleaner   *Cleaner `gorm:"foreignKey:CleanerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"cleaner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
