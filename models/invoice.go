package models

import "time"

type Invoice struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Number         string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	BookingID      *uint           `gorm:"index" json:"booking_id,omitempty"`
	Booking        *InstantBooking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	CustomerName   string          `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerEmail  string          `gorm:"type:varchar(255);index;not null" json:"customer_email"`
	BillingAddress string          `gorm:"type:varchar(255)" json:"billing_address"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal       float64         `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate        float64         `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	Tax            float64         `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Total          float64         `gorm:"type:decimal(10,2);not null" json:"total"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'GBP'" json:"currency"`
	Status         string          `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	Notes          string          `gorm:"type:text" json:"notes"`
	IssuedAt       time.Time       `gorm:"not null" json:"issued_at"`
	DueAt          time.Time       `gorm:"not null" json:"due_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	InvoiceID   uint    `gorm:"index;not null" json:"invoice_id"`
	Description string  `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Total       float64 `gorm:"type:decimal(10,2);not null" json:"total"`
}
