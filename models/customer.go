package models

import "time"

// Customer is derived by grouping bookings by email; it has no table.
type Customer struct {
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Postcode      string    `json:"postcode"`
	BookingsCount int       `json:"bookings_count"`
	TotalSpent    float64   `json:"total_spent"`
	LastBookingAt time.Time `json:"last_booking_at"`
}
