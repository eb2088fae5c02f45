package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&AdminUser{},
		&ContactMessage{},
		&Cleaner{},
		&InstantBooking{},
		&Booking{},
		&CleanerAssignment{},
		&Invoice{},
		&InvoiceItem{},
		&ActivityLog{},
	}
}
