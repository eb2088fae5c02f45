package models

// Booking status labels. Any label may replace any other; there is no
// transition graph.
const (
	StatusPending      = "pending"
	StatusConfirmed    = "confirmed"
	StatusAssigned     = "assigned"
	StatusOnTheWay     = "on_the_way"
	StatusInProgress   = "in_progress"
	StatusQualityCheck = "quality_check"
	StatusCompleted    = "completed"
	StatusCancelled    = "cancelled"
	StatusRescheduled  = "rescheduled"
)

var BookingStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusAssigned,
	StatusOnTheWay,
	StatusInProgress,
	StatusQualityCheck,
	StatusCompleted,
	StatusCancelled,
	StatusRescheduled,
}

// Contact message labels.
const (
	MessageUnread   = "unread"
	MessageRead     = "read"
	MessageArchived = "archived"
)

var MessageStatuses = []string{MessageUnread, MessageRead, MessageArchived}

// Cleaner assignment labels.
const (
	AssignmentAssigned  = "assigned"
	AssignmentAccepted  = "accepted"
	AssignmentDeclined  = "declined"
	AssignmentCompleted = "completed"
)

var AssignmentStatuses = []string{AssignmentAssigned, AssignmentAccepted, AssignmentDeclined, AssignmentCompleted}

// Invoice labels.
const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
	InvoiceVoid  = "void"
)

var InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceVoid}

// Admin roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func IsValidBookingStatus(s string) bool    { return contains(BookingStatuses, s) }
func IsValidMessageStatus(s string) bool    { return contains(MessageStatuses, s) }
func IsValidAssignmentStatus(s string) bool { return contains(AssignmentStatuses, s) }
func IsValidInvoiceStatus(s string) bool    { return contains(InvoiceStatuses, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
