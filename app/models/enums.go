package models

// InvoiceStatus defines the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// PaymentType defines what a teacher payment covers.
type PaymentType string

const (
	PaymentTypeSessions PaymentType = "sessions"
	PaymentTypeBonus    PaymentType = "bonus"
	PaymentTypeCombined PaymentType = "combined"
)
