package models

import "time"

// Invoice is one billing line for a student, class/subject and month.
// A line starts life as a materialized candidate (no row yet) and is
// persisted on first edit or payment. Once paid it is locked; the only
// way back is an explicit revert to unpaid.
type Invoice struct {
	ID              string            `json:"id" gorm:"primaryKey"`
	StudentID       string            `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentName     string            `json:"student_name"`
	StudentCode     string            `json:"student_code"`
	ClassID         string            `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassName       string            `json:"class_name"`
	ClassCode       string            `json:"class_code"`
	Subject         string            `json:"subject"`
	Month           int               `json:"month" gorm:"not null" validate:"required,min=1,max=12"`
	Year            int               `json:"year" gorm:"not null" validate:"required"`
	TotalSessions   int               `json:"total_sessions" gorm:"default:0"`
	PricePerSession float64           `json:"price_per_session" gorm:"type:numeric;default:0"`
	TotalAmount     float64           `json:"total_amount" gorm:"type:numeric;default:0"`
	Discount        float64           `json:"discount" gorm:"type:numeric;default:0"`
	// Debt, when set, overrides the ledger-computed carried-over
	// balance. Cleared ( = recompute on next read) whenever an earlier
	// invoice of the same student is deleted.
	Debt        *float64          `json:"debt,omitempty" gorm:"type:numeric"`
	FinalAmount float64           `json:"final_amount" gorm:"type:numeric;default:0"`
	Status      InvoiceStatus     `json:"status" gorm:"not null;default:'unpaid'"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
	Sessions    []SessionSnapshot `json:"sessions" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"autoUpdateTime"`

	// Persisted reports whether the line is backed by a stored row.
	Persisted bool `json:"persisted" gorm:"-"`
}

// SessionSnapshot is the slice of an attendance session an invoice was
// built from, captured at materialization/edit time. The price
// override has to live here so a paid or edited invoice reproduces its
// amounts after catalog changes.
type SessionSnapshot struct {
	SessionID string   `json:"session_id"`
	ClassID   string   `json:"class_id"`
	Subject   string   `json:"subject"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Price     *float64 `json:"price,omitempty"`
}

// IsPaid reports whether the invoice is locked against edits.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoicePaid
}

// Key identifies the invoice line independent of persistence:
// one line per (student, class, month, year).
func (i *Invoice) Key() InvoiceKey {
	return InvoiceKey{StudentID: i.StudentID, ClassID: i.ClassID, Month: i.Month, Year: i.Year}
}

type InvoiceKey struct {
	StudentID string
	ClassID   string
	Month     int
	Year      int
}

// DebtItem is one month's unpaid carry-over in a debt breakdown.
type DebtItem struct {
	Month  int     `json:"month"`
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// DebtBreakdown lists unpaid balances from months strictly before the
// queried one. Derived on demand, never stored.
type DebtBreakdown struct {
	Items []DebtItem `json:"items"`
	Total float64    `json:"total"`
}
