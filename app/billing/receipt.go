package billing

import (
	"tritue-center/app/models"
)

// ReceiptLine is one subject row on a printable receipt.
type ReceiptLine struct {
	InvoiceID   string  `json:"invoice_id"`
	ClassName   string  `json:"class_name"`
	Subject     string  `json:"subject"`
	Sessions    int     `json:"sessions"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
	Paid        bool    `json:"paid"`
}

// Receipt is the number set behind a printed tuition receipt for one
// student and month. Rendering happens client-side; this is data only.
type Receipt struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	StudentCode string            `json:"student_code"`
	Month       int               `json:"month"`
	Year        int               `json:"year"`
	Lines       []ReceiptLine     `json:"lines"`
	Subtotal    float64           `json:"subtotal"`
	Discount    float64           `json:"discount"`
	Debt        float64           `json:"debt"`
	DebtItems   []models.DebtItem `json:"debt_items"`
	GrandTotal  float64           `json:"grand_total"`
}

// BuildReceipt derives the receipt through the same materializer,
// pricing chain and debt ledger the invoice views use.
func BuildReceipt(snap *Snapshot, sessions []*models.AttendanceSession, persisted []*models.Invoice, studentID string, month, year int) *Receipt {
	r := &Receipt{StudentID: studentID, Month: month, Year: year}
	if st := snap.Student(studentID); st != nil {
		r.StudentName = st.FullName()
		r.StudentCode = st.Code
	}

	lines := Materialize(snap, sessions, persisted, month, year)
	for _, inv := range lines {
		if inv.StudentID != studentID {
			continue
		}
		r.Lines = append(r.Lines, ReceiptLine{
			InvoiceID:   inv.ID,
			ClassName:   inv.ClassName,
			Subject:     inv.Subject,
			Sessions:    inv.TotalSessions,
			UnitPrice:   inv.PricePerSession,
			Amount:      inv.TotalAmount,
			Discount:    inv.Discount,
			FinalAmount: inv.FinalAmount,
			Paid:        inv.IsPaid(),
		})
		r.Subtotal += inv.TotalAmount
		r.Discount += inv.Discount
	}

	// Earlier-month persisted invoices feed the ledger; the current
	// period's materialized lines carry the manual debt override if any.
	all := append(append([]*models.Invoice{}, persisted...), lines...)
	breakdown := ComputeDebt(snap, all, sessions, studentID, month, year)
	r.DebtItems = breakdown.Items
	r.Debt = DisplayDebt(all, breakdown, studentID, month, year)
	r.GrandTotal = finalAmount(r.Subtotal, r.Discount) + r.Debt
	return r
}
