package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tritue-center/app/models"
)

func TestBuildReceipt_LinesAndTotals(t *testing.T) {
	snap := pricingSnapshot()
	sessions := []*models.AttendanceSession{
		mkSession("a1", "c1", date(2026, time.March, 2), present("s2")),
		mkSession("a2", "c1", date(2026, time.March, 9), present("s2")),
		mkSession("a3", "c1", date(2026, time.March, 16), present("s2")),
		mkSession("a4", "c2", date(2026, time.March, 4), present("s2")),
		mkSession("a5", "c2", date(2026, time.March, 11), present("s2")),
	}

	r := BuildReceipt(snap, sessions, nil, "s2", 3, 2026)

	assert.Equal(t, "Binh Tran", r.StudentName)
	assert.Equal(t, "TT002", r.StudentCode)
	require.Len(t, r.Lines, 2)

	// Two subject rows: 3 math sessions at the class fee, 2 English
	// sessions priced from the catalog.
	bySubject := map[string]ReceiptLine{}
	for _, l := range r.Lines {
		bySubject[l.Subject] = l
	}
	assert.Equal(t, 3, bySubject["toan"].Sessions)
	assert.Equal(t, 300000.0, bySubject["toan"].Amount)
	assert.Equal(t, 2, bySubject["anh"].Sessions)
	assert.Equal(t, 140000.0, bySubject["anh"].Amount)

	assert.Equal(t, 440000.0, r.Subtotal)
	assert.Equal(t, 0.0, r.Debt)
	assert.Equal(t, 440000.0, r.GrandTotal)
}

func TestBuildReceipt_IncludesCarriedDebt(t *testing.T) {
	snap := pricingSnapshot()
	sessions := []*models.AttendanceSession{
		mkSession("a1", "c1", date(2026, time.March, 2), present("s2")),
	}
	persisted := []*models.Invoice{
		debtInvoice("old", "s2", "c1", 2, 2026, 200000, models.InvoiceUnpaid),
	}

	r := BuildReceipt(snap, sessions, persisted, "s2", 3, 2026)

	assert.Equal(t, 100000.0, r.Subtotal)
	assert.Equal(t, 200000.0, r.Debt)
	require.Len(t, r.DebtItems, 1)
	assert.Equal(t, models.DebtItem{Month: 2, Year: 2026, Amount: 200000}, r.DebtItems[0])
	assert.Equal(t, 300000.0, r.GrandTotal)
}

func TestBuildReceipt_ExcludesOtherStudents(t *testing.T) {
	snap := pricingSnapshot()
	sessions := []*models.AttendanceSession{
		mkSession("a1", "c1", date(2026, time.March, 2), present("s1"), present("s2")),
	}

	r := BuildReceipt(snap, sessions, nil, "s2", 3, 2026)

	require.Len(t, r.Lines, 1)
	assert.Equal(t, "s2", r.StudentID)
	assert.Equal(t, 100000.0, r.Subtotal)
}

func TestBuildReceipt_UnknownStudentIsEmpty(t *testing.T) {
	snap := pricingSnapshot()

	r := BuildReceipt(snap, nil, nil, "missing", 3, 2026)

	assert.Empty(t, r.Lines)
	assert.Equal(t, 0.0, r.GrandTotal)
	assert.Equal(t, "", r.StudentName)
}
