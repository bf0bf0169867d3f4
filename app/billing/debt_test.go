package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tritue-center/app/models"
)

func debtInvoice(id, studentID, classID string, month, year int, final float64, status models.InvoiceStatus) *models.Invoice {
	return &models.Invoice{
		ID:          id,
		StudentID:   studentID,
		ClassID:     classID,
		Month:       month,
		Year:        year,
		TotalAmount: final,
		FinalAmount: final,
		Status:      status,
		Persisted:   true,
	}
}

func TestComputeDebt_SumsUnpaidEarlierMonths(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		debtInvoice("i1", "s1", "c1", 1, 2026, 300000, models.InvoiceUnpaid),
		debtInvoice("i2", "s1", "c1", 2, 2026, 450000, models.InvoiceUnpaid),
		debtInvoice("i3", "s1", "c2", 2, 2026, 140000, models.InvoicePaid), // paid, not debt
		debtInvoice("i4", "s1", "c1", 3, 2026, 600000, models.InvoiceUnpaid), // target month itself
		debtInvoice("i5", "s2", "c1", 1, 2026, 100000, models.InvoiceUnpaid), // other student
	}

	b := ComputeDebt(snap, invoices, nil, "s1", 3, 2026)

	require.Len(t, b.Items, 2)
	assert.Equal(t, models.DebtItem{Month: 1, Year: 2026, Amount: 300000}, b.Items[0])
	assert.Equal(t, models.DebtItem{Month: 2, Year: 2026, Amount: 450000}, b.Items[1])
	assert.Equal(t, 750000.0, b.Total)
}

func TestComputeDebt_CalendarOrderingAcrossYears(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		debtInvoice("i1", "s1", "c1", 12, 2025, 200000, models.InvoiceUnpaid),
		debtInvoice("i2", "s1", "c1", 1, 2026, 100000, models.InvoiceUnpaid),
		debtInvoice("i3", "s1", "c1", 2, 2026, 100000, models.InvoiceUnpaid), // not earlier than target
	}

	b := ComputeDebt(snap, invoices, nil, "s1", 2, 2026)

	require.Len(t, b.Items, 2)
	assert.Equal(t, 2025, b.Items[0].Year)
	assert.Equal(t, 12, b.Items[0].Month)
	assert.Equal(t, 300000.0, b.Total)
}

func TestComputeDebt_AttendanceGapFallback(t *testing.T) {
	snap := pricingSnapshot()
	// January: attendance exists for s2 in c1 but no invoice was ever
	// saved. The gap contributes 2 sessions at the class fee.
	sessions := []*models.AttendanceSession{
		mkSession("g1", "c1", date(2026, time.January, 6), present("s2")),
		mkSession("g2", "c1", date(2026, time.January, 13), present("s2"), absent("s1")),
	}

	b := ComputeDebt(snap, nil, sessions, "s2", 3, 2026)

	require.Len(t, b.Items, 1)
	assert.Equal(t, models.DebtItem{Month: 1, Year: 2026, Amount: 200000}, b.Items[0])
}

func TestComputeDebt_PersistedInvoiceSuppressesGap(t *testing.T) {
	snap := pricingSnapshot()
	sessions := []*models.AttendanceSession{
		mkSession("g1", "c1", date(2026, time.January, 6), present("s2")),
	}
	// A paid invoice already covers (s2, c1, Jan): the attendance
	// fallback must not double-count the period.
	invoices := []*models.Invoice{
		debtInvoice("i1", "s2", "c1", 1, 2026, 100000, models.InvoicePaid),
	}

	b := ComputeDebt(snap, invoices, sessions, "s2", 3, 2026)

	assert.Empty(t, b.Items)
	assert.Equal(t, 0.0, b.Total)
}

func TestComputeDebt_GapSkippedWhenPriceUnresolvable(t *testing.T) {
	snap := pricingSnapshot()
	sessions := []*models.AttendanceSession{
		mkSession("g1", "c3", date(2026, time.January, 6), present("s2")),
	}

	b := ComputeDebt(snap, nil, sessions, "s2", 3, 2026)
	assert.Empty(t, b.Items)
}

func TestDisplayDebt_ManualOverrideWins(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		debtInvoice("i1", "s1", "c1", 2, 2026, 450000, models.InvoiceUnpaid),
	}
	target := debtInvoice("i2", "s1", "c1", 3, 2026, 600000, models.InvoiceUnpaid)
	target.Debt = fptr(99000)
	invoices = append(invoices, target)

	b := ComputeDebt(snap, invoices, nil, "s1", 3, 2026)

	// Computed breakdown stays available for drill-down...
	assert.Equal(t, 450000.0, b.Total)
	// ...but the explicit override wins for display.
	assert.Equal(t, 99000.0, DisplayDebt(invoices, b, "s1", 3, 2026))
}

func TestDisplayDebt_NoOverrideUsesComputedTotal(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		debtInvoice("i1", "s1", "c1", 2, 2026, 450000, models.InvoiceUnpaid),
	}

	b := ComputeDebt(snap, invoices, nil, "s1", 3, 2026)
	assert.Equal(t, 450000.0, DisplayDebt(invoices, b, "s1", 3, 2026))
}

func TestComputeDebt_DeletionMonotonicity(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		debtInvoice("i1", "s1", "c1", 1, 2026, 300000, models.InvoiceUnpaid),
		debtInvoice("i2", "s1", "c1", 2, 2026, 450000, models.InvoiceUnpaid),
	}

	before := ComputeDebt(snap, invoices, nil, "s1", 3, 2026)

	// Deleting the February invoice: totals for months at or before
	// February are untouched, later totals drop by exactly its amount.
	without := []*models.Invoice{invoices[0]}
	atFeb := ComputeDebt(snap, without, nil, "s1", 2, 2026)
	assert.Equal(t, 300000.0, atFeb.Total)

	after := ComputeDebt(snap, without, nil, "s1", 3, 2026)
	assert.Equal(t, before.Total-450000, after.Total)
}
