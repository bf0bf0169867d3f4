package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tritue-center/app/models"
)

func mergeInvoice(id, studentID, studentName, classID, subject string, final float64, status models.InvoiceStatus) *models.Invoice {
	return &models.Invoice{
		ID:            id,
		StudentID:     studentID,
		StudentName:   studentName,
		ClassID:       classID,
		Subject:       subject,
		Month:         3,
		Year:          2026,
		TotalSessions: 4,
		TotalAmount:   final,
		FinalAmount:   final,
		Status:        status,
	}
}

func TestGroupByStudent_SumsAndStatus(t *testing.T) {
	invoices := []*models.Invoice{
		mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoicePaid),
		mergeInvoice("b", "s1", "An Nguyen", "c2", "anh", 300000, models.InvoiceUnpaid),
		mergeInvoice("c", "s2", "Binh Tran", "c1", "toan", 400000, models.InvoicePaid),
	}

	groups := GroupByStudent(invoices)
	require.Len(t, groups, 2)

	an := groups[0]
	assert.Equal(t, "An Nguyen", an.StudentName)
	assert.Equal(t, 8, an.TotalSessions)
	assert.Equal(t, 800000.0, an.FinalAmount)
	// One unpaid subject keeps the whole row actionable.
	assert.Equal(t, models.InvoiceUnpaid, an.Status)
	assert.Len(t, an.Invoices, 2)

	binh := groups[1]
	assert.Equal(t, models.InvoicePaid, binh.Status)
}

func TestGroupByStudent_AllPaid(t *testing.T) {
	invoices := []*models.Invoice{
		mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoicePaid),
		mergeInvoice("b", "s1", "An Nguyen", "c2", "anh", 300000, models.InvoicePaid),
	}

	groups := GroupByStudent(invoices)
	require.Len(t, groups, 1)
	assert.Equal(t, models.InvoicePaid, groups[0].Status)
}

func TestApplyFilter_Status(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoicePaid),
		mergeInvoice("b", "s2", "Binh Tran", "c1", "toan", 300000, models.InvoiceUnpaid),
	}

	out := ApplyFilter(snap, invoices, Filter{Status: "unpaid"})
	require.Len(t, out, 1)
	assert.Equal(t, "s2", out[0].StudentID)
}

func TestApplyFilter_Search(t *testing.T) {
	snap := pricingSnapshot()
	invoices := []*models.Invoice{
		mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoiceUnpaid),
		mergeInvoice("b", "s2", "Binh Tran", "c1", "toan", 300000, models.InvoiceUnpaid),
	}
	invoices[1].StudentCode = "TT002"

	byName := ApplyFilter(snap, invoices, Filter{Search: "nguyen"})
	require.Len(t, byName, 1)
	assert.Equal(t, "s1", byName[0].StudentID)

	byCode := ApplyFilter(snap, invoices, Filter{Search: "tt002"})
	require.Len(t, byCode, 1)
	assert.Equal(t, "s2", byCode[0].StudentID)
}

func TestApplyFilter_Classes(t *testing.T) {
	snap := pricingSnapshot()
	a := mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoiceUnpaid)
	b := mergeInvoice("b", "s2", "Binh Tran", "c2", "anh", 300000, models.InvoiceUnpaid)

	out := ApplyFilter(snap, []*models.Invoice{a, b}, Filter{ClassIDs: []string{"c2", "c3"}})
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestApplyFilter_Teacher(t *testing.T) {
	teacher := "t1"
	snap := NewSnapshot(nil, []*models.Class{
		mkClass("c1", "T9A", "Toán 9A", "toan", "9", 100000, &teacher),
		mkClass("c2", "A9B", "Anh 9B", "anh", "9", 70000, nil),
	}, nil, nil)

	a := mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoiceUnpaid)
	b := mergeInvoice("b", "s2", "Binh Tran", "c2", "anh", 300000, models.InvoiceUnpaid)

	out := ApplyFilter(snap, []*models.Invoice{a, b}, Filter{TeacherID: "t1"})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestApplyFilter_SessionClassMatches(t *testing.T) {
	snap := pricingSnapshot()
	a := mergeInvoice("a", "s1", "An Nguyen", "c1", "toan", 500000, models.InvoiceUnpaid)
	a.Sessions = []models.SessionSnapshot{{SessionID: "x", ClassID: "c2", Subject: "anh", Date: "2026-03-03"}}

	out := ApplyFilter(snap, []*models.Invoice{a}, Filter{ClassIDs: []string{"c2"}})
	assert.Len(t, out, 1)
}
