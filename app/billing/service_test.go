package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tritue-center/app/models"
)

func serviceInvoice() *models.Invoice {
	return &models.Invoice{
		ID:              "inv1",
		StudentID:       "s2",
		ClassID:         "c1",
		Subject:         "toan",
		Month:           3,
		Year:            2026,
		TotalSessions:   4,
		PricePerSession: 100000,
		TotalAmount:     400000,
		FinalAmount:     400000,
		Status:          models.InvoiceUnpaid,
		Sessions: []models.SessionSnapshot{
			{SessionID: "x1", ClassID: "c1", Subject: "toan", Date: "2026-03-03"},
			{SessionID: "x2", ClassID: "c1", Subject: "toan", Date: "2026-03-10"},
		},
	}
}

func newTestService(store *memStore) *Service {
	return NewService(store, pricingSnapshot(), nil)
}

func TestSetDiscount(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	inv, err := svc.SetDiscount("inv1", 50000)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, inv.Discount)
	assert.Equal(t, 350000.0, inv.FinalAmount)

	saved, _ := store.GetByID("inv1")
	assert.Equal(t, 350000.0, saved.FinalAmount)
}

func TestSetDiscount_Validation(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	_, err := svc.SetDiscount("inv1", -1)
	assert.True(t, IsValidation(err))

	_, err = svc.SetDiscount("inv1", 400001)
	assert.True(t, IsValidation(err))

	// Nothing was written.
	saved, _ := store.GetByID("inv1")
	assert.Equal(t, 0.0, saved.Discount)
}

func TestSetDiscount_NotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.SetDiscount("missing", 1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaidInvoiceIsLocked(t *testing.T) {
	paid := serviceInvoice()
	paid.Status = models.InvoicePaid
	now := time.Now()
	paid.PaidAt = &now

	store := newMemStore(paid)
	svc := newTestService(store)

	_, err := svc.SetDiscount("inv1", 1000)
	assert.ErrorIs(t, err, ErrLocked)
	_, err = svc.SetSessionPrices("inv1", SessionPriceUpdate{Discount: 0})
	assert.ErrorIs(t, err, ErrLocked)
	_, err = svc.ResetToOriginal("inv1")
	assert.ErrorIs(t, err, ErrLocked)
	_, err = svc.MarkPaid("inv1")
	assert.ErrorIs(t, err, ErrLocked)

	// The stored record is untouched.
	saved, _ := store.GetByID("inv1")
	assert.Equal(t, 0.0, saved.Discount)
	assert.Equal(t, models.InvoicePaid, saved.Status)
}

func TestMarkPaidThenRevertThenEdit(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	inv, err := svc.MarkPaid("inv1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	// Derived fields are snapshotted so the record is self-contained.
	assert.Equal(t, "Binh Tran", inv.StudentName)
	assert.Equal(t, "TT002", inv.StudentCode)

	inv, err = svc.RevertToUnpaid("inv1")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceUnpaid, inv.Status)
	assert.Nil(t, inv.PaidAt)

	_, err = svc.SetDiscount("inv1", 20000)
	assert.NoError(t, err)
}

func TestRevertToUnpaid_RequiresPaid(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	_, err := svc.RevertToUnpaid("inv1")
	assert.True(t, IsValidation(err))
}

func TestSetSessionPrices(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	inv, err := svc.SetSessionPrices("inv1", SessionPriceUpdate{
		Prices:   map[string]float64{"toan": 120000},
		Discount: 30000,
	})
	require.NoError(t, err)

	// Count defaults to the persisted 4, never the raw session
	// array length of 2.
	assert.Equal(t, 4, inv.TotalSessions)
	assert.Equal(t, 120000.0, inv.PricePerSession)
	assert.Equal(t, 480000.0, inv.TotalAmount)
	assert.Equal(t, 450000.0, inv.FinalAmount)

	// The sessions snapshot carries the override for future reads.
	for _, s := range inv.Sessions {
		require.NotNil(t, s.Price)
		assert.Equal(t, 120000.0, *s.Price)
	}
}

func TestSetSessionPrices_ExplicitCountOverride(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	inv, err := svc.SetSessionPrices("inv1", SessionPriceUpdate{
		Prices:       map[string]float64{"toan": 100000},
		SessionCount: iptr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, inv.TotalSessions)
	assert.Equal(t, 600000.0, inv.TotalAmount)
}

func TestSetSessionPrices_SetsManualDebt(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	inv, err := svc.SetSessionPrices("inv1", SessionPriceUpdate{Debt: fptr(75000)})
	require.NoError(t, err)
	require.NotNil(t, inv.Debt)
	assert.Equal(t, 75000.0, *inv.Debt)
}

func TestResetToOriginal(t *testing.T) {
	inv := serviceInvoice()
	inv.PricePerSession = 120000
	inv.TotalAmount = 480000
	inv.Discount = 30000
	inv.FinalAmount = 450000
	inv.Sessions[0].Price = fptr(120000)
	inv.Sessions[1].Price = fptr(120000)

	store := newMemStore(inv)
	svc := newTestService(store)

	out, err := svc.ResetToOriginal("inv1")
	require.NoError(t, err)

	// Back to the catalog chain: class fee 100000 for s2 in c1.
	assert.Equal(t, 100000.0, out.PricePerSession)
	assert.Equal(t, 0.0, out.Discount)
	assert.Equal(t, 4, out.TotalSessions) // count untouched
	assert.Equal(t, 400000.0, out.TotalAmount)
	assert.Equal(t, 400000.0, out.FinalAmount)
	for _, s := range out.Sessions {
		assert.Nil(t, s.Price)
	}
}

func TestFinalAmountInvariantAfterEveryMutation(t *testing.T) {
	store := newMemStore(serviceInvoice())
	svc := newTestService(store)

	check := func() {
		saved, err := store.GetByID("inv1")
		require.NoError(t, err)
		want := saved.TotalAmount - saved.Discount
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, saved.FinalAmount)
	}

	_, err := svc.SetDiscount("inv1", 100000)
	require.NoError(t, err)
	check()

	_, err = svc.SetSessionPrices("inv1", SessionPriceUpdate{Prices: map[string]float64{"toan": 90000}, Discount: 360000})
	require.NoError(t, err)
	check()

	_, err = svc.ResetToOriginal("inv1")
	require.NoError(t, err)
	check()

	_, err = svc.MarkPaid("inv1")
	require.NoError(t, err)
	check()
}

func TestMutatingCandidatePersistsIt(t *testing.T) {
	store := newMemStore()
	candidate := serviceInvoice()
	candidate.ID = CandidateID("s2", "c1", 3, 2026)
	candidate.Persisted = false

	svc := NewService(store, pricingSnapshot(), func(id string) *models.Invoice {
		if id == candidate.ID {
			return candidate
		}
		return nil
	})

	inv, err := svc.SetDiscount(candidate.ID, 10000)
	require.NoError(t, err)
	assert.True(t, inv.Persisted)

	saved, err := store.GetByID(candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, saved.Discount)
}

func TestSaveFailureIsGeneric(t *testing.T) {
	store := newMemStore(serviceInvoice())
	store.failSave = true
	svc := newTestService(store)

	_, err := svc.SetDiscount("inv1", 1000)
	assert.ErrorIs(t, err, ErrSaveFailed)

	// In-memory state did not advance.
	saved, _ := store.GetByID("inv1")
	assert.Equal(t, 0.0, saved.Discount)
}

func TestDelete_ClearsLaterDebtOverrides(t *testing.T) {
	feb := serviceInvoice()
	feb.ID = "inv-feb"
	feb.Month = 2

	mar := serviceInvoice()
	mar.ID = "inv-mar"
	mar.Month = 3
	mar.Debt = fptr(400000)

	apr := serviceInvoice()
	apr.ID = "inv-apr"
	apr.Month = 4
	apr.Debt = fptr(800000)

	jan := serviceInvoice()
	jan.ID = "inv-jan"
	jan.Month = 1
	jan.Debt = fptr(50000)

	store := newMemStore(feb, mar, apr, jan)
	svc := newTestService(store)

	result, err := svc.Delete("inv-feb")
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.ElementsMatch(t, []string{"inv-mar", "inv-apr"}, result.Succeeded)

	_, err = store.GetByID("inv-feb")
	assert.ErrorIs(t, err, ErrNotFound)

	// Later months lost their stale overrides; January kept its own.
	mar2, _ := store.GetByID("inv-mar")
	assert.Nil(t, mar2.Debt)
	apr2, _ := store.GetByID("inv-apr")
	assert.Nil(t, apr2.Debt)
	jan2, _ := store.GetByID("inv-jan")
	require.NotNil(t, jan2.Debt)
	assert.Equal(t, 50000.0, *jan2.Debt)
}

func TestDelete_PartialClearFailureIsReported(t *testing.T) {
	feb := serviceInvoice()
	feb.ID = "inv-feb"
	feb.Month = 2

	mar := serviceInvoice()
	mar.ID = "inv-mar"
	mar.Month = 3
	mar.Debt = fptr(400000)

	apr := serviceInvoice()
	apr.ID = "inv-apr"
	apr.Month = 4
	apr.Debt = fptr(800000)

	store := newMemStore(feb, mar, apr)
	store.failClear["inv-apr"] = true
	svc := newTestService(store)

	result, err := svc.Delete("inv-feb")
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, []string{"inv-mar"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "inv-apr", result.Failed[0].ID)
}
