package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tritue-center/app/models"
)

func materializeFixture() (*Snapshot, []*models.AttendanceSession) {
	snap := pricingSnapshot()
	sessions := []*models.AttendanceSession{
		mkSession("sess1", "c1", date(2026, time.March, 3), present("s1"), present("s2")),
		mkSession("sess2", "c1", date(2026, time.March, 10), present("s1"), absent("s2")),
		mkSession("sess3", "c2", date(2026, time.March, 12), present("s2")),
		// Different month, must not count for March.
		mkSession("sess4", "c1", date(2026, time.April, 2), present("s1")),
	}
	return snap, sessions
}

func findLine(t *testing.T, lines []*models.Invoice, studentID, classID string) *models.Invoice {
	t.Helper()
	for _, inv := range lines {
		if inv.StudentID == studentID && inv.ClassID == classID {
			return inv
		}
	}
	t.Fatalf("no invoice line for student %s class %s", studentID, classID)
	return nil
}

func TestMaterialize_GroupsAttendedSessions(t *testing.T) {
	snap, sessions := materializeFixture()

	lines := Materialize(snap, sessions, nil, 3, 2026)
	require.Len(t, lines, 3)

	// s1 attended twice in c1 at the private rate.
	s1 := findLine(t, lines, "s1", "c1")
	assert.Equal(t, 2, s1.TotalSessions)
	assert.Equal(t, 150000.0, s1.PricePerSession)
	assert.Equal(t, 300000.0, s1.TotalAmount)
	assert.Equal(t, 300000.0, s1.FinalAmount)
	assert.Equal(t, models.InvoiceUnpaid, s1.Status)
	assert.Equal(t, "An Nguyen", s1.StudentName)
	assert.Equal(t, "TT001", s1.StudentCode)
	assert.False(t, s1.Persisted)

	// s2 attended once in c1 (absent on sess2) and once in c2.
	s2c1 := findLine(t, lines, "s2", "c1")
	assert.Equal(t, 1, s2c1.TotalSessions)
	assert.Equal(t, 100000.0, s2c1.TotalAmount)

	s2c2 := findLine(t, lines, "s2", "c2")
	assert.Equal(t, 70000.0, s2c2.PricePerSession)
}

func TestMaterialize_SkipsZeroPricedGroups(t *testing.T) {
	snap := pricingSnapshot()
	// c3 resolves to no price at all; the group cannot produce a
	// billable line and is omitted rather than written at zero.
	sessions := []*models.AttendanceSession{
		mkSession("sess9", "c3", date(2026, time.March, 5), present("s2")),
	}

	lines := Materialize(snap, sessions, nil, 3, 2026)
	assert.Empty(t, lines)
}

func TestMaterialize_OutOfMonthSessionsExcluded(t *testing.T) {
	snap, sessions := materializeFixture()

	lines := Materialize(snap, sessions, nil, 4, 2026)
	require.Len(t, lines, 1)
	assert.Equal(t, "s1", lines[0].StudentID)
	assert.Equal(t, 1, lines[0].TotalSessions)
}

func TestMaterialize_TrustsPersistedCountRecomputesMoney(t *testing.T) {
	snap, sessions := materializeFixture()

	// The operator hand-corrected the count to 5 and granted a
	// 50000 discount. Count and discount stay; money follows the
	// current pricing rules.
	persisted := []*models.Invoice{{
		ID:            "inv1",
		StudentID:     "s1",
		ClassID:       "c1",
		Subject:       "toan",
		Month:         3,
		Year:          2026,
		TotalSessions: 5,
		Discount:      50000,
		Status:        models.InvoiceUnpaid,
		Persisted:     true,
	}}

	lines := Materialize(snap, sessions, persisted, 3, 2026)
	s1 := findLine(t, lines, "s1", "c1")

	assert.True(t, s1.Persisted)
	assert.Equal(t, 5, s1.TotalSessions)
	assert.Equal(t, 150000.0, s1.PricePerSession)
	assert.Equal(t, 750000.0, s1.TotalAmount)
	assert.Equal(t, 50000.0, s1.Discount)
	assert.Equal(t, 700000.0, s1.FinalAmount)
}

func TestMaterialize_StoredPriceSurvivesCatalogChange(t *testing.T) {
	snap := NewSnapshot(
		[]*models.Student{mkStudent("s2", "TT002", "Binh", "Tran")},
		[]*models.Class{mkClass("c1", "T9A", "Toán 9A", "toan", "9", 120000, nil)},
		nil,
		[]*models.Enrollment{mkEnrollment("c1", "s2", nil)},
	)
	sessions := []*models.AttendanceSession{
		mkSession("sess1", "c1", date(2026, time.March, 3), present("s2")),
	}
	// Invoice was created when the class cost 100000; the class fee
	// has since risen to 120000 but the stored price is locked in.
	persisted := []*models.Invoice{{
		ID:              "inv1",
		StudentID:       "s2",
		ClassID:         "c1",
		Subject:         "toan",
		Month:           3,
		Year:            2026,
		TotalSessions:   1,
		PricePerSession: 100000,
		Status:          models.InvoiceUnpaid,
		Persisted:       true,
	}}

	lines := Materialize(snap, sessions, persisted, 3, 2026)
	s2 := findLine(t, lines, "s2", "c1")
	assert.Equal(t, 100000.0, s2.PricePerSession)
	assert.Equal(t, 100000.0, s2.TotalAmount)
}

func TestMaterialize_NoDuplicateKeys(t *testing.T) {
	snap, sessions := materializeFixture()
	// Two persisted rows under the same (student, class, month, year)
	// must collapse to one line, and no candidate may shadow them.
	persisted := []*models.Invoice{
		{ID: "inv1", StudentID: "s1", ClassID: "c1", Subject: "toan", Month: 3, Year: 2026, TotalSessions: 2, Status: models.InvoiceUnpaid, Persisted: true},
		{ID: "inv1-dup", StudentID: "s1", ClassID: "c1", Subject: "toan", Month: 3, Year: 2026, TotalSessions: 9, Status: models.InvoiceUnpaid, Persisted: true},
	}

	lines := Materialize(snap, sessions, persisted, 3, 2026)

	seen := make(map[models.InvoiceKey]int)
	for _, inv := range lines {
		seen[inv.Key()]++
	}
	for key, n := range seen {
		assert.Equalf(t, 1, n, "duplicate line for %+v", key)
	}
	assert.Equal(t, "inv1", findLine(t, lines, "s1", "c1").ID)
}

func TestMaterialize_Idempotent(t *testing.T) {
	snap, sessions := materializeFixture()

	first := Materialize(snap, sessions, nil, 3, 2026)
	second := Materialize(snap, sessions, nil, 3, 2026)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
}
