package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tritue-center/app/models"
)

func pricingSnapshot() *Snapshot {
	students := []*models.Student{
		mkStudent("s1", "TT001", "An", "Nguyen"),
		mkStudent("s2", "TT002", "Binh", "Tran"),
	}
	classes := []*models.Class{
		mkClass("c1", "T9A", "Toán 9A", "toan", "9", 100000, nil),
		mkClass("c2", "A9B", "Anh 9B", "anh", "9", 0, nil),
		mkClass("c3", "L9C", "Lý 9C", "ly", "9", 0, nil),
	}
	courses := []*models.Course{
		mkCourse("Toán", "toan", "9", 80000),
		mkCourse("Tiếng Anh", "anh", "9", 70000),
	}
	enrollments := []*models.Enrollment{
		mkEnrollment("c1", "s1", fptr(150000)),
		mkEnrollment("c1", "s2", nil),
		mkEnrollment("c2", "s2", nil),
	}
	return NewSnapshot(students, classes, courses, enrollments)
}

func TestResolveUnitPrice_EnrollmentOverrideWins(t *testing.T) {
	snap := pricingSnapshot()

	// Override 150000 beats the class price 100000 and even a price
	// already stored on the invoice.
	assert.Equal(t, 150000.0, ResolveUnitPrice(snap, "s1", "toan", "c1", nil))
	assert.Equal(t, 150000.0, ResolveUnitPrice(snap, "s1", "toan", "c1", fptr(90000)))
}

func TestResolveUnitPrice_StoredPriceBeatsCatalog(t *testing.T) {
	snap := pricingSnapshot()

	// No override for s2: a locked-in invoice price wins over the
	// class fee so catalog corrections never rewrite history silently.
	assert.Equal(t, 90000.0, ResolveUnitPrice(snap, "s2", "toan", "c1", fptr(90000)))
}

func TestResolveUnitPrice_ClassFee(t *testing.T) {
	snap := pricingSnapshot()

	assert.Equal(t, 100000.0, ResolveUnitPrice(snap, "s2", "toan", "c1", nil))
}

func TestResolveUnitPrice_CourseCatalogFallback(t *testing.T) {
	snap := pricingSnapshot()

	// c2 has no class fee; the grade-9 English course supplies 70000.
	assert.Equal(t, 70000.0, ResolveUnitPrice(snap, "s2", "anh", "c2", nil))
}

func TestResolveUnitPrice_MatchesDisplayLabel(t *testing.T) {
	// Classes created under the display-label convention still match
	// the catalog entry.
	snap := NewSnapshot(nil,
		[]*models.Class{mkClass("c9", "T9", "Toán 9", "Toán", "9", 0, nil)},
		[]*models.Course{mkCourse("Toán", "toan", "9", 85000)},
		nil,
	)

	assert.Equal(t, 85000.0, ResolveUnitPrice(snap, "s1", "Toán", "c9", nil))
}

func TestResolveUnitPrice_GradeMustMatch(t *testing.T) {
	snap := NewSnapshot(nil,
		[]*models.Class{mkClass("c8", "T8", "Toán 8", "toan", "8", 0, nil)},
		[]*models.Course{mkCourse("Toán", "toan", "9", 85000)},
		nil,
	)

	assert.Equal(t, 0.0, ResolveUnitPrice(snap, "s1", "toan", "c8", nil))
}

func TestResolveUnitPrice_NoPriceIsZeroNotError(t *testing.T) {
	snap := pricingSnapshot()

	// c3 has neither a class fee nor a catalog entry. Zero is a
	// representable outcome, not a failure.
	assert.Equal(t, 0.0, ResolveUnitPrice(snap, "s2", "ly", "c3", nil))
}

func TestResolveUnitPrice_UnknownClass(t *testing.T) {
	snap := pricingSnapshot()

	assert.Equal(t, 0.0, ResolveUnitPrice(snap, "s1", "toan", "missing", nil))
}
