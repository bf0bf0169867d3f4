package billing

// ResolveUnitPrice determines the effective per-session price for a
// student in a class. This is the only implementation of the fallback
// chain; invoice computation, debt computation and receipts all go
// through it.
//
// Resolution order, first match wins:
//  1. private tuition override on the (student, class) enrollment
//  2. price already stored on the invoice record, when given
//  3. the class's own per-session fee
//  4. course catalog price for the class's grade and subject
//  5. 0 — no price found; the caller keeps the line visible so an
//     operator can fix the catalog, it is not an error
func ResolveUnitPrice(snap *Snapshot, studentID, subject, classID string, storedPrice *float64) float64 {
	if e := snap.Enrollment(classID, studentID); e != nil && e.TuitionOverride != nil {
		return *e.TuitionOverride
	}

	if storedPrice != nil && *storedPrice > 0 {
		return *storedPrice
	}

	class := snap.Class(classID)
	if class != nil && class.PricePerSession > 0 {
		return class.PricePerSession
	}

	if class != nil {
		if subject == "" {
			subject = class.Subject
		}
		if price, ok := snap.CoursePrice(class.Grade, subject); ok && price > 0 {
			return price
		}
	}

	return 0
}
