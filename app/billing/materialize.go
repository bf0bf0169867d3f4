package billing

import (
	"fmt"
	"sort"
	"time"

	"tritue-center/app/models"
)

// CandidateID builds the deterministic id a materialized line carries
// until it is persisted. Using the natural key keeps materialization
// idempotent and lets an edit of a candidate upsert under a stable id.
func CandidateID(studentID, classID string, month, year int) string {
	return fmt.Sprintf("%s_%s_%d-%02d", studentID, classID, year, month)
}

// InMonth reports whether the session date, re-parsed to a calendar
// day, falls inside the given month. Rows saved under a mislabeled
// month still only count where their date actually lands.
func InMonth(date time.Time, month, year int) bool {
	return date.Year() == year && int(date.Month()) == month
}

// Materialize produces the complete invoice line set for a month:
// persisted invoices for the period (counts and discounts trusted,
// money recomputed) plus one candidate per (student, class) group of
// attended sessions that has no persisted line yet. Groups whose
// resolved price is 0 are skipped; a session with no determinable
// price cannot produce a billable line.
func Materialize(snap *Snapshot, sessions []*models.AttendanceSession, persisted []*models.Invoice, month, year int) []*models.Invoice {
	type group struct {
		studentID string
		classID   string
		snapshots []models.SessionSnapshot
	}

	groups := make(map[models.InvoiceKey]*group)
	for _, sess := range sessions {
		if !InMonth(sess.Date, month, year) {
			continue
		}
		class := snap.Class(sess.ClassID)
		subject := ""
		if class != nil {
			subject = class.Subject
		}
		for _, rec := range sess.Records {
			if !rec.Present {
				continue
			}
			key := models.InvoiceKey{StudentID: rec.StudentID, ClassID: sess.ClassID, Month: month, Year: year}
			g, ok := groups[key]
			if !ok {
				g = &group{studentID: rec.StudentID, classID: sess.ClassID}
				groups[key] = g
			}
			g.snapshots = append(g.snapshots, models.SessionSnapshot{
				SessionID: sess.ID,
				ClassID:   sess.ClassID,
				Subject:   subject,
				Date:      sess.Date.Format("2006-01-02"),
				Price:     rec.Price,
			})
		}
	}

	seen := make(map[models.InvoiceKey]bool)
	out := make([]*models.Invoice, 0, len(groups))

	// Persisted lines are the source of truth for session counts,
	// discounts and status. Money is always recomputed so that catalog
	// corrections propagate without erasing a hand-adjusted count.
	for _, p := range persisted {
		if p.Month != month || p.Year != year {
			continue
		}
		key := p.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		inv := *p
		inv.Persisted = true
		recompute(snap, &inv)
		fillNames(snap, &inv)
		out = append(out, &inv)
	}

	for key, g := range groups {
		if seen[key] {
			continue
		}
		class := snap.Class(g.classID)
		subject := ""
		if class != nil {
			subject = class.Subject
		}
		price := ResolveUnitPrice(snap, g.studentID, subject, g.classID, nil)
		if price == 0 {
			continue
		}
		seen[key] = true

		sortSnapshots(g.snapshots)
		inv := &models.Invoice{
			ID:              CandidateID(g.studentID, g.classID, month, year),
			StudentID:       g.studentID,
			ClassID:         g.classID,
			Subject:         subject,
			Month:           month,
			Year:            year,
			TotalSessions:   len(g.snapshots),
			PricePerSession: price,
			Discount:        0,
			Status:          models.InvoiceUnpaid,
			Sessions:        g.snapshots,
		}
		inv.TotalAmount = float64(inv.TotalSessions) * price
		inv.FinalAmount = inv.TotalAmount
		fillNames(snap, inv)
		out = append(out, inv)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].ClassID < out[j].ClassID
	})
	return out
}

// recompute refreshes the money fields of a persisted line from the
// trusted session count and the canonical price chain. The stored
// price participates at its place in the chain, so a locked-in price
// survives catalog changes.
func recompute(snap *Snapshot, inv *models.Invoice) {
	var stored *float64
	if inv.PricePerSession > 0 {
		stored = &inv.PricePerSession
	}
	price := ResolveUnitPrice(snap, inv.StudentID, inv.Subject, inv.ClassID, stored)
	inv.PricePerSession = price
	inv.TotalAmount = float64(inv.TotalSessions) * price
	inv.FinalAmount = finalAmount(inv.TotalAmount, inv.Discount)
}

// finalAmount is the one place the total/discount arithmetic lives:
// finalAmount = max(0, totalAmount - discount).
func finalAmount(total, discount float64) float64 {
	if discount > total {
		return 0
	}
	return total - discount
}

func fillNames(snap *Snapshot, inv *models.Invoice) {
	if st := snap.Student(inv.StudentID); st != nil {
		if inv.StudentName == "" {
			inv.StudentName = st.FullName()
		}
		if inv.StudentCode == "" {
			inv.StudentCode = st.Code
		}
	}
	if c := snap.Class(inv.ClassID); c != nil {
		if inv.ClassName == "" {
			inv.ClassName = c.Name
		}
		if inv.ClassCode == "" {
			inv.ClassCode = c.Code
		}
		if inv.Subject == "" {
			inv.Subject = c.Subject
		}
	}
}

func sortSnapshots(snaps []models.SessionSnapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].Date != snaps[j].Date {
			return snaps[i].Date < snaps[j].Date
		}
		return snaps[i].SessionID < snaps[j].SessionID
	})
}
