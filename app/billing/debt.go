package billing

import (
	"sort"

	"tritue-center/app/models"
)

// periodBefore orders calendar periods: year first, then month.
func periodBefore(y1, m1, y2, m2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}
	return m1 < m2
}

// ComputeDebt builds the carried-over balance for a student at a
// target month: every unpaid invoice from a strictly earlier period
// contributes its final amount, and attended sessions in earlier
// months with no persisted invoice at all contribute their
// resolved-price total. A (student, class, period) that has any
// persisted invoice — paid or not — suppresses the attendance fallback
// for that period so nothing is counted twice.
func ComputeDebt(snap *Snapshot, invoices []*models.Invoice, sessions []*models.AttendanceSession, studentID string, month, year int) *models.DebtBreakdown {
	type period struct{ Year, Month int }
	buckets := make(map[period]float64)

	// Any persisted invoice blocks the attendance fallback for its
	// (class, period), regardless of paid state.
	type classPeriod struct {
		ClassID string
		Year    int
		Month   int
	}
	invoiced := make(map[classPeriod]bool)

	for _, inv := range invoices {
		if inv.StudentID != studentID {
			continue
		}
		if inv.Persisted {
			invoiced[classPeriod{inv.ClassID, inv.Year, inv.Month}] = true
		}
		if !periodBefore(inv.Year, inv.Month, year, month) {
			continue
		}
		if inv.IsPaid() {
			continue
		}
		buckets[period{inv.Year, inv.Month}] += inv.FinalAmount
	}

	// Gap scan: attendance recorded but never invoiced.
	type gapKey struct {
		ClassID string
		Year    int
		Month   int
	}
	gaps := make(map[gapKey]int)
	for _, sess := range sessions {
		sy, sm := sess.Date.Year(), int(sess.Date.Month())
		if !periodBefore(sy, sm, year, month) {
			continue
		}
		if invoiced[classPeriod{sess.ClassID, sy, sm}] {
			continue
		}
		for _, rec := range sess.Records {
			if rec.StudentID == studentID && rec.Present {
				gaps[gapKey{sess.ClassID, sy, sm}]++
			}
		}
	}
	for k, count := range gaps {
		class := snap.Class(k.ClassID)
		subject := ""
		if class != nil {
			subject = class.Subject
		}
		price := ResolveUnitPrice(snap, studentID, subject, k.ClassID, nil)
		if price == 0 {
			continue
		}
		buckets[period{k.Year, k.Month}] += float64(count) * price
	}

	breakdown := &models.DebtBreakdown{Items: make([]models.DebtItem, 0, len(buckets))}
	for p, amount := range buckets {
		breakdown.Items = append(breakdown.Items, models.DebtItem{Month: p.Month, Year: p.Year, Amount: amount})
	}
	sort.Slice(breakdown.Items, func(i, j int) bool {
		a, b := breakdown.Items[i], breakdown.Items[j]
		return periodBefore(a.Year, a.Month, b.Year, b.Month)
	})
	for _, it := range breakdown.Items {
		breakdown.Total += it.Amount
	}
	return breakdown
}

// DisplayDebt applies the manual-override-wins rule: when any invoice
// of the student at the target month carries an explicit debt value,
// that value replaces the computed total for display. The breakdown
// itself stays available for drill-down either way.
func DisplayDebt(invoices []*models.Invoice, breakdown *models.DebtBreakdown, studentID string, month, year int) float64 {
	var override *float64
	for _, inv := range invoices {
		if inv.StudentID == studentID && inv.Month == month && inv.Year == year && inv.Debt != nil {
			override = inv.Debt
			break
		}
	}
	return resolveAmount(override, breakdown.Total)
}
