package billing

import (
	"sort"
	"strings"

	"tritue-center/app/models"
)

// StudentGroup is one summary row: all of a student's invoice lines
// for the period folded together. Operators see one row per student
// with an expandable per-subject breakdown.
type StudentGroup struct {
	StudentID     string               `json:"student_id"`
	StudentName   string               `json:"student_name"`
	StudentCode   string               `json:"student_code"`
	TotalSessions int                  `json:"total_sessions"`
	TotalAmount   float64              `json:"total_amount"`
	Discount      float64              `json:"discount"`
	FinalAmount   float64              `json:"final_amount"`
	Status        models.InvoiceStatus `json:"status"`
	Invoices      []*models.Invoice    `json:"invoices"`
}

// GroupByStudent folds invoice lines into one group per student.
// The group is "paid" only when every member line is paid; a
// partially-paid student is still actionable.
func GroupByStudent(invoices []*models.Invoice) []*StudentGroup {
	byStudent := make(map[string]*StudentGroup)
	order := make([]string, 0)

	for _, inv := range invoices {
		g, ok := byStudent[inv.StudentID]
		if !ok {
			g = &StudentGroup{
				StudentID:   inv.StudentID,
				StudentName: inv.StudentName,
				StudentCode: inv.StudentCode,
				Status:      models.InvoicePaid,
			}
			byStudent[inv.StudentID] = g
			order = append(order, inv.StudentID)
		}
		g.TotalSessions += inv.TotalSessions
		g.TotalAmount += inv.TotalAmount
		g.Discount += inv.Discount
		g.FinalAmount += inv.FinalAmount
		if !inv.IsPaid() {
			g.Status = models.InvoiceUnpaid
		}
		g.Invoices = append(g.Invoices, inv)
	}

	groups := make([]*StudentGroup, 0, len(byStudent))
	for _, id := range order {
		groups = append(groups, byStudent[id])
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].StudentName != groups[j].StudentName {
			return groups[i].StudentName < groups[j].StudentName
		}
		return groups[i].StudentID < groups[j].StudentID
	})
	return groups
}

// Filter narrows the merged invoice set before grouping.
type Filter struct {
	Search    string   // free text over student name/code
	ClassIDs  []string // match if the line or any of its sessions belongs to one
	TeacherID string   // match if the class behind any session is taught by this teacher
	Status    string   // "paid", "unpaid" or empty for all
}

// ApplyFilter returns the invoice lines matching every set criterion.
func ApplyFilter(snap *Snapshot, invoices []*models.Invoice, f Filter) []*models.Invoice {
	classSet := make(map[string]bool, len(f.ClassIDs))
	for _, id := range f.ClassIDs {
		if id != "" {
			classSet[id] = true
		}
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]*models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.Status != "" && string(inv.Status) != f.Status {
			continue
		}
		if len(classSet) > 0 && !matchesClass(inv, classSet) {
			continue
		}
		if f.TeacherID != "" && !matchesTeacher(snap, inv, f.TeacherID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.StudentName), search) &&
			!strings.Contains(strings.ToLower(inv.StudentCode), search) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func matchesClass(inv *models.Invoice, classSet map[string]bool) bool {
	if classSet[inv.ClassID] {
		return true
	}
	for _, s := range inv.Sessions {
		if classSet[s.ClassID] {
			return true
		}
	}
	return false
}

func matchesTeacher(snap *Snapshot, inv *models.Invoice, teacherID string) bool {
	classIDs := map[string]bool{inv.ClassID: true}
	for _, s := range inv.Sessions {
		if s.ClassID != "" {
			classIDs[s.ClassID] = true
		}
	}
	for id := range classIDs {
		if c := snap.Class(id); c != nil && c.TeacherID != nil && *c.TeacherID == teacherID {
			return true
		}
	}
	return false
}
