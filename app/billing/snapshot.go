// Package billing implements the tuition invoice and debt
// reconciliation engine: pricing resolution, invoice materialization
// from attendance, per-student merging, the carried-over debt ledger
// and the invoice mutation operations.
//
// The engine is pure computation over a Snapshot built once per
// request at the data boundary; it never touches the database itself.
package billing

import (
	"strings"

	"tritue-center/app/models"
)

// Snapshot is an indexed, read-only view of the catalog data the
// engine cross-references: students, classes, courses and enrollments.
// Build one per request from freshly loaded rows and pass it
// explicitly; nothing in the engine caches it.
type Snapshot struct {
	students    map[string]*models.Student
	classes     map[string]*models.Class
	courses     []*models.Course
	enrollments map[enrollKey]*models.Enrollment
}

type enrollKey struct {
	ClassID   string
	StudentID string
}

func NewSnapshot(students []*models.Student, classes []*models.Class, courses []*models.Course, enrollments []*models.Enrollment) *Snapshot {
	s := &Snapshot{
		students:    make(map[string]*models.Student, len(students)),
		classes:     make(map[string]*models.Class, len(classes)),
		courses:     courses,
		enrollments: make(map[enrollKey]*models.Enrollment, len(enrollments)),
	}
	for _, st := range students {
		s.students[st.ID] = st
	}
	for _, c := range classes {
		s.classes[c.ID] = c
	}
	for _, e := range enrollments {
		s.enrollments[enrollKey{ClassID: e.ClassID, StudentID: e.StudentID}] = e
	}
	return s
}

// Student returns the student record, or nil when the roster has no
// such id. Callers degrade gracefully on nil; a missing student must
// not fail a whole computation.
func (s *Snapshot) Student(id string) *models.Student {
	return s.students[id]
}

func (s *Snapshot) Class(id string) *models.Class {
	return s.classes[id]
}

// Enrollment returns the (class, student) membership record, active or
// not. Historical invoices still need the private rate of a student
// who has since left the class.
func (s *Snapshot) Enrollment(classID, studentID string) *models.Enrollment {
	return s.enrollments[enrollKey{ClassID: classID, StudentID: studentID}]
}

// CoursePrice finds the catalog price for a grade/subject pair. The
// subject matches on either the canonical value or the display label,
// since both conventions exist in stored class records.
func (s *Snapshot) CoursePrice(grade, subject string) (float64, bool) {
	for _, c := range s.courses {
		if !strings.EqualFold(strings.TrimSpace(c.Grade), strings.TrimSpace(grade)) {
			continue
		}
		if subjectMatches(c.Subject, subject) || subjectMatches(c.Name, subject) {
			return c.PricePerSession, true
		}
	}
	return 0, false
}

func subjectMatches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// resolveAmount is the single stored-versus-computed helper: a manual
// override always wins, the derived value fills the gap.
func resolveAmount(stored *float64, computed float64) float64 {
	if stored != nil {
		return *stored
	}
	return computed
}
