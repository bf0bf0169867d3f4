package billing

import (
	"errors"
	"sort"
	"time"

	"tritue-center/app/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mkStudent(id, code, first, last string) *models.Student {
	return &models.Student{ID: id, Code: code, FirstName: first, LastName: last, IsActive: true}
}

func mkClass(id, code, name, subject, grade string, price float64, teacherID *string) *models.Class {
	return &models.Class{ID: id, Code: code, Name: name, Subject: subject, Grade: grade, PricePerSession: price, TeacherID: teacherID, IsActive: true}
}

func mkCourse(name, subject, grade string, price float64) *models.Course {
	return &models.Course{ID: subject + "-" + grade, Name: name, Subject: subject, Grade: grade, PricePerSession: price, IsActive: true}
}

func mkEnrollment(classID, studentID string, override *float64) *models.Enrollment {
	return &models.Enrollment{ID: classID + ":" + studentID, ClassID: classID, StudentID: studentID, TuitionOverride: override, IsActive: true}
}

func mkSession(id, classID string, day time.Time, records ...models.SessionRecord) *models.AttendanceSession {
	return &models.AttendanceSession{ID: id, ClassID: classID, Date: day, Records: records}
}

func present(studentID string) models.SessionRecord {
	return models.SessionRecord{StudentID: studentID, Present: true}
}

func absent(studentID string) models.SessionRecord {
	return models.SessionRecord{StudentID: studentID, Present: false}
}

// memStore is the in-memory InvoiceStore used by the service tests.
type memStore struct {
	invoices  map[string]*models.Invoice
	failSave  bool
	failClear map[string]bool
}

func newMemStore(seed ...*models.Invoice) *memStore {
	s := &memStore{invoices: make(map[string]*models.Invoice), failClear: make(map[string]bool)}
	for _, inv := range seed {
		copied := *inv
		copied.Persisted = true
		s.invoices[inv.ID] = &copied
	}
	return s
}

func (s *memStore) GetByID(id string) (*models.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (s *memStore) Save(inv *models.Invoice) error {
	if s.failSave {
		return errors.New("connection reset")
	}
	copied := *inv
	copied.Persisted = true
	s.invoices[inv.ID] = &copied
	return nil
}

func (s *memStore) Delete(id string) error {
	if _, ok := s.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *memStore) ListByStudent(studentID string) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, inv := range s.invoices {
		if inv.StudentID == studentID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) ClearDebt(id string) error {
	if s.failClear[id] {
		return errors.New("connection reset")
	}
	inv, ok := s.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.Debt = nil
	return nil
}
