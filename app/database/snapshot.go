package database

import (
	"database/sql"
	"fmt"

	"tritue-center/app/billing"
)

// LoadSnapshot reads the reference data the billing engine prices
// against. Callers build one per request so every computation sees a
// consistent view.
func LoadSnapshot(db *sql.DB) (*billing.Snapshot, error) {
	// include inactive students so older invoices still resolve names
	students, err := GetAllStudents(db, StudentFilters{Status: "all"})
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %v", err)
	}

	classes, err := GetAllClasses(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load classes: %v", err)
	}

	courses, err := GetAllCourses(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %v", err)
	}

	enrollments, err := GetAllEnrollments(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %v", err)
	}

	return billing.NewSnapshot(students, classes, courses, enrollments), nil
}
