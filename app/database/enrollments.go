package database

import (
	"database/sql"
	"fmt"

	"tritue-center/app/models"
)

// GetAllEnrollments returns every membership row, active or not.
// Billing needs inactive ones too: a student who left a class still
// has historical invoices priced by their enrollment override.
func GetAllEnrollments(db *sql.DB) ([]*models.Enrollment, error) {
	query := `SELECT id, class_id, student_id, tuition_override, is_active, created_at, updated_at
			  FROM enrollments WHERE deleted_at IS NULL`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e := &models.Enrollment{}
		var override sql.NullFloat64
		err := rows.Scan(&e.ID, &e.ClassID, &e.StudentID, &override, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			continue
		}
		if override.Valid {
			e.TuitionOverride = &override.Float64
		}
		enrollments = append(enrollments, e)
	}
	if enrollments == nil {
		enrollments = []*models.Enrollment{}
	}
	return enrollments, nil
}

func GetEnrollmentsByClass(db *sql.DB, classID string) ([]*models.Enrollment, error) {
	query := `SELECT e.id, e.class_id, e.student_id, e.tuition_override, e.is_active, e.created_at, e.updated_at,
			  s.student_code, s.first_name, s.last_name
			  FROM enrollments e
			  JOIN students s ON s.id = e.student_id
			  WHERE e.class_id = $1 AND e.is_active = true AND e.deleted_at IS NULL
			  ORDER BY s.first_name, s.last_name`

	rows, err := db.Query(query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		e := &models.Enrollment{Student: &models.Student{}}
		var override sql.NullFloat64
		err := rows.Scan(&e.ID, &e.ClassID, &e.StudentID, &override, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
			&e.Student.Code, &e.Student.FirstName, &e.Student.LastName)
		if err != nil {
			continue
		}
		e.Student.ID = e.StudentID
		if override.Valid {
			e.TuitionOverride = &override.Float64
		}
		enrollments = append(enrollments, e)
	}
	if enrollments == nil {
		enrollments = []*models.Enrollment{}
	}
	return enrollments, nil
}

func CreateEnrollment(db *sql.DB, e *models.Enrollment) error {
	// Re-joining a class reactivates the existing row and keeps its
	// history instead of inserting a duplicate.
	query := `INSERT INTO enrollments (class_id, student_id, tuition_override, is_active)
			  VALUES ($1, $2, $3, true)
			  ON CONFLICT (class_id, student_id)
			  DO UPDATE SET is_active = true, tuition_override = EXCLUDED.tuition_override, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, e.ClassID, e.StudentID, e.TuitionOverride).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// SetTuitionOverride sets or clears the private per-student rate.
func SetTuitionOverride(db *sql.DB, id string, override *float64) error {
	result, err := db.Exec(
		`UPDATE enrollments SET tuition_override = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		override, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set tuition override: %v", err)
	}
	return requireRow(result)
}

// DeactivateEnrollment removes a student from a class without losing
// the row; historical invoices depend on it.
func DeactivateEnrollment(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE enrollments SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
