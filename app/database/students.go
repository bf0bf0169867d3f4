package database

import (
	"database/sql"
	"fmt"
	"strings"

	"tritue-center/app/models"
)

// StudentFilters represents filtering options for students
type StudentFilters struct {
	Search   string
	Status   string
	ClassID  string
	Grade    string
	Limit    int
	Offset   int
}

func GetAllStudents(db *sql.DB, filters StudentFilters) ([]*models.Student, error) {
	baseQuery := `SELECT s.id, s.student_code, s.first_name, s.last_name, s.date_of_birth, s.gender,
				  s.school, s.grade, s.phone, s.parent_phone, s.address, s.is_active, s.created_at, s.updated_at
				  FROM students s
				  WHERE s.deleted_at IS NULL`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.Status == "active" || filters.Status == "" {
		conditions = append(conditions, "s.is_active = true")
	} else if filters.Status == "inactive" {
		conditions = append(conditions, "s.is_active = false")
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(s.first_name ILIKE $%d OR s.last_name ILIKE $%d OR s.student_code ILIKE $%d)",
			argIndex, argIndex, argIndex))
		args = append(args, "%"+filters.Search+"%")
		argIndex++
	}

	if filters.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("s.grade = $%d", argIndex))
		args = append(args, filters.Grade)
		argIndex++
	}

	if filters.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"s.id IN (SELECT student_id FROM enrollments WHERE class_id = $%d AND is_active = true)", argIndex))
		args = append(args, filters.ClassID)
		argIndex++
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	baseQuery += " ORDER BY s.first_name, s.last_name"

	if filters.Limit > 0 {
		baseQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := db.Query(baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		var dob sql.NullTime
		var gender, school, grade, phone, parentPhone, address sql.NullString
		err := rows.Scan(
			&s.ID, &s.Code, &s.FirstName, &s.LastName, &dob, &gender,
			&school, &grade, &phone, &parentPhone, &address,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			continue
		}
		if dob.Valid {
			s.DateOfBirth = &dob.Time
		}
		s.Gender = models.Gender(gender.String)
		s.School = school.String
		s.Grade = grade.String
		s.Phone = phone.String
		s.ParentPhone = parentPhone.String
		s.Address = address.String
		students = append(students, s)
	}
	if students == nil {
		students = []*models.Student{}
	}
	return students, nil
}

func GetStudentByID(db *sql.DB, id string) (*models.Student, error) {
	s := &models.Student{}
	var dob sql.NullTime
	var gender, school, grade, phone, parentPhone, address sql.NullString

	query := `SELECT id, student_code, first_name, last_name, date_of_birth, gender,
			  school, grade, phone, parent_phone, address, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, id).Scan(
		&s.ID, &s.Code, &s.FirstName, &s.LastName, &dob, &gender,
		&school, &grade, &phone, &parentPhone, &address,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		s.DateOfBirth = &dob.Time
	}
	s.Gender = models.Gender(gender.String)
	s.School = school.String
	s.Grade = grade.String
	s.Phone = phone.String
	s.ParentPhone = parentPhone.String
	s.Address = address.String
	return s, nil
}

func CreateStudent(db *sql.DB, s *models.Student) error {
	query := `INSERT INTO students (student_code, first_name, last_name, date_of_birth, gender, school, grade, phone, parent_phone, address, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query,
		s.Code, s.FirstName, s.LastName, s.DateOfBirth, nullString(string(s.Gender)),
		nullString(s.School), nullString(s.Grade), nullString(s.Phone), nullString(s.ParentPhone), nullString(s.Address),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func UpdateStudent(db *sql.DB, s *models.Student) error {
	query := `UPDATE students
			  SET student_code = $1, first_name = $2, last_name = $3, date_of_birth = $4, gender = $5,
				  school = $6, grade = $7, phone = $8, parent_phone = $9, address = $10, is_active = $11, updated_at = NOW()
			  WHERE id = $12 AND deleted_at IS NULL`
	result, err := db.Exec(query,
		s.Code, s.FirstName, s.LastName, s.DateOfBirth, nullString(string(s.Gender)),
		nullString(s.School), nullString(s.Grade), nullString(s.Phone), nullString(s.ParentPhone), nullString(s.Address),
		s.IsActive, s.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeactivateStudent soft-deletes: invoices for past months must keep
// resolving against this row.
func DeactivateStudent(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE students SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
