package database

import (
	"database/sql"

	"tritue-center/app/models"
)

func GetAllClasses(db *sql.DB) ([]*models.Class, error) {
	// Query with enrolled student count
	query := `SELECT c.id, c.name, c.code, c.subject, c.grade, c.price_per_session, c.teacher_id,
			  c.is_active, c.created_at, c.updated_at,
			  (SELECT COUNT(*) FROM enrollments e WHERE e.class_id = c.id AND e.is_active = true) AS student_count
			  FROM classes c
			  WHERE c.deleted_at IS NULL
			  ORDER BY c.name`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c := &models.Class{}
		var grade sql.NullString
		var teacherID sql.NullString
		err := rows.Scan(
			&c.ID, &c.Name, &c.Code, &c.Subject, &grade, &c.PricePerSession, &teacherID,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.StudentCount,
		)
		if err != nil {
			continue
		}
		c.Grade = grade.String
		if teacherID.Valid {
			c.TeacherID = &teacherID.String
		}
		classes = append(classes, c)
	}
	if classes == nil {
		classes = []*models.Class{}
	}
	return classes, nil
}

func GetClassByID(db *sql.DB, id string) (*models.Class, error) {
	c := &models.Class{}
	var grade sql.NullString
	var teacherID sql.NullString

	query := `SELECT id, name, code, subject, grade, price_per_session, teacher_id, is_active, created_at, updated_at
			  FROM classes WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, id).Scan(
		&c.ID, &c.Name, &c.Code, &c.Subject, &grade, &c.PricePerSession, &teacherID,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Grade = grade.String
	if teacherID.Valid {
		c.TeacherID = &teacherID.String
	}
	return c, nil
}

func CreateClass(db *sql.DB, c *models.Class) error {
	query := `INSERT INTO classes (name, code, subject, grade, price_per_session, teacher_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, true)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query,
		c.Name, c.Code, c.Subject, nullString(c.Grade), c.PricePerSession, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func UpdateClass(db *sql.DB, c *models.Class) error {
	query := `UPDATE classes
			  SET name = $1, code = $2, subject = $3, grade = $4, price_per_session = $5, teacher_id = $6,
				  is_active = $7, updated_at = NOW()
			  WHERE id = $8 AND deleted_at IS NULL`
	result, err := db.Exec(query,
		c.Name, c.Code, c.Subject, nullString(c.Grade), c.PricePerSession, c.TeacherID, c.IsActive, c.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func DeactivateClass(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE classes SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
