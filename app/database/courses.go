package database

import (
	"database/sql"

	"tritue-center/app/models"
)

func GetAllCourses(db *sql.DB) ([]*models.Course, error) {
	query := `SELECT id, name, subject, grade, price_per_session, is_active, created_at, updated_at
			  FROM courses WHERE deleted_at IS NULL
			  ORDER BY grade, subject`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c := &models.Course{}
		var grade sql.NullString
		err := rows.Scan(&c.ID, &c.Name, &c.Subject, &grade, &c.PricePerSession, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			continue
		}
		c.Grade = grade.String
		courses = append(courses, c)
	}
	if courses == nil {
		courses = []*models.Course{}
	}
	return courses, nil
}

func GetCourseByID(db *sql.DB, id string) (*models.Course, error) {
	c := &models.Course{}
	var grade sql.NullString
	query := `SELECT id, name, subject, grade, price_per_session, is_active, created_at, updated_at
			  FROM courses WHERE id = $1 AND deleted_at IS NULL`
	err := db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Subject, &grade, &c.PricePerSession, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Grade = grade.String
	return c, nil
}

func CreateCourse(db *sql.DB, c *models.Course) error {
	query := `INSERT INTO courses (name, subject, grade, price_per_session, is_active)
			  VALUES ($1, $2, $3, $4, true)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, c.Name, c.Subject, nullString(c.Grade), c.PricePerSession).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func UpdateCourse(db *sql.DB, c *models.Course) error {
	query := `UPDATE courses
			  SET name = $1, subject = $2, grade = $3, price_per_session = $4, is_active = $5, updated_at = NOW()
			  WHERE id = $6 AND deleted_at IS NULL`
	result, err := db.Exec(query, c.Name, c.Subject, nullString(c.Grade), c.PricePerSession, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func DeleteCourse(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE courses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
