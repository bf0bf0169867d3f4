package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tritue-center/app/models"
)

func scanSession(rows *sql.Rows) (*models.AttendanceSession, error) {
	s := &models.AttendanceSession{}
	var startTime, endTime sql.NullString
	var teacherID sql.NullString
	var records []byte

	err := rows.Scan(&s.ID, &s.ClassID, &s.Date, &startTime, &endTime, &teacherID, &records, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.StartTime = startTime.String
	s.EndTime = endTime.String
	if teacherID.Valid {
		s.TeacherID = &teacherID.String
	}
	// One malformed records blob must not blank the whole table; the
	// session stays visible with zero records.
	if len(records) > 0 {
		if err := json.Unmarshal(records, &s.Records); err != nil {
			s.Records = nil
		}
	}
	return s, nil
}

const sessionColumns = `id, class_id, date, start_time, end_time, teacher_id, records, created_at, updated_at`

// GetAllSessions returns every session. The debt ledger walks all past
// months, so there is no period filter here; in-month filtering is the
// engine's job against re-parsed dates.
func GetAllSessions(db *sql.DB) ([]*models.AttendanceSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE deleted_at IS NULL ORDER BY date, id`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.AttendanceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	if sessions == nil {
		sessions = []*models.AttendanceSession{}
	}
	return sessions, nil
}

func GetSessionsByClass(db *sql.DB, classID string, from, to time.Time) ([]*models.AttendanceSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions
			  WHERE class_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
			  ORDER BY date, id`

	rows, err := db.Query(query, classID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.AttendanceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	if sessions == nil {
		sessions = []*models.AttendanceSession{}
	}
	return sessions, nil
}

func GetSessionByID(db *sql.DB, id string) (*models.AttendanceSession, error) {
	rows, err := db.Query(`SELECT `+sessionColumns+` FROM attendance_sessions WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, sql.ErrNoRows
	}
	return scanSession(rows)
}

func CreateSession(db *sql.DB, s *models.AttendanceSession) error {
	records, err := json.Marshal(s.Records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %v", err)
	}
	query := `INSERT INTO attendance_sessions (class_id, date, start_time, end_time, teacher_id, records)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query,
		s.ClassID, s.Date, nullString(s.StartTime), nullString(s.EndTime), s.TeacherID, records,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func UpdateSession(db *sql.DB, s *models.AttendanceSession) error {
	records, err := json.Marshal(s.Records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %v", err)
	}
	query := `UPDATE attendance_sessions
			  SET class_id = $1, date = $2, start_time = $3, end_time = $4, teacher_id = $5, records = $6, updated_at = NOW()
			  WHERE id = $7 AND deleted_at IS NULL`
	result, err := db.Exec(query,
		s.ClassID, s.Date, nullString(s.StartTime), nullString(s.EndTime), s.TeacherID, records, s.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func DeleteSession(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE attendance_sessions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
