package database

import (
	"database/sql"
	"fmt"

	"tritue-center/app/models"
)

func GetTeacherRate(db *sql.DB, teacherID string) (*models.TeacherRate, error) {
	r := &models.TeacherRate{}
	query := `SELECT id, teacher_id, rate_per_session, effective_date, created_at, updated_at
			  FROM teacher_rates WHERE teacher_id = $1 AND deleted_at IS NULL`
	err := db.QueryRow(query, teacherID).Scan(
		&r.ID, &r.TeacherID, &r.RatePerSession, &r.EffectiveDate, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func UpsertTeacherRate(db *sql.DB, r *models.TeacherRate) error {
	query := `INSERT INTO teacher_rates (teacher_id, rate_per_session, effective_date)
			  VALUES ($1, $2, COALESCE($3, CURRENT_DATE))
			  ON CONFLICT (teacher_id)
			  DO UPDATE SET rate_per_session = EXCLUDED.rate_per_session, effective_date = EXCLUDED.effective_date, updated_at = NOW()
			  RETURNING id, effective_date, created_at, updated_at`
	return db.QueryRow(query, r.TeacherID, r.RatePerSession, r.EffectiveDate).
		Scan(&r.ID, &r.EffectiveDate, &r.CreatedAt, &r.UpdatedAt)
}

// CreateTeacherPayment records a payroll disbursement.
func CreateTeacherPayment(db *sql.DB, payment *models.TeacherPayment) error {
	query := `INSERT INTO teacher_payments (teacher_id, amount, type, month, year, reference, notes, paid_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			  RETURNING id, paid_at`
	err := db.QueryRow(query,
		payment.TeacherID, payment.Amount, string(payment.Type),
		payment.Month, payment.Year, payment.Reference, payment.Notes,
	).Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %v", err)
	}
	return nil
}

// GetTeacherPayments retrieves all payments for a specific teacher
func GetTeacherPayments(db *sql.DB, teacherID string) ([]*models.TeacherPayment, error) {
	query := `SELECT id, teacher_id, amount, type, month, year, paid_at, reference, notes
			  FROM teacher_payments
			  WHERE teacher_id = $1
			  ORDER BY paid_at DESC`

	rows, err := db.Query(query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.TeacherPayment
	for rows.Next() {
		p := &models.TeacherPayment{}
		var pType string
		var reference, notes sql.NullString
		err := rows.Scan(&p.ID, &p.TeacherID, &p.Amount, &pType, &p.Month, &p.Year, &p.PaidAt, &reference, &notes)
		if err != nil {
			continue
		}
		p.Type = models.PaymentType(pType)
		p.Reference = reference.String
		p.Notes = notes.String
		payments = append(payments, p)
	}
	if payments == nil {
		payments = []*models.TeacherPayment{}
	}
	return payments, nil
}

// GetPaidAmountForPeriod sums what a teacher has already been paid for
// a month.
func GetPaidAmountForPeriod(db *sql.DB, teacherID string, month, year int) (float64, error) {
	var paid sql.NullFloat64
	err := db.QueryRow(
		`SELECT SUM(amount) FROM teacher_payments WHERE teacher_id = $1 AND month = $2 AND year = $3`,
		teacherID, month, year,
	).Scan(&paid)
	if err != nil {
		return 0, err
	}
	return paid.Float64, nil
}
