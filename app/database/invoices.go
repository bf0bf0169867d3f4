package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"tritue-center/app/billing"
	"tritue-center/app/models"
)

const invoiceColumns = `id, student_id, student_name, student_code, class_id, class_name, class_code, subject,
	month, year, total_sessions, price_per_session, total_amount, discount, debt, final_amount,
	status, paid_at, sessions, created_at, updated_at`

// scanInvoice normalizes a stored row into the canonical shape: every
// missing numeric defaults to zero, a missing final amount is
// recomputed, a missing status means unpaid. Downstream code never
// sees an alternate field convention.
func scanInvoice(row interface {
	Scan(dest ...interface{}) error
}) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var studentName, studentCode, className, classCode, subject sql.NullString
	var totalSessions sql.NullInt64
	var price, total, discount, debt, final sql.NullFloat64
	var status sql.NullString
	var paidAt sql.NullTime
	var sessions []byte

	err := row.Scan(
		&inv.ID, &inv.StudentID, &studentName, &studentCode, &inv.ClassID, &className, &classCode, &subject,
		&inv.Month, &inv.Year, &totalSessions, &price, &total, &discount, &debt, &final,
		&status, &paidAt, &sessions, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.StudentName = studentName.String
	inv.StudentCode = studentCode.String
	inv.ClassName = className.String
	inv.ClassCode = classCode.String
	inv.Subject = subject.String
	inv.TotalSessions = int(totalSessions.Int64)
	inv.PricePerSession = price.Float64
	inv.TotalAmount = total.Float64
	inv.Discount = discount.Float64
	if debt.Valid {
		inv.Debt = &debt.Float64
	}
	if final.Valid {
		inv.FinalAmount = final.Float64
	} else {
		inv.FinalAmount = inv.TotalAmount - inv.Discount
		if inv.FinalAmount < 0 {
			inv.FinalAmount = 0
		}
	}
	inv.Status = models.InvoiceStatus(status.String)
	if inv.Status == "" {
		inv.Status = models.InvoiceUnpaid
	}
	if paidAt.Valid {
		inv.PaidAt = &paidAt.Time
	}
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &inv.Sessions); err != nil {
			inv.Sessions = nil
		}
	}
	inv.Persisted = true
	return inv, nil
}

// InvoiceStore is the Postgres-backed persistence the billing service
// writes through. It satisfies billing.InvoiceStore.
type InvoiceStore struct {
	DB *sql.DB
}

func NewInvoiceStore(db *sql.DB) *InvoiceStore {
	return &InvoiceStore{DB: db}
}

func (s *InvoiceStore) GetByID(id string) (*models.Invoice, error) {
	inv, err := scanInvoice(s.DB.QueryRow(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, billing.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Save upserts the full record under its id. Candidate ids are the
// natural key, so the first edit of a materialized line inserts it and
// subsequent edits update in place.
func (s *InvoiceStore) Save(inv *models.Invoice) error {
	sessions, err := json.Marshal(inv.Sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %v", err)
	}

	query := `INSERT INTO invoices (id, student_id, student_name, student_code, class_id, class_name, class_code, subject,
				month, year, total_sessions, price_per_session, total_amount, discount, debt, final_amount, status, paid_at, sessions)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			  ON CONFLICT (id) DO UPDATE SET
				student_name = EXCLUDED.student_name,
				student_code = EXCLUDED.student_code,
				class_name = EXCLUDED.class_name,
				class_code = EXCLUDED.class_code,
				subject = EXCLUDED.subject,
				total_sessions = EXCLUDED.total_sessions,
				price_per_session = EXCLUDED.price_per_session,
				total_amount = EXCLUDED.total_amount,
				discount = EXCLUDED.discount,
				debt = EXCLUDED.debt,
				final_amount = EXCLUDED.final_amount,
				status = EXCLUDED.status,
				paid_at = EXCLUDED.paid_at,
				sessions = EXCLUDED.sessions,
				updated_at = NOW()`

	_, err = s.DB.Exec(query,
		inv.ID, inv.StudentID, inv.StudentName, inv.StudentCode, inv.ClassID, inv.ClassName, inv.ClassCode, inv.Subject,
		inv.Month, inv.Year, inv.TotalSessions, inv.PricePerSession, inv.TotalAmount, inv.Discount, inv.Debt,
		inv.FinalAmount, string(inv.Status), inv.PaidAt, sessions,
	)
	return err
}

func (s *InvoiceStore) Delete(id string) error {
	result, err := s.DB.Exec(`DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return billing.ErrNotFound
	}
	return nil
}

func (s *InvoiceStore) ListByStudent(studentID string) ([]*models.Invoice, error) {
	rows, err := s.DB.Query(`SELECT `+invoiceColumns+` FROM invoices WHERE student_id = $1 ORDER BY year, month, class_id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func (s *InvoiceStore) ClearDebt(id string) error {
	_, err := s.DB.Exec(`UPDATE invoices SET debt = NULL, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// GetInvoicesByPeriod returns the persisted lines for one month.
func GetInvoicesByPeriod(db *sql.DB, month, year int) ([]*models.Invoice, error) {
	rows, err := db.Query(`SELECT `+invoiceColumns+` FROM invoices WHERE month = $1 AND year = $2 ORDER BY student_name, class_name`, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// GetAllInvoices returns every persisted line; the debt ledger needs
// the full history.
func GetAllInvoices(db *sql.DB) ([]*models.Invoice, error) {
	rows, err := db.Query(`SELECT ` + invoiceColumns + ` FROM invoices ORDER BY year, month, student_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func GetInvoicesByStudent(db *sql.DB, studentID string) ([]*models.Invoice, error) {
	return NewInvoiceStore(db).ListByStudent(studentID)
}

func collectInvoices(rows *sql.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			continue
		}
		invoices = append(invoices, inv)
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}
	return invoices, nil
}
