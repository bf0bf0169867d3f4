package teachers

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/billing"
	"tritue-center/app/database"
	"tritue-center/app/models"
)

// GetTeachersAPI returns all users with the teacher role
func GetTeachersAPI(c *fiber.Ctx, db *sql.DB) error {
	teachers, err := database.GetAllTeachers(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch teachers")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    teachers,
	})
}

func parsePeriod(c *fiber.Ctx) (int, int, error) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if m := c.Query("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid month")
		}
		month = v
	}
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil || v < 2000 || v > 2100 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid year")
		}
		year = v
	}
	return month, year, nil
}

// taughtBy reports whether the session belongs to the teacher, either
// directly or through the class assignment.
func taughtBy(snap *billing.Snapshot, s *models.AttendanceSession, teacherID string) bool {
	if s.TeacherID != nil {
		return *s.TeacherID == teacherID
	}
	if class := snap.Class(s.ClassID); class != nil && class.TeacherID != nil {
		return *class.TeacherID == teacherID
	}
	return false
}

// sessionPay is the teacher's pay for one session: the configured
// rate unless a salary override was recorded on the session.
func sessionPay(s *models.AttendanceSession, rate float64) float64 {
	for _, r := range s.Records {
		if r.Salary != nil {
			return *r.Salary
		}
	}
	return rate
}

// GetPayrollSummaryAPI computes what one teacher earned in a month
// from the sessions they taught and what has already been paid out.
func GetPayrollSummaryAPI(c *fiber.Ctx, db *sql.DB) error {
	teacherID := c.Params("id")
	month, year, err := parsePeriod(c)
	if err != nil {
		return err
	}

	teacher, err := database.GetUserByID(db, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch teacher")
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}
	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load sessions")
	}

	var rate float64
	if r, err := database.GetTeacherRate(db, teacherID); err == nil {
		rate = r.RatePerSession
	} else if err != sql.ErrNoRows {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load teacher rate")
	}

	summary := &models.PayrollSummary{
		TeacherID:      teacherID,
		TeacherName:    teacher.FullName(),
		Month:          month,
		Year:           year,
		RatePerSession: rate,
	}

	for _, s := range sessions {
		if !billing.InMonth(s.Date, month, year) || !taughtBy(snap, s, teacherID) {
			continue
		}
		summary.SessionsTaught++
		summary.TotalAmount += sessionPay(s, rate)
	}

	paid, err := database.GetPaidAmountForPeriod(db, teacherID, month, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load payments")
	}
	summary.PaidAmount = paid
	summary.Outstanding = summary.TotalAmount - paid
	if summary.Outstanding < 0 {
		summary.Outstanding = 0
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// UpsertTeacherRateAPI sets a teacher's per-session rate
func UpsertTeacherRateAPI(c *fiber.Ctx, db *sql.DB) error {
	type RateRequest struct {
		RatePerSession float64 `json:"rate_per_session"`
	}

	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if req.RatePerSession < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Rate must not be negative")
	}

	rate := &models.TeacherRate{
		TeacherID:      c.Params("id"),
		RatePerSession: req.RatePerSession,
		EffectiveDate:  time.Now(),
	}

	if err := database.UpsertTeacherRate(db, rate); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save rate")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rate,
	})
}

// RecordPaymentAPI records a payroll disbursement
func RecordPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var payment models.TeacherPayment
	if err := c.BodyParser(&payment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	payment.TeacherID = c.Params("id")

	if payment.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
	}
	if payment.Month < 1 || payment.Month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid month")
	}
	if payment.Type == "" {
		payment.Type = models.PaymentTypeSessions
	}

	if err := database.CreateTeacherPayment(db, &payment); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    payment,
	})
}

// GetPaymentsAPI returns a teacher's payment history
func GetPaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	payments, err := database.GetTeacherPayments(db, c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}
