package dashboard

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/billing"
	"tritue-center/app/database"
)

// DashboardStatsResponse is the landing page summary
type DashboardStatsResponse struct {
	ActiveStudents  int     `json:"active_students"`
	ActiveClasses   int     `json:"active_classes"`
	SessionsHeld    int     `json:"sessions_held"`
	BilledThisMonth float64 `json:"billed_this_month"`
	UnpaidThisMonth float64 `json:"unpaid_this_month"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
}

// GetDashboardStatsAPI returns headline counts for the current month
func GetDashboardStatsAPI(c *fiber.Ctx, db *sql.DB) error {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	stats := DashboardStatsResponse{Month: month, Year: year}

	if err := db.QueryRow(`SELECT COUNT(*) FROM students WHERE is_active = true AND deleted_at IS NULL`).Scan(&stats.ActiveStudents); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count students")
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM classes WHERE is_active = true AND deleted_at IS NULL`).Scan(&stats.ActiveClasses); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count classes")
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}
	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load sessions")
	}
	for _, s := range sessions {
		if billing.InMonth(s.Date, month, year) {
			stats.SessionsHeld++
		}
	}

	persisted, err := database.GetInvoicesByPeriod(db, month, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoices")
	}
	for _, inv := range billing.Materialize(snap, sessions, persisted, month, year) {
		stats.BilledThisMonth += inv.FinalAmount
		if !inv.IsPaid() {
			stats.UnpaidThisMonth += inv.FinalAmount
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
