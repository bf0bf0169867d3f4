package attendance

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/database"
	"tritue-center/app/models"
)

func parseDateQuery(c *fiber.Ctx, key string, fallback time.Time) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

// GetSessionsAPI returns attendance sessions, optionally narrowed to
// one class and date range
func GetSessionsAPI(c *fiber.Ctx, db *sql.DB) error {
	classID := c.Query("class_id")

	if classID == "" {
		sessions, err := database.GetAllSessions(db)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch sessions")
		}
		return c.JSON(fiber.Map{"success": true, "data": sessions})
	}

	from, err := parseDateQuery(c, "from", time.Now().AddDate(0, -1, 0))
	if err != nil {
		return err
	}
	to, err := parseDateQuery(c, "to", time.Now())
	if err != nil {
		return err
	}

	sessions, err := database.GetSessionsByClass(db, classID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch sessions")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    sessions,
	})
}

// GetSessionByIDAPI returns one session with its records
func GetSessionByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	session, err := database.GetSessionByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch session")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

func validateRecords(records []models.SessionRecord) error {
	for _, r := range records {
		if r.StudentID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Every record needs a student")
		}
		if r.Price != nil && *r.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Session price must not be negative")
		}
		if r.Salary != nil && *r.Salary < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Session salary must not be negative")
		}
	}
	return nil
}

// CreateSessionAPI records a held class meeting with its attendance
func CreateSessionAPI(c *fiber.Ctx, db *sql.DB) error {
	var session models.AttendanceSession
	if err := c.BodyParser(&session); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	if session.ClassID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class is required")
	}
	if session.Date.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "Date is required")
	}
	if err := validateRecords(session.Records); err != nil {
		return err
	}

	if err := database.CreateSession(db, &session); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// UpdateSessionAPI rewrites a session's details and records. Billing
// picks the change up on the next materialization; already-paid
// invoices keep their stored amounts.
func UpdateSessionAPI(c *fiber.Ctx, db *sql.DB) error {
	var session models.AttendanceSession
	if err := c.BodyParser(&session); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	session.ID = c.Params("id")

	if err := validateRecords(session.Records); err != nil {
		return err
	}

	if err := database.UpdateSession(db, &session); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update session")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// DeleteSessionAPI soft-deletes a session
func DeleteSessionAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeleteSession(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete session")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Session deleted",
	})
}
