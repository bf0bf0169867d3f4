package enrollments

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/database"
	"tritue-center/app/models"
)

// GetEnrollmentsAPI returns all enrollments, inactive ones included
func GetEnrollmentsAPI(c *fiber.Ctx, db *sql.DB) error {
	enrollments, err := database.GetAllEnrollments(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch enrollments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    enrollments,
	})
}

// CreateEnrollmentAPI enrolls a student into a class. Re-enrolling a
// previously removed student reactivates the old record.
func CreateEnrollmentAPI(c *fiber.Ctx, db *sql.DB) error {
	var enrollment models.Enrollment
	if err := c.BodyParser(&enrollment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	if enrollment.ClassID == "" || enrollment.StudentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Class and student are required")
	}
	if enrollment.TuitionOverride != nil && *enrollment.TuitionOverride < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tuition override must not be negative")
	}

	enrollment.IsActive = true

	if err := database.CreateEnrollment(db, &enrollment); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create enrollment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    enrollment,
	})
}

// SetTuitionOverrideAPI sets or clears a per-student price for one
// class. Pass a null amount to fall back to class/catalog pricing.
func SetTuitionOverrideAPI(c *fiber.Ctx, db *sql.DB) error {
	type OverrideRequest struct {
		Amount *float64 `json:"amount"`
	}

	var req OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if req.Amount != nil && *req.Amount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Tuition override must not be negative")
	}

	if err := database.SetTuitionOverride(db, c.Params("id"), req.Amount); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to set tuition override")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tuition override updated",
	})
}

// DeactivateEnrollmentAPI removes a student from a class. Past
// attendance keeps billing; only future sessions stop.
func DeactivateEnrollmentAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateEnrollment(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Enrollment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate enrollment")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Enrollment deactivated",
	})
}
