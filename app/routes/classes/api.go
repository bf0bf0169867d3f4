package classes

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/database"
	"tritue-center/app/models"
)

// GetClassesAPI returns all active classes
func GetClassesAPI(c *fiber.Ctx, db *sql.DB) error {
	classes, err := database.GetAllClasses(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch classes")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    classes,
	})
}

// GetClassByIDAPI returns a specific class
func GetClassByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	class, err := database.GetClassByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch class")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    class,
	})
}

// CreateClassAPI creates a new class
func CreateClassAPI(c *fiber.Ctx, db *sql.DB) error {
	var class models.Class
	if err := c.BodyParser(&class); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	if class.Name == "" || class.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Name and code are required")
	}
	if class.Subject == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Subject is required")
	}
	if class.PricePerSession < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
	}

	class.IsActive = true

	if err := database.CreateClass(db, &class); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    class,
	})
}

// UpdateClassAPI updates an existing class
func UpdateClassAPI(c *fiber.Ctx, db *sql.DB) error {
	var class models.Class
	if err := c.BodyParser(&class); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	class.ID = c.Params("id")

	if class.PricePerSession < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
	}

	if err := database.UpdateClass(db, &class); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update class")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    class,
	})
}

// DeactivateClassAPI soft-deletes a class
func DeactivateClassAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateClass(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate class")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Class deactivated",
	})
}

// GetClassEnrollmentsAPI returns enrollments for one class
func GetClassEnrollmentsAPI(c *fiber.Ctx, db *sql.DB) error {
	enrollments, err := database.GetEnrollmentsByClass(db, c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch enrollments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    enrollments,
	})
}
