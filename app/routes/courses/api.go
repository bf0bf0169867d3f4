package courses

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/database"
	"tritue-center/app/models"
)

// GetCoursesAPI returns the course catalog
func GetCoursesAPI(c *fiber.Ctx, db *sql.DB) error {
	courses, err := database.GetAllCourses(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch courses")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    courses,
	})
}

// GetCourseByIDAPI returns a specific course
func GetCourseByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	course, err := database.GetCourseByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch course")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    course,
	})
}

// CreateCourseAPI adds a catalog entry. The subject/grade pair is what
// pricing falls back to when a class has no price of its own.
func CreateCourseAPI(c *fiber.Ctx, db *sql.DB) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	if course.Name == "" || course.Subject == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Name and subject are required")
	}
	if course.PricePerSession < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
	}

	course.IsActive = true

	if err := database.CreateCourse(db, &course); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create course")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    course,
	})
}

// UpdateCourseAPI updates a catalog entry
func UpdateCourseAPI(c *fiber.Ctx, db *sql.DB) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	course.ID = c.Params("id")

	if course.PricePerSession < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
	}

	if err := database.UpdateCourse(db, &course); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update course")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    course,
	})
}

// DeleteCourseAPI removes a catalog entry
func DeleteCourseAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeleteCourse(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete course")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Course deleted",
	})
}
