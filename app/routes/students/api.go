package students

import (
	"database/sql"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tritue-center/app/database"
	"tritue-center/app/models"
)

// GetStudentsAPI returns students with optional filtering
func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.StudentFilters{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		ClassID: c.Query("class_id"),
		Grade:   c.Query("grade"),
	}
	if limit := c.Query("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 {
			filters.Limit = v
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil && v >= 0 {
			filters.Offset = v
		}
	}

	students, err := database.GetAllStudents(db, filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
	})
}

// GetStudentByIDAPI returns a specific student
func GetStudentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// CreateStudentAPI registers a new student
func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	if student.FirstName == "" || student.LastName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "First name and last name are required")
	}
	if student.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Student code is required")
	}

	student.IsActive = true

	if err := database.CreateStudent(db, &student); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// UpdateStudentAPI updates an existing student
func UpdateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	student.ID = c.Params("id")

	if err := database.UpdateStudent(db, &student); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// DeactivateStudentAPI soft-deletes a student. Their invoices and
// attendance history stay queryable.
func DeactivateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateStudent(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student deactivated",
	})
}
