package courses

import (
	"github.com/gofiber/fiber/v2"

	"tritue-center/app/config"
	"tritue-center/app/routes/auth"
)

// SetupCoursesRoutes sets up the course catalog routes
func SetupCoursesRoutes(app *fiber.App) {
	coursesAPI := app.Group("/api/courses")
	coursesAPI.Use(auth.AuthMiddleware)

	coursesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetCoursesAPI(c, config.GetDB())
	})

	coursesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetCourseByIDAPI(c, config.GetDB())
	})

	coursesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateCourseAPI(c, config.GetDB())
	})

	coursesAPI.Put("/:id", func(c *fiber.Ctx) error {
		return UpdateCourseAPI(c, config.GetDB())
	})

	coursesAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeleteCourseAPI(c, config.GetDB())
	})
}
