package enrollments

import (
	"github.com/gofiber/fiber/v2"

	"tritue-center/app/config"
	"tritue-center/app/routes/auth"
)

// SetupEnrollmentsRoutes sets up the enrollments routes
func SetupEnrollmentsRoutes(app *fiber.App) {
	enrollmentsAPI := app.Group("/api/enrollments")
	enrollmentsAPI.Use(auth.AuthMiddleware)

	enrollmentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetEnrollmentsAPI(c, config.GetDB())
	})

	enrollmentsAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateEnrollmentAPI(c, config.GetDB())
	})

	enrollmentsAPI.Put("/:id/tuition", func(c *fiber.Ctx) error {
		return SetTuitionOverrideAPI(c, config.GetDB())
	})

	enrollmentsAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeactivateEnrollmentAPI(c, config.GetDB())
	})
}
