package classes

import (
	"github.com/gofiber/fiber/v2"

	"tritue-center/app/config"
	"tritue-center/app/routes/auth"
)

// SetupClassesRoutes sets up the classes routes
func SetupClassesRoutes(app *fiber.App) {
	classesAPI := app.Group("/api/classes")
	classesAPI.Use(auth.AuthMiddleware)

	classesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetClassesAPI(c, config.GetDB())
	})

	classesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetClassByIDAPI(c, config.GetDB())
	})

	classesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateClassAPI(c, config.GetDB())
	})

	classesAPI.Put("/:id", func(c *fiber.Ctx) error {
		return UpdateClassAPI(c, config.GetDB())
	})

	classesAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeactivateClassAPI(c, config.GetDB())
	})

	classesAPI.Get("/:id/enrollments", func(c *fiber.Ctx) error {
		return GetClassEnrollmentsAPI(c, config.GetDB())
	})
}
