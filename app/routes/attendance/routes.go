package attendance

import (
	"github.com/gofiber/fiber/v2"

	"tritue-center/app/config"
	"tritue-center/app/routes/auth"
)

// SetupAttendanceRoutes sets up the attendance session routes
func SetupAttendanceRoutes(app *fiber.App) {
	sessionsAPI := app.Group("/api/sessions")
	sessionsAPI.Use(auth.AuthMiddleware)

	sessionsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetSessionsAPI(c, config.GetDB())
	})

	sessionsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetSessionByIDAPI(c, config.GetDB())
	})

	sessionsAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateSessionAPI(c, config.GetDB())
	})

	sessionsAPI.Put("/:id", func(c *fiber.Ctx) error {
		return UpdateSessionAPI(c, config.GetDB())
	})

	sessionsAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeleteSessionAPI(c, config.GetDB())
	})
}
