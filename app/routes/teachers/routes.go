package teachers

import (
	"github.com/gofiber/fiber/v2"

	"tritue-center/app/config"
	"tritue-center/app/routes/auth"
)

// SetupTeachersRoutes sets up the teacher and payroll routes
func SetupTeachersRoutes(app *fiber.App) {
	teachersAPI := app.Group("/api/teachers")
	teachersAPI.Use(auth.AuthMiddleware)

	teachersAPI.Get("/", func(c *fiber.Ctx) error {
		return GetTeachersAPI(c, config.GetDB())
	})

	teachersAPI.Get("/:id/payroll", func(c *fiber.Ctx) error {
		return GetPayrollSummaryAPI(c, config.GetDB())
	})

	teachersAPI.Put("/:id/rate", auth.RoleMiddleware("admin"), func(c *fiber.Ctx) error {
		return UpsertTeacherRateAPI(c, config.GetDB())
	})

	teachersAPI.Post("/:id/payments", auth.RoleMiddleware("admin"), func(c *fiber.Ctx) error {
		return RecordPaymentAPI(c, config.GetDB())
	})

	teachersAPI.Get("/:id/payments", func(c *fiber.Ctx) error {
		return GetPaymentsAPI(c, config.GetDB())
	})
}
