package billing

import (
	"github.com/gofiber/fiber/v2"

	"tritue-center/app/config"
	"tritue-center/app/routes/auth"
)

// SetupBillingRoutes sets up the invoice and debt routes
func SetupBillingRoutes(app *fiber.App) {
	invoicesAPI := app.Group("/api/invoices")
	invoicesAPI.Use(auth.AuthMiddleware)

	invoicesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetInvoicesAPI(c, config.GetDB())
	})

	invoicesAPI.Get("/stats", func(c *fiber.Ctx) error {
		return GetInvoiceStatsAPI(c, config.GetDB())
	})

	invoicesAPI.Get("/subscribe", SubscribeInvoicesAPI)

	invoicesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetInvoiceByIDAPI(c, config.GetDB())
	})

	invoicesAPI.Post("/:id/discount", func(c *fiber.Ctx) error {
		return SetDiscountAPI(c, config.GetDB())
	})

	invoicesAPI.Put("/:id/prices", func(c *fiber.Ctx) error {
		return SetSessionPricesAPI(c, config.GetDB())
	})

	invoicesAPI.Post("/:id/reset", func(c *fiber.Ctx) error {
		return ResetInvoiceAPI(c, config.GetDB())
	})

	invoicesAPI.Post("/:id/pay", func(c *fiber.Ctx) error {
		return MarkInvoicePaidAPI(c, config.GetDB())
	})

	invoicesAPI.Post("/:id/unpay", func(c *fiber.Ctx) error {
		return RevertInvoiceAPI(c, config.GetDB())
	})

	invoicesAPI.Delete("/:id", func(c *fiber.Ctx) error {
		return DeleteInvoiceAPI(c, config.GetDB())
	})

	studentsAPI := app.Group("/api/students")
	studentsAPI.Use(auth.AuthMiddleware)

	studentsAPI.Get("/:id/debt", func(c *fiber.Ctx) error {
		return GetStudentDebtAPI(c, config.GetDB())
	})

	studentsAPI.Get("/:id/receipt", func(c *fiber.Ctx) error {
		return GetStudentReceiptAPI(c, config.GetDB())
	})
}
