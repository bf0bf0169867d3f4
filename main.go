package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"tritue-center/app/config"
	"tritue-center/app/database"
	"tritue-center/app/routes/attendance"
	"tritue-center/app/routes/auth"
	"tritue-center/app/routes/billing"
	"tritue-center/app/routes/classes"
	"tritue-center/app/routes/courses"
	"tritue-center/app/routes/dashboard"
	"tritue-center/app/routes/enrollments"
	"tritue-center/app/routes/students"
	"tritue-center/app/routes/teachers"
)

// errorHandler renders every error as the standard JSON envelope
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Billing months follow the center's local calendar
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		log.Printf("Warning: Failed to load Asia/Ho_Chi_Minh location, falling back to UTC+7: %v", err)
		time.Local = time.FixedZone("ICT", 7*60*60)
	} else {
		time.Local = loc
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Forward invoice change notifications to subscribed clients
	listener, err := database.NewInvoiceListener(config.AppConfig.ConnStr)
	if err != nil {
		log.Printf("Warning: invoice change feed disabled: %v", err)
	} else {
		defer listener.Close()
		changes := make(chan string, 64)
		go listener.Run(changes)
		go func() {
			for id := range changes {
				billing.PublishInvoiceChange(id)
			}
		}()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Routes
	auth.SetupAuthRoutes(app)
	dashboard.SetupDashboardRoutes(app)
	students.SetupStudentsRoutes(app)
	classes.SetupClassesRoutes(app)
	courses.SetupCoursesRoutes(app)
	enrollments.SetupEnrollmentsRoutes(app)
	attendance.SetupAttendanceRoutes(app)
	billing.SetupBillingRoutes(app)
	teachers.SetupTeachersRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
