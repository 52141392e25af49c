package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"boxhub_backend/internal/controller"
	"boxhub_backend/internal/middleware"
	"boxhub_backend/internal/model"
	"boxhub_backend/pkg/cron"
	"boxhub_backend/pkg/database"
	"boxhub_backend/pkg/email"
	"boxhub_backend/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public course catalog
	courses := api.Group("/courses")
	courses.Get("/", controller.ListCourses)
	courses.Get("/:slug", controller.GetCourseBySlug)

	// Public membership routes
	memberships := api.Group("/memberships")
	memberships.Get("/plans", controller.ListPlans)
	memberships.Get("/payment-success", controller.HandleMembershipSuccess)
	memberships.Get("/payment-cancelled", controller.HandleMembershipCancel)

	// Stripe webhook, authenticated by signature instead of JWT
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// User management (admin)
	users := protected.Group("/users", middleware.RequireRole(model.RoleAdmin))
	users.Get("/", controller.ListUsers)
	users.Delete("/:id", controller.DeleteUser)

	// Strike routes (coach/admin)
	strikes := api.Group("/users/:id/strikes", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleCoach))
	strikes.Post("/", controller.ApplyStrike)
	strikes.Delete("/", controller.RemoveStrike)

	// Course management (coach/admin)
	coachCourses := api.Group("/courses", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleCoach))
	coachCourses.Post("/", controller.CreateCourse)
	coachCourses.Put("/:id", controller.UpdateCourse)
	coachCourses.Delete("/:id", controller.DeleteCourse)

	// Enrollment routes
	enrollment := api.Group("/courses/:id", middleware.AuthMiddleware())
	enrollment.Post("/register", middleware.RequireActiveMembership(), controller.RegisterToCourse)
	enrollment.Post("/withdraw", controller.WithdrawFromCourse)

	memberProtected := api.Group("/memberships", middleware.AuthMiddleware())
	memberProtected.Get("/my", controller.GetMyMembership)
	memberProtected.Post("/checkout", controller.CreateCheckoutSession)
	memberProtected.Post("/cancel", controller.CancelMembership)
	memberProtected.Post("/freeze", controller.FreezeMembership)

	adminMemberships := api.Group("/memberships", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleAdmin))
	adminMemberships.Post("/", controller.CreateMembership)
	adminMemberships.Delete("/:id", controller.DeleteMembership)

	// Exercise catalog
	exercises := api.Group("/exercises", middleware.AuthMiddleware())
	exercises.Get("/", controller.ListExercises)

	coachExercises := api.Group("/exercises", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleCoach))
	coachExercises.Post("/", controller.CreateExercise)
	coachExercises.Put("/:id", controller.UpdateExercise)
	coachExercises.Delete("/:id", controller.DeleteExercise)

	// Performance and body-weight tracking
	performance := api.Group("/performance", middleware.AuthMiddleware())
	performance.Get("/", controller.ListPerformanceEntries)
	performance.Post("/", controller.CreatePerformanceEntry)
	performance.Delete("/:id", controller.DeletePerformanceEntry)

	weight := api.Group("/weight", middleware.AuthMiddleware())
	weight.Get("/", controller.ListWeightEntries)
	weight.Post("/", controller.CreateWeightEntry)

	// Messaging
	messages := api.Group("/messages", middleware.AuthMiddleware())
	messages.Post("/", controller.CreateMessage)
	messages.Get("/inbox", controller.GetInbox)
	messages.Get("/sent", controller.GetSent)
	messages.Put("/:id/read", controller.MarkMessageAsRead)
	messages.Put("/:id", controller.UpdateMessage)
	messages.Delete("/:id", controller.DeleteMessage)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Ops trigger for the nightly sweep
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleAdmin))
	admin.Post("/suspension-sweep", controller.RunSuspensionSweep)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Fatal("Could not initialize email service:", err)
	}

	controller.InitMembershipController()
	cron.InitSuspensionSweepCron()
	cron.InitMembershipExpiryCron()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(dbURL)
	err := database.MigrateDatabase(
		&model.Box{},
		&model.User{},
		&model.Subscription{},
		&model.UserSubscription{},
		&model.Course{},
		&model.Enrollment{},
		&model.Exercise{},
		&model.PerformanceEntry{},
		&model.WeightEntry{},
		&model.Message{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedMembershipPlans(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
