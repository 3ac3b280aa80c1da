package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mbacke/orienta-api/database"
	"github.com/mbacke/orienta-api/handlers"
	admin_handlers "github.com/mbacke/orienta-api/handlers/admin"
	auth_handlers "github.com/mbacke/orienta-api/handlers/auth"
	catalogue_handlers "github.com/mbacke/orienta-api/handlers/catalogue"
	faq_handlers "github.com/mbacke/orienta-api/handlers/faq"
	notification_handlers "github.com/mbacke/orienta-api/handlers/notification"
	orientation_handlers "github.com/mbacke/orienta-api/handlers/orientation"
	payment_handlers "github.com/mbacke/orienta-api/handlers/payment"
	qa_handlers "github.com/mbacke/orienta-api/handlers/qa"
	"github.com/mbacke/orienta-api/utils/auth"
	"github.com/mbacke/orienta-api/utils/cache"
	"github.com/mbacke/orienta-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "orienta-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: jwtSecret,
		Expiry: 24 * time.Hour,
		Issuer: jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis-backed login lockouts; the API stays up without Redis,
	// just without the protection.
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	catalogueHandler := catalogue_handlers.NewCatalogueHandler(db)
	qaHandler := qa_handlers.NewQAHandler(db)
	notificationHandler := notification_handlers.NewNotificationHandler(db)
	orientationHandler := orientation_handlers.NewOrientationHandler(db)
	paymentHandler := payment_handlers.NewPaymentHandler(db)
	faqHandler := faq_handlers.NewFAQHandler(db)
	userAdminHandler := admin_handlers.NewUserAdminHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckLockout(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile route (protected)
	api.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)

	// Catalogue routes
	catalogueGroup := api.Group("/catalogue")
	catalogueGroup.Get("/", catalogueHandler.ListEntries)
	catalogueGroup.Get("/:id", catalogueHandler.GetEntry)
	catalogueGroup.Post("/", authMiddleware.RequireAdmin(), catalogueHandler.CreateEntry)
	catalogueGroup.Put("/:id", authMiddleware.RequireAdmin(), catalogueHandler.UpdateEntry)
	catalogueGroup.Delete("/:id", authMiddleware.RequireAdmin(), catalogueHandler.DeleteEntry)
	catalogueGroup.Post("/:id/consult", authMiddleware.Required(), catalogueHandler.RecordConsultation)
	catalogueGroup.Get("/:id/consultations", authMiddleware.RequireAdmin(), catalogueHandler.ListConsultations)

	// Q&A routes; asking is open to anonymous visitors
	questionGroup := api.Group("/questions")
	questionGroup.Post("/", authMiddleware.Optional(), qaHandler.Ask)
	questionGroup.Get("/", authMiddleware.Required(), qaHandler.List)
	questionGroup.Get("/:id", qaHandler.Get)
	questionGroup.Post("/:id/answers", authMiddleware.RequireAdmin(), qaHandler.Answer)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Post("/", authMiddleware.RequireAdmin(), notificationHandler.Publish)
	notificationGroup.Get("/", authMiddleware.Required(), notificationHandler.List)
	notificationGroup.Get("/unread-count", authMiddleware.Required(), notificationHandler.UnreadCount)
	notificationGroup.Post("/:id/read", authMiddleware.Required(), notificationHandler.MarkRead)

	// Orientation test routes (student's own profile)
	orientationGroup := api.Group("/orientation-tests", authMiddleware.Required())
	orientationGroup.Get("/", orientationHandler.List)
	orientationGroup.Post("/", orientationHandler.Append)

	// Payment routes
	api.Get("/payments", authMiddleware.Required(), paymentHandler.ListOwn)
	api.Post("/payments", authMiddleware.RequireAdmin(), paymentHandler.Record)

	// FAQ routes
	faqGroup := api.Group("/faq")
	faqGroup.Get("/", faqHandler.List)
	faqGroup.Post("/", authMiddleware.RequireAdmin(), faqHandler.Create)
	faqGroup.Put("/:id", authMiddleware.RequireAdmin(), faqHandler.Update)
	faqGroup.Delete("/:id", authMiddleware.RequireAdmin(), faqHandler.Delete)

	// Account administration routes
	adminGroup := api.Group("/admin", authMiddleware.RequireAdmin())
	adminGroup.Get("/users", userAdminHandler.List)
	adminGroup.Put("/users/:id/status", userAdminHandler.SetStatus)
	adminGroup.Delete("/users/:id", userAdminHandler.Delete)
	adminGroup.Get("/profiles/:id/payments", userAdminHandler.ListPayments)
	adminGroup.Delete("/profiles/:id", userAdminHandler.DeleteProfile)
}
