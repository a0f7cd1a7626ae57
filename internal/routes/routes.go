// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and applies the
// authentication and chapter-scoping middleware to each route group.
package routes

import (
	"context"
	"fmt"
	"time"

	"greekpay/internal/config"
	"greekpay/internal/handlers"
	"greekpay/internal/middleware"
	"greekpay/internal/models"
	"greekpay/internal/repositories"
	"greekpay/internal/repositories/cache"
	"greekpay/internal/services/fees"
	"greekpay/internal/services/gateway"
	"greekpay/internal/services/installment"
	"greekpay/internal/services/payment"
	"greekpay/internal/services/reporting"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Dependencies are the connections and shared components the routes use.
type Dependencies struct {
	DB         *gorm.DB
	Cache      *cache.CacheService
	Calculator *fees.Calculator
	Gateway    gateway.Gateway
	JWTSecret  string
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	// Initialize repositories
	chapterRepo := repositories.NewChapterRepository(deps.DB)
	memberRepo := repositories.NewMemberRepository(deps.DB)
	duesRepo := repositories.NewDuesRepository(deps.DB)
	paymentRepo := repositories.NewPaymentRepository(deps.DB)
	installmentRepo := repositories.NewInstallmentRepository(deps.DB)

	// Initialize services
	currency := config.GetEnv("PAYMENT_CURRENCY", payment.DefaultCurrency)
	paymentService := payment.NewService(
		chapterRepo,
		memberRepo,
		duesRepo,
		paymentRepo,
		deps.Gateway,
		deps.Cache,
		deps.Calculator,
		payment.Config{
			Currency:        currency,
			IdempotencyTTL:  config.GetDurationEnv("IDEMPOTENCY_TTL", payment.DefaultIdempotencyTTL),
			LockTTL:         config.GetDurationEnv("IDEMPOTENCY_LOCK_TTL", payment.DefaultLockTTL),
			WebhookEventTTL: config.GetDurationEnv("WEBHOOK_EVENT_TTL", payment.DefaultWebhookEventTTL),
		},
	)
	installmentService := installment.NewService(
		installmentRepo,
		memberRepo,
		chapterRepo,
		duesRepo,
		paymentRepo,
		deps.Gateway,
		deps.Calculator,
		installment.Config{
			BatchSize:   config.GetIntEnv("INSTALLMENT_BATCH_SIZE", installment.DefaultBatchSize),
			MaxFailures: config.GetIntEnv("INSTALLMENT_MAX_FAILURES", installment.DefaultMaxFailures),
			Currency:    currency,
			RetryDelay:  config.GetDurationEnv("INSTALLMENT_RETRY_DELAY", installment.DefaultRetryDelay),
		},
	)
	reportingService := reporting.NewService(paymentRepo, deps.Calculator)

	// Initialize handlers
	feeHandler := handlers.NewFeeHandler(paymentService, deps.Calculator)
	paymentHandler := handlers.NewPaymentHandler(paymentService, reportingService)
	webhookHandler := handlers.NewWebhookHandler(paymentService)
	installmentHandler := handlers.NewInstallmentHandler(installmentService)

	app.Get("/health", handlers.HealthCheck(map[string]handlers.Pinger{
		"database": pingDB(deps.DB),
		"redis":    deps.Cache.HealthCheck,
	}))

	api := app.Group("/api")

	// Stripe authenticates webhooks by signature, not bearer token.
	api.Post("/webhooks/stripe", webhookHandler.Stripe)

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTSecret)
	protected := api.Group("", authMiddleware.Handler)

	feeRoutes := protected.Group("/fees")
	feeRoutes.Post("/quote", feeHandler.Quote)
	feeRoutes.Get("/schedule", feeHandler.Schedule)

	protected.Post("/payments/intent", intentLimiter(), paymentHandler.CreateIntent)

	chapters := protected.Group("/chapters/:id",
		middleware.RequireRole(models.RoleTreasurer, models.RoleAdmin),
		middleware.ChapterAccess("id"),
	)
	chapters.Get("/payments", paymentHandler.ListChapterPayments)
	chapters.Post("/payments/manual", paymentHandler.RecordManualPayment)
	chapters.Get("/reconciliation", paymentHandler.Reconciliation)

	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Post("/installments/process", installmentHandler.Process)
}

// intentLimiter caps payment intent creation per member.
func intentLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GetIntEnv("INTENT_RATE_LIMIT", 10),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals("memberID").(uint); ok {
				return fmt.Sprintf("member:%d", id)
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}

func pingDB(db *gorm.DB) handlers.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
