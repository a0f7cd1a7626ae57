// Package main is the entry point for the GreekPay API server.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greekpay/internal/config"
	"greekpay/internal/repositories"
	"greekpay/internal/routes"
	"greekpay/internal/services/fees"
	"greekpay/internal/services/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	feeConfig, err := config.LoadFeeConfig()
	if err != nil {
		log.Fatalf("Failed to load fee schedule: %v", err)
	}
	calc, err := fees.NewCalculator(fees.ScheduleFromConfig(feeConfig))
	if err != nil {
		log.Fatalf("Invalid fee schedule: %v", err)
	}
	log.Printf("✅ Fee schedule loaded: card %.2f%% + $%.2f, ACH %.2f%% capped at $%.2f, platform %.2f%%",
		feeConfig.CardPercentage*100, feeConfig.CardFixed,
		feeConfig.ACHPercentage*100, feeConfig.ACHCap,
		feeConfig.PlatformPercentage*100)

	stripeKey := config.GetEnv("STRIPE_SECRET_KEY", "")
	webhookSecret := config.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	if stripeKey == "" || webhookSecret == "" {
		log.Fatal("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET must be set")
	}
	jwtSecret := config.GetEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Add a periodic check of connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
			rs := repositories.CacheService.GetStats()
			log.Printf("Redis Stats: Total=%d, Idle=%d, Hits=%d, Misses=%d, Timeouts=%d",
				rs.TotalConns, rs.IdleConns, rs.Hits, rs.Misses, rs.Timeouts)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:     "GreekPay API",
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:   1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods: "GET,POST,HEAD,OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:         repositories.DB,
		Cache:      repositories.CacheService,
		Calculator: calc,
		Gateway:    gateway.NewStripeGateway(stripeKey, webhookSecret),
		JWTSecret:  jwtSecret,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown failed: %v", err)
		}
	}()

	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
