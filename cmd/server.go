package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/resumescan/pkg/config"
	"github.com/Abraxas-365/resumescan/pkg/errx/errxfiber"
	"github.com/Abraxas-365/resumescan/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Configuration and Logger
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.Configure(cfg.LogLevel, cfg.LogFormat)
	logx.Info("Starting Resume Scanner API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Resume Scanner API",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errxfiber.ErrorHandler,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(container.Health(c.UserContext()))
	})

	// 6. Register Routes
	// /auth/register, /auth/login, /auth/logout, /auth/me
	container.AuthHandlers.RegisterRoutes(app, container.AuthMiddleware)

	// /api/analyses, /api/roles
	container.ScreeningHandlers.RegisterRoutes(app, container.AuthMiddleware)

	// 7. Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if container.Worker != nil {
		container.Worker.Start(ctx)
	}

	// 8. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logx.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	cancel()
	if container.Worker != nil {
		container.Worker.Wait()
	}

	logx.Info("Server exited")
}
