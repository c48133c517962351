package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/clientpulse/docs"
	"github.com/johnquangdev/clientpulse/internal/adapter/handler"
	"github.com/johnquangdev/clientpulse/internal/bootstrap"
	httpmw "github.com/johnquangdev/clientpulse/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/clientpulse/pkg/config"
	pkgvalidator "github.com/johnquangdev/clientpulse/pkg/validator"
)

// @title           ClientPulse Ingestion API
// @version         1.0
// @description     Scheduler entry point for the client-intelligence ingestion pipeline.

// @BasePath  /

// @securityDefinitions.apikey CronSecret
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the CRON_SECRET value.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := bootstrap.New(initCtx, cfg, logger)
	cancelInit()
	if err != nil {
		logger.Fatal("❌ Failed to initialize application", zap.Error(err))
	}
	defer app.Close()

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	cronHandler := handler.NewCron(app.Scheduler, logger)
	router := handler.NewRouter(cfg, cronHandler, httpmw.CronAuth(cfg.Cron.Secret, logger))
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("✅ Server stopped gracefully")
}
