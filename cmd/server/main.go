package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"bulkpickup_app/internal/catalog"
	"bulkpickup_app/internal/config"
	"bulkpickup_app/internal/handlers"
	appMiddleware "bulkpickup_app/internal/middleware"
	"bulkpickup_app/internal/services"
	"bulkpickup_app/internal/session"
	"bulkpickup_app/internal/validation"
)

func main() {
	cfg := config.Load()
	cat := catalog.MustDefault()

	// Initialize Database
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = services.InitDB(cfg.DatabaseURL, cfg.IsProduction())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := services.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		if _, err := services.SeedCatalog(db, cat); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	} else {
		log.Println("Warning: DATABASE_URL not set, API routes disabled")
	}

	// Sessions live in Redis when available so several instances can share them
	var cache *services.RedisCache
	var store session.Store
	if cfg.RedisURL != "" {
		var err error
		cache, err = services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer cache.Close()
		store = session.NewRedisStore(cache.Client(), cfg.SessionTTL)
	} else {
		log.Println("Warning: REDIS_URL not set, sessions kept in memory")
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return "req_" + uuid.NewString() },
	}))
	e.Use(appMiddleware.Session(cfg.IsProduction(), cfg.SessionTTL))

	e.Static("/static", "web/static")

	handlers.RegisterPortal(e, handlers.NewPortalHandler(store, cat, cfg.ChartAssetsHost))

	if db != nil {
		validator := validation.New()
		handlers.RegisterAPI(e.Group("/api"),
			handlers.NewScheduleHandler(services.NewScheduleService(db), validator, cfg.DemoUserID),
			handlers.NewBusinessHandler(services.NewBusinessService(db, cache), validator, cfg.DemoBusinessUserID, cfg.DemoUserID),
			handlers.NewBookingHandler(services.NewBookingService(db), validator, cfg.DemoUserID),
		)
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
