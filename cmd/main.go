package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/archboard/archboard-backend/internal/catalog"
	"github.com/archboard/archboard-backend/internal/db"
	"github.com/archboard/archboard-backend/internal/handlers"
	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/middleware"
	"github.com/archboard/archboard-backend/internal/observability"
	"github.com/archboard/archboard-backend/internal/repos"
	"github.com/archboard/archboard-backend/internal/server"
	"github.com/archboard/archboard-backend/internal/services"
	"github.com/archboard/archboard-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing (optional)
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "archboard",
		Environment: logMode,
	})
	if shutdownOTel != nil {
		defer func() { _ = shutdownOTel(context.Background()) }()
	}

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Database migration failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()

	// Entity directory
	directory, err := catalog.NewFromEnv(log)
	if err != nil {
		log.Error("Catalog init failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos...")
	hypoRepo := repos.NewHypothesisRepo(gdb, log)
	planningRepo := repos.NewTechnicalPlanningRepo(gdb, log)
	eventRepo := repos.NewHypothesisEventRepo(gdb, log)

	// Services
	log.Info("Setting up services...")
	hypService := services.NewHypothesisService(gdb, log, hypoRepo, planningRepo, eventRepo, directory)
	eventService := services.NewEventService(gdb, log, eventRepo)

	// Handlers
	log.Info("Setting up handlers...")
	hypHandler := handlers.NewHypothesisHandler(log, hypService)
	planningHandler := handlers.NewPlanningHandler(log, hypService)
	eventHandler := handlers.NewEventHandler(log, eventService)
	statsHandler := handlers.NewStatsHandler(log, hypService)

	// Middleware
	requestLog := middleware.NewRequestLogMiddleware(log)

	// Router
	log.Info("Setting up router...")
	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		origins = strings.Split(raw, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		RequestLogMiddleware: requestLog,
		HypothesisHandler:    hypHandler,
		PlanningHandler:      planningHandler,
		EventHandler:         eventHandler,
		StatsHandler:         statsHandler,
		AllowOrigins:         origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
