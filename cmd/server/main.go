package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leonardo-school/simulation-service/internal/cache"
	"github.com/leonardo-school/simulation-service/internal/config"
	"github.com/leonardo-school/simulation-service/internal/handlers"
	"github.com/leonardo-school/simulation-service/internal/middleware"
	"github.com/leonardo-school/simulation-service/internal/repositories/postgres"
	"github.com/leonardo-school/simulation-service/internal/services"
	"github.com/leonardo-school/simulation-service/internal/utils"
	"github.com/leonardo-school/simulation-service/internal/validator"
	"github.com/leonardo-school/simulation-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger *slog.Logger
	if cfg.Environment == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	eventPublisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer eventPublisher.Close()

	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(redisClient, logger)
	v := validator.New()

	notifier := services.NewNotificationEventService(repo, eventPublisher, logger)
	virtualRooms := services.NewVirtualRoomService(repo, cacheService, logger, notifier)
	assignments := services.NewAssignmentService(repo, logger, v, notifier)

	svcs := handlers.Services{
		Simulations:   services.NewSimulationService(repo, logger, v, notifier),
		Questions:     services.NewQuestionService(repo, logger, v),
		Assignments:   assignments,
		Sessions:      services.NewSessionService(repo, logger, v, assignments, virtualRooms, notifier),
		Grading:       services.NewGradingService(repo, logger, v, notifier),
		VirtualRooms:  virtualRooms,
		Results:       services.NewResultService(repo, logger),
		Export:        services.NewExportService(repo, logger),
		Notifications: services.NewNotificationService(repo, logger),
		Events:        notifier,
	}

	handlerLogger := utils.NewSlogLogger(logger)
	casdoorClient := middleware.NewCasdoorClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	authenticate := middleware.Authenticate(casdoorClient, repo, handlerLogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(handlerLogger))

	handlers.NewHandlerManager(svcs, handlerLogger).SetupRoutes(router, authenticate)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting simulation service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
