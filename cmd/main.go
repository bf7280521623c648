// @title Badminton 360 API
// @version 1.0
// @description Registry of the Georgian National Badminton Federation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gnbf/badminton-registry/config"
	"github.com/gnbf/badminton-registry/db"
	_ "github.com/gnbf/badminton-registry/docs"
	"github.com/gnbf/badminton-registry/handlers"
	"github.com/gnbf/badminton-registry/live"
	"github.com/gnbf/badminton-registry/middleware"
	"github.com/gnbf/badminton-registry/repositories"
	api "github.com/gnbf/badminton-registry/routes"
	"github.com/gnbf/badminton-registry/services"
	"github.com/gnbf/badminton-registry/storage"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.AppEnv), slog.Int("port", cfg.ServerPort))

	if cfg.AutoMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	sqlDB, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	gormDB, err := db.OpenGorm(sqlDB, logger)
	if err != nil {
		logger.Error("failed to initialise ORM", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.StorageEnabled() {
		uploader, err = storage.NewS3Uploader(context.Background(), storage.S3Config{
			Endpoint:        cfg.StorageEndpoint,
			Region:          cfg.StorageRegion,
			AccessKeyID:     cfg.StorageAccessKeyID,
			SecretAccessKey: cfg.StorageSecretAccessKey,
			BucketName:      cfg.StorageBucket,
			PublicBaseURL:   cfg.StoragePublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialise object storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("object storage initialised", slog.String("bucket", cfg.StorageBucket))
	} else {
		logger.Warn("object storage not configured, uploads are disabled")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := live.NewHub(logger)
	go hub.Run(hubCtx)

	userRepo := repositories.NewUserRepository(gormDB)
	clubRepo := repositories.NewClubRepository(gormDB)
	playerRepo := repositories.NewPlayerRepository(gormDB)
	coachRepo := repositories.NewCoachRepository(gormDB)
	officialRepo := repositories.NewOfficialRepository(gormDB)
	tournamentRepo := repositories.NewTournamentRepository(gormDB)
	matchRepo := repositories.NewMatchRepository(gormDB)
	rankingRepo := repositories.NewRankingRepository(gormDB)

	authService := services.NewAuthService(userRepo, services.AuthConfig{
		Secret:    cfg.SecretKey,
		AccessTTL: time.Duration(cfg.AccessTokenExpireHours) * time.Hour,
		ResetTTL:  time.Duration(cfg.ResetTokenExpireMinutes) * time.Minute,
	})
	clubService := services.NewClubService(clubRepo, coachRepo, playerRepo)
	playerService := services.NewPlayerService(playerRepo, clubRepo, matchRepo, rankingRepo)
	coachService := services.NewCoachService(coachRepo)
	officialService := services.NewOfficialService(officialRepo, matchRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, matchRepo, playerRepo, hub)
	matchService := services.NewMatchService(matchRepo, playerRepo, tournamentRepo)
	rankingService := services.NewRankingService(rankingRepo, tournamentRepo, matchRepo, playerRepo, hub)
	reportService := services.NewReportService(tournamentRepo, matchRepo, playerRepo, clubRepo, coachRepo)
	mediaService := services.NewMediaService(uploader, clubRepo, playerRepo, tournamentRepo)
	healthService := services.NewHealthService(playerRepo)
	adminService := services.NewAdminUserService(userRepo)
	dashboardService := services.NewDashboardService(userRepo, playerRepo, clubRepo, tournamentRepo)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		System:     handlers.NewSystemHandler(healthService),
		Auth:       handlers.NewAuthHandler(authService, time.Duration(cfg.AccessTokenExpireHours)*time.Hour, cfg.IsProduction()),
		Club:       handlers.NewClubHandler(clubService, mediaService),
		Player:     handlers.NewPlayerHandler(playerService, mediaService),
		Coach:      handlers.NewCoachHandler(coachService),
		Official:   handlers.NewOfficialHandler(officialService),
		Tournament: handlers.NewTournamentHandler(tournamentService, mediaService),
		Match:      handlers.NewMatchHandler(matchService),
		Ranking:    handlers.NewRankingHandler(rankingService),
		Report:     handlers.NewReportHandler(reportService),
		Live:       handlers.NewLiveHandler(hub, tournamentService, cfg.Origins()),
		User:       handlers.NewUserHandler(adminService, dashboardService),
	}, api.Options{
		Tokens:         authService,
		Metrics:        middleware.NewMetrics(),
		Logger:         logger,
		AllowedOrigins: cfg.Origins(),
		Docs:           cfg.DocsAvailable(),
	})
	logger.Info("routes configured", slog.Bool("docs", cfg.DocsAvailable()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		// Websocket connections are hijacked and ignored by Shutdown.
		stopHub()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
