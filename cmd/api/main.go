package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/background"
	"github.com/taogeht/reading-practice-app-sub002/internal/config"
	"github.com/taogeht/reading-practice-app-sub002/internal/database"
	"github.com/taogeht/reading-practice-app-sub002/internal/handlers"
	middlewareCustom "github.com/taogeht/reading-practice-app-sub002/internal/middleware"
	"github.com/taogeht/reading-practice-app-sub002/internal/repositories"
	"github.com/taogeht/reading-practice-app-sub002/internal/routes"
	"github.com/taogeht/reading-practice-app-sub002/internal/services"
	pkghttp "github.com/taogeht/reading-practice-app-sub002/pkg/http"
	pkglogger "github.com/taogeht/reading-practice-app-sub002/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	studentRepo := repositories.NewStudentRepository(db)
	staffRepo := repositories.NewStaffRepository(db)

	// Attempt state lives in memory only; restarting the process clears all
	// counts and lockouts.
	tracker := auth.NewAttemptTracker()
	sweepManager := background.NewSweepManager(tracker, logger, cfg.Auth.SweepInterval)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.StudentTokenExpiry,
		cfg.Auth.StaffTokenExpiry,
	)

	// Security services
	auditLogger := pkglogger.NewAuditLogger(logger)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayJitterMs,
	})

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	// Initialize services
	visualLoginService := services.NewVisualLoginService(studentRepo, tracker, tokenManager, timingDelay, logger, auditLogger)
	staffAuthService := services.NewStaffAuthService(staffRepo, tokenManager, timingDelay, logger, auditLogger)
	studentService := services.NewStudentService(studentRepo, logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	visualLoginHandler := handlers.NewVisualLoginHandler(visualLoginService, ipConfig)
	staffAuthHandler := handlers.NewStaffAuthHandler(staffAuthService, ipConfig)
	studentHandler := handlers.NewStudentHandler(studentService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, healthHandler, visualLoginHandler, staffAuthHandler, studentHandler, tokenManager)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background sweep
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	go sweepManager.Start(sweepCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	sweepManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
