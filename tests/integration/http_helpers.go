package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
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

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server  *httptest.Server
	DB      *database.DB
	Tracker *auth.AttemptTracker
	Config  *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server backed by a real database.
// The attempt tracker uses the supplied clock so tests can step through
// lockout expiry without sleeping.
func NewTestServer(db *database.DB, now func() time.Time) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret-32-characters-long-for-testing",
			StudentTokenExpiry:  8 * time.Hour,
			StaffTokenExpiry:    12 * time.Hour,
			SweepInterval:       1 * time.Hour,
			TimingDelayBaseMs:   0,
			TimingDelayJitterMs: 0,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
			TrustedProxies: []string{},
		},
	}

	studentRepo := repositories.NewStudentRepository(db)
	staffRepo := repositories.NewStaffRepository(db)

	tracker := auth.NewAttemptTrackerWithClock(now)

	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.StudentTokenExpiry,
		cfg.Auth.StaffTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayJitterMs,
	})

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	visualLoginService := services.NewVisualLoginService(studentRepo, tracker, tokenManager, timingDelay, logger, auditLogger)
	staffAuthService := services.NewStaffAuthService(staffRepo, tokenManager, timingDelay, logger, auditLogger)
	studentService := services.NewStudentService(studentRepo, logger)

	healthHandler := handlers.NewHealthHandler(db)
	visualLoginHandler := handlers.NewVisualLoginHandler(visualLoginService, ipConfig)
	staffAuthHandler := handlers.NewStaffAuthHandler(staffAuthService, ipConfig)
	studentHandler := handlers.NewStudentHandler(studentService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, healthHandler, visualLoginHandler, staffAuthHandler, studentHandler, tokenManager)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:  server,
		DB:      db,
		Tracker: tracker,
		Config:  cfg,
		logger:  logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with a bearer token
func (ts *TestServer) RequestWithAuth(method, path, token string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	return ts.Request(method, path, body, headers)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}
