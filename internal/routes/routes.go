package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
	"github.com/taogeht/reading-practice-app-sub002/internal/handlers"
	"github.com/taogeht/reading-practice-app-sub002/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	healthHandler *handlers.HealthHandler,
	visualLoginHandler *handlers.VisualLoginHandler,
	staffAuthHandler *handlers.StaffAuthHandler,
	studentHandler *handlers.StudentHandler,
	tokenManager *auth.TokenManager,
) {
	rateLimitConfig := middleware.DefaultLoginRateLimit()

	router.Get("/health", healthHandler.Health)

	// Public routes - students authenticate through these, so no token required.
	// Rate limited per IP to slow scripted guessing on shared classroom devices.
	router.Get("/auth/visual-options", visualLoginHandler.ListOptions)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/visual-login/start", visualLoginHandler.StartLogin)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/visual-login", visualLoginHandler.AttemptLogin)
	router.Get("/auth/visual-login/{sessionID}/status", visualLoginHandler.SessionStatus)
	router.Post("/auth/visual-login/{sessionID}/abandon", visualLoginHandler.AbandonSession)

	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/staff/login", staffAuthHandler.Login)

	// Protected routes - staff token required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))
		r.Use(auth.RequireStaff)

		r.Get("/classes/{classID}/students", studentHandler.Roster)

		// Provisioning is admin or teacher work alike; both staff roles may
		// assign picture passwords for their own classes.
		r.Post("/students", studentHandler.Create)
		r.Put("/students/{id}/visual-password", studentHandler.UpdateVisualPassword)
	})
}
