package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/stonescan/stonescan-be/internal/api/handlers"
	"github.com/stonescan/stonescan-be/internal/auth"
	"github.com/stonescan/stonescan-be/internal/config"
	"github.com/stonescan/stonescan-be/internal/inference"
	"github.com/stonescan/stonescan-be/internal/services"
	"github.com/stonescan/stonescan-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	hub *websocket.Hub,
	authService services.AuthServiceProvider,
	reportService services.ReportServiceProvider,
	eventService services.EventServiceProvider,
	classifier inference.Classifier,
	stats handlers.StatsProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(stats)
	authHandler := handlers.NewAuthHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService)
	eventHandler := handlers.NewEventHandler(eventService)
	predictHandler := handlers.NewPredictHandler(classifier, cfg.UploadDir)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/welcome", healthHandler.Welcome)
		r.Get("/system", healthHandler.System)

		// Live activity feed
		r.Get("/ws", wsHandler.Serve)

		r.Post("/predict", predictHandler.Predict)

		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/reset-password", authHandler.ResetPassword)

		// Bearer-protected resources
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.List)
				r.Post("/", reportHandler.Create)
				r.Delete("/{id}", reportHandler.Delete)
			})

			r.Get("/events", eventHandler.Recent)
		})
	})

	return r
}
