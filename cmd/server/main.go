package main

import (
	"encoding/gob"
	"fmt"
	"log"
	"net/http"
	"time"

	"prontoticket/internal/backend"
	"prontoticket/internal/config"
	"prontoticket/internal/handlers"
	"prontoticket/internal/middleware"
	"prontoticket/internal/models"
	"prontoticket/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

func main() {
	// Register types for session serialization
	gob.Register(&models.User{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Create session store
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	}

	// Backend API client
	backendClient := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})

	// Initialize services
	catalogService := services.NewCatalogService(backendClient, cfg.Catalog.PageSize)
	checkoutService := services.NewCheckoutService(backendClient, cfg.Checkout.TTL)
	defer checkoutService.Close()
	confirmationService := services.NewConfirmationService(backendClient)
	authService := services.NewAuthService(backendClient)
	profileService := services.NewProfileService(backendClient)
	analyticsService := services.NewAnalyticsService(backendClient)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionStore)
	loginLimiter := middleware.NewRateLimiter(10, 5*time.Minute)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, backendClient)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, sessionStore)
	paymentHandler := handlers.NewPaymentHandler(confirmationService, sessionStore)
	authHandler := handlers.NewAuthHandler(authService, sessionStore)
	profileHandler := handlers.NewProfileHandler(profileService)
	adminHandler := handlers.NewAdminHandler(analyticsService)

	// Initialize router
	r := chi.NewRouter()

	// Basic middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(authMiddleware.LoadUser)

	// Public catalog routes
	r.Get("/events", catalogHandler.ListEvents)
	r.Get("/events/{id}", catalogHandler.GetEvent)

	// Checkout routes
	r.Post("/events/{id}/checkout", checkoutHandler.Begin)
	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", checkoutHandler.View)
		r.Delete("/", checkoutHandler.Abandon)
		r.Post("/tickets", checkoutHandler.UpdateTickets)
		r.Post("/buyer", checkoutHandler.UpdateBuyer)
		r.Post("/submit", checkoutHandler.Submit)
	})

	// Payment provider redirects
	r.Get("/payments/success/{transactionId}", paymentHandler.Success)
	r.Get("/payments/failed", paymentHandler.Failed)

	// Auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitAuth(loginLimiter))
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signout", authHandler.SignOut)
	})

	// Profile routes
	r.Route("/profile", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/", profileHandler.Show)
		r.Put("/", profileHandler.Update)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/events/{id}", adminHandler.EventStats)
	})

	// Health check endpoint
	r.Get("/health", handlers.HealthCheck)

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s (Environment: %s)", serverAddr, cfg.Server.Env)
	log.Fatal(http.ListenAndServe(serverAddr, r))
}
