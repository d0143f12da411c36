package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Sandy853/TaskForge-AI/internal/api/handlers"
	"github.com/Sandy853/TaskForge-AI/internal/auth"
	"github.com/Sandy853/TaskForge-AI/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens *auth.Service, userService services.UserServiceProvider, plannerService services.PlannerServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the local frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	planHandler := handlers.NewPlanHandler(plannerService)

	// Public endpoints
	r.Get("/ping", planHandler.Ping)
	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware(userService))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/load", planHandler.Load)
			r.Post("/save", planHandler.Save)
			r.Post("/plan", planHandler.Create)
			r.Get("/today", planHandler.Today)
		})
		r.Get("/analytics", planHandler.Analytics)
	})

	return r
}
