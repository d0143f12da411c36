package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sandy853/TaskForge-AI/internal/api"
	"github.com/Sandy853/TaskForge-AI/internal/auth"
	"github.com/Sandy853/TaskForge-AI/internal/config"
	"github.com/Sandy853/TaskForge-AI/internal/database"
	"github.com/Sandy853/TaskForge-AI/internal/logger"
	"github.com/Sandy853/TaskForge-AI/internal/ollama"
	"github.com/Sandy853/TaskForge-AI/internal/services"
	"github.com/Sandy853/TaskForge-AI/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up the per-user plan store
	planStore, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize plan store")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db)
	generator := ollama.NewClient(ollama.ClientConfig{
		BaseURL: cfg.OllamaHost,
		Model:   cfg.OllamaModel,
		Timeout: cfg.OllamaTimeout,
	})
	plannerService := services.NewPlannerService(planStore, generator)

	// Set up router
	router := api.NewRouter(tokens, userService, plannerService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
