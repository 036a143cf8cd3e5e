// cmd/api/main.go
// Entry point for the matching API
// Bootstraps storage, the matching core and the HTTP server

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/imadgeboyega/kiekky-matching/internal/auth"
	"github.com/imadgeboyega/kiekky-matching/internal/common/database"
	"github.com/imadgeboyega/kiekky-matching/internal/common/logger"
	"github.com/imadgeboyega/kiekky-matching/internal/common/utils"
	"github.com/imadgeboyega/kiekky-matching/internal/config"
	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/likes"
	"github.com/imadgeboyega/kiekky-matching/internal/matching"
)

const serviceName = "kiekky-matching"

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: serviceName,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialise logger:", err)
		os.Exit(1)
	}
	if envErr != nil {
		log.Warn().Err(envErr).Msg("No .env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration validation failed")
	}
	log.Info().
		Str("environment", cfg.Environment).
		Str("directory", cfg.DirectoryBackend).
		Str("like_store", cfg.LikeStore).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to PostgreSQL when a backend needs it
	var db *sqlx.DB
	if cfg.NeedsPostgres() {
		var err error
		db, err = database.NewPostgresDBFromURL(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer db.Close()
		log.Info().Msg("Connected to PostgreSQL")

		if cfg.RunMigrations {
			if err := database.RunMigrations(ctx, db); err != nil {
				log.Fatal().Err(err).Msg("Failed to run migrations")
			}
		}
	}

	// 4. Connect to Redis when the like store needs it
	var redisClient *redis.Client
	if cfg.LikeStore == config.BackendRedis {
		var err error
		redisClient, err = database.NewRedisClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		log.Info().Msg("Connected to Redis")
	}

	// 5. Profile directory
	var dir directory.Directory
	switch cfg.DirectoryBackend {
	case config.BackendMemory:
		dir = directory.NewMemoryDirectory()
		log.Warn().Msg("Using in-memory profile directory (development mode)")
	default:
		dir = directory.NewPostgresDirectory(db)
	}

	// 6. Like store and ledger
	var store likes.Store
	switch cfg.LikeStore {
	case config.BackendRedis:
		store = likes.NewRedisStore(redisClient, "")
	case config.BackendMemory:
		store = likes.NewMemoryStore()
		log.Warn().Msg("Using in-memory like store (development mode)")
	default:
		store = likes.NewPostgresStore(db)
	}
	ledger := likes.NewLedger(store)

	// 7. Matching core and realtime hub
	hub := matching.NewHub()
	go hub.Run(ctx)

	matchingService := matching.NewService(
		dir,
		ledger,
		matching.NewSelector(),
		matching.NewRanker(matching.NewScorer()),
		hub,
		matching.Config{
			DefaultLimit: cfg.MatchDefaultLimit,
			MaxLimit:     cfg.MatchMaxLimit,
			ExcludeRoles: cfg.MatchExcludeRoles,
		},
	)
	matchingHandler := matching.NewHandler(matchingService)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	log.Info().Msg("Matching module initialized")

	// 8. Routes
	router := mux.NewRouter()
	router.Use(logger.RequestID)
	router.Use(logger.Logging("/health", "/metrics"))
	router.Use(logger.Recovery)
	router.Use(logger.CORS)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	matching.RegisterRoutes(router, matchingHandler, hub, authMiddleware)

	// 9. HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	// stops the hub and closes websocket clients
	cancel()

	log.Info().Msg("Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	})
}
