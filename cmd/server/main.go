package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mandolon/rehome-platform-sub001/internal/api"
	"github.com/mandolon/rehome-platform-sub001/internal/config"
	"github.com/mandolon/rehome-platform-sub001/internal/logging"
	"github.com/mandolon/rehome-platform-sub001/internal/mailer"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
	"github.com/mandolon/rehome-platform-sub001/internal/repository/postgres"
	"github.com/mandolon/rehome-platform-sub001/internal/repository/redis"
	"github.com/mandolon/rehome-platform-sub001/internal/scheduler"
)

func main() {
	// .env is optional; containers inject environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting rehome platform API server")

	// Database
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Notification dispatch
	notificationRepo := postgres.NewNotificationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	mailClient := mailer.New(cfg.Mail)

	dispatcher, err := notify.NewDispatcher(cfg.Notify, notificationRepo, userRepo, mailClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create notification dispatcher")
	}
	dispatcher.Start()

	// Background jobs
	jobs, err := scheduler.NewManager(cfg.Notify, dispatcher, postgres.NewTaskRepository(db), notificationRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create job manager")
	}
	jobs.Start()

	// Router
	router, err := api.NewRouter(cfg, db, redisClient, dispatcher)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// stop producing jobs before draining the dispatcher
	jobs.Stop()
	dispatcher.Stop()

	log.Info().Msg("Server stopped")
}
