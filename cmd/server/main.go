package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/config"
	"github.com/yukikurage/task-scheduler/internal/database"
	"github.com/yukikurage/task-scheduler/internal/handlers"
	"github.com/yukikurage/task-scheduler/internal/repository"
	"github.com/yukikurage/task-scheduler/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "optional YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := cfg.NewLogger(os.Stderr)
	slog.SetDefault(log)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	// Run migrations
	if err := database.Migrate(db, database.DefaultSchema, log); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	router := handlers.NewRouter(handlers.Dependencies{
		Users:     services.NewUserService(repository.NewUserRepository(db), cfg.BcryptCost),
		Resources: services.NewResourceService(repository.NewResourceRepository(db)),
		Tasks:     services.NewTaskService(repository.NewTaskRepository(db)),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
