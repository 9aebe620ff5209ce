package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"loginhub/internal/config"
	apphttp "loginhub/internal/http"
	"loginhub/internal/migrations"
	"loginhub/internal/repository"
	"loginhub/internal/repository/postgres"
	"loginhub/internal/repository/sqlite"
	"loginhub/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := openDatabase(cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, dialect); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	userRepo, sessionRepo := buildRepositories(cfg, db)

	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
	userService := service.NewUserService(userRepo)
	sessionService := service.NewSessionService(sessionRepo, userRepo, ttl)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), apphttp.RequestLogger(logger))

	handler := apphttp.NewHandler(userService, sessionService, logger, apphttp.CookieSettings{
		Name:   cfg.Session.Cookie,
		MaxAge: int(ttl.Seconds()),
		Secure: cfg.Session.Secure,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// openDatabase opens the configured driver and returns the goose dialect the
// schema should be migrated with.
func openDatabase(cfg config.Config) (*sql.DB, string, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, "", err
		}
		return db, "sqlite3", nil
	case "postgres":
		if cfg.Database.DSN == "" {
			return nil, "", fmt.Errorf("database dsn is required for postgres")
		}
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			return nil, "", err
		}
		return db, "pgx", nil
	default:
		return nil, "", fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func buildRepositories(cfg config.Config, db *sql.DB) (repository.UserRepository, repository.SessionRepository) {
	if cfg.Database.Driver == "postgres" {
		return postgres.NewUserRepository(db), postgres.NewSessionRepository(db)
	}
	return sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db)
}
