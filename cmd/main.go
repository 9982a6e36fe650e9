package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	usercmd "github.com/eaglebank/user-accounts/internal/command"
	"github.com/eaglebank/user-accounts/internal/config"
	"github.com/eaglebank/user-accounts/internal/handler"
	userqry "github.com/eaglebank/user-accounts/internal/query"
	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/shared/events"
	"github.com/eaglebank/user-accounts/shared/middleware"
	redisClient "github.com/eaglebank/user-accounts/shared/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection (record store)
	dialect, err := repository.ParseDialect(cfg.DB.Driver)
	if err != nil {
		logger.Fatalf("Invalid database driver: %v", err)
	}
	db, err := sql.Open(dialect.DriverName(), cfg.DB.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if cfg.DB.AutoMigrate {
		if err := repository.Migrate(ctx, db, dialect); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
	}

	store := repository.NewUserRepository(db, dialect)

	// Redis connection (optional read cache + event stream)
	var (
		publisher usercmd.EventPublisher = events.NopPublisher{}
		readRepo                         = repository.NewUserReadRepository(store, nil)
	)
	if cfg.Redis.Enabled() {
		redis, err := redisClient.NewClient(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()

		publisher = events.NewPublisher(redis.Client, cfg.Redis.StreamMaxLen)
		readRepo = repository.NewUserReadRepository(store, repository.NewUserCache(redis, cfg.Redis.CacheTTL, logger))
		logger.WithField("addr", cfg.Redis.Addr).Info("Redis cache and event stream enabled")
	}

	// --- CQRS wiring ---
	commandSvc := usercmd.NewUserCommandService(store, readRepo, publisher, usercmd.WithLogger(logger))
	querySvc := userqry.NewUserQueryService(readRepo)

	userHandler := handler.NewUserHandler(commandSvc, querySvc)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logger), middleware.MetricsMiddleware())

	userHandler.Register(router.Group("/users"))

	router.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			middleware.RespondWithError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Infof("User accounts service starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
