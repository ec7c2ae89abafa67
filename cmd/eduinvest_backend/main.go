package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/core/services"
	"github.com/eduinvest/eduinvest_backend/internal/events"
	"github.com/eduinvest/eduinvest_backend/internal/handlers"
	"github.com/eduinvest/eduinvest_backend/internal/jobs"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/eduinvest/eduinvest_backend/internal/platform/config"
	cachememory "github.com/eduinvest/eduinvest_backend/internal/repositories/cache/memory"
	cacheredis "github.com/eduinvest/eduinvest_backend/internal/repositories/cache/redis"
	"github.com/eduinvest/eduinvest_backend/internal/repositories/database/pgsql"
	"github.com/eduinvest/eduinvest_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title EduInvest Backend API
// @version 1.0
// @description Course revenue-share investment platform backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// In-process event hub; every committed ledger entry fans out through it.
	broker := events.NewBroker(cfg.EventBufferSize)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := buildServices(cfg, repos, broker, logger)

	// Background maintenance: reservation sweep and nightly ledger audit.
	runner := jobs.NewRunner(repos, logger)
	if err := runner.Start(); err != nil {
		logger.Error("Failed to start background jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer runner.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, broker)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices assembles the service container, wiring redis-backed
// idempotency and cross-instance event fan-out when a redis URL is configured
// and process-local equivalents when it is not.
func buildServices(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	broker *events.Broker,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	publisher := events.MultiPublisher{broker}
	var idempotency portsrepo.IdempotencyStore = cachememory.NewIdempotencyStore()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid redis URL, falling back to in-process stores", slog.String("error", err.Error()))
		} else {
			client := redis.NewClient(opts)
			instance := uuid.NewString()
			idempotency = cacheredis.NewIdempotencyStore(client)
			publisher = append(publisher, cacheredis.NewPublisher(client, instance, logger))
			go cacheredis.RunBridge(context.Background(), client, instance, broker, logger)
			logger.Info("Redis wired for idempotency and event fan-out")
		}
	}

	return services.NewServiceContainer(cfg, repos, publisher, idempotency)
}

// runMigrations applies all pending schema migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
