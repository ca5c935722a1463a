package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justinloyola/alma/internal/config"
	"github.com/justinloyola/alma/internal/database"
	"github.com/justinloyola/alma/internal/database/migration"
	handlers "github.com/justinloyola/alma/internal/http/handler"
	"github.com/justinloyola/alma/internal/http/middleware"
	"github.com/justinloyola/alma/internal/model"
	"github.com/justinloyola/alma/internal/notify"
	"github.com/justinloyola/alma/internal/otel"
	"github.com/justinloyola/alma/internal/repository"
	"github.com/justinloyola/alma/internal/repository/postgres"
	"github.com/justinloyola/alma/internal/service"
	"github.com/justinloyola/alma/internal/storage"
	"github.com/justinloyola/alma/internal/upload"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	leadRepo := postgres.NewLeadPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	if err := seedAdminUser(ctx, userRepo, cfg.Auth); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	registry, err := buildStorageRegistry(cfg, leadRepo)
	if err != nil {
		log.Fatalf("failed to initialize storage backends: %v", err)
	}
	defaultKind := model.StorageKind(cfg.Storage.DefaultBackend)
	if !registry.Has(defaultKind) {
		log.Fatalf("default storage backend %q is not configured", cfg.Storage.DefaultBackend)
	}

	notifier, err := buildNotifier(cfg.SMTP)
	if err != nil {
		log.Fatalf("failed to initialize notifier: %v", err)
	}

	leadSvc := service.NewLeadService(leadRepo, registry, defaultKind, notifier)
	authSvc := service.NewAuthService(userRepo, cfg.Auth)
	policy := upload.NewPolicy(cfg.Upload)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    int(cfg.Upload.MaxSizeBytes) + 1<<20,
	})

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(promRegistry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, db, leadSvc, authSvc, policy)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// seedAdminUser creates the bootstrap admin account on an empty users
// table. Does nothing when users already exist or no admin credentials
// are configured.
func seedAdminUser(ctx context.Context, users repository.UserRepository, cfg config.AuthConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := service.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, &model.User{
		Email:          cfg.AdminEmail,
		HashedPassword: hash,
		IsActive:       true,
		IsSuperuser:    true,
	})
	return err
}

// buildStorageRegistry wires the configured resume backends: filesystem is
// always available, the database backend rides on the lead repository, and
// S3 joins when a MinIO endpoint is configured.
func buildStorageRegistry(cfg *config.AppConfig, leadRepo *postgres.LeadPostgres) (*storage.Registry, error) {
	fs, err := storage.NewFilesystem(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	backends := []storage.Backend{fs, storage.NewDatabase(leadRepo)}

	if cfg.MinIO.Endpoint != "" {
		s3, err := storage.NewS3(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		backends = append(backends, s3)
	}
	return storage.NewRegistry(backends...), nil
}

func buildNotifier(cfg config.SMTPConfig) (notify.Notifier, error) {
	if cfg.Host == "" {
		return notify.Nop{}, nil
	}
	return notify.NewSMTPNotifier(cfg)
}
