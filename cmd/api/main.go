package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"studyhub/docs"
	"studyhub/internal/config"
	"studyhub/internal/database"
	"studyhub/internal/database/migration"
	handlers "studyhub/internal/http/handler"
	"studyhub/internal/http/middleware"
	"studyhub/internal/logging"
	"studyhub/internal/otel"
	"studyhub/internal/repository/postgres"
	"studyhub/internal/service"
	"studyhub/internal/session"
	"studyhub/internal/storage"
)

// @title StudyHub API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(nil, cfg.Location()).With(logging.Fields{"service": "studyhub-api"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger, "studyhub-api")
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	docSvc := service.NewDocumentService(objStore, postgres.NewDocumentPostgres(db))
	emails := service.NewEmailLookup(postgres.NewUserPostgres(db))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	var verifier middleware.TokenVerifier
	if cfg.Backend.JWTSecret != "" {
		verifier = session.NewVerifier(cfg.Backend.JWTSecret)
	} else {
		logger.Warn("BACKEND_JWT_SECRET is empty, /documents routes are disabled", nil)
	}

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:        db,
		Emails:    emails,
		Documents: docSvc,
		Verifier:  verifier,
		Gatherer:  reg,
		Log:       logger,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", logging.Fields{"error": err})
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("listening", logging.Fields{"addr": addr})
	if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("failed to start server: %v", err)
	}
}
