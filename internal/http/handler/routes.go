package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"

	"studyhub/internal/http/middleware"
	"studyhub/internal/logging"
	"studyhub/internal/service"
)

// Dependencies are what the routes need. Nil members switch their routes off:
// no Documents or Verifier, no /documents; no Gatherer, no /metrics.
type Dependencies struct {
	DB        *sql.DB
	Emails    service.EmailLookup
	Documents service.DocumentService
	Verifier  middleware.TokenVerifier
	Gatherer  prometheus.Gatherer
	Log       *logging.Logger
}

// corsConfig allows the browser client to call the functions from any origin
// with the headers its backend SDK sends.
func corsConfig() cors.Config {
	return cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST,GET,DELETE,OPTIONS",
		AllowHeaders: "authorization, x-client-info, apikey, content-type",
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = logging.Default()
	}

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())
	if deps.Gatherer != nil {
		app.Get("/metrics", Metrics(deps.Gatherer))
	}

	app.Use("/check-email", cors.New(corsConfig()))
	if deps.Emails != nil {
		app.Post("/check-email", CheckEmail(deps.Emails, log))
	}

	if deps.Documents != nil && deps.Verifier != nil {
		docs := app.Group("/documents", cors.New(corsConfig()), middleware.Auth(deps.Verifier))
		docs.Get("/", ListDocuments(deps.Documents))
		docs.Post("/", UploadDocument(deps.Documents))
		docs.Get("/:id", GetDocument(deps.Documents))
		docs.Get("/:id/content", DownloadDocument(deps.Documents))
		docs.Delete("/:id", DeleteDocument(deps.Documents))
	}
}
