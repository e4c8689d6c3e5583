// Command watch signs a user in and keeps their entity queries mounted,
// logging every state change until interrupted. It drives the same hooks the
// study client uses and is handy to observe polling and invalidation against
// a live backend.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"studyhub/internal/access"
	"studyhub/internal/checkout"
	"studyhub/internal/config"
	"studyhub/internal/database"
	"studyhub/internal/functions"
	handlers "studyhub/internal/http/handler"
	"studyhub/internal/logging"
	"studyhub/internal/model"
	"studyhub/internal/notify"
	"studyhub/internal/otel"
	"studyhub/internal/queries"
	"studyhub/internal/querycache"
	"studyhub/internal/remote"
	"studyhub/internal/session"
	"studyhub/internal/storage"
)

type closer interface{ Close() }

func main() {
	token := flag.String("token", os.Getenv("STUDYHUB_ACCESS_TOKEN"), "user access token (defaults to $STUDYHUB_ACCESS_TOKEN)")
	orgID := flag.String("org", "", "also watch the seat capacity of this organization")
	metricsAddr := flag.String("metrics-addr", "", "serve cache metrics on this address, e.g. :9091")
	pending := flag.String("checkout", "", "record this checkout session id as pending before watching")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(nil, cfg.Location()).With(logging.Fields{"service": "studyhub-watch"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger, "studyhub-watch")
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	sess := session.New(session.NewVerifier(cfg.Backend.JWTSecret))
	id, err := sess.SignIn(*token)
	if err != nil {
		log.Fatalf("sign in: %v", err)
	}
	logger.Info("signed in", logging.Fields{"user_id": id.UserID, "expires_at": id.ExpiresAt})

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	fn, err := functions.NewHTTPInvoker(cfg.Backend, sess)
	if err != nil {
		log.Fatalf("failed to configure backend functions: %v", err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := querycache.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register cache metrics: %v", err)
	}
	cache := querycache.New(querycache.WithMetrics(metrics), querycache.WithLogger(logger))

	hooks := queries.New(
		cache,
		sess,
		remote.NewPostgres(db, objStore, fn),
		notify.NewLogNotifier(logger),
		logger,
		queries.PolicyFrom(cfg.Cache),
	)

	store, closeStore, err := checkout.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open checkout store: %v", err)
	}
	defer closeStore()

	checker := access.NewChecker(cfg.AdminEmails)
	sess.OnSignOut(func(prev session.Identity) {
		hooks.ForgetUser(prev.UserID)
		checker.Reset()
		// the pending checkout belongs to the user who started it
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Clear(cctx); err != nil {
			logger.Warn("checkout store clear failed", logging.Fields{"error": err})
		}
		logger.Info("signed out", logging.Fields{"user_id": prev.UserID})
	})

	if *pending != "" {
		if err := store.Save(ctx, *pending); err != nil {
			logger.Warn("checkout store write failed", logging.Fields{"error": err})
		}
	}
	if sid, found, err := store.Get(ctx); err != nil {
		logger.Warn("checkout store unreadable", logging.Fields{"error": err})
	} else if found {
		logger.Info("pending checkout session", logging.Fields{"checkout_session_id": sid})
	}

	if *metricsAddr != "" {
		app := fiber.New(fiber.Config{DisableStartupMessage: true, ErrorHandler: handlers.ErrorHandler()})
		app.Get("/metrics", handlers.Metrics(reg))
		go func() {
			if err := app.Listen(*metricsAddr); err != nil {
				logger.Error("metrics listener stopped", logging.Fields{"error": err})
			}
		}()
		defer app.Shutdown()
	}

	watch := logger.With(logging.Fields{"component": "watch"})
	report := func(query string, status querycache.Status, hasData bool, err error, polling time.Duration) {
		fields := logging.Fields{
			"query":    query,
			"status":   string(status),
			"has_data": hasData,
		}
		if polling > 0 {
			fields["polling"] = polling.String()
		}
		if err != nil {
			fields["error"] = err
			watch.Warn("query_state", fields)
			return
		}
		watch.Info("query_state", fields)
	}

	observers := []closer{
		hooks.ObserveProfile(func(s querycache.State[*model.Profile]) {
			report("profile", s.Status, s.HasData, s.Err, s.Polling)
		}),
		hooks.ObserveUserRole(func(s querycache.State[model.UserRole]) {
			report("user_role", s.Status, s.HasData, s.Err, s.Polling)
			if s.Status == querycache.StatusSuccess {
				admin := checker.Check(s.Data.UserID, id.Email, s.Data.Role)
				watch.Info("admin_access", logging.Fields{"admin": admin, "state": checker.State().String()})
			}
		}),
		hooks.ObserveDocuments(func(s querycache.State[[]model.Document]) {
			report("documents", s.Status, s.HasData, s.Err, s.Polling)
		}),
		hooks.ObserveCourses(func(s querycache.State[[]model.Course]) {
			report("courses", s.Status, s.HasData, s.Err, s.Polling)
		}),
		hooks.ObserveRevisionSheets(func(s querycache.State[[]model.RevisionSheet]) {
			report("revision_sheets", s.Status, s.HasData, s.Err, s.Polling)
		}),
		hooks.ObserveErrorRevisions(func(s querycache.State[[]model.ErrorRevision]) {
			report("error_revisions", s.Status, s.HasData, s.Err, s.Polling)
		}),
		hooks.ObserveQuestionnaireStatus(func(s querycache.State[model.QuestionnaireStatus]) {
			report("questionnaire_status", s.Status, s.HasData, s.Err, s.Polling)
		}),
		hooks.ObserveMembership(func(s querycache.State[*model.OrganizationMembership]) {
			report("membership", s.Status, s.HasData, s.Err, s.Polling)
		}),
	}
	if *orgID != "" {
		observers = append(observers, hooks.ObserveOrganizationCapacity(*orgID, func(s querycache.State[model.Capacity]) {
			report("organization_capacity", s.Status, s.HasData, s.Err, s.Polling)
			if s.HasData {
				watch.Info("capacity", logging.Fields{
					"percentage": s.Data.Percentage,
					"status":     string(s.Data.Status),
				})
			}
		}))
	}

	<-ctx.Done()

	for _, o := range observers {
		o.Close()
	}
	sess.SignOut()
}
