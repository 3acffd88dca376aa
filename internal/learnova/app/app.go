package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/learnova/learnova/internal/learnova/http"
	"github.com/learnova/learnova/internal/learnova/metrics"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/internal/learnova/roster"
	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/internal/learnova/store/drivers/sqldb"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/jwtx"
	"github.com/learnova/learnova/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application owns every long-lived dependency of the service.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       *sqldb.Store
	metrics  *metrics.Metrics
	redis    *redis.Client   // nil without REDIS_URL
	archiver roster.Archiver // nil without an object store

	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router

	outbox notify.Notifier // overrides SMTP selection when set
}

// Option customizes an Application before its dependencies are built.
type Option func(*Application)

// WithNotifier delivers every email through n instead of SMTP or the log.
func WithNotifier(n notify.Notifier) Option {
	return func(app *Application) { app.outbox = n }
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config, opts ...Option) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "learnova",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app.logger.Info("configuration loaded", slog.Any("config", cfg))
	if cfg.InviteTokenSecret == "" {
		app.logger.Warn("INVITE_TOKEN_SECRET is not set; course invitation operations will fail")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initRedis(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initArchiver(ctx)

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// initDatabase opens the store and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqldb.NewStore(app.cfg.DatabaseDriver, app.cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", slog.String("driver", app.cfg.DatabaseDriver))
	return nil
}

// initRedis connects the shared rate limit backend when configured.
func (app *Application) initRedis(ctx context.Context) error {
	if app.cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	app.redis = client
	app.logger.Info("rate limits shared through redis")
	return nil
}

// initArchiver enables roster archiving. Failures only disable the feature.
func (app *Application) initArchiver(ctx context.Context) {
	cfg := roster.ArchiveConfig{
		Endpoint:  app.cfg.RosterS3Endpoint,
		AccessKey: app.cfg.RosterS3AccessKey,
		SecretKey: app.cfg.RosterS3SecretKey,
		Bucket:    app.cfg.RosterBucket,
		UseSSL:    app.cfg.RosterS3UseSSL,
	}
	if !cfg.Enabled() {
		return
	}

	archiver, err := roster.NewMinioArchiver(cfg)
	if err != nil {
		app.logger.Warn("roster archive disabled", slog.Any("error", err))
		return
	}

	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := archiver.EnsureBucket(bucketCtx); err != nil {
		app.logger.Warn("roster archive disabled", slog.Any("error", err))
		return
	}

	app.archiver = archiver
	app.logger.Info("roster archive enabled", slog.String("bucket", cfg.Bucket))
}

func (app *Application) notifier() notify.Notifier {
	if app.outbox != nil {
		return app.metrics.InstrumentNotifier(app.outbox)
	}

	smtp := notify.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUser,
		Password: app.cfg.SMTPPass,
		From:     app.cfg.SMTPFrom,
	}
	if smtp.Enabled() {
		return app.metrics.InstrumentNotifier(notify.NewSMTPNotifier(smtp))
	}

	app.logger.Warn("SMTP is not configured; emails are not delivered")
	return app.metrics.InstrumentNotifier(notify.LogNotifier{ShowBody: app.cfg.Env == "dev"})
}

// initHTTP wires every service into the router and the server
func (app *Application) initHTTP() error {
	signer, err := jwtx.NewSignerHS256(app.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier := jwtx.NewVerifierHS256(app.cfg.JWTSecret, jwtx.VerifyOptions{
		Issuer: app.cfg.JWTIssuer,
		Leeway: 30 * time.Second,
	})

	renderer, err := notify.NewRenderer(notify.Branding{
		LogoURL:      app.cfg.EmailLogoURL,
		SupportEmail: app.cfg.EmailSupportEmail,
		Year:         app.cfg.EmailBrandYear,
	})
	if err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}
	mailer := &service.Mailer{
		Notifier: app.notifier(),
		Renderer: renderer,
		Links: service.Links{
			APIBaseURL:      app.cfg.APIBaseURL,
			FrontendBaseURL: app.cfg.FrontendBaseURL,
		},
	}

	tokens := &service.TokenService{Store: app.db, Metrics: app.metrics}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.Metrics = app.metrics

	var limiters httpx.LimiterFactory
	if app.redis != nil {
		limiters = httpx.RedisLimiters(app.redis)
	}

	router := httpapi.NewRouter(BuildVersion, app.db, app.metrics, limiters, app.logger)
	router.AuthService = &service.AuthService{
		Store:     app.db,
		Tokens:    tokens,
		Mailer:    mailer,
		Signer:    signer,
		Verifier:  verifier,
		Issuer:    app.cfg.JWTIssuer,
		AccessTTL: app.cfg.JWTAccessTTL,
	}
	router.SettingsService = &service.SettingsService{Store: app.db, Tokens: tokens, Mailer: mailer}
	router.BootstrapService = &service.BootstrapService{Store: app.db, Token: app.cfg.BootstrapToken}
	router.RolesService = &service.RolesService{Store: app.db}
	router.OrganizationService = &service.OrganizationService{Store: app.db, Mailer: mailer}
	router.CourseService = &service.CourseService{Store: app.db}
	router.InvitationService = &service.InvitationService{
		Store:           app.db,
		Mailer:          mailer,
		Metrics:         app.metrics,
		Archiver:        app.archiver,
		Secret:          app.cfg.InviteTokenSecret,
		TokenAtCreation: app.cfg.InviteTokenAtCreation,
	}
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// Handler exposes the routed handler with its middleware chain.
func (app *Application) Handler() http.Handler {
	return app.router
}

// StartBackground launches the housekeeping loop without serving HTTP.
func (app *Application) StartBackground() {
	app.housekeepingService.Start()
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("learnova starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down learnova...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("learnova stopped")
	return nil
}
