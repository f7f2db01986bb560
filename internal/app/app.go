// Package app wires configuration, storage and pipeline services into the HTTP router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"demo-generator/internal/api"
	appaws "demo-generator/internal/common/aws"
	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/config"
	"demo-generator/internal/common/database"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/observability"
	"demo-generator/internal/common/ratelimit"
	emailsend "demo-generator/internal/workers/communication/email-send"
	leadalert "demo-generator/internal/workers/communication/lead-alert"
	generateposts "demo-generator/internal/workers/content/generate-posts"
	demolog "demo-generator/internal/workers/data-access/demo-log"
	generatedemo "demo-generator/internal/workers/demo/generate-demo"
	industryinsight "demo-generator/internal/workers/insight/industry-insight"
	renderdocument "demo-generator/internal/workers/render/render-document"
	rendergraphics "demo-generator/internal/workers/render/render-graphics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const statusProbeTimeout = time.Second

// Options tunes wiring for callers that run the server in-process.
type Options struct {
	// ConnectRetries bounds the attempts made against Postgres and Redis.
	ConnectRetries int
	RetryDelay     time.Duration
	// NewPool overrides the headless browser pool.
	NewPool generatedemo.PoolFactory
}

func (o Options) withDefaults() Options {
	if o.ConnectRetries <= 0 {
		o.ConnectRetries = 5
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	return o
}

// App owns every long-lived client the server needs.
type App struct {
	Config *config.Config
	Router *gin.Engine

	Content  *generateposts.Service
	Insights *industryinsight.Service
	Email    *emailsend.Service
	Leads    *leadalert.Service
	Demo     *generatedemo.Service

	pg    *database.PostgresClient
	redis *database.RedisClient

	zapLog *zap.Logger
	log    logger.Logger
}

// New connects optional storage and builds the pipeline. Storage and provider failures
// degrade the server rather than abort startup.
func New(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, obs *observability.Observability, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	opts = opts.withDefaults()
	log := logger.NewZapAdapter(zapLog)

	a := &App{Config: cfg, zapLog: zapLog, log: log}

	a.connectPostgres(ctx, opts)
	a.connectRedis(ctx, opts)

	// --- Content ---
	a.Content = generateposts.NewService(generateposts.ServiceDependencies{Logger: log}, generateposts.ConfigFrom(cfg))
	if !a.Content.Configured() {
		zapLog.Warn("OpenAI API key not configured, demo generation will fail until it is set")
	}

	// --- Insights ---
	insightCfg := industryinsight.ConfigFrom(cfg)
	var store industryinsight.Store
	if a.pg != nil {
		store = industryinsight.NewPostgresStore(a.pg.DB)
		if a.redis != nil {
			store = industryinsight.NewCachedStore(store, a.redis.Client, insightCfg, log)
		}
	}
	a.Insights = industryinsight.NewService(industryinsight.ServiceDependencies{Logger: log, Store: store}, insightCfg)

	// --- Email ---
	emailCfg := emailsend.ConfigFrom(cfg)
	sender, err := emailsend.NewSender(ctx, emailCfg)
	if err != nil {
		zapLog.Warn("Email sender unavailable", zap.Error(err))
	}
	a.Email = emailsend.NewService(emailsend.ServiceDependencies{Logger: log, Sender: sender}, emailCfg)

	// --- Lead alerts ---
	leadCfg := leadalert.ConfigFrom(cfg)
	var snsClient appaws.SNSAPI
	if leadCfg.Enabled {
		client, err := appaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS client unavailable, lead alerts disabled", zap.Error(err))
		} else {
			snsClient = client
		}
	}
	a.Leads = leadalert.NewService(leadalert.ServiceDependencies{Logger: log}, leadCfg, snsClient)

	// --- Pipeline ---
	newPool := opts.NewPool
	if newPool == nil {
		launcher := browser.RodLauncher{
			BrowserBin:  cfg.Renderer.BrowserBin,
			NoSandbox:   cfg.Renderer.NoSandbox,
			PageTimeout: config.GetDuration(cfg.Renderer.PageTimeout),
		}
		newPool = func() generatedemo.RenderPool {
			return browser.NewPool(launcher, log)
		}
	}
	a.Demo = generatedemo.NewService(generatedemo.ServiceDependencies{
		Logger:    log,
		Content:   a.Content,
		Insights:  a.Insights,
		Graphics:  rendergraphics.NewService(rendergraphics.ServiceDependencies{Logger: log}),
		Documents: renderdocument.NewService(renderdocument.ServiceDependencies{Logger: log}),
		Notifier:  a.Email,
		NewPool:   newPool,
	}, generatedemo.ConfigFrom(cfg))

	// --- HTTP ---
	deps := api.Dependencies{
		Logger:         log,
		Generator:      a.Demo,
		Status:         a.Status,
		Observability:  obs,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        cfg.App.Version,
	}
	if a.pg != nil {
		deps.DemoLog = demolog.NewRepository(a.pg.DB, log)
	}
	if a.Leads.Enabled() {
		deps.Leads = a.Leads
	}
	if !cfg.RateLimit.Disabled {
		deps.Limiter = ratelimit.New(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			ratelimit.WithIdleTTL(time.Duration(cfg.RateLimit.IdleTTL)*time.Second),
		)
	}
	a.Router = api.NewRouter(deps)

	return a, nil
}

// Status reports which dependencies can currently serve requests.
func (a *App) Status(ctx context.Context) api.ServiceStatus {
	status := api.ServiceStatus{
		TextGen: a.Content.Configured(),
		Email:   a.Email.Configured(),
	}
	if a.pg != nil && a.Insights.HasStore() {
		probeCtx, cancel := context.WithTimeout(ctx, statusProbeTimeout)
		defer cancel()
		status.Store = a.pg.Ping(probeCtx) == nil
	}
	return status
}

// Server returns an http.Server serving the router with configured timeouts.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  config.GetDuration(a.Config.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(a.Config.Server.WriteTimeout),
	}
}

// Close releases storage connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.zapLog.Error("Error closing PostgreSQL client", zap.Error(err))
		}
	}
}

func (a *App) connectPostgres(ctx context.Context, opts Options) {
	pgCfg := a.Config.Database.Postgres
	if !pgCfg.Configured() {
		a.zapLog.Info("PostgreSQL not configured, using built-in insights")
		return
	}

	var pg *database.PostgresClient
	err := RetryWithBackoff(ctx, func() error {
		client, err := database.NewPostgres(pgCfg)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return err
		}
		pg = client
		return nil
	}, opts.ConnectRetries, opts.RetryDelay, a.zapLog, "PostgreSQL connection")
	if err != nil {
		a.zapLog.Warn("PostgreSQL unavailable, using built-in insights", zap.Error(err))
		return
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		a.zapLog.Warn("Schema setup failed", zap.Error(err))
	}
	a.pg = pg
	a.zapLog.Info("PostgreSQL connected successfully")
}

func (a *App) connectRedis(ctx context.Context, opts Options) {
	if a.pg == nil || a.Config.Database.Redis.Address == "" {
		return
	}

	var rc *database.RedisClient
	err := RetryWithBackoff(ctx, func() error {
		client, err := database.NewRedis(a.Config.Database.Redis)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return err
		}
		rc = client
		return nil
	}, opts.ConnectRetries, opts.RetryDelay, a.zapLog, "Redis connection")
	if err != nil {
		a.zapLog.Warn("Redis unavailable, insight cache disabled", zap.Error(err))
		return
	}
	a.redis = rc
	a.zapLog.Info("Redis connected successfully")
}

// RetryWithBackoff runs operation up to maxRetries times, doubling the delay between attempts.
func RetryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
