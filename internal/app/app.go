package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/homiin/portal/internal/api"
	"github.com/homiin/portal/internal/api/handler"
	"github.com/homiin/portal/internal/api/metrics"
	"github.com/homiin/portal/internal/api/middleware"
	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
	"github.com/homiin/portal/internal/core/service"
	"github.com/homiin/portal/internal/infrastructure/db/boltdb"
	"github.com/homiin/portal/internal/infrastructure/db/memory"
	"github.com/homiin/portal/internal/infrastructure/db/mongo"
	"github.com/homiin/portal/internal/infrastructure/db/postgres"
	"github.com/homiin/portal/internal/infrastructure/db/redis"
	"github.com/homiin/portal/internal/infrastructure/idp"
	"github.com/homiin/portal/internal/infrastructure/queue"
	"github.com/homiin/portal/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	server     *echo.Echo
	dispatcher *queue.Dispatcher
	closers    []func() error
}

// New connects the configured backends and assembles the HTTP server.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	checks := make(map[string]handler.Pinger)

	var mongoDB *mongodriver.Database
	connectMongo := func() (*mongodriver.Database, error) {
		if mongoDB != nil {
			return mongoDB, nil
		}
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "homiin-portal",
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		mongoDB = db
		return db, nil
	}

	slot, err := a.sessionSlot(ctx, checks, connectMongo)
	if err != nil {
		a.close()
		return nil, err
	}

	var recorder ports.ActivityRecorder = service.NewLogRecorder(log)
	if cfg.Session.ActivitySink == config.SinkMongo {
		db, err := connectMongo()
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect activity sink: %w", err)
		}
		recorder = mongo.NewActivityRepository(db)
	}
	a.dispatcher = queue.NewDispatcher(cfg.Session.ActivityWorkers, service.NewActivityService(recorder, log), log)

	observe := func(ev domain.SessionEvent) {
		metrics.ObserveSessionEvent(ev)
		a.dispatcher.Enqueue(ev)
	}

	var external ports.ExternalIdentityVerifier
	if cfg.External.Enabled() {
		verifier, err := idp.NewVerifier(idp.Config{
			Secret:   cfg.External.Secret,
			Issuer:   cfg.External.Issuer,
			Audience: cfg.External.Audience,
			Leeway:   cfg.External.Leeway,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("external identity verifier: %w", err)
		}
		external = verifier
	} else {
		log.Warn().Msg("EXTERNAL_IDP_SECRET not set, /auth/external disabled")
	}

	registry := service.NewCredentialRegistry()
	devices := service.NewDevices(slot, cfg.Session.Key, log,
		service.WithDeviceCapacity(cfg.Session.DeviceCacheSize),
		service.WithDeviceIdle(cfg.Session.DeviceTTL),
	)
	portal := service.NewPortal(registry, devices, nil, observe, log)

	a.server = api.NewRouter(api.Deps{
		Auth:       portal,
		Navigation: portal,
		External:   external,
		Routes:     portal.Routes(),
		Identities: registry,
		Checks:     checks,
		Device: middleware.DeviceOptions{
			Secret:     cfg.JWTSecret,
			CookieName: cfg.Session.DeviceCookie,
			TTL:        cfg.Session.DeviceTTL,
			Secure:     cfg.Session.CookieSecure,
		},
		Log: log,
	})

	return a, nil
}

func (a *App) sessionSlot(ctx context.Context, checks map[string]handler.Pinger, connectMongo func() (*mongodriver.Database, error)) (ports.SessionSlot, error) {
	cfg := a.cfg
	switch cfg.Session.Backend {
	case config.BackendBolt:
		slot, err := boltdb.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, fmt.Errorf("open bolt session slot: %w", err)
		}
		a.closers = append(a.closers, slot.Close)
		return slot, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis session slot: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redis.NewSessionSlot(client), nil

	case config.BackendMongo:
		db, err := connectMongo()
		if err != nil {
			return nil, fmt.Errorf("connect mongo session slot: %w", err)
		}
		return mongo.NewSessionSlot(db), nil

	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres session slot: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		checks["postgres"] = db.PingContext
		slot, err := postgres.NewSessionSlot(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("create postgres session slot: %w", err)
		}
		return slot, nil

	case config.BackendMemory:
		a.log.Warn().Msg("memory session backend: sessions will not survive a restart")
		return memory.NewSessionSlot(), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and
// the activity queue before releasing the backends.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	// Workers outlive ctx so queued activity is flushed on shutdown.
	a.dispatcher.Start(context.Background())
	defer a.dispatcher.Close()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("addr", addr).Str("session_backend", a.cfg.Session.Backend).Msg("http server starting")
		errCh <- a.server.Start(addr)
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}

// Handler exposes the HTTP handler.
func (a *App) Handler() http.Handler { return a.server }

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("closing backend")
		}
	}
	a.closers = nil
}
