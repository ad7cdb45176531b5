package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/db"
	"github.com/yungbote/inspect-backend/internal/http"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  *Clients
	Metrics  *observability.Metrics

	server    *http.Server
	closers   []func() error
	closeOnce sync.Once
	closeErr  error
}

// New opens the database, migrates it and wires the HTTP stack. The caller
// owns the returned App and must Close it.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbService, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	a, err := NewWithDB(ctx, cfg, log, dbService.DB())
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}
	a.closers = append(a.closers, dbService.Close)
	return a, nil
}

// NewWithDB wires the app over an already migrated database. The database
// is not closed by Close.
func NewWithDB(ctx context.Context, cfg Config, log *logger.Logger, theDB *gorm.DB) (*App, error) {
	metrics := observability.Init(log, cfg.Metrics)
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := http.NewServer(wireRouterConfig(log, cfg, metrics, handlerset, middleware))

	a := &App{
		Log:      log,
		DB:       theDB,
		Router:   server.Engine,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Clients:  clients,
		Metrics:  metrics,
		server:   server,
	}
	a.closers = append(a.closers,
		clients.Close,
		func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return otelShutdown(shutdownCtx)
		},
	)
	return a, nil
}

// Run serves HTTP until ctx is cancelled. Metrics collectors share the
// same lifetime.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return errors.New("app not initialised")
	}
	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if p, ok := a.Clients.Cache.(observability.Pinger); ok {
			a.Metrics.StartRedisCollector(ctx, a.Log, p)
		}
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Address())
	return a.server.Run(ctx, a.Cfg.Address(), 10*time.Second)
}

// Close releases everything New acquired, in reverse order. Later calls
// return the first result.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.closeOnce.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil && a.closeErr == nil {
				a.closeErr = err
			}
		}
		if a.Log != nil {
			a.Log.Sync()
		}
	})
	return a.closeErr
}
