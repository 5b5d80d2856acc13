package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/metrics"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/store"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log      *logrus.Logger
	cfg      *config.Config
	router   chi.Router
	db       *pgxpool.Pool
	store    *store.Store
	tokens   *config.Tokens
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func New(log *logrus.Logger, cfg *config.Config) (*App, error) {
	tokens, err := config.NewTokens(cfg.JWT)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &App{
		log:      log,
		cfg:      cfg,
		store:    store.New(),
		tokens:   tokens,
		registry: registry,
		metrics:  metrics.New(registry),
	}, nil
}

// Handler builds a fresh router. It is split from Start so tests can drive
// the routes without a listener.
func (a *App) Handler() http.Handler {
	a.router = chi.NewRouter()
	a.loadRoutes()
	return a.router
}

func (a *App) journal() *repository.Queries {
	if a.db == nil {
		return nil
	}
	return repository.New(a.db)
}

func (a *App) connectDB(ctx context.Context) error {
	if !a.cfg.Database.Configured() {
		a.log.Warn("database not configured, outcomes will not be recorded")
		return nil
	}
	db, migrator, err := database.ConnectAndMigrate(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		a.log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database migrated")
	}
	if srcErr, dbErr := migrator.Close(); srcErr != nil || dbErr != nil {
		a.log.WithError(errors.Join(srcErr, dbErr)).Warn("unable to close migrator")
	}
	a.db = db
	return nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.connectDB(ctx); err != nil {
		return err
	}
	if a.db != nil {
		defer a.db.Close()
	}

	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.cfg.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		a.sweepSessions(gCtx)
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// sweepSessions evicts idle and finished sessions until ctx is done.
func (a *App) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Sessions.SweepInterval.Duration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.sweepOnce(now)
		}
	}
}

func (a *App) sweepOnce(now time.Time) int {
	n := a.store.Sweep(
		now.UTC(),
		a.cfg.Sessions.IdleTTL.Duration,
		a.cfg.Sessions.FinishedTTL.Duration,
	)
	if n > 0 {
		a.metrics.ActiveSessions.Set(float64(a.store.Len()))
		a.log.WithField("evicted", n).Debug("swept sessions")
	}
	return n
}
