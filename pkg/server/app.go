package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "OddsCast/internal/domain/repository"
	"OddsCast/internal/usecase"
	"OddsCast/pkg/config"
	xhttp "OddsCast/pkg/http"
	applogger "OddsCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	log        drepo.SnapshotLog
	collector  *usecase.Collector
	handler    xhttp.Handler
	pub        drepo.Publisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	log drepo.SnapshotLog,
	collector *usecase.Collector,
	handler xhttp.Handler,
	pub drepo.Publisher,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		log:       log,
		collector: collector,
		handler:   handler,
		pub:       pub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-time storage maintenance before serving anything. Neither
	// operation ever blocks startup on bad data.
	if err := a.log.MigrateLegacy(); err != nil {
		a.l.Error("legacy migration failed", applogger.Error(err))
		return err
	}
	if cutoff, ok := a.cfg.PurgeCutoff(); ok {
		if err := a.log.PurgeBefore(cutoff); err != nil {
			a.l.Error("purge failed", applogger.Error(err))
			return err
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.l),
	)

	if a.cfg.Ingest.Enabled {
		a.collector.Start(ctx)
		a.l.Info("collector started",
			applogger.Duration("interval", a.cfg.Ingest.Interval),
			applogger.Bool("leader_lock", a.cfg.Redis.Enabled),
		)
	} else {
		a.l.Info("ingestion disabled, serving reads only")
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	if a.cfg.Ingest.Enabled {
		a.collector.Stop()
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}

	sctx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(sctx); err != nil {
		a.l.Error("http server stop error", applogger.Error(err))
		return err
	}

	a.l.Info("shutdown complete")
	return nil
}
