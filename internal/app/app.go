// Package app wires configuration, stores, the sharing service and the HTTP
// server together and runs them until a signal or context cancellation.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/lanshare/internal/blobstore"
	"github.com/dmitrijs2005/lanshare/internal/buildinfo"
	"github.com/dmitrijs2005/lanshare/internal/config"
	"github.com/dmitrijs2005/lanshare/internal/logging"
	"github.com/dmitrijs2005/lanshare/internal/metrics"
	"github.com/dmitrijs2005/lanshare/internal/netx"
	"github.com/dmitrijs2005/lanshare/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lanshare/internal/services"
	"github.com/dmitrijs2005/lanshare/internal/web"
)

const (
	fileCacheSize = 256
	fileCacheTTL  = 5 * time.Minute
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	server   *web.Server
	shareURL string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, rm, err := repomanager.Open(ctx, c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := blobstore.FromConfig(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc := services.NewSharingService(db, rm, blobs, c, logger, m,
		services.WithFileCache(services.NewFileCache(fileCacheSize, fileCacheTTL, m)))

	shareURL := netx.ShareURL(c.ListenAddr)

	h, err := web.NewHandler(svc, logger, shareURL, c.RequestLimit())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("templates init error: %w", err)
	}

	server := web.NewServer(c, logger, web.NewRouter(h, logger, m, reg))

	return &App{config: c, logger: logger, db: db, server: server, shareURL: shareURL}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received, shutting down", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run blocks until ctx is cancelled, a termination signal arrives or the
// server fails. The database handle is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", buildinfo.Version(),
		"store_path", app.config.StorePath, "blob_backend", app.config.BlobBackend)
	if app.shareURL != "" {
		app.logger.Info(ctx, "Open this address from other devices on the LAN", "url", app.shareURL)
	}

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "close database", "error", err)
	}
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")

	return runErr
}
