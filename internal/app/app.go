// Package app wires configuration, storage and services into the two ways
// the page builder runs: an HTTP server with live preview, and a stdio MCP
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	mcpserver "pagebuilder/internal/mcp"
	"pagebuilder/internal/mock"
	"pagebuilder/internal/page"
	"pagebuilder/internal/schedule"
	"pagebuilder/internal/server"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// Options selects the optional parts of the wiring.
type Options struct {
	// Preview mounts data-bound components and pushes their data to
	// websocket clients. Off for the MCP server, which has no listeners.
	Preview bool
	Version string
}

// App owns every long-lived resource of a running page builder.
type App struct {
	cfg  *config.Config
	opts Options
	log  *zap.Logger

	store   domain.SlotStore
	sched   *schedule.Cron
	synth   *mock.Synthesizer
	hub     *server.Hub
	pages   *service.PageService
	preview *service.PreviewService
	watcher *service.PageWatcher
}

// New opens the slot store and builds the services. Refresh and fetch
// work started by page changes runs under ctx.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := storage.Open(ctx, StorageParams(cfg.Storage), log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &App{
		cfg:   cfg,
		opts:  opts,
		log:   log,
		store: store,
		sched: schedule.NewCron(),
		synth: mock.NewSynthesizer(mock.Options{
			RowsMin: cfg.Mock.TableRowsMin,
			RowsMax: cfg.Mock.TableRowsMax,
		}),
	}

	emitters := service.FanOut{service.LogEmitter{Log: log}}
	if opts.Preview {
		a.hub = server.NewHub(log)
		a.preview = service.NewPreviewService(a.synth, a.sched, a.hub, log, mock.FetcherConfig{
			LatencyMin: cfg.Mock.LatencyMin,
			LatencyMax: cfg.Mock.LatencyMax,
		})
		emitters = append(emitters, a.hub, a.preview.Follow(ctx))
	}

	a.pages = service.NewPageService(page.NewSession(), store, emitters, log, service.PageOptions{
		SlotKey: cfg.Storage.SlotKey,
		Title:   cfg.Page.Title,
		Version: cfg.Page.Version,
	})

	if cfg.Storage.Watch {
		files, ok := store.(*storage.FileSlots)
		if !ok {
			store.Close()
			return nil, config.ErrWatchNeedsFileDriver
		}
		a.watcher = service.NewPageWatcher(a.pages, files, watchDebounce, log)
	}
	return a, nil
}

// StorageParams maps the storage section of the configuration onto
// connection parameters.
func StorageParams(c config.StorageConfig) storage.Params {
	return storage.Params{
		Driver:   storage.Driver(c.Driver),
		Path:     c.Path,
		URI:      c.URI,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
	}
}

// Pages returns the page service.
func (a *App) Pages() *service.PageService { return a.pages }

// Restore loads the saved page, if any. A storage failure is logged and
// the app starts with an empty page.
func (a *App) Restore(ctx context.Context) {
	cfg, err := a.pages.Load(ctx)
	if err != nil {
		a.log.Warn("restore page failed, starting empty", zap.Error(err))
		return
	}
	if cfg != nil {
		a.log.Info("page restored", zap.Int("components", len(cfg.Components)))
	}
}

// Serve runs the HTTP API and, when configured, the slot file watcher
// until ctx is cancelled, then shuts both down.
func (a *App) Serve(ctx context.Context) error {
	if !a.opts.Preview {
		return errors.New("serve: app built without preview")
	}
	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: server.New(server.Deps{Pages: a.pages, Preview: a.preview, Hub: a.hub, Log: a.log}).Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			return a.watcher.Close()
		})
	}

	g.Go(func() error {
		a.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ServeMCP runs the MCP server on stdin/stdout until the client goes away.
func (a *App) ServeMCP() error {
	return mcpserver.New(mcpserver.Deps{
		Pages:   a.pages,
		Synth:   a.synth,
		Log:     a.log,
		Version: a.opts.Version,
	}).ServeStdio()
}

// Close stops refresh timers and closes the store.
func (a *App) Close() error {
	if a.preview != nil {
		a.preview.StopAll()
	}
	a.sched.Close()
	a.pages.Wait(context.Background())
	return a.store.Close()
}
