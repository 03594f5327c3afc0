package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"librarian/internal/bookmarks"
	"librarian/internal/http"
	"librarian/internal/indexer"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API searches the text of pages saved as browser bookmarks.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Librarian API
//   description: |
//     Hybrid search over the content of bookmarked pages, plus endpoints to
//     trigger and follow corpus syncs.
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

//go:embed web/index.html
var indexHTML string

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search API and keep the index in sync",
	Long: `Starts the HTTP API, syncs the bookmark file into the search index on
startup, then again every SYNC_INTERVAL and whenever the bookmark file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	router := http.NewRouter(&http.Deps{
		Searcher:     a.searcher,
		Syncer:       a.pipeline,
		RunState:     a.state,
		HealthChecks: a.healthChecks(),
		IndexHTML:    indexHTML,
	})
	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := indexer.NewScheduler(a.pipeline, cfg.SyncInterval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.InfoContext(gctx, "Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if cfg.WatchBookmarks {
		watcher := bookmarks.NewWatcher(cfg.BookmarksPath, bookmarks.DefaultDebounce, func(context.Context) {
			scheduler.Trigger()
		})
		g.Go(func() error {
			// A missing bookmarks directory disables watching, not the server.
			if err := watcher.Run(gctx); err != nil {
				slog.WarnContext(gctx, "bookmarks watcher stopped", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}
