package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/cesargomez89/reelbox/internal/app"
	"github.com/cesargomez89/reelbox/internal/cache"
	httpapp "github.com/cesargomez89/reelbox/internal/http"
	"github.com/cesargomez89/reelbox/internal/probe"
	"github.com/cesargomez89/reelbox/internal/thumbs"
	"github.com/cesargomez89/reelbox/internal/worker"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON bridge for the host UI",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()
	cfg, log := e.cfg, e.log

	c := cache.New(cfg.CacheTTL)
	if cfg.WatchDirectories {
		w, err := cache.Watch(c, log)
		if err != nil {
			log.Warn("Directory watching unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	lib := app.NewLibrary(app.Options{
		Config: cfg,
		Store:  e.db,
		Cache:  c,
		Thumbs: thumbs.New(thumbs.Config{
			CacheDir:   cfg.ThumbCacheDir,
			Width:      cfg.ThumbWidth,
			Height:     cfg.ThumbHeight,
			Timeout:    cfg.ThumbTimeout,
			FFmpegPath: cfg.FFmpegPath,
		}, log),
		Probe:  probe.New(probe.Config{FFprobePath: cfg.FFprobePath}, log),
		Logger: log,
	})
	defer lib.Close()

	wk := worker.NewWorker(lib, c, cfg, log)
	wk.Start()
	defer wk.Stop()

	h := httpapp.NewHandler(lib, log)
	r := httpapp.NewRouter(h, middleware.Logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr, "store", e.db.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("Server exiting")
	return nil
}
