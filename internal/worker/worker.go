package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cesargomez89/reelbox/internal/config"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/metrics"
)

const optimizeEvery = 24 * time.Hour

// Maintainer is the store side of housekeeping.
type Maintainer interface {
	CleanupOld(days int) int64
	Optimize() bool
}

// Sweeper drops expired cache entries.
type Sweeper interface {
	CleanupExpired() int
}

// Worker runs housekeeping in the background: an initial cleanup of old
// resume points, then periodic cache sweeps and a daily store optimize.
type Worker struct {
	Store  Maintainer
	Cache  Sweeper
	Config *config.Config
	Logger *logger.Logger

	// Interval overrides Config.CacheSweepInterval.
	Interval time.Duration
	Now      func() time.Time

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	lastOptimize time.Time
}

func NewWorker(st Maintainer, c Sweeper, cfg *config.Config, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		Store:    st,
		Cache:    c,
		Config:   cfg,
		Logger:   log.WithComponent("worker"),
		Interval: cfg.CacheSweepInterval,
		Now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *Worker) Start() {
	w.Logger.Info("Starting worker")

	if w.Store != nil {
		if n := w.Store.CleanupOld(w.Config.AutoCleanupDays); n > 0 {
			w.Logger.Info("Removed old resume points", "count", n, "days", w.Config.AutoCleanupDays)
		}
	}
	w.lastOptimize = w.Now()

	w.wg.Add(1)
	go w.loop()
}

func (w *Worker) Stop() {
	w.Logger.Info("Stopping worker")
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()

	interval := w.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Worker) tick() {
	if w.Cache != nil {
		if n := w.Cache.CleanupExpired(); n > 0 {
			w.Logger.Debug("Swept expired cache entries", "count", n)
		}
	}

	now := w.Now()
	if w.Store != nil && now.Sub(w.lastOptimize) >= optimizeEvery {
		if w.Store.Optimize() {
			w.Logger.Info("Optimized store")
		} else {
			metrics.StoreErrors.WithLabelValues("maintenance").Inc()
		}
		w.lastOptimize = now
	}
}
