// Package scanner turns one directory into browser rows, mixing what is on
// disk with saved resume positions and favorites.
package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cesargomez89/reelbox/internal/cache"
	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/metrics"
	"github.com/cesargomez89/reelbox/internal/storage"
)

// Store is the part of the persistent store a scan reads.
type Store interface {
	GetResume(path string, size int64, mtime float64) (*domain.ResumePoint, error)
	IsFavorite(path, profile string) (bool, error)
}

type Config struct {
	Dir        string
	Store      Store // optional
	Extensions []string
	// Filter is a case-insensitive substring matched against entry names.
	// Any non-empty filter bypasses the cache.
	Filter  string
	Cache   *cache.Cache // optional
	Profile string
	Logger  *logger.Logger
}

// Result is what a scan produced. Err holds a listing failure; per-entry
// failures are skipped silently.
type Result struct {
	Dir     string       `json:"dir"`
	Rows    []domain.Row `json:"rows"`
	Cached  bool         `json:"cached"`
	Partial bool         `json:"partial"`
	Err     error        `json:"-"`
}

type Scanner struct {
	cfg     Config
	exts    map[string]bool
	filter  string
	log     *logger.Logger
	stopped atomic.Bool
}

func New(cfg Config) *Scanner {
	if cfg.Extensions == nil {
		cfg.Extensions = constants.MediaExtensions
	}
	if cfg.Profile == "" {
		cfg.Profile = constants.DefaultProfile
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts[strings.ToLower(e)] = true
	}

	return &Scanner{
		cfg:    cfg,
		exts:   exts,
		filter: strings.ToLower(strings.TrimSpace(cfg.Filter)),
		log:    log.WithComponent("scanner"),
	}
}

// Stop asks a running scan to finish after the current entry. The request
// is cleared when that scan returns, so the Scanner can be reused.
func (s *Scanner) Stop() {
	s.stopped.Store(true)
}

func (s *Scanner) cancelled(ctx context.Context) bool {
	return s.stopped.Load() || ctx.Err() != nil
}

// IsMedia reports whether name has one of the configured extensions.
func (s *Scanner) IsMedia(name string) bool {
	return s.exts[strings.ToLower(filepath.Ext(name))]
}

// Scan runs synchronously.
func (s *Scanner) Scan(ctx context.Context) Result {
	defer s.stopped.Store(false)

	dir := s.cfg.Dir
	res := Result{Dir: dir}
	useCache := s.cfg.Cache != nil && s.filter == ""

	if useCache {
		if rows, ok := s.cfg.Cache.GetDir(dir); ok {
			metrics.Scans.WithLabelValues("cached").Inc()
			res.Rows = rows
			res.Cached = true
			return res
		}
	}

	start := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warn("cannot list directory", "dir", dir, "error", err)
		metrics.Scans.WithLabelValues("error").Inc()
		res.Err = err
		res.Rows = []domain.Row{}
		return res
	}

	rows := make([]domain.Row, 0, len(entries))
	for _, entry := range entries {
		if s.cancelled(ctx) {
			res.Partial = true
			break
		}

		name := entry.Name()
		if storage.IsHiddenFile(name) {
			continue
		}
		if s.filter != "" && !strings.Contains(strings.ToLower(name), s.filter) {
			continue
		}

		row, ok := s.classify(dir, name)
		if ok {
			rows = append(rows, row)
		}
	}
	res.Rows = rows

	if res.Partial {
		metrics.Scans.WithLabelValues("stopped").Inc()
		s.log.Debug("scan stopped early", "dir", dir, "rows", len(rows))
		return res
	}

	metrics.Scans.WithLabelValues("complete").Inc()
	if useCache {
		s.cfg.Cache.SetDir(dir, rows)
	}
	return res
}

// classify stats one entry and builds its row. Symlinks are followed.
func (s *Scanner) classify(dir, name string) (domain.Row, bool) {
	full := filepath.Join(dir, name)
	info, err := os.Stat(full)
	if err != nil {
		return domain.Row{}, false
	}

	switch {
	case info.IsDir():
		return domain.Row{
			Label:   name,
			Name:    name,
			Path:    full,
			Kind:    domain.KindDir,
			ModTime: info.ModTime(),
		}, true

	case info.Mode().IsRegular() && s.IsMedia(name):
		row := domain.Row{
			Label:   name,
			Name:    name,
			Path:    full,
			Kind:    domain.KindFile,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		s.annotate(&row)
		return row, true
	}
	return domain.Row{}, false
}

func (s *Scanner) annotate(row *domain.Row) {
	if s.cfg.Store == nil {
		return
	}

	mtime := float64(row.ModTime.UnixNano()) / 1e9
	rp, err := s.cfg.Store.GetResume(row.Path, row.Size, mtime)
	switch {
	case err == nil:
		row.ResumeSeconds = rp.Position
	case errors.Is(err, domain.ErrStale):
		s.log.Debug("resume point discarded, file changed", "path", row.Path)
	case domain.IsTransient(err):
		s.log.Warn("resume lookup failed", "path", row.Path, "error", err)
	}

	fav, err := s.cfg.Store.IsFavorite(row.Path, s.cfg.Profile)
	if err != nil {
		s.log.Warn("favorite lookup failed", "path", row.Path, "error", err)
		return
	}
	if fav {
		row.Favorite = true
		row.Label = constants.FavoriteMarker + row.Name
	}
}
