// Package app is the boundary the bridge and CLI talk to. Storage faults
// stop here: they are logged, counted, and turned into neutral values.
package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cesargomez89/reelbox/internal/cache"
	"github.com/cesargomez89/reelbox/internal/config"
	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/metrics"
	"github.com/cesargomez89/reelbox/internal/probe"
	"github.com/cesargomez89/reelbox/internal/progress"
	"github.com/cesargomez89/reelbox/internal/scanner"
	"github.com/cesargomez89/reelbox/internal/store"
	"github.com/cesargomez89/reelbox/internal/thumbs"
)

type Options struct {
	Config *config.Config
	Store  *store.DB
	Cache  *cache.Cache
	Thumbs *thumbs.Manager
	Probe  *probe.Prober
	Logger *logger.Logger
	Now    func() time.Time
}

type Library struct {
	cfg    *config.Config
	db     *store.DB
	cache  *cache.Cache
	thumbs *thumbs.Manager
	probe  *probe.Prober
	log    *logger.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	profile  string
	sessions map[string]*session
}

func NewLibrary(opts Options) *Library {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.New(opts.Config.CacheTTL)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	profile := opts.Config.CurrentProfile
	if profile == "" {
		profile = constants.DefaultProfile
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Library{
		cfg:      opts.Config,
		db:       opts.Store,
		cache:    opts.Cache,
		thumbs:   opts.Thumbs,
		probe:    opts.Probe,
		log:      log.WithComponent("library"),
		now:      opts.Now,
		ctx:      ctx,
		cancel:   cancel,
		profile:  profile,
		sessions: make(map[string]*session),
	}
}

// Close finishes every open playback session, saving positions.
func (l *Library) Close() {
	l.mu.Lock()
	open := make([]*session, 0, len(l.sessions))
	for id, s := range l.sessions {
		open = append(open, s)
		delete(l.sessions, id)
	}
	l.mu.Unlock()

	for _, s := range open {
		l.finish(s, false)
	}
	l.cancel()
}

func (l *Library) Config() *config.Config { return l.cfg }
func (l *Library) Cache() *cache.Cache     { return l.cache }

// Profile is the active profile name.
func (l *Library) Profile() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profile
}

func (l *Library) fault(family, op string, err error) {
	metrics.StoreErrors.WithLabelValues(family).Inc()
	l.log.Warn("store operation failed", "family", family, "op", op, "error", err)
}

// Entry is a browser row with display helpers filled in.
type Entry struct {
	domain.Row
	SizeText string `json:"size_text,omitempty"`
	Progress string `json:"progress,omitempty"`
}

type Listing struct {
	Dir     string  `json:"dir"`
	Sort    string  `json:"sort"`
	Entries []Entry `json:"entries"`
	Cached  bool    `json:"cached"`
	Partial bool    `json:"partial"`
	Error   string  `json:"error,omitempty"`
}

// Browse lists dir for the active profile. An empty dir reopens the last
// directory browsed, then the configured start directory; an empty sort
// key uses the saved one. Listing failures come back as an empty listing
// with Error set.
func (l *Library) Browse(ctx context.Context, dir, query, sortKey string) Listing {
	profile := l.Profile()
	if dir == "" {
		dir = l.setting(profile, store.SettingLastDir, l.cfg.StartDir)
	}
	dir = filepath.Clean(dir)
	if sortKey == "" {
		sortKey = l.setting(profile, store.SettingSortKey, l.cfg.SortKey)
	}

	sc := scanner.New(scanner.Config{
		Dir:        dir,
		Store:      l.scanStore(),
		Extensions: l.cfg.MediaExtensions,
		Filter:     query,
		Cache:      l.cache,
		Profile:    profile,
		Logger:     l.log,
	})
	res := sc.Scan(ctx)

	rows := domain.CloneRows(res.Rows)
	scanner.Sort(rows, sortKey)
	rows = scanner.WithParent(rows, dir)

	out := Listing{
		Dir:     dir,
		Sort:    sortKey,
		Entries: make([]Entry, 0, len(rows)),
		Cached:  res.Cached,
		Partial: res.Partial,
	}
	for _, r := range rows {
		out.Entries = append(out.Entries, l.entry(r))
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
		return out
	}

	if l.db != nil {
		if err := l.db.SetSetting(profile, store.SettingLastDir, dir); err != nil {
			l.fault("settings", "save last dir", err)
		}
	}
	return out
}

// scanStore keeps a nil *store.DB from turning into a non-nil interface.
func (l *Library) scanStore() scanner.Store {
	if l.db == nil {
		return nil
	}
	return l.db
}

func (l *Library) entry(r domain.Row) Entry {
	e := Entry{Row: r}
	if r.Kind != domain.KindFile {
		return e
	}
	e.SizeText = humanize.IBytes(uint64(r.Size))
	if r.ResumeSeconds > 0 {
		if est := progress.EstimateDuration(r.Size); est > 0 {
			pct := progress.Percent(time.Duration(r.ResumeSeconds)*time.Second, est)
			e.Progress = progress.Mini(pct)
		}
	}
	return e
}

func (l *Library) setting(profile, key, def string) string {
	if l.db == nil {
		return def
	}
	v, err := l.db.GetSetting(profile, key)
	if err != nil {
		l.fault("settings", "get "+key, err)
		return def
	}
	if v == "" {
		return def
	}
	return v
}

// SetSortKey remembers the sort order for the active profile.
func (l *Library) SetSortKey(key string) bool {
	if l.db == nil {
		return false
	}
	if err := l.db.SetSetting(l.Profile(), store.SettingSortKey, key); err != nil {
		l.fault("settings", "save sort key", err)
		return false
	}
	return true
}

// invalidate drops the cached listing holding path so annotations refresh.
func (l *Library) invalidate(path string) {
	l.cache.InvalidateDir(filepath.Dir(path))
}

// Thumbnail returns a cached or freshly generated thumbnail for video.
func (l *Library) Thumbnail(ctx context.Context, video string) (string, bool) {
	if l.thumbs == nil {
		return "", false
	}
	p, err := l.thumbs.Generate(ctx, video, constants.ThumbTimestamp)
	if err != nil {
		l.log.Debug("no thumbnail", "path", video, "error", err)
		return "", false
	}
	return p, true
}

// ThumbnailStats reports the thumbnail cache footprint.
func (l *Library) ThumbnailStats() (count int, size string) {
	if l.thumbs == nil {
		return 0, humanize.IBytes(0)
	}
	return l.thumbs.CacheCount(), humanize.IBytes(uint64(l.thumbs.CacheSize()))
}

// ClearThumbnails empties the thumbnail cache.
func (l *Library) ClearThumbnails() int {
	if l.thumbs == nil {
		return 0
	}
	n, err := l.thumbs.Clear()
	if err != nil {
		l.log.Warn("failed to clear thumbnails", "error", err)
	}
	return n
}

// CacheStats adds the store size to the cache counters.
type CacheStats struct {
	cache.Stats
	StoreSize string `json:"store_size"`
}

func (l *Library) CacheStats() CacheStats {
	out := CacheStats{Stats: l.cache.Stats(), StoreSize: humanize.IBytes(0)}
	if l.db != nil {
		out.StoreSize = humanize.IBytes(uint64(l.db.Size()))
	}
	return out
}

func (l *Library) ClearCache() {
	l.cache.Clear()
}

// fileStat returns size and mtime the way resume points record them.
func fileStat(path string) (int64, float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	return info.Size(), float64(info.ModTime().UnixNano()) / 1e9, nil
}
