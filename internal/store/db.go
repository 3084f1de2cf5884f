// Package store is the durable single-file store for resume points,
// favorites, playlists, history, statistics, metadata, profiles and settings.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/logger"
)

// Options controls where and how the store is opened.
type Options struct {
	// Candidates are tried in order; the first writable directory wins.
	Candidates []string
	// Fallback is used when no candidate is writable.
	Fallback string
	// MaxRecent caps recent files per profile. Zero means the default.
	MaxRecent int
	Logger    *logger.Logger
	// Now is the clock used for every timestamp the store writes.
	Now func() time.Time
}

// DB is the persistent store. Every exported method takes mu for the full
// statement sequence; unexported helpers expect it to be held already.
type DB struct {
	*sqlx.DB

	mu        sync.Mutex
	path      string
	log       *logger.Logger
	now       func() time.Time
	maxRecent int
}

// Open resolves the store location from opts and opens it.
func Open(opts Options) (*DB, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("store")

	path := ResolvePath(opts.Candidates, opts.Fallback)
	if !contains(opts.Candidates, path) && len(opts.Candidates) > 0 {
		log.Warn("no writable database location, using fallback", "path", path)
	}

	opts.Logger = log
	return NewSQLiteDB(path, opts)
}

// ResolvePath returns the first candidate whose directory can be created
// and written to, or fallback.
func ResolvePath(candidates []string, fallback string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if writable(filepath.Dir(c)) {
			return c
		}
	}
	if fallback == "" {
		fallback = constants.DefaultDBFallback
	}
	return fallback
}

func writable(dir string) bool {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	_ = f.Close()
	return os.Remove(probe) == nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// NewSQLiteDB opens the database file at dsn, applies pragmas and the
// schema, and makes sure the default profile exists.
func NewSQLiteDB(dsn string, opts Options) (*DB, error) {
	if dir := filepath.Dir(dsn); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One connection: pragmas are per-connection and the mutex already
	// serializes every operation.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", constants.BusyTimeoutMillis),
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA cache_size=10000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default().WithComponent("store")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	maxRecent := opts.MaxRecent
	if maxRecent <= 0 {
		maxRecent = constants.MaxRecentFiles
	}

	s := &DB{DB: db, path: dsn, log: log, now: now, maxRecent: maxRecent}

	ts := s.stamp()
	if _, err := db.Exec(`INSERT OR IGNORE INTO profiles (profile_name, display_name, created, last_active)
		VALUES (?, ?, ?, ?)`, constants.DefaultProfile, constants.DefaultProfileName, ts, ts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create default profile: %w", err)
	}

	log.Info("database opened", "path", dsn)
	return s, nil
}

// stamp is the current time as fractional unix seconds.
func (db *DB) stamp() float64 {
	return float64(db.now().UnixNano()) / 1e9
}

// Path is the database file in use.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.DB.Close()
}

func profileOr(profile string) string {
	if profile == "" {
		return constants.DefaultProfile
	}
	return profile
}

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
