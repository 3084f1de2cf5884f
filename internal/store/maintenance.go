package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/cesargomez89/reelbox/internal/storage"
)

// Optimize refreshes query planner statistics.
func (db *DB) Optimize() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("ANALYZE"); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if _, err := db.Exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	return nil
}

func (db *DB) Vacuum() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Size is the on-disk size of the main database file, 0 if unknown.
func (db *DB) Size() int64 {
	info, err := os.Stat(db.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Backup checkpoints the WAL and writes a copy of the database to dst.
// dst is replaced atomically; a failed backup leaves any old copy intact.
func (db *DB) Backup(dst string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	src, err := os.Open(db.path)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer src.Close() //nolint:errcheck // read-only

	if err := storage.EnsureDir(filepath.Dir(dst)); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	pendingFile, err := renameio.NewPendingFile(dst)
	if err != nil {
		return fmt.Errorf("create pending backup file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			db.log.Debug("cleanup pending backup file", "error", err)
		}
	}()

	if _, err := io.Copy(pendingFile, src); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace backup: %w", err)
	}

	db.log.Info("database backed up", "dst", dst)
	return nil
}
