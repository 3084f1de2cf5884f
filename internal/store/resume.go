package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

// GetResume returns the saved position for path if size and mtime still
// match the file. A mismatching record is deleted and ErrStale returned.
func (db *DB) GetResume(path string, size int64, mtime float64) (*domain.ResumePoint, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var rp domain.ResumePoint
	err := db.Get(&rp, `SELECT file_path, position_seconds, file_size, mtime, last_updated
		FROM resume_points WHERE file_path = ?`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}

	if rp.Size != size || math.Abs(rp.ModTime-mtime) > constants.MtimeTolerance {
		if _, err := db.Exec("DELETE FROM resume_points WHERE file_path = ?", path); err != nil {
			return nil, fmt.Errorf("delete stale resume: %w", err)
		}
		db.log.Debug("discarded stale resume point", "path", path)
		return nil, domain.ErrStale
	}
	return &rp, nil
}

func (db *DB) SetResume(path string, position, size int64, mtime float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`
		INSERT INTO resume_points (file_path, position_seconds, file_size, mtime, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			position_seconds = excluded.position_seconds,
			file_size = excluded.file_size,
			mtime = excluded.mtime,
			last_updated = excluded.last_updated
	`, path, position, size, mtime, db.stamp())
	if err != nil {
		return fmt.Errorf("set resume: %w", err)
	}
	return nil
}

// DeleteResume reports whether a record existed.
func (db *DB) DeleteResume(path string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.Exec("DELETE FROM resume_points WHERE file_path = ?", path)
	if err != nil {
		return false, fmt.Errorf("delete resume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CleanupOldResume removes resume points not updated within days and
// returns how many were removed.
func (db *DB) CleanupOldResume(days int) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cutoff := db.stamp() - float64(days)*86400
	res, err := db.Exec("DELETE FROM resume_points WHERE last_updated < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup resume: %w", err)
	}
	return res.RowsAffected()
}

func (db *DB) ListResume() ([]domain.ResumePoint, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var points []domain.ResumePoint
	err := db.Select(&points, `SELECT file_path, position_seconds, file_size, mtime, last_updated
		FROM resume_points ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("list resume: %w", err)
	}
	return points, nil
}
