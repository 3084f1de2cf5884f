package store

import (
	"fmt"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

// AddRecent records path as just played and trims the profile's list to
// the newest entries. Upsert and trim share one lock but not a transaction.
func (db *DB) AddRecent(path, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	profile = profileOr(profile)
	_, err := db.Exec(`
		INSERT INTO recent_files (file_path, profile_name, played_date) VALUES (?, ?, ?)
		ON CONFLICT(file_path, profile_name) DO UPDATE SET played_date = excluded.played_date
	`, path, profile, db.stamp())
	if err != nil {
		return fmt.Errorf("add recent: %w", err)
	}

	_, err = db.Exec(`
		DELETE FROM recent_files WHERE profile_name = ? AND id IN (
			SELECT id FROM recent_files WHERE profile_name = ?
			ORDER BY played_date DESC, id DESC LIMIT -1 OFFSET ?
		)`, profile, profile, db.maxRecent)
	if err != nil {
		return fmt.Errorf("trim recent: %w", err)
	}
	return nil
}

// ListRecent returns recently played files newest first.
func (db *DB) ListRecent(profile string, limit int) ([]domain.RecentFile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var files []domain.RecentFile
	err := db.Select(&files, `SELECT file_path, profile_name, played_date FROM recent_files
		WHERE profile_name = ? ORDER BY played_date DESC, id DESC LIMIT ?`,
		profileOr(profile), limitOr(limit, constants.DefaultRecentLimit))
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return files, nil
}

func (db *DB) ClearRecent(profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("DELETE FROM recent_files WHERE profile_name = ?", profileOr(profile)); err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	return nil
}

// AddWatch appends a watch history entry; duration is in seconds.
func (db *DB) AddWatch(path string, duration int64, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`INSERT INTO watch_history (file_path, watched_date, duration_watched, profile_name)
		VALUES (?, ?, ?, ?)`, path, db.stamp(), duration, profileOr(profile))
	if err != nil {
		return fmt.Errorf("add watch: %w", err)
	}
	return nil
}

func (db *DB) WatchHistory(profile string, limit int) ([]domain.WatchEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var entries []domain.WatchEntry
	err := db.Select(&entries, `SELECT id, file_path, watched_date, duration_watched, profile_name
		FROM watch_history WHERE profile_name = ? ORDER BY watched_date DESC, id DESC LIMIT ?`,
		profileOr(profile), limitOr(limit, constants.DefaultHistoryLimit))
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	return entries, nil
}

// FileHistory returns every watch of path, newest first.
func (db *DB) FileHistory(path, profile string) ([]domain.WatchEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var entries []domain.WatchEntry
	err := db.Select(&entries, `SELECT id, file_path, watched_date, duration_watched, profile_name
		FROM watch_history WHERE file_path = ? AND profile_name = ? ORDER BY watched_date DESC, id DESC`,
		path, profileOr(profile))
	if err != nil {
		return nil, fmt.Errorf("file history: %w", err)
	}
	return entries, nil
}

func (db *DB) ClearWatchHistory(profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("DELETE FROM watch_history WHERE profile_name = ?", profileOr(profile)); err != nil {
		return fmt.Errorf("clear watch history: %w", err)
	}
	return nil
}
