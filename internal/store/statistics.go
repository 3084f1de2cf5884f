package store

import (
	"fmt"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

const statDateLayout = "2006-01-02"

// RecordView adds one view of minutes to today's row for profile.
func (db *DB) RecordView(path string, minutes int, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	today := db.now().Format(statDateLayout)
	_, err := db.Exec(`
		INSERT INTO statistics (stat_date, profile_name, files_watched, total_minutes)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(stat_date, profile_name) DO UPDATE SET
			files_watched = files_watched + 1,
			total_minutes = total_minutes + excluded.total_minutes
	`, today, profileOr(profile), minutes)
	if err != nil {
		return fmt.Errorf("record view of %s: %w", path, err)
	}
	return nil
}

func (db *DB) cutoffDate(days int) string {
	return db.now().AddDate(0, 0, -days).Format(statDateLayout)
}

// Stats sums the profile's statistics over the last days.
func (db *DB) Stats(profile string, days int) (domain.StatsSummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var s domain.StatsSummary
	err := db.Get(&s, `SELECT COALESCE(SUM(files_watched), 0) AS total_files,
		COALESCE(SUM(total_minutes), 0) AS total_minutes
		FROM statistics WHERE profile_name = ? AND stat_date >= ?`,
		profileOr(profile), db.cutoffDate(limitOr(days, constants.DefaultStatsDays)))
	if err != nil {
		return domain.StatsSummary{}, fmt.Errorf("stats: %w", err)
	}
	s.TotalHours = float64(s.TotalMinutes) / 60.0
	return s, nil
}

// DailyStats returns per-day rows, newest first.
func (db *DB) DailyStats(profile string, days int) ([]domain.StatDay, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.StatDay
	err := db.Select(&out, `SELECT stat_date, profile_name, files_watched, total_minutes
		FROM statistics WHERE profile_name = ? AND stat_date >= ? ORDER BY stat_date DESC`,
		profileOr(profile), db.cutoffDate(limitOr(days, constants.DefaultStatsDays)))
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	return out, nil
}

// MostWatched ranks files by view count, then total watched seconds.
func (db *DB) MostWatched(profile string, limit int) ([]domain.MostWatched, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.MostWatched
	err := db.Select(&out, `SELECT file_path, COUNT(*) AS watch_count,
		COALESCE(SUM(duration_watched), 0) AS total_time
		FROM watch_history WHERE profile_name = ?
		GROUP BY file_path ORDER BY watch_count DESC, total_time DESC LIMIT ?`,
		profileOr(profile), limitOr(limit, constants.DefaultMostWatched))
	if err != nil {
		return nil, fmt.Errorf("most watched: %w", err)
	}
	return out, nil
}

func (db *DB) ClearStats(profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("DELETE FROM statistics WHERE profile_name = ?", profileOr(profile)); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	return nil
}
