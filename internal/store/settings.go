package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns "" when the key is unset.
func (db *DB) GetSetting(profile, key string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var value string
	err := db.Get(&value, "SELECT value FROM settings WHERE key = ? AND profile_name = ?", key, profileOr(profile))
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (db *DB) SetSetting(profile, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`
		INSERT INTO settings (key, profile_name, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key, profile_name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, profileOr(profile), value, db.stamp())
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (db *DB) DeleteSetting(profile, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec("DELETE FROM settings WHERE key = ? AND profile_name = ?", key, profileOr(profile))
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

const (
	SettingLastDir = "last_dir"
	SettingSortKey = "sort_key"
)
