package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

var ErrDefaultProfile = errors.New("the default profile cannot be deleted")

const profileColumns = `profile_name, display_name, COALESCE(pin, '') AS pin, created, last_active`

func (db *DB) CreateProfile(name, displayName, pin string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if displayName == "" {
		displayName = name
	}
	ts := db.stamp()
	_, err := db.Exec(`INSERT INTO profiles (profile_name, display_name, pin, created, last_active)
		VALUES (?, ?, NULLIF(?, ''), ?, ?)`, name, displayName, pin, ts, ts)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (db *DB) GetProfile(name string) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var p domain.Profile
	err := db.Get(&p, "SELECT "+profileColumns+" FROM profiles WHERE profile_name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (db *DB) ListProfiles() ([]domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Profile
	if err := db.Select(&out, "SELECT "+profileColumns+" FROM profiles ORDER BY display_name"); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// DeleteProfile removes a profile and its per-profile rows. The default
// profile always survives.
func (db *DB) DeleteProfile(name string) error {
	if name == constants.DefaultProfile {
		return ErrDefaultProfile
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"favorites", "bookmarks", "recent_files", "watch_history", "statistics", "settings", "playlists"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE profile_name = ?", name); err != nil {
			return fmt.Errorf("delete profile %s rows: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM profiles WHERE profile_name = ?", name)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

// TouchProfile marks the profile as active now.
func (db *DB) TouchProfile(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.Exec("UPDATE profiles SET last_active = ? WHERE profile_name = ?", db.stamp(), name)
	if err != nil {
		return fmt.Errorf("touch profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CheckPin reports whether pin unlocks the profile. Profiles without a PIN
// accept anything.
func (db *DB) CheckPin(name, pin string) (bool, error) {
	p, err := db.GetProfile(name)
	if err != nil {
		return false, err
	}
	return !p.HasPin() || p.Pin == pin, nil
}
