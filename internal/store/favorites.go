package store

import (
	"fmt"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

func (db *DB) AddFavorite(path, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.addFavorite(path, profileOr(profile))
}

func (db *DB) addFavorite(path, profile string) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO favorites (file_path, profile_name, added_date)
		VALUES (?, ?, ?)`, path, profile, db.stamp())
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (db *DB) RemoveFavorite(path, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.removeFavorite(path, profileOr(profile))
}

func (db *DB) removeFavorite(path, profile string) error {
	_, err := db.Exec("DELETE FROM favorites WHERE file_path = ? AND profile_name = ?", path, profile)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (db *DB) IsFavorite(path, profile string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.isFavorite(path, profileOr(profile))
}

func (db *DB) isFavorite(path, profile string) (bool, error) {
	var n int
	err := db.Get(&n, "SELECT COUNT(*) FROM favorites WHERE file_path = ? AND profile_name = ?", path, profile)
	if err != nil {
		return false, fmt.Errorf("is favorite: %w", err)
	}
	return n > 0, nil
}

// ToggleFavorite flips the favorite state and returns the new one.
func (db *DB) ToggleFavorite(path, profile string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	profile = profileOr(profile)
	fav, err := db.isFavorite(path, profile)
	if err != nil {
		return false, err
	}
	if fav {
		return false, db.removeFavorite(path, profile)
	}
	return true, db.addFavorite(path, profile)
}

// ListFavorites returns favorites newest first.
func (db *DB) ListFavorites(profile string, limit int) ([]domain.Favorite, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var favs []domain.Favorite
	err := db.Select(&favs, `SELECT file_path, profile_name, added_date FROM favorites
		WHERE profile_name = ? ORDER BY added_date DESC, id DESC LIMIT ?`,
		profileOr(profile), limitOr(limit, constants.DefaultFavoritesLimit))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// AddBookmark stores or renames the bookmark for dir.
func (db *DB) AddBookmark(dir, name, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec(`
		INSERT INTO bookmarks (dir_path, name, profile_name, added_date) VALUES (?, ?, ?, ?)
		ON CONFLICT(dir_path, profile_name) DO UPDATE SET name = excluded.name
	`, dir, name, profileOr(profile), db.stamp())
	if err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

func (db *DB) RemoveBookmark(dir, profile string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec("DELETE FROM bookmarks WHERE dir_path = ? AND profile_name = ?", dir, profileOr(profile))
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// ListBookmarks returns bookmarks ordered by name.
func (db *DB) ListBookmarks(profile string) ([]domain.Bookmark, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var marks []domain.Bookmark
	err := db.Select(&marks, `SELECT dir_path, name, profile_name, added_date FROM bookmarks
		WHERE profile_name = ? ORDER BY name`, profileOr(profile))
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return marks, nil
}
