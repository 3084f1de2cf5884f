package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/reelbox/internal/domain"
)

func (db *DB) CreatePlaylist(name, profile string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.Exec("INSERT INTO playlists (name, profile_name, created) VALUES (?, ?, ?)",
		name, profileOr(profile), db.stamp())
	if err != nil {
		return 0, fmt.Errorf("create playlist: %w", err)
	}
	return res.LastInsertId()
}

// DeletePlaylist removes the playlist; items go with it through the
// foreign key cascade.
func (db *DB) DeletePlaylist(id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("DELETE FROM playlists WHERE playlist_id = ?", id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

func (db *DB) RenamePlaylist(id int64, name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.Exec("UPDATE playlists SET name = ? WHERE playlist_id = ?", name, id)
	if err != nil {
		return fmt.Errorf("rename playlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (db *DB) GetPlaylist(id int64) (*domain.Playlist, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var p domain.Playlist
	err := db.Get(&p, playlistSelect+" WHERE p.playlist_id = ? GROUP BY p.playlist_id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &p, nil
}

const playlistSelect = `SELECT p.playlist_id, p.name, p.profile_name, p.created,
	COUNT(i.id) AS item_count
	FROM playlists p LEFT JOIN playlist_items i ON i.playlist_id = p.playlist_id`

// ListPlaylists returns the profile's playlists ordered by name.
func (db *DB) ListPlaylists(profile string) ([]domain.Playlist, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var lists []domain.Playlist
	err := db.Select(&lists, playlistSelect+` WHERE p.profile_name = ?
		GROUP BY p.playlist_id ORDER BY p.name`, profileOr(profile))
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return lists, nil
}

func (db *DB) playlistExists(q sqlx.Queryer, id int64) (bool, error) {
	var n int
	if err := sqlx.Get(q, &n, "SELECT COUNT(*) FROM playlists WHERE playlist_id = ?", id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddPlaylistItem appends path after the current last position.
func (db *DB) AddPlaylistItem(id int64, path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	ok, err := db.playlistExists(db, id)
	if err != nil {
		return fmt.Errorf("add playlist item: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	_, err = db.Exec(`INSERT INTO playlist_items (playlist_id, file_path, position)
		SELECT ?, ?, COALESCE(MAX(position), -1) + 1 FROM playlist_items WHERE playlist_id = ?`,
		id, path, id)
	if err != nil {
		return fmt.Errorf("add playlist item: %w", err)
	}
	return nil
}

// RemovePlaylistItem deletes every occurrence of path and closes the gaps
// so positions stay dense.
func (db *DB) RemovePlaylistItem(id int64, path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("remove playlist item: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM playlist_items WHERE playlist_id = ? AND file_path = ?", id, path); err != nil {
		return fmt.Errorf("remove playlist item: %w", err)
	}

	var paths []string
	if err := tx.Select(&paths, "SELECT file_path FROM playlist_items WHERE playlist_id = ? ORDER BY position, id", id); err != nil {
		return fmt.Errorf("remove playlist item: %w", err)
	}
	if err := writeItems(tx, id, paths); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) PlaylistItems(id int64) ([]domain.PlaylistItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var items []domain.PlaylistItem
	err := db.Select(&items, `SELECT playlist_id, file_path, position FROM playlist_items
		WHERE playlist_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("playlist items: %w", err)
	}
	return items, nil
}

// ReorderPlaylist replaces the item set with paths at positions 0..n-1.
// Either the whole new order is stored or nothing changes.
func (db *DB) ReorderPlaylist(id int64, paths []string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("reorder playlist: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	ok, err := db.playlistExists(tx, id)
	if err != nil {
		return fmt.Errorf("reorder playlist: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	if err := writeItems(tx, id, paths); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder playlist: %w", err)
	}
	return nil
}

func writeItems(tx *sqlx.Tx, id int64, paths []string) error {
	if _, err := tx.Exec("DELETE FROM playlist_items WHERE playlist_id = ?", id); err != nil {
		return fmt.Errorf("clear playlist items: %w", err)
	}
	for pos, p := range paths {
		if _, err := tx.Exec("INSERT INTO playlist_items (playlist_id, file_path, position) VALUES (?, ?, ?)",
			id, p, pos); err != nil {
			return fmt.Errorf("write playlist item %d: %w", pos, err)
		}
	}
	return nil
}
