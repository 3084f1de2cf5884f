package app

import (
	"errors"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/store"
)

// list runs a read and degrades any failure to an empty, non-nil slice.
func list[T any](l *Library, family, op string, fn func() ([]T, error)) []T {
	if l.db == nil {
		return []T{}
	}
	out, err := fn()
	if err != nil {
		l.fault(family, op, err)
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// write runs a mutation and reports success.
func (l *Library) write(family, op string, fn func() error) bool {
	if l.db == nil {
		return false
	}
	if err := fn(); err != nil {
		if domain.IsTransient(err) {
			l.fault(family, op, err)
		}
		return false
	}
	return true
}

// Resume returns the saved position of path in seconds, 0 when there is
// none or it no longer matches the file.
func (l *Library) Resume(path string) int64 {
	if l.db == nil {
		return 0
	}
	size, mtime, err := fileStat(path)
	if err != nil {
		return 0
	}
	rp, err := l.db.GetResume(path, size, mtime)
	switch {
	case err == nil:
		return rp.Position
	case errors.Is(err, domain.ErrStale):
		l.invalidate(path)
	case domain.IsTransient(err):
		l.fault("resume", "get", err)
	}
	return 0
}

func (l *Library) ClearResume(path string) bool {
	if l.db == nil {
		return false
	}
	ok, err := l.db.DeleteResume(path)
	if err != nil {
		l.fault("resume", "delete", err)
		return false
	}
	l.invalidate(path)
	return ok
}

func (l *Library) ResumePoints() []domain.ResumePoint {
	return list(l, "resume", "list", l.db.ListResume)
}

// CleanupOld drops resume points idle for more than days.
func (l *Library) CleanupOld(days int) int64 {
	if l.db == nil {
		return 0
	}
	if days <= 0 {
		days = constants.AutoCleanupDays
	}
	n, err := l.db.CleanupOldResume(days)
	if err != nil {
		l.fault("resume", "cleanup", err)
		return 0
	}
	if n > 0 {
		l.cache.Clear()
	}
	return n
}

// Optimize lets sqlite refresh its statistics.
func (l *Library) Optimize() bool {
	return l.write("maintenance", "optimize", func() error { return l.db.Optimize() })
}

func (l *Library) AddFavorite(path string) bool {
	ok := l.write("favorites", "add", func() error { return l.db.AddFavorite(path, l.Profile()) })
	if ok {
		l.invalidate(path)
	}
	return ok
}

func (l *Library) RemoveFavorite(path string) bool {
	ok := l.write("favorites", "remove", func() error { return l.db.RemoveFavorite(path, l.Profile()) })
	if ok {
		l.invalidate(path)
	}
	return ok
}

func (l *Library) IsFavorite(path string) bool {
	if l.db == nil {
		return false
	}
	fav, err := l.db.IsFavorite(path, l.Profile())
	if err != nil {
		l.fault("favorites", "check", err)
		return false
	}
	return fav
}

// ToggleFavorite returns the new state; false on failure.
func (l *Library) ToggleFavorite(path string) bool {
	if l.db == nil {
		return false
	}
	fav, err := l.db.ToggleFavorite(path, l.Profile())
	if err != nil {
		l.fault("favorites", "toggle", err)
		return false
	}
	l.invalidate(path)
	return fav
}

func (l *Library) Favorites(limit int) []domain.Favorite {
	return list(l, "favorites", "list", func() ([]domain.Favorite, error) {
		return l.db.ListFavorites(l.Profile(), limit)
	})
}

func (l *Library) AddBookmark(dir, name string) bool {
	return l.write("bookmarks", "add", func() error { return l.db.AddBookmark(dir, name, l.Profile()) })
}

func (l *Library) RemoveBookmark(dir string) bool {
	return l.write("bookmarks", "remove", func() error { return l.db.RemoveBookmark(dir, l.Profile()) })
}

func (l *Library) Bookmarks() []domain.Bookmark {
	return list(l, "bookmarks", "list", func() ([]domain.Bookmark, error) {
		return l.db.ListBookmarks(l.Profile())
	})
}

// CreatePlaylist returns the new id, 0 on failure.
func (l *Library) CreatePlaylist(name string) int64 {
	if l.db == nil {
		return 0
	}
	id, err := l.db.CreatePlaylist(name, l.Profile())
	if err != nil {
		l.fault("playlists", "create", err)
		return 0
	}
	return id
}

func (l *Library) DeletePlaylist(id int64) bool {
	return l.write("playlists", "delete", func() error { return l.db.DeletePlaylist(id) })
}

func (l *Library) RenamePlaylist(id int64, name string) bool {
	return l.write("playlists", "rename", func() error { return l.db.RenamePlaylist(id, name) })
}

// Playlist returns nil for an unknown id.
func (l *Library) Playlist(id int64) *domain.Playlist {
	if l.db == nil {
		return nil
	}
	p, err := l.db.GetPlaylist(id)
	if err != nil {
		if domain.IsTransient(err) {
			l.fault("playlists", "get", err)
		}
		return nil
	}
	return p
}

func (l *Library) Playlists() []domain.Playlist {
	return list(l, "playlists", "list", func() ([]domain.Playlist, error) {
		return l.db.ListPlaylists(l.Profile())
	})
}

func (l *Library) PlaylistItems(id int64) []domain.PlaylistItem {
	return list(l, "playlists", "items", func() ([]domain.PlaylistItem, error) {
		return l.db.PlaylistItems(id)
	})
}

func (l *Library) AddToPlaylist(id int64, path string) bool {
	return l.write("playlists", "add item", func() error { return l.db.AddPlaylistItem(id, path) })
}

func (l *Library) RemoveFromPlaylist(id int64, path string) bool {
	return l.write("playlists", "remove item", func() error { return l.db.RemovePlaylistItem(id, path) })
}

func (l *Library) ReorderPlaylist(id int64, paths []string) bool {
	return l.write("playlists", "reorder", func() error { return l.db.ReorderPlaylist(id, paths) })
}

func (l *Library) Recent(limit int) []domain.RecentFile {
	return list(l, "history", "recent", func() ([]domain.RecentFile, error) {
		return l.db.ListRecent(l.Profile(), limit)
	})
}

func (l *Library) ClearRecent() bool {
	return l.write("history", "clear recent", func() error { return l.db.ClearRecent(l.Profile()) })
}

func (l *Library) History(limit int) []domain.WatchEntry {
	return list(l, "history", "list", func() ([]domain.WatchEntry, error) {
		return l.db.WatchHistory(l.Profile(), limit)
	})
}

func (l *Library) FileHistory(path string) []domain.WatchEntry {
	return list(l, "history", "file", func() ([]domain.WatchEntry, error) {
		return l.db.FileHistory(path, l.Profile())
	})
}

func (l *Library) ClearHistory() bool {
	return l.write("history", "clear", func() error { return l.db.ClearWatchHistory(l.Profile()) })
}

// Stats returns a zero summary on failure.
func (l *Library) Stats(days int) domain.StatsSummary {
	if l.db == nil {
		return domain.StatsSummary{}
	}
	s, err := l.db.Stats(l.Profile(), days)
	if err != nil {
		l.fault("statistics", "summary", err)
		return domain.StatsSummary{}
	}
	return s
}

func (l *Library) DailyStats(days int) []domain.StatDay {
	return list(l, "statistics", "daily", func() ([]domain.StatDay, error) {
		return l.db.DailyStats(l.Profile(), days)
	})
}

func (l *Library) MostWatched(limit int) []domain.MostWatched {
	return list(l, "statistics", "most watched", func() ([]domain.MostWatched, error) {
		return l.db.MostWatched(l.Profile(), limit)
	})
}

func (l *Library) ClearStats() bool {
	return l.write("statistics", "clear", func() error { return l.db.ClearStats(l.Profile()) })
}

func (l *Library) Profiles() []domain.Profile {
	return list(l, "profiles", "list", l.db.ListProfiles)
}

func (l *Library) CreateProfile(name, displayName, pin string) bool {
	return l.write("profiles", "create", func() error { return l.db.CreateProfile(name, displayName, pin) })
}

// DeleteProfile refuses the default profile and the active one.
func (l *Library) DeleteProfile(name string) bool {
	if name == l.Profile() {
		return false
	}
	return l.write("profiles", "delete", func() error {
		err := l.db.DeleteProfile(name)
		if errors.Is(err, store.ErrDefaultProfile) {
			return domain.ErrNotFound
		}
		return err
	})
}

// SwitchProfile makes name active when pin unlocks it. Cached listings are
// dropped since they carry the previous profile's favorites.
func (l *Library) SwitchProfile(name, pin string) bool {
	if l.db == nil {
		return false
	}
	ok, err := l.db.CheckPin(name, pin)
	if err != nil {
		if domain.IsTransient(err) {
			l.fault("profiles", "check pin", err)
		}
		return false
	}
	if !ok {
		l.log.Info("profile PIN rejected", "profile", name)
		return false
	}
	if err := l.db.TouchProfile(name); err != nil {
		l.fault("profiles", "touch", err)
	}

	l.mu.Lock()
	l.profile = name
	l.mu.Unlock()
	l.cache.Clear()
	l.log.Info("switched profile", "profile", name)
	return true
}
