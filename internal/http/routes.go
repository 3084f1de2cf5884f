package httpapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/reelbox/internal/app"
	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/http/dto"
)

func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortKey := q.Get("sort")
	if errs := dto.ValidateSortKey(sortKey); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	writeJSON(w, http.StatusOK, h.Library.Browse(r.Context(), q.Get("dir"), q.Get("q"), sortKey))
}

func (h *Handler) SetSort(w http.ResponseWriter, r *http.Request) {
	var req dto.SortRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.SetSortKey(req.Sort))
}

func (h *Handler) GetResume(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"file_path":        path,
		"position_seconds": h.Library.Resume(path),
	})
}

func (h *Handler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	writeSuccess(w, h.Library.ClearResume(path))
}

func (h *Handler) ListResume(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.ResumePoints())
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Favorites(queryInt(r, "limit", constants.DefaultFavoritesLimit)))
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req dto.PathRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.AddFavorite(req.Path))
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	writeSuccess(w, h.Library.RemoveFavorite(path))
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req dto.PathRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": h.Library.ToggleFavorite(req.Path)})
}

func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Bookmarks())
}

func (h *Handler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req dto.BookmarkRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.AddBookmark(req.Dir, req.Name))
}

func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	dir, ok := requirePath(w, r, "dir")
	if !ok {
		return
	}
	writeSuccess(w, h.Library.RemoveBookmark(dir))
}

func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Playlists())
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaylistRequest
	if !decode(w, r, &req) {
		return
	}
	id := h.Library.CreatePlaylist(req.Name)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": id != 0, "playlist_id": id})
}

func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	pl := h.Library.Playlist(id)
	if pl == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (h *Handler) RenamePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	var req dto.PlaylistRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.RenamePlaylist(id, req.Name))
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	writeSuccess(w, h.Library.DeletePlaylist(id))
}

func (h *Handler) PlaylistItems(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Library.PlaylistItems(id))
}

func (h *Handler) AddPlaylistItem(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	var req dto.PathRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.AddToPlaylist(id, req.Path))
}

func (h *Handler) RemovePlaylistItem(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	writeSuccess(w, h.Library.RemoveFromPlaylist(id, path))
}

func (h *Handler) ReorderPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := playlistID(w, r)
	if !ok {
		return
	}
	var req dto.ReorderRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.ReorderPlaylist(id, req.Paths))
}

func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Recent(queryInt(r, "limit", constants.DefaultRecentLimit)))
}

func (h *Handler) ClearRecent(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.Library.ClearRecent())
}

// ListHistory narrows to one file when ?path= is given.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if path := r.URL.Query().Get("path"); path != "" {
		writeJSON(w, http.StatusOK, h.Library.FileHistory(path))
		return
	}
	writeJSON(w, http.StatusOK, h.Library.History(queryInt(r, "limit", constants.DefaultHistoryLimit)))
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.Library.ClearHistory())
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Stats(queryInt(r, "days", constants.DefaultStatsDays)))
}

func (h *Handler) DailyStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.DailyStats(queryInt(r, "days", constants.DefaultStatsDays)))
}

func (h *Handler) MostWatched(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.MostWatched(queryInt(r, "limit", constants.DefaultMostWatched)))
}

func (h *Handler) ClearStats(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.Library.ClearStats())
}

func (h *Handler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	m := h.Library.Metadata(path)
	if m == nil {
		writeError(w, http.StatusNotFound, "no metadata")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req dto.MetadataUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	var m domain.FileMetadata
	if existing := h.Library.Metadata(req.Path); existing != nil {
		m = *existing
	}
	req.ApplyTo(&m)
	writeSuccess(w, h.Library.SaveMetadata(m))
}

func (h *Handler) DeleteMetadata(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	writeSuccess(w, h.Library.DeleteMetadata(path))
}

func (h *Handler) SearchMetadata(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, h.Library.SearchMetadata(q, queryInt(r, "limit", constants.DefaultMetadataLimit)))
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Genres())
}

func (h *Handler) MetadataByGenre(w http.ResponseWriter, r *http.Request) {
	genre := chi.URLParam(r, "genre")
	writeJSON(w, http.StatusOK, h.Library.MetadataByGenre(genre, queryInt(r, "limit", constants.DefaultMetadataLimit)))
}

func (h *Handler) MetadataByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	writeJSON(w, http.StatusOK, h.Library.MetadataByYear(year, queryInt(r, "limit", constants.DefaultMetadataLimit)))
}

func (h *Handler) ProbeMetadata(w http.ResponseWriter, r *http.Request) {
	var req dto.PathRequest
	if !decode(w, r, &req) {
		return
	}
	m := h.Library.ProbeMetadata(r.Context(), req.Path)
	if m == nil {
		writeError(w, http.StatusNotFound, "nothing found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, h.Library.Suggest(q, queryInt(r, "limit", 10)))
}

func (h *Handler) GenerateThumbnail(w http.ResponseWriter, r *http.Request) {
	var req dto.PathRequest
	if !decode(w, r, &req) {
		return
	}
	p, ok := h.Library.Thumbnail(r.Context(), req.Path)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": ok, "thumbnail": p})
}

func (h *Handler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r, "path")
	if !ok {
		return
	}
	thumb, ok := h.Library.Thumbnail(r.Context(), path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, thumb)
}

func (h *Handler) ThumbnailStats(w http.ResponseWriter, r *http.Request) {
	count, size := h.Library.ThumbnailStats()
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": count, "size": size})
}

func (h *Handler) ClearThumbnails(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"removed": h.Library.ClearThumbnails()})
}

func (h *Handler) StartPlayback(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaybackStartRequest
	if !decode(w, r, &req) {
		return
	}
	start, err := h.Library.StartPlayback(req.Path, req.Action)
	if err != nil {
		h.Logger.Info("playback refused", "path", req.Path, "error", err)
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, start)
}

func (h *Handler) ReportProgress(w http.ResponseWriter, r *http.Request) {
	var req dto.ProgressRequest
	if !decode(w, r, &req) {
		return
	}
	pos := time.Duration(req.Position * float64(time.Second))
	length := time.Duration(req.Length * float64(time.Second))
	if !h.Library.ReportProgress(chi.URLParam(r, "id"), pos, length) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeSuccess(w, true)
}

func (h *Handler) StopPlayback(w http.ResponseWriter, r *http.Request) {
	var req dto.StopRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	stop, err := h.Library.StopPlayback(chi.URLParam(r, "id"), req.EOF)
	if app.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, stop)
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Profiles())
}

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.Library.CreateProfile(req.Name, req.DisplayName, req.Pin))
}

func (h *Handler) CurrentProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"profile_name": h.Library.Profile()})
}

func (h *Handler) SwitchProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.SwitchProfileRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.Library.SwitchProfile(req.Name, req.Pin) {
		writeError(w, http.StatusForbidden, "profile locked or unknown")
		return
	}
	writeSuccess(w, true)
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.Library.DeleteProfile(chi.URLParam(r, "name")))
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.CacheStats())
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.Library.ClearCache()
	writeSuccess(w, true)
}
