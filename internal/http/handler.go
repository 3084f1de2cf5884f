// Package httpapp is the local JSON bridge the host UI talks to.
package httpapp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/reelbox/internal/app"
	"github.com/cesargomez89/reelbox/internal/http/dto"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/metrics"
)

// maxBody caps request bodies; every request here is a small JSON object.
const maxBody = 1 << 20

type Handler struct {
	Library *app.Library
	Logger  *logger.Logger
}

func NewHandler(lib *app.Library, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Library: lib,
		Logger:  log.WithComponent("http"),
	}
}

// NewRouter builds the full bridge: /api routes plus /metrics. Extra
// middleware runs inside the recoverer.
func NewRouter(h *Handler, mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw...)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/browse", h.Browse)
		r.Put("/browse/sort", h.SetSort)

		r.Get("/resume", h.GetResume)
		r.Delete("/resume", h.DeleteResume)
		r.Get("/resume/all", h.ListResume)

		r.Get("/favorites", h.ListFavorites)
		r.Post("/favorites", h.AddFavorite)
		r.Delete("/favorites", h.RemoveFavorite)
		r.Post("/favorites/toggle", h.ToggleFavorite)

		r.Get("/bookmarks", h.ListBookmarks)
		r.Post("/bookmarks", h.AddBookmark)
		r.Delete("/bookmarks", h.RemoveBookmark)

		r.Get("/playlists", h.ListPlaylists)
		r.Post("/playlists", h.CreatePlaylist)
		r.Get("/playlists/{id}", h.GetPlaylist)
		r.Patch("/playlists/{id}", h.RenamePlaylist)
		r.Delete("/playlists/{id}", h.DeletePlaylist)
		r.Get("/playlists/{id}/items", h.PlaylistItems)
		r.Post("/playlists/{id}/items", h.AddPlaylistItem)
		r.Delete("/playlists/{id}/items", h.RemovePlaylistItem)
		r.Put("/playlists/{id}/order", h.ReorderPlaylist)

		r.Get("/recent", h.ListRecent)
		r.Delete("/recent", h.ClearRecent)
		r.Get("/history", h.ListHistory)
		r.Delete("/history", h.ClearHistory)

		r.Get("/stats", h.Stats)
		r.Get("/stats/daily", h.DailyStats)
		r.Get("/stats/most-watched", h.MostWatched)
		r.Delete("/stats", h.ClearStats)

		r.Get("/metadata", h.GetMetadata)
		r.Put("/metadata", h.UpdateMetadata)
		r.Delete("/metadata", h.DeleteMetadata)
		r.Get("/metadata/search", h.SearchMetadata)
		r.Get("/metadata/genres", h.Genres)
		r.Get("/metadata/genre/{genre}", h.MetadataByGenre)
		r.Get("/metadata/year/{year}", h.MetadataByYear)
		r.Post("/metadata/probe", h.ProbeMetadata)
		r.Get("/metadata/suggest", h.Suggest)

		r.Post("/thumbnails", h.GenerateThumbnail)
		r.Get("/thumbnails/file", h.ServeThumbnail)
		r.Get("/thumbnails/stats", h.ThumbnailStats)
		r.Delete("/thumbnails", h.ClearThumbnails)

		r.Post("/playback", h.StartPlayback)
		r.Post("/playback/{id}/progress", h.ReportProgress)
		r.Post("/playback/{id}/stop", h.StopPlayback)

		r.Get("/profiles", h.ListProfiles)
		r.Post("/profiles", h.CreateProfile)
		r.Get("/profiles/current", h.CurrentProfile)
		r.Post("/profiles/switch", h.SwitchProfile)
		r.Delete("/profiles/{name}", h.DeleteProfile)

		r.Get("/cache", h.CacheStats)
		r.Delete("/cache", h.ClearCache)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, ok bool) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  dto.ToResponse(errs),
		"fields": dto.ToMap(errs),
	})
}

// validator is implemented by every request DTO.
type validator interface {
	Validate() []dto.ValidationError
}

// decode reads a JSON body into v and validates it, writing a 400 and
// returning false on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if val, ok := v.(validator); ok {
		if errs := val.Validate(); len(errs) > 0 {
			writeValidation(w, errs)
			return false
		}
	}
	return true
}

// queryInt returns def for a missing or malformed parameter.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func playlistID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return 0, false
	}
	return id, true
}

// requirePath reads the "path" query parameter.
func requirePath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	p := r.URL.Query().Get(name)
	if p == "" {
		writeError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return p, true
}
