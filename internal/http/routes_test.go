package httpapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cesargomez89/reelbox/internal/app"
	"github.com/cesargomez89/reelbox/internal/cache"
	"github.com/cesargomez89/reelbox/internal/config"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/store"
	"github.com/cesargomez89/reelbox/internal/thumbs"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, _, out string, _ time.Duration, _, _ int) error {
	return os.WriteFile(out, []byte("\xff\xd8\xff"), 0644)
}

type testServer struct {
	router http.Handler
	db     *store.DB
	media  string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	media := t.TempDir()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"), store.Options{Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	cfg := config.Default()
	cfg.StartDir = media
	lib := app.NewLibrary(app.Options{
		Config: cfg,
		Store:  db,
		Cache:  cache.New(time.Hour),
		Thumbs: thumbs.New(thumbs.Config{CacheDir: t.TempDir(), Extractor: stubExtractor{}}, logger.Discard()),
		Logger: logger.Discard(),
	})
	t.Cleanup(func() {
		lib.Close()
		_ = db.Close()
	})

	return &testServer{
		router: NewRouter(NewHandler(lib, logger.Discard())),
		db:     db,
		media:  media,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Invalid JSON %q: %v", rec.Body.String(), err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBrowseEndpoint(t *testing.T) {
	s := setupServer(t)
	touch(t, filepath.Join(s.media, "movie.mkv"))

	rec := s.do(t, http.MethodGet, "/api/browse?dir="+url.QueryEscape(s.media), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var listing app.Listing
	decodeBody(t, rec, &listing)
	if len(listing.Entries) != 2 {
		t.Fatalf("Expected parent and movie rows, got %+v", listing.Entries)
	}
	if listing.Entries[0].Kind != domain.KindParent || listing.Entries[1].Name != "movie.mkv" {
		t.Errorf("Unexpected rows: %+v", listing.Entries)
	}
	if listing.Entries[1].SizeText != "4 B" {
		t.Errorf("Expected size text, got %q", listing.Entries[1].SizeText)
	}

	rec = s.do(t, http.MethodGet, "/api/browse?sort=random", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad sort key, got %d", rec.Code)
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/favorites/toggle", `{"path":"/m/a.mkv"}`)
	var toggled map[string]bool
	decodeBody(t, rec, &toggled)
	if !toggled["favorite"] {
		t.Errorf("Expected favorite true, got %v", toggled)
	}

	rec = s.do(t, http.MethodGet, "/api/favorites", "")
	var favs []domain.Favorite
	decodeBody(t, rec, &favs)
	if len(favs) != 1 || favs[0].Path != "/m/a.mkv" {
		t.Errorf("Expected one favorite, got %+v", favs)
	}

	rec = s.do(t, http.MethodDelete, "/api/favorites?path=%2Fm%2Fa.mkv", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/favorites", `{"path":"relative.mkv"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for relative path, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/api/favorites", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestPlaylistEndpoints(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/playlists", `{"name":"Weekend"}`)
	var created struct {
		Success bool  `json:"success"`
		ID      int64 `json:"playlist_id"`
	}
	decodeBody(t, rec, &created)
	if !created.Success || created.ID == 0 {
		t.Fatalf("Expected playlist created, got %+v", created)
	}
	base := "/api/playlists/" + strconv.FormatInt(created.ID, 10)

	for _, p := range []string{"/m/a.mkv", "/m/b.mkv"} {
		s.do(t, http.MethodPost, base+"/items", `{"path":"`+p+`"}`)
	}
	s.do(t, http.MethodPut, base+"/order", `{"paths":["/m/b.mkv","/m/a.mkv"]}`)

	rec = s.do(t, http.MethodGet, base+"/items", "")
	var items []domain.PlaylistItem
	decodeBody(t, rec, &items)
	if len(items) != 2 || items[0].Path != "/m/b.mkv" || items[0].Position != 0 {
		t.Errorf("Expected reordered items, got %+v", items)
	}

	rec = s.do(t, http.MethodGet, base, "")
	var pl domain.Playlist
	decodeBody(t, rec, &pl)
	if pl.Name != "Weekend" || pl.ItemCount != 2 {
		t.Errorf("Unexpected playlist: %+v", pl)
	}

	if rec := s.do(t, http.MethodGet, "/api/playlists/999", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/playlists/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestPlaybackEndpoints(t *testing.T) {
	s := setupServer(t)
	movie := filepath.Join(s.media, "movie.mkv")
	touch(t, movie)

	rec := s.do(t, http.MethodPost, "/api/playback", `{"path":"`+movie+`","action":"resume"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var start app.PlaybackStart
	decodeBody(t, rec, &start)
	if start.ID == "" {
		t.Fatal("Expected a session id")
	}

	rec = s.do(t, http.MethodPost, "/api/playback/"+start.ID+"/progress", `{"position":600,"length":3600}`)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/playback/"+start.ID+"/stop", "")
	var stop app.PlaybackStop
	decodeBody(t, rec, &stop)
	if stop.Outcome != "saved" {
		t.Errorf("Expected saved, got %+v", stop)
	}

	rec = s.do(t, http.MethodGet, "/api/resume?path="+url.QueryEscape(movie), "")
	var resume struct {
		Position int64 `json:"position_seconds"`
	}
	decodeBody(t, rec, &resume)
	if resume.Position != 600 {
		t.Errorf("Expected resume at 600, got %d", resume.Position)
	}

	if rec := s.do(t, http.MethodPost, "/api/playback/nope/stop", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/playback", `{"path":"/nowhere/x.mkv"}`); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing file, got %d", rec.Code)
	}
}

func TestMetadataEndpoints(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPut, "/api/metadata", `{"file_path":"/m/alien.mkv","title":"Alien","year":1979,"genre":"Horror"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPut, "/api/metadata", `{"file_path":"/m/alien.mkv","rating":8.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/metadata?path=%2Fm%2Falien.mkv", "")
	var m domain.FileMetadata
	decodeBody(t, rec, &m)
	if m.Title != "Alien" || m.Rating != 8.5 || m.Year != 1979 {
		t.Errorf("Expected partial update to keep fields, got %+v", m)
	}

	rec = s.do(t, http.MethodGet, "/api/metadata/suggest?q=alen", "")
	var sugg []app.Suggestion
	decodeBody(t, rec, &sugg)
	if len(sugg) != 1 || sugg[0].Path != "/m/alien.mkv" {
		t.Errorf("Expected Alien suggestion, got %+v", sugg)
	}

	rec = s.do(t, http.MethodGet, "/api/metadata/genre/Horror", "")
	var byGenre []domain.FileMetadata
	decodeBody(t, rec, &byGenre)
	if len(byGenre) != 1 {
		t.Errorf("Expected one horror film, got %d", len(byGenre))
	}

	if rec := s.do(t, http.MethodPut, "/api/metadata", `{"file_path":"/m/x.mkv","year":1200}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad year, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/metadata?path=%2Fm%2Fnone.mkv", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestThumbnailEndpoints(t *testing.T) {
	s := setupServer(t)
	movie := filepath.Join(s.media, "movie.mkv")
	touch(t, movie)

	rec := s.do(t, http.MethodGet, "/api/thumbnails/file?path="+url.QueryEscape(movie), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", ct)
	}

	rec = s.do(t, http.MethodGet, "/api/thumbnails/stats", "")
	var stats struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &stats)
	if stats.Count != 1 {
		t.Errorf("Expected one thumbnail, got %d", stats.Count)
	}
}

func TestReadPathsStayQuietOnStoreFaults(t *testing.T) {
	s := setupServer(t)
	if err := s.db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, target := range []string{"/api/favorites", "/api/recent", "/api/history", "/api/playlists", "/api/stats/daily"} {
		rec := s.do(t, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, rec.Code)
		}
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("%s: expected empty list, got %s", target, body)
		}
	}

	rec := s.do(t, http.MethodGet, "/api/stats", "")
	var summary domain.StatsSummary
	decodeBody(t, rec, &summary)
	if summary != (domain.StatsSummary{}) {
		t.Errorf("Expected zero summary, got %+v", summary)
	}
}

func TestProfilesAndCache(t *testing.T) {
	s := setupServer(t)

	s.do(t, http.MethodPost, "/api/profiles", `{"profile_name":"kids","pin":"42"}`)
	if rec := s.do(t, http.MethodPost, "/api/profiles/switch", `{"profile_name":"kids","pin":"1"}`); rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for wrong PIN, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/profiles/switch", `{"profile_name":"kids","pin":"42"}`); rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/profiles/current", "")
	var cur map[string]string
	decodeBody(t, rec, &cur)
	if cur["profile_name"] != "kids" {
		t.Errorf("Expected kids, got %v", cur)
	}

	rec = s.do(t, http.MethodGet, "/api/profiles", "")
	var profiles []domain.Profile
	decodeBody(t, rec, &profiles)
	if len(profiles) != 2 {
		t.Errorf("Expected 2 profiles, got %d", len(profiles))
	}
	if strings.Contains(rec.Body.String(), `"pin"`) {
		t.Error("Expected PIN to stay out of responses")
	}

	if rec := s.do(t, http.MethodDelete, "/api/cache", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/cache", "")
	var cs app.CacheStats
	decodeBody(t, rec, &cs)
	if cs.TotalEntries != 0 {
		t.Errorf("Expected empty cache, got %+v", cs)
	}
}

func TestMetricsAndHealth(t *testing.T) {
	s := setupServer(t)
	if rec := s.do(t, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from health, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reelbox_active_sessions") {
		t.Error("Expected reelbox metrics in exposition")
	}
}
