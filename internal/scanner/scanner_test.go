package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"

	"github.com/cesargomez89/reelbox/internal/cache"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	resume map[string]int64
	stale  map[string]bool
	favs   map[string]bool
	err    error
}

func (f *fakeStore) GetResume(path string, size int64, mtime float64) (*domain.ResumePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stale[path] {
		return nil, domain.ErrStale
	}
	pos, ok := f.resume[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.ResumePoint{Path: path, Position: pos, Size: size, ModTime: mtime}, nil
}

func (f *fakeStore) IsFavorite(path, profile string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.favs[path], nil
}

var ignoreModTime = cmpopts.IgnoreFields(domain.Row{}, "ModTime")

func mkfile(t *testing.T, path string, size int64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if size > 0 {
		if err := f.Truncate(size); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()
}

func TestScanClassifiesEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Shows"), 0755); err != nil {
		t.Fatal(err)
	}
	mkfile(t, filepath.Join(dir, "Movie.mkv"), 5<<30)
	mkfile(t, filepath.Join(dir, ".nfo"), 10)
	mkfile(t, filepath.Join(dir, "notes.txt"), 10)

	res := New(Config{Dir: dir, Store: &fakeStore{}, Logger: logger.Discard()}).Scan(context.Background())
	if res.Err != nil {
		t.Fatalf("Unexpected error: %v", res.Err)
	}

	want := []domain.Row{
		{Label: "Movie.mkv", Name: "Movie.mkv", Path: filepath.Join(dir, "Movie.mkv"), Kind: domain.KindFile, Size: 5 * 1024 * 1024 * 1024},
		{Label: "Shows", Name: "Shows", Path: filepath.Join(dir, "Shows"), Kind: domain.KindDir},
	}
	if diff := cmp.Diff(want, res.Rows, ignoreModTime); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestScanAnnotatesResumeAndFavorites(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.MP4")
	b := filepath.Join(dir, "b.mkv")
	c := filepath.Join(dir, "c.avi")
	mkfile(t, a, 100)
	mkfile(t, b, 200)
	mkfile(t, c, 300)

	store := &fakeStore{
		resume: map[string]int64{a: 754, c: 99},
		stale:  map[string]bool{c: true},
		favs:   map[string]bool{b: true},
	}
	res := New(Config{Dir: dir, Store: store, Logger: logger.Discard()}).Scan(context.Background())

	want := []domain.Row{
		{Label: "a.MP4", Name: "a.MP4", Path: a, Kind: domain.KindFile, Size: 100, ResumeSeconds: 754},
		{Label: "★ b.mkv", Name: "b.mkv", Path: b, Kind: domain.KindFile, Size: 200, Favorite: true},
		{Label: "c.avi", Name: "c.avi", Path: c, Kind: domain.KindFile, Size: 300},
	}
	if diff := cmp.Diff(want, res.Rows, ignoreModTime); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestScanStoreFaultsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.mkv"), 1)

	store := &fakeStore{err: errors.New("database is locked")}
	res := New(Config{Dir: dir, Store: store, Logger: logger.Discard()}).Scan(context.Background())
	if len(res.Rows) != 1 || res.Rows[0].ResumeSeconds != 0 || res.Rows[0].Favorite {
		t.Errorf("Expected plain row despite store fault, got %+v", res.Rows)
	}
}

func TestScanUsesCache(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.mkv"), 1)
	c := cache.New(time.Hour)

	first := New(Config{Dir: dir, Cache: c, Logger: logger.Discard()}).Scan(context.Background())
	if first.Cached || len(first.Rows) != 1 {
		t.Fatalf("Expected fresh scan with 1 row, got %+v", first)
	}

	// A cached listing is served without touching the filesystem.
	if err := os.Remove(filepath.Join(dir, "a.mkv")); err != nil {
		t.Fatal(err)
	}
	second := New(Config{Dir: dir, Cache: c, Logger: logger.Discard()}).Scan(context.Background())
	if !second.Cached || len(second.Rows) != 1 {
		t.Errorf("Expected cached result with 1 row, got %+v", second)
	}

	// An active filter bypasses the cache in both directions.
	filtered := New(Config{Dir: dir, Cache: c, Filter: "a", Logger: logger.Discard()}).Scan(context.Background())
	if filtered.Cached || len(filtered.Rows) != 0 {
		t.Errorf("Expected filtered scan to read disk, got %+v", filtered)
	}
	if rows, _ := c.GetDir(dir); len(rows) != 1 {
		t.Error("Expected filtered scan not to overwrite the cache")
	}
}

func TestScanFilter(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "Alien.mkv"), 1)
	mkfile(t, filepath.Join(dir, "Heat.mkv"), 1)
	if err := os.Mkdir(filepath.Join(dir, "ALIENS collection"), 0755); err != nil {
		t.Fatal(err)
	}

	res := New(Config{Dir: dir, Filter: "alien", Logger: logger.Discard()}).Scan(context.Background())
	names := []string{}
	for _, r := range res.Rows {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"ALIENS collection", "Alien.mkv"}, names); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestScanListingError(t *testing.T) {
	res := New(Config{Dir: filepath.Join(t.TempDir(), "missing"), Logger: logger.Discard()}).Scan(context.Background())
	if res.Err == nil {
		t.Error("Expected listing error to be captured")
	}
	if res.Rows == nil || len(res.Rows) != 0 {
		t.Errorf("Expected empty rows, got %v", res.Rows)
	}
}

func TestScanStopped(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.mkv"), 1)
	c := cache.New(time.Hour)

	s := New(Config{Dir: dir, Cache: c, Logger: logger.Discard()})
	s.Stop()
	res := s.Scan(context.Background())

	if !res.Partial {
		t.Error("Expected partial result after Stop")
	}
	if _, ok := c.GetDir(dir); ok {
		t.Error("Expected partial result not to be cached")
	}
}

func TestScannerReusableAfterStop(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.mkv"), 1)

	s := New(Config{Dir: dir, Logger: logger.Discard()})
	h := s.Start(context.Background())
	h.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	res := s.Scan(context.Background())
	if res.Partial {
		t.Error("Expected a full result from a scan after the stopped one")
	}
	if len(res.Rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(res.Rows))
	}
}

func TestHandleLifecycle(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, filepath.Join(dir, "a.mkv"), 1)

	h := New(Config{Dir: dir, Logger: logger.Discard()}).Start(context.Background())
	if h.ID() == "" {
		t.Error("Expected handle to have an id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(res.Rows))
	}

	polled, ok := h.Poll()
	if !ok || len(polled.Rows) != 1 {
		t.Errorf("Expected Poll to return finished result, got %v %+v", ok, polled)
	}
}

func TestHandleCancelledContext(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.mkv", "b.mkv", "c.mkv"} {
		mkfile(t, filepath.Join(dir, n), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := New(Config{Dir: dir, Logger: logger.Discard()}).Start(ctx)
	<-h.Done()

	res, _ := h.Poll()
	if !res.Partial {
		t.Error("Expected cancelled scan to be partial")
	}
}

func TestHandleStopWaits(t *testing.T) {
	h := New(Config{Dir: t.TempDir(), Logger: logger.Discard()}).Start(context.Background())
	h.Stop()

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Expected scan to finish after Stop")
	}
}

func TestWaitContextExpires(t *testing.T) {
	h := &Handle{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, ok := h.Poll(); ok {
		t.Error("Expected Poll to report unfinished scan")
	}
}
