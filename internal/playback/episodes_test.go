package playback

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
}

func TestParseEpisode(t *testing.T) {
	tests := []struct {
		name            string
		season, episode int
		ok              bool
	}{
		{"Show.S01E02.720p.mkv", 1, 2, true},
		{"show s10e100.mp4", 10, 100, true},
		{"Show 2x05.avi", 2, 5, true},
		{"Movie (2019).mkv", 0, 0, false},
	}
	for _, tt := range tests {
		s, e, ok := ParseEpisode(tt.name)
		if s != tt.season || e != tt.episode || ok != tt.ok {
			t.Errorf("ParseEpisode(%q) = %d, %d, %v; want %d, %d, %v", tt.name, s, e, ok, tt.season, tt.episode, tt.ok)
		}
	}
}

func TestNextEpisode(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"Show.S01E01.mkv", "Show.S01E02.mkv", "Show.S02E02.mkv", "Show.S01E03.srt"} {
		touch(t, filepath.Join(dir, n))
	}

	next, ok := NextEpisode(filepath.Join(dir, "Show.S01E01.mkv"), nil)
	if !ok || next != filepath.Join(dir, "Show.S01E02.mkv") {
		t.Errorf("Expected S01E02, got %q, %v", next, ok)
	}

	if next, ok := NextEpisode(filepath.Join(dir, "Show.S01E02.mkv"), nil); ok {
		t.Errorf("Expected no media file for S01E03, got %q", next)
	}
	if _, ok := NextEpisode(filepath.Join(dir, "Movie.mkv"), nil); ok {
		t.Error("Expected no next episode for a non-series name")
	}
}

func TestFindSubtitle(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "movie.mkv")
	touch(t, video)

	if _, ok := FindSubtitle(video, nil); ok {
		t.Error("Expected no subtitle yet")
	}

	touch(t, filepath.Join(dir, "movie.ass"))
	touch(t, filepath.Join(dir, "movie.srt"))

	sub, ok := FindSubtitle(video, nil)
	if !ok || sub != filepath.Join(dir, "movie.srt") {
		t.Errorf("Expected .srt to win by order, got %q", sub)
	}

	sub, ok = FindSubtitle(video, []string{".ass"})
	if !ok || sub != filepath.Join(dir, "movie.ass") {
		t.Errorf("Expected .ass with custom list, got %q", sub)
	}
}
