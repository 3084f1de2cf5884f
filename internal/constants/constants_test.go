package constants

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	if DefaultProfile != "default" {
		t.Errorf("Expected DefaultProfile to be 'default', got '%s'", DefaultProfile)
	}

	if DefaultCacheTTL != time.Hour {
		t.Errorf("Expected DefaultCacheTTL to be 1h, got %v", DefaultCacheTTL)
	}

	if MaxRecentFiles != 50 {
		t.Errorf("Expected MaxRecentFiles to be 50, got %d", MaxRecentFiles)
	}

	if MtimeTolerance != 2.0 {
		t.Errorf("Expected MtimeTolerance to be 2.0, got %f", MtimeTolerance)
	}
}

func TestPlaybackTimings(t *testing.T) {
	if ResumeSaveInterval != 30*time.Second {
		t.Errorf("Expected ResumeSaveInterval to be 30s, got %v", ResumeSaveInterval)
	}
	if EndThreshold != 30*time.Second {
		t.Errorf("Expected EndThreshold to be 30s, got %v", EndThreshold)
	}
	if MinResumeTime != 10*time.Second {
		t.Errorf("Expected MinResumeTime to be 10s, got %v", MinResumeTime)
	}
	if ThumbTimeout != 30*time.Second {
		t.Errorf("Expected ThumbTimeout to be 30s, got %v", ThumbTimeout)
	}
}

func TestMediaExtensions(t *testing.T) {
	seen := make(map[string]bool)
	for _, ext := range MediaExtensions {
		if !strings.HasPrefix(ext, ".") {
			t.Errorf("Extension %q should start with a dot", ext)
		}
		if ext != strings.ToLower(ext) {
			t.Errorf("Extension %q should be lowercase", ext)
		}
		if seen[ext] {
			t.Errorf("Duplicate extension %q", ext)
		}
		seen[ext] = true
	}

	for _, want := range []string{".mkv", ".mp4", ".ts"} {
		if !seen[want] {
			t.Errorf("Expected %s to be a media extension", want)
		}
	}
}

func TestSortKeys(t *testing.T) {
	keys := []string{SortNameAsc, SortNameDesc, SortDateAsc, SortDateDesc, SortSizeAsc, SortSizeDesc}
	for _, k := range keys {
		if k == "" {
			t.Error("Sort key constant should not be empty")
		}
	}
}

func TestThumbnailGeometry(t *testing.T) {
	if ThumbWidth != 320 || ThumbHeight != 180 {
		t.Errorf("Expected thumbnail size 320x180, got %dx%d", ThumbWidth, ThumbHeight)
	}
}
