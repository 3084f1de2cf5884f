package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cesargomez89/reelbox/internal/constants"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoad(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}
	if cfg.DBFallbackPath != constants.DefaultDBFallback {
		t.Errorf("Expected DBFallbackPath to be %s, got %s", constants.DefaultDBFallback, cfg.DBFallbackPath)
	}
	if len(cfg.DBPaths) != len(constants.DefaultDBPaths) {
		t.Errorf("Expected %d db paths, got %v", len(constants.DefaultDBPaths), cfg.DBPaths)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("Expected CacheTTL to be 1h, got %v", cfg.CacheTTL)
	}
	if cfg.ResumeAction != constants.ResumeActionAsk {
		t.Errorf("Expected ResumeAction to be ask, got %s", cfg.ResumeAction)
	}
	if cfg.MinResume() != 10*time.Second {
		t.Errorf("Expected MinResume to be 10s, got %v", cfg.MinResume())
	}
	if cfg.EndThreshold() != 30*time.Second {
		t.Errorf("Expected EndThreshold to be 30s, got %v", cfg.EndThreshold())
	}
	if !cfg.EnableWatchHistory {
		t.Error("Expected watch history to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("REELBOX_PORT", "9090")
	t.Setenv("REELBOX_CACHE_TTL", "5m")
	t.Setenv("REELBOX_CURRENT_PROFILE", "kids")
	t.Setenv("REELBOX_LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected CacheTTL to be 5m, got %v", cfg.CacheTTL)
	}
	if cfg.CurrentProfile != "kids" {
		t.Errorf("Expected CurrentProfile to be kids, got %s", cfg.CurrentProfile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be normalized to debug, got %s", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "reelbox.yaml")
	content := `port: "7000"
start_dir: /media/usb/
media_extensions: [MKV, "mp4", ".TS"]
sort_key: size_desc
thumb_width: 480
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "7000" {
		t.Errorf("Expected Port to be 7000, got %s", cfg.Port)
	}
	if cfg.StartDir != "/media/usb/" {
		t.Errorf("Expected StartDir to be /media/usb/, got %s", cfg.StartDir)
	}
	if cfg.SortKey != constants.SortSizeDesc {
		t.Errorf("Expected SortKey to be size_desc, got %s", cfg.SortKey)
	}
	if cfg.ThumbWidth != 480 || cfg.ThumbHeight != constants.ThumbHeight {
		t.Errorf("Expected thumbnail size 480x%d, got %dx%d", constants.ThumbHeight, cfg.ThumbWidth, cfg.ThumbHeight)
	}

	want := []string{".mkv", ".mp4", ".ts"}
	if strings.Join(cfg.MediaExtensions, ",") != strings.Join(want, ",") {
		t.Errorf("Expected extensions %v, got %v", want, cfg.MediaExtensions)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func validConfig() Config {
	return Config{
		Port:                "8765",
		LogLevel:            "info",
		LogFormat:           "text",
		DBPaths:             []string{"/hdd/reelbox.db"},
		DBFallbackPath:      "/tmp/reelbox.db",
		StartDir:            "/media/",
		MediaExtensions:     []string{".mkv"},
		SortKey:             constants.SortNameAsc,
		ThumbWidth:          320,
		ThumbHeight:         180,
		ThumbTimeout:        30 * time.Second,
		CacheTTL:            time.Hour,
		CacheSweepInterval:  time.Minute,
		ResumeSaveInterval:  30 * time.Second,
		MinResumeSeconds:    10,
		EndThresholdSeconds: 30,
		ResumeAction:        constants.ResumeActionAsk,
		AutoCleanupDays:     30,
		MaxRecentFiles:      50,
		CurrentProfile:      "default",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"invalid port - not a number", func(c *Config) { c.Port = "abc" }, true},
		{"invalid port - out of range", func(c *Config) { c.Port = "99999" }, true},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"no db location", func(c *Config) { c.DBPaths = nil; c.DBFallbackPath = "" }, true},
		{"fallback only", func(c *Config) { c.DBPaths = nil }, false},
		{"invalid sort key", func(c *Config) { c.SortKey = "random" }, true},
		{"invalid resume action", func(c *Config) { c.ResumeAction = "maybe" }, true},
		{"zero thumbnail width", func(c *Config) { c.ThumbWidth = 0 }, true},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }, true},
		{"no extensions", func(c *Config) { c.MediaExtensions = nil }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty profile", func(c *Config) { c.CurrentProfile = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = ""
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:") {
		t.Errorf("Unexpected error prefix: %s", msg)
	}
	if !strings.Contains(msg, "port cannot be empty") || !strings.Contains(msg, "log_format") {
		t.Errorf("Expected both violations in message, got: %s", msg)
	}
}

func TestDefaultIgnoresEnvironment(t *testing.T) {
	t.Setenv("REELBOX_PORT", "9999")

	cfg := Default()
	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
	if cfg.MinResume() != constants.MinResumeTime {
		t.Errorf("Expected MinResume %v, got %v", constants.MinResumeTime, cfg.MinResume())
	}
}
