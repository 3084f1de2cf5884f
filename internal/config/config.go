package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cesargomez89/reelbox/internal/constants"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. REELBOX_PORT.
const EnvPrefix = "REELBOX"

// Config holds all application configuration
type Config struct {
	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	DBPaths        []string `mapstructure:"db_paths"`
	DBFallbackPath string   `mapstructure:"db_fallback_path"`

	StartDir        string   `mapstructure:"start_dir"`
	MediaExtensions []string `mapstructure:"media_extensions"`
	SortKey         string   `mapstructure:"sort_key"`

	ThumbCacheDir string        `mapstructure:"thumb_cache_dir"`
	ThumbWidth    int           `mapstructure:"thumb_width"`
	ThumbHeight   int           `mapstructure:"thumb_height"`
	ThumbTimeout  time.Duration `mapstructure:"thumb_timeout"`
	FFmpegPath    string        `mapstructure:"ffmpeg_path"`
	FFprobePath   string        `mapstructure:"ffprobe_path"`

	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheSweepInterval time.Duration `mapstructure:"cache_sweep_interval"`
	WatchDirectories   bool          `mapstructure:"watch_directories"`

	ResumeSaveInterval  time.Duration `mapstructure:"resume_save_interval"`
	MinResumeSeconds    int           `mapstructure:"min_resume_seconds"`
	EndThresholdSeconds int           `mapstructure:"end_threshold_seconds"`
	ResumeAction        string        `mapstructure:"resume_action"`
	AutoCleanupDays     int           `mapstructure:"auto_cleanup_days"`
	MaxRecentFiles      int           `mapstructure:"max_recent_files"`
	EnableWatchHistory  bool          `mapstructure:"enable_watch_history"`

	CurrentProfile string `mapstructure:"current_profile"`
	AutoPlayNext   bool   `mapstructure:"auto_play_next"`
	DetectSeries   bool   `mapstructure:"detect_series"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")
	v.SetDefault("db_paths", constants.DefaultDBPaths)
	v.SetDefault("db_fallback_path", constants.DefaultDBFallback)
	v.SetDefault("start_dir", constants.DefaultStartDir)
	v.SetDefault("media_extensions", constants.MediaExtensions)
	v.SetDefault("sort_key", constants.DefaultSortKey)
	v.SetDefault("thumb_cache_dir", constants.DefaultThumbDir)
	v.SetDefault("thumb_width", constants.ThumbWidth)
	v.SetDefault("thumb_height", constants.ThumbHeight)
	v.SetDefault("thumb_timeout", constants.ThumbTimeout)
	v.SetDefault("ffmpeg_path", constants.DefaultFFmpegPath)
	v.SetDefault("ffprobe_path", constants.DefaultFFprobePath)
	v.SetDefault("cache_ttl", constants.DefaultCacheTTL)
	v.SetDefault("cache_sweep_interval", constants.DefaultCacheSweep)
	v.SetDefault("watch_directories", false)
	v.SetDefault("resume_save_interval", constants.ResumeSaveInterval)
	v.SetDefault("min_resume_seconds", int(constants.MinResumeTime/time.Second))
	v.SetDefault("end_threshold_seconds", int(constants.EndThreshold/time.Second))
	v.SetDefault("resume_action", constants.DefaultResumeAction)
	v.SetDefault("auto_cleanup_days", constants.AutoCleanupDays)
	v.SetDefault("max_recent_files", constants.MaxRecentFiles)
	v.SetDefault("enable_watch_history", true)
	v.SetDefault("current_profile", constants.DefaultProfile)
	v.SetDefault("auto_play_next", false)
	v.SetDefault("detect_series", true)
}

// Load reads defaults, then the YAML file at path (or config.yaml from the
// standard locations when path is empty), then REELBOX_* env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join("/etc", constants.AppName))
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", constants.AppName))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Default returns the built-in defaults only, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// defaults alone always decode
	_ = v.Unmarshal(cfg)
	cfg.normalize()
	return cfg
}

// normalize lowercases extensions and makes sure each has a leading dot.
func (c *Config) normalize() {
	exts := make([]string, 0, len(c.MediaExtensions))
	for _, e := range c.MediaExtensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	c.MediaExtensions = exts
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// MinResume is MinResumeSeconds as a duration.
func (c *Config) MinResume() time.Duration {
	return time.Duration(c.MinResumeSeconds) * time.Second
}

// EndThreshold is EndThresholdSeconds as a duration.
func (c *Config) EndThreshold() time.Duration {
	return time.Duration(c.EndThresholdSeconds) * time.Second
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "port cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("port must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got: %d", port))
		}
	}

	if len(c.DBPaths) == 0 && c.DBFallbackPath == "" {
		errors = append(errors, "db_paths and db_fallback_path cannot both be empty")
	}

	if c.StartDir == "" {
		errors = append(errors, "start_dir cannot be empty")
	}

	if len(c.MediaExtensions) == 0 {
		errors = append(errors, "media_extensions cannot be empty")
	}

	validSortKeys := map[string]bool{
		constants.SortNameAsc:  true,
		constants.SortNameDesc: true,
		constants.SortDateAsc:  true,
		constants.SortDateDesc: true,
		constants.SortSizeAsc:  true,
		constants.SortSizeDesc: true,
	}
	if !validSortKeys[c.SortKey] {
		errors = append(errors, fmt.Sprintf("sort_key must be one of: name_asc, name_desc, date_asc, date_desc, size_asc, size_desc, got: %s", c.SortKey))
	}

	validActions := map[string]bool{
		constants.ResumeActionAsk:    true,
		constants.ResumeActionStart:  true,
		constants.ResumeActionResume: true,
	}
	if !validActions[c.ResumeAction] {
		errors = append(errors, fmt.Sprintf("resume_action must be one of: ask, start, resume, got: %s", c.ResumeAction))
	}

	if c.ThumbWidth <= 0 || c.ThumbHeight <= 0 {
		errors = append(errors, fmt.Sprintf("thumbnail size must be positive, got: %dx%d", c.ThumbWidth, c.ThumbHeight))
	}
	if c.ThumbTimeout <= 0 {
		errors = append(errors, "thumb_timeout must be positive")
	}
	if c.CacheTTL <= 0 {
		errors = append(errors, "cache_ttl must be positive")
	}
	if c.CacheSweepInterval <= 0 {
		errors = append(errors, "cache_sweep_interval must be positive")
	}
	if c.ResumeSaveInterval <= 0 {
		errors = append(errors, "resume_save_interval must be positive")
	}
	if c.MinResumeSeconds < 0 {
		errors = append(errors, "min_resume_seconds cannot be negative")
	}
	if c.EndThresholdSeconds < 0 {
		errors = append(errors, "end_threshold_seconds cannot be negative")
	}
	if c.AutoCleanupDays < 0 {
		errors = append(errors, "auto_cleanup_days cannot be negative")
	}
	if c.MaxRecentFiles <= 0 {
		errors = append(errors, "max_recent_files must be positive")
	}
	if c.CurrentProfile == "" {
		errors = append(errors, "current_profile cannot be empty")
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("log_level must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("log_format must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
