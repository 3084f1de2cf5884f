// Package thumbs extracts and caches one still frame per video file.
package thumbs

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/metrics"
	"github.com/cesargomez89/reelbox/internal/storage"
)

// Extractor writes a single frame of video taken at `at` to out.
type Extractor interface {
	Extract(ctx context.Context, video, out string, at time.Duration, width, height int) error
}

// FFmpeg is the default Extractor.
type FFmpeg struct {
	Path string
}

func (f FFmpeg) Extract(ctx context.Context, video, out string, at time.Duration, width, height int) error {
	bin := f.Path
	if bin == "" {
		bin = constants.DefaultFFmpegPath
	}
	cmd := exec.CommandContext(ctx, bin,
		"-ss", strconv.Itoa(int(at/time.Second)),
		"-i", video,
		"-vframes", "1",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-q:v", "2",
		out,
		"-y",
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(output, 200))
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}

type Config struct {
	CacheDir   string
	Width      int
	Height     int
	Timeout    time.Duration
	FFmpegPath string
	// Extractor overrides the ffmpeg subprocess.
	Extractor Extractor
}

type Manager struct {
	dir     string
	width   int
	height  int
	timeout time.Duration
	ext     Extractor
	log     *logger.Logger

	mu         sync.Mutex
	inProgress map[string]bool
}

// New prepares the cache directory, falling back to a temporary location
// when the configured one cannot be created.
func New(cfg Config, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("thumbs")

	if cfg.Width <= 0 {
		cfg.Width = constants.ThumbWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = constants.ThumbHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.ThumbTimeout
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = constants.DefaultThumbDir
	}
	if cfg.Extractor == nil {
		cfg.Extractor = FFmpeg{Path: cfg.FFmpegPath}
	}

	dir := cfg.CacheDir
	if err := storage.EnsureDir(dir); err != nil {
		log.Warn("thumbnail cache unavailable, using fallback", "dir", dir, "error", err)
		dir = constants.FallbackThumbDir
		if err := storage.EnsureDir(dir); err != nil {
			log.Error("fallback thumbnail cache unavailable", "dir", dir, "error", err)
		}
	}

	return &Manager{
		dir:        dir,
		width:      cfg.Width,
		height:     cfg.Height,
		timeout:    cfg.Timeout,
		ext:        cfg.Extractor,
		log:        log,
		inProgress: make(map[string]bool),
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// PathFor is where the thumbnail of video lives, whether or not it exists.
func (m *Manager) PathFor(video string) string {
	return filepath.Join(m.dir, storage.PathHash(video)+constants.ThumbExt)
}

func (m *Manager) Has(video string) bool {
	return storage.Exists(m.PathFor(video))
}

// Generate returns the thumbnail path for video, extracting the frame at
// `at` when needed. A concurrent call for the same video gets
// ErrInProgress; a failed or timed-out extraction gets ErrNoResult.
func (m *Manager) Generate(ctx context.Context, video string, at time.Duration) (string, error) {
	out := m.PathFor(video)
	if storage.Exists(out) {
		metrics.Thumbnails.WithLabelValues("cached").Inc()
		return out, nil
	}

	m.mu.Lock()
	if m.inProgress[out] {
		m.mu.Unlock()
		metrics.Thumbnails.WithLabelValues("busy").Inc()
		return "", domain.ErrInProgress
	}
	m.inProgress[out] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inProgress, out)
		m.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.ext.Extract(ctx, video, out, at, m.width, m.height)
	if err != nil || !storage.Exists(out) {
		metrics.Thumbnails.WithLabelValues("failed").Inc()
		m.log.Debug("thumbnail extraction failed", "video", video, "error", err)
		if err == nil {
			err = fmt.Errorf("no output written")
		}
		return "", fmt.Errorf("%w: %v", domain.ErrNoResult, err)
	}

	metrics.Thumbnails.WithLabelValues("generated").Inc()
	return out, nil
}

// InProgress reports whether video is being generated right now.
func (m *Manager) InProgress(video string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inProgress[m.PathFor(video)]
}

// BatchGenerate works through videos one at a time, skipping those that
// already have a thumbnail. progress, if set, runs after every video.
// Returns the number of thumbnails newly generated.
func (m *Manager) BatchGenerate(ctx context.Context, videos []string, progress func(done, total, generated int)) int {
	generated := 0
	for i, v := range videos {
		if ctx.Err() != nil {
			break
		}
		if !m.Has(v) {
			if _, err := m.Generate(ctx, v, constants.ThumbTimestamp); err == nil {
				generated++
			}
		}
		if progress != nil {
			progress(i+1, len(videos), generated)
		}
	}
	return generated
}

func (m *Manager) Delete(video string) error {
	return storage.RemoveFile(m.PathFor(video))
}

// Clear removes every cached thumbnail and returns how many were removed.
func (m *Manager) Clear() (int, error) {
	n, err := storage.RemoveMatching(m.dir, constants.ThumbExt)
	if err != nil {
		return n, fmt.Errorf("clear thumbnail cache: %w", err)
	}
	m.log.Info("thumbnail cache cleared", "removed", n)
	return n, nil
}

// CacheSize is the total size in bytes of cached thumbnails.
func (m *Manager) CacheSize() int64 {
	size, _, _ := storage.DirUsage(m.dir, constants.ThumbExt)
	return size
}

func (m *Manager) CacheCount() int {
	_, count, _ := storage.DirUsage(m.dir, constants.ThumbExt)
	return count
}
