// Package probe reads technical and embedded metadata from local media
// files using ffprobe and container tags.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	FFprobePath string
	Timeout     time.Duration
}

type Prober struct {
	bin     string
	timeout time.Duration
	log     *logger.Logger
}

func New(cfg Config, log *logger.Logger) *Prober {
	if log == nil {
		log = logger.Default()
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = constants.DefaultFFprobePath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Prober{bin: cfg.FFprobePath, timeout: cfg.Timeout, log: log.WithComponent("probe")}
}

// Probe gathers what it can about path. ffprobe supplies duration,
// resolution and codec; embedded tags fill in title, genre and year.
// ErrNoResult means neither source yielded anything.
func (p *Prober) Probe(ctx context.Context, path string) (domain.FileMetadata, error) {
	if _, err := os.Stat(path); err != nil {
		return domain.FileMetadata{}, err
	}

	meta := domain.FileMetadata{Path: path}

	if probed, err := p.ffprobe(ctx, path); err != nil {
		p.log.Debug("ffprobe unavailable or failed", "path", path, "error", err)
	} else {
		meta.Merge(probed)
	}

	if tagged, err := readTags(path); err != nil {
		if !errors.Is(err, tag.ErrNoTagsFound) {
			p.log.Debug("tag read failed", "path", path, "error", err)
		}
	} else {
		meta.Merge(tagged)
	}

	if isEmpty(meta) {
		return domain.FileMetadata{}, domain.ErrNoResult
	}
	meta.Source = domain.MetadataSourceProbe
	return meta, nil
}

func isEmpty(m domain.FileMetadata) bool {
	return m.Title == "" && m.Genre == "" && m.Year == 0 && m.Duration == 0 &&
		m.Resolution == "" && m.Codec == ""
}

func (p *Prober) ffprobe(ctx context.Context, path string) (domain.FileMetadata, error) {
	bin, err := exec.LookPath(p.bin)
	if err != nil {
		return domain.FileMetadata{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	).Output()
	if err != nil {
		return domain.FileMetadata{}, fmt.Errorf("ffprobe: %w", err)
	}
	return parseFFprobeOutput(out)
}

type ffprobeOutput struct {
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func parseFFprobeOutput(data []byte) (domain.FileMetadata, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.FileMetadata{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var m domain.FileMetadata
	if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		m.Duration = int(d)
	}

	tags := lowerKeys(result.Format.Tags)
	m.Title = tags["title"]
	m.Genre = tags["genre"]
	m.Year = parseYear(firstOf(tags, "date", "year", "creation_time"))

	for _, s := range result.Streams {
		if s.CodecType != "video" {
			continue
		}
		m.Codec = s.CodecName
		if s.Width > 0 && s.Height > 0 {
			m.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
		break
	}
	return m, nil
}

func readTags(path string) (domain.FileMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.FileMetadata{}, err
	}
	defer f.Close() //nolint:errcheck // read-only

	md, err := tag.ReadFrom(f)
	if err != nil {
		return domain.FileMetadata{}, err
	}
	return domain.FileMetadata{
		Title: strings.TrimSpace(md.Title()),
		Genre: strings.TrimSpace(md.Genre()),
		Year:  md.Year(),
	}, nil
}

// parseYear takes the leading four digits of a date-ish string.
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y < 1800 || y > 3000 {
		return 0
	}
	return y
}

func lowerKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToLower(k)] = strings.TrimSpace(v)
	}
	return out
}

func firstOf(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}
