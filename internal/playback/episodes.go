package playback

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cesargomez89/reelbox/internal/constants"
)

var episodePattern = regexp.MustCompile(`[Ss](\d+)[Ee](\d+)|(\d+)x(\d+)`)

// FindSubtitle returns the first sidecar next to video whose extension is
// in exts, tried in order.
func FindSubtitle(video string, exts []string) (string, bool) {
	if exts == nil {
		exts = constants.SubtitleExtensions
	}
	base := strings.TrimSuffix(video, filepath.Ext(video))
	for _, ext := range exts {
		p := base + ext
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// ParseEpisode reads season and episode from names like "S01E02" or
// "1x02".
func ParseEpisode(name string) (season, episode int, ok bool) {
	m := episodePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	s, e := m[1], m[2]
	if s == "" {
		s, e = m[3], m[4]
	}
	season, err1 := strconv.Atoi(s)
	episode, err2 := strconv.Atoi(e)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return season, episode, true
}

// NextEpisode looks for the following episode of the same season in the
// directory of video. exts limits candidates to media files.
func NextEpisode(video string, exts []string) (string, bool) {
	season, episode, ok := ParseEpisode(filepath.Base(video))
	if !ok {
		return "", false
	}
	if exts == nil {
		exts = constants.MediaExtensions
	}
	media := make(map[string]bool, len(exts))
	for _, e := range exts {
		media[strings.ToLower(e)] = true
	}

	dir := filepath.Dir(video)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !media[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		s, e, ok := ParseEpisode(name)
		if ok && s == season && e == episode+1 {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}
