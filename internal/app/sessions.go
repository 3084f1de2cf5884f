package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/metrics"
	"github.com/cesargomez89/reelbox/internal/playback"
)

type session struct {
	*playback.Session
	player *playback.ReportedPlayer
	done   chan struct{}
}

// PlaybackStart tells the host where to begin.
type PlaybackStart struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	StartSeconds int64  `json:"start_seconds"`
	// Ask means the host should offer StartSeconds rather than seek to it.
	Ask      bool   `json:"ask"`
	Subtitle string `json:"subtitle,omitempty"`
}

// PlaybackStop reports what the final save did.
type PlaybackStop struct {
	Outcome string `json:"outcome"`
	Next    string `json:"next,omitempty"`
}

// StartPlayback opens a session for path. The file must exist; its size
// and mtime pin any resume point written later.
func (l *Library) StartPlayback(path, action string) (PlaybackStart, error) {
	size, mtime, err := fileStat(path)
	if err != nil {
		return PlaybackStart{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if action == "" {
		action = l.cfg.ResumeAction
	}

	var st playback.Store
	if l.db != nil {
		st = l.db
	}
	player := &playback.ReportedPlayer{}
	s := playback.NewSession(playback.Options{
		Path:          path,
		Size:          size,
		ModTime:       mtime,
		Profile:       l.Profile(),
		Store:         st,
		Player:        player,
		SaveInterval:  l.cfg.ResumeSaveInterval,
		MinResume:     l.cfg.MinResume(),
		EndThreshold:  l.cfg.EndThreshold(),
		RecordHistory: l.cfg.EnableWatchHistory,
		Now:           l.now,
		Logger:        l.log.WithProfile(l.Profile()),
	})

	start := s.StartPosition(action)
	entry := &session{Session: s, player: player, done: make(chan struct{})}

	l.mu.Lock()
	l.sessions[s.ID()] = entry
	l.mu.Unlock()
	metrics.ActiveSessions.Inc()

	go func() {
		defer close(entry.done)
		s.Run(l.ctx)
	}()

	out := PlaybackStart{
		ID:           s.ID(),
		Path:         path,
		StartSeconds: int64(start / time.Second),
		Ask:          start > 0 && action == "ask",
	}
	if sub, ok := playback.FindSubtitle(path, nil); ok {
		out.Subtitle = sub
	}
	return out, nil
}

// ReportProgress feeds the host's current position into a session.
func (l *Library) ReportProgress(id string, position, length time.Duration) bool {
	l.mu.Lock()
	s, ok := l.sessions[id]
	l.mu.Unlock()
	if !ok {
		return false
	}
	s.player.Report(position, length)
	return true
}

// StopPlayback ends a session with a final save. With auto-play and
// series detection on, Next names the following episode if there is one.
func (l *Library) StopPlayback(id string, eof bool) (PlaybackStop, error) {
	l.mu.Lock()
	s, ok := l.sessions[id]
	delete(l.sessions, id)
	l.mu.Unlock()
	if !ok {
		return PlaybackStop{}, domain.ErrNotFound
	}

	out := PlaybackStop{Outcome: l.finish(s, eof).String()}
	if l.cfg.AutoPlayNext && l.cfg.DetectSeries {
		if next, ok := playback.NextEpisode(s.Path(), l.cfg.MediaExtensions); ok {
			out.Next = next
		}
	}
	return out, nil
}

func (l *Library) finish(s *session, eof bool) playback.Outcome {
	out, err := s.Finish(eof)
	<-s.done
	metrics.ActiveSessions.Dec()
	if err != nil {
		l.fault("playback", "final save", err)
	}
	if out != playback.Skipped {
		l.invalidate(s.Path())
	}
	return out
}

// Sessions lists open session ids.
func (l *Library) Sessions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.sessions))
	for id := range l.sessions {
		ids = append(ids, id)
	}
	return ids
}

// IsNotFound reports whether err means an unknown session or record.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
