// Package playback keeps resume points, recents, watch history and
// statistics in step with a running player.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
	"github.com/cesargomez89/reelbox/internal/logger"
)

// Store is the part of the persistent store a session writes to.
type Store interface {
	GetResume(path string, size int64, mtime float64) (*domain.ResumePoint, error)
	SetResume(path string, position, size int64, mtime float64) error
	DeleteResume(path string) (bool, error)
	AddRecent(path, profile string) error
	AddWatch(path string, duration int64, profile string) error
	RecordView(path string, minutes int, profile string) error
}

type Options struct {
	Path    string
	Size    int64
	ModTime float64 // unix seconds, as stored with resume points
	Profile string
	Store   Store
	Player  Player

	SaveInterval  time.Duration
	MinResume     time.Duration
	EndThreshold  time.Duration
	RecordHistory bool

	Now    func() time.Time
	Logger *logger.Logger
}

// Outcome is what a save did.
type Outcome int

const (
	// Skipped means nothing was written: position unknown or too early.
	Skipped Outcome = iota
	// Saved means a resume point was written.
	Saved
	// Completed means the file was treated as watched to the end.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Completed:
		return "completed"
	default:
		return "skipped"
	}
}

type Session struct {
	id      string
	opts    Options
	log     *logger.Logger
	started time.Time

	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	finished bool
	last     Outcome
}

func NewSession(opts Options) *Session {
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = constants.ResumeSaveInterval
	}
	if opts.MinResume <= 0 {
		opts.MinResume = constants.MinResumeTime
	}
	if opts.EndThreshold <= 0 {
		opts.EndThreshold = constants.EndThreshold
	}
	if opts.Profile == "" {
		opts.Profile = constants.DefaultProfile
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Player == nil {
		opts.Player = &ReportedPlayer{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	s := &Session{
		id:      uuid.NewString(),
		opts:    opts,
		started: opts.Now(),
		done:    make(chan struct{}),
	}
	s.log = log.WithComponent("playback").WithPath(opts.Path)
	return s
}

func (s *Session) ID() string      { return s.id }
func (s *Session) Path() string    { return s.opts.Path }
func (s *Session) Profile() string { return s.opts.Profile }
func (s *Session) Player() Player  { return s.opts.Player }

// Started is when the session was created.
func (s *Session) Started() time.Time { return s.started }

// StartPosition returns where playback should begin for the given resume
// action and records the file as recently played. "ask" returns the saved
// position so the host can offer it; "start" always returns zero.
func (s *Session) StartPosition(action string) time.Duration {
	if s.opts.Store == nil {
		return 0
	}
	if err := s.opts.Store.AddRecent(s.opts.Path, s.opts.Profile); err != nil {
		s.log.Warn("failed to record recent file", "error", err)
	}
	if action == constants.ResumeActionStart {
		return 0
	}

	rp, err := s.opts.Store.GetResume(s.opts.Path, s.opts.Size, s.opts.ModTime)
	switch {
	case err == nil:
		return time.Duration(rp.Position) * time.Second
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrStale):
		return 0
	default:
		s.log.Warn("failed to read resume point", "error", err)
		return 0
	}
}

// Save persists the current position. eof forces the end-of-file path.
// Near the end the resume point is dropped and, with history enabled, the
// view is logged; otherwise a position past MinResume becomes the resume
// point.
func (s *Session) Save(eof bool) (Outcome, error) {
	out, err := s.save(eof)
	s.mu.Lock()
	s.last = out
	s.mu.Unlock()
	return out, err
}

func (s *Session) save(eof bool) (Outcome, error) {
	if s.opts.Store == nil {
		return Skipped, nil
	}
	pos, ok := s.opts.Player.Position()
	if !ok {
		return Skipped, nil
	}
	length, hasLength := s.opts.Player.Length()

	nearEnd := eof || (hasLength && length > 0 && pos >= length-s.opts.EndThreshold)
	if nearEnd {
		return Completed, s.complete(pos)
	}

	if pos <= s.opts.MinResume {
		return Skipped, nil
	}
	secs := int64(pos / time.Second)
	if err := s.opts.Store.SetResume(s.opts.Path, secs, s.opts.Size, s.opts.ModTime); err != nil {
		return Skipped, fmt.Errorf("save resume: %w", err)
	}
	s.log.Debug("saved resume point", "position", secs)
	return Saved, nil
}

func (s *Session) complete(pos time.Duration) error {
	var errs []error
	if _, err := s.opts.Store.DeleteResume(s.opts.Path); err != nil {
		errs = append(errs, fmt.Errorf("delete resume: %w", err))
	}
	if s.opts.RecordHistory {
		secs := int64(pos / time.Second)
		if err := s.opts.Store.AddWatch(s.opts.Path, secs, s.opts.Profile); err != nil {
			errs = append(errs, fmt.Errorf("add watch: %w", err))
		}
		if err := s.opts.Store.RecordView(s.opts.Path, int(secs/60), s.opts.Profile); err != nil {
			errs = append(errs, fmt.Errorf("record view: %w", err))
		}
	}
	s.log.Debug("playback completed", "position", pos)
	return errors.Join(errs...)
}

// Run saves every SaveInterval until ctx ends or Finish is called.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			if _, err := s.Save(false); err != nil {
				s.log.Warn("periodic save failed", "error", err)
			}
		}
	}
}

// Finish stops the periodic loop and performs the final save. Later calls
// are no-ops.
func (s *Session) Finish(eof bool) (Outcome, error) {
	s.mu.Lock()
	if s.finished {
		last := s.last
		s.mu.Unlock()
		return last, nil
	}
	s.finished = true
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.done) })
	return s.Save(eof)
}

// Finished reports whether Finish has run.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Last is the outcome of the most recent save.
func (s *Session) Last() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
