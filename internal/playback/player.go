package playback

import (
	"sync"
	"time"
)

// Player reports where playback currently is. ok is false while the
// value is not known yet.
type Player interface {
	Position() (time.Duration, bool)
	Length() (time.Duration, bool)
}

// ReportedPlayer is a Player whose values are pushed by the host, which
// owns the real decoder.
type ReportedPlayer struct {
	mu        sync.Mutex
	position  time.Duration
	length    time.Duration
	hasPos    bool
	hasLength bool
}

// Report records the latest position. A non-positive length leaves the
// previous length in place.
func (p *ReportedPlayer) Report(position, length time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if position < 0 {
		position = 0
	}
	p.position = position
	p.hasPos = true
	if length > 0 {
		p.length = length
		p.hasLength = true
	}
}

func (p *ReportedPlayer) Position() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position, p.hasPos
}

func (p *ReportedPlayer) Length() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.length, p.hasLength
}
