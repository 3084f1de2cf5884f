package scanner

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handle is a scan running in its own goroutine. The result becomes
// visible only once Done is closed.
type Handle struct {
	id      string
	scanner *Scanner
	cancel  context.CancelFunc
	done    chan struct{}

	mu     sync.Mutex
	result Result
}

// Start runs the scan in the background.
func (s *Scanner) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:      uuid.NewString(),
		scanner: s,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		res := s.Scan(ctx)
		h.mu.Lock()
		h.result = res
		h.mu.Unlock()
	}()
	return h
}

func (h *Handle) ID() string {
	return h.id
}

// Stop requests cooperative cancellation; it does not wait.
func (h *Handle) Stop() {
	h.scanner.Stop()
	h.cancel()
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Poll returns the result if the scan has finished.
func (h *Handle) Poll() (Result, bool) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the scan finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
