package domain

import "errors"

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStale means a resume point no longer matches the file on disk and
	// has been discarded.
	ErrStale = errors.New("stale record")
	// ErrInProgress means the same work is already running elsewhere.
	ErrInProgress = errors.New("already in progress")
	// ErrNoResult means an external tool finished without producing output.
	ErrNoResult = errors.New("no result")
)

// IsTransient reports whether err is a storage or I/O fault rather than one
// of the expected outcomes above.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStale),
		errors.Is(err, ErrInProgress),
		errors.Is(err, ErrNoResult):
		return false
	}
	return true
}
