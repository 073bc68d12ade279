package lotto

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults is returned when the API has nothing for the requested game.
	ErrNoResults = errors.New("no results for game")
	// ErrDrawNotReady is returned while prizes for the latest draw are still
	// being computed (the draw has no drawSystemId yet).
	ErrDrawNotReady = errors.New("draw prizes not ready")
)

// TransportError reports a failed request or a non-2xx response.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
