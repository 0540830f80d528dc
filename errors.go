package tablet

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned by Events after Close.
var ErrSessionClosed = errors.New("tablet: session closed")

// TransportError reports a failed flush or read on the underlying Wayland
// connection. A session that returned one is permanently unusable; every
// later Events call returns the same error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tablet: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
