package tablet

import (
	"errors"
	"testing"

	"github.com/bnema/wlturbo/wl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gennyble/wayland-tablet/internal/protocols"
)

func TestEventsAfterTransportFailure(t *testing.T) {
	s := &Session{disp: newDispatcher(nil)}
	cause := errors.New("broken pipe")
	s.fail("roundtrip", cause)

	_, err := s.Events()
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "roundtrip", transportErr.Op)
	assert.ErrorIs(t, err, cause)

	// The session stays poisoned: every later call returns the same error.
	_, again := s.Events()
	assert.Same(t, err, again)
}

func TestEventsAfterClose(t *testing.T) {
	s := &Session{disp: newDispatcher(nil), closed: true}

	_, err := s.Events()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestFailKeepsFirstError(t *testing.T) {
	s := &Session{disp: newDispatcher(nil)}
	first := errors.New("first")
	s.fail("flush", first)
	s.fail("roundtrip", errors.New("second"))

	var transportErr *TransportError
	require.ErrorAs(t, s.err, &transportErr)
	assert.Equal(t, "flush", transportErr.Op)
	assert.ErrorIs(t, s.err, first)
}

func TestFeedStopsAfterFailure(t *testing.T) {
	s := &Session{}
	s.disp = newDispatcher(func(*protocols.TabletManager, *wl.Seat) error {
		return errors.New("write failed")
	})

	s.feed(seatDiscovered{seat: &wl.Seat{}})
	s.feed(managerDiscovered{manager: &protocols.TabletManager{}})
	require.Error(t, s.err)

	var transportErr *TransportError
	require.ErrorAs(t, s.err, &transportErr)
	assert.Equal(t, "get_tablet_seat", transportErr.Op)

	// Later notifications are dropped without reaching the dispatcher.
	s.feed(toolAnnounced{key: 1})
	assert.Empty(t, s.disp.pending)
}

func TestTransportErrorFormat(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{Op: "roundtrip", Err: cause}

	assert.Equal(t, "tablet: transport roundtrip: connection reset", err.Error())
	assert.Same(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}
