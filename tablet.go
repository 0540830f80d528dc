package tablet

import (
	"context"
	"fmt"

	"github.com/bnema/wlturbo/wl"

	"github.com/gennyble/wayland-tablet/internal/client"
	"github.com/gennyble/wayland-tablet/internal/logger"
	"github.com/gennyble/wayland-tablet/internal/protocols"
)

// Versions requested for the two discovery globals. The seat binds at the
// advertised version when the compositor offers less than we ask for.
const (
	seatVersion          = 7
	tabletManagerVersion = 1
)

// Session is a pollable view of the tablet input on one Wayland seat.
// Construct it with NewSession or Attach, then call Events repeatedly;
// each call drives one round of I/O and returns what accumulated.
//
// A Session is not safe for concurrent use. All calls, including the
// constructor, belong on one goroutine.
type Session struct {
	client     *client.Client
	disp       *dispatcher
	manager    *protocols.TabletManager
	tabletSeat *protocols.TabletSeat

	err    error
	closed bool
}

// NewSession connects to the default Wayland display and performs the
// initial discovery roundtrip. The context covers setup only; cancelling
// it abandons the connection attempt, it does not affect a session that
// was already returned. The session owns the connection and Close tears
// it down.
func NewSession(ctx context.Context) (*Session, error) {
	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	type connectResult struct {
		client *client.Client
		err    error
	}

	connectCh := make(chan connectResult, 1)
	go func() {
		c, err := client.Connect()
		connectCh <- connectResult{client: c, err: err}
	}()

	// Wait for the connection or context cancellation
	var c *client.Client
	select {
	case result := <-connectCh:
		if result.err != nil {
			return nil, fmt.Errorf("failed to create Wayland client: %w", result.err)
		}
		c = result.client
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled during client creation: %w", ctx.Err())
	}

	s := newSession(c)

	// Run the discovery roundtrip with context support
	setupDone := make(chan error, 1)
	go func() {
		setupDone <- s.setup()
	}()

	select {
	case err := <-setupDone:
		if err != nil {
			_ = c.Close()
			return nil, err
		}
	case <-ctx.Done():
		_ = c.Close()
		return nil, fmt.Errorf("context cancelled during discovery: %w", ctx.Err())
	}

	return s, nil
}

// Attach builds a session on top of a caller-owned display connection
// and performs the initial discovery roundtrip on it. The caller keeps
// responsibility for the connection's lifetime; Close destroys the
// session's protocol objects but leaves the connection open.
func Attach(display *wl.Display) (*Session, error) {
	s := newSession(client.Attach(display))
	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(c *client.Client) *Session {
	s := &Session{client: c}
	s.disp = newDispatcher(s.bindTabletSeat)
	// The global handler has to be in place before the discovery
	// roundtrip announces anything.
	c.GetRegistry().AddGlobalHandler(s)
	return s
}

// setup runs the initial synchronous roundtrip. The server announces its
// globals during it and HandleRegistryGlobal routes the two interesting
// ones into the dispatcher.
func (s *Session) setup() error {
	if err := s.client.Roundtrip(); err != nil {
		return &TransportError{Op: "roundtrip", Err: err}
	}
	if s.err != nil {
		return s.err
	}
	if !s.disp.bound() {
		logger.Warn("tablet seat not bound after discovery; compositor may lack wl_seat or zwp_tablet_manager_v2 support")
	}
	return nil
}

// HandleRegistryGlobal implements wl.RegistryGlobalHandler. Discovery
// cares about exactly two globals, wl_seat and zwp_tablet_manager_v2,
// which the compositor announces in whatever order it likes; the
// dispatcher reconciles them.
func (s *Session) HandleRegistryGlobal(event wl.RegistryGlobalEvent) {
	if s.err != nil {
		return
	}

	switch event.Interface {
	case "wl_seat":
		version := uint32(seatVersion)
		if event.Version < version {
			version = event.Version
		}
		seat, err := s.client.BindSeat(event.Name, version)
		if err != nil {
			s.fail("bind", err)
			return
		}
		s.feed(seatDiscovered{seat: seat})

	case protocols.TabletManagerInterface:
		manager := protocols.NewTabletManager(s.client.GetContext())
		if err := s.client.GetRegistry().Bind(event.Name, event.Interface, tabletManagerVersion, manager); err != nil {
			s.fail("bind", err)
			return
		}
		if s.manager == nil {
			s.manager = manager
		}
		s.feed(managerDiscovered{manager: manager})
	}
}

// bindTabletSeat is the dispatcher's bind function. It issues
// get_tablet_seat on the manager and wires the tablet seat's events back
// into the session.
func (s *Session) bindTabletSeat(manager *protocols.TabletManager, seat *wl.Seat) error {
	tabletSeat, err := manager.GetTabletSeat(seat)
	if err != nil {
		return err
	}
	tabletSeat.SetToolAddedHandler(s.toolAdded)
	tabletSeat.SetTabletAddedHandler(tabletAdded)
	s.tabletSeat = tabletSeat
	return nil
}

// tabletAdded only logs the device; tablets themselves carry no input.
func tabletAdded(tablet *protocols.Tablet) {
	tablet.SetNameHandler(func(name string) {
		logger.Debug("tablet announced", "name", name)
	})
	tablet.SetPathHandler(func(path string) {
		logger.Debug("tablet path", "path", path)
	})
}

// toolAdded wires a freshly announced tool's events into dispatcher
// notifications keyed by the tool's protocol object ID. The handlers
// only build notifications; every state change happens inside dispatch.
func (s *Session) toolAdded(tool *protocols.TabletTool) {
	key := tool.ID()
	s.feed(toolAnnounced{key: key})

	tool.SetTypeHandler(func(toolType uint32) {
		s.feed(toolTypeReported{key: key, toolType: ToolType(toolType)})
	})
	tool.SetCapabilityHandler(func(capability uint32) {
		s.feed(toolCapabilityReported{key: key, flag: capability})
	})
	tool.SetDoneHandler(func() {
		s.feed(toolDone{key: key})
	})
	tool.SetRemovedHandler(func() {
		s.feed(toolRemoved{key: key})
	})
	tool.SetDownHandler(func(_ uint32) {
		s.feed(toolDown{key: key})
	})
	tool.SetUpHandler(func() {
		s.feed(toolUp{key: key})
	})
	tool.SetMotionHandler(func(x, y wl.Fixed) {
		s.feed(toolMotion{key: key, x: float64(x) / 256.0, y: float64(y) / 256.0})
	})
	tool.SetPressureHandler(func(pressure uint32) {
		s.feed(toolPressure{key: key, raw: pressure})
	})
	tool.SetDistanceHandler(func(distance uint32) {
		s.feed(toolDistance{key: key, raw: distance})
	})
	tool.SetTiltHandler(func(tiltX, tiltY wl.Fixed) {
		s.feed(toolTilt{key: key, tiltX: float64(tiltX) / 256.0, tiltY: float64(tiltY) / 256.0})
	})
	tool.SetRotationHandler(func(degrees wl.Fixed) {
		s.feed(toolRotation{key: key, degrees: float64(degrees) / 256.0})
	})
	tool.SetSliderHandler(func(position int32) {
		s.feed(toolSlider{key: key, position: position})
	})
	tool.SetWheelHandler(func(degrees wl.Fixed, clicks int32) {
		s.feed(toolWheel{key: key, degrees: float64(degrees) / 256.0, clicks: clicks})
	})
}

// feed hands one notification to the dispatcher. A dispatch error can
// only come from the tablet seat bind request, which is a transport
// failure; it poisons the session and stops further feeding.
func (s *Session) feed(n notification) {
	if s.err != nil {
		return
	}
	if err := s.disp.dispatch(n); err != nil {
		s.fail("get_tablet_seat", err)
	}
}

func (s *Session) fail(op string, err error) {
	if s.err == nil {
		s.err = &TransportError{Op: op, Err: err}
		logger.Error("session unusable", "op", op, "err", err)
	}
}

// Events drives one poll cycle: a roundtrip flushes outstanding requests
// and dispatches everything the server sent, then the event queue is
// drained and returned in arrival order. A ToolCreated event always
// precedes other events carrying the same ID. A transport failure
// poisons the session; the same error comes back on every later call.
func (s *Session) Events() ([]Event, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.err != nil {
		return nil, s.err
	}
	if err := s.client.Roundtrip(); err != nil {
		s.fail("roundtrip", err)
		return nil, s.err
	}
	if s.err != nil {
		// A handler hit a transport failure while dispatching.
		return nil, s.err
	}
	return s.disp.drain(), nil
}

// Close destroys the session's protocol objects and, when the session
// opened the connection itself, closes it. Events returns
// ErrSessionClosed afterwards. Close is idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.tabletSeat != nil {
		_ = s.tabletSeat.Destroy()
	}
	if s.manager != nil {
		_ = s.manager.Destroy()
	}
	return s.client.Close()
}
