// Package protocols implements the client side of the
// tablet-unstable-v2 Wayland protocol on top of wlturbo.
package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Protocol interface names
const (
	TabletManagerInterface  = "zwp_tablet_manager_v2"
	TabletSeatInterface     = "zwp_tablet_seat_v2"
	TabletToolInterface     = "zwp_tablet_tool_v2"
	TabletInterface         = "zwp_tablet_v2"
	TabletPadInterface      = "zwp_tablet_pad_v2"
	TabletPadGroupInterface = "zwp_tablet_pad_group_v2"
	TabletPadRingInterface  = "zwp_tablet_pad_ring_v2"
	TabletPadStripInterface = "zwp_tablet_pad_strip_v2"
)

// Tool capability values from the zwp_tablet_tool_v2 capability enum
const (
	ToolCapabilityTilt     = 1
	ToolCapabilityPressure = 2
	ToolCapabilityDistance = 3
	ToolCapabilityRotation = 4
	ToolCapabilitySlider   = 5
	ToolCapabilityWheel    = 6
)

// Button state values from the zwp_tablet_tool_v2 button_state enum
const (
	ToolButtonStateReleased = 0
	ToolButtonStatePressed  = 1
)

// TabletManager is the global entry point for tablet input on a seat
type TabletManager struct {
	wl.BaseProxy
}

// NewTabletManager creates a new tablet manager, ready to be bound through
// the registry
func NewTabletManager(ctx *wl.Context) *TabletManager {
	manager := &TabletManager{}
	manager.SetContext(ctx)
	ctx.Register(manager)
	return manager
}

// GetTabletSeat requests the tablet seat for the given wl_seat
func (m *TabletManager) GetTabletSeat(seat *wl.Seat) (*TabletSeat, error) {
	// Allocate ID for the new tablet seat object
	seatID := m.Context().AllocateID()

	tabletSeat := &TabletSeat{}
	tabletSeat.SetContext(m.Context())
	tabletSeat.SetID(seatID)
	m.Context().Register(tabletSeat)

	// Opcode 0: get_tablet_seat
	const opcode = 0

	err := m.Context().SendRequest(m, opcode, tabletSeat, seat)
	if err != nil {
		m.Context().Unregister(tabletSeat)
		return nil, err
	}

	return tabletSeat, nil
}

// Destroy destroys the tablet manager
func (m *TabletManager) Destroy() error {
	// Opcode 1: destroy
	const opcode = 1
	err := m.Context().SendRequest(m, opcode)
	m.Context().Unregister(m)
	return err
}

// Dispatch handles incoming events (tablet manager has no events)
func (m *TabletManager) Dispatch(_ *wl.Event) {
	// Tablet manager has no events
}

// TabletSeat reports tablets, tools and pads as they become available on
// the seat
type TabletSeat struct {
	wl.BaseProxy
	tabletAddedHandler func(*Tablet)
	toolAddedHandler   func(*TabletTool)
	padAddedHandler    func(*TabletPad)
}

// SetTabletAddedHandler sets the handler for new tablet devices
func (s *TabletSeat) SetTabletAddedHandler(handler func(*Tablet)) {
	s.tabletAddedHandler = handler
}

// SetToolAddedHandler sets the handler for new tablet tools
func (s *TabletSeat) SetToolAddedHandler(handler func(*TabletTool)) {
	s.toolAddedHandler = handler
}

// SetPadAddedHandler sets the handler for new tablet pads
func (s *TabletSeat) SetPadAddedHandler(handler func(*TabletPad)) {
	s.padAddedHandler = handler
}

// Destroy destroys the tablet seat
func (s *TabletSeat) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := s.Context().SendRequest(s, opcode)
	s.Context().Unregister(s)
	return err
}

// Dispatch handles incoming events
func (s *TabletSeat) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // tablet_added
		proxy := event.NewID()
		tablet := NewTablet(s.Context())
		tablet.SetID(proxy.ID())
		tablet.SetContext(s.Context())
		s.Context().Register(tablet)
		if s.tabletAddedHandler != nil {
			s.tabletAddedHandler(tablet)
		}
	case 1: // tool_added
		proxy := event.NewID()
		tool := NewTabletTool(s.Context())
		tool.SetID(proxy.ID())
		tool.SetContext(s.Context())
		s.Context().Register(tool)
		if s.toolAddedHandler != nil {
			s.toolAddedHandler(tool)
		}
	case 2: // pad_added
		proxy := event.NewID()
		pad := NewTabletPad(s.Context())
		pad.SetID(proxy.ID())
		pad.SetContext(s.Context())
		s.Context().Register(pad)
		if s.padAddedHandler != nil {
			s.padAddedHandler(pad)
		}
	}
}

// TabletTool represents a physical tool used on a tablet, a pen for
// example. The server describes the tool with a burst of descriptive
// events terminated by done; axis events only arrive after that.
type TabletTool struct {
	wl.BaseProxy
	typeHandler            func(uint32)
	hardwareSerialHandler  func(uint32, uint32)
	hardwareIDWacomHandler func(uint32, uint32)
	capabilityHandler      func(uint32)
	doneHandler            func()
	removedHandler         func()
	proximityInHandler     func(uint32, uint32, uint32)
	proximityOutHandler    func()
	downHandler            func(uint32)
	upHandler              func()
	motionHandler          func(wl.Fixed, wl.Fixed)
	pressureHandler        func(uint32)
	distanceHandler        func(uint32)
	tiltHandler            func(wl.Fixed, wl.Fixed)
	rotationHandler        func(wl.Fixed)
	sliderHandler          func(int32)
	wheelHandler           func(wl.Fixed, int32)
	buttonHandler          func(uint32, uint32, uint32)
	frameHandler           func(uint32)
}

// NewTabletTool creates a new tablet tool
func NewTabletTool(ctx *wl.Context) *TabletTool {
	tool := &TabletTool{}
	tool.SetContext(ctx)
	return tool
}

// SetTypeHandler sets the handler for tool type events
func (t *TabletTool) SetTypeHandler(handler func(toolType uint32)) {
	t.typeHandler = handler
}

// SetHardwareSerialHandler sets the handler for hardware serial events
func (t *TabletTool) SetHardwareSerialHandler(handler func(hi, lo uint32)) {
	t.hardwareSerialHandler = handler
}

// SetHardwareIDWacomHandler sets the handler for Wacom hardware ID events
func (t *TabletTool) SetHardwareIDWacomHandler(handler func(hi, lo uint32)) {
	t.hardwareIDWacomHandler = handler
}

// SetCapabilityHandler sets the handler for capability events
func (t *TabletTool) SetCapabilityHandler(handler func(capability uint32)) {
	t.capabilityHandler = handler
}

// SetDoneHandler sets the handler for the end of the descriptive burst
func (t *TabletTool) SetDoneHandler(handler func()) {
	t.doneHandler = handler
}

// SetRemovedHandler sets the handler for removed events
func (t *TabletTool) SetRemovedHandler(handler func()) {
	t.removedHandler = handler
}

// SetProximityInHandler sets the handler for proximity_in events. The
// tablet and surface arguments are the raw object IDs sent by the server.
func (t *TabletTool) SetProximityInHandler(handler func(serial, tablet, surface uint32)) {
	t.proximityInHandler = handler
}

// SetProximityOutHandler sets the handler for proximity_out events
func (t *TabletTool) SetProximityOutHandler(handler func()) {
	t.proximityOutHandler = handler
}

// SetDownHandler sets the handler for contact down events
func (t *TabletTool) SetDownHandler(handler func(serial uint32)) {
	t.downHandler = handler
}

// SetUpHandler sets the handler for contact up events
func (t *TabletTool) SetUpHandler(handler func()) {
	t.upHandler = handler
}

// SetMotionHandler sets the handler for motion events
func (t *TabletTool) SetMotionHandler(handler func(x, y wl.Fixed)) {
	t.motionHandler = handler
}

// SetPressureHandler sets the handler for pressure events
func (t *TabletTool) SetPressureHandler(handler func(pressure uint32)) {
	t.pressureHandler = handler
}

// SetDistanceHandler sets the handler for distance events
func (t *TabletTool) SetDistanceHandler(handler func(distance uint32)) {
	t.distanceHandler = handler
}

// SetTiltHandler sets the handler for tilt events
func (t *TabletTool) SetTiltHandler(handler func(tiltX, tiltY wl.Fixed)) {
	t.tiltHandler = handler
}

// SetRotationHandler sets the handler for rotation events
func (t *TabletTool) SetRotationHandler(handler func(degrees wl.Fixed)) {
	t.rotationHandler = handler
}

// SetSliderHandler sets the handler for slider events
func (t *TabletTool) SetSliderHandler(handler func(position int32)) {
	t.sliderHandler = handler
}

// SetWheelHandler sets the handler for wheel events
func (t *TabletTool) SetWheelHandler(handler func(degrees wl.Fixed, clicks int32)) {
	t.wheelHandler = handler
}

// SetButtonHandler sets the handler for button events
func (t *TabletTool) SetButtonHandler(handler func(serial, button, state uint32)) {
	t.buttonHandler = handler
}

// SetFrameHandler sets the handler for frame events
func (t *TabletTool) SetFrameHandler(handler func(time uint32)) {
	t.frameHandler = handler
}

// SetCursor sets the surface used as the cursor while this tool is in
// proximity
func (t *TabletTool) SetCursor(serial uint32, surface *wl.Surface, hotspotX, hotspotY int32) error {
	// Opcode 0: set_cursor
	const opcode = 0
	return t.Context().SendRequest(t, opcode, serial, surface, hotspotX, hotspotY)
}

// Destroy destroys the tablet tool
func (t *TabletTool) Destroy() error {
	// Opcode 1: destroy
	const opcode = 1
	err := t.Context().SendRequest(t, opcode)
	t.Context().Unregister(t)
	return err
}

// Dispatch handles incoming events
func (t *TabletTool) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // type
		if t.typeHandler != nil {
			toolType := event.Uint32()
			t.typeHandler(toolType)
		}
	case 1: // hardware_serial
		if t.hardwareSerialHandler != nil {
			hi := event.Uint32()
			lo := event.Uint32()
			t.hardwareSerialHandler(hi, lo)
		}
	case 2: // hardware_id_wacom
		if t.hardwareIDWacomHandler != nil {
			hi := event.Uint32()
			lo := event.Uint32()
			t.hardwareIDWacomHandler(hi, lo)
		}
	case 3: // capability
		if t.capabilityHandler != nil {
			capability := event.Uint32()
			t.capabilityHandler(capability)
		}
	case 4: // done
		if t.doneHandler != nil {
			t.doneHandler()
		}
	case 5: // removed
		if t.removedHandler != nil {
			t.removedHandler()
		}
		t.Context().Unregister(t)
	case 6: // proximity_in
		if t.proximityInHandler != nil {
			serial := event.Uint32()
			tablet := event.Uint32()
			surface := event.Uint32()
			t.proximityInHandler(serial, tablet, surface)
		}
	case 7: // proximity_out
		if t.proximityOutHandler != nil {
			t.proximityOutHandler()
		}
	case 8: // down
		if t.downHandler != nil {
			serial := event.Uint32()
			t.downHandler(serial)
		}
	case 9: // up
		if t.upHandler != nil {
			t.upHandler()
		}
	case 10: // motion
		if t.motionHandler != nil {
			x := wl.Fixed(event.Int32())
			y := wl.Fixed(event.Int32())
			t.motionHandler(x, y)
		}
	case 11: // pressure
		if t.pressureHandler != nil {
			pressure := event.Uint32()
			t.pressureHandler(pressure)
		}
	case 12: // distance
		if t.distanceHandler != nil {
			distance := event.Uint32()
			t.distanceHandler(distance)
		}
	case 13: // tilt
		if t.tiltHandler != nil {
			tiltX := wl.Fixed(event.Int32())
			tiltY := wl.Fixed(event.Int32())
			t.tiltHandler(tiltX, tiltY)
		}
	case 14: // rotation
		if t.rotationHandler != nil {
			degrees := wl.Fixed(event.Int32())
			t.rotationHandler(degrees)
		}
	case 15: // slider
		if t.sliderHandler != nil {
			position := event.Int32()
			t.sliderHandler(position)
		}
	case 16: // wheel
		if t.wheelHandler != nil {
			degrees := wl.Fixed(event.Int32())
			clicks := event.Int32()
			t.wheelHandler(degrees, clicks)
		}
	case 17: // button
		if t.buttonHandler != nil {
			serial := event.Uint32()
			button := event.Uint32()
			state := event.Uint32()
			t.buttonHandler(serial, button, state)
		}
	case 18: // frame
		if t.frameHandler != nil {
			time := event.Uint32()
			t.frameHandler(time)
		}
	}
}

// Tablet represents a physical tablet device
type Tablet struct {
	wl.BaseProxy
	nameHandler    func(string)
	idHandler      func(uint32, uint32)
	pathHandler    func(string)
	doneHandler    func()
	removedHandler func()
}

// NewTablet creates a new tablet
func NewTablet(ctx *wl.Context) *Tablet {
	tablet := &Tablet{}
	tablet.SetContext(ctx)
	return tablet
}

// SetNameHandler sets the handler for name events
func (t *Tablet) SetNameHandler(handler func(name string)) {
	t.nameHandler = handler
}

// SetIDHandler sets the handler for USB vendor/product ID events
func (t *Tablet) SetIDHandler(handler func(vid, pid uint32)) {
	t.idHandler = handler
}

// SetPathHandler sets the handler for system path events
func (t *Tablet) SetPathHandler(handler func(path string)) {
	t.pathHandler = handler
}

// SetDoneHandler sets the handler for the end of the descriptive burst
func (t *Tablet) SetDoneHandler(handler func()) {
	t.doneHandler = handler
}

// SetRemovedHandler sets the handler for removed events
func (t *Tablet) SetRemovedHandler(handler func()) {
	t.removedHandler = handler
}

// Destroy destroys the tablet
func (t *Tablet) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := t.Context().SendRequest(t, opcode)
	t.Context().Unregister(t)
	return err
}

// Dispatch handles incoming events
func (t *Tablet) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // name
		if t.nameHandler != nil {
			name := event.String()
			t.nameHandler(name)
		}
	case 1: // id
		if t.idHandler != nil {
			vid := event.Uint32()
			pid := event.Uint32()
			t.idHandler(vid, pid)
		}
	case 2: // path
		if t.pathHandler != nil {
			path := event.String()
			t.pathHandler(path)
		}
	case 3: // done
		if t.doneHandler != nil {
			t.doneHandler()
		}
	case 4: // removed
		if t.removedHandler != nil {
			t.removedHandler()
		}
		t.Context().Unregister(t)
	}
}

// TabletPad represents the set of buttons, rings and strips on a tablet.
// The pad is kept registered so server events have a dispatch target, but
// pad input is otherwise ignored here; group, ring and strip objects the
// server creates are registered the same way.
type TabletPad struct {
	wl.BaseProxy
}

// NewTabletPad creates a new tablet pad
func NewTabletPad(ctx *wl.Context) *TabletPad {
	pad := &TabletPad{}
	pad.SetContext(ctx)
	return pad
}

// Destroy destroys the tablet pad
func (p *TabletPad) Destroy() error {
	// Opcode 1: destroy
	const opcode = 1
	err := p.Context().SendRequest(p, opcode)
	p.Context().Unregister(p)
	return err
}

// Dispatch handles incoming events
func (p *TabletPad) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 0: // group
		proxy := event.NewID()
		group := NewTabletPadGroup(p.Context())
		group.SetID(proxy.ID())
		group.SetContext(p.Context())
		p.Context().Register(group)
	case 7: // removed
		p.Context().Unregister(p)
	}
}

// TabletPadGroup represents one mode group of a pad
type TabletPadGroup struct {
	wl.BaseProxy
}

// NewTabletPadGroup creates a new tablet pad group
func NewTabletPadGroup(ctx *wl.Context) *TabletPadGroup {
	group := &TabletPadGroup{}
	group.SetContext(ctx)
	return group
}

// Destroy destroys the tablet pad group
func (g *TabletPadGroup) Destroy() error {
	// Opcode 0: destroy
	const opcode = 0
	err := g.Context().SendRequest(g, opcode)
	g.Context().Unregister(g)
	return err
}

// Dispatch handles incoming events
func (g *TabletPadGroup) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case 1: // ring
		proxy := event.NewID()
		ring := NewTabletPadRing(g.Context())
		ring.SetID(proxy.ID())
		ring.SetContext(g.Context())
		g.Context().Register(ring)
	case 2: // strip
		proxy := event.NewID()
		strip := NewTabletPadStrip(g.Context())
		strip.SetID(proxy.ID())
		strip.SetContext(g.Context())
		g.Context().Register(strip)
	}
}

// TabletPadRing represents a touch ring on a pad
type TabletPadRing struct {
	wl.BaseProxy
}

// NewTabletPadRing creates a new tablet pad ring
func NewTabletPadRing(ctx *wl.Context) *TabletPadRing {
	ring := &TabletPadRing{}
	ring.SetContext(ctx)
	return ring
}

// Destroy destroys the tablet pad ring
func (r *TabletPadRing) Destroy() error {
	// Opcode 1: destroy
	const opcode = 1
	err := r.Context().SendRequest(r, opcode)
	r.Context().Unregister(r)
	return err
}

// Dispatch handles incoming events (ring input is ignored)
func (r *TabletPadRing) Dispatch(_ *wl.Event) {
}

// TabletPadStrip represents a touch strip on a pad
type TabletPadStrip struct {
	wl.BaseProxy
}

// NewTabletPadStrip creates a new tablet pad strip
func NewTabletPadStrip(ctx *wl.Context) *TabletPadStrip {
	strip := &TabletPadStrip{}
	strip.SetContext(ctx)
	return strip
}

// Destroy destroys the tablet pad strip
func (s *TabletPadStrip) Destroy() error {
	// Opcode 1: destroy
	const opcode = 1
	err := s.Context().SendRequest(s, opcode)
	s.Context().Unregister(s)
	return err
}

// Dispatch handles incoming events (strip input is ignored)
func (s *TabletPadStrip) Dispatch(_ *wl.Event) {
}
