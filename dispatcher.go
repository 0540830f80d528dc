package tablet

import (
	"github.com/bnema/wlturbo/wl"

	"github.com/gennyble/wayland-tablet/internal/logger"
	"github.com/gennyble/wayland-tablet/internal/protocols"
)

// A notification is one normalized protocol occurrence fed to the
// dispatcher. Variants are plain values so the state machine can be driven
// in tests without a connection.
type notification interface {
	isNotification()
}

type seatDiscovered struct {
	seat *wl.Seat
}

type managerDiscovered struct {
	manager *protocols.TabletManager
}

type toolAnnounced struct {
	key uint32
}

type toolTypeReported struct {
	key      uint32
	toolType ToolType
}

type toolCapabilityReported struct {
	key  uint32
	flag uint32
}

type toolDone struct {
	key uint32
}

type toolRemoved struct {
	key uint32
}

type toolDown struct {
	key uint32
}

type toolUp struct {
	key uint32
}

type toolMotion struct {
	key  uint32
	x, y float64
}

type toolPressure struct {
	key uint32
	raw uint32
}

type toolDistance struct {
	key uint32
	raw uint32
}

type toolTilt struct {
	key          uint32
	tiltX, tiltY float64
}

type toolRotation struct {
	key     uint32
	degrees float64
}

type toolSlider struct {
	key      uint32
	position int32
}

type toolWheel struct {
	key     uint32
	degrees float64
	clicks  int32
}

func (seatDiscovered) isNotification()         {}
func (managerDiscovered) isNotification()      {}
func (toolAnnounced) isNotification()          {}
func (toolTypeReported) isNotification()       {}
func (toolCapabilityReported) isNotification() {}
func (toolDone) isNotification()               {}
func (toolRemoved) isNotification()            {}
func (toolDown) isNotification()               {}
func (toolUp) isNotification()                 {}
func (toolMotion) isNotification()             {}
func (toolPressure) isNotification()           {}
func (toolDistance) isNotification()           {}
func (toolTilt) isNotification()               {}
func (toolRotation) isNotification()           {}
func (toolSlider) isNotification()             {}
func (toolWheel) isNotification()              {}

// reconPhase tracks seat and tablet manager discovery. The seat and the
// manager are announced independently and in either order; the tablet seat
// is bound on whichever announcement completes the pair.
type reconPhase uint8

const (
	reconUnbound reconPhase = iota
	reconManagerPending
	reconSeatPending
	reconBound
)

// toolBuilder accumulates a tool's negotiation state between the seat
// announcing it and the done signal.
type toolBuilder struct {
	toolType ToolType
	typed    bool
	cap      Capability
}

func (b *toolBuilder) setCapability(flag uint32) {
	switch flag {
	case protocols.ToolCapabilityTilt:
		b.cap.Tilt = true
	case protocols.ToolCapabilityPressure:
		b.cap.Pressure = true
	case protocols.ToolCapabilityDistance:
		b.cap.Distance = true
	case protocols.ToolCapabilityRotation:
		b.cap.Rotation = true
	case protocols.ToolCapabilitySlider:
		b.cap.Slider = true
	case protocols.ToolCapabilityWheel:
		b.cap.Wheel = true
	default:
		// Unknown capability flags are ignored.
	}
}

// dispatcher is the single mutation point for all session state: the
// discovery phase, the in-flight tool builders, the tool ID counter, and
// the outgoing event queue. It never touches the transport itself; the
// bind function it is constructed with issues the one tablet seat request.
type dispatcher struct {
	bind func(*protocols.TabletManager, *wl.Seat) error

	phase   reconPhase
	manager *protocols.TabletManager
	seat    *wl.Seat

	pending   map[uint32]*toolBuilder
	committed map[uint32]ToolID
	nextID    ToolID

	queue []Event
}

func newDispatcher(bind func(*protocols.TabletManager, *wl.Seat) error) *dispatcher {
	return &dispatcher{
		bind:      bind,
		pending:   make(map[uint32]*toolBuilder),
		committed: make(map[uint32]ToolID),
	}
}

// dispatch applies one notification to the state machine. The returned
// error is non-nil only when binding the tablet seat failed, which is a
// transport failure.
func (d *dispatcher) dispatch(n notification) error {
	switch n := n.(type) {
	case seatDiscovered:
		return d.seatFound(n.seat)
	case managerDiscovered:
		return d.managerFound(n.manager)
	case toolAnnounced:
		d.pending[n.key] = &toolBuilder{}
	case toolTypeReported:
		if b, ok := d.pending[n.key]; ok {
			b.toolType = n.toolType
			b.typed = true
		}
	case toolCapabilityReported:
		if b, ok := d.pending[n.key]; ok {
			b.setCapability(n.flag)
		}
	case toolDone:
		d.commit(n.key)
	case toolRemoved:
		d.remove(n.key)
	case toolDown:
		if id, ok := d.committed[n.key]; ok {
			d.push(Down{ID: id})
		}
	case toolUp:
		if id, ok := d.committed[n.key]; ok {
			d.push(Up{ID: id})
		}
	case toolMotion:
		if id, ok := d.committed[n.key]; ok {
			d.push(Moved{ID: id, X: n.x, Y: n.y})
		}
	case toolPressure:
		if id, ok := d.committed[n.key]; ok {
			d.push(Pressure{ID: id, Pressure: float64(n.raw) / 65535.0})
		}
	case toolDistance:
		if id, ok := d.committed[n.key]; ok {
			d.push(Distance{ID: id, Distance: float64(n.raw)})
		}
	case toolTilt:
		if id, ok := d.committed[n.key]; ok {
			d.push(Tilt{ID: id, TiltX: n.tiltX, TiltY: n.tiltY})
		}
	case toolRotation:
		if id, ok := d.committed[n.key]; ok {
			d.push(Rotation{ID: id, Degrees: n.degrees})
		}
	case toolSlider:
		if id, ok := d.committed[n.key]; ok {
			d.push(Slider{ID: id, Position: float64(n.position)})
		}
	case toolWheel:
		if id, ok := d.committed[n.key]; ok {
			d.push(Wheel{ID: id, Degrees: n.degrees, Clicks: n.clicks})
		}
	}
	return nil
}

func (d *dispatcher) seatFound(seat *wl.Seat) error {
	if d.seat != nil {
		logger.Warn("got a second wl_seat, ignoring it, only one seat per session is supported")
		return nil
	}
	d.seat = seat
	if d.phase == reconManagerPending {
		return d.bindTabletSeat()
	}
	d.phase = reconSeatPending
	logger.Debug("seat discovered, waiting for tablet manager")
	return nil
}

func (d *dispatcher) managerFound(manager *protocols.TabletManager) error {
	switch d.phase {
	case reconUnbound:
		d.manager = manager
		d.phase = reconManagerPending
		logger.Debug("tablet manager discovered, waiting for seat")
	case reconSeatPending:
		d.manager = manager
		return d.bindTabletSeat()
	default:
		logger.Debug("ignoring duplicate tablet manager announcement")
	}
	return nil
}

// bindTabletSeat fires exactly once per session, on whichever discovery
// notification completed the seat/manager pair.
func (d *dispatcher) bindTabletSeat() error {
	if err := d.bind(d.manager, d.seat); err != nil {
		return err
	}
	d.phase = reconBound
	logger.Debug("tablet seat bound")
	return nil
}

func (d *dispatcher) bound() bool {
	return d.phase == reconBound
}

func (d *dispatcher) commit(key uint32) {
	b, ok := d.pending[key]
	if !ok {
		return
	}
	delete(d.pending, key)

	if !b.typed {
		logger.Warn("tool finished negotiation without reporting a type", "key", key)
	}

	id := d.nextID
	d.nextID++
	d.committed[key] = id
	d.push(ToolCreated{Tool: TabletTool{ID: id, Type: b.toolType, Capability: b.cap}})
	logger.Debug("tool committed", "id", id, "type", b.toolType, "capability", b.cap)
}

// remove discards a negotiating tool without emitting anything, or tears
// down a committed tool's ID association. Either way the counter is left
// alone, so a removed tool's ID is never handed out again.
func (d *dispatcher) remove(key uint32) {
	if _, ok := d.pending[key]; ok {
		delete(d.pending, key)
		return
	}
	if id, ok := d.committed[key]; ok {
		delete(d.committed, key)
		logger.Debug("tool removed", "id", id)
	}
}

func (d *dispatcher) push(ev Event) {
	d.queue = append(d.queue, ev)
}

// drain empties the queue and returns the events in arrival order.
func (d *dispatcher) drain() []Event {
	evs := d.queue
	d.queue = nil
	return evs
}
