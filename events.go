package tablet

import (
	"fmt"
	"strings"
)

// ToolID identifies a committed tool within one session. IDs are assigned in
// commit order starting at zero and are never reused, even after the tool is
// removed.
type ToolID uint32

// ToolType is the hardware tool type a tool reported during negotiation.
// The values mirror the zwp_tablet_tool_v2 type enum.
type ToolType uint32

// Tool type constants
const (
	// ToolTypeUnknown marks a tool that finished negotiation without
	// reporting a type.
	ToolTypeUnknown  ToolType = 0
	ToolTypePen      ToolType = 0x140
	ToolTypeEraser   ToolType = 0x141
	ToolTypeBrush    ToolType = 0x142
	ToolTypePencil   ToolType = 0x143
	ToolTypeAirbrush ToolType = 0x144
	ToolTypeFinger   ToolType = 0x145
	ToolTypeMouse    ToolType = 0x146
	ToolTypeLens     ToolType = 0x147
)

func (t ToolType) String() string {
	switch t {
	case ToolTypeUnknown:
		return "unknown"
	case ToolTypePen:
		return "pen"
	case ToolTypeEraser:
		return "eraser"
	case ToolTypeBrush:
		return "brush"
	case ToolTypePencil:
		return "pencil"
	case ToolTypeAirbrush:
		return "airbrush"
	case ToolTypeFinger:
		return "finger"
	case ToolTypeMouse:
		return "mouse"
	case ToolTypeLens:
		return "lens"
	}
	return fmt.Sprintf("tool(0x%x)", uint32(t))
}

// Capability records which axes a tool declared during negotiation. Flags
// only ever go from false to true while the tool negotiates; a committed
// tool's capability never changes.
type Capability struct {
	Tilt     bool
	Pressure bool
	Distance bool
	Rotation bool
	Slider   bool
	Wheel    bool
}

func (c Capability) String() string {
	names := make([]string, 0, 6)
	if c.Tilt {
		names = append(names, "tilt")
	}
	if c.Pressure {
		names = append(names, "pressure")
	}
	if c.Distance {
		names = append(names, "distance")
	}
	if c.Rotation {
		names = append(names, "rotation")
	}
	if c.Slider {
		names = append(names, "slider")
	}
	if c.Wheel {
		names = append(names, "wheel")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// TabletTool is a committed tool identity: the session-scoped ID, the
// hardware type, and the negotiated capability set.
type TabletTool struct {
	ID         ToolID
	Type       ToolType
	Capability Capability
}

// Equal reports whether both values name the same tool. Identity is the ID
// alone; two values with the same ID are the same tool even when the other
// fields differ.
func (t TabletTool) Equal(other TabletTool) bool {
	return t.ID == other.ID
}

// Event is one normalized tablet occurrence returned by Session.Events.
// The concrete types below are the complete vocabulary.
type Event interface {
	isEvent()
}

// ToolCreated reports a tool that finished capability negotiation. It always
// precedes every other event carrying the same ID.
type ToolCreated struct {
	Tool TabletTool
}

// Down reports the tool making contact with the surface.
type Down struct {
	ID ToolID
}

// Up reports the tool breaking contact with the surface.
type Up struct {
	ID ToolID
}

// Moved reports a position change in surface-local coordinates.
type Moved struct {
	ID   ToolID
	X, Y float64
}

// Pressure reports a pressure change normalized to the range [0, 1].
type Pressure struct {
	ID       ToolID
	Pressure float64
}

// Distance reports the hover distance above the surface in raw protocol
// units.
type Distance struct {
	ID       ToolID
	Distance float64
}

// Tilt reports the angles in degrees between the tool and the surface
// normal.
type Tilt struct {
	ID           ToolID
	TiltX, TiltY float64
}

// Rotation reports the tool's rotation around its own axis in degrees.
type Rotation struct {
	ID      ToolID
	Degrees float64
}

// Slider reports the slider position, normalized by the protocol between
// -65535 and 65535 with zero as the neutral position.
type Slider struct {
	ID       ToolID
	Position float64
}

// Wheel reports wheel movement in degrees and whole clicks. Clicks are
// negative when the wheel turns backward.
type Wheel struct {
	ID      ToolID
	Degrees float64
	Clicks  int32
}

// Button and frame reporting is deferred.

func (ToolCreated) isEvent() {}
func (Down) isEvent()        {}
func (Up) isEvent()          {}
func (Moved) isEvent()       {}
func (Pressure) isEvent()    {}
func (Distance) isEvent()    {}
func (Tilt) isEvent()        {}
func (Rotation) isEvent()    {}
func (Slider) isEvent()      {}
func (Wheel) isEvent()       {}
