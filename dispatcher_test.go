package tablet

import (
	"errors"
	"testing"

	"github.com/bnema/wlturbo/wl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gennyble/wayland-tablet/internal/protocols"
)

// testBind records tablet seat binds in place of the real
// get_tablet_seat request.
type testBind struct {
	calls int
	err   error
}

func (b *testBind) bind(*protocols.TabletManager, *wl.Seat) error {
	b.calls++
	return b.err
}

func newTestDispatcher() (*dispatcher, *testBind) {
	b := &testBind{}
	return newDispatcher(b.bind), b
}

// negotiate drives one tool from announcement through done.
func negotiate(t *testing.T, d *dispatcher, key uint32, toolType ToolType, flags ...uint32) {
	t.Helper()
	require.NoError(t, d.dispatch(toolAnnounced{key: key}))
	require.NoError(t, d.dispatch(toolTypeReported{key: key, toolType: toolType}))
	for _, flag := range flags {
		require.NoError(t, d.dispatch(toolCapabilityReported{key: key, flag: flag}))
	}
	require.NoError(t, d.dispatch(toolDone{key: key}))
}

func TestDiscoveryEitherOrderBindsOnce(t *testing.T) {
	seat := &wl.Seat{}
	manager := &protocols.TabletManager{}

	tests := []struct {
		name  string
		order []notification
	}{
		{
			name:  "seat first",
			order: []notification{seatDiscovered{seat: seat}, managerDiscovered{manager: manager}},
		},
		{
			name:  "manager first",
			order: []notification{managerDiscovered{manager: manager}, seatDiscovered{seat: seat}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, bind := newTestDispatcher()
			for _, n := range tt.order {
				require.NoError(t, d.dispatch(n))
			}
			assert.Equal(t, 1, bind.calls)
			assert.True(t, d.bound())
		})
	}
}

func TestSecondSeatIgnored(t *testing.T) {
	d, bind := newTestDispatcher()
	first := &wl.Seat{}
	second := &wl.Seat{}

	require.NoError(t, d.dispatch(seatDiscovered{seat: first}))
	require.NoError(t, d.dispatch(managerDiscovered{manager: &protocols.TabletManager{}}))
	require.NoError(t, d.dispatch(seatDiscovered{seat: second}))

	assert.Equal(t, 1, bind.calls)
	assert.Same(t, first, d.seat)
	assert.True(t, d.bound())
}

func TestDuplicateManagerIgnored(t *testing.T) {
	first := &protocols.TabletManager{}
	second := &protocols.TabletManager{}

	t.Run("while pending", func(t *testing.T) {
		d, bind := newTestDispatcher()
		require.NoError(t, d.dispatch(managerDiscovered{manager: first}))
		require.NoError(t, d.dispatch(managerDiscovered{manager: second}))
		assert.Zero(t, bind.calls)
		assert.Same(t, first, d.manager)
	})

	t.Run("after binding", func(t *testing.T) {
		d, bind := newTestDispatcher()
		require.NoError(t, d.dispatch(seatDiscovered{seat: &wl.Seat{}}))
		require.NoError(t, d.dispatch(managerDiscovered{manager: first}))
		require.NoError(t, d.dispatch(managerDiscovered{manager: second}))
		assert.Equal(t, 1, bind.calls)
		assert.Same(t, first, d.manager)
	})
}

func TestBindFailureSurfaces(t *testing.T) {
	d, bind := newTestDispatcher()
	bind.err = errors.New("connection lost")

	require.NoError(t, d.dispatch(seatDiscovered{seat: &wl.Seat{}}))
	err := d.dispatch(managerDiscovered{manager: &protocols.TabletManager{}})
	require.Error(t, err)
	assert.False(t, d.bound())
}

func TestNegotiationAccumulatesCapabilities(t *testing.T) {
	d, _ := newTestDispatcher()
	negotiate(t, d, 11, ToolTypePen, protocols.ToolCapabilityPressure, protocols.ToolCapabilityTilt)

	evs := d.drain()
	require.Len(t, evs, 1)
	created, ok := evs[0].(ToolCreated)
	require.True(t, ok, "expected ToolCreated, got %T", evs[0])

	assert.Equal(t, ToolID(0), created.Tool.ID)
	assert.Equal(t, ToolTypePen, created.Tool.Type)
	assert.True(t, created.Tool.Capability.Pressure)
	assert.True(t, created.Tool.Capability.Tilt)
	assert.False(t, created.Tool.Capability.Distance)
	assert.False(t, created.Tool.Capability.Rotation)
	assert.False(t, created.Tool.Capability.Slider)
	assert.False(t, created.Tool.Capability.Wheel)
}

func TestUnknownCapabilityFlagIgnored(t *testing.T) {
	d, _ := newTestDispatcher()
	require.NoError(t, d.dispatch(toolAnnounced{key: 6}))
	require.NoError(t, d.dispatch(toolCapabilityReported{key: 6, flag: 0xbeef}))
	require.NoError(t, d.dispatch(toolTypeReported{key: 6, toolType: ToolTypePen}))
	require.NoError(t, d.dispatch(toolDone{key: 6}))

	evs := d.drain()
	require.Len(t, evs, 1)
	created, ok := evs[0].(ToolCreated)
	require.True(t, ok, "expected ToolCreated, got %T", evs[0])
	assert.Equal(t, Capability{}, created.Tool.Capability)
}

func TestDoneWithoutTypeCommitsUnknown(t *testing.T) {
	d, _ := newTestDispatcher()
	require.NoError(t, d.dispatch(toolAnnounced{key: 3}))
	require.NoError(t, d.dispatch(toolDone{key: 3}))

	evs := d.drain()
	require.Len(t, evs, 1)
	created, ok := evs[0].(ToolCreated)
	require.True(t, ok, "expected ToolCreated, got %T", evs[0])
	assert.Equal(t, ToolTypeUnknown, created.Tool.Type)
	assert.Equal(t, ToolID(0), created.Tool.ID)
}

func TestToolIDsNeverReused(t *testing.T) {
	d, _ := newTestDispatcher()

	negotiate(t, d, 1, ToolTypePen)
	negotiate(t, d, 2, ToolTypeEraser)
	require.NoError(t, d.dispatch(toolRemoved{key: 1}))
	negotiate(t, d, 3, ToolTypeBrush)

	var ids []ToolID
	for _, ev := range d.drain() {
		created, ok := ev.(ToolCreated)
		require.True(t, ok, "expected ToolCreated, got %T", ev)
		ids = append(ids, created.Tool.ID)
	}
	assert.Equal(t, []ToolID{0, 1, 2}, ids)
}

func TestRemovalDuringNegotiationEmitsNothing(t *testing.T) {
	d, _ := newTestDispatcher()

	require.NoError(t, d.dispatch(toolAnnounced{key: 9}))
	require.NoError(t, d.dispatch(toolTypeReported{key: 9, toolType: ToolTypePen}))
	require.NoError(t, d.dispatch(toolCapabilityReported{key: 9, flag: protocols.ToolCapabilityPressure}))
	require.NoError(t, d.dispatch(toolRemoved{key: 9}))

	assert.Empty(t, d.drain())

	// No ID was consumed; the next commit still gets zero.
	negotiate(t, d, 10, ToolTypeEraser)
	evs := d.drain()
	require.Len(t, evs, 1)
	created, ok := evs[0].(ToolCreated)
	require.True(t, ok, "expected ToolCreated, got %T", evs[0])
	assert.Equal(t, ToolID(0), created.Tool.ID)
}

func TestRemovalAfterCommitDropsAssociation(t *testing.T) {
	d, _ := newTestDispatcher()
	negotiate(t, d, 4, ToolTypePen)
	d.drain()

	require.NoError(t, d.dispatch(toolRemoved{key: 4}))
	require.NoError(t, d.dispatch(toolMotion{key: 4, x: 1, y: 2}))
	require.NoError(t, d.dispatch(toolDown{key: 4}))
	assert.Empty(t, d.drain())
}

func TestAxisTrafficBeforeCommitDropped(t *testing.T) {
	d, _ := newTestDispatcher()
	require.NoError(t, d.dispatch(toolAnnounced{key: 7}))
	require.NoError(t, d.dispatch(toolDown{key: 7}))
	require.NoError(t, d.dispatch(toolMotion{key: 7, x: 3, y: 4}))
	require.NoError(t, d.dispatch(toolPressure{key: 7, raw: 100}))
	assert.Empty(t, d.drain())

	// Traffic for a key that was never announced is dropped too.
	require.NoError(t, d.dispatch(toolUp{key: 99}))
	assert.Empty(t, d.drain())
}

func TestPressureNormalization(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
		want float64
	}{
		{name: "zero", raw: 0, want: 0.0},
		{name: "midpoint", raw: 32767, want: 0.4999924},
		{name: "full", raw: 65535, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDispatcher()
			negotiate(t, d, 5, ToolTypePen, protocols.ToolCapabilityPressure)
			d.drain()

			require.NoError(t, d.dispatch(toolPressure{key: 5, raw: tt.raw}))
			evs := d.drain()
			require.Len(t, evs, 1)
			pressure, ok := evs[0].(Pressure)
			require.True(t, ok, "expected Pressure, got %T", evs[0])
			assert.Equal(t, ToolID(0), pressure.ID)
			assert.InDelta(t, tt.want, pressure.Pressure, 1e-6)
		})
	}
}

func TestAxisTranslation(t *testing.T) {
	tests := []struct {
		name string
		in   notification
		want Event
	}{
		{name: "down", in: toolDown{key: 8}, want: Down{ID: 0}},
		{name: "up", in: toolUp{key: 8}, want: Up{ID: 0}},
		{name: "motion", in: toolMotion{key: 8, x: 10.5, y: 20.25}, want: Moved{ID: 0, X: 10.5, Y: 20.25}},
		{name: "distance", in: toolDistance{key: 8, raw: 120}, want: Distance{ID: 0, Distance: 120}},
		{name: "tilt", in: toolTilt{key: 8, tiltX: -12.5, tiltY: 3.25}, want: Tilt{ID: 0, TiltX: -12.5, TiltY: 3.25}},
		{name: "rotation", in: toolRotation{key: 8, degrees: 180.5}, want: Rotation{ID: 0, Degrees: 180.5}},
		{name: "slider", in: toolSlider{key: 8, position: -65535}, want: Slider{ID: 0, Position: -65535}},
		{name: "wheel", in: toolWheel{key: 8, degrees: 15, clicks: -1}, want: Wheel{ID: 0, Degrees: 15, Clicks: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDispatcher()
			negotiate(t, d, 8, ToolTypePen)
			d.drain()

			require.NoError(t, d.dispatch(tt.in))
			evs := d.drain()
			require.Len(t, evs, 1)
			assert.Equal(t, tt.want, evs[0])
		})
	}
}

func TestEndToEndPollSequence(t *testing.T) {
	d, bind := newTestDispatcher()

	require.NoError(t, d.dispatch(managerDiscovered{manager: &protocols.TabletManager{}}))
	require.NoError(t, d.dispatch(seatDiscovered{seat: &wl.Seat{}}))
	require.NoError(t, d.dispatch(toolAnnounced{key: 21}))
	require.NoError(t, d.dispatch(toolTypeReported{key: 21, toolType: ToolTypePen}))
	require.NoError(t, d.dispatch(toolCapabilityReported{key: 21, flag: protocols.ToolCapabilityPressure}))
	require.NoError(t, d.dispatch(toolDone{key: 21}))
	require.NoError(t, d.dispatch(toolDown{key: 21}))
	require.NoError(t, d.dispatch(toolMotion{key: 21, x: 10.5, y: 20.25}))
	require.NoError(t, d.dispatch(toolPressure{key: 21, raw: 32767}))
	require.NoError(t, d.dispatch(toolUp{key: 21}))
	require.NoError(t, d.dispatch(toolRemoved{key: 21}))

	assert.Equal(t, 1, bind.calls)

	evs := d.drain()
	require.Len(t, evs, 5)

	created, ok := evs[0].(ToolCreated)
	require.True(t, ok, "expected ToolCreated, got %T", evs[0])
	assert.Equal(t, ToolID(0), created.Tool.ID)
	assert.Equal(t, ToolTypePen, created.Tool.Type)
	assert.True(t, created.Tool.Capability.Pressure)

	assert.Equal(t, Down{ID: 0}, evs[1])
	assert.Equal(t, Moved{ID: 0, X: 10.5, Y: 20.25}, evs[2])

	pressure, ok := evs[3].(Pressure)
	require.True(t, ok, "expected Pressure, got %T", evs[3])
	assert.Equal(t, ToolID(0), pressure.ID)
	assert.InDelta(t, 0.5, pressure.Pressure, 1e-4)

	assert.Equal(t, Up{ID: 0}, evs[4])

	// The removal itself produced no event.
	assert.Empty(t, d.drain())
}

func TestDrainLeavesQueueEmpty(t *testing.T) {
	d, _ := newTestDispatcher()
	negotiate(t, d, 2, ToolTypePen)

	assert.Len(t, d.drain(), 1)
	assert.Empty(t, d.drain())
}
