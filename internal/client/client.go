// Package client manages the Wayland connection underneath a tablet
// session.
package client

import (
	"fmt"

	"github.com/bnema/wlturbo/wl"
)

// Client bundles the display, its context, and the registry. A connected
// client owns the socket and closes it; an attached client wraps a
// caller-owned connection and leaves it open.
type Client struct {
	display  *wl.Display
	registry *wl.Registry
	context  *wl.Context
	owned    bool
}

// Connect opens a new connection to the default Wayland display.
func Connect() (*Client, error) {
	display, err := wl.Connect("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland: %w", err)
	}
	return newClient(display, true), nil
}

// Attach wraps an externally owned display connection. The caller keeps
// lifetime responsibility for it.
func Attach(display *wl.Display) *Client {
	return newClient(display, false)
}

func newClient(display *wl.Display, owned bool) *Client {
	return &Client{
		display:  display,
		context:  display.Context(),
		registry: display.GetRegistry(),
		owned:    owned,
	}
}

// BindSeat binds the wl_seat global announced under name at the given
// version and registers the proxy on the context.
func (c *Client) BindSeat(name uint32, version uint32) (*wl.Seat, error) {
	seatID, err := c.registry.BindID(name, "wl_seat", version)
	if err != nil {
		return nil, fmt.Errorf("failed to bind wl_seat: %w", err)
	}
	seat := wl.NewSeat(c.context)
	seat.SetID(seatID)
	c.context.Register(seat)
	return seat, nil
}

// Roundtrip flushes outstanding requests and blocks until the server has
// processed them, dispatching every event that arrived in between.
func (c *Client) Roundtrip() error {
	return c.display.Roundtrip()
}

// GetDisplay returns the Wayland display
func (c *Client) GetDisplay() *wl.Display {
	return c.display
}

// GetContext returns the Wayland context
func (c *Client) GetContext() *wl.Context {
	return c.context
}

// GetRegistry returns the Wayland registry
func (c *Client) GetRegistry() *wl.Registry {
	return c.registry
}

// Close closes the Wayland connection when this client opened it.
// Attached connections stay open.
func (c *Client) Close() error {
	if !c.owned || c.context == nil {
		return nil
	}
	return c.context.Close()
}
