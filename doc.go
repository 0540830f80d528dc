// Package tablet turns the tablet-unstable-v2 Wayland protocol into a
// simple, ordered, pollable event stream.
//
// A Session connects to (or attaches to) a Wayland display, discovers the
// wl_seat and zwp_tablet_manager_v2 globals, binds one tablet seat, and
// translates per-tool capability negotiation plus motion, pressure and
// contact traffic into plain Go values. Built on the WLTurbo Wayland
// client library.
//
// # What It Handles
//
// • Seat and tablet-manager announcements arriving in either order
// • Per-tool type/capability negotiation, committed once at the done signal
// • Session-scoped tool IDs that are never reused, even after removal
// • Contact, motion, pressure, distance, tilt, rotation, slider and wheel
// events, normalized and delivered in arrival order
//
// Button and frame events are deferred; pad input is ignored. One seat per
// session.
//
// # Basic Usage
//
//	import (
//		"context"
//		"github.com/gennyble/wayland-tablet"
//	)
//
//	session, err := tablet.NewSession(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer session.Close()
//
//	for {
//		events, err := session.Events()
//		if err != nil {
//			log.Fatal(err)
//		}
//		for _, ev := range events {
//			switch ev := ev.(type) {
//			case tablet.ToolCreated:
//				fmt.Printf("tool %d: %s (%s)\n", ev.Tool.ID, ev.Tool.Type, ev.Tool.Capability)
//			case tablet.Moved:
//				fmt.Printf("tool %d at %.2f, %.2f\n", ev.ID, ev.X, ev.Y)
//			case tablet.Pressure:
//				fmt.Printf("tool %d pressure %.3f\n", ev.ID, ev.Pressure)
//			}
//		}
//	}
//
// Each Events call performs one synchronous roundtrip, so the loop above
// paces itself on the compositor. Use Attach instead of NewSession to
// share a connection the application already owns.
//
// # Polling Model
//
// The session is single-threaded and call-driven. Nothing happens between
// Events calls: no background goroutine, no hidden callbacks. All protocol
// dispatch runs inside Events (and the constructor's initial roundtrip),
// and the returned events are independent values. The Session is not safe
// for concurrent use.
//
// # Error Handling
//
// Transport failures are fatal: Events returns a *TransportError and the
// session is permanently unusable, returning the same error from then on.
// Recoverable protocol oddities (a second seat announcement, unknown
// capability flags, unknown event opcodes) are logged or silently ignored
// and never interrupt polling. A tool that finishes negotiation without
// reporting a type commits with ToolTypeUnknown.
//
// Logging goes through charmbracelet/log to stderr; set LOG_LEVEL=debug
// to watch discovery and negotiation happen.
//
// # Compositor Notes
//
// Requires a compositor that implements tablet-unstable-v2 (most wlroots
// compositors, GNOME and KDE do) and a tablet to produce events. Without
// the protocol the session still polls; it just never reports tools.
package tablet
