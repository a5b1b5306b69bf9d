// Package backend defines the interface every output platform (headless,
// terminal, SDL2) implements: render one frame, collect whatever input
// events arrived since the last call, and clean up on shutdown.
package backend

import "github.com/tnystrom/dmgcore/internal/input"

// InputEvent is one key transition a backend observed, translated into
// the platform-independent input vocabulary.
type InputEvent struct {
	Action input.Action
	Event  input.Event
}

// Config configures a backend at startup.
type Config struct {
	Title string
	Scale int
}

// Backend is a complete output platform: rendering plus input capture.
type Backend interface {
	// Init prepares the backend (opens a window, sets up a terminal
	// screen, ...). Called once before the first Update.
	Init(cfg Config) error

	// Update renders frame and returns the input events observed since
	// the previous call.
	Update(frame []uint8) ([]InputEvent, error)

	// Close releases any platform resources.
	Close() error
}
