//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/tnystrom/dmgcore/internal/audio"
	"github.com/tnystrom/dmgcore/internal/backend"
)

// Backend is a stand-in used when the module is built without the sdl2
// tag (the default, since it requires the SDL2 development libraries).
type Backend struct{}

// New returns a stub backend whose Init always fails with a clear message
// rather than silently doing nothing.
func New(ring *audio.Ring) *Backend { return &Backend{} }

func (b *Backend) Init(cfg backend.Config) error {
	return errors.New("sdl2 backend: rebuild with -tags sdl2 and the SDL2 development libraries installed")
}

func (b *Backend) Update(frame []uint8) ([]backend.InputEvent, error) { return nil, nil }

func (b *Backend) Close() error { return nil }
