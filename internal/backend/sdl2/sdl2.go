//go:build sdl2

// Package sdl2 implements backend.Backend on top of go-sdl2, rendering
// the framebuffer to a scaled texture and queueing APU samples to the
// default audio device. Building it requires the SDL2 development
// libraries; default builds skip it (see sdl2_stub.go) so the module
// compiles everywhere without them installed.
package sdl2

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/tnystrom/dmgcore/internal/audio"
	"github.com/tnystrom/dmgcore/internal/backend"
	"github.com/tnystrom/dmgcore/internal/input"
	"github.com/tnystrom/dmgcore/internal/video"
)

const pixelScale = 4

// Backend is the SDL2 output platform.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	ring      *audio.Ring
	audioDev  sdl.AudioDeviceID
	sampleBuf []int16
}

// New creates an uninitialized SDL2 backend pulling samples from ring.
func New(ring *audio.Ring) *Backend {
	return &Backend{ring: ring, sampleBuf: make([]int16, 1024)}
}

func (b *Backend) Init(cfg backend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl2: %w", err)
	}

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		video.ScreenWidth*pixelScale, video.ScreenHeight*pixelScale,
		sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("sdl2: %w", err)
	}
	b.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("sdl2: %w", err)
	}
	b.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, video.ScreenWidth, video.ScreenHeight)
	if err != nil {
		return fmt.Errorf("sdl2: %w", err)
	}
	b.texture = texture

	dev, err := sdl.OpenAudioDevice("", false, &sdl.AudioSpec{
		Freq:     48000,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  1024,
	}, nil, 0)
	if err != nil {
		return fmt.Errorf("sdl2: audio: %w", err)
	}
	b.audioDev = dev
	sdl.PauseAudioDevice(dev, false)

	return nil
}

func (b *Backend) Update(frame []uint8) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	for {
		event := sdl.PollEvent()
		if event == nil {
			break
		}
		switch e := event.(type) {
		case *sdl.QuitEvent:
			events = append(events, backend.InputEvent{Action: input.EmulatorQuit, Event: input.Press})
		case *sdl.KeyboardEvent:
			if evt, ok := translateKey(e); ok {
				events = append(events, evt)
			}
		}
	}

	if err := b.texture.Update(nil, frame, video.ScreenWidth*3); err != nil {
		return events, fmt.Errorf("sdl2: %w", err)
	}
	b.renderer.Clear()
	b.renderer.Copy(b.texture, nil, nil)
	b.renderer.Present()

	n := b.ring.Take(b.sampleBuf)
	if n > 0 {
		sdl.QueueAudio(b.audioDev, int16SliceToBytes(b.sampleBuf[:n]))
	}

	return events, nil
}

func (b *Backend) Close() error {
	sdl.CloseAudioDevice(b.audioDev)
	b.texture.Destroy()
	b.renderer.Destroy()
	b.window.Destroy()
	sdl.Quit()
	return nil
}

func translateKey(e *sdl.KeyboardEvent) (backend.InputEvent, bool) {
	// SDL names letter keys in upper case and uses its own names for a few
	// others; bring them to the identifiers DefaultKeyMap uses.
	name := sdl.GetKeyName(e.Keysym.Sym)
	switch name {
	case "Return":
		name = "Enter"
	case "Left Shift", "Right Shift":
		name = "Shift"
	default:
		if len(name) == 1 {
			name = strings.ToLower(name)
		}
	}
	act, ok := input.Lookup(name)
	if !ok {
		return backend.InputEvent{}, false
	}
	evt := input.Press
	if e.Type == sdl.KEYUP {
		evt = input.Release
	}
	return backend.InputEvent{Action: act, Event: evt}, true
}

func int16SliceToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[2*i] = byte(s)
		buf[2*i+1] = byte(s >> 8)
	}
	return buf
}
