// Package terminal implements backend.Backend on top of tcell, rendering
// the framebuffer as half-block characters (each terminal cell covers
// two vertically stacked pixels) and translating tcell key events into
// input.Actions through the shared default key map.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/tnystrom/dmgcore/internal/backend"
	"github.com/tnystrom/dmgcore/internal/input"
	"github.com/tnystrom/dmgcore/internal/video"
)

// Backend is the terminal output platform.
type Backend struct {
	screen tcell.Screen
}

// New creates an uninitialized terminal backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Init(cfg backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	b.screen = screen
	return nil
}

func (b *Backend) Update(frame []uint8) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	for b.screen.HasPendingEvent() {
		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if evt, ok := translateKey(ev); ok {
				events = append(events, evt)
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}

	b.render(frame)
	b.screen.Show()
	return events, nil
}

func (b *Backend) Close() error {
	b.screen.Fini()
	return nil
}

// render draws two vertically stacked source pixels per terminal cell
// using a half-block glyph, halving the terminal rows needed for the
// 144-pixel-tall framebuffer.
func (b *Backend) render(frame []uint8) {
	for y := 0; y < video.ScreenHeight; y += 2 {
		for x := 0; x < video.ScreenWidth; x++ {
			top := shadeColor(frame, x, y)
			bottom := tcell.ColorBlack
			if y+1 < video.ScreenHeight {
				bottom = shadeColor(frame, x, y+1)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			b.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func shadeColor(frame []uint8, x, y int) tcell.Color {
	v := frame[3*(x+video.ScreenWidth*y)]
	return tcell.NewRGBColor(int32(v), int32(v), int32(v))
}

func translateKey(ev *tcell.EventKey) (backend.InputEvent, bool) {
	name := keyName(ev)
	act, ok := input.Lookup(name)
	if !ok {
		return backend.InputEvent{}, false
	}
	return backend.InputEvent{Action: act, Event: input.Press}, true
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyCtrlC:
		return "Escape"
	case tcell.KeyRune:
		return string(ev.Rune())
	default:
		return ""
	}
}
