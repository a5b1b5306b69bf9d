package input

import "github.com/tnystrom/dmgcore/internal/bus"

// Joypad is the subset of *bus.Bus the input manager drives directly.
type Joypad interface {
	PressButton(b bus.Button)
	ReleaseButton(b bus.Button)
}

// Manager routes Trigger calls either straight to the joypad (for GB
// controls) or to registered callbacks (for emulator-level actions like
// pause), so a backend only has to translate its native key events into
// Actions and doesn't need to know what each one does.
type Manager struct {
	joypad   Joypad
	handlers map[Action]map[Event][]func()
}

// NewManager creates a Manager that writes GB control actions to joypad.
func NewManager(joypad Joypad) *Manager {
	return &Manager{
		joypad:   joypad,
		handlers: make(map[Action]map[Event][]func()),
	}
}

// On registers a callback for an emulator-level action; GB controls never
// reach registered handlers since they're wired directly to the joypad.
func (m *Manager) On(a Action, evt Event, callback func()) {
	if m.handlers[a] == nil {
		m.handlers[a] = make(map[Event][]func())
	}
	m.handlers[a][evt] = append(m.handlers[a][evt], callback)
}

// Trigger handles one key transition.
func (m *Manager) Trigger(a Action, evt Event) {
	if btn, ok := joypadButton(a); ok {
		switch evt {
		case Press:
			m.joypad.PressButton(btn)
		case Release:
			m.joypad.ReleaseButton(btn)
		}
		return
	}

	for _, cb := range m.handlers[a][evt] {
		cb()
	}
}

func joypadButton(a Action) (bus.Button, bool) {
	switch a {
	case GBButtonA:
		return bus.A, true
	case GBButtonB:
		return bus.B, true
	case GBButtonStart:
		return bus.Start, true
	case GBButtonSelect:
		return bus.Select, true
	case GBDPadUp:
		return bus.Up, true
	case GBDPadDown:
		return bus.Down, true
	case GBDPadLeft:
		return bus.Left, true
	case GBDPadRight:
		return bus.Right, true
	default:
		return 0, false
	}
}
