package input

// DefaultKeyMap gives every backend the same starting bindings; each one
// translates its native key names (tcell.Key, SDL scancode, ...) down to
// these same string identifiers before consulting the map.
var DefaultKeyMap = map[string]Action{
	"z":     GBButtonA,
	"x":     GBButtonB,
	"Enter": GBButtonStart,
	"Shift": GBButtonSelect,
	"Up":    GBDPadUp,
	"Down":  GBDPadDown,
	"Left":  GBDPadLeft,
	"Right": GBDPadRight,

	"w": GBDPadUp,
	"s": GBDPadDown,
	"a": GBDPadLeft,
	"d": GBDPadRight,

	"Space":  EmulatorPauseToggle,
	"p":      EmulatorPauseToggle,
	"o":      EmulatorStepFrame,
	"Escape": EmulatorQuit,
	"q":      EmulatorQuit,
}

// Lookup returns the action bound to a key name, if any.
func Lookup(key string) (Action, bool) {
	a, ok := DefaultKeyMap[key]
	return a, ok
}
