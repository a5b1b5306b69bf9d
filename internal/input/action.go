// Package input maps host key events onto Game Boy joypad buttons and a
// small set of emulator-level actions (pause, step, quit), independent of
// which backend (terminal, SDL2, headless) is sourcing the key events.
package input

// Action identifies something a key press can trigger.
type Action int

const (
	GBButtonA Action = iota
	GBButtonB
	GBButtonStart
	GBButtonSelect
	GBDPadUp
	GBDPadDown
	GBDPadLeft
	GBDPadRight

	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorQuit
)

// Event distinguishes a key going down from it going back up; buttons
// need both to know when to clear the joypad bit.
type Event int

const (
	Press Event = iota
	Release
)
