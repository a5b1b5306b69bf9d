// Package timing paces real-time playback to the Game Boy's exact frame
// rate and exposes the master clock constants the scheduler, APU and
// disassembler all need to agree on.
package timing

import "time"

const (
	// CyclesPerFrame is the number of master-clock dots in one frame
	// (456 dots/line * 154 lines).
	CyclesPerFrame = 70224
	// CPUFrequency is the DMG master clock rate in Hz.
	CPUFrequency = 4194304
)

// TargetFPS is the Game Boy's exact frame rate, slightly below 60.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration is the wall-clock duration of one frame at TargetFPS.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// Limiter paces a frame loop to real time.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due, or returns
	// immediately if playback is already behind schedule.
	WaitForNextFrame()
	// Reset clears accumulated drift, used after a pause or seek.
	Reset()
}

// NewNoOpLimiter returns a Limiter that never blocks, for headless runs
// that want to emulate as fast as the host can go.
func NewNoOpLimiter() Limiter { return noOpLimiter{} }

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}
