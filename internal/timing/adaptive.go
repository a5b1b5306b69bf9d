package timing

import (
	"log/slog"
	"time"
)

// Adaptive paces frames using a sleep-then-busy-wait strategy: sleep for
// the bulk of the remaining time (imprecise but cheap), then spin for the
// last couple of milliseconds (expensive but exact), with periodic drift
// correction so a long run doesn't slowly fall behind wall-clock time.
type Adaptive struct {
	frameDuration time.Duration
	nextFrame     time.Time
	frameCount    int64
}

// NewAdaptive creates a limiter paced to the real DMG frame rate.
func NewAdaptive() *Adaptive {
	return &Adaptive{
		frameDuration: FrameDuration(),
		nextFrame:     time.Now(),
	}
}

func (a *Adaptive) WaitForNextFrame() {
	now := time.Now()
	remaining := a.nextFrame.Sub(now)

	switch {
	case remaining > 2*time.Millisecond:
		time.Sleep(remaining - time.Millisecond)
		for time.Now().Before(a.nextFrame) {
		}
	case remaining > 0:
		for time.Now().Before(a.nextFrame) {
		}
	case remaining < -5*time.Millisecond:
		// Far behind (e.g. after a debugger pause): resync instead of
		// trying to burn through a backlog of frames silently.
		a.nextFrame = now
	}

	a.nextFrame = a.nextFrame.Add(a.frameDuration)
	a.frameCount++

	if a.frameCount%60 == 0 {
		drift := time.Since(a.nextFrame)
		if drift.Abs() > 10*time.Millisecond {
			a.nextFrame = a.nextFrame.Add(drift / 10)
			slog.Debug("frame timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *Adaptive) Reset() {
	a.nextFrame = time.Now()
	a.frameCount = 0
}
