// Package machine is the top-level scheduler: it owns the CPU, bus and
// PPU and interleaves them one unit of work at a time, using a pair of
// running dot counters (dots, the authoritative elapsed master-clock
// count; dotsCPU, how far the CPU has executed) to decide whose turn it
// is, exactly the way the reference interpreter this core is modeled on
// drives its own main loop.
package machine

import (
	"log/slog"
	"os"

	"github.com/tnystrom/dmgcore/internal/addr"
	"github.com/tnystrom/dmgcore/internal/bus"
	"github.com/tnystrom/dmgcore/internal/cart"
	"github.com/tnystrom/dmgcore/internal/cpu"
	"github.com/tnystrom/dmgcore/internal/video"
)

// Machine wires a CPU, Bus and PPU into one runnable unit.
type Machine struct {
	Bus *bus.Bus
	CPU *cpu.CPU
	PPU *video.PPU

	log *slog.Logger

	dots    uint64
	dotsCPU uint64

	Breakpoints map[uint16]bool
}

// New constructs a Machine with no cartridge inserted; call LoadROM
// before running.
func New(log *slog.Logger) *Machine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	b := bus.New(log)
	// The CPU starts in the post-boot state at 0100 (see cpu.New), so the
	// boot ROM overlay is unmapped here, as the boot ROM's own FF50 write
	// would do; left mapped it would hide the cartridge's RST and interrupt
	// vectors in 0000-00FF.
	b.Write(addr.BootROMDisable, 1)
	return &Machine{
		Bus:         b,
		CPU:         cpu.New(b, log),
		PPU:         video.New(b),
		log:         log,
		Breakpoints: make(map[uint16]bool),
	}
}

// LoadROM parses and inserts a cartridge image.
func (m *Machine) LoadROM(data []byte) error {
	c, err := cart.Load(data)
	if err != nil {
		return err
	}
	m.Bus.InsertCartridge(c)
	return nil
}

// Step advances the machine by one scheduling unit: either the next CPU
// instruction (if the CPU has fallen behind the master dot count) or the
// next PPU dot (bringing the master count forward). This is what keeps
// CPU-driven register writes visible to the PPU at the right dot instead
// of only at instruction boundaries.
func (m *Machine) Step() {
	if m.dotsCPU < m.dots {
		mCycles := m.CPU.Step()
		m.dotsCPU += uint64(mCycles) * 4
		m.Bus.TickTimer(mCycles)
		return
	}

	m.PPU.TickDot()
	m.Bus.TickAudioDot()
	m.dots++
}

// AtBreakpoint reports whether the CPU is parked at an address the
// debugger marked, checked only at an instruction boundary.
func (m *Machine) AtBreakpoint() bool {
	return m.dotsCPU <= m.dots && m.Breakpoints[m.CPU.PC]
}

// RunFrame steps until the PPU reports a completed frame or one frame's
// worth of dots has passed without one (the LCD is off), or a breakpoint
// is hit (in which case it returns early with hitBreakpoint true).
func (m *Machine) RunFrame() (hitBreakpoint bool) {
	start := m.dots
	for {
		if len(m.Breakpoints) > 0 && m.AtBreakpoint() {
			return true
		}
		m.Step()
		if m.PPU.FrameReady() || m.dots-start >= video.DotsPerLine*video.LinesPerFrame {
			return false
		}
	}
}
