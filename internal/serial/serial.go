// Package serial provides a stand-in serial port. Real link-cable transfer
// is an explicit non-goal (no partner device exists), but the SB/SC
// register pair is still wired so test ROMs that probe for a partner, or
// that print diagnostics over serial (a common trick in test ROMs), behave
// sensibly: any transfer "completes" against an implicit 0xFF receiver and
// raises the Serial interrupt after a fixed delay, the same as an
// unconnected link port would.
package serial

import "log/slog"

// transferCycles approximates one byte's transfer time at the internal
// clock (8 bits * 512 t-cycles/bit ≈ 4096 cycles), matching real DMG timing
// closely enough that games polling the start bit observe a believable
// delay rather than an instantaneous response.
const transferCycles = 4096

// Port is the minimal interface of a serial device; Sink satisfies it (the
// bus holds a *Sink directly).
type Port interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(cycles int)
}

// Sink is a serial device with no remote end: every byte written is logged
// and echoed back as 0xFF once the simulated transfer completes.
type Sink struct {
	raiseInterrupt func()

	sb, sc    byte
	active    bool
	remaining int

	line []byte
}

// New creates a serial sink. raiseInterrupt is invoked once per completed
// transfer and should set the Serial bit in IF.
func New(raiseInterrupt func()) *Sink {
	return &Sink{raiseInterrupt: raiseInterrupt, sb: 0x00, sc: 0x7E}
}

func (s *Sink) Read(address uint16) byte {
	if address == 0xFF01 {
		return s.sb
	}
	return s.sc
}

func (s *Sink) Write(address uint16, value byte) {
	if address == 0xFF01 {
		s.sb = value
		return
	}
	s.sc = value
	s.maybeStart()
}

func (s *Sink) Tick(cycles int) {
	if !s.active {
		return
	}
	s.remaining -= cycles
	if s.remaining <= 0 {
		s.complete()
	}
}

func (s *Sink) maybeStart() {
	if s.active {
		return
	}
	// A transfer starts when the start bit (7) and internal-clock bit (0)
	// of SC are both set; an external-clock transfer never completes here.
	if s.sc&0x81 != 0x81 {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			slog.Debug("serial output", "line", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	s.active = true
	s.remaining = transferCycles
}

func (s *Sink) complete() {
	s.sb = 0xFF
	s.sc &^= 0x80
	s.active = false
	if s.raiseInterrupt != nil {
		s.raiseInterrupt()
	}
}
