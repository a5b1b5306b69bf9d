package cpu

import "github.com/tnystrom/dmgcore/internal/bit"

// Flag bit positions within F. The low nibble of F is always zero.
const (
	flagZ uint8 = 7
	flagN uint8 = 6
	flagH uint8 = 5
	flagC uint8 = 4
)

// Registers holds the eight 8-bit registers plus SP/PC. A/B/C/D/E/H/L/F
// are kept as individual bytes rather than a byte slice so the compiler
// can prove they never alias; 16-bit views are synthesized on demand via
// the bit package, matching how the combined pairs behave on real
// hardware (there is no separate 16-bit storage).
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16
}

func (r *Registers) bc() uint16 { return bit.Combine(r.B, r.C) }
func (r *Registers) de() uint16 { return bit.Combine(r.D, r.E) }
func (r *Registers) hl() uint16 { return bit.Combine(r.H, r.L) }
func (r *Registers) af() uint16 { return bit.Combine(r.A, r.F&0xF0) }

func (r *Registers) setBC(v uint16) { r.B, r.C = bit.High(v), bit.Low(v) }
func (r *Registers) setDE(v uint16) { r.D, r.E = bit.High(v), bit.Low(v) }
func (r *Registers) setHL(v uint16) { r.H, r.L = bit.High(v), bit.Low(v) }
func (r *Registers) setAF(v uint16) { r.A, r.F = bit.High(v), bit.Low(v)&0xF0 }

func (r *Registers) flag(f uint8) bool    { return bit.IsSet(f, r.F) }
func (r *Registers) setFlag(f uint8, v bool) { r.F = bit.SetTo(f, r.F, v) }

func (r *Registers) zero() bool      { return r.flag(flagZ) }
func (r *Registers) subtract() bool  { return r.flag(flagN) }
func (r *Registers) halfCarry() bool { return r.flag(flagH) }
func (r *Registers) carry() bool     { return r.flag(flagC) }
