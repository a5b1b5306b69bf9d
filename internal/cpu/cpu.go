// Package cpu implements the Sharp LR35902 instruction set: an interpreter
// that decodes one opcode at a time from the three structurally regular
// blocks (register-to-register loads, ALU ops, and the irregular control
// block) plus the CB-prefixed bit operations, returning the number of
// M-cycles the instruction consumed so the caller can drive the timer,
// PPU and APU in lockstep.
package cpu

import (
	"io"
	"log/slog"

	"github.com/tnystrom/dmgcore/internal/addr"
)

// Bus is everything the CPU needs from memory and the interrupt
// controller. It is satisfied by *bus.Bus; the interface exists so the
// CPU package has no import-time dependency on bus, and so tests can
// supply a minimal fake.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Read16(address uint16) uint16
	Write16(address uint16, value uint16)
	PendingInterrupts() uint8
	ClearInterrupt(i addr.Interrupt)
}

// CPU is the Sharp LR35902 core: registers, interrupt master enable, and
// the halt latch, operating against a Bus.
type CPU struct {
	Registers
	bus Bus
	log *slog.Logger

	ime        bool
	imePending bool // EI takes effect after the *following* instruction
	halted     bool
	haltBug    bool
}

// New creates a CPU wired to bus, with registers at their post-boot-ROM
// values (the state real hardware leaves after the internal boot sequence
// finishes, since this core's boot ROM placeholder does not set them). A
// nil log discards log output.
func New(bus Bus, log *slog.Logger) *CPU {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &CPU{bus: bus, log: log}
	c.PC = 0x0100
	c.SP = 0xFFFE
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	return c
}

// Step runs one instruction (or one halted/interrupt-dispatch cycle) and
// returns the number of M-cycles it consumed.
func (c *CPU) Step() int {
	if cycles, serviced := c.serviceInterrupt(); serviced {
		return cycles
	}

	if c.halted {
		if c.bus.PendingInterrupts() != 0 {
			c.halted = false
		} else {
			return 1
		}
	}

	applyPending := c.imePending
	c.imePending = false

	opcode := c.fetch8()
	if c.haltBug {
		// HALT with IME=0 and a pending interrupt fails to increment PC
		// for the fetch that follows it; we model that by re-reading the
		// same byte exactly once.
		c.haltBug = false
		c.PC--
	}

	cycles := c.execute(opcode)

	if applyPending {
		c.ime = true
	}

	return cycles
}

func (c *CPU) serviceInterrupt() (int, bool) {
	pending := c.bus.PendingInterrupts()
	if pending == 0 {
		return 0, false
	}
	if !c.ime {
		return 0, false
	}

	for _, src := range []addr.Interrupt{addr.VBlank, addr.LCDStat, addr.Timer, addr.Serial, addr.Joypad} {
		if pending&(1<<src.Bit()) == 0 {
			continue
		}
		c.ime = false
		c.halted = false
		c.bus.ClearInterrupt(src)
		c.push16(c.PC)
		c.PC = src.Vector()
		return 5, true
	}
	return 0, false
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	v := c.bus.Read16(c.PC)
	c.PC += 2
	return v
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.bus.Write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.bus.Read16(c.SP)
	c.SP += 2
	return v
}

// execute decodes opcode using the x/y/z/p/q scheme standard for this
// instruction set: x = bits 7-6 selects the block, y = bits 5-3 and z =
// bits 2-0 index within it, p = y>>1 and q = y&1 pick register pairs.
func (c *CPU) execute(opcode uint8) int {
	x := opcode >> 6
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07
	p := y >> 1
	q := y & 0x01

	switch x {
	case 0:
		return c.execBlock0(opcode, y, z, p, q)
	case 1:
		return c.execBlock1(y, z)
	case 2:
		cycles := c.execALU(y, c.getReg8(z))
		if z == 6 {
			cycles++ // (HL) operand costs one extra M-cycle
		}
		return cycles
	case 3:
		return c.execBlock3(opcode, y, z, p, q)
	}
	return 1
}

// execBlock1 is LD r,r' for every combination except 0x76 (HALT), which
// occupies the slot that would otherwise be LD (HL),(HL).
func (c *CPU) execBlock1(y, z uint8) int {
	if y == 6 && z == 6 {
		c.halted = true
		if !c.ime && c.bus.PendingInterrupts() != 0 {
			c.haltBug = true
		}
		return 1
	}
	c.setReg8(y, c.getReg8(z))
	if y == 6 || z == 6 {
		return 2
	}
	return 1
}

// getReg8 resolves the standard B,C,D,E,H,L,(HL),A register index.
func (c *CPU) getReg8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.bus.Read(c.hl())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.bus.Write(c.hl(), v)
	default:
		c.A = v
	}
}

// getReg16/setReg16 resolve the BC,DE,HL,SP pairs used by most 16-bit ops.
func (c *CPU) getReg16(p uint8) uint16 {
	switch p {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.SP
	}
}

func (c *CPU) setReg16(p uint8, v uint16) {
	switch p {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.SP = v
	}
}

// getReg16Stack/setReg16Stack resolve BC,DE,HL,AF, used by PUSH/POP.
func (c *CPU) getReg16Stack(p uint8) uint16 {
	if p == 3 {
		return c.af()
	}
	return c.getReg16(p)
}

func (c *CPU) setReg16Stack(p uint8, v uint16) {
	if p == 3 {
		c.setAF(v)
		return
	}
	c.setReg16(p, v)
}

// IME reports whether interrupts are currently enabled; exposed for
// debugger/disassembler tooling.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is parked awaiting an interrupt.
func (c *CPU) Halted() bool { return c.halted }
