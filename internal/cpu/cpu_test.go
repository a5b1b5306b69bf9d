package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnystrom/dmgcore/internal/addr"
	"github.com/tnystrom/dmgcore/internal/bit"
)

// fakeBus is a flat 64KiB address space with a software interrupt
// flag/enable pair, enough to exercise the CPU in isolation.
type fakeBus struct {
	mem    [0x10000]uint8
	ifReg  uint8
	ieReg  uint8
}

func (f *fakeBus) Read(a uint16) uint8  { return f.mem[a] }
func (f *fakeBus) Write(a uint16, v uint8) { f.mem[a] = v }
func (f *fakeBus) Read16(a uint16) uint16  { return bit.Combine(f.mem[a+1], f.mem[a]) }
func (f *fakeBus) Write16(a uint16, v uint16) {
	f.mem[a] = bit.Low(v)
	f.mem[a+1] = bit.High(v)
}
func (f *fakeBus) PendingInterrupts() uint8 { return f.ifReg & f.ieReg }
func (f *fakeBus) ClearInterrupt(i addr.Interrupt) {
	f.ifReg = bit.Reset(i.Bit(), f.ifReg)
}

func newTestCPU(program ...uint8) (*CPU, *fakeBus) {
	b := &fakeBus{}
	copy(b.mem[0x0100:], program)
	c := New(b, nil)
	return c, b
}

func TestNOPTakesOneMCycle(t *testing.T) {
	c, _ := newTestCPU(0x00)
	assert.Equal(t, 1, c.Step())
	assert.Equal(t, uint16(0x0101), c.PC)
}

func TestJPTakesFourMCyclesAndSetsPC(t *testing.T) {
	c, _ := newTestCPU(0xC3, 0x34, 0x12)
	assert.Equal(t, 4, c.Step())
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestConditionalJRBoundaryCycles(t *testing.T) {
	c, _ := newTestCPU(0x20, 0x05) // JR NZ, not taken since Z starts set... force Z
	c.setFlag(flagZ, true)
	assert.Equal(t, 2, c.Step())

	c2, _ := newTestCPU(0x20, 0x05)
	c2.setFlag(flagZ, false)
	assert.Equal(t, 3, c2.Step())
}

func TestPushPopRoundTrips(t *testing.T) {
	c, _ := newTestCPU(
		0x01, 0xCD, 0xAB, // LD BC, 0xABCD
		0xC5,             // PUSH BC
		0x21, 0x00, 0x00, // LD HL, 0
		0xE1, // POP HL
	)
	for i := 0; i < 4; i++ {
		c.Step()
	}
	assert.Equal(t, uint16(0xABCD), c.hl())
}

func TestAddInverseOfSubRoundTrips(t *testing.T) {
	c, _ := newTestCPU()
	for a := 0; a < 256; a += 17 {
		for v := 0; v < 256; v += 23 {
			c.A = uint8(a)
			c.setFlag(flagC, false)
			c.add(uint8(v), false)
			c.sub(uint8(v), false)
			require.Equal(t, uint8(a), c.A)
		}
	}
}

func TestDAAAfterBCDAddition(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x09
	c.add(0x01, false) // 0x0A: no half-carry, but the low nibble is above 9
	c.daa()
	assert.Equal(t, uint8(0x10), c.A)
	assert.False(t, c.carry())
}

func TestDAAAfterBCDSubtraction(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x00
	c.sub(0x01, false) // wraps to 0xFF, half-carry and carry set
	c.daa()
	assert.Equal(t, uint8(0x99), c.A)
	assert.True(t, c.carry())
}

func TestEIDelaysEnableByOneInstruction(t *testing.T) {
	c, b := newTestCPU(0xFB, 0x00, 0x00) // EI, NOP, NOP
	b.ifReg = 0x01
	b.ieReg = 0x01

	c.Step() // EI: ime not yet true
	assert.False(t, c.ime)

	c.Step() // NOP after EI: ime becomes true only now
	assert.True(t, c.ime)
}

func TestHaltWakesOnPendingInterruptEvenWithIMEOff(t *testing.T) {
	c, b := newTestCPU(0x76) // HALT
	c.ime = false
	c.Step()
	assert.True(t, c.halted)

	b.ifReg = 0x01
	b.ieReg = 0x01
	c.Step()
	assert.False(t, c.halted)
}

func TestHaltDispatchesPendingInterruptAndClearsHaltedWithIMEOn(t *testing.T) {
	c, b := newTestCPU(0x76) // HALT
	c.ime = true
	c.Step()
	assert.True(t, c.halted)

	b.ifReg = 1 << addr.VBlank.Bit()
	b.ieReg = 1 << addr.VBlank.Bit()
	b.mem[addr.VBlank.Vector()] = 0x00 // NOP at the ISR vector

	cycles := c.Step()
	assert.Equal(t, 5, cycles)
	assert.False(t, c.halted, "halted must clear when the pending interrupt is actually dispatched")
	assert.Equal(t, addr.VBlank.Vector(), c.PC)

	// The CPU must now be able to fetch and execute at the vector instead
	// of staying parked forever returning 1 M-cycle per Step.
	cycles = c.Step()
	assert.Equal(t, 1, cycles)
	assert.Equal(t, addr.VBlank.Vector()+1, c.PC)
}

func TestInterruptServiceVectorsAndClearsIF(t *testing.T) {
	c, b := newTestCPU(0x00)
	c.ime = true
	b.ifReg = 1 << addr.VBlank.Bit()
	b.ieReg = 1 << addr.VBlank.Bit()

	cycles := c.Step()
	assert.Equal(t, 5, cycles)
	assert.Equal(t, addr.VBlank.Vector(), c.PC)
	assert.False(t, c.ime)
	assert.Zero(t, b.ifReg)
}

func TestIllegalOpcodesPanicInsteadOfNoOp(t *testing.T) {
	for _, op := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		c, _ := newTestCPU(op)
		assert.Panics(t, func() { c.Step() }, "opcode 0x%02X must panic, not decode as a no-op", op)
	}
}

func TestRLCASetsCarryFromBit7(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x80
	c.rlca()
	assert.Equal(t, uint8(0x01), c.A)
	assert.True(t, c.carry())
}

func TestCBBitOpcodeOnRegisterCosts2MCycles(t *testing.T) {
	c, _ := newTestCPU(0xCB, 0x7F) // BIT 7,A
	assert.Equal(t, 2, c.Step())
}

func TestCBRotateOnIndirectHLCosts4MCycles(t *testing.T) {
	c, b := newTestCPU(0xCB, 0x06) // RLC (HL)
	c.setHL(0xC000)
	b.mem[0xC000] = 0x80
	assert.Equal(t, 4, c.Step())
}
