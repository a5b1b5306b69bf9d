// Package addr centralizes the memory-mapped register addresses and
// interrupt bit numbers used throughout the core, so every component
// refers to the same names instead of magic numbers.
package addr

// Joypad / serial.
const (
	P1 uint16 = 0xFF00
	SB uint16 = 0xFF01
	SC uint16 = 0xFF02
)

// Timer registers.
const (
	DIV  uint16 = 0xFF04
	TIMA uint16 = 0xFF05
	TMA  uint16 = 0xFF06
	TAC  uint16 = 0xFF07
)

// Interrupt flag / enable.
const (
	IF uint16 = 0xFF0F
	IE uint16 = 0xFFFF
)

// Audio registers (forwarded verbatim to the APU register block).
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F

	NR10 uint16 = 0xFF10
	NR11 uint16 = 0xFF11
	NR12 uint16 = 0xFF12
	NR13 uint16 = 0xFF13
	NR14 uint16 = 0xFF14

	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR23 uint16 = 0xFF18
	NR24 uint16 = 0xFF19

	NR30 uint16 = 0xFF1A
	NR31 uint16 = 0xFF1B
	NR32 uint16 = 0xFF1C
	NR33 uint16 = 0xFF1D
	NR34 uint16 = 0xFF1E

	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23

	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26

	WaveRAMStart uint16 = 0xFF30
	WaveRAMEnd   uint16 = 0xFF3F
)

// Video registers.
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	LY   uint16 = 0xFF44
	LYC  uint16 = 0xFF45
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// BootROMDisable is written to unmap the boot ROM permanently.
const BootROMDisable uint16 = 0xFF50

// OAM bounds.
const (
	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F
)

// Interrupt identifies one of the five DMG interrupt sources, in priority
// order (lowest bit number serviced first).
type Interrupt uint8

const (
	VBlank Interrupt = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Bit returns the IF/IE bit position for the interrupt.
func (i Interrupt) Bit() uint8 { return uint8(i) }

// Vector returns the interrupt service routine address.
func (i Interrupt) Vector() uint16 { return 0x40 + 8*uint16(i) }
