// Package bus implements the DMG address space: a single Bus type that
// routes every CPU-visible read/write to the right backing store — boot
// ROM, cartridge, video RAM, work RAM, OAM, I/O registers, HRAM or IE —
// exactly as the real address decoder does, and owns the devices (timer,
// joypad, serial, audio) that live behind the I/O register window.
package bus

import (
	"log/slog"

	"github.com/tnystrom/dmgcore/internal/addr"
	"github.com/tnystrom/dmgcore/internal/audio"
	"github.com/tnystrom/dmgcore/internal/bit"
	"github.com/tnystrom/dmgcore/internal/cart"
	"github.com/tnystrom/dmgcore/internal/serial"
)

const (
	vramBankSize = 0x2000
	wramBankSize = 0x1000
	oamSize      = 0xA0
	hramSize     = 0x7F
)

// Bus is the DMG memory-mapped bus and I/O hub.
type Bus struct {
	log *slog.Logger

	cart *cart.Cartridge

	vram     [2][vramBankSize]uint8
	vramBank uint8

	wram     [8][wramBankSize]uint8
	wramBank uint8

	oam   [oamSize]uint8
	hram  [hramSize]uint8
	ie    uint8
	ifReg uint8

	timer  timer
	joypad joypad
	serial *serial.Sink
	apu    *audio.APU

	bootROMMapped bool

	// OAM DMA: a write to FF46 starts a 160-byte copy that, on real
	// hardware, runs alongside the CPU and blocks most other bus access.
	// This implementation performs it instantaneously on the triggering
	// write, which is observably correct for every game that waits out
	// the transfer before touching OAM again (the universal convention).
	lcdc, stat, scy, scx, ly, lyc, dma, bgp, obp0, obp1, wy, wx uint8
}

// New builds a bus with no cartridge inserted; call InsertCartridge before
// running any program.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	b := &Bus{
		log:           log,
		cart:          cart.New(),
		bootROMMapped: true,
		apu:           audio.New(48000),
	}
	b.serial = serial.New(func() { b.RequestInterrupt(addr.Serial) })
	return b
}

// InsertCartridge replaces the current cartridge.
func (b *Bus) InsertCartridge(c *cart.Cartridge) { b.cart = c }

// Audio exposes the APU for a host backend to pull mixed samples from.
func (b *Bus) Audio() *audio.APU { return b.apu }

// PressButton / ReleaseButton let a UI thread update joypad state
// concurrently with the emulator thread; see joypad for the atomics.
func (b *Bus) PressButton(btn Button) {
	wasIdle := !b.joypad.anyPressed()
	b.joypad.press(btn)
	if wasIdle {
		b.RequestInterrupt(addr.Joypad)
	}
}

func (b *Bus) ReleaseButton(btn Button) { b.joypad.release(btn) }

// RequestInterrupt sets the IF bit for the given source.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	b.ifReg = bit.Set(i.Bit(), b.ifReg)
}

// PendingInterrupts returns the bits set in both IF and IE.
func (b *Bus) PendingInterrupts() uint8 { return b.ifReg & b.ie }

// ClearInterrupt clears the IF bit once the CPU begins servicing it.
func (b *Bus) ClearInterrupt(i addr.Interrupt) {
	b.ifReg = bit.Reset(i.Bit(), b.ifReg)
}

// Read returns the byte visible at address from the CPU's perspective.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= 0x00FF && b.bootROMMapped:
		return bootROM[address]
	case address <= 0x7FFF:
		return b.cart.Read(address)
	case address <= 0x9FFF:
		return b.vram[b.vramBank][address-0x8000]
	case address <= 0xBFFF:
		return b.cart.Read(address)
	case address <= 0xCFFF:
		return b.wram[0][address-0xC000]
	case address <= 0xDFFF:
		bank := b.wramBank
		if bank == 0 {
			bank = 1
		}
		return b.wram[bank][address-0xD000]
	case address <= 0xFDFF:
		return b.Read(address - 0x2000) // echo RAM
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		return b.oam[address-addr.OAMStart]
	case address <= 0xFEFF:
		return 0xFF // unusable
	case address <= 0xFF7F:
		return b.readIO(address)
	case address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default:
		return b.ie
	}
}

// Write stores value at address, dispatching side effects (bank switches,
// DMA, DIV reset) exactly as the corresponding Read/Write would on real
// hardware.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.cart.Write(address, value)
	case address <= 0x9FFF:
		b.vram[b.vramBank][address-0x8000] = value
	case address <= 0xBFFF:
		b.cart.Write(address, value)
	case address <= 0xCFFF:
		b.wram[0][address-0xC000] = value
	case address <= 0xDFFF:
		bank := b.wramBank
		if bank == 0 {
			bank = 1
		}
		b.wram[bank][address-0xD000] = value
	case address <= 0xFDFF:
		b.Write(address-0x2000, value) // echo RAM
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		b.oam[address-addr.OAMStart] = value
	case address <= 0xFEFF:
		// unusable, writes ignored
	case address <= 0xFF7F:
		b.writeIO(address, value)
	case address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default:
		b.ie = value
	}
}

// Read16 / Write16 handle the CPU's little-endian 16-bit accesses (SP
// push/pop, 16-bit immediates).
func (b *Bus) Read16(address uint16) uint16 {
	return bit.Combine(b.Read(address+1), b.Read(address))
}

func (b *Bus) Write16(address uint16, value uint16) {
	b.Write(address, bit.Low(value))
	b.Write(address+1, bit.High(value))
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.joypad.read()
	case address == addr.SB || address == addr.SC:
		return b.serial.Read(address)
	case address == addr.DIV:
		return b.timer.div()
	case address == addr.TIMA:
		return b.timer.tima
	case address == addr.TMA:
		return b.timer.tma
	case address == addr.TAC:
		return b.timer.tac | 0xF8
	case address == addr.IF:
		return b.ifReg | 0xE0
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.apu.ReadRegister(address)
	case address == addr.LCDC:
		return b.lcdc
	case address == addr.STAT:
		return b.stat | 0x80
	case address == addr.SCY:
		return b.scy
	case address == addr.SCX:
		return b.scx
	case address == addr.LY:
		return b.ly
	case address == addr.LYC:
		return b.lyc
	case address == addr.DMA:
		return b.dma
	case address == addr.BGP:
		return b.bgp
	case address == addr.OBP0:
		return b.obp0
	case address == addr.OBP1:
		return b.obp1
	case address == addr.WY:
		return b.wy
	case address == addr.WX:
		return b.wx
	case address == 0xFF4F:
		return b.vramBank | 0xFE
	case address == 0xFF70:
		return b.wramBank | 0xF8
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.joypad.writeSelect(value)
	case address == addr.SB || address == addr.SC:
		b.serial.Write(address, value)
	case address == addr.DIV:
		b.timer.reset()
	case address == addr.TIMA:
		b.timer.tima = value
	case address == addr.TMA:
		b.timer.tma = value
	case address == addr.TAC:
		b.timer.tac = value & 0x07
	case address == addr.IF:
		b.ifReg = value & 0x1F
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.apu.WriteRegister(address, value)
	case address == addr.LCDC:
		b.lcdc = value
	case address == addr.STAT:
		b.stat = (b.stat & 0x07) | (value & 0x78)
	case address == addr.SCY:
		b.scy = value
	case address == addr.SCX:
		b.scx = value
	case address == addr.LY:
		// read-only on real hardware
	case address == addr.LYC:
		b.lyc = value
	case address == addr.DMA:
		b.dma = value
		b.runOAMDMA(value)
	case address == addr.BGP:
		b.bgp = value
	case address == addr.OBP0:
		b.obp0 = value
	case address == addr.OBP1:
		b.obp1 = value
	case address == addr.WY:
		b.wy = value
	case address == addr.WX:
		b.wx = value
	case address == addr.BootROMDisable:
		if value&0x01 != 0 {
			b.bootROMMapped = false
		}
	case address == 0xFF4F:
		b.vramBank = value & 0x01
	case address == 0xFF70:
		b.wramBank = value & 0x07
	}
}

func (b *Bus) runOAMDMA(high uint8) {
	src := uint16(high) << 8
	for i := uint16(0); i < oamSize; i++ {
		b.oam[i] = b.Read(src + i)
	}
}

// VideoState returns the register values the PPU needs each dot. The PPU
// owns LY/STAT mode bits; SetLY/SetSTAT below are how it writes them back.
func (b *Bus) VideoState() (lcdc, stat, scy, scx, lyc, bgp, obp0, obp1, wy, wx uint8) {
	return b.lcdc, b.stat, b.scy, b.scx, b.lyc, b.bgp, b.obp0, b.obp1, b.wy, b.wx
}

// SetLY / SetSTAT let the PPU publish the line counter and mode bits it
// alone is responsible for advancing.
func (b *Bus) SetLY(v uint8)   { b.ly = v }
func (b *Bus) SetSTAT(v uint8) { b.stat = (b.stat & 0x80) | (v & 0x7F) }

// VRAM / OAMBytes give the PPU direct slices for pixel fetching, avoiding
// a Read() call per pixel during rendering.
func (b *Bus) VRAM(bankIdx uint8) *[vramBankSize]uint8 { return &b.vram[bankIdx&0x01] }
func (b *Bus) OAMBytes() *[oamSize]uint8               { return &b.oam }

// TickTimer advances DIV/TIMA and the serial port by mCycles M-cycles,
// following a CPU instruction. It is the sole source of Timer interrupts.
func (b *Bus) TickTimer(mCycles int) {
	for i := 0; i < mCycles; i++ {
		if b.timer.advance() {
			b.RequestInterrupt(addr.Timer)
		}
	}
	b.serial.Tick(mCycles * 4)
}

// TickAudioDot advances the APU by exactly one master-clock dot. The
// scheduler calls this once per dot as it steps the PPU, since dots (not
// dots_cpu) is the single authoritative count of elapsed master-clock time;
// see the machine package for the full interleaving. DIV is the high byte
// of the internal counter, so DIV's bit 4 is bit 12 of timer.counter.
func (b *Bus) TickAudioDot() {
	b.apu.TickDot(bit.IsSet16(12, b.timer.counter))
}
