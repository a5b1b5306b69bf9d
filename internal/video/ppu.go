// Package video implements the DMG picture processing unit as a
// per-dot state machine: 456 dots per scanline, 154 scanlines per frame,
// with OAM scan at the start of each visible line, a fixed-width pixel
// transfer window, and STAT interrupt lines derived exactly the way real
// hardware derives them — as an OR of latched conditions that fires on
// the rising edge, not on every dot that satisfies it.
package video

import "github.com/tnystrom/dmgcore/internal/addr"

const (
	DotsPerLine  = 456
	LinesPerFrame = 154
	VisibleLines  = 144
	ScreenWidth   = 160
	ScreenHeight  = 144

	oamScanDots  = 80
	transferDots = 160
)

const (
	ModeHBlank = 0
	ModeVBlank = 1
	ModeOAM    = 2
	ModeTransfer = 3
)

// Bus is the subset of the memory bus the PPU needs: its own registers,
// raw VRAM/OAM storage, and the interrupt controller.
type Bus interface {
	VideoState() (lcdc, stat, scy, scx, lyc, bgp, obp0, obp1, wy, wx uint8)
	SetLY(v uint8)
	SetSTAT(v uint8)
	VRAM(bank uint8) *[0x2000]uint8
	OAMBytes() *[0xA0]uint8
	RequestInterrupt(i addr.Interrupt)
}

type sprite struct {
	y, x       int
	tile       int
	priority   bool
	yFlip      bool
	xFlip      bool
	dmgPalette bool
}

// PPU renders one dot of video output per TickDot call.
type PPU struct {
	bus Bus

	dot  uint16
	ly   uint8
	mode uint8

	sprites []sprite

	statLine bool

	// Framebuffer holds one RGB triple per pixel, row-major, matching the
	// classic DMG four-shade palette mapped to grayscale.
	Framebuffer [ScreenWidth * ScreenHeight * 3]uint8

	frameDone bool
}

// New creates a PPU driving framebuffer writes and interrupts through bus.
func New(bus Bus) *PPU {
	return &PPU{bus: bus, mode: ModeOAM}
}

// FrameReady reports (and clears) whether a full frame just finished
// rendering, for a host loop to know when to present Framebuffer.
func (p *PPU) FrameReady() bool {
	v := p.frameDone
	p.frameDone = false
	return v
}

// TickDot advances the PPU by exactly one master-clock dot.
func (p *PPU) TickDot() {
	lcdc, _, _, _, _, _, _, _, _, _ := p.bus.VideoState()
	if lcdc&0x80 == 0 {
		// LCD off: hold at line 0, mode 0, and don't consume dots. Real
		// hardware's behavior here (no STAT interrupts, LY reads 0) is
		// widely relied on by init code that disables the LCD to set up
		// VRAM before the first frame.
		p.dot = 0
		p.ly = 0
		p.mode = ModeHBlank
		p.bus.SetLY(0)
		p.updateSTAT()
		return
	}

	switch {
	case p.dot == 0 && p.ly < VisibleLines:
		p.sprites = p.oamScan(lcdc)
		p.setMode(ModeOAM)
	case p.dot == oamScanDots && p.ly < VisibleLines:
		p.setMode(ModeTransfer)
	case p.dot == oamScanDots+transferDots && p.ly < VisibleLines:
		p.setMode(ModeHBlank)
	}

	if p.ly < VisibleLines && p.dot >= oamScanDots && p.dot < oamScanDots+transferDots {
		p.renderDot(p.dot, lcdc)
	}

	p.updateSTAT()

	p.dot++
	if p.dot == DotsPerLine {
		p.dot = 0
		p.ly++
		if p.ly == VisibleLines {
			p.setMode(ModeVBlank)
			p.bus.RequestInterrupt(addr.VBlank)
			p.frameDone = true
		}
		if p.ly == LinesPerFrame {
			p.ly = 0
		}
		p.bus.SetLY(p.ly)
	}
}

func (p *PPU) setMode(m uint8) {
	p.mode = m
}

// updateSTAT recomputes STAT's mode and coincidence bits, and raises the
// LCDStat interrupt on the rising edge of the OR of every latched and
// currently-enabled source, matching the real "STAT interrupt line".
func (p *PPU) updateSTAT() {
	_, stat, _, _, lyc, _, _, _, _, _ := p.bus.VideoState()

	coincidence := p.ly == lyc
	stat = (stat &^ 0x07) | p.mode
	if coincidence {
		stat |= 0x04
	}
	p.bus.SetSTAT(stat)

	line := (stat&0x40 != 0 && coincidence) ||
		(stat&0x20 != 0 && p.mode == ModeOAM) ||
		(stat&0x10 != 0 && p.mode == ModeVBlank) ||
		(stat&0x08 != 0 && p.mode == ModeHBlank)

	if line && !p.statLine {
		p.bus.RequestInterrupt(addr.LCDStat)
	}
	p.statLine = line
}

// oamScan selects up to 10 sprites intersecting ly, in OAM order, then
// sorts by X so smaller X (higher display priority) is drawn first.
func (p *PPU) oamScan(lcdc uint8) []sprite {
	height := 8
	if lcdc&0x04 != 0 {
		height = 16
	}

	oam := p.bus.OAMBytes()
	var found []sprite
	for i := 0; i < len(oam); i += 4 {
		y := int(oam[i])
		if y <= int(p.ly)+16 && y+height > int(p.ly)+16 {
			found = append(found, sprite{
				y:          y,
				x:          int(oam[i+1]),
				tile:       int(oam[i+2]),
				priority:   oam[i+3]&0x80 != 0,
				yFlip:      oam[i+3]&0x40 != 0,
				xFlip:      oam[i+3]&0x20 != 0,
				dmgPalette: oam[i+3]&0x10 != 0,
			})
			if len(found) == 10 {
				break
			}
		}
	}

	// Stable insertion sort by X: Go's sort.Slice isn't stable, and ties
	// must keep OAM order (the earliest-indexed sprite wins at equal X).
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].x < found[j-1].x; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}
	return found
}

func colorDMG(index, palette uint8) uint8 {
	shade := (palette >> (index * 2)) & 0x03
	return 0x55 * (3 - shade)
}

// renderDot ports the reference per-dot compositor: background/window
// pixel first, then the first opaque, non-masked sprite covering the
// same column wins.
func (p *PPU) renderDot(dot uint16, lcdc uint8) {
	lcdX := int(dot) - oamScanDots
	lcdY := int(p.ly)

	_, _, scy, scx, _, bgp, obp0, obp1, wy, wx := p.bus.VideoState()
	vram := p.bus.VRAM(0)

	windowEnabled := lcdc&0x20 != 0
	bgIndex := uint8(0)

	if windowEnabled && int(wy) <= lcdY && int(wx) <= lcdX+7 {
		winY := lcdY - int(wy)
		winX := lcdX + 7 - int(wx)
		tileMapArea := 0x1800
		if lcdc&0x40 != 0 {
			tileMapArea = 0x1C00
		}
		bgIndex = p.fetchPixel(vram, tileMapArea, winX, winY, lcdc)
		p.setPixel(lcdX, lcdY, colorDMG(bgIndex, bgp))
	} else {
		bgX := (int(scx) + lcdX) & 0xFF
		bgY := (int(scy) + lcdY) & 0xFF
		tileMapArea := 0x1800
		if lcdc&0x08 != 0 {
			tileMapArea = 0x1C00
		}
		bgIndex = p.fetchPixel(vram, tileMapArea, bgX, bgY, lcdc)
		p.setPixel(lcdX, lcdY, colorDMG(bgIndex, bgp))
	}

	height := 8
	if lcdc&0x04 != 0 {
		height = 16
	}
	for _, s := range p.sprites {
		if s.x <= lcdX+8 && s.x > lcdX {
			sx := lcdX + 8 - s.x
			sy := lcdY + 16 - s.y
			if s.yFlip {
				sy = height - 1 - sy
			}
			if s.xFlip {
				sx = 7 - sx
			}

			tileBase := s.tile * 16
			b1 := (vram[tileBase+sy*2] >> (7 - sx)) & 1
			b2 := (vram[tileBase+sy*2+1] >> (7 - sx)) & 1
			index := b1 | (b2 << 1)
			if index == 0 {
				continue
			}
			if s.priority && bgIndex != 0 {
				continue
			}

			palette := obp0
			if s.dmgPalette {
				palette = obp1
			}
			p.setPixel(lcdX, lcdY, colorDMG(index, palette))
			break
		}
	}
}

func (p *PPU) fetchPixel(vram *[0x2000]uint8, tileMapArea, x, y int, lcdc uint8) uint8 {
	tileIndex := int(vram[tileMapArea+(x>>3)+(y>>3)*32])
	if lcdc&0x10 == 0 && tileIndex&0x80 == 0 {
		tileIndex |= 0x100
	}
	tileX, tileY := x&0x07, y&0x07
	base := tileIndex * 16
	b1 := (vram[base+tileY*2] >> (7 - tileX)) & 1
	b2 := (vram[base+tileY*2+1] >> (7 - tileX)) & 1
	return b1 | (b2 << 1)
}

func (p *PPU) setPixel(x, y int, shade uint8) {
	i := 3 * (x + ScreenWidth*y)
	p.Framebuffer[i] = shade
	p.Framebuffer[i+1] = shade
	p.Framebuffer[i+2] = shade
}
