// Package audio implements the four DMG sound channels, clocked off the
// same dot counter as the CPU and PPU, and mixed down to a mono PCM stream.
//
// Channels 1 and 2 (pulse, one with frequency sweep) are fully synthesized.
// Channels 3 (wave) and 4 (noise) latch their registers and run trigger and
// length counting (plus channel 3's NR30 DAC-enable bit), but their synthesis is not
// implemented and they contribute silence to the mix; this matches the
// specification's allowance that "synthesis is optional and may emit
// silence in the initial implementation."
package audio

import "github.com/tnystrom/dmgcore/internal/bit"

const (
	dotsHz   = 1 << 22 // master clock, dots per second
	duty4x11 = 0x800   // pulse period divider wraps at 2048
)

// duty tables: 8 steps, true = high. 12.5%/25%/50%/75%.
var dutyTable = [4][8]bool{
	{false, false, false, false, false, false, false, true},
	{true, false, false, false, false, false, false, true},
	{true, false, false, false, false, true, true, true},
	{false, true, true, true, true, true, true, false},
}

type pulse struct {
	// raw registers
	nr0, nr1, nr2, nr3, nr4 uint8

	enabled  bool
	dacOn    bool
	triggerp bool // latched by a NRx4 write with bit 7 set

	periodDiv int
	dutyStep  uint8

	volume    uint8
	envPace   uint8
	envUp     bool
	envCount  uint8

	lengthCounter uint8
	lengthEnable  bool

	hasSweep     bool
	sweepPace    uint8
	sweepDown    bool
	sweepShift   uint8
	sweepCounter uint8
	shadowFreq   uint16
}

func (p *pulse) period() uint16 {
	return uint16(p.nr3) | (uint16(p.nr4&0x07) << 8)
}

func (p *pulse) setPeriod(v uint16) {
	p.nr3 = bit.Low(v)
	p.nr4 = (p.nr4 &^ 0x07) | uint8(v>>8)&0x07
}

func (p *pulse) amplitude() int16 {
	if !p.enabled || !p.dacOn {
		return 0
	}
	duty := p.nr1 >> 6
	high := dutyTable[duty][p.dutyStep]
	mag := int16(p.volume) * (32767 / 15)
	if high {
		return mag
	}
	return -mag
}

func (p *pulse) tickDot() {
	if !p.enabled {
		return
	}
	p.periodDiv--
	if p.periodDiv <= 0 {
		p.periodDiv = int(duty4x11-p.period()) * 4
		p.dutyStep = (p.dutyStep + 1) & 0x07
	}
}

func (p *pulse) trigger() {
	p.enabled = true
	p.periodDiv = int(duty4x11-p.period()) * 4
	p.dutyStep = 0
	p.volume = p.nr2 >> 4
	p.envUp = p.nr2&0x08 != 0
	p.envPace = p.nr2 & 0x07
	p.envCount = p.envPace
	p.dacOn = p.nr2&0xF8 != 0
	if p.lengthCounter == 0 {
		if p.hasSweep {
			p.lengthCounter = 64
		} else {
			p.lengthCounter = 64
		}
	}
	if p.hasSweep {
		p.shadowFreq = p.period()
		p.sweepPace = (p.nr0 >> 4) & 0x07
		p.sweepDown = p.nr0&0x08 != 0
		p.sweepShift = p.nr0 & 0x07
		p.sweepCounter = p.sweepPace
	}
	if !p.dacOn {
		p.enabled = false
	}
}

func (p *pulse) stepEnvelope() {
	if p.envPace == 0 {
		return
	}
	if p.envCount > 0 {
		p.envCount--
	}
	if p.envCount == 0 {
		p.envCount = p.envPace
		if p.envUp && p.volume < 15 {
			p.volume++
		} else if !p.envUp && p.volume > 0 {
			p.volume--
		}
	}
}

func (p *pulse) stepLength() {
	if !p.lengthEnable || p.lengthCounter == 0 {
		return
	}
	p.lengthCounter--
	if p.lengthCounter == 0 {
		p.enabled = false
	}
}

func (p *pulse) stepSweep() {
	if !p.hasSweep || p.sweepPace == 0 {
		return
	}
	if p.sweepCounter > 0 {
		p.sweepCounter--
	}
	if p.sweepCounter != 0 {
		return
	}
	p.sweepCounter = p.sweepPace

	delta := p.shadowFreq >> p.sweepShift
	var newFreq uint16
	if p.sweepDown {
		if delta > p.shadowFreq {
			newFreq = 0
		} else {
			newFreq = p.shadowFreq - delta
		}
	} else {
		newFreq = p.shadowFreq + delta
	}
	if newFreq > 2047 {
		p.enabled = false
		return
	}
	if p.sweepShift != 0 {
		p.shadowFreq = newFreq
		p.setPeriod(newFreq)
	}
}

// passiveChannel models wave (CH3) and noise (CH4): registers are parsed
// and the length/trigger machinery runs, but amplitude is always silent.
type passiveChannel struct {
	nr0, nr1, nr2, nr3, nr4 uint8
	enabled                 bool
	lengthCounter           uint16
	lengthEnable            bool
	lengthFull              uint16
}

func (c *passiveChannel) trigger() {
	c.enabled = true
	if c.lengthCounter == 0 {
		c.lengthCounter = c.lengthFull
	}
}

func (c *passiveChannel) stepLength() {
	if !c.lengthEnable || c.lengthCounter == 0 {
		return
	}
	c.lengthCounter--
	if c.lengthCounter == 0 {
		c.enabled = false
	}
}

// APU is the Audio Processing Unit: four channel state machines, a frame
// sequencer derived from DIV-APU ticks, and a mixer that pushes finished
// samples into a Ring for a host audio callback to consume.
type APU struct {
	power bool

	ch1, ch2 pulse
	ch3      passiveChannel
	ch4      passiveChannel
	waveRAM  [16]uint8

	nr50, nr51 uint8

	lastDivBit4 bool
	seqStep     uint8

	dotAcc         float64
	dotsPerSample  float64
	ring           *Ring
}

// New creates an APU that mixes to the given host sample rate.
func New(sampleRate int) *APU {
	a := &APU{ring: NewRing(), dotsPerSample: float64(dotsHz) / float64(sampleRate)}
	a.ch1.hasSweep = true
	a.ch3.lengthFull = 256
	a.ch4.lengthFull = 64
	return a
}

// Ring exposes the PCM sample queue for a host audio callback.
func (a *APU) Ring() *Ring { return a.ring }

// ReadRegister returns the byte at an FF10-FF3F address.
func (a *APU) ReadRegister(address uint16) uint8 {
	switch {
	case address >= 0xFF30 && address <= 0xFF3F:
		return a.waveRAM[address-0xFF30]
	}
	switch address {
	case 0xFF10:
		return a.ch1.nr0 | 0x80
	case 0xFF11:
		return a.ch1.nr1 | 0x3F
	case 0xFF12:
		return a.ch1.nr2
	case 0xFF14:
		return a.ch1.nr4 | 0xBF
	case 0xFF16:
		return a.ch2.nr1 | 0x3F
	case 0xFF17:
		return a.ch2.nr2
	case 0xFF19:
		return a.ch2.nr4 | 0xBF
	case 0xFF1A:
		return a.ch3.nr0 | 0x7F
	case 0xFF1C:
		return a.ch3.nr2 | 0x9F
	case 0xFF1E:
		return a.ch3.nr4 | 0xBF
	case 0xFF21:
		return a.ch4.nr2
	case 0xFF22:
		return a.ch4.nr3
	case 0xFF23:
		return a.ch4.nr4 | 0xBF
	case 0xFF24:
		return a.nr50
	case 0xFF25:
		return a.nr51
	case 0xFF26:
		status := uint8(0x70)
		if a.power {
			status |= 0x80
		}
		if a.ch1.enabled {
			status |= 0x01
		}
		if a.ch2.enabled {
			status |= 0x02
		}
		if a.ch3.enabled {
			status |= 0x04
		}
		if a.ch4.enabled {
			status |= 0x08
		}
		return status
	default:
		return 0xFF
	}
}

// WriteRegister updates an FF10-FF3F register, latching the trigger flag
// when bit 7 of an NRx4 write is set.
func (a *APU) WriteRegister(address uint16, value uint8) {
	if address >= 0xFF30 && address <= 0xFF3F {
		a.waveRAM[address-0xFF30] = value
		return
	}
	if !a.power && address != 0xFF26 {
		return
	}
	switch address {
	case 0xFF10:
		a.ch1.nr0 = value
	case 0xFF11:
		a.ch1.nr1 = value
		a.ch1.lengthCounter = 64 - (value & 0x3F)
	case 0xFF12:
		a.ch1.nr2 = value
	case 0xFF13:
		a.ch1.nr3 = value
	case 0xFF14:
		a.ch1.nr4 = value
		a.ch1.lengthEnable = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch1.triggerp = true
		}
	case 0xFF16:
		a.ch2.nr1 = value
		a.ch2.lengthCounter = 64 - (value & 0x3F)
	case 0xFF17:
		a.ch2.nr2 = value
	case 0xFF18:
		a.ch2.nr3 = value
	case 0xFF19:
		a.ch2.nr4 = value
		a.ch2.lengthEnable = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch2.triggerp = true
		}
	case 0xFF1A:
		a.ch3.nr0 = value
		if value&0x80 == 0 {
			a.ch3.enabled = false
		}
	case 0xFF1B:
		a.ch3.nr1 = value
		a.ch3.lengthCounter = 256 - uint16(value)
	case 0xFF1C:
		a.ch3.nr2 = value
	case 0xFF1D:
		a.ch3.nr3 = value
	case 0xFF1E:
		a.ch3.nr4 = value
		a.ch3.lengthEnable = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch3.trigger()
		}
	case 0xFF20:
		a.ch4.nr1 = value
		a.ch4.lengthCounter = 64 - uint16(value&0x3F)
	case 0xFF21:
		a.ch4.nr2 = value
	case 0xFF22:
		a.ch4.nr3 = value
	case 0xFF23:
		a.ch4.nr4 = value
		a.ch4.lengthEnable = value&0x40 != 0
		if value&0x80 != 0 {
			a.ch4.trigger()
		}
	case 0xFF24:
		a.nr50 = value
	case 0xFF25:
		a.nr51 = value
	case 0xFF26:
		a.power = value&0x80 != 0
		if !a.power {
			*a = APU{ring: a.ring, dotsPerSample: a.dotsPerSample, power: false}
			a.ch1.hasSweep = true
			a.ch3.lengthFull = 256
			a.ch4.lengthFull = 64
		}
	}
}

// TickDot advances all channel state machines and the mixer by one master
// clock dot; divBit4 is the current value of DIV's bit 4, used to detect
// the falling edge that drives the 512 Hz frame sequencer.
func (a *APU) TickDot(divBit4 bool) {
	if a.lastDivBit4 && !divBit4 {
		a.frameSequencerTick()
	}
	a.lastDivBit4 = divBit4

	if a.ch1.triggerp {
		a.ch1.triggerp = false
		a.ch1.trigger()
	}
	if a.ch2.triggerp {
		a.ch2.triggerp = false
		a.ch2.trigger()
	}

	a.ch1.tickDot()
	a.ch2.tickDot()

	a.dotAcc++
	if a.dotAcc >= a.dotsPerSample {
		a.dotAcc -= a.dotsPerSample
		a.mixSample()
	}
}

// frameSequencerTick runs once per 512 Hz DIV-APU tick, deriving the
// 256/128/64 Hz length, sweep and envelope steps per the specification.
func (a *APU) frameSequencerTick() {
	a.seqStep++
	if a.seqStep%2 == 0 {
		a.ch1.stepLength()
		a.ch2.stepLength()
		a.ch3.stepLength()
		a.ch4.stepLength()
	}
	if a.seqStep%4 == 0 {
		a.ch1.stepSweep()
	}
	if a.seqStep%8 == 0 {
		a.ch1.stepEnvelope()
		a.ch2.stepEnvelope()
	}
}

func (a *APU) mixSample() {
	sum := int32(a.ch1.amplitude()) + int32(a.ch2.amplitude())
	// CH3/CH4 contribute silence (see package doc); included for symmetry.
	sum /= 4
	if sum > 32767 {
		sum = 32767
	}
	if sum < -32768 {
		sum = -32768
	}
	a.ring.Push(int16(sum))
}
