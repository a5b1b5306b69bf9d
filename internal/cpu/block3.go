package cpu

import "fmt"

// illegalOpcode panics: these eleven encodings have no defined behavior on
// real Sharp LR35902 hardware (the decoder lines for them simply don't
// exist), and executing one locks the real CPU up until reset. There is no
// sane fallback to emulate, so this core fails loudly instead of silently
// treating them as a no-op.
func illegalOpcode(opcode uint8) int {
	panic(fmt.Sprintf("cpu: illegal opcode 0x%02X", opcode))
}

// execBlock3 covers the 11xxxxxx block: conditional RET/JP/CALL, stack
// PUSH/POP, the CB prefix, the LDH/LD(C) accumulator shortcuts, ADD
// SP/LD HL,SP+r8, DI/EI, immediate ALU ops, and RST.
func (c *CPU) execBlock3(opcode, y, z, p, q uint8) int {
	switch z {
	case 0:
		return c.block3Col0(y)
	case 1:
		return c.block3Col1(p, q)
	case 2:
		return c.block3Col2(y)
	case 3:
		return c.block3Col3(y)
	case 4:
		if y <= 3 {
			return c.call(c.condition(y))
		}
		return illegalOpcode(opcode)
	case 5:
		return c.block3Col5(p, q)
	case 6:
		c.execALU(y, c.fetch8())
		return 2
	default: // z == 7, RST
		c.push16(c.PC)
		c.PC = uint16(y) * 8
		return 4
	}
}

func (c *CPU) block3Col0(y uint8) int {
	switch y {
	case 4:
		addr := 0xFF00 + uint16(c.fetch8())
		c.bus.Write(addr, c.A)
		return 3
	case 5:
		c.SP = c.addSPRelative()
		return 4
	case 6:
		addr := 0xFF00 + uint16(c.fetch8())
		c.A = c.bus.Read(addr)
		return 3
	case 7:
		c.setHL(c.addSPRelative())
		return 3
	default:
		if c.condition(y) {
			c.PC = c.pop16()
			return 5
		}
		return 2
	}
}

func (c *CPU) block3Col1(p, q uint8) int {
	if q == 0 {
		c.setReg16Stack(p, c.pop16())
		return 3
	}
	switch p {
	case 0:
		c.PC = c.pop16()
		return 4
	case 1:
		c.PC = c.pop16()
		c.ime = true
		return 4
	case 2:
		c.PC = c.hl()
		return 1
	default:
		c.SP = c.hl()
		return 2
	}
}

func (c *CPU) block3Col2(y uint8) int {
	switch y {
	case 4:
		c.bus.Write(0xFF00+uint16(c.C), c.A)
		return 2
	case 5:
		c.bus.Write(c.fetch16(), c.A)
		return 4
	case 6:
		c.A = c.bus.Read(0xFF00 + uint16(c.C))
		return 2
	case 7:
		c.A = c.bus.Read(c.fetch16())
		return 4
	default:
		addr := c.fetch16()
		if c.condition(y) {
			c.PC = addr
			return 4
		}
		return 3
	}
}

func (c *CPU) block3Col3(y uint8) int {
	switch y {
	case 0:
		c.PC = c.fetch16()
		return 4
	case 1:
		return 1 + c.execCB(c.fetch8())
	case 6:
		c.ime = false
		c.imePending = false
		return 1
	case 7:
		c.imePending = true
		return 1
	default:
		return illegalOpcode(0xC0 | y<<3 | 3)
	}
}

func (c *CPU) block3Col5(p, q uint8) int {
	if q == 0 {
		c.push16(c.getReg16Stack(p))
		return 4
	}
	if p == 0 {
		return c.call(true)
	}
	y := p*2 + q
	return illegalOpcode(0xC0 | y<<3 | 5)
}

func (c *CPU) call(take bool) int {
	addr := c.fetch16()
	if !take {
		return 3
	}
	c.push16(c.PC)
	c.PC = addr
	return 6
}
