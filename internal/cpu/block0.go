package cpu

// execBlock0 covers the structurally irregular 00xxxxxx opcode block:
// NOP/STOP/JR, 16-bit loads and INC/DEC, the (BC)/(DE)/(HL+)/(HL-) loads,
// 8-bit INC/DEC/LD-immediate, and the accumulator rotate/flag opcodes.
func (c *CPU) execBlock0(opcode, y, z, p, q uint8) int {
	switch z {
	case 0:
		return c.block0Col0(y)
	case 1:
		if q == 0 {
			c.setReg16(p, c.fetch16())
			return 3
		}
		c.addHL(c.getReg16(p))
		return 2
	case 2:
		return c.block0Col2(p, q)
	case 3:
		v := c.getReg16(p)
		if q == 0 {
			c.setReg16(p, v+1)
		} else {
			c.setReg16(p, v-1)
		}
		return 2
	case 4:
		c.setReg8(y, c.inc8(c.getReg8(y)))
		if y == 6 {
			return 3
		}
		return 1
	case 5:
		c.setReg8(y, c.dec8(c.getReg8(y)))
		if y == 6 {
			return 3
		}
		return 1
	case 6:
		c.setReg8(y, c.fetch8())
		if y == 6 {
			return 3
		}
		return 2
	default: // z == 7
		return c.block0Col7(y)
	}
}

func (c *CPU) block0Col0(y uint8) int {
	switch y {
	case 0:
		return 1 // NOP
	case 1:
		addr := c.fetch16()
		c.bus.Write16(addr, c.SP)
		return 5
	case 2:
		second := c.fetch8()
		c.log.Warn("STOP executed; treated as a no-op", "pc", c.PC-2, "second_byte", second)
		return 1
	case 3:
		c.jumpRelative()
		return 3
	default:
		if c.condition(y - 4) {
			c.jumpRelative()
			return 3
		}
		c.fetch8()
		return 2
	}
}

func (c *CPU) block0Col2(p, q uint8) int {
	if q == 0 {
		addr := c.indirectAddr(p)
		c.bus.Write(addr, c.A)
	} else {
		addr := c.indirectAddr(p)
		c.A = c.bus.Read(addr)
	}
	return 2
}

// indirectAddr resolves the (BC)/(DE)/(HL+)/(HL-) operand and applies the
// HL increment/decrement as a side effect.
func (c *CPU) indirectAddr(p uint8) uint16 {
	switch p {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		hl := c.hl()
		c.setHL(hl + 1)
		return hl
	default:
		hl := c.hl()
		c.setHL(hl - 1)
		return hl
	}
}

func (c *CPU) block0Col7(y uint8) int {
	switch y {
	case 0:
		c.rlca()
	case 1:
		c.rrca()
	case 2:
		c.rla()
	case 3:
		c.rra()
	case 4:
		c.daa()
	case 5:
		c.cpl()
	case 6:
		c.scf()
	case 7:
		c.ccf()
	}
	return 1
}

func (c *CPU) jumpRelative() {
	offset := int8(c.fetch8())
	c.PC = uint16(int32(c.PC) + int32(offset))
}

func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.zero()
	case 1:
		return c.zero()
	case 2:
		return !c.carry()
	default:
		return c.carry()
	}
}
