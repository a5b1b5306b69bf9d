package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeNOP(t *testing.T) {
	i := Decode([]uint8{0x00})
	assert.Equal(t, "NOP", i.Text)
	assert.Equal(t, uint16(1), i.Length)
}

func TestDecodeLDRegisterToRegister(t *testing.T) {
	i := Decode([]uint8{0x78}) // LD A,B
	assert.Equal(t, "LD A,B", i.Text)
}

func TestDecodeImmediate16(t *testing.T) {
	i := Decode([]uint8{0x21, 0x34, 0x12}) // LD HL,1234h
	assert.Equal(t, "LD HL,1234h", i.Text)
	assert.Equal(t, uint16(3), i.Length)
}

func TestDecodeCBBitOp(t *testing.T) {
	i := Decode([]uint8{0xCB, 0x7C}) // BIT 7,H
	assert.Equal(t, "BIT 7,H", i.Text)
	assert.Equal(t, uint16(2), i.Length)
}

func TestDecodeConditionalJump(t *testing.T) {
	i := Decode([]uint8{0xC2, 0x00, 0x02})
	assert.Equal(t, "JP NZ,0200h", i.Text)
}
