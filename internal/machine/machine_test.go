package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00
	// An infinite JR loop at the entry point, so the CPU never runs off
	// into uninitialized memory during a test run.
	rom[0x0100] = 0x18
	rom[0x0101] = 0xFE
	return rom
}

func TestRunFrameCompletesAndAdvancesDots(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.LoadROM(blankROM()))

	hit := m.RunFrame()
	assert.False(t, hit)
	assert.NotZero(t, m.dots)
}

func TestBreakpointStopsExecution(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.LoadROM(blankROM()))
	m.Breakpoints[0x0100] = true

	hit := m.RunFrame()
	assert.True(t, hit)
	assert.Equal(t, uint16(0x0100), m.CPU.PC)
}
