package bus

import _ "embed"

// bootROM is the 256-byte image mapped at 0000-00FF until the program
// writes 1 to FF50. The real Nintendo boot ROM is not redistributable, so
// this build ships an inert placeholder (all zero bytes, i.e. NOPs) that is
// never executed: cpu.New starts at the cartridge entry point 0100 with
// post-boot register values, and machine.New writes FF50 to unmap the
// overlay so the cartridge's RST and interrupt vectors in 0000-00FF are
// visible.
//
//go:embed bootrom.bin
var bootROM []byte
