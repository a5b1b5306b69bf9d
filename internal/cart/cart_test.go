package cart

import "testing"

func makeHeader(mbcType, romSizeCode, ramSizeCode uint8, romBanks int) []byte {
	data := make([]byte, romBanks*romBankSize)
	data[headerMBCType] = mbcType
	data[headerROMSize] = romSizeCode
	data[headerRAMSize] = ramSizeCode
	return data
}

func TestLoad_MBC0(t *testing.T) {
	data := makeHeader(0x00, 0x00, 0x00, 2)
	data[0] = 0xAB
	data[0x4000] = 0xCD

	c, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Kind() != MBC0 {
		t.Fatalf("kind = %v, want MBC0", c.Kind())
	}
	if got := c.Read(0x0000); got != 0xAB {
		t.Fatalf("Read(0x0000) = %#02x, want 0xAB", got)
	}
	if got := c.Read(0x4000); got != 0xCD {
		t.Fatalf("Read(0x4000) = %#02x, want 0xCD", got)
	}
	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("Read(0xA000) = %#02x, want 0xFF (no RAM)", got)
	}
}

func TestMBC0_WriteIgnored(t *testing.T) {
	data := makeHeader(0x00, 0x00, 0x00, 2)
	c, _ := Load(data)
	c.Write(0x2000, 0x05) // would switch banks on MBC1; must be a no-op here
	if got := c.Read(0x4000); got != data[0x4000] {
		t.Fatalf("MBC0 write to ROM space should be ignored")
	}
}

func TestUnknownMBCType(t *testing.T) {
	data := makeHeader(0x05, 0x00, 0x00, 2)
	if _, err := Load(data); err == nil {
		t.Fatal("expected HeaderError for unsupported cartridge type")
	}
}

func TestMBC1_RomBankSwitch(t *testing.T) {
	data := makeHeader(0x01, 0x01, 0x00, 4) // 4 banks
	for b := 0; b < 4; b++ {
		data[b*romBankSize] = byte(b)
	}
	c, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.Write(0x2000, 0x03)
	if got := c.Read(0x4000); got != 3 {
		t.Fatalf("after selecting bank 3, Read(0x4000) = %d, want 3", got)
	}

	// Bank 0 written to the bank-select register reads back as bank 1.
	c.Write(0x2000, 0x00)
	if got := c.Read(0x4000); got != 1 {
		t.Fatalf("bank 0 should alias to bank 1, got %d", got)
	}
}

func TestMBC1_RamEnableAndPersistence(t *testing.T) {
	data := makeHeader(0x03, 0x00, 0x02, 2) // MBC1+RAM+Battery, 1 RAM bank
	c, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM disabled should read 0xFF, got %#02x", got)
	}

	c.Write(0xA000, 0x42) // dropped, RAM disabled
	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("write while disabled should be dropped")
	}

	c.Write(0x0000, 0x0A) // enable RAM
	c.Write(0xA000, 0x42)
	if got := c.Read(0xA000); got != 0x42 {
		t.Fatalf("Read(0xA000) after enable+write = %#02x, want 0x42", got)
	}
}

func TestMBC1_OutOfRangeRamBank(t *testing.T) {
	data := makeHeader(0x03, 0x00, 0x02, 2) // 1 RAM bank only
	c, _ := Load(data)
	c.Write(0x0000, 0x0A)
	c.Write(0x4000, 0x03) // select RAM bank 3, out of range
	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("out-of-range RAM bank should read 0xFF, got %#02x", got)
	}
}
