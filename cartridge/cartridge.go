package cartridge

import (
	"fmt"
	"os"
)

// Cartridge is a loaded ROM plus its active mapper. It implements the
// capability interfaces the ppu and machine packages expect:
// Access/ChrAccess/SignalScanline/Mirroring.
type Cartridge struct {
	path   string
	h      *header
	mapper Mapper
}

// Load reads an iNES ROM file at path, parses its header, and
// constructs the mapper it names.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read ROM file %q: %w", path, err)
	}
	if len(data) < 16 {
		return nil, fmt.Errorf("ROM file %q is too short to contain an iNES header", path)
	}

	h := parseHeader(data[0:16])
	if !h.isINesFormat() {
		return nil, fmt.Errorf("ROM file %q is not in iNES format", path)
	}

	off := 16
	if h.hasTrainer() {
		off += TRAINER_SIZE
	}

	prgLen := PRG_BLOCK_SIZE * int(h.prgSize)
	if off+prgLen > len(data) {
		return nil, fmt.Errorf("ROM file %q: PRG ROM truncated (wanted %d bytes)", path, prgLen)
	}
	prg := append([]byte(nil), data[off:off+prgLen]...)
	off += prgLen

	chrLen := CHR_BLOCK_SIZE * int(h.chrSize)
	if off+chrLen > len(data) {
		return nil, fmt.Errorf("ROM file %q: CHR ROM truncated (wanted %d bytes)", path, chrLen)
	}
	var chr []byte
	if chrLen > 0 {
		chr = append([]byte(nil), data[off:off+chrLen]...)
	}

	m, err := newMapper(h.mapperNum(), prg, chr, h.mirroringMode())
	if err != nil {
		return nil, fmt.Errorf("ROM file %q: %w", path, err)
	}

	return &Cartridge{path: path, h: h, mapper: m}, nil
}

// Access implements the $4018-$FFFF PRG decode the bus delegates to
// the cartridge.
func (c *Cartridge) Access(addr uint16, v uint8, isWrite bool) uint8 {
	if isWrite {
		c.mapper.PrgWrite(addr, v)
		return 0
	}
	return c.mapper.PrgRead(addr)
}

// ChrAccess implements the PPU-side $0000-$1FFF CHR decode.
func (c *Cartridge) ChrAccess(addr uint16, v uint8, isWrite bool) uint8 {
	if isWrite {
		c.mapper.ChrWrite(addr, v)
		return 0
	}
	return c.mapper.ChrRead(addr)
}

// SignalScanline is called by the PPU on dot 260 of visible and
// pre-render scanlines while rendering is enabled, for mappers that
// count scanlines to drive an IRQ.
func (c *Cartridge) SignalScanline() {
	c.mapper.SignalScanline()
}

// IRQPending and ClearIRQ expose the mapper's IRQ line to the owning
// machine, which forwards it to the CPU.
func (c *Cartridge) IRQPending() bool {
	return c.mapper.IRQPending()
}

func (c *Cartridge) ClearIRQ() {
	c.mapper.ClearIRQ()
}

// Mirroring reports the current nametable mirroring mode. Mappers like
// MMC3 can change this at runtime via a bank-select register write, so
// this is queried continuously rather than cached at load.
func (c *Cartridge) Mirroring() uint8 {
	return c.mapper.Mirroring()
}

// Clone returns an independent deep copy for snapshot/restore.
func (c *Cartridge) Clone() *Cartridge {
	cp := *c
	cp.mapper = c.mapper.Clone()
	return &cp
}
