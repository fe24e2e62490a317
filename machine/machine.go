// Package machine aggregates the CPU, PPU, cartridge, joypad, and APU
// stub into the bus decode table the CPU drives, and adds a deep-copy
// snapshot mechanism for the backup/restore primitive.
package machine

import (
	"fmt"

	"github.com/bdwalton/gintendo/apu"
	"github.com/bdwalton/gintendo/cartridge"
	"github.com/bdwalton/gintendo/cpu"
	"github.com/bdwalton/gintendo/joypad"
	"github.com/bdwalton/gintendo/ppu"
)

const (
	MAX_NES_BASE_RAM     = 0x1FFF
	MAX_PPU_REG_MIRRORED = 0x3FFF
	MAX_APU_REG          = 0x4014
	OAMDMA               = 0x4014
	JOYPAD1              = 0x4016
	JOYPAD2              = 0x4017
	MAX_IO_REG           = 0x4018
)

// FrameSink receives one completed frame per call; see ppu.FrameSink.
type FrameSink interface {
	NewFrame(pixels []uint32)
}

// Machine owns the CPU, PPU, cartridge, joypad, and APU stub and wires
// them together through the CPU's Bus interface.
type Machine struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	cart *cartridge.Cartridge
	pad  *joypad.Joypad
	apu  *apu.APU
	sink FrameSink

	ticks uint64
}

// New constructs a machine for the ROM at path and brings the CPU to
// its post-power-on state.
func New(path string, sink FrameSink) (*Machine, error) {
	cart, err := cartridge.Load(path)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	m := &Machine{cart: cart, pad: joypad.New(), apu: apu.New(), sink: sink}
	m.ppu = ppu.New(cart, sink)
	m.ppu.SetMirroring(cart.Mirroring())
	m.cpu = cpu.New(m)
	m.cpu.Power()
	return m, nil
}

// Tick advances the PPU by three dots and mirrors the mapper's IRQ
// line onto the CPU; it implements cpu.Bus. The line is level
// sensitive, so a mapper acknowledging its IRQ lowers the CPU's too.
// Mirroring is refreshed here because MMC3-class mappers can switch it
// mid-frame.
func (m *Machine) Tick() {
	m.ppu.SetMirroring(m.cart.Mirroring())
	for i := 0; i < 3; i++ {
		m.ppu.Step(m.cpu)
	}
	m.ticks++
	m.cpu.SetIRQ(m.cart.IRQPending())
}

// Read implements the CPU's $0000-$FFFF decode.
func (m *Machine) Read(addr uint16) uint8 {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		return m.cpu.PeekRAM(addr)
	case addr <= MAX_PPU_REG_MIRRORED:
		return m.ppu.Access(uint8(addr&0x07), 0, false)
	case addr < MAX_APU_REG, addr == 0x4015:
		return m.apu.Access(addr, 0, false)
	case addr == OAMDMA:
		return 0 // write-only trigger; no mapped device on read
	case addr == JOYPAD1:
		return m.pad.ReadState(0)
	case addr == JOYPAD2:
		return m.pad.ReadState(1)
	case addr < MAX_IO_REG:
		return 0
	default:
		return m.cart.Access(addr, 0, false)
	}
}

// Write implements the CPU's $0000-$FFFF decode, including the
// OAM-DMA transfer.
func (m *Machine) Write(addr uint16, v uint8) {
	switch {
	case addr <= MAX_NES_BASE_RAM:
		m.cpu.PokeRAM(addr, v)
	case addr <= MAX_PPU_REG_MIRRORED:
		m.ppu.Access(uint8(addr&0x07), v, true)
	case addr == OAMDMA:
		m.oamDMA(v)
	case addr < MAX_APU_REG, addr == 0x4015:
		m.apu.Access(addr, v, true)
	case addr == JOYPAD1:
		m.pad.WriteStrobe(v)
	case addr == JOYPAD2:
		// $4017 write is an APU frame-counter control on real
		// hardware; out of scope here, so it's ignored.
	case addr < MAX_IO_REG:
	default:
		m.cart.Access(addr, v, true)
	}
}

// oamDMA performs 256 CPU read+write cycle pairs from page (v<<8) into
// PPU OAMDATA, charging the CPU for every one of the 512 stolen cycles
// rather than doing a bulk copy. The $4014 trigger write itself adds
// the 513th cycle in cpu.wr.
func (m *Machine) oamDMA(v uint8) {
	base := uint16(v) << 8
	for i := uint16(0); i < 256; i++ {
		b := m.Read(base + i)
		m.cpu.DMATick()
		m.ppu.Access(4, b, true)
		m.cpu.DMATick()
	}
}

// SetButtons sets the pending action byte for a controller port; the
// owning environment calls this once per step before RunFrame.
func (m *Machine) SetButtons(port int, action uint8) {
	m.pad.WriteButtons(port, action)
}

// RunFrame advances the machine by exactly one frame's worth of CPU
// cycles.
func (m *Machine) RunFrame() {
	m.cpu.RunFrame()
}

// Snapshot is a deep copy of every piece of state needed to resume
// the machine exactly where it left off: CPU RAM/registers, PPU
// RAM/OAM/pixels/counters, cartridge mapper state, and joypad shift
// state. The FrameSink is not meaningfully copyable and is not part of
// the snapshot.
type Snapshot struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	cart *cartridge.Cartridge
	pad  *joypad.Joypad
	apu  *apu.APU
}

// Backup returns an independent deep copy of the machine's state.
func (m *Machine) Backup() *Snapshot {
	cart := m.cart.Clone()
	return &Snapshot{
		cpu:  m.cpu.Clone(m),
		ppu:  m.ppu.Clone(cart),
		cart: cart,
		pad:  m.pad.Clone(),
		apu:  m.apu.Clone(),
	}
}

// Restore replaces the machine's live state with a fresh deep copy of
// a previously taken Snapshot.
func (m *Machine) Restore(s *Snapshot) {
	cart := s.cart.Clone()
	m.cart = cart
	m.ppu = s.ppu.Clone(cart)
	m.ppu.SetSink(m.sink)
	m.cpu = s.cpu.Clone(m)
	m.pad = s.pad.Clone()
	m.apu = s.apu.Clone()
}

// Pixels returns the live framebuffer, mainly for tests.
func (m *Machine) Pixels() []uint32 {
	return m.ppu.Pixels()
}

// CPURegisters exposes the CPU register file, mainly for tests.
func (m *Machine) CPURegisters() cpu.Registers {
	return m.cpu.Registers()
}
