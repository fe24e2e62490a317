package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMapper4() *mapper4 {
	prg := make([]byte, 0x2000*8) // 8 8KB banks
	for b := 0; b < 8; b++ {
		prg[b*0x2000] = byte(b) // mark each bank's first byte with its index
	}
	return newMapper4(prg, nil, MIRROR_VERTICAL).(*mapper4)
}

func TestMapper4BankSelectAndDataRegisters(t *testing.T) {
	m := newTestMapper4()
	m.PrgWrite(0x8000, 6)    // select R6, PRG mode 0
	m.PrgWrite(0x8001, 3)    // R6 = bank 3
	assert.Equal(t, uint8(3), m.registers[6])
	assert.Equal(t, uint8(3), m.prg[3*0x2000])
	assert.Equal(t, uint8(3), m.PrgRead(0x8000))
}

func TestMapper4PrgModeSwapsFixedBankHalf(t *testing.T) {
	m := newTestMapper4()
	last := m.prgBanks() - 1
	secondLast := m.prgBanks() - 2

	// mode 0 (default): C000 fixed to second-last, E000 fixed to last.
	assert.Equal(t, secondLast, m.PrgRead(0xC000))
	assert.Equal(t, last, m.PrgRead(0xE000))

	m.PrgWrite(0x8000, 1<<6) // select bank-select register, prgMode = 1
	// mode 1: 8000 now fixed to second-last, C000 now R6 (still 0).
	assert.Equal(t, secondLast, m.PrgRead(0x8000))
	assert.Equal(t, uint8(0), m.PrgRead(0xC000))
}

func TestMapper4MirroringRegister(t *testing.T) {
	m := newTestMapper4()
	m.PrgWrite(0xA000, 0) // even addr, bit0=0 -> vertical
	assert.Equal(t, uint8(MIRROR_VERTICAL), m.Mirroring())
	m.PrgWrite(0xA000, 1)
	assert.Equal(t, uint8(MIRROR_HORIZONTAL), m.Mirroring())
}

func TestMapper4IRQCounterReloadsAndFires(t *testing.T) {
	m := newTestMapper4()
	m.PrgWrite(0xC000, 4)    // IRQ latch = 4
	m.PrgWrite(0xC001, 0)    // force reload
	m.PrgWrite(0xE001, 0)    // enable IRQ

	m.SignalScanline() // counter 0 -> reload to 4
	assert.False(t, m.IRQPending())
	for i := 0; i < 4; i++ {
		m.SignalScanline()
	}
	assert.True(t, m.IRQPending())
	m.ClearIRQ()
	assert.False(t, m.IRQPending())
}

func TestMapper4IRQDisableClearsPending(t *testing.T) {
	m := newTestMapper4()
	m.irqPending = true
	m.PrgWrite(0xE000, 0) // disable
	assert.False(t, m.IRQPending())
}

func TestMapper4CHRBankSwitching(t *testing.T) {
	chr := make([]byte, 0x400*16)
	for i := 0; i < 16; i++ {
		chr[i*0x400] = byte(i)
	}
	m := newMapper4(make([]byte, 0x2000*8), chr, MIRROR_VERTICAL).(*mapper4)
	m.PrgWrite(0x8000, 2) // select R2 (1KB bank at $1000 in mode 0)
	m.PrgWrite(0x8001, 5)
	assert.Equal(t, uint8(5), m.ChrRead(0x1000))
}
