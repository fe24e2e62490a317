package machine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullSink struct{ frames int }

func (s *nullSink) NewFrame(pixels []uint32) { s.frames++ }

func writeTestROM(t *testing.T) string {
	t.Helper()
	b := make([]byte, 16)
	copy(b[0:4], []byte("NES\x1A"))
	b[4], b[5] = 1, 1 // 1 PRG bank, 1 CHR bank, mapper 0
	b = append(b, make([]byte, 16384)...)
	b = append(b, make([]byte, 8192)...)
	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := New(writeTestROM(t), &nullSink{})
	require.NoError(t, err)
	return m
}

func TestRAMMirroring(t *testing.T) {
	m := newTestMachine(t)
	m.Write(0x0000, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0x0800))
	assert.Equal(t, uint8(0x42), m.Read(0x1800))
}

func TestPPURegisterMirroring(t *testing.T) {
	m := newTestMachine(t)
	m.Write(0x2003, 5)    // OAMADDR = 5, via the base address
	m.Write(0x200C, 0xAB) // OAMDATA write, via the mirrored address ($2004+8)
	m.Write(0x200B, 5)    // OAMADDR = 5 again, via the mirrored address ($2003+8)
	assert.Equal(t, uint8(0xAB), m.Read(0x2004))
}

func TestJoypadReadWriteRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	m.SetButtons(0, 0x01)
	m.Write(0x4016, 1)
	m.Write(0x4016, 0)
	assert.Equal(t, uint8(1), m.Read(0x4016))
}

func TestAPUStubRegisterReadsSentinel(t *testing.T) {
	m := newTestMachine(t)
	assert.Equal(t, uint8(1), m.Read(0x4000))
	assert.Equal(t, uint8(1), m.Read(0x4015))
}

func TestOAMDMACopiesPageIntoOAM(t *testing.T) {
	m := newTestMachine(t)
	for i := uint16(0); i < 256; i++ {
		m.Write(0x0200+i, uint8(i))
	}
	m.Write(0x4014, 0x02)
	for i := 0; i < 256; i++ {
		m.Write(0x2003, uint8(i)) // OAMADDR
		assert.Equal(t, uint8(i), m.Read(0x2004))
	}
}

func TestRunFrameDeliversOneFrame(t *testing.T) {
	sink := &nullSink{}
	m, err := New(writeTestROM(t), sink)
	require.NoError(t, err)
	m.sink = sink
	m.RunFrame()
	assert.Equal(t, 1, sink.frames)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	m.Write(0x0000, 0x11)
	snap := m.Backup()

	m.Write(0x0000, 0x22)
	assert.Equal(t, uint8(0x22), m.Read(0x0000))

	m.Restore(snap)
	assert.Equal(t, uint8(0x11), m.Read(0x0000))
}

func TestOAMDMAChargesStolenCycles(t *testing.T) {
	m := newTestMachine(t)
	before := m.ticks
	m.Write(0x4014, 0x02)
	// 256 read+write pairs, each charged as a CPU cycle
	assert.Equal(t, uint64(512), m.ticks-before)
}

// writeProgramROM builds a mapper-0 ROM whose PRG starts with the
// given code at $8000 and carries reset/NMI vectors pointing where the
// caller asks.
func writeProgramROM(t *testing.T, code []byte, nmiVec uint16) string {
	t.Helper()
	prg := make([]byte, 16384)
	copy(prg, code)
	prg[0x3FFA] = uint8(nmiVec)
	prg[0x3FFB] = uint8(nmiVec >> 8)
	prg[0x3FFC] = 0x00 // reset vector $8000
	prg[0x3FFD] = 0x80

	b := make([]byte, 16)
	copy(b[0:4], []byte("NES\x1A"))
	b[4], b[5] = 1, 1
	b = append(b, prg...)
	b = append(b, make([]byte, 8192)...)
	path := filepath.Join(t.TempDir(), "prog.nes")
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

// One NMI per frame: a program that enables NMI via PPUCTRL and spins
// with interrupts enabled sees its NMI handler run exactly once per
// RunFrame, counting in zero page.
func TestNMIDeliveredExactlyOncePerFrame(t *testing.T) {
	code := []byte{
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000 (enable NMI)
		0xA9, 0x00, // LDA #$00
		0x85, 0x10, // STA $10 (power-on RAM is $FF)
		0x58,             // CLI
		0x4C, 0x0A, 0x80, // JMP $800A (spin)
		// NMI handler at $800D
		0xE6, 0x10, // INC $10
		0x40, // RTI
	}
	m, err := New(writeProgramROM(t, code, 0x800D), &nullSink{})
	require.NoError(t, err)

	m.RunFrame()
	assert.Equal(t, uint8(1), m.Read(0x0010))
	m.RunFrame()
	assert.Equal(t, uint8(2), m.Read(0x0010))
}

// Restore rewinds to the backup point and a re-run from there lands on
// the same state the first run did.
func TestRestoreReproducesRun(t *testing.T) {
	code := []byte{
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0xA9, 0x00, // LDA #$00
		0x85, 0x10, // STA $10
		0x58,             // CLI
		0x4C, 0x0A, 0x80, // spin
		0xE6, 0x10, // NMI: INC $10
		0x40, // RTI
	}
	m, err := New(writeProgramROM(t, code, 0x800D), &nullSink{})
	require.NoError(t, err)

	m.RunFrame()
	m.RunFrame()
	snap := m.Backup()

	m.RunFrame()
	m.RunFrame()
	wantRegs := m.CPURegisters()
	wantCount := m.Read(0x0010)

	m.Restore(snap)
	assert.Equal(t, uint8(2), m.Read(0x0010))
	m.RunFrame()
	m.RunFrame()

	assert.Equal(t, wantRegs, m.CPURegisters())
	assert.Equal(t, wantCount, m.Read(0x0010))
}
