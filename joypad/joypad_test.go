package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadStateShiftsOutButtonsLSBFirst(t *testing.T) {
	j := New()
	j.WriteButtons(0, BUTTON_A|BUTTON_START)
	j.WriteStrobe(1)
	j.WriteStrobe(0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, w := range want {
		got := j.ReadState(0)
		assert.Equal(t, w, got, "bit %d", i)
	}
}

func TestReadStatePastEightReturnsOne(t *testing.T) {
	j := New()
	j.WriteButtons(0, 0xFF)
	j.WriteStrobe(1)
	j.WriteStrobe(0)
	for i := 0; i < 8; i++ {
		j.ReadState(0)
	}
	assert.Equal(t, uint8(1), j.ReadState(0))
}

func TestPortsAreIndependent(t *testing.T) {
	j := New()
	j.WriteButtons(0, BUTTON_A)
	j.WriteButtons(1, BUTTON_B)
	j.WriteStrobe(1)
	j.WriteStrobe(0)

	assert.Equal(t, uint8(1), j.ReadState(0))
	assert.Equal(t, uint8(0), j.ReadState(1))
}

func TestHighStrobeKeepsReadingBitZero(t *testing.T) {
	j := New()
	j.WriteButtons(0, BUTTON_A)
	j.WriteStrobe(1)
	j.WriteStrobe(0) // latch buttons
	j.WriteStrobe(1) // re-enter continuous-latch mode
	first := j.ReadState(0)
	second := j.ReadState(0)
	assert.Equal(t, uint8(1), first)
	assert.Equal(t, first, second)
}

func TestCloneIsIndependentCopy(t *testing.T) {
	j := New()
	j.WriteButtons(0, BUTTON_A)
	j.WriteStrobe(1)
	j.WriteStrobe(0)
	clone := j.Clone()
	clone.WriteButtons(0, 0)
	clone.WriteStrobe(1)
	clone.WriteStrobe(0)
	assert.Equal(t, uint8(1), j.ReadState(0))
	assert.Equal(t, uint8(0), clone.ReadState(0))
}
