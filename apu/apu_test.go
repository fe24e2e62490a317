package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessReadReturnsSentinel(t *testing.T) {
	a := New()
	assert.Equal(t, uint8(1), a.Access(0x4000, 0, false))
	assert.Equal(t, uint8(1), a.Access(0x4015, 0, false))
}

func TestAccessWriteIsDiscarded(t *testing.T) {
	a := New()
	assert.Equal(t, uint8(0), a.Access(0x4000, 0xFF, true))
	assert.Equal(t, uint8(1), a.Access(0x4000, 0, false))
}
