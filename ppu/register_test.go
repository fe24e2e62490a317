package ppu

import (
	"testing"
)

func TestCtrlRegAccessors(t *testing.T) {
	c := ctrlReg(0xFF)
	if c.nametable() != 3 {
		t.Errorf("nametable() = %d, wanted 3", c.nametable())
	}
	if c.incr() != 32 {
		t.Errorf("incr() = %d, wanted 32", c.incr())
	}
	if c.sprTbl() != 1 || c.bgTbl() != 1 {
		t.Errorf("sprTbl()/bgTbl() = %d/%d, wanted 1/1", c.sprTbl(), c.bgTbl())
	}
	if c.sprHeight() != 16 {
		t.Errorf("sprHeight() = %d, wanted 16", c.sprHeight())
	}
	if !c.nmiEnabled() {
		t.Errorf("nmiEnabled() = false, wanted true")
	}

	z := ctrlReg(0)
	if z.incr() != 1 || z.sprHeight() != 8 || z.nmiEnabled() {
		t.Errorf("zero ctrlReg did not decode to defaults")
	}
}

func TestMaskRegAccessors(t *testing.T) {
	m := maskReg(MASK_BG_ENABLE | MASK_SPR_LEFT)
	if !m.bgEnabled() || m.sprEnabled() {
		t.Errorf("bgEnabled/sprEnabled = %t/%t, wanted true/false", m.bgEnabled(), m.sprEnabled())
	}
	if m.bgLeft() || !m.sprLeft() {
		t.Errorf("bgLeft/sprLeft = %t/%t, wanted false/true", m.bgLeft(), m.sprLeft())
	}
}
