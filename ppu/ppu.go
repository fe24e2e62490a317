// Package ppu implements the NES Picture Processing Unit: the 3x
// dot-clocked scanline renderer that, driven one dot at a time by the
// CPU's tick callback, produces a 256x240 framebuffer and requests the
// CPU's non-maskable interrupt at the start of vertical blank.
package ppu

const (
	VRAM_SIZE    = 2048
	OAM_SIZE     = 256
	PALETTE_SIZE = 32
)

const (
	NES_RES_WIDTH  = 256
	NES_RES_HEIGHT = 240
)

// Mirroring modes, as reported by the cartridge and passed in through
// SetMirroring.
const (
	MIRROR_VERTICAL = iota
	MIRROR_HORIZONTAL
	MIRROR_SINGLE0
	MIRROR_SINGLE1
	MIRROR_FOUR_SCREEN
)

// Cartridge is the capability the PPU needs from its host cartridge:
// CHR-space access and the per-scanline mapper IRQ hook.
type Cartridge interface {
	ChrAccess(addr uint16, v uint8, isWrite bool) uint8
	SignalScanline()
}

// NMITarget receives the PPU's non-maskable-interrupt request. It is
// passed explicitly to Step rather than held by the PPU, to avoid a
// CPU<->PPU reference cycle; see the CPU's SetNMI.
type NMITarget interface {
	SetNMI(bool)
}

// FrameSink receives one completed 256x240 RGB framebuffer per frame,
// handed over at scanline 240 dot 0.
type FrameSink interface {
	NewFrame(pixels []uint32)
}

// PPU holds all state required to resume rendering exactly where it
// left off.
type PPU struct {
	cart Cartridge
	sink FrameSink

	ciRam  [VRAM_SIZE]uint8
	cgRam  [PALETTE_SIZE]uint8
	oamMem [OAM_SIZE]uint8

	oam    [8]sprite
	secOam [8]sprite

	pixels [NES_RES_WIDTH * NES_RES_HEIGHT]uint32

	vAddr, tAddr loopy
	fX           uint8
	oamAddr      uint8

	ctrl   ctrlReg
	mask   maskReg
	status uint8

	nt, at, bgL, bgH   uint8
	bgShiftL, bgShiftH uint16
	atShiftL, atShiftH uint8
	atLatchL, atLatchH uint8
	fetchAddr          uint16

	scanline int
	dot      int
	frameOdd bool

	readBuffer  uint8
	writeToggle bool
	openBus     uint8

	mirroring uint8
}

// New creates a PPU wired to the given cartridge and frame sink. The
// mirroring mode is not read from the cartridge here; it is set with
// SetMirroring.
func New(cart Cartridge, sink FrameSink) *PPU {
	p := &PPU{cart: cart, sink: sink}
	p.Reset()
	return p
}

// Reset zeros registers, RAM, the framebuffer, and the scanline/dot
// counters, matching power-on behavior.
func (p *PPU) Reset() {
	p.ciRam = [VRAM_SIZE]uint8{}
	p.cgRam = [PALETTE_SIZE]uint8{}
	p.oamMem = [OAM_SIZE]uint8{}
	p.pixels = [NES_RES_WIDTH * NES_RES_HEIGHT]uint32{}
	p.vAddr, p.tAddr = loopy{}, loopy{}
	p.fX, p.oamAddr = 0, 0
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.nt, p.at, p.bgL, p.bgH = 0, 0, 0, 0
	p.bgShiftL, p.bgShiftH = 0, 0
	p.atShiftL, p.atShiftH = 0, 0
	p.atLatchL, p.atLatchH = 0, 0
	p.scanline, p.dot = 0, 0
	p.frameOdd = false
	p.readBuffer, p.openBus = 0, 0
	p.writeToggle = false
	for i := range p.oam {
		p.oam[i] = voidSprite()
	}
	for i := range p.secOam {
		p.secOam[i] = voidSprite()
	}
}

// SetMirroring sets the cartridge-supplied nametable mirroring mode.
func (p *PPU) SetMirroring(m uint8) {
	p.mirroring = m
}

// Clone returns a deep copy of the PPU for snapshot purposes. The
// caller must supply the cloned cartridge to wire into the copy — the
// PPU never owns the cartridge's lifetime. The frame sink is dropped;
// a restored PPU gets the live one back via SetSink.
func (p *PPU) Clone(cart Cartridge) *PPU {
	cp := *p
	cp.cart = cart
	cp.sink = nil
	return &cp
}

// SetSink attaches a frame sink, used when a snapshot clone is brought
// back to life as the machine's live PPU.
func (p *PPU) SetSink(sink FrameSink) {
	p.sink = sink
}

// Pixels returns the live framebuffer, for tests and debugging.
func (p *PPU) Pixels() []uint32 {
	return p.pixels[:]
}

func (p *PPU) rendering() bool {
	return p.mask.bgEnabled() || p.mask.sprEnabled()
}

// ntMirror collapses a $2000-$3EFF nametable address into the 2KiB of
// onboard ciRam per the cartridge's mirroring mode.
func (p *PPU) ntMirror(addr uint16) uint16 {
	a := addr & 0x0FFF
	table := a / 0x0400
	offset := a % 0x0400
	switch p.mirroring {
	case MIRROR_VERTICAL:
		return uint16(table%2)*0x0400 + offset
	case MIRROR_HORIZONTAL:
		return uint16(table/2)*0x0400 + offset
	case MIRROR_SINGLE0:
		return offset
	case MIRROR_SINGLE1:
		return 0x0400 + offset
	default: // MIRROR_FOUR_SCREEN: no cartridge VRAM modeled, degrade to onboard RAM
		return a % VRAM_SIZE
	}
}

// paletteIndex collapses the $3F00-$3F1F palette range, mirroring the
// four background-color slots $3F10/14/18/1C onto $3F00/04/08/0C.
func (p *PPU) paletteIndex(addr uint16) uint16 {
	i := addr & 0x001F
	switch i {
	case 0x10, 0x14, 0x18, 0x1C:
		i -= 0x10
	}
	return i
}

func (p *PPU) rd(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.cart.ChrAccess(addr, 0, false)
	case addr < 0x3F00:
		return p.ciRam[p.ntMirror(addr)]
	default:
		return p.cgRam[p.paletteIndex(addr)]
	}
}

func (p *PPU) wr(addr uint16, v uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.cart.ChrAccess(addr, v, true)
	case addr < 0x3F00:
		p.ciRam[p.ntMirror(addr)] = v
	default:
		p.cgRam[p.paletteIndex(addr)] = v
	}
}

// Access implements the PPU register file at $2000-$2007 (mirrored
// every 8 bytes across $2000-$3FFF by the bus); index must already be
// reduced modulo 8.
func (p *PPU) Access(index uint8, v uint8, isWrite bool) uint8 {
	if isWrite {
		p.writeRegister(index, v)
		return 0
	}
	return p.readRegister(index)
}

func (p *PPU) readRegister(index uint8) uint8 {
	switch index & 7 {
	case 2: // PPUSTATUS
		v := (p.openBus & 0x1F) | p.status
		p.status &^= STATUS_VBLANK
		p.writeToggle = false
		return v
	case 4: // OAMDATA
		return p.oamMem[p.oamAddr]
	case 7: // PPUDATA
		addr := p.vAddr.addr()
		var v uint8
		if addr >= 0x3F00 {
			v = p.rd(addr)
			p.readBuffer = p.rd(addr - 0x1000)
		} else {
			v = p.readBuffer
			p.readBuffer = p.rd(addr)
		}
		p.vAddr.setAddr(addr + p.ctrl.incr())
		return v
	}
	return p.openBus
}

func (p *PPU) writeRegister(index uint8, v uint8) {
	p.openBus = v
	switch index & 7 {
	case 0: // PPUCTRL
		p.ctrl = ctrlReg(v)
		p.tAddr.setNametable(p.ctrl.nametable())
	case 1: // PPUMASK
		p.mask = maskReg(v)
	case 3: // OAMADDR
		p.oamAddr = v
	case 4: // OAMDATA
		p.oamMem[p.oamAddr] = v
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.writeToggle {
			p.fX = v & 0x07
			p.tAddr.setCoarseX(uint16(v) >> 3)
		} else {
			p.tAddr.setFineY(uint16(v) & 0x07)
			p.tAddr.setCoarseY(uint16(v) >> 3)
		}
		p.writeToggle = !p.writeToggle
	case 6: // PPUADDR
		if !p.writeToggle {
			p.tAddr.setH(uint16(v))
		} else {
			p.tAddr.setL(uint16(v))
			p.vAddr.setAddr(p.tAddr.addr())
		}
		p.writeToggle = !p.writeToggle
	case 7: // PPUDATA
		p.wr(p.vAddr.addr(), v)
		p.vAddr.setAddr(p.vAddr.addr() + p.ctrl.incr())
	}
}

// Step advances the PPU by one dot. The caller (the machine's Bus)
// invokes this three times per CPU tick.
func (p *PPU) Step(cpu NMITarget) {
	switch {
	case p.scanline < 240:
		p.scanlineCycle(false)
	case p.scanline == 240:
		if p.dot == 0 {
			p.deliverFrame()
		}
	case p.scanline == 241:
		if p.dot == 1 {
			p.status |= STATUS_VBLANK
			if p.ctrl.nmiEnabled() {
				cpu.SetNMI(true)
			}
		}
	case p.scanline == 261:
		p.scanlineCycle(true)
	}
	p.advanceDot()
}

// advanceDot moves the dot/scanline counters forward by one dot, with
// the one exception NES hardware makes: the last dot of the pre-render
// scanline is skipped on odd frames while rendering is enabled.
func (p *PPU) advanceDot() {
	if p.scanline == 261 && p.dot == 339 && p.frameOdd && p.rendering() {
		p.dot = 0
		p.scanline = 0
		p.frameOdd = !p.frameOdd
		return
	}
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frameOdd = !p.frameOdd
		}
	}
}

func (p *PPU) deliverFrame() {
	if p.sink == nil {
		return
	}
	out := make([]uint32, len(p.pixels))
	copy(out, p.pixels[:])
	p.sink.NewFrame(out)
}

// scanlineCycle implements the shared VISIBLE/PRE per-dot fetch and
// sprite pipeline described in the PPU's per-dot scanline design.
func (p *PPU) scanlineCycle(isPre bool) {
	if isPre && p.dot == 1 {
		p.status &^= STATUS_VBLANK | STATUS_SPR_OVERFLOW | STATUS_SPR0_HIT
	}

	inFetchWindow := (p.dot >= 2 && p.dot <= 255) || (p.dot >= 322 && p.dot <= 337)
	if inFetchWindow {
		p.pixel()
		switch p.dot % 8 {
		case 1:
			p.fetchAddr = p.ntAddr()
			p.reloadShift()
		case 2:
			p.nt = p.rd(p.fetchAddr)
		case 3:
			p.fetchAddr = p.atAddr()
		case 4:
			p.at = p.rd(p.fetchAddr)
			if p.vAddr.coarseY()&2 != 0 {
				p.at >>= 4
			}
			if p.vAddr.coarseX()&2 != 0 {
				p.at >>= 2
			}
		case 5:
			p.fetchAddr = p.bgAddr()
		case 6:
			p.bgL = p.rd(p.fetchAddr)
		case 7:
			p.fetchAddr += 8
		case 0:
			p.bgH = p.rd(p.fetchAddr)
			p.hScroll()
		}
	}

	switch p.dot {
	case 1:
		p.fetchAddr = p.ntAddr()
	case 256:
		p.pixel()
		p.bgH = p.rd(p.fetchAddr)
		p.vScroll()
	case 257:
		p.pixel()
		p.reloadShift()
		p.hUpdate()
	case 321, 339:
		p.fetchAddr = p.ntAddr()
	case 338, 340:
		p.nt = p.rd(p.fetchAddr)
	}

	if isPre && p.dot >= 280 && p.dot <= 304 {
		p.vUpdate()
	}

	switch p.dot {
	case 1:
		p.clearOAM()
	case 257:
		p.evalSprites()
	case 321:
		p.loadSprites()
	}

	if p.rendering() && p.dot == 260 {
		p.cart.SignalScanline()
	}
}

func (p *PPU) ntAddr() uint16 {
	return 0x2000 | (p.vAddr.addr() & 0x0FFF)
}

func (p *PPU) atAddr() uint16 {
	return 0x23C0 | (p.vAddr.data & 0x0C00) | ((p.vAddr.coarseY() / 4) << 3) | (p.vAddr.coarseX() / 4)
}

func (p *PPU) bgAddr() uint16 {
	return p.ctrl.bgTbl()*0x1000 + uint16(p.nt)*16 + p.vAddr.fineY()
}

func (p *PPU) hScroll() {
	if !p.rendering() {
		return
	}
	if p.vAddr.coarseX() == 31 {
		p.vAddr.setCoarseX(0)
		p.vAddr.toggleNametableX()
	} else {
		p.vAddr.incrementCoarseX()
	}
}

func (p *PPU) vScroll() {
	if !p.rendering() {
		return
	}
	if p.vAddr.fineY() < 7 {
		p.vAddr.incrementFineY()
		return
	}
	p.vAddr.setFineY(0)
	switch p.vAddr.coarseY() {
	case 29:
		p.vAddr.setCoarseY(0)
		p.vAddr.toggleNametableY()
	case 31:
		p.vAddr.setCoarseY(0)
	default:
		p.vAddr.incrementCoarseY()
	}
}

func (p *PPU) hUpdate() {
	if !p.rendering() {
		return
	}
	p.vAddr.setCoarseX(p.tAddr.coarseX())
	if p.tAddr.nametableX() != p.vAddr.nametableX() {
		p.vAddr.toggleNametableX()
	}
}

func (p *PPU) vUpdate() {
	if !p.rendering() {
		return
	}
	p.vAddr.setFineY(p.tAddr.fineY())
	p.vAddr.setCoarseY(p.tAddr.coarseY())
	if p.tAddr.nametableY() != p.vAddr.nametableY() {
		p.vAddr.toggleNametableY()
	}
}

func (p *PPU) reloadShift() {
	p.bgShiftL = (p.bgShiftL &^ 0x00FF) | uint16(p.bgL)
	p.bgShiftH = (p.bgShiftH &^ 0x00FF) | uint16(p.bgH)
	if p.at&1 != 0 {
		p.atLatchL = 0xFF
	} else {
		p.atLatchL = 0
	}
	if p.at&2 != 0 {
		p.atLatchH = 0xFF
	} else {
		p.atLatchH = 0
	}
}

// pixel renders the current dot's output pixel (when it maps to a
// visible column) and then shifts the background registers, matching
// the hardware's continuous shift-every-dot behavior.
func (p *PPU) pixel() {
	x := p.dot - 2
	if x >= 0 && x < NES_RES_WIDTH && p.scanline < NES_RES_HEIGHT {
		p.renderPixel(x)
	}
	p.bgShiftL <<= 1
	p.bgShiftH <<= 1
	p.atShiftL = (p.atShiftL << 1) | (p.atLatchL & 1)
	p.atShiftH = (p.atShiftH << 1) | (p.atLatchH & 1)
}

func (p *PPU) renderPixel(x int) {
	var bgPix uint8
	if p.mask.bgEnabled() && !(!p.mask.bgLeft() && x < 8) {
		bit := 15 - uint(p.fX)
		lo := (p.bgShiftL >> bit) & 1
		hi := (p.bgShiftH >> bit) & 1
		bgPix = uint8(hi<<1 | lo)
		if bgPix != 0 {
			atBit := 7 - uint(p.fX)
			atLo := (p.atShiftL >> atBit) & 1
			atHi := (p.atShiftH >> atBit) & 1
			bgPix |= uint8(atHi<<1|atLo) << 2
		}
	}

	// the left-column mask gates the whole sprite unit, so no
	// sprite-0 hit can be recorded in the masked region either
	var sprPix uint8
	var sprBehind bool
	if p.mask.sprEnabled() && !(!p.mask.sprLeft() && x < 8) {
		sprPix, sprBehind = p.spritePixel(x, bgPix != 0)
	}

	palette := bgPix
	if sprPix != 0 && (bgPix == 0 || !sprBehind) {
		palette = sprPix
	}

	var addr uint16
	if p.rendering() {
		addr = 0x3F00 + uint16(palette)
	} else {
		addr = 0x3F00
	}
	p.pixels[p.scanline*NES_RES_WIDTH+x] = nesRgb[p.rd(addr)&0x3F]
}

// spritePixel evaluates the 8 loaded sprite slots high to low so a
// lower-index (higher priority) opaque sprite's color wins; sprite-0
// hit is recorded independent of which sprite ultimately wins.
func (p *PPU) spritePixel(x int, bgOpaque bool) (value uint8, behind bool) {
	for i := 7; i >= 0; i-- {
		s := p.oam[i]
		if s.id == VOID_SPRITE_ID {
			continue
		}
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		bit := 7 - offset
		if s.flipH() {
			bit = offset
		}
		lo := (s.dataL >> uint(bit)) & 1
		hi := (s.dataH >> uint(bit)) & 1
		px := hi<<1 | lo
		if px == 0 {
			continue
		}
		if s.id == 0 && bgOpaque && x != 255 {
			p.status |= STATUS_SPR0_HIT
		}
		value = 0x10 | (s.palette() << 2) | px
		behind = s.behindBackground()
	}
	return value, behind
}

func (p *PPU) clearOAM() {
	for i := range p.secOam {
		p.secOam[i] = voidSprite()
	}
}

// evalLine is the scanline sprite evaluation matches OAM Y-coordinates
// against. Sprites are matched on the scanline *before* the one they
// appear on, which gives hardware's one-line display delay: a sprite
// with Y=10 is first drawn on scanline 11. Pre-render evaluates as -1,
// so no sprite can ever appear on scanline 0.
func (p *PPU) evalLine() int {
	if p.scanline == 261 {
		return -1
	}
	return p.scanline
}

func (p *PPU) evalSprites() {
	line := p.evalLine()
	height := p.ctrl.sprHeight()
	count := 0
	for n := 0; n < 64; n++ {
		y := p.oamMem[n*OAM_BYTES+OAM_Y]
		row := line - int(y)
		if row < 0 || row >= height {
			continue
		}
		if count >= 8 {
			p.status |= STATUS_SPR_OVERFLOW
			break
		}
		p.secOam[count] = sprite{
			id:   uint8(n),
			y:    y,
			tile: p.oamMem[n*OAM_BYTES+OAM_TILE],
			attr: p.oamMem[n*OAM_BYTES+OAM_ATTR],
			x:    p.oamMem[n*OAM_BYTES+OAM_X],
		}
		count++
	}
}

func (p *PPU) loadSprites() {
	height := p.ctrl.sprHeight()
	for i := 0; i < 8; i++ {
		s := p.secOam[i]
		p.oam[i] = s
		if s.id == VOID_SPRITE_ID {
			p.oam[i].dataL, p.oam[i].dataH = 0, 0
			continue
		}
		// in-sprite row for the evaluation line; never negative, since
		// evaluation only kept sprites with scanline-y in [0, height)
		sprY := uint16((p.scanline - int(s.y)) % height)
		if s.flipV() {
			sprY = uint16(height) - 1 - sprY
		}
		var addr uint16
		if height == 16 {
			addr = uint16(s.tile&1)*0x1000 + uint16(s.tile&^1)*16
		} else {
			addr = p.ctrl.sprTbl()*0x1000 + uint16(s.tile)*16
		}
		addr += sprY + (sprY & 8)
		p.oam[i].dataL = p.rd(addr)
		p.oam[i].dataH = p.rd(addr + 8)
	}
}
