package cpu

// This file implements every mnemonic named in the opcode decode
// table. Each method's signature matches the shape exec() dispatches
// through reflection with: a single addressing-mode argument, even
// when the instruction's own addressing is implied and the argument
// goes unused.

// addWithOverflow implements the shared ADC/SBC arithmetic: SBC calls
// this with the operand's one's complement.
func (c *CPU) addWithOverflow(b uint8) uint8 {
	var carryIn uint16
	if c.flag(STATUS_FLAG_CARRY) {
		carryIn = 1
	}
	a := c.A
	sum := uint16(a) + uint16(b) + carryIn
	r := uint8(sum)
	c.setFlag(STATUS_FLAG_CARRY, sum > 0xFF)
	c.setFlag(STATUS_FLAG_OVERFLOW, (^(a^b)&(a^r))&0x80 != 0)
	c.updNZ(r)
	return r
}

func (c *CPU) baseCMP(reg, v uint8) {
	r := reg - v
	c.updNZ(r)
	c.setFlag(STATUS_FLAG_CARRY, reg >= v)
}

// pullPreamble performs the two internal cycles shared by every
// stack-pull instruction (PLA, PLP, and RTI's flag pull) before the
// first pop read.
func (c *CPU) pullPreamble() {
	c.tick()
	c.tick()
}

func (c *CPU) ADC(mode uint8) {
	v := c.rd(c.operandAddr(mode))
	c.A = c.addWithOverflow(v)
}

func (c *CPU) SBC(mode uint8) {
	v := c.rd(c.operandAddr(mode))
	c.A = c.addWithOverflow(v ^ 0xFF)
}

func (c *CPU) AND(mode uint8) {
	v := c.rd(c.operandAddr(mode))
	c.A &= v
	c.updNZ(c.A)
}

func (c *CPU) ORA(mode uint8) {
	v := c.rd(c.operandAddr(mode))
	c.A |= v
	c.updNZ(c.A)
}

func (c *CPU) EOR(mode uint8) {
	v := c.rd(c.operandAddr(mode))
	c.A ^= v
	c.updNZ(c.A)
}

func (c *CPU) ASL_A(mode uint8) {
	c.tick()
	c.setFlag(STATUS_FLAG_CARRY, c.A&0x80 != 0)
	c.A <<= 1
	c.updNZ(c.A)
}

func (c *CPU) ASL(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rd(addr)
	c.tick()
	c.setFlag(STATUS_FLAG_CARRY, v&0x80 != 0)
	v <<= 1
	c.wr(addr, v)
	c.updNZ(v)
}

func (c *CPU) LSR_A(mode uint8) {
	c.tick()
	c.setFlag(STATUS_FLAG_CARRY, c.A&0x01 != 0)
	c.A >>= 1
	c.updNZ(c.A)
}

func (c *CPU) LSR(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rd(addr)
	c.tick()
	c.setFlag(STATUS_FLAG_CARRY, v&0x01 != 0)
	v >>= 1
	c.wr(addr, v)
	c.updNZ(v)
}

func (c *CPU) ROL_A(mode uint8) {
	c.tick()
	var carryIn uint8
	if c.flag(STATUS_FLAG_CARRY) {
		carryIn = 1
	}
	c.setFlag(STATUS_FLAG_CARRY, c.A&0x80 != 0)
	c.A = (c.A << 1) | carryIn
	c.updNZ(c.A)
}

func (c *CPU) ROL(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rd(addr)
	c.tick()
	var carryIn uint8
	if c.flag(STATUS_FLAG_CARRY) {
		carryIn = 1
	}
	c.setFlag(STATUS_FLAG_CARRY, v&0x80 != 0)
	v = (v << 1) | carryIn
	c.wr(addr, v)
	c.updNZ(v)
}

func (c *CPU) ROR_A(mode uint8) {
	c.tick()
	var carryIn uint8
	if c.flag(STATUS_FLAG_CARRY) {
		carryIn = 0x80
	}
	c.setFlag(STATUS_FLAG_CARRY, c.A&0x01 != 0)
	c.A = (c.A >> 1) | carryIn
	c.updNZ(c.A)
}

func (c *CPU) ROR(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rd(addr)
	c.tick()
	var carryIn uint8
	if c.flag(STATUS_FLAG_CARRY) {
		carryIn = 0x80
	}
	c.setFlag(STATUS_FLAG_CARRY, v&0x01 != 0)
	v = (v >> 1) | carryIn
	c.wr(addr, v)
	c.updNZ(v)
}

func (c *CPU) branch(cond bool) {
	addr := c.PC
	c.PC++
	disp := int8(c.rd(addr))
	if cond {
		c.tick()
		c.PC = uint16(int32(c.PC) + int32(disp))
	}
}

func (c *CPU) BCC(mode uint8) { c.branch(!c.flag(STATUS_FLAG_CARRY)) }
func (c *CPU) BCS(mode uint8) { c.branch(c.flag(STATUS_FLAG_CARRY)) }
func (c *CPU) BEQ(mode uint8) { c.branch(c.flag(STATUS_FLAG_ZERO)) }
func (c *CPU) BNE(mode uint8) { c.branch(!c.flag(STATUS_FLAG_ZERO)) }
func (c *CPU) BMI(mode uint8) { c.branch(c.flag(STATUS_FLAG_NEGATIVE)) }
func (c *CPU) BPL(mode uint8) { c.branch(!c.flag(STATUS_FLAG_NEGATIVE)) }
func (c *CPU) BVC(mode uint8) { c.branch(!c.flag(STATUS_FLAG_OVERFLOW)) }
func (c *CPU) BVS(mode uint8) { c.branch(c.flag(STATUS_FLAG_OVERFLOW)) }

func (c *CPU) BIT(mode uint8) {
	v := c.rd(c.operandAddr(mode))
	c.setFlag(STATUS_FLAG_ZERO, c.A&v == 0)
	c.setFlag(STATUS_FLAG_OVERFLOW, v&0x40 != 0)
	c.setFlag(STATUS_FLAG_NEGATIVE, v&0x80 != 0)
}

func (c *CPU) BRK(mode uint8) {
	c.PC++ // the signature byte following BRK is skipped, not read
	c.interrupt(intBRK)
}

func (c *CPU) CLC(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_CARRY, false) }
func (c *CPU) CLD(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_DECIMAL, false) }
func (c *CPU) CLI(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_INTERRUPT_DISABLE, false) }
func (c *CPU) CLV(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_OVERFLOW, false) }
func (c *CPU) SEC(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_CARRY, true) }
func (c *CPU) SED(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_DECIMAL, true) }
func (c *CPU) SEI(mode uint8) { c.tick(); c.setFlag(STATUS_FLAG_INTERRUPT_DISABLE, true) }

func (c *CPU) CMP(mode uint8) { c.baseCMP(c.A, c.rd(c.operandAddr(mode))) }
func (c *CPU) CPX(mode uint8) { c.baseCMP(c.X, c.rd(c.operandAddr(mode))) }
func (c *CPU) CPY(mode uint8) { c.baseCMP(c.Y, c.rd(c.operandAddr(mode))) }

func (c *CPU) DEC(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rd(addr)
	c.tick()
	v--
	c.wr(addr, v)
	c.updNZ(v)
}

func (c *CPU) INC(mode uint8) {
	addr := c.operandAddr(mode)
	v := c.rd(addr)
	c.tick()
	v++
	c.wr(addr, v)
	c.updNZ(v)
}

func (c *CPU) DEX(mode uint8) { c.tick(); c.X--; c.updNZ(c.X) }
func (c *CPU) DEY(mode uint8) { c.tick(); c.Y--; c.updNZ(c.Y) }
func (c *CPU) INX(mode uint8) { c.tick(); c.X++; c.updNZ(c.X) }
func (c *CPU) INY(mode uint8) { c.tick(); c.Y++; c.updNZ(c.Y) }

func (c *CPU) JMP(mode uint8)     { c.PC = c.operandAddr(ABSOLUTE) }
func (c *CPU) JMP_IND(mode uint8) { c.PC = c.indirectJMP() }

func (c *CPU) JSR(mode uint8) {
	lo := uint16(c.rd(c.PC))
	c.PC++ // now addresses the high operand byte; this is the return address
	c.tick()
	c.push(uint8(c.PC >> 8))
	c.push(uint8(c.PC))
	hi := uint16(c.rd(c.PC))
	c.PC = lo | hi<<8
}

func (c *CPU) RTS(mode uint8) {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	c.PC = (hi<<8 | lo) + 1
	c.tick()
	c.tick()
	c.tick()
}

func (c *CPU) RTI(mode uint8) {
	c.pullPreamble()
	p := c.pop()
	c.P = p&0xCF | UNUSED_STATUS_FLAG
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	c.PC = hi<<8 | lo
}

func (c *CPU) LDA(mode uint8) { c.A = c.rd(c.operandAddr(mode)); c.updNZ(c.A) }
func (c *CPU) LDX(mode uint8) { c.X = c.rd(c.operandAddr(mode)); c.updNZ(c.X) }
func (c *CPU) LDY(mode uint8) { c.Y = c.rd(c.operandAddr(mode)); c.updNZ(c.Y) }

func (c *CPU) STA(mode uint8) { c.wr(c.operandAddr(mode), c.A) }
func (c *CPU) STX(mode uint8) { c.wr(c.operandAddr(mode), c.X) }
func (c *CPU) STY(mode uint8) { c.wr(c.operandAddr(mode), c.Y) }

func (c *CPU) PHA(mode uint8) { c.tick(); c.push(c.A) }
func (c *CPU) PHP(mode uint8) { c.tick(); c.push(c.P | STATUS_FLAG_BREAK | UNUSED_STATUS_FLAG) }
func (c *CPU) PLA(mode uint8) { c.pullPreamble(); c.A = c.pop(); c.updNZ(c.A) }
func (c *CPU) PLP(mode uint8) { c.pullPreamble(); c.P = c.pop()&0xCF | UNUSED_STATUS_FLAG }

func (c *CPU) NOP(mode uint8) { c.tick() }

func (c *CPU) TAX(mode uint8) { c.tick(); c.X = c.A; c.updNZ(c.X) }
func (c *CPU) TAY(mode uint8) { c.tick(); c.Y = c.A; c.updNZ(c.Y) }
func (c *CPU) TSX(mode uint8) { c.tick(); c.X = c.S; c.updNZ(c.X) }
func (c *CPU) TXA(mode uint8) { c.tick(); c.A = c.X; c.updNZ(c.A) }
func (c *CPU) TXS(mode uint8) { c.tick(); c.S = c.X }
func (c *CPU) TYA(mode uint8) { c.tick(); c.A = c.Y; c.updNZ(c.A) }
