package cpu

// opcode names the decoded mnemonic and addressing mode for a byte;
// exec() dispatches to the method of the same name via reflection.
type opcode struct {
	name string
	mode uint8
}

// opcodes is the 6502 decode table: every documented opcode byte maps
// to the mnemonic method that implements it and the addressing mode
// that method should resolve its operand with. Undocumented opcodes
// are not decoded; exec() falls back to NOP for them.
var opcodes = map[uint8]opcode{
	0x69: {"ADC", IMMEDIATE}, 0x65: {"ADC", ZERO_PAGE}, 0x75: {"ADC", ZERO_PAGE_X},
	0x6D: {"ADC", ABSOLUTE}, 0x7D: {"ADC", ABSOLUTE_X}, 0x79: {"ADC", ABSOLUTE_Y},
	0x61: {"ADC", INDIRECT_X}, 0x71: {"ADC", INDIRECT_Y},

	0x29: {"AND", IMMEDIATE}, 0x25: {"AND", ZERO_PAGE}, 0x35: {"AND", ZERO_PAGE_X},
	0x2D: {"AND", ABSOLUTE}, 0x3D: {"AND", ABSOLUTE_X}, 0x39: {"AND", ABSOLUTE_Y},
	0x21: {"AND", INDIRECT_X}, 0x31: {"AND", INDIRECT_Y},

	0x0A: {"ASL_A", ACCUMULATOR}, 0x06: {"ASL", ZERO_PAGE}, 0x16: {"ASL", ZERO_PAGE_X},
	0x0E: {"ASL", ABSOLUTE}, 0x1E: {"ASL", ABSOLUTE_X_RMW},

	0x90: {"BCC", RELATIVE}, 0xB0: {"BCS", RELATIVE}, 0xF0: {"BEQ", RELATIVE},
	0x30: {"BMI", RELATIVE}, 0xD0: {"BNE", RELATIVE}, 0x10: {"BPL", RELATIVE},
	0x50: {"BVC", RELATIVE}, 0x70: {"BVS", RELATIVE},

	0x24: {"BIT", ZERO_PAGE}, 0x2C: {"BIT", ABSOLUTE},

	0x00: {"BRK", IMPLICIT},

	0x18: {"CLC", IMPLICIT}, 0xD8: {"CLD", IMPLICIT}, 0x58: {"CLI", IMPLICIT}, 0xB8: {"CLV", IMPLICIT},

	0xC9: {"CMP", IMMEDIATE}, 0xC5: {"CMP", ZERO_PAGE}, 0xD5: {"CMP", ZERO_PAGE_X},
	0xCD: {"CMP", ABSOLUTE}, 0xDD: {"CMP", ABSOLUTE_X}, 0xD9: {"CMP", ABSOLUTE_Y},
	0xC1: {"CMP", INDIRECT_X}, 0xD1: {"CMP", INDIRECT_Y},

	0xE0: {"CPX", IMMEDIATE}, 0xE4: {"CPX", ZERO_PAGE}, 0xEC: {"CPX", ABSOLUTE},
	0xC0: {"CPY", IMMEDIATE}, 0xC4: {"CPY", ZERO_PAGE}, 0xCC: {"CPY", ABSOLUTE},

	0xC6: {"DEC", ZERO_PAGE}, 0xD6: {"DEC", ZERO_PAGE_X}, 0xCE: {"DEC", ABSOLUTE}, 0xDE: {"DEC", ABSOLUTE_X_RMW},
	0xCA: {"DEX", IMPLICIT}, 0x88: {"DEY", IMPLICIT},

	0x49: {"EOR", IMMEDIATE}, 0x45: {"EOR", ZERO_PAGE}, 0x55: {"EOR", ZERO_PAGE_X},
	0x4D: {"EOR", ABSOLUTE}, 0x5D: {"EOR", ABSOLUTE_X}, 0x59: {"EOR", ABSOLUTE_Y},
	0x41: {"EOR", INDIRECT_X}, 0x51: {"EOR", INDIRECT_Y},

	0xE6: {"INC", ZERO_PAGE}, 0xF6: {"INC", ZERO_PAGE_X}, 0xEE: {"INC", ABSOLUTE}, 0xFE: {"INC", ABSOLUTE_X_RMW},
	0xE8: {"INX", IMPLICIT}, 0xC8: {"INY", IMPLICIT},

	0x4C: {"JMP", ABSOLUTE}, 0x6C: {"JMP_IND", INDIRECT},
	0x20: {"JSR", ABSOLUTE},

	0xA9: {"LDA", IMMEDIATE}, 0xA5: {"LDA", ZERO_PAGE}, 0xB5: {"LDA", ZERO_PAGE_X},
	0xAD: {"LDA", ABSOLUTE}, 0xBD: {"LDA", ABSOLUTE_X}, 0xB9: {"LDA", ABSOLUTE_Y},
	0xA1: {"LDA", INDIRECT_X}, 0xB1: {"LDA", INDIRECT_Y},

	0xA2: {"LDX", IMMEDIATE}, 0xA6: {"LDX", ZERO_PAGE}, 0xB6: {"LDX", ZERO_PAGE_Y},
	0xAE: {"LDX", ABSOLUTE}, 0xBE: {"LDX", ABSOLUTE_Y},

	0xA0: {"LDY", IMMEDIATE}, 0xA4: {"LDY", ZERO_PAGE}, 0xB4: {"LDY", ZERO_PAGE_X},
	0xAC: {"LDY", ABSOLUTE}, 0xBC: {"LDY", ABSOLUTE_X},

	0x4A: {"LSR_A", ACCUMULATOR}, 0x46: {"LSR", ZERO_PAGE}, 0x56: {"LSR", ZERO_PAGE_X},
	0x4E: {"LSR", ABSOLUTE}, 0x5E: {"LSR", ABSOLUTE_X_RMW},

	0xEA: {"NOP", IMPLICIT},

	0x09: {"ORA", IMMEDIATE}, 0x05: {"ORA", ZERO_PAGE}, 0x15: {"ORA", ZERO_PAGE_X},
	0x0D: {"ORA", ABSOLUTE}, 0x1D: {"ORA", ABSOLUTE_X}, 0x19: {"ORA", ABSOLUTE_Y},
	0x01: {"ORA", INDIRECT_X}, 0x11: {"ORA", INDIRECT_Y},

	0x48: {"PHA", IMPLICIT}, 0x08: {"PHP", IMPLICIT}, 0x68: {"PLA", IMPLICIT}, 0x28: {"PLP", IMPLICIT},

	0x2A: {"ROL_A", ACCUMULATOR}, 0x26: {"ROL", ZERO_PAGE}, 0x36: {"ROL", ZERO_PAGE_X},
	0x2E: {"ROL", ABSOLUTE}, 0x3E: {"ROL", ABSOLUTE_X_RMW},

	0x6A: {"ROR_A", ACCUMULATOR}, 0x66: {"ROR", ZERO_PAGE}, 0x76: {"ROR", ZERO_PAGE_X},
	0x6E: {"ROR", ABSOLUTE}, 0x7E: {"ROR", ABSOLUTE_X_RMW},

	0x40: {"RTI", IMPLICIT}, 0x60: {"RTS", IMPLICIT},

	0xE9: {"SBC", IMMEDIATE}, 0xE5: {"SBC", ZERO_PAGE}, 0xF5: {"SBC", ZERO_PAGE_X},
	0xED: {"SBC", ABSOLUTE}, 0xFD: {"SBC", ABSOLUTE_X}, 0xF9: {"SBC", ABSOLUTE_Y},
	0xE1: {"SBC", INDIRECT_X}, 0xF1: {"SBC", INDIRECT_Y},

	0x38: {"SEC", IMPLICIT}, 0xF8: {"SED", IMPLICIT}, 0x78: {"SEI", IMPLICIT},

	0x85: {"STA", ZERO_PAGE}, 0x95: {"STA", ZERO_PAGE_X}, 0x8D: {"STA", ABSOLUTE},
	0x9D: {"STA", ABSOLUTE_X_RMW}, 0x99: {"STA", ABSOLUTE_Y_RMW},
	0x81: {"STA", INDIRECT_X}, 0x91: {"STA", INDIRECT_Y_RMW},

	0x86: {"STX", ZERO_PAGE}, 0x96: {"STX", ZERO_PAGE_Y}, 0x8E: {"STX", ABSOLUTE},
	0x84: {"STY", ZERO_PAGE}, 0x94: {"STY", ZERO_PAGE_X}, 0x8C: {"STY", ABSOLUTE},

	0xAA: {"TAX", IMPLICIT}, 0xA8: {"TAY", IMPLICIT}, 0xBA: {"TSX", IMPLICIT},
	0x8A: {"TXA", IMPLICIT}, 0x9A: {"TXS", IMPLICIT}, 0x98: {"TYA", IMPLICIT},
}
