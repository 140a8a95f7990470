package benchmarks

import "github.com/sarchlab/tomsim/insts"

// funct3/funct7 selectors for the RV32I integer ALU operations.
var aluFunct = map[insts.Op]struct {
	funct3 uint32
	funct7 uint32
}{
	insts.OpADD:  {0b000, 0b0000000},
	insts.OpSUB:  {0b000, 0b0100000},
	insts.OpSLL:  {0b001, 0b0000000},
	insts.OpSLT:  {0b010, 0b0000000},
	insts.OpSLTU: {0b011, 0b0000000},
	insts.OpXOR:  {0b100, 0b0000000},
	insts.OpSRL:  {0b101, 0b0000000},
	insts.OpSRA:  {0b101, 0b0100000},
	insts.OpOR:   {0b110, 0b0000000},
	insts.OpAND:  {0b111, 0b0000000},
}

// EncodeReg encodes a register-register ALU instruction (opcode 0110011).
func EncodeReg(op insts.Op, rd, rs1, rs2 uint8) uint32 {
	f := aluFunct[op]
	return f.funct7<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		f.funct3<<12 |
		uint32(rd&0x1F)<<7 |
		0b0110011
}

// EncodeImm encodes a register-immediate ALU instruction (opcode 0010011).
// The immediate is truncated to 12 bits; for SLL/SRL/SRA it is the 5-bit
// shift amount, with the SRA funct7 bit set in the upper immediate field.
func EncodeImm(op insts.Op, rd, rs1 uint8, imm int32) uint32 {
	immField := uint32(imm) & 0xFFF
	if op == insts.OpSLL || op == insts.OpSRL || op == insts.OpSRA {
		f := aluFunct[op]
		immField = f.funct7<<5 | (uint32(imm) & 0x1F)
	}
	return immField<<20 |
		uint32(rs1&0x1F)<<15 |
		aluFunct[op].funct3<<12 |
		uint32(rd&0x1F)<<7 |
		0b0010011
}
