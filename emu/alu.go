package emu

import "github.com/sarchlab/tomsim/insts"

// ALU computes the result of an RV32I integer ALU operation.
// It is a stateless combinational function: the result depends only on the
// operation and the two 32-bit operands. Shift amounts use the low five
// bits of the second operand, matching the RV32I shift semantics.
func ALU(op insts.Op, a, b uint32) uint32 {
	switch op {
	case insts.OpADD:
		return a + b
	case insts.OpSUB:
		return a - b
	case insts.OpSLL:
		return a << (b & 0x1F)
	case insts.OpSLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case insts.OpSLTU:
		if a < b {
			return 1
		}
		return 0
	case insts.OpXOR:
		return a ^ b
	case insts.OpSRL:
		return a >> (b & 0x1F)
	case insts.OpSRA:
		return uint32(int32(a) >> (b & 0x1F))
	case insts.OpOR:
		return a | b
	case insts.OpAND:
		return a & b
	default:
		return 0
	}
}
