// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. It supports the integer ALU subset:
//   - OP (register-register): ADD, SUB, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND
//   - OP-IMM (register-immediate): ADDI, SLTI, SLTIU, XORI, ORI, ANDI,
//     SLLI, SRLI, SRAI
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500113) // ADDI x2, x0, 5
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
