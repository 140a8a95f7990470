package insts

// Op represents an RV32I operation.
type Op uint8

// RV32I integer ALU operations.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
)

// opNames maps operations to their assembly mnemonics.
var opNames = map[Op]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSLL:     "sll",
	OpSLT:     "slt",
	OpSLTU:    "sltu",
	OpXOR:     "xor",
	OpSRL:     "srl",
	OpSRA:     "sra",
	OpOR:      "or",
	OpAND:     "and",
}

// String returns the assembly mnemonic for the operation.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatOpReg          // Register-register ALU operation (opcode 0110011)
	FormatOpImm          // Register-immediate ALU operation (opcode 0010011)
)

// RISC-V major opcodes (bits [6:0]).
const (
	opcodeOP    = 0b0110011 // register-register ALU
	opcodeOPImm = 0b0010011 // register-immediate ALU
)

// Instruction represents a decoded RV32I instruction.
type Instruction struct {
	// Op is the operation to perform.
	Op Op
	// Format is the encoding format.
	Format Format

	// Rd is the destination register (0-31).
	Rd uint8
	// Rs1 is the first source register (0-31).
	Rs1 uint8
	// Rs2 is the second source register (0-31, register format only).
	Rs2 uint8

	// Imm is the sign-extended immediate operand (immediate format only).
	// For SLLI/SRLI/SRAI it holds the 5-bit shift amount.
	Imm int32
	// HasImm is true when the second operand is Imm rather than Rs2.
	HasImm bool
}

// WritesReg reports whether the instruction architecturally writes its
// destination. Writes to x0 are discarded by the register file, so an
// instruction with Rd=0 does not count as a register writer.
func (i *Instruction) WritesReg() bool {
	return i.Format != FormatUnknown && i.Rd != 0
}

// signExtend sign-extends the low bits of v to a full 32-bit value.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// immI extracts the sign-extended I-type immediate from bits [31:20].
func immI(word uint32) int32 {
	return signExtend(word>>20, 12)
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32I instruction word.
// Unsupported encodings yield an instruction with Op=OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	opcode := word & 0x7F
	rd := uint8((word >> 7) & 0x1F)
	funct3 := (word >> 12) & 0x7
	rs1 := uint8((word >> 15) & 0x1F)
	rs2 := uint8((word >> 20) & 0x1F)
	funct7 := (word >> 25) & 0x7F

	switch opcode {
	case opcodeOP:
		op := decodeALUOp(funct3, funct7, true)
		if op == OpUnknown {
			return inst
		}
		inst.Op = op
		inst.Format = FormatOpReg
		inst.Rd = rd
		inst.Rs1 = rs1
		inst.Rs2 = rs2

	case opcodeOPImm:
		op := decodeALUOp(funct3, funct7, false)
		if op == OpUnknown {
			return inst
		}
		// SUB has no immediate form; funct7 bit 30 in OP-IMM space only
		// selects SRAI.
		inst.Op = op
		inst.Format = FormatOpImm
		inst.Rd = rd
		inst.Rs1 = rs1
		inst.HasImm = true
		if op == OpSLL || op == OpSRL || op == OpSRA {
			// Shift-immediate forms carry the shift amount in bits [24:20].
			inst.Imm = int32(rs2)
		} else {
			inst.Imm = immI(word)
		}
	}

	return inst
}

// decodeALUOp selects the ALU operation from funct3/funct7.
// isRegForm distinguishes OP from OP-IMM: SUB exists only in OP, and the
// funct7 field of non-shift OP-IMM instructions is part of the immediate.
func decodeALUOp(funct3, funct7 uint32, isRegForm bool) Op {
	switch funct3 {
	case 0b000:
		if isRegForm && funct7 == 0b0100000 {
			return OpSUB
		}
		if isRegForm && funct7 != 0 {
			return OpUnknown
		}
		return OpADD
	case 0b001:
		if funct7 != 0 {
			return OpUnknown
		}
		return OpSLL
	case 0b010:
		if isRegForm && funct7 != 0 {
			return OpUnknown
		}
		return OpSLT
	case 0b011:
		if isRegForm && funct7 != 0 {
			return OpUnknown
		}
		return OpSLTU
	case 0b100:
		if isRegForm && funct7 != 0 {
			return OpUnknown
		}
		return OpXOR
	case 0b101:
		switch funct7 {
		case 0:
			return OpSRL
		case 0b0100000:
			return OpSRA
		default:
			return OpUnknown
		}
	case 0b110:
		if isRegForm && funct7 != 0 {
			return OpUnknown
		}
		return OpOR
	case 0b111:
		if isRegForm && funct7 != 0 {
			return OpUnknown
		}
		return OpAND
	}
	return OpUnknown
}
