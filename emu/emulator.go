package emu

import "github.com/sarchlab/tomsim/insts"

// Emulator is an in-order functional RV32I model. It executes one
// instruction per Step with no timing behavior, and serves as the golden
// reference for validating the out-of-order timing engine: both models
// must reach the same final architectural state for the same program.
type Emulator struct {
	regFile *RegFile
	decoder *insts.Decoder

	program []uint32
	pc      uint32

	instCount uint64
	faulted   bool
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithRegFile attaches an existing register file instead of a fresh one.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// NewEmulator creates a new functional emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// LoadProgram installs the instruction words to execute and resets the
// program counter to the first word.
func (e *Emulator) LoadProgram(words []uint32) {
	e.program = make([]uint32, len(words))
	copy(e.program, words)
	e.pc = 0
	e.instCount = 0
	e.faulted = false
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// PC returns the current program counter (word index).
func (e *Emulator) PC() uint32 {
	return e.pc
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instCount
}

// Faulted reports whether execution stopped on an undecodable instruction.
func (e *Emulator) Faulted() bool {
	return e.faulted
}

// Step executes one instruction. It returns false when the program has
// run off the end of the instruction table or an unsupported encoding
// was reached.
func (e *Emulator) Step() bool {
	if e.faulted || e.pc >= uint32(len(e.program)) {
		return false
	}

	inst := e.decoder.Decode(e.program[e.pc])
	if inst.Op == insts.OpUnknown {
		e.faulted = true
		return false
	}

	op1 := e.regFile.Read(inst.Rs1)
	var op2 uint32
	if inst.HasImm {
		op2 = uint32(inst.Imm)
	} else {
		op2 = e.regFile.Read(inst.Rs2)
	}

	e.regFile.Write(inst.Rd, ALU(inst.Op, op1, op2))

	e.pc++
	e.instCount++
	return true
}

// Run executes until the program ends or faults.
func (e *Emulator) Run() {
	for e.Step() {
	}
}
