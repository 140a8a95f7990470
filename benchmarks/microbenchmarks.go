// Package benchmarks provides encoded RV32I kernels for exercising and
// validating the out-of-order timing engine.
package benchmarks

import (
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
)

// Benchmark is one encoded program with its expected final register state.
type Benchmark struct {
	// Name identifies the benchmark.
	Name string

	// Description explains what the benchmark exercises.
	Description string

	// Setup prepares register state before the first cycle, if needed.
	Setup func(regFile *emu.RegFile)

	// Program is the RV32I machine code to execute.
	Program []uint32

	// Final maps architectural registers to their expected values after
	// the program drains.
	Final map[uint8]uint32

	// CycleBudget bounds the number of cycles the program may take.
	CycleBudget uint64
}

// GetMicrobenchmarks returns the standard benchmark set.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		MixedALU(),
		IndependentOps(),
		DependencyChain(),
		RepeatedWriter(),
	}
}

// Lookup returns the benchmark with the given name.
func Lookup(name string) (Benchmark, bool) {
	for _, b := range GetMicrobenchmarks() {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// MixedALU exercises every supported ALU operation through a web of
// register dependencies.
func MixedALU() Benchmark {
	return Benchmark{
		Name:        "mixed_alu",
		Description: "14 dependent operations covering the full ALU repertoire",
		Program: []uint32{
			EncodeReg(insts.OpADD, 1, 0, 0),   // x1  = x0 + x0     = 0
			EncodeImm(insts.OpADD, 2, 0, 5),   // x2  = x0 + 5      = 5
			EncodeImm(insts.OpADD, 3, 0, 10),  // x3  = x0 + 10     = 10
			EncodeReg(insts.OpADD, 4, 2, 3),   // x4  = x2 + x3     = 15
			EncodeReg(insts.OpSUB, 5, 3, 2),   // x5  = x3 - x2     = 5
			EncodeReg(insts.OpAND, 6, 2, 3),   // x6  = x2 & x3     = 0
			EncodeReg(insts.OpOR, 7, 2, 3),    // x7  = x2 | x3     = 15
			EncodeReg(insts.OpXOR, 8, 2, 3),   // x8  = x2 ^ x3     = 15
			EncodeReg(insts.OpSLL, 9, 2, 1),   // x9  = x2 << x1    = 5
			EncodeReg(insts.OpSRL, 10, 2, 1),  // x10 = x2 >> x1    = 5
			EncodeReg(insts.OpSLT, 11, 2, 3),  // x11 = x2 < x3     = 1
			EncodeReg(insts.OpSLTU, 12, 2, 3), // x12 = x2 <u x3    = 1
			EncodeImm(insts.OpADD, 13, 4, -5), // x13 = x4 - 5      = 10
			EncodeReg(insts.OpADD, 14, 13, 5), // x14 = x13 + x5    = 15
		},
		Final: map[uint8]uint32{
			1: 0, 2: 5, 3: 10, 4: 15, 5: 5, 6: 0, 7: 15,
			8: 15, 9: 5, 10: 5, 11: 1, 12: 1, 13: 10, 14: 15,
		},
		CycleBudget: 100,
	}
}

// IndependentOps measures dispatch/commit throughput with no data
// dependencies between instructions.
func IndependentOps() Benchmark {
	program := make([]uint32, 0, 12)
	final := map[uint8]uint32{}
	for i := uint8(1); i <= 12; i++ {
		program = append(program, EncodeImm(insts.OpADD, i, 0, int32(i)*3))
		final[i] = uint32(i) * 3
	}
	return Benchmark{
		Name:        "independent_ops",
		Description: "12 independent immediate loads - measures steady-state throughput",
		Program:     program,
		Final:       final,
		CycleBudget: 60,
	}
}

// DependencyChain serializes execution through a single accumulator.
func DependencyChain() Benchmark {
	program := make([]uint32, 0, 16)
	for i := 0; i < 16; i++ {
		program = append(program, EncodeImm(insts.OpADD, 1, 1, 1)) // x1 = x1 + 1
	}
	return Benchmark{
		Name:        "dependency_chain",
		Description: "16 serially dependent increments - measures wakeup latency",
		Program:     program,
		Final:       map[uint8]uint32{1: 16},
		CycleBudget: 120,
	}
}

// RepeatedWriter stresses the rename table with many in-flight writers
// of the same register; only the youngest mapping may survive each
// commit.
func RepeatedWriter() Benchmark {
	return Benchmark{
		Name:        "repeated_writer",
		Description: "same destination renamed repeatedly - stresses newest-wins renaming",
		Program: []uint32{
			EncodeImm(insts.OpADD, 1, 0, 1), // x1 = 1
			EncodeImm(insts.OpADD, 1, 0, 2), // x1 = 2
			EncodeImm(insts.OpADD, 1, 0, 3), // x1 = 3
			EncodeImm(insts.OpADD, 1, 0, 4), // x1 = 4
			EncodeReg(insts.OpADD, 2, 1, 1), // x2 = x1 + x1 = 8
		},
		Final:       map[uint8]uint32{1: 4, 2: 8},
		CycleBudget: 50,
	}
}
