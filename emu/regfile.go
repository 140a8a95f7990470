// Package emu provides functional RV32I emulation.
package emu

// NumRegs is the number of architectural registers.
const NumRegs = 32

// RegFile represents the RV32I architectural register file.
// It contains 32 general-purpose 32-bit registers. Register x0 is
// hardwired to zero on both read and write.
type RegFile struct {
	x [NumRegs]uint32
}

// Read reads a register value. Register 0 always returns 0.
func (r *RegFile) Read(reg uint8) uint32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.x[reg]
}

// Write writes a value to a register. Writes to register 0 are discarded.
func (r *RegFile) Write(reg uint8, value uint32) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.x[reg] = value
}

// Snapshot returns a copy of the full architectural register state.
func (r *RegFile) Snapshot() [NumRegs]uint32 {
	return r.x
}

// Reset clears all registers to zero.
func (r *RegFile) Reset() {
	r.x = [NumRegs]uint32{}
}
