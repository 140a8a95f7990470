package ooo

import (
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
)

// DispatchRequest is the combined admission request produced by
// decode/rename for one instruction. It must be accepted by the reorder
// buffer and the reservation station atomically in the same cycle, or
// not at all.
type DispatchRequest struct {
	// Valid indicates the request describes a dispatchable instruction.
	Valid bool
	// Op is the ALU operation.
	Op insts.Op
	// Op1 and Op2 are the resolved source operands: either ready with a
	// value or pending with a producer tag.
	Op1 Operand
	Op2 Operand
	// Dest is the destination architectural register.
	Dest uint8
	// WritesReg is true when Dest is a real writer (Dest != 0).
	WritesReg bool
}

// Dispatcher implements the decode/rename stage: it decodes a fetched
// instruction word and resolves each source operand against the rename
// table and the architectural register file.
type Dispatcher struct {
	decoder *insts.Decoder
	regFile *emu.RegFile
	rat     *RenameTable
}

// NewDispatcher creates a dispatcher reading the given register file and
// rename table.
func NewDispatcher(regFile *emu.RegFile, rat *RenameTable) *Dispatcher {
	return &Dispatcher{
		decoder: insts.NewDecoder(),
		regFile: regFile,
		rat:     rat,
	}
}

// Resolve decodes the instruction word and builds its dispatch request.
// The second result is false when the word does not decode to a
// supported operation; such a word must never dispatch.
//
// Operand resolution reads the pre-commit state of the rename table and
// register file; same-cycle broadcast or commit forwarding is applied
// afterwards by the engine.
func (d *Dispatcher) Resolve(word uint32) (DispatchRequest, bool) {
	inst := d.decoder.Decode(word)
	if inst.Op == insts.OpUnknown {
		return DispatchRequest{}, false
	}

	req := DispatchRequest{
		Valid:     true,
		Op:        inst.Op,
		Op1:       d.resolveReg(inst.Rs1),
		Dest:      inst.Rd,
		WritesReg: inst.WritesReg(),
	}

	if inst.HasImm {
		// Immediate operands are always ready, never tagged.
		req.Op2 = ReadyOperand(uint32(inst.Imm))
	} else {
		req.Op2 = d.resolveReg(inst.Rs2)
	}

	return req, true
}

// resolveReg resolves a source register to a ready value or a pending
// producer tag.
func (d *Dispatcher) resolveReg(reg uint8) Operand {
	if tag, mapped := d.rat.Lookup(reg); mapped {
		return PendingOperand(tag)
	}
	return ReadyOperand(d.regFile.Read(reg))
}
