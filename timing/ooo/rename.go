package ooo

import "github.com/sarchlab/tomsim/emu"

// renameEntry maps one architectural register to its youngest in-flight
// producer.
type renameEntry struct {
	mapped   bool
	producer Tag
}

// RenameTable tracks, per architectural register, the tag of the most
// recent not-yet-committed instruction writing it. Register x0 is never
// renameable.
//
// A mapping is installed unconditionally on every dispatch that writes
// the register (newest rename wins), but cleared on commit only when the
// stored tag equals the committing tag: an older commit must never erase
// a mapping a younger instruction has since installed. Violating this
// would let a committed-but-superseded value be read as current.
type RenameTable struct {
	entries [emu.NumRegs]renameEntry
}

// NewRenameTable creates an empty rename table.
func NewRenameTable() *RenameTable {
	return &RenameTable{}
}

// Lookup returns the producer tag for the register and whether the
// register is currently mapped. Register 0 is never mapped.
func (t *RenameTable) Lookup(reg uint8) (Tag, bool) {
	if reg == 0 || reg >= emu.NumRegs {
		return 0, false
	}
	e := t.entries[reg]
	return e.producer, e.mapped
}

// Rename points the register at a new producer tag, overwriting any
// prior mapping. Renames of register 0 are discarded.
func (t *RenameTable) Rename(reg uint8, tag Tag) {
	if reg == 0 || reg >= emu.NumRegs {
		return
	}
	t.entries[reg] = renameEntry{mapped: true, producer: tag}
}

// ClearOnCommit removes the mapping for the register only when it still
// points at the committing tag.
func (t *RenameTable) ClearOnCommit(reg uint8, tag Tag) {
	if reg == 0 || reg >= emu.NumRegs {
		return
	}
	e := &t.entries[reg]
	if e.mapped && e.producer == tag {
		*e = renameEntry{}
	}
}

// ClearAll removes every mapping without touching architectural state.
// This is the recovery path driven by a flush.
func (t *RenameTable) ClearAll() {
	t.entries = [emu.NumRegs]renameEntry{}
}
