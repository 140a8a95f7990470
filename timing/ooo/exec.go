package ooo

import (
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
)

// Broadcast is the single-writer, all-reader result bus: one (tag, value)
// pair per cycle, visible simultaneously to the reorder buffer, the
// reservation station, and the commit logic.
type Broadcast struct {
	// Valid indicates a result is on the bus this cycle.
	Valid bool
	// Tag identifies the producing instruction.
	Tag Tag
	// Value is the 32-bit result.
	Value uint32
}

// ExecUnit models the single arithmetic unit and its result path.
// It accepts one issued operation per cycle with no backpressure and
// places the result on the broadcast bus exactly one cycle later.
type ExecUnit struct {
	pending Broadcast
}

// NewExecUnit creates an idle execution unit.
func NewExecUnit() *ExecUnit {
	return &ExecUnit{}
}

// TakeBroadcast returns the result of the operation issued last cycle
// and clears the bus. At most one result is ever in flight because there
// is a single execution unit.
func (u *ExecUnit) TakeBroadcast() Broadcast {
	bus := u.pending
	u.pending = Broadcast{}
	return bus
}

// Issue runs the stateless arithmetic function on the operands and
// schedules the tagged result for broadcast next cycle.
func (u *ExecUnit) Issue(op insts.Op, a, b uint32, dest Tag) {
	if u.pending.Valid {
		panic("ooo: execution unit issued twice in one cycle")
	}
	u.pending = Broadcast{
		Valid: true,
		Tag:   dest,
		Value: emu.ALU(op, a, b),
	}
}

// Busy reports whether a result is still waiting to broadcast.
func (u *ExecUnit) Busy() bool {
	return u.pending.Valid
}

// Reset discards any in-flight result.
func (u *ExecUnit) Reset() {
	u.pending = Broadcast{}
}
