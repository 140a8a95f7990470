package ooo

import (
	"fmt"

	"github.com/sarchlab/tomsim/insts"
)

// Operand is one source operand of a waiting operation. A ready operand
// carries its value; a pending one carries the tag of the in-flight
// instruction that will produce it.
type Operand struct {
	// Value is the operand value, meaningful once Ready is set.
	Value uint32
	// Ready indicates the value is available.
	Ready bool
	// Producer is the tag being waited on while not Ready.
	Producer Tag
}

// ReadyOperand builds an operand that is available immediately.
func ReadyOperand(value uint32) Operand {
	return Operand{Value: value, Ready: true}
}

// PendingOperand builds an operand waiting on the given producer tag.
func PendingOperand(producer Tag) Operand {
	return Operand{Producer: producer}
}

// snoop captures a broadcast value if this operand is waiting on the
// broadcast tag. Returns true when the operand woke up.
func (o *Operand) snoop(tag Tag, value uint32) bool {
	if o.Ready || o.Producer != tag {
		return false
	}
	o.Value = value
	o.Ready = true
	return true
}

// StationEntry is one waiting operation in the reservation station.
type StationEntry struct {
	// Occupied marks the slot as in use.
	Occupied bool
	// Op is the ALU operation to perform.
	Op insts.Op
	// Op1 and Op2 are the source operands.
	Op1 Operand
	Op2 Operand
	// Dest is the reorder-buffer tag the result will be broadcast under.
	Dest Tag
}

// ready reports whether the entry can issue.
func (e *StationEntry) ready() bool {
	return e.Occupied && e.Op1.Ready && e.Op2.Ready
}

// ReservationStation is a small pool of operations waiting for their
// operands. Allocation is deterministic lowest-free-index; issue selects
// the lowest-index entry with both operands ready. The station snoops
// the broadcast bus and the commit port every cycle to wake pending
// operands.
type ReservationStation struct {
	entries []StationEntry
}

// NewReservationStation creates a station with the given number of slots.
func NewReservationStation(size int) *ReservationStation {
	return &ReservationStation{
		entries: make([]StationEntry, size),
	}
}

// Size returns the number of slots.
func (s *ReservationStation) Size() int {
	return len(s.entries)
}

// Full reports whether no free slot exists. This gates dispatch.
func (s *ReservationStation) Full() bool {
	_, ok := s.FreeSlot()
	return !ok
}

// Empty reports whether no operation is waiting.
func (s *ReservationStation) Empty() bool {
	return s.OccupiedCount() == 0
}

// OccupiedCount returns the number of waiting operations.
func (s *ReservationStation) OccupiedCount() int {
	n := 0
	for i := range s.entries {
		if s.entries[i].Occupied {
			n++
		}
	}
	return n
}

// FreeSlot returns the lowest free slot index.
func (s *ReservationStation) FreeSlot() (int, bool) {
	for i := range s.entries {
		if !s.entries[i].Occupied {
			return i, true
		}
	}
	return 0, false
}

// AllocateAt fills the given slot with a new waiting operation.
// Allocating into an occupied slot is a contract violation.
func (s *ReservationStation) AllocateAt(slot int, entry StationEntry) {
	if s.entries[slot].Occupied {
		panic(fmt.Sprintf("ooo: reservation station allocate into occupied slot %d", slot))
	}
	entry.Occupied = true
	s.entries[slot] = entry
}

// Snoop wakes every pending operand waiting on the given tag, capturing
// the value. It is called once per cycle for the broadcast bus and once
// for the commit port when either carries a result.
func (s *ReservationStation) Snoop(tag Tag, value uint32) {
	for i := range s.entries {
		if !s.entries[i].Occupied {
			continue
		}
		s.entries[i].Op1.snoop(tag, value)
		s.entries[i].Op2.snoop(tag, value)
	}
}

// SelectReady returns the lowest-index entry with both operands ready.
func (s *ReservationStation) SelectReady() (int, bool) {
	for i := range s.entries {
		if s.entries[i].ready() {
			return i, true
		}
	}
	return 0, false
}

// Take frees the given slot and returns the operation that occupied it.
func (s *ReservationStation) Take(slot int) StationEntry {
	entry := s.entries[slot]
	if !entry.Occupied {
		panic(fmt.Sprintf("ooo: take from free reservation station slot %d", slot))
	}
	s.entries[slot] = StationEntry{}
	return entry
}

// EntryAt returns a copy of the entry in the given slot.
func (s *ReservationStation) EntryAt(slot int) StationEntry {
	return s.entries[slot]
}

// Reset frees all slots.
func (s *ReservationStation) Reset() {
	for i := range s.entries {
		s.entries[i] = StationEntry{}
	}
}
