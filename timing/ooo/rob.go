package ooo

import "fmt"

// ROBEntry is one reorder-buffer slot: the ledger record of an in-flight
// instruction, indexed by its tag.
type ROBEntry struct {
	// Occupied marks the slot as holding an in-flight instruction.
	Occupied bool
	// Done is set when the instruction's result has been broadcast.
	Done bool
	// WritesReg is true when the instruction writes an architectural
	// register on commit.
	WritesReg bool
	// Dest is the destination architectural register.
	Dest uint8
	// Value is the result captured from the broadcast bus.
	Value uint32
}

// CommitEvent describes the retirement of the reorder-buffer head entry.
type CommitEvent struct {
	// Valid indicates a commit happened this cycle.
	Valid bool
	// Tag is the committing tag, equal to the head pointer at commit.
	Tag Tag
	// Dest is the destination architectural register.
	Dest uint8
	// Value is the committed result value.
	Value uint32
	// WritesReg is true when Dest is actually written.
	WritesReg bool
}

// ReorderBuffer is a circular, tag-addressed ledger of in-flight
// instructions and the sole authority for commit order. Entries are
// allocated at the tail, completed by tag-indexed writeback, and retired
// from the head strictly in program order.
//
// The occupied entries always form one contiguous circular run from head
// to tail-1; occupancy is tracked by an explicit counter because head==tail
// is ambiguous between empty and full.
type ReorderBuffer struct {
	entries []ROBEntry
	head    Tag
	tail    Tag
	count   int
}

// NewReorderBuffer creates a reorder buffer with the given number of slots.
func NewReorderBuffer(size int) *ReorderBuffer {
	return &ReorderBuffer{
		entries: make([]ROBEntry, size),
	}
}

// Size returns the number of slots.
func (b *ReorderBuffer) Size() int {
	return len(b.entries)
}

// Full reports whether no slot is free.
func (b *ReorderBuffer) Full() bool {
	return b.count == len(b.entries)
}

// Empty reports whether no instruction is in flight.
func (b *ReorderBuffer) Empty() bool {
	return b.count == 0
}

// Count returns the current occupancy.
func (b *ReorderBuffer) Count() int {
	return b.count
}

// Head returns the tag of the oldest in-flight instruction.
func (b *ReorderBuffer) Head() Tag {
	return b.head
}

// Tail returns the tag that the next allocation will receive.
func (b *ReorderBuffer) Tail() Tag {
	return b.tail
}

// checkTag panics on a tag outside the buffer. An out-of-range tag can
// only come from an engine defect, never from program input.
func (b *ReorderBuffer) checkTag(tag Tag) {
	if int(tag) >= len(b.entries) {
		panic(fmt.Sprintf("ooo: tag %d out of range for reorder buffer of size %d", tag, len(b.entries)))
	}
}

// Allocate creates a new entry at the tail and returns its tag. The
// caller must honor Full; allocating into a full buffer is a contract
// violation.
func (b *ReorderBuffer) Allocate(dest uint8, writesReg bool) Tag {
	if b.Full() {
		panic("ooo: reorder buffer allocate while full")
	}

	tag := b.tail
	b.entries[tag] = ROBEntry{
		Occupied:  true,
		WritesReg: writesReg,
		Dest:      dest,
	}
	b.tail = b.tail.next(len(b.entries))
	b.count++
	return tag
}

// Writeback records a broadcast result in the entry for the given tag.
// This is a direct tag-indexed write, independent of head and tail.
func (b *ReorderBuffer) Writeback(tag Tag, value uint32) {
	b.checkTag(tag)
	entry := &b.entries[tag]
	if !entry.Occupied {
		panic(fmt.Sprintf("ooo: writeback to unoccupied reorder buffer entry %d", tag))
	}
	entry.Done = true
	entry.Value = value
}

// CommitReady reports whether the head entry can retire this cycle.
func (b *ReorderBuffer) CommitReady() bool {
	return b.count > 0 && b.entries[b.head].Done
}

// Commit retires the head entry: the slot is cleared, the head advances,
// and the retirement event is returned. Committing a not-ready head
// breaks the program-order guarantee and panics.
func (b *ReorderBuffer) Commit() CommitEvent {
	if !b.CommitReady() {
		panic("ooo: commit from empty or not-done reorder buffer head")
	}

	entry := b.entries[b.head]
	event := CommitEvent{
		Valid:     true,
		Tag:       b.head,
		Dest:      entry.Dest,
		Value:     entry.Value,
		WritesReg: entry.WritesReg,
	}

	b.entries[b.head] = ROBEntry{}
	b.head = b.head.next(len(b.entries))
	b.count--
	return event
}

// EntryAt returns a copy of the entry for the given tag. The result is
// meaningful only for occupied entries.
func (b *ReorderBuffer) EntryAt(tag Tag) ROBEntry {
	b.checkTag(tag)
	return b.entries[tag]
}

// OccupiedCount walks the buffer and counts occupied slots. It exists so
// the occupancy counter can be cross-checked against the entries.
func (b *ReorderBuffer) OccupiedCount() int {
	n := 0
	for i := range b.entries {
		if b.entries[i].Occupied {
			n++
		}
	}
	return n
}

// Reset empties the buffer with head and tail back at slot zero.
func (b *ReorderBuffer) Reset() {
	for i := range b.entries {
		b.entries[i] = ROBEntry{}
	}
	b.head = 0
	b.tail = 0
	b.count = 0
}
