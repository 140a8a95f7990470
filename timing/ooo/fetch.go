package ooo

import "github.com/sarchlab/tomsim/timing/imem"

// fetchSlot is one register of the fetch pipe.
type fetchSlot struct {
	valid bool
	word  uint32
	// wait counts remaining lookup cycles before the word may move on.
	// Nonzero only while an I-cache access is in flight.
	wait uint64
}

// FetchUnit advances a program counter through the instruction memory,
// one instruction per cycle unless stalled or redirected. The lookup
// takes two stages, so the first fetched word reaches the decode slot
// two cycles after reset.
type FetchUnit struct {
	mem    *imem.Memory
	icache *imem.ICache

	pc uint32
	s1 fetchSlot // lookup in flight
	s2 fetchSlot // word at the decode slot
}

// NewFetchUnit creates a fetch unit over the given instruction memory.
// When icache is non-nil, lookups go through it and pay its latency.
func NewFetchUnit(mem *imem.Memory, icache *imem.ICache) *FetchUnit {
	return &FetchUnit{
		mem:    mem,
		icache: icache,
	}
}

// PC returns the fetch cursor (word index of the next lookup).
func (f *FetchUnit) PC() uint32 {
	return f.pc
}

// Output returns the instruction word currently at the decode slot.
func (f *FetchUnit) Output() (uint32, bool) {
	return f.s2.word, f.s2.valid
}

// Busy reports whether any instruction is still in the fetch pipe or
// left to fetch.
func (f *FetchUnit) Busy() bool {
	return f.s1.valid || f.s2.valid || f.pc < uint32(f.mem.Size())
}

// Advance moves the fetch pipe one cycle. When stall is asserted the
// whole pipe holds, including the program counter.
func (f *FetchUnit) Advance(stall bool) {
	if stall {
		return
	}

	if f.s1.valid && f.s1.wait > 0 {
		// Lookup still in flight: the decode slot gets a bubble.
		f.s1.wait--
		f.s2 = fetchSlot{}
		return
	}

	f.s2 = f.s1
	f.s2.wait = 0
	f.s1 = f.lookup()
	if f.s1.valid {
		f.pc++
	}
}

// lookup starts the instruction-memory access for the current PC.
func (f *FetchUnit) lookup() fetchSlot {
	if f.icache != nil {
		result, ok := f.icache.Fetch(f.pc)
		if !ok {
			return fetchSlot{}
		}
		// A latency of one is the lookup stage itself; only the excess
		// becomes wait cycles, so a degenerate zero latency cannot
		// underflow the counter.
		var wait uint64
		if result.Latency > 1 {
			wait = result.Latency - 1
		}
		return fetchSlot{valid: true, word: result.Word, wait: wait}
	}

	word, ok := f.mem.Fetch(f.pc)
	if !ok {
		return fetchSlot{}
	}
	return fetchSlot{valid: true, word: word}
}

// Redirect clears the fetch pipe and restarts at the given word index.
func (f *FetchUnit) Redirect(target uint32) {
	f.pc = target
	f.s1 = fetchSlot{}
	f.s2 = fetchSlot{}
}

// Reset restarts the unit at the first instruction.
func (f *FetchUnit) Reset() {
	f.Redirect(0)
}
