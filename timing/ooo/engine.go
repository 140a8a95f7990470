package ooo

import (
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/timing/imem"
)

// Statistics holds engine performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Dispatched is the number of instructions admitted into the ROB/RS.
	Dispatched uint64
	// Issued is the number of operations sent to execution.
	Issued uint64
	// Broadcasts is the number of results carried by the bus.
	Broadcasts uint64
	// Commits is the number of instructions retired.
	Commits uint64
	// StructuralStalls is the number of cycles a decoded instruction
	// could not dispatch because the ROB or RS was full.
	StructuralStalls uint64
}

// IPC returns instructions committed per cycle.
func (s Statistics) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Commits) / float64(s.Cycles)
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithConfig sets the ROB/RS sizing.
func WithConfig(config Config) EngineOption {
	return func(e *Engine) {
		e.config = config
	}
}

// WithRegFile attaches an existing architectural register file instead
// of a fresh one.
func WithRegFile(regFile *emu.RegFile) EngineOption {
	return func(e *Engine) {
		e.regFile = regFile
	}
}

// WithICache routes instruction fetch through an I-cache timing model
// with the given configuration.
func WithICache(config imem.Config) EngineOption {
	return func(e *Engine) {
		e.icache = imem.NewICache(config, e.mem)
	}
}

// Engine is the single-issue out-of-order execution engine.
//
// All components advance on a single global cycle. Tick evaluates the
// stages downstream-first (commit, writeback/wakeup, issue, dispatch,
// fetch) with the structural flags, issue selection, and operand
// resolution captured from start-of-cycle state, which reproduces the
// simultaneous-update semantics of the hardware: every read within a
// cycle sees pre-update state, and the only same-cycle forwarding paths
// are the broadcast bus and the commit port feeding operand wakeup.
type Engine struct {
	config Config

	mem    *imem.Memory
	icache *imem.ICache

	regFile    *emu.RegFile
	rat        *RenameTable
	rob        *ReorderBuffer
	rs         *ReservationStation
	fetch      *FetchUnit
	dispatcher *Dispatcher
	exec       *ExecUnit

	faulted bool
	stats   Statistics

	// Per-cycle observation surface.
	lastBroadcast Broadcast
	lastCommit    CommitEvent
	dispatchedNow bool
	issuedNow     bool
}

// NewEngine creates an engine executing the given instruction memory.
func NewEngine(mem *imem.Memory, opts ...EngineOption) *Engine {
	e := &Engine{
		config: DefaultConfig(),
		mem:    mem,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.regFile == nil {
		e.regFile = &emu.RegFile{}
	}

	e.rat = NewRenameTable()
	e.rob = NewReorderBuffer(e.config.ROBSize)
	e.rs = NewReservationStation(e.config.RSSize)
	e.fetch = NewFetchUnit(mem, e.icache)
	e.dispatcher = NewDispatcher(e.regFile, e.rat)
	e.exec = NewExecUnit()

	return e
}

// Tick executes one cycle.
func (e *Engine) Tick() {
	// Cycle inputs and pre-update state. The bus carries the result of
	// the operation issued last cycle; the structural flags and the ROB
	// tail are judged on start-of-cycle occupancy.
	bus := e.exec.TakeBroadcast()
	commitReady := e.rob.CommitReady()
	robFull := e.rob.Full()
	freeSlot, rsHasFree := e.rs.FreeSlot()
	issueSlot, canIssue := e.rs.SelectReady()
	word, wordValid := e.fetch.Output()

	// Decode/rename reads the rename table and register file before this
	// cycle's commit updates them.
	var req DispatchRequest
	if wordValid && !e.faulted {
		var supported bool
		req, supported = e.dispatcher.Resolve(word)
		if !supported {
			// Unsupported encodings never dispatch; fetch parks and the
			// machine drains.
			e.faulted = true
		}
	}

	// Commit. The head's Done flag predates this cycle's writeback, so a
	// result broadcasts in cycle t and retires no earlier than t+1.
	commit := CommitEvent{}
	if commitReady {
		commit = e.rob.Commit()
		if commit.WritesReg {
			e.regFile.Write(commit.Dest, commit.Value)
		}
		e.rat.ClearOnCommit(commit.Dest, commit.Tag)
		e.stats.Commits++
	}

	// Broadcast: writeback and operand wakeup see the bus in the same
	// cycle. The reservation station also snoops the commit port, which
	// wakes operands whose producer broadcast before they dispatched.
	if bus.Valid {
		e.rob.Writeback(bus.Tag, bus.Value)
		e.rs.Snoop(bus.Tag, bus.Value)
		e.stats.Broadcasts++
	}
	if commit.Valid {
		e.rs.Snoop(commit.Tag, commit.Value)
	}

	// Issue the lowest-index entry whose operands were ready at cycle
	// start. An entry woken by this cycle's bus or commit port, like an
	// entry allocated below, becomes an issue candidate next cycle, so a
	// dependent operation issues the cycle after its producer's broadcast.
	e.issuedNow = false
	if canIssue {
		entry := e.rs.Take(issueSlot)
		e.exec.Issue(entry.Op, entry.Op1.Value, entry.Op2.Value, entry.Dest)
		e.issuedNow = true
		e.stats.Issued++
	}

	// Dispatch: the ROB and RS accept atomically or not at all.
	e.dispatchedNow = false
	if req.Valid {
		if robFull || !rsHasFree {
			e.stats.StructuralStalls++
		} else {
			forwardOperands(&req, bus, commit)
			tag := e.rob.Allocate(req.Dest, req.WritesReg)
			e.rs.AllocateAt(freeSlot, StationEntry{
				Op:   req.Op,
				Op1:  req.Op1,
				Op2:  req.Op2,
				Dest: tag,
			})
			if req.WritesReg {
				// Newest rename wins; the conditional clear above already
				// ran, so a same-cycle commit cannot erase this mapping.
				e.rat.Rename(req.Dest, tag)
			}
			e.dispatchedNow = true
			e.stats.Dispatched++
		}
	}

	// Fetch holds whenever the decode slot still carries an undispatched
	// word.
	stall := e.faulted || (wordValid && !e.dispatchedNow)
	e.fetch.Advance(stall)

	e.lastBroadcast = bus
	e.lastCommit = commit
	e.stats.Cycles++
}

// forwardOperands applies same-cycle wakeup-on-dispatch: a freshly
// resolved pending operand whose tag matches this cycle's broadcast or
// commit captures the value immediately.
func forwardOperands(req *DispatchRequest, bus Broadcast, commit CommitEvent) {
	if bus.Valid {
		req.Op1.snoop(bus.Tag, bus.Value)
		req.Op2.snoop(bus.Tag, bus.Value)
	}
	if commit.Valid {
		req.Op1.snoop(commit.Tag, commit.Value)
		req.Op2.snoop(commit.Tag, commit.Value)
	}
}

// Run ticks the engine until it drains or reaches maxCycles. A faulted
// engine still drains the instructions dispatched before the fault.
// It returns true when the machine drained.
func (e *Engine) Run(maxCycles uint64) bool {
	for i := uint64(0); i < maxCycles; i++ {
		if e.Drained() {
			break
		}
		e.Tick()
	}
	return e.Drained()
}

// Drained reports whether no instruction remains in flight and no
// further dispatch can occur (end of program, or fetch parked on an
// unsupported instruction).
func (e *Engine) Drained() bool {
	return e.rob.Empty() && e.rs.Empty() && !e.exec.Busy() &&
		(e.faulted || !e.fetch.Busy())
}

// Flush clears the rename table and redirects fetch to the target word
// index. Architectural state is untouched. Reorder-buffer and
// reservation-station entries already in flight are not squashed; the
// base engine never drives this input.
func (e *Engine) Flush(target uint32) {
	e.rat.ClearAll()
	e.fetch.Redirect(target)
}

// Reset forces the engine back to its post-reset state: ROB empty with
// head and tail at zero, all RS slots free, architectural registers and
// rename table cleared, fetch at the first instruction.
func (e *Engine) Reset() {
	e.regFile.Reset()
	e.rat.ClearAll()
	e.rob.Reset()
	e.rs.Reset()
	e.fetch.Reset()
	e.exec.Reset()
	e.faulted = false
	e.stats = Statistics{}
	e.lastBroadcast = Broadcast{}
	e.lastCommit = CommitEvent{}
	e.dispatchedNow = false
	e.issuedNow = false
}

// Cycle returns the number of cycles executed since reset.
func (e *Engine) Cycle() uint64 {
	return e.stats.Cycles
}

// Stats returns engine statistics.
func (e *Engine) Stats() Statistics {
	return e.stats
}

// Faulted reports whether fetch reached an unsupported instruction.
func (e *Engine) Faulted() bool {
	return e.faulted
}

// Registers returns the full architectural register snapshot.
func (e *Engine) Registers() [emu.NumRegs]uint32 {
	return e.regFile.Snapshot()
}

// LastBroadcast returns the bus event of the last executed cycle.
func (e *Engine) LastBroadcast() Broadcast {
	return e.lastBroadcast
}

// LastCommit returns the commit event of the last executed cycle.
func (e *Engine) LastCommit() CommitEvent {
	return e.lastCommit
}

// DispatchedThisCycle reports whether the last cycle admitted an
// instruction.
func (e *Engine) DispatchedThisCycle() bool {
	return e.dispatchedNow
}

// IssuedThisCycle reports whether the last cycle issued an operation.
func (e *Engine) IssuedThisCycle() bool {
	return e.issuedNow
}

// ROB returns the reorder buffer, for observation.
func (e *Engine) ROB() *ReorderBuffer {
	return e.rob
}

// RS returns the reservation station, for observation.
func (e *Engine) RS() *ReservationStation {
	return e.rs
}

// RAT returns the rename table, for observation.
func (e *Engine) RAT() *RenameTable {
	return e.rat
}

// Fetch returns the fetch unit, for observation.
func (e *Engine) Fetch() *FetchUnit {
	return e.fetch
}

// ICacheStats returns I-cache statistics when an I-cache is configured.
func (e *Engine) ICacheStats() (imem.Statistics, bool) {
	if e.icache == nil {
		return imem.Statistics{}, false
	}
	return e.icache.Stats(), true
}
