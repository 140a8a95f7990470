package ooo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomsim/benchmarks"
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/imem"
	"github.com/sarchlab/tomsim/timing/ooo"
)

// newEngine builds an engine for the given program words.
func newEngine(program []uint32, opts ...ooo.EngineOption) *ooo.Engine {
	return ooo.NewEngine(imem.NewMemory(program), opts...)
}

var _ = Describe("Engine", func() {
	Describe("end-to-end mixed ALU scenario", func() {
		var engine *ooo.Engine
		bench := benchmarks.MixedALU()

		BeforeEach(func() {
			engine = newEngine(bench.Program)
		})

		It("should reach the expected architectural state and drain", func() {
			Expect(engine.Run(bench.CycleBudget)).To(BeTrue())

			regs := engine.Registers()
			for reg, want := range bench.Final {
				Expect(regs[reg]).To(Equal(want), "register x%d", reg)
			}

			Expect(engine.Stats().Commits).To(Equal(uint64(14)))
			Expect(engine.Cycle()).To(Equal(engine.Stats().Cycles))
			Expect(engine.ROB().Empty()).To(BeTrue())
			Expect(engine.RS().Empty()).To(BeTrue())
		})

		It("should commit strictly in program order", func() {
			next := ooo.Tag(0)
			for i := uint64(0); i < bench.CycleBudget && !engine.Drained(); i++ {
				engine.Tick()
				commit := engine.LastCommit()
				if commit.Valid {
					Expect(commit.Tag).To(Equal(next))
					next = ooo.Tag((int(next) + 1) % 16)
				}
			}
			Expect(next).To(Equal(ooo.Tag(14)))
		})

		It("should keep the ROB occupancy counter consistent every cycle", func() {
			for i := uint64(0); i < bench.CycleBudget && !engine.Drained(); i++ {
				engine.Tick()
				Expect(engine.ROB().Count()).To(Equal(engine.ROB().OccupiedCount()))
			}
		})

		It("should keep x0 at zero every cycle", func() {
			for i := uint64(0); i < bench.CycleBudget && !engine.Drained(); i++ {
				engine.Tick()
				Expect(engine.Registers()[0]).To(Equal(uint32(0)))
			}
		})
	})

	Describe("golden-model cross-check", func() {
		It("should match the functional emulator on every microbenchmark", func() {
			for _, bench := range benchmarks.GetMicrobenchmarks() {
				emulator := emu.NewEmulator()
				if bench.Setup != nil {
					bench.Setup(emulator.RegFile())
				}
				emulator.LoadProgram(bench.Program)
				emulator.Run()

				engine := newEngine(bench.Program)
				Expect(engine.Run(bench.CycleBudget)).To(BeTrue(),
					"benchmark %s did not drain", bench.Name)

				Expect(engine.Registers()).To(Equal(emulator.RegFile().Snapshot()),
					"benchmark %s diverged from the functional model", bench.Name)
			}
		})
	})

	Describe("rename-table staleness", func() {
		It("should keep the younger mapping after the older writer commits", func() {
			engine := newEngine([]uint32{
				benchmarks.EncodeImm(insts.OpADD, 1, 0, 1), // tag 0: x1 = 1
				benchmarks.EncodeImm(insts.OpADD, 1, 0, 2), // tag 1: x1 = 2
				benchmarks.EncodeReg(insts.OpADD, 2, 1, 0), // tag 2: x2 = x1
			})

			// Tick until the older writer (tag 0) retires.
			for i := 0; i < 20; i++ {
				engine.Tick()
				if engine.LastCommit().Valid {
					break
				}
			}
			Expect(engine.LastCommit().Tag).To(Equal(ooo.Tag(0)))

			// x1 must still be tracked by the younger in-flight writer.
			tag, mapped := engine.RAT().Lookup(1)
			Expect(mapped).To(BeTrue())
			Expect(tag).To(Equal(ooo.Tag(1)))

			Expect(engine.Run(50)).To(BeTrue())
			Expect(engine.Registers()[1]).To(Equal(uint32(2)))
			Expect(engine.Registers()[2]).To(Equal(uint32(2)))
		})
	})

	Describe("x0 handling", func() {
		It("should retire x0 writers without touching architectural state", func() {
			engine := newEngine([]uint32{
				benchmarks.EncodeImm(insts.OpADD, 0, 0, 5), // x0 = 5, discarded
				benchmarks.EncodeReg(insts.OpADD, 1, 0, 0), // x1 = x0 + x0
			})

			var first ooo.CommitEvent
			for i := 0; i < 20 && !engine.Drained(); i++ {
				engine.Tick()
				if engine.LastCommit().Valid && !first.Valid {
					first = engine.LastCommit()
				}
				Expect(engine.Registers()[0]).To(Equal(uint32(0)))
			}

			Expect(first.Valid).To(BeTrue())
			Expect(first.WritesReg).To(BeFalse())
			Expect(engine.Registers()[1]).To(Equal(uint32(0)))
		})
	})

	Describe("structural hazards", func() {
		It("should stall dispatch on a full reservation station without losing work", func() {
			bench := benchmarks.DependencyChain()
			engine := newEngine(bench.Program,
				ooo.WithConfig(ooo.Config{ROBSize: 16, RSSize: 1}))

			Expect(engine.Run(200)).To(BeTrue())
			Expect(engine.Stats().StructuralStalls).To(BeNumerically(">", 0))
			Expect(engine.Registers()[1]).To(Equal(uint32(16)))
		})

		It("should stall dispatch on a full reorder buffer without losing work", func() {
			bench := benchmarks.IndependentOps()
			engine := newEngine(bench.Program,
				ooo.WithConfig(ooo.Config{ROBSize: 2, RSSize: 8}))

			Expect(engine.Run(200)).To(BeTrue())
			Expect(engine.Stats().StructuralStalls).To(BeNumerically(">", 0))

			regs := engine.Registers()
			for reg, want := range bench.Final {
				Expect(regs[reg]).To(Equal(want), "register x%d", reg)
			}
		})
	})

	Describe("throughput", func() {
		It("should sustain one commit per cycle on independent operations", func() {
			bench := benchmarks.IndependentOps()
			engine := newEngine(bench.Program)
			engine.Run(bench.CycleBudget)

			// 12 instructions: two-cycle fetch bring-up, then the
			// dispatch/issue/broadcast/commit pipeline drains one
			// instruction per cycle.
			Expect(engine.Stats().Commits).To(Equal(uint64(12)))
			Expect(engine.Stats().Cycles).To(BeNumerically("<=", 20))
		})

		It("should space dependent commits by the wakeup round trip", func() {
			bench := benchmarks.DependencyChain()
			engine := newEngine(bench.Program)
			engine.Run(bench.CycleBudget)

			// Serially dependent operations issue every other cycle.
			Expect(engine.Stats().Commits).To(Equal(uint64(16)))
			Expect(engine.Stats().Cycles).To(BeNumerically(">=", 32))
		})

		It("should issue a dependent operation the cycle after its producer's broadcast", func() {
			engine := newEngine([]uint32{
				benchmarks.EncodeImm(insts.OpADD, 1, 0, 1), // x1 = 1
				benchmarks.EncodeReg(insts.OpADD, 2, 1, 1), // x2 = x1 + x1
			})

			var busCycles []uint64
			for i := 0; i < 20 && !engine.Drained(); i++ {
				engine.Tick()
				if engine.LastBroadcast().Valid {
					busCycles = append(busCycles, engine.Cycle())
				}
			}

			// The bus wakeup feeds issue selection next cycle, so the
			// consumer's broadcast trails the producer's by two cycles:
			// one to issue, one to execute.
			Expect(busCycles).To(HaveLen(2))
			Expect(busCycles[1] - busCycles[0]).To(Equal(uint64(2)))

			Expect(engine.Registers()[2]).To(Equal(uint32(2)))
		})
	})

	Describe("unsupported instructions", func() {
		It("should park fetch and drain the work dispatched before the fault", func() {
			engine := newEngine([]uint32{
				benchmarks.EncodeImm(insts.OpADD, 1, 0, 7), // x1 = 7
				0xFFFFFFFF, // not an instruction
				benchmarks.EncodeImm(insts.OpADD, 2, 0, 9), // never reached
			})

			Expect(engine.Run(50)).To(BeTrue())
			Expect(engine.Faulted()).To(BeTrue())
			Expect(engine.Registers()[1]).To(Equal(uint32(7)))
			Expect(engine.Registers()[2]).To(Equal(uint32(0)))
			Expect(engine.Stats().Commits).To(Equal(uint64(1)))
		})
	})

	Describe("Flush", func() {
		It("should clear the rename table and fetch but not squash in-flight entries", func() {
			engine := newEngine(benchmarks.MixedALU().Program)
			for i := 0; i < 6; i++ {
				engine.Tick()
			}
			Expect(engine.ROB().Empty()).To(BeFalse())
			robCount := engine.ROB().Count()
			regs := engine.Registers()

			engine.Flush(0)

			for reg := uint8(1); reg < 32; reg++ {
				_, mapped := engine.RAT().Lookup(reg)
				Expect(mapped).To(BeFalse())
			}
			Expect(engine.Fetch().PC()).To(Equal(uint32(0)))
			_, valid := engine.Fetch().Output()
			Expect(valid).To(BeFalse())

			// Architectural state and allocated entries are untouched.
			Expect(engine.Registers()).To(Equal(regs))
			Expect(engine.ROB().Count()).To(Equal(robCount))
		})
	})

	Describe("Reset", func() {
		It("should restore the post-reset state and allow a clean rerun", func() {
			bench := benchmarks.MixedALU()
			engine := newEngine(bench.Program)
			engine.Run(bench.CycleBudget)

			engine.Reset()

			Expect(engine.Cycle()).To(Equal(uint64(0)))
			Expect(engine.Registers()).To(Equal([32]uint32{}))
			Expect(engine.ROB().Empty()).To(BeTrue())
			Expect(engine.ROB().Head()).To(Equal(ooo.Tag(0)))
			Expect(engine.ROB().Tail()).To(Equal(ooo.Tag(0)))
			Expect(engine.RS().Empty()).To(BeTrue())
			Expect(engine.Fetch().PC()).To(Equal(uint32(0)))

			Expect(engine.Run(bench.CycleBudget)).To(BeTrue())
			for reg, want := range bench.Final {
				Expect(engine.Registers()[reg]).To(Equal(want))
			}
		})
	})

	Describe("with an I-cache", func() {
		It("should produce the same state and report cache statistics", func() {
			bench := benchmarks.MixedALU()
			engine := newEngine(bench.Program,
				ooo.WithICache(imem.DefaultICacheConfig()))

			Expect(engine.Run(bench.CycleBudget + 20)).To(BeTrue())

			regs := engine.Registers()
			for reg, want := range bench.Final {
				Expect(regs[reg]).To(Equal(want), "register x%d", reg)
			}

			stats, ok := engine.ICacheStats()
			Expect(ok).To(BeTrue())
			Expect(stats.Reads).To(BeNumerically(">=", uint64(14)))
			Expect(stats.Hits).To(BeNumerically(">", 0))
		})
	})

	Describe("configuration", func() {
		It("should reject invalid sizing", func() {
			Expect(ooo.Config{ROBSize: 0, RSSize: 8}.Validate()).To(HaveOccurred())
			Expect(ooo.Config{ROBSize: 16, RSSize: 0}.Validate()).To(HaveOccurred())
			Expect(ooo.DefaultConfig().Validate()).To(Succeed())
		})
	})
})
