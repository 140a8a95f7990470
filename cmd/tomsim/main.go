// Package main provides the entry point for TomSim.
// TomSim is a cycle-accurate single-issue out-of-order RV32I core model.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/tomsim/benchmarks"
	"github.com/sarchlab/tomsim/emu"
	"github.com/sarchlab/tomsim/loader"
	"github.com/sarchlab/tomsim/timing/imem"
	"github.com/sarchlab/tomsim/timing/ooo"
)

var (
	functional = flag.Bool("func", false, "Run in functional emulation mode")
	configPath = flag.String("config", "", "Path to engine configuration JSON file")
	benchName  = flag.String("bench", "", "Run a built-in microbenchmark instead of a program image")
	maxCycles  = flag.Uint64("cycles", 100000, "Maximum number of cycles to simulate")
	useICache  = flag.Bool("icache", false, "Model instruction fetch through an I-cache")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	program, name, ok := resolveProgram()
	if !ok {
		fmt.Fprintf(os.Stderr, "Usage: tomsim [options] <program.hex>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nBuilt-in benchmarks:\n")
		for _, b := range benchmarks.GetMicrobenchmarks() {
			fmt.Fprintf(os.Stderr, "  %-18s %s\n", b.Name, b.Description)
		}
		os.Exit(1)
	}

	if *functional {
		os.Exit(runEmulation(program, name))
	}
	os.Exit(runTiming(program, name))
}

// resolveProgram picks the instruction words from either a named
// benchmark or a hex image on disk.
func resolveProgram() (words []uint32, name string, ok bool) {
	if *benchName != "" {
		bench, found := benchmarks.Lookup(*benchName)
		if !found {
			fmt.Fprintf(os.Stderr, "Error: unknown benchmark %q\n", *benchName)
			return nil, "", false
		}
		return bench.Program, bench.Name, true
	}

	if flag.NArg() < 1 {
		return nil, "", false
	}

	path := flag.Arg(0)
	prog, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}
	return prog.Words, path, true
}

// runEmulation runs the program on the in-order functional model.
func runEmulation(program []uint32, name string) int {
	emulator := emu.NewEmulator()
	emulator.LoadProgram(program)
	emulator.Run()

	fmt.Printf("Program: %s\n", name)
	fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
	if emulator.Faulted() {
		fmt.Printf("Stopped at an unsupported instruction (PC %d)\n", emulator.PC())
	}
	printRegisters(emulator.RegFile().Snapshot())

	if emulator.Faulted() {
		return 1
	}
	return 0
}

// runTiming runs the program on the out-of-order timing engine.
func runTiming(program []uint32, name string) int {
	config := ooo.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = ooo.LoadConfigFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	opts := []ooo.EngineOption{ooo.WithConfig(config)}
	if *useICache {
		opts = append(opts, ooo.WithICache(imem.DefaultICacheConfig()))
	}

	engine := ooo.NewEngine(imem.NewMemory(program), opts...)

	if *verbose {
		fmt.Printf("Program: %s (%d instructions)\n", name, len(program))
		fmt.Printf("ROB size: %d, RS size: %d\n", config.ROBSize, config.RSSize)
	}

	drained := engine.Run(*maxCycles)
	stats := engine.Stats()

	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", name)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("Committed: %d\n", stats.Commits)
	fmt.Printf("IPC: %.2f\n", stats.IPC())
	fmt.Printf("\n")
	fmt.Printf("Engine Events:\n")
	fmt.Printf("  Dispatched:        %d\n", stats.Dispatched)
	fmt.Printf("  Issued:            %d\n", stats.Issued)
	fmt.Printf("  Broadcasts:        %d\n", stats.Broadcasts)
	fmt.Printf("  Structural stalls: %d\n", stats.StructuralStalls)

	if cacheStats, modeled := engine.ICacheStats(); modeled {
		hitRate := 0.0
		if cacheStats.Reads > 0 {
			hitRate = 100.0 * float64(cacheStats.Hits) / float64(cacheStats.Reads)
		}
		fmt.Printf("\n")
		fmt.Printf("I-Cache:\n")
		fmt.Printf("  Reads:  %d\n", cacheStats.Reads)
		fmt.Printf("  Hits:   %d (%.1f%%)\n", cacheStats.Hits, hitRate)
		fmt.Printf("  Misses: %d\n", cacheStats.Misses)
	}

	printRegisters(engine.Registers())

	if engine.Faulted() {
		fmt.Printf("\nStopped at an unsupported instruction\n")
		return 1
	}
	if !drained {
		fmt.Fprintf(os.Stderr, "\nError: did not drain within %d cycles\n", *maxCycles)
		return 1
	}
	return 0
}

// printRegisters prints the architectural register file, four per row.
func printRegisters(regs [emu.NumRegs]uint32) {
	fmt.Printf("\nRegisters:\n")
	for i := 0; i < emu.NumRegs; i += 4 {
		for j := i; j < i+4; j++ {
			fmt.Printf("  x%-2d 0x%08X", j, regs[j])
		}
		fmt.Printf("\n")
	}
}
