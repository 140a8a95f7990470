// Package main provides the entry point for TomSim.
// TomSim is a cycle-accurate model of a single-issue out-of-order
// RV32I integer core.
//
// For the full CLI, use: go run ./cmd/tomsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("TomSim - Out-of-Order RV32I Core Model")
	fmt.Println("")
	fmt.Println("Usage: tomsim [options] <program.hex>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -func      Run in functional emulation mode")
	fmt.Println("  -config    Path to engine configuration JSON file")
	fmt.Println("  -bench     Run a built-in microbenchmark")
	fmt.Println("  -icache    Model instruction fetch through an I-cache")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomsim' instead.")
	}
}
