// Package main provides the entry point for TomSim.
// TomSim is a cycle-accurate model of a Tomasulo-style out-of-order
// pipeline with in-order commit through a reorder buffer.
//
// For the full CLI, use: go run ./cmd/tomsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("TomSim - Tomasulo Pipeline Simulator")
	fmt.Println("")
	fmt.Println("Usage: tomsim [options] < trace.txt")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to the pipeline configuration file")
	fmt.Println("  -v         Log per-cycle pipeline events to stderr")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomsim' instead.")
	}
}
