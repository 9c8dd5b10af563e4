// Package report formats simulation results: the configuration echo,
// the per-instruction timing table, and the delay counters. The layout
// is fixed-width and kept stable for regression comparison against
// reference traces.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/latency"
	"github.com/sarchlab/tomsim/timing/pipeline"
)

// Write renders the full report. The retired slice must be in commit
// order; a row's MemRead column is blank for non-loads and its Result
// column is blank for stores and branches.
func Write(w io.Writer, config *latency.Config, retired []*insts.Instruction, stats pipeline.Statistics) {
	writeConfig(w, config)
	if len(retired) > 0 {
		writeTable(w, retired)
	}
	writeDelays(w, stats)
}

func writeConfig(w io.Writer, config *latency.Config) {
	fmt.Fprintf(w, "Configuration\n")
	fmt.Fprintf(w, "-------------\n")
	fmt.Fprintf(w, "buffers:\n")
	fmt.Fprintf(w, "   eff addr: %d\n", config.EffAddrStations)
	fmt.Fprintf(w, "    fp adds: %d\n", config.FPAddStations)
	fmt.Fprintf(w, "    fp muls: %d\n", config.FPMulStations)
	fmt.Fprintf(w, "       ints: %d\n", config.IntStations)
	fmt.Fprintf(w, "    reorder: %d\n", config.ReorderBufferSize)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "latencies:\n")
	fmt.Fprintf(w, "   fp add: %d\n", config.FPAddLatency)
	fmt.Fprintf(w, "   fp sub: %d\n", config.FPSubLatency)
	fmt.Fprintf(w, "   fp mul: %d\n", config.FPMulLatency)
	fmt.Fprintf(w, "   fp div: %d\n", config.FPDivLatency)
	fmt.Fprintf(w, "\n\n")
}

func writeTable(w io.Writer, retired []*insts.Instruction) {
	fmt.Fprintf(w, "                    Pipeline Simulation\n")
	fmt.Fprintf(w, "-----------------------------------------------------------\n")
	fmt.Fprintf(w, "                                      Memory Writes\n")
	fmt.Fprintf(w, "     Instruction      Issues Executes  Read  Result Commits\n")
	fmt.Fprintf(w, "--------------------- ------ -------- ------ ------ -------\n")
	for _, inst := range retired {
		writeRow(w, inst)
	}
	fmt.Fprintf(w, "\n\n")
}

func writeRow(w io.Writer, inst *insts.Instruction) {
	fmt.Fprintf(w, "%-21s %6d %3d -%3d ",
		inst.Raw, inst.IssueCycle, inst.ExecStartCycle, inst.ExecCompleteCycle)

	if inst.MemReadCycle == insts.NoCycle {
		fmt.Fprintf(w, "       ")
	} else {
		fmt.Fprintf(w, "%6d ", inst.MemReadCycle)
	}

	if !inst.Kind.WritesBack() {
		fmt.Fprintf(w, "       ")
	} else {
		fmt.Fprintf(w, "%6d ", inst.WriteBackCycle)
	}

	fmt.Fprintf(w, "%7d\n", inst.CommitCycle)
}

func writeDelays(w io.Writer, stats pipeline.Statistics) {
	fmt.Fprintf(w, "Delays\n")
	fmt.Fprintf(w, "------\n")
	fmt.Fprintf(w, "reorder buffer delays: %d\n", stats.ReorderBufferDelays)
	fmt.Fprintf(w, "reservation station delays: %d\n", stats.ReservationStationDelays)
	fmt.Fprintf(w, "data memory conflict delays: %d\n", stats.DataMemoryConflictDelays)
	fmt.Fprintf(w, "true dependence delays: %d\n", stats.TrueDependenceDelays)
}
