// Package benchmarks provides synthetic instruction traces for
// exercising the pipeline model at scale.
package benchmarks

import (
	"fmt"
	"strings"

	"github.com/sarchlab/tomsim/insts"
)

// BuildTrace parses the given trace lines, panicking on malformed
// input. Trace builders in this package only generate well-formed
// lines.
func BuildTrace(lines []string) []*insts.Instruction {
	trace, err := insts.NewParser().Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		panic(err)
	}
	return trace
}

// DependentFPAddChain builds n fadd.s instructions where each consumes
// the previous result. Every instruction but the first stalls on a
// true dependence.
func DependentFPAddChain(n int) []*insts.Instruction {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("fadd.s f1, f1, f%d:0", 2+i%10))
	}
	return BuildTrace(lines)
}

// IndependentIntStream builds n add instructions with disjoint
// registers. Throughput is limited only by the structural resources.
func IndependentIntStream(n int) []*insts.Instruction {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("add r%d, r%d, r%d:0", 1+3*i, 2+3*i, 3+3*i))
	}
	return BuildTrace(lines)
}

// StoreLoadPairs builds n store/load pairs to the same addresses,
// forcing every load to wait for its aliasing store to commit.
func StoreLoadPairs(n int) []*insts.Instruction {
	lines := make([]string, 0, 2*n)
	for i := 0; i < n; i++ {
		addr := 100 + 4*i
		lines = append(lines, fmt.Sprintf("sw f1, %d(r1):%d", 4*i, addr))
		lines = append(lines, fmt.Sprintf("lw f2, %d(r2):%d", 4*i, addr))
	}
	return BuildTrace(lines)
}

// MixedWorkload interleaves FP arithmetic with loads and stores, with
// enough register reuse to exercise renaming and broadcast.
func MixedWorkload(n int) []*insts.Instruction {
	lines := make([]string, 0, 4*n)
	for i := 0; i < n; i++ {
		addr := 200 + 8*i
		lines = append(lines, fmt.Sprintf("lw f1, 0(r%d):%d", 1+i%4, addr))
		lines = append(lines, "fmul.s f2, f1, f3:0")
		lines = append(lines, "fadd.s f4, f2, f1:0")
		lines = append(lines, fmt.Sprintf("sw f4, 0(r%d):%d", 1+i%4, addr))
	}
	return BuildTrace(lines)
}
