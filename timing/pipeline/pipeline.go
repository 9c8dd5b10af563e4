// Package pipeline implements a Tomasulo-style out-of-order pipeline
// model with in-order commit through a reorder buffer.
//
// Each simulated cycle runs five stages in a fixed order:
//   - Issue: allocate a reorder buffer entry and a reservation station
//   - Execute: effective-address or arithmetic computation
//   - MemRead: the single data memory port serves one load
//   - WriteBack: the single result bus serves one instruction
//   - Commit: the reorder buffer head retires in program order
//
// The stage order models the effect of bypassing: a value written back
// in cycle N becomes usable by Execute in cycle N+1, because WriteBack
// runs after Execute within the cycle. Each stall cycle is classified
// into exactly one of four buckets at the stage that first detects it.
package pipeline

import (
	"fmt"

	"github.com/joeycumines/logiface"
	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/latency"
)

// Simulator drives a single trace through the pipeline model.
type Simulator struct {
	instructions []*insts.Instruction
	table        *latency.Table

	pools     [poolCount][]Station
	rob       *reorderBuffer
	regStatus regStatus

	cycle     int
	nextIssue int

	// retired holds instruction ids in commit order.
	retired []int

	// Per-cycle arbitration flags.
	memPortUsed        bool
	committedThisCycle bool

	stats  Statistics
	logger *logiface.Logger[logiface.Event]
}

// Statistics classifies every lost cycle into exactly one bucket.
type Statistics struct {
	// ReorderBufferDelays counts cycles lost at issue to a full
	// reorder buffer.
	ReorderBufferDelays int

	// ReservationStationDelays counts cycles lost at issue waiting for
	// a free station of the required pool.
	ReservationStationDelays int

	// DataMemoryConflictDelays counts cycles lost contending for the
	// single data memory port.
	DataMemoryConflictDelays int

	// TrueDependenceDelays counts cycles lost waiting for an operand
	// value.
	TrueDependenceDelays int

	// Cycles is the number of cycles simulated so far.
	Cycles int

	// Instructions is the number of instructions committed so far.
	Instructions int
}

// CPI returns cycles per committed instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// TotalDelays returns the sum of the four stall counters.
func (s Statistics) TotalDelays() int {
	return s.ReorderBufferDelays + s.ReservationStationDelays +
		s.DataMemoryConflictDelays + s.TrueDependenceDelays
}

// Option is a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLogger enables the per-cycle event trace. Pass the type-erased
// form of a logiface logger (Logger.Logger()).
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New creates a simulator for the given configuration and trace. The
// trace must not contain unknown opcodes: no station pool serves them,
// so the simulation could never retire them.
func New(config *latency.Config, instructions []*insts.Instruction, opts ...Option) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for _, inst := range instructions {
		if _, ok := PoolFor(inst.Kind); !ok {
			return nil, fmt.Errorf("unknown opcode %q", inst.Opcode)
		}
	}

	s := &Simulator{
		instructions: instructions,
		table:        latency.NewTableWithConfig(config),
		rob:          newReorderBuffer(config.ReorderBufferSize),
		regStatus:    make(regStatus),
		retired:      make([]int, 0, len(instructions)),
	}
	s.pools[PoolEffAddr] = make([]Station, config.EffAddrStations)
	s.pools[PoolFPAdd] = make([]Station, config.FPAddStations)
	s.pools[PoolFPMul] = make([]Station, config.FPMulStations)
	s.pools[PoolInt] = make([]Station, config.IntStations)

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tick advances the simulation by one cycle.
func (s *Simulator) Tick() {
	if s.Done() {
		return
	}

	s.cycle++
	s.memPortUsed = false
	s.committedThisCycle = false

	s.issue()
	s.execute()
	s.memRead()
	s.writeBack()
	s.commit()
}

// Run advances cycles until every instruction has committed.
func (s *Simulator) Run() Statistics {
	for !s.Done() {
		s.Tick()
	}
	return s.Stats()
}

// Done reports whether every instruction has committed.
func (s *Simulator) Done() bool {
	return len(s.retired) == len(s.instructions)
}

// Cycle returns the current cycle number.
func (s *Simulator) Cycle() int {
	return s.cycle
}

// Stats returns the stall counters and progress so far.
func (s *Simulator) Stats() Statistics {
	stats := s.stats
	stats.Cycles = s.cycle
	stats.Instructions = len(s.retired)
	return stats
}

// Retired returns the committed instructions in commit order.
func (s *Simulator) Retired() []*insts.Instruction {
	out := make([]*insts.Instruction, 0, len(s.retired))
	for _, id := range s.retired {
		out = append(out, s.instructions[id])
	}
	return out
}

// freeStation returns a free slot in the pool, or nil.
func (s *Simulator) freeStation(pool Pool) *Station {
	slots := s.pools[pool]
	for i := range slots {
		if !slots[i].Busy {
			return &slots[i]
		}
	}
	return nil
}

func (s *Simulator) logStage(inst *insts.Instruction, stage string) {
	if s.logger == nil {
		return
	}
	s.logger.Debug().
		Int("cycle", s.cycle).
		Str("instruction", inst.Raw).
		Log(stage)
}

func (s *Simulator) logStall(inst *insts.Instruction, bucket, reason string) {
	if s.logger == nil {
		return
	}
	s.logger.Debug().
		Int("cycle", s.cycle).
		Str("instruction", inst.Raw).
		Str("bucket", bucket).
		Str("reason", reason).
		Log("stall")
}
