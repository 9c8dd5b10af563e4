package pipeline

import (
	"math"

	"github.com/sarchlab/tomsim/insts"
)

// issue brings the next trace instruction into the machine: one
// reorder buffer entry and one reservation station of the pool its
// kind requires. A full reorder buffer first gets a chance to retire
// its head so the slot can be reused within the same cycle.
func (s *Simulator) issue() {
	if s.nextIssue >= len(s.instructions) {
		return
	}
	inst := s.instructions[s.nextIssue]

	if s.rob.Full() {
		s.commit()
		if s.rob.Full() {
			s.stats.ReorderBufferDelays++
			s.logStall(inst, "reorder buffer", "reorder buffer full")
			return
		}
	}

	pool, ok := PoolFor(inst.Kind)
	if !ok {
		panic("pipeline: no station pool for opcode " + inst.Opcode)
	}
	slot := s.freeStation(pool)
	if slot == nil {
		s.stats.ReservationStationDelays++
		s.logStall(inst, "reservation station", "no free "+pool.String()+" station")
		return
	}

	robIdx := s.rob.Alloc()
	entry := s.rob.At(robIdx)
	entry.InstrID = s.nextIssue
	entry.DestReg = inst.Dest

	slot.Busy = true
	slot.InstrID = s.nextIssue
	slot.DestROB = robIdx
	slot.Executing = false
	slot.RemainingCycles = s.table.Latency(inst.Kind)
	slot.Operand1 = s.operandTag(inst.Src1)
	slot.Operand2 = s.operandTag(inst.Src2)

	if inst.Kind == insts.KindStore {
		// Src1 carries the value the store writes to memory. Its
		// producer gates commit, tracked in the reorder buffer entry
		// rather than the station.
		entry.StoreDataDep = slot.Operand1
	}

	if inst.Dest != "" {
		s.regStatus.setProducer(inst.Dest, Tag(robIdx))
	}

	inst.IssueCycle = s.cycle
	s.nextIssue++
	s.logStage(inst, "issue")
}

// operandTag resolves a source register to the reorder buffer entry
// that will produce it. The register status table only tracks commit:
// a producer that has already written back reads as ready here, or a
// consumer issued between the producer's write-back and commit would
// wait on a tag that no broadcast will ever clear.
func (s *Simulator) operandTag(reg string) Tag {
	if reg == "" {
		return TagReady
	}
	t, ok := s.regStatus.producer(reg)
	if !ok {
		return TagReady
	}
	entry := s.rob.At(int(t))
	if !entry.Busy || entry.Ready {
		return TagReady
	}
	return t
}

// execute walks the pools in fixed order. Busy stations count down
// in-flight work; waiting stations start once both operand tags are
// ready (stores need only the address base). An instruction never
// issues and starts executing in the same cycle.
func (s *Simulator) execute() {
	for pool := PoolEffAddr; pool < poolCount; pool++ {
		s.executePool(pool)
	}
}

func (s *Simulator) executePool(pool Pool) {
	slots := s.pools[pool]
	for i := range slots {
		slot := &slots[i]
		if !slot.Busy {
			continue
		}
		inst := s.instructions[slot.InstrID]

		if slot.Executing {
			slot.RemainingCycles--
			if slot.RemainingCycles == 0 {
				s.completeExecute(slot, inst)
			}
			continue
		}

		if inst.IssueCycle == s.cycle || inst.ExecCompleteCycle != insts.NoCycle {
			continue
		}

		if !s.operandsReady(slot, inst) {
			s.stats.TrueDependenceDelays++
			s.logStall(inst, "true dependence", "waiting on operands")
			continue
		}

		inst.ExecStartCycle = s.cycle
		s.logStage(inst, "execute start")
		if lat := s.table.Latency(inst.Kind); lat == 1 {
			s.completeExecute(slot, inst)
		} else {
			slot.Executing = true
			slot.RemainingCycles = lat - 1
		}
	}
}

// operandsReady applies the true-dependency gate. A store waits only
// for its address base (operand 2); the store data producer is tracked
// in the reorder buffer and gates commit instead.
func (s *Simulator) operandsReady(slot *Station, inst *insts.Instruction) bool {
	if inst.Kind == insts.KindStore {
		return slot.Operand2 == TagReady
	}
	return slot.Operand1 == TagReady && slot.Operand2 == TagReady
}

// completeExecute finishes execution this cycle. Stores and branches
// have no write-back, so their reorder buffer entries become ready
// now. Loads keep their station until the memory read claims the
// port; every other kind frees its station here.
func (s *Simulator) completeExecute(slot *Station, inst *insts.Instruction) {
	inst.ExecCompleteCycle = s.cycle
	slot.Executing = false
	slot.RemainingCycles = 0
	if inst.Kind == insts.KindStore || inst.Kind == insts.KindBranch {
		s.rob.At(slot.DestROB).Ready = true
	}
	s.logStage(inst, "execute complete")
	if inst.Kind != insts.KindLoad {
		slot.Clear()
	}
}

// memRead arbitrates the single data memory port among loads, in
// program order. A store at the reorder buffer head that can commit
// this cycle owns the port, so every eligible load counts a conflict
// and waits.
func (s *Simulator) memRead() {
	blocking := s.commitReadyStore()

	s.rob.scanInOrder(func(idx int, entry *ROBEntry) bool {
		inst := s.instructions[entry.InstrID]
		if inst.Kind != insts.KindLoad ||
			inst.ExecCompleteCycle == insts.NoCycle ||
			inst.ExecCompleteCycle == s.cycle ||
			inst.MemReadCycle != insts.NoCycle {
			return true
		}

		if blocking {
			s.stats.DataMemoryConflictDelays++
			s.logStall(inst, "data memory conflict", "store commit holds the memory port")
			return true
		}
		if s.memPortUsed {
			s.stats.DataMemoryConflictDelays++
			s.logStall(inst, "data memory conflict", "memory port already used")
			return false
		}
		if s.loadBlockedByStore(entry.InstrID) {
			s.stats.TrueDependenceDelays++
			s.logStall(inst, "true dependence", "aliasing store still in flight")
			return true
		}

		inst.MemReadCycle = s.cycle
		s.memPortUsed = true
		s.freeLoadStation(entry.InstrID)
		s.logStage(inst, "memory read")
		return false
	})
}

// commitReadyStore reports whether the reorder buffer head is a store
// that will commit this cycle.
func (s *Simulator) commitReadyStore() bool {
	if s.rob.Empty() || s.committedThisCycle || s.memPortUsed {
		return false
	}
	head := s.rob.Head()
	if !head.Busy || !head.Ready {
		return false
	}
	inst := s.instructions[head.InstrID]
	return inst.Kind == insts.KindStore &&
		head.StoreDataDep == TagReady &&
		inst.ExecCompleteCycle != s.cycle &&
		inst.MemReadCycle != s.cycle &&
		inst.WriteBackCycle != s.cycle
}

// freeLoadStation releases the effective-address station still held by
// the load that just read memory.
func (s *Simulator) freeLoadStation(instrID int) {
	slots := s.pools[PoolEffAddr]
	for i := range slots {
		if slots[i].Busy && slots[i].InstrID == instrID {
			slots[i].Clear()
		}
	}
}

// writeBack arbitrates the single result bus. Among instructions whose
// result is available, the one issued earliest wins; its reorder
// buffer entry becomes ready and the availability is broadcast to all
// waiting consumers.
func (s *Simulator) writeBack() {
	earliestIssue := math.MaxInt
	chosen := -1

	s.rob.scanInOrder(func(idx int, entry *ROBEntry) bool {
		inst := s.instructions[entry.InstrID]
		if !inst.Kind.WritesBack() || inst.WriteBackCycle != insts.NoCycle {
			return true
		}

		var available bool
		if inst.Kind == insts.KindLoad {
			available = inst.MemReadCycle != insts.NoCycle && inst.MemReadCycle != s.cycle
		} else {
			available = inst.ExecCompleteCycle != insts.NoCycle && inst.ExecCompleteCycle != s.cycle
		}

		if available && inst.IssueCycle < earliestIssue {
			earliestIssue = inst.IssueCycle
			chosen = idx
		}
		return true
	})
	if chosen == -1 {
		return
	}

	entry := s.rob.At(chosen)
	inst := s.instructions[entry.InstrID]
	inst.WriteBackCycle = s.cycle
	entry.Ready = true
	s.broadcast(Tag(chosen))
	s.logStage(inst, "write back")
}

// commit retires the reorder buffer head, at most once per cycle. The
// head cannot commit in the same cycle it finished any earlier stage.
// A committing store performs its memory write here and therefore
// needs the memory port.
func (s *Simulator) commit() {
	if s.committedThisCycle || s.rob.Empty() {
		return
	}
	entry := s.rob.Head()
	if !entry.Busy || !entry.Ready {
		return
	}
	inst := s.instructions[entry.InstrID]

	if inst.ExecCompleteCycle == s.cycle ||
		inst.MemReadCycle == s.cycle ||
		inst.WriteBackCycle == s.cycle {
		return
	}

	if inst.Kind == insts.KindStore {
		if entry.StoreDataDep != TagReady {
			dep := s.rob.At(int(entry.StoreDataDep))
			// The producer may have written back since issue.
			if !dep.Busy || dep.Ready {
				entry.StoreDataDep = TagReady
			} else {
				s.stats.TrueDependenceDelays++
				s.logStall(inst, "true dependence", "store data not yet produced")
				return
			}
		}
		if s.memPortUsed {
			s.stats.DataMemoryConflictDelays++
			s.logStall(inst, "data memory conflict", "memory port already used")
			return
		}
		s.memPortUsed = true
	}

	instrID := entry.InstrID
	headIdx := s.rob.HeadIndex()

	inst.CommitCycle = s.cycle
	s.broadcast(Tag(headIdx))
	s.regStatus.clearIf(inst.Dest, Tag(headIdx))
	s.rob.Release()

	s.retired = append(s.retired, instrID)
	s.committedThisCycle = true
	s.logStage(inst, "commit")
}
