package pipeline

import (
	"github.com/sarchlab/tomsim/insts"
)

// loadBlockedByStore reports whether an earlier store to the same
// address is still in flight. Addresses are the trace annotations;
// nothing is dereferenced. The load may not read memory until every
// aliasing store has both computed its address and committed its
// write.
func (s *Simulator) loadBlockedByStore(loadID int) bool {
	load := s.instructions[loadID]
	for _, prev := range s.instructions[:loadID] {
		if prev.Kind != insts.KindStore || prev.MemAddr != load.MemAddr {
			continue
		}
		if prev.ExecCompleteCycle == insts.NoCycle || prev.CommitCycle == insts.NoCycle {
			return true
		}
	}
	return false
}

// broadcast clears every operand tag and store data dependency waiting
// on the given reorder buffer entry. WriteBack and Commit are the only
// callers; nothing else resolves a pending tag.
func (s *Simulator) broadcast(t Tag) {
	for pool := range s.pools {
		slots := s.pools[pool]
		for i := range slots {
			if !slots[i].Busy {
				continue
			}
			if slots[i].Operand1 == t {
				slots[i].Operand1 = TagReady
			}
			if slots[i].Operand2 == t {
				slots[i].Operand2 = TagReady
			}
		}
	}
	s.rob.clearStoreDeps(t)
}
