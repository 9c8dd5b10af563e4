// Package latency provides the microarchitectural configuration and
// instruction latency model for the pipeline simulation.
package latency

import (
	"github.com/sarchlab/tomsim/insts"
)

// Table provides execution latency lookups by instruction kind.
type Table struct {
	config *Config
}

// NewTable creates a latency table with default configuration values.
func NewTable() *Table {
	return &Table{
		config: DefaultConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom configuration.
func NewTableWithConfig(config *Config) *Table {
	return &Table{
		config: config,
	}
}

// Latency returns the number of Execute cycles for the given kind.
// Loads and stores spend a single cycle computing their effective
// address; the memory access itself happens outside Execute. Integer
// operations and branches are single-cycle.
func (t *Table) Latency(k insts.Kind) int {
	switch k {
	case insts.KindFPAdd:
		return t.config.FPAddLatency
	case insts.KindFPSub:
		return t.config.FPSubLatency
	case insts.KindFPMul:
		return t.config.FPMulLatency
	case insts.KindFPDiv:
		return t.config.FPDivLatency
	default:
		return 1
	}
}

// Config returns the configuration backing this table.
func (t *Table) Config() *Config {
	return t.config
}
