// Package core wires the configuration, trace, and pipeline engine
// behind a single simulation façade.
package core

import (
	"io"

	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/latency"
	"github.com/sarchlab/tomsim/timing/pipeline"
	"github.com/sarchlab/tomsim/timing/report"
)

// Core drives one trace through the pipeline model and renders the
// resulting report.
type Core struct {
	config *latency.Config
	sim    *pipeline.Simulator
}

// New creates a Core for the given configuration and trace.
func New(config *latency.Config, instructions []*insts.Instruction, opts ...pipeline.Option) (*Core, error) {
	sim, err := pipeline.New(config, instructions, opts...)
	if err != nil {
		return nil, err
	}
	return &Core{
		config: config,
		sim:    sim,
	}, nil
}

// Tick advances the simulation by one cycle.
func (c *Core) Tick() {
	c.sim.Tick()
}

// Done reports whether every instruction has committed.
func (c *Core) Done() bool {
	return c.sim.Done()
}

// Run simulates until every instruction has committed.
func (c *Core) Run() pipeline.Statistics {
	return c.sim.Run()
}

// Stats returns the stall counters and progress so far.
func (c *Core) Stats() pipeline.Statistics {
	return c.sim.Stats()
}

// Retired returns the committed instructions in commit order.
func (c *Core) Retired() []*insts.Instruction {
	return c.sim.Retired()
}

// WriteReport renders the configuration echo, timing table, and delay
// counters.
func (c *Core) WriteReport(w io.Writer) {
	report.Write(w, c.config, c.sim.Retired(), c.sim.Stats())
}
