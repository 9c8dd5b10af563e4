// Package main provides the entry point for TomSim.
// TomSim is a cycle-accurate model of a Tomasulo-style out-of-order
// pipeline: it reads an instruction trace from stdin and reports the
// cycle at which each instruction passed every pipeline stage.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/sarchlab/tomsim/insts"
	"github.com/sarchlab/tomsim/timing/core"
	"github.com/sarchlab/tomsim/timing/latency"
	"github.com/sarchlab/tomsim/timing/pipeline"
)

var (
	configPath = flag.String("config", "config.txt", "Path to the pipeline configuration file")
	verbose    = flag.Bool("v", false, "Log per-cycle pipeline events to stderr")
)

func main() {
	flag.Parse()

	config, err := latency.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	trace, err := insts.NewParser().Parse(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trace: %v\n", err)
		os.Exit(1)
	}

	var opts []pipeline.Option
	if *verbose {
		logger := stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
			stumpy.L.WithLevel(logiface.LevelDebug),
		)
		opts = append(opts, pipeline.WithLogger(logger.Logger()))
	}

	c, err := core.New(config, trace, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c.Run()
	c.WriteReport(os.Stdout)
}
