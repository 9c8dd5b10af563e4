package latency

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds the buffer sizes and execution latencies for a
// simulation run.
type Config struct {
	// EffAddrStations is the number of effective-address reservation
	// stations, shared by loads and stores.
	EffAddrStations int

	// FPAddStations is the number of FP add/subtract stations.
	FPAddStations int

	// FPMulStations is the number of FP multiply/divide stations.
	FPMulStations int

	// IntStations is the number of integer/branch stations.
	IntStations int

	// ReorderBufferSize is the number of reorder buffer entries.
	ReorderBufferSize int

	// FPAddLatency is the Execute latency of fadd.s in cycles.
	FPAddLatency int

	// FPSubLatency is the Execute latency of fsub.s in cycles.
	FPSubLatency int

	// FPMulLatency is the Execute latency of fmul.s in cycles.
	FPMulLatency int

	// FPDivLatency is the Execute latency of fdiv.s in cycles.
	FPDivLatency int
}

// DefaultConfig returns a Config with classic single-issue Tomasulo
// values.
func DefaultConfig() *Config {
	return &Config{
		EffAddrStations:   2,
		FPAddStations:     3,
		FPMulStations:     2,
		IntStations:       2,
		ReorderBufferSize: 8,
		FPAddLatency:      2,
		FPSubLatency:      2,
		FPMulLatency:      10,
		FPDivLatency:      40,
	}
}

// LoadConfig loads a Config from a configuration file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open config %s: %w", path, err)
	}
	defer file.Close()

	config, err := ParseConfig(file)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, nil
}

// ParseConfig reads the line-based configuration format. Two sections
// are introduced by bare keywords on their own lines: "buffers" holds
// the station counts and reorder buffer size under space-separated
// keys, "latencies" holds the FP execute latencies under
// underscore-separated keys. Keys and values are trimmed of
// surrounding whitespace.
func ParseConfig(r io.Reader) (*Config, error) {
	config := &Config{}
	scanner := bufio.NewScanner(r)
	section := ""
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch trimmed {
		case "buffers", "buffers:":
			section = "buffers"
			continue
		case "latencies", "latencies:":
			section = "latencies"
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, fmt.Errorf("malformed config line %q", line)
		}
		key = strings.TrimSpace(key)
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("bad value for %q: %w", key, err)
		}

		switch section {
		case "buffers":
			switch key {
			case "eff addr":
				config.EffAddrStations = n
			case "fp adds":
				config.FPAddStations = n
			case "fp muls":
				config.FPMulStations = n
			case "ints":
				config.IntStations = n
			case "reorder":
				config.ReorderBufferSize = n
			default:
				return nil, fmt.Errorf("unknown buffer key %q", key)
			}
		case "latencies":
			switch key {
			case "fp_add":
				config.FPAddLatency = n
			case "fp_sub":
				config.FPSubLatency = n
			case "fp_mul":
				config.FPMulLatency = n
			case "fp_div":
				config.FPDivLatency = n
			default:
				return nil, fmt.Errorf("unknown latency key %q", key)
			}
		default:
			return nil, fmt.Errorf("config line %q outside any section", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that all buffer sizes and latencies are valid (> 0).
func (c *Config) Validate() error {
	if c.EffAddrStations <= 0 {
		return fmt.Errorf("eff addr stations must be > 0")
	}
	if c.FPAddStations <= 0 {
		return fmt.Errorf("fp add stations must be > 0")
	}
	if c.FPMulStations <= 0 {
		return fmt.Errorf("fp mul stations must be > 0")
	}
	if c.IntStations <= 0 {
		return fmt.Errorf("int stations must be > 0")
	}
	if c.ReorderBufferSize <= 0 {
		return fmt.Errorf("reorder buffer size must be > 0")
	}
	if c.FPAddLatency <= 0 {
		return fmt.Errorf("fp_add latency must be > 0")
	}
	if c.FPSubLatency <= 0 {
		return fmt.Errorf("fp_sub latency must be > 0")
	}
	if c.FPMulLatency <= 0 {
		return fmt.Errorf("fp_mul latency must be > 0")
	}
	if c.FPDivLatency <= 0 {
		return fmt.Errorf("fp_div latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
