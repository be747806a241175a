package minios

import (
	"fmt"

	"github.com/ehrlich-b/go-minios/internal/constants"
	"github.com/ehrlich-b/go-minios/internal/logging"
	"github.com/ehrlich-b/go-minios/internal/scheduler"
)

// SchedulerPolicy selects the ready-queue discipline (spec.md §4.3).
type SchedulerPolicy = scheduler.Policy

const (
	FCFS       = scheduler.FCFS
	RoundRobin = scheduler.RoundRobin
	MLFQ       = scheduler.MLFQ
)

// Config configures a new System.
type Config struct {
	// Scheduler selects FCFS, RoundRobin, or MLFQ. Defaults to FCFS.
	Scheduler SchedulerPolicy

	// RRQuantum is the fixed quantum used when Scheduler is RoundRobin.
	// Must be >= 1.
	RRQuantum int

	// MLFQQuanta is the per-level quantum table used when Scheduler is
	// MLFQ. Defaults to constants.DefaultMLFQQuanta when left zero.
	MLFQQuanta [constants.MLFQLevels]int

	// FS backs program loading and the readFile/writeFile instructions.
	// Required.
	FS FileSystem

	// Hooks receives driver callbacks. Defaults to NopHooks.
	Hooks Hooks

	// Logger receives diagnostic log lines. Defaults to logging.Default().
	Logger *logging.Logger
}

func (c *Config) validate() error {
	if c.FS == nil {
		return fmt.Errorf("minios: Config.FS is required")
	}
	if c.Scheduler == RoundRobin && c.RRQuantum < 1 {
		return fmt.Errorf("minios: RoundRobin requires RRQuantum >= 1")
	}
	return nil
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Hooks == nil {
		out.Hooks = NopHooks{}
	}
	if out.Logger == nil {
		out.Logger = logging.Default()
	}
	if out.MLFQQuanta == ([constants.MLFQLevels]int{}) {
		out.MLFQQuanta = constants.DefaultMLFQQuanta
	}
	return out
}
