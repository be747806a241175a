// Package process implements the process control block and the fixed
// process table (spec.md §3.2), grounded on the teacher's device table
// shape (internal/ctrl/types.go's DeviceParams/DeviceInfo) generalized from
// one block device to up to constants.MaxProcesses concurrent processes.
package process

import (
	"fmt"

	"github.com/ehrlich-b/go-minios/internal/constants"
	"github.com/ehrlich-b/go-minios/internal/memarena"
)

// State is a PCB's lifecycle state.
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateBlocked
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateBlocked:
		return "BLOCKED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// PCB is one process's control block.
type PCB struct {
	ID            int
	ProgramNumber int
	State         State
	Priority      int
	PC            int
	Region        memarena.Region
	ArrivalTime   int

	// BlockedOnResource names the mutex this process is waiting on, empty
	// when not blocked.
	BlockedOnResource string

	// QuantumRemaining counts down the instructions left in the process's
	// current Round Robin / MLFQ time slice.
	QuantumRemaining int

	// MLFQLevel is only meaningful when the driver is configured for MLFQ
	// scheduling; it is left at 0 otherwise.
	MLFQLevel int

	// WasUnblockedThisCycle is cleared at the start of every Step and set
	// when a mutex Signal moves this PCB from BLOCKED to READY during the
	// current cycle — collaborators use it to highlight the transition.
	WasUnblockedThisCycle bool
}

// Table is the fixed-size process table.
type Table struct {
	procs  [constants.MaxProcesses]*PCB
	nextID int
}

// NewTable returns an empty process table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a new PCB at the given arrival time and returns it. Returns
// an error if the table is full. Priority starts at 0 for every process;
// it is not derived from pid or arrival order — the driver recomputes it
// per scheduling policy (spec.md §4.3) whenever a mutex operation needs it.
func (t *Table) Add(programNumber, arrivalTime int, region memarena.Region) (*PCB, error) {
	slot := -1
	for i, p := range t.procs {
		if p == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return nil, fmt.Errorf("process: table full (max %d)", constants.MaxProcesses)
	}

	pid := t.nextID
	t.nextID++

	pcb := &PCB{
		ID:            pid,
		ProgramNumber: programNumber,
		State:         StateNew,
		Priority:      0,
		PC:            0,
		Region:        region,
		ArrivalTime:   arrivalTime,
	}
	t.procs[slot] = pcb
	return pcb, nil
}

// PeekNextID returns the id that Add will assign on its next call, without
// reserving it. The driver uses this to name a memarena region before the
// PCB that will own it exists.
func (t *Table) PeekNextID() int { return t.nextID }

// Get returns the PCB with the given id, if present.
func (t *Table) Get(pid int) (*PCB, bool) {
	for _, p := range t.procs {
		if p != nil && p.ID == pid {
			return p, true
		}
	}
	return nil, false
}

// All returns every live PCB, in table-slot order.
func (t *Table) All() []*PCB {
	out := make([]*PCB, 0, constants.MaxProcesses)
	for _, p := range t.procs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// ClearUnblockedFlags resets WasUnblockedThisCycle on every live PCB; the
// driver calls this at the start of each Step.
func (t *Table) ClearUnblockedFlags() {
	for _, p := range t.procs {
		if p != nil {
			p.WasUnblockedThisCycle = false
		}
	}
}

// AllTerminated reports whether every PCB currently in the table has
// reached StateTerminated. An empty table counts as not complete: the
// driver only considers the run complete once at least one process has
// been loaded.
func (t *Table) AllTerminated() bool {
	any := false
	for _, p := range t.procs {
		if p == nil {
			continue
		}
		any = true
		if p.State != StateTerminated {
			return false
		}
	}
	return any
}
