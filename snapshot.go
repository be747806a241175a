package minios

import (
	"github.com/ehrlich-b/go-minios/internal/constants"
	"github.com/ehrlich-b/go-minios/internal/memarena"
	"github.com/ehrlich-b/go-minios/internal/mutex"
	"github.com/ehrlich-b/go-minios/internal/process"
)

// Snapshot is a read-only view of the entire simulator state at one point
// in time (spec.md §6): the clock, every process, the raw memory words,
// the three mutexes, and the scheduler's ready queues. Front ends render
// directly from a Snapshot rather than reaching into driver internals.
type Snapshot struct {
	Clock     int
	Complete  bool
	Processes []ProcessSnapshot
	Memory    [constants.MemoryWords]memarena.Word
	Mutexes   map[mutex.Name]MutexSnapshot
	ReadyQueues [][]int
}

// ProcessSnapshot is one process's visible state.
type ProcessSnapshot struct {
	PID                   int
	ProgramNumber         int
	State                 string
	Priority              int
	PC                     int
	ArrivalTime           int
	MLFQLevel             int
	BlockedOnResource     string
	WasUnblockedThisCycle bool
}

// MutexSnapshot is one mutex's visible state.
type MutexSnapshot struct {
	Held    bool
	Holder  int
	Waiters []int
}

func newProcessSnapshot(p *process.PCB) ProcessSnapshot {
	return ProcessSnapshot{
		PID:                   p.ID,
		ProgramNumber:         p.ProgramNumber,
		State:                 p.State.String(),
		Priority:              p.Priority,
		PC:                    p.PC,
		ArrivalTime:           p.ArrivalTime,
		MLFQLevel:             p.MLFQLevel,
		BlockedOnResource:     p.BlockedOnResource,
		WasUnblockedThisCycle: p.WasUnblockedThisCycle,
	}
}
