// Package scheduler implements the three ready-queue disciplines spec.md
// §4.3 describes: FCFS, Round Robin, and a four-level MLFQ. Dispatch
// cadence is grounded on the teacher's ioLoop/processRequests dispatch
// cycle in internal/queue/runner.go; the multi-queue MLFQ shape borrows
// the multi-queue scheduleOnce vocabulary from the pack's toysched5.go.
//
// The scheduler only ever stores pids — all policy decisions that need a
// process's other state (quantum remaining, MLFQ level) are made by the
// driver, which is the single place that owns both the scheduler and the
// process table.
package scheduler

import (
	"fmt"

	"github.com/ehrlich-b/go-minios/internal/constants"
)

// Policy selects the ready-queue discipline.
type Policy int

const (
	FCFS Policy = iota
	RoundRobin
	MLFQ
)

// Scheduler holds one or more bounded ready queues, one per priority
// level. FCFS and Round Robin use a single level; MLFQ uses
// constants.MLFQLevels.
type Scheduler struct {
	policy Policy
	queues [][]int
}

// NewFCFS returns a scheduler with a single FCFS-ordered ready queue.
func NewFCFS() *Scheduler {
	return &Scheduler{policy: FCFS, queues: make([][]int, 1)}
}

// NewRoundRobin returns a scheduler with a single ready queue, dispatched
// and requeued under Round Robin rules by the driver.
func NewRoundRobin() *Scheduler {
	return &Scheduler{policy: RoundRobin, queues: make([][]int, 1)}
}

// NewMLFQ returns a scheduler with constants.MLFQLevels priority levels,
// level 0 highest.
func NewMLFQ() *Scheduler {
	return &Scheduler{policy: MLFQ, queues: make([][]int, constants.MLFQLevels)}
}

// Policy reports which discipline this scheduler implements.
func (s *Scheduler) Policy() Policy { return s.policy }

// Levels returns the number of priority levels (1 for FCFS/RR,
// constants.MLFQLevels for MLFQ).
func (s *Scheduler) Levels() int { return len(s.queues) }

// Enqueue admits pid to the ready queue at level (ignored for FCFS/RR,
// always treated as 0). If that level's queue is full, MLFQ falls back to
// the next lower-priority level that has room; FCFS/RR has only one level
// and returns an error immediately. Returns the level pid actually landed
// in, or an error if every eligible level is full (queue-overflow,
// spec.md §7).
func (s *Scheduler) Enqueue(pid, level int) (usedLevel int, err error) {
	if s.policy != MLFQ {
		level = 0
	}
	if level < 0 {
		level = 0
	}
	for l := level; l < len(s.queues); l++ {
		if len(s.queues[l]) < constants.ReadyQueueCapacity {
			s.queues[l] = append(s.queues[l], pid)
			return l, nil
		}
	}
	return -1, fmt.Errorf("scheduler: ready queue full from level %d down", level)
}

// Next dequeues the next pid to run: the head of the only queue for
// FCFS/RR, or the head of the highest non-empty level for MLFQ. Returns
// ok=false if every queue is empty.
func (s *Scheduler) Next() (pid int, level int, ok bool) {
	for l, q := range s.queues {
		if len(q) == 0 {
			continue
		}
		pid = q[0]
		s.queues[l] = append([]int{}, q[1:]...)
		return pid, l, true
	}
	return 0, 0, false
}

// Demote computes the MLFQ level a process moves to after exhausting its
// quantum: one level lower priority, clamped to the lowest level.
func (s *Scheduler) Demote(level int) int {
	if level+1 >= len(s.queues) {
		return len(s.queues) - 1
	}
	return level + 1
}

// Len reports how many pids are queued at level.
func (s *Scheduler) Len(level int) int {
	if level < 0 || level >= len(s.queues) {
		return 0
	}
	return len(s.queues[level])
}

// Snapshot returns a copy of every level's queue contents, in dispatch
// order, for collaborators rendering scheduler state.
func (s *Scheduler) Snapshot() [][]int {
	out := make([][]int, len(s.queues))
	for i, q := range s.queues {
		out[i] = append([]int{}, q...)
	}
	return out
}
