// Package mutex implements the simulator's three named resource mutexes
// (spec.md §4.4): file, userInput, userOutput. Each mutex has a bounded
// waiter queue and releases to the highest-priority waiter (lowest numeric
// priority, FIFO among ties) on Signal.
//
// Grounded on the teacher's per-tag state machine in internal/queue/runner.go
// — a resource is either free or held by exactly one owner, with everyone
// else parked in an explicit waiter list rather than blocked on a Go
// channel, because the driver must be able to inspect and render that list
// between steps.
package mutex

import (
	"fmt"

	"github.com/ehrlich-b/go-minios/internal/constants"
)

// Name identifies one of the three mutexes.
type Name string

const (
	File       Name = "file"
	UserInput  Name = "userInput"
	UserOutput Name = "userOutput"
)

// AllNames lists the three resources in a stable order, for collaborators
// that enumerate mutex state.
var AllNames = []Name{File, UserInput, UserOutput}

type waiter struct {
	pid      int
	priority int
}

// Mutex is a single named resource: free, or held by one pid with others
// queued behind it.
type Mutex struct {
	name    Name
	held    bool
	holder  int
	waiters []waiter
}

// Set is the simulator's fixed set of three named mutexes.
type Set struct {
	mutexes map[Name]*Mutex
}

// NewSet returns the three mutexes, all initially free.
func NewSet() *Set {
	s := &Set{mutexes: make(map[Name]*Mutex, constants.NumResources)}
	for _, n := range AllNames {
		s.mutexes[n] = &Mutex{name: n}
	}
	return s
}

func (s *Set) get(name Name) (*Mutex, error) {
	m, ok := s.mutexes[name]
	if !ok {
		return nil, fmt.Errorf("mutex: unknown resource %q", name)
	}
	return m, nil
}

// Wait attempts to acquire name for pid at the given priority. If the
// mutex is free, pid becomes the holder immediately and blocked is false.
// If held, pid is parked in the waiter queue and blocked is true. Returns
// an error if the waiter queue is already full (queue-overflow, spec.md
// §7) or name is not one of the three known resources.
func (s *Set) Wait(name Name, pid, priority int) (blocked bool, err error) {
	m, err := s.get(name)
	if err != nil {
		return false, err
	}

	if !m.held {
		m.held = true
		m.holder = pid
		return false, nil
	}

	if len(m.waiters) >= constants.WaiterQueueCapacity {
		return false, fmt.Errorf("mutex: waiter queue for %q is full", name)
	}
	m.waiters = append(m.waiters, waiter{pid: pid, priority: priority})
	return true, nil
}

// Signal releases name, which must currently be held by pid, and hands it
// to the highest-priority waiter (lowest Priority value; FIFO among ties).
// Returns the pid that was unblocked and woken, or -1 if nobody was
// waiting. Returns an error if pid is not the current holder
// (illegal-signal, spec.md §7).
func (s *Set) Signal(name Name, pid int) (unblocked int, err error) {
	m, err := s.get(name)
	if err != nil {
		return -1, err
	}
	if !m.held || m.holder != pid {
		return -1, fmt.Errorf("mutex: pid %d does not hold %q", pid, name)
	}

	if len(m.waiters) == 0 {
		m.held = false
		m.holder = 0
		return -1, nil
	}

	best := 0
	for i := 1; i < len(m.waiters); i++ {
		if m.waiters[i].priority < m.waiters[best].priority {
			best = i
		}
	}
	w := m.waiters[best]
	m.waiters = append(m.waiters[:best], m.waiters[best+1:]...)

	m.holder = w.pid
	m.held = true
	return w.pid, nil
}

// ReleaseIfHolder forcibly releases name if pid currently holds it, waking
// the next waiter exactly as Signal would. Used when a process terminates
// while still holding a mutex (spec.md §9 Open Question, resolved in
// DESIGN.md). No-op, returning -1, if pid does not hold name.
func (s *Set) ReleaseIfHolder(name Name, pid int) (unblocked int) {
	m, err := s.get(name)
	if err != nil || !m.held || m.holder != pid {
		return -1
	}
	u, _ := s.Signal(name, pid)
	return u
}

// HolderOf returns the pid currently holding name, and whether anyone
// holds it at all.
func (s *Set) HolderOf(name Name) (pid int, held bool) {
	m, err := s.get(name)
	if err != nil {
		return 0, false
	}
	return m.holder, m.held
}

// Waiters returns a copy of the pids currently queued on name, in queue
// order (not priority order), for collaborators rendering mutex state.
func (s *Set) Waiters(name Name) []int {
	m, err := s.get(name)
	if err != nil {
		return nil
	}
	out := make([]int, len(m.waiters))
	for i, w := range m.waiters {
		out[i] = w.pid
	}
	return out
}
