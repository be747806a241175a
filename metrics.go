package minios

import "sync/atomic"

// Metrics tracks simulator-wide counters, mirroring the teacher's
// atomic-counter shape: plain int64 fields updated with sync/atomic so a
// front end can poll them from another goroutine while Step runs on the
// driver's own.
type Metrics struct {
	instructionsExecuted int64
	contextSwitches      int64
	mutexContentions     int64
	terminations         int64
	errorTerminations    int64
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordInstruction() { atomic.AddInt64(&m.instructionsExecuted, 1) }
func (m *Metrics) recordContextSwitch() { atomic.AddInt64(&m.contextSwitches, 1) }
func (m *Metrics) recordMutexContention() { atomic.AddInt64(&m.mutexContentions, 1) }
func (m *Metrics) recordTermination(isError bool) {
	atomic.AddInt64(&m.terminations, 1)
	if isError {
		atomic.AddInt64(&m.errorTerminations, 1)
	}
}

// InstructionsExecuted returns the total instructions interpreted so far.
func (m *Metrics) InstructionsExecuted() int64 { return atomic.LoadInt64(&m.instructionsExecuted) }

// ContextSwitches returns how many times a process was dispatched onto the
// CPU, counting a re-dispatch of the same process after preemption.
func (m *Metrics) ContextSwitches() int64 { return atomic.LoadInt64(&m.contextSwitches) }

// MutexContentions returns how many semWait calls found their resource
// already held.
func (m *Metrics) MutexContentions() int64 { return atomic.LoadInt64(&m.mutexContentions) }

// Terminations returns how many processes have reached StateTerminated.
func (m *Metrics) Terminations() int64 { return atomic.LoadInt64(&m.terminations) }

// ErrorTerminations returns how many of those terminations were caused by
// a runtime error rather than normal completion.
func (m *Metrics) ErrorTerminations() int64 { return atomic.LoadInt64(&m.errorTerminations) }
