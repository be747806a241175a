package minios

import (
	"fmt"

	"github.com/ehrlich-b/go-minios/internal/constants"
	"github.com/ehrlich-b/go-minios/internal/interpreter"
	"github.com/ehrlich-b/go-minios/internal/loader"
	"github.com/ehrlich-b/go-minios/internal/logging"
	"github.com/ehrlich-b/go-minios/internal/memarena"
	"github.com/ehrlich-b/go-minios/internal/mutex"
	"github.com/ehrlich-b/go-minios/internal/process"
	"github.com/ehrlich-b/go-minios/internal/scheduler"
)

// System is the simulator driver: it owns the memory arena, the process
// table, the three mutexes, and the scheduler, and advances all of them
// one instruction at a time via Step (spec.md §5/§6).
//
// Grounded on the teacher's Device/Controller shape (backend.go,
// internal/ctrl/control.go): one struct holding every subsystem, with
// collaborators (FileSystem, Hooks) injected as explicit ports rather than
// reached for globally.
type System struct {
	cfg     Config
	arena   *memarena.Arena
	table   *process.Table
	mutexes *mutex.Set
	sched   *scheduler.Scheduler
	log     *logging.Logger
	hooks   Hooks
	metrics *Metrics
	fs      FileSystem

	clock           int
	runningPid      int
	pendingInputPID int
	pendingInputVar string
}

// NewSystem builds a System from cfg. Panics if cfg is invalid (a missing
// FileSystem, or a RoundRobin quantum below 1) — these are programmer
// errors, not runtime conditions.
func NewSystem(cfg Config) *System {
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	cfg = cfg.withDefaults()

	var sched *scheduler.Scheduler
	switch cfg.Scheduler {
	case RoundRobin:
		sched = scheduler.NewRoundRobin()
	case MLFQ:
		sched = scheduler.NewMLFQ()
	default:
		sched = scheduler.NewFCFS()
	}

	return &System{
		cfg:             cfg,
		arena:           memarena.New(),
		table:           process.NewTable(),
		mutexes:         mutex.NewSet(),
		sched:           sched,
		log:             cfg.Logger,
		hooks:           cfg.Hooks,
		metrics:         NewMetrics(),
		fs:              cfg.FS,
		runningPid:      -1,
		pendingInputPID: -1,
	}
}

// Metrics returns the system's running counters.
func (s *System) Metrics() *Metrics { return s.metrics }

// LoadProgram reads and parses the program file at path and admits it as
// a new process arriving at the current clock value. Returns false
// (with a nil error) if the process table or the memory arena has no
// room left; returns a non-nil error only for a read/parse failure.
func (s *System) LoadProgram(path string) (bool, error) {
	prog, err := loader.Load(s.fs, path, s.log)
	if err != nil {
		return false, err
	}

	pid := s.table.PeekNextID()
	if pid >= constants.MaxProcesses {
		return false, nil
	}

	region, err := s.arena.Allocate(pid, prog.Instructions)
	if err != nil {
		return false, nil
	}

	pcb, err := s.table.Add(prog.ProgramNumber, s.clock, region)
	if err != nil {
		return false, nil
	}

	s.hooks.LogMessage(fmt.Sprintf("loaded %s as pid %d (program %d)", path, pcb.ID, pcb.ProgramNumber))
	return true, nil
}

// Step advances the simulation by one clock tick, in the fixed order the
// driver's callers depend on: clear the prior cycle's unblocked-flag
// bookkeeping, short-circuit if paused on ProvideInput, admit arrivals,
// preempt an exhausted quantum, dispatch the next process if the CPU is
// idle, execute exactly one instruction, advance the clock, and finally
// publish a Snapshot via Hooks.StateUpdate.
func (s *System) Step() {
	if s.table.AllTerminated() {
		return
	}

	s.table.ClearUnblockedFlags()

	if s.pendingInputPID != -1 {
		s.hooks.StateUpdate(s.Snapshot())
		return
	}

	s.checkArrivals()
	s.checkQuantum()
	s.dispatch()
	s.execute()
	s.clock++

	s.hooks.StateUpdate(s.Snapshot())
}

// IsComplete reports whether every loaded process has terminated. An
// empty process table (nothing loaded yet) is not complete.
func (s *System) IsComplete() bool {
	return s.table.AllTerminated()
}

// ProvideInput supplies the value a blocked "assign x input" instruction
// is waiting on. A no-op if nothing is currently waiting.
func (s *System) ProvideInput(value string) {
	if s.pendingInputPID == -1 {
		return
	}

	pcb, ok := s.table.Get(s.pendingInputPID)
	varName := s.pendingInputVar
	s.pendingInputPID = -1
	s.pendingInputVar = ""
	if !ok {
		return
	}

	if !s.arena.SetVariable(pcb.Region, varName, value) {
		s.terminateWithError(pcb, ErrVarStoreFull, fmt.Errorf("no free variable slot for %q", varName))
		return
	}

	pcb.PC++
	pcb.State = process.StateReady
	pcb.BlockedOnResource = ""
	level, err := s.sched.Enqueue(pcb.ID, pcb.MLFQLevel)
	if err != nil {
		s.terminateWithError(pcb, ErrQueueOverflow, err)
		return
	}
	pcb.MLFQLevel = level
}

func (s *System) checkArrivals() {
	for _, p := range s.table.All() {
		if p.State != process.StateNew || p.ArrivalTime > s.clock {
			continue
		}
		level, err := s.sched.Enqueue(p.ID, p.MLFQLevel)
		if err != nil {
			s.terminateWithError(p, ErrQueueOverflow, err)
			continue
		}
		p.MLFQLevel = level
		p.State = process.StateReady
	}
}

func (s *System) checkQuantum() {
	if s.runningPid == -1 || s.cfg.Scheduler == FCFS {
		return
	}
	pcb, ok := s.table.Get(s.runningPid)
	if !ok {
		s.runningPid = -1
		return
	}
	if pcb.QuantumRemaining > 0 {
		return
	}

	pcb.State = process.StateReady
	if s.cfg.Scheduler == MLFQ {
		pcb.MLFQLevel = s.sched.Demote(pcb.MLFQLevel)
	}
	level, err := s.sched.Enqueue(pcb.ID, pcb.MLFQLevel)
	if err != nil {
		s.terminateWithError(pcb, ErrQueueOverflow, err)
	} else {
		pcb.MLFQLevel = level
	}
	s.runningPid = -1
}

func (s *System) dispatch() {
	if s.runningPid != -1 {
		return
	}
	pid, level, ok := s.sched.Next()
	if !ok {
		return
	}
	pcb, ok := s.table.Get(pid)
	if !ok {
		return
	}

	pcb.State = process.StateRunning
	pcb.MLFQLevel = level
	pcb.QuantumRemaining = s.quantumFor(level)
	s.runningPid = pid
	s.metrics.recordContextSwitch()
}

func (s *System) execute() {
	if s.runningPid == -1 {
		return
	}
	pcb, ok := s.table.Get(s.runningPid)
	if !ok {
		s.runningPid = -1
		return
	}

	text, ok := s.arena.Instruction(pcb.Region, pcb.PC)
	if !ok {
		s.terminateNormally(pcb)
		return
	}

	collab := interpreter.Collaborators{
		Arena:    s.arena,
		Mutexes:  s.mutexes,
		FS:       s.fs,
		Priority: s.priorityFor(pcb),
		Output:   func(pid int, text string) { s.hooks.ProcessOutput(pid, text) },
		Log: func(msg string) {
			s.log.Warn(msg)
			s.hooks.LogMessage(msg)
		},
	}

	res := interpreter.Execute(pcb.ID, pcb.Region, text, collab)
	s.metrics.recordInstruction()

	switch res.Outcome {
	case interpreter.OutcomeContinue:
		pcb.PC++
		if s.cfg.Scheduler != FCFS {
			pcb.QuantumRemaining--
		}
		if res.UnblockedPID != -1 {
			s.wakeProcess(res.UnblockedPID)
		}

	case interpreter.OutcomeBlockedMutex:
		pcb.State = process.StateBlocked
		pcb.BlockedOnResource = string(res.ResourceName)
		s.metrics.recordMutexContention()
		s.runningPid = -1

	case interpreter.OutcomeBlockedInput:
		pcb.State = process.StateBlocked
		pcb.BlockedOnResource = "userInput"
		s.pendingInputPID = pcb.ID
		s.pendingInputVar = res.InputVar
		s.runningPid = -1
		s.hooks.RequestInput(pcb.ID, res.InputVar)

	case interpreter.OutcomeTerminated:
		s.terminateWithError(pcb, ErrorCode(res.ErrCode), res.Err)
	}
}

// wakeProcess moves a process a mutex just released back onto the ready
// queue. It advances the PC past the semWait instruction that blocked it,
// since that instruction never re-executes on resume.
func (s *System) wakeProcess(pid int) {
	pcb, ok := s.table.Get(pid)
	if !ok {
		return
	}
	pcb.PC++
	pcb.BlockedOnResource = ""
	pcb.State = process.StateReady
	pcb.WasUnblockedThisCycle = true

	level, err := s.sched.Enqueue(pid, pcb.MLFQLevel)
	if err != nil {
		s.terminateWithError(pcb, ErrQueueOverflow, err)
		return
	}
	pcb.MLFQLevel = level
}

func (s *System) terminateNormally(pcb *process.PCB) {
	pcb.State = process.StateTerminated
	s.releaseHeldMutexes(pcb)
	if s.runningPid == pcb.ID {
		s.runningPid = -1
	}
	s.metrics.recordTermination(false)
	s.hooks.LogMessage(fmt.Sprintf("pid %d terminated", pcb.ID))
}

func (s *System) terminateWithError(pcb *process.PCB, code ErrorCode, cause error) {
	pcb.State = process.StateTerminated
	s.releaseHeldMutexes(pcb)
	if s.runningPid == pcb.ID {
		s.runningPid = -1
	}
	s.metrics.recordTermination(true)

	msg := string(code)
	if cause != nil {
		msg = cause.Error()
	}
	err := NewError("execute", pcb.ID, code, msg)
	s.hooks.LogMessage(fmt.Sprintf("pid %d terminated: %s", pcb.ID, err.Error()))
}

func (s *System) releaseHeldMutexes(pcb *process.PCB) {
	for _, name := range mutex.AllNames {
		if unblocked := s.mutexes.ReleaseIfHolder(name, pcb.ID); unblocked != -1 {
			s.wakeProcess(unblocked)
		}
	}
}

// priorityFor computes the priority a mutex Wait should contend with:
// MLFQ level for MLFQ (lower level, higher priority, matching Demote's
// sense), or 0 for FCFS/RR, where every process is equally prioritized
// (spec.md §4.3).
func (s *System) priorityFor(pcb *process.PCB) int {
	if s.cfg.Scheduler == MLFQ {
		return pcb.MLFQLevel
	}
	return 0
}

func (s *System) quantumFor(level int) int {
	switch s.cfg.Scheduler {
	case RoundRobin:
		return s.cfg.RRQuantum
	case MLFQ:
		if level >= 0 && level < len(s.cfg.MLFQQuanta) {
			return s.cfg.MLFQQuanta[level]
		}
		return s.cfg.MLFQQuanta[len(s.cfg.MLFQQuanta)-1]
	default:
		return 1 << 30
	}
}

// Snapshot returns a read-only copy of the full simulator state.
func (s *System) Snapshot() Snapshot {
	procs := make([]ProcessSnapshot, 0, len(s.table.All()))
	for _, p := range s.table.All() {
		procs = append(procs, newProcessSnapshot(p))
	}

	mutexSnaps := make(map[mutex.Name]MutexSnapshot, len(mutex.AllNames))
	for _, name := range mutex.AllNames {
		holder, held := s.mutexes.HolderOf(name)
		mutexSnaps[name] = MutexSnapshot{Held: held, Holder: holder, Waiters: s.mutexes.Waiters(name)}
	}

	return Snapshot{
		Clock:       s.clock,
		Complete:    s.table.AllTerminated(),
		Processes:   procs,
		Memory:      s.arena.Words(),
		Mutexes:     mutexSnaps,
		ReadyQueues: s.sched.Snapshot(),
	}
}
