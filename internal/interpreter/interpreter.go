// Package interpreter executes one instruction at a time against a
// process's memory region, following the per-opcode dispatch table in
// spec.md §4.2. The fetch/decode/execute shape is grounded on the
// teacher's handleCompletion opcode switch (internal/queue/runner.go) and
// the pack's fetch-execute cycle in other_examples' processor.go, with
// exact per-opcode semantics (the readFile/assign-readFile asymmetry,
// printFromTo's range) taken from original_source/simulator.c's do_*
// family. ErrInputUnavailable is declared but no instruction produces it:
// "assign x input" always suspends the process with OutcomeBlockedInput.
package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ehrlich-b/go-minios/internal/constants"
	"github.com/ehrlich-b/go-minios/internal/memarena"
	"github.com/ehrlich-b/go-minios/internal/mutex"
)

func errf(format string, args ...any) error { return fmt.Errorf(format, args...) }

// FileSystem is the narrow collaborator port the interpreter needs for
// readFile/writeFile. A real front end backs it with the OS filesystem; a
// test backs it with an in-memory map.
type FileSystem interface {
	ReadFile(name string) (string, error)
	WriteFile(name string, data string) error
}

// ErrCode mirrors the root package's error taxonomy (spec.md §7) without
// creating an import cycle back to it; the driver converts ErrCode to its
// own error type when reporting a termination.
type ErrCode string

const (
	ErrBadCommand      ErrCode = "bad-command"
	ErrBadResource     ErrCode = "bad-resource"
	ErrIllegalSignal   ErrCode = "illegal-signal"
	ErrVarStoreFull    ErrCode = "var-store-full"
	ErrFileIO          ErrCode = "file-io"
	ErrInputUnavailable ErrCode = "input-unavailable"
	ErrVarMissing      ErrCode = "var-missing"
	ErrQueueOverflow   ErrCode = "queue-overflow"
)

// Outcome reports what executing one instruction did to its process.
type Outcome int

const (
	// OutcomeContinue means the instruction completed normally and the
	// process's PC should advance by one.
	OutcomeContinue Outcome = iota
	// OutcomeBlockedMutex means the process is now waiting on a mutex;
	// its PC must NOT advance until the driver later unblocks it, at
	// which point the driver advances the PC itself (the semWait
	// instruction never re-executes).
	OutcomeBlockedMutex
	// OutcomeBlockedInput means the process is waiting on
	// ProvideInput; its PC must not advance until input arrives.
	OutcomeBlockedInput
	// OutcomeTerminated means the instruction failed in a way that
	// terminates the process (spec.md §7); Err explains why.
	OutcomeTerminated
)

// Result describes the effect of executing one instruction.
type Result struct {
	Outcome Outcome

	// ResourceName is set when Outcome is OutcomeBlockedMutex.
	ResourceName mutex.Name

	// InputVar is set when Outcome is OutcomeBlockedInput: the variable
	// name the eventual ProvideInput value should bind to.
	InputVar string

	// UnblockedPID is set to the pid a semSignal just woke, or -1.
	UnblockedPID int

	// ErrCode and Err are set when Outcome is OutcomeTerminated.
	ErrCode ErrCode
	Err     error
}

func continueResult() Result  { return Result{Outcome: OutcomeContinue, UnblockedPID: -1} }
func terminate(code ErrCode, err error) Result {
	return Result{Outcome: OutcomeTerminated, ErrCode: code, Err: err, UnblockedPID: -1}
}

// Region is the slice of process state the interpreter needs; callers
// pass the live memarena.Region and the process's priority for semWait.
type Region = memarena.Region

// Collaborators bundles everything Execute needs beyond the instruction
// text itself.
type Collaborators struct {
	Arena    *memarena.Arena
	Mutexes  *mutex.Set
	FS       FileSystem
	Priority int

	// Output is called for print/printFromTo text destined for the
	// process's stdout (spec.md's process_output hook).
	Output func(pid int, text string)
	// Log is called for diagnostic messages (truncation warnings, etc.)
	// not tied to one process's output stream.
	Log func(text string)
}

// Execute runs one instruction for pid against region.
func Execute(pid int, region Region, instr string, c Collaborators) Result {
	tokens := strings.Fields(instr)
	if len(tokens) == 0 {
		return continueResult()
	}

	switch tokens[0] {
	case "print":
		return execPrint(pid, region, tokens, c)
	case "printFromTo":
		return execPrintFromTo(pid, region, tokens, c)
	case "assign":
		return execAssign(pid, region, tokens, c)
	case "writeFile":
		return execWriteFile(pid, region, tokens, c)
	case "readFile":
		return execReadFile(pid, region, tokens, c)
	case "semWait":
		return execSemWait(pid, tokens, c)
	case "semSignal":
		return execSemSignal(pid, tokens, c)
	default:
		return terminate(ErrBadCommand, errf("unknown opcode %q", tokens[0]))
	}
}

func execPrint(pid int, region Region, tokens []string, c Collaborators) Result {
	if len(tokens) != 2 {
		return terminate(ErrBadCommand, errf("print takes exactly one argument"))
	}
	val, ok := c.Arena.GetVariable(region, tokens[1])
	if !ok {
		return terminate(ErrVarMissing, errf("print: %q is not bound", tokens[1]))
	}
	c.Output(pid, val)
	return continueResult()
}

func execPrintFromTo(pid int, region Region, tokens []string, c Collaborators) Result {
	if len(tokens) != 3 {
		return terminate(ErrBadCommand, errf("printFromTo takes exactly two arguments"))
	}
	av, ok := c.Arena.GetVariable(region, tokens[1])
	if !ok {
		return terminate(ErrVarMissing, errf("printFromTo: %q is not bound", tokens[1]))
	}
	bv, ok := c.Arena.GetVariable(region, tokens[2])
	if !ok {
		return terminate(ErrVarMissing, errf("printFromTo: %q is not bound", tokens[2]))
	}
	a, err := strconv.Atoi(av)
	if err != nil {
		return terminate(ErrBadCommand, errf("printFromTo: %q is not a number", av))
	}
	b, err := strconv.Atoi(bv)
	if err != nil {
		return terminate(ErrBadCommand, errf("printFromTo: %q is not a number", bv))
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		c.Output(pid, strconv.Itoa(i))
	}
	return continueResult()
}

func execAssign(pid int, region Region, tokens []string, c Collaborators) Result {
	if len(tokens) < 3 {
		return terminate(ErrBadCommand, errf("assign requires at least two arguments"))
	}
	dest := tokens[1]

	switch {
	case tokens[2] == "input" && len(tokens) == 3:
		return Result{Outcome: OutcomeBlockedInput, InputVar: dest, UnblockedPID: -1}

	case tokens[2] == "readFile" && len(tokens) == 4:
		fileVar := tokens[3]
		filename, ok := c.Arena.GetVariable(region, fileVar)
		if !ok {
			return terminate(ErrVarMissing, errf("readFile: %q is not bound", fileVar))
		}
		content, err := c.FS.ReadFile(filename)
		if err != nil {
			return terminate(ErrFileIO, err)
		}
		content = truncateRead(content, c)
		if !c.Arena.SetVariable(region, dest, content) {
			return terminate(ErrVarStoreFull, errf("no free variable slot for %q", dest))
		}
		if !c.Arena.SetVariable(region, "file_"+fileVar, content) {
			return terminate(ErrVarStoreFull, errf("no free variable slot for file_%s", fileVar))
		}
		return continueResult()

	case len(tokens) == 3:
		value := resolveValue(c.Arena, region, tokens[2])
		if !c.Arena.SetVariable(region, dest, value) {
			return terminate(ErrVarStoreFull, errf("no free variable slot for %q", dest))
		}
		return continueResult()

	default:
		return terminate(ErrBadCommand, errf("malformed assign"))
	}
}

func execWriteFile(pid int, region Region, tokens []string, c Collaborators) Result {
	if len(tokens) != 3 {
		return terminate(ErrBadCommand, errf("writeFile takes exactly two arguments"))
	}
	fileVar := tokens[1]
	filename, ok := c.Arena.GetVariable(region, fileVar)
	if !ok {
		return terminate(ErrVarMissing, errf("writeFile: %q is not bound", fileVar))
	}
	data := resolveValue(c.Arena, region, tokens[2])
	if err := c.FS.WriteFile(filename, data); err != nil {
		return terminate(ErrFileIO, err)
	}
	return continueResult()
}

func execReadFile(pid int, region Region, tokens []string, c Collaborators) Result {
	if len(tokens) != 2 {
		return terminate(ErrBadCommand, errf("readFile takes exactly one argument"))
	}
	fileVar := tokens[1]
	filename, ok := c.Arena.GetVariable(region, fileVar)
	if !ok {
		return terminate(ErrVarMissing, errf("readFile: %q is not bound", fileVar))
	}
	content, err := c.FS.ReadFile(filename)
	if err != nil {
		return terminate(ErrFileIO, err)
	}
	content = truncateRead(content, c)
	if !c.Arena.SetVariable(region, "file_"+fileVar, content) {
		return terminate(ErrVarStoreFull, errf("no free variable slot for file_%s", fileVar))
	}
	return continueResult()
}

func execSemWait(pid int, tokens []string, c Collaborators) Result {
	if len(tokens) != 2 {
		return terminate(ErrBadCommand, errf("semWait takes exactly one argument"))
	}
	name, ok := mapResource(tokens[1])
	if !ok {
		return terminate(ErrBadResource, errf("unknown resource %q", tokens[1]))
	}
	blocked, err := c.Mutexes.Wait(name, pid, c.Priority)
	if err != nil {
		return terminate(ErrQueueOverflow, err)
	}
	if blocked {
		return Result{Outcome: OutcomeBlockedMutex, ResourceName: name, UnblockedPID: -1}
	}
	return continueResult()
}

func execSemSignal(pid int, tokens []string, c Collaborators) Result {
	if len(tokens) != 2 {
		return terminate(ErrBadCommand, errf("semSignal takes exactly one argument"))
	}
	name, ok := mapResource(tokens[1])
	if !ok {
		return terminate(ErrBadResource, errf("unknown resource %q", tokens[1]))
	}
	unblocked, err := c.Mutexes.Signal(name, pid)
	if err != nil {
		return terminate(ErrIllegalSignal, err)
	}
	return Result{Outcome: OutcomeContinue, UnblockedPID: unblocked}
}

func mapResource(tok string) (mutex.Name, bool) {
	switch tok {
	case "file":
		return mutex.File, true
	case "userInput":
		return mutex.UserInput, true
	case "userOutput":
		return mutex.UserOutput, true
	default:
		return "", false
	}
}

func resolveValue(arena *memarena.Arena, region Region, token string) string {
	if val, ok := arena.GetVariable(region, token); ok {
		return val
	}
	return token
}

func truncateRead(content string, c Collaborators) string {
	if len(content) <= constants.ReadFileTruncateBytes {
		return content
	}
	if c.Log != nil {
		c.Log("readFile: content truncated to " + strconv.Itoa(constants.ReadFileTruncateBytes) + " bytes")
	}
	return content[:constants.ReadFileTruncateBytes]
}
