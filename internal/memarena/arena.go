// Package memarena implements the simulator's 60-word memory arena: a
// single fixed-size array holding instructions, per-process variables, and
// PCB scratch slots, indexed by name exactly as spec.md §3 describes.
//
// This is the "name-tagged memory" the reference C program encodes a poor
// man's type system into (original_source/simulator.c). Per spec.md §9's
// design note we keep the three logical regions — instructions, variables,
// scratch — but still expose them as slices of one backing array, since the
// spec's invariants (I6) and the collaborator's raw-memory accessor are
// both defined in terms of that single array.
package memarena

import (
	"fmt"
	"strings"

	"github.com/ehrlich-b/go-minios/internal/constants"
)

// Word is a single memory cell: a name tag and a bounded-length value.
type Word struct {
	Name  string
	Value string
}

// ErrArenaFull is returned by Allocate when the arena has no room left for
// a new process region. It is a load-time failure, not a per-process
// runtime error — loadProgram reports it as a plain false return.
var ErrArenaFull = fmt.Errorf("memarena: arena exhausted")

// Region describes the contiguous slice of the arena owned by one process:
// instructions first, then constants.VariableSlots variable slots, then
// constants.PCBScratchSlots scratch slots.
type Region struct {
	PID        int
	LB, UB     int
	InstrCount int
	VarBase    int
	PCBBase    int
}

// Arena is the 60-word physical memory. A monotonically advancing pointer
// hands out regions; there is no reclamation, matching the reference
// implementation and spec.md §3.
type Arena struct {
	words   [constants.MemoryWords]Word
	pointer int
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// Allocate reserves a new region for pid with the given instruction text
// (one entry per instruction, already truncated/validated by the loader)
// and wires up its variable and PCB scratch slots.
func (a *Arena) Allocate(pid int, instructions []string) (Region, error) {
	total := len(instructions) + constants.VariableSlots + constants.PCBScratchSlots
	if a.pointer+total > constants.MemoryWords {
		return Region{}, ErrArenaFull
	}

	lb := a.pointer
	for k, text := range instructions {
		a.words[lb+k] = Word{Name: instName(pid, k), Value: truncate(text, constants.WordFieldLen)}
	}

	varBase := lb + len(instructions)
	for i := 0; i < constants.VariableSlots; i++ {
		a.words[varBase+i] = Word{Name: varFreeName(pid, i), Value: ""}
	}

	pcbBase := varBase + constants.VariableSlots
	for i := 0; i < constants.PCBScratchSlots; i++ {
		a.words[pcbBase+i] = Word{Name: pcbSlotName(pid, i), Value: ""}
	}

	a.pointer += total
	region := Region{
		PID:        pid,
		LB:         lb,
		UB:         lb + total - 1,
		InstrCount: len(instructions),
		VarBase:    varBase,
		PCBBase:    pcbBase,
	}
	return region, nil
}

// Instruction returns the instruction text at the given 0-based program
// counter within region, or false if pc is out of range (I6).
func (a *Arena) Instruction(region Region, pc int) (string, bool) {
	if pc < 0 || pc >= region.InstrCount {
		return "", false
	}
	return a.words[region.LB+pc].Value, true
}

// GetVariable resolves a variable by name within region, following the
// file_<name> fallback documented in spec.md §4.2.
func (a *Arena) GetVariable(region Region, name string) (string, bool) {
	want := varName(region.PID, name)
	for i := 0; i < constants.VariableSlots; i++ {
		w := a.words[region.VarBase+i]
		if w.Name == want {
			return w.Value, true
		}
	}

	fallback := varName(region.PID, "file_"+name)
	for i := 0; i < constants.VariableSlots; i++ {
		w := a.words[region.VarBase+i]
		if w.Name == fallback {
			return w.Value, true
		}
	}
	return "", false
}

// SetVariable binds name to value within region, reusing an existing slot
// for name or the first free slot. Returns false if no slot is available
// (var-store-full, spec.md §7).
func (a *Arena) SetVariable(region Region, name, value string) bool {
	want := varName(region.PID, name)
	value = truncate(value, constants.WordFieldLen)

	for i := 0; i < constants.VariableSlots; i++ {
		idx := region.VarBase + i
		if a.words[idx].Name == want {
			a.words[idx].Value = value
			return true
		}
	}

	for i := 0; i < constants.VariableSlots; i++ {
		idx := region.VarBase + i
		n := a.words[idx].Name
		if n == "" || strings.HasPrefix(n, varFreePrefix(region.PID)) {
			a.words[idx] = Word{Name: want, Value: value}
			return true
		}
	}
	return false
}

// Words returns a snapshot copy of the full backing array, for
// collaborators that render raw memory state (spec.md §6).
func (a *Arena) Words() [constants.MemoryWords]Word {
	return a.words
}

func instName(pid, k int) string          { return fmt.Sprintf("Inst_%d_%d", pid, k) }
func varName(pid int, name string) string { return fmt.Sprintf("Var_%d_%s", pid, name) }
func varFreePrefix(pid int) string        { return fmt.Sprintf("Var_%d_Free", pid) }
func varFreeName(pid, i int) string       { return fmt.Sprintf("%s%d", varFreePrefix(pid), i) }
func pcbSlotName(pid, i int) string       { return fmt.Sprintf("PCB_%d_Slot%d", pid, i) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
