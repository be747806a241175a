// Package loader parses a program file into the instruction list the
// driver hands to memarena.Arena.Allocate, following spec.md §4.1 and
// original_source/simulator.c's loadProgram (the resolution for spec.md
// §1's loader-placement ambiguity, recorded in SPEC_FULL.md §1).
package loader

import (
	"path/filepath"
	"strings"

	"github.com/ehrlich-b/go-minios/internal/constants"
	"github.com/ehrlich-b/go-minios/internal/logging"
)

// FileSystem is the narrow read port the loader needs.
type FileSystem interface {
	ReadFile(name string) (string, error)
}

// Program is a parsed, bounds-checked program ready for arena allocation.
type Program struct {
	ProgramNumber int
	Instructions  []string
}

// Load reads path via fs, splits it into non-blank lines, truncates each
// line to constants.MaxLineLength, and caps the instruction count at
// constants.MaxInstructions (logging a truncation warning through log if
// the file held more). ProgramNumber is derived from the basename:
// Program_1.txt, Program_2.txt, Program_3.txt map to 1, 2, 3; anything
// else is program 0.
func Load(fs FileSystem, path string, log *logging.Logger) (*Program, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if len(line) > constants.MaxLineLength {
			line = line[:constants.MaxLineLength]
		}
		lines = append(lines, line)
	}

	if len(lines) > constants.MaxInstructions {
		if log != nil {
			log.Warnf("loader: %s has %d instructions, truncating to %d", path, len(lines), constants.MaxInstructions)
		}
		lines = lines[:constants.MaxInstructions]
	}

	return &Program{
		ProgramNumber: programNumber(path),
		Instructions:  lines,
	}, nil
}

func programNumber(path string) int {
	switch filepath.Base(path) {
	case "Program_1.txt":
		return 1
	case "Program_2.txt":
		return 2
	case "Program_3.txt":
		return 3
	default:
		return 0
	}
}
