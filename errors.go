package minios

import (
	"errors"
	"fmt"
)

// Error represents a structured simulator error: the kind of failure (§7's
// taxonomy), the pid and op it happened during, and an optional wrapped
// cause (a file-I/O error, for instance).
type Error struct {
	Op   string    // operation in progress, e.g. "semSignal", "assign"
	PID  int       // offending process id (-1 if not applicable)
	Code ErrorCode // high-level error category
	Msg  string    // human-readable message
	Inner error    // wrapped error, if any
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.PID >= 0 {
		parts = append(parts, fmt.Sprintf("pid=%d", e.PID))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("minios: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("minios: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is provides errors.Is support keyed on error category.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrorCode enumerates the error taxonomy from spec.md §7. Every one of
// these terminates the offending process; none of them crash the driver.
type ErrorCode string

const (
	ErrBadCommand       ErrorCode = "bad-command"
	ErrBadResource      ErrorCode = "bad-resource"
	ErrIllegalSignal    ErrorCode = "illegal-signal"
	ErrVarMissing       ErrorCode = "var-missing"
	ErrVarStoreFull     ErrorCode = "var-store-full"
	ErrFileIO           ErrorCode = "file-io"
	ErrQueueOverflow    ErrorCode = "queue-overflow"
	ErrPCOutOfBounds    ErrorCode = "pc-out-of-bounds"
	ErrInputUnavailable ErrorCode = "input-unavailable"
)

// NewError creates a new structured error.
func NewError(op string, pid int, code ErrorCode, msg string) *Error {
	return &Error{Op: op, PID: pid, Code: code, Msg: msg}
}

// WrapError wraps an existing error (typically from the FileSystem
// collaborator) as a file-io simulator error.
func WrapError(op string, pid int, inner error) *Error {
	if inner == nil {
		return nil
	}
	if me, ok := inner.(*Error); ok {
		return &Error{Op: op, PID: pid, Code: me.Code, Msg: me.Msg, Inner: me.Inner}
	}
	return &Error{Op: op, PID: pid, Code: ErrFileIO, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is a *Error of the given category.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
