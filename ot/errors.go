package ot

import (
	"errors"
	"fmt"
)

// ErrorSeverity represents the severity level of a font format error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the table unusable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error in a single sub-table.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents a format error encountered while reading a layout table.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "GSUB", "GPOS")
	Section  string        // Specific section within the table (e.g., "LookupType6", "ScriptList")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset within the table where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// Is makes every FontError match ErrFontFormat.
func (e FontError) Is(target error) bool {
	return target == ErrFontFormat
}

// ErrFontFormat is matched by every FontError, i.e.
//
//	errors.Is(err, ot.ErrFontFormat)
//
// tells whether err is a format error of a font table.
var ErrFontFormat = errors.New("OpenType font format error")

// formatError is the panic payload for format errors detected on the hot path.
type formatError struct {
	err FontError
}

// RaiseFormatError aborts the current shaping call with a format error.
// It must only be called below a deferred CatchFormatError.
func RaiseFormatError(table Tag, section string, offset int, issue string) {
	if offset < 0 {
		offset = 0
	}
	panic(formatError{err: FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: SeverityCritical,
		Offset:   uint32(offset),
	}})
}

// CatchFormatError recovers from a format error raised by table reads and stores
// it in *err. Panics of any other kind are re-raised. Use it as
//
//	defer ot.CatchFormatError(&err)
func CatchFormatError(err *error) {
	if r := recover(); r != nil {
		fe, ok := r.(formatError)
		if !ok {
			panic(r)
		}
		tracer().Errorf(fe.err.Error())
		if err != nil {
			*err = fe.err
		}
	}
}
