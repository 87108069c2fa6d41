package mergelist

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptMergelist is returned when a mergelist cannot be parsed.
	ErrCorruptMergelist = errors.New("corrupt mergelist")

	// ErrCorruptJobFile is returned when a job ticket cannot be parsed.
	ErrCorruptJobFile = errors.New("corrupt job file")

	// ErrUnencodable is returned when an object cannot be written without
	// breaking the line structure.
	ErrUnencodable = errors.New("object not encodable")
)

// ParseError describes where a file failed to parse.
type ParseError struct {
	// Line is the 1-based line number.
	Line int
	// Reason is a short description of the problem.
	Reason string
	// Kind is ErrCorruptMergelist or ErrCorruptJobFile.
	Kind error
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: line %d: %s: %v", e.Kind, e.Line, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%v: line %d: %s", e.Kind, e.Line, e.Reason)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func corrupt(line int, reason string, cause error) *ParseError {
	return &ParseError{Line: line, Reason: reason, Kind: ErrCorruptMergelist, Cause: cause}
}
