// Package demangle provides incremental parsing primitives for Itanium C++
// mangled names.
//
// Every parser in this package works on a byte buffer that may hold only a
// prefix of the full input. Parsers never copy: tokens and remainders are
// sub-slices of the buffer they were given.
package demangle

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural failures.
var (
	// ErrExpectedDigit indicates a digit run was required but the first byte is not a decimal digit.
	ErrExpectedDigit = errors.New("demangle: expected decimal digit")

	// ErrLengthOverflow indicates a length prefix does not fit in a uint.
	ErrLengthOverflow = errors.New("demangle: length overflows uint")
)

// ParseError describes a structural failure. Offset is relative to the
// start of the buffer handed to the failing parser.
type ParseError struct {
	Production string // Grammar production being parsed
	Offset     int    // Byte offset of the offending input
	Message    string // Description of the error
	Err        error  // Underlying sentinel, if any
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("demangle: invalid <%s> at offset %d: %s: %v",
			e.Production, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("demangle: invalid <%s> at offset %d: %v",
		e.Production, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IncompleteError is returned by Result.Unwrap when the buffer ended before
// the production could be decided.
type IncompleteError struct {
	Needed Needed
}

func (e *IncompleteError) Error() string {
	return "demangle: incomplete input, need " + e.Needed.String()
}

// IsIncomplete reports whether err is an *IncompleteError and returns the
// byte requirement it carries.
func IsIncomplete(err error) (Needed, bool) {
	var ie *IncompleteError
	if errors.As(err, &ie) {
		return ie.Needed, true
	}
	return Needed{}, false
}
