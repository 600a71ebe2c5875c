package demangle

import "strconv"

// Status identifies which of the three outcomes a Result holds.
type Status uint8

const (
	// StatusDone means the production was recognized.
	StatusDone Status = iota
	// StatusIncomplete means the buffer is a valid prefix but too short.
	StatusIncomplete
	// StatusError means the buffer is definitively malformed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusIncomplete:
		return "incomplete"
	case StatusError:
		return "error"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Needed is the byte requirement reported with an incomplete outcome.
// The zero value means the amount is unknown.
type Needed struct {
	size  uint
	known bool
}

// Unknown is the requirement when the number of missing bytes cannot be
// computed yet. At least one more byte is needed.
var Unknown = Needed{}

// Size returns a requirement of exactly n more bytes. n must be positive.
func Size(n uint) Needed {
	return Needed{size: n, known: true}
}

// Size returns the exact number of bytes needed and whether it is known.
func (n Needed) Size() (uint, bool) {
	return n.size, n.known
}

// IsUnknown reports whether the requirement is Unknown.
func (n Needed) IsUnknown() bool { return !n.known }

// Min returns the smallest number of additional bytes that could change
// the outcome: the exact size when known, otherwise 1.
func (n Needed) Min() uint {
	if n.known {
		return n.size
	}
	return 1
}

func (n Needed) String() string {
	if !n.known {
		return "unknown"
	}
	return strconv.FormatUint(uint64(n.size), 10)
}

// Result is the outcome of running a parser over a buffer. Exactly one of
// the outcome groups is meaningful, as selected by Status:
//
//	StatusDone:       Value, Rest
//	StatusIncomplete: Needed
//	StatusError:      Err
type Result[T any] struct {
	Status Status
	Value  T
	Rest   []byte
	Needed Needed
	Err    error
}

// Parser is a grammar production over a possibly partial buffer.
type Parser[T any] func(buf []byte) Result[T]

// Done returns a successful result.
func Done[T any](value T, rest []byte) Result[T] {
	return Result[T]{Status: StatusDone, Value: value, Rest: rest}
}

// Incomplete returns a result asking for more input.
func Incomplete[T any](needed Needed) Result[T] {
	return Result[T]{Status: StatusIncomplete, Needed: needed}
}

// Fail returns a structural failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err}
}

// IsDone reports whether the production was recognized.
func (r Result[T]) IsDone() bool { return r.Status == StatusDone }

// IsIncomplete reports whether more input is required.
func (r Result[T]) IsIncomplete() bool { return r.Status == StatusIncomplete }

// IsError reports whether the input is malformed.
func (r Result[T]) IsError() bool { return r.Status == StatusError }

// Unwrap flattens the result into Go's usual (value, rest, error) form.
// An incomplete outcome becomes an *IncompleteError.
func (r Result[T]) Unwrap() (T, []byte, error) {
	switch r.Status {
	case StatusDone:
		return r.Value, r.Rest, nil
	case StatusIncomplete:
		var zero T
		return zero, nil, &IncompleteError{Needed: r.Needed}
	default:
		var zero T
		return zero, nil, r.Err
	}
}
