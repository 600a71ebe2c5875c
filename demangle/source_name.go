package demangle

// SourceName parses
//
//	<source-name> ::= <positive length number> <identifier>
//
// On success the value is the identifier and Rest is everything after it.
// Both alias buf.
//
// The length prefix is only considered terminated once a byte follows it,
// so a buffer ending right after the digits is always incomplete with an
// unknown requirement, even if the length is zero.
func SourceName(buf []byte) Result[[]byte] {
	if len(buf) == 0 {
		return Incomplete[[]byte](Unknown)
	}

	digits := Digits(buf)
	switch digits.Status {
	case StatusError:
		return Fail[[]byte](digits.Err)
	case StatusIncomplete:
		return Incomplete[[]byte](digits.Needed)
	}

	rest := digits.Rest
	if len(rest) == 0 {
		return Incomplete[[]byte](Unknown)
	}

	length, ok := parseLength(digits.Value)
	if !ok {
		return Fail[[]byte](&ParseError{
			Production: "source-name",
			Offset:     0,
			Message:    "length prefix " + string(digits.Value),
			Err:        ErrLengthOverflow,
		})
	}

	if avail := uint(len(rest)); avail < length {
		return Incomplete[[]byte](Size(length - avail))
	}
	return Done(rest[:length], rest[length:])
}

var _ Parser[[]byte] = SourceName
