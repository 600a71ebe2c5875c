package demangle

import "math/bits"

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Digits recognizes the maximal run of ASCII decimal digits at the front of
// buf.
//
// A run that reaches the end of buf is reported as incomplete, since more
// digits may follow once more input arrives.
func Digits(buf []byte) Result[[]byte] {
	if len(buf) == 0 {
		return Incomplete[[]byte](Unknown)
	}
	if !isDigit(buf[0]) {
		return Fail[[]byte](&ParseError{Production: "number", Offset: 0, Err: ErrExpectedDigit})
	}

	n := 1
	for n < len(buf) && isDigit(buf[n]) {
		n++
	}
	if n == len(buf) {
		return Incomplete[[]byte](Unknown)
	}
	return Done(buf[:n], buf[n:])
}

// parseLength converts a run of decimal digits to a uint. It reports false
// if the value does not fit.
func parseLength(digits []byte) (uint, bool) {
	var n uint
	for _, c := range digits {
		hi, lo := bits.Mul(n, 10)
		if hi != 0 {
			return 0, false
		}
		sum, carry := bits.Add(lo, uint(c-'0'), 0)
		if carry != 0 {
			return 0, false
		}
		n = sum
	}
	return n, true
}
