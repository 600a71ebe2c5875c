// Package stream drives demangle parsers over an io.Reader.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/skdltmxn/demangle-go/demangle"
)

const (
	defaultChunkSize = 4096
	defaultMaxBuffer = 1 << 20
)

// ErrBufferLimit is returned when a production needs more buffered input
// than the decoder allows.
var ErrBufferLimit = errors.New("stream: buffered input exceeds limit")

// TruncatedError reports that the input ended in the middle of a production.
type TruncatedError struct {
	Offset int64           // Stream offset where the input ended
	Needed demangle.Needed // What the parser still wanted
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("stream: input truncated at offset %d (need %s more bytes)", e.Offset, e.Needed)
}

func (e *TruncatedError) Unwrap() error { return io.ErrUnexpectedEOF }

// RefillEvent describes one read from the underlying reader.
type RefillEvent struct {
	Offset   int64           // Stream offset of the first unparsed byte
	Needed   demangle.Needed // Requirement that triggered the read
	Buffered int             // Unparsed bytes before the read
	Read     int             // Bytes obtained
	EOF      bool            // The reader is exhausted
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithChunkSize sets the preferred read size when the parser cannot say
// how much it needs.
func WithChunkSize(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.chunkSize = n
		}
	}
}

// WithMaxBuffer caps the number of unparsed bytes held at once.
func WithMaxBuffer(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxBuffer = n
		}
	}
}

// WithRefillHook registers fn to be called after every read.
func WithRefillHook(fn func(RefillEvent)) Option {
	return func(d *Decoder) {
		d.onRefill = fn
	}
}

// Decoder buffers bytes from an io.Reader and runs parsers over them,
// reading more whenever a parser reports incomplete input.
//
// Values returned by Next alias the decoder's buffer and are only valid
// until the following call to Next.
type Decoder struct {
	r      io.Reader
	buf    []byte
	start  int   // First unparsed byte in buf
	offset int64 // Stream offset of buf[start]
	read   int64
	eof    bool

	chunkSize int
	maxBuffer int
	onRefill  func(RefillEvent)
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:         r,
		chunkSize: defaultChunkSize,
		maxBuffer: defaultMaxBuffer,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Offset returns the stream offset of the next unparsed byte.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Buffered returns the number of bytes read but not yet parsed.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.start
}

// BytesRead returns the total number of bytes read from the reader.
func (d *Decoder) BytesRead() int64 {
	return d.read
}

// Next parses one production with p.
//
// It returns io.EOF when the input ends cleanly between productions, a
// *TruncatedError when it ends inside one, and the parser's error with its
// offset rebased onto the stream when the input is malformed.
func Next[T any](ctx context.Context, d *Decoder, p demangle.Parser[T]) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		data := d.buf[d.start:]
		if len(data) == 0 && d.eof {
			return zero, io.EOF
		}

		res := p(data)
		switch res.Status {
		case demangle.StatusDone:
			consumed := len(data) - len(res.Rest)
			d.start += consumed
			d.offset += int64(consumed)
			return res.Value, nil
		case demangle.StatusError:
			return zero, d.rebase(res.Err)
		}

		if d.eof {
			return zero, &TruncatedError{Offset: d.offset + int64(len(data)), Needed: res.Needed}
		}
		if err := d.fill(res.Needed); err != nil {
			return zero, err
		}
	}
}

// All yields successive productions parsed by p until the input ends.
// A failure is yielded once with a zero value, then iteration stops.
func All[T any](ctx context.Context, d *Decoder, p demangle.Parser[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := Next(ctx, d, p)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// fill reads at least needed.Min() more bytes, or up to a chunk when the
// requirement is small. Hitting the end of the reader is not an error here;
// it is recorded so that Next can decide what it means.
func (d *Decoder) fill(needed demangle.Needed) error {
	buffered := d.Buffered()
	room := d.maxBuffer - buffered
	if room <= 0 || uint(room) < needed.Min() {
		return fmt.Errorf("%w: have %d bytes at offset %d, need %s more (limit %d)",
			ErrBufferLimit, buffered, d.offset, needed, d.maxBuffer)
	}
	want := int(needed.Min())

	if d.start > 0 {
		n := copy(d.buf, d.buf[d.start:])
		d.buf = d.buf[:n]
		d.start = 0
	}

	size := max(want, d.chunkSize)
	size = min(size, room)
	if cap(d.buf)-len(d.buf) < size {
		grown := make([]byte, len(d.buf), len(d.buf)+size)
		copy(grown, d.buf)
		d.buf = grown
	}

	n, err := io.ReadAtLeast(d.r, d.buf[len(d.buf):len(d.buf)+size], want)
	d.buf = d.buf[:len(d.buf)+n]
	d.read += int64(n)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		d.eof = true
		err = nil
	}

	if d.onRefill != nil {
		d.onRefill(RefillEvent{
			Offset:   d.offset,
			Needed:   needed,
			Buffered: buffered,
			Read:     n,
			EOF:      d.eof,
		})
	}
	return err
}

func (d *Decoder) rebase(err error) error {
	var pe *demangle.ParseError
	if !errors.As(err, &pe) {
		return err
	}
	rebased := *pe
	rebased.Offset += int(d.offset)
	return &rebased
}
