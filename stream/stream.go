// Package stream implements the sliding read window (§4.A) that the
// RINEX record reader and the SOC decoders read through: a contiguous
// buffer that can be advanced without shifting field-parsing code onto
// bounds checks, backed by a memory-mapped file, a buffered file, or
// standard input.
package stream

import "fmt"

// PadBytes is the minimum number of guaranteed-readable zero bytes past
// the valid region a Stream's Buffer returns, satisfying the fixed-width
// field parsers and any word-parallel scanner that reads past a line's
// real content.
const PadBytes = 80

// Stream is a sliding window over a byte source.
type Stream interface {
	// Advance discards step bytes from the front of the window, then
	// tries to grow the window to at least reqSize valid bytes. It
	// returns an error only on a genuine I/O failure; running out of
	// input is reported by a subsequent Size() of 0, not an error.
	Advance(reqSize, step int) error

	// Buffer returns the current window: Size() valid bytes followed by
	// at least PadBytes readable bytes, some combination of trailing
	// real file content and zero fill.
	Buffer() []byte

	// Size returns the number of valid bytes at the front of Buffer().
	Size() int

	// Destroy releases the stream's resources.
	Destroy() error
}

// ErrStepTooLarge is returned when Advance is asked to discard more
// bytes than the current window holds.
var ErrStepTooLarge = fmt.Errorf("stream: step exceeds available window")
