package rinex

import (
	"bytes"

	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/stream"
)

// lineReader turns a stream.Stream into a sequence of newline-delimited
// lines, normalizing CR, LF and CRLF to a single logical line break and
// trimming trailing spaces from the stored copy, per §4.D. It grows its
// read-ahead request geometrically when a line is longer than the
// current window, rather than assuming the fixed 80-byte RINEX line
// width holds for every input.
type lineReader struct {
	s        stream.Stream
	pending  int // bytes to discard on the next Advance
	lineNo   int
	startReq int
}

func newLineReader(s stream.Stream) *lineReader {
	return &lineReader{s: s, startReq: 128}
}

// LineNo returns the 1-based number of the last line returned by next.
func (lr *lineReader) LineNo() int { return lr.lineNo }

// next returns the next line's content, with any line terminator and
// trailing spaces removed. It reports io.EOF-equivalent via
// errs.ErrEndOfData when the stream has no more data.
func (lr *lineReader) next() ([]byte, error) {
	reqSize := lr.startReq
	step := lr.pending
	for {
		if err := lr.s.Advance(reqSize, step); err != nil {
			return nil, errs.Wrap(lr.lineNo, err)
		}
		step = 0

		size := lr.s.Size()
		buf := lr.s.Buffer()[:size]

		if brk := bytes.IndexAny(buf, "\r\n"); brk >= 0 {
			// A lone CR at the very end of what's been read so far
			// might be the first half of a CRLF pair whose LF hasn't
			// been read into buf yet; grow the window and try again
			// rather than treating it as a break prematurely, unless
			// the stream itself has nothing more to give.
			if buf[brk] == '\r' && brk == size-1 && size >= reqSize {
				reqSize *= 2
				continue
			}
			breakLen := 1
			if buf[brk] == '\r' && brk+1 < size && buf[brk+1] == '\n' {
				breakLen = 2
			}
			lr.pending = brk + breakLen
			lr.lineNo++
			return bytes.TrimRight(buf[:brk], " "), nil
		}

		if size < reqSize {
			// Stream is exhausted before a newline was found.
			if size == 0 {
				return nil, errs.At(errs.EndOfData, lr.lineNo)
			}
			lr.pending = size
			lr.lineNo++
			return bytes.TrimRight(buf, " "), nil
		}

		reqSize *= 2
	}
}

// field extracts the half-open byte range [start, end) from line,
// space-padding on either side of what the line actually contains. This
// mirrors reading a fixed-column Fortran record: columns past the end
// of a short line are blank, never an out-of-range error.
func field(line []byte, start, end int) []byte {
	width := end - start
	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}
	if start >= len(line) {
		return out
	}
	if end > len(line) {
		end = len(line)
	}
	copy(out, line[start:end])
	return out
}

func trimmed(b []byte) string {
	return string(bytes.TrimSpace(b))
}
