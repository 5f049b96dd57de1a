package stream

import (
	"fmt"
	"io"
	"os"
)

// Buffered is a Stream backed by ordinary buffered reads, used for
// standard input and for files on platforms or filesystems where
// memory-mapping is unavailable or undesirable.
type Buffered struct {
	r    io.Reader
	c    io.Closer
	buf  []byte
	size int
	eof  bool
}

// NewBuffered wraps r as a Stream. If r also implements io.Closer,
// Destroy closes it.
func NewBuffered(r io.Reader) *Buffered {
	b := &Buffered{r: r, buf: make([]byte, PadBytes)}
	if c, ok := r.(io.Closer); ok {
		b.c = c
	}
	return b
}

// NewStdin wraps os.Stdin as a Stream.
func NewStdin() *Buffered {
	return NewBuffered(os.Stdin)
}

// NewFile opens path and wraps it in a buffered Stream.
func NewFile(path string) (*Buffered, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	return NewBuffered(f), nil
}

func (s *Buffered) Advance(reqSize, step int) error {
	if step > s.size {
		return fmt.Errorf("%w: step=%d size=%d", ErrStepTooLarge, step, s.size)
	}
	if step > 0 {
		copy(s.buf, s.buf[step:s.size])
		s.size -= step
	}

	need := reqSize + PadBytes
	if cap(s.buf) < need {
		grown := make([]byte, need)
		copy(grown, s.buf[:s.size])
		s.buf = grown
	} else {
		s.buf = s.buf[:cap(s.buf)]
	}

	for s.size < reqSize && !s.eof {
		n, err := s.r.Read(s.buf[s.size:reqSize])
		if n > 0 {
			s.size += n
		}
		if err != nil {
			if err == io.EOF {
				s.eof = true
				break
			}
			return fmt.Errorf("stream: read: %w", err)
		}
		if n == 0 {
			s.eof = true
			break
		}
	}

	for i := s.size; i < s.size+PadBytes; i++ {
		s.buf[i] = 0
	}
	return nil
}

func (s *Buffered) Buffer() []byte { return s.buf[:s.size+PadBytes] }
func (s *Buffered) Size() int      { return s.size }

func (s *Buffered) Destroy() error {
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
