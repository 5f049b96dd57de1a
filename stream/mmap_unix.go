//go:build unix

package stream

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mmap is a Stream backed by a whole-file memory map, the fast path for
// files on local disk. It is grounded on the mmap idiom the retrieval
// pack's inventory-index reader uses (open, stat, unix.Mmap the whole
// file read-only, unix.Munmap on Close): that reader also treats the
// mapping as an immutable, whole-file byte slice rather than mapping
// incremental windows, which is exactly the shape this stream needs.
//
// Directly mmap-ing size+PadBytes and relying on the kernel to zero-fill
// the extra length is not portable: bytes in a page entirely beyond a
// file's real content can raise SIGBUS on some platforms once real data
// is exhausted. Instead, this only serves the raw mapping while at least
// PadBytes of real file content remains ahead of the window, and falls
// back to an owned, zero-padded copy of the tail once the window is
// close enough to EOF that PadBytes of real bytes are not available.
type Mmap struct {
	f         *os.File
	data      []byte
	off       int
	size      int
	tail      []byte
	usingTail bool
}

// OpenMmap maps path read-only for streaming.
func OpenMmap(path string) (*Mmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stream: stat %s: %w", path, err)
	}

	size := info.Size()
	var data []byte
	if size > 0 {
		data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("stream: mmap %s: %w", path, err)
		}
	}

	return &Mmap{f: f, data: data}, nil
}

func (m *Mmap) Advance(reqSize, step int) error {
	if step > m.size {
		return fmt.Errorf("%w: step=%d size=%d", ErrStepTooLarge, step, m.size)
	}
	m.off += step

	remaining := len(m.data) - m.off
	if remaining < 0 {
		remaining = 0
	}
	m.size = reqSize
	if m.size > remaining {
		m.size = remaining
	}

	if remaining-m.size >= PadBytes {
		m.usingTail = false
		return nil
	}

	// Close to (or past) EOF: materialize an owned, zero-padded copy.
	need := m.size + PadBytes
	if cap(m.tail) < need {
		m.tail = make([]byte, need)
	} else {
		m.tail = m.tail[:need]
	}
	copy(m.tail, m.data[m.off:m.off+m.size])
	for i := m.size; i < need; i++ {
		m.tail[i] = 0
	}
	m.usingTail = true
	return nil
}

func (m *Mmap) Buffer() []byte {
	if m.usingTail {
		return m.tail
	}
	return m.data[m.off : m.off+m.size+PadBytes]
}

func (m *Mmap) Size() int { return m.size }

func (m *Mmap) Destroy() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
