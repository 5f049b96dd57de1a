//go:build !unix

package stream

// OpenMmap falls back to a buffered stream on platforms without the
// unix mmap syscalls this package otherwise uses.
func OpenMmap(path string) (*Buffered, error) {
	return NewFile(path)
}
