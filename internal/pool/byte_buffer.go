// Package pool provides pooled growable byte buffers for the SOC codec's
// two hot allocation sites: chunk payload assembly (writer)
// and per-signal accumulator buffers (writer), the same
// ByteBuffer/ByteBufferPool shape used for per-metric blob buffers in
// other columnar-storage codecs.
package pool

import "sync"

// Default and maximum sizes for the two pools this package exposes.
// Chunk buffers hold one tag's framed payload at a time and are usually
// small (an EPOC span table, a SATE presence run); signal buffers
// accumulate a full column's residual stream across an entire file and
// run much larger before a SOCD chunk is flushed.
const (
	ChunkBufferDefaultSize  = 4 * 1024        // 4KiB
	ChunkBufferMaxThreshold = 256 * 1024      // 256KiB
	SignalBufferDefaultSize = 64 * 1024       // 64KiB
	SignalBufferMaxThreshold = 4 * 1024 * 1024 // 4MiB
)

// ByteBuffer is a growable byte slice wrapper sized for reuse through a
// sync.Pool rather than reallocated on every chunk or signal flush.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given starting capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the buffer's current length.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the buffer's current capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// Reset empties the buffer without releasing its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Write appends data, growing the backing array if needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Grow ensures at least requiredBytes of spare capacity, growing by 25%
// of the current capacity (or requiredBytes, whichever is larger) to
// amortize repeated small appends during residual accumulation.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}
	growBy := cap(bb.B) / 4
	if growBy < requiredBytes {
		growBy = requiredBytes
	}
	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool pools ByteBuffers of a given class, discarding any that
// grew past maxThreshold instead of returning them for reuse.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool, allocating one if empty.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool, or discards it if it grew past
// maxThreshold.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var (
	chunkPool  = NewByteBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxThreshold)
	signalPool = NewByteBufferPool(SignalBufferDefaultSize, SignalBufferMaxThreshold)
)

// GetChunkBuffer retrieves a buffer from the shared chunk-payload pool.
func GetChunkBuffer() *ByteBuffer { return chunkPool.Get() }

// PutChunkBuffer returns bb to the chunk-payload pool.
func PutChunkBuffer(bb *ByteBuffer) { chunkPool.Put(bb) }

// GetSignalBuffer retrieves a buffer from the shared per-signal
// accumulator pool.
func GetSignalBuffer() *ByteBuffer { return signalPool.Get() }

// PutSignalBuffer returns bb to the per-signal accumulator pool.
func PutSignalBuffer(bb *ByteBuffer) { signalPool.Put(bb) }
