package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

var errLZ4BadFlag = errors.New("compress: lz4 payload has unrecognized flag byte")

// LZ4Codec compresses chunk payloads with LZ4 block compression, for
// callers that prefer decode latency over ratio on RHDR/EVTF payloads.
//
// LZ4 block coding cannot beat literal-run overhead on short,
// low-redundancy input, so Compress prefixes its output with a one-byte
// flag distinguishing a genuine LZ4 block (lz4Compressed) from raw,
// stored bytes (lz4Stored); Decompress branches on that flag instead of
// assuming every payload is LZ4-coded.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

const (
	lz4Stored     byte = 0
	lz4Compressed byte = 1
)

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))

	c, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(c)

	n, err := c.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		// Incompressible input: lz4 signals this by returning n == 0, or
		// the block didn't beat storing data verbatim.
		out := make([]byte, 1+len(data))
		out[0] = lz4Stored
		copy(out[1:], data)
		return out, nil
	}
	dst[0] = lz4Compressed
	return dst[:1+n], nil
}

// Decompress grows its output buffer geometrically until UncompressBlock
// stops reporting a short buffer, since LZ4 block format carries no
// decompressed-size header of its own in this codec's usage.
func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	flag, body := data[0], data[1:]
	if flag == lz4Stored {
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	}
	if flag != lz4Compressed {
		return nil, errLZ4BadFlag
	}

	bufSize := len(body) * 4
	if bufSize == 0 {
		bufSize = 64
	}
	const maxSize = 128 * 1024 * 1024
	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(body, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}
			return nil, err
		}
		return buf[:n], nil
	}
	return nil, lz4.ErrInvalidSourceShortBuffer
}
