package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoderPool and zstdDecoderPool amortize the setup cost of
// klauspost's encoder/decoder across the many small RHDR/EVTF payloads a
// single container write or read touches.
var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
			if err != nil {
				panic(fmt.Sprintf("compress: failed to create zstd encoder: %v", err))
			}
			return enc
		},
	}
	zstdDecoderPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
			}
			return dec
		},
	}
)

// ZstdCodec compresses chunk payloads with Zstandard, using klauspost's
// pure-Go implementation so the container has no cgo dependency.
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("compress: zstd decompress: %w", err)
	}
	return out, nil
}
