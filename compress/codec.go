// Package compress provides optional payload compression for the SOC
// container's RHDR and EVTF chunks, whose contents (header text, event
// line text) compress well but need not be compressed. It keeps a
// Compressor/Decompressor/Codec split and factory-map pattern for a
// much smaller codec set: this container never needed an S2 option or
// a cgo zstd fallback, since a chunk payload here is at most a few
// hundred kilobytes and klauspost's pure-Go zstd is fast enough at
// that size.
package compress

import "fmt"

// Kind identifies a chunk payload's compression algorithm. RHDR and
// EVTF payloads, the only chunks that carry it, store it as one byte
// ahead of their compressed text.
type Kind byte

const (
	KindNone Kind = iota
	KindZstd
	KindLZ4
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindZstd:
		return "zstd"
	case KindLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Compressor compresses a chunk payload.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a chunk payload previously produced by the
// matching Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Kind]Codec{
	KindNone: NoopCodec{},
	KindZstd: ZstdCodec{},
	KindLZ4:  LZ4Codec{},
}

// Get retrieves the built-in Codec for kind.
func Get(kind Kind) (Codec, error) {
	if c, ok := builtinCodecs[kind]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("compress: unsupported kind %s", kind)
}

// NoopCodec passes data through unchanged, for chunks a writer chose not
// to compress.
type NoopCodec struct{}

var _ Codec = NoopCodec{}

func (NoopCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (NoopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
