// Package section implements the low-level chunk framing of the SOC
// container: the 4-byte tag, ULEB128 length, payload and optional digest
// that every chunk shares (§3 and §4.F).
package section

import (
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/digest"
	"github.com/entrope/srnx/internal/pool"
	"github.com/entrope/srnx/varint"
)

// TagLen is the fixed width of a chunk tag.
const TagLen = 4

// Tag is a 4-byte ASCII chunk identifier.
type Tag [TagLen]byte

// NewTag builds a Tag from a 4-character string, panicking if s is not
// exactly TagLen bytes: every call site uses a compile-time constant.
func NewTag(s string) Tag {
	if len(s) != TagLen {
		panic("section: tag must be 4 bytes: " + s)
	}
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string { return string(t[:]) }

// Defined container tags (§3).
var (
	TagSRNX = NewTag("SRNX")
	TagRHDR = NewTag("RHDR")
	TagSDIR = NewTag("SDIR")
	TagEPOC = NewTag("EPOC")
	TagEVTF = NewTag("EVTF")
	TagSATE = NewTag("SATE")
	TagSOCD = NewTag("SOCD")
)

// AppendChunk appends tag, the ULEB128 payload length, payload, and (if
// digestID is not digest.None) a digest of tag‖length‖payload, in that
// order, to dst. The tag‖length‖payload header is assembled once in a
// pooled chunk buffer (internal/pool's ChunkBuffer class) so the digest
// can hash it directly, then copied into dst.
func AppendChunk(dst []byte, tag Tag, payload []byte, digestID digest.ID) []byte {
	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)

	bb.Write(tag[:])
	bb.Write(varint.PutUint(nil, uint64(len(payload))))
	bb.Write(payload)

	dst = append(dst, bb.Bytes()...)
	if digestID != digest.None {
		sum := digest.Sum(digestID, bb.Bytes())
		dst = append(dst, sum...)
	}
	return dst
}

// Chunk is a decoded chunk header: the tag and the payload's bounds
// within the buffer ReadChunk was called on.
type Chunk struct {
	Tag     Tag
	Payload []byte
	// Consumed is the total number of bytes occupied by the chunk
	// (tag + length + payload + digest, if any).
	Consumed int
}

// ReadChunk decodes one chunk from the front of src. digestID selects
// the chunk-digest algorithm declared in the container's SRNX preamble;
// pass digest.None to skip validation.
func ReadChunk(src []byte, digestID digest.ID) (Chunk, error) {
	if len(src) < TagLen {
		return Chunk{}, errs.New(errs.Corrupt)
	}
	var tag Tag
	copy(tag[:], src[:TagLen])

	length, n := varint.Uint(src[TagLen:])
	if n <= 0 {
		return Chunk{}, errs.New(errs.Corrupt)
	}
	headerLen := TagLen + n
	end := headerLen + int(length)
	if end < headerLen || end > len(src) {
		return Chunk{}, errs.New(errs.Corrupt)
	}
	payload := src[headerLen:end]
	consumed := end

	if digestID != digest.None {
		dlen := digest.Length(digestID)
		if end+dlen > len(src) {
			return Chunk{}, errs.New(errs.Corrupt)
		}
		if !digest.Verify(digestID, src[:end], src[end:end+dlen]) {
			return Chunk{}, errs.New(errs.Corrupt)
		}
		consumed += dlen
	}

	return Chunk{Tag: tag, Payload: payload, Consumed: consumed}, nil
}
