package section

import (
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/digest"
	"github.com/entrope/srnx/varint"
)

// sdirFieldWidth is the fixed on-disk width of the SDIR-offset field
// within an SRNX payload. It is always encoded with this many bytes,
// using an over-long ULEB128 form when the value is small, so the
// writer can patch the offset in place once SDIR is written without
// shifting every chunk that follows — the SDIR offset placeholder
// described in the container's lifecycle notes.
const sdirFieldWidth = 10

// Preamble is the decoded payload of the SRNX chunk that opens every
// container (§4.F).
type Preamble struct {
	Major, Minor  uint64
	ChunkDigestID digest.ID
	FileDigestID  digest.ID
	// SDirOffset is the file offset of the SDIR chunk, or 0 if none has
	// been written yet.
	SDirOffset uint64
}

// putUintFixed appends x as a ULEB128 encoding exactly width bytes wide,
// using continuation bits on every byte but the last regardless of
// value. width must be large enough to hold x (10 bytes always
// suffices for any uint64).
func putUintFixed(dst []byte, x uint64, width int) []byte {
	for i := 0; i < width; i++ {
		b := byte(x & 0x7f)
		x >>= 7
		if i < width-1 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// Encode serializes the preamble as the SRNX chunk payload.
func (p *Preamble) Encode() []byte {
	dst := varint.PutUint(nil, p.Major)
	dst = varint.PutUint(dst, p.Minor)
	dst = varint.PutUint(dst, uint64(p.ChunkDigestID))
	dst = varint.PutUint(dst, uint64(p.FileDigestID))
	dst = putUintFixed(dst, p.SDirOffset, sdirFieldWidth)
	return dst
}

// PatchSDirOffset rewrites the SDIR-offset field of an already-encoded
// SRNX payload in place, without altering its length.
func PatchSDirOffset(payload []byte, offset uint64) error {
	fieldStart, err := sdirFieldOffset(payload)
	if err != nil {
		return err
	}
	if fieldStart+sdirFieldWidth > len(payload) {
		return errs.New(errs.Corrupt)
	}
	buf := putUintFixed(nil, offset, sdirFieldWidth)
	copy(payload[fieldStart:fieldStart+sdirFieldWidth], buf)
	return nil
}

// sdirFieldOffset returns the byte offset within payload at which the
// fixed-width SDIR-offset field begins.
func sdirFieldOffset(payload []byte) (int, error) {
	pos := 0
	for i := 0; i < 4; i++ { // major, minor, chunk_digest_id, file_digest_id
		_, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return 0, errs.New(errs.Corrupt)
		}
		pos += n
	}
	return pos, nil
}

// Decode parses an SRNX chunk payload into p.
func (p *Preamble) Decode(payload []byte) error {
	_, err := p.decodeInto(payload)
	return err
}

// decodeInto parses every field, including the SDIR offset, and returns
// the bytes that follow the SDIR-offset field (any trailing padding).
// PatchSDirOffset locates the field through sdirFieldOffset instead.
func (p *Preamble) decodeInto(payload []byte) ([]byte, error) {
	major, n := varint.Uint(payload)
	if n <= 0 {
		return nil, errs.New(errs.Corrupt)
	}
	payload = payload[n:]

	minor, n := varint.Uint(payload)
	if n <= 0 {
		return nil, errs.New(errs.Corrupt)
	}
	payload = payload[n:]

	chunkDigest, n := varint.Uint(payload)
	if n <= 0 {
		return nil, errs.New(errs.Corrupt)
	}
	payload = payload[n:]

	fileDigest, n := varint.Uint(payload)
	if n <= 0 {
		return nil, errs.New(errs.Corrupt)
	}
	payload = payload[n:]

	sdirOffset, n := varint.Uint(payload)
	if n <= 0 {
		return nil, errs.New(errs.Corrupt)
	}
	payload = payload[n:]

	p.Major = major
	p.Minor = minor
	p.ChunkDigestID = digest.ID(chunkDigest)
	p.FileDigestID = digest.ID(fileDigest)
	p.SDirOffset = sdirOffset
	return payload, nil
}
