// Package digest implements the SOC container's chunk and file digest
// algorithms named in §4.F: CRC32C, SHA-256, and (as an extension this
// implementation wires in, per the digest ID space's "reserved" values)
// XXHash64 for a fast writer-side integrity check option. Hashing bytes
// this way is exactly what cespare/xxhash is for, so this package
// reuses it rather than adding a fourth hand-rolled hash.
package digest

import (
	"crypto/sha256"
	"hash"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// ID identifies a digest algorithm as it appears in an SRNX preamble's
// chunk_digest_id / file_digest_id fields.
type ID uint64

const (
	None     ID = 0
	CRC32C   ID = 2
	SHA256   ID = 6
	XXHash64 ID = 8
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Length returns the digest's byte width. The `bytes = 1 << lsb4`
// formula from §4.F is correct for CRC32C (1<<2 = 4) but not for
// SHA-256 (1<<6 = 64, not the actual 32-byte SHA-256 output); this is
// resolved here by special-casing the two defined IDs and falling back
// to the formula only for reserved or extension IDs where no better
// information exists.
func Length(id ID) int {
	switch id {
	case None:
		return 0
	case CRC32C:
		return 4
	case SHA256:
		return 32
	case XXHash64:
		return 8
	default:
		return 1 << (uint(id) & 15)
	}
}

// New returns a hash.Hash implementing id, or nil for None. It panics on
// an unrecognized id; callers are expected to have validated id against
// a container's preamble before reaching here.
func New(id ID) hash.Hash {
	switch id {
	case None:
		return nil
	case CRC32C:
		return crc32.New(crc32cTable)
	case SHA256:
		return sha256.New()
	case XXHash64:
		return xxhash.New()
	default:
		panic("digest: unrecognized digest id")
	}
}

// Sum computes the digest of data under id, returning nil for None.
func Sum(id ID, data []byte) []byte {
	h := New(id)
	if h == nil {
		return nil
	}
	h.Write(data)
	return h.Sum(nil)
}

// Verify reports whether want matches the digest of data under id. It
// always returns true for None (no digest configured).
func Verify(id ID, data, want []byte) bool {
	if id == None {
		return true
	}
	got := Sum(id, data)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
