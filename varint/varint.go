// Package varint provides the integer codecs shared by the RINEX text
// reader and the SOC container: ULEB128/SLEB128 for the container's
// tag-length and delta streams, and fixed-width ASCII decimal parsing for
// RINEX text fields.
//
// Go's standard library varint format is byte-for-byte the LEB128 family
// this container uses: encoding/binary.Uvarint is ULEB128, and
// encoding/binary.Varint's zigzag mapping ((x << 1) ^ (x >> 63) for
// negative x, expressed there as a NOT of the shifted value) is exactly
// the ZigZag transform §4.B specifies for SLEB128. There is no reason to
// hand-roll either; this package exists to give the two operations
// names that match the container format's vocabulary and to add the
// io.ByteReader-free "read from a byte slice" convenience the codec
// needs when it is walking chunk payloads directly.
package varint

import "encoding/binary"

// PutUint appends x to dst as ULEB128, returning the extended slice.
func PutUint(dst []byte, x uint64) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], x)
	return append(dst, buf[:n]...)
}

// PutInt appends x to dst as SLEB128 (ZigZag + ULEB128), returning the
// extended slice.
func PutInt(dst []byte, x int64) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], x)
	return append(dst, buf[:n]...)
}

// Uint decodes a ULEB128 value from the front of src, returning the value
// and the number of bytes consumed. n is 0 if src is too short; n is
// negative if the value overflows 64 bits, and -n is then the number of
// bytes read, matching encoding/binary.Uvarint.
func Uint(src []byte) (uint64, int) {
	return binary.Uvarint(src)
}

// Int decodes a SLEB128 value from the front of src, returning the value
// and the number of bytes consumed. See Uint for the failure convention.
func Int(src []byte) (int64, int) {
	return binary.Varint(src)
}

// ZigZag maps a signed value to its unsigned ZigZag encoding, per §4.B:
// (v<<1) ^ (v>>63).
func ZigZag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// UnZigZag inverts ZigZag.
func UnZigZag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
