package transpose

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

var groundTruthRows = []uint32{
	0x55555555, 0x33333333, 0x0f0f0f0f, 0x00ff00ff, 0x0000ffff, 0xaaaaaaaa,
	0xcccccccc, 0xf0f0f0f0, 0xff00ff00, 0xffff0000, 0x0000ffff, 0x00ffff00,
	0x0ff00ff0, 0x3c3c3c3c, 0x66666666, 0xffffffff, 0x12345678, 0x31415927,
	0xcafebabe, 0xcafed00d, 0x47494638, 0x89504e47, 0x4d546864, 0x2321202f,
	0x7f454c46, 0x25504446, 0x19540119, 0x4a6f7921, 0x49492a00, 0x4d4d002a,
	0x57414433, 0xd0cf11e0,
}

func packMatrix(bits int) []byte {
	buf := make([]byte, bits*4)
	for r := 0; r < bits; r++ {
		binary.BigEndian.PutUint32(buf[r*4:], groundTruthRows[r])
	}
	return buf
}

func truthColumn(j, bits int) int64 {
	// truth[j] holds the full 32-bit column value with row 0 as MSB;
	// the top `bits` bits of that column are the b-bit matrix's column,
	// per §8: out[j] = truth[j] >> (32 - b), sign-extended.
	var v uint32
	for r := 0; r < 32; r++ {
		bit := (groundTruthRows[r] >> uint(31-j)) & 1
		v = (v << 1) | bit
	}
	shifted := int32(v) >> uint(32-bits)
	return int64(shifted)
}

func TestGenericGroundTruth(t *testing.T) {
	for bits := 1; bits <= 32; bits++ {
		in := packMatrix(bits)
		out := make([]int64, 32)
		Generic(out, in, bits, 32)
		for j := 0; j < 32; j++ {
			want := truthColumn(j, bits)
			require.Equalf(t, want, out[j], "bits=%d col=%d", bits, j)
		}
	}
}

func TestGenericRoundTrip(t *testing.T) {
	for _, count := range []int{8, 16, 32} {
		for bits := 1; bits <= 32; bits++ {
			stride := count / 8
			src := make([]byte, bits*stride)
			for i := range src {
				src[i] = byte(0x9E*i + bits + count)
			}
			decoded := make([]int64, count)
			Generic(decoded, src, bits, count)

			repacked := make([]byte, bits*stride)
			GenericInverse(repacked, decoded, bits, count)

			redecoded := make([]int64, count)
			Generic(redecoded, repacked, bits, count)
			require.Equal(t, decoded, redecoded)
		}
	}
}

func TestSelectDefaultsToGeneric(t *testing.T) {
	t.Setenv("TRANSPOSE_FORCE", "")
	fn, inv := Select()
	require.NotNil(t, fn)
	require.NotNil(t, inv)
}
