package soc

import (
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/transpose"
	"github.com/entrope/srnx/varint"
)

const (
	blockZeroRun byte = 0xFE
	blockSLEB128 byte = 0xFF
)

// matrixCounts are the block element counts the 3 matrix header classes
// carry, indexed by the header's top-3-bit class (0, 1, 2), per §4.G's
// block header table.
var matrixCounts = [3]int{8, 16, 32}

// minBitsSigned returns the fewest bits (>= 1) needed to represent v in
// two's complement.
func minBitsSigned(v int64) int {
	bits := 1
	for {
		lo := -(int64(1) << uint(bits-1))
		hi := int64(1)<<uint(bits-1) - 1
		if v >= lo && v <= hi {
			return bits
		}
		bits++
		if bits > 64 {
			return 64
		}
	}
}

// requiredBits returns the true two's-complement bit-width needed for
// every value in group, uncapped: a matrix block's 5-bit width field can
// only encode 1..32, so callers must reject (not clamp) results above 32
// or a residual whose true magnitude needs more bits would be truncated
// when packed into the matrix column.
func requiredBits(group []int64) int {
	bits := 1
	for _, v := range group {
		if b := minBitsSigned(v); b > bits {
			bits = b
		}
	}
	return bits
}

func appendMatrixBlock(dst []byte, group []int64, classIdx, bits int) []byte {
	header := byte(classIdx<<5) | byte(bits-1)
	dst = append(dst, header)
	count := matrixCounts[classIdx]
	packed := make([]byte, bits*(count/8))
	transpose.GenericInverse(packed, group, bits, count)
	return append(dst, packed...)
}

// packResidualBlocks greedily encodes residual per §4.G: runs of equal
// zero residuals become a 0xFE block, runs of non-zero residuals are
// packed into the widest matrix block that fits (32, then 16, then 8
// elements) whenever that is no larger than a literal SLEB128 run,
// falling back to a 0xFF literal block otherwise.
func packResidualBlocks(dst []byte, residual []int64) []byte {
	i := 0
	for i < len(residual) {
		if residual[i] == 0 {
			j := i
			for j < len(residual) && residual[j] == 0 {
				j++
			}
			dst = append(dst, blockZeroRun)
			dst = varint.PutUint(dst, uint64(j-i-1))
			i = j
			continue
		}

		if classIdx, bits, ok := chooseMatrixBlock(residual[i:]); ok {
			count := matrixCounts[classIdx]
			group := residual[i : i+count]
			literalLen := 1 + varintLen(uint64(count-1))
			for _, v := range group {
				literalLen += zigzagLen(v)
			}
			matrixLen := 1 + bits*(count/8)
			if matrixLen <= literalLen {
				dst = appendMatrixBlock(dst, group, classIdx, bits)
				i += count
				continue
			}
		}

		j := i
		for j < len(residual) && j-i < 32 && residual[j] != 0 {
			j++
		}
		group := residual[i:j]
		dst = append(dst, blockSLEB128)
		dst = varint.PutUint(dst, uint64(len(group)-1))
		for _, v := range group {
			dst = varint.PutInt(dst, v)
		}
		i = j
	}
	return dst
}

// chooseMatrixBlock finds the widest matrix class (32, then 16, then 8
// elements) that fits entirely within the available non-zero residual
// run at the front of residual and whose true bit-width is representable
// in the block's 5-bit width field (1..32), returning its class index and
// required bit width. A run whose true width exceeds 32 bits is refused
// here at every class size, forcing packResidualBlocks to fall back to
// the 0xFF literal SLEB128 block instead of truncating the value.
func chooseMatrixBlock(residual []int64) (classIdx, bits int, ok bool) {
	nonZero := 0
	for nonZero < len(residual) && residual[nonZero] != 0 {
		nonZero++
	}
	for idx := 2; idx >= 0; idx-- {
		count := matrixCounts[idx]
		if nonZero < count {
			continue
		}
		b := requiredBits(residual[:count])
		if b > 32 {
			continue
		}
		return idx, b, true
	}
	return 0, 0, false
}

// unpackResidualBlocks decodes exactly want residual values from the
// front of src, returning the values and the number of bytes consumed.
func unpackResidualBlocks(src []byte, want int) ([]int64, int, error) {
	out := make([]int64, 0, want)
	pos := 0
	for len(out) < want {
		if pos >= len(src) {
			return nil, 0, errs.New(errs.Corrupt)
		}
		header := src[pos]
		switch {
		case header == blockZeroRun:
			pos++
			n, adv := varint.Uint(src[pos:])
			if adv <= 0 {
				return nil, 0, errs.New(errs.Corrupt)
			}
			pos += adv
			for i := uint64(0); i <= n; i++ {
				out = append(out, 0)
			}
		case header == blockSLEB128:
			pos++
			n, adv := varint.Uint(src[pos:])
			if adv <= 0 {
				return nil, 0, errs.New(errs.Corrupt)
			}
			pos += adv
			for i := uint64(0); i <= n; i++ {
				v, adv := varint.Int(src[pos:])
				if adv <= 0 {
					return nil, 0, errs.New(errs.Corrupt)
				}
				pos += adv
				out = append(out, v)
			}
		case header>>5 <= 2:
			classIdx := int(header >> 5)
			bits := int(header&0x1F) + 1
			count := matrixCounts[classIdx]
			pos++
			need := bits * (count / 8)
			if pos+need > len(src) {
				return nil, 0, errs.New(errs.Corrupt)
			}
			values := make([]int64, count)
			transpose.Generic(values, src[pos:pos+need], bits, count)
			pos += need
			out = append(out, values...)
		default:
			return nil, 0, errs.New(errs.Corrupt)
		}
	}
	if len(out) > want {
		out = out[:want]
	}
	return out, pos, nil
}
