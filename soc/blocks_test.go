package soc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpackResidualBlocksMixed(t *testing.T) {
	residual := []int64{0, 0, 0, 5, -3, 7, -8, 2, 1, -1, 0, 0, 100000, -99999}
	buf := packResidualBlocks(nil, residual)

	got, consumed, err := unpackResidualBlocks(buf, len(residual))
	require.NoError(t, err)
	require.Equal(t, residual, got)
	require.Equal(t, len(buf), consumed)
}

func TestPackUnpackResidualBlocksAllZero(t *testing.T) {
	residual := make([]int64, 40)
	buf := packResidualBlocks(nil, residual)
	got, _, err := unpackResidualBlocks(buf, len(residual))
	require.NoError(t, err)
	require.Equal(t, residual, got)
}

func TestPackUnpackResidualBlocksExactMatrix(t *testing.T) {
	residual := make([]int64, 32)
	for i := range residual {
		residual[i] = int64(i) + 1 // strictly positive: no zero run breaks up the block
	}
	buf := packResidualBlocks(nil, residual)
	require.Equal(t, byte(0x40|6), buf[0]) // 32-count class, 7 bits needed for range [1,32]

	got, _, err := unpackResidualBlocks(buf, len(residual))
	require.NoError(t, err)
	require.Equal(t, residual, got)
}

func TestPackUnpackResidualBlocksWideValues(t *testing.T) {
	// Pseudorange-scale residuals whose true two's-complement width
	// exceeds the 32-bit matrix column limit must fall back to the
	// literal SLEB128 block rather than being truncated.
	residual := make([]int64, 8)
	for i := range residual {
		residual[i] = 23_619_095_450 + int64(i)
	}
	buf := packResidualBlocks(nil, residual)
	require.Equal(t, blockSLEB128, buf[0])

	got, consumed, err := unpackResidualBlocks(buf, len(residual))
	require.NoError(t, err)
	require.Equal(t, residual, got)
	require.Equal(t, len(buf), consumed)
}

func TestChooseMatrixBlockRejectsWideValues(t *testing.T) {
	residual := make([]int64, 32)
	for i := range residual {
		residual[i] = 23_619_095_450 + int64(i)
	}
	_, _, ok := chooseMatrixBlock(residual)
	require.False(t, ok)
}

func TestMinBitsSigned(t *testing.T) {
	require.Equal(t, 1, minBitsSigned(0))
	require.Equal(t, 1, minBitsSigned(-1))
	require.Equal(t, 2, minBitsSigned(1))
	require.Equal(t, 4, minBitsSigned(5))
	require.Equal(t, 4, minBitsSigned(-8))
	require.Equal(t, 5, minBitsSigned(-9))
}
