package soc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrope/srnx/epoch"
)

func TestEncodeDecodeIndicatorBlock(t *testing.T) {
	chars := []byte("    4  7777")
	buf := encodeIndicatorBlock(chars)
	got, consumed, err := decodeIndicatorBlock(buf, len(chars))
	require.NoError(t, err)
	require.Equal(t, chars, got)
	require.Equal(t, len(buf), consumed)
}

func TestDecodeIndicatorBlockPadsShortRuns(t *testing.T) {
	chars := []byte("55")
	buf := encodeIndicatorBlock(chars)
	got, _, err := decodeIndicatorBlock(buf, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("55   "), got)
}

func TestEncodeDecodeDataBlockNoScale(t *testing.T) {
	// Realistic carrier-phase-style values that a low-order difference
	// compresses well: mostly a steady climb with small jitter.
	values := []int64{
		123456789, 123456789 + 1902, 123456789 + 3801,
		123456789 + 5705, 123456789 + 7600, 123456789 + 9502,
	}
	buf := encodeDataBlock(values)
	got, consumed, err := decodeDataBlock(buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
	require.Equal(t, len(buf), consumed)
}

func TestEncodeDecodeDataBlockWithScale(t *testing.T) {
	// All multiples of 5000, so a common factor should be pulled out
	// into the scale field.
	values := []int64{5000, 10000, 15000, 20000, 25000}
	buf := encodeDataBlock(values)
	got, _, err := decodeDataBlock(buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestEncodeDecodeDataBlockSingleValue(t *testing.T) {
	values := []int64{42}
	buf := encodeDataBlock(values)
	got, _, err := decodeDataBlock(buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestEncodeDecodeSOCDRoundTrip(t *testing.T) {
	name := NewSignalName(epoch.SatelliteName{'G', '0', '1'}, epoch.NewObsCode("L1C"))
	p := SOCDPayload{
		Name:   name,
		Values: []int64{100, 105, 111, 118, 126, 135},
		LLI:    []byte("000000"),
		SSI:    []byte("777777"),
	}
	payload := EncodeSOCD(p)
	got, err := DecodeSOCD(payload)
	require.NoError(t, err)

	require.Equal(t, name, got.Name)
	require.Equal(t, p.Values, got.Values)
	require.Equal(t, p.LLI, got.LLI)
	require.Equal(t, p.SSI, got.SSI)
}
