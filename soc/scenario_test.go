package soc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrope/srnx/varint"
)

// TestScenarioEPOCMinuteRollover exercises the specific EPOC wire
// encoding of one regular-interval span crossing a minute boundary:
// n_epoch=3, interval=+300_000_000 (30s, seconds x 1e7), starting at
// 2020-01-01 12:00:00.0, yielding 12:00:00.0, 12:00:30.0 and 12:01:00.0
// with the minute/second fields resetting at the last epoch.
func TestScenarioEPOCMinuteRollover(t *testing.T) {
	var payload []byte
	payload = varint.PutUint(payload, 3) // n_epoch
	payload = varint.PutInt(payload, 300000000)
	payload = varint.PutUint(payload, 2) // count_minus_1
	payload = varint.PutUint(payload, 20200101)
	payload = varint.PutUint(payload, 1200000000000) // 12:00:00.0

	c, err := DecodeEPOC(payload)
	require.NoError(t, err)
	epochs := c.ExpandEpochs()
	require.Len(t, epochs, 3)

	require.Equal(t, int32(20200101), epochs[0].YMD)
	require.Equal(t, int16(1200), epochs[0].HM)
	require.Equal(t, int32(0), epochs[0].SecE7)

	require.Equal(t, int16(1200), epochs[1].HM)
	require.Equal(t, int32(300000000), epochs[1].SecE7)

	require.Equal(t, int16(1201), epochs[2].HM)
	require.Equal(t, int32(0), epochs[2].SecE7)
}

// TestScenarioSOCDZeroRunBlock exercises schema=1 (order 1, no scale
// field), init=[1000], and a single zero-run block covering 5 residual
// values, which decodes to five identical observation values.
func TestScenarioSOCDZeroRunBlock(t *testing.T) {
	var buf []byte
	buf = varint.PutUint(buf, 1) // schema: order=1, no scale
	buf = varint.PutInt(buf, 1000) // initial_state
	buf = append(buf, blockZeroRun)
	buf = varint.PutUint(buf, 4) // count_minus_1=4 -> up to 5 zeros, truncated to what's wanted

	values, _, err := decodeDataBlock(buf, 5)
	require.NoError(t, err)
	require.Equal(t, []int64{1000, 1000, 1000, 1000, 1000}, values)
}

// TestScenarioSOCDMatrixBlockWithScale exercises schema=9 (order 1,
// scale field present), scale_x1000=500, init=[0], and an 8-element
// 1-bit matrix block packed as a single 0xFF byte (eight residuals of
// -1), consuming exactly the 8 residuals order=1 leaves it needing and
// leaving any further block bytes unread.
func TestScenarioSOCDMatrixBlockWithScale(t *testing.T) {
	var buf []byte
	buf = varint.PutUint(buf, 9)   // schema: order=1, hasScale
	buf = varint.PutUint(buf, 500) // scale_x1000
	buf = varint.PutInt(buf, 0)    // initial_state
	buf = append(buf, 0x00)        // matrix header: class 0 (8 elements), 1 bit
	buf = append(buf, 0xFF)        // packed payload: eight 1-bit values of -1
	buf = append(buf, 0x01)        // trailing byte belonging to no consumed block

	values, consumed, err := decodeDataBlock(buf, 9) // order(1) + 8 residuals
	require.NoError(t, err)
	require.Less(t, consumed, len(buf)) // the trailing 0x01 is not consumed

	// The integrator produces the unscaled running sum 0,-1,-2,...,-8
	// from the eight -1 residuals; §4.G's decode formula multiplies
	// each unscaled value by scale_x1000 and divides by 1000
	// afterwards (not the other way around), so a non-multiple-of-1000
	// scale_x1000 like 500 here truncates per value rather than
	// producing a uniform per-step decrement.
	want := []int64{0, 0, -1, -1, -2, -2, -3, -3, -4}
	require.Equal(t, want, values)
}
