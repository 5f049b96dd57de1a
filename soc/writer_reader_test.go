package soc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrope/srnx/compress"
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/digest"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	g01 := epoch.SatelliteName{'G', '0', '1'}
	g02 := epoch.SatelliteName{'G', '0', '2'}
	l1c := epoch.NewObsCode("L1C")
	c1c := epoch.NewObsCode("C1C")

	rhdr := RHDRPayload{
		RinexMajor: 3,
		RinexMinor: 4,
		Systems:    []epoch.System{epoch.SystemGPS},
		ObsTypes: map[epoch.System][]epoch.ObsCode{
			epoch.SystemGPS: {l1c, c1c},
		},
	}

	w := NewWriter(1, 0, digest.CRC32C, digest.CRC32C, rhdr)

	epochs := make([]epoch.Epoch, 4)
	for i := range epochs {
		epochs[i] = epoch.Epoch{
			YMD:   20250601,
			HM:    0,
			SecE7: int32(i) * 100000000, // 10s steps, within one minute
		}
	}
	idx := make([]int, len(epochs))
	for i, e := range epochs {
		idx[i] = w.AddEpoch(e)
	}

	// g01 observes both codes at every epoch.
	for i := range epochs {
		w.AddObservation(g01, l1c, idx[i], 100000000+int64(i)*1900, '0', '7')
		w.AddObservation(g01, c1c, idx[i], 20000000+int64(i)*1000, ' ', '6')
	}
	// g02 only observes L1C, and only at epochs 1 and 3 (a gap pattern).
	w.AddObservation(g02, l1c, idx[1], 55555555, '0', '5')
	w.AddObservation(g02, l1c, idx[3], 55555600, '0', '5')

	data, err := w.Finish()
	require.NoError(t, err)

	r, err := NewReader(data)
	require.NoError(t, err)

	gotEpochs := r.Epochs()
	require.Len(t, gotEpochs, len(epochs))
	for i, e := range gotEpochs {
		require.Equal(t, epochs[i].YMD, e.YMD)
		require.Equal(t, epochs[i].SecE7, e.SecE7)
	}

	require.ElementsMatch(t, []epoch.SatelliteName{g01, g02}, r.Satellites())

	obs, err := r.OpenObs(g01, l1c)
	require.NoError(t, err)
	for i := 0; i < len(epochs); i++ {
		v, err := obs.NextValue()
		require.NoError(t, err)
		require.Equal(t, int64(100000000+i*1900), v)
		lli, ssi, err := obs.ReadIndicators()
		require.NoError(t, err)
		require.Equal(t, byte('0'), lli)
		require.Equal(t, byte('7'), ssi)
	}
	require.Equal(t, []bool{true, true, true, true}, obs.Presence())

	obs2, err := r.OpenObs(g02, l1c)
	require.NoError(t, err)
	v, err := obs2.NextValue()
	require.NoError(t, err)
	require.Equal(t, int64(55555555), v)
	v, err = obs2.NextValue()
	require.NoError(t, err)
	require.Equal(t, int64(55555600), v)
	require.Equal(t, []bool{false, true, false, true}, obs2.Presence())

	_, err = r.OpenObs(g02, c1c)
	require.Error(t, err)
}

func TestWriterReaderNoDigest(t *testing.T) {
	rhdr := RHDRPayload{
		RinexMajor: 2,
		RinexMinor: 11,
		Systems:    []epoch.System{epoch.SystemGPS},
		ObsTypes:   map[epoch.System][]epoch.ObsCode{epoch.SystemGPS: {epoch.NewObsCode("L1")}},
	}
	w := NewWriter(1, 0, digest.None, digest.None, rhdr)
	sat := epoch.SatelliteName{'G', '1', '5'}
	code := epoch.NewObsCode("L1")

	idx := w.AddEpoch(epoch.Epoch{YMD: 20250601, HM: 0, SecE7: 0})
	w.AddObservation(sat, code, idx, 42, '0', '5')

	data, err := w.Finish()
	require.NoError(t, err)

	r, err := NewReader(data)
	require.NoError(t, err)
	obs, err := r.OpenObs(sat, code)
	require.NoError(t, err)
	v, err := obs.NextValue()
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestWriterReaderEvents(t *testing.T) {
	rhdr := RHDRPayload{
		RinexMajor: 2,
		RinexMinor: 11,
		Systems:    []epoch.System{epoch.SystemGPS},
		ObsTypes:   map[epoch.System][]epoch.ObsCode{epoch.SystemGPS: {epoch.NewObsCode("L1")}},
		RawHeader:  []byte("     2.11           OBSERVATION DATA    M (MIXED)           RINEX VERSION / TYPE\n"),
	}
	w := NewWriter(1, 0, digest.CRC32C, digest.CRC32C, rhdr)
	w.SetCompression(compress.KindZstd)

	idx0 := w.AddEpoch(epoch.Epoch{YMD: 20250601, HM: 0, SecE7: 0})
	idx1 := w.AddEpoch(epoch.Epoch{YMD: 20250601, HM: 0, SecE7: 100000000, Flag: epoch.FlagExternalEvent})

	sat := epoch.SatelliteName{'G', '1', '5'}
	code := epoch.NewObsCode("L1")
	w.AddObservation(sat, code, idx0, 42, '0', '5')
	w.AddEvent(idx1, epoch.FlagExternalEvent, [][]byte{[]byte(" ANTENNA SWAP")})

	data, err := w.Finish()
	require.NoError(t, err)

	r, err := NewReader(data)
	require.NoError(t, err)
	require.Equal(t, rhdr.RawHeader, r.RHDR().RawHeader)
	require.Equal(t, compress.KindZstd, r.RHDR().RawHeaderCodec)

	ev, err := r.NextEvent()
	require.NoError(t, err)
	require.Equal(t, idx1, ev.EpochIndex)
	require.Equal(t, epoch.FlagExternalEvent, ev.Flag)
	require.Equal(t, [][]byte{[]byte(" ANTENNA SWAP")}, ev.Lines)

	_, err = r.NextEvent()
	require.ErrorIs(t, err, errs.ErrEndOfData)
}
