package soc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrope/srnx/compress"
	"github.com/entrope/srnx/epoch"
)

func TestEncodeDecodeEVTF(t *testing.T) {
	p := EVTFPayload{
		EpochIndex: 7,
		Flag:       epoch.FlagExternalEvent,
		Lines: [][]byte{
			[]byte(" ANTENNA HEIGHT CHANGED"),
			[]byte(" NEW HEIGHT 1.2340"),
		},
	}

	for _, codec := range []compress.Kind{compress.KindNone, compress.KindZstd, compress.KindLZ4} {
		payload, err := EncodeEVTF(p, codec)
		require.NoError(t, err)
		got, err := DecodeEVTF(payload)
		require.NoError(t, err)
		require.Equal(t, p.EpochIndex, got.EpochIndex)
		require.Equal(t, p.Flag, got.Flag)
		require.Equal(t, p.Lines, got.Lines)
	}
}

func TestEncodeDecodeEVTFNoLines(t *testing.T) {
	p := EVTFPayload{EpochIndex: 0, Flag: epoch.FlagHeaderInfo}
	payload, err := EncodeEVTF(p, compress.KindNone)
	require.NoError(t, err)
	got, err := DecodeEVTF(payload)
	require.NoError(t, err)
	require.Equal(t, p.EpochIndex, got.EpochIndex)
	require.Equal(t, p.Flag, got.Flag)
	require.Empty(t, got.Lines)
}
