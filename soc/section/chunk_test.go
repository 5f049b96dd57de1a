package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrope/srnx/internal/digest"
)

func TestAppendReadChunkNoDigest(t *testing.T) {
	buf := AppendChunk(nil, TagEPOC, []byte("hello"), digest.None)
	c, err := ReadChunk(buf, digest.None)
	require.NoError(t, err)
	require.Equal(t, TagEPOC, c.Tag)
	require.Equal(t, []byte("hello"), c.Payload)
	require.Equal(t, len(buf), c.Consumed)
}

func TestAppendReadChunkWithDigest(t *testing.T) {
	buf := AppendChunk(nil, TagSATE, []byte("payload-bytes"), digest.CRC32C)
	c, err := ReadChunk(buf, digest.CRC32C)
	require.NoError(t, err)
	require.Equal(t, []byte("payload-bytes"), c.Payload)
	require.Equal(t, len(buf), c.Consumed)

	buf[len(buf)-1] ^= 0xFF
	_, err = ReadChunk(buf, digest.CRC32C)
	require.Error(t, err)
}

func TestReadChunkTruncated(t *testing.T) {
	buf := AppendChunk(nil, TagSOCD, []byte("0123456789"), digest.None)
	_, err := ReadChunk(buf[:len(buf)-3], digest.None)
	require.Error(t, err)
}

func TestPreambleRoundTrip(t *testing.T) {
	p := Preamble{Major: 1, Minor: 0, ChunkDigestID: digest.None, FileDigestID: digest.SHA256}
	payload := p.Encode()

	var got Preamble
	require.NoError(t, got.Decode(payload))
	require.Equal(t, p, got)

	require.NoError(t, PatchSDirOffset(payload, 4096))
	var patched Preamble
	require.NoError(t, patched.Decode(payload))
	require.Equal(t, uint64(4096), patched.SDirOffset)
	require.Equal(t, len(p.Encode()), len(payload))
}
