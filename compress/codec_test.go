package compress

import (
	"bytes"
	"testing"
)

func repeatedPayload() []byte {
	return bytes.Repeat([]byte("RINEX header text compresses well because it repeats. "), 64)
}

func TestNoopCodecRoundTrip(t *testing.T) {
	data := []byte("chunk payload")
	c, err := Get(KindNone)
	if err != nil {
		t.Fatalf("Get(KindNone): %v", err)
	}
	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Equal(compressed, data) {
		t.Errorf("NoopCodec.Compress altered data")
	}
	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Errorf("NoopCodec.Decompress altered data")
	}
}

func TestZstdCodecRoundTrip(t *testing.T) {
	data := repeatedPayload()
	c, err := Get(KindZstd)
	if err != nil {
		t.Fatalf("Get(KindZstd): %v", err)
	}
	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("zstd did not shrink a repetitive payload: %d >= %d", len(compressed), len(data))
	}
	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("zstd round trip mismatch")
	}
}

func TestLZ4CodecRoundTrip(t *testing.T) {
	data := repeatedPayload()
	c, err := Get(KindLZ4)
	if err != nil {
		t.Fatalf("Get(KindLZ4): %v", err)
	}
	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("lz4 round trip mismatch")
	}
}

func TestKindString(t *testing.T) {
	if KindNone.String() != "none" || KindZstd.String() != "zstd" || KindLZ4.String() != "lz4" {
		t.Error("Kind.String() mismatch")
	}
}

func TestGetUnsupportedKind(t *testing.T) {
	if _, err := Get(Kind(99)); err == nil {
		t.Error("expected error for unsupported kind")
	}
}
