package pool

import "testing"

func TestByteBufferWriteGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	if _, err := bb.Write([]byte("hello world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := string(bb.Bytes()); got != "hello world" {
		t.Errorf("Bytes() = %q", got)
	}
	if bb.Len() != 11 {
		t.Errorf("Len() = %d, want 11", bb.Len())
	}
}

func TestByteBufferReset(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.WriteByte('a')
	bb.Reset()
	if bb.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", bb.Len())
	}
	if bb.Cap() == 0 {
		t.Error("Reset should not release backing array")
	}
}

func TestByteBufferGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.Grow(100)
	if bb.Cap() < 100 {
		t.Errorf("Cap() after Grow(100) = %d, want >= 100", bb.Cap())
	}
}

func TestByteBufferPoolReuse(t *testing.T) {
	p := NewByteBufferPool(16, 1024)
	bb := p.Get()
	bb.Write([]byte("data"))
	p.Put(bb)

	bb2 := p.Get()
	if bb2.Len() != 0 {
		t.Errorf("pooled buffer should be reset, got Len() = %d", bb2.Len())
	}
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 8)
	bb := p.Get()
	bb.Grow(100)
	p.Put(bb) // exceeds maxThreshold, should be discarded rather than pooled

	bb2 := p.Get()
	if bb2.Cap() >= 100 {
		t.Error("expected a fresh small buffer, got the oversized one back")
	}
}

func TestChunkAndSignalBufferHelpers(t *testing.T) {
	cb := GetChunkBuffer()
	cb.WriteByte('x')
	PutChunkBuffer(cb)

	sb := GetSignalBuffer()
	sb.WriteByte('y')
	PutSignalBuffer(sb)
}
