package varint

import "testing"

func TestPutUintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, ^uint64(0)}
	for _, want := range cases {
		buf := PutUint(nil, want)
		got, n := Uint(buf)
		if n != len(buf) || got != want {
			t.Errorf("PutUint/Uint(%d): got (%d, %d), want (%d, %d)", want, got, n, want, len(buf))
		}
	}
}

func TestPutIntRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 63, -64, 1 << 30, -(1 << 30)}
	for _, want := range cases {
		buf := PutInt(nil, want)
		got, n := Int(buf)
		if n != len(buf) || got != want {
			t.Errorf("PutInt/Int(%d): got (%d, %d), want (%d, %d)", want, got, n, want, len(buf))
		}
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 2, -2, 1 << 40, -(1 << 40)}
	for _, want := range cases {
		if got := UnZigZag(ZigZag(want)); got != want {
			t.Errorf("ZigZag/UnZigZag(%d) = %d", want, got)
		}
	}
}

func TestUintTruncated(t *testing.T) {
	_, n := Uint(nil)
	if n != 0 {
		t.Errorf("Uint(nil): got n=%d, want 0", n)
	}
}
