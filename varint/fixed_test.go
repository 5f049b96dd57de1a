package varint

import "testing"

func TestParseUint(t *testing.T) {
	got, err := ParseUint("  42", 4)
	if err != nil || got != 42 {
		t.Fatalf("ParseUint = (%d, %v), want (42, nil)", got, err)
	}
}

func TestParseUintBlank(t *testing.T) {
	if _, err := ParseUint("    ", 4); err == nil {
		t.Fatal("expected error for blank field")
	}
}

func TestParseFixed(t *testing.T) {
	got, err := ParseFixed(" 123.4567890", 12, 7)
	if err != nil || got != 1234567890 {
		t.Fatalf("ParseFixed = (%d, %v), want (1234567890, nil)", got, err)
	}
}

func TestParseFixedNegative(t *testing.T) {
	got, err := ParseFixed("-45.6000000", 11, 7)
	if err != nil || got != -456000000 {
		t.Fatalf("ParseFixed = (%d, %v), want (-456000000, nil)", got, err)
	}
}

func TestParseFixedBlank(t *testing.T) {
	got, err := ParseFixed("            ", 12, 7)
	if err != nil || got != 0 {
		t.Fatalf("ParseFixed(blank) = (%d, %v), want (0, nil)", got, err)
	}
}

func TestParseFixedTooManyFracDigits(t *testing.T) {
	if _, err := ParseFixed("1.234", 5, 2); err == nil {
		t.Fatal("expected error for excess fractional digits")
	}
}
