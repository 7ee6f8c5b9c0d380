package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name    string
		bufLen  int
		offset  int
		size    int
		wantEnd int
		wantErr bool
	}{
		{"fits", 100, 40, 20, 60, false},
		{"exact end", 100, 90, 10, 100, false},
		{"empty block", 100, 100, 0, 100, false},
		{"past end", 100, 90, 11, 0, true},
		{"negative offset", 100, -1, 4, 0, true},
		{"negative size", 100, 0, -4, 0, true},
		{"overflow", 100, math.MaxInt, 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, err := CheckRange(tt.bufLen, tt.offset, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got end=%d", end)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if end != tt.wantEnd {
				t.Fatalf("end=%d want %d", end, tt.wantEnd)
			}
		})
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
}

func TestCString(t *testing.T) {
	data := []byte("cpus\x00memory@0\x00tail")
	if got, ok := CString(data, 0); !ok || string(got) != "cpus" {
		t.Fatalf("CString(0) = %q,%v", got, ok)
	}
	if got, ok := CString(data, 5); !ok || string(got) != "memory@0" {
		t.Fatalf("CString(5) = %q,%v", got, ok)
	}
	if got, ok := CString(data, 4); !ok || len(got) != 0 {
		t.Fatalf("CString at terminator should be empty, got %q,%v", got, ok)
	}
	if _, ok := CString(data, 15); ok {
		t.Fatalf("CString without terminator should fail")
	}
	if _, ok := CString(data, len(data)); ok {
		t.Fatalf("CString past end should fail")
	}
}

func TestAlign4(t *testing.T) {
	for in, want := range map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 13: 16} {
		if got := Align4(in); got != want {
			t.Fatalf("Align4(%d)=%d want %d", in, got, want)
		}
	}
}
