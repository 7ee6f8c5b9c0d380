package buf

import (
	"bytes"
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckRange validates that the block [offset, offset+size) lies inside a
// buffer of bufLen bytes. It returns the end offset on success.
//
//	end, err := buf.CheckRange(len(data), int(hdr.OffStrings), int(hdr.SizeStrings))
//	if err != nil {
//	    return fmt.Errorf("strings block: %w", err)
//	}
func CheckRange(bufLen, offset, size int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	if size < 0 {
		return 0, fmt.Errorf("negative size: %d", size)
	}
	end, ok := AddOverflowSafe(offset, size)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, size)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// CString returns the bytes starting at off up to (not including) the next
// NUL byte. ok is false when off is out of range or no terminator follows.
func CString(b []byte, off int) ([]byte, bool) {
	if off < 0 || off >= len(b) {
		return nil, false
	}
	n := bytes.IndexByte(b[off:], 0)
	if n < 0 {
		return nil, false
	}
	return b[off : off+n], true
}

// Align4 rounds off up to the next multiple of four.
func Align4(off int) int {
	return (off + 3) &^ 3
}
