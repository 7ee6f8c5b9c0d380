package format

import (
	"fmt"

	"github.com/joshuapare/dtbmods/internal/buf"
)

// Header captures the FDT header fields required to locate the structure and
// strings blocks.
type Header struct {
	TotalSize       uint32
	OffStruct       uint32
	OffStrings      uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeStrings     uint32
	SizeStruct      uint32
}

// ParseHeader validates and extracts the header from the start of b. Block
// bounds are checked against TotalSize, and TotalSize against len(b).
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSizeV16 {
		return Header{}, fmt.Errorf("fdt header: %w", ErrTruncated)
	}
	if buf.U32BE(b[MagicOffset:]) != Magic {
		return Header{}, fmt.Errorf("fdt header: %w", ErrSignatureMismatch)
	}
	h := Header{
		TotalSize:       buf.U32BE(b[TotalSizeOffset:]),
		OffStruct:       buf.U32BE(b[OffStructOffset:]),
		OffStrings:      buf.U32BE(b[OffStringsOffset:]),
		OffMemRsvmap:    buf.U32BE(b[OffMemRsvmapOffset:]),
		Version:         buf.U32BE(b[VersionOffset:]),
		LastCompVersion: buf.U32BE(b[LastCompVersionOffset:]),
		BootCPUIDPhys:   buf.U32BE(b[BootCPUIDOffset:]),
		SizeStrings:     buf.U32BE(b[SizeStringsOffset:]),
	}
	if h.Version < FirstSupportedVersion || h.LastCompVersion > LastCompatVersion {
		return Header{}, fmt.Errorf(
			"fdt header: version %d (last compatible %d): %w",
			h.Version, h.LastCompVersion, ErrUnsupported,
		)
	}
	if int64(h.TotalSize) > int64(len(b)) {
		return Header{}, fmt.Errorf(
			"fdt header: totalsize %d exceeds %d byte image: %w",
			h.TotalSize, len(b), ErrTruncated,
		)
	}
	total := int(h.TotalSize)

	if h.Version >= LastCompatVersion {
		if total < HeaderSize {
			return Header{}, fmt.Errorf("fdt header: %w", ErrTruncated)
		}
		h.SizeStruct = buf.U32BE(b[SizeStructOffset:])
	} else {
		// Version 16 has no size_dt_struct; the block runs to totalsize.
		if h.OffStruct > h.TotalSize {
			return Header{}, fmt.Errorf("fdt header: struct block: %w", ErrBadLayout)
		}
		h.SizeStruct = h.TotalSize - h.OffStruct
	}

	if _, err := buf.CheckRange(total, int(h.OffStruct), int(h.SizeStruct)); err != nil {
		return Header{}, fmt.Errorf("fdt header: struct block: %v: %w", err, ErrBadLayout)
	}
	if _, err := buf.CheckRange(total, int(h.OffStrings), int(h.SizeStrings)); err != nil {
		return Header{}, fmt.Errorf("fdt header: strings block: %v: %w", err, ErrBadLayout)
	}
	return h, nil
}

// StructBlock returns the structure block described by h.
func (h Header) StructBlock(b []byte) []byte {
	return b[h.OffStruct : h.OffStruct+h.SizeStruct]
}

// StringsBlock returns the strings block described by h.
func (h Header) StringsBlock(b []byte) []byte {
	return b[h.OffStrings : h.OffStrings+h.SizeStrings]
}
