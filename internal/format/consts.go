// Package format houses low-level decoders for the flattened device tree
// (FDT/DTB) binary format. Decoders are bounds-checked, allocation-free where
// possible, and independent from the public API so the reader can orchestrate
// navigation on top of them.
package format

const (
	// Magic is the big-endian value found in the first four bytes of every DTB.
	Magic uint32 = 0xd00dfeed

	// HeaderSize is the size of a version 17 header in bytes.
	HeaderSize = 40

	// HeaderSizeV16 is the size of a version 16 header, which lacks the
	// size_dt_struct field.
	HeaderSizeV16 = 36

	// LastCompatVersion is the newest last_comp_version this decoder accepts.
	LastCompatVersion = 17

	// FirstSupportedVersion is the oldest version this decoder accepts.
	FirstSupportedVersion = 16

	// TokenSize is the width of every structure-block token.
	TokenSize = 4

	// PropHeaderSize covers the FDT_PROP token plus its len and nameoff words.
	PropHeaderSize = 12
)

// Header field offsets.
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	 0x00    4    magic (0xd00dfeed)
//	 0x04    4    totalsize
//	 0x08    4    off_dt_struct
//	 0x0C    4    off_dt_strings
//	 0x10    4    off_mem_rsvmap
//	 0x14    4    version
//	 0x18    4    last_comp_version
//	 0x1C    4    boot_cpuid_phys
//	 0x20    4    size_dt_strings
//	 0x24    4    size_dt_struct (version >= 17)
//
// All fields are big-endian.
const (
	MagicOffset           = 0x00
	TotalSizeOffset       = 0x04
	OffStructOffset       = 0x08
	OffStringsOffset      = 0x0C
	OffMemRsvmapOffset    = 0x10
	VersionOffset         = 0x14
	LastCompVersionOffset = 0x18
	BootCPUIDOffset       = 0x1C
	SizeStringsOffset     = 0x20
	SizeStructOffset      = 0x24
)

// Token identifies a structure-block tag.
type Token uint32

// Structure-block tags.
const (
	TokenBeginNode Token = 0x1
	TokenEndNode   Token = 0x2
	TokenProp      Token = 0x3
	TokenNop       Token = 0x4
	TokenEnd       Token = 0x9
)

func (t Token) String() string {
	switch t {
	case TokenBeginNode:
		return "FDT_BEGIN_NODE"
	case TokenEndNode:
		return "FDT_END_NODE"
	case TokenProp:
		return "FDT_PROP"
	case TokenNop:
		return "FDT_NOP"
	case TokenEnd:
		return "FDT_END"
	default:
		return "FDT_UNKNOWN"
	}
}
