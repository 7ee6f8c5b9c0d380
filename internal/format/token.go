package format

import (
	"fmt"

	"github.com/joshuapare/dtbmods/internal/buf"
)

// Record is one decoded structure-block token. Name is set for
// TokenBeginNode; NameOff and Value for TokenProp. Value aliases the
// underlying buffer.
type Record struct {
	Token   Token
	Offset  int // offset of the tag word
	Next    int // offset of the following tag word
	Name    []byte
	NameOff uint32
	Value   []byte
}

// ReadRecord decodes the token at off within the structure block s.
//
//	FDT_BEGIN_NODE  tag | name\0 | pad to 4
//	FDT_PROP        tag | len | nameoff | value[len] | pad to 4
//	FDT_END_NODE, FDT_NOP, FDT_END   tag only
func ReadRecord(s []byte, off int) (Record, error) {
	tag, ok := buf.U32BEAt(s, off)
	if !ok {
		return Record{}, fmt.Errorf("token at 0x%x: %w", off, ErrTruncated)
	}
	rec := Record{Token: Token(tag), Offset: off, Next: off + TokenSize}

	switch rec.Token {
	case TokenBeginNode:
		name, ok := buf.CString(s, off+TokenSize)
		if !ok {
			return Record{}, fmt.Errorf("node name at 0x%x: %w", off, ErrTruncated)
		}
		rec.Name = name
		rec.Next = buf.Align4(off + TokenSize + len(name) + 1)
	case TokenProp:
		hdr, ok := buf.Slice(s, off, PropHeaderSize)
		if !ok {
			return Record{}, fmt.Errorf("property at 0x%x: %w", off, ErrTruncated)
		}
		size := int(buf.U32BE(hdr[4:]))
		rec.NameOff = buf.U32BE(hdr[8:])
		val, ok := buf.Slice(s, off+PropHeaderSize, size)
		if !ok {
			return Record{}, fmt.Errorf("property value at 0x%x (%d bytes): %w", off, size, ErrTruncated)
		}
		rec.Value = val
		rec.Next = buf.Align4(off + PropHeaderSize + size)
	case TokenEndNode, TokenNop, TokenEnd:
	default:
		return Record{}, fmt.Errorf("tag 0x%x at 0x%x: %w", tag, off, ErrBadToken)
	}
	return rec, nil
}

// StringAt returns the NUL-terminated string at off within the strings block.
func StringAt(strs []byte, off uint32) (string, error) {
	b, ok := buf.CString(strs, int(off))
	if !ok {
		return "", fmt.Errorf("string at 0x%x: %w", off, ErrTruncated)
	}
	return string(b), nil
}
