// Package reader provides the concrete types.Reader implementation over a
// flattened device tree blob. Navigation follows libfdt semantics: node
// handles are structure-block offsets and a missing child, sibling, or
// property is reported as types.ErrNotFound.
package reader

import (
	"errors"
	"fmt"

	"github.com/joshuapare/dtbmods/internal/format"
	"github.com/joshuapare/dtbmods/internal/mmfile"
	"github.com/joshuapare/dtbmods/pkg/types"
)

// Open maps the blob at path and returns an implementation of types.Reader.
func Open(path string) (types.Reader, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, wrapIOErr(fmt.Errorf("open dtb: %w", err))
	}
	r, err := newReader(data, unmap)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	return r, nil
}

// OpenBytes creates a reader backed by the provided buffer. The buffer must
// not be modified while the reader is in use.
func OpenBytes(buf []byte) (types.Reader, error) {
	return newReader(buf, nil)
}

type reader struct {
	buf     []byte
	unmap   func() error
	head    format.Header
	structs []byte
	strs    []byte
	closed  bool
}

func newReader(buf []byte, unmap func() error) (*reader, error) {
	head, err := format.ParseHeader(buf)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	return &reader{
		buf:     buf,
		unmap:   unmap,
		head:    head,
		structs: head.StructBlock(buf),
		strs:    head.StringsBlock(buf),
	}, nil
}

// Close releases resources (unmaps the buffer if necessary).
func (r *reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.structs, r.strs = nil, nil
	if r.unmap != nil {
		return r.unmap()
	}
	return nil
}

func (r *reader) ensureOpen() error {
	if r.closed {
		return types.ErrClosed
	}
	return nil
}

func (r *reader) Info() types.TreeInfo {
	return types.TreeInfo{
		TotalSize:       r.head.TotalSize,
		Version:         r.head.Version,
		LastCompVersion: r.head.LastCompVersion,
		BootCPUIDPhys:   r.head.BootCPUIDPhys,
		StructSize:      r.head.SizeStruct,
		StringsSize:     r.head.SizeStrings,
	}
}

func (r *reader) Name(id types.NodeID) (string, error) {
	rec, err := r.node(id)
	if err != nil {
		return "", err
	}
	return string(rec.Name), nil
}

func (r *reader) Prop(id types.NodeID, name string) ([]byte, error) {
	rec, err := r.node(id)
	if err != nil {
		return nil, err
	}
	// Properties precede subnodes, so the scan stops at the first
	// non-property token.
	off := rec.Next
	for {
		rec, err := format.ReadRecord(r.structs, off)
		if err != nil {
			return nil, wrapFormatErr(err)
		}
		switch rec.Token {
		case format.TokenNop:
		case format.TokenProp:
			pname, err := format.StringAt(r.strs, rec.NameOff)
			if err != nil {
				return nil, wrapFormatErr(err)
			}
			if pname == name {
				return rec.Value, nil
			}
		default:
			return nil, &types.Error{Kind: types.ErrKindNotFound, Msg: "property " + name}
		}
		off = rec.Next
	}
}

func (r *reader) FirstSubnode(id types.NodeID) (types.NodeID, error) {
	if _, err := r.node(id); err != nil {
		return 0, err
	}
	off, depth, err := r.nextNode(int(id), 0)
	if err != nil {
		return 0, err
	}
	if depth != 1 {
		return 0, types.ErrNotFound
	}
	return types.NodeID(off), nil
}

func (r *reader) NextSubnode(id types.NodeID) (types.NodeID, error) {
	if _, err := r.node(id); err != nil {
		return 0, err
	}
	off, depth := int(id), 1
	for {
		var err error
		off, depth, err = r.nextNode(off, depth)
		if err != nil {
			return 0, err
		}
		if depth < 1 {
			return 0, types.ErrNotFound
		}
		if depth == 1 {
			return types.NodeID(off), nil
		}
	}
}

// node decodes the FDT_BEGIN_NODE record at id.
func (r *reader) node(id types.NodeID) (format.Record, error) {
	if err := r.ensureOpen(); err != nil {
		return format.Record{}, err
	}
	if id%format.TokenSize != 0 {
		return format.Record{}, badOffset(id)
	}
	rec, err := format.ReadRecord(r.structs, int(id))
	if err != nil {
		return format.Record{}, wrapFormatErr(err)
	}
	if rec.Token != format.TokenBeginNode {
		return format.Record{}, badOffset(id)
	}
	return rec, nil
}

// nextNode scans forward from the node at off to the next FDT_BEGIN_NODE,
// tracking depth relative to the caller's starting depth. Leaving the
// starting node's parent (depth < 0) or reaching FDT_END ends the scan with
// types.ErrNotFound.
func (r *reader) nextNode(off, depth int) (int, int, error) {
	rec, err := format.ReadRecord(r.structs, off)
	if err != nil {
		return 0, depth, wrapFormatErr(err)
	}
	next := rec.Next
	for {
		rec, err := format.ReadRecord(r.structs, next)
		if err != nil {
			return 0, depth, wrapFormatErr(err)
		}
		switch rec.Token {
		case format.TokenBeginNode:
			return rec.Offset, depth + 1, nil
		case format.TokenEndNode:
			depth--
			if depth < 0 {
				return 0, depth, types.ErrNotFound
			}
		case format.TokenEnd:
			return 0, depth, types.ErrNotFound
		}
		next = rec.Next
	}
}

// root returns the first node in the structure block, skipping leading NOPs.
func (r *reader) root() (types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	off := 0
	for {
		rec, err := format.ReadRecord(r.structs, off)
		if err != nil {
			return 0, wrapFormatErr(err)
		}
		switch rec.Token {
		case format.TokenNop:
			off = rec.Next
		case format.TokenBeginNode:
			return types.NodeID(off), nil
		default:
			return 0, wrapFormatErr(fmt.Errorf("root: %v: %w", rec.Token, format.ErrBadToken))
		}
	}
}

func badOffset(id types.NodeID) error {
	return &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("offset 0x%x is not a node", uint32(id)),
	}
}

func wrapIOErr(err error) error {
	return &types.Error{Kind: types.ErrKindState, Msg: "i/o", Err: err}
}

func wrapFormatErr(err error) error {
	switch {
	case errors.Is(err, format.ErrSignatureMismatch):
		return types.ErrNotDTB
	case errors.Is(err, format.ErrUnsupported):
		return &types.Error{Kind: types.ErrKindUnsupported, Msg: "device tree version", Err: err}
	case errors.Is(err, format.ErrTruncated):
		return &types.Error{Kind: types.ErrKindFormat, Msg: "device tree truncated", Err: err}
	default:
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: "device tree structure", Err: err}
	}
}
