package types

import "fmt"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed header or magic (not a DTB)
	ErrKindCorrupt                    // structural corruption (bad tokens, offsets, strings)
	ErrKindUnsupported                // valid blob in a version we don't support
	ErrKindNotFound                   // missing node or property
	ErrKindState                      // invalid operation for current state (e.g., closed)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindState:
		return "state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so wrapped errors satisfy
// errors.Is(err, types.ErrNotFound) regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotDTB indicates the input lacks a valid FDT header.
	ErrNotDTB = &Error{Kind: ErrKindFormat, Msg: "not a device tree blob (bad magic)"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt device tree structure"}
	// ErrUnsupported indicates a recognized but unsupported blob version.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported device tree version"}
	// ErrNotFound indicates a missing node or property. Navigation returns it
	// as the "no such node" signal; it is not a failure.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrClosed indicates use of a reader after Close.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "reader is closed"}
)

// -----------------------------------------------------------------------------
// Core Identifiers & Metadata
// -----------------------------------------------------------------------------

// NodeID is a small, copyable handle referring to a node. Implementations
// encode the offset of the node's FDT_BEGIN_NODE token within the structure
// block. Handles are only meaningful to the reader that produced them.
type NodeID uint32

// TreeInfo summarises the blob header.
type TreeInfo struct {
	TotalSize       uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	StructSize      uint32
	StringsSize     uint32
}

// Device is a node carrying a "compatible" property. Compatible keeps the
// on-disk order, conventionally most specific first.
type Device struct {
	Name       string
	Compatible []string
}

// -----------------------------------------------------------------------------
// Reader
// -----------------------------------------------------------------------------

// Navigator is the read-only tree access contract used by traversal code.
//
// FirstSubnode and NextSubnode return ErrNotFound when there is no such node;
// any other error means the structure could not be decoded.
type Navigator interface {
	// PathOffset resolves an absolute path ("/", "/soc/uart@1000") or an
	// alias-relative path ("serial0") to a node.
	PathOffset(path string) (NodeID, error)
	// FirstSubnode returns the first child of id.
	FirstSubnode(id NodeID) (NodeID, error)
	// NextSubnode returns the sibling following id.
	NextSubnode(id NodeID) (NodeID, error)
	// Prop returns the raw value of the named property. The slice aliases the
	// reader's buffer and must not be modified or retained after Close.
	Prop(id NodeID, name string) ([]byte, error)
	// Name returns the node's unit name; the root node's name is empty.
	Name(id NodeID) (string, error)
}

// Reader is a Navigator over an opened blob.
type Reader interface {
	Navigator
	Info() TreeInfo
	Close() error
}
