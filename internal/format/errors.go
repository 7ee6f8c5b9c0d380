package format

import "errors"

var (
	// ErrSignatureMismatch indicates the header magic was not 0xd00dfeed.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadToken indicates an unknown tag or a tag where another was required.
	ErrBadToken = errors.New("format: unexpected structure token")
	// ErrBadLayout indicates header offsets or sizes that do not fit the blob.
	ErrBadLayout = errors.New("format: inconsistent block layout")
	// ErrUnsupported indicates a header version this decoder does not handle.
	ErrUnsupported = errors.New("format: unsupported version")
)
