// Package errs defines the frozen status codes shared across the codec
// runtime and a small wrapping helper that keeps them compatible with
// errors.Is/errors.As while still carrying the original numeric code.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is the frozen numeric status enum described by the runtime's
// external interface contract. Values are never renumbered once released.
type Status int

// Status values. The numeric groupings (I/O around 16, image around 100,
// codec around 301, state-machine around 403) are preserved from the
// originating specification and must not change.
const (
	OK Status = 0

	// I/O family.
	EOF                    Status = 16
	ReadIO                 Status = 17
	WriteIO                Status = 18
	SeekIO                 Status = 19
	TellIO                 Status = 20
	UnsupportedSeekWhence  Status = 21

	// Image family.
	IncorrectImageDimensions Status = 100
	UnsupportedPixelFormat   Status = 101
	UnsupportedBitDepth      Status = 102
	UnsupportedCompression   Status = 103
	BrokenImage              Status = 104
	NoMoreFrames             Status = 105
	MissingPalette           Status = 106

	// Codec family.
	CodecNotFound   Status = 301
	CodecLoadError  Status = 302
	UnderlyingCodec Status = 303

	// State-machine family.
	ConflictingOperation Status = 403

	// Misc.
	NotImplemented   Status = 500
	InvalidArgument  Status = 501
	MemoryAllocation Status = 502
)

var names = map[Status]string{
	OK:                       "OK",
	EOF:                      "EOF",
	ReadIO:                   "READ_IO",
	WriteIO:                  "WRITE_IO",
	SeekIO:                   "SEEK_IO",
	TellIO:                   "TELL_IO",
	UnsupportedSeekWhence:    "UNSUPPORTED_SEEK_WHENCE",
	IncorrectImageDimensions: "INCORRECT_IMAGE_DIMENSIONS",
	UnsupportedPixelFormat:   "UNSUPPORTED_PIXEL_FORMAT",
	UnsupportedBitDepth:      "UNSUPPORTED_BIT_DEPTH",
	UnsupportedCompression:   "UNSUPPORTED_COMPRESSION",
	BrokenImage:              "BROKEN_IMAGE",
	NoMoreFrames:             "NO_MORE_FRAMES",
	MissingPalette:           "MISSING_PALETTE",
	CodecNotFound:            "CODEC_NOT_FOUND",
	CodecLoadError:           "CODEC_LOAD_ERROR",
	UnderlyingCodec:          "UNDERLYING_CODEC",
	ConflictingOperation:     "CONFLICTING_OPERATION",
	NotImplemented:           "NOT_IMPLEMENTED",
	InvalidArgument:          "INVALID_ARGUMENT",
	MemoryAllocation:         "MEMORY_ALLOCATION",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

// Error is a status code carrying the operation it occurred in and,
// optionally, the underlying cause.
type Error struct {
	Status Status
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Status, so that
// errors.Is(err, errs.New(errs.NoMoreFrames, "", nil)) works for sentinel
// comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status
}

// New constructs an *Error, wrapping err with github.com/pkg/errors so that
// stack traces and Cause() keep working for callers that use that package.
func New(status Status, op string, err error) *Error {
	if err != nil {
		err = errors.Wrap(err, op)
	}
	return &Error{Status: status, Op: op, Err: err}
}

// Sentinel returns a comparable *Error suitable for errors.Is checks, with
// no wrapped cause and no op (e.g. errs.Sentinel(errs.NoMoreFrames)).
func Sentinel(status Status) *Error {
	return &Error{Status: status}
}
