package serde

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Codecs wrap these with fmt.Errorf("%w: ...") or
// with the EncodeError/DecodeError structs below so callers can classify
// failures with errors.Is while still seeing format-specific detail.
var (
	// ErrUnsupportedShape is returned by a producer when the target format
	// cannot represent a shape (for example a format without 128-bit
	// integers).
	ErrUnsupportedShape = errors.New("shape not representable in target format")

	// ErrTruncatedInput is returned by a consumer when the input ends
	// before the expected shape is complete.
	ErrTruncatedInput = errors.New("unexpected end of input")

	// ErrSyntax is returned by a consumer when the input bytes are not
	// well formed for the format, independent of any expected shape.
	ErrSyntax = errors.New("malformed input")

	// ErrValueOutOfRange is returned by a consumer when the input holds a
	// syntactically valid number outside the range of the requested
	// primitive width.
	ErrValueOutOfRange = errors.New("value out of range for requested width")

	// ErrLengthMismatch is returned when a declared length hint does not
	// match the number of elements actually written or read.
	ErrLengthMismatch = errors.New("declared length does not match element count")

	// ErrTrailingEntries is returned when a visitor leaves entries of a
	// composite unconsumed, or the input carries more entries than the
	// fixed shape declares. Decoding never silently truncates or pads.
	ErrTrailingEntries = errors.New("unconsumed entries in composite value")

	// ErrUnknownVariant is returned when the input is syntactically valid
	// but names an enum variant the visitor does not recognize. It lets
	// callers tell "bad bytes" apart from "bytes were fine, semantically
	// unrecognized".
	ErrUnknownVariant = errors.New("unknown enum variant")

	// ErrUnexpectedShape is returned when a syntactically valid shape is
	// not one the visitor declared a capability for.
	ErrUnexpectedShape = errors.New("unexpected shape")

	// ErrBorrowUnsupported is returned when a visitor requires borrowed
	// data but the consumer can only offer transient extraction. The
	// decode fails instead of silently downgrading the lifetime.
	ErrBorrowUnsupported = errors.New("borrowed extraction not supported by input source")
)

// EncodeError is the producer failure family: the format could not
// represent a value, or writing it failed. Shape identifies the operation
// that was being performed.
type EncodeError struct {
	Shape Shape
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Shape, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// NewEncodeError wraps err as a producer failure at the given shape.
func NewEncodeError(shape Shape, err error) error {
	return &EncodeError{Shape: shape, Err: err}
}

// DecodeError is the consumer failure family: truncated or malformed
// input, an unexpected shape tag, or an out-of-range value. Expected is
// the shape the entry operation was waiting for; Offset is the byte
// position in the input at which the failure was detected, or -1 when the
// format cannot attribute a position.
type DecodeError struct {
	Expected Shape
	Offset   int
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("decode %s at offset %d: %v", e.Expected, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Expected, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError wraps err as a consumer failure for the given expected
// shape and input offset.
func NewDecodeError(expected Shape, offset int, err error) error {
	return &DecodeError{Expected: expected, Offset: offset, Err: err}
}

// UnexpectedError reports that a decode produced shape Got while the
// visitor was prepared for something else. Expecting is the visitor's own
// description of its capabilities.
type UnexpectedError struct {
	Got       Shape
	Expecting string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected shape: got %s, expected %s", e.Got, e.Expecting)
}

func (e *UnexpectedError) Unwrap() error { return ErrUnexpectedShape }

// NewUnexpectedError builds the failure a visitor default returns for a
// shape outside its capability set.
func NewUnexpectedError(got Shape, expecting string) error {
	return &UnexpectedError{Got: got, Expecting: expecting}
}
