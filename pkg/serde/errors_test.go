package serde

import (
	"errors"
	"fmt"
	"testing"
)

func TestEncodeError(t *testing.T) {
	err := NewEncodeError(ShapeI128, fmt.Errorf("%w: no 128-bit integers", ErrUnsupportedShape))

	if !errors.Is(err, ErrUnsupportedShape) {
		t.Error("EncodeError must unwrap to its sentinel")
	}

	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatal("errors.As failed for *EncodeError")
	}
	if ee.Shape != ShapeI128 {
		t.Errorf("Shape = %s, want i128", ee.Shape)
	}
	if got := err.Error(); got != "encode i128: shape not representable in target format: no 128-bit integers" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		is     error
		want   string
		offset int
	}{
		{
			name:   "with offset",
			err:    NewDecodeError(ShapeBool, 7, ErrTruncatedInput),
			is:     ErrTruncatedInput,
			want:   "decode bool at offset 7: unexpected end of input",
			offset: 7,
		},
		{
			name:   "offset unknown",
			err:    NewDecodeError(ShapeMap, -1, ErrSyntax),
			is:     ErrSyntax,
			want:   "decode map: malformed input",
			offset: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.is) {
				t.Error("DecodeError must unwrap to its sentinel")
			}
			var de *DecodeError
			if !errors.As(tt.err, &de) {
				t.Fatal("errors.As failed for *DecodeError")
			}
			if de.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", de.Offset, tt.offset)
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnexpectedError(t *testing.T) {
	err := NewUnexpectedError(ShapeSeq, "a boolean")

	if !errors.Is(err, ErrUnexpectedShape) {
		t.Error("UnexpectedError must unwrap to ErrUnexpectedShape")
	}

	var ue *UnexpectedError
	if !errors.As(err, &ue) {
		t.Fatal("errors.As failed for *UnexpectedError")
	}
	if ue.Got != ShapeSeq {
		t.Errorf("Got = %s, want seq", ue.Got)
	}
	if got := err.Error(); got != "unexpected shape: got seq, expected a boolean" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSentinelsDistinct(t *testing.T) {
	sentinels := []error{
		ErrUnsupportedShape,
		ErrTruncatedInput,
		ErrSyntax,
		ErrValueOutOfRange,
		ErrLengthMismatch,
		ErrTrailingEntries,
		ErrUnknownVariant,
		ErrUnexpectedShape,
		ErrBorrowUnsupported,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d matches sentinel %d", i, j)
			}
		}
	}
}
