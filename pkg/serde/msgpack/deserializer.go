package msgpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/nimburion/serde/pkg/serde"
)

// Deserializer is the MessagePack consumer. The format is
// self-describing, so DeserializeAny classifies the next code byte and
// dispatches. The decoder buffers its reads internally, which makes
// byte offsets unavailable; every error reports offset -1.
type Deserializer struct {
	dec *msgpack.Decoder
}

var _ serde.Deserializer = (*Deserializer)(nil)

// NewDeserializer returns a consumer over data.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{dec: msgpack.NewDecoder(bytes.NewReader(data))}
}

// End verifies the whole input was consumed.
func (d *Deserializer) End() error {
	if _, err := d.dec.PeekCode(); err == nil {
		return serde.NewDecodeError(serde.ShapeAny, -1,
			fmt.Errorf("%w: trailing data", serde.ErrSyntax))
	} else if !errors.Is(err, io.EOF) {
		return d.fail(serde.ShapeAny, err)
	}
	return nil
}

func (d *Deserializer) fail(shape serde.Shape, err error) error {
	var de *serde.DecodeError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return serde.NewDecodeError(shape, -1, serde.ErrTruncatedInput)
	}
	return serde.NewDecodeError(shape, -1, fmt.Errorf("%w: %v", serde.ErrSyntax, err))
}

func (d *Deserializer) peek(shape serde.Shape) (byte, error) {
	c, err := d.dec.PeekCode()
	if err != nil {
		return 0, d.fail(shape, err)
	}
	return c, nil
}

func (d *Deserializer) decodeInt(shape serde.Shape, min, max int64) (int64, error) {
	n, err := d.dec.DecodeInt64()
	if err != nil {
		return 0, d.fail(shape, err)
	}
	if n < min || n > max {
		return 0, serde.NewDecodeError(shape, -1,
			fmt.Errorf("%w: %d", serde.ErrValueOutOfRange, n))
	}
	return n, nil
}

func (d *Deserializer) decodeUint(shape serde.Shape, max uint64) (uint64, error) {
	n, err := d.dec.DecodeUint64()
	if err != nil {
		return 0, d.fail(shape, err)
	}
	if n > max {
		return 0, serde.NewDecodeError(shape, -1,
			fmt.Errorf("%w: %d", serde.ErrValueOutOfRange, n))
	}
	return n, nil
}

func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	c, err := d.peek(serde.ShapeAny)
	if err != nil {
		return nil, err
	}
	switch {
	case c == msgpcode.Nil:
		if err := d.dec.DecodeNil(); err != nil {
			return nil, d.fail(serde.ShapeAny, err)
		}
		return v.VisitUnit()
	case c == msgpcode.True, c == msgpcode.False:
		return d.DeserializeBool(v)
	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		n, err := d.dec.DecodeInt64()
		if err != nil {
			return nil, d.fail(serde.ShapeAny, err)
		}
		return v.VisitI64(n)
	case c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64:
		n, err := d.dec.DecodeUint64()
		if err != nil {
			return nil, d.fail(serde.ShapeAny, err)
		}
		return v.VisitU64(n)
	case c == msgpcode.Float:
		return d.DeserializeF32(v)
	case c == msgpcode.Double:
		return d.DeserializeF64(v)
	case msgpcode.IsString(c):
		return d.DeserializeString(v)
	case msgpcode.IsBin(c):
		return d.DeserializeBytes(v)
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		return d.DeserializeSeq(v)
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		return d.DeserializeMap(v)
	}
	return nil, serde.NewDecodeError(serde.ShapeAny, -1,
		fmt.Errorf("%w: unhandled code 0x%02x", serde.ErrSyntax, c))
}

func (d *Deserializer) DeserializeBool(v serde.Visitor) (any, error) {
	b, err := d.dec.DecodeBool()
	if err != nil {
		return nil, d.fail(serde.ShapeBool, err)
	}
	return v.VisitBool(b)
}

func (d *Deserializer) DeserializeI8(v serde.Visitor) (any, error) {
	n, err := d.decodeInt(serde.ShapeI8, math.MinInt8, math.MaxInt8)
	if err != nil {
		return nil, err
	}
	return v.VisitI8(int8(n))
}

func (d *Deserializer) DeserializeI16(v serde.Visitor) (any, error) {
	n, err := d.decodeInt(serde.ShapeI16, math.MinInt16, math.MaxInt16)
	if err != nil {
		return nil, err
	}
	return v.VisitI16(int16(n))
}

func (d *Deserializer) DeserializeI32(v serde.Visitor) (any, error) {
	n, err := d.decodeInt(serde.ShapeI32, math.MinInt32, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	return v.VisitI32(int32(n))
}

func (d *Deserializer) DeserializeI64(v serde.Visitor) (any, error) {
	n, err := d.dec.DecodeInt64()
	if err != nil {
		return nil, d.fail(serde.ShapeI64, err)
	}
	return v.VisitI64(n)
}

func (d *Deserializer) DeserializeI128(v serde.Visitor) (any, error) {
	return nil, serde.NewDecodeError(serde.ShapeI128, -1,
		fmt.Errorf("%w: MessagePack has no 128-bit integers", serde.ErrUnsupportedShape))
}

func (d *Deserializer) DeserializeU8(v serde.Visitor) (any, error) {
	n, err := d.decodeUint(serde.ShapeU8, math.MaxUint8)
	if err != nil {
		return nil, err
	}
	return v.VisitU8(uint8(n))
}

func (d *Deserializer) DeserializeU16(v serde.Visitor) (any, error) {
	n, err := d.decodeUint(serde.ShapeU16, math.MaxUint16)
	if err != nil {
		return nil, err
	}
	return v.VisitU16(uint16(n))
}

func (d *Deserializer) DeserializeU32(v serde.Visitor) (any, error) {
	n, err := d.decodeUint(serde.ShapeU32, math.MaxUint32)
	if err != nil {
		return nil, err
	}
	return v.VisitU32(uint32(n))
}

func (d *Deserializer) DeserializeU64(v serde.Visitor) (any, error) {
	n, err := d.dec.DecodeUint64()
	if err != nil {
		return nil, d.fail(serde.ShapeU64, err)
	}
	return v.VisitU64(n)
}

func (d *Deserializer) DeserializeU128(v serde.Visitor) (any, error) {
	return nil, serde.NewDecodeError(serde.ShapeU128, -1,
		fmt.Errorf("%w: MessagePack has no 128-bit integers", serde.ErrUnsupportedShape))
}

func (d *Deserializer) DeserializeF32(v serde.Visitor) (any, error) {
	f, err := d.dec.DecodeFloat32()
	if err != nil {
		return nil, d.fail(serde.ShapeF32, err)
	}
	return v.VisitF32(f)
}

func (d *Deserializer) DeserializeF64(v serde.Visitor) (any, error) {
	f, err := d.dec.DecodeFloat64()
	if err != nil {
		return nil, d.fail(serde.ShapeF64, err)
	}
	return v.VisitF64(f)
}

func (d *Deserializer) DeserializeChar(v serde.Visitor) (any, error) {
	s, err := d.dec.DecodeString()
	if err != nil {
		return nil, d.fail(serde.ShapeChar, err)
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return nil, serde.NewDecodeError(serde.ShapeChar, -1,
			fmt.Errorf("%w: expected a single rune, got %q", serde.ErrSyntax, s))
	}
	return v.VisitChar(r)
}

func (d *Deserializer) DeserializeString(v serde.Visitor) (any, error) {
	s, err := d.dec.DecodeString()
	if err != nil {
		return nil, d.fail(serde.ShapeString, err)
	}
	return v.VisitString(s)
}

func (d *Deserializer) DeserializeBytes(v serde.Visitor) (any, error) {
	b, err := d.dec.DecodeBytes()
	if err != nil {
		return nil, d.fail(serde.ShapeBytes, err)
	}
	return v.VisitByteBuf(b)
}

func (d *Deserializer) DeserializeOption(v serde.Visitor) (any, error) {
	c, err := d.peek(serde.ShapeOption)
	if err != nil {
		return nil, err
	}
	if c == msgpcode.Nil {
		if err := d.dec.DecodeNil(); err != nil {
			return nil, d.fail(serde.ShapeOption, err)
		}
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

func (d *Deserializer) deserializeNil(shape serde.Shape, v serde.Visitor) (any, error) {
	if err := d.dec.DecodeNil(); err != nil {
		return nil, d.fail(shape, err)
	}
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeUnit(v serde.Visitor) (any, error) {
	return d.deserializeNil(serde.ShapeUnit, v)
}

func (d *Deserializer) DeserializeUnitStruct(_ string, v serde.Visitor) (any, error) {
	return d.deserializeNil(serde.ShapeUnitStruct, v)
}

func (d *Deserializer) DeserializeNewtypeStruct(_ string, v serde.Visitor) (any, error) {
	return v.VisitNewtypeStruct(d)
}

func (d *Deserializer) arrayLen(shape serde.Shape) (int, error) {
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return 0, d.fail(shape, err)
	}
	if n < 0 {
		return 0, serde.NewDecodeError(shape, -1,
			fmt.Errorf("%w: expected an array, found nil", serde.ErrSyntax))
	}
	return n, nil
}

func (d *Deserializer) visitCounted(shape serde.Shape, count int, v serde.Visitor) (any, error) {
	sa := &seqAccess{d: d, remaining: count}
	out, err := v.VisitSeq(sa)
	if err != nil {
		return nil, err
	}
	if !sa.done {
		return nil, serde.NewDecodeError(shape, -1, serde.ErrTrailingEntries)
	}
	return out, nil
}

func (d *Deserializer) deserializeFixedSeq(shape serde.Shape, length int, v serde.Visitor) (any, error) {
	n, err := d.arrayLen(shape)
	if err != nil {
		return nil, err
	}
	if n != length {
		return nil, serde.NewDecodeError(shape, -1,
			fmt.Errorf("%w: declared %d, expected %d", serde.ErrLengthMismatch, n, length))
	}
	return d.visitCounted(shape, n, v)
}

func (d *Deserializer) DeserializeSeq(v serde.Visitor) (any, error) {
	n, err := d.arrayLen(serde.ShapeSeq)
	if err != nil {
		return nil, err
	}
	return d.visitCounted(serde.ShapeSeq, n, v)
}

func (d *Deserializer) DeserializeTuple(length int, v serde.Visitor) (any, error) {
	return d.deserializeFixedSeq(serde.ShapeTuple, length, v)
}

func (d *Deserializer) DeserializeTupleStruct(_ string, length int, v serde.Visitor) (any, error) {
	return d.deserializeFixedSeq(serde.ShapeTupleStruct, length, v)
}

func (d *Deserializer) mapLen(shape serde.Shape) (int, error) {
	n, err := d.dec.DecodeMapLen()
	if err != nil {
		return 0, d.fail(shape, err)
	}
	if n < 0 {
		return 0, serde.NewDecodeError(shape, -1,
			fmt.Errorf("%w: expected a map, found nil", serde.ErrSyntax))
	}
	return n, nil
}

func (d *Deserializer) visitMap(shape serde.Shape, v serde.Visitor) (any, error) {
	n, err := d.mapLen(shape)
	if err != nil {
		return nil, err
	}
	ma := &mapAccess{d: d, remaining: n}
	out, err := v.VisitMap(ma)
	if err != nil {
		return nil, err
	}
	if !ma.done {
		return nil, serde.NewDecodeError(shape, -1, serde.ErrTrailingEntries)
	}
	return out, nil
}

func (d *Deserializer) DeserializeMap(v serde.Visitor) (any, error) {
	return d.visitMap(serde.ShapeMap, v)
}

func (d *Deserializer) DeserializeStruct(_ string, _ []string, v serde.Visitor) (any, error) {
	// Structs travel as maps keyed by field name.
	return d.visitMap(serde.ShapeStruct, v)
}

func (d *Deserializer) DeserializeEnum(name string, variants []string, v serde.Visitor) (any, error) {
	c, err := d.peek(serde.ShapeUnitVariant)
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsString(c):
		variant, err := d.dec.DecodeString()
		if err != nil {
			return nil, d.fail(serde.ShapeUnitVariant, err)
		}
		if len(variants) > 0 && !contains(variants, variant) {
			return nil, serde.NewDecodeError(serde.ShapeUnitVariant, -1,
				fmt.Errorf("%w: %q is not a variant of %q", serde.ErrUnknownVariant, variant, name))
		}
		return v.VisitEnum(&enumAccess{d: d, variant: variant})
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := d.mapLen(serde.ShapeUnitVariant)
		if err != nil {
			return nil, err
		}
		if n != 1 {
			return nil, serde.NewDecodeError(serde.ShapeUnitVariant, -1,
				fmt.Errorf("%w: variant map has %d entries, expected 1", serde.ErrSyntax, n))
		}
		variant, err := d.dec.DecodeString()
		if err != nil {
			return nil, d.fail(serde.ShapeUnitVariant, err)
		}
		if len(variants) > 0 && !contains(variants, variant) {
			return nil, serde.NewDecodeError(serde.ShapeUnitVariant, -1,
				fmt.Errorf("%w: %q is not a variant of %q", serde.ErrUnknownVariant, variant, name))
		}
		return v.VisitEnum(&enumAccess{d: d, variant: variant, tagged: true})
	}
	return nil, serde.NewDecodeError(serde.ShapeUnitVariant, -1,
		fmt.Errorf("%w: expected string or map for enum, found code 0x%02x", serde.ErrSyntax, c))
}

func (d *Deserializer) IsHumanReadable() bool { return false }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type seqAccess struct {
	d         *Deserializer
	remaining int
	done      bool
}

func (a *seqAccess) NextElement(f serde.DeserializeFunc) (any, bool, error) {
	if a.done {
		return nil, false, nil
	}
	if a.remaining == 0 {
		a.done = true
		return nil, false, nil
	}
	a.remaining--
	val, err := f(a.d)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (a *seqAccess) SizeHint() int { return a.remaining }

type mapAccess struct {
	d         *Deserializer
	remaining int
	done      bool
	pending   bool
}

func (a *mapAccess) NextKey(f serde.DeserializeFunc) (any, bool, error) {
	if a.done {
		return nil, false, nil
	}
	if a.remaining == 0 {
		a.done = true
		return nil, false, nil
	}
	a.remaining--
	a.pending = true
	key, err := f(a.d)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func (a *mapAccess) NextValue(f serde.DeserializeFunc) (any, error) {
	if !a.pending {
		return nil, serde.NewDecodeError(serde.ShapeMap, -1,
			fmt.Errorf("%w: value requested without a key", serde.ErrSyntax))
	}
	a.pending = false
	return f(a.d)
}

func (a *mapAccess) SizeHint() int { return a.remaining }

type enumAccess struct {
	d       *Deserializer
	variant string
	tagged  bool
}

func (e *enumAccess) Variant() (string, uint32, serde.VariantAccess, error) {
	// The wire carries names, not indices.
	return e.variant, 0, &variantAccess{d: e.d, tagged: e.tagged}, nil
}

type variantAccess struct {
	d      *Deserializer
	tagged bool
}

func (va *variantAccess) UnitVariant() error {
	if !va.tagged {
		return nil
	}
	if err := va.d.dec.DecodeNil(); err != nil {
		return va.d.fail(serde.ShapeUnitVariant, err)
	}
	return nil
}

func (va *variantAccess) NewtypeVariant(f serde.DeserializeFunc) (any, error) {
	if !va.tagged {
		return nil, serde.NewDecodeError(serde.ShapeNewtypeVariant, -1,
			fmt.Errorf("%w: string variant carries no payload", serde.ErrSyntax))
	}
	return f(va.d)
}

func (va *variantAccess) TupleVariant(length int, v serde.Visitor) (any, error) {
	if !va.tagged {
		return nil, serde.NewDecodeError(serde.ShapeTupleVariant, -1,
			fmt.Errorf("%w: string variant carries no payload", serde.ErrSyntax))
	}
	return va.d.deserializeFixedSeq(serde.ShapeTupleVariant, length, v)
}

func (va *variantAccess) StructVariant(_ []string, v serde.Visitor) (any, error) {
	if !va.tagged {
		return nil, serde.NewDecodeError(serde.ShapeStructVariant, -1,
			fmt.Errorf("%w: string variant carries no payload", serde.ErrSyntax))
	}
	return va.d.visitMap(serde.ShapeStructVariant, v)
}
