package serdetest

import (
	"fmt"

	"github.com/nimburion/serde/pkg/serde"
)

// Deserializer replays a token stream as a self-describing input. Error
// offsets are token indices. Composite sessions reject entries the
// visitor leaves unconsumed.
type Deserializer struct {
	tokens []Token
	pos    int
}

var _ serde.Deserializer = (*Deserializer)(nil)

// NewDeserializer returns a deserializer over the given stream.
func NewDeserializer(tokens ...Token) *Deserializer {
	return &Deserializer{tokens: tokens}
}

// Remaining returns the number of unconsumed tokens. Tests use it to
// assert the whole input was read.
func (d *Deserializer) Remaining() int {
	return len(d.tokens) - d.pos
}

func (d *Deserializer) next(expected serde.Shape) (Token, error) {
	if d.pos >= len(d.tokens) {
		return Token{}, serde.NewDecodeError(expected, d.pos, serde.ErrTruncatedInput)
	}
	t := d.tokens[d.pos]
	d.pos++
	return t, nil
}

func (d *Deserializer) peek() (Token, bool) {
	if d.pos >= len(d.tokens) {
		return Token{}, false
	}
	return d.tokens[d.pos], true
}

func (d *Deserializer) expect(k Kind, shape serde.Shape) (Token, error) {
	tok, err := d.next(shape)
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != k {
		return Token{}, serde.NewDecodeError(shape, d.pos-1,
			fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, tok.Kind))
	}
	return tok, nil
}

// dispatch fires the visitor method matching an already-consumed token.
func (d *Deserializer) dispatch(tok Token, v serde.Visitor) (any, error) {
	switch tok.Kind {
	case KindBool:
		return v.VisitBool(tok.Bool)
	case KindI8:
		return v.VisitI8(int8(tok.Int))
	case KindI16:
		return v.VisitI16(int16(tok.Int))
	case KindI32:
		return v.VisitI32(int32(tok.Int))
	case KindI64:
		return v.VisitI64(tok.Int)
	case KindI128:
		return v.VisitI128(tok.I128)
	case KindU8:
		return v.VisitU8(uint8(tok.Uint))
	case KindU16:
		return v.VisitU16(uint16(tok.Uint))
	case KindU32:
		return v.VisitU32(uint32(tok.Uint))
	case KindU64:
		return v.VisitU64(tok.Uint)
	case KindU128:
		return v.VisitU128(tok.U128)
	case KindF32:
		return v.VisitF32(float32(tok.Float))
	case KindF64:
		return v.VisitF64(tok.Float)
	case KindChar:
		return v.VisitChar(tok.Char)
	case KindStr:
		return v.VisitStr([]byte(tok.Str), serde.FlavorTransient)
	case KindBorrowedStr:
		return v.VisitStr([]byte(tok.Str), serde.FlavorBorrowed)
	case KindString:
		return v.VisitString(tok.Str)
	case KindBytes:
		return v.VisitBytes(tok.Bytes, serde.FlavorTransient)
	case KindBorrowedBytes:
		return v.VisitBytes(tok.Bytes, serde.FlavorBorrowed)
	case KindByteBuf:
		return v.VisitByteBuf(tok.Bytes)
	case KindNone:
		return v.VisitNone()
	case KindSome:
		return v.VisitSome(d)
	case KindUnit, KindUnitStruct:
		return v.VisitUnit()
	case KindNewtypeStruct:
		return v.VisitNewtypeStruct(d)
	case KindSeq:
		return d.visitSeq(KindSeqEnd, tok.Len, serde.ShapeSeq, v)
	case KindTuple:
		return d.visitSeq(KindTupleEnd, tok.Len, serde.ShapeTuple, v)
	case KindTupleStruct:
		return d.visitSeq(KindTupleStructEnd, tok.Len, serde.ShapeTupleStruct, v)
	case KindMap:
		return d.visitMap(KindMapEnd, tok.Len, serde.ShapeMap, v)
	case KindStruct:
		return d.visitMap(KindStructEnd, tok.Len, serde.ShapeStruct, v)
	case KindUnitVariant, KindNewtypeVariant, KindTupleVariant, KindStructVariant:
		return v.VisitEnum(&enumAccess{d: d, tok: tok})
	default:
		return nil, serde.NewDecodeError(serde.ShapeAny, d.pos-1,
			fmt.Errorf("%w: stray %s token", serde.ErrSyntax, tok.Kind))
	}
}

func (d *Deserializer) visitSeq(end Kind, size int, shape serde.Shape, v serde.Visitor) (any, error) {
	sa := &seqAccess{d: d, end: end, remaining: size}
	out, err := v.VisitSeq(sa)
	if err != nil {
		return nil, err
	}
	if !sa.done {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTrailingEntries)
	}
	return out, nil
}

func (d *Deserializer) visitMap(end Kind, size int, shape serde.Shape, v serde.Visitor) (any, error) {
	ma := &mapAccess{d: d, end: end, remaining: size}
	out, err := v.VisitMap(ma)
	if err != nil {
		return nil, err
	}
	if !ma.done {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTrailingEntries)
	}
	return out, nil
}

func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	tok, err := d.next(serde.ShapeAny)
	if err != nil {
		return nil, err
	}
	return d.dispatch(tok, v)
}

func (d *Deserializer) DeserializeBool(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindBool, serde.ShapeBool)
	if err != nil {
		return nil, err
	}
	return v.VisitBool(tok.Bool)
}

func (d *Deserializer) DeserializeI8(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindI8, serde.ShapeI8)
	if err != nil {
		return nil, err
	}
	return v.VisitI8(int8(tok.Int))
}

func (d *Deserializer) DeserializeI16(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindI16, serde.ShapeI16)
	if err != nil {
		return nil, err
	}
	return v.VisitI16(int16(tok.Int))
}

func (d *Deserializer) DeserializeI32(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindI32, serde.ShapeI32)
	if err != nil {
		return nil, err
	}
	return v.VisitI32(int32(tok.Int))
}

func (d *Deserializer) DeserializeI64(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindI64, serde.ShapeI64)
	if err != nil {
		return nil, err
	}
	return v.VisitI64(tok.Int)
}

func (d *Deserializer) DeserializeI128(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindI128, serde.ShapeI128)
	if err != nil {
		return nil, err
	}
	return v.VisitI128(tok.I128)
}

func (d *Deserializer) DeserializeU8(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindU8, serde.ShapeU8)
	if err != nil {
		return nil, err
	}
	return v.VisitU8(uint8(tok.Uint))
}

func (d *Deserializer) DeserializeU16(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindU16, serde.ShapeU16)
	if err != nil {
		return nil, err
	}
	return v.VisitU16(uint16(tok.Uint))
}

func (d *Deserializer) DeserializeU32(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindU32, serde.ShapeU32)
	if err != nil {
		return nil, err
	}
	return v.VisitU32(uint32(tok.Uint))
}

func (d *Deserializer) DeserializeU64(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindU64, serde.ShapeU64)
	if err != nil {
		return nil, err
	}
	return v.VisitU64(tok.Uint)
}

func (d *Deserializer) DeserializeU128(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindU128, serde.ShapeU128)
	if err != nil {
		return nil, err
	}
	return v.VisitU128(tok.U128)
}

func (d *Deserializer) DeserializeF32(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindF32, serde.ShapeF32)
	if err != nil {
		return nil, err
	}
	return v.VisitF32(float32(tok.Float))
}

func (d *Deserializer) DeserializeF64(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindF64, serde.ShapeF64)
	if err != nil {
		return nil, err
	}
	return v.VisitF64(tok.Float)
}

func (d *Deserializer) DeserializeChar(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindChar, serde.ShapeChar)
	if err != nil {
		return nil, err
	}
	return v.VisitChar(tok.Char)
}

func (d *Deserializer) DeserializeString(v serde.Visitor) (any, error) {
	tok, err := d.next(serde.ShapeString)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case KindStr, KindBorrowedStr, KindString:
		return d.dispatch(tok, v)
	}
	return nil, serde.NewDecodeError(serde.ShapeString, d.pos-1,
		fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, tok.Kind))
}

func (d *Deserializer) DeserializeBytes(v serde.Visitor) (any, error) {
	tok, err := d.next(serde.ShapeBytes)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case KindBytes, KindBorrowedBytes, KindByteBuf:
		return d.dispatch(tok, v)
	}
	return nil, serde.NewDecodeError(serde.ShapeBytes, d.pos-1,
		fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, tok.Kind))
}

func (d *Deserializer) DeserializeOption(v serde.Visitor) (any, error) {
	tok, err := d.next(serde.ShapeOption)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case KindNone:
		return v.VisitNone()
	case KindSome:
		return v.VisitSome(d)
	}
	return nil, serde.NewDecodeError(serde.ShapeOption, d.pos-1,
		fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, tok.Kind))
}

func (d *Deserializer) DeserializeUnit(v serde.Visitor) (any, error) {
	if _, err := d.expect(KindUnit, serde.ShapeUnit); err != nil {
		return nil, err
	}
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeUnitStruct(name string, v serde.Visitor) (any, error) {
	tok, err := d.expect(KindUnitStruct, serde.ShapeUnitStruct)
	if err != nil {
		return nil, err
	}
	if tok.Name != name {
		return nil, serde.NewDecodeError(serde.ShapeUnitStruct, d.pos-1,
			fmt.Errorf("%w: unit struct %q, want %q", serde.ErrUnexpectedShape, tok.Name, name))
	}
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeNewtypeStruct(name string, v serde.Visitor) (any, error) {
	tok, err := d.expect(KindNewtypeStruct, serde.ShapeNewtypeStruct)
	if err != nil {
		return nil, err
	}
	if tok.Name != name {
		return nil, serde.NewDecodeError(serde.ShapeNewtypeStruct, d.pos-1,
			fmt.Errorf("%w: newtype struct %q, want %q", serde.ErrUnexpectedShape, tok.Name, name))
	}
	return v.VisitNewtypeStruct(d)
}

func (d *Deserializer) DeserializeSeq(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindSeq, serde.ShapeSeq)
	if err != nil {
		return nil, err
	}
	return d.visitSeq(KindSeqEnd, tok.Len, serde.ShapeSeq, v)
}

func (d *Deserializer) DeserializeTuple(length int, v serde.Visitor) (any, error) {
	tok, err := d.expect(KindTuple, serde.ShapeTuple)
	if err != nil {
		return nil, err
	}
	if tok.Len != length {
		return nil, serde.NewDecodeError(serde.ShapeTuple, d.pos-1,
			fmt.Errorf("%w: input has %d elements, tuple declares %d", serde.ErrLengthMismatch, tok.Len, length))
	}
	return d.visitSeq(KindTupleEnd, length, serde.ShapeTuple, v)
}

func (d *Deserializer) DeserializeTupleStruct(name string, length int, v serde.Visitor) (any, error) {
	tok, err := d.expect(KindTupleStruct, serde.ShapeTupleStruct)
	if err != nil {
		return nil, err
	}
	if tok.Name != name {
		return nil, serde.NewDecodeError(serde.ShapeTupleStruct, d.pos-1,
			fmt.Errorf("%w: tuple struct %q, want %q", serde.ErrUnexpectedShape, tok.Name, name))
	}
	if tok.Len != length {
		return nil, serde.NewDecodeError(serde.ShapeTupleStruct, d.pos-1,
			fmt.Errorf("%w: input has %d elements, tuple struct declares %d", serde.ErrLengthMismatch, tok.Len, length))
	}
	return d.visitSeq(KindTupleStructEnd, length, serde.ShapeTupleStruct, v)
}

func (d *Deserializer) DeserializeMap(v serde.Visitor) (any, error) {
	tok, err := d.expect(KindMap, serde.ShapeMap)
	if err != nil {
		return nil, err
	}
	return d.visitMap(KindMapEnd, tok.Len, serde.ShapeMap, v)
}

func (d *Deserializer) DeserializeStruct(name string, fields []string, v serde.Visitor) (any, error) {
	tok, err := d.expect(KindStruct, serde.ShapeStruct)
	if err != nil {
		return nil, err
	}
	if tok.Name != name {
		return nil, serde.NewDecodeError(serde.ShapeStruct, d.pos-1,
			fmt.Errorf("%w: struct %q, want %q", serde.ErrUnexpectedShape, tok.Name, name))
	}
	return d.visitMap(KindStructEnd, tok.Len, serde.ShapeStruct, v)
}

func (d *Deserializer) DeserializeEnum(name string, variants []string, v serde.Visitor) (any, error) {
	tok, err := d.next(serde.ShapeUnitVariant)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case KindUnitVariant, KindNewtypeVariant, KindTupleVariant, KindStructVariant:
	default:
		return nil, serde.NewDecodeError(serde.ShapeUnitVariant, d.pos-1,
			fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, tok.Kind))
	}
	if tok.Name != name {
		return nil, serde.NewDecodeError(serde.ShapeUnitVariant, d.pos-1,
			fmt.Errorf("%w: enum %q, want %q", serde.ErrUnexpectedShape, tok.Name, name))
	}
	if len(variants) > 0 && !contains(variants, tok.Variant) {
		return nil, serde.NewDecodeError(serde.ShapeUnitVariant, d.pos-1,
			fmt.Errorf("%w: %q is not a variant of %q", serde.ErrUnknownVariant, tok.Variant, name))
	}
	return v.VisitEnum(&enumAccess{d: d, tok: tok})
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
	end       Kind
	remaining int
	done      bool
}

func (a *seqAccess) NextElement(f serde.DeserializeFunc) (any, bool, error) {
	if a.done {
		return nil, false, nil
	}
	tok, ok := a.d.peek()
	if !ok {
		return nil, false, serde.NewDecodeError(serde.ShapeSeq, a.d.pos, serde.ErrTruncatedInput)
	}
	if tok.Kind == a.end {
		a.d.pos++
		a.done = true
		return nil, false, nil
	}
	if a.remaining > 0 {
		a.remaining--
	}
	val, err := f(a.d)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (a *seqAccess) SizeHint() int { return a.remaining }

type mapAccess struct {
	d         *Deserializer
	end       Kind
	remaining int
	done      bool
	pending   bool
}

func (a *mapAccess) NextKey(f serde.DeserializeFunc) (any, bool, error) {
	if a.done {
		return nil, false, nil
	}
	tok, ok := a.d.peek()
	if !ok {
		return nil, false, serde.NewDecodeError(serde.ShapeMap, a.d.pos, serde.ErrTruncatedInput)
	}
	if tok.Kind == a.end {
		a.d.pos++
		a.done = true
		return nil, false, nil
	}
	if a.remaining > 0 {
		a.remaining--
	}
	a.pending = true
	key, err := f(a.d)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func (a *mapAccess) NextValue(f serde.DeserializeFunc) (any, error) {
	if a.done {
		return nil, serde.NewDecodeError(serde.ShapeMap, a.d.pos,
			fmt.Errorf("%w: value requested after end of map", serde.ErrSyntax))
	}
	if !a.pending {
		return nil, serde.NewDecodeError(serde.ShapeMap, a.d.pos,
			fmt.Errorf("%w: value requested without a key", serde.ErrSyntax))
	}
	a.pending = false
	return f(a.d)
}

func (a *mapAccess) SizeHint() int { return a.remaining }

type enumAccess struct {
	d   *Deserializer
	tok Token
}

func (e *enumAccess) Variant() (string, uint32, serde.VariantAccess, error) {
	return e.tok.Variant, e.tok.Index, &variantAccess{d: e.d, tok: e.tok}, nil
}

type variantAccess struct {
	d   *Deserializer
	tok Token
}

func (va *variantAccess) UnitVariant() error {
	if va.tok.Kind != KindUnitVariant {
		return serde.NewDecodeError(serde.ShapeUnitVariant, va.d.pos,
			fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, va.tok.Kind))
	}
	return nil
}

func (va *variantAccess) NewtypeVariant(f serde.DeserializeFunc) (any, error) {
	if va.tok.Kind != KindNewtypeVariant {
		return nil, serde.NewDecodeError(serde.ShapeNewtypeVariant, va.d.pos,
			fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, va.tok.Kind))
	}
	return f(va.d)
}

func (va *variantAccess) TupleVariant(length int, v serde.Visitor) (any, error) {
	if va.tok.Kind != KindTupleVariant {
		return nil, serde.NewDecodeError(serde.ShapeTupleVariant, va.d.pos,
			fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, va.tok.Kind))
	}
	if va.tok.Len != length {
		return nil, serde.NewDecodeError(serde.ShapeTupleVariant, va.d.pos,
			fmt.Errorf("%w: input has %d elements, variant declares %d", serde.ErrLengthMismatch, va.tok.Len, length))
	}
	return va.d.visitSeq(KindTupleVariantEnd, length, serde.ShapeTupleVariant, v)
}

func (va *variantAccess) StructVariant(fields []string, v serde.Visitor) (any, error) {
	if va.tok.Kind != KindStructVariant {
		return nil, serde.NewDecodeError(serde.ShapeStructVariant, va.d.pos,
			fmt.Errorf("%w: got %s", serde.ErrUnexpectedShape, va.tok.Kind))
	}
	return va.d.visitMap(KindStructVariantEnd, va.tok.Len, serde.ShapeStructVariant, v)
}
