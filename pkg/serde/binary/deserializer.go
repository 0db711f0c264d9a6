package binary

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/nimburion/serde/pkg/serde"
)

// Deserializer is the binary consumer. The format is not self-describing,
// so every entry operation trusts the caller's static expectation and
// DeserializeAny fails. Reads come from an in-memory buffer; string and
// byte extraction is borrowed, aliasing that buffer.
type Deserializer struct {
	data  []byte
	pos   int
	cfg   Config
	depth int
}

var _ serde.Deserializer = (*Deserializer)(nil)

// NewDeserializer returns a consumer over data with the default
// configuration.
func NewDeserializer(data []byte) *Deserializer {
	return NewDeserializerWithConfig(data, DefaultConfig())
}

// NewDeserializerWithConfig returns a consumer over data with explicit
// limits.
func NewDeserializerWithConfig(data []byte, cfg Config) *Deserializer {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	return &Deserializer{data: data, cfg: cfg}
}

// End verifies the whole input was consumed.
func (d *Deserializer) End() error {
	if d.pos != len(d.data) {
		return serde.NewDecodeError(serde.ShapeAny, d.pos,
			fmt.Errorf("%w: %d trailing bytes", serde.ErrSyntax, len(d.data)-d.pos))
	}
	return nil
}

func (d *Deserializer) take(n int, shape serde.Shape) ([]byte, error) {
	if len(d.data)-d.pos < n {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTruncatedInput)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Deserializer) readULEB(shape serde.Shape) (uint64, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		if n == 0 {
			return 0, serde.NewDecodeError(shape, d.pos, serde.ErrTruncatedInput)
		}
		return 0, serde.NewDecodeError(shape, d.pos,
			fmt.Errorf("%w: ULEB128 overflow", serde.ErrSyntax))
	}
	d.pos += n
	return v, nil
}

func (d *Deserializer) readLen(shape serde.Shape) (int, error) {
	v, err := d.readULEB(shape)
	if err != nil {
		return 0, err
	}
	// A declared length can never exceed the bytes left in the buffer.
	if v > uint64(len(d.data)-d.pos) {
		return 0, serde.NewDecodeError(shape, d.pos,
			fmt.Errorf("%w: declared length %d exceeds remaining input", serde.ErrSyntax, v))
	}
	return int(v), nil
}

func (d *Deserializer) enter(shape serde.Shape) error {
	d.depth++
	if d.depth > d.cfg.MaxDepth {
		return serde.NewDecodeError(shape, d.pos,
			fmt.Errorf("%w: nesting exceeds %d levels", serde.ErrSyntax, d.cfg.MaxDepth))
	}
	return nil
}

func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return nil, serde.NewDecodeError(serde.ShapeAny, d.pos,
		fmt.Errorf("%w: format is not self-describing", serde.ErrUnsupportedShape))
}

func (d *Deserializer) DeserializeBool(v serde.Visitor) (any, error) {
	b, err := d.take(1, serde.ShapeBool)
	if err != nil {
		return nil, err
	}
	switch b[0] {
	case 0:
		return v.VisitBool(false)
	case 1:
		return v.VisitBool(true)
	}
	return nil, serde.NewDecodeError(serde.ShapeBool, d.pos-1,
		fmt.Errorf("%w: invalid bool byte 0x%02x", serde.ErrSyntax, b[0]))
}

func (d *Deserializer) DeserializeI8(v serde.Visitor) (any, error) {
	b, err := d.take(1, serde.ShapeI8)
	if err != nil {
		return nil, err
	}
	return v.VisitI8(int8(b[0]))
}

func (d *Deserializer) DeserializeI16(v serde.Visitor) (any, error) {
	b, err := d.take(2, serde.ShapeI16)
	if err != nil {
		return nil, err
	}
	return v.VisitI16(int16(binary.LittleEndian.Uint16(b)))
}

func (d *Deserializer) DeserializeI32(v serde.Visitor) (any, error) {
	b, err := d.take(4, serde.ShapeI32)
	if err != nil {
		return nil, err
	}
	return v.VisitI32(int32(binary.LittleEndian.Uint32(b)))
}

func (d *Deserializer) DeserializeI64(v serde.Visitor) (any, error) {
	b, err := d.take(8, serde.ShapeI64)
	if err != nil {
		return nil, err
	}
	return v.VisitI64(int64(binary.LittleEndian.Uint64(b)))
}

func (d *Deserializer) DeserializeI128(v serde.Visitor) (any, error) {
	b, err := d.take(16, serde.ShapeI128)
	if err != nil {
		return nil, err
	}
	return v.VisitI128(serde.Int128{
		Low:  binary.LittleEndian.Uint64(b[:8]),
		High: int64(binary.LittleEndian.Uint64(b[8:])),
	})
}

func (d *Deserializer) DeserializeU8(v serde.Visitor) (any, error) {
	b, err := d.take(1, serde.ShapeU8)
	if err != nil {
		return nil, err
	}
	return v.VisitU8(b[0])
}

func (d *Deserializer) DeserializeU16(v serde.Visitor) (any, error) {
	b, err := d.take(2, serde.ShapeU16)
	if err != nil {
		return nil, err
	}
	return v.VisitU16(binary.LittleEndian.Uint16(b))
}

func (d *Deserializer) DeserializeU32(v serde.Visitor) (any, error) {
	b, err := d.take(4, serde.ShapeU32)
	if err != nil {
		return nil, err
	}
	return v.VisitU32(binary.LittleEndian.Uint32(b))
}

func (d *Deserializer) DeserializeU64(v serde.Visitor) (any, error) {
	b, err := d.take(8, serde.ShapeU64)
	if err != nil {
		return nil, err
	}
	return v.VisitU64(binary.LittleEndian.Uint64(b))
}

func (d *Deserializer) DeserializeU128(v serde.Visitor) (any, error) {
	b, err := d.take(16, serde.ShapeU128)
	if err != nil {
		return nil, err
	}
	return v.VisitU128(serde.Uint128{
		Low:  binary.LittleEndian.Uint64(b[:8]),
		High: binary.LittleEndian.Uint64(b[8:]),
	})
}

func (d *Deserializer) DeserializeF32(v serde.Visitor) (any, error) {
	b, err := d.take(4, serde.ShapeF32)
	if err != nil {
		return nil, err
	}
	return v.VisitF32(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func (d *Deserializer) DeserializeF64(v serde.Visitor) (any, error) {
	b, err := d.take(8, serde.ShapeF64)
	if err != nil {
		return nil, err
	}
	return v.VisitF64(math.Float64frombits(binary.LittleEndian.Uint64(b)))
}

func (d *Deserializer) DeserializeChar(v serde.Visitor) (any, error) {
	start := d.pos
	b, err := d.take(4, serde.ShapeChar)
	if err != nil {
		return nil, err
	}
	r := rune(binary.LittleEndian.Uint32(b))
	if !utf8.ValidRune(r) {
		return nil, serde.NewDecodeError(serde.ShapeChar, start,
			fmt.Errorf("%w: invalid rune %#x", serde.ErrSyntax, r))
	}
	return v.VisitChar(r)
}

func (d *Deserializer) DeserializeString(v serde.Visitor) (any, error) {
	start := d.pos
	n, err := d.readLen(serde.ShapeString)
	if err != nil {
		return nil, err
	}
	raw, err := d.take(n, serde.ShapeString)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, serde.NewDecodeError(serde.ShapeString, start,
			fmt.Errorf("%w: string is not valid UTF-8", serde.ErrSyntax))
	}
	return v.VisitStr(raw, serde.FlavorBorrowed)
}

func (d *Deserializer) DeserializeBytes(v serde.Visitor) (any, error) {
	n, err := d.readLen(serde.ShapeBytes)
	if err != nil {
		return nil, err
	}
	raw, err := d.take(n, serde.ShapeBytes)
	if err != nil {
		return nil, err
	}
	return v.VisitBytes(raw, serde.FlavorBorrowed)
}

func (d *Deserializer) DeserializeOption(v serde.Visitor) (any, error) {
	b, err := d.take(1, serde.ShapeOption)
	if err != nil {
		return nil, err
	}
	switch b[0] {
	case 0:
		return v.VisitNone()
	case 1:
		return v.VisitSome(d)
	}
	return nil, serde.NewDecodeError(serde.ShapeOption, d.pos-1,
		fmt.Errorf("%w: invalid option tag 0x%02x", serde.ErrSyntax, b[0]))
}

func (d *Deserializer) DeserializeUnit(v serde.Visitor) (any, error) {
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeUnitStruct(_ string, v serde.Visitor) (any, error) {
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeNewtypeStruct(_ string, v serde.Visitor) (any, error) {
	return v.VisitNewtypeStruct(d)
}

func (d *Deserializer) visitCounted(shape serde.Shape, count int, v serde.Visitor) (any, error) {
	if err := d.enter(shape); err != nil {
		return nil, err
	}
	sa := &seqAccess{d: d, shape: shape, remaining: count}
	out, err := v.VisitSeq(sa)
	if err != nil {
		return nil, err
	}
	if !sa.done {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTrailingEntries)
	}
	d.depth--
	return out, nil
}

func (d *Deserializer) DeserializeSeq(v serde.Visitor) (any, error) {
	n, err := d.readLen(serde.ShapeSeq)
	if err != nil {
		return nil, err
	}
	return d.visitCounted(serde.ShapeSeq, n, v)
}

func (d *Deserializer) DeserializeTuple(length int, v serde.Visitor) (any, error) {
	return d.visitCounted(serde.ShapeTuple, length, v)
}

func (d *Deserializer) DeserializeTupleStruct(_ string, length int, v serde.Visitor) (any, error) {
	return d.visitCounted(serde.ShapeTupleStruct, length, v)
}

func (d *Deserializer) DeserializeMap(v serde.Visitor) (any, error) {
	n, err := d.readLen(serde.ShapeMap)
	if err != nil {
		return nil, err
	}
	if err := d.enter(serde.ShapeMap); err != nil {
		return nil, err
	}
	ma := &mapAccess{d: d, remaining: n}
	out, err := v.VisitMap(ma)
	if err != nil {
		return nil, err
	}
	if !ma.done {
		return nil, serde.NewDecodeError(serde.ShapeMap, d.pos, serde.ErrTrailingEntries)
	}
	d.depth--
	return out, nil
}

func (d *Deserializer) DeserializeStruct(_ string, fields []string, v serde.Visitor) (any, error) {
	// Field names are not on the wire; values arrive in declared order.
	return d.visitCounted(serde.ShapeStruct, len(fields), v)
}

func (d *Deserializer) DeserializeEnum(name string, variants []string, v serde.Visitor) (any, error) {
	start := d.pos
	idx, err := d.readULEB(serde.ShapeUnitVariant)
	if err != nil {
		return nil, err
	}
	if idx >= uint64(len(variants)) {
		return nil, serde.NewDecodeError(serde.ShapeUnitVariant, start,
			fmt.Errorf("%w: index %d out of range for %q", serde.ErrUnknownVariant, idx, name))
	}
	return v.VisitEnum(&enumAccess{d: d, name: variants[idx], index: uint32(idx)})
}

func (d *Deserializer) IsHumanReadable() bool { return false }

type seqAccess struct {
	d         *Deserializer
	shape     serde.Shape
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
		return nil, serde.NewDecodeError(serde.ShapeMap, a.d.pos,
			fmt.Errorf("%w: value requested without a key", serde.ErrSyntax))
	}
	a.pending = false
	return f(a.d)
}

func (a *mapAccess) SizeHint() int { return a.remaining }

type enumAccess struct {
	d     *Deserializer
	name  string
	index uint32
}

func (e *enumAccess) Variant() (string, uint32, serde.VariantAccess, error) {
	return e.name, e.index, &variantAccess{d: e.d}, nil
}

type variantAccess struct {
	d *Deserializer
}

func (va *variantAccess) UnitVariant() error { return nil }

func (va *variantAccess) NewtypeVariant(f serde.DeserializeFunc) (any, error) {
	return f(va.d)
}

func (va *variantAccess) TupleVariant(length int, v serde.Visitor) (any, error) {
	return va.d.visitCounted(serde.ShapeTupleVariant, length, v)
}

func (va *variantAccess) StructVariant(fields []string, v serde.Visitor) (any, error) {
	return va.d.visitCounted(serde.ShapeStructVariant, len(fields), v)
}
