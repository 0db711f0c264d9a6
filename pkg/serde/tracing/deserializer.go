package tracing

import (
	"github.com/nimburion/serde/pkg/observability/logger"
	"github.com/nimburion/serde/pkg/serde"
)

// Deserializer traces every consuming call before delegating to the
// wrapped deserializer. Visitors passed in are re-wrapped so that
// nested payloads handed back out (options, newtypes, elements,
// entries, variant payloads) are traced too.
type Deserializer struct {
	inner serde.Deserializer
	log   logger.Logger
}

var _ serde.Deserializer = (*Deserializer)(nil)

// NewDeserializer wraps inner so that every call is logged through log.
// A nil log disables output.
func NewDeserializer(inner serde.Deserializer, log logger.Logger) *Deserializer {
	return &Deserializer{inner: inner, log: orNop(log)}
}

func (d *Deserializer) wrap(inner serde.Deserializer) *Deserializer {
	if inner == d.inner {
		return d
	}
	return &Deserializer{inner: inner, log: d.log}
}

func (d *Deserializer) trace(shape serde.Shape, out any, err error, args ...any) (any, error) {
	if err != nil {
		d.log.Error("deserialize failed", append([]any{"shape", shape.String(), "error", err}, args...)...)
		return nil, err
	}
	d.log.Debug("deserialize", append([]any{"shape", shape.String()}, args...)...)
	return out, nil
}

func (d *Deserializer) visitor(v serde.Visitor) serde.Visitor {
	return &visitor{d: d, inner: v}
}

func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeAny(d.visitor(v))
	return d.trace(serde.ShapeAny, out, err)
}

func (d *Deserializer) DeserializeBool(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeBool(d.visitor(v))
	return d.trace(serde.ShapeBool, out, err)
}

func (d *Deserializer) DeserializeI8(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeI8(d.visitor(v))
	return d.trace(serde.ShapeI8, out, err)
}

func (d *Deserializer) DeserializeI16(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeI16(d.visitor(v))
	return d.trace(serde.ShapeI16, out, err)
}

func (d *Deserializer) DeserializeI32(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeI32(d.visitor(v))
	return d.trace(serde.ShapeI32, out, err)
}

func (d *Deserializer) DeserializeI64(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeI64(d.visitor(v))
	return d.trace(serde.ShapeI64, out, err)
}

func (d *Deserializer) DeserializeI128(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeI128(d.visitor(v))
	return d.trace(serde.ShapeI128, out, err)
}

func (d *Deserializer) DeserializeU8(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeU8(d.visitor(v))
	return d.trace(serde.ShapeU8, out, err)
}

func (d *Deserializer) DeserializeU16(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeU16(d.visitor(v))
	return d.trace(serde.ShapeU16, out, err)
}

func (d *Deserializer) DeserializeU32(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeU32(d.visitor(v))
	return d.trace(serde.ShapeU32, out, err)
}

func (d *Deserializer) DeserializeU64(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeU64(d.visitor(v))
	return d.trace(serde.ShapeU64, out, err)
}

func (d *Deserializer) DeserializeU128(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeU128(d.visitor(v))
	return d.trace(serde.ShapeU128, out, err)
}

func (d *Deserializer) DeserializeF32(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeF32(d.visitor(v))
	return d.trace(serde.ShapeF32, out, err)
}

func (d *Deserializer) DeserializeF64(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeF64(d.visitor(v))
	return d.trace(serde.ShapeF64, out, err)
}

func (d *Deserializer) DeserializeChar(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeChar(d.visitor(v))
	return d.trace(serde.ShapeChar, out, err)
}

func (d *Deserializer) DeserializeString(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeString(d.visitor(v))
	return d.trace(serde.ShapeString, out, err)
}

func (d *Deserializer) DeserializeBytes(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeBytes(d.visitor(v))
	return d.trace(serde.ShapeBytes, out, err)
}

func (d *Deserializer) DeserializeOption(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeOption(d.visitor(v))
	return d.trace(serde.ShapeOption, out, err)
}

func (d *Deserializer) DeserializeUnit(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeUnit(d.visitor(v))
	return d.trace(serde.ShapeUnit, out, err)
}

func (d *Deserializer) DeserializeUnitStruct(name string, v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeUnitStruct(name, d.visitor(v))
	return d.trace(serde.ShapeUnitStruct, out, err, "name", name)
}

func (d *Deserializer) DeserializeNewtypeStruct(name string, v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeNewtypeStruct(name, d.visitor(v))
	return d.trace(serde.ShapeNewtypeStruct, out, err, "name", name)
}

func (d *Deserializer) DeserializeSeq(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeSeq(d.visitor(v))
	return d.trace(serde.ShapeSeq, out, err)
}

func (d *Deserializer) DeserializeTuple(length int, v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeTuple(length, d.visitor(v))
	return d.trace(serde.ShapeTuple, out, err, "len", length)
}

func (d *Deserializer) DeserializeTupleStruct(name string, length int, v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeTupleStruct(name, length, d.visitor(v))
	return d.trace(serde.ShapeTupleStruct, out, err, "name", name, "len", length)
}

func (d *Deserializer) DeserializeMap(v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeMap(d.visitor(v))
	return d.trace(serde.ShapeMap, out, err)
}

func (d *Deserializer) DeserializeStruct(name string, fields []string, v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeStruct(name, fields, d.visitor(v))
	return d.trace(serde.ShapeStruct, out, err, "name", name)
}

func (d *Deserializer) DeserializeEnum(name string, variants []string, v serde.Visitor) (any, error) {
	out, err := d.inner.DeserializeEnum(name, variants, d.visitor(v))
	return d.trace(serde.ShapeUnitVariant, out, err, "name", name)
}

func (d *Deserializer) IsHumanReadable() bool { return d.inner.IsHumanReadable() }

// visitor re-wraps nested deserializers and accesses before forwarding
// to the user's visitor.
type visitor struct {
	d     *Deserializer
	inner serde.Visitor
}

var _ serde.Visitor = (*visitor)(nil)

func (v *visitor) Expecting() string { return v.inner.Expecting() }

func (v *visitor) VisitBool(b bool) (any, error) { return v.inner.VisitBool(b) }

func (v *visitor) VisitI8(n int8) (any, error) { return v.inner.VisitI8(n) }

func (v *visitor) VisitI16(n int16) (any, error) { return v.inner.VisitI16(n) }

func (v *visitor) VisitI32(n int32) (any, error) { return v.inner.VisitI32(n) }

func (v *visitor) VisitI64(n int64) (any, error) { return v.inner.VisitI64(n) }

func (v *visitor) VisitI128(n serde.Int128) (any, error) { return v.inner.VisitI128(n) }

func (v *visitor) VisitU8(n uint8) (any, error) { return v.inner.VisitU8(n) }

func (v *visitor) VisitU16(n uint16) (any, error) { return v.inner.VisitU16(n) }

func (v *visitor) VisitU32(n uint32) (any, error) { return v.inner.VisitU32(n) }

func (v *visitor) VisitU64(n uint64) (any, error) { return v.inner.VisitU64(n) }

func (v *visitor) VisitU128(n serde.Uint128) (any, error) { return v.inner.VisitU128(n) }

func (v *visitor) VisitF32(f float32) (any, error) { return v.inner.VisitF32(f) }

func (v *visitor) VisitF64(f float64) (any, error) { return v.inner.VisitF64(f) }

func (v *visitor) VisitChar(r rune) (any, error) { return v.inner.VisitChar(r) }

func (v *visitor) VisitStr(b []byte, flavor serde.Flavor) (any, error) {
	return v.inner.VisitStr(b, flavor)
}

func (v *visitor) VisitString(s string) (any, error) { return v.inner.VisitString(s) }

func (v *visitor) VisitBytes(b []byte, flavor serde.Flavor) (any, error) {
	return v.inner.VisitBytes(b, flavor)
}

func (v *visitor) VisitByteBuf(b []byte) (any, error) { return v.inner.VisitByteBuf(b) }

func (v *visitor) VisitNone() (any, error) { return v.inner.VisitNone() }

func (v *visitor) VisitSome(d serde.Deserializer) (any, error) {
	return v.inner.VisitSome(v.d.wrap(d))
}

func (v *visitor) VisitUnit() (any, error) { return v.inner.VisitUnit() }

func (v *visitor) VisitNewtypeStruct(d serde.Deserializer) (any, error) {
	return v.inner.VisitNewtypeStruct(v.d.wrap(d))
}

func (v *visitor) VisitSeq(sa serde.SeqAccess) (any, error) {
	return v.inner.VisitSeq(&seqAccess{d: v.d, inner: sa})
}

func (v *visitor) VisitMap(ma serde.MapAccess) (any, error) {
	return v.inner.VisitMap(&mapAccess{d: v.d, inner: ma})
}

func (v *visitor) VisitEnum(ea serde.EnumAccess) (any, error) {
	return v.inner.VisitEnum(&enumAccess{d: v.d, inner: ea})
}

type seqAccess struct {
	d     *Deserializer
	inner serde.SeqAccess
}

func (a *seqAccess) NextElement(f serde.DeserializeFunc) (any, bool, error) {
	return a.inner.NextElement(func(inner serde.Deserializer) (any, error) {
		return f(a.d.wrap(inner))
	})
}

func (a *seqAccess) SizeHint() int { return a.inner.SizeHint() }

type mapAccess struct {
	d     *Deserializer
	inner serde.MapAccess
}

func (a *mapAccess) NextKey(f serde.DeserializeFunc) (any, bool, error) {
	return a.inner.NextKey(func(inner serde.Deserializer) (any, error) {
		return f(a.d.wrap(inner))
	})
}

func (a *mapAccess) NextValue(f serde.DeserializeFunc) (any, error) {
	return a.inner.NextValue(func(inner serde.Deserializer) (any, error) {
		return f(a.d.wrap(inner))
	})
}

func (a *mapAccess) SizeHint() int { return a.inner.SizeHint() }

type enumAccess struct {
	d     *Deserializer
	inner serde.EnumAccess
}

func (e *enumAccess) Variant() (string, uint32, serde.VariantAccess, error) {
	name, index, va, err := e.inner.Variant()
	if err != nil {
		return "", 0, nil, err
	}
	e.d.log.Debug("deserialize variant", "variant", name, "index", index)
	return name, index, &variantAccess{d: e.d, inner: va}, nil
}

type variantAccess struct {
	d     *Deserializer
	inner serde.VariantAccess
}

func (va *variantAccess) UnitVariant() error { return va.inner.UnitVariant() }

func (va *variantAccess) NewtypeVariant(f serde.DeserializeFunc) (any, error) {
	return va.inner.NewtypeVariant(func(inner serde.Deserializer) (any, error) {
		return f(va.d.wrap(inner))
	})
}

func (va *variantAccess) TupleVariant(length int, v serde.Visitor) (any, error) {
	return va.inner.TupleVariant(length, va.d.visitor(v))
}

func (va *variantAccess) StructVariant(fields []string, v serde.Visitor) (any, error) {
	return va.inner.StructVariant(fields, va.d.visitor(v))
}
