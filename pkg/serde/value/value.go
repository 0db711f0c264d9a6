// Package value provides a generic in-memory representation of the
// serialization data model. A Value knows how to encode itself against
// any producer, and Decode rebuilds one from any self-describing consumer
// through a lenient visitor. It is the universal round-trip vehicle for
// codec tests and a reference for hand-written mapping logic.
//
// Variant shapes are not modeled: self-describing formats lower variants
// onto maps and strings before they reach a generic consumer.
package value

import (
	"bytes"

	"github.com/nimburion/serde/pkg/serde"
)

// Value is one node of the generic model. Implementations form a closed
// set mirroring the data-model shapes.
type Value interface {
	// Shape returns the canonical shape this node maps to.
	Shape() serde.Shape

	// Serialize encodes the node against a producer.
	Serialize(s serde.Serializer) error
}

type (
	Bool   bool
	I8     int8
	I16    int16
	I32    int32
	I64    int64
	I128   serde.Int128
	U8     uint8
	U16    uint16
	U32    uint32
	U64    uint64
	U128   serde.Uint128
	F32    float32
	F64    float64
	Char   rune
	String string
	Bytes  []byte

	// Unit is the anonymous empty value.
	Unit struct{}

	// None is the absent arm of option.
	None struct{}

	// Some wraps the present arm of option.
	Some struct{ Value Value }

	// Seq is a variable-length heterogeneous sequence.
	Seq []Value

	// Entry is one map entry; Map preserves encoded order.
	Entry struct {
		Key   Value
		Value Value
	}

	Map []Entry
)

func (Bool) Shape() serde.Shape   { return serde.ShapeBool }
func (I8) Shape() serde.Shape     { return serde.ShapeI8 }
func (I16) Shape() serde.Shape    { return serde.ShapeI16 }
func (I32) Shape() serde.Shape    { return serde.ShapeI32 }
func (I64) Shape() serde.Shape    { return serde.ShapeI64 }
func (I128) Shape() serde.Shape   { return serde.ShapeI128 }
func (U8) Shape() serde.Shape     { return serde.ShapeU8 }
func (U16) Shape() serde.Shape    { return serde.ShapeU16 }
func (U32) Shape() serde.Shape    { return serde.ShapeU32 }
func (U64) Shape() serde.Shape    { return serde.ShapeU64 }
func (U128) Shape() serde.Shape   { return serde.ShapeU128 }
func (F32) Shape() serde.Shape    { return serde.ShapeF32 }
func (F64) Shape() serde.Shape    { return serde.ShapeF64 }
func (Char) Shape() serde.Shape   { return serde.ShapeChar }
func (String) Shape() serde.Shape { return serde.ShapeString }
func (Bytes) Shape() serde.Shape  { return serde.ShapeBytes }
func (Unit) Shape() serde.Shape   { return serde.ShapeUnit }
func (None) Shape() serde.Shape   { return serde.ShapeOption }
func (Some) Shape() serde.Shape   { return serde.ShapeOption }
func (Seq) Shape() serde.Shape    { return serde.ShapeSeq }
func (Map) Shape() serde.Shape    { return serde.ShapeMap }

func (v Bool) Serialize(s serde.Serializer) error   { return s.SerializeBool(bool(v)) }
func (v I8) Serialize(s serde.Serializer) error     { return s.SerializeI8(int8(v)) }
func (v I16) Serialize(s serde.Serializer) error    { return s.SerializeI16(int16(v)) }
func (v I32) Serialize(s serde.Serializer) error    { return s.SerializeI32(int32(v)) }
func (v I64) Serialize(s serde.Serializer) error    { return s.SerializeI64(int64(v)) }
func (v I128) Serialize(s serde.Serializer) error   { return s.SerializeI128(serde.Int128(v)) }
func (v U8) Serialize(s serde.Serializer) error     { return s.SerializeU8(uint8(v)) }
func (v U16) Serialize(s serde.Serializer) error    { return s.SerializeU16(uint16(v)) }
func (v U32) Serialize(s serde.Serializer) error    { return s.SerializeU32(uint32(v)) }
func (v U64) Serialize(s serde.Serializer) error    { return s.SerializeU64(uint64(v)) }
func (v U128) Serialize(s serde.Serializer) error   { return s.SerializeU128(serde.Uint128(v)) }
func (v F32) Serialize(s serde.Serializer) error    { return s.SerializeF32(float32(v)) }
func (v F64) Serialize(s serde.Serializer) error    { return s.SerializeF64(float64(v)) }
func (v Char) Serialize(s serde.Serializer) error   { return s.SerializeChar(rune(v)) }
func (v String) Serialize(s serde.Serializer) error { return s.SerializeString(string(v)) }
func (v Bytes) Serialize(s serde.Serializer) error  { return s.SerializeBytes([]byte(v)) }
func (Unit) Serialize(s serde.Serializer) error     { return s.SerializeUnit() }
func (None) Serialize(s serde.Serializer) error     { return s.SerializeNone() }

func (v Some) Serialize(s serde.Serializer) error {
	return s.SerializeSome(v.Value.Serialize)
}

func (v Seq) Serialize(s serde.Serializer) error {
	seq, err := s.SerializeSeq(len(v))
	if err != nil {
		return err
	}
	for _, el := range v {
		if err := seq.SerializeElement(el.Serialize); err != nil {
			return err
		}
	}
	return seq.End()
}

func (v Map) Serialize(s serde.Serializer) error {
	m, err := s.SerializeMap(len(v))
	if err != nil {
		return err
	}
	for _, e := range v {
		if err := m.SerializeKey(e.Key.Serialize); err != nil {
			return err
		}
		if err := m.SerializeValue(e.Value.Serialize); err != nil {
			return err
		}
	}
	return m.End()
}

// Equal compares two values structurally. Map entries compare in order;
// two maps with the same entries in different order are not equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av, bv)
	case Some:
		bv, ok := b.(Some)
		return ok && Equal(av.Value, bv.Value)
	case Seq:
		bv, ok := b.(Seq)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i].Key, bv[i].Key) || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
