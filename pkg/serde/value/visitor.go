package value

import (
	"github.com/nimburion/serde/pkg/serde"
)

// Decode rebuilds a Value from a self-describing consumer via
// DeserializeAny.
func Decode(d serde.Deserializer) (Value, error) {
	out, err := d.DeserializeAny(Visitor())
	if err != nil {
		return nil, err
	}
	return out.(Value), nil
}

// Visitor returns the lenient visitor used by Decode. It accepts every
// non-variant shape and builds the matching Value node; width and
// signedness distinctions are preserved, not normalized.
func Visitor() serde.Visitor {
	return anyVisitor{serde.BaseVisitor{Desc: "any value"}}
}

type anyVisitor struct {
	serde.BaseVisitor
}

func (anyVisitor) VisitBool(v bool) (any, error)          { return Bool(v), nil }
func (anyVisitor) VisitI8(v int8) (any, error)            { return I8(v), nil }
func (anyVisitor) VisitI16(v int16) (any, error)          { return I16(v), nil }
func (anyVisitor) VisitI32(v int32) (any, error)          { return I32(v), nil }
func (anyVisitor) VisitI64(v int64) (any, error)          { return I64(v), nil }
func (anyVisitor) VisitI128(v serde.Int128) (any, error)  { return I128(v), nil }
func (anyVisitor) VisitU8(v uint8) (any, error)           { return U8(v), nil }
func (anyVisitor) VisitU16(v uint16) (any, error)         { return U16(v), nil }
func (anyVisitor) VisitU32(v uint32) (any, error)         { return U32(v), nil }
func (anyVisitor) VisitU64(v uint64) (any, error)         { return U64(v), nil }
func (anyVisitor) VisitU128(v serde.Uint128) (any, error) { return U128(v), nil }
func (anyVisitor) VisitF32(v float32) (any, error)        { return F32(v), nil }
func (anyVisitor) VisitF64(v float64) (any, error)        { return F64(v), nil }
func (anyVisitor) VisitChar(v rune) (any, error)          { return Char(v), nil }

func (anyVisitor) VisitStr(v []byte, _ serde.Flavor) (any, error) {
	// The string conversion copies, so the flavor never outlives the call.
	return String(v), nil
}

func (anyVisitor) VisitString(v string) (any, error) { return String(v), nil }

func (anyVisitor) VisitBytes(v []byte, flavor serde.Flavor) (any, error) {
	if flavor == serde.FlavorTransient {
		cp := make([]byte, len(v))
		copy(cp, v)
		return Bytes(cp), nil
	}
	return Bytes(v), nil
}

func (anyVisitor) VisitByteBuf(v []byte) (any, error) { return Bytes(v), nil }

func (anyVisitor) VisitNone() (any, error) { return None{}, nil }

func (anyVisitor) VisitSome(d serde.Deserializer) (any, error) {
	inner, err := Decode(d)
	if err != nil {
		return nil, err
	}
	return Some{Value: inner}, nil
}

func (anyVisitor) VisitUnit() (any, error) { return Unit{}, nil }

func (anyVisitor) VisitNewtypeStruct(d serde.Deserializer) (any, error) {
	// The wrapper is invisible in the generic model; keep the payload.
	return Decode(d)
}

func (anyVisitor) VisitSeq(sa serde.SeqAccess) (any, error) {
	out := Seq{}
	if hint := sa.SizeHint(); hint > 0 {
		out = make(Seq, 0, hint)
	}
	for {
		el, ok, err := sa.NextElement(decodeAny)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, el.(Value))
	}
}

func (anyVisitor) VisitMap(ma serde.MapAccess) (any, error) {
	out := Map{}
	if hint := ma.SizeHint(); hint > 0 {
		out = make(Map, 0, hint)
	}
	for {
		key, ok, err := ma.NextKey(decodeAny)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		val, err := ma.NextValue(decodeAny)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: key.(Value), Value: val.(Value)})
	}
}

func decodeAny(d serde.Deserializer) (any, error) {
	return Decode(d)
}
