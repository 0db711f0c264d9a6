package tracing

import (
	"github.com/nimburion/serde/pkg/observability/logger"
	"github.com/nimburion/serde/pkg/serde"
)

// Serializer traces every producing call before delegating to the
// wrapped serializer.
type Serializer struct {
	inner serde.Serializer
	log   logger.Logger
}

var _ serde.Serializer = (*Serializer)(nil)

// NewSerializer wraps inner so that every call is logged through log.
// A nil log disables output.
func NewSerializer(inner serde.Serializer, log logger.Logger) *Serializer {
	return &Serializer{inner: inner, log: orNop(log)}
}

func (s *Serializer) wrap(inner serde.Serializer) *Serializer {
	if inner == s.inner {
		return s
	}
	return &Serializer{inner: inner, log: s.log}
}

func (s *Serializer) trace(shape serde.Shape, err error, args ...any) error {
	if err != nil {
		s.log.Error("serialize failed", append([]any{"shape", shape.String(), "error", err}, args...)...)
		return err
	}
	s.log.Debug("serialize", append([]any{"shape", shape.String()}, args...)...)
	return nil
}

func (s *Serializer) SerializeBool(v bool) error {
	return s.trace(serde.ShapeBool, s.inner.SerializeBool(v), "value", v)
}

func (s *Serializer) SerializeI8(v int8) error {
	return s.trace(serde.ShapeI8, s.inner.SerializeI8(v), "value", v)
}

func (s *Serializer) SerializeI16(v int16) error {
	return s.trace(serde.ShapeI16, s.inner.SerializeI16(v), "value", v)
}

func (s *Serializer) SerializeI32(v int32) error {
	return s.trace(serde.ShapeI32, s.inner.SerializeI32(v), "value", v)
}

func (s *Serializer) SerializeI64(v int64) error {
	return s.trace(serde.ShapeI64, s.inner.SerializeI64(v), "value", v)
}

func (s *Serializer) SerializeI128(v serde.Int128) error {
	return s.trace(serde.ShapeI128, s.inner.SerializeI128(v), "value", v.Big().String())
}

func (s *Serializer) SerializeU8(v uint8) error {
	return s.trace(serde.ShapeU8, s.inner.SerializeU8(v), "value", v)
}

func (s *Serializer) SerializeU16(v uint16) error {
	return s.trace(serde.ShapeU16, s.inner.SerializeU16(v), "value", v)
}

func (s *Serializer) SerializeU32(v uint32) error {
	return s.trace(serde.ShapeU32, s.inner.SerializeU32(v), "value", v)
}

func (s *Serializer) SerializeU64(v uint64) error {
	return s.trace(serde.ShapeU64, s.inner.SerializeU64(v), "value", v)
}

func (s *Serializer) SerializeU128(v serde.Uint128) error {
	return s.trace(serde.ShapeU128, s.inner.SerializeU128(v), "value", v.Big().String())
}

func (s *Serializer) SerializeF32(v float32) error {
	return s.trace(serde.ShapeF32, s.inner.SerializeF32(v), "value", v)
}

func (s *Serializer) SerializeF64(v float64) error {
	return s.trace(serde.ShapeF64, s.inner.SerializeF64(v), "value", v)
}

func (s *Serializer) SerializeChar(v rune) error {
	return s.trace(serde.ShapeChar, s.inner.SerializeChar(v), "value", string(v))
}

func (s *Serializer) SerializeString(v string) error {
	return s.trace(serde.ShapeString, s.inner.SerializeString(v), "len", len(v))
}

func (s *Serializer) SerializeBytes(v []byte) error {
	return s.trace(serde.ShapeBytes, s.inner.SerializeBytes(v), "len", len(v))
}

func (s *Serializer) SerializeNone() error {
	return s.trace(serde.ShapeOption, s.inner.SerializeNone(), "some", false)
}

func (s *Serializer) SerializeSome(f serde.SerializeFunc) error {
	err := s.inner.SerializeSome(func(inner serde.Serializer) error {
		return f(s.wrap(inner))
	})
	return s.trace(serde.ShapeOption, err, "some", true)
}

func (s *Serializer) SerializeUnit() error {
	return s.trace(serde.ShapeUnit, s.inner.SerializeUnit())
}

func (s *Serializer) SerializeUnitStruct(name string) error {
	return s.trace(serde.ShapeUnitStruct, s.inner.SerializeUnitStruct(name), "name", name)
}

func (s *Serializer) SerializeUnitVariant(name string, index uint32, variant string) error {
	return s.trace(serde.ShapeUnitVariant, s.inner.SerializeUnitVariant(name, index, variant),
		"name", name, "variant", variant)
}

func (s *Serializer) SerializeNewtypeStruct(name string, f serde.SerializeFunc) error {
	err := s.inner.SerializeNewtypeStruct(name, func(inner serde.Serializer) error {
		return f(s.wrap(inner))
	})
	return s.trace(serde.ShapeNewtypeStruct, err, "name", name)
}

func (s *Serializer) SerializeNewtypeVariant(name string, index uint32, variant string, f serde.SerializeFunc) error {
	err := s.inner.SerializeNewtypeVariant(name, index, variant, func(inner serde.Serializer) error {
		return f(s.wrap(inner))
	})
	return s.trace(serde.ShapeNewtypeVariant, err, "name", name, "variant", variant)
}

func (s *Serializer) beginSeq(shape serde.Shape, sq serde.SeqSerializer, err error, args ...any) (serde.SeqSerializer, error) {
	if err := s.trace(shape, err, args...); err != nil {
		return nil, err
	}
	return &seqSerializer{s: s, inner: sq, shape: shape}, nil
}

func (s *Serializer) SerializeSeq(hint int) (serde.SeqSerializer, error) {
	sq, err := s.inner.SerializeSeq(hint)
	return s.beginSeq(serde.ShapeSeq, sq, err, "hint", hint)
}

func (s *Serializer) SerializeTuple(length int) (serde.SeqSerializer, error) {
	sq, err := s.inner.SerializeTuple(length)
	return s.beginSeq(serde.ShapeTuple, sq, err, "len", length)
}

func (s *Serializer) SerializeTupleStruct(name string, length int) (serde.SeqSerializer, error) {
	sq, err := s.inner.SerializeTupleStruct(name, length)
	return s.beginSeq(serde.ShapeTupleStruct, sq, err, "name", name, "len", length)
}

func (s *Serializer) SerializeTupleVariant(name string, index uint32, variant string, length int) (serde.SeqSerializer, error) {
	sq, err := s.inner.SerializeTupleVariant(name, index, variant, length)
	return s.beginSeq(serde.ShapeTupleVariant, sq, err, "name", name, "variant", variant, "len", length)
}

func (s *Serializer) SerializeMap(hint int) (serde.MapSerializer, error) {
	mp, err := s.inner.SerializeMap(hint)
	if err := s.trace(serde.ShapeMap, err, "hint", hint); err != nil {
		return nil, err
	}
	return &mapSerializer{s: s, inner: mp}, nil
}

func (s *Serializer) beginStruct(shape serde.Shape, st serde.StructSerializer, err error, args ...any) (serde.StructSerializer, error) {
	if err := s.trace(shape, err, args...); err != nil {
		return nil, err
	}
	return &structSerializer{s: s, inner: st, shape: shape}, nil
}

func (s *Serializer) SerializeStruct(name string, length int) (serde.StructSerializer, error) {
	st, err := s.inner.SerializeStruct(name, length)
	return s.beginStruct(serde.ShapeStruct, st, err, "name", name, "len", length)
}

func (s *Serializer) SerializeStructVariant(name string, index uint32, variant string, length int) (serde.StructSerializer, error) {
	st, err := s.inner.SerializeStructVariant(name, index, variant, length)
	return s.beginStruct(serde.ShapeStructVariant, st, err, "name", name, "variant", variant, "len", length)
}

func (s *Serializer) IsHumanReadable() bool { return s.inner.IsHumanReadable() }

type seqSerializer struct {
	s     *Serializer
	inner serde.SeqSerializer
	shape serde.Shape
}

func (q *seqSerializer) SerializeElement(f serde.SerializeFunc) error {
	return q.inner.SerializeElement(func(inner serde.Serializer) error {
		return f(q.s.wrap(inner))
	})
}

func (q *seqSerializer) End() error {
	err := q.inner.End()
	if err != nil {
		q.s.log.Error("serialize failed", "shape", q.shape.String(), "error", err)
		return err
	}
	q.s.log.Debug("serialize end", "shape", q.shape.String())
	return nil
}

type mapSerializer struct {
	s     *Serializer
	inner serde.MapSerializer
}

func (m *mapSerializer) SerializeKey(f serde.SerializeFunc) error {
	return m.inner.SerializeKey(func(inner serde.Serializer) error {
		return f(m.s.wrap(inner))
	})
}

func (m *mapSerializer) SerializeValue(f serde.SerializeFunc) error {
	return m.inner.SerializeValue(func(inner serde.Serializer) error {
		return f(m.s.wrap(inner))
	})
}

func (m *mapSerializer) End() error {
	err := m.inner.End()
	if err != nil {
		m.s.log.Error("serialize failed", "shape", serde.ShapeMap.String(), "error", err)
		return err
	}
	m.s.log.Debug("serialize end", "shape", serde.ShapeMap.String())
	return nil
}

type structSerializer struct {
	s     *Serializer
	inner serde.StructSerializer
	shape serde.Shape
}

func (t *structSerializer) SerializeField(name string, f serde.SerializeFunc) error {
	t.s.log.Debug("serialize field", "shape", t.shape.String(), "field", name)
	return t.inner.SerializeField(name, func(inner serde.Serializer) error {
		return f(t.s.wrap(inner))
	})
}

func (t *structSerializer) End() error {
	err := t.inner.End()
	if err != nil {
		t.s.log.Error("serialize failed", "shape", t.shape.String(), "error", err)
		return err
	}
	t.s.log.Debug("serialize end", "shape", t.shape.String())
	return nil
}
