package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nimburion/serde/pkg/serde"
)

// Serializer is the MessagePack producer. Unknown-length seq and map
// sessions buffer their elements and emit the container header at End.
type Serializer struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
}

var _ serde.Serializer = (*Serializer)(nil)

// NewSerializer returns an empty MessagePack producer.
func NewSerializer() *Serializer {
	buf := new(bytes.Buffer)
	return &Serializer{buf: buf, enc: msgpack.NewEncoder(buf)}
}

// Bytes returns the output produced so far.
func (s *Serializer) Bytes() []byte {
	return s.buf.Bytes()
}

func (s *Serializer) wrap(shape serde.Shape, err error) error {
	if err != nil {
		return serde.NewEncodeError(shape, err)
	}
	return nil
}

func (s *Serializer) SerializeBool(v bool) error {
	return s.wrap(serde.ShapeBool, s.enc.EncodeBool(v))
}

func (s *Serializer) SerializeI8(v int8) error {
	return s.wrap(serde.ShapeI8, s.enc.EncodeInt(int64(v)))
}

func (s *Serializer) SerializeI16(v int16) error {
	return s.wrap(serde.ShapeI16, s.enc.EncodeInt(int64(v)))
}

func (s *Serializer) SerializeI32(v int32) error {
	return s.wrap(serde.ShapeI32, s.enc.EncodeInt(int64(v)))
}

func (s *Serializer) SerializeI64(v int64) error {
	return s.wrap(serde.ShapeI64, s.enc.EncodeInt(v))
}

func (s *Serializer) SerializeI128(v serde.Int128) error {
	return serde.NewEncodeError(serde.ShapeI128,
		fmt.Errorf("%w: MessagePack has no 128-bit integers", serde.ErrUnsupportedShape))
}

func (s *Serializer) SerializeU8(v uint8) error {
	return s.wrap(serde.ShapeU8, s.enc.EncodeUint(uint64(v)))
}

func (s *Serializer) SerializeU16(v uint16) error {
	return s.wrap(serde.ShapeU16, s.enc.EncodeUint(uint64(v)))
}

func (s *Serializer) SerializeU32(v uint32) error {
	return s.wrap(serde.ShapeU32, s.enc.EncodeUint(uint64(v)))
}

func (s *Serializer) SerializeU64(v uint64) error {
	return s.wrap(serde.ShapeU64, s.enc.EncodeUint(v))
}

func (s *Serializer) SerializeU128(v serde.Uint128) error {
	return serde.NewEncodeError(serde.ShapeU128,
		fmt.Errorf("%w: MessagePack has no 128-bit integers", serde.ErrUnsupportedShape))
}

func (s *Serializer) SerializeF32(v float32) error {
	return s.wrap(serde.ShapeF32, s.enc.EncodeFloat32(v))
}

func (s *Serializer) SerializeF64(v float64) error {
	return s.wrap(serde.ShapeF64, s.enc.EncodeFloat64(v))
}

func (s *Serializer) SerializeChar(v rune) error {
	return s.wrap(serde.ShapeChar, s.enc.EncodeString(string(v)))
}

func (s *Serializer) SerializeString(v string) error {
	return s.wrap(serde.ShapeString, s.enc.EncodeString(v))
}

func (s *Serializer) SerializeBytes(v []byte) error {
	return s.wrap(serde.ShapeBytes, s.enc.EncodeBytes(v))
}

func (s *Serializer) SerializeNone() error {
	return s.wrap(serde.ShapeOption, s.enc.EncodeNil())
}

func (s *Serializer) SerializeSome(f serde.SerializeFunc) error {
	return f(s)
}

func (s *Serializer) SerializeUnit() error {
	return s.wrap(serde.ShapeUnit, s.enc.EncodeNil())
}

func (s *Serializer) SerializeUnitStruct(string) error {
	return s.wrap(serde.ShapeUnitStruct, s.enc.EncodeNil())
}

func (s *Serializer) SerializeUnitVariant(_ string, _ uint32, variant string) error {
	return s.wrap(serde.ShapeUnitVariant, s.enc.EncodeString(variant))
}

func (s *Serializer) SerializeNewtypeStruct(_ string, f serde.SerializeFunc) error {
	return f(s)
}

func (s *Serializer) SerializeNewtypeVariant(_ string, _ uint32, variant string, f serde.SerializeFunc) error {
	if err := s.enc.EncodeMapLen(1); err != nil {
		return serde.NewEncodeError(serde.ShapeNewtypeVariant, err)
	}
	if err := s.enc.EncodeString(variant); err != nil {
		return serde.NewEncodeError(serde.ShapeNewtypeVariant, err)
	}
	return f(s)
}

func (s *Serializer) beginArray(shape serde.Shape, length int) (serde.SeqSerializer, error) {
	if length < 0 {
		return &seqSerializer{parent: s, child: NewSerializer(), shape: shape, want: -1, buffered: true}, nil
	}
	if err := s.enc.EncodeArrayLen(length); err != nil {
		return nil, serde.NewEncodeError(shape, err)
	}
	return &seqSerializer{parent: s, shape: shape, want: length}, nil
}

func (s *Serializer) SerializeSeq(hint int) (serde.SeqSerializer, error) {
	return s.beginArray(serde.ShapeSeq, hint)
}

func (s *Serializer) SerializeTuple(length int) (serde.SeqSerializer, error) {
	return s.beginArray(serde.ShapeTuple, length)
}

func (s *Serializer) SerializeTupleStruct(_ string, length int) (serde.SeqSerializer, error) {
	return s.beginArray(serde.ShapeTupleStruct, length)
}

func (s *Serializer) SerializeTupleVariant(_ string, _ uint32, variant string, length int) (serde.SeqSerializer, error) {
	if err := s.enc.EncodeMapLen(1); err != nil {
		return nil, serde.NewEncodeError(serde.ShapeTupleVariant, err)
	}
	if err := s.enc.EncodeString(variant); err != nil {
		return nil, serde.NewEncodeError(serde.ShapeTupleVariant, err)
	}
	return s.beginArray(serde.ShapeTupleVariant, length)
}

func (s *Serializer) SerializeMap(hint int) (serde.MapSerializer, error) {
	if hint < 0 {
		return &mapSerializer{parent: s, child: NewSerializer(), want: -1, buffered: true}, nil
	}
	if err := s.enc.EncodeMapLen(hint); err != nil {
		return nil, serde.NewEncodeError(serde.ShapeMap, err)
	}
	return &mapSerializer{parent: s, want: hint}, nil
}

func (s *Serializer) beginStruct(shape serde.Shape, length int) (serde.StructSerializer, error) {
	if err := s.enc.EncodeMapLen(length); err != nil {
		return nil, serde.NewEncodeError(shape, err)
	}
	return &structSerializer{s: s, shape: shape, want: length}, nil
}

func (s *Serializer) SerializeStruct(_ string, length int) (serde.StructSerializer, error) {
	return s.beginStruct(serde.ShapeStruct, length)
}

func (s *Serializer) SerializeStructVariant(_ string, _ uint32, variant string, length int) (serde.StructSerializer, error) {
	if err := s.enc.EncodeMapLen(1); err != nil {
		return nil, serde.NewEncodeError(serde.ShapeStructVariant, err)
	}
	if err := s.enc.EncodeString(variant); err != nil {
		return nil, serde.NewEncodeError(serde.ShapeStructVariant, err)
	}
	return s.beginStruct(serde.ShapeStructVariant, length)
}

func (s *Serializer) IsHumanReadable() bool { return false }

type seqSerializer struct {
	parent   *Serializer
	child    *Serializer
	shape    serde.Shape
	want     int
	count    int
	buffered bool
}

func (q *seqSerializer) target() *Serializer {
	if q.buffered {
		return q.child
	}
	return q.parent
}

func (q *seqSerializer) SerializeElement(f serde.SerializeFunc) error {
	q.count++
	return f(q.target())
}

func (q *seqSerializer) End() error {
	if q.want >= 0 && q.count != q.want {
		return serde.NewEncodeError(q.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, q.want, q.count))
	}
	if q.buffered {
		if err := q.parent.enc.EncodeArrayLen(q.count); err != nil {
			return serde.NewEncodeError(q.shape, err)
		}
		if _, err := q.parent.buf.Write(q.child.buf.Bytes()); err != nil {
			return serde.NewEncodeError(q.shape, err)
		}
	}
	return nil
}

type mapSerializer struct {
	parent   *Serializer
	child    *Serializer
	want     int
	count    int
	pending  bool
	buffered bool
}

func (m *mapSerializer) target() *Serializer {
	if m.buffered {
		return m.child
	}
	return m.parent
}

func (m *mapSerializer) SerializeKey(f serde.SerializeFunc) error {
	if m.pending {
		return serde.NewEncodeError(serde.ShapeMap, fmt.Errorf("key written before previous value"))
	}
	m.pending = true
	return f(m.target())
}

func (m *mapSerializer) SerializeValue(f serde.SerializeFunc) error {
	if !m.pending {
		return serde.NewEncodeError(serde.ShapeMap, fmt.Errorf("value written without a key"))
	}
	m.pending = false
	m.count++
	return f(m.target())
}

func (m *mapSerializer) End() error {
	if m.pending {
		return serde.NewEncodeError(serde.ShapeMap, fmt.Errorf("map session ended after key, before value"))
	}
	if m.want >= 0 && m.count != m.want {
		return serde.NewEncodeError(serde.ShapeMap,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, m.want, m.count))
	}
	if m.buffered {
		if err := m.parent.enc.EncodeMapLen(m.count); err != nil {
			return serde.NewEncodeError(serde.ShapeMap, err)
		}
		if _, err := m.parent.buf.Write(m.child.buf.Bytes()); err != nil {
			return serde.NewEncodeError(serde.ShapeMap, err)
		}
	}
	return nil
}

type structSerializer struct {
	s     *Serializer
	shape serde.Shape
	want  int
	count int
}

func (t *structSerializer) SerializeField(name string, f serde.SerializeFunc) error {
	t.count++
	if err := t.s.enc.EncodeString(name); err != nil {
		return serde.NewEncodeError(t.shape, err)
	}
	return f(t.s)
}

func (t *structSerializer) End() error {
	if t.want >= 0 && t.count != t.want {
		return serde.NewEncodeError(t.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, t.want, t.count))
	}
	return nil
}
