package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nimburion/serde/pkg/serde"
)

// Serializer is the binary producer. It appends to an internal buffer;
// Bytes returns the output. Unknown-length seq and map sessions buffer
// their elements in a child serializer and prefix the final count at End.
type Serializer struct {
	buf []byte
}

var _ serde.Serializer = (*Serializer)(nil)

// NewSerializer returns an empty binary producer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Bytes returns the output produced so far.
func (s *Serializer) Bytes() []byte {
	return s.buf
}

func (s *Serializer) appendULEB(v uint64) {
	s.buf = binary.AppendUvarint(s.buf, v)
}

func (s *Serializer) SerializeBool(v bool) error {
	if v {
		s.buf = append(s.buf, 1)
	} else {
		s.buf = append(s.buf, 0)
	}
	return nil
}

func (s *Serializer) SerializeI8(v int8) error {
	s.buf = append(s.buf, byte(v))
	return nil
}

func (s *Serializer) SerializeI16(v int16) error {
	s.buf = binary.LittleEndian.AppendUint16(s.buf, uint16(v))
	return nil
}

func (s *Serializer) SerializeI32(v int32) error {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(v))
	return nil
}

func (s *Serializer) SerializeI64(v int64) error {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, uint64(v))
	return nil
}

func (s *Serializer) SerializeI128(v serde.Int128) error {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, v.Low)
	s.buf = binary.LittleEndian.AppendUint64(s.buf, uint64(v.High))
	return nil
}

func (s *Serializer) SerializeU8(v uint8) error {
	s.buf = append(s.buf, v)
	return nil
}

func (s *Serializer) SerializeU16(v uint16) error {
	s.buf = binary.LittleEndian.AppendUint16(s.buf, v)
	return nil
}

func (s *Serializer) SerializeU32(v uint32) error {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, v)
	return nil
}

func (s *Serializer) SerializeU64(v uint64) error {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, v)
	return nil
}

func (s *Serializer) SerializeU128(v serde.Uint128) error {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, v.Low)
	s.buf = binary.LittleEndian.AppendUint64(s.buf, v.High)
	return nil
}

func (s *Serializer) SerializeF32(v float32) error {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, math.Float32bits(v))
	return nil
}

func (s *Serializer) SerializeF64(v float64) error {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, math.Float64bits(v))
	return nil
}

func (s *Serializer) SerializeChar(v rune) error {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(v))
	return nil
}

func (s *Serializer) SerializeString(v string) error {
	s.appendULEB(uint64(len(v)))
	s.buf = append(s.buf, v...)
	return nil
}

func (s *Serializer) SerializeBytes(v []byte) error {
	s.appendULEB(uint64(len(v)))
	s.buf = append(s.buf, v...)
	return nil
}

func (s *Serializer) SerializeNone() error {
	s.buf = append(s.buf, 0)
	return nil
}

func (s *Serializer) SerializeSome(f serde.SerializeFunc) error {
	s.buf = append(s.buf, 1)
	return f(s)
}

func (s *Serializer) SerializeUnit() error { return nil }

func (s *Serializer) SerializeUnitStruct(string) error { return nil }

func (s *Serializer) SerializeUnitVariant(_ string, index uint32, _ string) error {
	s.appendULEB(uint64(index))
	return nil
}

func (s *Serializer) SerializeNewtypeStruct(_ string, f serde.SerializeFunc) error {
	return f(s)
}

func (s *Serializer) SerializeNewtypeVariant(_ string, index uint32, _ string, f serde.SerializeFunc) error {
	s.appendULEB(uint64(index))
	return f(s)
}

func (s *Serializer) SerializeSeq(hint int) (serde.SeqSerializer, error) {
	if hint < 0 {
		// Length unknown up front: buffer elements, prefix the count at End.
		return &seqSerializer{parent: s, child: &Serializer{}, shape: serde.ShapeSeq, want: -1, prefix: true}, nil
	}
	s.appendULEB(uint64(hint))
	return &seqSerializer{parent: s, shape: serde.ShapeSeq, want: hint}, nil
}

func (s *Serializer) SerializeTuple(length int) (serde.SeqSerializer, error) {
	return &seqSerializer{parent: s, shape: serde.ShapeTuple, want: length}, nil
}

func (s *Serializer) SerializeTupleStruct(_ string, length int) (serde.SeqSerializer, error) {
	return &seqSerializer{parent: s, shape: serde.ShapeTupleStruct, want: length}, nil
}

func (s *Serializer) SerializeTupleVariant(_ string, index uint32, _ string, length int) (serde.SeqSerializer, error) {
	s.appendULEB(uint64(index))
	return &seqSerializer{parent: s, shape: serde.ShapeTupleVariant, want: length}, nil
}

func (s *Serializer) SerializeMap(hint int) (serde.MapSerializer, error) {
	if hint < 0 {
		return &mapSerializer{parent: s, child: &Serializer{}, want: -1, prefix: true}, nil
	}
	s.appendULEB(uint64(hint))
	return &mapSerializer{parent: s, want: hint}, nil
}

func (s *Serializer) SerializeStruct(_ string, length int) (serde.StructSerializer, error) {
	return &structSerializer{parent: s, shape: serde.ShapeStruct, want: length}, nil
}

func (s *Serializer) SerializeStructVariant(_ string, index uint32, _ string, length int) (serde.StructSerializer, error) {
	s.appendULEB(uint64(index))
	return &structSerializer{parent: s, shape: serde.ShapeStructVariant, want: length}, nil
}

func (s *Serializer) IsHumanReadable() bool { return false }

type seqSerializer struct {
	parent *Serializer
	child  *Serializer
	shape  serde.Shape
	want   int
	count  int
	prefix bool
}

func (q *seqSerializer) target() *Serializer {
	if q.prefix {
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
	if q.prefix {
		q.parent.appendULEB(uint64(q.count))
		q.parent.buf = append(q.parent.buf, q.child.buf...)
	}
	return nil
}

type mapSerializer struct {
	parent  *Serializer
	child   *Serializer
	want    int
	count   int
	pending bool
	prefix  bool
}

func (m *mapSerializer) target() *Serializer {
	if m.prefix {
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
	if m.prefix {
		m.parent.appendULEB(uint64(m.count))
		m.parent.buf = append(m.parent.buf, m.child.buf...)
	}
	return nil
}

type structSerializer struct {
	parent *Serializer
	shape  serde.Shape
	want   int
	count  int
}

func (t *structSerializer) SerializeField(_ string, f serde.SerializeFunc) error {
	t.count++
	return f(t.parent)
}

func (t *structSerializer) End() error {
	if t.want >= 0 && t.count != t.want {
		return serde.NewEncodeError(t.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, t.want, t.count))
	}
	return nil
}
