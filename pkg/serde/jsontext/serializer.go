package jsontext

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/nimburion/serde/pkg/serde"
)

// Serializer is the JSON producer. It appends to an internal buffer;
// Bytes returns the output. A Serializer encodes one top-level value and
// is not safe for concurrent use.
type Serializer struct {
	buf []byte

	// key is set while a map-key closure runs; primitives then either
	// lower to JSON strings or fail.
	key bool
}

var _ serde.Serializer = (*Serializer)(nil)

// NewSerializer returns an empty JSON producer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Bytes returns the JSON produced so far.
func (s *Serializer) Bytes() []byte {
	return s.buf
}

func (s *Serializer) keyError(shape serde.Shape) error {
	return serde.NewEncodeError(shape,
		fmt.Errorf("%w: map key must lower to a string", serde.ErrUnsupportedShape))
}

func (s *Serializer) appendInt(shape serde.Shape, v int64) error {
	if s.key {
		s.buf = append(s.buf, '"')
		s.buf = strconv.AppendInt(s.buf, v, 10)
		s.buf = append(s.buf, '"')
		return nil
	}
	s.buf = strconv.AppendInt(s.buf, v, 10)
	return nil
}

func (s *Serializer) appendUint(shape serde.Shape, v uint64) error {
	if s.key {
		s.buf = append(s.buf, '"')
		s.buf = strconv.AppendUint(s.buf, v, 10)
		s.buf = append(s.buf, '"')
		return nil
	}
	s.buf = strconv.AppendUint(s.buf, v, 10)
	return nil
}

func (s *Serializer) appendFloat(shape serde.Shape, v float64, bits int) error {
	if s.key {
		return s.keyError(shape)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return serde.NewEncodeError(shape,
			fmt.Errorf("%w: JSON has no representation for %g", serde.ErrUnsupportedShape, v))
	}
	s.buf = strconv.AppendFloat(s.buf, v, 'g', -1, bits)
	return nil
}

func (s *Serializer) appendString(v string) {
	s.buf = append(s.buf, '"')
	for _, r := range v {
		switch r {
		case '"':
			s.buf = append(s.buf, '\\', '"')
		case '\\':
			s.buf = append(s.buf, '\\', '\\')
		case '\n':
			s.buf = append(s.buf, '\\', 'n')
		case '\r':
			s.buf = append(s.buf, '\\', 'r')
		case '\t':
			s.buf = append(s.buf, '\\', 't')
		default:
			if r < 0x20 {
				s.buf = append(s.buf, fmt.Sprintf("\\u%04x", r)...)
			} else {
				s.buf = utf8.AppendRune(s.buf, r)
			}
		}
	}
	s.buf = append(s.buf, '"')
}

func (s *Serializer) SerializeBool(v bool) error {
	if s.key {
		return s.keyError(serde.ShapeBool)
	}
	if v {
		s.buf = append(s.buf, "true"...)
	} else {
		s.buf = append(s.buf, "false"...)
	}
	return nil
}

func (s *Serializer) SerializeI8(v int8) error   { return s.appendInt(serde.ShapeI8, int64(v)) }
func (s *Serializer) SerializeI16(v int16) error { return s.appendInt(serde.ShapeI16, int64(v)) }
func (s *Serializer) SerializeI32(v int32) error { return s.appendInt(serde.ShapeI32, int64(v)) }
func (s *Serializer) SerializeI64(v int64) error { return s.appendInt(serde.ShapeI64, v) }

func (s *Serializer) SerializeI128(v serde.Int128) error {
	if s.key {
		return s.keyError(serde.ShapeI128)
	}
	s.buf = append(s.buf, v.Big().String()...)
	return nil
}

func (s *Serializer) SerializeU8(v uint8) error   { return s.appendUint(serde.ShapeU8, uint64(v)) }
func (s *Serializer) SerializeU16(v uint16) error { return s.appendUint(serde.ShapeU16, uint64(v)) }
func (s *Serializer) SerializeU32(v uint32) error { return s.appendUint(serde.ShapeU32, uint64(v)) }
func (s *Serializer) SerializeU64(v uint64) error { return s.appendUint(serde.ShapeU64, v) }

func (s *Serializer) SerializeU128(v serde.Uint128) error {
	if s.key {
		return s.keyError(serde.ShapeU128)
	}
	s.buf = append(s.buf, v.Big().String()...)
	return nil
}

func (s *Serializer) SerializeF32(v float32) error {
	return s.appendFloat(serde.ShapeF32, float64(v), 32)
}

func (s *Serializer) SerializeF64(v float64) error {
	return s.appendFloat(serde.ShapeF64, v, 64)
}

func (s *Serializer) SerializeChar(v rune) error {
	s.appendString(string(v))
	return nil
}

func (s *Serializer) SerializeString(v string) error {
	s.appendString(v)
	return nil
}

func (s *Serializer) SerializeBytes(v []byte) error {
	if s.key {
		return s.keyError(serde.ShapeBytes)
	}
	s.buf = append(s.buf, '"')
	s.buf = append(s.buf, base64.StdEncoding.EncodeToString(v)...)
	s.buf = append(s.buf, '"')
	return nil
}

func (s *Serializer) SerializeNone() error {
	if s.key {
		return s.keyError(serde.ShapeOption)
	}
	s.buf = append(s.buf, "null"...)
	return nil
}

func (s *Serializer) SerializeSome(f serde.SerializeFunc) error {
	return f(s)
}

func (s *Serializer) SerializeUnit() error {
	if s.key {
		return s.keyError(serde.ShapeUnit)
	}
	s.buf = append(s.buf, "null"...)
	return nil
}

func (s *Serializer) SerializeUnitStruct(string) error {
	if s.key {
		return s.keyError(serde.ShapeUnitStruct)
	}
	s.buf = append(s.buf, "null"...)
	return nil
}

func (s *Serializer) SerializeUnitVariant(_ string, _ uint32, variant string) error {
	s.appendString(variant)
	return nil
}

func (s *Serializer) SerializeNewtypeStruct(_ string, f serde.SerializeFunc) error {
	return f(s)
}

func (s *Serializer) SerializeNewtypeVariant(_ string, _ uint32, variant string, f serde.SerializeFunc) error {
	if s.key {
		return s.keyError(serde.ShapeNewtypeVariant)
	}
	s.buf = append(s.buf, '{')
	s.appendString(variant)
	s.buf = append(s.buf, ':')
	if err := f(s); err != nil {
		return err
	}
	s.buf = append(s.buf, '}')
	return nil
}

func (s *Serializer) beginSeq(shape serde.Shape, want int, closer string) (serde.SeqSerializer, error) {
	if s.key {
		return nil, s.keyError(shape)
	}
	s.buf = append(s.buf, '[')
	return &seqSerializer{s: s, shape: shape, want: want, closer: closer}, nil
}

func (s *Serializer) SerializeSeq(hint int) (serde.SeqSerializer, error) {
	return s.beginSeq(serde.ShapeSeq, hint, "]")
}

func (s *Serializer) SerializeTuple(length int) (serde.SeqSerializer, error) {
	return s.beginSeq(serde.ShapeTuple, length, "]")
}

func (s *Serializer) SerializeTupleStruct(_ string, length int) (serde.SeqSerializer, error) {
	return s.beginSeq(serde.ShapeTupleStruct, length, "]")
}

func (s *Serializer) SerializeTupleVariant(_ string, _ uint32, variant string, length int) (serde.SeqSerializer, error) {
	if s.key {
		return nil, s.keyError(serde.ShapeTupleVariant)
	}
	s.buf = append(s.buf, '{')
	s.appendString(variant)
	s.buf = append(s.buf, ':', '[')
	return &seqSerializer{s: s, shape: serde.ShapeTupleVariant, want: length, closer: "]}"}, nil
}

func (s *Serializer) SerializeMap(hint int) (serde.MapSerializer, error) {
	if s.key {
		return nil, s.keyError(serde.ShapeMap)
	}
	s.buf = append(s.buf, '{')
	return &mapSerializer{s: s, want: hint, closer: "}"}, nil
}

func (s *Serializer) SerializeStruct(_ string, length int) (serde.StructSerializer, error) {
	if s.key {
		return nil, s.keyError(serde.ShapeStruct)
	}
	s.buf = append(s.buf, '{')
	return &structSerializer{s: s, shape: serde.ShapeStruct, want: length, closer: "}"}, nil
}

func (s *Serializer) SerializeStructVariant(_ string, _ uint32, variant string, length int) (serde.StructSerializer, error) {
	if s.key {
		return nil, s.keyError(serde.ShapeStructVariant)
	}
	s.buf = append(s.buf, '{')
	s.appendString(variant)
	s.buf = append(s.buf, ':', '{')
	return &structSerializer{s: s, shape: serde.ShapeStructVariant, want: length, closer: "}}"}, nil
}

func (s *Serializer) IsHumanReadable() bool { return true }

type seqSerializer struct {
	s      *Serializer
	shape  serde.Shape
	want   int
	count  int
	closer string
}

func (q *seqSerializer) SerializeElement(f serde.SerializeFunc) error {
	if q.count > 0 {
		q.s.buf = append(q.s.buf, ',')
	}
	q.count++
	return f(q.s)
}

func (q *seqSerializer) End() error {
	if q.want >= 0 && q.count != q.want {
		return serde.NewEncodeError(q.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, q.want, q.count))
	}
	q.s.buf = append(q.s.buf, q.closer...)
	return nil
}

type mapSerializer struct {
	s       *Serializer
	want    int
	count   int
	pending bool
	closer  string
}

func (m *mapSerializer) SerializeKey(f serde.SerializeFunc) error {
	if m.pending {
		return serde.NewEncodeError(serde.ShapeMap,
			fmt.Errorf("key written before previous value"))
	}
	if m.count > 0 {
		m.s.buf = append(m.s.buf, ',')
	}
	m.pending = true
	m.s.key = true
	err := f(m.s)
	m.s.key = false
	return err
}

func (m *mapSerializer) SerializeValue(f serde.SerializeFunc) error {
	if !m.pending {
		return serde.NewEncodeError(serde.ShapeMap,
			fmt.Errorf("value written without a key"))
	}
	m.pending = false
	m.count++
	m.s.buf = append(m.s.buf, ':')
	return f(m.s)
}

func (m *mapSerializer) End() error {
	if m.pending {
		return serde.NewEncodeError(serde.ShapeMap,
			fmt.Errorf("map session ended after key, before value"))
	}
	if m.want >= 0 && m.count != m.want {
		return serde.NewEncodeError(serde.ShapeMap,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, m.want, m.count))
	}
	m.s.buf = append(m.s.buf, m.closer...)
	return nil
}

type structSerializer struct {
	s      *Serializer
	shape  serde.Shape
	want   int
	count  int
	closer string
}

func (t *structSerializer) SerializeField(name string, f serde.SerializeFunc) error {
	if t.count > 0 {
		t.s.buf = append(t.s.buf, ',')
	}
	t.count++
	t.s.appendString(name)
	t.s.buf = append(t.s.buf, ':')
	return f(t.s)
}

func (t *structSerializer) End() error {
	if t.want >= 0 && t.count != t.want {
		return serde.NewEncodeError(t.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, t.want, t.count))
	}
	t.s.buf = append(t.s.buf, t.closer...)
	return nil
}
