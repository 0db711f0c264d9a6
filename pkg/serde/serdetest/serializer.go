package serdetest

import (
	"fmt"

	"github.com/nimburion/serde/pkg/serde"
)

// Serializer records every producer operation as a token. Sessions verify
// length hints against the number of elements actually written.
type Serializer struct {
	tokens []Token
}

var _ serde.Serializer = (*Serializer)(nil)

// NewSerializer returns an empty recording serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Tokens returns the stream recorded so far.
func (s *Serializer) Tokens() []Token {
	return s.tokens
}

func (s *Serializer) push(t Token) error {
	s.tokens = append(s.tokens, t)
	return nil
}

func (s *Serializer) SerializeBool(v bool) error          { return s.push(Bool(v)) }
func (s *Serializer) SerializeI8(v int8) error            { return s.push(I8(v)) }
func (s *Serializer) SerializeI16(v int16) error          { return s.push(I16(v)) }
func (s *Serializer) SerializeI32(v int32) error          { return s.push(I32(v)) }
func (s *Serializer) SerializeI64(v int64) error          { return s.push(I64(v)) }
func (s *Serializer) SerializeI128(v serde.Int128) error  { return s.push(I128(v)) }
func (s *Serializer) SerializeU8(v uint8) error           { return s.push(U8(v)) }
func (s *Serializer) SerializeU16(v uint16) error         { return s.push(U16(v)) }
func (s *Serializer) SerializeU32(v uint32) error         { return s.push(U32(v)) }
func (s *Serializer) SerializeU64(v uint64) error         { return s.push(U64(v)) }
func (s *Serializer) SerializeU128(v serde.Uint128) error { return s.push(U128(v)) }
func (s *Serializer) SerializeF32(v float32) error        { return s.push(F32(v)) }
func (s *Serializer) SerializeF64(v float64) error        { return s.push(F64(v)) }
func (s *Serializer) SerializeChar(v rune) error          { return s.push(Char(v)) }
func (s *Serializer) SerializeString(v string) error      { return s.push(Str(v)) }

func (s *Serializer) SerializeBytes(v []byte) error {
	cp := make([]byte, len(v))
	copy(cp, v)
	return s.push(Bytes(cp))
}

func (s *Serializer) SerializeNone() error { return s.push(None()) }

func (s *Serializer) SerializeSome(f serde.SerializeFunc) error {
	if err := s.push(Some()); err != nil {
		return err
	}
	return f(s)
}

func (s *Serializer) SerializeUnit() error { return s.push(Unit()) }

func (s *Serializer) SerializeUnitStruct(name string) error {
	return s.push(UnitStruct(name))
}

func (s *Serializer) SerializeUnitVariant(name string, index uint32, variant string) error {
	return s.push(UnitVariant(name, index, variant))
}

func (s *Serializer) SerializeNewtypeStruct(name string, f serde.SerializeFunc) error {
	if err := s.push(NewtypeStruct(name)); err != nil {
		return err
	}
	return f(s)
}

func (s *Serializer) SerializeNewtypeVariant(name string, index uint32, variant string, f serde.SerializeFunc) error {
	if err := s.push(NewtypeVariant(name, index, variant)); err != nil {
		return err
	}
	return f(s)
}

func (s *Serializer) SerializeSeq(hint int) (serde.SeqSerializer, error) {
	s.tokens = append(s.tokens, Seq(hint))
	return &seqSerializer{ser: s, end: SeqEnd(), shape: serde.ShapeSeq, want: hint}, nil
}

func (s *Serializer) SerializeTuple(length int) (serde.SeqSerializer, error) {
	s.tokens = append(s.tokens, Tuple(length))
	return &seqSerializer{ser: s, end: TupleEnd(), shape: serde.ShapeTuple, want: length}, nil
}

func (s *Serializer) SerializeTupleStruct(name string, length int) (serde.SeqSerializer, error) {
	s.tokens = append(s.tokens, TupleStruct(name, length))
	return &seqSerializer{ser: s, end: TupleStructEnd(), shape: serde.ShapeTupleStruct, want: length}, nil
}

func (s *Serializer) SerializeTupleVariant(name string, index uint32, variant string, length int) (serde.SeqSerializer, error) {
	s.tokens = append(s.tokens, TupleVariant(name, index, variant, length))
	return &seqSerializer{ser: s, end: TupleVariantEnd(), shape: serde.ShapeTupleVariant, want: length}, nil
}

func (s *Serializer) SerializeMap(hint int) (serde.MapSerializer, error) {
	s.tokens = append(s.tokens, Map(hint))
	return &mapSerializer{ser: s, end: MapEnd(), shape: serde.ShapeMap, want: hint}, nil
}

func (s *Serializer) SerializeStruct(name string, length int) (serde.StructSerializer, error) {
	s.tokens = append(s.tokens, Struct(name, length))
	return &structSerializer{ser: s, end: StructEnd(), shape: serde.ShapeStruct, want: length}, nil
}

func (s *Serializer) SerializeStructVariant(name string, index uint32, variant string, length int) (serde.StructSerializer, error) {
	s.tokens = append(s.tokens, StructVariant(name, index, variant, length))
	return &structSerializer{ser: s, end: StructVariantEnd(), shape: serde.ShapeStructVariant, want: length}, nil
}

func (s *Serializer) IsHumanReadable() bool { return false }

type seqSerializer struct {
	ser   *Serializer
	end   Token
	shape serde.Shape
	want  int
	count int
}

func (q *seqSerializer) SerializeElement(f serde.SerializeFunc) error {
	q.count++
	return f(q.ser)
}

func (q *seqSerializer) End() error {
	if q.want >= 0 && q.count != q.want {
		return serde.NewEncodeError(q.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, q.want, q.count))
	}
	return q.ser.push(q.end)
}

type mapSerializer struct {
	ser     *Serializer
	end     Token
	shape   serde.Shape
	want    int
	count   int
	pending bool
}

func (m *mapSerializer) SerializeKey(f serde.SerializeFunc) error {
	if m.pending {
		return serde.NewEncodeError(m.shape, fmt.Errorf("key written before previous value"))
	}
	m.pending = true
	return f(m.ser)
}

func (m *mapSerializer) SerializeValue(f serde.SerializeFunc) error {
	if !m.pending {
		return serde.NewEncodeError(m.shape, fmt.Errorf("value written without a key"))
	}
	m.pending = false
	m.count++
	return f(m.ser)
}

func (m *mapSerializer) End() error {
	if m.pending {
		return serde.NewEncodeError(m.shape, fmt.Errorf("map session ended after key, before value"))
	}
	if m.want >= 0 && m.count != m.want {
		return serde.NewEncodeError(m.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, m.want, m.count))
	}
	return m.ser.push(m.end)
}

type structSerializer struct {
	ser   *Serializer
	end   Token
	shape serde.Shape
	want  int
	count int
}

func (t *structSerializer) SerializeField(name string, f serde.SerializeFunc) error {
	t.count++
	if err := t.ser.push(Str(name)); err != nil {
		return err
	}
	return f(t.ser)
}

func (t *structSerializer) End() error {
	if t.want >= 0 && t.count != t.want {
		return serde.NewEncodeError(t.shape,
			fmt.Errorf("%w: declared %d, wrote %d", serde.ErrLengthMismatch, t.want, t.count))
	}
	return t.ser.push(t.end)
}
