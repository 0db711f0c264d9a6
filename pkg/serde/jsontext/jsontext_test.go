package jsontext_test

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nimburion/serde/pkg/serde"
	"github.com/nimburion/serde/pkg/serde/jsontext"
	"github.com/nimburion/serde/pkg/serde/value"
)

func encode(t *testing.T, f func(s *jsontext.Serializer) error) string {
	t.Helper()
	s := jsontext.NewSerializer()
	if err := f(s); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return string(s.Bytes())
}

func TestSerializer_Primitives(t *testing.T) {
	tests := []struct {
		name string
		f    func(s *jsontext.Serializer) error
		want string
	}{
		{"bool", func(s *jsontext.Serializer) error { return s.SerializeBool(true) }, "true"},
		{"i32", func(s *jsontext.Serializer) error { return s.SerializeI32(-5) }, "-5"},
		{"u64 max", func(s *jsontext.Serializer) error { return s.SerializeU64(math.MaxUint64) }, "18446744073709551615"},
		{"i128", func(s *jsontext.Serializer) error { return s.SerializeI128(serde.Int128FromInt64(-42)) }, "-42"},
		{"u128", func(s *jsontext.Serializer) error { return s.SerializeU128(serde.Uint128FromUint64(42)) }, "42"},
		{"f64", func(s *jsontext.Serializer) error { return s.SerializeF64(1.5) }, "1.5"},
		{"f32", func(s *jsontext.Serializer) error { return s.SerializeF32(0.25) }, "0.25"},
		{"char", func(s *jsontext.Serializer) error { return s.SerializeChar('é') }, `"é"`},
		{"string", func(s *jsontext.Serializer) error { return s.SerializeString("hi") }, `"hi"`},
		{"string escapes", func(s *jsontext.Serializer) error { return s.SerializeString("a\"b\\c\nd") }, `"a\"b\\c\nd"`},
		{"control char", func(s *jsontext.Serializer) error { return s.SerializeString("\x01") }, `""`},
		{"bytes base64", func(s *jsontext.Serializer) error { return s.SerializeBytes([]byte{1, 2, 3}) }, `"AQID"`},
		{"none", func(s *jsontext.Serializer) error { return s.SerializeNone() }, "null"},
		{"unit", func(s *jsontext.Serializer) error { return s.SerializeUnit() }, "null"},
		{"unit struct", func(s *jsontext.Serializer) error { return s.SerializeUnitStruct("Marker") }, "null"},
		{"unit variant", func(s *jsontext.Serializer) error { return s.SerializeUnitVariant("Mode", 1, "Idle") }, `"Idle"`},
		{"some is invisible", func(s *jsontext.Serializer) error {
			return s.SerializeSome(func(s serde.Serializer) error { return s.SerializeI32(7) })
		}, "7"},
		{"newtype struct is invisible", func(s *jsontext.Serializer) error {
			return s.SerializeNewtypeStruct("Meters", func(s serde.Serializer) error { return s.SerializeU32(9) })
		}, "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode(t, tt.f); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSerializer_Composites(t *testing.T) {
	t.Run("seq", func(t *testing.T) {
		got := encode(t, func(s *jsontext.Serializer) error {
			sq, err := s.SerializeSeq(-1)
			if err != nil {
				return err
			}
			for _, n := range []int32{1, 2, 3} {
				n := n
				if err := sq.SerializeElement(func(s serde.Serializer) error { return s.SerializeI32(n) }); err != nil {
					return err
				}
			}
			return sq.End()
		})
		if got != "[1,2,3]" {
			t.Errorf("got %s", got)
		}
	})

	t.Run("struct", func(t *testing.T) {
		got := encode(t, func(s *jsontext.Serializer) error {
			st, err := s.SerializeStruct("Point", 2)
			if err != nil {
				return err
			}
			if err := st.SerializeField("x", func(s serde.Serializer) error { return s.SerializeI32(1) }); err != nil {
				return err
			}
			if err := st.SerializeField("y", func(s serde.Serializer) error { return s.SerializeI32(2) }); err != nil {
				return err
			}
			return st.End()
		})
		if got != `{"x":1,"y":2}` {
			t.Errorf("got %s", got)
		}
	})

	t.Run("newtype variant", func(t *testing.T) {
		got := encode(t, func(s *jsontext.Serializer) error {
			return s.SerializeNewtypeVariant("Color", 2, "Rgb", func(s serde.Serializer) error {
				return s.SerializeU32(7)
			})
		})
		if got != `{"Rgb":7}` {
			t.Errorf("got %s", got)
		}
	})

	t.Run("tuple variant", func(t *testing.T) {
		got := encode(t, func(s *jsontext.Serializer) error {
			sq, err := s.SerializeTupleVariant("Shape", 0, "Pair", 2)
			if err != nil {
				return err
			}
			if err := sq.SerializeElement(func(s serde.Serializer) error { return s.SerializeI8(1) }); err != nil {
				return err
			}
			if err := sq.SerializeElement(func(s serde.Serializer) error { return s.SerializeI8(2) }); err != nil {
				return err
			}
			return sq.End()
		})
		if got != `{"Pair":[1,2]}` {
			t.Errorf("got %s", got)
		}
	})

	t.Run("struct variant", func(t *testing.T) {
		got := encode(t, func(s *jsontext.Serializer) error {
			st, err := s.SerializeStructVariant("Shape", 1, "Rect", 2)
			if err != nil {
				return err
			}
			if err := st.SerializeField("w", func(s serde.Serializer) error { return s.SerializeU8(3) }); err != nil {
				return err
			}
			if err := st.SerializeField("h", func(s serde.Serializer) error { return s.SerializeU8(4) }); err != nil {
				return err
			}
			return st.End()
		})
		if got != `{"Rect":{"w":3,"h":4}}` {
			t.Errorf("got %s", got)
		}
	})

	t.Run("integer map key lowers to string", func(t *testing.T) {
		got := encode(t, func(s *jsontext.Serializer) error {
			m, err := s.SerializeMap(1)
			if err != nil {
				return err
			}
			if err := m.SerializeKey(func(s serde.Serializer) error { return s.SerializeU32(5) }); err != nil {
				return err
			}
			if err := m.SerializeValue(func(s serde.Serializer) error { return s.SerializeBool(true) }); err != nil {
				return err
			}
			return m.End()
		})
		if got != `{"5":true}` {
			t.Errorf("got %s", got)
		}
	})
}

func TestSerializer_Errors(t *testing.T) {
	t.Run("nan rejected", func(t *testing.T) {
		err := jsontext.NewSerializer().SerializeF64(math.NaN())
		if !errors.Is(err, serde.ErrUnsupportedShape) {
			t.Fatalf("got %v, want ErrUnsupportedShape", err)
		}
	})

	t.Run("infinity rejected", func(t *testing.T) {
		err := jsontext.NewSerializer().SerializeF32(float32(math.Inf(1)))
		if !errors.Is(err, serde.ErrUnsupportedShape) {
			t.Fatalf("got %v, want ErrUnsupportedShape", err)
		}
	})

	t.Run("bool map key rejected", func(t *testing.T) {
		s := jsontext.NewSerializer()
		m, err := s.SerializeMap(-1)
		if err != nil {
			t.Fatal(err)
		}
		err = m.SerializeKey(func(s serde.Serializer) error { return s.SerializeBool(true) })
		if !errors.Is(err, serde.ErrUnsupportedShape) {
			t.Fatalf("got %v, want ErrUnsupportedShape", err)
		}
	})

	t.Run("tuple length mismatch", func(t *testing.T) {
		s := jsontext.NewSerializer()
		sq, err := s.SerializeTuple(2)
		if err != nil {
			t.Fatal(err)
		}
		if err := sq.SerializeElement(func(s serde.Serializer) error { return s.SerializeI8(1) }); err != nil {
			t.Fatal(err)
		}
		if err := sq.End(); !errors.Is(err, serde.ErrLengthMismatch) {
			t.Fatalf("got %v, want ErrLengthMismatch", err)
		}
	})

	t.Run("map value without key", func(t *testing.T) {
		s := jsontext.NewSerializer()
		m, err := s.SerializeMap(-1)
		if err != nil {
			t.Fatal(err)
		}
		err = m.SerializeValue(func(s serde.Serializer) error { return s.SerializeBool(true) })
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("map end with dangling key", func(t *testing.T) {
		s := jsontext.NewSerializer()
		m, err := s.SerializeMap(-1)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.SerializeKey(func(s serde.Serializer) error { return s.SerializeString("k") }); err != nil {
			t.Fatal(err)
		}
		if err := m.End(); err == nil {
			t.Fatal("expected error")
		}
	})
}

// strCapture records the flavor strings arrive with and hands the raw
// bytes back so aliasing is observable.
type strCapture struct {
	serde.BaseVisitor
	flavor serde.Flavor
}

func (v *strCapture) VisitStr(b []byte, flavor serde.Flavor) (any, error) {
	v.flavor = flavor
	return b, nil
}

func TestDeserializer_BorrowedString(t *testing.T) {
	input := []byte(`"hello"`)
	d := jsontext.NewDeserializer(input)
	v := &strCapture{serde.BaseVisitor{Desc: "a string"}, 0}
	got, err := d.DeserializeString(v)
	if err != nil {
		t.Fatal(err)
	}
	raw := got.([]byte)
	if string(raw) != "hello" {
		t.Fatalf("got %q", raw)
	}
	if v.flavor != serde.FlavorBorrowed {
		t.Fatalf("got flavor %v, want borrowed", v.flavor)
	}
	// A borrowed slice aliases the input buffer.
	input[1] = 'H'
	if raw[0] != 'H' {
		t.Error("borrowed string does not alias the input buffer")
	}
	if err := d.End(); err != nil {
		t.Fatal(err)
	}
}

func TestDeserializer_EscapedString(t *testing.T) {
	input := []byte(`"a\nbA 😀"`)
	d := jsontext.NewDeserializer(input)
	v := &strCapture{serde.BaseVisitor{Desc: "a string"}, 0}
	got, err := d.DeserializeString(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.([]byte)) != "a\nbA \U0001F600" {
		t.Fatalf("got %q", got)
	}
	if v.flavor != serde.FlavorTransient {
		t.Fatalf("got flavor %v, want transient", v.flavor)
	}
}

func TestDeserializer_SurrogateEscapes(t *testing.T) {
	t.Run("paired surrogates decode", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`"😀"`))
		got, err := d.DeserializeString(&strCapture{serde.BaseVisitor{Desc: "a string"}, 0})
		if err != nil {
			t.Fatal(err)
		}
		if string(got.([]byte)) != "\U0001F600" {
			t.Fatalf("got %q", got)
		}
	})

	tests := []struct {
		name  string
		input string
	}{
		{"lone high surrogate", `"\uD800"`},
		{"lone low surrogate", `"\uDC00"`},
		{"high surrogate before text", `"\uD800x"`},
		{"two high surrogates", `"\uD800\uD801"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := jsontext.NewDeserializer([]byte(tt.input))
			_, err := d.DeserializeString(&strCapture{serde.BaseVisitor{Desc: "a string"}, 0})
			if !errors.Is(err, serde.ErrSyntax) {
				t.Errorf("got %v, want ErrSyntax", err)
			}
		})
	}
}

// intKeyMapVisitor decodes a map whose keys are typed i32 and whose
// values are booleans.
type intKeyMapVisitor struct{ serde.BaseVisitor }

func (intKeyMapVisitor) VisitMap(ma serde.MapAccess) (any, error) {
	entries := map[int32]bool{}
	for {
		key, ok, err := ma.NextKey(func(d serde.Deserializer) (any, error) {
			return d.DeserializeI32(value.Visitor())
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return entries, nil
		}
		val, err := ma.NextValue(func(d serde.Deserializer) (any, error) {
			return d.DeserializeBool(value.Visitor())
		})
		if err != nil {
			return nil, err
		}
		entries[int32(key.(value.I32))] = bool(val.(value.Bool))
	}
}

func TestDeserializer_IntegerMapKeys(t *testing.T) {
	t.Run("quoted integer keys decode", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"1":true,"-2":false}`))
		got, err := d.DeserializeMap(intKeyMapVisitor{serde.BaseVisitor{Desc: "a map with i32 keys"}})
		if err != nil {
			t.Fatal(err)
		}
		entries := got.(map[int32]bool)
		if len(entries) != 2 || !entries[1] || entries[-2] {
			t.Errorf("decoded %v", entries)
		}
		if err := d.End(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		out := encode(t, func(s *jsontext.Serializer) error {
			m, err := s.SerializeMap(1)
			if err != nil {
				return err
			}
			if err := m.SerializeKey(func(s serde.Serializer) error { return s.SerializeI32(5) }); err != nil {
				return err
			}
			if err := m.SerializeValue(func(s serde.Serializer) error { return s.SerializeBool(true) }); err != nil {
				return err
			}
			return m.End()
		})
		d := jsontext.NewDeserializer([]byte(out))
		got, err := d.DeserializeMap(intKeyMapVisitor{serde.BaseVisitor{Desc: "a map with i32 keys"}})
		if err != nil {
			t.Fatal(err)
		}
		if entries := got.(map[int32]bool); len(entries) != 1 || !entries[5] {
			t.Errorf("decoded %v", entries)
		}
	})

	t.Run("non-numeric key", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"x":true}`))
		_, err := d.DeserializeMap(intKeyMapVisitor{serde.BaseVisitor{Desc: "a map with i32 keys"}})
		if !errors.Is(err, serde.ErrSyntax) {
			t.Errorf("got %v, want ErrSyntax", err)
		}
	})

	t.Run("trailing text inside key", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"1x":true}`))
		_, err := d.DeserializeMap(intKeyMapVisitor{serde.BaseVisitor{Desc: "a map with i32 keys"}})
		if !errors.Is(err, serde.ErrSyntax) {
			t.Errorf("got %v, want ErrSyntax", err)
		}
	})

	t.Run("bare number outside key position", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte("7"))
		got, err := d.DeserializeI32(value.Visitor())
		if err != nil {
			t.Fatal(err)
		}
		if got.(value.I32) != 7 {
			t.Errorf("got %v", got)
		}
	})
}

func TestDeserializer_NumberErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		call    func(d *jsontext.Deserializer) error
		wantErr error
	}{
		{"i8 out of range", "300", func(d *jsontext.Deserializer) error {
			_, err := d.DeserializeI8(value.Visitor())
			return err
		}, serde.ErrValueOutOfRange},
		{"u64 negative", "-1", func(d *jsontext.Deserializer) error {
			_, err := d.DeserializeU64(value.Visitor())
			return err
		}, serde.ErrSyntax},
		{"integer with fraction", "1.5", func(d *jsontext.Deserializer) error {
			_, err := d.DeserializeI32(value.Visitor())
			return err
		}, serde.ErrSyntax},
		{"not a number", "true", func(d *jsontext.Deserializer) error {
			_, err := d.DeserializeU8(value.Visitor())
			return err
		}, serde.ErrSyntax},
		{"empty input", "", func(d *jsontext.Deserializer) error {
			_, err := d.DeserializeI64(value.Visitor())
			return err
		}, serde.ErrTruncatedInput},
		{"i128 overflow", "170141183460469231731687303715884105728", func(d *jsontext.Deserializer) error {
			_, err := d.DeserializeI128(value.Visitor())
			return err
		}, serde.ErrValueOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(jsontext.NewDeserializer([]byte(tt.input)))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			var de *serde.DecodeError
			if !errors.As(err, &de) {
				t.Errorf("error is not a DecodeError: %v", err)
			}
		})
	}
}

func TestDeserializer_I128Boundaries(t *testing.T) {
	d := jsontext.NewDeserializer([]byte("170141183460469231731687303715884105727"))
	got, err := d.DeserializeI128(value.Visitor())
	if err != nil {
		t.Fatal(err)
	}
	n := serde.Int128(got.(value.I128))
	if n.Big().String() != "170141183460469231731687303715884105727" {
		t.Fatalf("got %s", n.Big())
	}
}

func TestDeserializer_Any(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  value.Value
	}{
		{"null", "null", value.Unit{}},
		{"true", "true", value.Bool(true)},
		{"negative int", "-3", value.I64(-3)},
		{"int", "42", value.I64(42)},
		{"large uint", "9223372036854775808", value.U64(1 << 63)},
		{"float", "1.5", value.F64(1.5)},
		{"string", `"hi"`, value.String("hi")},
		{"array", "[1,2]", value.Seq{value.I64(1), value.I64(2)}},
		{"object", `{"a":1}`, value.Map{{Key: value.String("a"), Value: value.I64(1)}}},
		{"whitespace tolerated", " [ 1 , 2 ] ", value.Seq{value.I64(1), value.I64(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := jsontext.NewDeserializer([]byte(tt.input))
			got, err := value.Decode(d)
			if err != nil {
				t.Fatal(err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
			if err := d.End(); err != nil {
				t.Errorf("End: %v", err)
			}
		})
	}
}

// modeVisitor decodes a small enum used by the variant tests.
type modeVisitor struct {
	serde.BaseVisitor
}

func (modeVisitor) VisitEnum(ea serde.EnumAccess) (any, error) {
	variant, _, va, err := ea.Variant()
	if err != nil {
		return nil, err
	}
	switch variant {
	case "Idle":
		return "Idle", va.UnitVariant()
	case "Rgb":
		return va.NewtypeVariant(func(d serde.Deserializer) (any, error) {
			v, err := value.Decode(d)
			return v, err
		})
	case "Pair":
		return va.TupleVariant(2, value.Visitor())
	case "Rect":
		return va.StructVariant([]string{"w"}, value.Visitor())
	}
	return nil, errors.New("unreachable")
}

var modeVariants = []string{"Idle", "Rgb", "Pair", "Rect"}

func TestDeserializer_Enum(t *testing.T) {
	vis := modeVisitor{serde.BaseVisitor{Desc: "a mode"}}

	t.Run("bare string unit variant", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`"Idle"`))
		got, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if err != nil {
			t.Fatal(err)
		}
		if got != "Idle" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("object unit variant", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"Idle":null}`))
		if _, err := d.DeserializeEnum("Mode", modeVariants, vis); err != nil {
			t.Fatal(err)
		}
		if err := d.End(); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("newtype variant", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"Rgb":7}`))
		got, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if err != nil {
			t.Fatal(err)
		}
		if !value.Equal(got.(value.Value), value.I64(7)) {
			t.Fatalf("got %#v", got)
		}
	})

	t.Run("tuple variant", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"Pair":[1,2]}`))
		got, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if err != nil {
			t.Fatal(err)
		}
		want := value.Seq{value.I64(1), value.I64(2)}
		if !value.Equal(got.(value.Value), want) {
			t.Fatalf("got %#v", got)
		}
	})

	t.Run("tuple variant length mismatch", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"Pair":[1,2,3]}`))
		_, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if !errors.Is(err, serde.ErrLengthMismatch) {
			t.Fatalf("got %v, want ErrLengthMismatch", err)
		}
	})

	t.Run("struct variant", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`{"Rect":{"w":3}}`))
		got, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if err != nil {
			t.Fatal(err)
		}
		want := value.Map{{Key: value.String("w"), Value: value.I64(3)}}
		if !value.Equal(got.(value.Value), want) {
			t.Fatalf("got %#v", got)
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`"Bogus"`))
		_, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if !errors.Is(err, serde.ErrUnknownVariant) {
			t.Fatalf("got %v, want ErrUnknownVariant", err)
		}
	})

	t.Run("bare string carries no payload", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`"Rgb"`))
		_, err := d.DeserializeEnum("Mode", modeVariants, vis)
		if !errors.Is(err, serde.ErrSyntax) {
			t.Fatalf("got %v, want ErrSyntax", err)
		}
	})
}

// lazySeqVisitor consumes only the first element and then stops, to
// exercise the leftover-entry check.
type lazySeqVisitor struct {
	serde.BaseVisitor
}

func (lazySeqVisitor) VisitSeq(sa serde.SeqAccess) (any, error) {
	_, _, err := sa.NextElement(func(d serde.Deserializer) (any, error) {
		return value.Decode(d)
	})
	return nil, err
}

func TestDeserializer_Malformed(t *testing.T) {
	t.Run("trailing data after value", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte("1 2"))
		if _, err := value.Decode(d); err != nil {
			t.Fatal(err)
		}
		if err := d.End(); !errors.Is(err, serde.ErrSyntax) {
			t.Fatalf("got %v, want ErrSyntax", err)
		}
	})

	t.Run("trailing comma", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte("[1,2,]"))
		if _, err := value.Decode(d); !errors.Is(err, serde.ErrSyntax) {
			t.Fatalf("got %v, want ErrSyntax", err)
		}
	})

	t.Run("unterminated string", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte(`"abc`))
		if _, err := value.Decode(d); !errors.Is(err, serde.ErrTruncatedInput) {
			t.Fatalf("got %v, want ErrTruncatedInput", err)
		}
	})

	t.Run("unterminated array", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte("[1,"))
		if _, err := value.Decode(d); !errors.Is(err, serde.ErrTruncatedInput) {
			t.Fatalf("got %v, want ErrTruncatedInput", err)
		}
	})

	t.Run("unconsumed entries rejected", func(t *testing.T) {
		d := jsontext.NewDeserializer([]byte("[1,2,3]"))
		vis := lazySeqVisitor{serde.BaseVisitor{Desc: "a sequence"}}
		_, err := d.DeserializeSeq(vis)
		if !errors.Is(err, serde.ErrTrailingEntries) {
			t.Fatalf("got %v, want ErrTrailingEntries", err)
		}
	})

	t.Run("nesting depth limit", func(t *testing.T) {
		input := []byte("[[[[[1]]]]]")
		cfg := jsontext.Config{MaxDepth: 4}
		d := jsontext.NewDeserializerWithConfig(input, cfg)
		if _, err := value.Decode(d); !errors.Is(err, serde.ErrSyntax) {
			t.Fatalf("got %v, want ErrSyntax", err)
		}
	})

	t.Run("depth within limit passes", func(t *testing.T) {
		input := []byte("[[[[1]]]]")
		cfg := jsontext.Config{MaxDepth: 4}
		d := jsontext.NewDeserializerWithConfig(input, cfg)
		if _, err := value.Decode(d); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDeserializer_ErrorOffsets(t *testing.T) {
	d := jsontext.NewDeserializer([]byte("   true"))
	_, err := d.DeserializeI32(value.Visitor())
	var de *serde.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v", err)
	}
	if de.Offset != 3 {
		t.Errorf("got offset %d, want 3", de.Offset)
	}
}

// genJSONValue builds values whose JSON rendering decodes back to the
// same node: self-describing decode reports integers as i64 or u64 and
// keeps no option or newtype layers, so those are left out.
func genJSONValue(depth int) gopter.Gen {
	scalars := []gopter.Gen{
		gen.Bool().Map(func(v bool) value.Value { return value.Bool(v) }),
		gen.Int64().Map(func(v int64) value.Value { return value.I64(v) }),
		gen.Float64().SuchThat(func(v float64) bool {
			return !math.IsNaN(v) && !math.IsInf(v, 0) && v != math.Trunc(v)
		}).Map(func(v float64) value.Value { return value.F64(v) }),
		gen.AlphaString().Map(func(v string) value.Value { return value.String(v) }),
		gen.Bool().Map(func(bool) value.Value { return value.Unit{} }),
	}
	if depth <= 0 {
		return gen.OneGenOf(scalars...)
	}
	composite := gopter.CombineGens(
		genJSONValue(depth-1), genJSONValue(depth-1),
	).Map(func(vs []interface{}) value.Value {
		return value.Seq{vs[0].(value.Value), vs[1].(value.Value)}
	})
	return gen.OneGenOf(append(scalars, composite)...)
}

func TestProperty_JSONRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("decode inverts encode", prop.ForAll(
		func(v value.Value) bool {
			s := jsontext.NewSerializer()
			if err := v.Serialize(s); err != nil {
				return false
			}
			d := jsontext.NewDeserializer(s.Bytes())
			got, err := value.Decode(d)
			if err != nil {
				return false
			}
			if err := d.End(); err != nil {
				return false
			}
			return value.Equal(got, v)
		},
		genJSONValue(2),
	))

	properties.TestingRun(t)
}
