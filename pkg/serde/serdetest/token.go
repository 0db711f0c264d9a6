// Package serdetest provides an in-memory token codec for exercising the
// serialization protocols without a byte-level format. Its Serializer
// records every producer operation as a Token; its Deserializer replays a
// token stream as a self-describing input. Tests compare recorded streams
// against expected ones to assert exactly which protocol traffic a
// mapping produced or consumed.
package serdetest

import (
	"fmt"
	"strings"

	"github.com/nimburion/serde/pkg/serde"
)

// Kind discriminates Token payloads. Composite shapes contribute a begin
// kind and a matching end kind.
type Kind uint8

const (
	KindBool Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindF32
	KindF64
	KindChar
	KindStr
	KindBorrowedStr
	KindString
	KindBytes
	KindBorrowedBytes
	KindByteBuf
	KindNone
	KindSome
	KindUnit
	KindUnitStruct
	KindUnitVariant
	KindNewtypeStruct
	KindNewtypeVariant
	KindSeq
	KindSeqEnd
	KindTuple
	KindTupleEnd
	KindTupleStruct
	KindTupleStructEnd
	KindTupleVariant
	KindTupleVariantEnd
	KindMap
	KindMapEnd
	KindStruct
	KindStructEnd
	KindStructVariant
	KindStructVariantEnd
)

var kindNames = map[Kind]string{
	KindBool:             "Bool",
	KindI8:               "I8",
	KindI16:              "I16",
	KindI32:              "I32",
	KindI64:              "I64",
	KindI128:             "I128",
	KindU8:               "U8",
	KindU16:              "U16",
	KindU32:              "U32",
	KindU64:              "U64",
	KindU128:             "U128",
	KindF32:              "F32",
	KindF64:              "F64",
	KindChar:             "Char",
	KindStr:              "Str",
	KindBorrowedStr:      "BorrowedStr",
	KindString:           "String",
	KindBytes:            "Bytes",
	KindBorrowedBytes:    "BorrowedBytes",
	KindByteBuf:          "ByteBuf",
	KindNone:             "None",
	KindSome:             "Some",
	KindUnit:             "Unit",
	KindUnitStruct:       "UnitStruct",
	KindUnitVariant:      "UnitVariant",
	KindNewtypeStruct:    "NewtypeStruct",
	KindNewtypeVariant:   "NewtypeVariant",
	KindSeq:              "Seq",
	KindSeqEnd:           "SeqEnd",
	KindTuple:            "Tuple",
	KindTupleEnd:         "TupleEnd",
	KindTupleStruct:      "TupleStruct",
	KindTupleStructEnd:   "TupleStructEnd",
	KindTupleVariant:     "TupleVariant",
	KindTupleVariantEnd:  "TupleVariantEnd",
	KindMap:              "Map",
	KindMapEnd:           "MapEnd",
	KindStruct:           "Struct",
	KindStructEnd:        "StructEnd",
	KindStructVariant:    "StructVariant",
	KindStructVariantEnd: "StructVariantEnd",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is one recorded protocol operation. Only the fields relevant to
// the Kind are populated; Len is -1 for unknown-length sequences and
// maps.
type Token struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Uint    uint64
	I128    serde.Int128
	U128    serde.Uint128
	Float   float64
	Char    rune
	Str     string
	Bytes   []byte
	Name    string
	Variant string
	Index   uint32
	Len     int
}

// Token constructors, one per protocol operation.

func Bool(v bool) Token           { return Token{Kind: KindBool, Bool: v} }
func I8(v int8) Token             { return Token{Kind: KindI8, Int: int64(v)} }
func I16(v int16) Token           { return Token{Kind: KindI16, Int: int64(v)} }
func I32(v int32) Token           { return Token{Kind: KindI32, Int: int64(v)} }
func I64(v int64) Token           { return Token{Kind: KindI64, Int: v} }
func I128(v serde.Int128) Token   { return Token{Kind: KindI128, I128: v} }
func U8(v uint8) Token            { return Token{Kind: KindU8, Uint: uint64(v)} }
func U16(v uint16) Token          { return Token{Kind: KindU16, Uint: uint64(v)} }
func U32(v uint32) Token          { return Token{Kind: KindU32, Uint: uint64(v)} }
func U64(v uint64) Token          { return Token{Kind: KindU64, Uint: v} }
func U128(v serde.Uint128) Token  { return Token{Kind: KindU128, U128: v} }
func F32(v float32) Token         { return Token{Kind: KindF32, Float: float64(v)} }
func F64(v float64) Token         { return Token{Kind: KindF64, Float: v} }
func Char(v rune) Token           { return Token{Kind: KindChar, Char: v} }
func Str(v string) Token          { return Token{Kind: KindStr, Str: v} }
func BorrowedStr(v string) Token  { return Token{Kind: KindBorrowedStr, Str: v} }
func String(v string) Token       { return Token{Kind: KindString, Str: v} }
func Bytes(v []byte) Token        { return Token{Kind: KindBytes, Bytes: v} }
func BorrowedBytes(v []byte) Token { return Token{Kind: KindBorrowedBytes, Bytes: v} }
func ByteBuf(v []byte) Token      { return Token{Kind: KindByteBuf, Bytes: v} }
func None() Token                 { return Token{Kind: KindNone} }
func Some() Token                 { return Token{Kind: KindSome} }
func Unit() Token                 { return Token{Kind: KindUnit} }

func UnitStruct(name string) Token { return Token{Kind: KindUnitStruct, Name: name} }

func UnitVariant(name string, index uint32, variant string) Token {
	return Token{Kind: KindUnitVariant, Name: name, Index: index, Variant: variant}
}

func NewtypeStruct(name string) Token { return Token{Kind: KindNewtypeStruct, Name: name} }

func NewtypeVariant(name string, index uint32, variant string) Token {
	return Token{Kind: KindNewtypeVariant, Name: name, Index: index, Variant: variant}
}

func Seq(length int) Token { return Token{Kind: KindSeq, Len: length} }
func SeqEnd() Token        { return Token{Kind: KindSeqEnd} }

func Tuple(length int) Token { return Token{Kind: KindTuple, Len: length} }
func TupleEnd() Token        { return Token{Kind: KindTupleEnd} }

func TupleStruct(name string, length int) Token {
	return Token{Kind: KindTupleStruct, Name: name, Len: length}
}
func TupleStructEnd() Token { return Token{Kind: KindTupleStructEnd} }

func TupleVariant(name string, index uint32, variant string, length int) Token {
	return Token{Kind: KindTupleVariant, Name: name, Index: index, Variant: variant, Len: length}
}
func TupleVariantEnd() Token { return Token{Kind: KindTupleVariantEnd} }

func Map(length int) Token { return Token{Kind: KindMap, Len: length} }
func MapEnd() Token        { return Token{Kind: KindMapEnd} }

func Struct(name string, length int) Token {
	return Token{Kind: KindStruct, Name: name, Len: length}
}
func StructEnd() Token { return Token{Kind: KindStructEnd} }

func StructVariant(name string, index uint32, variant string, length int) Token {
	return Token{Kind: KindStructVariant, Name: name, Index: index, Variant: variant, Len: length}
}
func StructVariantEnd() Token { return Token{Kind: KindStructVariantEnd} }

// String renders the token for test failure messages.
func (t Token) String() string {
	switch t.Kind {
	case KindBool:
		return fmt.Sprintf("Bool(%v)", t.Bool)
	case KindI8, KindI16, KindI32, KindI64:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Int)
	case KindI128:
		return fmt.Sprintf("I128(%s)", t.I128.Big())
	case KindU8, KindU16, KindU32, KindU64:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Uint)
	case KindU128:
		return fmt.Sprintf("U128(%s)", t.U128.Big())
	case KindF32, KindF64:
		return fmt.Sprintf("%s(%g)", t.Kind, t.Float)
	case KindChar:
		return fmt.Sprintf("Char(%q)", t.Char)
	case KindStr, KindBorrowedStr, KindString:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Str)
	case KindBytes, KindBorrowedBytes, KindByteBuf:
		return fmt.Sprintf("%s(%x)", t.Kind, t.Bytes)
	case KindUnitStruct, KindNewtypeStruct:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Name)
	case KindUnitVariant, KindNewtypeVariant:
		return fmt.Sprintf("%s(%q::%q)", t.Kind, t.Name, t.Variant)
	case KindSeq, KindMap, KindTuple:
		return fmt.Sprintf("%s(len=%d)", t.Kind, t.Len)
	case KindTupleStruct, KindStruct:
		return fmt.Sprintf("%s(%q, len=%d)", t.Kind, t.Name, t.Len)
	case KindTupleVariant, KindStructVariant:
		return fmt.Sprintf("%s(%q::%q, len=%d)", t.Kind, t.Name, t.Variant, t.Len)
	default:
		return t.Kind.String()
	}
}

// Equal reports whether two tokens carry the same operation and payload.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Bool != o.Bool || t.Int != o.Int || t.Uint != o.Uint ||
		t.I128 != o.I128 || t.U128 != o.U128 || t.Float != o.Float ||
		t.Char != o.Char || t.Str != o.Str ||
		t.Name != o.Name || t.Variant != o.Variant ||
		t.Index != o.Index || t.Len != o.Len {
		return false
	}
	if len(t.Bytes) != len(o.Bytes) {
		return false
	}
	for i := range t.Bytes {
		if t.Bytes[i] != o.Bytes[i] {
			return false
		}
	}
	return true
}

// TokensEqual compares two streams element-wise.
func TokensEqual(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// FormatTokens renders a stream on one line for failure messages.
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
