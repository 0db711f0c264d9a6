// Package serde defines a format-agnostic serialization data model: a
// closed set of canonical value shapes plus the producer, consumer and
// visitor protocols that translate in-memory values to and from any
// concrete format without either side depending on the other.
//
// Format codecs implement Serializer and Deserializer. Per-type mapping
// logic calls Serializer on the encode side and supplies a Visitor to
// Deserializer on the decode side. The package itself performs no I/O and
// defines no wire format.
package serde

import "fmt"

// Shape is one of the 29 canonical data-model tags a value can map to.
// Every mapping between a concrete type and the data model picks exactly
// one shape; a type never straddles two shapes within a single mapping.
type Shape uint8

// The closed shape enumeration. The order groups primitives first, then
// text and binary, then the structural shapes.
const (
	ShapeBool Shape = iota
	ShapeI8
	ShapeI16
	ShapeI32
	ShapeI64
	ShapeI128
	ShapeU8
	ShapeU16
	ShapeU32
	ShapeU64
	ShapeU128
	ShapeF32
	ShapeF64
	ShapeChar
	ShapeString
	ShapeBytes
	ShapeOption
	ShapeUnit
	ShapeUnitStruct
	ShapeUnitVariant
	ShapeNewtypeStruct
	ShapeNewtypeVariant
	ShapeSeq
	ShapeMap
	ShapeTuple
	ShapeTupleStruct
	ShapeTupleVariant
	ShapeStruct
	ShapeStructVariant

	numShapes = iota
)

// ShapeAny is not one of the 29 shapes. It appears only in decode errors
// raised while the caller had no static expectation (DeserializeAny).
const ShapeAny Shape = 0xFF

var shapeNames = [numShapes]string{
	ShapeBool:           "bool",
	ShapeI8:             "i8",
	ShapeI16:            "i16",
	ShapeI32:            "i32",
	ShapeI64:            "i64",
	ShapeI128:           "i128",
	ShapeU8:             "u8",
	ShapeU16:            "u16",
	ShapeU32:            "u32",
	ShapeU64:            "u64",
	ShapeU128:           "u128",
	ShapeF32:            "f32",
	ShapeF64:            "f64",
	ShapeChar:           "char",
	ShapeString:         "string",
	ShapeBytes:          "bytes",
	ShapeOption:         "option",
	ShapeUnit:           "unit",
	ShapeUnitStruct:     "unit_struct",
	ShapeUnitVariant:    "unit_variant",
	ShapeNewtypeStruct:  "newtype_struct",
	ShapeNewtypeVariant: "newtype_variant",
	ShapeSeq:            "seq",
	ShapeMap:            "map",
	ShapeTuple:          "tuple",
	ShapeTupleStruct:    "tuple_struct",
	ShapeTupleVariant:   "tuple_variant",
	ShapeStruct:         "struct",
	ShapeStructVariant:  "struct_variant",
}

// String returns the canonical lower-case name of the shape.
func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	if s == ShapeAny {
		return "any"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// Valid reports whether s is one of the 29 defined shapes.
func (s Shape) Valid() bool {
	return int(s) < numShapes
}

// IsPrimitive reports whether the shape is a fixed-width self-contained
// value (bool, the integer and float widths, or char).
func (s Shape) IsPrimitive() bool {
	return s <= ShapeChar
}

// IsComposite reports whether decoding the shape hands the visitor a
// session object rather than a direct value (the sequence, map and
// payload-carrying shapes).
func (s Shape) IsComposite() bool {
	switch s {
	case ShapeOption, ShapeNewtypeStruct, ShapeNewtypeVariant,
		ShapeSeq, ShapeMap, ShapeTuple, ShapeTupleStruct,
		ShapeTupleVariant, ShapeStruct, ShapeStructVariant:
		return true
	}
	return false
}

// IsFixedLength reports whether the shape's length or field set is known
// statically, before any serialized byte is inspected. Seq and map are the
// only variable-length structural shapes.
func (s Shape) IsFixedLength() bool {
	switch s {
	case ShapeTuple, ShapeTupleStruct, ShapeTupleVariant,
		ShapeStruct, ShapeStructVariant:
		return true
	}
	return false
}

// IsVariant reports whether the shape is one arm of a closed enumeration
// and therefore carries a variant name and index.
func (s Shape) IsVariant() bool {
	switch s {
	case ShapeUnitVariant, ShapeNewtypeVariant, ShapeTupleVariant, ShapeStructVariant:
		return true
	}
	return false
}
