package serde

// DeserializeFunc decodes one nested value from a consumer. Access
// sessions take these closures as the "seed" for the next element or
// entry: the closure picks the entry operation matching the expected
// shape and supplies its own visitor.
type DeserializeFunc func(Deserializer) (any, error)

// Deserializer is the consumer protocol a format reader implements. Each
// entry operation inspects the next unit of input, classifies it against
// the data model and invokes exactly one method on the supplied visitor,
// returning the visitor's constructed result or a decode failure.
//
// Self-describing formats determine the shape from the input itself and
// support DeserializeAny; non-self-describing formats rely on which entry
// operation was called and must fail when the raw bytes cannot satisfy
// that shape. Malformed input always surfaces as an error identifying the
// expected shape and the offending position; it is never silently coerced.
type Deserializer interface {
	// DeserializeAny decodes whatever shape the input itself describes.
	// Only meaningful for self-describing formats; others fail with
	// ErrUnsupportedShape.
	DeserializeAny(v Visitor) (any, error)

	DeserializeBool(v Visitor) (any, error)
	DeserializeI8(v Visitor) (any, error)
	DeserializeI16(v Visitor) (any, error)
	DeserializeI32(v Visitor) (any, error)
	DeserializeI64(v Visitor) (any, error)
	DeserializeI128(v Visitor) (any, error)
	DeserializeU8(v Visitor) (any, error)
	DeserializeU16(v Visitor) (any, error)
	DeserializeU32(v Visitor) (any, error)
	DeserializeU64(v Visitor) (any, error)
	DeserializeU128(v Visitor) (any, error)
	DeserializeF32(v Visitor) (any, error)
	DeserializeF64(v Visitor) (any, error)
	DeserializeChar(v Visitor) (any, error)
	DeserializeString(v Visitor) (any, error)
	DeserializeBytes(v Visitor) (any, error)
	DeserializeOption(v Visitor) (any, error)
	DeserializeUnit(v Visitor) (any, error)
	DeserializeUnitStruct(name string, v Visitor) (any, error)
	DeserializeNewtypeStruct(name string, v Visitor) (any, error)

	// DeserializeSeq decodes a variable-length sequence; the element
	// count comes from the data alone.
	DeserializeSeq(v Visitor) (any, error)

	// DeserializeTuple and friends decode fixed-length sequences whose
	// length the caller knows statically, before any serialized byte is
	// inspected.
	DeserializeTuple(length int, v Visitor) (any, error)
	DeserializeTupleStruct(name string, length int, v Visitor) (any, error)

	DeserializeMap(v Visitor) (any, error)

	// DeserializeStruct decodes a fixed key-value shape with the given
	// statically known field names.
	DeserializeStruct(name string, fields []string, v Visitor) (any, error)

	// DeserializeEnum decodes one arm of the closed enumeration name,
	// whose variant names are given. The visitor receives an EnumAccess.
	DeserializeEnum(name string, variants []string, v Visitor) (any, error)

	// IsHumanReadable mirrors Serializer.IsHumanReadable for the decode
	// side.
	IsHumanReadable() bool
}

// SeqAccess is the pull session a visitor drives to consume a sequence.
// The visitor calls NextElement until ok is false; exactly one end signal
// terminates the loop and no element is skipped or duplicated. Consumers
// should treat entries left unconsumed by the visitor as a format error.
type SeqAccess interface {
	// NextElement decodes the next element with f, or reports the end of
	// the sequence with ok=false (value is then nil).
	NextElement(f DeserializeFunc) (value any, ok bool, err error)

	// SizeHint returns the number of remaining elements when the format
	// knows it, or -1.
	SizeHint() int
}

// MapAccess is the pull session for map entries: one NextKey then one
// NextValue per entry, repeated until NextKey reports ok=false.
type MapAccess interface {
	NextKey(f DeserializeFunc) (key any, ok bool, err error)
	NextValue(f DeserializeFunc) (any, error)

	// SizeHint returns the number of remaining entries when the format
	// knows it, or -1.
	SizeHint() int
}

// EnumAccess identifies which variant of an enumeration the input holds
// and hands back the matching payload session.
type EnumAccess interface {
	// Variant returns the variant's name (empty when the format encodes
	// only indices), its index, and the access for its payload.
	Variant() (name string, index uint32, va VariantAccess, err error)
}

// VariantAccess extracts the payload of the variant EnumAccess selected.
// Exactly one of its methods is called, matching the variant's shape.
type VariantAccess interface {
	UnitVariant() error
	NewtypeVariant(f DeserializeFunc) (any, error)
	TupleVariant(length int, v Visitor) (any, error)
	StructVariant(fields []string, v Visitor) (any, error)
}
