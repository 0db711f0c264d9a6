package serde

// SerializeFunc encodes one nested value against a producer. Mapping
// logic passes these closures wherever the protocol needs a payload it
// does not want to materialize first (option contents, wrapper payloads,
// sequence elements, map keys and values).
type SerializeFunc func(Serializer) error

// Serializer is the producer protocol a format writer implements: one
// operation per self-contained shape, plus begin operations for the
// variable and fixed composite shapes that open a session ended by the
// session's End call.
//
// Operations must be invoked in the literal nesting order of the data; no
// reordering and no skipped begin/end pairs. A failure is reported
// synchronously by the operation that cannot be satisfied and abandons the
// in-progress session; the protocol performs no rollback of bytes already
// written.
type Serializer interface {
	SerializeBool(v bool) error
	SerializeI8(v int8) error
	SerializeI16(v int16) error
	SerializeI32(v int32) error
	SerializeI64(v int64) error
	SerializeI128(v Int128) error
	SerializeU8(v uint8) error
	SerializeU16(v uint16) error
	SerializeU32(v uint32) error
	SerializeU64(v uint64) error
	SerializeU128(v Uint128) error
	SerializeF32(v float32) error
	SerializeF64(v float64) error
	SerializeChar(v rune) error

	// SerializeString writes a length-delimited UTF-8 string. The string
	// may embed NUL bytes; no terminator is implied.
	SerializeString(v string) error

	// SerializeBytes writes a length-delimited sequence of arbitrary
	// bytes. The producer must not retain v past the call.
	SerializeBytes(v []byte) error

	// SerializeNone and SerializeSome encode the two arms of option.
	SerializeNone() error
	SerializeSome(f SerializeFunc) error

	SerializeUnit() error
	SerializeUnitStruct(name string) error
	SerializeUnitVariant(name string, index uint32, variant string) error

	SerializeNewtypeStruct(name string, f SerializeFunc) error
	SerializeNewtypeVariant(name string, index uint32, variant string, f SerializeFunc) error

	// SerializeSeq begins a variable-length sequence session. hint is the
	// element count when known up front, or -1 when it will only be known
	// after traversal; when non-negative it must equal the number of
	// elements subsequently written.
	SerializeSeq(hint int) (SeqSerializer, error)

	// SerializeTuple and friends begin fixed-length sessions whose length
	// is known statically; length is always the exact element count.
	SerializeTuple(length int) (SeqSerializer, error)
	SerializeTupleStruct(name string, length int) (SeqSerializer, error)
	SerializeTupleVariant(name string, index uint32, variant string, length int) (SeqSerializer, error)

	// SerializeMap begins a variable-length key-value session; hint as in
	// SerializeSeq.
	SerializeMap(hint int) (MapSerializer, error)

	// SerializeStruct and SerializeStructVariant begin fixed key-value
	// sessions whose field names are compile-time constants; length is
	// the declared field count.
	SerializeStruct(name string, length int) (StructSerializer, error)
	SerializeStructVariant(name string, index uint32, variant string, length int) (StructSerializer, error)

	// IsHumanReadable reports whether the format targets people (JSON,
	// text) rather than compactness. Mapping logic may use it to pick
	// between a readable and a compact representation of the same type.
	IsHumanReadable() bool
}

// SeqSerializer is the open session of a seq, tuple, tuple_struct or
// tuple_variant. Elements are written in order; End closes the session.
type SeqSerializer interface {
	SerializeElement(f SerializeFunc) error
	End() error
}

// MapSerializer is the open session of a map. Each entry is one
// SerializeKey followed by one SerializeValue; End closes the session.
type MapSerializer interface {
	SerializeKey(f SerializeFunc) error
	SerializeValue(f SerializeFunc) error
	End() error
}

// StructSerializer is the open session of a struct or struct_variant.
// Field names are statically known strings; End closes the session.
type StructSerializer interface {
	SerializeField(name string, f SerializeFunc) error
	End() error
}
