// Package binary implements the serialization protocols for a compact
// non-self-describing binary format.
//
// Primitives are little-endian fixed width; char is the rune as u32.
// Strings, byte arrays, seqs and maps carry a ULEB128 length prefix.
// Option is a one-byte tag. The fixed-length shapes (tuples, structs and
// their variant forms) write no length and no field names: their layout
// is fully described by the caller's static expectation, which is also
// why DeserializeAny always fails for this format. Variants carry their
// ULEB128 index before the payload.
//
// The deserializer reads from an in-memory buffer and offers borrowed
// extraction for both strings and byte arrays: visitors receive
// subslices of the input, valid while the caller keeps the buffer alive
// and unmodified. Struct and struct_variant field values arrive through
// VisitSeq in declared order.
package binary

// Config holds decoder limits.
type Config struct {
	// MaxDepth bounds the nesting depth of composite shapes.
	MaxDepth int
}

// DefaultConfig returns the default decoder configuration.
func DefaultConfig() Config {
	return Config{MaxDepth: 128}
}
