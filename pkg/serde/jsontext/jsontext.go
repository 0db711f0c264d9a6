// Package jsontext implements the serialization protocols for JSON, a
// self-describing human-readable format.
//
// Data-model lowering follows external variant tagging: unit, unit_struct
// and none become null; some and newtype_struct are invisible wrappers;
// unit_variant becomes the variant name as a string; the payload-carrying
// variants become single-entry objects keyed by the variant name. Byte
// arrays are carried as standard base64 strings. Map keys must lower to
// strings; string, char and integer keys are accepted.
//
// The deserializer reads from an in-memory buffer and offers borrowed
// string extraction whenever the encoded text needs no unescaping: the
// visitor then receives a subslice of the input, valid for as long as the
// caller keeps the buffer alive and unmodified.
package jsontext

// Config holds decoder limits.
type Config struct {
	// MaxDepth bounds the nesting depth of arrays and objects.
	MaxDepth int
}

// DefaultConfig returns the default decoder configuration.
func DefaultConfig() Config {
	return Config{MaxDepth: 128}
}
