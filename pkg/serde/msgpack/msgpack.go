// Package msgpack implements the serialization protocols for MessagePack
// using the low-level encoder and decoder of
// github.com/vmihailenco/msgpack/v5, a self-describing binary format.
//
// Lowering mirrors the JSON codec's external variant tagging with
// MessagePack containers: unit, unit_struct and none become nil; some and
// newtype_struct are invisible wrappers; unit_variant is the variant name
// as a string; payload-carrying variants are single-entry maps keyed by
// the variant name. Structs are maps of field name to value. 128-bit
// integers have no MessagePack representation and fail to encode.
//
// The underlying decoder works on a stream and reuses internal buffers,
// so string and byte extraction is owned, never borrowed; error offsets
// are unavailable and reported as -1.
package msgpack
