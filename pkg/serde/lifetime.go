package serde

// Flavor classifies the lifetime of a string or byte payload handed to a
// visitor. The flavor is declared by the consumer per extraction; a
// visitor that cannot work with the offered flavor must fail the decode
// rather than retain memory it does not own.
type Flavor uint8

const (
	// FlavorTransient data is valid only for the duration of the visitor
	// call that receives it. The backing storage is typically a scratch
	// buffer the consumer reuses for the next extraction. Copy to retain.
	FlavorTransient Flavor = iota

	// FlavorOwned data is an independent copy. The visitor may retain it
	// indefinitely.
	FlavorOwned

	// FlavorBorrowed data aliases the consumer's input buffer and stays
	// valid exactly as long as that buffer does: the bytes are contiguous
	// and the caller keeps the buffer alive and unmodified for the whole
	// scope in which the decoded value is used. True zero-copy. A consumer
	// must never claim this flavor when reading from a stream that
	// discards consumed bytes.
	FlavorBorrowed
)

var flavorNames = [...]string{
	FlavorTransient: "transient",
	FlavorOwned:     "owned",
	FlavorBorrowed:  "borrowed",
}

// String returns the canonical flavor name.
func (f Flavor) String() string {
	if int(f) < len(flavorNames) {
		return flavorNames[f]
	}
	return "flavor(?)"
}

// Retainable reports whether data of this flavor may be held past the
// visitor call without copying. Borrowed data is retainable only within
// the input buffer's lifetime; the caller owns that contract.
func (f Flavor) Retainable() bool {
	return f != FlavorTransient
}
