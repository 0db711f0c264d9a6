package serde

// Visitor is the capability-set callback a structure builder implements.
// A consumer entry operation fires exactly one visitor method per decode;
// firing zero or more than one is a protocol violation.
//
// The methods cover shape categories rather than all 29 tags one-to-one:
// unit_struct arrives through VisitUnit, the three fixed sequence shapes
// arrive through VisitSeq, struct and struct_variant field sets arrive
// through VisitMap when the format carries field names or through
// VisitSeq in declared order when it does not, and the variant shapes
// arrive through VisitEnum. The
// consumer's entry operation preserves the precise shape; the visitor only
// needs the category to build the value.
//
// String and byte extraction is split by lifetime flavor. Transient and
// borrowed payloads arrive through VisitStr and VisitBytes together with
// their Flavor; owned copies arrive through VisitString and VisitByteBuf.
// A visitor that accepts a string regardless of lifetime overrides both
// methods; defaults never forward between them.
//
// Concrete visitors embed BaseVisitor and override only the methods for
// shapes they are prepared to build from. Every BaseVisitor default fails
// with an UnexpectedError naming the received shape and the visitor's
// Expecting description, which is how the same interface serves both
// strict and lenient consumers.
type Visitor interface {
	// Expecting describes, for error messages, what the visitor is
	// prepared to accept, e.g. "a boolean" or "a point struct".
	Expecting() string

	VisitBool(v bool) (any, error)
	VisitI8(v int8) (any, error)
	VisitI16(v int16) (any, error)
	VisitI32(v int32) (any, error)
	VisitI64(v int64) (any, error)
	VisitI128(v Int128) (any, error)
	VisitU8(v uint8) (any, error)
	VisitU16(v uint16) (any, error)
	VisitU32(v uint32) (any, error)
	VisitU64(v uint64) (any, error)
	VisitU128(v Uint128) (any, error)
	VisitF32(v float32) (any, error)
	VisitF64(v float64) (any, error)
	VisitChar(v rune) (any, error)

	// VisitStr receives transient or borrowed UTF-8 bytes; flavor tells
	// which. Transient bytes must be copied before the call returns.
	VisitStr(v []byte, flavor Flavor) (any, error)

	// VisitString receives an owned string the visitor may retain.
	VisitString(v string) (any, error)

	// VisitBytes receives transient or borrowed raw bytes; flavor tells
	// which.
	VisitBytes(v []byte, flavor Flavor) (any, error)

	// VisitByteBuf receives an owned byte slice the visitor may retain.
	VisitByteBuf(v []byte) (any, error)

	VisitNone() (any, error)
	VisitSome(d Deserializer) (any, error)
	VisitUnit() (any, error)
	VisitNewtypeStruct(d Deserializer) (any, error)
	VisitSeq(sa SeqAccess) (any, error)
	VisitMap(ma MapAccess) (any, error)
	VisitEnum(ea EnumAccess) (any, error)
}

// BaseVisitor implements every Visitor method as an unexpected-shape
// failure. Embed it by value and override the capabilities you have:
//
//	type boolVisitor struct{ serde.BaseVisitor }
//
//	func newBoolVisitor() boolVisitor {
//		return boolVisitor{serde.BaseVisitor{Desc: "a boolean"}}
//	}
//
//	func (boolVisitor) VisitBool(v bool) (any, error) { return v, nil }
type BaseVisitor struct {
	// Desc is returned by Expecting and embedded in failure messages.
	Desc string
}

// Expecting returns Desc, or a generic description when unset.
func (b BaseVisitor) Expecting() string {
	if b.Desc == "" {
		return "a value"
	}
	return b.Desc
}

func (b BaseVisitor) fail(got Shape) (any, error) {
	return nil, NewUnexpectedError(got, b.Expecting())
}

func (b BaseVisitor) VisitBool(bool) (any, error)          { return b.fail(ShapeBool) }
func (b BaseVisitor) VisitI8(int8) (any, error)            { return b.fail(ShapeI8) }
func (b BaseVisitor) VisitI16(int16) (any, error)          { return b.fail(ShapeI16) }
func (b BaseVisitor) VisitI32(int32) (any, error)          { return b.fail(ShapeI32) }
func (b BaseVisitor) VisitI64(int64) (any, error)          { return b.fail(ShapeI64) }
func (b BaseVisitor) VisitI128(Int128) (any, error)        { return b.fail(ShapeI128) }
func (b BaseVisitor) VisitU8(uint8) (any, error)           { return b.fail(ShapeU8) }
func (b BaseVisitor) VisitU16(uint16) (any, error)         { return b.fail(ShapeU16) }
func (b BaseVisitor) VisitU32(uint32) (any, error)         { return b.fail(ShapeU32) }
func (b BaseVisitor) VisitU64(uint64) (any, error)         { return b.fail(ShapeU64) }
func (b BaseVisitor) VisitU128(Uint128) (any, error)       { return b.fail(ShapeU128) }
func (b BaseVisitor) VisitF32(float32) (any, error)        { return b.fail(ShapeF32) }
func (b BaseVisitor) VisitF64(float64) (any, error)        { return b.fail(ShapeF64) }
func (b BaseVisitor) VisitChar(rune) (any, error)          { return b.fail(ShapeChar) }
func (b BaseVisitor) VisitStr([]byte, Flavor) (any, error) { return b.fail(ShapeString) }
func (b BaseVisitor) VisitString(string) (any, error)      { return b.fail(ShapeString) }
func (b BaseVisitor) VisitBytes([]byte, Flavor) (any, error) {
	return b.fail(ShapeBytes)
}
func (b BaseVisitor) VisitByteBuf([]byte) (any, error)       { return b.fail(ShapeBytes) }
func (b BaseVisitor) VisitNone() (any, error)                { return b.fail(ShapeOption) }
func (b BaseVisitor) VisitSome(Deserializer) (any, error)    { return b.fail(ShapeOption) }
func (b BaseVisitor) VisitUnit() (any, error)                { return b.fail(ShapeUnit) }
func (b BaseVisitor) VisitNewtypeStruct(Deserializer) (any, error) {
	return b.fail(ShapeNewtypeStruct)
}
func (b BaseVisitor) VisitSeq(SeqAccess) (any, error)   { return b.fail(ShapeSeq) }
func (b BaseVisitor) VisitMap(MapAccess) (any, error)   { return b.fail(ShapeMap) }
func (b BaseVisitor) VisitEnum(EnumAccess) (any, error) { return b.fail(ShapeUnitVariant) }

var _ Visitor = BaseVisitor{}
