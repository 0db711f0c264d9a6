package jsontext

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/nimburion/serde/pkg/serde"
)

// Deserializer is the JSON consumer. It reads from an in-memory buffer
// the caller owns; borrowed string extraction aliases that buffer, so the
// buffer must stay alive and unmodified while any borrowed value is in
// use. Error offsets are byte positions into the buffer.
type Deserializer struct {
	data    []byte
	pos     int
	cfg     Config
	depth   int
	scratch []byte

	// key is set while a map-key closure runs; integer parsers then
	// accept the quoted form the producer lowers integer keys to.
	key bool
}

var _ serde.Deserializer = (*Deserializer)(nil)

// NewDeserializer returns a consumer over data with the default
// configuration.
func NewDeserializer(data []byte) *Deserializer {
	return NewDeserializerWithConfig(data, DefaultConfig())
}

// NewDeserializerWithConfig returns a consumer over data with explicit
// limits.
func NewDeserializerWithConfig(data []byte, cfg Config) *Deserializer {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	return &Deserializer{data: data, cfg: cfg}
}

// End verifies that only whitespace remains after the decoded value.
func (d *Deserializer) End() error {
	d.skipWS()
	if d.pos != len(d.data) {
		return serde.NewDecodeError(serde.ShapeAny, d.pos,
			fmt.Errorf("%w: trailing data after value", serde.ErrSyntax))
	}
	return nil
}

func (d *Deserializer) skipWS() {
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *Deserializer) peekByte() (byte, bool) {
	if d.pos >= len(d.data) {
		return 0, false
	}
	return d.data[d.pos], true
}

func (d *Deserializer) syntax(shape serde.Shape, pos int, format string, args ...any) error {
	return serde.NewDecodeError(shape, pos,
		fmt.Errorf("%w: %s", serde.ErrSyntax, fmt.Sprintf(format, args...)))
}

func (d *Deserializer) truncated(shape serde.Shape) error {
	return serde.NewDecodeError(shape, d.pos, serde.ErrTruncatedInput)
}

func (d *Deserializer) literal(lit string, shape serde.Shape) error {
	if len(d.data)-d.pos < len(lit) {
		return d.truncated(shape)
	}
	if !bytes.Equal(d.data[d.pos:d.pos+len(lit)], []byte(lit)) {
		return d.syntax(shape, d.pos, "expected %q", lit)
	}
	d.pos += len(lit)
	return nil
}

// parseString returns the decoded string bytes and their lifetime flavor:
// an escape-free string borrows straight from the input buffer, an
// escaped one is unescaped into the reusable scratch buffer and is only
// valid for the duration of the visitor call.
func (d *Deserializer) parseString(shape serde.Shape) ([]byte, serde.Flavor, error) {
	d.skipWS()
	start := d.pos
	c, ok := d.peekByte()
	if !ok {
		return nil, 0, d.truncated(shape)
	}
	if c != '"' {
		return nil, 0, d.syntax(shape, d.pos, "expected string, found %q", c)
	}
	d.pos++
	begin := d.pos
	escaped := false
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case '"':
			raw := d.data[begin:d.pos]
			d.pos++
			if !escaped {
				return raw, serde.FlavorBorrowed, nil
			}
			out, err := d.unescape(raw, shape, begin)
			if err != nil {
				return nil, 0, err
			}
			return out, serde.FlavorTransient, nil
		case '\\':
			escaped = true
			d.pos += 2
		default:
			if d.data[d.pos] < 0x20 {
				return nil, 0, d.syntax(shape, d.pos, "unescaped control character in string")
			}
			d.pos++
		}
	}
	d.pos = start
	return nil, 0, d.truncated(shape)
}

func (d *Deserializer) unescape(raw []byte, shape serde.Shape, base int) ([]byte, error) {
	d.scratch = d.scratch[:0]
	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			d.scratch = append(d.scratch, raw[i])
			i++
			continue
		}
		if i+1 >= len(raw) {
			return nil, d.syntax(shape, base+i, "dangling escape")
		}
		switch raw[i+1] {
		case '"', '\\', '/':
			d.scratch = append(d.scratch, raw[i+1])
			i += 2
		case 'b':
			d.scratch = append(d.scratch, '\b')
			i += 2
		case 'f':
			d.scratch = append(d.scratch, '\f')
			i += 2
		case 'n':
			d.scratch = append(d.scratch, '\n')
			i += 2
		case 'r':
			d.scratch = append(d.scratch, '\r')
			i += 2
		case 't':
			d.scratch = append(d.scratch, '\t')
			i += 2
		case 'u':
			if i+6 > len(raw) {
				return nil, d.syntax(shape, base+i, "truncated \\u escape")
			}
			n, err := strconv.ParseUint(string(raw[i+2:i+6]), 16, 32)
			if err != nil {
				return nil, d.syntax(shape, base+i, "invalid \\u escape")
			}
			r := rune(n)
			i += 6
			if utf16.IsSurrogate(r) {
				paired := false
				if i+6 <= len(raw) && raw[i] == '\\' && raw[i+1] == 'u' {
					if n2, err := strconv.ParseUint(string(raw[i+2:i+6]), 16, 32); err == nil {
						if p := utf16.DecodeRune(r, rune(n2)); p != utf8.RuneError {
							r = p
							i += 6
							paired = true
						}
					}
				}
				if !paired {
					return nil, d.syntax(shape, base+i-6, "unpaired surrogate escape")
				}
			}
			d.scratch = utf8.AppendRune(d.scratch, r)
		default:
			return nil, d.syntax(shape, base+i, "unknown escape %q", raw[i+1])
		}
	}
	return d.scratch, nil
}

// parseNumber scans one JSON number token and reports whether it carries
// a fraction or exponent.
func (d *Deserializer) parseNumber(shape serde.Shape) ([]byte, bool, error) {
	d.skipWS()
	start := d.pos
	isFloat := false
	if c, ok := d.peekByte(); ok && c == '-' {
		d.pos++
	}
	digits := 0
	for d.pos < len(d.data) {
		c := d.data[d.pos]
		switch {
		case c >= '0' && c <= '9':
			digits++
			d.pos++
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
			isFloat = true
			d.pos++
		default:
			goto done
		}
	}
done:
	if digits == 0 {
		d.pos = start
		if start >= len(d.data) {
			return nil, false, d.truncated(shape)
		}
		return nil, false, d.syntax(shape, start, "expected number, found %q", d.data[start])
	}
	return d.data[start:d.pos], isFloat, nil
}

// openKeyQuote consumes the opening quote of a quoted number when
// decoding in map-key position, where integer keys travel as JSON
// strings.
func (d *Deserializer) openKeyQuote(shape serde.Shape) (bool, error) {
	if !d.key {
		return false, nil
	}
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return false, d.truncated(shape)
	}
	if c != '"' {
		return false, d.syntax(shape, d.pos, "expected quoted number key, found %q", c)
	}
	d.pos++
	return true, nil
}

func (d *Deserializer) closeKeyQuote(shape serde.Shape, quoted bool) error {
	if !quoted {
		return nil
	}
	if c, ok := d.peekByte(); !ok || c != '"' {
		return d.syntax(shape, d.pos, "expected closing quote after number key")
	}
	d.pos++
	return nil
}

func (d *Deserializer) parseInt(shape serde.Shape, bits int) (int64, error) {
	quoted, err := d.openKeyQuote(shape)
	if err != nil {
		return 0, err
	}
	start := d.pos
	tok, isFloat, err := d.parseNumber(shape)
	if err != nil {
		return 0, err
	}
	if isFloat {
		return 0, d.syntax(shape, start, "expected integer, found %q", tok)
	}
	n, err := strconv.ParseInt(string(tok), 10, bits)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return 0, serde.NewDecodeError(shape, start,
				fmt.Errorf("%w: %q", serde.ErrValueOutOfRange, tok))
		}
		return 0, d.syntax(shape, start, "invalid integer %q", tok)
	}
	if err := d.closeKeyQuote(shape, quoted); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Deserializer) parseUint(shape serde.Shape, bits int) (uint64, error) {
	quoted, err := d.openKeyQuote(shape)
	if err != nil {
		return 0, err
	}
	start := d.pos
	tok, isFloat, err := d.parseNumber(shape)
	if err != nil {
		return 0, err
	}
	if isFloat {
		return 0, d.syntax(shape, start, "expected integer, found %q", tok)
	}
	n, err := strconv.ParseUint(string(tok), 10, bits)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return 0, serde.NewDecodeError(shape, start,
				fmt.Errorf("%w: %q", serde.ErrValueOutOfRange, tok))
		}
		return 0, d.syntax(shape, start, "invalid integer %q", tok)
	}
	if err := d.closeKeyQuote(shape, quoted); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Deserializer) parseFloat(shape serde.Shape) (float64, error) {
	start := d.pos
	tok, _, err := d.parseNumber(shape)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return 0, d.syntax(shape, start, "invalid number %q", tok)
	}
	return f, nil
}

func (d *Deserializer) enter(shape serde.Shape) error {
	d.depth++
	if d.depth > d.cfg.MaxDepth {
		return d.syntax(shape, d.pos, "nesting exceeds %d levels", d.cfg.MaxDepth)
	}
	return nil
}

func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(serde.ShapeAny)
	}
	switch {
	case c == 'n':
		if err := d.literal("null", serde.ShapeUnit); err != nil {
			return nil, err
		}
		return v.VisitUnit()
	case c == 't':
		if err := d.literal("true", serde.ShapeBool); err != nil {
			return nil, err
		}
		return v.VisitBool(true)
	case c == 'f':
		if err := d.literal("false", serde.ShapeBool); err != nil {
			return nil, err
		}
		return v.VisitBool(false)
	case c == '"':
		raw, flavor, err := d.parseString(serde.ShapeString)
		if err != nil {
			return nil, err
		}
		return v.VisitStr(raw, flavor)
	case c == '[':
		return d.visitSeq(serde.ShapeSeq, v)
	case c == '{':
		return d.visitMap(serde.ShapeMap, v)
	case c == '-' || (c >= '0' && c <= '9'):
		start := d.pos
		tok, isFloat, err := d.parseNumber(serde.ShapeF64)
		if err != nil {
			return nil, err
		}
		if !isFloat {
			if tok[0] == '-' {
				if n, err := strconv.ParseInt(string(tok), 10, 64); err == nil {
					return v.VisitI64(n)
				}
			} else if n, err := strconv.ParseUint(string(tok), 10, 64); err == nil {
				if n <= uint64(1<<63-1) {
					return v.VisitI64(int64(n))
				}
				return v.VisitU64(n)
			}
		}
		f, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			return nil, d.syntax(serde.ShapeF64, start, "invalid number %q", tok)
		}
		return v.VisitF64(f)
	default:
		return nil, d.syntax(serde.ShapeAny, d.pos, "unexpected character %q", c)
	}
}

func (d *Deserializer) DeserializeBool(v serde.Visitor) (any, error) {
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(serde.ShapeBool)
	}
	switch c {
	case 't':
		if err := d.literal("true", serde.ShapeBool); err != nil {
			return nil, err
		}
		return v.VisitBool(true)
	case 'f':
		if err := d.literal("false", serde.ShapeBool); err != nil {
			return nil, err
		}
		return v.VisitBool(false)
	}
	return nil, d.syntax(serde.ShapeBool, d.pos, "expected boolean, found %q", c)
}

func (d *Deserializer) DeserializeI8(v serde.Visitor) (any, error) {
	n, err := d.parseInt(serde.ShapeI8, 8)
	if err != nil {
		return nil, err
	}
	return v.VisitI8(int8(n))
}

func (d *Deserializer) DeserializeI16(v serde.Visitor) (any, error) {
	n, err := d.parseInt(serde.ShapeI16, 16)
	if err != nil {
		return nil, err
	}
	return v.VisitI16(int16(n))
}

func (d *Deserializer) DeserializeI32(v serde.Visitor) (any, error) {
	n, err := d.parseInt(serde.ShapeI32, 32)
	if err != nil {
		return nil, err
	}
	return v.VisitI32(int32(n))
}

func (d *Deserializer) DeserializeI64(v serde.Visitor) (any, error) {
	n, err := d.parseInt(serde.ShapeI64, 64)
	if err != nil {
		return nil, err
	}
	return v.VisitI64(n)
}

func (d *Deserializer) DeserializeI128(v serde.Visitor) (any, error) {
	start := d.pos
	tok, isFloat, err := d.parseNumber(serde.ShapeI128)
	if err != nil {
		return nil, err
	}
	if isFloat {
		return nil, d.syntax(serde.ShapeI128, start, "expected integer, found %q", tok)
	}
	b, ok := new(big.Int).SetString(string(tok), 10)
	if !ok {
		return nil, d.syntax(serde.ShapeI128, start, "invalid integer %q", tok)
	}
	n, ok := serde.Int128FromBig(b)
	if !ok {
		return nil, serde.NewDecodeError(serde.ShapeI128, start,
			fmt.Errorf("%w: %q", serde.ErrValueOutOfRange, tok))
	}
	return v.VisitI128(n)
}

func (d *Deserializer) DeserializeU8(v serde.Visitor) (any, error) {
	n, err := d.parseUint(serde.ShapeU8, 8)
	if err != nil {
		return nil, err
	}
	return v.VisitU8(uint8(n))
}

func (d *Deserializer) DeserializeU16(v serde.Visitor) (any, error) {
	n, err := d.parseUint(serde.ShapeU16, 16)
	if err != nil {
		return nil, err
	}
	return v.VisitU16(uint16(n))
}

func (d *Deserializer) DeserializeU32(v serde.Visitor) (any, error) {
	n, err := d.parseUint(serde.ShapeU32, 32)
	if err != nil {
		return nil, err
	}
	return v.VisitU32(uint32(n))
}

func (d *Deserializer) DeserializeU64(v serde.Visitor) (any, error) {
	n, err := d.parseUint(serde.ShapeU64, 64)
	if err != nil {
		return nil, err
	}
	return v.VisitU64(n)
}

func (d *Deserializer) DeserializeU128(v serde.Visitor) (any, error) {
	start := d.pos
	tok, isFloat, err := d.parseNumber(serde.ShapeU128)
	if err != nil {
		return nil, err
	}
	if isFloat {
		return nil, d.syntax(serde.ShapeU128, start, "expected integer, found %q", tok)
	}
	b, ok := new(big.Int).SetString(string(tok), 10)
	if !ok {
		return nil, d.syntax(serde.ShapeU128, start, "invalid integer %q", tok)
	}
	n, ok := serde.Uint128FromBig(b)
	if !ok {
		return nil, serde.NewDecodeError(serde.ShapeU128, start,
			fmt.Errorf("%w: %q", serde.ErrValueOutOfRange, tok))
	}
	return v.VisitU128(n)
}

func (d *Deserializer) DeserializeF32(v serde.Visitor) (any, error) {
	f, err := d.parseFloat(serde.ShapeF32)
	if err != nil {
		return nil, err
	}
	return v.VisitF32(float32(f))
}

func (d *Deserializer) DeserializeF64(v serde.Visitor) (any, error) {
	f, err := d.parseFloat(serde.ShapeF64)
	if err != nil {
		return nil, err
	}
	return v.VisitF64(f)
}

func (d *Deserializer) DeserializeChar(v serde.Visitor) (any, error) {
	start := d.pos
	raw, _, err := d.parseString(serde.ShapeChar)
	if err != nil {
		return nil, err
	}
	r, size := utf8.DecodeRune(raw)
	if r == utf8.RuneError || size != len(raw) {
		return nil, d.syntax(serde.ShapeChar, start, "expected a single character")
	}
	return v.VisitChar(r)
}

func (d *Deserializer) DeserializeString(v serde.Visitor) (any, error) {
	raw, flavor, err := d.parseString(serde.ShapeString)
	if err != nil {
		return nil, err
	}
	return v.VisitStr(raw, flavor)
}

func (d *Deserializer) DeserializeBytes(v serde.Visitor) (any, error) {
	start := d.pos
	raw, _, err := d.parseString(serde.ShapeBytes)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(raw)))
	n, err := base64.StdEncoding.Decode(out, raw)
	if err != nil {
		return nil, d.syntax(serde.ShapeBytes, start, "invalid base64: %v", err)
	}
	return v.VisitByteBuf(out[:n])
}

func (d *Deserializer) DeserializeOption(v serde.Visitor) (any, error) {
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(serde.ShapeOption)
	}
	if c == 'n' {
		if err := d.literal("null", serde.ShapeOption); err != nil {
			return nil, err
		}
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

func (d *Deserializer) DeserializeUnit(v serde.Visitor) (any, error) {
	if err := d.literal("null", serde.ShapeUnit); err != nil {
		return nil, err
	}
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeUnitStruct(_ string, v serde.Visitor) (any, error) {
	if err := d.literal("null", serde.ShapeUnitStruct); err != nil {
		return nil, err
	}
	return v.VisitUnit()
}

func (d *Deserializer) DeserializeNewtypeStruct(_ string, v serde.Visitor) (any, error) {
	return v.VisitNewtypeStruct(d)
}

func (d *Deserializer) visitSeq(shape serde.Shape, v serde.Visitor) (any, error) {
	if err := d.enter(shape); err != nil {
		return nil, err
	}
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(shape)
	}
	if c != '[' {
		return nil, d.syntax(shape, d.pos, "expected array, found %q", c)
	}
	d.pos++
	sa := &seqAccess{d: d, shape: shape}
	out, err := v.VisitSeq(sa)
	if err != nil {
		return nil, err
	}
	if !sa.done {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTrailingEntries)
	}
	d.depth--
	return out, nil
}

func (d *Deserializer) visitMap(shape serde.Shape, v serde.Visitor) (any, error) {
	if err := d.enter(shape); err != nil {
		return nil, err
	}
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(shape)
	}
	if c != '{' {
		return nil, d.syntax(shape, d.pos, "expected object, found %q", c)
	}
	d.pos++
	ma := &mapAccess{d: d, shape: shape}
	out, err := v.VisitMap(ma)
	if err != nil {
		return nil, err
	}
	if !ma.done {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTrailingEntries)
	}
	d.depth--
	return out, nil
}

func (d *Deserializer) DeserializeSeq(v serde.Visitor) (any, error) {
	return d.visitSeq(serde.ShapeSeq, v)
}

func (d *Deserializer) deserializeFixedSeq(shape serde.Shape, length int, v serde.Visitor) (any, error) {
	if err := d.enter(shape); err != nil {
		return nil, err
	}
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(shape)
	}
	if c != '[' {
		return nil, d.syntax(shape, d.pos, "expected array, found %q", c)
	}
	d.pos++
	sa := &seqAccess{d: d, shape: shape}
	out, err := v.VisitSeq(sa)
	if err != nil {
		return nil, err
	}
	if !sa.done {
		return nil, serde.NewDecodeError(shape, d.pos, serde.ErrTrailingEntries)
	}
	if sa.count != length {
		return nil, serde.NewDecodeError(shape, d.pos,
			fmt.Errorf("%w: input has %d elements, %s declares %d", serde.ErrLengthMismatch, sa.count, shape, length))
	}
	d.depth--
	return out, nil
}

func (d *Deserializer) DeserializeTuple(length int, v serde.Visitor) (any, error) {
	return d.deserializeFixedSeq(serde.ShapeTuple, length, v)
}

func (d *Deserializer) DeserializeTupleStruct(_ string, length int, v serde.Visitor) (any, error) {
	return d.deserializeFixedSeq(serde.ShapeTupleStruct, length, v)
}

func (d *Deserializer) DeserializeMap(v serde.Visitor) (any, error) {
	return d.visitMap(serde.ShapeMap, v)
}

func (d *Deserializer) DeserializeStruct(_ string, _ []string, v serde.Visitor) (any, error) {
	return d.visitMap(serde.ShapeStruct, v)
}

func (d *Deserializer) DeserializeEnum(name string, variants []string, v serde.Visitor) (any, error) {
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, d.truncated(serde.ShapeUnitVariant)
	}
	switch c {
	case '"':
		start := d.pos
		raw, _, err := d.parseString(serde.ShapeUnitVariant)
		if err != nil {
			return nil, err
		}
		variant := string(raw)
		if len(variants) > 0 && !contains(variants, variant) {
			return nil, serde.NewDecodeError(serde.ShapeUnitVariant, start,
				fmt.Errorf("%w: %q is not a variant of %q", serde.ErrUnknownVariant, variant, name))
		}
		return v.VisitEnum(&enumAccess{d: d, variant: variant})
	case '{':
		d.pos++
		start := d.pos
		raw, _, err := d.parseString(serde.ShapeUnitVariant)
		if err != nil {
			return nil, err
		}
		variant := string(raw)
		if len(variants) > 0 && !contains(variants, variant) {
			return nil, serde.NewDecodeError(serde.ShapeUnitVariant, start,
				fmt.Errorf("%w: %q is not a variant of %q", serde.ErrUnknownVariant, variant, name))
		}
		d.skipWS()
		if c, ok := d.peekByte(); !ok || c != ':' {
			return nil, d.syntax(serde.ShapeUnitVariant, d.pos, "expected ':' after variant name")
		}
		d.pos++
		out, err := v.VisitEnum(&enumAccess{d: d, variant: variant, object: true})
		if err != nil {
			return nil, err
		}
		d.skipWS()
		if c, ok := d.peekByte(); !ok || c != '}' {
			return nil, d.syntax(serde.ShapeUnitVariant, d.pos, "expected '}' after variant payload")
		}
		d.pos++
		return out, nil
	}
	return nil, d.syntax(serde.ShapeUnitVariant, d.pos, "expected string or object for enum, found %q", c)
}

func (d *Deserializer) IsHumanReadable() bool { return true }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type seqAccess struct {
	d     *Deserializer
	shape serde.Shape
	count int
	done  bool
}

func (a *seqAccess) NextElement(f serde.DeserializeFunc) (any, bool, error) {
	if a.done {
		return nil, false, nil
	}
	d := a.d
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, false, d.truncated(a.shape)
	}
	if c == ']' {
		d.pos++
		a.done = true
		return nil, false, nil
	}
	if a.count > 0 {
		if c != ',' {
			return nil, false, d.syntax(a.shape, d.pos, "expected ',' between elements")
		}
		d.pos++
		d.skipWS()
		if c, ok := d.peekByte(); ok && c == ']' {
			return nil, false, d.syntax(a.shape, d.pos, "trailing comma")
		}
	}
	a.count++
	val, err := f(d)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (a *seqAccess) SizeHint() int { return -1 }

type mapAccess struct {
	d       *Deserializer
	shape   serde.Shape
	count   int
	done    bool
	pending bool
}

func (a *mapAccess) NextKey(f serde.DeserializeFunc) (any, bool, error) {
	if a.done {
		return nil, false, nil
	}
	d := a.d
	d.skipWS()
	c, ok := d.peekByte()
	if !ok {
		return nil, false, d.truncated(a.shape)
	}
	if c == '}' {
		d.pos++
		a.done = true
		return nil, false, nil
	}
	if a.count > 0 {
		if c != ',' {
			return nil, false, d.syntax(a.shape, d.pos, "expected ',' between entries")
		}
		d.pos++
		d.skipWS()
	}
	if c, ok := d.peekByte(); !ok || c != '"' {
		return nil, false, d.syntax(a.shape, d.pos, "expected string key")
	}
	a.count++
	a.pending = true
	d.key = true
	key, err := f(d)
	d.key = false
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func (a *mapAccess) NextValue(f serde.DeserializeFunc) (any, error) {
	if !a.pending {
		return nil, a.d.syntax(a.shape, a.d.pos, "value requested without a key")
	}
	a.pending = false
	d := a.d
	d.skipWS()
	if c, ok := d.peekByte(); !ok || c != ':' {
		return nil, d.syntax(a.shape, d.pos, "expected ':' after key")
	}
	d.pos++
	return f(d)
}

func (a *mapAccess) SizeHint() int { return -1 }

type enumAccess struct {
	d       *Deserializer
	variant string
	object  bool
}

func (e *enumAccess) Variant() (string, uint32, serde.VariantAccess, error) {
	// JSON carries no variant indices; the index is unknowable here.
	return e.variant, 0, &variantAccess{d: e.d, object: e.object}, nil
}

type variantAccess struct {
	d      *Deserializer
	object bool
}

func (va *variantAccess) UnitVariant() error {
	if !va.object {
		return nil
	}
	return va.d.literal("null", serde.ShapeUnitVariant)
}

func (va *variantAccess) NewtypeVariant(f serde.DeserializeFunc) (any, error) {
	if !va.object {
		return nil, va.d.syntax(serde.ShapeNewtypeVariant, va.d.pos,
			"string variant carries no payload")
	}
	return f(va.d)
}

func (va *variantAccess) TupleVariant(length int, v serde.Visitor) (any, error) {
	if !va.object {
		return nil, va.d.syntax(serde.ShapeTupleVariant, va.d.pos,
			"string variant carries no payload")
	}
	return va.d.deserializeFixedSeq(serde.ShapeTupleVariant, length, v)
}

func (va *variantAccess) StructVariant(_ []string, v serde.Visitor) (any, error) {
	if !va.object {
		return nil, va.d.syntax(serde.ShapeStructVariant, va.d.pos,
			"string variant carries no payload")
	}
	return va.d.visitMap(serde.ShapeStructVariant, v)
}
