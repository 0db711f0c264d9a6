package serde

import "math/big"

// Uint128 is an unsigned 128-bit integer split into two 64-bit halves.
// Go has no native 128-bit integer type, so the data model carries the
// value as a {High, Low} pair.
type Uint128 struct {
	High uint64
	Low  uint64
}

// Uint128FromUint64 widens v to a Uint128.
func Uint128FromUint64(v uint64) Uint128 {
	return Uint128{Low: v}
}

// Big returns the value as a non-negative big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.High)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Low))
}

// Uint128FromBig converts b to a Uint128, reporting false when b is
// negative or needs more than 128 bits.
func Uint128FromBig(b *big.Int) (Uint128, bool) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, false
	}
	lo := new(big.Int).And(b, mask64)
	hi := new(big.Int).Rsh(b, 64)
	return Uint128{High: hi.Uint64(), Low: lo.Uint64()}, true
}

var (
	mask64   = new(big.Int).SetUint64(^uint64(0))
	two128   = new(big.Int).Lsh(big.NewInt(1), 128)
	i128Min  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	i128Max  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// Int128 is a signed 128-bit integer in two's complement, split into two
// 64-bit halves. High carries the sign.
type Int128 struct {
	High int64
	Low  uint64
}

// Int128FromInt64 sign-extends v to an Int128.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{High: hi, Low: uint64(v)}
}

// Big returns the value as a big.Int.
func (i Int128) Big() *big.Int {
	b := big.NewInt(i.High)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Low))
}

// Int128FromBig converts b to an Int128, reporting false when b does not
// fit in a signed 128-bit two's-complement value.
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.Cmp(i128Min) < 0 || b.Cmp(i128Max) > 0 {
		return Int128{}, false
	}
	t := b
	if b.Sign() < 0 {
		t = new(big.Int).Add(b, two128)
	}
	lo := new(big.Int).And(t, mask64)
	hi := new(big.Int).Rsh(t, 64)
	return Int128{High: int64(hi.Uint64()), Low: lo.Uint64()}, true
}
