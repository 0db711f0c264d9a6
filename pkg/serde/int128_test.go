package serde

import (
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestUint128FromUint64(t *testing.T) {
	tests := []struct {
		in   uint64
		want Uint128
	}{
		{0, Uint128{}},
		{1, Uint128{Low: 1}},
		{math.MaxUint64, Uint128{Low: math.MaxUint64}},
	}
	for _, tt := range tests {
		if got := Uint128FromUint64(tt.in); got != tt.want {
			t.Errorf("Uint128FromUint64(%d) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestInt128FromInt64(t *testing.T) {
	tests := []struct {
		in   int64
		want Int128
	}{
		{0, Int128{}},
		{1, Int128{Low: 1}},
		{-1, Int128{High: -1, Low: math.MaxUint64}},
		{math.MinInt64, Int128{High: -1, Low: 1 << 63}},
	}
	for _, tt := range tests {
		if got := Int128FromInt64(tt.in); got != tt.want {
			t.Errorf("Int128FromInt64(%d) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestUint128_Big(t *testing.T) {
	tests := []struct {
		name string
		in   Uint128
		want string
	}{
		{"zero", Uint128{}, "0"},
		{"low only", Uint128{Low: 42}, "42"},
		{"high only", Uint128{High: 1}, "18446744073709551616"},
		{"max", Uint128{High: math.MaxUint64, Low: math.MaxUint64},
			"340282366920938463463374607431768211455"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Big().String(); got != tt.want {
				t.Errorf("Big() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInt128_Big(t *testing.T) {
	tests := []struct {
		name string
		in   Int128
		want string
	}{
		{"zero", Int128{}, "0"},
		{"minus one", Int128{High: -1, Low: math.MaxUint64}, "-1"},
		{"min", Int128{High: math.MinInt64, Low: 0},
			"-170141183460469231731687303715884105728"},
		{"max", Int128{High: math.MaxInt64, Low: math.MaxUint64},
			"170141183460469231731687303715884105727"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Big().String(); got != tt.want {
				t.Errorf("Big() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUint128FromBig_Bounds(t *testing.T) {
	if _, ok := Uint128FromBig(big.NewInt(-1)); ok {
		t.Error("negative big must not convert to Uint128")
	}
	over := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, ok := Uint128FromBig(over); ok {
		t.Error("2^128 must not convert to Uint128")
	}
	max := new(big.Int).Sub(over, big.NewInt(1))
	got, ok := Uint128FromBig(max)
	if !ok {
		t.Fatal("2^128-1 must convert to Uint128")
	}
	if got != (Uint128{High: math.MaxUint64, Low: math.MaxUint64}) {
		t.Errorf("Uint128FromBig(max) = %+v", got)
	}
}

func TestInt128FromBig_Bounds(t *testing.T) {
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

	if _, ok := Int128FromBig(new(big.Int).Sub(min, big.NewInt(1))); ok {
		t.Error("min-1 must not convert to Int128")
	}
	if _, ok := Int128FromBig(new(big.Int).Add(max, big.NewInt(1))); ok {
		t.Error("max+1 must not convert to Int128")
	}

	gotMin, ok := Int128FromBig(min)
	if !ok || gotMin != (Int128{High: math.MinInt64, Low: 0}) {
		t.Errorf("Int128FromBig(min) = %+v, ok=%v", gotMin, ok)
	}
	gotMax, ok := Int128FromBig(max)
	if !ok || gotMax != (Int128{High: math.MaxInt64, Low: math.MaxUint64}) {
		t.Errorf("Int128FromBig(max) = %+v, ok=%v", gotMax, ok)
	}
}

func TestProperty_Uint128BigRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Big then FromBig is identity", prop.ForAll(
		func(high, low uint64) bool {
			v := Uint128{High: high, Low: low}
			back, ok := Uint128FromBig(v.Big())
			return ok && back == v
		},
		gen.UInt64(),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestProperty_Int128BigRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Big then FromBig is identity", prop.ForAll(
		func(high int64, low uint64) bool {
			v := Int128{High: high, Low: low}
			back, ok := Int128FromBig(v.Big())
			return ok && back == v
		},
		gen.Int64(),
		gen.UInt64(),
	))

	properties.Property("sign-extension matches int64 arithmetic", prop.ForAll(
		func(v int64) bool {
			return Int128FromInt64(v).Big().Int64() == v
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
