// Package fixedpoint implements deterministic Q64.64 arithmetic shared by the
// bin-based price model.
package fixedpoint

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/domain"
)

const (
	// ScaleOffset is the number of fractional bits of a Q64.64 value.
	ScaleOffset = 64
	// MaxExponent bounds |exp| in Pow. 19 squaring steps is the most a Q64.64
	// value survives without guaranteed overflow.
	MaxExponent = 19
)

// One is 1.0 in Q64.64.
var One = uint128.New(0, 1)

// Reciprocal returns floor((2^128-1) / x), which is 2^128/x to within one unit.
func Reciprocal(x uint128.Uint128) (uint128.Uint128, error) {
	if x.IsZero() {
		return uint128.Zero, fmt.Errorf("%w: reciprocal of zero", domain.ErrDivisionByZero)
	}
	return uint128.Max.Div(x), nil
}

// mulShr returns (a*b) >> 64, failing when a*b does not fit in 128 bits.
func mulShr(a, b uint128.Uint128) (uint128.Uint128, error) {
	x := uint256.Int{a.Lo, a.Hi, 0, 0}
	y := uint256.Int{b.Lo, b.Hi, 0, 0}
	x.Mul(&x, &y)
	if x.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("%w: q64.64 product exceeds 128 bits", domain.ErrArithmeticOverflow)
	}
	x.Rsh(&x, ScaleOffset)
	return uint128.New(x[0], x[1]), nil
}

// Pow computes base^exp in Q64.64 using square-and-multiply over the 19 low
// exponent bits. Bases >= 1.0 are inverted first so the iterated value stays
// in [0, 1) and repeated squaring cannot overflow; the inversion is undone at
// the end together with the sign of exp.
func Pow(base uint128.Uint128, exp int32) (uint128.Uint128, error) {
	if exp == 0 {
		return One, nil
	}
	if exp == math.MinInt32 {
		return uint128.Zero, fmt.Errorf("%w: %d", domain.ErrExponentOutOfRange, exp)
	}

	invert := exp < 0
	abs := uint32(exp)
	if invert {
		abs = uint32(-exp)
	}
	if abs >= MaxExponent {
		return uint128.Zero, fmt.Errorf("%w: |%d| >= %d", domain.ErrExponentOutOfRange, exp, MaxExponent)
	}

	squaredBase := base
	result := One

	var err error
	if squaredBase.Cmp(result) >= 0 {
		if squaredBase, err = Reciprocal(squaredBase); err != nil {
			return uint128.Zero, err
		}
		invert = !invert
	}

	for bit := uint32(0); bit < MaxExponent; bit++ {
		if abs&(1<<bit) != 0 {
			if result, err = mulShr(result, squaredBase); err != nil {
				return uint128.Zero, err
			}
		}
		if squaredBase, err = mulShr(squaredBase, squaredBase); err != nil {
			return uint128.Zero, err
		}
	}

	// zero is never a valid price
	if result.IsZero() {
		return uint128.Zero, fmt.Errorf("%w: %s^%d", domain.ErrUnderflow, base, exp)
	}

	if invert {
		return Reciprocal(result)
	}
	return result, nil
}
