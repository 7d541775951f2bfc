package dlmm

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// FeePrecision is the denominator of bin pool fee rates (1e9 = 100%).
const FeePrecision = 1_000_000_000

// feePctExp converts a FeePrecision rate to percent: rate / 1e9 * 100 = rate * 10^-7.
const feePctExp = -7

var ten = uint256.NewInt(10)

// BaseFeeRate returns baseFactor * binStep * 10 * 10^powerFactor in FeePrecision units.
func BaseFeeRate(baseFactor, binStep uint16, powerFactor uint8) (uint128.Uint128, error) {
	rate := uint256.NewInt(uint64(baseFactor))
	rate.Mul(rate, uint256.NewInt(uint64(binStep)))
	rate.Mul(rate, ten)
	for i := uint8(0); i < powerFactor; i++ {
		rate.Mul(rate, ten)
		if rate.BitLen() > 128 {
			return uint128.Zero, fmt.Errorf("%w: base fee rate with power factor %d", domain.ErrArithmeticOverflow, powerFactor)
		}
	}
	return uint128.New(rate[0], rate[1]), nil
}

// FeeRateToFeePct converts a FeePrecision rate to a percentage.
func FeeRateToFeePct(rate uint128.Uint128) decimal.Decimal {
	return decimal.NewFromBigInt(rate.Big(), feePctExp)
}

// BaseFactorFromFeeBps finds the (baseFactor, powerFactor) pair whose base fee
// equals feeBps for the given bin step: baseFactor * 10^powerFactor = feeBps * 10000 / binStep.
// Only exact decompositions are accepted.
func BaseFactorFromFeeBps(binStep, feeBps uint16) (uint16, uint8, error) {
	if binStep == 0 {
		return 0, 0, fmt.Errorf("%w: bin step is zero", domain.ErrInvalidInput)
	}
	numerator := uint64(feeBps) * domain.BasisPointMax
	if numerator%uint64(binStep) != 0 {
		return 0, 0, fmt.Errorf("%w: fee %d bps is not a whole base factor for bin step %d", domain.ErrInvalidInput, feeBps, binStep)
	}

	baseFactor := numerator / uint64(binStep)
	var powerFactor uint8
	for baseFactor > math.MaxUint16 {
		if baseFactor%10 != 0 {
			return 0, 0, fmt.Errorf("%w: base factor %d has significant low digits", domain.ErrInvalidInput, baseFactor)
		}
		baseFactor /= 10
		powerFactor++
	}
	return uint16(baseFactor), powerFactor, nil
}
