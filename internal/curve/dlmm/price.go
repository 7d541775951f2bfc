// Package dlmm converts between bin ids and prices for bin-based concentrated
// liquidity pools, where price(bin) = (1 + binStep/10000)^bin.
package dlmm

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/curve/fixedpoint"
	"github.com/hxuan190/curve-engine/internal/domain"
)

type Rounding uint8

const (
	// RoundingFloor selects the bin at or below the price.
	RoundingFloor Rounding = iota
	// RoundingCeil selects the bin at or above the price.
	RoundingCeil
)

// lnPrecision is the number of fractional digits kept by the decimal logarithm.
const lnPrecision = 36

var (
	// fivePow64 turns a division by 2^64 into an exact decimal shift: x/2^64 = x*5^64 / 10^64.
	fivePow64 = new(big.Int).Exp(big.NewInt(5), big.NewInt(fixedpoint.ScaleOffset), nil)

	basisPointMax = decimal.NewFromInt(domain.BasisPointMax)
	maxBinID      = decimal.NewFromInt(math.MaxInt32)
	minBinID      = decimal.NewFromInt(math.MinInt32)
)

// PriceFromBin returns the Q64.64 price of binID, computed exactly the way the
// on-chain program does it.
func PriceFromBin(binID int32, binStep uint16) (uint128.Uint128, error) {
	bps := uint128.From64(uint64(binStep)).Lsh(fixedpoint.ScaleOffset).Div64(domain.BasisPointMax)
	base := fixedpoint.One.Add(bps)
	return fixedpoint.Pow(base, binID)
}

// logRatio returns log(price) / log(1 + binStep/10000). Grid prices carry the
// Q64.64 rounding of Pow, so the ratio of a grid price can miss its id by a
// few units in the 15th digit.
func logRatio(price decimal.Decimal, binStep uint16) (decimal.Decimal, error) {
	if binStep == 0 {
		return decimal.Zero, fmt.Errorf("%w: bin step is zero", domain.ErrInvalidInput)
	}
	if price.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: price %s is not positive", domain.ErrInvalidInput, price)
	}

	base := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(binStep)).Div(basisPointMax))
	lnBase, err := base.Ln(lnPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: ln(%s): %v", domain.ErrInvalidInput, base, err)
	}
	lnPrice, err := price.Ln(lnPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: ln(%s): %v", domain.ErrInvalidInput, price, err)
	}
	return lnPrice.DivRound(lnBase, lnPrecision), nil
}

func toBinID(id decimal.Decimal) (int32, error) {
	if id.GreaterThan(maxBinID) || id.LessThan(minBinID) {
		return 0, fmt.Errorf("%w: bin id %s does not fit int32", domain.ErrArithmeticOverflow, id)
	}
	return int32(id.IntPart()), nil
}

// gridPrice returns the exact decimal price of binID, false when Pow cannot price it.
func gridPrice(binID int64, binStep uint16) (decimal.Decimal, bool) {
	if binID > math.MaxInt32 || binID < math.MinInt32 {
		return decimal.Zero, false
	}
	price, err := PriceFromBin(int32(binID), binStep)
	if err != nil {
		return decimal.Zero, false
	}
	return PriceToDecimal(price), true
}

// BinFromPrice returns the bin holding price, rounding between bins as requested.
// price is expressed per smallest unit (see PriceToDecimal). The log estimate is
// settled against the neighbouring grid prices, so Floor never returns a bin
// priced above price and Ceil never one priced below it.
func BinFromPrice(price decimal.Decimal, binStep uint16, rounding Rounding) (int32, error) {
	ratio, err := logRatio(price, binStep)
	if err != nil {
		return 0, err
	}

	var id int64
	switch rounding {
	case RoundingCeil:
		estimate, err := toBinID(ratio.Ceil())
		if err != nil {
			return 0, err
		}
		id = int64(estimate)
		if below, ok := gridPrice(id-1, binStep); ok && below.GreaterThanOrEqual(price) {
			id--
		} else if at, ok := gridPrice(id, binStep); ok && at.LessThan(price) {
			id++
		}
	default:
		estimate, err := toBinID(ratio.Floor())
		if err != nil {
			return 0, err
		}
		id = int64(estimate)
		if above, ok := gridPrice(id+1, binStep); ok && above.LessThanOrEqual(price) {
			id++
		} else if at, ok := gridPrice(id, binStep); ok && at.GreaterThan(price) {
			id--
		}
	}
	return toBinID(decimal.NewFromInt(id))
}

// ExactBinFromPrice succeeds only when price equals a grid price exactly.
func ExactBinFromPrice(price decimal.Decimal, binStep uint16) (int32, error) {
	ratio, err := logRatio(price, binStep)
	if err != nil {
		return 0, err
	}
	id, err := toBinID(ratio.Round(0))
	if err != nil {
		return 0, err
	}
	at, err := PriceFromBin(id, binStep)
	if err != nil {
		return 0, err
	}
	if !PriceToDecimal(at).Equal(price) {
		return 0, fmt.Errorf("%w: price %s is between bins (%s)", domain.ErrInvalidInput, price, ratio.Round(lnPrecision/2))
	}
	return id, nil
}

// PriceToDecimal converts a Q64.64 price to an exact decimal price per smallest unit.
func PriceToDecimal(priceX64 uint128.Uint128) decimal.Decimal {
	scaled := new(big.Int).Mul(priceX64.Big(), fivePow64)
	return decimal.NewFromBigInt(scaled, -fixedpoint.ScaleOffset)
}

// PerTokenFromPerLamport converts a smallest-unit price to a whole-token price:
// perToken = perLamport * 10^baseDecimals / 10^quoteDecimals.
func PerTokenFromPerLamport(perLamport decimal.Decimal, baseDecimals, quoteDecimals uint8) (decimal.Decimal, error) {
	if perLamport.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: negative price %s", domain.ErrInvalidInput, perLamport)
	}
	return perLamport.Shift(int32(baseDecimals) - int32(quoteDecimals)), nil
}

// PerLamportFromPerToken is the inverse of PerTokenFromPerLamport.
func PerLamportFromPerToken(perToken decimal.Decimal, baseDecimals, quoteDecimals uint8) (decimal.Decimal, error) {
	if perToken.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: negative price %s", domain.ErrInvalidInput, perToken)
	}
	return perToken.Shift(int32(quoteDecimals) - int32(baseDecimals)), nil
}

func decimalFromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero, fmt.Errorf("%w: price %v", domain.ErrInvalidInput, v)
	}
	return decimal.NewFromFloat(v), nil
}

// PricePerLamportToPerToken is PerTokenFromPerLamport for float inputs.
func PricePerLamportToPerToken(perLamport float64, baseDecimals, quoteDecimals uint8) (decimal.Decimal, error) {
	d, err := decimalFromFloat(perLamport)
	if err != nil {
		return decimal.Zero, err
	}
	return PerTokenFromPerLamport(d, baseDecimals, quoteDecimals)
}

// PricePerTokenToPerLamport is PerLamportFromPerToken for float inputs.
func PricePerTokenToPerLamport(perToken float64, baseDecimals, quoteDecimals uint8) (decimal.Decimal, error) {
	d, err := decimalFromFloat(perToken)
	if err != nil {
		return decimal.Zero, err
	}
	return PerLamportFromPerToken(d, baseDecimals, quoteDecimals)
}
