package whirlpool

import (
	"fmt"
	"math"
	"math/big"

	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/domain"
)

const q64Resolution = 18446744073709551616.0

// SqrtPriceToDecimalPrice returns the token B per token A price of sqrtPrice,
// adjusted for decimals. The float result is for display only and must not
// feed back into quoting.
func SqrtPriceToDecimalPrice(sqrtPrice uint128.Uint128, decimalsA, decimalsB uint8) float64 {
	f, _ := new(big.Float).SetInt(sqrtPrice.Big()).Float64()
	power := math.Pow10(int(decimalsA) - int(decimalsB))
	return math.Pow(f/q64Resolution, 2) * power
}

// PriceToSqrtPrice returns floor(sqrt(price / 10^(decimalsA-decimalsB)) * 2^64).
func PriceToSqrtPrice(price float64, decimalsA, decimalsB uint8) (uint128.Uint128, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return uint128.Zero, fmt.Errorf("%w: price %v", domain.ErrInvalidInput, price)
	}
	power := math.Pow10(int(decimalsA) - int(decimalsB))
	v := math.Floor(math.Sqrt(price/power) * q64Resolution)
	if v >= q64Resolution*q64Resolution {
		return uint128.Zero, fmt.Errorf("%w: sqrt price of %v exceeds 128 bits", domain.ErrArithmeticOverflow, price)
	}
	i, _ := big.NewFloat(v).Int(nil)
	return uint128.FromBig(i), nil
}

// PriceToTickIndex returns the tick at or below price.
func PriceToTickIndex(price float64, decimalsA, decimalsB uint8) (int32, error) {
	sqrtPrice, err := PriceToSqrtPrice(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return SqrtPriceToTick(sqrtPrice)
}

// TickIndexToPrice returns the display price of tick.
func TickIndexToPrice(tick int32, decimalsA, decimalsB uint8) (float64, error) {
	sqrtPrice, err := TickToSqrtPrice(tick)
	if err != nil {
		return 0, err
	}
	return SqrtPriceToDecimalPrice(sqrtPrice, decimalsA, decimalsB), nil
}

// InvertPrice returns the price of token A in token B, snapped to the tick grid:
// price -> tick -> -tick -> price. The inverted price is quoted per whole token A,
// so the decimals swap sides.
func InvertPrice(price float64, decimalsA, decimalsB uint8) (float64, error) {
	tick, err := PriceToTickIndex(price, decimalsA, decimalsB)
	if err != nil {
		return 0, err
	}
	return TickIndexToPrice(InvertTickIndex(tick), decimalsB, decimalsA)
}
