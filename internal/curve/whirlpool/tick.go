// Package whirlpool converts between tick indexes and Q64.64 square-root
// prices for tick-based concentrated liquidity pools, where price = 1.0001^tick.
//
// Every conversion in this file is integer only and matches the on-chain
// program bit for bit.
package whirlpool

import (
	"fmt"
	"math/bits"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/domain"
)

const (
	MinTickIndex int32 = -443636
	MaxTickIndex int32 = 443636

	// bitPrecision is the number of fractional log2 bits resolved by SqrtPriceToTick.
	bitPrecision = 14
)

var (
	MinSqrtPrice = uint128.From64(4295048016)
	MaxSqrtPrice = uint128.New(3871828160200520623, 4294886577) // 79226673515401279992447579055

	// logB2X32 is log_1.0001(2) in Q32.32, scaled once more by 2^32 on use.
	logB2X32 = uint256.NewInt(59543866431248)
	// error margins of the 14 bit log2 estimate, Q64.64
	logBPErrMarginLowerX64 = uint256.NewInt(184467440737095516)
	logBPErrMarginUpperX64 = uint256.NewInt(15793534762490258745)
)

// sqrt(1.0001)^(2^i) in Q96 for i = 1..18, used for positive ticks.
var positiveTickRatiosX96 = mustRatios(
	"79236085330515764027303304731",
	"79244008939048815603706035061",
	"79259858533276714757314932305",
	"79291567232598584799939703904",
	"79355022692464371645785046466",
	"79482085999252804386437311141",
	"79736823300114093921829183326",
	"80248749790819932309965073892",
	"81282483887344747381513967011",
	"83390072131320151908154831281",
	"87770609709833776024991924138",
	"97234110755111693312479820773",
	"119332217159966728226237229890",
	"179736315981702064433883588727",
	"407748233172238350107850275304",
	"2098478828474011932436660412517",
	"55581415166113811149459800483533",
	"38992368544603139932233054999993551",
)

// sqrt(1.0001)^-(2^i) in Q64 for i = 1..18, used for negative ticks.
var negativeTickRatiosX64 = mustRatios(
	"18444899583751176498",
	"18443055278223354162",
	"18439367220385604838",
	"18431993317065449817",
	"18417254355718160513",
	"18387811781193591352",
	"18329067761203520168",
	"18212142134806087854",
	"17980523815641551639",
	"17526086738831147013",
	"16651378430235024244",
	"15030750278693429944",
	"12247334978882834399",
	"8131365268884726200",
	"3584323654723342297",
	"696457651847595233",
	"26294789957452057",
	"37481735321082",
)

var (
	positiveOddX96  = uint256.MustFromDecimal("79232123823359799118286999567")
	positiveEvenX96 = uint256.MustFromDecimal("79228162514264337593543950336")
	negativeOddX64  = uint256.MustFromDecimal("18445821805675392311")
	negativeEvenX64 = uint256.MustFromDecimal("18446744073709551616")
)

func mustRatios(values ...string) []*uint256.Int {
	out := make([]*uint256.Int, len(values))
	for i, v := range values {
		out[i] = uint256.MustFromDecimal(v)
	}
	return out
}

// TickToSqrtPrice returns the Q64.64 square-root price of tick.
func TickToSqrtPrice(tick int32) (uint128.Uint128, error) {
	if tick < MinTickIndex || tick > MaxTickIndex {
		return uint128.Zero, fmt.Errorf("%w: tick %d outside [%d, %d]", domain.ErrInvalidInput, tick, MinTickIndex, MaxTickIndex)
	}
	return sqrtPriceAtTick(tick), nil
}

// sqrtPriceAtTick runs the ladder without bound checks. Any |tick| < 2^19 is safe.
func sqrtPriceAtTick(tick int32) uint128.Uint128 {
	if tick >= 0 {
		return sqrtPricePositiveTick(uint32(tick))
	}
	return sqrtPriceNegativeTick(uint32(-tick))
}

func sqrtPricePositiveTick(tick uint32) uint128.Uint128 {
	ratio := new(uint256.Int)
	if tick&1 != 0 {
		ratio.Set(positiveOddX96)
	} else {
		ratio.Set(positiveEvenX96)
	}
	for i, c := range positiveTickRatiosX96 {
		if tick&(2<<i) != 0 {
			ratio.Mul(ratio, c)
			ratio.Rsh(ratio, 96)
		}
	}
	ratio.Rsh(ratio, 32)
	return uint128.New(ratio[0], ratio[1])
}

func sqrtPriceNegativeTick(tick uint32) uint128.Uint128 {
	ratio := new(uint256.Int)
	if tick&1 != 0 {
		ratio.Set(negativeOddX64)
	} else {
		ratio.Set(negativeEvenX64)
	}
	for i, c := range negativeTickRatiosX64 {
		if tick&(2<<i) != 0 {
			ratio.Mul(ratio, c)
			ratio.Rsh(ratio, 64)
		}
	}
	return uint128.New(ratio[0], ratio[1])
}

// signed returns v as a two's complement 256 bit integer.
func signed(v int64) *uint256.Int {
	if v >= 0 {
		return uint256.NewInt(uint64(v))
	}
	z := uint256.NewInt(uint64(-v))
	return z.Neg(z)
}

// SqrtPriceToTick returns the greatest tick whose square-root price is at or
// below sqrtPrice, using a fixed 14 bit log2 approximation.
func SqrtPriceToTick(sqrtPrice uint128.Uint128) (int32, error) {
	if sqrtPrice.Cmp(MinSqrtPrice) < 0 || sqrtPrice.Cmp(MaxSqrtPrice) > 0 {
		return 0, fmt.Errorf("%w: sqrt price %s outside [%s, %s]", domain.ErrInvalidInput, sqrtPrice, MinSqrtPrice, MaxSqrtPrice)
	}

	msb := 127 - sqrtPrice.LeadingZeros()
	log2pIntegerX32 := (int64(msb) - 64) << 32

	// normalize to [2^63, 2^64), i.e. [1, 2) in Q1.63
	var r uint64
	if msb >= 64 {
		r = sqrtPrice.Rsh(uint(msb - 63)).Lo
	} else {
		r = sqrtPrice.Lsh(uint(63 - msb)).Lo
	}

	var log2pFractionX64 uint64
	bit := uint64(1) << 63
	for precision := 0; bit > 0 && precision < bitPrecision; precision++ {
		hi, lo := bits.Mul64(r, r)
		more := hi >> 63
		r = uint128.New(lo, hi).Rsh(uint(63 + more)).Lo
		log2pFractionX64 += bit * more
		bit >>= 1
	}

	log2pX32 := log2pIntegerX32 + int64(log2pFractionX64>>32)
	logbpX64 := new(uint256.Int).Mul(signed(log2pX32), logB2X32)

	low := new(uint256.Int).Sub(logbpX64, logBPErrMarginLowerX64)
	high := new(uint256.Int).Add(logbpX64, logBPErrMarginUpperX64)
	tickLow := int32(int64(low.SRsh(low, 64).Uint64()))
	tickHigh := int32(int64(high.SRsh(high, 64).Uint64()))

	if tickLow == tickHigh {
		return tickLow, nil
	}
	if sqrtPriceAtTick(tickHigh).Cmp(sqrtPrice) <= 0 {
		return tickHigh, nil
	}
	return tickLow, nil
}

// InvertTickIndex returns the tick of the inverse price.
func InvertTickIndex(tick int32) int32 {
	return -tick
}
