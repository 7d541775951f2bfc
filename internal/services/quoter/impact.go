package quoter

import (
	"math"
	"math/big"
	"sync"

	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// Price impact thresholds in basis points
const (
	PriceImpactLow      uint16 = 100  // 1%
	PriceImpactModerate uint16 = 300  // 3%
	PriceImpactHigh     uint16 = 500  // 5%
	PriceImpactExtreme  uint16 = 1000 // 10%
)

type PriceImpactSeverity string

const (
	SeverityNone     PriceImpactSeverity = "none"     // < 1%
	SeverityLow      PriceImpactSeverity = "low"      // 1-3%
	SeverityModerate PriceImpactSeverity = "moderate" // 3-5%
	SeverityHigh     PriceImpactSeverity = "high"     // 5-10%
	SeverityExtreme  PriceImpactSeverity = "extreme"  // > 10%
)

var bpsDenom = big.NewInt(domain.BasisPointMax)

var bigIntPool = sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

func getBigInt() *big.Int {
	return bigIntPool.Get().(*big.Int)
}

func putBigInt(v *big.Int) {
	v.SetInt64(0)
	bigIntPool.Put(v)
}

func setU256(dst *big.Int, v *uint256.Int) *big.Int {
	return dst.SetBytes(v.Bytes())
}

// PriceImpactBps measures how far the curve-side execution price of quote is
// from the spot price of reserves, fees excluded:
//
//	impact = 1 - executionPrice / spotPrice
//
// Sells compare quote received per base against quoteReserve/baseReserve, buys
// compare base received per quote against baseReserve/quoteReserve. Results
// above MaxUint16 are capped.
func PriceImpactBps(reserves domain.PoolReserves, quote *domain.SwapQuote) uint16 {
	if quote == nil || reserves.IsEmpty() || quote.Gross == nil || quote.AmountIn == nil || quote.AmountOut == nil {
		return 0
	}

	baseReserve := setU256(getBigInt(), reserves.BaseReserve)
	quoteReserve := setU256(getBigInt(), reserves.QuoteReserve)
	gross := setU256(getBigInt(), quote.Gross)
	spot := getBigInt()
	execution := getBigInt()
	defer func() {
		putBigInt(baseReserve)
		putBigInt(quoteReserve)
		putBigInt(gross)
		putBigInt(spot)
		putBigInt(execution)
	}()

	switch quote.Mode {
	case domain.SwapModeSellExactBaseIn, domain.SwapModeSellExactQuoteOut:
		// gross/baseIn vs quoteReserve/baseReserve
		amountIn := setU256(getBigInt(), quote.AmountIn)
		defer putBigInt(amountIn)
		spot.Mul(amountIn, quoteReserve)
		execution.Mul(gross, baseReserve)
	case domain.SwapModeBuyExactBaseOut, domain.SwapModeBuyExactQuoteIn:
		// baseOut/gross vs baseReserve/quoteReserve
		amountOut := setU256(getBigInt(), quote.AmountOut)
		defer putBigInt(amountOut)
		spot.Mul(gross, baseReserve)
		execution.Mul(amountOut, quoteReserve)
	default:
		return 0
	}

	if spot.Sign() <= 0 || execution.Cmp(spot) >= 0 {
		return 0
	}

	// (spot - execution) * 10000 / spot
	execution.Sub(spot, execution)
	execution.Mul(execution, bpsDenom)
	execution.Quo(execution, spot)

	if !execution.IsUint64() || execution.Uint64() > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(execution.Uint64())
}

func GetPriceImpactSeverity(priceImpactBps uint16) PriceImpactSeverity {
	switch {
	case priceImpactBps < PriceImpactLow:
		return SeverityNone
	case priceImpactBps < PriceImpactModerate:
		return SeverityLow
	case priceImpactBps < PriceImpactHigh:
		return SeverityModerate
	case priceImpactBps < PriceImpactExtreme:
		return SeverityHigh
	default:
		return SeverityExtreme
	}
}

// GetPriceImpactWarning returns a user-facing warning, empty below PriceImpactLow.
func GetPriceImpactWarning(priceImpactBps uint16) string {
	switch GetPriceImpactSeverity(priceImpactBps) {
	case SeverityLow:
		return "Low price impact"
	case SeverityModerate:
		return "Moderate price impact - consider reducing trade size"
	case SeverityHigh:
		return "High price impact - you may receive significantly less tokens"
	case SeverityExtreme:
		return "EXTREME price impact - this trade will severely move the pool price"
	default:
		return ""
	}
}
