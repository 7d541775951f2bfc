package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

type SwapMode uint8

const (
	// caller pays an exact base amount and receives quote
	SwapModeSellExactBaseIn SwapMode = iota
	// caller receives an exact quote amount and pays base
	SwapModeSellExactQuoteOut
	// caller receives an exact base amount and pays quote
	SwapModeBuyExactBaseOut
	// caller pays an exact quote amount and receives base
	SwapModeBuyExactQuoteIn
)

func (m SwapMode) String() string {
	switch m {
	case SwapModeSellExactBaseIn:
		return "SellExactBaseIn"
	case SwapModeSellExactQuoteOut:
		return "SellExactQuoteOut"
	case SwapModeBuyExactBaseOut:
		return "BuyExactBaseOut"
	case SwapModeBuyExactQuoteIn:
		return "BuyExactQuoteIn"
	default:
		return "UNKNOWN"
	}
}

// ParseSwapMode is the inverse of SwapMode.String.
func ParseSwapMode(s string) (SwapMode, bool) {
	switch s {
	case "SellExactBaseIn":
		return SwapModeSellExactBaseIn, true
	case "SellExactQuoteOut":
		return SwapModeSellExactQuoteOut, true
	case "BuyExactBaseOut":
		return SwapModeBuyExactBaseOut, true
	case "BuyExactQuoteIn":
		return SwapModeBuyExactQuoteIn, true
	}
	return 0, false
}

// FeeBreakdown holds each fee tier floored individually.
type FeeBreakdown struct {
	LPFee       *uint256.Int
	ProtocolFee *uint256.Int
	CreatorFee  *uint256.Int
}

// Total returns the sum of the tiers.
func (f FeeBreakdown) Total() *uint256.Int {
	total := new(uint256.Int)
	for _, tier := range []*uint256.Int{f.LPFee, f.ProtocolFee, f.CreatorFee} {
		if tier != nil {
			total.Add(total, tier)
		}
	}
	return total
}

// SwapQuote is the common result shape returned for every curve. Gross is the
// curve amount before fees, Net is what actually changes hands on the priced
// side, and Limit is the slippage-adjusted guard embedded in the instruction:
// a maximum input when IsMaxIn is set, a minimum output otherwise.
type SwapQuote struct {
	PoolType  PoolType
	Mode      SwapMode
	AmountIn  *uint256.Int
	AmountOut *uint256.Int
	Gross     *uint256.Int
	Net       *uint256.Int
	Fees      FeeBreakdown
	Limit     *uint256.Int
	IsMaxIn   bool
}

// PriceQuote is the presentation shape for spot prices of bin and tick pools.
type PriceQuote struct {
	PoolType        PoolType
	Pool            solana.PublicKey
	Index           int32
	RawPriceX64     uint128.Uint128
	PricePerLamport decimal.Decimal
	PricePerToken   decimal.Decimal
	InvertedPrice   decimal.Decimal
	// static pool fee as a percentage
	FeePct decimal.Decimal
}
