package quoter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/curve/dlmm"
	"github.com/hxuan190/curve-engine/internal/curve/whirlpool"
	"github.com/hxuan190/curve-engine/internal/domain"
)

// BinRounding selects how a price between two bins is resolved.
type BinRounding string

const (
	BinRoundingDown  BinRounding = "down"
	BinRoundingUp    BinRounding = "up"
	BinRoundingExact BinRounding = "exact"
)

// BinLocation is where a price lands on a bin grid.
type BinLocation struct {
	BinID      int32
	ArrayIndex int32
	ArrayLower int32
	ArrayUpper int32
	// price of BinID per whole token
	PricePerToken decimal.Decimal
}

// LocateBin maps a whole-token price onto the bin grid of binStep.
func LocateBin(pricePerToken decimal.Decimal, binStep uint16, baseDecimals, quoteDecimals uint8, rounding BinRounding) (*BinLocation, error) {
	perLamport, err := dlmm.PerLamportFromPerToken(pricePerToken, baseDecimals, quoteDecimals)
	if err != nil {
		return nil, err
	}

	var binID int32
	switch rounding {
	case BinRoundingDown, "":
		binID, err = dlmm.BinFromPrice(perLamport, binStep, dlmm.RoundingFloor)
	case BinRoundingUp:
		binID, err = dlmm.BinFromPrice(perLamport, binStep, dlmm.RoundingCeil)
	case BinRoundingExact:
		binID, err = dlmm.ExactBinFromPrice(perLamport, binStep)
	default:
		return nil, fmt.Errorf("%w: rounding %q", domain.ErrInvalidInput, rounding)
	}
	if err != nil {
		return nil, err
	}

	snapped, err := dlmm.PriceFromBin(binID, binStep)
	if err != nil {
		return nil, err
	}
	perToken, err := dlmm.PerTokenFromPerLamport(dlmm.PriceToDecimal(snapped), baseDecimals, quoteDecimals)
	if err != nil {
		return nil, err
	}

	index := dlmm.BinArrayIndex(binID)
	lower, upper, err := dlmm.BinArrayBounds(index)
	if err != nil {
		return nil, err
	}
	return &BinLocation{
		BinID:         binID,
		ArrayIndex:    index,
		ArrayLower:    lower,
		ArrayUpper:    upper,
		PricePerToken: perToken,
	}, nil
}

// TickGrid places a tick on the grid of a pool with the given spacing.
type TickGrid struct {
	Tick           int32
	SqrtPriceX64   uint128.Uint128
	Lower          int32
	Upper          int32
	ArrayStart     int32
	FullRangeLower int32
	FullRangeUpper int32
}

func LocateTick(tick int32, tickSpacing uint16) (*TickGrid, error) {
	sqrtPrice, err := whirlpool.TickToSqrtPrice(tick)
	if err != nil {
		return nil, err
	}
	lower, err := whirlpool.InitializableTickIndex(tick, tickSpacing, false)
	if err != nil {
		return nil, err
	}
	upper, err := whirlpool.InitializableTickIndex(tick, tickSpacing, true)
	if err != nil {
		return nil, err
	}
	start, err := whirlpool.TickArrayStartIndex(tick, tickSpacing)
	if err != nil {
		return nil, err
	}
	fullLower, fullUpper, err := whirlpool.FullRangeTickIndexes(tickSpacing)
	if err != nil {
		return nil, err
	}
	return &TickGrid{
		Tick:           tick,
		SqrtPriceX64:   sqrtPrice,
		Lower:          lower,
		Upper:          upper,
		ArrayStart:     start,
		FullRangeLower: fullLower,
		FullRangeUpper: fullUpper,
	}, nil
}

func (svc *Service) LocateBin(pricePerToken decimal.Decimal, binStep uint16, baseDecimals, quoteDecimals uint8, rounding BinRounding) (location *BinLocation, err error) {
	start := time.Now()
	defer func() { svc.observe(domain.PoolTypeDLMM, "LocateBin", start, err) }()
	return LocateBin(pricePerToken, binStep, baseDecimals, quoteDecimals, rounding)
}

func (svc *Service) LocateTick(tick int32, tickSpacing uint16) (grid *TickGrid, err error) {
	start := time.Now()
	defer func() { svc.observe(domain.PoolTypeWhirlpool, "LocateTick", start, err) }()
	return LocateTick(tick, tickSpacing)
}
