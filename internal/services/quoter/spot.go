package quoter

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/curve-engine/internal/curve/dlmm"
	"github.com/hxuan190/curve-engine/internal/curve/whirlpool"
	"github.com/hxuan190/curve-engine/internal/domain"
)

// BinSpotPrice prices the active bin. The inverted price is read from the
// mirrored bin so it stays on the pool's own grid.
func BinSpotPrice(s *domain.BinPoolSnapshot) (*domain.PriceQuote, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: missing bin pool snapshot", domain.ErrInvalidInput)
	}
	if s.BinStep == 0 {
		return nil, fmt.Errorf("%w: bin step is zero", domain.ErrInvalidInput)
	}

	raw, err := dlmm.PriceFromBin(s.ActiveID, s.BinStep)
	if err != nil {
		return nil, err
	}
	perLamport := dlmm.PriceToDecimal(raw)
	perToken, err := dlmm.PerTokenFromPerLamport(perLamport, s.BaseDecimals, s.QuoteDecimals)
	if err != nil {
		return nil, err
	}

	invertedRaw, err := dlmm.PriceFromBin(-s.ActiveID, s.BinStep)
	if err != nil {
		return nil, err
	}
	inverted, err := dlmm.PerTokenFromPerLamport(dlmm.PriceToDecimal(invertedRaw), s.QuoteDecimals, s.BaseDecimals)
	if err != nil {
		return nil, err
	}

	rate, err := dlmm.BaseFeeRate(s.BaseFactor, s.BinStep, s.BaseFeePowerFactor)
	if err != nil {
		return nil, err
	}

	return &domain.PriceQuote{
		PoolType:        domain.PoolTypeDLMM,
		Pool:            s.Address,
		Index:           s.ActiveID,
		RawPriceX64:     raw,
		PricePerLamport: perLamport,
		PricePerToken:   perToken,
		InvertedPrice:   inverted,
		FeePct:          dlmm.FeeRateToFeePct(rate),
	}, nil
}

func floatDecimal(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: price %v is not representable", domain.ErrArithmeticOverflow, v)
	}
	return decimal.NewFromFloat(v), nil
}

// TickSpotPrice prices the pool at its sqrt price. The tick is derived from
// the sqrt price rather than trusted from the snapshot.
func TickSpotPrice(s *domain.TickPoolSnapshot) (*domain.PriceQuote, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: missing tick pool snapshot", domain.ErrInvalidInput)
	}

	tick, err := whirlpool.SqrtPriceToTick(s.SqrtPriceX64)
	if err != nil {
		return nil, err
	}
	perLamport, err := floatDecimal(whirlpool.SqrtPriceToDecimalPrice(s.SqrtPriceX64, 0, 0))
	if err != nil {
		return nil, err
	}
	perToken, err := floatDecimal(whirlpool.SqrtPriceToDecimalPrice(s.SqrtPriceX64, s.DecimalsA, s.DecimalsB))
	if err != nil {
		return nil, err
	}
	invertedF, err := whirlpool.TickIndexToPrice(whirlpool.InvertTickIndex(tick), s.DecimalsB, s.DecimalsA)
	if err != nil {
		return nil, err
	}
	inverted, err := floatDecimal(invertedF)
	if err != nil {
		return nil, err
	}

	return &domain.PriceQuote{
		PoolType:        domain.PoolTypeWhirlpool,
		Pool:            s.Address,
		Index:           tick,
		RawPriceX64:     s.SqrtPriceX64,
		PricePerLamport: perLamport,
		PricePerToken:   perToken,
		InvertedPrice:   inverted,
		FeePct:          decimal.New(int64(s.FeeRate), -4),
	}, nil
}
