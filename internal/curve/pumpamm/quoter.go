// Package pumpamm quotes swaps against a fee-layered constant-product pool.
//
// Amounts the caller owes round up and amounts the caller receives round
// down, so the pool never loses value to rounding. Each fee tier is floored
// on its own and the tiers are then summed.
package pumpamm

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// Quoter prices swaps for one pool snapshot. It holds no mutable state and is
// safe for concurrent use.
type Quoter struct {
	base  *uint256.Int
	quote *uint256.Int
	fees  domain.FeeSchedule
}

// NewQuoter validates the snapshot and folds the creator waiver into the
// fee schedule.
func NewQuoter(snapshot *domain.ConstantProductSnapshot) (*Quoter, error) {
	if snapshot == nil || snapshot.Reserves.IsEmpty() {
		return nil, domain.ErrEmptyPool
	}
	if err := snapshot.Fees.Validate(); err != nil {
		return nil, fmt.Errorf("%w: fee tier above %d bps", err, domain.BasisPointMax)
	}
	return &Quoter{
		base:  new(uint256.Int).Set(snapshot.Reserves.BaseReserve),
		quote: new(uint256.Int).Set(snapshot.Reserves.QuoteReserve),
		fees:  snapshot.Fees.Effective(snapshot.CreatorWaived()),
	}, nil
}

// Fees returns the effective fee schedule.
func (q *Quoter) Fees() domain.FeeSchedule {
	return q.fees
}

func checkAmount(amount *uint256.Int) error {
	if amount == nil {
		return fmt.Errorf("%w: missing amount", domain.ErrInvalidInput)
	}
	return nil
}

// QuoteForExactBaseIn prices buying exactly baseOut from the pool: the quote
// the caller pays, and the most it should accept paying after slippage.
func (q *Quoter) QuoteForExactBaseIn(baseOut *uint256.Int, slippagePct float64) (*domain.SwapQuote, error) {
	if err := checkAmount(baseOut); err != nil {
		return nil, err
	}
	if baseOut.Cmp(q.base) >= 0 {
		return nil, fmt.Errorf("%w: base %s against reserve %s", domain.ErrInsufficientLiquidity, baseOut, q.base)
	}

	remaining := new(uint256.Int).Sub(q.base, baseOut)
	gross, err := mulDivCeil(q.quote, baseOut, remaining)
	if err != nil {
		return nil, err
	}
	fees, err := chargeFees(gross, q.fees)
	if err != nil {
		return nil, err
	}
	cost, err := add(gross, fees.Total())
	if err != nil {
		return nil, err
	}
	limit, err := applySlippage(cost, slippagePct, true)
	if err != nil {
		return nil, err
	}

	return &domain.SwapQuote{
		PoolType:  domain.PoolTypePumpAMM,
		Mode:      domain.SwapModeBuyExactBaseOut,
		AmountIn:  cost,
		AmountOut: new(uint256.Int).Set(baseOut),
		Gross:     gross,
		Net:       new(uint256.Int).Set(cost),
		Fees:      fees,
		Limit:     limit,
		IsMaxIn:   true,
	}, nil
}

// BaseOutForExactQuoteIn prices spending exactly quoteIn on base. Fees are
// taken off the top so only the effective quote reaches the curve.
func (q *Quoter) BaseOutForExactQuoteIn(quoteIn *uint256.Int, slippagePct float64) (*domain.SwapQuote, error) {
	if err := checkAmount(quoteIn); err != nil {
		return nil, err
	}

	denom := uint256.NewInt(domain.BasisPointMax + q.fees.TotalBps())
	effective, err := mulDiv(quoteIn, u256BpsDenom, denom)
	if err != nil {
		return nil, err
	}
	after, err := add(q.quote, effective)
	if err != nil {
		return nil, err
	}
	baseOut, err := mulDiv(q.base, effective, after)
	if err != nil {
		return nil, err
	}
	fees, err := chargeFees(effective, q.fees)
	if err != nil {
		return nil, err
	}
	limit, err := applySlippage(quoteIn, slippagePct, true)
	if err != nil {
		return nil, err
	}

	return &domain.SwapQuote{
		PoolType:  domain.PoolTypePumpAMM,
		Mode:      domain.SwapModeBuyExactQuoteIn,
		AmountIn:  new(uint256.Int).Set(quoteIn),
		AmountOut: baseOut,
		Gross:     effective,
		Net:       new(uint256.Int).Set(quoteIn),
		Fees:      fees,
		Limit:     limit,
		IsMaxIn:   true,
	}, nil
}

// BaseInForExactQuoteOut prices selling base for exactly quoteOut after fees.
func (q *Quoter) BaseInForExactQuoteOut(quoteOut *uint256.Int, slippagePct float64) (*domain.SwapQuote, error) {
	if err := checkAmount(quoteOut); err != nil {
		return nil, err
	}
	if quoteOut.Cmp(q.quote) > 0 {
		return nil, fmt.Errorf("%w: quote %s against reserve %s", domain.ErrInsufficientLiquidity, quoteOut, q.quote)
	}
	totalBps := q.fees.TotalBps()
	if totalBps >= domain.BasisPointMax {
		return nil, fmt.Errorf("%w: %d bps", domain.ErrFeeExceedsMax, totalBps)
	}

	raw, err := mulDivCeil(quoteOut, u256BpsDenom, uint256.NewInt(domain.BasisPointMax-totalBps))
	if err != nil {
		return nil, err
	}
	if raw.Cmp(q.quote) >= 0 {
		return nil, fmt.Errorf("%w: raw quote %s against reserve %s", domain.ErrInsufficientLiquidity, raw, q.quote)
	}
	remaining := new(uint256.Int).Sub(q.quote, raw)
	baseIn, err := mulDivCeil(q.base, raw, remaining)
	if err != nil {
		return nil, err
	}
	fees, err := chargeFees(raw, q.fees)
	if err != nil {
		return nil, err
	}
	limit, err := applySlippage(quoteOut, slippagePct, false)
	if err != nil {
		return nil, err
	}

	return &domain.SwapQuote{
		PoolType:  domain.PoolTypePumpAMM,
		Mode:      domain.SwapModeSellExactQuoteOut,
		AmountIn:  baseIn,
		AmountOut: new(uint256.Int).Set(quoteOut),
		Gross:     raw,
		Net:       new(uint256.Int).Set(quoteOut),
		Fees:      fees,
		Limit:     limit,
	}, nil
}

// QuoteOutForExactBaseIn prices selling exactly baseIn: the quote the caller
// receives net of fees, and the least it should accept after slippage.
func (q *Quoter) QuoteOutForExactBaseIn(baseIn *uint256.Int, slippagePct float64) (*domain.SwapQuote, error) {
	if err := checkAmount(baseIn); err != nil {
		return nil, err
	}

	after, err := add(q.base, baseIn)
	if err != nil {
		return nil, err
	}
	gross, err := mulDiv(q.quote, baseIn, after)
	if err != nil {
		return nil, err
	}
	fees, err := chargeFees(gross, q.fees)
	if err != nil {
		return nil, err
	}
	total := fees.Total()
	if total.Cmp(gross) > 0 {
		return nil, fmt.Errorf("%w: fees %s exceed gross %s", domain.ErrInsufficientOutput, total, gross)
	}
	net := new(uint256.Int).Sub(gross, total)
	limit, err := applySlippage(net, slippagePct, false)
	if err != nil {
		return nil, err
	}

	return &domain.SwapQuote{
		PoolType:  domain.PoolTypePumpAMM,
		Mode:      domain.SwapModeSellExactBaseIn,
		AmountIn:  new(uint256.Int).Set(baseIn),
		AmountOut: net,
		Gross:     gross,
		Net:       new(uint256.Int).Set(net),
		Fees:      fees,
		Limit:     limit,
	}, nil
}

// Quote dispatches on mode. amount is the exact side of the swap.
func (q *Quoter) Quote(mode domain.SwapMode, amount *uint256.Int, slippagePct float64) (*domain.SwapQuote, error) {
	switch mode {
	case domain.SwapModeSellExactBaseIn:
		return q.QuoteOutForExactBaseIn(amount, slippagePct)
	case domain.SwapModeSellExactQuoteOut:
		return q.BaseInForExactQuoteOut(amount, slippagePct)
	case domain.SwapModeBuyExactBaseOut:
		return q.QuoteForExactBaseIn(amount, slippagePct)
	case domain.SwapModeBuyExactQuoteIn:
		return q.BaseOutForExactQuoteIn(amount, slippagePct)
	default:
		return nil, fmt.Errorf("%w: swap mode %d", domain.ErrInvalidInput, mode)
	}
}
