package pumpamm

import (
	"fmt"
	"math"
	"sync"

	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// Precision is the fixed denominator of slippage factors.
const Precision = 1_000_000_000

var (
	u256BpsDenom  = uint256.NewInt(domain.BasisPointMax)
	u256Precision = uint256.NewInt(Precision)
	u256One       = uint256.NewInt(1)
)

var uint256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

func getU256() *uint256.Int {
	return uint256Pool.Get().(*uint256.Int)
}

func putU256(v *uint256.Int) {
	v.Clear()
	uint256Pool.Put(v)
}

// mulDiv returns floor(a*b/d) in a fresh value.
func mulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, domain.ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", domain.ErrArithmeticOverflow, a, b)
	}
	return z.Div(z, d), nil
}

// mulDivCeil returns ceil(a*b/d) in a fresh value.
func mulDivCeil(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, domain.ErrDivisionByZero
	}
	num, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", domain.ErrArithmeticOverflow, a, b)
	}
	rem := getU256()
	defer putU256(rem)

	z := new(uint256.Int)
	z.DivMod(num, d, rem)
	if !rem.IsZero() {
		z.Add(z, u256One)
	}
	return z, nil
}

func add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("%w: %s + %s", domain.ErrArithmeticOverflow, a, b)
	}
	return z, nil
}

// tierFee returns floor(amount * bps / 10000).
func tierFee(amount *uint256.Int, bps uint64) (*uint256.Int, error) {
	return mulDiv(amount, uint256.NewInt(bps), u256BpsDenom)
}

// chargeFees floors every tier on amount separately.
func chargeFees(amount *uint256.Int, fees domain.FeeSchedule) (domain.FeeBreakdown, error) {
	lp, err := tierFee(amount, fees.LPFeeBps)
	if err != nil {
		return domain.FeeBreakdown{}, err
	}
	protocol, err := tierFee(amount, fees.ProtocolFeeBps)
	if err != nil {
		return domain.FeeBreakdown{}, err
	}
	creator, err := tierFee(amount, fees.CreatorFeeBps)
	if err != nil {
		return domain.FeeBreakdown{}, err
	}
	return domain.FeeBreakdown{LPFee: lp, ProtocolFee: protocol, CreatorFee: creator}, nil
}

// slippageFactor returns round((1 ± pct/100) * Precision).
func slippageFactor(pct float64, up bool) (*uint256.Int, error) {
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
		return nil, fmt.Errorf("%w: %v%%", domain.ErrInvalidSlippage, pct)
	}
	ratio := 1 + pct/100
	if !up {
		if pct >= 100 {
			return nil, fmt.Errorf("%w: %v%% would invert the minimum output", domain.ErrInvalidSlippage, pct)
		}
		ratio = 1 - pct/100
	}
	factor := math.Round(ratio * Precision)
	if factor >= math.MaxUint64 {
		return nil, fmt.Errorf("%w: %v%% is too large", domain.ErrInvalidSlippage, pct)
	}
	return uint256.NewInt(uint64(factor)), nil
}

// applySlippage returns floor(amount * factor / Precision).
func applySlippage(amount *uint256.Int, pct float64, up bool) (*uint256.Int, error) {
	factor, err := slippageFactor(pct, up)
	if err != nil {
		return nil, err
	}
	return mulDiv(amount, factor, u256Precision)
}
