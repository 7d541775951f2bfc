package pumpamm

import (
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/domain"
)

var testCreator = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

func newTestQuoter(t *testing.T, fees domain.FeeSchedule, creator solana.PublicKey) *Quoter {
	t.Helper()
	q, err := NewQuoter(&domain.ConstantProductSnapshot{
		Reserves: domain.PoolReserves{
			BaseReserve:  uint256.NewInt(1_000_000),
			QuoteReserve: uint256.NewInt(30_000_000_000),
		},
		Fees:        fees,
		CoinCreator: creator,
	})
	if err != nil {
		t.Fatalf("NewQuoter error: %v", err)
	}
	return q
}

func defaultFees() domain.FeeSchedule {
	return domain.FeeSchedule{LPFeeBps: 20, ProtocolFeeBps: 5}
}

func requireU256(t *testing.T, name string, got *uint256.Int, want uint64) {
	t.Helper()
	if got == nil || !got.Eq(uint256.NewInt(want)) {
		t.Fatalf("%s = %v, want %d", name, got, want)
	}
}

func TestQuoteOutForExactBaseIn(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})

	quote, err := q.QuoteOutForExactBaseIn(uint256.NewInt(1000), 1)
	if err != nil {
		t.Fatalf("QuoteOutForExactBaseIn error: %v", err)
	}
	requireU256(t, "gross", quote.Gross, 29_970_029)
	requireU256(t, "lp fee", quote.Fees.LPFee, 59_940)
	requireU256(t, "protocol fee", quote.Fees.ProtocolFee, 14_985)
	requireU256(t, "creator fee", quote.Fees.CreatorFee, 0)
	requireU256(t, "net", quote.Net, 29_895_104)
	requireU256(t, "min out", quote.Limit, 29_596_152)
	if quote.IsMaxIn || quote.Mode != domain.SwapModeSellExactBaseIn {
		t.Fatalf("unexpected guard shape: mode %s, isMaxIn %v", quote.Mode, quote.IsMaxIn)
	}

	// fees always cost the seller something
	if quote.Net.Cmp(quote.Gross) >= 0 {
		t.Fatalf("net %s not below gross %s", quote.Net, quote.Gross)
	}
}

func TestBaseInForExactQuoteOut(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})

	quote, err := q.BaseInForExactQuoteOut(uint256.NewInt(29_895_104), 1)
	if err != nil {
		t.Fatalf("BaseInForExactQuoteOut error: %v", err)
	}
	requireU256(t, "raw quote", quote.Gross, 29_970_030)
	requireU256(t, "base in", quote.AmountIn, 1001)
	requireU256(t, "min out", quote.Limit, 29_596_152)
}

func TestQuoteForExactBaseIn(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})

	quote, err := q.QuoteForExactBaseIn(uint256.NewInt(1000), 1)
	if err != nil {
		t.Fatalf("QuoteForExactBaseIn error: %v", err)
	}
	requireU256(t, "gross", quote.Gross, 30_030_031)
	requireU256(t, "lp fee", quote.Fees.LPFee, 60_060)
	requireU256(t, "protocol fee", quote.Fees.ProtocolFee, 15_015)
	requireU256(t, "cost", quote.AmountIn, 30_105_106)
	requireU256(t, "max in", quote.Limit, 30_406_157)
	if !quote.IsMaxIn {
		t.Fatal("buy quote must carry a maximum input guard")
	}
}

func TestBaseOutForExactQuoteIn(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})

	quote, err := q.BaseOutForExactQuoteIn(uint256.NewInt(30_000_000), 1)
	if err != nil {
		t.Fatalf("BaseOutForExactQuoteIn error: %v", err)
	}
	requireU256(t, "effective quote", quote.Gross, 29_925_187)
	requireU256(t, "base out", quote.AmountOut, 996)
	requireU256(t, "max in", quote.Limit, 30_300_000)
}

func TestRoundTripIsNotProfitable(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})

	for _, x := range []uint64{1, 2, 7, 1000, 12345, 250_000, 500_000, 999_999, 5_000_000} {
		sell, err := q.QuoteOutForExactBaseIn(uint256.NewInt(x), 0)
		if err != nil {
			t.Fatalf("QuoteOutForExactBaseIn(%d) error: %v", x, err)
		}
		back, err := q.BaseInForExactQuoteOut(sell.Net, 0)
		if err != nil {
			t.Fatalf("BaseInForExactQuoteOut(%s) error: %v", sell.Net, err)
		}
		if back.AmountIn.Cmp(uint256.NewInt(x)) < 0 {
			t.Fatalf("x=%d: buying back %s quote costs only %s base", x, sell.Net, back.AmountIn)
		}
	}
}

func TestCreatorFeeWaiver(t *testing.T) {
	fees := domain.FeeSchedule{LPFeeBps: 20, ProtocolFeeBps: 5, CreatorFeeBps: 5}

	waived := newTestQuoter(t, fees, solana.PublicKey{})
	quote, err := waived.QuoteOutForExactBaseIn(uint256.NewInt(1000), 0)
	if err != nil {
		t.Fatalf("QuoteOutForExactBaseIn error: %v", err)
	}
	requireU256(t, "waived creator fee", quote.Fees.CreatorFee, 0)

	charged := newTestQuoter(t, fees, testCreator)
	quote, err = charged.QuoteOutForExactBaseIn(uint256.NewInt(1000), 0)
	if err != nil {
		t.Fatalf("QuoteOutForExactBaseIn error: %v", err)
	}
	requireU256(t, "creator fee", quote.Fees.CreatorFee, 14_985)
	requireU256(t, "net", quote.Net, 29_880_119)
}

func TestNewQuoterRejectsEmptyPool(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *domain.ConstantProductSnapshot
	}{
		{"nil snapshot", nil},
		{"zero base", &domain.ConstantProductSnapshot{Reserves: domain.PoolReserves{
			BaseReserve: uint256.NewInt(0), QuoteReserve: uint256.NewInt(10),
		}}},
		{"zero quote", &domain.ConstantProductSnapshot{Reserves: domain.PoolReserves{
			BaseReserve: uint256.NewInt(10), QuoteReserve: uint256.NewInt(0),
		}}},
		{"missing reserve", &domain.ConstantProductSnapshot{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuoter(tt.snapshot); !errors.Is(err, domain.ErrEmptyPool) {
				t.Fatalf("err = %v, want ErrEmptyPool", err)
			}
		})
	}
}

func TestNewQuoterRejectsFeeTierAboveMax(t *testing.T) {
	_, err := NewQuoter(&domain.ConstantProductSnapshot{
		Reserves: domain.PoolReserves{BaseReserve: uint256.NewInt(1), QuoteReserve: uint256.NewInt(1)},
		Fees:     domain.FeeSchedule{LPFeeBps: 10_001},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestQuoterFailures(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})
	maxFee := newTestQuoter(t, domain.FeeSchedule{LPFeeBps: 6000, ProtocolFeeBps: 4000}, solana.PublicKey{})
	feeHeavy := newTestQuoter(t, domain.FeeSchedule{LPFeeBps: 10_000, ProtocolFeeBps: 10_000}, solana.PublicKey{})

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"buy entire base reserve", func() error {
			_, err := q.QuoteForExactBaseIn(uint256.NewInt(1_000_000), 1)
			return err
		}, domain.ErrInsufficientLiquidity},
		{"buy above base reserve", func() error {
			_, err := q.QuoteForExactBaseIn(uint256.NewInt(1_000_001), 1)
			return err
		}, domain.ErrInsufficientLiquidity},
		{"quote out above reserve", func() error {
			_, err := q.BaseInForExactQuoteOut(uint256.NewInt(30_000_000_001), 1)
			return err
		}, domain.ErrInsufficientLiquidity},
		{"raw quote drains reserve", func() error {
			_, err := q.BaseInForExactQuoteOut(uint256.NewInt(30_000_000_000), 1)
			return err
		}, domain.ErrInsufficientLiquidity},
		{"total fee at max", func() error {
			_, err := maxFee.BaseInForExactQuoteOut(uint256.NewInt(1000), 1)
			return err
		}, domain.ErrFeeExceedsMax},
		{"fees above gross", func() error {
			_, err := feeHeavy.QuoteOutForExactBaseIn(uint256.NewInt(1000), 1)
			return err
		}, domain.ErrInsufficientOutput},
		{"sell slippage of 100 percent", func() error {
			_, err := q.QuoteOutForExactBaseIn(uint256.NewInt(1000), 100)
			return err
		}, domain.ErrInvalidSlippage},
		{"negative slippage", func() error {
			_, err := q.QuoteForExactBaseIn(uint256.NewInt(1000), -1)
			return err
		}, domain.ErrInvalidSlippage},
		{"nan slippage", func() error {
			_, err := q.BaseOutForExactQuoteIn(uint256.NewInt(1000), math.NaN())
			return err
		}, domain.ErrInvalidSlippage},
		{"missing amount", func() error {
			_, err := q.QuoteOutForExactBaseIn(nil, 1)
			return err
		}, domain.ErrInvalidInput},
		{"unknown mode", func() error {
			_, err := q.Quote(domain.SwapMode(42), uint256.NewInt(1), 1)
			return err
		}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuySlippageOfHundredPercentDoublesLimit(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})
	quote, err := q.BaseOutForExactQuoteIn(uint256.NewInt(1000), 100)
	if err != nil {
		t.Fatalf("BaseOutForExactQuoteIn error: %v", err)
	}
	requireU256(t, "max in", quote.Limit, 2000)
}

func TestQuoteDispatch(t *testing.T) {
	q := newTestQuoter(t, defaultFees(), solana.PublicKey{})
	for _, mode := range []domain.SwapMode{
		domain.SwapModeSellExactBaseIn,
		domain.SwapModeSellExactQuoteOut,
		domain.SwapModeBuyExactBaseOut,
		domain.SwapModeBuyExactQuoteIn,
	} {
		quote, err := q.Quote(mode, uint256.NewInt(1000), 0.5)
		if err != nil {
			t.Fatalf("Quote(%s) error: %v", mode, err)
		}
		if quote.Mode != mode {
			t.Fatalf("Quote(%s) returned mode %s", mode, quote.Mode)
		}
	}
}

func BenchmarkQuoteOutForExactBaseIn(b *testing.B) {
	q, _ := NewQuoter(&domain.ConstantProductSnapshot{
		Reserves: domain.PoolReserves{
			BaseReserve:  uint256.NewInt(1_000_000),
			QuoteReserve: uint256.NewInt(30_000_000_000),
		},
		Fees: defaultFees(),
	})
	amount := uint256.NewInt(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = q.QuoteOutForExactBaseIn(amount, 1)
	}
}
