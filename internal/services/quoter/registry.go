package quoter

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/curve-engine/internal/adapters/layout"
	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/domain"
	"github.com/hxuan190/curve-engine/internal/metrics"
)

// SpotPricer prices a raw pool account owned by a program it supports.
type SpotPricer interface {
	SupportsOwner(owner solana.PublicKey) bool
	PoolType() domain.PoolType
	SpotPrice(address solana.PublicKey, data []byte, baseDecimals, quoteDecimals uint8) (*domain.PriceQuote, error)
}

type PricerRegistry struct {
	pricers []SpotPricer
}

func NewPricerRegistry() *PricerRegistry {
	return &PricerRegistry{pricers: make([]SpotPricer, 0)}
}

func NewDefaultPricerRegistry() *PricerRegistry {
	r := NewPricerRegistry()
	r.RegisterPricer(&binPricer{})
	r.RegisterPricer(&tickPricer{})
	return r
}

func (r *PricerRegistry) RegisterPricer(pricer SpotPricer) {
	r.pricers = append(r.pricers, pricer)
}

// Lookup returns the pricer for owner.
func (r *PricerRegistry) Lookup(owner solana.PublicKey) (SpotPricer, error) {
	for _, pricer := range r.pricers {
		if pricer.SupportsOwner(owner) {
			return pricer, nil
		}
	}
	return nil, fmt.Errorf("%w: no price model for program %s", domain.ErrInvalidInput, owner)
}

func decodeStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type binPricer struct{}

func (p *binPricer) SupportsOwner(owner solana.PublicKey) bool {
	return owner.Equals(common.DLMMProgramID)
}

func (p *binPricer) PoolType() domain.PoolType {
	return domain.PoolTypeDLMM
}

func (p *binPricer) SpotPrice(address solana.PublicKey, data []byte, baseDecimals, quoteDecimals uint8) (*domain.PriceQuote, error) {
	pair, err := layout.DecodeLbPair(data)
	metrics.AccountDecodes.WithLabelValues("lb_pair", decodeStatus(err)).Inc()
	if err != nil {
		return nil, err
	}
	return BinSpotPrice(pair.Snapshot(address, baseDecimals, quoteDecimals))
}

type tickPricer struct{}

func (p *tickPricer) SupportsOwner(owner solana.PublicKey) bool {
	return owner.Equals(common.WhirlpoolProgramID)
}

func (p *tickPricer) PoolType() domain.PoolType {
	return domain.PoolTypeWhirlpool
}

func (p *tickPricer) SpotPrice(address solana.PublicKey, data []byte, baseDecimals, quoteDecimals uint8) (*domain.PriceQuote, error) {
	pool, err := layout.DecodeWhirlpool(data)
	metrics.AccountDecodes.WithLabelValues("whirlpool", decodeStatus(err)).Inc()
	if err != nil {
		return nil, err
	}
	return TickSpotPrice(pool.Snapshot(address, baseDecimals, quoteDecimals))
}
