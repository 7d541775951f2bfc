package quoter

import (
	"fmt"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/curve-engine/internal/adapters/layout"
	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/config"
	"github.com/hxuan190/curve-engine/internal/curve/pumpamm"
	"github.com/hxuan190/curve-engine/internal/domain"
	"github.com/hxuan190/curve-engine/internal/metrics"
	"github.com/hxuan190/curve-engine/internal/services"
)

const QUOTE_SERVICE = "quote-service"

// Service turns pool snapshots and raw pool accounts into quotes. It holds no
// pool state; every call is computed from its arguments.
type Service struct {
	container.BaseDIInstance
	logger   *services.ServiceLogger
	config   *config.QuoterConfig
	registry *PricerRegistry
}

// NewService builds a service outside the container.
func NewService(cfg *config.QuoterConfig) *Service {
	svc := &Service{config: cfg, registry: NewDefaultPricerRegistry()}
	svc.logger = services.NewServiceLogger(svc)
	return svc
}

func (svc *Service) ID() string {
	return QUOTE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.config = c.GetConfig(config.QUOTER_CONFIG_KEY).(*config.QuoterConfig)
	generalConfig := c.GetConfig(config.GENERAL_CONFIG_KEY).(*config.GeneralConfig)
	svc.logger.SetLevel(generalConfig.Level())
	svc.registry = NewDefaultPricerRegistry()
	return nil
}

func (svc *Service) Start() error {
	svc.logger.Info().
		Float64("default_slippage_pct", svc.config.DefaultSlippagePct()).
		Float64("max_slippage_pct", svc.config.MaxSlippagePct()).
		Msg("quote service started")
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

func (svc *Service) Config() *config.QuoterConfig {
	return svc.config
}

func (svc *Service) observe(curve domain.PoolType, operation string, start time.Time, err error) {
	metrics.QuoteDuration.WithLabelValues(curve.String(), operation).Observe(time.Since(start).Seconds())
	metrics.QuoteRequests.WithLabelValues(curve.String(), operation, decodeStatus(err)).Inc()
	if err == nil {
		return
	}

	kind := domain.ErrorKind(err)
	metrics.KernelErrors.WithLabelValues(curve.String(), kind).Inc()
	logger := svc.logger.Curve(curve.String(), operation)
	if kind == "internal" {
		logger.Warn().Err(err).Msg("quote failed")
		return
	}
	logger.Debug().Err(err).Str("kind", kind).Msg("quote rejected")
}

// ResolveSlippage returns the configured default for a nil request value and
// rejects values above the configured maximum.
func (svc *Service) ResolveSlippage(slippagePct *float64) (float64, error) {
	if slippagePct == nil {
		return svc.config.DefaultSlippagePct(), nil
	}
	pct := *slippagePct
	if math.IsNaN(pct) || pct < 0 || pct > svc.config.MaxSlippagePct() {
		return 0, fmt.Errorf("%w: %v%% outside [0, %v%%]", domain.ErrInvalidSlippage, pct, svc.config.MaxSlippagePct())
	}
	return pct, nil
}

// QuoteConstantProduct runs one of the four constant-product operations.
func (svc *Service) QuoteConstantProduct(snapshot *domain.ConstantProductSnapshot, mode domain.SwapMode, amount *uint256.Int, slippagePct *float64) (quote *domain.SwapQuote, err error) {
	start := time.Now()
	defer func() { svc.observe(domain.PoolTypePumpAMM, mode.String(), start, err) }()

	pct, err := svc.ResolveSlippage(slippagePct)
	if err != nil {
		return nil, err
	}
	q, err := pumpamm.NewQuoter(snapshot)
	if err != nil {
		return nil, err
	}
	return q.Quote(mode, amount, pct)
}

func (svc *Service) BinSpotPrice(snapshot *domain.BinPoolSnapshot) (quote *domain.PriceQuote, err error) {
	start := time.Now()
	defer func() { svc.observe(domain.PoolTypeDLMM, "SpotPrice", start, err) }()
	return BinSpotPrice(snapshot)
}

func (svc *Service) TickSpotPrice(snapshot *domain.TickPoolSnapshot) (quote *domain.PriceQuote, err error) {
	start := time.Now()
	defer func() { svc.observe(domain.PoolTypeWhirlpool, "SpotPrice", start, err) }()
	return TickSpotPrice(snapshot)
}

// SpotPriceFromAccount decodes and prices a pool account owned by a supported program.
func (svc *Service) SpotPriceFromAccount(owner, address solana.PublicKey, data []byte, baseDecimals, quoteDecimals uint8) (*domain.PriceQuote, error) {
	pricer, err := svc.registry.Lookup(owner)
	if err != nil {
		svc.logger.Debug().Str("owner", owner.String()).Msg("unsupported pool owner")
		return nil, err
	}

	start := time.Now()
	quote, err := pricer.SpotPrice(address, data, baseDecimals, quoteDecimals)
	svc.observe(pricer.PoolType(), "SpotPriceFromAccount", start, err)
	return quote, err
}

// VaultAccount is a token account together with the program that owns it.
type VaultAccount struct {
	Owner solana.PublicKey
	Data  []byte
}

// ConstantProductAccounts is the account set needed to quote a constant-product pool.
type ConstantProductAccounts struct {
	Address      solana.PublicKey
	Pool         []byte
	GlobalConfig []byte
	BaseVault    VaultAccount
	QuoteVault   VaultAccount
}

func decodeVault(vault VaultAccount, mint solana.PublicKey, side string) (*layout.TokenAccount, error) {
	if !common.IsTokenProgram(vault.Owner) {
		return nil, fmt.Errorf("%w: %s vault owned by %s", layout.ErrInvalidAccount, side, vault.Owner)
	}
	account, err := layout.DecodeTokenAccount(vault.Data)
	metrics.AccountDecodes.WithLabelValues("token_account", decodeStatus(err)).Inc()
	if err != nil {
		return nil, err
	}
	if !account.Mint.Equals(mint) {
		return nil, fmt.Errorf("%w: %s vault mint %s, pool expects %s", layout.ErrInvalidAccount, side, account.Mint, mint)
	}
	return account, nil
}

// ConstantProductSnapshot assembles a snapshot from raw accounts.
func (svc *Service) ConstantProductSnapshot(accounts *ConstantProductAccounts) (*domain.ConstantProductSnapshot, error) {
	if accounts == nil {
		return nil, fmt.Errorf("%w: missing pool accounts", domain.ErrInvalidInput)
	}

	pool, err := layout.DecodePumpPool(accounts.Pool)
	metrics.AccountDecodes.WithLabelValues("pump_pool", decodeStatus(err)).Inc()
	if err != nil {
		return nil, err
	}
	globalConfig, err := layout.DecodeGlobalConfig(accounts.GlobalConfig)
	metrics.AccountDecodes.WithLabelValues("global_config", decodeStatus(err)).Inc()
	if err != nil {
		return nil, err
	}

	baseVault, err := decodeVault(accounts.BaseVault, pool.BaseMint, "base")
	if err != nil {
		return nil, err
	}
	quoteVault, err := decodeVault(accounts.QuoteVault, pool.QuoteMint, "quote")
	if err != nil {
		return nil, err
	}

	return pool.Snapshot(accounts.Address, globalConfig, baseVault.Amount, quoteVault.Amount), nil
}
