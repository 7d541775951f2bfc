package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/domain"
	"github.com/hxuan190/curve-engine/internal/http/httputil"
	"github.com/hxuan190/curve-engine/internal/services/quoter"
)

type QuoteHandler struct {
	quoteSvc *quoter.Service
}

func NewQuoteHandler(quoteSvc *quoter.Service) *QuoteHandler {
	return &QuoteHandler{quoteSvc: quoteSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/constant-product", h.quoteConstantProduct)
	pub.POST("/constant-product/accounts", h.quoteConstantProductAccounts)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// SwapRequest is the part of every quote request that describes the swap.
type SwapRequest struct {
	// One of SellExactBaseIn, SellExactQuoteOut, BuyExactBaseOut, BuyExactQuoteIn
	SwapMode string `json:"swapMode" enums:"SellExactBaseIn,SellExactQuoteOut,BuyExactBaseOut,BuyExactQuoteIn" example:"SellExactBaseIn"`

	// Exact side of the swap in smallest token units
	Amount string `json:"amount" example:"1000000"`

	// Slippage tolerance in percent. Omit for the server default.
	SlippagePct *float64 `json:"slippagePct,omitempty" example:"0.5"`
}

// ConstantProductQuoteRequest quotes against reserves and fees supplied by the caller.
type ConstantProductQuoteRequest struct {
	SwapRequest

	BaseReserve  string `json:"baseReserve" example:"1000000000000"`
	QuoteReserve string `json:"quoteReserve" example:"30000000000"`

	LPFeeBps       uint64 `json:"lpFeeBps" example:"20"`
	ProtocolFeeBps uint64 `json:"protocolFeeBps" example:"5"`
	CreatorFeeBps  uint64 `json:"creatorFeeBps" example:"5"`

	// Coin creator of the pool; empty waives the creator fee
	CoinCreator string `json:"coinCreator,omitempty" example:""`
}

// VaultAccountRequest is a base64 token account and its owning program.
type VaultAccountRequest struct {
	Owner string `json:"owner" example:"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"`
	Data  string `json:"data"`
}

// ConstantProductAccountsQuoteRequest quotes against raw pool accounts.
type ConstantProductAccountsQuoteRequest struct {
	SwapRequest

	PoolAddress  string              `json:"poolAddress,omitempty"`
	Pool         string              `json:"pool"`
	GlobalConfig string              `json:"globalConfig"`
	BaseVault    VaultAccountRequest `json:"baseVault"`
	QuoteVault   VaultAccountRequest `json:"quoteVault"`
}

type FeeBreakdownResponse struct {
	LPFee       string `json:"lpFee" example:"59940"`
	ProtocolFee string `json:"protocolFee" example:"14985"`
	CreatorFee  string `json:"creatorFee" example:"0"`
	Total       string `json:"total" example:"74925"`
}

// SwapQuoteResponse is a constant-product quote in smallest token units.
type SwapQuoteResponse struct {
	PoolType string `json:"poolType" example:"PumpAMM"`
	SwapMode string `json:"swapMode" example:"SellExactBaseIn"`

	AmountIn  string `json:"amountIn" example:"1000"`
	AmountOut string `json:"amountOut" example:"29895104"`

	// Curve amount before fees
	GrossAmount string `json:"grossAmount" example:"29970029"`
	// Amount that changes hands on the priced side after fees
	NetAmount string `json:"netAmount" example:"29895104"`

	Fees FeeBreakdownResponse `json:"fees"`

	// Maximum input when limitKind is maxIn, minimum output when minOut
	Limit     string `json:"limit" example:"29596152"`
	LimitKind string `json:"limitKind" enums:"maxIn,minOut" example:"minOut"`

	SlippagePct float64 `json:"slippagePct" example:"1"`

	// Distance of the curve execution price from the spot price, fees excluded
	PriceImpactBps      uint16 `json:"priceImpactBps" example:"9"`
	PriceImpactPercent  string `json:"priceImpactPercent" example:"0.09%"`
	PriceImpactSeverity string `json:"priceImpactSeverity" enums:"none,low,moderate,high,extreme" example:"none"`
	PriceImpactWarning  string `json:"priceImpactWarning,omitempty" example:""`
}

func amountString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

func newSwapQuoteResponse(quote *domain.SwapQuote, reserves domain.PoolReserves, slippagePct float64) SwapQuoteResponse {
	limitKind := "minOut"
	if quote.IsMaxIn {
		limitKind = "maxIn"
	}
	impact := quoter.PriceImpactBps(reserves, quote)
	return SwapQuoteResponse{
		PoolType:    quote.PoolType.String(),
		SwapMode:    quote.Mode.String(),
		AmountIn:    amountString(quote.AmountIn),
		AmountOut:   amountString(quote.AmountOut),
		GrossAmount: amountString(quote.Gross),
		NetAmount:   amountString(quote.Net),
		Fees: FeeBreakdownResponse{
			LPFee:       amountString(quote.Fees.LPFee),
			ProtocolFee: amountString(quote.Fees.ProtocolFee),
			CreatorFee:  amountString(quote.Fees.CreatorFee),
			Total:       amountString(quote.Fees.Total()),
		},
		Limit:       amountString(quote.Limit),
		LimitKind:   limitKind,
		SlippagePct: slippagePct,

		PriceImpactBps:      impact,
		PriceImpactPercent:  fmt.Sprintf("%.2f%%", float64(impact)/100),
		PriceImpactSeverity: string(quoter.GetPriceImpactSeverity(impact)),
		PriceImpactWarning:  quoter.GetPriceImpactWarning(impact),
	}
}

type parsedSwap struct {
	mode        domain.SwapMode
	amount      *uint256.Int
	slippagePct float64
}

func (h *QuoteHandler) parseSwap(req *SwapRequest) (*parsedSwap, error) {
	mode, ok := domain.ParseSwapMode(req.SwapMode)
	if !ok {
		return nil, common.HTTPErrorBadRequest("invalid swapMode: must be SellExactBaseIn, SellExactQuoteOut, BuyExactBaseOut or BuyExactQuoteIn")
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	slippagePct, err := h.quoteSvc.ResolveSlippage(req.SlippagePct)
	if err != nil {
		return nil, err
	}
	return &parsedSwap{mode: mode, amount: amount, slippagePct: slippagePct}, nil
}

func (h *QuoteHandler) quote(c *gin.Context, snapshot *domain.ConstantProductSnapshot, swap *parsedSwap) {
	quote, err := h.quoteSvc.QuoteConstantProduct(snapshot, swap.mode, swap.amount, &swap.slippagePct)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	httputil.Success(c, newSwapQuoteResponse(quote, snapshot.Reserves, swap.slippagePct))
}

// @Summary Quote a constant-product swap
// @Description Price one of the four swap modes against caller-supplied reserves and a layered fee schedule.
// @Description Each fee tier is floored individually. The limit is the slippage-adjusted bound the swap
// @Description instruction should carry: a maximum input for buys, a minimum output for sells.
// @Tags quote
// @Accept json
// @Produce json
// @Param request body ConstantProductQuoteRequest true "Pool state and swap"
// @Success 200 {object} SwapQuoteResponse "Quote"
// @Failure 400 {object} httputil.Response "Malformed request or slippage out of range"
// @Failure 422 {object} httputil.Response "Pool cannot fill the swap (empty pool, insufficient liquidity, fee above max)"
// @Router /api/v1/quote/constant-product [post]
func (h *QuoteHandler) quoteConstantProduct(c *gin.Context) {
	var req ConstantProductQuoteRequest
	if !bindBody(c, &req) {
		return
	}

	swap, err := h.parseSwap(&req.SwapRequest)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	baseReserve, err := parseAmount("baseReserve", req.BaseReserve)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	quoteReserve, err := parseAmount("quoteReserve", req.QuoteReserve)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	coinCreator, err := parsePublicKey("coinCreator", req.CoinCreator)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}

	h.quote(c, &domain.ConstantProductSnapshot{
		Reserves: domain.PoolReserves{BaseReserve: baseReserve, QuoteReserve: quoteReserve},
		Fees: domain.FeeSchedule{
			LPFeeBps:       req.LPFeeBps,
			ProtocolFeeBps: req.ProtocolFeeBps,
			CreatorFeeBps:  req.CreatorFeeBps,
		},
		CoinCreator: coinCreator,
	}, swap)
}

func parseVault(field string, req VaultAccountRequest) (quoter.VaultAccount, error) {
	owner, err := parsePublicKey(field+".owner", req.Owner)
	if err != nil {
		return quoter.VaultAccount{}, err
	}
	data, err := parseAccountData(field+".data", req.Data)
	if err != nil {
		return quoter.VaultAccount{}, err
	}
	return quoter.VaultAccount{Owner: owner, Data: data}, nil
}

func parseConstantProductAccounts(req *ConstantProductAccountsQuoteRequest) (*quoter.ConstantProductAccounts, error) {
	address, err := parsePublicKey("poolAddress", req.PoolAddress)
	if err != nil {
		return nil, err
	}
	pool, err := parseAccountData("pool", req.Pool)
	if err != nil {
		return nil, err
	}
	globalConfig, err := parseAccountData("globalConfig", req.GlobalConfig)
	if err != nil {
		return nil, err
	}
	baseVault, err := parseVault("baseVault", req.BaseVault)
	if err != nil {
		return nil, err
	}
	quoteVault, err := parseVault("quoteVault", req.QuoteVault)
	if err != nil {
		return nil, err
	}
	return &quoter.ConstantProductAccounts{
		Address:      address,
		Pool:         pool,
		GlobalConfig: globalConfig,
		BaseVault:    baseVault,
		QuoteVault:   quoteVault,
	}, nil
}

// @Summary Quote a constant-product swap from raw accounts
// @Description Decode the pool, its global fee config and both vault token accounts (base64), then quote.
// @Description Pools without a coin creator waive the creator fee tier.
// @Tags quote
// @Accept json
// @Produce json
// @Param request body ConstantProductAccountsQuoteRequest true "Raw accounts and swap"
// @Success 200 {object} SwapQuoteResponse "Quote"
// @Failure 400 {object} httputil.Response "Malformed request or account data"
// @Failure 422 {object} httputil.Response "Pool cannot fill the swap"
// @Router /api/v1/quote/constant-product/accounts [post]
func (h *QuoteHandler) quoteConstantProductAccounts(c *gin.Context) {
	var req ConstantProductAccountsQuoteRequest
	if !bindBody(c, &req) {
		return
	}

	swap, err := h.parseSwap(&req.SwapRequest)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	accounts, err := parseConstantProductAccounts(&req)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	snapshot, err := h.quoteSvc.ConstantProductSnapshot(accounts)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}

	h.quote(c, snapshot, swap)
}
