package http

import (
	"github.com/gin-gonic/gin"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/domain"
	"github.com/hxuan190/curve-engine/internal/http/httputil"
	"github.com/hxuan190/curve-engine/internal/services/quoter"
)

type PriceHandler struct {
	quoteSvc *quoter.Service
}

func NewPriceHandler(quoteSvc *quoter.Service) *PriceHandler {
	return &PriceHandler{quoteSvc: quoteSvc}
}

func (h *PriceHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/bin", h.getBinPrice)
	pub.GET("/tick", h.getTickPrice)
	pub.POST("/account", h.priceAccount)
}

func (h *PriceHandler) Root() string {
	return "/price"
}

type BinPriceRequest struct {
	ActiveID      *int32 `form:"activeId" binding:"required" example:"-12"`
	BinStep       uint16 `form:"binStep" binding:"required" example:"25"`
	BaseDecimals  uint8  `form:"baseDecimals" example:"9"`
	QuoteDecimals uint8  `form:"quoteDecimals" example:"6"`

	// Optional static fee parameters; when set the response carries feePct
	BaseFactor         uint16 `form:"baseFactor" example:"8000"`
	BaseFeePowerFactor uint8  `form:"baseFeePowerFactor" example:"0"`
}

type TickPriceRequest struct {
	// Q64.64 square-root price as a decimal integer
	SqrtPrice string `form:"sqrtPrice" binding:"required" example:"18446744073709551616"`
	DecimalsA uint8  `form:"decimalsA" example:"9"`
	DecimalsB uint8  `form:"decimalsB" example:"6"`

	// Fee rate in hundredths of a basis point
	FeeRate uint16 `form:"feeRate" example:"3000"`
}

type AccountPriceRequest struct {
	// Program that owns the account; selects the decoder
	Owner string `json:"owner" example:"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"`
	// Address of the pool, echoed in the response
	Address string `json:"address,omitempty"`
	// Base64 account data
	Data          string `json:"data"`
	BaseDecimals  uint8  `json:"baseDecimals" example:"9"`
	QuoteDecimals uint8  `json:"quoteDecimals" example:"6"`
}

// PriceResponse is a spot price. Decimal prices are strings to keep precision.
type PriceResponse struct {
	PoolType string `json:"poolType" example:"DLMM"`
	Pool     string `json:"pool,omitempty"`

	// Active bin id or current tick
	Index int32 `json:"index" example:"-12"`

	// Q64.64 price (bin pools) or square-root price (tick pools)
	RawPriceX64 string `json:"rawPriceX64" example:"18446744073709551616"`

	PricePerLamport string `json:"pricePerLamport" example:"1"`
	PricePerToken   string `json:"pricePerToken" example:"1000"`
	InvertedPrice   string `json:"invertedPrice" example:"0.001"`
	FeePct          string `json:"feePct" example:"0.25"`
}

func newPriceResponse(quote *domain.PriceQuote) PriceResponse {
	resp := PriceResponse{
		PoolType:        quote.PoolType.String(),
		Index:           quote.Index,
		RawPriceX64:     quote.RawPriceX64.String(),
		PricePerLamport: quote.PricePerLamport.String(),
		PricePerToken:   quote.PricePerToken.String(),
		InvertedPrice:   quote.InvertedPrice.String(),
		FeePct:          quote.FeePct.String(),
	}
	if !quote.Pool.IsZero() {
		resp.Pool = quote.Pool.String()
	}
	return resp
}

// @Summary Spot price of a bin pool
// @Description Price of the active bin, (1 + binStep/10000)^activeId, per smallest unit and per whole token.
// @Description The inverted price is read from the mirrored bin.
// @Tags price
// @Produce json
// @Param activeId query int true "Active bin id" example(-12)
// @Param binStep query int true "Bin step in basis points" example(25)
// @Param baseDecimals query int false "Base token decimals" example(9)
// @Param quoteDecimals query int false "Quote token decimals" example(6)
// @Param baseFactor query int false "Static base factor" example(8000)
// @Param baseFeePowerFactor query int false "Static base fee power factor" example(0)
// @Success 200 {object} PriceResponse "Spot price"
// @Failure 400 {object} httputil.Response "Invalid parameters"
// @Failure 422 {object} httputil.Response "Bin outside the supported exponent range"
// @Router /api/v1/price/bin [get]
func (h *PriceHandler) getBinPrice(c *gin.Context) {
	var req BinPriceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	quote, err := h.quoteSvc.BinSpotPrice(&domain.BinPoolSnapshot{
		ActiveID:           *req.ActiveID,
		BinStep:            req.BinStep,
		BaseDecimals:       req.BaseDecimals,
		QuoteDecimals:      req.QuoteDecimals,
		BaseFactor:         req.BaseFactor,
		BaseFeePowerFactor: req.BaseFeePowerFactor,
	})
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	httputil.Success(c, newPriceResponse(quote))
}

// @Summary Spot price of a tick pool
// @Description Derive the current tick from a Q64.64 square-root price and convert it to a decimal price.
// @Tags price
// @Produce json
// @Param sqrtPrice query string true "Q64.64 square-root price" example(18446744073709551616)
// @Param decimalsA query int false "Token A decimals" example(9)
// @Param decimalsB query int false "Token B decimals" example(6)
// @Param feeRate query int false "Fee rate in hundredths of a basis point" example(3000)
// @Success 200 {object} PriceResponse "Spot price"
// @Failure 400 {object} httputil.Response "Invalid parameters or sqrt price out of range"
// @Router /api/v1/price/tick [get]
func (h *PriceHandler) getTickPrice(c *gin.Context) {
	var req TickPriceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}
	sqrtPrice, err := uint128.FromString(req.SqrtPrice)
	if err != nil {
		httputil.HttpError(c, common.HTTPErrorBadRequest("invalid sqrtPrice: must be an unsigned 128-bit integer"))
		return
	}

	quote, err := h.quoteSvc.TickSpotPrice(&domain.TickPoolSnapshot{
		SqrtPriceX64: sqrtPrice,
		DecimalsA:    req.DecimalsA,
		DecimalsB:    req.DecimalsB,
		FeeRate:      req.FeeRate,
	})
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	httputil.Success(c, newPriceResponse(quote))
}

// @Summary Spot price of a raw pool account
// @Description Decode a bin or tick pool account, selected by its owner program, and price it.
// @Tags price
// @Accept json
// @Produce json
// @Param request body AccountPriceRequest true "Base64 account data and its owner"
// @Success 200 {object} PriceResponse "Spot price"
// @Failure 400 {object} httputil.Response "Unsupported owner or malformed account"
// @Failure 422 {object} httputil.Response "Pool state cannot be priced"
// @Router /api/v1/price/account [post]
func (h *PriceHandler) priceAccount(c *gin.Context) {
	var req AccountPriceRequest
	if !bindBody(c, &req) {
		return
	}

	owner, err := parsePublicKey("owner", req.Owner)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	address, err := parsePublicKey("address", req.Address)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	data, err := parseAccountData("data", req.Data)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}

	quote, err := h.quoteSvc.SpotPriceFromAccount(owner, address, data, req.BaseDecimals, req.QuoteDecimals)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	httputil.Success(c, newPriceResponse(quote))
}
