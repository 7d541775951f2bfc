package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/http/httputil"
	"github.com/hxuan190/curve-engine/internal/services/quoter"
)

// GridHandler converts prices and ticks to positions on a pool's grid.
type GridHandler struct {
	quoteSvc *quoter.Service
}

func NewGridHandler(quoteSvc *quoter.Service) *GridHandler {
	return &GridHandler{quoteSvc: quoteSvc}
}

func (h *GridHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/bin/from-price", h.getBinFromPrice)
	pub.GET("/tick/grid", h.getTickGrid)
}

func (h *GridHandler) Root() string {
	return ""
}

type BinFromPriceRequest struct {
	// Quote tokens per whole base token
	Price         string `form:"price" binding:"required" example:"1.05"`
	BinStep       uint16 `form:"binStep" binding:"required" example:"100"`
	BaseDecimals  uint8  `form:"baseDecimals" example:"6"`
	QuoteDecimals uint8  `form:"quoteDecimals" example:"6"`
	Rounding      string `form:"rounding" enums:"down,up,exact" example:"down"`
}

type BinLocationResponse struct {
	BinID      int32 `json:"binId" example:"4"`
	ArrayIndex int32 `json:"binArrayIndex" example:"0"`
	ArrayLower int32 `json:"binArrayLower" example:"0"`
	ArrayUpper int32 `json:"binArrayUpper" example:"69"`
	// Price of binId per whole token
	PricePerToken string `json:"pricePerToken" example:"1.04060401"`
}

type TickGridRequest struct {
	Tick        *int32 `form:"tick" binding:"required" example:"-1000"`
	TickSpacing uint16 `form:"tickSpacing" binding:"required" example:"64"`
}

type TickGridResponse struct {
	Tick           int32  `json:"tick" example:"-1000"`
	SqrtPriceX64   string `json:"sqrtPriceX64"`
	Lower          int32  `json:"initializableLower" example:"-1024"`
	Upper          int32  `json:"initializableUpper" example:"-960"`
	ArrayStart     int32  `json:"tickArrayStart" example:"-5632"`
	FullRangeLower int32  `json:"fullRangeLower" example:"-443584"`
	FullRangeUpper int32  `json:"fullRangeUpper" example:"443584"`
}

// @Summary Locate a price on a bin grid
// @Description Find the bin holding a whole-token price, the bin array containing it, and the bin's exact price.
// @Tags grid
// @Produce json
// @Param price query string true "Quote per whole base token" example(1.05)
// @Param binStep query int true "Bin step in basis points" example(100)
// @Param baseDecimals query int false "Base token decimals" example(6)
// @Param quoteDecimals query int false "Quote token decimals" example(6)
// @Param rounding query string false "Rounding between bins" Enums(down, up, exact) default(down)
// @Success 200 {object} BinLocationResponse "Bin location"
// @Failure 400 {object} httputil.Response "Invalid parameters or price off grid in exact mode"
// @Failure 422 {object} httputil.Response "Bin outside the supported exponent range"
// @Router /api/v1/bin/from-price [get]
func (h *GridHandler) getBinFromPrice(c *gin.Context) {
	var req BinFromPriceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httputil.HttpError(c, common.HTTPErrorBadRequest("invalid price: "+err.Error()))
		return
	}

	location, err := h.quoteSvc.LocateBin(price, req.BinStep, req.BaseDecimals, req.QuoteDecimals, quoter.BinRounding(req.Rounding))
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	httputil.Success(c, BinLocationResponse{
		BinID:         location.BinID,
		ArrayIndex:    location.ArrayIndex,
		ArrayLower:    location.ArrayLower,
		ArrayUpper:    location.ArrayUpper,
		PricePerToken: location.PricePerToken.String(),
	})
}

// @Summary Place a tick on a tick grid
// @Description Square-root price of a tick, its nearest initializable ticks, tick array start and the full range for a spacing.
// @Tags grid
// @Produce json
// @Param tick query int true "Tick index" example(-1000)
// @Param tickSpacing query int true "Tick spacing" example(64)
// @Success 200 {object} TickGridResponse "Tick grid"
// @Failure 400 {object} httputil.Response "Invalid parameters or tick out of range"
// @Router /api/v1/tick/grid [get]
func (h *GridHandler) getTickGrid(c *gin.Context) {
	var req TickGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	grid, err := h.quoteSvc.LocateTick(*req.Tick, req.TickSpacing)
	if err != nil {
		httputil.KernelError(c, err)
		return
	}
	httputil.Success(c, TickGridResponse{
		Tick:           grid.Tick,
		SqrtPriceX64:   grid.SqrtPriceX64.String(),
		Lower:          grid.Lower,
		Upper:          grid.Upper,
		ArrayStart:     grid.ArrayStart,
		FullRangeLower: grid.FullRangeLower,
		FullRangeUpper: grid.FullRangeUpper,
	})
}
