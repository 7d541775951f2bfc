package http

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	gohttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/curve-engine/internal/adapters/layout"
	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/config"
	"github.com/hxuan190/curve-engine/internal/services/quoter"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.QuoterConfig{DefaultSlippageBps: 50, MaxSlippageBps: 5000, RateLimit: 1000, RateBurst: 1000}
	svc := &HTTPService{}
	svc.setup(quoter.NewService(conf), conf)
	return svc.router()
}

func serve(t *testing.T, r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = sonic.Marshal(body); err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder, wantStatus int) envelope[T] {
	t.Helper()
	if w.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body %s", w.Code, wantStatus, w.Body.String())
	}
	var resp envelope[T]
	if err := sonic.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return resp
}

func slippage(v float64) *float64 {
	return &v
}

func constantProductRequest(mode, amount string, pct *float64) ConstantProductQuoteRequest {
	return ConstantProductQuoteRequest{
		SwapRequest:    SwapRequest{SwapMode: mode, Amount: amount, SlippagePct: pct},
		BaseReserve:    "1000000",
		QuoteReserve:   "30000000000",
		LPFeeBps:       20,
		ProtocolFeeBps: 5,
		CreatorFeeBps:  5,
	}
}

func TestQuoteConstantProduct(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name      string
		req       ConstantProductQuoteRequest
		wantIn    string
		wantOut   string
		wantLimit string
		wantKind  string
		wantBps   uint16
	}{
		{"sell exact base in", constantProductRequest("SellExactBaseIn", "1000", slippage(1)), "1000", "29895104", "29596152", "minOut", 9},
		{"buy exact base out", constantProductRequest("BuyExactBaseOut", "1000", slippage(1)), "30105106", "1000", "30406157", "maxIn", 10},
		{"buy exact quote in", constantProductRequest("BuyExactQuoteIn", "30000000", slippage(1)), "30000000", "996", "30300000", "maxIn", 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decode[SwapQuoteResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/quote/constant-product", tt.req), gohttp.StatusOK)
			got := resp.Data
			if !resp.Success || got.PoolType != "PumpAMM" || got.SwapMode != tt.req.SwapMode {
				t.Fatalf("unexpected response %+v", resp)
			}
			if got.AmountIn != tt.wantIn || got.AmountOut != tt.wantOut {
				t.Fatalf("in/out = %s/%s, want %s/%s", got.AmountIn, got.AmountOut, tt.wantIn, tt.wantOut)
			}
			if got.Limit != tt.wantLimit || got.LimitKind != tt.wantKind {
				t.Fatalf("limit = %s %s, want %s %s", got.Limit, got.LimitKind, tt.wantLimit, tt.wantKind)
			}
			if got.Fees.CreatorFee != "0" {
				t.Fatalf("creator fee = %s, want waived", got.Fees.CreatorFee)
			}
			if got.PriceImpactBps != tt.wantBps || got.PriceImpactSeverity != "none" {
				t.Fatalf("price impact = %d bps %s, want %d none", got.PriceImpactBps, got.PriceImpactSeverity, tt.wantBps)
			}
		})
	}
}

func TestQuoteConstantProductDefaultSlippage(t *testing.T) {
	r := newTestRouter(t)

	resp := decode[SwapQuoteResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/quote/constant-product",
		constantProductRequest("SellExactBaseIn", "1000", nil)), gohttp.StatusOK)
	if resp.Data.SlippagePct != 0.5 {
		t.Fatalf("slippagePct = %v, want default 0.5", resp.Data.SlippagePct)
	}
}

func TestQuoteConstantProductErrors(t *testing.T) {
	r := newTestRouter(t)

	empty := constantProductRequest("SellExactBaseIn", "1000", nil)
	empty.BaseReserve = "0"
	drain := constantProductRequest("BuyExactBaseOut", "1000000", nil)
	badAmount := constantProductRequest("SellExactBaseIn", "-5", nil)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"empty pool", empty, gohttp.StatusUnprocessableEntity, "EMPTY_POOL"},
		{"drains reserve", drain, gohttp.StatusUnprocessableEntity, "INSUFFICIENT_LIQUIDITY"},
		{"slippage above max", constantProductRequest("SellExactBaseIn", "1000", slippage(75)), gohttp.StatusBadRequest, "INVALID_SLIPPAGE"},
		{"unknown mode", constantProductRequest("ExactIn", "1000", nil), gohttp.StatusBadRequest, "BAD_REQUEST"},
		{"negative amount", badAmount, gohttp.StatusBadRequest, "BAD_REQUEST"},
		{"malformed body", "not an object", gohttp.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decode[SwapQuoteResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/quote/constant-product", tt.body), tt.wantStatus)
			if resp.Success || resp.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q (%s)", resp.Code, tt.wantCode, resp.Error)
			}
		})
	}
}

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestQuoteConstantProductAccounts(t *testing.T) {
	r := newTestRouter(t)

	baseMint := common.TokenProgramID
	quoteMint := common.Token2022ID

	pool := make([]byte, 211)
	copy(pool, layout.PumpPoolDiscriminator[:])
	copy(pool[43:], baseMint[:])
	copy(pool[75:], quoteMint[:])

	globalConfig := make([]byte, 353)
	copy(globalConfig, layout.GlobalConfigDiscriminator[:])
	binary.LittleEndian.PutUint64(globalConfig[40:], 20)
	binary.LittleEndian.PutUint64(globalConfig[48:], 5)

	vault := func(mint []byte, amount uint64) string {
		data := make([]byte, 165)
		copy(data, mint)
		binary.LittleEndian.PutUint64(data[64:], amount)
		return b64(data)
	}

	req := ConstantProductAccountsQuoteRequest{
		SwapRequest:  SwapRequest{SwapMode: "SellExactBaseIn", Amount: "1000", SlippagePct: slippage(1)},
		Pool:         b64(pool),
		GlobalConfig: b64(globalConfig),
		BaseVault:    VaultAccountRequest{Owner: common.TokenProgramID.String(), Data: vault(baseMint[:], 1_000_000)},
		QuoteVault:   VaultAccountRequest{Owner: common.TokenProgramID.String(), Data: vault(quoteMint[:], 30_000_000_000)},
	}
	resp := decode[SwapQuoteResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/quote/constant-product/accounts", req), gohttp.StatusOK)
	if resp.Data.NetAmount != "29895104" || resp.Data.Limit != "29596152" {
		t.Fatalf("net %s limit %s, want 29895104 / 29596152", resp.Data.NetAmount, resp.Data.Limit)
	}

	req.Pool = "%%%"
	resp = decode[SwapQuoteResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/quote/constant-product/accounts", req), gohttp.StatusBadRequest)
	if resp.Code != "BAD_REQUEST" {
		t.Fatalf("code = %q, want BAD_REQUEST", resp.Code)
	}

	req.Pool = b64(globalConfig)
	resp = decode[SwapQuoteResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/quote/constant-product/accounts", req), gohttp.StatusBadRequest)
	if resp.Code != "INVALID_INPUT" {
		t.Fatalf("code = %q, want INVALID_INPUT", resp.Code)
	}
}

func TestBinPrice(t *testing.T) {
	r := newTestRouter(t)

	resp := decode[PriceResponse](t, serve(t, r, gohttp.MethodGet,
		"/api/v1/price/bin?activeId=0&binStep=25&baseDecimals=9&quoteDecimals=6&baseFactor=8000&baseFeePowerFactor=1", nil), gohttp.StatusOK)
	got := resp.Data
	if got.PoolType != "DLMM" || got.Index != 0 || got.RawPriceX64 != "18446744073709551616" {
		t.Fatalf("unexpected response %+v", got)
	}
	if got.PricePerToken != "1000" || got.InvertedPrice != "0.001" || got.FeePct != "2" {
		t.Fatalf("prices %s / %s fee %s, want 1000 / 0.001 fee 2", got.PricePerToken, got.InvertedPrice, got.FeePct)
	}

	resp = decode[PriceResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/price/bin?activeId=19&binStep=10", nil), gohttp.StatusUnprocessableEntity)
	if resp.Code != "EXPONENT_OUT_OF_RANGE" {
		t.Fatalf("code = %q, want EXPONENT_OUT_OF_RANGE", resp.Code)
	}

	decode[PriceResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/price/bin?binStep=10", nil), gohttp.StatusBadRequest)
}

func TestTickPrice(t *testing.T) {
	r := newTestRouter(t)

	resp := decode[PriceResponse](t, serve(t, r, gohttp.MethodGet,
		"/api/v1/price/tick?sqrtPrice=18446744073709551616&decimalsA=9&decimalsB=6&feeRate=3000", nil), gohttp.StatusOK)
	got := resp.Data
	if got.PoolType != "Whirlpool" || got.Index != 0 || got.PricePerToken != "1000" || got.FeePct != "0.3" {
		t.Fatalf("unexpected response %+v", got)
	}

	resp = decode[PriceResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/price/tick?sqrtPrice=1", nil), gohttp.StatusBadRequest)
	if resp.Code != "INVALID_INPUT" {
		t.Fatalf("code = %q, want INVALID_INPUT", resp.Code)
	}
	decode[PriceResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/price/tick?sqrtPrice=abc", nil), gohttp.StatusBadRequest)
}

func TestPriceAccount(t *testing.T) {
	r := newTestRouter(t)

	data := make([]byte, 261)
	copy(data, layout.WhirlpoolDiscriminator[:])
	binary.LittleEndian.PutUint16(data[41:], 64)
	binary.LittleEndian.PutUint64(data[73:], 1) // sqrt price hi word: 2^64

	req := AccountPriceRequest{Owner: common.WhirlpoolProgramID.String(), Data: b64(data), BaseDecimals: 6, QuoteDecimals: 6}
	resp := decode[PriceResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/price/account", req), gohttp.StatusOK)
	if resp.Data.PoolType != "Whirlpool" || resp.Data.PricePerToken != "1" {
		t.Fatalf("unexpected response %+v", resp.Data)
	}

	req.Owner = common.PumpAMMProgramID.String()
	resp = decode[PriceResponse](t, serve(t, r, gohttp.MethodPost, "/api/v1/price/account", req), gohttp.StatusBadRequest)
	if resp.Code != "INVALID_INPUT" {
		t.Fatalf("code = %q, want INVALID_INPUT", resp.Code)
	}
}

func TestGridEndpoints(t *testing.T) {
	r := newTestRouter(t)

	tick := decode[TickGridResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/tick/grid?tick=-1000&tickSpacing=64", nil), gohttp.StatusOK)
	if tick.Data.Lower != -1024 || tick.Data.Upper != -960 || tick.Data.ArrayStart != -5632 {
		t.Fatalf("unexpected tick grid %+v", tick.Data)
	}

	bin := decode[BinLocationResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/bin/from-price?price=1.1&binStep=100&rounding=up", nil), gohttp.StatusOK)
	if bin.Data.BinID != 10 || bin.Data.ArrayIndex != 0 || bin.Data.ArrayUpper != 69 {
		t.Fatalf("unexpected bin location %+v", bin.Data)
	}

	decode[BinLocationResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/bin/from-price?price=1.1&binStep=100&rounding=exact", nil), gohttp.StatusBadRequest)
	decode[BinLocationResponse](t, serve(t, r, gohttp.MethodGet, "/api/v1/bin/from-price?price=abc&binStep=100", nil), gohttp.StatusBadRequest)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := serve(t, r, gohttp.MethodGet, "/health", nil)
	if w.Code != gohttp.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
