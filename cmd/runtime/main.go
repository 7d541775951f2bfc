package main

import (
	"github.com/hxuan190/curve-engine/internal/common"
	"github.com/hxuan190/curve-engine/internal/config"
	"github.com/hxuan190/curve-engine/internal/http"
	"github.com/hxuan190/curve-engine/internal/services/quoter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"
)

// @title Curve Engine API
// @version 1.0
// @description Stateless pricing and quoting for bin, tick and constant-product AMM pools on Solana.
// @description
// @description ## - Curves
// @description | Curve | Program ID | Model |
// @description |-------|-----------|-------|
// @description | **Meteora DLMM** | `LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo` | Bin price (1 + binStep/10000)^id |
// @description | **Orca Whirlpool** | `whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc` | Tick price 1.0001^tick, Q64.64 sqrt price |
// @description | **Pump AMM** | `pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA` | Constant product with layered fees |
// @description
// @description ## - Usage Tips
// @description - Amounts and reserves are integers in smallest token units, sent as strings
// @description - Slippage is a percentage; the server default is 0.5%
// @description - Raw accounts are base64 encoded account data
// @description - Rate Limit: 10 requests/second (burst: 20) unless configured otherwise
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Constant-product swap quotes with fee breakdown and slippage limits
// @tag.name price
// @tag.description Spot prices of bin and tick pools
// @tag.name grid
// @tag.description Bin and tick grid conversions

func main() {
	// GOGC, GOMAXPROCS, GOMEMLIMIT
	common.InitRuntime()

	// load env; a missing .env is fine when the environment is set directly
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env loaded")
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.QuoterConfig{},
	)

	// di container
	dic, err := container.New(
		// config
		conf,

		// services
		&quoter.Service{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	// Run() waits for SIGINT/SIGTERM
	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	// Run() doesn't call Stop(), we must do it manually
	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
