package config

import (
	"fmt"

	"github.com/andrew-solarstorm/go-packages/common"
)

type QuoterConfig struct {
	// DefaultSlippageBps applies when a request carries no slippage.
	// Default: 50 (0.5%)
	DefaultSlippageBps int

	// MaxSlippageBps rejects requests above it.
	// Default: 5000 (50%)
	MaxSlippageBps int

	// RateLimit and RateBurst configure the per-IP HTTP limiter.
	RateLimit int
	RateBurst int
}

func (c *QuoterConfig) Key() string {
	return QUOTER_CONFIG_KEY
}

func (c *QuoterConfig) Load() error {
	c.DefaultSlippageBps = common.GetEnvOrDefaultInt("QUOTER_DEFAULT_SLIPPAGE_BPS", 50)
	c.MaxSlippageBps = common.GetEnvOrDefaultInt("QUOTER_MAX_SLIPPAGE_BPS", 5000)
	c.RateLimit = common.GetEnvOrDefaultInt("QUOTER_RATE_LIMIT", 10)
	c.RateBurst = common.GetEnvOrDefaultInt("QUOTER_RATE_BURST", 20)
	return c.Validate()
}

func (c *QuoterConfig) Validate() error {
	if c.DefaultSlippageBps < 0 || c.MaxSlippageBps < c.DefaultSlippageBps {
		return fmt.Errorf("invalid slippage config: default %d bps, max %d bps", c.DefaultSlippageBps, c.MaxSlippageBps)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("invalid rate limit config: %d/s burst %d", c.RateLimit, c.RateBurst)
	}
	return nil
}

// DefaultSlippagePct is DefaultSlippageBps as a percentage.
func (c *QuoterConfig) DefaultSlippagePct() float64 {
	return float64(c.DefaultSlippageBps) / 100
}

// MaxSlippagePct is MaxSlippageBps as a percentage.
func (c *QuoterConfig) MaxSlippagePct() float64 {
	return float64(c.MaxSlippageBps) / 100
}
