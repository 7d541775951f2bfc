package layout

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/curve/dlmm"
	"github.com/hxuan190/curve-engine/internal/domain"
)

type StaticParameters struct {
	BaseFactor               uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	MinBinID                 int32
	MaxBinID                 int32
	ProtocolShare            uint16
	BaseFeePowerFactor       uint8
	Padding                  [5]uint8
}

type VariableParameters struct {
	VolatilityAccumulator uint32
	VolatilityReference   uint32
	IndexReference        int32
	Padding               [4]uint8
	LastUpdateTimestamp   int64
	Padding1              [8]uint8
}

// LbPairAccount is the leading part of a bin pool account; trailing reward
// and bitmap fields are not needed for pricing.
type LbPairAccount struct {
	Parameters  StaticParameters
	VParameters VariableParameters
	BumpSeed    [1]uint8
	BinStepSeed [2]uint8
	PairType    uint8
	ActiveID    int32
	BinStep     uint16
	Status      uint8
	Padding1    [5]uint8
	TokenXMint  solana.PublicKey
	TokenYMint  solana.PublicKey
	ReserveX    solana.PublicKey
	ReserveY    solana.PublicKey
}

func DecodeLbPair(data []byte) (*LbPairAccount, error) {
	var pair LbPairAccount
	if err := decodeAnchorAccount(data, LbPairDiscriminator, "LbPair", &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// BaseFeeRate is the pool's static fee in 1e9 precision.
func (p *LbPairAccount) BaseFeeRate() (uint128.Uint128, error) {
	return dlmm.BaseFeeRate(p.Parameters.BaseFactor, p.BinStep, p.Parameters.BaseFeePowerFactor)
}

// Snapshot pairs the decoded state with mint decimals, which live in the mint accounts.
func (p *LbPairAccount) Snapshot(address solana.PublicKey, baseDecimals, quoteDecimals uint8) *domain.BinPoolSnapshot {
	return &domain.BinPoolSnapshot{
		Address:       address,
		TokenXMint:    p.TokenXMint,
		TokenYMint:    p.TokenYMint,
		ActiveID:      p.ActiveID,
		BinStep:       p.BinStep,
		BaseDecimals:  baseDecimals,
		QuoteDecimals: quoteDecimals,

		BaseFactor:         p.Parameters.BaseFactor,
		BaseFeePowerFactor: p.Parameters.BaseFeePowerFactor,
	}
}
