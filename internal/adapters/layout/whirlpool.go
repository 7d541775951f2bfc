package layout

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// WhirlpoolAccount holds the pricing fields of a tick pool account.
type WhirlpoolAccount struct {
	WhirlpoolsConfig solana.PublicKey
	WhirlpoolBump    [1]uint8
	TickSpacing      uint16
	FeeTierIndexSeed [2]uint8
	FeeRate          uint16
	ProtocolFeeRate  uint16
	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128
	TickCurrentIndex int32
	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64
	TokenMintA       solana.PublicKey
	TokenVaultA      solana.PublicKey
	FeeGrowthGlobalA uint128.Uint128
	TokenMintB       solana.PublicKey
	TokenVaultB      solana.PublicKey
	FeeGrowthGlobalB uint128.Uint128
}

func DecodeWhirlpool(data []byte) (*WhirlpoolAccount, error) {
	var pool WhirlpoolAccount
	if err := decodeAnchorAccount(data, WhirlpoolDiscriminator, "Whirlpool", &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

func (w *WhirlpoolAccount) Snapshot(address solana.PublicKey, decimalsA, decimalsB uint8) *domain.TickPoolSnapshot {
	return &domain.TickPoolSnapshot{
		Address:          address,
		TokenMintA:       w.TokenMintA,
		TokenMintB:       w.TokenMintB,
		TickSpacing:      w.TickSpacing,
		FeeRate:          w.FeeRate,
		Liquidity:        w.Liquidity,
		SqrtPriceX64:     w.SqrtPrice,
		TickCurrentIndex: w.TickCurrentIndex,
		DecimalsA:        decimalsA,
		DecimalsB:        decimalsB,
	}
}
