package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"lukechampine.com/uint128"
)

type PoolType uint8

const (
	PoolTypeDLMM PoolType = iota
	PoolTypeWhirlpool
	PoolTypePumpAMM
)

func (p PoolType) String() string {
	switch p {
	case PoolTypeDLMM:
		return "DLMM"
	case PoolTypeWhirlpool:
		return "Whirlpool"
	case PoolTypePumpAMM:
		return "PumpAMM"
	default:
		return "UNKNOWN"
	}
}

// BasisPointMax is 100% in basis points.
const BasisPointMax = 10_000

// FeeSchedule is the layered fee of a constant-product pool, in basis points.
type FeeSchedule struct {
	LPFeeBps       uint64 `json:"lpFeeBps"`
	ProtocolFeeBps uint64 `json:"protocolFeeBps"`
	CreatorFeeBps  uint64 `json:"creatorFeeBps"`
}

// Validate checks that every tier is within [0, BasisPointMax].
func (f FeeSchedule) Validate() error {
	if f.LPFeeBps > BasisPointMax || f.ProtocolFeeBps > BasisPointMax || f.CreatorFeeBps > BasisPointMax {
		return ErrInvalidInput
	}
	return nil
}

// Effective returns the schedule with the creator tier zeroed when waived.
func (f FeeSchedule) Effective(creatorWaived bool) FeeSchedule {
	if creatorWaived {
		f.CreatorFeeBps = 0
	}
	return f
}

// TotalBps is the sum of all tiers.
func (f FeeSchedule) TotalBps() uint64 {
	return f.LPFeeBps + f.ProtocolFeeBps + f.CreatorFeeBps
}

type PoolReserves struct {
	BaseReserve  *uint256.Int
	QuoteReserve *uint256.Int
}

// IsEmpty reports whether either side is missing or zero.
func (r PoolReserves) IsEmpty() bool {
	return r.BaseReserve == nil || r.QuoteReserve == nil || r.BaseReserve.IsZero() || r.QuoteReserve.IsZero()
}

// ConstantProductSnapshot is a point-in-time view of a fee-layered bonding curve pool.
type ConstantProductSnapshot struct {
	Address     solana.PublicKey
	BaseMint    solana.PublicKey
	QuoteMint   solana.PublicKey
	Reserves    PoolReserves
	Fees        FeeSchedule
	CoinCreator solana.PublicKey
}

// CreatorWaived is true when no coin creator is configured.
func (s *ConstantProductSnapshot) CreatorWaived() bool {
	return s.CoinCreator.IsZero()
}

// BinPoolSnapshot is a point-in-time view of a bin-based pool.
type BinPoolSnapshot struct {
	Address       solana.PublicKey
	TokenXMint    solana.PublicKey
	TokenYMint    solana.PublicKey
	ActiveID      int32
	BinStep       uint16
	BaseDecimals  uint8
	QuoteDecimals uint8

	BaseFactor         uint16
	BaseFeePowerFactor uint8
}

// TickPoolSnapshot is a point-in-time view of a tick-based pool.
type TickPoolSnapshot struct {
	Address          solana.PublicKey
	TokenMintA       solana.PublicKey
	TokenMintB       solana.PublicKey
	TickSpacing      uint16
	FeeRate          uint16
	Liquidity        uint128.Uint128
	SqrtPriceX64     uint128.Uint128
	TickCurrentIndex int32
	DecimalsA        uint8
	DecimalsB        uint8
}
