package layout

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/hxuan190/curve-engine/internal/domain"
)

const pumpPoolCoinCreatorOffset = discriminatorSize + 1 + 2 + 6*32 + 8

// PumpPoolState is the part of a constant-product pool account present in every version.
type PumpPoolState struct {
	PoolBump              uint8
	Index                 uint16
	Creator               solana.PublicKey
	BaseMint              solana.PublicKey
	QuoteMint             solana.PublicKey
	LpMint                solana.PublicKey
	PoolBaseTokenAccount  solana.PublicKey
	PoolQuoteTokenAccount solana.PublicKey
	LpSupply              uint64
}

type PumpPoolAccount struct {
	PumpPoolState
	// zero for pools created before creator fees
	CoinCreator solana.PublicKey
}

func DecodePumpPool(data []byte) (*PumpPoolAccount, error) {
	var pool PumpPoolAccount
	if err := decodeAnchorAccount(data, PumpPoolDiscriminator, "Pool", &pool.PumpPoolState); err != nil {
		return nil, err
	}
	if len(data) >= pumpPoolCoinCreatorOffset+solana.PublicKeyLength {
		pool.CoinCreator = solana.PublicKeyFromBytes(data[pumpPoolCoinCreatorOffset : pumpPoolCoinCreatorOffset+solana.PublicKeyLength])
	}
	return &pool, nil
}

type GlobalConfigAccount struct {
	Admin                        solana.PublicKey
	LpFeeBasisPoints             uint64
	ProtocolFeeBasisPoints       uint64
	DisableFlags                 uint8
	ProtocolFeeRecipients        [8]solana.PublicKey
	CoinCreatorFeeBasisPoints    uint64
	AdminSetCoinCreatorAuthority solana.PublicKey
}

func DecodeGlobalConfig(data []byte) (*GlobalConfigAccount, error) {
	var config GlobalConfigAccount
	if err := decodeAnchorAccount(data, GlobalConfigDiscriminator, "GlobalConfig", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *GlobalConfigAccount) FeeSchedule() domain.FeeSchedule {
	return domain.FeeSchedule{
		LPFeeBps:       c.LpFeeBasisPoints,
		ProtocolFeeBps: c.ProtocolFeeBasisPoints,
		CreatorFeeBps:  c.CoinCreatorFeeBasisPoints,
	}
}

// Snapshot combines the pool, its fee config and the two vault balances.
func (p *PumpPoolAccount) Snapshot(address solana.PublicKey, config *GlobalConfigAccount, baseAmount, quoteAmount uint64) *domain.ConstantProductSnapshot {
	return &domain.ConstantProductSnapshot{
		Address:   address,
		BaseMint:  p.BaseMint,
		QuoteMint: p.QuoteMint,
		Reserves: domain.PoolReserves{
			BaseReserve:  uint256.NewInt(baseAmount),
			QuoteReserve: uint256.NewInt(quoteAmount),
		},
		Fees:        config.FeeSchedule(),
		CoinCreator: p.CoinCreator,
	}
}
