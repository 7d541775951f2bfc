package layout

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenAccount is the fixed prefix shared by SPL token and token-2022 accounts.
type TokenAccount struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	var account TokenAccount
	if err := bin.NewBinDecoder(data).Decode(&account); err != nil {
		return nil, fmt.Errorf("%w: decode token account: %v", ErrInvalidAccount, err)
	}
	return &account, nil
}
