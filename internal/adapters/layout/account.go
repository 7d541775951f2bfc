// Package layout decodes raw on-chain account data into the pool snapshots
// consumed by the curve packages.
package layout

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/hxuan190/curve-engine/internal/domain"
)

const discriminatorSize = 8

var ErrInvalidAccount = fmt.Errorf("%w: invalid account data", domain.ErrInvalidInput)

var (
	LbPairDiscriminator       = [discriminatorSize]byte{33, 11, 49, 98, 181, 101, 177, 13}
	WhirlpoolDiscriminator    = [discriminatorSize]byte{63, 149, 209, 12, 225, 128, 99, 9}
	PumpPoolDiscriminator     = [discriminatorSize]byte{241, 154, 109, 4, 17, 177, 109, 188}
	GlobalConfigDiscriminator = [discriminatorSize]byte{149, 8, 156, 202, 160, 252, 176, 217}
)

// decodeAnchorAccount checks the 8 byte discriminator and decodes the rest into v.
func decodeAnchorAccount(data []byte, discriminator [discriminatorSize]byte, name string, v interface{}) error {
	if len(data) < discriminatorSize {
		return fmt.Errorf("%w: %s account is %d bytes", ErrInvalidAccount, name, len(data))
	}
	if !bytes.Equal(data[:discriminatorSize], discriminator[:]) {
		return fmt.Errorf("%w: not a %s account", ErrInvalidAccount, name)
	}
	if err := bin.NewBinDecoder(data[discriminatorSize:]).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidAccount, name, err)
	}
	return nil
}
