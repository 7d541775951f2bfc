// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	// owners of the pool accounts the engine can decode
	DLMMProgramID      = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	WhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	PumpAMMProgramID   = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

	// owners of the vault accounts holding pool reserves
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ID    = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// IsTokenProgram reports whether owner is one of the SPL token programs.
func IsTokenProgram(owner solana.PublicKey) bool {
	return owner.Equals(TokenProgramID) || owner.Equals(Token2022ID)
}
