package domain

import "errors"

// Kernel failure taxonomy. Every curve package wraps one of these so callers
// can branch with errors.Is regardless of which model produced the failure.
var (
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrExponentOutOfRange    = errors.New("exponent out of range")
	ErrUnderflow             = errors.New("underflow")
	ErrDivisionByZero        = errors.New("division by zero")
	ErrEmptyPool             = errors.New("empty pool")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInsufficientOutput    = errors.New("insufficient output")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidSlippage       = errors.New("invalid slippage")
	ErrFeeExceedsMax         = errors.New("fee exceeds max")
)

// ErrorKind returns a stable label for a taxonomy error, used for metrics and
// HTTP error codes. Unknown errors map to "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrArithmeticOverflow):
		return "arithmetic_overflow"
	case errors.Is(err, ErrExponentOutOfRange):
		return "exponent_out_of_range"
	case errors.Is(err, ErrUnderflow):
		return "underflow"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrEmptyPool):
		return "empty_pool"
	case errors.Is(err, ErrInsufficientLiquidity):
		return "insufficient_liquidity"
	case errors.Is(err, ErrInsufficientOutput):
		return "insufficient_output"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidSlippage):
		return "invalid_slippage"
	case errors.Is(err, ErrFeeExceedsMax):
		return "fee_exceeds_max"
	default:
		return "internal"
	}
}
