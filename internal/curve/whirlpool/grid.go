package whirlpool

import (
	"fmt"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// TickArraySize is the number of ticks stored in one tick array account.
const TickArraySize = 88

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// InitializableTickIndex snaps tick to a multiple of tickSpacing, toward
// +inf when roundUp is set and toward -inf otherwise.
func InitializableTickIndex(tick int32, tickSpacing uint16, roundUp bool) (int32, error) {
	if tickSpacing == 0 {
		return 0, fmt.Errorf("%w: tick spacing is zero", domain.ErrInvalidInput)
	}
	spacing := int32(tickSpacing)
	result := floorDiv(tick, spacing) * spacing
	if roundUp && result != tick {
		result += spacing
	}
	return result, nil
}

// TickArrayStartIndex returns the first tick of the array containing tick.
func TickArrayStartIndex(tick int32, tickSpacing uint16) (int32, error) {
	if tickSpacing == 0 {
		return 0, fmt.Errorf("%w: tick spacing is zero", domain.ErrInvalidInput)
	}
	ticksPerArray := int32(tickSpacing) * TickArraySize
	return floorDiv(tick, ticksPerArray) * ticksPerArray, nil
}

// FullRangeTickIndexes returns the widest [lower, upper] initializable range.
func FullRangeTickIndexes(tickSpacing uint16) (int32, int32, error) {
	if tickSpacing == 0 {
		return 0, 0, fmt.Errorf("%w: tick spacing is zero", domain.ErrInvalidInput)
	}
	spacing := int32(tickSpacing)
	return MinTickIndex / spacing * spacing, MaxTickIndex / spacing * spacing, nil
}
