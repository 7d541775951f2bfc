package dlmm

import (
	"fmt"
	"math"

	"github.com/hxuan190/curve-engine/internal/domain"
)

// MaxBinPerArray is the number of bins stored in one bin array account.
const MaxBinPerArray = 70

// BinArrayIndex returns the index of the bin array holding binID, flooring toward -inf.
func BinArrayIndex(binID int32) int32 {
	idx := binID / MaxBinPerArray
	if binID < 0 && binID%MaxBinPerArray != 0 {
		idx--
	}
	return idx
}

// BinArrayBounds returns the inclusive [lower, upper] bin ids of the array at index.
func BinArrayBounds(index int32) (int32, int32, error) {
	lower := int64(index) * MaxBinPerArray
	upper := lower + MaxBinPerArray - 1
	if lower < math.MinInt32 || upper > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: bin array index %d", domain.ErrArithmeticOverflow, index)
	}
	return int32(lower), int32(upper), nil
}
