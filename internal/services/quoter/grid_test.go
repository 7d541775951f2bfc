package quoter

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/curve-engine/internal/curve/dlmm"
	"github.com/hxuan190/curve-engine/internal/domain"
)

func TestLocateBin(t *testing.T) {
	grid, err := dlmm.PriceFromBin(10, 100)
	if err != nil {
		t.Fatalf("PriceFromBin error: %v", err)
	}
	onGrid := dlmm.PriceToDecimal(grid)
	between := onGrid.Mul(decimal.RequireFromString("1.004"))

	tests := []struct {
		name      string
		price     decimal.Decimal
		rounding  BinRounding
		wantBin   int32
		wantIndex int32
		wantErr   error
	}{
		{"on grid down", onGrid, BinRoundingDown, 10, 0, nil},
		{"on grid exact", onGrid, BinRoundingExact, 10, 0, nil},
		{"between down", between, BinRoundingDown, 10, 0, nil},
		{"between up", between, BinRoundingUp, 11, 0, nil},
		{"default rounding", between, "", 10, 0, nil},
		{"below one", decimal.RequireFromString("0.995"), BinRoundingDown, -1, -1, nil},
		{"between exact", between, BinRoundingExact, 0, 0, domain.ErrInvalidInput},
		{"just below grid", onGrid.Mul(decimal.RequireFromString("0.9999999999999")), BinRoundingDown, 9, 0, nil},
		{"just below grid exact", onGrid.Mul(decimal.RequireFromString("0.9999999999999")), BinRoundingExact, 0, 0, domain.ErrInvalidInput},
		{"unknown rounding", onGrid, "nearest", 0, 0, domain.ErrInvalidInput},
		{"zero price", decimal.Zero, BinRoundingDown, 0, 0, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocateBin(tt.price, 100, 6, 6, tt.rounding)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocateBin error: %v", err)
			}
			if got.BinID != tt.wantBin || got.ArrayIndex != tt.wantIndex {
				t.Fatalf("bin %d array %d, want %d / %d", got.BinID, got.ArrayIndex, tt.wantBin, tt.wantIndex)
			}
			if got.ArrayLower > got.BinID || got.ArrayUpper < got.BinID {
				t.Fatalf("bin %d outside array [%d, %d]", got.BinID, got.ArrayLower, got.ArrayUpper)
			}
		})
	}
}

func TestLocateBinSnapsPriceAcrossDecimals(t *testing.T) {
	// 11 quote tokens per base token is 1.1 per smallest unit with 7/6 decimals
	got, err := LocateBin(decimal.NewFromInt(11), 100, 7, 6, BinRoundingDown)
	if err != nil {
		t.Fatalf("LocateBin error: %v", err)
	}
	if got.BinID != 9 {
		t.Fatalf("bin = %d, want 9", got.BinID)
	}
	if got.PricePerToken.GreaterThan(decimal.NewFromInt(11)) || got.PricePerToken.LessThan(decimal.NewFromInt(10)) {
		t.Fatalf("snapped price %s, want within [10, 11]", got.PricePerToken)
	}
	next, err := LocateBin(decimal.NewFromInt(11), 100, 7, 6, BinRoundingUp)
	if err != nil {
		t.Fatalf("LocateBin error: %v", err)
	}
	if next.BinID != got.BinID+1 || !next.PricePerToken.GreaterThan(decimal.NewFromInt(11)) {
		t.Fatalf("up bin %d at %s, want %d above 11", next.BinID, next.PricePerToken, got.BinID+1)
	}
}

func TestLocateTick(t *testing.T) {
	got, err := LocateTick(-1000, 64)
	if err != nil {
		t.Fatalf("LocateTick error: %v", err)
	}
	want := TickGrid{
		Tick:           -1000,
		SqrtPriceX64:   got.SqrtPriceX64,
		Lower:          -1024,
		Upper:          -960,
		ArrayStart:     -5632,
		FullRangeLower: -443584,
		FullRangeUpper: 443584,
	}
	if *got != want {
		t.Fatalf("LocateTick = %+v, want %+v", *got, want)
	}

	if _, err := LocateTick(0, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero spacing err = %v", err)
	}
	if _, err := LocateTick(443637, 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("tick out of range err = %v", err)
	}
}
