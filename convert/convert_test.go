package convert_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xraph/carbon/convert"
)

func TestEmissions(t *testing.T) {
	tests := []struct {
		name             string
		activity, factor int64
		want             int64
		wantErr          error
	}{
		{"simple", 12, 3, 36, nil},
		{"zero activity", 0, 99, 0, nil},
		{"zero factor", 99, 0, 0, nil},
		{"zero with max", 0, math.MaxInt64, 0, nil},
		{"identity", math.MaxInt64, 1, math.MaxInt64, nil},
		{"overflow", math.MaxInt64, 2, 0, convert.ErrOverflow},
		{"overflow large", 1 << 32, 1 << 32, 0, convert.ErrOverflow},
		{"negative activity", -1, 2, 0, convert.ErrNegative},
		{"negative factor", 1, -2, 0, convert.ErrNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert.Emissions(tt.activity, tt.factor)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
