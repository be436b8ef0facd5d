package mobilenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundChannels_Examples(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		divisor  int
		min      int
		expected int
	}{
		{"stem at width 1.0", 32 * 1.0, 8, 0, 32},
		{"head at width 1.0", 1280 * 1.0, 8, 0, 1280},
		{"head at width 0.5", 1280 * 0.5, 8, 0, 640},
		{"rounds up to nearest", 44.8, 8, 0, 48},
		{"rounds down to nearest", 33, 8, 0, 32},
		{"half rounds up", 36, 8, 0, 40},
		{"guard fires", 18, 8, 0, 24},
		{"guard fires at small width", 32 * 0.35, 8, 0, 16},
		{"zero floors at divisor", 0, 8, 0, 8},
		{"explicit minimum", 3, 8, 16, 16},
		{"divisor 4", 22, 4, 0, 24},
		{"divisor 1 is identity on integers", 13, 1, 0, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundChannels(tt.raw, tt.divisor, tt.min))
		})
	}
}

// TestRoundChannels_Bounds sweeps raw values: results are positive multiples
// of the divisor and never lose more than 10% of raw.
func TestRoundChannels_Bounds(t *testing.T) {
	for _, divisor := range []int{4, 8, 16} {
		for raw := 0.0; raw < 2048; raw += 0.37 {
			got := RoundChannels(raw, divisor, 0)
			assert.Zero(t, got%divisor, "raw=%g divisor=%d got=%d", raw, divisor, got)
			assert.Positive(t, got)
			assert.GreaterOrEqual(t, float64(got), 0.9*raw, "raw=%g divisor=%d", raw, divisor)
		}
	}
}

func TestRoundChannels_Deterministic(t *testing.T) {
	for _, raw := range []float64{0, 7.5, 11.2, 100, 1791.9} {
		assert.Equal(t, RoundChannels(raw, 8, 0), RoundChannels(raw, 8, 0))
	}
}

func TestMakeDivisible(t *testing.T) {
	assert.Equal(t, RoundChannels(44.8, 8, 0), MakeDivisible(44.8, 8))
	assert.Equal(t, 8, MakeDivisible(1, 8))
}
