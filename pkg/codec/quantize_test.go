package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantize_Extremes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		x     float64
		scale float64
		bits  int
		want  uint32
	}{
		"positive_peak":    {x: 1, scale: 1, bits: 8, want: 255},
		"negative_peak":    {x: -1, scale: 1, bits: 8, want: 0},
		"clipped_above":    {x: 5, scale: 1, bits: 8, want: 255},
		"clipped_below":    {x: -5, scale: 1, bits: 8, want: 0},
		"zero_rounds_up":   {x: 0, scale: 1, bits: 8, want: 128}, // 127.5 rounds away from zero
		"one_bit_positive": {x: 0.3, scale: 1, bits: 1, want: 1},
		"one_bit_negative": {x: -0.3, scale: 1, bits: 1, want: 0},
		"sixteen_bit_peak": {x: 2.5, scale: 2.5, bits: 16, want: 65535},
		"scaled_midpoint":  {x: 0, scale: 0.001, bits: 4, want: 8},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, quantize(tt.x, tt.scale, tt.bits))
		})
	}
}

func TestDequantize_Endpoints(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, dequantize(255, 1, 8), 1e-12)
	assert.InDelta(t, -1.0, dequantize(0, 1, 8), 1e-12)
	assert.InDelta(t, 0.25, dequantize(65535, 0.25, 16), 1e-12)
}

func TestQuantize_RoundTripError(t *testing.T) {
	t.Parallel()

	// Reconstruction error is bounded by one lattice step.
	const scale = 0.8
	for _, bits := range []int{4, 8, 12, 16} {
		step := 2 * scale / float64(uint32(1)<<uint(bits)-1)
		for _, x := range []float64{-0.8, -0.31, -1e-6, 0, 1e-6, 0.123, 0.777, 0.8} {
			got := dequantize(quantize(x, scale, bits), scale, bits)
			assert.InDelta(t, x, got, step/2+1e-12, "bits=%d x=%v", bits, x)
		}
	}
}

func TestQuantize_OneBitDegenerates(t *testing.T) {
	t.Parallel()

	// b=1 leaves only the two lattice endpoints -scale and +scale.
	assert.InDelta(t, 1.0, dequantize(quantize(0.4, 1, 1), 1, 1), 1e-12)
	assert.InDelta(t, -1.0, dequantize(quantize(-0.4, 1, 1), 1, 1), 1e-12)
}
