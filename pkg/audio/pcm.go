// Package audio provides PCM sample-format conversion and level metering
// helpers shared by the codec transport and tooling.
package audio

import "math"

// PCMS16LEToFloat32 converts raw signed 16-bit little-endian PCM bytes to
// float32 samples in [-1, 1). Trailing odd bytes are ignored.
func PCMS16LEToFloat32(b []byte) []float32 {
	out := make([]float32, len(b)/2)
	for i := range out {
		s := int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Float32ToPCMS16LE converts float32 samples to raw s16le PCM bytes,
// rounding and clamping to the int16 range.
func Float32ToPCMS16LE(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		s := math.Round(float64(v) * 32768.0)
		if s > 32767 {
			s = 32767
		} else if s < -32768 {
			s = -32768
		}
		u := uint16(int16(s))
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out
}
