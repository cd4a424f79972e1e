package codec

import "math"

// In-place radix-2 decimation-in-time Cooley-Tukey FFT over two parallel
// real/imaginary buffers of length FFTSize. The forward transform uses the
// e^{+jw} kernel and the inverse the e^{-jw} kernel with 1/n scaling, the
// convention the wire format was defined against.

// bitrev[i] is i with its log2(FFTSize) bits reversed.
var bitrev [FFTSize]int

func init() {
	logN := 0
	for 1<<logN < FFTSize {
		logN++
	}
	for i := 0; i < FFTSize; i++ {
		r := 0
		for b := 0; b < logN; b++ {
			r = r<<1 | i>>b&1
		}
		bitrev[i] = r
	}
}

// fft transforms re/im in place. Both slices must be FFTSize long; any
// other length is a programmer error.
func fft(re, im []float64, invert bool) {
	if len(re) != FFTSize || len(im) != FFTSize {
		panic("codec: fft buffers must be FFTSize long")
	}

	for i, j := range bitrev[:] {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for length := 2; length <= FFTSize; length <<= 1 {
		ang := 2 * math.Pi / float64(length)
		if invert {
			ang = -ang
		}
		// Twiddle advances by complex multiplication; no trig in the
		// inner loop.
		stepRe, stepIm := math.Cos(ang), math.Sin(ang)
		half := length >> 1
		for start := 0; start < FFTSize; start += length {
			wRe, wIm := 1.0, 0.0
			for k := start; k < start+half; k++ {
				uRe, uIm := re[k], im[k]
				vRe := re[k+half]*wRe - im[k+half]*wIm
				vIm := re[k+half]*wIm + im[k+half]*wRe
				re[k], im[k] = uRe+vRe, uIm+vIm
				re[k+half], im[k+half] = uRe-vRe, uIm-vIm
				wRe, wIm = wRe*stepRe-wIm*stepIm, wRe*stepIm+wIm*stepRe
			}
		}
	}

	if invert {
		inv := 1 / float64(FFTSize)
		for i := range re {
			re[i] *= inv
			im[i] *= inv
		}
	}
}
