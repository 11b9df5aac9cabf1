package wavetable

import "math"

// maxSpectrumBins is the number of usable frequency points below Nyquist.
const maxSpectrumBins = Size / 2

// Spectrum returns a reduced-resolution magnitude spectrum of the table,
// normalized so the largest bin is 1. Display only; synthesis never reads
// it. bins is clamped to [1, Size/2]; each output bin takes the maximum
// magnitude over its share of the frequency points.
func (t *Table) Spectrum(bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	if bins > maxSpectrumBins {
		bins = maxSpectrumBins
	}

	buf := make([]complex128, Size)
	for i, v := range t.samples {
		buf[i] = complex(v, 0)
	}
	fft(buf)

	mags := make([]float64, maxSpectrumBins)
	for k := range mags {
		mags[k] = math.Hypot(real(buf[k]), imag(buf[k]))
	}

	out := make([]float64, bins)
	peak := 0.0
	for b := range out {
		lo := b * maxSpectrumBins / bins
		hi := (b + 1) * maxSpectrumBins / bins
		m := 0.0
		for k := lo; k < hi; k++ {
			if mags[k] > m {
				m = mags[k]
			}
		}
		out[b] = m
		if m > peak {
			peak = m
		}
	}
	if peak > 0 {
		inv := 1 / peak
		for b := range out {
			out[b] *= inv
		}
	}
	return out
}

// fft runs an in-place radix-2 transform. len(buf) must be a power of two.
func fft(buf []complex128) {
	n := len(buf)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	for length := 2; length <= n; length <<= 1 {
		ang := -2 * math.Pi / float64(length)
		wl := complex(math.Cos(ang), math.Sin(ang))
		half := length / 2
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for k := start; k < start+half; k++ {
				u := buf[k]
				v := buf[k+half] * w
				buf[k] = u + v
				buf[k+half] = u - v
				w *= wl
			}
		}
	}
}
