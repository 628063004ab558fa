package fft

import (
	"math"
	"math/bits"

	apperrors "github.com/agbru/polyfft/internal/errors"
)

// Epsilon is the fixed tolerance used by RoundError. It hides the noise of a
// forward/inverse transform round trip on integer-valued data; it is not a
// general numerical-stability guarantee.
const Epsilon = 1e-6

// Pow2Round returns the smallest power of two greater than or equal to n.
// Pow2Round(0) is 0 and Pow2Round(1) is 1. Values above 1<<31 overflow to 0.
func Pow2Round(n uint32) uint32 {
	if n < 2 {
		return n
	}
	return 1 << bits.Len32(n-1)
}

// BitReverse reverses the low s bits of v (s <= 32). Bits above s are
// discarded. BitReverse(v, 0) is 0.
func BitReverse(v uint32, s uint) uint32 {
	if s == 0 {
		return 0
	}
	return bits.Reverse32(v) >> (32 - s)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FFT computes the forward discrete Fourier transform of a real sequence with
// the iterative radix-2 Cooley–Tukey algorithm: a bit-reversal permutation
// followed by log2(N) butterfly stages using the roots exp(-2πi/m).
//
// The input length must be a power of two; FFT does not pad. The input is not
// modified. The returned spectrum comes from the package buffer pool and may
// be handed back with ReleaseSpectrum once the caller is done with it.
//
// Parameters:
//   - a: The real-valued input sequence.
//
// Returns:
//   - []complex128: The spectrum, same length as a.
//   - error: An InvalidArgumentError if len(a) is not a power of two.
func FFT(a []float64) ([]complex128, error) {
	n := len(a)
	if !IsPowerOfTwo(n) {
		return nil, apperrors.NewInvalidArgument("fft.FFT", "length %d is not a power of two", n)
	}
	logN := uint(bits.TrailingZeros(uint(n)))
	out := acquireSpectrumUnsafe(n)
	for k, v := range a {
		out[BitReverse(uint32(k), logN)] = complex(v, 0)
	}
	butterflies(out, -1)
	return out, nil
}

// InverseFFT computes the inverse discrete Fourier transform: the same
// butterfly network as FFT with the conjugate roots exp(+2πi/m), followed by
// a scaling of every output by 1/N.
//
// InverseFFT(FFT(a)) reproduces a up to floating-point error.
//
// Parameters:
//   - a: The spectrum. Its length must be a power of two. It is not modified.
//
// Returns:
//   - []complex128: The time-domain sequence, same length as a.
//   - error: An InvalidArgumentError if len(a) is not a power of two.
func InverseFFT(a []complex128) ([]complex128, error) {
	n := len(a)
	if !IsPowerOfTwo(n) {
		return nil, apperrors.NewInvalidArgument("fft.InverseFFT", "length %d is not a power of two", n)
	}
	logN := uint(bits.TrailingZeros(uint(n)))
	out := acquireSpectrumUnsafe(n)
	for k, v := range a {
		out[BitReverse(uint32(k), logN)] = v
	}
	butterflies(out, 1)

	scale := complex(1/float64(n), 0)
	for i := range out {
		out[i] *= scale
	}
	return out, nil
}

// butterflies runs the in-place radix-2 stages over an already bit-reversed
// buffer. sign selects the direction of the roots of unity.
func butterflies(a []complex128, sign float64) {
	n := len(a)
	for m := 2; m <= n; m <<= 1 {
		half := m >> 1
		theta := sign * 2 * math.Pi / float64(m)
		for j := 0; j < half; j++ {
			// Each twiddle is computed directly; repeated multiplication by
			// the principal root drifts on long transforms.
			s, c := math.Sincos(theta * float64(j))
			w := complex(c, s)
			for k := j; k < n; k += m {
				t := w * a[k+half]
				u := a[k]
				a[k] = u + t
				a[k+half] = u - t
			}
		}
	}
}

// RoundError snaps x to the nearest integer when it lies within Epsilon of
// it, and returns x unchanged otherwise.
func RoundError(x float64) float64 {
	return RoundErrorTol(x, Epsilon)
}

// RoundErrorTol is RoundError with a caller-chosen tolerance. Negative zero
// is normalized to zero. NaN and infinities pass through.
func RoundErrorTol(x, tol float64) float64 {
	r := math.Round(x)
	if math.Abs(x-r) < tol {
		if r == 0 {
			return 0
		}
		return r
	}
	return x
}
