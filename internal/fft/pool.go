// This file provides memory pooling for transform buffers to reduce GC pressure.

package fft

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Size Classes
// ─────────────────────────────────────────────────────────────────────────────

// maxPooledLog is the largest pooled size class: buffers of 1<<22 entries
// (64MB of complex128). Larger requests are allocated directly.
const maxPooledLog = 22

// poolIndex returns the size-class index for a buffer of the given length.
// Size classes are the powers of two 1<<0 .. 1<<maxPooledLog, so the index is
// the bit length of size-1. Returns -1 if the size is too large for pooling.
func poolIndex(size int) int {
	if size <= 1 {
		return 0
	}
	idx := bits.Len(uint(size - 1))
	if idx > maxPooledLog {
		return -1
	}
	return idx
}

// poolIndexLinear is the O(n) reference implementation of poolIndex, kept
// for testing the bitwise version.
func poolIndexLinear(size int) int {
	for i := 0; i <= maxPooledLog; i++ {
		if size <= 1<<i {
			return i
		}
	}
	return -1
}

// ─────────────────────────────────────────────────────────────────────────────
// Spectrum Pools
// ─────────────────────────────────────────────────────────────────────────────

// spectrumPools pools []complex128 buffers by size class.
var spectrumPools [maxPooledLog + 1]sync.Pool

// acquireSpectrumUnsafe returns a complex buffer of exactly size entries
// without clearing it. Use this only when every element is overwritten, as
// the transforms do through the bit-reversal permutation.
func acquireSpectrumUnsafe(size int) []complex128 {
	idx := poolIndex(size)
	if idx < 0 {
		return make([]complex128, size)
	}
	if v := spectrumPools[idx].Get(); v != nil {
		return v.([]complex128)[:size]
	}
	return make([]complex128, size, 1<<idx)
}

// ReleaseSpectrum returns a spectrum produced by FFT or InverseFFT to the
// pool. The caller must not use the slice afterwards. Safe to call with nil
// or with slices that did not come from the pool.
func ReleaseSpectrum(s []complex128) {
	if s == nil {
		return
	}
	c := cap(s)
	idx := poolIndex(c)
	if idx >= 0 && 1<<idx == c {
		spectrumPools[idx].Put(s[:c])
	}
	// Otherwise it was directly allocated - let GC handle it
}

// ─────────────────────────────────────────────────────────────────────────────
// Real Buffer Pools
// ─────────────────────────────────────────────────────────────────────────────

// realPools pools []float64 buffers (zero-padded transform inputs) by size class.
var realPools [maxPooledLog + 1]sync.Pool

// AcquireReal returns a zeroed float64 buffer of exactly size entries.
//
// The returned slice should be released using ReleaseReal, preferably with defer:
//
//	buf := AcquireReal(size)
//	defer ReleaseReal(buf)
func AcquireReal(size int) []float64 {
	idx := poolIndex(size)
	if idx < 0 {
		return make([]float64, size)
	}
	if v := realPools[idx].Get(); v != nil {
		buf := v.([]float64)[:size]
		clear(buf)
		return buf
	}
	return make([]float64, size, 1<<idx)
}

// ReleaseReal returns a buffer obtained from AcquireReal to the pool.
// Safe to call with nil.
func ReleaseReal(buf []float64) {
	if buf == nil {
		return
	}
	c := cap(buf)
	idx := poolIndex(c)
	if idx >= 0 && 1<<idx == c {
		realPools[idx].Put(buf[:c])
	}
}
