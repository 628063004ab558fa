// Pool pre-warming for buffer pre-allocation based on the expected transform size.

package fft

import "sync/atomic"

// ─────────────────────────────────────────────────────────────────────────────
// Pool Pre-warming
// ─────────────────────────────────────────────────────────────────────────────

// PreWarmPools pre-allocates count spectrum and real buffers in the size
// class holding transforms of the given length. One product needs two padded
// inputs and three spectra, so warming a handful of buffers removes most
// allocations from a steady stream of same-sized products.
func PreWarmPools(length, count int) {
	idx := poolIndex(length)
	if idx < 0 || count <= 0 {
		return
	}
	size := 1 << idx
	for i := 0; i < count; i++ {
		spectrumPools[idx].Put(make([]complex128, size))
		realPools[idx].Put(make([]float64, size))
	}
}

// warmCount picks the number of buffers to pre-allocate:
//   - length < 4096: 2 buffers
//   - 4096 ≤ length < 65536: 4 buffers
//   - length ≥ 65536: 6 buffers
func warmCount(length int) int {
	switch {
	case length >= 65536:
		return 6
	case length >= 4096:
		return 4
	default:
		return 2
	}
}

// poolsWarmed tracks whether pools have been pre-warmed.
var poolsWarmed atomic.Bool

// EnsurePoolsWarmed pre-warms the pools exactly once for transforms of the
// given length. Safe to call concurrently; only the first call does work.
func EnsurePoolsWarmed(length int) {
	if length <= 0 {
		return
	}
	if poolsWarmed.CompareAndSwap(false, true) {
		PreWarmPools(length, warmCount(length))
	}
}
