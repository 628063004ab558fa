// Package fft provides the complex transform primitives behind polynomial
// multiplication: an iterative radix-2 FFT and its inverse, the bit-reversal
// permutation, power-of-two rounding, epsilon snapping of round-trip noise,
// and pooled buffers for transform inputs and outputs.
package fft
