package config

import (
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Hardware summarizes the host characteristics the engine tunes itself for.
type Hardware struct {
	// NumCPU is the number of logical CPUs usable by the process.
	NumCPU int
	// AVX2 reports 256-bit vector support on x86.
	AVX2 bool
	// FMA reports fused multiply-add support on x86.
	FMA bool
	// ASIMD reports Advanced SIMD support on arm64.
	ASIMD bool
}

var detectOnce = sync.OnceValue(func() Hardware {
	return Hardware{
		NumCPU: runtime.NumCPU(),
		AVX2:   cpu.X86.HasAVX2,
		FMA:    cpu.X86.HasFMA,
		ASIMD:  cpu.ARM64.HasASIMD,
	}
})

// DetectHardware returns the host profile. Detection runs once per process.
func DetectHardware() Hardware {
	return detectOnce()
}

// SIMD returns a short description of the vector extensions, or "none".
func (h Hardware) SIMD() string {
	var features []string
	if h.AVX2 {
		features = append(features, "avx2")
	}
	if h.FMA {
		features = append(features, "fma")
	}
	if h.ASIMD {
		features = append(features, "asimd")
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, ",")
}
