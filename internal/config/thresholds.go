package config

// Parallel threshold resolution chain (highest priority first):
//   1. Environment variables (POLYFFT_PARALLEL_THRESHOLD, POLYFFT_SEQUENTIAL)
//   2. Explicit value set by the caller on EngineConfig
//   3. Adaptive hardware estimation (this file)

// ApplyAdaptiveThresholds fills in the parallel threshold from hardware
// characteristics when it is still at its zero default. Explicit values,
// including NoParallelism, are preserved.
func ApplyAdaptiveThresholds(cfg EngineConfig) EngineConfig {
	if cfg.ParallelThreshold == 0 {
		cfg.ParallelThreshold = EstimateOptimalParallelThreshold()
	}
	return cfg
}

// EstimateOptimalParallelThreshold provides a heuristic estimate of the
// transform length above which running the two forward transforms of a
// product on separate goroutines pays for the scheduling overhead.
func EstimateOptimalParallelThreshold() int {
	numCPU := DetectHardware().NumCPU

	switch {
	case numCPU == 1:
		return NoParallelism
	case numCPU <= 2:
		return 16384 // Scheduling overhead dominates until transforms are large
	case numCPU <= 4:
		return 4096 // Default
	case numCPU <= 8:
		return 2048
	default:
		return 1024 // Plenty of idle cores
	}
}
