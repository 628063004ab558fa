package poly

import (
	"math"

	"github.com/agbru/polyfft/internal/config"
	"github.com/agbru/polyfft/internal/logging"
)

// NewtonStatus reports why Newton's method stopped.
type NewtonStatus int

const (
	// NewtonConverged means two consecutive iterates differed by less than
	// the tolerance.
	NewtonConverged NewtonStatus = iota
	// NewtonMaxIterations means the iteration cap was reached first.
	NewtonMaxIterations
	// NewtonZeroDerivative means the derivative vanished at an iterate, so
	// no further step could be taken.
	NewtonZeroDerivative
	// NewtonDiverged means an iterate became NaN or infinite.
	NewtonDiverged
)

func (s NewtonStatus) String() string {
	switch s {
	case NewtonConverged:
		return "converged"
	case NewtonMaxIterations:
		return "max-iterations"
	case NewtonZeroDerivative:
		return "zero-derivative"
	case NewtonDiverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// NewtonResult is the outcome of a root search.
type NewtonResult struct {
	// Root is the last iterate.
	Root float64
	// Iterations is the number of Newton steps taken.
	Iterations int
	// Status tells how the search ended.
	Status NewtonStatus
}

// Converged reports whether the search stopped on the tolerance criterion.
func (r NewtonResult) Converged() bool {
	return r.Status == NewtonConverged
}

// NewtonsMethod iterates x ← x − p(x)/p'(x) from guess until two consecutive
// iterates differ by less than tolerance or maxIters steps have been taken.
// It never mutates p. The last iterate is always returned; Status tells
// whether it is a converged root.
func (p Polynomial) NewtonsMethod(guess, tolerance float64, maxIters int) NewtonResult {
	deriv := p.Derivative()
	x0 := guess
	for i := range maxIters {
		d := deriv.Eval(x0)
		if d == 0 {
			return NewtonResult{Root: x0, Iterations: i, Status: NewtonZeroDerivative}
		}
		x1 := x0 - p.Eval(x0)/d
		if math.IsNaN(x1) || math.IsInf(x1, 0) {
			return NewtonResult{Root: x1, Iterations: i + 1, Status: NewtonDiverged}
		}
		if math.Abs(x1-x0) < tolerance {
			return NewtonResult{Root: x1, Iterations: i + 1, Status: NewtonConverged}
		}
		x0 = x1
	}
	return NewtonResult{Root: x0, Iterations: max(maxIters, 0), Status: NewtonMaxIterations}
}

// FindRoot runs NewtonsMethod with the default tolerance and iteration cap.
func (p Polynomial) FindRoot(guess float64) NewtonResult {
	return p.NewtonsMethod(guess, config.DefaultNewtonTolerance, config.DefaultNewtonMaxIters)
}

// FindRoot runs Newton's method with the engine's configured tolerance and
// iteration cap, and logs searches that do not converge.
func (e *Engine) FindRoot(p Polynomial, guess float64) NewtonResult {
	res := p.NewtonsMethod(guess, e.cfg.NewtonTolerance, e.cfg.NewtonMaxIters)
	if !res.Converged() {
		e.logger.Info("root search did not converge",
			logging.Float64("guess", guess),
			logging.Float64("last", res.Root),
			logging.String("status", res.Status.String()),
		)
	}
	return res
}
