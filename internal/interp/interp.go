// Package interp provides Lagrange interpolation through a set of point-value
// pairs: the barycentric weights, a generator that evaluates the
// interpolating polynomial without expanding it, and the expansion into
// coefficient form on top of the polynomial engine.
package interp

import (
	"context"
	"math"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/polyfft/internal/errors"
	"github.com/agbru/polyfft/internal/logging"
	"github.com/agbru/polyfft/internal/metrics"
	"github.com/agbru/polyfft/internal/poly"
)

// Point is a point-value pair (x, y).
type Point struct {
	X, Y float64
}

// LagrangeCoefficients returns, for each point i, L_i = y_i · Π_{j≠i} 1/(x_i − x_j).
// The interpolating polynomial is Σ L_i · Π_{j≠i} (x − x_j).
//
// Returns:
//   - []float64: One coefficient per input point, in input order.
//   - error: An InvalidArgumentError if points is empty or two points share
//     an abscissa.
func LagrangeCoefficients(points []Point) ([]float64, error) {
	if err := validate(points); err != nil {
		return nil, err
	}
	coeffs := make([]float64, len(points))
	for i, pi := range points {
		l := pi.Y
		for j, pj := range points {
			if j != i {
				l /= pi.X - pj.X
			}
		}
		coeffs[i] = l
	}
	return coeffs, nil
}

func validate(points []Point) error {
	if len(points) == 0 {
		return apperrors.NewInvalidArgument("interp", "no points to interpolate")
	}
	seen := make(map[float64]int, len(points))
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) {
			return apperrors.NewInvalidArgument("interp", "point %d has non-finite abscissa %v", i, p.X)
		}
		if j, ok := seen[p.X]; ok {
			return apperrors.NewInvalidArgument("interp", "points %d and %d share abscissa %v", j, i, p.X)
		}
		seen[p.X] = i
	}
	return nil
}

// Generator evaluates the interpolating polynomial of a fixed point set
// without computing its coefficients. It is immutable and safe for
// concurrent use.
type Generator struct {
	inputs  []float64
	outputs []float64
	weights []float64
}

// NewGenerator precomputes the Lagrange coefficients of points.
func NewGenerator(points []Point) (*Generator, error) {
	weights, err := LagrangeCoefficients(points)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		inputs:  make([]float64, len(points)),
		outputs: make([]float64, len(points)),
		weights: weights,
	}
	for i, p := range points {
		g.inputs[i] = p.X
		g.outputs[i] = p.Y
	}
	return g, nil
}

// Len returns the number of interpolation points.
func (g *Generator) Len() int { return len(g.inputs) }

// Eval evaluates the interpolating polynomial at x. At a sample abscissa the
// sample value is returned exactly; elsewhere the value is
// Π(x − x_i) · Σ L_i/(x − x_i).
func (g *Generator) Eval(x float64) float64 {
	if i := slices.Index(g.inputs, x); i >= 0 {
		return g.outputs[i]
	}
	prod, sum := 1.0, 0.0
	for i, xi := range g.inputs {
		d := x - xi
		prod *= d
		sum += g.weights[i] / d
	}
	return prod * sum
}

// Interpolate returns the interpolating polynomial of points in coefficient
// form. The node polynomial Π(x − x_j) is built as a product tree on the
// engine, and each basis term Π_{j≠i}(x − x_j) is obtained by dividing it
// by (x − x_i).
//
// Returns:
//   - poly.Polynomial: The polynomial of degree < len(points) through every point.
//   - error: An InvalidArgumentError for empty or duplicate abscissas, or a
//     wrapped context error.
func Interpolate(ctx context.Context, e *poly.Engine, points []Point) (res poly.Polynomial, err error) {
	ctx, span := e.Tracer().Start(ctx, "interp.Interpolate",
		trace.WithAttributes(attribute.Int("points", len(points))))
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			e.Logger().Error("interpolation failed", err, logging.Int("points", len(points)))
		}
		span.End()
		e.Metrics().ObserveOperation(metrics.OpInterpolate, time.Since(start), err)
	}()

	weights, err := LagrangeCoefficients(points)
	if err != nil {
		return poly.Polynomial{}, err
	}
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
	}

	nodes, err := nodePolynomial(ctx, e, xs)
	if err != nil {
		return poly.Polynomial{}, err
	}

	res = poly.Zero()
	for i, xi := range xs {
		if cerr := ctx.Err(); cerr != nil {
			return poly.Polynomial{}, apperrors.WrapError(cerr, "interp.Interpolate: stopped at point %d", i)
		}
		basis, _, err := e.Div(ctx, nodes, poly.New(-xi, 1))
		if err != nil {
			return poly.Polynomial{}, err
		}
		res = res.Add(basis.Scale(weights[i]))
	}

	e.Logger().Debug("polynomial interpolated", logging.Int("points", len(points)), logging.Int("degree", res.Degree()))
	return res, nil
}

// nodePolynomial returns Π (x − x_j) over xs, splitting the product in halves.
func nodePolynomial(ctx context.Context, e *poly.Engine, xs []float64) (poly.Polynomial, error) {
	if len(xs) == 1 {
		return poly.New(-xs[0], 1), nil
	}
	mid := len(xs) / 2
	left, err := nodePolynomial(ctx, e, xs[:mid])
	if err != nil {
		return poly.Polynomial{}, err
	}
	right, err := nodePolynomial(ctx, e, xs[mid:])
	if err != nil {
		return poly.Polynomial{}, err
	}
	return e.Mul(ctx, left, right)
}
