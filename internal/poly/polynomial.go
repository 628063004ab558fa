package poly

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"

	apperrors "github.com/agbru/polyfft/internal/errors"
)

// zeroCoeffs backs the zero value of Polynomial. It is never written to.
var zeroCoeffs = []float64{0}

// Polynomial is a dense univariate polynomial with real coefficients.
// Coefficient i holds the coefficient of x^i.
//
// Polynomial has value semantics: constructors copy their input, Coeffs
// returns a copy, and every operation returns a fresh value. Values returned
// by this package are in canonical form: no trailing zero high-order
// coefficient, except for the zero polynomial which is [0]. The zero value
// of Polynomial is the zero polynomial.
type Polynomial struct {
	coeffs []float64
}

// New creates a polynomial from its coefficients in increasing degree order.
// No coefficients yields the zero polynomial.
func New(coeffs ...float64) Polynomial {
	return FromSlice(coeffs)
}

// FromSlice creates a polynomial from a coefficient slice, which is copied.
func FromSlice(coeffs []float64) Polynomial {
	if len(coeffs) == 0 {
		return Zero()
	}
	return canonical(slices.Clone(coeffs))
}

// Zero returns the zero polynomial.
func Zero() Polynomial {
	return Polynomial{coeffs: []float64{0}}
}

// Constant returns the degree-0 polynomial c.
func Constant(c float64) Polynomial {
	return Polynomial{coeffs: []float64{c}}
}

// Monomial returns c·x^n. A negative n is treated as 0.
func Monomial(c float64, n int) Polynomial {
	if c == 0 {
		return Zero()
	}
	n = max(n, 0)
	coeffs := make([]float64, n+1)
	coeffs[n] = c
	return Polynomial{coeffs: coeffs}
}

// canonical trims trailing zero coefficients in place, keeping at least one
// entry, and takes ownership of c.
func canonical(c []float64) Polynomial {
	n := len(c)
	for n > 1 && c[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Zero()
	}
	return Polynomial{coeffs: c[:n]}
}

// truncRaw returns a new slice holding exactly n coefficients: the first n
// of c, zero-padded when c is shorter. The result is not canonicalized.
func truncRaw(c []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, c)
	return out
}

// isZeroRaw reports whether every coefficient of c is zero.
func isZeroRaw(c []float64) bool {
	for _, v := range c {
		if v != 0 {
			return false
		}
	}
	return true
}

func (p Polynomial) c() []float64 {
	if len(p.coeffs) == 0 {
		return zeroCoeffs
	}
	return p.coeffs
}

// Degree returns the degree of the polynomial. The zero polynomial has degree 0.
func (p Polynomial) Degree() int {
	return len(p.c()) - 1
}

// Coeffs returns a copy of the coefficients in increasing degree order.
func (p Polynomial) Coeffs() []float64 {
	return slices.Clone(p.c())
}

// At returns the coefficient of x^i.
//
// Returns:
//   - float64: The coefficient.
//   - error: An OutOfBoundsError if i is outside [0, Degree()].
func (p Polynomial) At(i int) (float64, error) {
	c := p.c()
	if i < 0 || i >= len(c) {
		return 0, apperrors.OutOfBoundsError{Index: i, Len: len(c)}
	}
	return c[i], nil
}

// IsZero reports whether p is the zero polynomial.
func (p Polynomial) IsZero() bool {
	return isZeroRaw(p.c())
}

// LeadingCoeff returns the coefficient of the highest-degree term.
func (p Polynomial) LeadingCoeff() float64 {
	c := p.c()
	return c[len(c)-1]
}

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	return combine(p.c(), q.c(), 1)
}

// Sub returns p - q.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	return combine(p.c(), q.c(), -1)
}

// combine returns a + sign·b term-wise, padding the shorter operand with zeros.
func combine(a, b []float64, sign float64) Polynomial {
	out := make([]float64, max(len(a), len(b)))
	copy(out, a)
	for i, v := range b {
		out[i] += sign * v
	}
	return canonical(out)
}

// Scale returns d·p. Scaling by zero short-circuits to the zero polynomial.
func (p Polynomial) Scale(d float64) Polynomial {
	if d == 0 {
		return Zero()
	}
	c := p.c()
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = d * v
	}
	return canonical(out)
}

// Mul returns p·q computed with the default engine.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	return Default().mustMulPow(p, q, 1, 1)
}

// MulPow returns p^pow1 · q^pow2 computed with the default engine.
func (p Polynomial) MulPow(q Polynomial, pow1, pow2 uint8) Polynomial {
	return Default().mustMulPow(p, q, pow1, pow2)
}

// DivMod divides p by g with the default engine and returns the quotient
// and remainder such that p = q·g + r with deg(r) < deg(g).
func (p Polynomial) DivMod(g Polynomial) (Polynomial, Polynomial, error) {
	return Default().Div(context.Background(), p, g)
}

// Eval evaluates the polynomial at x with Horner's method.
func (p Polynomial) Eval(x float64) float64 {
	c := p.c()
	acc := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		acc = acc*x + c[i]
	}
	return acc
}

// Derivative returns the derivative Σ (i+1)·c[i+1]·x^i. The derivative of a
// constant is the zero polynomial.
func (p Polynomial) Derivative() Polynomial {
	c := p.c()
	if len(c) == 1 {
		return Zero()
	}
	out := make([]float64, len(c)-1)
	for i := range out {
		out[i] = float64(i+1) * c[i+1]
	}
	return canonical(out)
}

// Differentiate replaces p with its derivative in place. It is the only
// mutating operation of the type: holders of the same *Polynomial observe
// the change, while copies of the value taken earlier keep the old
// coefficients.
func (p *Polynomial) Differentiate() {
	*p = p.Derivative()
}

// AntiDerivative returns Σ c[i]/(i+1)·x^(i+1), the antiderivative with a
// zero constant term.
func (p Polynomial) AntiDerivative() Polynomial {
	c := p.c()
	if isZeroRaw(c) {
		return Zero()
	}
	out := make([]float64, len(c)+1)
	for i, v := range c {
		out[i+1] = v / float64(i+1)
	}
	return canonical(out)
}

// Integrate returns the definite integral of p over [s, e].
func (p Polynomial) Integrate(s, e float64) float64 {
	anti := p.AntiDerivative()
	return anti.Eval(e) - anti.Eval(s)
}

// Reverse returns x^deg(p)·p(1/x): the coefficients in reverse order,
// canonicalized. Low-order zero coefficients of p therefore disappear.
func (p Polynomial) Reverse() Polynomial {
	out := slices.Clone(p.c())
	slices.Reverse(out)
	return canonical(out)
}

// Truncate returns p mod x^n, the first n terms of p. A non-positive n
// yields the zero polynomial.
func (p Polynomial) Truncate(n int) Polynomial {
	if n <= 0 {
		return Zero()
	}
	c := p.c()
	return canonical(truncRaw(c, min(n, len(c))))
}

// Equal reports whether p and q have identical coefficients.
func (p Polynomial) Equal(q Polynomial) bool {
	return slices.Equal(p.c(), q.c())
}

// ApproxEqual reports whether every coefficient of p and q differs by at
// most tol.
func (p Polynomial) ApproxEqual(q Polynomial, tol float64) bool {
	a, b := p.c(), q.c()
	for i := range max(len(a), len(b)) {
		var x, y float64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if math.Abs(x-y) > tol {
			return false
		}
	}
	return true
}

// String renders the polynomial in increasing degree order, e.g.
// "1 - 2x + 3x^2". Zero terms are omitted.
func (p Polynomial) String() string {
	c := p.c()
	if isZeroRaw(c) {
		return "0"
	}
	var b strings.Builder
	for i, v := range c {
		if v == 0 {
			continue
		}
		abs := math.Abs(v)
		switch {
		case b.Len() == 0 && v < 0:
			b.WriteString("-")
		case b.Len() > 0 && v < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		if abs != 1 || i == 0 {
			b.WriteString(strconv.FormatFloat(abs, 'g', -1, 64))
		}
		switch {
		case i == 1:
			b.WriteString("x")
		case i > 1:
			b.WriteString("x^")
			b.WriteString(strconv.Itoa(i))
		}
	}
	return b.String()
}
