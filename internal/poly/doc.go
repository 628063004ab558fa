// Package poly implements dense real-coefficient polynomials with
// FFT-accelerated arithmetic.
//
// Polynomial is an immutable value type. Cheap operations (addition,
// scaling, evaluation, calculus) are methods on the value. The
// transform-based operations live on Engine:
//
//   - MulPow computes p^a · q^b with one pair of forward transforms.
//   - Inverse computes a truncated power series inverse by Newton–Hensel
//     lifting.
//   - Div divides with remainder by reversing coefficients and multiplying
//     by a series inverse.
//
// Package-level functions and the Mul, MulPow and DivMod methods use a shared
// default engine. Build a dedicated Engine to attach a logger, a metrics
// recorder, a tracer, or an environment-resolved configuration.
package poly
