package poly

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/polyfft/internal/config"
	apperrors "github.com/agbru/polyfft/internal/errors"
	"github.com/agbru/polyfft/internal/fft"
	"github.com/agbru/polyfft/internal/logging"
	"github.com/agbru/polyfft/internal/metrics"
)

const tracerName = "github.com/agbru/polyfft/internal/poly"

// one is the coefficient slice of the constant polynomial 1. Read-only.
var one = []float64{1}

// Engine performs the transform-based polynomial operations: powered
// multiplication, power series inversion and division. An Engine is safe for
// concurrent use; it holds only immutable settings and collaborators.
type Engine struct {
	cfg        config.EngineConfig
	logger     logging.Logger
	metrics    *metrics.Recorder
	tracer     trace.Tracer
	warmLength int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConfig replaces the engine configuration. The parallel threshold is
// taken as given: zero or negative values disable concurrent transforms.
func WithConfig(cfg config.EngineConfig) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg
		e.warmLength = cfg.PoolWarmLength
	}
}

// WithLogger sets the logger used for debug traces and rejected operations.
func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics attaches a Prometheus recorder.
func WithMetrics(r *metrics.Recorder) EngineOption {
	return func(e *Engine) { e.metrics = r }
}

// WithTracer overrides the OpenTelemetry tracer. By default the engine uses
// the global tracer provider, which is a no-op unless one is installed.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithParallelThreshold sets the transform length at or above which the two
// forward transforms of a product run concurrently.
func WithParallelThreshold(n int) EngineOption {
	return func(e *Engine) { e.cfg.ParallelThreshold = n }
}

// NewEngine builds an engine from the default configuration with the
// hardware-estimated parallel threshold, then applies opts.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:    config.ApplyAdaptiveThresholds(config.Default()),
		logger: logging.NewNopLogger(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.warmLength > 0 {
		fft.EnsurePoolsWarmed(e.warmLength)
	}
	return e
}

// NewEngineFromEnv builds an engine from the environment-resolved
// configuration (see config.Load) with a zerolog logger writing to w at the
// configured level. Extra options are applied last.
//
// Returns:
//   - *Engine: The configured engine.
//   - error: A ConfigError if the environment holds invalid values.
func NewEngineFromEnv(w io.Writer, opts ...EngineOption) (*Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := cfg.ZerologLevel()
	if err != nil {
		return nil, err
	}
	zl := zerolog.New(w).Level(level).With().Timestamp().Str("component", "poly").Logger()
	base := []EngineOption{WithConfig(cfg), WithLogger(logging.NewZerologAdapter(zl))}
	e := NewEngine(append(base, opts...)...)

	hw := config.DetectHardware()
	e.logger.Info("polynomial engine configured",
		logging.Int("cpus", hw.NumCPU),
		logging.String("simd", hw.SIMD()),
		logging.Int("parallel_threshold", e.cfg.ParallelThreshold),
		logging.Float64("epsilon", e.cfg.Epsilon),
	)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// Logger returns the engine logger.
func (e *Engine) Logger() logging.Logger { return e.logger }

// Metrics returns the attached recorder, which may be nil.
func (e *Engine) Metrics() *metrics.Recorder { return e.metrics }

// Tracer returns the engine tracer.
func (e *Engine) Tracer() trace.Tracer { return e.tracer }

var defaultEngine = sync.OnceValue(func() *Engine { return NewEngine() })

// Default returns the process-wide engine used by the convenience functions
// and methods of this package.
func Default() *Engine {
	return defaultEngine()
}

// MulPow returns p^pow1 · q^pow2 with the default engine.
func MulPow(p, q Polynomial, pow1, pow2 uint8) Polynomial {
	return Default().mustMulPow(p, q, pow1, pow2)
}

// Inverse returns the first t terms of the power series 1/p with the default
// engine.
func Inverse(p Polynomial, t int) (Polynomial, error) {
	return Default().Inverse(context.Background(), p, t)
}

// Div divides f by g with the default engine.
func Div(f, g Polynomial) (q, r Polynomial, err error) {
	return Default().Div(context.Background(), f, g)
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// finish closes an operation: span status, metrics and a log line on failure.
func (e *Engine) finish(span trace.Span, op string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Error("polynomial operation failed", err, logging.String("op", op))
	}
	span.End()
	e.metrics.ObserveOperation(op, time.Since(start), err)
}

// Mul returns p·q.
func (e *Engine) Mul(ctx context.Context, p, q Polynomial) (Polynomial, error) {
	return e.MulPow(ctx, p, q, 1, 1)
}

// MulPow returns p^pow1 · q^pow2 through a single pair of forward transforms,
// pointwise powering, and one inverse transform. Each output coefficient is
// snapped to the nearest integer when within the configured epsilon of it,
// and the result is canonical. A zero exponent makes its factor 1.
//
// Returns:
//   - Polynomial: The product.
//   - error: A wrapped context error if ctx is already done.
func (e *Engine) MulPow(ctx context.Context, p, q Polynomial, pow1, pow2 uint8) (res Polynomial, err error) {
	_, span := e.startSpan(ctx, "poly.MulPow",
		attribute.Int("p.degree", p.Degree()),
		attribute.Int("q.degree", q.Degree()),
		attribute.Int("pow1", int(pow1)),
		attribute.Int("pow2", int(pow2)),
	)
	start := time.Now()
	defer func() { e.finish(span, metrics.OpMulPow, start, err) }()

	if cerr := ctx.Err(); cerr != nil {
		return Polynomial{}, apperrors.WrapError(cerr, "poly.MulPow")
	}
	return e.mulPow(p, q, pow1, pow2)
}

func (e *Engine) mustMulPow(p, q Polynomial, pow1, pow2 uint8) Polynomial {
	res, err := e.MulPow(context.Background(), p, q, pow1, pow2)
	if err != nil {
		// Transform lengths are always powers of two, so this cannot happen.
		panic(fmt.Sprintf("poly: multiplication failed: %v", err))
	}
	return res
}

func (e *Engine) mulPow(p, q Polynomial, pow1, pow2 uint8) (Polynomial, error) {
	pc, qc := p.c(), q.c()
	if pow1 == 0 {
		pc = one
	}
	if pow2 == 0 {
		qc = one
	}
	if isZeroRaw(pc) || isZeroRaw(qc) {
		return Zero(), nil
	}

	numCoeffs := int(pow1)*(len(pc)-1) + int(pow2)*(len(qc)-1) + 1
	n := int(fft.Pow2Round(uint32(numCoeffs)))
	e.metrics.ObserveTransform(n)

	var pHat, qHat []complex128
	forward := func(src []float64, dst *[]complex128) func() error {
		return func() error {
			buf := fft.AcquireReal(n)
			defer fft.ReleaseReal(buf)
			copy(buf, src)
			spectrum, err := fft.FFT(buf)
			if err != nil {
				return err
			}
			*dst = spectrum
			return nil
		}
	}

	parallel := e.cfg.ParallelThreshold > 0 && n >= e.cfg.ParallelThreshold
	if parallel {
		var g errgroup.Group
		g.Go(forward(pc, &pHat))
		g.Go(forward(qc, &qHat))
		if err := g.Wait(); err != nil {
			return Polynomial{}, err
		}
	} else {
		if err := forward(pc, &pHat)(); err != nil {
			return Polynomial{}, err
		}
		if err := forward(qc, &qHat)(); err != nil {
			return Polynomial{}, err
		}
	}

	for k := range pHat {
		pHat[k] = cpow(pHat[k], pow1) * cpow(qHat[k], pow2)
	}
	fft.ReleaseSpectrum(qHat)

	out, err := fft.InverseFFT(pHat)
	fft.ReleaseSpectrum(pHat)
	if err != nil {
		return Polynomial{}, err
	}

	res := make([]float64, numCoeffs)
	for i := range res {
		res[i] = fft.RoundErrorTol(real(out[i]), e.cfg.Epsilon)
	}
	fft.ReleaseSpectrum(out)

	e.logger.Debug("polynomial product computed",
		logging.Int("length", n),
		logging.Int("degree", numCoeffs-1),
		logging.Bool("parallel", parallel),
	)
	return canonical(res), nil
}

// cpow raises z to a small non-negative integer power by repeated squaring.
// cmplx.Pow goes through logarithms and loses exactness on real inputs.
func cpow(z complex128, k uint8) complex128 {
	r := complex(1, 0)
	for k > 0 {
		if k&1 == 1 {
			r *= z
		}
		z *= z
		k >>= 1
	}
	return r
}

// Inverse returns the first t terms of the formal power series 1/p, computed
// by Newton–Hensel lifting: starting from 1/p0, each round doubles the number
// of correct terms with inv ← 2·inv − p·inv² (mod x^m). The context is
// checked between rounds.
//
// Returns:
//   - Polynomial: inv with deg(inv) < t and (p·inv) mod x^t == 1, canonical.
//   - error: An InvalidArgumentError if p0 is zero or t is not positive, or a
//     wrapped context error.
func (e *Engine) Inverse(ctx context.Context, p Polynomial, t int) (inv Polynomial, err error) {
	ctx, span := e.startSpan(ctx, "poly.Inverse",
		attribute.Int("degree", p.Degree()),
		attribute.Int("terms", t),
	)
	start := time.Now()
	defer func() { e.finish(span, metrics.OpInverse, start, err) }()
	return e.inverse(ctx, p, t)
}

func (e *Engine) inverse(ctx context.Context, p Polynomial, t int) (Polynomial, error) {
	pc := p.c()
	if pc[0] == 0 {
		return Polynomial{}, apperrors.NewInvalidArgument("poly.Inverse", "constant term is zero, the series has no inverse")
	}
	if t <= 0 {
		return Polynomial{}, apperrors.NewInvalidArgument("poly.Inverse", "term count must be positive, got %d", t)
	}

	inv := []float64{1 / pc[0]}
	for m := 1; m < t; {
		if err := ctx.Err(); err != nil {
			return Polynomial{}, apperrors.WrapError(err, "poly.Inverse: stopped at %d terms", m)
		}
		m <<= 1
		pm := Polynomial{coeffs: truncRaw(pc, min(m, len(pc)))}
		prod, err := e.mulPow(pm, Polynomial{coeffs: inv}, 1, 2)
		if err != nil {
			return Polynomial{}, err
		}
		pr := prod.c()
		next := make([]float64, m)
		for i := range next {
			var a, b float64
			if i < len(inv) {
				a = inv[i]
			}
			if i < len(pr) {
				b = pr[i]
			}
			next[i] = 2*a - b
		}
		inv = next
	}

	e.logger.Debug("power series inverted", logging.Int("terms", t), logging.Int("degree", p.Degree()))
	return canonical(truncRaw(inv, t)), nil
}

// Div divides f by g and returns the quotient and remainder satisfying
// f = q·g + r with deg(r) < deg(g). The quotient is the reversal of
// rev(f)·rev(g)^-1 mod x^(deg f − deg g + 1), and the remainder is
// f − q·g restricted to its low deg(g) coefficients. A degree-0 divisor
// yields f scaled by 1/g0 and a zero remainder.
//
// Returns:
//   - Polynomial: The quotient.
//   - Polynomial: The remainder.
//   - error: An InvalidArgumentError if g is zero or deg(f) < deg(g), or a
//     wrapped context error.
func (e *Engine) Div(ctx context.Context, f, g Polynomial) (q, r Polynomial, err error) {
	ctx, span := e.startSpan(ctx, "poly.Div",
		attribute.Int("dividend.degree", f.Degree()),
		attribute.Int("divisor.degree", g.Degree()),
	)
	start := time.Now()
	defer func() { e.finish(span, metrics.OpDiv, start, err) }()

	if g.IsZero() {
		return Polynomial{}, Polynomial{}, apperrors.NewInvalidArgument("poly.Div", "division by the zero polynomial")
	}
	df, dg := f.Degree(), g.Degree()
	if df < dg {
		return Polynomial{}, Polynomial{}, apperrors.NewInvalidArgument("poly.Div",
			"dividend degree %d is lower than divisor degree %d", df, dg)
	}

	n := df - dg + 1
	invRevG, err := e.inverse(ctx, g.Reverse(), n)
	if err != nil {
		return Polynomial{}, Polynomial{}, err
	}
	prod, err := e.mulPow(f.Reverse(), invRevG, 1, 1)
	if err != nil {
		return Polynomial{}, Polynomial{}, err
	}
	revQ := truncRaw(prod.c(), n)
	slices.Reverse(revQ)
	q = canonical(revQ)

	qg, err := e.mulPow(q, g, 1, 1)
	if err != nil {
		return Polynomial{}, Polynomial{}, err
	}
	if dg == 0 {
		r = Zero()
	} else {
		r = canonical(truncRaw(f.Sub(qg).c(), dg))
	}

	e.logger.Debug("polynomial division computed",
		logging.Int("quotient_degree", q.Degree()),
		logging.Int("remainder_degree", r.Degree()),
	)
	return q, r, nil
}
