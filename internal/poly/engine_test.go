package poly

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/agbru/polyfft/internal/config"
	apperrors "github.com/agbru/polyfft/internal/errors"
	"github.com/agbru/polyfft/internal/logging/mocks"
	"github.com/agbru/polyfft/internal/metrics"
)

// schoolbook is the O(n·m) reference product.
func schoolbook(p, q Polynomial) Polynomial {
	a, b := p.Coeffs(), q.Coeffs()
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return FromSlice(out)
}

func sequentialEngine(opts ...EngineOption) *Engine {
	return NewEngine(append([]EngineOption{WithParallelThreshold(config.NoParallelism)}, opts...)...)
}

func TestMulPow(t *testing.T) {
	t.Parallel()
	e := sequentialEngine()
	ctx := context.Background()

	tests := []struct {
		name       string
		p, q       Polynomial
		pow1, pow2 uint8
		want       Polynomial
	}{
		{"difference of squares", New(1, 1), New(1, -1), 1, 1, New(1, 0, -1)},
		{"cube", New(1, 1), New(1), 3, 1, New(1, 3, 3, 1)},
		{"fourth power from two squares", New(1, 1), New(1, 1), 2, 2, New(1, 4, 6, 4, 1)},
		{"both exponents zero", New(3, 4), New(5), 0, 0, New(1)},
		{"zero exponent ignores operand", New(1, 2, 3, 4, 5), New(0, 1), 0, 1, New(0, 1)},
		{"zero operand", Zero(), New(1, 1), 1, 1, Zero()},
		{"constants", New(3), New(-2), 1, 1, New(-6)},
		{"square and cube", New(0, 1), New(2), 2, 3, New(0, 0, 8)},
		{"x cubed times x cubed", Monomial(1, 3), Monomial(1, 3), 1, 1, Monomial(1, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.MulPow(ctx, tt.p, tt.q, tt.pow1, tt.pow2)
			if err != nil {
				t.Fatalf("MulPow returned error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("MulPow(%v, %v, %d, %d) = %v, want %v", tt.p, tt.q, tt.pow1, tt.pow2, got.Coeffs(), tt.want.Coeffs())
			}
		})
	}
}

func TestMulNonInteger(t *testing.T) {
	t.Parallel()
	got := New(0.5).Mul(New(0.5, 1))
	if !got.ApproxEqual(New(0.25, 0.5), 1e-12) {
		t.Errorf("0.5·(0.5 + x) = %v", got)
	}
}

func TestMulMatchesSchoolbook(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))
	randPoly := func(n int) Polynomial {
		c := make([]float64, n)
		for i := range c {
			c[i] = float64(rng.IntN(19) - 9)
		}
		c[n-1] = 1
		return FromSlice(c)
	}

	for _, threshold := range []int{config.NoParallelism, 2} {
		e := NewEngine(WithParallelThreshold(threshold))
		for _, n := range []int{1, 7, 64, 300} {
			p, q := randPoly(n), randPoly(n/2+1)
			got, err := e.Mul(context.Background(), p, q)
			if err != nil {
				t.Fatalf("Mul returned error: %v", err)
			}
			if want := schoolbook(p, q); !got.Equal(want) {
				t.Errorf("threshold %d, n=%d: FFT product differs from schoolbook", threshold, n)
			}
		}
	}
}

func TestMulPowCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().MulPow(ctx, New(1, 1), New(1, 1), 1, 1)
	if !apperrors.IsContextError(err) {
		t.Errorf("MulPow with canceled context error = %v, want context error", err)
	}
}

func TestInverse(t *testing.T) {
	t.Parallel()
	e := sequentialEngine()
	ctx := context.Background()

	tests := []struct {
		name  string
		p     Polynomial
		terms int
		want  Polynomial
	}{
		{"geometric series", New(1, -1), 5, New(1, 1, 1, 1, 1)},
		{"alternating series", New(1, 1), 4, New(1, -1, 1, -1)},
		{"constant", New(4), 3, New(0.25)},
		{"single term", New(2, 5, 7), 1, New(0.5)},
		{"ratio two", New(1, -2), 6, New(1, 2, 4, 8, 16, 32)},
		{"non power of two terms", New(1, -1), 3, New(1, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Inverse(ctx, tt.p, tt.terms)
			if err != nil {
				t.Fatalf("Inverse returned error: %v", err)
			}
			if !got.ApproxEqual(tt.want, 1e-9) || got.Degree() >= tt.terms {
				t.Errorf("Inverse(%v, %d) = %v, want %v", tt.p, tt.terms, got.Coeffs(), tt.want.Coeffs())
			}
		})
	}
}

func TestInverseIdentity(t *testing.T) {
	t.Parallel()
	p := New(1, -1, 2, 5)
	for _, terms := range []int{1, 2, 5, 7, 8} {
		inv, err := Inverse(p, terms)
		if err != nil {
			t.Fatalf("Inverse(%d) error: %v", terms, err)
		}
		if got := p.Mul(inv).Truncate(terms); !got.ApproxEqual(New(1), 1e-9) {
			t.Errorf("p·inv mod x^%d = %v, want 1", terms, got.Coeffs())
		}
	}
}

func TestInverseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		p     Polynomial
		terms int
	}{
		{"zero constant term", New(0, 1), 4},
		{"zero polynomial", Zero(), 1},
		{"zero terms", New(1, 1), 0},
		{"negative terms", New(1, 1), -3},
	}
	for _, tt := range tests {
		if _, err := Inverse(tt.p, tt.terms); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("%s: error = %v, want ErrInvalidArgument", tt.name, err)
		}
	}
}

func TestInverseCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine().Inverse(ctx, New(1, 1), 64)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Inverse with canceled context error = %v, want context.Canceled", err)
	}
}

func TestDiv(t *testing.T) {
	t.Parallel()
	e := sequentialEngine()
	ctx := context.Background()

	tests := []struct {
		name  string
		f, g  Polynomial
		wantQ Polynomial
		wantR Polynomial
	}{
		{"cube over x minus one", New(0, 0, 0, 1), New(-1, 1), New(1, 1, 1), New(1)},
		{"exact non-monic", New(1, 3, 2), New(1, 2), New(1, 1), Zero()},
		{"divisor without constant term", New(2, 0, 0, 1), New(0, 2), New(0, 0, 0.5), New(2)},
		{"degree zero divisor", New(4, 2), New(2), New(2, 1), Zero()},
		{"equal degrees", New(5, 3), New(1, 1), New(3), New(2)},
		{"self division", New(1, 2, 1), New(1, 2, 1), New(1), Zero()},
		{"constant by constant", New(6), New(3), New(2), Zero()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q, r, err := e.Div(ctx, tt.f, tt.g)
			if err != nil {
				t.Fatalf("Div returned error: %v", err)
			}
			if !q.ApproxEqual(tt.wantQ, 1e-9) {
				t.Errorf("quotient = %v, want %v", q.Coeffs(), tt.wantQ.Coeffs())
			}
			if !r.ApproxEqual(tt.wantR, 1e-9) {
				t.Errorf("remainder = %v, want %v", r.Coeffs(), tt.wantR.Coeffs())
			}
			if tt.g.Degree() > 0 && r.Degree() >= tt.g.Degree() {
				t.Errorf("deg(r) = %d, want < %d", r.Degree(), tt.g.Degree())
			}
		})
	}
}

func TestDivErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f, g Polynomial
	}{
		{"zero divisor", New(1, 2, 3), Zero()},
		{"divisor degree too high", New(1, 1), New(1, 1, 1)},
		{"zero dividend with linear divisor", Zero(), New(1, 1)},
	}
	for _, tt := range tests {
		if _, _, err := Div(tt.f, tt.g); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Errorf("%s: error = %v, want ErrInvalidArgument", tt.name, err)
		}
	}
}

func TestDivModMethod(t *testing.T) {
	t.Parallel()
	q, r, err := New(0, 0, 0, 1).DivMod(New(-1, 1))
	if err != nil {
		t.Fatalf("DivMod returned error: %v", err)
	}
	if !q.Equal(New(1, 1, 1)) || !r.Equal(New(1)) {
		t.Errorf("DivMod = (%v, %v), want (1 + x + x^2, 1)", q, r)
	}
}

func TestEngineLogsThroughLogger(t *testing.T) {
	t.Parallel()

	t.Run("product logs one debug line", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		logger := mocks.NewMockLogger(ctrl)
		logger.EXPECT().Debug("polynomial product computed", gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

		e := sequentialEngine(WithLogger(logger))
		if _, err := e.Mul(context.Background(), New(1, 1), New(1, 2)); err != nil {
			t.Fatalf("Mul returned error: %v", err)
		}
	})

	t.Run("rejected inverse logs an error", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		logger := mocks.NewMockLogger(ctrl)
		logger.EXPECT().Error("polynomial operation failed", gomock.Any(), gomock.Any()).Times(1)

		e := sequentialEngine(WithLogger(logger))
		if _, err := e.Inverse(context.Background(), New(0, 1), 3); err == nil {
			t.Fatal("expected an error for a zero constant term")
		}
	})
}

func TestEngineRecordsMetrics(t *testing.T) {
	t.Parallel()
	rec := metrics.NewRecorder()
	e := sequentialEngine(WithMetrics(rec), WithTracer(noop.NewTracerProvider().Tracer("test")))
	ctx := context.Background()

	if _, _, err := e.Div(ctx, New(0, 0, 0, 1), New(-1, 1)); err != nil {
		t.Fatalf("Div returned error: %v", err)
	}
	if _, _, err := e.Div(ctx, New(1), Zero()); err == nil {
		t.Fatal("expected an error for a zero divisor")
	}

	families, err := rec.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var ops, failures float64
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "op" || lp.GetValue() != metrics.OpDiv {
					continue
				}
				switch mf.GetName() {
				case "polyfft_operations_total":
					ops = m.GetCounter().GetValue()
				case "polyfft_operation_failures_total":
					failures = m.GetCounter().GetValue()
				}
			}
		}
	}
	if ops != 2 || failures != 1 {
		t.Errorf("div operations = %v, failures = %v; want 2 and 1", ops, failures)
	}
}

func TestNewEngineFromEnv(t *testing.T) {
	t.Run("debug level reaches the writer", func(t *testing.T) {
		t.Setenv("POLYFFT_LOG_LEVEL", "debug")
		t.Setenv("POLYFFT_SEQUENTIAL", "true")
		var buf bytes.Buffer
		e, err := NewEngineFromEnv(&buf)
		if err != nil {
			t.Fatalf("NewEngineFromEnv error: %v", err)
		}
		if e.Config().ParallelThreshold != config.NoParallelism {
			t.Errorf("ParallelThreshold = %d, want %d", e.Config().ParallelThreshold, config.NoParallelism)
		}
		if _, err := e.Mul(context.Background(), New(1, 1), New(1, 1)); err != nil {
			t.Fatalf("Mul error: %v", err)
		}
		if !strings.Contains(buf.String(), "polynomial product computed") {
			t.Errorf("expected debug output, got %q", buf.String())
		}
	})

	t.Run("invalid epsilon is rejected", func(t *testing.T) {
		t.Setenv("POLYFFT_EPSILON", "2")
		_, err := NewEngineFromEnv(&bytes.Buffer{})
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("error = %v, want ConfigError", err)
		}
	})
}
