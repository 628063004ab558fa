package heap

import (
	"errors"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/polyfft/internal/errors"
)

func drain[K, V any](t *testing.T, h *Heap[K, V]) []V {
	t.Helper()
	var out []V
	for h.Len() > 0 {
		v, err := h.Pop()
		if err != nil {
			t.Fatalf("Pop error with %d entries left: %v", h.Len(), err)
		}
		out = append(out, v)
	}
	return out
}

func TestMaxHeapPopOrder(t *testing.T) {
	t.Parallel()
	h := NewMax[int, int]()
	for _, k := range []int{5, 1, 9, 3} {
		h.Insert(k, k)
	}
	if got, want := drain(t, h), []int{9, 5, 3, 1}; !slices.Equal(got, want) {
		t.Errorf("pop order = %v, want %v", got, want)
	}
}

func TestMinHeapCarriesValues(t *testing.T) {
	t.Parallel()
	h := NewMin[float64, string]()
	h.Insert(2.5, "b")
	h.Insert(-1, "a")
	h.Insert(7, "c")

	key, err := h.TopKey()
	if err != nil || key != -1 {
		t.Errorf("TopKey() = %v, %v; want -1, nil", key, err)
	}
	top, err := h.Top()
	if err != nil || top != "a" {
		t.Errorf("Top() = %q, %v; want \"a\", nil", top, err)
	}
	if h.Len() != 3 {
		t.Errorf("Top should not remove, Len() = %d", h.Len())
	}
	if got, want := drain(t, h), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("pop order = %v, want %v", got, want)
	}
}

func TestNewFrom(t *testing.T) {
	t.Parallel()
	h, err := NewFrom([]int{4, 8, 1, 6}, []string{"four", "eight", "one", "six"}, func(a, b int) bool { return a > b })
	if err != nil {
		t.Fatalf("NewFrom error: %v", err)
	}
	if got, want := drain(t, h), []string{"eight", "six", "four", "one"}; !slices.Equal(got, want) {
		t.Errorf("pop order = %v, want %v", got, want)
	}

	empty, err := NewFrom[int, int](nil, nil, func(a, b int) bool { return a < b })
	if err != nil || empty.Len() != 0 {
		t.Errorf("NewFrom(nil, nil) = len %d, %v", empty.Len(), err)
	}
}

func TestNewFromMismatchedLengths(t *testing.T) {
	t.Parallel()
	_, err := NewFrom([]int{1, 2, 3}, []int{1, 2}, func(a, b int) bool { return a < b })
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestEmptyHeap(t *testing.T) {
	t.Parallel()
	h := NewMin[int, string]()
	if _, err := h.Top(); !errors.Is(err, apperrors.ErrEmptyContainer) {
		t.Errorf("Top() error = %v, want ErrEmptyContainer", err)
	}
	if _, err := h.TopKey(); !errors.Is(err, apperrors.ErrEmptyContainer) {
		t.Errorf("TopKey() error = %v, want ErrEmptyContainer", err)
	}
	if _, err := h.Pop(); !errors.Is(err, apperrors.ErrEmptyContainer) {
		t.Errorf("Pop() error = %v, want ErrEmptyContainer", err)
	}

	h.Insert(1, "x")
	if _, err := h.Pop(); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if _, err := h.Pop(); !errors.Is(err, apperrors.ErrEmptyContainer) {
		t.Errorf("Pop() after draining error = %v, want ErrEmptyContainer", err)
	}
}

func TestChangeKey(t *testing.T) {
	t.Parallel()

	t.Run("more extreme key moves up", func(t *testing.T) {
		t.Parallel()
		h := NewMin[int, string]()
		for i, v := range []string{"a", "b", "c", "d", "e"} {
			h.Insert(10*(i+1), v)
		}
		last := h.Len() - 1
		_, val, err := h.At(last)
		if err != nil {
			t.Fatalf("At(%d) error: %v", last, err)
		}
		if err := h.ChangeKey(last, 0); err != nil {
			t.Fatalf("ChangeKey error: %v", err)
		}
		if top, _ := h.Top(); top != val {
			t.Errorf("Top() = %q, want %q after decreasing its key", top, val)
		}
	})

	t.Run("less extreme key moves down", func(t *testing.T) {
		t.Parallel()
		h := NewMax[int, int]()
		for _, k := range []int{50, 40, 30, 20, 10} {
			h.Insert(k, k)
		}
		if err := h.ChangeKey(0, 15); err != nil {
			t.Fatalf("ChangeKey error: %v", err)
		}
		if got, want := drain(t, h), []int{40, 30, 20, 50, 10}; !slices.Equal(got, want) {
			t.Errorf("pop order = %v, want %v", got, want)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		t.Parallel()
		h := NewMin[int, int]()
		h.Insert(1, 1)
		for _, idx := range []int{-1, 1, 7} {
			if err := h.ChangeKey(idx, 0); !errors.Is(err, apperrors.ErrOutOfBounds) {
				t.Errorf("ChangeKey(%d) error = %v, want ErrOutOfBounds", idx, err)
			}
			if _, _, err := h.At(idx); !errors.Is(err, apperrors.ErrOutOfBounds) {
				t.Errorf("At(%d) error = %v, want ErrOutOfBounds", idx, err)
			}
		}
	})
}

// TestHeap_PropertyBased verifies that popping everything yields the keys in
// sorted order for both orderings, including after random key changes.
func TestHeap_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("min-heap pops ascending", prop.ForAll(
		func(keys []int) bool {
			h := NewMin[int, int]()
			for _, k := range keys {
				h.Insert(k, k)
			}
			got := drain(t, h)
			want := slices.Sorted(slices.Values(keys))
			return slices.Equal(got, want)
		},
		gen.SliceOf(gen.Int()),
	))

	properties.Property("max-heap from lists pops descending", prop.ForAll(
		func(keys []int) bool {
			h, err := NewFrom(keys, keys, func(a, b int) bool { return a > b })
			if err != nil {
				return false
			}
			got := drain(t, h)
			want := slices.Sorted(slices.Values(keys))
			slices.Reverse(want)
			return slices.Equal(got, want)
		},
		gen.SliceOf(gen.Int()),
	))

	properties.Property("order holds after ChangeKey", prop.ForAll(
		func(keys []int, idx int, newKey int) bool {
			if len(keys) == 0 {
				return true
			}
			h := NewMin[int, int]()
			for _, k := range keys {
				h.Insert(k, 0)
			}
			idx %= len(keys)
			if err := h.ChangeKey(idx, newKey); err != nil {
				return false
			}
			var popped []int
			for h.Len() > 0 {
				k, err := h.TopKey()
				if err != nil {
					return false
				}
				popped = append(popped, k)
				if _, err := h.Pop(); err != nil {
					return false
				}
			}
			return slices.IsSorted(popped)
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
		gen.IntRange(0, 1000),
		gen.IntRange(-200, 200),
	))

	properties.TestingRun(t)
}
