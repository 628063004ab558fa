// Package heap provides a generic binary heap of key-value entries with a
// caller-supplied ordering, including in-place key updates by slot index.
//
// A Heap is not safe for concurrent use.
package heap

import (
	"cmp"
	"container/heap"

	apperrors "github.com/agbru/polyfft/internal/errors"
)

// Less reports whether key a must sit above key b. For a min-heap this is
// a < b; for a max-heap, a > b. It must be a strict weak ordering.
type Less[K any] func(a, b K) bool

type entry[K, V any] struct {
	key K
	val V
}

// entries adapts the slot slice to container/heap.
type entries[K, V any] struct {
	items []entry[K, V]
	less  Less[K]
}

func (e *entries[K, V]) Len() int           { return len(e.items) }
func (e *entries[K, V]) Less(i, j int) bool { return e.less(e.items[i].key, e.items[j].key) }
func (e *entries[K, V]) Swap(i, j int)      { e.items[i], e.items[j] = e.items[j], e.items[i] }
func (e *entries[K, V]) Push(x any)         { e.items = append(e.items, x.(entry[K, V])) }

func (e *entries[K, V]) Pop() any {
	n := len(e.items) - 1
	last := e.items[n]
	var zero entry[K, V]
	e.items[n] = zero
	e.items = e.items[:n]
	return last
}

// Heap is a binary heap of (key, value) entries. The entry whose key is most
// extreme under the ordering is at the top.
type Heap[K, V any] struct {
	h entries[K, V]
}

// New returns an empty heap ordered by less.
func New[K, V any](less Less[K]) *Heap[K, V] {
	return &Heap[K, V]{h: entries[K, V]{less: less}}
}

// NewMin returns an empty heap with the smallest key on top.
func NewMin[K cmp.Ordered, V any]() *Heap[K, V] {
	return New[K, V](cmp.Less[K])
}

// NewMax returns an empty heap with the largest key on top.
func NewMax[K cmp.Ordered, V any]() *Heap[K, V] {
	return New[K, V](func(a, b K) bool { return cmp.Less(b, a) })
}

// NewFrom builds a heap from parallel key and value lists.
//
// Returns:
//   - *Heap[K, V]: The heap holding keys[i] paired with vals[i].
//   - error: An InvalidArgumentError if the lists differ in length.
func NewFrom[K, V any](keys []K, vals []V, less Less[K]) (*Heap[K, V], error) {
	if len(keys) != len(vals) {
		return nil, apperrors.NewInvalidArgument("heap.NewFrom",
			"got %d keys and %d values", len(keys), len(vals))
	}
	h := New[K, V](less)
	h.h.items = make([]entry[K, V], len(keys))
	for i := range keys {
		h.h.items[i] = entry[K, V]{key: keys[i], val: vals[i]}
	}
	heap.Init(&h.h)
	return h, nil
}

// Len returns the number of entries.
func (h *Heap[K, V]) Len() int { return len(h.h.items) }

// Insert adds an entry.
func (h *Heap[K, V]) Insert(key K, val V) {
	heap.Push(&h.h, entry[K, V]{key: key, val: val})
}

// Top returns the value of the top entry without removing it.
func (h *Heap[K, V]) Top() (V, error) {
	if len(h.h.items) == 0 {
		var zero V
		return zero, apperrors.EmptyContainerError{Container: "heap", Op: "Top"}
	}
	return h.h.items[0].val, nil
}

// TopKey returns the key of the top entry without removing it.
func (h *Heap[K, V]) TopKey() (K, error) {
	if len(h.h.items) == 0 {
		var zero K
		return zero, apperrors.EmptyContainerError{Container: "heap", Op: "TopKey"}
	}
	return h.h.items[0].key, nil
}

// Pop removes the top entry and returns its value.
func (h *Heap[K, V]) Pop() (V, error) {
	if len(h.h.items) == 0 {
		var zero V
		return zero, apperrors.EmptyContainerError{Container: "heap", Op: "Pop"}
	}
	return heap.Pop(&h.h).(entry[K, V]).val, nil
}

// At returns the key and value stored in slot idx. Slot 0 is the top; the
// remaining layout is the implicit binary tree (children of i at 2i+1 and
// 2i+2) and changes as entries move.
func (h *Heap[K, V]) At(idx int) (K, V, error) {
	if idx < 0 || idx >= len(h.h.items) {
		var (
			k K
			v V
		)
		return k, v, apperrors.OutOfBoundsError{Index: idx, Len: len(h.h.items)}
	}
	e := h.h.items[idx]
	return e.key, e.val, nil
}

// ChangeKey replaces the key in slot idx and restores the heap order, moving
// the entry up when the new key is more extreme than the old one and down
// otherwise.
func (h *Heap[K, V]) ChangeKey(idx int, key K) error {
	if idx < 0 || idx >= len(h.h.items) {
		return apperrors.OutOfBoundsError{Index: idx, Len: len(h.h.items)}
	}
	h.h.items[idx].key = key
	heap.Fix(&h.h, idx)
	return nil
}
