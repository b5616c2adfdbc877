package varray

import (
	"iter"
	"unsafe"
)

// SlotSize is the byte size of one item handle.
const SlotSize = int(unsafe.Sizeof(uintptr(0)))

// Destroyer is implemented by records that release their owned fields.
type Destroyer interface {
	Destroy()
}

// Array holds item handles in contiguous slots.
type Array[T any] struct {
	memory    []*T
	allocated int // bytes
	used      int // bytes
	index     int
}

// New returns an empty array. Nothing is preallocated.
func New[T any]() *Array[T] {
	return &Array[T]{index: -1}
}

// Of returns an array holding items in order. Nil items are skipped.
func Of[T any](items ...*T) *Array[T] {
	a := New[T]()
	for _, item := range items {
		a.Push(item)
	}
	return a
}

// Push appends item. A nil item is ignored.
func (a *Array[T]) Push(item *T) {
	if item == nil {
		return
	}

	if a.allocated-a.used < SlotSize {
		toallocate := SlotSize
		if a.allocated != 0 {
			toallocate = a.allocated * 2
		}
		grown := make([]*T, toallocate/SlotSize)
		copy(grown, a.memory)
		a.memory = grown
		a.allocated = toallocate
	}

	a.index++
	a.memory[a.index] = item
	a.used += SlotSize
}

// Len returns the number of occupied slots.
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.index + 1
}

// IsEmpty reports whether the array holds no items.
func (a *Array[T]) IsEmpty() bool {
	return a.Len() == 0
}

// Get returns the handle at i, or nil when i is out of range.
func (a *Array[T]) Get(i int) *T {
	if a == nil || i < 0 || i > a.index {
		return nil
	}
	return a.memory[i]
}

// Insert overwrites the slot at i. Out-of-range indexes are ignored.
func (a *Array[T]) Insert(i int, item *T) {
	if a == nil || i < 0 || i > a.index {
		return
	}
	a.memory[i] = item
}

// Exists reports whether any item satisfies equals against probe.
func (a *Array[T]) Exists(probe *T, equals func(left, right *T) bool) bool {
	for i := 0; i < a.Len(); i++ {
		if equals(a.memory[i], probe) {
			return true
		}
	}
	return false
}

// Clear empties the array and keeps its storage for reuse.
func (a *Array[T]) Clear() {
	if a == nil {
		return
	}
	for i := 0; i < a.Len(); i++ {
		a.memory[i] = nil
	}
	a.used = 0
	a.index = -1
}

// Free calls destructor once per occupied, non-nil slot in index order
// and then drops the backing storage. A nil destructor leaves the items
// untouched. After Free the array is empty; freeing it again does nothing.
func (a *Array[T]) Free(destructor func(*T)) {
	if a == nil {
		return
	}

	if destructor != nil {
		for i := 0; i < a.Len(); i++ {
			if item := a.memory[i]; item != nil {
				destructor(item)
			}
		}
	}

	clear(a.memory)
	a.memory = nil
	a.allocated = 0
	a.used = 0
	a.index = -1
}

// Release frees the array, destroying every item that implements
// Destroyer.
func (a *Array[T]) Release() {
	a.Free(func(item *T) {
		if d, ok := any(item).(Destroyer); ok {
			d.Destroy()
		}
	})
}

// Allocated returns the capacity of the backing storage in bytes.
func (a *Array[T]) Allocated() int {
	if a == nil {
		return 0
	}
	return a.allocated
}

// Used returns the bytes occupied by item handles.
func (a *Array[T]) Used() int {
	if a == nil {
		return 0
	}
	return a.used
}

// Cap returns the capacity in slots.
func (a *Array[T]) Cap() int {
	return a.Allocated() / SlotSize
}

// All iterates over occupied slots in index order, including slots
// overwritten with nil.
func (a *Array[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < a.Len(); i++ {
			if !yield(i, a.memory[i]) {
				return
			}
		}
	}
}

// Items returns a copy of the occupied slots.
func (a *Array[T]) Items() []*T {
	if a.Len() == 0 {
		return nil
	}
	out := make([]*T, a.Len())
	copy(out, a.memory[:a.Len()])
	return out
}
