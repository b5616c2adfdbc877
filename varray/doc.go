// Package varray provides a growable, index-addressable array of item
// handles.
//
// An item handle is a *T pointing at a heap-allocated record. The array
// owns its backing storage but not the records it references; whether the
// records are destroyed is decided when the array is freed:
//
//	arr := varray.New[result.Suggestion]()
//	arr.Push(sug)
//
//	arr.Free(nil)                       // drop storage, leave records alone
//	arr.Free((*result.Suggestion).Destroy) // destroy every record first
//	arr.Release()                       // destroy records that implement Destroyer
//
// # Growth
//
// Capacity is tracked in bytes as a multiple of SlotSize. When less than
// one slot is free a push doubles the capacity, or seeds it with a single
// slot when nothing has been allocated yet. Storage never shrinks; Clear
// keeps it for reuse.
//
// # Out-of-range Access
//
// Get and Insert outside [0, Len()) are not errors: Get returns nil and
// Insert does nothing. Insert overwrites an existing slot and never shifts
// elements.
//
// # Nil Arrays
//
// Len, IsEmpty, Get, Exists and Free accept a nil *Array and treat it as
// empty.
//
// # Thread Safety
//
// Array has no internal locking. It must have a single owner at a time.
package varray
