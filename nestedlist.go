package taxon

// NestedList is an owned, growable array of T, addressed as the "inner"
// half of spec §2's "array of owned dynamic arrays, addressed by
// (outer, inner)" primitive. A ListPool keeps one NestedList per entity
// record; the "outer" address is that record's ComponentIndex inside the
// pool, the "inner" address is the element index within this list.
//
// Grounded on the teacher's entity.go (AddComponentWithValue indexing
// into a table row via reflect.Value), generalized from reflect-driven
// indexing to a compile-time-known T. Because NestedList is a plain
// value wrapping a slice header, moving one between pool rows (as
// ListPool.UpdateTaxon does) transfers ownership of the backing array
// without copying elements — exactly what spec §4.3 requires.
type NestedList[T any] struct {
	data []T
}

// Length returns the number of elements currently stored.
func (l *NestedList[T]) Length() int { return len(l.data) }

// Read returns the element at i.
func (l *NestedList[T]) Read(i int) T { return l.data[i] }

// Write overwrites the element at i.
func (l *NestedList[T]) Write(i int, v T) { l.data[i] = v }

// Append grows the list by one element.
func (l *NestedList[T]) Append(v T) { l.data = append(l.data, v) }

// RemoveAtSwapBack removes the element at i in O(1) by moving the last
// element into its place, preserving every other element (spec §8
// boundary property).
func (l *NestedList[T]) RemoveAtSwapBack(i int) {
	last := len(l.data) - 1
	l.data[i] = l.data[last]
	var zero T
	l.data[last] = zero
	l.data = l.data[:last]
}

// Clear empties the list without releasing its backing array.
func (l *NestedList[T]) Clear() {
	l.data = l.data[:0]
}

// All returns a copy-free view of the current backing elements, valid
// until the next mutating call.
func (l *NestedList[T]) All() []T { return l.data }

// cloneNestedList produces an independent copy of src — used when
// instantiating a prototype's list component, since spec §4.3 requires
// "copies elements one by one" rather than sharing the prototype's
// backing array.
func cloneNestedList[T any](src *NestedList[T]) NestedList[T] {
	out := NestedList[T]{data: make([]T, len(src.data))}
	copy(out.data, src.data)
	return out
}
