package taxon

import "container/heap"

// PriorityQueue is a min-heap of (payload, priority) pairs ordered by
// priority — lower priority values pop first (spec §4.7). It backs both
// the exported primitive and each ScheduledSystem's internal deadline
// queue (spec §4.8).
//
// No repo in the retrieved pack ships a reusable generic binary heap, so
// this is built directly on the standard library's container/heap, the
// idiomatic mechanism for exactly this shape.
type PriorityQueue[T any] struct {
	items pqItems[T]
}

type pqItem[T any] struct {
	payload  T
	priority float64
}

type pqItems[T any] []pqItem[T]

func (h pqItems[T]) Len() int            { return len(h) }
func (h pqItems[T]) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h pqItems[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pqItems[T]) Push(x interface{}) { *h = append(*h, x.(pqItem[T])) }
func (h *pqItems[T]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewPriorityQueue returns an empty queue.
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Push inserts payload with the given priority.
func (q *PriorityQueue[T]) Push(payload T, priority float64) {
	heap.Push(&q.items, pqItem[T]{payload: payload, priority: priority})
}

// Len reports how many items are queued.
func (q *PriorityQueue[T]) Len() int { return len(q.items) }

// Empty reports whether the queue has no items.
func (q *PriorityQueue[T]) Empty() bool { return len(q.items) == 0 }

// Peek returns the lowest-priority payload without removing it. Returns
// EmptyQueueError on an empty queue.
func (q *PriorityQueue[T]) Peek() (T, error) {
	if q.Empty() {
		var zero T
		return zero, EmptyQueueError{}
	}
	return q.items[0].payload, nil
}

// TopPriority returns the lowest priority value currently queued.
// Returns EmptyQueueError on an empty queue.
func (q *PriorityQueue[T]) TopPriority() (float64, error) {
	if q.Empty() {
		return 0, EmptyQueueError{}
	}
	return q.items[0].priority, nil
}

// Pop removes and returns the lowest-priority payload. Returns
// EmptyQueueError on an empty queue.
func (q *PriorityQueue[T]) Pop() (T, error) {
	if q.Empty() {
		var zero T
		return zero, EmptyQueueError{}
	}
	item := heap.Pop(&q.items).(pqItem[T])
	return item.payload, nil
}
