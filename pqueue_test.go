package taxon

import "testing"

func TestPriorityQueueOrdering(t *testing.T) {
	tests := []struct {
		name     string
		pushes   []float64
		wantPops []float64
	}{
		{"ascending", []float64{1, 2, 3}, []float64{1, 2, 3}},
		{"descending", []float64{3, 2, 1}, []float64{1, 2, 3}},
		{"ties", []float64{2, 1, 1}, []float64{1, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewPriorityQueue[string]()
			for i, p := range tt.pushes {
				q.Push("item", p)
				_ = i
			}
			for _, want := range tt.wantPops {
				got, err := q.TopPriority()
				if err != nil {
					t.Fatalf("TopPriority() error = %v", err)
				}
				if got != want {
					t.Errorf("TopPriority() = %v, want %v", got, want)
				}
				if _, err := q.Pop(); err != nil {
					t.Fatalf("Pop() error = %v", err)
				}
			}
			if !q.Empty() {
				t.Errorf("expected queue empty after draining all pushes")
			}
		})
	}
}

func TestPriorityQueueEmptyErrors(t *testing.T) {
	q := NewPriorityQueue[int]()

	if _, err := q.Peek(); err == nil {
		t.Errorf("expected EmptyQueueError from Peek on empty queue")
	}
	if _, err := q.TopPriority(); err == nil {
		t.Errorf("expected EmptyQueueError from TopPriority on empty queue")
	}
	if _, err := q.Pop(); err == nil {
		t.Errorf("expected EmptyQueueError from Pop on empty queue")
	}
}

func TestPriorityQueuePeekDoesNotRemove(t *testing.T) {
	q := NewPriorityQueue[int]()
	q.Push(42, 1.0)

	if _, err := q.Peek(); err != nil {
		t.Fatalf("Peek() error = %v", err)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d after Peek, want 1", q.Len())
	}
}
