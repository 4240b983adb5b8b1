package models

import "container/heap"

// pqEntry pairs an element with its priority. Duplicate entries for the
// same Element are permitted; the Pathfinder filters stale ones at pop time
// by comparing the popped Priority against its own best-known distance
// (decrease-key is not supported — re-inserting is simpler and fast enough
// for sparse transit graphs).
type pqEntry struct {
	Element  NodeID
	Priority float64
	index    int
}

// innerHeap implements container/heap.Interface over []*pqEntry, ordered by
// ascending Priority.
type innerHeap []*pqEntry

func (h innerHeap) Len() int            { return len(h) }
func (h innerHeap) Less(i, j int) bool  { return h[i].Priority < h[j].Priority }
func (h innerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *innerHeap) Push(x interface{}) {
	entry := x.(*pqEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *innerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}

// PriorityQueue is a binary min-heap keyed by a numeric priority. It permits
// duplicate entries for the same element; callers wanting a decrease-key
// effect simply Push again and rely on a stale-entry check on Pop.
type PriorityQueue struct {
	h innerHeap
}

// NewPriorityQueue returns an empty, ready-to-use PriorityQueue.
func NewPriorityQueue() *PriorityQueue {
	pq := &PriorityQueue{h: make(innerHeap, 0)}
	heap.Init(&pq.h)
	return pq
}

// Push inserts element with the given priority in O(log n).
func (pq *PriorityQueue) Push(element NodeID, priority float64) {
	heap.Push(&pq.h, &pqEntry{Element: element, Priority: priority})
}

// Pop removes and returns the minimum-priority element in O(log n). ok is
// false if the queue is empty. Ties are broken arbitrarily.
func (pq *PriorityQueue) Pop() (element NodeID, priority float64, ok bool) {
	if pq.h.Len() == 0 {
		return "", 0, false
	}
	entry := heap.Pop(&pq.h).(*pqEntry)
	return entry.Element, entry.Priority, true
}

// Len returns the number of entries currently in the queue, including any
// stale duplicates not yet popped.
func (pq *PriorityQueue) Len() int {
	return pq.h.Len()
}
