// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// PriorityQueue is the contract a Scheduler depends on: a multiset of
// call records keyed by (deadline, id) (§4.2). Alternative backings
// (pairing heap, skiplist) may be supplied in place of the default
// binary heap; the Scheduler never reaches past this interface.
type PriorityQueue[T Temporal[T, D], D any, W Work] interface {
	// Push inserts rec.
	Push(rec *Record[T, D, W])
	// PeekMin returns the lexicographically minimum (deadline, id) record
	// without removing it.
	PeekMin() (*Record[T, D, W], bool)
	// RemoveMin removes and returns the minimum record.
	RemoveMin() (*Record[T, D, W], bool)
	// Remove removes the record with the given id, if present.
	Remove(id uint64) (*Record[T, D, W], bool)
	// Len returns the number of records currently held, including any
	// not-yet-discarded canceled tombstones.
	Len() int
	// Records returns every record currently held, live or canceled, in
	// unspecified order. It exists for persistence snapshotting (§6) and
	// diagnostics; it is not on the hot path.
	Records() []*Record[T, D, W]
}

// heapQueue is the default PriorityQueue: a generic binary min-heap over
// (deadline, id). Remove finds a record by id with a linear scan, O(n),
// and then takes it out of the heap in O(log n). Go's
// container/heap defines heap.Interface in terms of methods on the
// container invoked through sort.Interface-style int indices, which
// cannot be implemented generically without boxing elements through
// any; instead this hand-rolls sift-up/sift-down directly against
// []*Record[T, D, W], the same shape as the teacher's jobQueue
// (container/heap-backed, index field kept in sync on swap) and the
// pack's NavarchProject waitHeap (deadline-then-id tie-break, index
// field for O(log n) removal).
type heapQueue[T Temporal[T, D], D any, W Work] struct {
	items []*Record[T, D, W]
}

// newHeapQueue returns an empty default PriorityQueue.
func newHeapQueue[T Temporal[T, D], D any, W Work]() *heapQueue[T, D, W] {
	return &heapQueue[T, D, W]{}
}

func (q *heapQueue[T, D, W]) Len() int { return len(q.items) }

func (q *heapQueue[T, D, W]) Push(rec *Record[T, D, W]) {
	rec.index = len(q.items)
	q.items = append(q.items, rec)
	q.siftUp(rec.index)
}

func (q *heapQueue[T, D, W]) PeekMin() (*Record[T, D, W], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

func (q *heapQueue[T, D, W]) RemoveMin() (*Record[T, D, W], bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.removeAt(0), true
}

func (q *heapQueue[T, D, W]) Remove(id uint64) (*Record[T, D, W], bool) {
	for i, rec := range q.items {
		if rec.id == id {
			return q.removeAt(i), true
		}
	}
	return nil, false
}

func (q *heapQueue[T, D, W]) Records() []*Record[T, D, W] {
	out := make([]*Record[T, D, W], len(q.items))
	copy(out, q.items)
	return out
}

func (q *heapQueue[T, D, W]) removeAt(i int) *Record[T, D, W] {
	n := len(q.items) - 1
	rec := q.items[i]
	q.items[i] = q.items[n]
	q.items[i].index = i
	q.items[n] = nil
	q.items = q.items[:n]
	rec.index = -1
	if i < n {
		q.siftDown(i)
		q.siftUp(i)
	}
	return rec
}

func (q *heapQueue[T, D, W]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(q.items[i], q.items[parent]) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *heapQueue[T, D, W]) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < n && less(q.items[left], q.items[smallest]) {
			smallest = left
		}
		if right < n && less(q.items[right], q.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		q.swap(i, smallest)
		i = smallest
	}
}

func (q *heapQueue[T, D, W]) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}
