// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// Record is a queued call: a tuple of (id, deadline, work, canceled) per
// spec §3. The id is assigned by the owning Scheduler and establishes a
// deterministic FIFO tie-break among records with equal deadlines. A
// Record's fields are mutated only by its owning Scheduler/queue; the
// exported accessors let alternative PriorityQueue implementations (and
// PersistableWork glue) inspect it without reaching into package
// internals.
type Record[T Temporal[T, D], D any, W Work] struct {
	id       uint64
	deadline T
	work     W
	canceled bool

	// index is the position of the record in a heap-backed queue. Queue
	// implementations that don't need it may ignore it; the default heap
	// keeps it in sync on every push, swap and removal, but does not use
	// it to look records up by id (its Remove scans for the id).
	index int
}

// ID returns the record's creation-order id.
func (r *Record[T, D, W]) ID() uint64 { return r.id }

// Deadline returns the record's scheduled time.
func (r *Record[T, D, W]) Deadline() T { return r.deadline }

// Work returns the record's callable.
func (r *Record[T, D, W]) Work() W { return r.work }

// Canceled reports whether the record has been canceled.
func (r *Record[T, D, W]) Canceled() bool { return r.canceled }

// less orders two records by (deadline, id), the scheduler's one
// observable, testable tie-break (§4.3).
func less[T Temporal[T, D], D any, W Work](a, b *Record[T, D, W]) bool {
	if a.deadline.Equal(b.deadline) {
		return a.id < b.id
	}
	return a.deadline.Before(b.deadline)
}
