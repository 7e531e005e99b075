// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// FutureCall is the public capability returned from scheduling (§3): a
// handle that can report its own deadline and cancel the call it
// represents. After cancellation, or after the call has fired, the
// handle is inert and repeated Cancel calls are no-ops.
type FutureCall[T Temporal[T, D], D any, W Work] struct {
	id       uint64
	deadline T
	sched    *Scheduler[T, D, W]
}

// When returns the call's scheduled time. It is fixed at creation and
// remains valid even after the call has fired or been canceled.
func (fc *FutureCall[T, D, W]) When() T { return fc.deadline }

// Cancel marks the call canceled and removes it from the scheduler, if
// it hasn't already fired or been canceled. Safe to call from inside a
// firing Work, including the work belonging to this very call (a no-op:
// the record has already been removed from the queue by then).
func (fc *FutureCall[T, D, W]) Cancel() {
	if fc.sched == nil {
		return
	}
	fc.sched.cancel(fc.id)
	fc.sched = nil
}
