// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// RepeatWithDelay schedules work to run once after initialDelay, then
// again delay after each run completes (§4.6's sibling: unlike
// Repeatedly, which is anchored to a fixed grid and reports how many
// grid boundaries elapsed, the next firing here is computed from the
// actual completion time of the previous one, so runs never overlap no
// matter how long work takes). This supplements Repeatedly with the
// teacher's IndDelay semantics, reimplemented on the generic Scheduler
// instead of a dedicated goroutine and timer: the reschedule is just
// another CallAt issued from inside work.
func RepeatWithDelay[T Temporal[T, D], D any](s *Scheduler[T, D, WorkFunc], initialDelay, delay D, work func()) *Stopper[T, D, WorkFunc] {
	stopper := &Stopper[T, D, WorkFunc]{}

	var run func()
	run = func() {
		current := stopper.fc
		work()
		// A Stop from inside work cancels current, which leaves its
		// handle inert; the chain ends there.
		if current.sched == nil {
			return
		}
		stopper.fc = s.CallAt(s.Now().Add(delay), WorkFunc(run))
	}
	stopper.fc = s.CallAt(s.Now().Add(initialDelay), WorkFunc(run))

	return stopper
}
