// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// Scheduler owns a Driver and a PriorityQueue (§3). It hands out
// FutureCall handles, re-arms its driver whenever the earliest deadline
// changes, and fires all due calls on each wake-up.
//
// Unlike the teacher's Scheduler, which runs its own goroutine and
// serializes access over channels (add/remove/timer selects) so it can
// be driven from many goroutines at once, Scheduler here is a plain,
// single-threaded cooperative state machine (§5): every method must be
// called from the same execution context that drives the root Driver,
// and none of them take a lock.
type Scheduler[T Temporal[T, D], D any, W Work] struct {
	driver   Driver[T]
	queue    PriorityQueue[T, D, W]
	nextID   uint64
	armedFor *T
	firing   bool
}

// NewScheduler returns a Scheduler driven by driver, with queue defaulting
// to a binary heap unless overridden with WithQueue.
func NewScheduler[T Temporal[T, D], D any, W Work](driver Driver[T], opts ...Option[T, D, W]) *Scheduler[T, D, W] {
	s := &Scheduler[T, D, W]{
		driver: driver,
		queue:  newHeapQueue[T, D, W](),
	}
	for _, opt := range opts {
		opt.apply(s)
	}
	return s
}

// Now returns the scheduler's current time, delegating to its driver.
func (s *Scheduler[T, D, W]) Now() T {
	return s.driver.Now()
}

// Count returns the number of records currently held by the queue,
// including canceled tombstones not yet discarded.
func (s *Scheduler[T, D, W]) Count() int {
	return s.queue.Len()
}

// CallAt schedules work to run at when (§4.3). A when at or before Now()
// is not an error (§7, ScheduleInPast): it simply fires on the next
// wake-up. Reentrant calls from inside a firing Work are inserted
// normally and, if due at or before the current tick's time, are picked
// up within the same fire pass (§5).
func (s *Scheduler[T, D, W]) CallAt(when T, work W) *FutureCall[T, D, W] {
	id := s.nextID
	s.nextID++

	rec := &Record[T, D, W]{id: id, deadline: when, work: work}
	s.queue.Push(rec)

	if !s.firing {
		s.syncArming()
	}

	return &FutureCall[T, D, W]{id: id, deadline: when, sched: s}
}

// cancel marks the record with the given id canceled and removes it from
// the queue. A no-op if the record has already fired or been canceled.
func (s *Scheduler[T, D, W]) cancel(id uint64) {
	rec, ok := s.queue.Remove(id)
	if !ok {
		return
	}
	rec.canceled = true
	if !s.firing {
		s.syncArming()
	}
}

// Resync forces the scheduler to recompute its arming against the
// driver from scratch, ignoring its cached view of what it last armed.
// Ordinary callers never need this: CallAt/cancel keep the cache
// consistent on their own. It exists for a driver whose underlying
// wake-up was changed out from under the scheduler by something other
// than the scheduler itself — exactly what a BranchManager does to its
// branch's synthetic driver on pause/unpause/changeScale.
func (s *Scheduler[T, D, W]) Resync() {
	s.armedFor = nil
	if !s.firing {
		s.syncArming()
	}
}

// syncArming re-arms or unschedules the driver so that it matches the
// invariant: armed_for == the current queue minimum (or None if empty).
// Only called while !firing; the fire routine re-arms unconditionally
// exactly once on exit instead (§3's "re-arms exactly once" invariant).
func (s *Scheduler[T, D, W]) syncArming() {
	min, ok := s.queue.PeekMin()
	if !ok {
		if s.armedFor != nil {
			s.driver.Unschedule()
			s.armedFor = nil
		}
		return
	}
	if s.armedFor != nil && (*s.armedFor).Equal(min.deadline) {
		return
	}
	deadline := min.deadline
	s.armedFor = &deadline
	s.driver.Reschedule(deadline, s.fire)
}

// fire is the Scheduler's wake-up routine (§4.3): it fires every call
// whose deadline has passed, in (deadline, id) order, including any
// reentrantly scheduled during the same pass, then re-arms once.
//
// A panic inside a Work is not recovered here: it propagates out through
// the driver's invocation of fire, per the propagation policy in §7. The
// record that panicked has already been removed from the queue, so the
// remaining due work stays queued and fires on the next wake-up.
func (s *Scheduler[T, D, W]) fire() {
	s.firing = true
	defer func() {
		s.firing = false
		s.armedFor = nil
		s.syncArming()
	}()
	t := s.driver.Now()

	for {
		rec, ok := s.queue.PeekMin()
		if !ok || !lte[T, D](rec.deadline, t) {
			break
		}
		s.queue.RemoveMin()
		if rec.canceled {
			continue
		}
		rec.work.Run()
	}
}
