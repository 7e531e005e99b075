// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// MemoryDriver is an in-memory Driver for tests and simulations (§6): it
// tracks a single pending (deadline, fire) pair and never advances time
// on its own. Time only moves when Advance or AdvanceBy is called.
//
// Each call to Advance fires at most one pending wake-up, with Now() set
// to exactly that wake-up's own deadline rather than jumped straight to
// the target time — matching "moves to the next pending deadline" (§6).
// A caller that wants to reach a specific target time in one shot should
// loop Advance until IsScheduled reports false or the pending deadline
// exceeds the target; AdvanceBy(delta) does exactly that for the common
// case of advancing by a fixed span.
type MemoryDriver[T Temporal[T, D], D any] struct {
	now     T
	pending bool
	deadline T
	fire    func()
}

// NewMemoryDriver returns a MemoryDriver whose clock starts at start.
func NewMemoryDriver[T Temporal[T, D], D any](start T) *MemoryDriver[T, D] {
	return &MemoryDriver[T, D]{now: start}
}

// Now returns the driver's current simulated time.
func (d *MemoryDriver[T, D]) Now() T { return d.now }

// Reschedule installs the single pending wake-up, replacing any previous
// one, per the Driver contract.
func (d *MemoryDriver[T, D]) Reschedule(deadline T, fire func()) {
	d.pending = true
	d.deadline = deadline
	d.fire = fire
}

// Unschedule clears the pending wake-up, if any.
func (d *MemoryDriver[T, D]) Unschedule() {
	d.pending = false
	d.fire = nil
}

// IsScheduled reports whether a wake-up is currently pending.
func (d *MemoryDriver[T, D]) IsScheduled() bool { return d.pending }

// Advance fires the pending wake-up, first moving the clock forward to
// its deadline (the clock is left unchanged if that deadline has already
// passed). It is a no-op if nothing is scheduled. Returns whether a
// wake-up fired.
func (d *MemoryDriver[T, D]) Advance() bool {
	if !d.pending {
		return false
	}
	if d.now.Before(d.deadline) {
		d.now = d.deadline
	}
	fire := d.fire
	d.pending = false
	d.fire = nil
	fire()
	return true
}

// AdvanceBy advances the clock by delta, firing every pending wake-up
// whose deadline falls at or before the resulting time, each at its own
// deadline, in order; then (if nothing remains pending, or the next
// pending deadline is still beyond the target) moves the clock the rest
// of the way to target without firing anything further.
func (d *MemoryDriver[T, D]) AdvanceBy(delta D) {
	target := d.now.Add(delta)
	for d.pending && lte[T, D](d.deadline, target) {
		d.Advance()
	}
	if d.now.Before(target) {
		d.now = target
	}
}
