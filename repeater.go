// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// RepeaterFunc is the callable a Repeater invokes on each firing. steps
// reports how many boundaries of the rule's sequence have elapsed since
// the previous firing (normally 1; greater than 1 after the scheduler
// falls behind, e.g. a paused Branch or an overslept SleepDriver).
type RepeaterFunc func(steps uint64)

// Stopper is the capability returned by Repeatedly: stopping the
// recurring chain of calls it represents.
type Stopper[T Temporal[T, D], D any, W Work] struct {
	fc *FutureCall[T, D, W]
}

// Stop cancels the repeater's next pending firing; no further firings
// occur. Idempotent.
func (s *Stopper[T, D, W]) Stop() {
	s.fc.Cancel()
}

// repeaterState holds the one mutable cursor a running Repeater needs:
// reportedUpTo, the grid-aligned point up through which steps have
// already been reported to work. It starts at reference and is advanced
// by exactly rule.StepsBetween(reportedUpTo, tFire) boundaries on every
// firing, which is what keeps step counts correct under late or uneven
// firing (a caller that instead used the literal previous fire time, or
// skipped the cursor and used the scheduled target directly, double
// counts or drifts whenever a firing is early, late, or itself delayed
// by a paused Branch).
type repeaterState[T Temporal[T, D], D any] struct {
	reportedUpTo T
	reference    T
	rule         RecurrenceRule[T]
}

// Repeatedly schedules work to run every time rule.Next advances,
// starting from reference (§4.5/§4.6). The returned Stopper cancels the
// chain; work's steps argument is normally 1 and only ever more when a
// firing has been delayed past one or more additional boundaries.
func Repeatedly[T Temporal[T, D], D any](s *Scheduler[T, D, WorkFunc], rule RecurrenceRule[T], reference T, work RepeaterFunc) *Stopper[T, D, WorkFunc] {
	st := &repeaterState[T, D]{reportedUpTo: reference, reference: reference, rule: rule}
	stopper := &Stopper[T, D, WorkFunc]{}

	var scheduleNext func()
	scheduleNext = func() {
		next := rule.Next(st.reportedUpTo, st.reference)
		stopper.fc = s.CallAt(next, WorkFunc(func() {
			tFire := s.Now()
			steps := rule.StepsBetween(st.reportedUpTo, tFire)
			if steps == 0 {
				// This call was due at a boundary after reportedUpTo, so
				// at least one boundary has elapsed even when rounding in
				// StepsBetween reports none.
				steps = 1
			}
			st.reportedUpTo = advanceCursor(rule, st.reportedUpTo, st.reference, steps)
			if st.reportedUpTo.Before(next) {
				// The boundary this call fired for is reported now; keep
				// rounding from scheduling it a second time.
				st.reportedUpTo = next
			}
			scheduleNext()
			work(steps)
		}))
	}
	scheduleNext()

	return stopper
}

// advanceCursor moves boundary forward by steps boundaries of rule's
// sequence anchored at reference, using rule's FastAdvance capability in
// O(1) if it implements one, or repeated Next calls otherwise.
func advanceCursor[T any](rule RecurrenceRule[T], boundary, reference T, steps uint64) T {
	if fa, ok := rule.(FastAdvance[T]); ok {
		return fa.Advance(boundary, reference, steps)
	}
	for i := uint64(0); i < steps; i++ {
		boundary = rule.Next(boundary, reference)
	}
	return boundary
}
