// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import "math"

// invalidScale reports whether scale is unusable as a branch rate:
// non-positive, or not a finite real number.
func invalidScale(scale float64) bool {
	return scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0)
}

// BranchManager is the control surface for a branch (§4.6): a child
// Scheduler whose time coordinate is a linear function of its trunk's,
// pausable and rescalable mid-flight. BranchManager itself is the
// branch's Driver: its Now/Reschedule/Unschedule implement the linear
// transform and the single "trampoline" call on the trunk that drives
// the branch's next due work.
//
// BranchManager is fixed to WorkFunc rather than generic over an
// arbitrary Work: the trampoline it installs on the trunk is
// necessarily a closure synthesized by the manager, and Go gives no way
// to manufacture an arbitrary W from a func() without an adapter the
// caller would have to supply per-instantiation. A trunk that needs a
// different W can always be given a WorkFunc-typed wrapper scheduler
// alongside its real one.
type BranchManager[T Temporal[T, D], D Duration[D]] struct {
	trunk  *Scheduler[T, D, WorkFunc]
	branch *Scheduler[T, D, WorkFunc]

	anchorTrunk  T
	anchorBranch T
	scale        float64
	scaleSaved   float64
	paused       bool

	trampoline  *FutureCall[T, D, WorkFunc]
	pendingFire func()
}

// Branch creates a child scheduler of trunk whose clock starts at
// initialOffset and advances at initialScale times the trunk's rate
// (§4.6). initialScale must be positive.
func Branch[T Temporal[T, D], D Duration[D]](trunk *Scheduler[T, D, WorkFunc], initialScale float64, initialOffset T) (*BranchManager[T, D], *Scheduler[T, D, WorkFunc], error) {
	if invalidScale(initialScale) {
		return nil, nil, ErrInvalidScale
	}
	mgr := &BranchManager[T, D]{
		trunk:        trunk,
		anchorTrunk:  trunk.Now(),
		anchorBranch: initialOffset,
		scale:        initialScale,
	}
	mgr.branch = NewScheduler[T, D, WorkFunc](mgr)
	return mgr, mgr.branch, nil
}

// Now implements Driver: the branch's current time per the linear
// transform anchored at the manager's last recalibration.
func (m *BranchManager[T, D]) Now() T {
	return m.branchNow(m.trunk.Now())
}

func (m *BranchManager[T, D]) branchNow(trunkNow T) T {
	if m.scale == 0 {
		return m.anchorBranch
	}
	elapsedTrunk := trunkNow.Sub(m.anchorTrunk)
	return m.anchorBranch.Add(elapsedTrunk.Scale(m.scale))
}

func (m *BranchManager[T, D]) branchToTrunk(deadlineBranch T) T {
	elapsedBranch := deadlineBranch.Sub(m.anchorBranch)
	return m.anchorTrunk.Add(elapsedBranch.Scale(1 / m.scale))
}

// Reschedule implements Driver: it records the branch's fire callback
// and installs a trampoline on the trunk at the corresponding trunk
// deadline, unless the branch is paused or scaled to zero.
func (m *BranchManager[T, D]) Reschedule(deadlineBranch T, fire func()) {
	m.pendingFire = fire
	m.installTrampoline(deadlineBranch)
}

// Unschedule implements Driver: it cancels any pending trampoline.
func (m *BranchManager[T, D]) Unschedule() {
	m.pendingFire = nil
	m.cancelTrampoline()
}

func (m *BranchManager[T, D]) installTrampoline(deadlineBranch T) {
	m.cancelTrampoline()
	if m.paused || m.scale == 0 {
		return
	}
	deadlineTrunk := m.branchToTrunk(deadlineBranch)
	m.trampoline = m.trunk.CallAt(deadlineTrunk, WorkFunc(func() {
		m.trampoline = nil
		fire := m.pendingFire
		m.pendingFire = nil
		if fire != nil {
			fire()
		}
	}))
}

func (m *BranchManager[T, D]) cancelTrampoline() {
	if m.trampoline != nil {
		m.trampoline.Cancel()
		m.trampoline = nil
	}
}

// Pause freezes the branch's clock (§4.6): branch_now becomes constant
// and no trampoline is armed until Unpause. A no-op if already paused.
func (m *BranchManager[T, D]) Pause() {
	if m.paused {
		return
	}
	now := m.trunk.Now()
	m.anchorBranch = m.branchNow(now)
	m.anchorTrunk = now
	m.scaleSaved = m.scale
	m.scale = 0
	m.paused = true
	m.branch.Resync()
}

// Unpause resumes the branch's clock at the scale in effect before Pause
// (or the scale set via ChangeScale while paused), continuous with the
// value it held throughout the pause. A no-op if not paused.
func (m *BranchManager[T, D]) Unpause() {
	if !m.paused {
		return
	}
	m.anchorTrunk = m.trunk.Now()
	// anchorBranch is unchanged: the branch clock held steady at exactly
	// this value for the whole pause.
	m.scale = m.scaleSaved
	m.paused = false
	m.branch.Resync()
}

// Paused reports whether the branch is currently paused.
func (m *BranchManager[T, D]) Paused() bool { return m.paused }

// ChangeScale sets the branch's rate relative to its trunk to newScale,
// continuous with its current value (§4.6). While paused, the new scale
// takes effect on the next Unpause rather than immediately. newScale
// must be a positive, finite value; changeScale(0), a negative scale, or
// a non-finite scale (NaN or +/-Inf) is rejected (ErrInvalidScale), since
// the only sanctioned path to a frozen branch clock is Pause, which also
// remembers the scale to restore.
func (m *BranchManager[T, D]) ChangeScale(newScale float64) error {
	if invalidScale(newScale) {
		return ErrInvalidScale
	}
	now := m.trunk.Now()
	m.anchorBranch = m.branchNow(now)
	m.anchorTrunk = now
	if m.paused {
		m.scaleSaved = newScale
		return nil
	}
	m.scale = newScale
	m.branch.Resync()
	return nil
}
