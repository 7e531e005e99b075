// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBranch_PauseAndUnpause(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)

	mgr, branch, err := Branch[Seconds](trunk, 1.0, 0.0)
	assert.NoError(t, err)

	var order []string
	branch.CallAt(1.0, WorkFunc(func() { order = append(order, "X") }))
	branch.CallAt(2.0, WorkFunc(func() { order = append(order, "Y") }))
	branch.CallAt(3.0, WorkFunc(func() { order = append(order, "Z") }))
	trunk.CallAt(1.0, WorkFunc(func() { order = append(order, "P") }))
	trunk.CallAt(2.0, WorkFunc(func() { order = append(order, "Q") }))
	trunk.CallAt(3.0, WorkFunc(func() { order = append(order, "R") }))

	driver.Advance()
	assert.Equal(t, []string{"X", "P"}, order)
	assert.Equal(t, Seconds(1.0), trunk.Now())
	assert.Equal(t, Seconds(1.0), branch.Now())

	mgr.Pause()
	branchNowAtPause := branch.Now()

	driver.Advance()
	assert.Equal(t, []string{"X", "P", "Q"}, order)
	assert.Equal(t, Seconds(2.0), trunk.Now())
	assert.Equal(t, branchNowAtPause, branch.Now())
	assert.True(t, mgr.Paused())

	mgr.Unpause()
	assert.False(t, mgr.Paused())

	driver.Advance()
	assert.Equal(t, []string{"X", "P", "Q", "R", "Y"}, order)
	assert.Equal(t, Seconds(3.0), trunk.Now())
	assert.Equal(t, Seconds(2.0), branch.Now())

	driver.Advance()
	assert.Equal(t, []string{"X", "P", "Q", "R", "Y", "Z"}, order)
	assert.Equal(t, Seconds(4.0), trunk.Now())
	assert.Equal(t, Seconds(3.0), branch.Now())
}

func TestBranch_ScaleTriplesRate(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)

	_, branch, err := Branch[Seconds](trunk, 3.0, 0.0)
	assert.NoError(t, err)

	var branchTimes []Seconds
	branch.CallAt(1.0, WorkFunc(func() { branchTimes = append(branchTimes, branch.Now()) }))
	branch.CallAt(2.0, WorkFunc(func() { branchTimes = append(branchTimes, branch.Now()) }))
	branch.CallAt(3.0, WorkFunc(func() { branchTimes = append(branchTimes, branch.Now()) }))

	driver.Advance()
	assert.InDelta(t, float64(1)/3, float64(trunk.Now()), 1e-9)
	driver.Advance()
	assert.InDelta(t, float64(2)/3, float64(trunk.Now()), 1e-9)
	driver.Advance()
	assert.InDelta(t, float64(1), float64(trunk.Now()), 1e-9)

	assert.Equal(t, []Seconds{1.0, 2.0, 3.0}, branchTimes)
}

func TestBranch_ChangeScaleIsContinuous(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)

	mgr, branch, err := Branch[Seconds](trunk, 1.0, 0.0)
	assert.NoError(t, err)

	before := branch.Now()
	err = mgr.ChangeScale(2.0)
	assert.NoError(t, err)
	after := branch.Now()
	assert.Equal(t, before, after)
}

func TestBranch_ChangeScaleRejectsNonPositive(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)
	mgr, _, err := Branch[Seconds](trunk, 1.0, 0.0)
	assert.NoError(t, err)

	assert.ErrorIs(t, mgr.ChangeScale(0), ErrInvalidScale)
	assert.ErrorIs(t, mgr.ChangeScale(-1), ErrInvalidScale)
}

func TestBranch_ChangeScaleRejectsNonFinite(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)
	mgr, _, err := Branch[Seconds](trunk, 1.0, 0.0)
	assert.NoError(t, err)

	assert.ErrorIs(t, mgr.ChangeScale(math.NaN()), ErrInvalidScale)
	assert.ErrorIs(t, mgr.ChangeScale(math.Inf(1)), ErrInvalidScale)
	assert.ErrorIs(t, mgr.ChangeScale(math.Inf(-1)), ErrInvalidScale)
}

func TestBranch_RejectsNonPositiveInitialScale(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)

	_, _, err := Branch[Seconds](trunk, 0, 0.0)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestBranch_RejectsNonFiniteInitialScale(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)

	_, _, err := Branch[Seconds](trunk, math.NaN(), 0.0)
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, _, err = Branch[Seconds](trunk, math.Inf(1), 0.0)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestBranch_PausedClockNeverFires(t *testing.T) {
	driver := NewMemoryDriver[Seconds, Span](0)
	trunk := NewScheduler[Seconds, Span, WorkFunc](driver)
	mgr, branch, err := Branch[Seconds](trunk, 1.0, 0.0)
	assert.NoError(t, err)

	var ran bool
	branch.CallAt(1.0, WorkFunc(func() { ran = true }))
	mgr.Pause()

	driver.AdvanceBy(10)
	assert.False(t, ran)
	assert.Equal(t, Seconds(0.0), branch.Now())
}
