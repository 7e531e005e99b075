// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryDriver_AdvanceIsIncremental(t *testing.T) {
	d := NewMemoryDriver[Seconds, Span](0)
	var fired []Seconds

	d.Reschedule(1.0, func() { fired = append(fired, d.Now()) })
	assert.True(t, d.Advance())
	assert.Equal(t, []Seconds{1.0}, fired)
	assert.False(t, d.IsScheduled())
}

func TestMemoryDriver_AdvanceNoOpWhenNothingPending(t *testing.T) {
	d := NewMemoryDriver[Seconds, Span](0)
	assert.False(t, d.Advance())
	assert.Equal(t, Seconds(0), d.Now())
}

func TestMemoryDriver_ReschedulesReplacePending(t *testing.T) {
	d := NewMemoryDriver[Seconds, Span](0)
	var fired string

	d.Reschedule(1.0, func() { fired = "first" })
	d.Reschedule(2.0, func() { fired = "second" })

	d.Advance()
	assert.Equal(t, "second", fired)
	assert.Equal(t, Seconds(2.0), d.Now())
}

func TestMemoryDriver_AdvanceByFiresEachPendingAtItsOwnDeadline(t *testing.T) {
	d := NewMemoryDriver[Seconds, Span](0)
	var seenAt []Seconds

	d.Reschedule(1.0, func() {
		seenAt = append(seenAt, d.Now())
		d.Reschedule(3.0, func() { seenAt = append(seenAt, d.Now()) })
	})

	d.AdvanceBy(3)
	assert.Equal(t, []Seconds{1.0, 3.0}, seenAt)
	assert.Equal(t, Seconds(3.0), d.Now())
}

func TestMemoryDriver_AdvanceByWithNothingPendingStillMovesClock(t *testing.T) {
	d := NewMemoryDriver[Seconds, Span](0)
	d.AdvanceBy(5)
	assert.Equal(t, Seconds(5.0), d.Now())
}

func TestMemoryDriver_AdvanceByLeavesLaterPendingAlone(t *testing.T) {
	d := NewMemoryDriver[Seconds, Span](0)
	var fired bool

	d.Reschedule(10.0, func() { fired = true })
	d.AdvanceBy(3)

	assert.False(t, fired)
	assert.Equal(t, Seconds(3.0), d.Now())
	assert.True(t, d.IsScheduled())
}
