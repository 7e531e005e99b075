// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import (
	"time"

	"github.com/cnotch/fritter/cron"
)

// CronRule adapts a cron.Expression into a RecurrenceRule[time.Time],
// supplementing the spec's bespoke CivilRule with the teacher's own
// full cron-expression engine: anything CivilRule's weekly/monthly/
// yearly shape cannot express (specific hours, day-of-week/day-of-month
// combinations, "L"/"W" modifiers) is reachable through a cron
// expression instead, without retiring the engine the teacher already
// had.
type CronRule struct {
	expr *cron.Expression
}

// NewCronRule parses a cron expression into a CronRule.
func NewCronRule(expression string) (*CronRule, error) {
	expr, err := cron.Parse(expression)
	if err != nil {
		return nil, err
	}
	return &CronRule{expr: expr}, nil
}

// Next returns the earliest cron match strictly after after. reference is
// unused: a cron expression is itself an absolute grid (e.g. "every hour
// on the hour"), unlike EveryInterval/CivilRule which are anchored to an
// arbitrary starting point.
func (c *CronRule) Next(after, reference time.Time) time.Time {
	return c.expr.Next(after)
}

// StepsBetween returns how many cron matches fall in (earlier, later].
func (c *CronRule) StepsBetween(earlier, later time.Time) uint64 {
	if !later.After(earlier) {
		return 0
	}
	var steps uint64
	t := earlier
	for {
		next := c.expr.Next(t)
		if next.IsZero() || next.After(later) {
			return steps
		}
		steps++
		t = next
	}
}
